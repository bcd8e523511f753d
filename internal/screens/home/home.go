package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/curriculum"
	"github.com/abhisek/mathgenius/internal/router"
	"github.com/abhisek/mathgenius/internal/screen"
	"github.com/abhisek/mathgenius/internal/screens/history"
	sessionscreen "github.com/abhisek/mathgenius/internal/screens/session"
	"github.com/abhisek/mathgenius/internal/session"
	"github.com/abhisek/mathgenius/internal/ui/components"
	"github.com/abhisek/mathgenius/internal/ui/theme"
)

// calibrationMsg carries the learner's current calibration.
type calibrationMsg struct {
	Result calibration.Result
	Err    error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps session.Deps
	opts session.Options

	menu        components.Menu
	calibration *calibration.Result
	loadErr     error
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen. opts are the defaults for every session
// started from it; the menu only changes the focus category.
func New(deps session.Deps, opts session.Options) *HomeScreen {
	if deps.Calibrator == nil {
		deps.Calibrator = calibration.NewCalibrator(calibration.DefaultConfig())
	}
	h := &HomeScreen{deps: deps, opts: opts}

	items := []components.MenuItem{
		{Label: "START PRACTICE", Action: h.start(opts.Focus)},
	}
	for _, c := range curriculum.AllCategories() {
		items = append(items, components.MenuItem{
			Label:  "Focus: " + c.DisplayName(),
			Action: h.start(c),
		})
	}
	if deps.Events != nil {
		items = append(items, components.MenuItem{Label: "HISTORY", Action: h.history})
	}
	items = append(items, components.MenuItem{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }})
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) start(focus curriculum.Category) func() tea.Cmd {
	return func() tea.Cmd {
		opts := h.opts
		opts.Focus = focus
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: sessionscreen.New(h.deps, opts)}
		}
	}
}

func (h *HomeScreen) history() tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: history.New(h.deps.Events, h.opts.LearnerID)}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadCalibration()
}

// Resume reloads the calibration after a session.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadCalibration()
}

func (h *HomeScreen) loadCalibration() tea.Cmd {
	repo, cal, learner := h.deps.Observations, h.deps.Calibrator, h.opts.LearnerID
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		obs, err := repo.RecentWindow(context.Background(), learner, nil, cal.Config().Window)
		if err != nil {
			return calibrationMsg{Err: err}
		}
		return calibrationMsg{Result: cal.Recommend(obs)}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(calibrationMsg); ok {
		h.loadErr = msg.Err
		if msg.Err == nil {
			res := msg.Result
			h.calibration = &res
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var sections []string
	sections = append(sections, center.Render(RenderMascot(mascotFor(h.calibration))))
	sections = append(sections, center.Inherit(theme.Title).Render(
		fmt.Sprintf("Hi %s! Ready for some %s math?", h.opts.LearnerID, h.opts.Grade.DisplayName())))
	sections = append(sections, h.renderCalibration(width))
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return strings.Join(sections, "\n\n")
}

func (h *HomeScreen) renderCalibration(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case h.loadErr != nil:
		return center.Foreground(theme.Error).Render("Could not load your progress: " + h.loadErr.Error())
	case h.calibration == nil || h.calibration.Sample == 0:
		return center.Inherit(theme.Subtitle).Render("Answer a few questions and I'll find the right level for you.")
	}

	res := h.calibration
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("Level: %s   Recent accuracy: %.0f%%",
			theme.TierBadge(res.RecommendedTier), res.Accuracy*100)),
	}
	if len(res.WeakCategories) > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Render("Let's practice: "+categoryList(res.WeakCategories)))
	}
	if len(res.StrongCategories) > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Success).Render("Going great: "+categoryList(res.StrongCategories)))
	}
	card := components.Card(strings.Join(lines, "\n"), components.ContentWidth(width))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func categoryList(cats []curriculum.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.DisplayName()
	}
	return strings.Join(names, ", ")
}

func (h *HomeScreen) Title() string {
	return "Home"
}
