package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathgenius/internal/router"
	"github.com/abhisek/mathgenius/internal/screen"
	"github.com/abhisek/mathgenius/internal/screens/home"
	"github.com/abhisek/mathgenius/internal/session"
	"github.com/abhisek/mathgenius/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	// base is the learner and grade; detail is set by screens.
	base   string
	detail string
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(deps session.Deps, opts session.Options) AppModel {
	return AppModel{
		router: router.New(home.New(deps, opts)),
		base:   fmt.Sprintf("%s · %s", opts.LearnerID, opts.Grade.DisplayName()),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.StatusMsg:
		m.detail = msg.Text
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if modal, ok := m.router.Active().(screen.Modal); ok && modal.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current window size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok && len(p.KeyHints()) > 0 {
		footerHints = append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) status() string {
	if m.detail == "" {
		return m.base + "  "
	}
	return m.base + " · " + m.detail + "  "
}

// Run starts the Bubble Tea program on the home screen. Sessions started
// from it use deps and opts.
func Run(ctx context.Context, deps session.Deps, opts session.Options) error {
	p := tea.NewProgram(newAppModel(deps, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
