package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/calibration"
	"github.com/abhisek/mathgenius/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if all, _ := cmd.Flags().GetBool("all"); all {
			learners, err := st.ObservationRepo().Learners(ctx)
			if err != nil {
				return fmt.Errorf("list learners: %w", err)
			}
			if len(learners) == 0 {
				fmt.Println("No learners yet.")
			}
			for _, l := range learners {
				fmt.Println(l)
			}
			return nil
		}

		obsRepo := st.ObservationRepo()
		totals, err := obsRepo.CategoryAccuracy(ctx, cfg.Learner)
		if err != nil {
			return fmt.Errorf("category accuracy: %w", err)
		}
		recent, err := obsRepo.RecentWindow(ctx, cfg.Learner, nil, cfg.Calibration.Window)
		if err != nil {
			return fmt.Errorf("load observations: %w", err)
		}
		sessionsLimit, _ := cmd.Flags().GetInt("sessions")
		sessions, err := st.EventRepo().QuerySessionEvents(ctx, cfg.Learner, store.QueryOpts{Limit: sessionsLimit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		fmt.Printf("Learner: %s\n\n", cfg.Learner)
		if len(totals) == 0 {
			fmt.Println("No answers recorded yet. Run `mathgenius play` to start.")
			return nil
		}

		fmt.Println("All-time by category")
		fmt.Printf("%-18s  %8s  %8s  %8s\n", "Category", "Attempts", "Correct", "Accuracy")
		fmt.Println(strings.Repeat("─", 48))
		var attempts, correct int
		for _, c := range totals {
			attempts += c.Attempts
			correct += c.Correct
			fmt.Printf("%-18s  %8d  %8d  %7.0f%%\n", c.Category.DisplayName(), c.Attempts, c.Correct, c.Accuracy*100)
		}
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-18s  %8d  %8d  %7.0f%%\n\n", "Total", attempts, correct, percent(correct, attempts))

		res := calibration.NewCalibrator(cfg.Calibration).Recommend(recent)
		fmt.Printf("Current level: %s (last %d answers)\n", res.RecommendedTier, res.Sample)
		if len(res.WeakCategories) > 0 {
			fmt.Printf("Needs work:    %s\n", joinCategories(res.WeakCategories))
		}
		if len(res.StrongCategories) > 0 {
			fmt.Printf("Strong:        %s\n", joinCategories(res.StrongCategories))
		}

		printSessions(sessions)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("all", false, "List every learner with recorded answers")
	statsCmd.Flags().Int("sessions", 10, "Number of recent session events to show")
}

func printSessions(events []store.SessionEvent) {
	var ended []store.SessionEvent
	for _, e := range events {
		if e.Action == store.SessionActionEnd {
			ended = append(ended, e)
		}
	}
	if len(ended) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Recent sessions")
	fmt.Printf("%-16s  %-6s  %-8s  %9s  %8s\n", "Ended", "Grade", "Tier", "Score", "Duration")
	fmt.Println(strings.Repeat("─", 55))
	for _, e := range ended {
		fmt.Printf("%-16s  %-6s  %-8s  %4d/%-4d  %7dm\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Grade, e.Tier,
			e.CorrectAnswers, e.QuestionsServed,
			e.DurationSecs/60,
		)
	}
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) * 100 / float64(d)
}
