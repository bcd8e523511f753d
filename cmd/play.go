package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/app"
	"github.com/abhisek/mathgenius/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the practice app",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().String("grade", "", "Grade: prek, k or 1-12 (default from config)")
	playCmd.Flags().String("focus", "", "Category to emphasise (default from config)")
	playCmd.Flags().Int("length", 0, "Questions per session (default from config)")
}

// runPlay opens the store, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Log lines would tear the alt screen; keep them only when they go
	// to a file.
	if cfg.Log.File == "" {
		logger.SetOutput(io.Discard)
	}

	opts := session.Options{
		LearnerID:        cfg.Learner,
		Grade:            cfg.Session.Grade,
		Focus:            cfg.Session.Focus,
		Length:           cfg.Session.Length,
		RecalibrateEvery: cfg.Session.RecalibrateEvery,
	}
	if cmd.Flags().Lookup("grade") != nil {
		if err := applyPlayFlags(cmd, &opts); err != nil {
			return err
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := buildServices(ctx, st)
	if err != nil {
		return err
	}
	defer svc.close()

	return app.Run(ctx, svc.sessionDeps(st), opts)
}

func applyPlayFlags(cmd *cobra.Command, opts *session.Options) error {
	if v, _ := cmd.Flags().GetString("grade"); v != "" {
		g, err := parseGrade(v)
		if err != nil {
			return err
		}
		opts.Grade = g
	}
	if v, _ := cmd.Flags().GetString("focus"); v != "" {
		c, err := parseCategory(v)
		if err != nil {
			return err
		}
		opts.Focus = c
	}
	if n, _ := cmd.Flags().GetInt("length"); n > 0 {
		opts.Length = n
	}
	return nil
}
