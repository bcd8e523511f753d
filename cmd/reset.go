package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long:  "Delete the learner's answer history, which resets calibration. --cache also drops stored question sets.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		purgeCache, _ := cmd.Flags().GetBool("cache")

		if !yes && !confirm(fmt.Sprintf("Delete all answers for learner %q?", cfg.Learner)) {
			fmt.Println("Aborted.")
			return nil
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.ObservationRepo().Reset(cmd.Context(), cfg.Learner)
		if err != nil {
			return fmt.Errorf("reset observations: %w", err)
		}
		logger.WithField("learner", cfg.Learner).WithField("deleted", n).Info("learner reset")
		fmt.Printf("Deleted %d answers for %s.\n", n, cfg.Learner)

		if purgeCache {
			n, err := st.QuestionSetRepo().Purge(cmd.Context())
			if err != nil {
				return fmt.Errorf("purge question sets: %w", err)
			}
			fmt.Printf("Deleted %d cached question sets.\n", n)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	resetCmd.Flags().Bool("cache", false, "Also purge cached question sets")
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
