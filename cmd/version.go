package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/selfupdate"
)

// version is set via -ldflags at build time.
var version = selfupdate.DevVersion

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("mathgenius", version)

		if check, _ := cmd.Flags().GetBool("check"); !check || version == selfupdate.DevVersion {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		owner, repo, err := repositoryFlag(cmd)
		if err != nil {
			return err
		}
		checker := selfupdate.NewChecker(
			selfupdate.WithRepository(owner, repo),
			selfupdate.WithLogger(logger.WithField("command", "version")),
		)
		res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
		if err != nil {
			return err
		}
		if res.UpdateAvailable {
			fmt.Printf("%s is available: %s\nRun `mathgenius update` to install it.\n", res.LatestVersion, res.ReleaseURL)
		} else {
			fmt.Println("Up to date.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Check for a newer release")
	addRepositoryFlag(versionCmd)
}
