package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update [version]",
	Short: "Update mathgenius to the latest release",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, repo, err := repositoryFlag(cmd)
		if err != nil {
			return err
		}
		checker := selfupdate.NewChecker(
			selfupdate.WithTimeout(2*time.Minute),
			selfupdate.WithRepository(owner, repo),
			selfupdate.WithLogger(logger.WithField("command", "update")),
		)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		input := &selfupdate.UpdateInput{CurrentVersion: version}
		if len(args) == 1 {
			input.TargetVersion = args[0]
		}
		err = checker.Update(ctx, input, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Println("Already running the latest version.")
			return nil
		case errors.Is(err, os.ErrPermission):
			return fmt.Errorf("%w\n\nTry running: sudo mathgenius update", err)
		}
		return err
	},
}

func init() {
	addRepositoryFlag(updateCmd)
}

const defaultRepository = "abhisek/mathgenius"

func addRepositoryFlag(cmd *cobra.Command) {
	cmd.Flags().String("repository", defaultRepository, "GitHub owner/name to fetch releases from")
}

func repositoryFlag(cmd *cobra.Command) (owner, repo string, err error) {
	v, _ := cmd.Flags().GetString("repository")
	return parseRepository(v)
}

// parseRepository splits "owner/name".
func parseRepository(s string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("--repository must look like owner/name, got %q", s)
	}
	return owner, repo, nil
}
