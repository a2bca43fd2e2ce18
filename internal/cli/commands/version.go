package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/update"
)

// NewVersionCmd creates the version command
func NewVersionCmd(env *Env, version string) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env.printf("shopfront version %s\n", version)
			if !check {
				return nil
			}

			checker := update.NewChecker(env.getenv("SHOPFRONT_RELEASES_URL"))
			available, release, err := checker.Check(cmd.Context(), version)
			if err != nil {
				return fmt.Errorf("failed to check for updates: %w", err)
			}

			if !available {
				env.println("You are on the latest version.")
				return nil
			}
			env.printf("New version %s -> %s\n", version, release.TagName)
			if release.HTMLURL != "" {
				env.printf("Download: %s\n", release.HTMLURL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")

	return cmd
}
