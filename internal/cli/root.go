package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the shopfront command tree on env
func NewRootCmd(env *commands.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shopfront",
		Short: "Shopfront - browse and shop the store from your terminal",
		Long: `Shopfront CLI - browse the catalog, manage your cart and place orders.

Pages that need an account ask you to sign in first; your session is kept
between runs until you log out or it expires.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add all subcommands
	rootCmd.AddCommand(commands.NewVersionCmd(env, version))
	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewRegisterCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewWhoamiCmd(env))
	rootCmd.AddCommand(commands.NewOpenCmd(env))
	rootCmd.AddCommand(commands.NewRoutesCmd(env))
	rootCmd.AddCommand(commands.NewCatalogCmd(env))
	rootCmd.AddCommand(commands.NewProductCmd(env))
	rootCmd.AddCommand(commands.NewCategoriesCmd(env))
	rootCmd.AddCommand(commands.NewCartCmd(env))
	rootCmd.AddCommand(commands.NewCheckoutCmd(env))
	rootCmd.AddCommand(commands.NewOrdersCmd(env))
	rootCmd.AddCommand(commands.NewReviewsCmd(env))
	rootCmd.AddCommand(commands.NewAdminCmd(env))
	rootCmd.AddCommand(commands.NewConfigureCmd(env))
	rootCmd.AddCommand(commands.NewShellCmd(env, func() *cobra.Command {
		return NewRootCmd(env)
	}))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	env := commands.NewEnv()
	defer env.Close()

	if err := NewRootCmd(env).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, client.ErrAuthorizationExpired) {
			fmt.Fprintln(os.Stderr, "Your session has expired. Run 'shopfront login' to sign in again.")
		}
		return err
	}
	return nil
}
