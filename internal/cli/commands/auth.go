package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/app"
	"github.com/shopfront-dev/shopfront/internal/models"
)

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, password, redirect string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the store",
		Long: `Sign in to the store.

After signing in, the page that required it is opened. Use --redirect to open
a specific page instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), env, email, password, redirect)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set SHOPFRONT_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set SHOPFRONT_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&redirect, "redirect", "", "Page to open after signing in, e.g. /checkout")

	return cmd
}

func runLogin(ctx context.Context, env *Env, email, password, redirect string) error {
	email, password, err := credentials(env, email, password, false)
	if err != nil {
		return err
	}

	a, err := env.App()
	if err != nil {
		return err
	}

	if redirect == "" {
		redirect = a.Navigator.PendingRedirect()
	}

	env.printf("Logging in to %s...\n", a.Config.API.BaseURL)

	user, err := a.Session.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	env.println("✓ Login successful!")
	printUser(env, user)

	return continueTo(ctx, env, a, redirect)
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set SHOPFRONT_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set SHOPFRONT_PASSWORD, will prompt if not provided)")

	return cmd
}

func runRegister(ctx context.Context, env *Env, email, password string) error {
	email, password, err := credentials(env, email, password, true)
	if err != nil {
		return err
	}

	a, err := env.App()
	if err != nil {
		return err
	}

	user, err := a.Session.Register(ctx, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	env.println("✓ Account created!")
	printUser(env, user)

	return continueTo(ctx, env, a, a.Navigator.PendingRedirect())
}

// credentials resolves email and password from flags, env vars, then prompts.
// A prompted password is asked twice when confirm is set.
func credentials(env *Env, email, password string, confirm bool) (string, string, error) {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = env.getenv("SHOPFRONT_EMAIL")
	}
	if password == "" {
		password = env.getenv("SHOPFRONT_PASSWORD")
	}

	if email == "" {
		value, err := env.Prompter.Input("Email", "")
		if err != nil || value == "" {
			return "", "", fmt.Errorf("email is required (use --email flag or SHOPFRONT_EMAIL env var)")
		}
		email = value
	}

	if password == "" {
		value, err := env.Prompter.Password("Password")
		if err != nil {
			return "", "", err
		}
		if confirm {
			again, err := env.Prompter.Password("Confirm password")
			if err != nil {
				return "", "", err
			}
			if again != value {
				return "", "", fmt.Errorf("passwords do not match")
			}
		}
		password = value
	}

	return email, password, nil
}

// continueTo opens the page that sent the user to sign in, if any
func continueTo(ctx context.Context, env *Env, a *app.App, redirect string) error {
	if redirect == "" {
		return nil
	}

	env.printf("\nContinuing to %s\n\n", redirect)
	_, err := a.Open(ctx, redirect)
	return err
}

func printUser(env *Env, user *models.User) {
	env.printf("  User: %s (%s)\n", user.DisplayName(), user.Email)
	if user.IsAdmin {
		env.println("  Role: Admin")
	}
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(env)
		},
	}
}

func runLogout(env *Env) error {
	a, err := env.App()
	if err != nil {
		return err
	}

	wasSignedIn := a.Session.Authenticated()
	a.Session.Logout()

	if wasSignedIn {
		env.println("✓ Logged out")
	} else {
		env.println("Not logged in")
	}
	return nil
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), env)
		},
	}
}

func runWhoami(ctx context.Context, env *Env) error {
	a, err := env.App()
	if err != nil {
		return err
	}

	if !a.Session.Authenticated() {
		env.println("Not logged in. Run 'shopfront login' to sign in.")
		return nil
	}

	a.Session.RefreshProfile(ctx)
	if !a.Session.Authenticated() {
		return fmt.Errorf("your session has expired: %w", app.ErrSignInRequired)
	}

	user := a.Session.User()
	if user == nil {
		return fmt.Errorf("profile not loaded, check your connection and try again")
	}

	env.printf("Email:    %s\n", user.Email)
	if name := user.DisplayName(); name != user.Email {
		env.printf("Name:     %s\n", name)
	}
	if user.IsAdmin {
		env.println("Role:     Admin")
	} else {
		env.println("Role:     Customer")
	}
	env.printf("Points:   %d\n", user.PointsBalance)
	if user.ReferralCode != "" {
		env.printf("Referral: %s\n", user.ReferralCode)
	}
	if expiry, ok := a.Session.TokenExpiry(); ok {
		env.printf("Session:  expires %s\n", expiry.Local().Format(time.RFC1123))
	}
	env.printf("API:      %s\n", a.Config.API.BaseURL)

	return nil
}
