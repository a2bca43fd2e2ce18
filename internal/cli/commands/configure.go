package commands

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/userconfig"
	"github.com/shopfront-dev/shopfront/internal/config"
)

// NewConfigureCmd creates the configure command
func NewConfigureCmd(env *Env) *cobra.Command {
	var apiURL, backend string

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set the store API URL and where the session is kept",
		Long: `Set the store API URL and where the session is kept.

Settings are saved to ~/.config/shopfront/config.yaml. SHOPFRONT_API_URL and
SHOPFRONT_SESSION_BACKEND override them when set.

Without flags, you are asked for each setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := !cmd.Flags().Changed("api-url") && !cmd.Flags().Changed("session-backend")
			return runConfigure(env, apiURL, backend, interactive)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "Store API base URL, e.g. https://shop.example.com/api")
	cmd.Flags().StringVar(&backend, "session-backend", "", "Session storage: keyring, file, sqlite or memory")

	return cmd
}

func runConfigure(env *Env, apiURL, backend string, interactive bool) error {
	userCfg, err := userconfig.Load()
	if err != nil {
		return err
	}

	if interactive {
		current := userCfg.APIURL
		if current == "" {
			current = config.DefaultAPIURL
		}
		if apiURL, err = env.Prompter.Input("API URL", current); err != nil {
			return err
		}
		if backend, err = env.Prompter.Select("Session backend", config.Backends); err != nil {
			return err
		}
	}

	if apiURL != "" {
		if err := validateAPIURL(apiURL); err != nil {
			return err
		}
		userCfg.APIURL = strings.TrimRight(apiURL, "/")
	}

	if backend != "" {
		backend = strings.ToLower(backend)
		if !slices.Contains(config.Backends, backend) {
			return fmt.Errorf("invalid session backend '%s', must be one of: %s", backend, strings.Join(config.Backends, ", "))
		}
		userCfg.SessionBackend = backend
	}

	if err := userconfig.Save(userCfg); err != nil {
		return err
	}

	path, _ := userconfig.GetConfigPath()
	env.printf("✓ Configuration saved to %s\n", path)
	if userCfg.APIURL != "" {
		env.printf("  API:     %s\n", userCfg.APIURL)
	}
	if userCfg.SessionBackend != "" {
		env.printf("  Session: %s\n", userCfg.SessionBackend)
	}
	return nil
}

func validateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q, expected http(s)://host[/path]", raw)
	}
	return nil
}
