package commands

import (
	"context"
	"fmt"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/app"
	"github.com/shopfront-dev/shopfront/internal/cli/router"
)

// NewOpenCmd creates the open command
func NewOpenCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open a store page by path",
		Long: `Open a store page by path, the way a browser would.

Pages that need an account send you to the login page; the admin page sends
anyone but an admin home. Unknown paths open the home page.

Examples:
  $ shopfront open /catalog?sort=desc
  $ shopfront open /product/42
  $ shopfront open /checkout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd.Context(), env, args[0])
		},
	}

	return cmd
}

func runOpen(ctx context.Context, env *Env, path string) error {
	a, err := env.App()
	if err != nil {
		return err
	}

	_, err = a.Open(ctx, path)
	return err
}

// openRoute opens a named route
func openRoute(ctx context.Context, env *Env, name string, params map[string]string, query url.Values) error {
	a, err := env.App()
	if err != nil {
		return err
	}

	loc, err := a.Navigator.Table().Lookup(name, params, query)
	if err != nil {
		return err
	}

	_, err = a.Open(ctx, loc.FullPath())
	return err
}

// requireRoute checks the guard for a named route without rendering it
func requireRoute(env *Env, name string, params map[string]string) (*app.App, error) {
	a, err := env.App()
	if err != nil {
		return nil, err
	}

	loc, err := a.Navigator.Table().Lookup(name, params, nil)
	if err != nil {
		return nil, err
	}

	if err := a.Require(loc.FullPath()); err != nil {
		return nil, err
	}
	return a, nil
}

// NewRoutesCmd creates the routes command
func NewRoutesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List store pages and whether you can open them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(env)
		},
	}
}

func runRoutes(env *Env) error {
	a, err := env.App()
	if err != nil {
		return err
	}

	table := a.Navigator.Table()

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH\tGUARD\tACCESS")
	fmt.Fprintln(w, "────\t────\t─────\t──────")

	for _, route := range table.Routes() {
		if route.Redirect != "" {
			fmt.Fprintf(w, "-\t%s\t-\t→ %s\n", route.Path, route.Redirect)
			continue
		}

		decision := table.Evaluate(router.Intent{
			To: router.Location{Name: route.Name, Path: route.Path, Meta: route.Meta},
		}, a.Session)

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", route.Name, route.Path, guardLabel(route.Meta), decision.Outcome)
	}

	w.Flush()
	return nil
}

func guardLabel(meta router.Meta) string {
	switch {
	case meta.RequiresAdmin:
		return "admin"
	case meta.RequiresAuth:
		return "sign-in"
	case meta.Public:
		return "public"
	default:
		return "-"
	}
}
