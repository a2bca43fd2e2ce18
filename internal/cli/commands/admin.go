package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/router"
	"github.com/shopfront-dev/shopfront/internal/models"
)

// NewAdminCmd creates the admin command and its subcommands
func NewAdminCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Store administration (admins only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return openRoute(cmd.Context(), env, router.AdminRoute, nil, nil)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "users",
		Short: "List every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminUsers(cmd.Context(), env)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "orders",
		Short: "List every order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminOrders(cmd.Context(), env)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status <order-id> [status]",
		Short: "Change the status of an order",
		Long: fmt.Sprintf(`Change the status of an order.

Statuses: %s. If no status is given you are asked to pick one.`, strings.Join(models.OrderStatuses, ", ")),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var status string
			if len(args) == 2 {
				status = args[1]
			}
			return runAdminStatus(cmd.Context(), env, args[0], status)
		},
	})

	return cmd
}

func runAdminUsers(ctx context.Context, env *Env) error {
	a, err := requireRoute(env, router.AdminRoute, nil)
	if err != nil {
		return err
	}

	users := a.Stores.Users
	users.Fetch(ctx)
	if users.Failed() {
		return fmt.Errorf("failed to load users: %s", users.Error)
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tUSERNAME\tADMIN\tPOINTS\tREFERRAL")
	fmt.Fprintln(w, "──\t─────\t────────\t─────\t──────\t────────")
	for _, u := range users.List {
		admin := "no"
		if u.IsAdmin {
			admin = "yes"
		}
		username := u.Username
		if username == "" {
			username = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", u.ID, u.Email, username, admin, u.PointsBalance, u.ReferralCode)
	}
	w.Flush()

	return nil
}

func runAdminOrders(ctx context.Context, env *Env) error {
	a, err := requireRoute(env, router.AdminRoute, nil)
	if err != nil {
		return err
	}

	orders := a.Stores.Orders
	orders.FetchAll(ctx)
	if orders.Failed() {
		return fmt.Errorf("failed to load orders: %s", orders.Error)
	}

	if len(orders.All) == 0 {
		env.println("No orders yet.")
		return nil
	}

	printOrders(env, orders.All, true)
	return nil
}

func runAdminStatus(ctx context.Context, env *Env, rawID, status string) error {
	orderID, err := parseID("order", rawID)
	if err != nil {
		return err
	}

	status = strings.ToUpper(status)
	if status != "" && !slices.Contains(models.OrderStatuses, status) {
		return fmt.Errorf("invalid status %q, must be one of: %s", status, strings.Join(models.OrderStatuses, ", "))
	}

	a, err := requireRoute(env, router.AdminRoute, nil)
	if err != nil {
		return err
	}

	if status == "" {
		status, err = env.Prompter.Select("Status", models.OrderStatuses)
		if err != nil {
			return err
		}
	}

	orders := a.Stores.Orders
	order, err := orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return actionFailed("update order status", orders.Error, err)
	}

	env.printf("✓ Order #%d is now %s\n", order.ID, order.Status)
	return nil
}
