package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/cli/router"
	"github.com/shopfront-dev/shopfront/internal/models"
)

type checkoutOptions struct {
	street     string
	city       string
	postalCode string
	country    string
	method     string
	cost       float64
	referral   string
	points     int
	usePoints  bool
	yes        bool
}

// NewCheckoutCmd creates the checkout command
func NewCheckoutCmd(env *Env) *cobra.Command {
	var opts checkoutOptions

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the items in your cart",
		Long: `Place an order for the items in your cart.

Address fields and the shipping method are asked for when not given.

Examples:
  $ shopfront checkout
  $ shopfront checkout --street "Lenina 1" --city Moscow --postal-code 101000 \
      --country Russia --method cdek --cost 350 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.usePoints = cmd.Flags().Changed("points")
			return runCheckout(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVar(&opts.street, "street", "", "Shipping street")
	cmd.Flags().StringVar(&opts.city, "city", "", "Shipping city")
	cmd.Flags().StringVar(&opts.postalCode, "postal-code", "", "Shipping postal code")
	cmd.Flags().StringVar(&opts.country, "country", "", "Shipping country")
	cmd.Flags().StringVar(&opts.method, "method", "", "Shipping method: pochta or cdek")
	cmd.Flags().Float64Var(&opts.cost, "cost", 0, "Shipping cost")
	cmd.Flags().StringVar(&opts.referral, "referral", "", "Referral code of the person who invited you")
	cmd.Flags().IntVar(&opts.points, "points", 0, "Loyalty points to spend")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func runCheckout(ctx context.Context, env *Env, opts checkoutOptions) error {
	a, err := requireRoute(env, router.CheckoutRoute, nil)
	if err != nil {
		return err
	}

	cart := a.Stores.Cart
	cart.Fetch(ctx)
	if cart.Failed() {
		return fmt.Errorf("failed to load cart: %s", cart.Error)
	}
	if cart.Empty() {
		return fmt.Errorf("your cart is empty")
	}

	env.printf("Checking out %d item(s), subtotal %s\n\n", cart.Count(), models.FormatAmount(cart.Total()))

	fields := []struct {
		label string
		value *string
	}{
		{"Street", &opts.street},
		{"City", &opts.city},
		{"Postal code", &opts.postalCode},
		{"Country", &opts.country},
	}
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		value, err := env.Prompter.Input(f.label, "")
		if err != nil {
			return err
		}
		*f.value = value
	}

	if opts.method == "" {
		opts.method, err = env.Prompter.Select("Shipping method", models.ShippingMethods)
		if err != nil {
			return err
		}
	}

	in := client.OrderInput{
		ShippingStreet:     opts.street,
		ShippingCity:       opts.city,
		ShippingPostalCode: opts.postalCode,
		ShippingCountry:    opts.country,
		ShippingMethod:     opts.method,
		ShippingCost:       opts.cost,
		ReferralCode:       opts.referral,
	}
	if opts.usePoints {
		points := opts.points
		in.UsePoints = &points
	}

	if !opts.yes {
		label := fmt.Sprintf("Place order for %s + %s shipping via %s",
			models.FormatAmount(cart.Total()), models.FormatAmount(opts.cost), opts.method)
		ok, err := env.Prompter.Confirm(label)
		if err != nil {
			return err
		}
		if !ok {
			env.println("Order not placed.")
			return nil
		}
	}

	order, err := a.Stores.Orders.Create(ctx, in)
	if err != nil {
		return actionFailed("place order", a.Stores.Orders.Error, err)
	}
	cart.Lines = nil

	env.printf("✓ Order #%d placed\n", order.ID)
	env.printf("  Status: %s\n", order.Status)
	env.printf("  Total:  %s\n", order.TotalAmount)
	if order.UsedPoints > 0 {
		env.printf("  Points used: %d\n", order.UsedPoints)
	}
	return nil
}

// NewOrdersCmd creates the orders command
func NewOrdersCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "orders [order-id]",
		Short: "List your orders or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runOrderDetail(cmd.Context(), env, args[0])
			}
			return runOrders(cmd.Context(), env)
		},
	}
}

func runOrders(ctx context.Context, env *Env) error {
	a, err := requireRoute(env, router.ProfileRoute, nil)
	if err != nil {
		return err
	}

	orders := a.Stores.Orders
	orders.FetchMine(ctx)
	if orders.Failed() {
		return fmt.Errorf("failed to load orders: %s", orders.Error)
	}

	if len(orders.Mine) == 0 {
		env.println("No orders yet.")
		return nil
	}

	printOrders(env, orders.Mine, false)
	return nil
}

func runOrderDetail(ctx context.Context, env *Env, rawID string) error {
	orderID, err := parseID("order", rawID)
	if err != nil {
		return err
	}

	a, err := requireRoute(env, router.ProfileRoute, nil)
	if err != nil {
		return err
	}

	orders := a.Stores.Orders
	orders.FetchDetail(ctx, orderID)
	if orders.Failed() {
		return fmt.Errorf("failed to load order %d: %s", orderID, orders.Error)
	}

	o := orders.Current
	env.printf("Order #%d\n", o.ID)
	env.printf("Status:   %s\n", o.Status)
	env.printf("Created:  %s\n", o.CreatedAt)
	env.printf("Ship to:  %s, %s %s, %s\n", o.Shipping.Street, o.Shipping.City, o.Shipping.PostalCode, o.Shipping.Country)
	env.printf("Shipping: %s (%s)\n", o.ShippingMethod, o.ShippingCost)
	if o.UsedPoints > 0 {
		env.printf("Points:   %d used\n", o.UsedPoints)
	}
	env.println()

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tSIZE\tQTY\tPRICE")
	fmt.Fprintln(w, "───────\t────\t───\t─────")
	for _, item := range o.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", item.ProductID, item.Size, item.Quantity, item.Price)
	}
	w.Flush()

	env.printf("\nTotal: %s\n", o.TotalAmount)
	return nil
}

func printOrders(env *Env, items []models.Order, withUser bool) {
	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	if withUser {
		fmt.Fprintln(w, "ID\tUSER\tSTATUS\tTOTAL\tSHIPPING\tCREATED AT")
		fmt.Fprintln(w, "──\t────\t──────\t─────\t────────\t──────────")
	} else {
		fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tSHIPPING\tCREATED AT")
		fmt.Fprintln(w, "──\t──────\t─────\t────────\t──────────")
	}
	for _, o := range items {
		if withUser {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", o.ID, o.UserID, o.Status, o.TotalAmount, o.ShippingMethod, o.CreatedAt)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.Status, o.TotalAmount, o.ShippingMethod, o.CreatedAt)
		}
	}
	w.Flush()
}
