package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/app"
	"github.com/shopfront-dev/shopfront/internal/cli/router"
	"github.com/shopfront-dev/shopfront/internal/models"
)

// NewCartCmd creates the cart command and its subcommands
func NewCartCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and edit your cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return openRoute(cmd.Context(), env, router.CartRoute, nil, nil)
		},
	}

	cmd.AddCommand(newCartAddCmd(env))
	cmd.AddCommand(newCartSetCmd(env))
	cmd.AddCommand(newCartRemoveCmd(env))
	cmd.AddCommand(newCartClearCmd(env))

	return cmd
}

func newCartAddCmd(env *Env) *cobra.Command {
	var (
		quantity int
		size     string
	)

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Long: `Add a product to the cart. If --size is not given you are asked to pick one.

Examples:
  $ shopfront cart add 42 --size m
  $ shopfront cart add 42 --size xl --quantity 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartAdd(cmd.Context(), env, args[0], quantity, size)
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Number of items")
	cmd.Flags().StringVarP(&size, "size", "s", "", "Size: s, m, l or xl (will prompt if not provided)")

	return cmd
}

func runCartAdd(ctx context.Context, env *Env, rawID string, quantity int, size string) error {
	productID, err := parseID("product", rawID)
	if err != nil {
		return err
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	a, err := requireRoute(env, router.CartRoute, nil)
	if err != nil {
		return err
	}

	if size == "" {
		size, err = env.Prompter.Select("Size", models.AvailableSizes)
		if err != nil {
			return err
		}
	}

	cart := a.Stores.Cart
	if err := cart.Add(ctx, productID, quantity, size); err != nil {
		return actionFailed("add to cart", cart.Error, err)
	}

	env.printf("✓ Added %d × product %d (size %s)\n", quantity, productID, size)
	printCartSummary(env, a)
	return nil
}

func newCartSetCmd(env *Env) *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Change the quantity of a cart line (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartSet(cmd.Context(), env, args[0], args[1], size)
		},
	}

	cmd.Flags().StringVarP(&size, "size", "s", "", "Size of the line (defaults to the size already in the cart)")

	return cmd
}

func runCartSet(ctx context.Context, env *Env, rawID, rawQuantity, size string) error {
	productID, err := parseID("product", rawID)
	if err != nil {
		return err
	}
	quantity, err := strconv.Atoi(rawQuantity)
	if err != nil || quantity < 0 {
		return fmt.Errorf("invalid quantity %q", rawQuantity)
	}

	a, err := requireRoute(env, router.CartRoute, nil)
	if err != nil {
		return err
	}

	cart := a.Stores.Cart
	if size == "" {
		cart.Fetch(ctx)
		if cart.Failed() {
			return fmt.Errorf("failed to load cart: %s", cart.Error)
		}
		for _, line := range cart.Lines {
			if line.ProductID == productID {
				size = line.Size
				break
			}
		}
		if size == "" {
			return fmt.Errorf("product %d is not in your cart", productID)
		}
	}

	if err := cart.Update(ctx, productID, quantity, size); err != nil {
		return actionFailed("update cart", cart.Error, err)
	}

	if quantity == 0 {
		env.printf("✓ Removed product %d\n", productID)
	} else {
		env.printf("✓ Product %d quantity set to %d\n", productID, quantity)
	}
	printCartSummary(env, a)
	return nil
}

func newCartRemoveCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <product-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a product from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartRemove(cmd.Context(), env, args[0])
		},
	}
}

func runCartRemove(ctx context.Context, env *Env, rawID string) error {
	productID, err := parseID("product", rawID)
	if err != nil {
		return err
	}

	a, err := requireRoute(env, router.CartRoute, nil)
	if err != nil {
		return err
	}

	if err := a.Stores.Cart.Remove(ctx, productID); err != nil {
		return actionFailed("remove from cart", a.Stores.Cart.Error, err)
	}

	env.printf("✓ Removed product %d\n", productID)
	printCartSummary(env, a)
	return nil
}

func newCartClearCmd(env *Env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove everything from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartClear(cmd.Context(), env, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func runCartClear(ctx context.Context, env *Env, yes bool) error {
	a, err := requireRoute(env, router.CartRoute, nil)
	if err != nil {
		return err
	}

	if !yes {
		ok, err := env.Prompter.Confirm("Remove every item from your cart")
		if err != nil {
			return err
		}
		if !ok {
			env.println("Cart left unchanged.")
			return nil
		}
	}

	if err := a.Stores.Cart.Clear(ctx); err != nil {
		return actionFailed("clear cart", a.Stores.Cart.Error, err)
	}

	env.println("✓ Cart cleared")
	return nil
}

func printCartSummary(env *Env, a *app.App) {
	cart := a.Stores.Cart
	if cart.Empty() {
		env.println("Your cart is empty.")
		return
	}
	env.printf("Cart: %d item(s), total %s\n", cart.Count(), models.FormatAmount(cart.Total()))
}
