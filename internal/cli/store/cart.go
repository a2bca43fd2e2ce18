package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/models"
)

// Cart is the shopping cart store. Lines are kept flattened for display.
type Cart struct {
	State

	Lines []models.CartLine

	api API
	log zerolog.Logger
}

func NewCart(api API, log zerolog.Logger) *Cart {
	return &Cart{
		api: api,
		log: log.With().Str("store", "cart").Logger(),
	}
}

// Fetch reloads the cart
func (c *Cart) Fetch(ctx context.Context) {
	c.begin()
	defer c.end()

	if err := c.reload(ctx); err != nil {
		c.fail(c.log, "fetch cart", err, "")
	}
}

func (c *Cart) reload(ctx context.Context) error {
	cart, err := c.api.GetCart(ctx)
	if err != nil {
		return err
	}

	lines := make([]models.CartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, models.NewCartLine(item))
	}
	c.Lines = lines
	return nil
}

// mutate runs a write followed by a reload, recording any failure
func (c *Cart) mutate(ctx context.Context, action string, write func() error) error {
	c.begin()
	defer c.end()

	if err := write(); err != nil {
		c.fail(c.log, action, err, "")
		return err
	}
	if err := c.reload(ctx); err != nil {
		c.fail(c.log, action, err, "")
		return err
	}
	return nil
}

// Add puts quantity items of a product and size in the cart. The server
// merges with an existing line. Quantity 0 adds one.
func (c *Cart) Add(ctx context.Context, productID int64, quantity int, size string) error {
	if quantity == 0 {
		quantity = 1
	}
	in := client.CartItemInput{ProductID: productID, Quantity: quantity, Size: size}
	return c.mutate(ctx, "add to cart", func() error {
		return c.api.AddToCart(ctx, in)
	})
}

// Update sets the quantity of a line. Quantity 0 removes it.
func (c *Cart) Update(ctx context.Context, productID int64, quantity int, size string) error {
	in := client.CartItemInput{ProductID: productID, Quantity: quantity, Size: size}
	return c.mutate(ctx, "update cart item", func() error {
		return c.api.UpdateCartItem(ctx, in)
	})
}

// Remove deletes every line of a product
func (c *Cart) Remove(ctx context.Context, productID int64) error {
	return c.mutate(ctx, "remove cart item", func() error {
		return c.api.RemoveCartItem(ctx, productID)
	})
}

// Clear empties the cart
func (c *Cart) Clear(ctx context.Context) error {
	c.begin()
	defer c.end()

	if err := c.api.ClearCart(ctx); err != nil {
		c.fail(c.log, "clear cart", err, "")
		return err
	}
	c.Lines = nil
	return nil
}

// Total sums the line totals
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.LineTotal
	}
	return total
}

// Count returns the number of items across all lines
func (c *Cart) Count() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// Empty reports whether the cart has no lines
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}
