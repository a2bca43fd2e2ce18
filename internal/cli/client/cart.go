package client

import (
	"context"
	"fmt"

	"github.com/shopfront-dev/shopfront/internal/models"
)

// GetCart returns the cart of the token holder
func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.get(ctx, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds a position, or increases its quantity when it already exists
func (c *Client) AddToCart(ctx context.Context, in CartItemInput) error {
	if err := c.check(in); err != nil {
		return err
	}
	if in.Quantity < 1 {
		return &ValidationError{Messages: []string{"quantity must be at least 1"}}
	}
	return c.post(ctx, "/cart", in, nil)
}

// UpdateCartItem sets the quantity of a position; quantity 0 removes it
func (c *Client) UpdateCartItem(ctx context.Context, in CartItemInput) error {
	if err := c.check(in); err != nil {
		return err
	}
	return c.put(ctx, "/cart", in, nil)
}

// RemoveCartItem removes every position of a product
func (c *Client) RemoveCartItem(ctx context.Context, productID int64) error {
	return c.delete(ctx, fmt.Sprintf("/cart/%d", productID))
}

// ClearCart empties the cart
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart/clear")
}
