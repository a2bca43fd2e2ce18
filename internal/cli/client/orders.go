package client

import (
	"context"
	"fmt"

	"github.com/shopfront-dev/shopfront/internal/models"
)

// ListOrders returns the orders of the token holder, newest first
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns one order of the token holder
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	if err := c.get(ctx, fmt.Sprintf("/orders/%d", orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder places an order from the current cart
func (c *Client) CreateOrder(ctx context.Context, in OrderInput) (*models.Order, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}

	var resp struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	if err := c.post(ctx, "/orders", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}
