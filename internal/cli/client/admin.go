package client

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopfront-dev/shopfront/internal/models"
)

// AdminListUsers returns every registered user
func (c *Client) AdminListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminListOrders returns every order, newest first
func (c *Client) AdminListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/admin/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminUpdateOrderStatus moves an order to another status (PENDING, PAID, ...)
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !slices.Contains(models.OrderStatuses, status) {
		return nil, &ValidationError{Messages: []string{
			fmt.Sprintf("status must be one of: %s", strings.Join(models.OrderStatuses, ", ")),
		}}
	}

	body := map[string]string{"status": status}

	var resp struct {
		Order models.Order `json:"order"`
	}
	if err := c.put(ctx, fmt.Sprintf("/admin/orders/%d", orderID), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}
