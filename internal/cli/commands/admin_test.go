package commands

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront-dev/shopfront/internal/cli/app"
	"github.com/shopfront-dev/shopfront/internal/cli/client"
)

// placeOrder creates an order as a separate customer
func placeOrder(t *testing.T, te *testEnv) int64 {
	t.Helper()

	customer := te.api.AddUser("buyer@example.com", "pw", false)
	c := client.New(te.api.APIURL(), client.WithTokenSource(tokenString(te.api.IssueToken(customer.ID))))
	shirt := te.api.AddProduct("shirt", "10.00", 0)

	ctx := context.Background()
	require.NoError(t, c.AddToCart(ctx, client.CartItemInput{ProductID: shirt.ID, Quantity: 1, Size: "m"}))
	order, err := c.CreateOrder(ctx, client.OrderInput{
		ShippingStreet: "a", ShippingCity: "b", ShippingPostalCode: "c", ShippingCountry: "d",
		ShippingMethod: "cdek",
	})
	require.NoError(t, err)
	return order.ID
}

type tokenString string

func (s tokenString) Token() string { return string(s) }

func TestAdmin_CustomerIsRefused(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t, false)

	err := execute(NewAdminCmd(te.Env), "users")
	assert.ErrorIs(t, err, app.ErrAdminRequired)
	assert.Zero(t, te.api.Hits(http.MethodGet, "/admin/users"))
}

func TestAdmin_ListsUsersAndOrders(t *testing.T) {
	te := newTestEnv(t)
	admin := te.signIn(t, true)
	orderID := placeOrder(t, te)

	require.NoError(t, execute(NewAdminCmd(te.Env), "users"))
	assert.Contains(t, te.out.String(), admin.Email)
	assert.Contains(t, te.out.String(), "buyer@example.com")

	te.out.Reset()
	require.NoError(t, execute(NewAdminCmd(te.Env), "orders"))
	assert.Contains(t, te.out.String(), strconv.FormatInt(orderID, 10))
	assert.Contains(t, te.out.String(), "PENDING")
}

func TestAdmin_UpdateStatus(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t, true)
	orderID := placeOrder(t, te)
	id := strconv.FormatInt(orderID, 10)

	require.NoError(t, execute(NewAdminCmd(te.Env), "status", id, "shipped"))
	assert.Contains(t, te.out.String(), "✓ Order #"+id+" is now SHIPPED")
	assert.Equal(t, "SHIPPED", te.api.Orders()[0].Status)

	te.prompter.Answers["Status"] = "COMPLETED"
	require.NoError(t, execute(NewAdminCmd(te.Env), "status", id))
	assert.Equal(t, "COMPLETED", te.api.Orders()[0].Status)

	err := execute(NewAdminCmd(te.Env), "status", id, "lost")
	assert.ErrorContains(t, err, `invalid status "LOST"`)
}

func TestAdmin_UnknownOrder(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t, true)

	err := execute(NewAdminCmd(te.Env), "status", "999", "PAID")
	assert.EqualError(t, err, "failed to update order status: Order not found")
}
