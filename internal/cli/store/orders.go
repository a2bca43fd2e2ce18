package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/models"
)

// Orders holds the user's orders, the admin listing, and one order in detail
type Orders struct {
	State

	Mine    []models.Order
	All     []models.Order
	Current *models.Order

	api API
	log zerolog.Logger
}

func NewOrders(api API, log zerolog.Logger) *Orders {
	return &Orders{
		api: api,
		log: log.With().Str("store", "orders").Logger(),
	}
}

// FetchMine loads the orders of the signed-in user
func (o *Orders) FetchMine(ctx context.Context) {
	o.begin()
	defer o.end()

	orders, err := o.api.ListOrders(ctx)
	if err != nil {
		o.fail(o.log, "fetch my orders", err, "Failed to load your orders")
		return
	}
	o.Mine = orders
}

// FetchAll loads every order (admin)
func (o *Orders) FetchAll(ctx context.Context) {
	o.begin()
	defer o.end()

	orders, err := o.api.AdminListOrders(ctx)
	if err != nil {
		o.fail(o.log, "fetch all orders", err, "Failed to load orders")
		return
	}
	o.All = orders
}

// FetchDetail loads one order into Current
func (o *Orders) FetchDetail(ctx context.Context, orderID int64) {
	o.begin()
	defer o.end()

	order, err := o.api.GetOrder(ctx, orderID)
	if err != nil {
		o.Current = nil
		o.fail(o.log, "fetch order", err, "Failed to load order details")
		return
	}
	o.Current = order
}

// Create places an order from the cart
func (o *Orders) Create(ctx context.Context, in client.OrderInput) (*models.Order, error) {
	o.begin()
	defer o.end()

	order, err := o.api.CreateOrder(ctx, in)
	if err != nil {
		o.fail(o.log, "create order", err, "Failed to place order")
		return nil, err
	}
	o.Current = order
	return order, nil
}

// UpdateStatus changes the status of an order (admin) and patches All in place
func (o *Orders) UpdateStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	o.begin()
	defer o.end()

	order, err := o.api.AdminUpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		o.fail(o.log, "update order status", err, "Failed to update order status")
		return nil, err
	}

	for i := range o.All {
		if o.All[i].ID == order.ID {
			o.All[i] = *order
		}
	}
	return order, nil
}

// Users is the admin user listing
type Users struct {
	State

	List []models.User

	api API
	log zerolog.Logger
}

func NewUsers(api API, log zerolog.Logger) *Users {
	return &Users{
		api: api,
		log: log.With().Str("store", "users").Logger(),
	}
}

// Fetch loads every user (admin)
func (u *Users) Fetch(ctx context.Context) {
	u.begin()
	defer u.end()

	list, err := u.api.AdminListUsers(ctx)
	if err != nil {
		u.fail(u.log, "fetch users", err, "Failed to load users")
		return
	}
	u.List = list
}
