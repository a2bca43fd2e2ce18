// Package store holds the client-side state containers views render from.
// Each store proxies a slice of the REST API: it fetches, keeps the result,
// and records a display-ready message when a call fails.
//
// Mutating actions record the message and return the error. Read-only
// fetches record the message and return nothing; callers check Error.
// Stores are not safe for concurrent use.
package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/models"
)

// State is the loading and error status shared by every store
type State struct {
	Loading bool
	Error   string
}

func (s *State) begin() {
	s.Loading = true
	s.Error = ""
}

func (s *State) end() {
	s.Loading = false
}

// fail records the display message for err
func (s *State) fail(log zerolog.Logger, action string, err error, fallback string) {
	s.Error = client.Message(err, fallback)
	log.Warn().Err(err).Str("action", action).Msg("Store action failed")
}

// Failed reports whether the last action failed
func (s *State) Failed() bool {
	return s.Error != ""
}

// API is the REST surface the stores use. *client.Client implements it.
type API interface {
	ListProducts(ctx context.Context, q client.ProductQuery) (*models.ProductPage, error)
	NewProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetProduct(ctx context.Context, productID int64) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	GetCart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, in client.CartItemInput) error
	UpdateCartItem(ctx context.Context, in client.CartItemInput) error
	RemoveCartItem(ctx context.Context, productID int64) error
	ClearCart(ctx context.Context) error

	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*models.Order, error)
	CreateOrder(ctx context.Context, in client.OrderInput) (*models.Order, error)

	ListReviews(ctx context.Context, productID int64) ([]models.Review, error)
	PostReview(ctx context.Context, in client.ReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, reviewID int64, in client.ReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error

	AdminListUsers(ctx context.Context) ([]models.User, error)
	AdminListOrders(ctx context.Context) ([]models.Order, error)
	AdminUpdateOrderStatus(ctx context.Context, orderID int64, status string) (*models.Order, error)
}

// Stores groups one instance of every store
type Stores struct {
	Products   *Products
	Cart       *Cart
	Orders     *Orders
	Reviews    *Reviews
	Categories *Categories
	Users      *Users
}

// New creates every store on top of api
func New(api API, log zerolog.Logger) *Stores {
	return &Stores{
		Products:   NewProducts(api, log),
		Cart:       NewCart(api, log),
		Orders:     NewOrders(api, log),
		Reviews:    NewReviews(api, log),
		Categories: NewCategories(api, log),
		Users:      NewUsers(api, log),
	}
}
