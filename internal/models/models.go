package models

import (
	"strconv"
	"strings"
)

// AvailableSizes lists the clothing sizes the API accepts for cart items
var AvailableSizes = []string{"s", "m", "l", "xl"}

// ShippingMethods lists the carriers the API accepts at checkout
var ShippingMethods = []string{"pochta", "cdek"}

// OrderStatuses lists the status keys accepted by the admin order update endpoint
var OrderStatuses = []string{"PENDING", "PAID", "SHIPPED", "COMPLETED", "CANCELED"}

// User represents the profile returned by /auth/me and embedded in auth responses
type User struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username,omitempty"` // Nullable on the server
	IsAdmin       bool   `json:"is_admin"`
	ReferralCode  string `json:"referral_code,omitempty"`
	PointsBalance int    `json:"points_balance"`
}

// DisplayName returns the username when set, falling back to the email
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// AuthResult is the payload returned by login and registration
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Category represents a product category
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// ProductImage represents an uploaded product image
type ProductImage struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// Product represents a catalog entry. Money fields are decimal strings on the wire.
type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Price         string         `json:"price"`
	Stock         int            `json:"stock"`
	Popularity    int            `json:"popularity"`
	CreatedAt     string         `json:"created_at,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
	Category      *Category      `json:"category,omitempty"`
	Images        []ProductImage `json:"images,omitempty"`
	AverageRating *float64       `json:"average_rating,omitempty"`
	ReviewsCount  int            `json:"reviews_count"`
}

// PrimaryImage returns the URL of the primary image, or empty string
func (p *Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	return ""
}

// ProductPage is one page of the catalog listing
type ProductPage struct {
	Products    []Product `json:"products"`
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"current_page"`
}

// CartProduct is the product summary embedded in a cart item
type CartProduct struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image,omitempty"`
}

// CartItem represents one cart position as returned by the API
type CartItem struct {
	ID        int64       `json:"id"`
	Product   CartProduct `json:"product"`
	Quantity  int         `json:"quantity"`
	Size      string      `json:"size"`
	AddedAt   string      `json:"added_at,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
}

// Cart is the GET /cart payload
type Cart struct {
	Items []CartItem `json:"items"`
	Total string     `json:"total"`
}

// CartLine is a cart item flattened for display, with parsed money fields
type CartLine struct {
	ID        int64
	ProductID int64
	Name      string
	Price     float64
	Image     string
	Quantity  int
	Size      string
	LineTotal float64
}

// NewCartLine flattens a cart item
func NewCartLine(item CartItem) CartLine {
	price := ParseAmount(item.Product.Price)
	return CartLine{
		ID:        item.ID,
		ProductID: item.Product.ID,
		Name:      item.Product.Name,
		Price:     price,
		Image:     item.Product.Image,
		Quantity:  item.Quantity,
		Size:      item.Size,
		LineTotal: price * float64(item.Quantity),
	}
}

// Address is a shipping address
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderItem represents one purchased position
type OrderItem struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Size      string `json:"size"`
}

// Order represents a placed order
type Order struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	ReferrerID     *int64      `json:"referrer_id,omitempty"`
	Status         string      `json:"status"`
	TotalAmount    string      `json:"total_amount"`
	UsedPoints     int         `json:"used_points"`
	EarnedPoints   int         `json:"earned_points"`
	Shipping       Address     `json:"shipping"`
	ShippingMethod string      `json:"shipping_method"`
	ShippingCost   string      `json:"shipping_cost"`
	Items          []OrderItem `json:"items"`
	CreatedAt      string      `json:"created_at,omitempty"`
	UpdatedAt      string      `json:"updated_at,omitempty"`
}

// Review represents a product review
type Review struct {
	ID        int64  `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UserID    int64  `json:"user_id"`
	ProductID int64  `json:"product_id"`
	Username  string `json:"username,omitempty"`
}

// ParseAmount parses a decimal money string, returning 0 for malformed input
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatAmount renders an amount with two decimals
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
