// Package apitest provides an in-memory implementation of the storefront REST
// API for tests. It issues real HS256 tokens and enforces the same bearer and
// admin checks as the production server.
package apitest

import (
	"fmt"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopfront-dev/shopfront/internal/models"
)

// AllowedOrigin is the storefront web origin accepted by CORS
const AllowedOrigin = "http://localhost:5173"

type account struct {
	user         models.User
	passwordHash []byte
}

// checkPassword reports whether password matches the stored hash
func (a *account) checkPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
}

type failure struct {
	status int
	body   any
}

// Server is a fake storefront API backed by maps
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	secret     []byte
	nextID     int64
	users      map[int64]*account
	categories []models.Category
	products   map[int64]*models.Product
	carts      map[int64][]models.CartItem
	orders     []models.Order
	reviews    []models.Review
	issued     []string
	revoked    map[string]struct{}
	hits       map[string]int
	failures   map[string]failure
}

// New starts a fake API and closes it when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:   []byte("apitest-secret"),
		users:    make(map[int64]*account),
		products: make(map[int64]*models.Product),
		carts:    make(map[int64][]models.CartItem),
		revoked:  make(map[string]struct{}),
		hits:     make(map[string]int),
		failures: make(map[string]failure),
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)

	return s
}

// APIURL returns the base URL including the /api prefix
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.Use(s.recordHits())

	auth := api.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/register", s.register)
	auth.GET("/me", s.requireAuth(), s.me)

	api.GET("/categories", s.listCategories)
	api.GET("/products", s.listProducts)
	api.GET("/products/new", s.newProducts)
	api.GET("/products/:id", s.getProduct)
	api.GET("/reviews", s.listReviews)

	protected := api.Group("")
	protected.Use(s.requireAuth())
	protected.GET("/cart", s.getCart)
	protected.POST("/cart", s.addToCart)
	protected.PUT("/cart", s.updateCartItem)
	protected.DELETE("/cart/:product_id", s.removeCartItem)
	protected.GET("/orders", s.listOrders)
	protected.POST("/orders", s.createOrder)
	protected.GET("/orders/:id", s.getOrder)
	protected.POST("/reviews", s.postReview)
	protected.PUT("/reviews/:id", s.updateReview)
	protected.DELETE("/reviews/:id", s.deleteReview)

	admin := protected.Group("/admin")
	admin.Use(s.requireAdmin())
	admin.GET("/users", s.adminListUsers)
	admin.GET("/orders", s.adminListOrders)
	admin.PUT("/orders/:id", s.adminUpdateOrderStatus)

	return r
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// AddUser registers an account
func (s *Server) AddUser(email, password string, isAdmin bool) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, isAdmin)
}

func (s *Server) addUserLocked(email, password string, isAdmin bool) models.User {
	id := s.id()
	user := models.User{
		ID:           id,
		Email:        email,
		IsAdmin:      isAdmin,
		ReferralCode: fmt.Sprintf("ref%05d", id),
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("apitest: hash password: %v", err))
	}
	s.users[id] = &account{user: user, passwordHash: hash}
	return user
}

// SetUser replaces the stored profile of an existing account
func (s *Server) SetUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.users[user.ID]; ok {
		acct.user = user
	}
}

// AddCategory creates a category
func (s *Server) AddCategory(name, slug string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := models.Category{ID: s.id(), Name: name, Slug: slug}
	s.categories = append(s.categories, category)
	return category
}

// AddProduct creates a product in the given category (0 for none)
func (s *Server) AddProduct(name, price string, categoryID int64) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := &models.Product{
		ID:         s.id(),
		Name:       name,
		Price:      price,
		Stock:      10,
		Popularity: len(s.products),
		Images: []models.ProductImage{
			{ID: s.id(), URL: fmt.Sprintf("/media/products/%s.jpg", name), IsPrimary: true},
		},
	}
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			category := s.categories[i]
			product.Category = &category
		}
	}
	s.products[product.ID] = product
	return *product
}

// IssueToken returns a valid token for an existing user
func (s *Server) IssueToken(userID int64) string {
	s.mu.Lock()
	acct := s.users[userID]
	s.mu.Unlock()

	if acct == nil {
		panic(fmt.Sprintf("apitest: unknown user %d", userID))
	}

	token, err := s.generateToken(userID, acct.user.IsAdmin)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	s.issued = append(s.issued, token)
	s.mu.Unlock()

	return token
}

// RevokeTokens invalidates every token issued so far
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	issued := append([]string(nil), s.issued...)
	s.mu.Unlock()

	for _, token := range issued {
		if claims, err := s.validateToken(token); err == nil {
			s.mu.Lock()
			s.revoked[claims.ID] = struct{}{}
			s.mu.Unlock()
		}
	}
}

// Fail makes every request to method+path (without the /api prefix) answer
// with status and body until Recover is called
func (s *Server) Fail(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[hitKey(method, path)] = failure{status: status, body: body}
}

// Recover removes an injected failure
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, hitKey(method, path))
}

// Hits returns how many requests reached method+path (without the /api prefix)
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[hitKey(method, path)]
}

// CartOf returns a copy of a user's cart
func (s *Server) CartOf(userID int64) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.carts[userID]...)
}

// Orders returns a copy of every stored order, newest first
func (s *Server) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedOrdersLocked(0)
}

func (s *Server) sortedOrdersLocked(userID int64) []models.Order {
	orders := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if userID == 0 || o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders
}

func hitKey(method, path string) string {
	return method + " " + path
}
