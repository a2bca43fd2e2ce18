package apitest

import (
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopfront-dev/shopfront/internal/models"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req credentials
	_ = c.ShouldBindJSON(&req)
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	s.mu.Lock()
	var found *account
	for _, acct := range s.users {
		if acct.user.Email == strings.TrimSpace(req.Email) {
			found = acct
		}
	}
	s.mu.Unlock()

	if found == nil || !found.checkPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": s.IssueToken(found.user.ID), "user": found.user})
}

func (s *Server) register(c *gin.Context) {
	var req credentials
	_ = c.ShouldBindJSON(&req)
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	s.mu.Lock()
	for _, acct := range s.users {
		if acct.user.Email == req.Email {
			s.mu.Unlock()
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
			return
		}
	}
	user := s.addUserLocked(strings.TrimSpace(req.Email), req.Password, false)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"token": s.IssueToken(user.ID), "user": user})
}

func (s *Server) me(c *gin.Context) {
	claims := getClaims(c)

	s.mu.Lock()
	user := s.users[claims.UserID].user
	s.mu.Unlock()

	c.JSON(http.StatusOK, user)
}

func (s *Server) listCategories(c *gin.Context) {
	s.mu.Lock()
	categories := append([]models.Category{}, s.categories...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, categories)
}

func (s *Server) productsLocked() []models.Product {
	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}
	slices.SortFunc(products, func(a, b models.Product) int { return int(a.ID - b.ID) })
	return products
}

func (s *Server) listProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "12"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 12
	}

	var categoryIDs []int64
	if raw := c.Query("category_id"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.ParseInt(part, 10, 64); err == nil {
				categoryIDs = append(categoryIDs, id)
			}
		}
	}
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	all := s.productsLocked()
	s.mu.Unlock()

	filtered := make([]models.Product, 0, len(all))
	for _, p := range all {
		if len(categoryIDs) > 0 && (p.Category == nil || !slices.Contains(categoryIDs, p.Category.ID)) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		filtered = append(filtered, p)
	}

	switch c.Query("sort") {
	case "asc":
		slices.SortStableFunc(filtered, func(a, b models.Product) int {
			return compareAmounts(a.Price, b.Price)
		})
	case "desc":
		slices.SortStableFunc(filtered, func(a, b models.Product) int {
			return compareAmounts(b.Price, a.Price)
		})
	default:
		slices.SortStableFunc(filtered, func(a, b models.Product) int { return b.Popularity - a.Popularity })
	}

	total := len(filtered)
	pages := int(math.Ceil(float64(total) / float64(perPage)))
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	c.JSON(http.StatusOK, models.ProductPage{
		Products:    filtered[start:end],
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
	})
}

func compareAmounts(a, b string) int {
	x, y := models.ParseAmount(a), models.ParseAmount(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func (s *Server) newProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	s.mu.Lock()
	all := s.productsLocked()
	s.mu.Unlock()

	slices.Reverse(all)
	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	c.JSON(http.StatusOK, all)
}

func (s *Server) getProduct(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	s.mu.Lock()
	product, ok := s.products[id]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) getCart(c *gin.Context) {
	claims := getClaims(c)

	s.mu.Lock()
	items := append([]models.CartItem{}, s.carts[claims.UserID]...)
	s.mu.Unlock()

	var total float64
	for _, item := range items {
		total += models.ParseAmount(item.Product.Price) * float64(item.Quantity)
	}

	c.JSON(http.StatusOK, models.Cart{Items: items, Total: models.FormatAmount(total)})
}

type cartRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  *int   `json:"quantity"`
	Size      string `json:"size"`
}

func (s *Server) addToCart(c *gin.Context) {
	claims := getClaims(c)

	var req cartRequest
	_ = c.ShouldBindJSON(&req)
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	size := strings.ToLower(req.Size)

	if req.ProductID == 0 || quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id or quantity"})
		return
	}
	if !slices.Contains(models.AvailableSizes, size) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size, must be one of s, m, l, xl"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[req.ProductID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	items := s.carts[claims.UserID]
	for i := range items {
		if items[i].Product.ID == req.ProductID && items[i].Size == size {
			items[i].Quantity += quantity
			c.JSON(http.StatusCreated, gin.H{"message": "Added to cart", "item": items[i]})
			return
		}
	}

	item := models.CartItem{
		ID: s.id(),
		Product: models.CartProduct{
			ID:    product.ID,
			Name:  product.Name,
			Price: product.Price,
			Image: product.PrimaryImage(),
		},
		Quantity: quantity,
		Size:     size,
		AddedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	s.carts[claims.UserID] = append(items, item)
	c.JSON(http.StatusCreated, gin.H{"message": "Added to cart", "item": item})
}

func (s *Server) updateCartItem(c *gin.Context) {
	claims := getClaims(c)

	var req cartRequest
	_ = c.ShouldBindJSON(&req)
	size := strings.ToLower(req.Size)

	if req.ProductID == 0 || req.Quantity == nil || *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id or quantity"})
		return
	}
	if !slices.Contains(models.AvailableSizes, size) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[claims.UserID]
	for i := range items {
		if items[i].Product.ID != req.ProductID || items[i].Size != size {
			continue
		}
		if *req.Quantity == 0 {
			s.carts[claims.UserID] = slices.Delete(items, i, i+1)
			c.JSON(http.StatusOK, gin.H{"message": "Removed from cart"})
			return
		}
		items[i].Quantity = *req.Quantity
		c.JSON(http.StatusOK, gin.H{"message": "Quantity updated", "item": items[i]})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
}

func (s *Server) removeCartItem(c *gin.Context) {
	claims := getClaims(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Param("product_id") == "clear" {
		delete(s.carts, claims.UserID)
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
		return
	}

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	items := s.carts[claims.UserID]
	kept := items[:0]
	for _, item := range items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	s.carts[claims.UserID] = kept
	c.JSON(http.StatusOK, gin.H{"message": "Removed from cart"})
}

type orderRequest struct {
	ShippingStreet     string   `json:"shipping_street"`
	ShippingCity       string   `json:"shipping_city"`
	ShippingPostalCode string   `json:"shipping_postal_code"`
	ShippingCountry    string   `json:"shipping_country"`
	ShippingMethod     string   `json:"shipping_method"`
	ShippingCost       *float64 `json:"shipping_cost"`
	ReferralCode       string   `json:"referral_code"`
	UsePoints          *int     `json:"use_points"`
}

func (s *Server) createOrder(c *gin.Context) {
	claims := getClaims(c)

	var req orderRequest
	_ = c.ShouldBindJSON(&req)

	var errs []string
	if req.ShippingStreet == "" || req.ShippingCity == "" || req.ShippingPostalCode == "" || req.ShippingCountry == "" {
		errs = append(errs, "Shipping address (street, city, postal_code, country) is required")
	}
	if !slices.Contains(models.ShippingMethods, req.ShippingMethod) {
		errs = append(errs, "shipping_method must be one of: 'pochta', 'cdek'")
	}
	if req.ShippingCost == nil || *req.ShippingCost < 0 {
		errs = append(errs, "shipping_cost must be a non-negative number")
	}
	if req.UsePoints != nil && *req.UsePoints < 0 {
		errs = append(errs, "use_points must not be negative")
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[claims.UserID]
	if len(cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	buyer := s.users[claims.UserID]
	order := models.Order{
		ID:     s.id(),
		UserID: claims.UserID,
		Status: "PENDING",
		Shipping: models.Address{
			Street:     req.ShippingStreet,
			City:       req.ShippingCity,
			PostalCode: req.ShippingPostalCode,
			Country:    req.ShippingCountry,
		},
		ShippingMethod: req.ShippingMethod,
		ShippingCost:   models.FormatAmount(*req.ShippingCost),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	var referrer *account
	if req.ReferralCode != "" {
		for _, acct := range s.users {
			if acct.user.ReferralCode == req.ReferralCode && acct.user.ID != claims.UserID {
				referrer = acct
				id := acct.user.ID
				order.ReferrerID = &id
			}
		}
	}

	var subtotal float64
	for _, item := range cart {
		subtotal += models.ParseAmount(item.Product.Price) * float64(item.Quantity)
		order.Items = append(order.Items, models.OrderItem{
			ID:        s.id(),
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
			Size:      item.Size,
		})
	}

	if req.UsePoints != nil {
		used := min(*req.UsePoints, buyer.user.PointsBalance)
		buyer.user.PointsBalance -= used
		order.UsedPoints = used
	}
	if referrer != nil {
		order.EarnedPoints = int(math.Floor(subtotal * 0.1))
		referrer.user.PointsBalance += order.EarnedPoints
	}

	order.TotalAmount = models.FormatAmount(subtotal + *req.ShippingCost - float64(order.UsedPoints))
	order.UpdatedAt = order.CreatedAt

	s.orders = append(s.orders, order)
	delete(s.carts, claims.UserID)

	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

func (s *Server) listOrders(c *gin.Context) {
	claims := getClaims(c)

	s.mu.Lock()
	orders := s.sortedOrdersLocked(claims.UserID)
	s.mu.Unlock()

	c.JSON(http.StatusOK, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	claims := getClaims(c)
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id && o.UserID == claims.UserID {
			c.JSON(http.StatusOK, o)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
}

func (s *Server) listReviews(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"product_id is required"}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reviews := []models.Review{}
	for _, r := range s.reviews {
		if r.ProductID == productID {
			reviews = append(reviews, r)
		}
	}
	slices.Reverse(reviews)
	c.JSON(http.StatusOK, reviews)
}

type reviewRequest struct {
	ProductID int64  `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (s *Server) postReview(c *gin.Context) {
	claims := getClaims(c)

	var req reviewRequest
	_ = c.ShouldBindJSON(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []string
	if req.Rating < 1 || req.Rating > 5 {
		errs = append(errs, "Rating must be between 1 and 5")
	}
	if _, ok := s.products[req.ProductID]; !ok {
		errs = append(errs, "Invalid or missing product_id")
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	for _, r := range s.reviews {
		if r.ProductID == req.ProductID && r.UserID == claims.UserID {
			c.JSON(http.StatusConflict, gin.H{"errors": []string{"Review already exists"}})
			return
		}
	}

	acct := s.users[claims.UserID]
	review := models.Review{
		ID:        s.id(),
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		UserID:    claims.UserID,
		ProductID: req.ProductID,
		Username:  acct.user.DisplayName(),
	}
	s.reviews = append(s.reviews, review)
	c.JSON(http.StatusCreated, review)
}

func (s *Server) findReviewLocked(c *gin.Context) (int, bool) {
	claims := getClaims(c)
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	for i := range s.reviews {
		if s.reviews[i].ID != id {
			continue
		}
		if s.reviews[i].UserID != claims.UserID {
			c.JSON(http.StatusForbidden, gin.H{"errors": []string{"Unauthorized"}})
			return 0, false
		}
		return i, true
	}
	c.JSON(http.StatusNotFound, gin.H{"errors": []string{"Review not found"}})
	return 0, false
}

func (s *Server) updateReview(c *gin.Context) {
	var req reviewRequest
	_ = c.ShouldBindJSON(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findReviewLocked(c)
	if !ok {
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Rating must be between 1 and 5"}})
		return
	}

	s.reviews[i].Rating = req.Rating
	s.reviews[i].Comment = req.Comment
	c.JSON(http.StatusOK, s.reviews[i])
}

func (s *Server) deleteReview(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findReviewLocked(c)
	if !ok {
		return
	}
	s.reviews = slices.Delete(s.reviews, i, i+1)
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

func (s *Server) adminListUsers(c *gin.Context) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.users))
	for _, acct := range s.users {
		users = append(users, acct.user)
	}
	s.mu.Unlock()

	slices.SortFunc(users, func(a, b models.User) int { return int(a.ID - b.ID) })
	c.JSON(http.StatusOK, users)
}

func (s *Server) adminListOrders(c *gin.Context) {
	s.mu.Lock()
	orders := s.sortedOrdersLocked(0)
	s.mu.Unlock()

	c.JSON(http.StatusOK, orders)
}

func (s *Server) adminUpdateOrderStatus(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	var req struct {
		Status string `json:"status"`
	}
	_ = c.ShouldBindJSON(&req)
	if !slices.Contains(models.OrderStatuses, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = req.Status
			c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": s.orders[i]})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
}
