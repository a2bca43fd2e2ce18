package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/models"
)

const (
	DefaultPerPage     = 12
	DefaultNewProducts = 10
)

// Filters narrow the catalog listing
type Filters struct {
	Categories []int64
	Search     string
	Sort       string // asc or desc
}

// Products is the catalog store
type Products struct {
	State

	Items       []models.Product
	Total       int
	Pages       int
	CurrentPage int
	PerPage     int
	NewItems    []models.Product
	Current     *models.Product
	Filters     Filters

	api API
	log zerolog.Logger
}

func NewProducts(api API, log zerolog.Logger) *Products {
	return &Products{
		CurrentPage: 1,
		PerPage:     DefaultPerPage,
		Filters:     Filters{Sort: "asc"},
		api:         api,
		log:         log.With().Str("store", "products").Logger(),
	}
}

func (p *Products) query(page int) client.ProductQuery {
	return client.ProductQuery{
		Page:        page,
		PerPage:     p.PerPage,
		CategoryIDs: p.Filters.Categories,
		Search:      p.Filters.Search,
		Sort:        p.Filters.Sort,
	}
}

// FetchProducts replaces Items with the given page
func (p *Products) FetchProducts(ctx context.Context, page int) {
	p.begin()
	defer p.end()

	result, err := p.api.ListProducts(ctx, p.query(page))
	if err != nil {
		p.fail(p.log, "fetch products", err, "Failed to load products")
		return
	}

	p.Items = result.Products
	p.Total = result.Total
	p.Pages = result.Pages
	p.CurrentPage = result.CurrentPage
}

// FetchNewProducts loads the most recently added products
func (p *Products) FetchNewProducts(ctx context.Context, limit int) {
	if limit <= 0 {
		limit = DefaultNewProducts
	}

	p.begin()
	defer p.end()

	items, err := p.api.NewProducts(ctx, limit)
	if err != nil {
		p.fail(p.log, "fetch new products", err, "Failed to load new arrivals")
		return
	}
	p.NewItems = items
}

// HasMore reports whether LoadMore would fetch another page
func (p *Products) HasMore() bool {
	return p.CurrentPage < p.Pages
}

// LoadMore appends the next page to Items. On the last page it does nothing.
func (p *Products) LoadMore(ctx context.Context) {
	if !p.HasMore() {
		return
	}

	p.begin()
	defer p.end()

	result, err := p.api.ListProducts(ctx, p.query(p.CurrentPage+1))
	if err != nil {
		p.fail(p.log, "load more products", err, "Failed to load more products")
		return
	}

	p.Items = append(p.Items, result.Products...)
	p.CurrentPage = result.CurrentPage
}

// SetFilters replaces the filters and reloads from the first page
func (p *Products) SetFilters(ctx context.Context, f Filters) {
	p.Filters = f
	p.CurrentPage = 1
	p.FetchProducts(ctx, 1)
}

// FetchProduct loads one product into Current
func (p *Products) FetchProduct(ctx context.Context, productID int64) {
	p.begin()
	defer p.end()

	product, err := p.api.GetProduct(ctx, productID)
	if err != nil {
		p.Current = nil
		p.fail(p.log, "fetch product", err, "Failed to load product")
		return
	}
	p.Current = product
}

// Categories is the category list store
type Categories struct {
	State

	List []models.Category

	api API
	log zerolog.Logger
}

func NewCategories(api API, log zerolog.Logger) *Categories {
	return &Categories{
		api: api,
		log: log.With().Str("store", "categories").Logger(),
	}
}

// Fetch loads every category
func (c *Categories) Fetch(ctx context.Context) {
	c.begin()
	defer c.end()

	list, err := c.api.ListCategories(ctx)
	if err != nil {
		c.fail(c.log, "fetch categories", err, "Failed to load categories")
		return
	}
	c.List = list
}

// Find returns the category with id
func (c *Categories) Find(id int64) (models.Category, bool) {
	for _, category := range c.List {
		if category.ID == id {
			return category, true
		}
	}
	return models.Category{}, false
}
