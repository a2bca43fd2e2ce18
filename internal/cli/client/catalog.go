package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopfront-dev/shopfront/internal/models"
)

// ListProducts returns one page of the catalog
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*models.ProductPage, error) {
	var page models.ProductPage
	if err := c.get(ctx, "/products", q.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// NewProducts returns the most recently added products
func (c *Client) NewProducts(ctx context.Context, limit int) ([]models.Product, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var products []models.Product
	if err := c.get(ctx, "/products/new", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product
func (c *Client) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", productID), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories returns all categories
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.get(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
