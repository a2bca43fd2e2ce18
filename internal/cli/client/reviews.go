package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopfront-dev/shopfront/internal/models"
)

// ListReviews returns the reviews of a product, newest first
func (c *Client) ListReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	query := url.Values{}
	query.Set("product_id", strconv.FormatInt(productID, 10))

	var reviews []models.Review
	if err := c.get(ctx, "/reviews", query, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// PostReview creates a review
func (c *Client) PostReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}

	var review models.Review
	if err := c.post(ctx, "/reviews", in, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview edits the rating and comment of a review
func (c *Client) UpdateReview(ctx context.Context, reviewID int64, in ReviewInput) (*models.Review, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}

	body := struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment,omitempty"`
	}{
		Rating:  in.Rating,
		Comment: in.Comment,
	}

	var review models.Review
	if err := c.put(ctx, fmt.Sprintf("/reviews/%d", reviewID), body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review
func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	return c.delete(ctx, fmt.Sprintf("/reviews/%d", reviewID))
}
