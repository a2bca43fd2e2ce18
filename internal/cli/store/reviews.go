package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/models"
)

// Reviews holds the reviews of one product. Every write reloads the list.
type Reviews struct {
	State

	ProductID int64
	List      []models.Review

	api API
	log zerolog.Logger
}

func NewReviews(api API, log zerolog.Logger) *Reviews {
	return &Reviews{
		api: api,
		log: log.With().Str("store", "reviews").Logger(),
	}
}

// Fetch loads the reviews of a product
func (r *Reviews) Fetch(ctx context.Context, productID int64) {
	r.begin()
	defer r.end()

	if err := r.reload(ctx, productID); err != nil {
		r.fail(r.log, "fetch reviews", err, "Failed to load reviews")
	}
}

func (r *Reviews) reload(ctx context.Context, productID int64) error {
	list, err := r.api.ListReviews(ctx, productID)
	if err != nil {
		return err
	}
	r.ProductID = productID
	r.List = list
	return nil
}

func (r *Reviews) mutate(ctx context.Context, action, fallback string, productID int64, write func() error) error {
	r.begin()
	defer r.end()

	if err := write(); err != nil {
		r.fail(r.log, action, err, fallback)
		return err
	}
	if err := r.reload(ctx, productID); err != nil {
		r.fail(r.log, action, err, "Failed to load reviews")
		return err
	}
	return nil
}

// Post creates a review
func (r *Reviews) Post(ctx context.Context, in client.ReviewInput) error {
	return r.mutate(ctx, "post review", "Failed to post review", in.ProductID, func() error {
		_, err := r.api.PostReview(ctx, in)
		return err
	})
}

// Update edits a review of in.ProductID
func (r *Reviews) Update(ctx context.Context, reviewID int64, in client.ReviewInput) error {
	return r.mutate(ctx, "update review", "Failed to update review", in.ProductID, func() error {
		_, err := r.api.UpdateReview(ctx, reviewID, in)
		return err
	})
}

// Delete removes a review of productID
func (r *Reviews) Delete(ctx context.Context, reviewID, productID int64) error {
	return r.mutate(ctx, "delete review", "Failed to delete review", productID, func() error {
		return r.api.DeleteReview(ctx, reviewID)
	})
}

// Average returns the mean rating, or 0 without reviews
func (r *Reviews) Average() float64 {
	if len(r.List) == 0 {
		return 0
	}
	var sum int
	for _, review := range r.List {
		sum += review.Rating
	}
	return float64(sum) / float64(len(r.List))
}
