package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/app"
	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/cli/router"
)

var ratingChoices = []string{"5", "4", "3", "2", "1"}

// NewReviewsCmd creates the reviews command and its subcommands
func NewReviewsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews [product-id]",
		Short: "Read and write product reviews",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]string{}
			if len(args) == 1 {
				id, err := parseID("product", args[0])
				if err != nil {
					return err
				}
				params["productId"] = strconv.FormatInt(id, 10)
			}
			return openRoute(cmd.Context(), env, router.ReviewsRoute, params, nil)
		},
	}

	cmd.AddCommand(newReviewPostCmd(env))
	cmd.AddCommand(newReviewEditCmd(env))
	cmd.AddCommand(newReviewRemoveCmd(env))

	return cmd
}

func newReviewPostCmd(env *Env) *cobra.Command {
	var (
		rating  int
		comment string
	)

	cmd := &cobra.Command{
		Use:   "post <product-id>",
		Short: "Review a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviewPost(cmd.Context(), env, args[0], rating, comment)
		},
	}

	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Rating from 1 to 5 (will prompt if not provided)")
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Review text")

	return cmd
}

func runReviewPost(ctx context.Context, env *Env, rawID string, rating int, comment string) error {
	productID, err := parseID("product", rawID)
	if err != nil {
		return err
	}

	a, err := requireReviews(env, productID)
	if err != nil {
		return err
	}

	if rating, err = askRating(env, rating); err != nil {
		return err
	}

	reviews := a.Stores.Reviews
	in := client.ReviewInput{ProductID: productID, Rating: rating, Comment: comment}
	if err := reviews.Post(ctx, in); err != nil {
		return actionFailed("post review", reviews.Error, err)
	}

	env.printf("✓ Review posted (%d review(s), average %.1f)\n", len(reviews.List), reviews.Average())
	return nil
}

func newReviewEditCmd(env *Env) *cobra.Command {
	var (
		productID int64
		rating    int
		comment   string
	)

	cmd := &cobra.Command{
		Use:   "edit <review-id>",
		Short: "Change one of your reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviewEdit(cmd.Context(), env, args[0], productID, rating, comment)
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product the review belongs to")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Rating from 1 to 5 (will prompt if not provided)")
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Review text")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func runReviewEdit(ctx context.Context, env *Env, rawID string, productID int64, rating int, comment string) error {
	reviewID, err := parseID("review", rawID)
	if err != nil {
		return err
	}

	a, err := requireReviews(env, productID)
	if err != nil {
		return err
	}

	if rating, err = askRating(env, rating); err != nil {
		return err
	}

	reviews := a.Stores.Reviews
	in := client.ReviewInput{ProductID: productID, Rating: rating, Comment: comment}
	if err := reviews.Update(ctx, reviewID, in); err != nil {
		return actionFailed("update review", reviews.Error, err)
	}

	env.printf("✓ Review %d updated\n", reviewID)
	return nil
}

func newReviewRemoveCmd(env *Env) *cobra.Command {
	var productID int64

	cmd := &cobra.Command{
		Use:     "rm <review-id>",
		Aliases: []string{"delete"},
		Short:   "Delete one of your reviews",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviewRemove(cmd.Context(), env, args[0], productID)
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "Product the review belongs to")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func runReviewRemove(ctx context.Context, env *Env, rawID string, productID int64) error {
	reviewID, err := parseID("review", rawID)
	if err != nil {
		return err
	}

	a, err := requireReviews(env, productID)
	if err != nil {
		return err
	}

	reviews := a.Stores.Reviews
	if err := reviews.Delete(ctx, reviewID, productID); err != nil {
		return actionFailed("delete review", reviews.Error, err)
	}

	env.printf("✓ Review %d deleted\n", reviewID)
	return nil
}

func requireReviews(env *Env, productID int64) (*app.App, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("invalid product id %d", productID)
	}
	return requireRoute(env, router.ReviewsRoute, map[string]string{"productId": strconv.FormatInt(productID, 10)})
}

func askRating(env *Env, rating int) (int, error) {
	if rating != 0 {
		return rating, nil
	}

	choice, err := env.Prompter.Select("Rating", ratingChoices)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(choice)
}
