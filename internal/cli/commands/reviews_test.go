package commands

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront-dev/shopfront/internal/cli/app"
)

func TestReviews_PostEditDelete(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t, false)
	shirt := te.api.AddProduct("shirt", "10.00", 0)
	productID := strconv.FormatInt(shirt.ID, 10)
	te.prompter.Answers["Rating"] = "4"

	require.NoError(t, execute(NewReviewsCmd(te.Env), "post", productID, "-m", "fits well"))
	assert.Contains(t, te.out.String(), "✓ Review posted (1 review(s), average 4.0)")

	a, _ := te.App()
	require.Len(t, a.Stores.Reviews.List, 1)
	reviewID := strconv.FormatInt(a.Stores.Reviews.List[0].ID, 10)

	require.NoError(t, execute(NewReviewsCmd(te.Env), "edit", reviewID, "--product", productID, "--rating", "2"))
	assert.Equal(t, 2, a.Stores.Reviews.List[0].Rating)

	te.out.Reset()
	require.NoError(t, execute(NewReviewsCmd(te.Env), productID))
	assert.Contains(t, te.out.String(), "Average rating: 2.0")

	require.NoError(t, execute(NewReviewsCmd(te.Env), "rm", reviewID, "--product", productID))
	assert.Empty(t, a.Stores.Reviews.List)
}

func TestReviews_Duplicate(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t, false)
	shirt := te.api.AddProduct("shirt", "10.00", 0)
	productID := strconv.FormatInt(shirt.ID, 10)

	require.NoError(t, execute(NewReviewsCmd(te.Env), "post", productID, "--rating", "5"))

	err := execute(NewReviewsCmd(te.Env), "post", productID, "--rating", "3")
	require.Error(t, err)
	assert.Equal(t, "failed to post review: Review already exists", err.Error())
}

func TestReviews_EditRequiresProduct(t *testing.T) {
	te := newTestEnv(t)

	err := execute(NewReviewsCmd(te.Env), "edit", "1", "--rating", "3")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), `required flag(s) "product" not set`), err.Error())
}

func TestReviews_SignedOut(t *testing.T) {
	te := newTestEnv(t)
	shirt := te.api.AddProduct("shirt", "10.00", 0)

	err := execute(NewReviewsCmd(te.Env), "post", strconv.FormatInt(shirt.ID, 10), "--rating", "5")
	assert.ErrorIs(t, err, app.ErrSignInRequired)
	assert.Zero(t, te.api.Hits(http.MethodPost, "/reviews"))

	require.NoError(t, execute(NewReviewsCmd(te.Env)))
	assert.Contains(t, te.out.String(), "Sign in required for /reviews")
}
