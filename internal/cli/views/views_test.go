package views

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront-dev/shopfront/internal/apitest"
	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/cli/router"
	"github.com/shopfront-dev/shopfront/internal/cli/store"
	"github.com/shopfront-dev/shopfront/internal/models"
)

type staticProfile struct {
	user *models.User
}

func (p staticProfile) Authenticated() bool            { return p.user != nil }
func (p staticProfile) User() *models.User             { return p.user }
func (p staticProfile) TokenExpiry() (time.Time, bool) { return time.Time{}, false }

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newRenderer(t *testing.T, admin bool) (*Renderer, *bytes.Buffer, *apitest.Server, models.User) {
	t.Helper()

	api := apitest.New(t)
	user := api.AddUser("a@b.com", "pw", admin)
	c := client.New(api.APIURL(), client.WithTokenSource(staticToken(api.IssueToken(user.ID))))

	var out bytes.Buffer
	return New(&out, store.New(c, zerolog.Nop()), staticProfile{user: &user}), &out, api, user
}

func resolve(t *testing.T, path string) router.Location {
	t.Helper()
	loc, err := router.MustDefaultTable().Resolve(path)
	require.NoError(t, err)
	return loc
}

func TestRenderer_EveryRouteHasAView(t *testing.T) {
	r, _, _, _ := newRenderer(t, false)

	for _, route := range router.DefaultRoutes() {
		if route.Redirect != "" {
			continue
		}
		assert.True(t, r.Has(route.Name), route.Name)
	}
}

func TestRenderer_Catalog(t *testing.T) {
	r, out, api, _ := newRenderer(t, false)
	shirts := api.AddCategory("Shirts", "shirts")
	api.AddProduct("blue shirt", "20.00", shirts.ID)
	api.AddProduct("scarf", "5.00", 0)

	require.NoError(t, r.Render(context.Background(), resolve(t, "/catalog?category="+itoa(shirts.ID))))

	assert.Contains(t, out.String(), "blue shirt")
	assert.NotContains(t, out.String(), "scarf")
	assert.Contains(t, out.String(), "Page 1 of 1 (1 products)")
	assert.Contains(t, out.String(), "Privacy", "footer is shown")
}

func TestRenderer_CatalogRejectsBadQuery(t *testing.T) {
	r, _, _, _ := newRenderer(t, false)

	err := r.Render(context.Background(), resolve(t, "/catalog?sort=sideways"))
	assert.Error(t, err)

	err = r.Render(context.Background(), resolve(t, "/catalog?page=zero"))
	assert.Error(t, err)
}

func TestRenderer_ProductDetail(t *testing.T) {
	r, out, api, _ := newRenderer(t, false)
	shirt := api.AddProduct("shirt", "10.50", 0)

	require.NoError(t, r.Render(context.Background(), resolve(t, "/product/"+itoa(shirt.ID))))
	assert.Contains(t, out.String(), "shirt")
	assert.Contains(t, out.String(), "Price:    10.50")
	assert.Contains(t, out.String(), "No reviews yet.")

	out.Reset()
	require.NoError(t, r.Render(context.Background(), resolve(t, "/product/999")))
	assert.Contains(t, out.String(), "Error: Product not found")
}

func TestRenderer_CartAndCheckout(t *testing.T) {
	r, out, api, _ := newRenderer(t, false)
	shirt := api.AddProduct("shirt", "10.50", 0)
	ctx := context.Background()

	require.NoError(t, r.Render(ctx, resolve(t, "/cart")))
	assert.Contains(t, out.String(), "Your cart is empty.")

	require.NoError(t, r.stores.Cart.Add(ctx, shirt.ID, 2, "m"))

	out.Reset()
	require.NoError(t, r.Render(ctx, resolve(t, "/checkout")))
	assert.Contains(t, out.String(), "Items: 2  Total: 21.00")
	assert.Contains(t, out.String(), "pochta, cdek")
}

func TestRenderer_LoginHidesFooterAndShowsRedirect(t *testing.T) {
	r, out, _, _ := newRenderer(t, false)

	require.NoError(t, r.Render(context.Background(), resolve(t, "/login?redirect=%2Fcheckout")))

	assert.Contains(t, out.String(), "Sign in to continue to /checkout")
	assert.NotContains(t, out.String(), "Privacy")
}

func TestRenderer_AdminShowsServerMessage(t *testing.T) {
	r, out, _, _ := newRenderer(t, false)

	require.NoError(t, r.Render(context.Background(), resolve(t, "/admin")))
	assert.Contains(t, out.String(), "Error: Unauthorized access")

	admin, adminOut, _, _ := newRenderer(t, true)
	require.NoError(t, admin.Render(context.Background(), resolve(t, "/admin")))
	assert.Contains(t, adminOut.String(), "a@b.com")
	assert.Contains(t, adminOut.String(), "No orders yet.")
}

func TestRenderer_ReadFailureIsShownNotReturned(t *testing.T) {
	r, out, api, _ := newRenderer(t, false)
	api.Fail(http.MethodGet, "/orders", http.StatusInternalServerError, nil)

	require.NoError(t, r.Render(context.Background(), resolve(t, "/profile")))
	assert.Contains(t, out.String(), "Email:    a@b.com")
	assert.Contains(t, out.String(), "Error: Failed to load your orders")
}

func TestRenderer_StaticPages(t *testing.T) {
	r, out, _, _ := newRenderer(t, false)

	for _, path := range []string{"/contacts", "/user-agreement", "/privacy-policy"} {
		out.Reset()
		require.NoError(t, r.Render(context.Background(), resolve(t, path)))
		assert.NotEmpty(t, out.String())
	}
}

func TestRenderer_UnknownView(t *testing.T) {
	r, _, _, _ := newRenderer(t, false)

	err := r.Render(context.Background(), router.Location{Name: "Nope"})
	assert.ErrorIs(t, err, ErrNoView)
}

func TestFiltersFromQuery(t *testing.T) {
	filters, err := FiltersFromQuery(resolve(t, "/catalog?category=3,7&search=hat&sort=desc"))
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, filters.Categories)
	assert.Equal(t, "hat", filters.Search)
	assert.Equal(t, "desc", filters.Sort)

	filters, err = FiltersFromQuery(resolve(t, "/catalog"))
	require.NoError(t, err)
	assert.Equal(t, "asc", filters.Sort)

	_, err = FiltersFromQuery(resolve(t, "/catalog?category=x"))
	assert.Error(t, err)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
