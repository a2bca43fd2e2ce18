package commands

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront-dev/shopfront/internal/cli/router"
)

func TestCatalogQuery(t *testing.T) {
	query := catalogQuery(2, "desc", "hat", []int64{3, 7})

	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "desc", query.Get("sort"))
	assert.Equal(t, "hat", query.Get("search"))
	assert.Equal(t, "3,7", query.Get("category"))

	assert.Empty(t, catalogQuery(1, "", "", nil), "first page with no filters has no query")
}

func TestCatalog_FiltersByCategory(t *testing.T) {
	te := newTestEnv(t)
	hats := te.api.AddCategory("Hats", "hats")
	te.api.AddProduct("red hat", "15.00", hats.ID)
	te.api.AddProduct("blue scarf", "9.00", 0)

	require.NoError(t, execute(NewCatalogCmd(te.Env), "--category", strconv.FormatInt(hats.ID, 10)))

	output := te.out.String()
	assert.Contains(t, output, "red hat")
	assert.NotContains(t, output, "blue scarf")

	a, _ := te.App()
	assert.Equal(t, router.CatalogRoute, a.Navigator.Current().Name)
}

func TestCatalog_InvalidSort(t *testing.T) {
	te := newTestEnv(t)

	err := execute(NewCatalogCmd(te.Env), "--sort", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sort")
}

func TestProduct(t *testing.T) {
	te := newTestEnv(t)
	shirt := te.api.AddProduct("linen shirt", "42.00", 0)

	require.NoError(t, execute(NewProductCmd(te.Env), strconv.FormatInt(shirt.ID, 10)))
	assert.Contains(t, te.out.String(), "linen shirt")
	assert.Contains(t, te.out.String(), "Price:    42.00")

	err := execute(NewProductCmd(te.Env), "abc")
	assert.EqualError(t, err, `invalid product id "abc"`)
}

func TestCategories(t *testing.T) {
	te := newTestEnv(t)
	te.api.AddCategory("Hats", "hats")
	te.api.AddCategory("Shirts", "shirts")

	require.NoError(t, execute(NewCategoriesCmd(te.Env)))

	output := te.out.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "Hats")
	assert.Contains(t, output, "shirts")
}

func TestCategories_ServerError(t *testing.T) {
	te := newTestEnv(t)
	te.api.Fail(http.MethodGet, "/categories", http.StatusInternalServerError, nil)

	err := execute(NewCategoriesCmd(te.Env))
	assert.EqualError(t, err, "Failed to load categories")
}

func TestOpen_GuardsPages(t *testing.T) {
	te := newTestEnv(t)

	require.NoError(t, execute(NewOpenCmd(te.Env), "/profile"))
	assert.Contains(t, te.out.String(), "Sign in required for /profile")

	te.out.Reset()
	require.NoError(t, execute(NewOpenCmd(te.Env), "/admin"))
	assert.Contains(t, te.out.String(), "Admin access required")

	a, _ := te.App()
	assert.Equal(t, router.HomeRoute, a.Navigator.Current().Name)
}

func TestOpen_UnknownPathGoesHome(t *testing.T) {
	te := newTestEnv(t)

	require.NoError(t, execute(NewOpenCmd(te.Env), "/no/such/page"))

	a, _ := te.App()
	assert.Equal(t, router.HomeRoute, a.Navigator.Current().Name)
	assert.Contains(t, te.out.String(), "New arrivals")
}

func TestRoutes_ShowsAccessForSession(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t, false)

	require.NoError(t, execute(NewRoutesCmd(te.Env)))

	lines := strings.Split(te.out.String(), "\n")
	find := func(name string) string {
		for _, line := range lines {
			if strings.HasPrefix(line, name+" ") {
				return line
			}
		}
		return ""
	}

	assert.Contains(t, find(router.CartRoute), "allowed")
	assert.Contains(t, find(router.AdminRoute), "redirected home")
	assert.Contains(t, find(router.LoginRoute), "public")
	assert.Contains(t, te.out.String(), "→ /")
}
