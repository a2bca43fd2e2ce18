package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront-dev/shopfront/internal/apitest"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// headerRecorder captures the headers of the last request
func headerRecorder(t *testing.T, status int, body string) (*httptest.Server, *http.Header) {
	t.Helper()

	var captured http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &captured
}

func TestClient_AttachesBearerToken(t *testing.T) {
	srv, headers := headerRecorder(t, http.StatusOK, `[]`)

	c := New(srv.URL, WithTokenSource(staticToken("t1")))
	_, err := c.ListCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer t1", headers.Get("Authorization"))
	assert.Len(t, headers.Get("X-Request-ID"), 26, "expected a ULID request id")
}

func TestClient_SendsUnauthenticatedWithoutToken(t *testing.T) {
	srv, headers := headerRecorder(t, http.StatusOK, `[]`)

	c := New(srv.URL, WithTokenSource(staticToken("")))
	_, err := c.ListCategories(context.Background())
	require.NoError(t, err)

	assert.Empty(t, headers.Get("Authorization"))
}

func TestClient_UnauthorizedNotifiesHandlerAndPropagates(t *testing.T) {
	api := apitest.New(t)
	user := api.AddUser("a@b.com", "pw", false)
	token := api.IssueToken(user.ID)
	api.RevokeTokens()

	var notified []error
	c := New(api.APIURL(),
		WithTokenSource(staticToken(token)),
		WithUnauthorizedHandler(func(err error) { notified = append(notified, err) }),
	)

	_, err := c.GetCart(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthorizationExpired)
	require.Len(t, notified, 1, "handler must run exactly once per 401")
	assert.ErrorIs(t, notified[0], ErrAuthorizationExpired)
}

func TestClient_NonUnauthorizedDoesNotNotify(t *testing.T) {
	api := apitest.New(t)
	api.Fail(http.MethodGet, "/categories", http.StatusInternalServerError, map[string]string{"error": "boom"})

	called := false
	c := New(api.APIURL(), WithUnauthorizedHandler(func(error) { called = true }))

	_, err := c.ListCategories(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
	assert.False(t, called)
	assert.NotErrorIs(t, err, ErrAuthorizationExpired)
}

func TestClient_LoginSuccess(t *testing.T) {
	api := apitest.New(t)
	api.AddUser("a@b.com", "pw", true)

	c := New(api.APIURL())
	result, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "a@b.com", result.User.Email)
	assert.True(t, result.User.IsAdmin)
}

func TestClient_LoginRejected(t *testing.T) {
	api := apitest.New(t)
	api.AddUser("a@b.com", "pw", false)

	notified := 0
	c := New(api.APIURL(), WithUnauthorizedHandler(func(error) { notified++ }))

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid email or password", authErr.Message)
	assert.Equal(t, 1, notified, "a 401 from the login endpoint is still a 401")
}

func TestClient_RegisterConflict(t *testing.T) {
	api := apitest.New(t)
	api.AddUser("a@b.com", "pw", false)

	c := New(api.APIURL())
	_, err := c.Register(context.Background(), "a@b.com", "pw2")

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Email already in use", authErr.Message)
}

func TestClient_LoginServerFaultIsNotRejection(t *testing.T) {
	api := apitest.New(t)
	api.AddUser("a@b.com", "pw", false)
	api.Fail(http.MethodPost, "/auth/login", http.StatusInternalServerError, map[string]string{"error": "Database unavailable"})

	c := New(api.APIURL())
	_, err := c.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)

	var authErr *AuthenticationError
	assert.False(t, errors.As(err, &authErr), "a 5xx is not rejected credentials")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Database unavailable", Message(err, ""))
}

func TestClient_LoginUndecodableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)

	var authErr *AuthenticationError
	assert.False(t, errors.As(err, &authErr))
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_ValidatesBeforeSending(t *testing.T) {
	api := apitest.New(t)
	c := New(api.APIURL(), WithTokenSource(staticToken("t")))

	err := c.AddToCart(context.Background(), CartItemInput{ProductID: 1, Quantity: 1, Size: "xxl"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "size must be one of: s, m, l, xl", validationErr.Error())

	_, err = c.CreateOrder(context.Background(), OrderInput{ShippingMethod: "post", ShippingCost: -1})
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages, "shipping_street is required")
	assert.Contains(t, validationErr.Messages, "shipping_method must be one of: pochta, cdek")
	assert.Contains(t, validationErr.Messages, "shipping_cost must be at least 0")

	_, err = c.Login(context.Background(), "not-an-email", "pw")
	require.ErrorAs(t, err, &validationErr)

	assert.Zero(t, api.Hits(http.MethodPost, "/cart"))
	assert.Zero(t, api.Hits(http.MethodPost, "/orders"))
	assert.Zero(t, api.Hits(http.MethodPost, "/auth/login"))
}

func TestClient_ServerValidationErrorsAreJoined(t *testing.T) {
	api := apitest.New(t)
	api.Fail(http.MethodPost, "/orders", http.StatusBadRequest, map[string][]string{
		"errors": {"first problem", "second problem"},
	})

	c := New(api.APIURL())
	_, err := c.CreateOrder(context.Background(), OrderInput{
		ShippingStreet:     "Main st 1",
		ShippingCity:       "Moscow",
		ShippingPostalCode: "101000",
		ShippingCountry:    "RU",
		ShippingMethod:     "cdek",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, http.StatusBadRequest, validationErr.StatusCode)
	assert.Equal(t, "first problem; second problem", Message(err, "fallback"))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url)
	_, err := c.ListCategories(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "GET /categories", netErr.Op)
	assert.Equal(t, "Failed to load categories", Message(err, "Failed to load categories"))
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.ListCategories(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestClient_CatalogAndCartRoundTrip(t *testing.T) {
	api := apitest.New(t)
	user := api.AddUser("a@b.com", "pw", false)
	shirts := api.AddCategory("Shirts", "shirts")
	shirt := api.AddProduct("shirt", "10.50", shirts.ID)
	api.AddProduct("hat", "5.00", 0)

	c := New(api.APIURL(), WithTokenSource(staticToken(api.IssueToken(user.ID))))
	ctx := context.Background()

	page, err := c.ListProducts(ctx, ProductQuery{Page: 1, PerPage: 12, CategoryIDs: []int64{shirts.ID}, Sort: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "shirt", page.Products[0].Name)

	require.NoError(t, c.AddToCart(ctx, CartItemInput{ProductID: shirt.ID, Quantity: 2, Size: "m"}))
	require.NoError(t, c.AddToCart(ctx, CartItemInput{ProductID: shirt.ID, Quantity: 1, Size: "m"}))

	cart, err := c.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "31.50", cart.Total)

	require.NoError(t, c.UpdateCartItem(ctx, CartItemInput{ProductID: shirt.ID, Quantity: 0, Size: "m"}))
	cart, err = c.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClient_AdminEndpointsRequireAdmin(t *testing.T) {
	api := apitest.New(t)
	user := api.AddUser("a@b.com", "pw", false)

	c := New(api.APIURL(), WithTokenSource(staticToken(api.IssueToken(user.ID))))
	_, err := c.AdminListUsers(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	_, err = c.AdminUpdateOrderStatus(context.Background(), 1, "lost")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.True(t, strings.HasPrefix(validationErr.Error(), "status must be one of"))
}

func TestProductQuery_Values(t *testing.T) {
	q := ProductQuery{Page: 2, PerPage: 12, CategoryIDs: []int64{3, 7}, Search: "shirt", Sort: "desc"}
	values := q.Values()

	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "12", values.Get("per_page"))
	assert.Equal(t, "3,7", values.Get("category_id"))
	assert.Equal(t, "shirt", values.Get("search"))
	assert.Equal(t, "desc", values.Get("sort"))

	assert.Empty(t, ProductQuery{}.Values())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "x"))
	assert.Equal(t, "a; b", Message(&ValidationError{Messages: []string{"a", "b"}}, "x"))
	assert.Equal(t, "Cart is empty", Message(&APIError{StatusCode: 400, Message: "Cart is empty"}, "x"))
	assert.Equal(t, "x", Message(&APIError{StatusCode: 500}, "x"))
	assert.Equal(t, "plain", Message(errors.New("plain"), ""))
}
