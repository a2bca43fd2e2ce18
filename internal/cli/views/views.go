// Package views renders a resolved location to a writer. Each route name
// has one view; a view loads what it needs through the stores.
package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopfront-dev/shopfront/internal/cli/router"
	"github.com/shopfront-dev/shopfront/internal/cli/store"
	"github.com/shopfront-dev/shopfront/internal/models"
)

// ErrNoView is returned for a location whose route has no view
var ErrNoView = errors.New("no view for route")

// Profile is the part of the session views display
type Profile interface {
	Authenticated() bool
	User() *models.User
	TokenExpiry() (time.Time, bool)
}

type viewFunc func(ctx context.Context, loc router.Location) error

// Renderer draws views to out
type Renderer struct {
	out     io.Writer
	stores  *store.Stores
	profile Profile
	views   map[string]viewFunc
}

// New creates a renderer
func New(out io.Writer, stores *store.Stores, profile Profile) *Renderer {
	r := &Renderer{out: out, stores: stores, profile: profile}
	r.views = map[string]viewFunc{
		router.HomeRoute:          r.home,
		router.CatalogRoute:       r.catalog,
		router.ProductDetailRoute: r.productDetail,
		router.CartRoute:          r.cart,
		router.CheckoutRoute:      r.checkout,
		router.ReviewsRoute:       r.reviews,
		router.LoginRoute:         r.login,
		router.RegisterRoute:      r.register,
		router.ProfileRoute:       r.profilePage,
		router.AdminRoute:         r.admin,
		router.ContactsRoute:      r.static(contactsPage),
		router.UserAgreementRoute: r.static(userAgreementPage),
		router.PrivacyPolicyRoute: r.static(privacyPolicyPage),
	}
	return r
}

// Has reports whether name has a view
func (r *Renderer) Has(name string) bool {
	_, ok := r.views[name]
	return ok
}

// Render draws the view of loc, followed by the footer unless the route hides it
func (r *Renderer) Render(ctx context.Context, loc router.Location) error {
	view, ok := r.views[loc.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoView, loc.Name)
	}

	if err := view(ctx, loc); err != nil {
		return err
	}

	if !loc.Meta.HideFooter {
		r.footer()
	}
	return nil
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) println(args ...any) {
	fmt.Fprintln(r.out, args...)
}

func (r *Renderer) title(title string) {
	r.printf("%s\n\n", title)
}

// failed prints the store's message and reports whether there was one
func (r *Renderer) failed(state *store.State) bool {
	if !state.Failed() {
		return false
	}
	r.printf("Error: %s\n", state.Error)
	return true
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
}

func (r *Renderer) footer() {
	r.println()
	r.println("Contacts: shopfront open /contacts · Terms: /user-agreement · Privacy: /privacy-policy")
}

func (r *Renderer) products(items []models.Product) {
	w := r.table()
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY\tRATING")
	fmt.Fprintln(w, "──\t────\t─────\t────────\t──────")
	for _, p := range items {
		category := "-"
		if p.Category != nil {
			category = p.Category.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Price, category, rating(p.AverageRating))
	}
	w.Flush()
}

func (r *Renderer) orders(items []models.Order, withUser bool) {
	w := r.table()
	if withUser {
		fmt.Fprintln(w, "ID\tUSER\tSTATUS\tTOTAL\tSHIPPING\tCREATED AT")
		fmt.Fprintln(w, "──\t────\t──────\t─────\t────────\t──────────")
	} else {
		fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tSHIPPING\tCREATED AT")
		fmt.Fprintln(w, "──\t──────\t─────\t────────\t──────────")
	}
	for _, o := range items {
		if withUser {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", o.ID, o.UserID, o.Status, o.TotalAmount, o.ShippingMethod, o.CreatedAt)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.Status, o.TotalAmount, o.ShippingMethod, o.CreatedAt)
		}
	}
	w.Flush()
}

func rating(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return strconv.FormatFloat(*avg, 'f', 1, 64)
}

// paramID parses a numeric route parameter
func paramID(loc router.Location, name string) (int64, error) {
	raw := loc.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}
