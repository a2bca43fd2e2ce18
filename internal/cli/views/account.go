package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopfront-dev/shopfront/internal/cli/router"
	"github.com/shopfront-dev/shopfront/internal/models"
)

func (r *Renderer) cart(ctx context.Context, loc router.Location) error {
	cart := r.stores.Cart
	cart.Fetch(ctx)

	r.title("Cart")
	if r.failed(&cart.State) {
		return nil
	}
	if cart.Empty() {
		r.println("Your cart is empty.")
		return nil
	}

	r.cartLines()
	r.println("\nCheck out with: shopfront checkout")
	return nil
}

func (r *Renderer) cartLines() {
	cart := r.stores.Cart

	w := r.table()
	fmt.Fprintln(w, "PRODUCT\tNAME\tSIZE\tQTY\tPRICE\tTOTAL")
	fmt.Fprintln(w, "───────\t────\t────\t───\t─────\t─────")
	for _, line := range cart.Lines {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			line.ProductID,
			line.Name,
			line.Size,
			line.Quantity,
			models.FormatAmount(line.Price),
			models.FormatAmount(line.LineTotal),
		)
	}
	w.Flush()

	r.printf("\nItems: %d  Total: %s\n", cart.Count(), models.FormatAmount(cart.Total()))
}

func (r *Renderer) checkout(ctx context.Context, loc router.Location) error {
	cart := r.stores.Cart
	cart.Fetch(ctx)

	r.title("Checkout")
	if r.failed(&cart.State) {
		return nil
	}
	if cart.Empty() {
		r.println("Your cart is empty. Add something with: shopfront cart add <product-id> --size m")
		return nil
	}

	r.cartLines()
	r.printf("Shipping methods: %s\n", strings.Join(models.ShippingMethods, ", "))
	if user := r.profile.User(); user != nil && user.PointsBalance > 0 {
		r.printf("Points available: %d\n", user.PointsBalance)
	}
	return nil
}

func (r *Renderer) login(ctx context.Context, loc router.Location) error {
	r.title("Sign in")
	if redirect := loc.Query.Get("redirect"); redirect != "" {
		r.printf("Sign in to continue to %s\n", redirect)
	}
	r.println("Run: shopfront login --email <email>")
	r.println("No account yet? Run: shopfront register --email <email>")
	return nil
}

func (r *Renderer) register(ctx context.Context, loc router.Location) error {
	r.title("Create an account")
	r.println("Run: shopfront register --email <email>")
	r.println("Already registered? Run: shopfront login --email <email>")
	return nil
}

func (r *Renderer) profilePage(ctx context.Context, loc router.Location) error {
	r.title("Profile")

	user := r.profile.User()
	if user == nil {
		r.println("Profile not loaded.")
		return nil
	}

	r.printf("Email:    %s\n", user.Email)
	if user.Username != "" {
		r.printf("Username: %s\n", user.Username)
	}
	if user.IsAdmin {
		r.println("Role:     Admin")
	}
	if user.ReferralCode != "" {
		r.printf("Referral: %s\n", user.ReferralCode)
	}
	r.printf("Points:   %d\n", user.PointsBalance)
	if exp, ok := r.profile.TokenExpiry(); ok {
		r.printf("Session:  expires %s\n", exp.Local().Format(time.RFC1123))
	}

	orders := r.stores.Orders
	orders.FetchMine(ctx)
	r.println("\nOrders")
	if r.failed(&orders.State) {
		return nil
	}
	if len(orders.Mine) == 0 {
		r.println("No orders yet.")
		return nil
	}
	r.orders(orders.Mine, false)
	return nil
}

func (r *Renderer) admin(ctx context.Context, loc router.Location) error {
	r.title("Admin")

	users := r.stores.Users
	users.Fetch(ctx)
	r.println("Users")
	if !r.failed(&users.State) {
		w := r.table()
		fmt.Fprintln(w, "ID\tEMAIL\tADMIN\tPOINTS\tREFERRAL")
		fmt.Fprintln(w, "──\t─────\t─────\t──────\t────────")
		for _, u := range users.List {
			admin := "no"
			if u.IsAdmin {
				admin = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", u.ID, u.Email, admin, u.PointsBalance, u.ReferralCode)
		}
		w.Flush()
	}

	orders := r.stores.Orders
	orders.FetchAll(ctx)
	r.println("\nOrders")
	if !r.failed(&orders.State) {
		if len(orders.All) == 0 {
			r.println("No orders yet.")
		} else {
			r.orders(orders.All, true)
		}
	}
	return nil
}
