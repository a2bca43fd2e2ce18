package views

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopfront-dev/shopfront/internal/cli/router"
	"github.com/shopfront-dev/shopfront/internal/cli/store"
	"github.com/shopfront-dev/shopfront/internal/models"
)

func (r *Renderer) home(ctx context.Context, loc router.Location) error {
	r.title("Shopfront")

	if user := r.profile.User(); user != nil {
		r.printf("Welcome back, %s\n\n", user.DisplayName())
	}

	products := r.stores.Products
	products.FetchNewProducts(ctx, store.DefaultNewProducts)
	r.println("New arrivals")
	if !r.failed(&products.State) {
		if len(products.NewItems) == 0 {
			r.println("Nothing new yet.")
		} else {
			r.products(products.NewItems)
		}
	}

	categories := r.stores.Categories
	categories.Fetch(ctx)
	if !r.failed(&categories.State) && len(categories.List) > 0 {
		names := make([]string, 0, len(categories.List))
		for _, c := range categories.List {
			names = append(names, fmt.Sprintf("%s (%d)", c.Name, c.ID))
		}
		r.printf("\nCategories: %s\n", strings.Join(names, ", "))
	}

	r.println("\nBrowse the catalog with: shopfront catalog")
	return nil
}

// FiltersFromQuery reads catalog filters from a location query:
// category (comma separated ids), search, sort
func FiltersFromQuery(loc router.Location) (store.Filters, error) {
	filters := store.Filters{
		Search: loc.Query.Get("search"),
		Sort:   loc.Query.Get("sort"),
	}
	if filters.Sort == "" {
		filters.Sort = "asc"
	}
	if filters.Sort != "asc" && filters.Sort != "desc" {
		return store.Filters{}, fmt.Errorf("invalid sort %q, must be asc or desc", filters.Sort)
	}

	if raw := loc.Query.Get("category"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return store.Filters{}, fmt.Errorf("invalid category id %q", part)
			}
			filters.Categories = append(filters.Categories, id)
		}
	}
	return filters, nil
}

func (r *Renderer) catalog(ctx context.Context, loc router.Location) error {
	filters, err := FiltersFromQuery(loc)
	if err != nil {
		return err
	}

	page := 1
	if raw := loc.Query.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return fmt.Errorf("invalid page %q", raw)
		}
	}

	products := r.stores.Products
	products.SetFilters(ctx, filters)
	if page > 1 && !products.Failed() {
		products.FetchProducts(ctx, page)
	}

	r.title("Catalog")
	if r.failed(&products.State) {
		return nil
	}
	if len(products.Items) == 0 {
		r.println("No products found.")
		return nil
	}

	r.products(products.Items)
	r.printf("\nPage %d of %d (%d products)\n", products.CurrentPage, products.Pages, products.Total)
	if products.HasMore() {
		r.printf("Next page: shopfront open '/catalog?%s'\n", nextPageQuery(loc, products.CurrentPage+1))
	}
	return nil
}

func nextPageQuery(loc router.Location, page int) string {
	query := url.Values{}
	for k, v := range loc.Query {
		query[k] = v
	}
	query.Set("page", strconv.Itoa(page))
	return query.Encode()
}

func (r *Renderer) productDetail(ctx context.Context, loc router.Location) error {
	id, err := paramID(loc, "productId")
	if err != nil {
		return err
	}

	products := r.stores.Products
	products.FetchProduct(ctx, id)
	if r.failed(&products.State) {
		return nil
	}
	p := products.Current

	r.title(p.Name)
	r.printf("Price:    %s\n", p.Price)
	if p.Category != nil {
		r.printf("Category: %s\n", p.Category.Name)
	}
	r.printf("In stock: %d\n", p.Stock)
	r.printf("Sizes:    %s\n", strings.Join(models.AvailableSizes, ", "))
	if image := p.PrimaryImage(); image != "" {
		r.printf("Image:    %s\n", image)
	}
	if p.Description != "" {
		r.printf("\n%s\n", p.Description)
	}

	reviews := r.stores.Reviews
	reviews.Fetch(ctx, id)
	if !r.failed(&reviews.State) {
		if len(reviews.List) == 0 {
			r.println("\nNo reviews yet.")
		} else {
			r.printf("\nRated %.1f/5 in %d review(s). Read them with: shopfront reviews %d\n", reviews.Average(), len(reviews.List), id)
		}
	}

	r.printf("\nAdd to cart with: shopfront cart add %d --size m\n", id)
	return nil
}

func (r *Renderer) reviews(ctx context.Context, loc router.Location) error {
	r.title("Reviews")

	if loc.Param("productId") == "" {
		r.println("Choose a product: shopfront reviews <product-id>")
		return nil
	}

	id, err := paramID(loc, "productId")
	if err != nil {
		return err
	}

	reviews := r.stores.Reviews
	reviews.Fetch(ctx, id)
	if r.failed(&reviews.State) {
		return nil
	}
	if len(reviews.List) == 0 {
		r.println("No reviews yet. Write one with: shopfront reviews post <product-id> --rating 5")
		return nil
	}

	w := r.table()
	fmt.Fprintln(w, "ID\tAUTHOR\tRATING\tCOMMENT\tCREATED AT")
	fmt.Fprintln(w, "──\t──────\t──────\t───────\t──────────")
	for _, review := range reviews.List {
		author := review.Username
		if author == "" {
			author = fmt.Sprintf("user %d", review.UserID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", review.ID, author, strings.Repeat("★", review.Rating), review.Comment, review.CreatedAt)
	}
	w.Flush()

	r.printf("\nAverage rating: %.1f\n", reviews.Average())
	return nil
}
