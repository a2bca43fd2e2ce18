package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shopfront-dev/shopfront/internal/cli/router"
)

// NewCatalogCmd creates the catalog command
func NewCatalogCmd(env *Env) *cobra.Command {
	var (
		page       int
		sort       string
		search     string
		categories []int64
	)

	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"products"},
		Short:   "Browse the product catalog",
		Long: `Browse the product catalog, 12 products per page.

Examples:
  $ shopfront catalog
  $ shopfront catalog --category 3 --category 7 --sort desc
  $ shopfront catalog --search shirt --page 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cmd.Context(), env, catalogQuery(page, sort, search, categories))
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort by price: asc or desc")
	cmd.Flags().StringVar(&search, "search", "", "Search product names")
	cmd.Flags().Int64SliceVar(&categories, "category", nil, "Category id (repeatable)")

	return cmd
}

// catalogQuery encodes catalog flags the way the catalog page reads them
func catalogQuery(page int, sort, search string, categories []int64) url.Values {
	query := url.Values{}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}
	if sort != "" {
		query.Set("sort", sort)
	}
	if search != "" {
		query.Set("search", search)
	}
	if len(categories) > 0 {
		ids := make([]string, 0, len(categories))
		for _, id := range categories {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		query.Set("category", strings.Join(ids, ","))
	}
	return query
}

func runCatalog(ctx context.Context, env *Env, query url.Values) error {
	return openRoute(ctx, env, router.CatalogRoute, nil, query)
}

// NewProductCmd creates the product command
func NewProductCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "product <product-id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProduct(cmd.Context(), env, args[0])
		},
	}
}

func runProduct(ctx context.Context, env *Env, rawID string) error {
	id, err := parseID("product", rawID)
	if err != nil {
		return err
	}

	return openRoute(ctx, env, router.ProductDetailRoute, map[string]string{"productId": strconv.FormatInt(id, 10)}, nil)
}

// NewCategoriesCmd creates the categories command
func NewCategoriesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategories(cmd.Context(), env)
		},
	}
}

func runCategories(ctx context.Context, env *Env) error {
	a, err := env.App()
	if err != nil {
		return err
	}

	categories := a.Stores.Categories
	categories.Fetch(ctx)
	if categories.Failed() {
		return errors.New(categories.Error)
	}

	if len(categories.List) == 0 {
		env.println("No categories found.")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSLUG")
	fmt.Fprintln(w, "──\t────\t────")
	for _, c := range categories.List {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Slug)
	}
	w.Flush()

	env.println("\nFilter the catalog with: shopfront catalog --category <id>")
	return nil
}
