package router

// Route names used by views and commands
const (
	CatalogRoute       = "Catalog"
	ProductDetailRoute = "productDetail"
	CartRoute          = "Cart"
	CheckoutRoute      = "Checkout"
	ReviewsRoute       = "Reviews"
	RegisterRoute      = "Register"
	ProfileRoute       = "Profile"
	AdminRoute         = "Admin"
	ContactsRoute      = "Contacts"
	UserAgreementRoute = "UserAgreement"
	PrivacyPolicyRoute = "PrivacyPolicy"
)

// DefaultRoutes is the storefront's route surface
func DefaultRoutes() []Route {
	return []Route{
		{Name: HomeRoute, Path: "/"},
		{Name: CatalogRoute, Path: "/catalog"},
		{Name: ProductDetailRoute, Path: "/product/:productId"},
		{Name: CartRoute, Path: "/cart", Meta: Meta{RequiresAuth: true}},
		{Name: CheckoutRoute, Path: "/checkout", Meta: Meta{RequiresAuth: true}},
		{Name: ReviewsRoute, Path: "/reviews/:productId?", Meta: Meta{RequiresAuth: true}},
		{Name: LoginRoute, Path: "/login", Meta: Meta{Public: true, HideFooter: true}},
		{Name: RegisterRoute, Path: "/register", Meta: Meta{Public: true, HideFooter: true}},
		{Name: ProfileRoute, Path: "/profile", Meta: Meta{RequiresAuth: true}},
		// Admin is guarded by the admin flag alone: signed-out visitors go home, not to login
		{Name: AdminRoute, Path: "/admin", Meta: Meta{RequiresAdmin: true}},
		{Name: ContactsRoute, Path: "/contacts"},
		{Name: UserAgreementRoute, Path: "/user-agreement"},
		{Name: PrivacyPolicyRoute, Path: "/privacy-policy"},
		{Path: "/:catchAll(.*)", Redirect: "/"},
	}
}

// MustDefaultTable compiles DefaultRoutes
func MustDefaultTable() *Table {
	t, err := NewTable(DefaultRoutes())
	if err != nil {
		panic(err)
	}
	return t
}
