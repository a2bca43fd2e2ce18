package views

import (
	"context"

	"github.com/shopfront-dev/shopfront/internal/cli/router"
)

type staticPage struct {
	title string
	body  string
}

var contactsPage = staticPage{
	title: "Contacts",
	body: `Customer support: support@shopfront.example
Phone: +7 800 000-00-00 (daily, 9:00-21:00 MSK)
Returns are accepted within 14 days of delivery.`,
}

var userAgreementPage = staticPage{
	title: "User agreement",
	body: `By creating an account you agree to provide accurate contact and shipping
details. Orders are confirmed once payment is received. Referral points are
credited to the referrer after the referred order is placed and cannot be
exchanged for cash.`,
}

var privacyPolicyPage = staticPage{
	title: "Privacy policy",
	body: `We store your email, shipping addresses and order history to fulfil orders.
Your session token is kept on this device only. We never share personal data
with third parties except carriers delivering your order.`,
}

func (r *Renderer) static(page staticPage) viewFunc {
	return func(ctx context.Context, loc router.Location) error {
		r.title(page.title)
		r.println(page.body)
		return nil
	}
}
