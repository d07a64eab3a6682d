// ShopifyQ | 2026
// provider.go

package billing

import (
	"context"
)

// CheckoutSession is the slice of the provider's checkout session the
// sync logic needs, fetched with customer and line items expanded.
type CheckoutSession struct {
	ID            string
	CustomerID    string
	CustomerEmail string
	PriceID       string
}

type Subscription struct {
	ID         string
	CustomerID string
	Status     string
	PriceID    string
}

type CheckoutLink struct {
	SessionID string
	URL       string
}

// Provider abstracts the payment provider's read and checkout surface.
type Provider interface {
	CheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
	Subscription(ctx context.Context, id string) (*Subscription, error)
	CreateCheckout(
		ctx context.Context,
		priceID, email string,
	) (*CheckoutLink, error)
}
