// ShopifyQ | 2026
// stripe.go

package billing

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/shopifyq/backend/internal/config"
	"github.com/shopifyq/backend/internal/core"
)

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	api *client.API
	cfg config.StripeConfig
}

func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeProvider{
		api: api,
		cfg: cfg,
	}
}

func (p *StripeProvider) CheckoutSession(
	ctx context.Context,
	id string,
) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("customer")
	params.AddExpand("line_items")

	sess, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get checkout session %s: %w", id, err)
	}

	cs := &CheckoutSession{ID: sess.ID}

	if sess.Customer != nil {
		cs.CustomerID = sess.Customer.ID
		cs.CustomerEmail = sess.Customer.Email
	}
	if cs.CustomerEmail == "" && sess.CustomerDetails != nil {
		cs.CustomerEmail = sess.CustomerDetails.Email
	}
	if sess.LineItems != nil && len(sess.LineItems.Data) > 0 &&
		sess.LineItems.Data[0].Price != nil {
		cs.PriceID = sess.LineItems.Data[0].Price.ID
	}

	return cs, nil
}

func (p *StripeProvider) Subscription(
	ctx context.Context,
	id string,
) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", id, err)
	}

	out := &Subscription{
		ID:     sub.ID,
		Status: string(sub.Status),
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 &&
		sub.Items.Data[0].Price != nil {
		out.PriceID = sub.Items.Data[0].Price.ID
	}

	return out, nil
}

func (p *StripeProvider) CreateCheckout(
	ctx context.Context,
	priceID, email string,
) (*CheckoutLink, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(p.cfg.SuccessURL),
		CancelURL:     stripe.String(p.cfg.CancelURL),
		CustomerEmail: stripe.String(email),
	}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf(
			"create checkout session: %w: %w",
			err,
			core.ErrUpstream,
		)
	}

	return &CheckoutLink{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

var _ Provider = (*StripeProvider)(nil)
