// ShopifyQ | 2026
// service.go

package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	stripe "github.com/stripe/stripe-go/v79"

	"github.com/shopifyq/backend/internal/core"
)

// UserStore is the slice of the user repository the sync logic writes
// through. Every write is a last-write-wins field assignment; affected
// row counts come back so a lookup miss can be told apart from success.
type UserStore interface {
	UpdateSubscriptionByEmail(
		ctx context.Context,
		email, priceID, customerID, sessionID, plan string,
	) (int64, error)
	SetAccessByCustomer(
		ctx context.Context,
		customerID string,
		hasAccess bool,
	) (int64, error)
	UpdatePlanByCustomer(
		ctx context.Context,
		customerID, priceID, plan string,
		hasAccess bool,
	) (int64, error)
}

// EventRecorder counts processed webhook events by type and outcome.
type EventRecorder interface {
	RecordWebhookEvent(eventType, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordWebhookEvent(string, string) {}

type Service struct {
	store    UserStore
	provider Provider
	plans    *PlanMapper
	logger   *slog.Logger
	recorder EventRecorder
}

func NewService(
	store UserStore,
	provider Provider,
	plans *PlanMapper,
	logger *slog.Logger,
	recorder EventRecorder,
) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		store:    store,
		provider: provider,
		plans:    plans,
		logger:   logger,
		recorder: recorder,
	}
}

const (
	outcomeApplied = "applied"
	outcomeSkipped = "skipped"
	outcomeIgnored = "ignored"
	outcomeError   = "error"
)

// HandleEvent applies one verified webhook event to local user state.
// A returned error means the database write failed and the sender
// should redeliver; provider lookup misses and unknown users are
// logged skips. There is no idempotency tracking: re-delivery repeats
// the same field assignment.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) error {
	log := s.logger.With(
		"event_id", event.ID,
		"event_type", string(event.Type),
		"event_created", time.Unix(event.Created, 0).UTC().Format(time.RFC3339),
	)

	var outcome string
	var err error

	switch string(event.Type) {
	case "checkout.session.completed":
		outcome, err = s.handleCheckoutCompleted(ctx, event, log)
	case "invoice.payment_succeeded":
		outcome, err = s.handleInvoicePayment(ctx, event, log, true)
	case "invoice.payment_failed":
		outcome, err = s.handleInvoicePayment(ctx, event, log, false)
	case "customer.subscription.updated", "customer.subscription.deleted":
		outcome, err = s.handleSubscriptionChanged(ctx, event, log)
	default:
		log.Debug("ignoring unhandled event type")
		outcome = outcomeIgnored
	}

	if err != nil {
		outcome = outcomeError
	}
	s.recorder.RecordWebhookEvent(string(event.Type), outcome)

	return err
}

func (s *Service) handleCheckoutCompleted(
	ctx context.Context,
	event stripe.Event,
	log *slog.Logger,
) (string, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return "", fmt.Errorf(
			"decode checkout session: %w: %w",
			err,
			core.ErrInvalidInput,
		)
	}

	if sess.Customer == nil || sess.Customer.ID == "" {
		log.Info("checkout session has no customer, skipping")
		return outcomeSkipped, nil
	}

	full, err := s.provider.CheckoutSession(ctx, sess.ID)
	if err != nil {
		log.Warn("checkout session lookup failed, skipping", "error", err)
		return outcomeSkipped, nil
	}

	if full.CustomerEmail == "" {
		log.Warn("checkout session customer has no email, skipping",
			"customer_id", full.CustomerID,
		)
		return outcomeSkipped, nil
	}

	plan := s.plans.PlanForPrice(full.PriceID)

	rows, err := s.store.UpdateSubscriptionByEmail(
		ctx,
		full.CustomerEmail,
		full.PriceID,
		full.CustomerID,
		sess.ID,
		plan,
	)
	if err != nil {
		return "", fmt.Errorf("apply checkout completion: %w", err)
	}

	if rows == 0 {
		log.Warn("no local user for checkout email, skipping",
			"customer_id", full.CustomerID,
		)
		return outcomeSkipped, nil
	}

	log.Info("subscription activated from checkout",
		"customer_id", full.CustomerID,
		"price_id", full.PriceID,
		"plan", plan,
	)
	return outcomeApplied, nil
}

func (s *Service) handleInvoicePayment(
	ctx context.Context,
	event stripe.Event,
	log *slog.Logger,
	hasAccess bool,
) (string, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return "", fmt.Errorf(
			"decode invoice: %w: %w",
			err,
			core.ErrInvalidInput,
		)
	}

	if inv.Customer == nil || inv.Customer.ID == "" {
		log.Info("invoice has no customer, skipping")
		return outcomeSkipped, nil
	}

	rows, err := s.store.SetAccessByCustomer(ctx, inv.Customer.ID, hasAccess)
	if err != nil {
		return "", fmt.Errorf("apply invoice payment: %w", err)
	}

	if rows == 0 {
		log.Warn("no local user for customer, skipping",
			"customer_id", inv.Customer.ID,
		)
		return outcomeSkipped, nil
	}

	log.Info("access flag updated from invoice",
		"customer_id", inv.Customer.ID,
		"has_access", hasAccess,
	)
	return outcomeApplied, nil
}

func (s *Service) handleSubscriptionChanged(
	ctx context.Context,
	event stripe.Event,
	log *slog.Logger,
) (string, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return "", fmt.Errorf(
			"decode subscription: %w: %w",
			err,
			core.ErrInvalidInput,
		)
	}

	// Re-fetch rather than trusting the delivered snapshot: deliveries
	// can arrive out of order and the read-back reflects current state.
	current, err := s.provider.Subscription(ctx, sub.ID)
	if err != nil {
		log.Warn("subscription lookup failed, skipping",
			"subscription_id", sub.ID,
			"error", err,
		)
		return outcomeSkipped, nil
	}

	if current.CustomerID == "" {
		log.Warn("subscription has no customer, skipping",
			"subscription_id", sub.ID,
		)
		return outcomeSkipped, nil
	}

	hasAccess := current.Status == "active"
	plan := s.plans.PlanForPrice(current.PriceID)

	rows, err := s.store.UpdatePlanByCustomer(
		ctx,
		current.CustomerID,
		current.PriceID,
		plan,
		hasAccess,
	)
	if err != nil {
		return "", fmt.Errorf("apply subscription change: %w", err)
	}

	if rows == 0 {
		log.Warn("no local user for customer, skipping",
			"customer_id", current.CustomerID,
		)
		return outcomeSkipped, nil
	}

	log.Info("subscription state synced",
		"customer_id", current.CustomerID,
		"status", current.Status,
		"price_id", current.PriceID,
		"has_access", hasAccess,
	)
	return outcomeApplied, nil
}

// CreateCheckout opens a provider checkout session for the given
// price, bound to the user's email.
func (s *Service) CreateCheckout(
	ctx context.Context,
	priceID, email string,
) (*CheckoutLink, error) {
	if !s.plans.Known(priceID) {
		return nil, fmt.Errorf(
			"unknown price id %q: %w",
			priceID,
			core.ErrInvalidInput,
		)
	}

	link, err := s.provider.CreateCheckout(ctx, priceID, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		"session_id", link.SessionID,
		"price_id", priceID,
	)
	return link, nil
}
