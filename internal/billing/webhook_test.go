// ShopifyQ | 2026
// webhook_test.go

package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testSecret = "whsec_test_secret"

type mockStore struct {
	updateByEmail func(email, priceID, customerID, sessionID, plan string) (int64, error)
	setAccess     func(customerID string, hasAccess bool) (int64, error)
	updatePlan    func(customerID, priceID, plan string, hasAccess bool) (int64, error)

	writes int
}

func (m *mockStore) UpdateSubscriptionByEmail(
	_ context.Context,
	email, priceID, customerID, sessionID, plan string,
) (int64, error) {
	m.writes++
	if m.updateByEmail == nil {
		return 1, nil
	}
	return m.updateByEmail(email, priceID, customerID, sessionID, plan)
}

func (m *mockStore) SetAccessByCustomer(
	_ context.Context,
	customerID string,
	hasAccess bool,
) (int64, error) {
	m.writes++
	if m.setAccess == nil {
		return 1, nil
	}
	return m.setAccess(customerID, hasAccess)
}

func (m *mockStore) UpdatePlanByCustomer(
	_ context.Context,
	customerID, priceID, plan string,
	hasAccess bool,
) (int64, error) {
	m.writes++
	if m.updatePlan == nil {
		return 1, nil
	}
	return m.updatePlan(customerID, priceID, plan, hasAccess)
}

type mockProvider struct {
	checkoutSession func(id string) (*CheckoutSession, error)
	subscription    func(id string) (*Subscription, error)
}

func (m *mockProvider) CheckoutSession(
	_ context.Context,
	id string,
) (*CheckoutSession, error) {
	if m.checkoutSession == nil {
		return nil, errors.New("not configured")
	}
	return m.checkoutSession(id)
}

func (m *mockProvider) Subscription(
	_ context.Context,
	id string,
) (*Subscription, error) {
	if m.subscription == nil {
		return nil, errors.New("not configured")
	}
	return m.subscription(id)
}

func (m *mockProvider) CreateCheckout(
	_ context.Context,
	priceID, email string,
) (*CheckoutLink, error) {
	return &CheckoutLink{SessionID: "cs_new", URL: "https://pay.example/" + priceID}, nil
}

func newTestHandler(store *mockStore, provider *mockProvider) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	plans := NewPlanMapper(map[string]string{
		"price_starter": "starter",
		"price_pro":     "pro",
		"price_X":       "pro",
	})
	svc := NewService(store, provider, plans, logger, nil)
	emailOf := func(context.Context, string) (string, error) {
		return "someone@example.com", nil
	}
	return NewHandler(svc, testSecret, emailOf, logger)
}

func signPayload(secret string, payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func deliver(h *Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(
		http.MethodPost,
		"/webhooks/stripe",
		strings.NewReader(string(payload)),
	)
	req.Header.Set("Stripe-Signature", signature)
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)
	return rec
}

func eventJSON(id, eventType, object string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":%q,"type":%q,"created":%d,"api_version":"2024-06-20","data":{"object":%s}}`,
		id, eventType, time.Now().Unix(), object,
	))
}

func TestWebhookInvalidSignature(t *testing.T) {
	store := &mockStore{}
	h := newTestHandler(store, &mockProvider{})

	payload := eventJSON("evt_1", "invoice.payment_succeeded",
		`{"id":"in_1","customer":"cus_123"}`)

	tests := []struct {
		name      string
		signature string
	}{
		{"missing header", ""},
		{"garbage header", "t=123,v1=deadbeef"},
		{"wrong secret", signPayload("whsec_wrong", payload)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := deliver(h, payload, tt.signature)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if store.writes != 0 {
				t.Fatalf("store writes = %d, want 0", store.writes)
			}
		})
	}
}

func TestWebhookTamperedBody(t *testing.T) {
	store := &mockStore{}
	h := newTestHandler(store, &mockProvider{})

	payload := eventJSON("evt_1", "invoice.payment_succeeded",
		`{"id":"in_1","customer":"cus_123"}`)
	signature := signPayload(testSecret, payload)

	tampered := []byte(strings.Replace(string(payload), "cus_123", "cus_999", 1))
	rec := deliver(h, tampered, signature)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if store.writes != 0 {
		t.Fatalf("store writes = %d, want 0", store.writes)
	}
}

func TestWebhookCheckoutWithoutCustomer(t *testing.T) {
	store := &mockStore{}
	h := newTestHandler(store, &mockProvider{})

	payload := eventJSON("evt_2", "checkout.session.completed",
		`{"id":"cs_1"}`)
	rec := deliver(h, payload, signPayload(testSecret, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"received":true}` {
		t.Fatalf("body = %q, want received acknowledgment", got)
	}
	if store.writes != 0 {
		t.Fatalf("store writes = %d, want 0", store.writes)
	}
}

func TestWebhookCheckoutCompleted(t *testing.T) {
	var gotEmail, gotPrice, gotCustomer, gotSession, gotPlan string
	store := &mockStore{
		updateByEmail: func(email, priceID, customerID, sessionID, plan string) (int64, error) {
			gotEmail, gotPrice, gotCustomer, gotSession, gotPlan =
				email, priceID, customerID, sessionID, plan
			return 1, nil
		},
	}
	provider := &mockProvider{
		checkoutSession: func(id string) (*CheckoutSession, error) {
			return &CheckoutSession{
				ID:            id,
				CustomerID:    "cus_42",
				CustomerEmail: "buyer@example.com",
				PriceID:       "price_pro",
			}, nil
		},
	}
	h := newTestHandler(store, provider)

	payload := eventJSON("evt_3", "checkout.session.completed",
		`{"id":"cs_2","customer":"cus_42"}`)
	rec := deliver(h, payload, signPayload(testSecret, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotEmail != "buyer@example.com" || gotCustomer != "cus_42" ||
		gotSession != "cs_2" || gotPrice != "price_pro" || gotPlan != "pro" {
		t.Fatalf(
			"update args = (%s, %s, %s, %s, %s)",
			gotEmail, gotPrice, gotCustomer, gotSession, gotPlan,
		)
	}
}

func TestWebhookInvoicePaymentFlipsAccess(t *testing.T) {
	tests := []struct {
		eventType  string
		wantAccess bool
	}{
		{"invoice.payment_succeeded", true},
		{"invoice.payment_failed", false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			var gotCustomer string
			var gotAccess bool
			store := &mockStore{
				setAccess: func(customerID string, hasAccess bool) (int64, error) {
					gotCustomer = customerID
					gotAccess = hasAccess
					return 1, nil
				},
			}
			h := newTestHandler(store, &mockProvider{})

			payload := eventJSON("evt_4", tt.eventType,
				`{"id":"in_2","customer":"cus_77"}`)
			rec := deliver(h, payload, signPayload(testSecret, payload))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if gotCustomer != "cus_77" {
				t.Fatalf("customer = %q, want cus_77", gotCustomer)
			}
			if gotAccess != tt.wantAccess {
				t.Fatalf("has_access = %v, want %v", gotAccess, tt.wantAccess)
			}
			if store.writes != 1 {
				t.Fatalf("store writes = %d, want 1", store.writes)
			}
		})
	}
}

func TestWebhookInvoiceWithoutCustomer(t *testing.T) {
	store := &mockStore{}
	h := newTestHandler(store, &mockProvider{})

	payload := eventJSON("evt_5", "invoice.payment_succeeded", `{"id":"in_3"}`)
	rec := deliver(h, payload, signPayload(testSecret, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if store.writes != 0 {
		t.Fatalf("store writes = %d, want 0", store.writes)
	}
}

func TestWebhookSubscriptionStatusControlsAccess(t *testing.T) {
	tests := []struct {
		status     string
		wantAccess bool
	}{
		{"active", true},
		{"past_due", false},
		{"canceled", false},
		{"unpaid", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			var gotAccess bool
			var gotPrice string
			store := &mockStore{
				updatePlan: func(customerID, priceID, plan string, hasAccess bool) (int64, error) {
					gotPrice = priceID
					gotAccess = hasAccess
					return 1, nil
				},
			}
			provider := &mockProvider{
				subscription: func(id string) (*Subscription, error) {
					return &Subscription{
						ID:         id,
						CustomerID: "cus_88",
						Status:     tt.status,
						PriceID:    "price_X",
					}, nil
				},
			}
			h := newTestHandler(store, provider)

			payload := eventJSON("evt_6", "customer.subscription.updated",
				`{"id":"sub_1","customer":"cus_88","status":"`+tt.status+`"}`)
			rec := deliver(h, payload, signPayload(testSecret, payload))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if gotAccess != tt.wantAccess {
				t.Fatalf("has_access = %v, want %v", gotAccess, tt.wantAccess)
			}
			if gotPrice != "price_X" {
				t.Fatalf("price_id = %q, want price_X", gotPrice)
			}
		})
	}
}

func TestWebhookSubscriptionUnknownCustomerIsSkip(t *testing.T) {
	store := &mockStore{
		updatePlan: func(string, string, string, bool) (int64, error) {
			return 0, nil
		},
	}
	provider := &mockProvider{
		subscription: func(id string) (*Subscription, error) {
			return &Subscription{
				ID:         id,
				CustomerID: "cus_123",
				Status:     "active",
				PriceID:    "price_X",
			}, nil
		},
	}
	h := newTestHandler(store, provider)

	payload := eventJSON("evt_7", "customer.subscription.updated",
		`{"id":"sub_2","customer":"cus_123","status":"active"}`)
	rec := deliver(h, payload, signPayload(testSecret, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("zero rows updated must still acknowledge: status = %d", rec.Code)
	}
	if store.writes != 1 {
		t.Fatalf("store writes = %d, want 1", store.writes)
	}
}

func TestWebhookSubscriptionLookupMissIsSkip(t *testing.T) {
	store := &mockStore{}
	provider := &mockProvider{
		subscription: func(id string) (*Subscription, error) {
			return nil, errors.New("no such subscription")
		},
	}
	h := newTestHandler(store, provider)

	payload := eventJSON("evt_8", "customer.subscription.deleted",
		`{"id":"sub_gone","customer":"cus_9"}`)
	rec := deliver(h, payload, signPayload(testSecret, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if store.writes != 0 {
		t.Fatalf("store writes = %d, want 0", store.writes)
	}
}

func TestWebhookDatabaseErrorReturns500(t *testing.T) {
	store := &mockStore{
		setAccess: func(string, bool) (int64, error) {
			return 0, errors.New("connection reset")
		},
	}
	h := newTestHandler(store, &mockProvider{})

	payload := eventJSON("evt_9", "invoice.payment_failed",
		`{"id":"in_4","customer":"cus_5"}`)
	rec := deliver(h, payload, signPayload(testSecret, payload))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	type state struct {
		hasAccess bool
		priceID   string
		plan      string
	}
	current := state{hasAccess: false}

	store := &mockStore{
		updatePlan: func(customerID, priceID, plan string, hasAccess bool) (int64, error) {
			current = state{hasAccess: hasAccess, priceID: priceID, plan: plan}
			return 1, nil
		},
	}
	provider := &mockProvider{
		subscription: func(id string) (*Subscription, error) {
			return &Subscription{
				ID:         id,
				CustomerID: "cus_11",
				Status:     "active",
				PriceID:    "price_pro",
			}, nil
		},
	}
	h := newTestHandler(store, provider)

	payload := eventJSON("evt_10", "customer.subscription.updated",
		`{"id":"sub_3","customer":"cus_11","status":"active"}`)

	deliver(h, payload, signPayload(testSecret, payload))
	first := current
	deliver(h, payload, signPayload(testSecret, payload))

	if current != first {
		t.Fatalf("replay changed state: first %+v, second %+v", first, current)
	}
	if !current.hasAccess || current.priceID != "price_pro" || current.plan != "pro" {
		t.Fatalf("unexpected final state %+v", current)
	}
}

func TestWebhookUnhandledEventType(t *testing.T) {
	store := &mockStore{}
	h := newTestHandler(store, &mockProvider{})

	payload := eventJSON("evt_11", "payment_intent.created", `{"id":"pi_1"}`)
	rec := deliver(h, payload, signPayload(testSecret, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"received":true}` {
		t.Fatalf("body = %q, want received acknowledgment", got)
	}
	if store.writes != 0 {
		t.Fatalf("store writes = %d, want 0", store.writes)
	}
}
