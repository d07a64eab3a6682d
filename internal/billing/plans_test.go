// ShopifyQ | 2026
// plans_test.go

package billing

import (
	"testing"
)

func TestPlanForPrice(t *testing.T) {
	m := NewPlanMapper(map[string]string{
		"price_starter": "starter",
		"price_pro":     "pro",
		"price_ent":     "enterprise",
	})

	tests := []struct {
		name    string
		priceID string
		want    string
	}{
		{"mapped starter", "price_starter", "starter"},
		{"mapped pro", "price_pro", "pro"},
		{"mapped enterprise", "price_ent", "enterprise"},
		{"empty price means free", "", "free"},
		{"unmapped price falls back to starter", "price_unknown", "starter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.PlanForPrice(tt.priceID); got != tt.want {
				t.Fatalf("PlanForPrice(%q) = %q, want %q", tt.priceID, got, tt.want)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	m := NewPlanMapper(map[string]string{"price_pro": "pro"})

	if !m.Known("price_pro") {
		t.Fatal("expected price_pro to be known")
	}
	if m.Known("price_other") {
		t.Fatal("expected price_other to be unknown")
	}
}
