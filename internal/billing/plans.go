// ShopifyQ | 2026
// plans.go

package billing

import (
	"github.com/shopifyq/backend/internal/user"
)

// PlanMapper translates provider price ids into local plan names. The
// mapping comes from configuration so price rotation never needs a
// code change.
type PlanMapper struct {
	pricePlans map[string]string
}

func NewPlanMapper(pricePlans map[string]string) *PlanMapper {
	return &PlanMapper{pricePlans: pricePlans}
}

// PlanForPrice resolves a price id to a plan. Unknown but non-empty
// price ids map to the starter plan so a paying customer is never
// left on free while the mapping catches up.
func (m *PlanMapper) PlanForPrice(priceID string) string {
	if priceID == "" {
		return user.PlanFree
	}
	if plan, ok := m.pricePlans[priceID]; ok {
		return plan
	}
	return user.PlanStarter
}

// Known reports whether the price id has an explicit mapping.
func (m *PlanMapper) Known(priceID string) bool {
	_, ok := m.pricePlans[priceID]
	return ok
}
