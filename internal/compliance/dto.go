// ShopifyQ | 2026
// dto.go

package compliance

type ClassifyRequest struct {
	Description   string `json:"description" validate:"required,max=2000"`
	OriginCountry string `json:"origin_country" validate:"required,len=2"`
}

type ClassifyResponse struct {
	HSCode      string  `json:"hs_code"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

type LandedCostItemRequest struct {
	HSCode    string  `json:"hs_code" validate:"required,max=20"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
}

type LandedCostRequest struct {
	Items       []LandedCostItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
	Origin      string                  `json:"origin" validate:"required,len=2"`
	Destination string                  `json:"destination" validate:"required,len=2"`
	Incoterm    string                  `json:"incoterm" validate:"required,oneof=EXW FOB CIF DAP DDP"`
	Currency    string                  `json:"currency" validate:"required,len=3"`
}

type LandedCostResponse struct {
	Duties   float64 `json:"duties"`
	Taxes    float64 `json:"taxes"`
	Fees     float64 `json:"fees"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}
