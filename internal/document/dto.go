// ShopifyQ | 2026
// dto.go

package document

type PartyRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Address    string `json:"address" validate:"required,max=1000"`
	Country    string `json:"country" validate:"required,len=2"`
	TaxID      string `json:"tax_id" validate:"omitempty,max=64"`
	EORINumber string `json:"eori_number" validate:"omitempty,max=64"`
}

type InvoiceLineRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	HSCode      string  `json:"hs_code" validate:"omitempty,max=20"`
	Origin      string  `json:"origin" validate:"omitempty,len=2"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"required,gt=0"`
}

type CreateInvoiceRequest struct {
	OrderID     string               `json:"order_id" validate:"required,max=64"`
	Seller      PartyRequest         `json:"seller" validate:"required"`
	Buyer       PartyRequest         `json:"buyer" validate:"required"`
	Incoterm    string               `json:"incoterm" validate:"required,oneof=EXW FOB CIF DAP DDP"`
	Currency    string               `json:"currency" validate:"required,len=3"`
	FreightCost float64              `json:"freight_cost" validate:"omitempty,gte=0"`
	Items       []InvoiceLineRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

type PackingLineRequest struct {
	Description   string  `json:"description" validate:"required,max=500"`
	Quantity      int     `json:"quantity" validate:"required,gt=0"`
	NetWeightKg   float64 `json:"net_weight_kg" validate:"required,gt=0"`
	GrossWeightKg float64 `json:"gross_weight_kg" validate:"required,gt=0"`
}

type CreatePackingListRequest struct {
	OrderID   string               `json:"order_id" validate:"required,max=64"`
	Shipper   PartyRequest         `json:"shipper" validate:"required"`
	Consignee PartyRequest         `json:"consignee" validate:"required"`
	Items     []PackingLineRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

type CertificateLineRequest struct {
	Description string `json:"description" validate:"required,max=500"`
	HSCode      string `json:"hs_code" validate:"omitempty,max=20"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

type CreateCertificateRequest struct {
	OrderID       string                   `json:"order_id" validate:"required,max=64"`
	Exporter      PartyRequest             `json:"exporter" validate:"required"`
	Consignee     PartyRequest             `json:"consignee" validate:"required"`
	OriginCountry string                   `json:"origin_country" validate:"required,len=2"`
	Items         []CertificateLineRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

type OrderDocumentsResponse struct {
	Invoice     *Invoice     `json:"invoice,omitempty"`
	PackingList *PackingList `json:"packing_list,omitempty"`
	Certificate *Certificate `json:"certificate,omitempty"`
}

func toParty(p PartyRequest) Party {
	return Party{
		Name:       p.Name,
		Address:    p.Address,
		Country:    p.Country,
		TaxID:      p.TaxID,
		EORINumber: p.EORINumber,
	}
}
