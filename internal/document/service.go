// ShopifyQ | 2026
// service.go

package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/shopifyq/backend/internal/core"
)

// Service builds the three export documents from submitted order data
// and persists them keyed by (user, order).
type Service struct {
	repo   Repository
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, now: time.Now, logger: logger}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) number(ctx context.Context, kind Kind, prefix string) (string, error) {
	seq, err := s.repo.NextSequence(ctx, kind)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, s.now().Year(), seq), nil
}

func (s *Service) CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (*Invoice, error) {
	number, err := s.number(ctx, KindInvoice, "INV")
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceLine, len(req.Items))
	var subtotal float64
	for i, line := range req.Items {
		total := round2(float64(line.Quantity) * line.UnitPrice)
		items[i] = InvoiceLine{
			Description: line.Description,
			HSCode:      line.HSCode,
			Origin:      line.Origin,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   total,
		}
		subtotal = round2(subtotal + total)
	}

	invoice := &Invoice{
		Number:      number,
		OrderID:     req.OrderID,
		IssuedAt:    s.now().UTC(),
		Seller:      toParty(req.Seller),
		Buyer:       toParty(req.Buyer),
		Incoterm:    req.Incoterm,
		Currency:    req.Currency,
		Items:       items,
		Subtotal:    subtotal,
		FreightCost: round2(req.FreightCost),
		Total:       round2(subtotal + req.FreightCost),
	}

	if err := s.persist(ctx, KindInvoice, userID, req.OrderID, number, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) CreatePackingList(ctx context.Context, userID string, req CreatePackingListRequest) (*PackingList, error) {
	number, err := s.number(ctx, KindPackingList, "PL")
	if err != nil {
		return nil, err
	}

	items := make([]PackingListLine, len(req.Items))
	var pieces int
	var net, gross float64
	for i, line := range req.Items {
		if line.GrossWeightKg < line.NetWeightKg {
			return nil, fmt.Errorf("line %d: gross weight below net weight: %w", i+1, core.ErrInvalidInput)
		}
		items[i] = PackingListLine{
			Description:   line.Description,
			Quantity:      line.Quantity,
			NetWeightKg:   line.NetWeightKg,
			GrossWeightKg: line.GrossWeightKg,
		}
		pieces += line.Quantity
		net = round2(net + line.NetWeightKg)
		gross = round2(gross + line.GrossWeightKg)
	}

	list := &PackingList{
		Number:         number,
		OrderID:        req.OrderID,
		IssuedAt:       s.now().UTC(),
		Shipper:        toParty(req.Shipper),
		Consignee:      toParty(req.Consignee),
		Items:          items,
		TotalPieces:    pieces,
		TotalNetWeight: net,
		TotalGrossWt:   gross,
	}

	if err := s.persist(ctx, KindPackingList, userID, req.OrderID, number, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) CreateCertificate(ctx context.Context, userID string, req CreateCertificateRequest) (*Certificate, error) {
	number, err := s.number(ctx, KindCertificate, "CO")
	if err != nil {
		return nil, err
	}

	items := make([]CertificateLine, len(req.Items))
	for i, line := range req.Items {
		items[i] = CertificateLine{
			Description: line.Description,
			HSCode:      line.HSCode,
			Quantity:    line.Quantity,
		}
	}

	cert := &Certificate{
		Number:        number,
		OrderID:       req.OrderID,
		IssuedAt:      s.now().UTC(),
		Exporter:      toParty(req.Exporter),
		Consignee:     toParty(req.Consignee),
		OriginCountry: req.OriginCountry,
		Items:         items,
	}

	if err := s.persist(ctx, KindCertificate, userID, req.OrderID, number, cert); err != nil {
		return nil, err
	}
	return cert, nil
}

func (s *Service) persist(ctx context.Context, kind Kind, userID, orderID, number string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}

	rec := &Record{
		ID:      uuid.New().String(),
		UserID:  userID,
		OrderID: orderID,
		Number:  number,
		Payload: payload,
	}
	if err := s.repo.Save(ctx, kind, rec); err != nil {
		return err
	}

	s.logger.Info("document generated",
		slog.String("kind", string(kind)),
		slog.String("number", number),
		slog.String("order_id", orderID),
		slog.String("user_id", userID))
	return nil
}

// OrderDocuments returns whichever of the three documents exist for an
// order. An order with none of them is a not-found.
func (s *Service) OrderDocuments(ctx context.Context, userID, orderID string) (*OrderDocumentsResponse, error) {
	resp := &OrderDocumentsResponse{}
	found := false

	if rec, err := s.repo.GetByOrder(ctx, KindInvoice, userID, orderID); err == nil {
		var inv Invoice
		if err := json.Unmarshal(rec.Payload, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice payload: %w", err)
		}
		resp.Invoice = &inv
		found = true
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	if rec, err := s.repo.GetByOrder(ctx, KindPackingList, userID, orderID); err == nil {
		var pl PackingList
		if err := json.Unmarshal(rec.Payload, &pl); err != nil {
			return nil, fmt.Errorf("decode packing list payload: %w", err)
		}
		resp.PackingList = &pl
		found = true
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	if rec, err := s.repo.GetByOrder(ctx, KindCertificate, userID, orderID); err == nil {
		var cert Certificate
		if err := json.Unmarshal(rec.Payload, &cert); err != nil {
			return nil, fmt.Errorf("decode certificate payload: %w", err)
		}
		resp.Certificate = &cert
		found = true
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	if !found {
		return nil, fmt.Errorf("documents for order %s: %w", orderID, core.ErrNotFound)
	}
	return resp, nil
}
