// ShopifyQ | 2026
// service_test.go

package document

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopifyq/backend/internal/core"
)

type mockRepo struct {
	seq   int64
	saved map[Kind]*Record
}

func newMockRepo() *mockRepo {
	return &mockRepo{saved: make(map[Kind]*Record)}
}

func (m *mockRepo) NextSequence(ctx context.Context, kind Kind) (int64, error) {
	m.seq++
	return m.seq, nil
}

func (m *mockRepo) Save(ctx context.Context, kind Kind, rec *Record) error {
	rec.CreatedAt = time.Now()
	m.saved[kind] = rec
	return nil
}

func (m *mockRepo) GetByOrder(ctx context.Context, kind Kind, userID, orderID string) (*Record, error) {
	rec, ok := m.saved[kind]
	if !ok || rec.UserID != userID || rec.OrderID != orderID {
		return nil, core.ErrNotFound
	}
	return rec, nil
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func testParty(name string) PartyRequest {
	return PartyRequest{Name: name, Address: "1 Trade Street", Country: "PT"}
}

func TestCreateInvoiceArithmetic(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	invoice, err := svc.CreateInvoice(context.Background(), "user-1", CreateInvoiceRequest{
		OrderID:     "order-77",
		Seller:      testParty("Acme Exports"),
		Buyer:       testParty("US Imports LLC"),
		Incoterm:    "DDP",
		Currency:    "EUR",
		FreightCost: 120.00,
		Items: []InvoiceLineRequest{
			{Description: "Cotton tee", HSCode: "6109.10", Quantity: 100, UnitPrice: 4.85},
			{Description: "Wool sweater", HSCode: "6110.11", Quantity: 40, UnitPrice: 19.99},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if invoice.Number != "INV-2026-000001" {
		t.Errorf("number = %q, want INV-2026-000001", invoice.Number)
	}
	if got := invoice.Items[0].LineTotal; got != 485.00 {
		t.Errorf("line 0 total = %v, want 485.00", got)
	}
	if got := invoice.Items[1].LineTotal; got != 799.60 {
		t.Errorf("line 1 total = %v, want 799.60", got)
	}
	if invoice.Subtotal != 1284.60 {
		t.Errorf("subtotal = %v, want 1284.60", invoice.Subtotal)
	}
	if invoice.Total != 1404.60 {
		t.Errorf("total = %v, want 1404.60", invoice.Total)
	}

	rec := repo.saved[KindInvoice]
	if rec == nil {
		t.Fatal("invoice not persisted")
	}
	var stored Invoice
	if err := json.Unmarshal(rec.Payload, &stored); err != nil {
		t.Fatalf("stored payload does not decode: %v", err)
	}
	if stored.Total != invoice.Total {
		t.Errorf("stored total = %v, want %v", stored.Total, invoice.Total)
	}
}

func TestInvoiceNumbersIncrement(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	req := CreateInvoiceRequest{
		OrderID:  "order-1",
		Seller:   testParty("A"),
		Buyer:    testParty("B"),
		Incoterm: "FOB",
		Currency: "USD",
		Items:    []InvoiceLineRequest{{Description: "x", Quantity: 1, UnitPrice: 1}},
	}

	first, err := svc.CreateInvoice(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("first invoice: %v", err)
	}
	req.OrderID = "order-2"
	second, err := svc.CreateInvoice(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("second invoice: %v", err)
	}

	if first.Number != "INV-2026-000001" || second.Number != "INV-2026-000002" {
		t.Errorf("numbers = %q, %q", first.Number, second.Number)
	}
}

func TestCreatePackingListTotals(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	list, err := svc.CreatePackingList(context.Background(), "user-1", CreatePackingListRequest{
		OrderID:   "order-77",
		Shipper:   testParty("Acme Exports"),
		Consignee: testParty("US Imports LLC"),
		Items: []PackingLineRequest{
			{Description: "Carton 1", Quantity: 50, NetWeightKg: 12.5, GrossWeightKg: 13.2},
			{Description: "Carton 2", Quantity: 50, NetWeightKg: 12.5, GrossWeightKg: 13.4},
		},
	})
	if err != nil {
		t.Fatalf("CreatePackingList: %v", err)
	}

	if list.Number != "PL-2026-000001" {
		t.Errorf("number = %q, want PL-2026-000001", list.Number)
	}
	if list.TotalPieces != 100 {
		t.Errorf("pieces = %d, want 100", list.TotalPieces)
	}
	if list.TotalNetWeight != 25.0 {
		t.Errorf("net weight = %v, want 25.0", list.TotalNetWeight)
	}
	if list.TotalGrossWt != 26.6 {
		t.Errorf("gross weight = %v, want 26.6", list.TotalGrossWt)
	}
}

func TestCreatePackingListRejectsGrossBelowNet(t *testing.T) {
	svc := newTestService(newMockRepo())

	_, err := svc.CreatePackingList(context.Background(), "user-1", CreatePackingListRequest{
		OrderID:   "order-1",
		Shipper:   testParty("A"),
		Consignee: testParty("B"),
		Items: []PackingLineRequest{
			{Description: "Carton", Quantity: 10, NetWeightKg: 5.0, GrossWeightKg: 4.0},
		},
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestCreateCertificate(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	cert, err := svc.CreateCertificate(context.Background(), "user-1", CreateCertificateRequest{
		OrderID:       "order-77",
		Exporter:      testParty("Acme Exports"),
		Consignee:     testParty("US Imports LLC"),
		OriginCountry: "PT",
		Items: []CertificateLineRequest{
			{Description: "Cotton tee", HSCode: "6109.10", Quantity: 100},
		},
	})
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}

	if cert.Number != "CO-2026-000001" {
		t.Errorf("number = %q, want CO-2026-000001", cert.Number)
	}
	if cert.OriginCountry != "PT" {
		t.Errorf("origin = %q, want PT", cert.OriginCountry)
	}
}

func TestOrderDocumentsAggregates(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	invReq := CreateInvoiceRequest{
		OrderID:  "order-77",
		Seller:   testParty("A"),
		Buyer:    testParty("B"),
		Incoterm: "CIF",
		Currency: "USD",
		Items:    []InvoiceLineRequest{{Description: "x", Quantity: 2, UnitPrice: 3.50}},
	}
	if _, err := svc.CreateInvoice(ctx, "user-1", invReq); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	docs, err := svc.OrderDocuments(ctx, "user-1", "order-77")
	if err != nil {
		t.Fatalf("OrderDocuments: %v", err)
	}
	if docs.Invoice == nil || docs.Invoice.Total != 7.00 {
		t.Errorf("invoice = %+v", docs.Invoice)
	}
	if docs.PackingList != nil || docs.Certificate != nil {
		t.Error("expected only invoice to be present")
	}
}

func TestOrderDocumentsMissingOrder(t *testing.T) {
	svc := newTestService(newMockRepo())

	_, err := svc.OrderDocuments(context.Background(), "user-1", "no-such-order")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
