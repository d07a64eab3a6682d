// ShopifyQ | 2026
// service.go

package compliance

import (
	"context"
	"log/slog"

	"github.com/shopifyq/backend/internal/dutify"
)

// Classifier is the slice of the trade-compliance API this service
// needs. Satisfied by *dutify.Client.
type Classifier interface {
	ClassifyProduct(ctx context.Context, req dutify.ClassifyRequest) (*dutify.Classification, error)
	CalculateLandedCost(ctx context.Context, req dutify.LandedCostRequest) (*dutify.LandedCost, error)
}

type Service struct {
	classifier Classifier
	logger     *slog.Logger
}

func NewService(classifier Classifier, logger *slog.Logger) *Service {
	return &Service{classifier: classifier, logger: logger}
}

func (s *Service) Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResponse, error) {
	result, err := s.classifier.ClassifyProduct(ctx, dutify.ClassifyRequest{
		Description:   req.Description,
		OriginCountry: req.OriginCountry,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("product classified",
		slog.String("hs_code", result.HSCode),
		slog.Float64("confidence", result.Confidence))

	return &ClassifyResponse{
		HSCode:      result.HSCode,
		Description: result.Description,
		Confidence:  result.Confidence,
	}, nil
}

func (s *Service) LandedCost(ctx context.Context, req LandedCostRequest) (*LandedCostResponse, error) {
	items := make([]dutify.LandedCostItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = dutify.LandedCostItem{
			HSCode:    item.HSCode,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	result, err := s.classifier.CalculateLandedCost(ctx, dutify.LandedCostRequest{
		Items:       items,
		Origin:      req.Origin,
		Destination: req.Destination,
		Incoterm:    req.Incoterm,
		Currency:    req.Currency,
	})
	if err != nil {
		return nil, err
	}

	return &LandedCostResponse{
		Duties:   result.Duties,
		Taxes:    result.Taxes,
		Fees:     result.Fees,
		Total:    result.Total,
		Currency: result.Currency,
	}, nil
}
