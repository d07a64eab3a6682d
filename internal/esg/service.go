// ShopifyQ | 2026
// service.go

package esg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Service runs the scoring pipeline: record the request, call the
// scorer, persist the score, and mark the request complete. A scorer
// failure leaves a failed request row behind so the attempt is
// visible.
type Service struct {
	repo   Repository
	scorer Scorer
	logger *slog.Logger
}

func NewService(repo Repository, scorer Scorer, logger *slog.Logger) *Service {
	return &Service{repo: repo, scorer: scorer, logger: logger}
}

func (s *Service) CreateRequest(ctx context.Context, userID string, req CreateRequestRequest) (*RequestResponse, error) {
	record := &Request{
		ID:            uuid.New().String(),
		UserID:        userID,
		ProductID:     req.ProductID,
		Title:         req.Title,
		Vendor:        req.Vendor,
		OriginCountry: req.OriginCountry,
		Status:        StatusPending,
	}
	if err := s.repo.CreateRequest(ctx, record); err != nil {
		return nil, err
	}

	result, err := s.scorer.Score(ctx, ScoreRequest{
		Title:         req.Title,
		Vendor:        req.Vendor,
		OriginCountry: req.OriginCountry,
	})
	if err != nil {
		if statusErr := s.repo.UpdateRequestStatus(ctx, record.ID, StatusFailed); statusErr != nil {
			s.logger.Error("mark esg request failed",
				slog.String("request_id", record.ID),
				slog.Any("error", statusErr))
		}
		return nil, fmt.Errorf("score product %s: %w", req.ProductID, err)
	}

	score := &Score{
		ID:            uuid.New().String(),
		UserID:        userID,
		ProductID:     req.ProductID,
		Environmental: result.Environmental,
		Social:        result.Social,
		Governance:    result.Governance,
		Overall:       result.Overall,
	}
	if err := s.repo.UpsertScore(ctx, score); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRequestStatus(ctx, record.ID, StatusComplete); err != nil {
		return nil, err
	}
	record.Status = StatusComplete

	resp := toRequestResponse(record)
	scoreResp := toScoreResponse(score)
	resp.Score = &scoreResp
	return &resp, nil
}

func (s *Service) ListRequests(ctx context.Context, userID string, page, pageSize int) ([]RequestResponse, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	requests, total, err := s.repo.ListRequests(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = toRequestResponse(req)
	}
	return responses, total, nil
}

func (s *Service) GetScore(ctx context.Context, userID, productID string) (*ScoreResponse, error) {
	score, err := s.repo.GetScore(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	resp := toScoreResponse(score)
	return &resp, nil
}
