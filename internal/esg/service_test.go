// ShopifyQ | 2026
// service_test.go

package esg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopifyq/backend/internal/core"
)

type mockRepo struct {
	createRequest func(ctx context.Context, req *Request) error
	updateStatus  func(ctx context.Context, id, status string) error
	upsertScore   func(ctx context.Context, score *Score) error

	statuses []string
}

func (m *mockRepo) CreateRequest(ctx context.Context, req *Request) error {
	if m.createRequest != nil {
		return m.createRequest(ctx, req)
	}
	return nil
}

func (m *mockRepo) UpdateRequestStatus(ctx context.Context, id, status string) error {
	m.statuses = append(m.statuses, status)
	if m.updateStatus != nil {
		return m.updateStatus(ctx, id, status)
	}
	return nil
}

func (m *mockRepo) ListRequests(ctx context.Context, userID string, limit, offset int) ([]*Request, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) UpsertScore(ctx context.Context, score *Score) error {
	if m.upsertScore != nil {
		return m.upsertScore(ctx, score)
	}
	return nil
}

func (m *mockRepo) GetScore(ctx context.Context, userID, productID string) (*Score, error) {
	return nil, fmt.Errorf("esg score: %w", core.ErrNotFound)
}

type mockScorer struct {
	score func(ctx context.Context, req ScoreRequest) (*ScoreResult, error)
}

func (m *mockScorer) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	return m.score(ctx, req)
}

func newTestService(repo *mockRepo, scorer *mockScorer) *Service {
	return NewService(repo, scorer, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateRequestScoresAndCompletes(t *testing.T) {
	var savedScore *Score
	repo := &mockRepo{
		upsertScore: func(ctx context.Context, score *Score) error {
			savedScore = score
			return nil
		},
	}
	scorer := &mockScorer{
		score: func(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
			if req.Title != "Organic Cotton Tee" || req.OriginCountry != "PT" {
				t.Errorf("unexpected score request: %+v", req)
			}
			return &ScoreResult{Environmental: 72, Social: 64, Governance: 80, Overall: 71}, nil
		},
	}

	svc := newTestService(repo, scorer)
	resp, err := svc.CreateRequest(context.Background(), "user-1", CreateRequestRequest{
		ProductID:     "prod-9",
		Title:         "Organic Cotton Tee",
		Vendor:        "Acme Textiles",
		OriginCountry: "PT",
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	if resp.Status != StatusComplete {
		t.Errorf("status = %q, want %q", resp.Status, StatusComplete)
	}
	if resp.Score == nil || resp.Score.Overall != 71 {
		t.Errorf("score = %+v, want overall 71", resp.Score)
	}
	if savedScore == nil || savedScore.ProductID != "prod-9" || savedScore.UserID != "user-1" {
		t.Errorf("persisted score = %+v", savedScore)
	}
	if len(repo.statuses) != 1 || repo.statuses[0] != StatusComplete {
		t.Errorf("status transitions = %v, want [complete]", repo.statuses)
	}
}

func TestCreateRequestScorerFailureMarksFailed(t *testing.T) {
	repo := &mockRepo{}
	scorer := &mockScorer{
		score: func(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
			return nil, fmt.Errorf("%w: esg scorer status 503", core.ErrUpstream)
		},
	}

	svc := newTestService(repo, scorer)
	_, err := svc.CreateRequest(context.Background(), "user-1", CreateRequestRequest{
		ProductID:     "prod-9",
		Title:         "Widget",
		Vendor:        "Acme",
		OriginCountry: "CN",
	})
	if !errors.Is(err, core.ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}

	if len(repo.statuses) != 1 || repo.statuses[0] != StatusFailed {
		t.Errorf("status transitions = %v, want [failed]", repo.statuses)
	}
}

func TestCreateRequestPersistErrorSurfaces(t *testing.T) {
	repo := &mockRepo{
		upsertScore: func(ctx context.Context, score *Score) error {
			return errors.New("db write failed")
		},
	}
	scorer := &mockScorer{
		score: func(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
			return &ScoreResult{Overall: 50}, nil
		},
	}

	svc := newTestService(repo, scorer)
	_, err := svc.CreateRequest(context.Background(), "user-1", CreateRequestRequest{
		ProductID:     "prod-1",
		Title:         "Widget",
		Vendor:        "Acme",
		OriginCountry: "CN",
	})
	if err == nil {
		t.Fatal("expected error from failed score persist")
	}
	if len(repo.statuses) != 0 {
		t.Errorf("status transitions = %v, want none", repo.statuses)
	}
}
