// ShopifyQ | 2026
// service.go

package subuser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shopifyq/backend/internal/core"
)

const maxSubUsersPerOwner = 25

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, ownerID string, req CreateSubUserRequest) (*SubUserResponse, error) {
	existing, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= maxSubUsersPerOwner {
		return nil, fmt.Errorf("sub-user limit reached: %w", core.ErrInvalidInput)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash sub-user password: %w", err)
	}

	sub := &SubUser{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("sub-user created",
		slog.String("owner_id", ownerID),
		slog.String("sub_user_id", sub.ID),
		slog.String("role", sub.Role))

	resp := toResponse(sub)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*SubUserResponse, error) {
	sub, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(sub)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]SubUserResponse, error) {
	subs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]SubUserResponse, len(subs))
	for i, sub := range subs {
		responses[i] = toResponse(sub)
	}
	return responses, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, req UpdateSubUserRequest) (*SubUserResponse, error) {
	sub, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sub.Name = *req.Name
	}
	if req.Role != nil {
		sub.Role = *req.Role
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	resp := toResponse(sub)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("sub-user deleted",
		slog.String("owner_id", ownerID),
		slog.String("sub_user_id", id))
	return nil
}
