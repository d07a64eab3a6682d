// ShopifyQ | 2026
// dto.go

package subuser

import (
	"time"
)

type CreateSubUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=12,max=128"`
	Role     string `json:"role" validate:"required,oneof=manager analyst viewer"`
}

type UpdateSubUserRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=255"`
	Role *string `json:"role" validate:"omitempty,oneof=manager analyst viewer"`
}

type SubUserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(s *SubUser) SubUserResponse {
	return SubUserResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Role:      s.Role,
		CreatedAt: s.CreatedAt,
	}
}
