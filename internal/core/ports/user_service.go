package ports

import (
	"context"

	"github.com/scioly/portal/internal/core/domain"
)

// UpdateProfileInput carries the mutable profile fields. Nil means "leave
// unchanged". Password and role are never mutated through this path.
type UpdateProfileInput struct {
	School     *string
	Coursework *domain.Coursework
	Categories *domain.Categories
}

// UserService defines user profile use cases.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error)
}
