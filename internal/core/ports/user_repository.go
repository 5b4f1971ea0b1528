package ports

import (
	"context"

	"github.com/scioly/portal/internal/core/domain"
)

// UserRepository defines the persistence contract for users. Implementations
// must enforce username/email uniqueness at their own boundary and surface
// domain.ErrUserExists / domain.ErrUserNotFound accordingly.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Save persists mutations to an existing user (password hash, change
	// timestamp, profile fields). The write is atomic per user.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
