package service

import (
	"context"
	"strings"
	"time"

	"github.com/scioly/portal/internal/core/domain"
	"github.com/scioly/portal/internal/core/ports"
)

// UserService implements profile reads and updates.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

// UpdateProfile mutates school/coursework/categories only. Password and role
// never change through this path.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.School != nil {
		user.School = strings.TrimSpace(*input.School)
	}
	if input.Coursework != nil {
		user.Coursework = *input.Coursework
	}
	if input.Categories != nil {
		user.Categories = *input.Categories
	}
	user.UpdatedAt = time.Now().UTC()

	return s.repo.Save(ctx, user)
}
