package services

import (
	"context"
	"errors"
	"strings"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/adapters/persistence/repositories"
	"alliance-srp/internal/core/domain"
	"alliance-srp/internal/pkg/pagination"

	"gorm.io/gorm"
)

// ErrCannotChangeOwnRole is returned when an admin edits their own role
var ErrCannotChangeOwnRole = errors.New("cannot change your own role")

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// SetRoleInput represents a role change
type SetRoleInput struct {
	Role string `json:"role" validate:"required,role"`
}

// ListUsers lists users with pagination
func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]*models.UserResponse, int64, error) {
	params := pagination.New(page, limit)

	users, total, err := s.userRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.UserResponse, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}
	return out, total, nil
}

// SetUserRole changes a user's role
func (s *UserService) SetUserRole(ctx context.Context, adminID, userID uint, input *SetRoleInput) (*models.UserResponse, error) {
	role := domain.Role(strings.ToUpper(input.Role))
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}
	if adminID == userID {
		return nil, ErrCannotChangeOwnRole
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = string(role)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}
