package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/policy"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) ports.UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Create registers a member whose credentials are managed elsewhere.
func (s *UserService) Create(ctx context.Context, principal domain.Principal, username string, isAdmin bool) (*domain.User, error) {
	if !policy.Can(principal, nil, policy.ManageUsers) {
		return nil, domain.ErrForbidden
	}

	username = strings.TrimSpace(username)
	if len(username) < 2 || len(username) > 50 {
		return nil, domain.NewValidationError("username", "username must be 2-50 characters")
	}

	user := &domain.User{
		ID:       uuid.New(),
		Username: username,
		IsAdmin:  isAdmin,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, principal domain.Principal) ([]*domain.User, error) {
	if !policy.Can(principal, nil, policy.ManageUsers) {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx)
}

// SetRole grants or revokes the admin role. Admins cannot revoke their own.
func (s *UserService) SetRole(ctx context.Context, principal domain.Principal, userID uuid.UUID, isAdmin bool) (*domain.User, error) {
	if !policy.Can(principal, nil, policy.ManageUsers) {
		return nil, domain.ErrForbidden
	}
	if principal.UserID == userID && !isAdmin {
		return nil, domain.ErrSelfDemotion
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin != isAdmin {
		if err := s.repo.SetAdmin(ctx, userID, isAdmin); err != nil {
			return nil, err
		}
		user.IsAdmin = isAdmin
	}

	return user, nil
}
