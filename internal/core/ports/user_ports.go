package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, principal domain.Principal, username string, isAdmin bool) (*domain.User, error)
	List(ctx context.Context, principal domain.Principal) ([]*domain.User, error)
	SetRole(ctx context.Context, principal domain.Principal, userID uuid.UUID, isAdmin bool) (*domain.User, error)
}
