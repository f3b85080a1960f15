package repositories

import (
	"context"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// UserReader defines read operations for users.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	SaveUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	DeactivateUser(ctx context.Context, userID string, actorID string) error
}

// UserRepositoryFacade combines reader and writer operations.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
