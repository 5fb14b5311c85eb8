package repositories

import (
	"context"

	"sqlpractice-service/internal/domain/entities"
)

type UserRepository interface {
	// Create fails with domain.ErrDuplicateEmail when the account is taken.
	Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	FindByID(ctx context.Context, id int64) (*entities.User, error)
	// FindByAccount also returns soft-deleted users (Deleted set) so login
	// can tell disabled accounts apart.
	FindByAccount(ctx context.Context, account string) (*entities.User, error)
	AccountExists(ctx context.Context, account string) (bool, error)
	// SetRole fails with domain.ErrNotFound when no active user has the account.
	SetRole(ctx context.Context, account, role string) error
}
