package repositories

import (
	"context"
	"time"

	"sqlpractice-service/internal/domain/entities"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	// FindActive returns nil when no session with that hash outlives now.
	FindActive(ctx context.Context, hashedID string, now time.Time) (*entities.Session, error)
	Delete(ctx context.Context, hashedID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
