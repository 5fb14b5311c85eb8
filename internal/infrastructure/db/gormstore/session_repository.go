package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/domain/repositories"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) repositories.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if session.HashedID == "" || session.UserID == 0 || session.ExpiresAt.IsZero() {
		return errors.New("insert session: invalid parameters")
	}

	m := SessionModel{
		HashedSID: session.HashedID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt.UTC(),
		CreatedAt: session.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	session.ID = m.ID
	return nil
}

func (r *SessionRepository) FindActive(ctx context.Context, hashedID string, now time.Time) (*entities.Session, error) {
	if hashedID == "" {
		return nil, nil
	}

	var m SessionModel
	err := r.db.WithContext(ctx).
		Where("hashed_sid = ? AND expires_at > ?", hashedID, now.UTC()).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query session: %w", err)
	}

	return &entities.Session{
		ID:        m.ID,
		HashedID:  m.HashedSID,
		UserID:    m.UserID,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (r *SessionRepository) Delete(ctx context.Context, hashedID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("hashed_sid = ?", hashedID).Delete(&SessionModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete session: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&SessionModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
