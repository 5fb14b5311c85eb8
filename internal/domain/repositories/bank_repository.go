package repositories

import (
	"context"

	"sqlpractice-service/internal/domain/entities"
)

type BankRepository interface {
	List(ctx context.Context, limit int) ([]*entities.Bank, error)
	ListByTopic(ctx context.Context, topic string, limit int) ([]*entities.Bank, error)
	FindByID(ctx context.Context, id int64) (*entities.Bank, error)
	Create(ctx context.Context, bank *entities.Bank) (*entities.Bank, error)
	// AddQuestion links a question into a bank and bumps total_questions.
	// Linking twice is a no-op reported as false.
	AddQuestion(ctx context.Context, bankID, questionID int64) (bool, error)
	RemoveQuestion(ctx context.Context, bankID, questionID int64) (bool, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, userID, bankID int64) (bool, error)
	Remove(ctx context.Context, userID, bankID int64) (int64, error)
	BatchRemove(ctx context.Context, userID int64, bankIDs []int64) (int64, error)
	IsFavorited(ctx context.Context, userID, bankID int64) (bool, error)
	// FavoriteBanks lists live banks, most recently favorited first.
	FavoriteBanks(ctx context.Context, userID int64) ([]*entities.Bank, error)
}
