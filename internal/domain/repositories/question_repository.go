package repositories

import (
	"context"

	"sqlpractice-service/internal/domain/entities"
)

type QuestionRepository interface {
	List(ctx context.Context) ([]*entities.Question, error)
	FindByID(ctx context.Context, id int64) (*entities.Question, error)
	ListByBank(ctx context.Context, bankID int64) ([]*entities.Question, error)
	// Search matches str as a literal substring of title, content or answer.
	Search(ctx context.Context, str string) ([]*entities.Question, error)
	TopSaved(ctx context.Context, limit int) ([]*entities.Question, error)
	Create(ctx context.Context, question *entities.Question) (*entities.Question, error)
}

type SavedRepository interface {
	// Save records the bookmark and bumps saved_count. A repeated save is
	// a no-op reported as false.
	Save(ctx context.Context, userID, questionID int64) (bool, error)
	Unsave(ctx context.Context, userID, questionID int64) (int64, error)
	IsSaved(ctx context.Context, userID, questionID int64) (bool, error)
	SavedIDs(ctx context.Context, userID int64) ([]int64, error)
	SavedQuestions(ctx context.Context, userID int64) ([]*entities.Question, error)
}
