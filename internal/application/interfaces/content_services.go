package interfaces

import (
	"context"

	"sqlpractice-service/internal/application/command"
	"sqlpractice-service/internal/application/common"
	"sqlpractice-service/internal/application/query"
)

type QuestionService interface {
	List(ctx context.Context) ([]*common.QuestionResult, error)
	Get(ctx context.Context, id int64) (*common.QuestionResult, error)
	Search(ctx context.Context, q string) ([]*common.SearchHitResult, error)
	TopSaved(ctx context.Context) ([]*common.QuestionResult, error)
	Save(ctx context.Context, userID, questionID int64) (bool, error)
	Unsave(ctx context.Context, userID, questionID int64) (bool, error)
	SavedIDs(ctx context.Context, userID int64) ([]int64, error)
	SavedQuestions(ctx context.Context, userID int64) ([]*common.QuestionResult, error)
	CreateQuestion(ctx context.Context, createCommand *command.CreateQuestionCommand) (*common.QuestionResult, error)
}

type BankService interface {
	List(ctx context.Context, limit int) ([]*common.BankResult, error)
	ListGroupedByTopic(ctx context.Context, limit int) ([]*common.BankGroupResult, error)
	ListByTopic(ctx context.Context, topic string, limit int) ([]*common.BankResult, error)
	Get(ctx context.Context, id int64) (*query.BankDetailQueryResult, error)
	Favorite(ctx context.Context, userID, bankID int64) (bool, error)
	Unfavorite(ctx context.Context, userID, bankID int64) (bool, error)
	IsFavorited(ctx context.Context, userID, bankID int64) (bool, error)
	Favorites(ctx context.Context, userID int64) ([]*common.BankResult, error)
	BatchUnfavorite(ctx context.Context, userID int64, batchCommand *command.BatchUnfavoriteCommand) (int64, error)
	CreateBank(ctx context.Context, createCommand *command.CreateBankCommand) (*common.BankResult, error)
	AddQuestion(ctx context.Context, bankID, questionID int64) (bool, error)
	RemoveQuestion(ctx context.Context, bankID, questionID int64) (bool, error)
}

type TutorService interface {
	Explain(ctx context.Context, explainCommand *command.ExplainCommand) (string, error)
	// ExplainStream validates synchronously, then streams the answer.
	ExplainStream(ctx context.Context, explainCommand *command.ExplainCommand) (<-chan string, <-chan error, error)
	CheckSQL(ctx context.Context, checkCommand *command.CheckSQLCommand) (string, error)
}
