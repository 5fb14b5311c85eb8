package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sqlpractice-service/internal/application/command"
	"sqlpractice-service/internal/application/common"
	"sqlpractice-service/internal/application/interfaces"
	"sqlpractice-service/internal/application/mapper"
	"sqlpractice-service/internal/domain"
	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/domain/repositories"
)

const TopSavedLimit = 10

type QuestionService struct {
	questionRepo repositories.QuestionRepository
	savedRepo    repositories.SavedRepository
	logger       *zap.Logger
}

func NewQuestionService(
	questionRepo repositories.QuestionRepository,
	savedRepo repositories.SavedRepository,
	logger *zap.Logger,
) interfaces.QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{
		questionRepo: questionRepo,
		savedRepo:    savedRepo,
		logger:       logger,
	}
}

func (s *QuestionService) List(ctx context.Context) ([]*common.QuestionResult, error) {
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.NewQuestionResultsFromEntities(questions), nil
}

func (s *QuestionService) Get(ctx context.Context, id int64) (*common.QuestionResult, error) {
	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Question not found")
	}
	return mapper.NewQuestionResultFromEntity(question), nil
}

func (s *QuestionService) Search(ctx context.Context, q string) ([]*common.SearchHitResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*common.SearchHitResult{}, nil
	}

	questions, err := s.questionRepo.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	tokens := tokenize(q)
	hits := make([]*common.SearchHitResult, 0, len(questions))
	for _, question := range questions {
		source := question.Answer
		if source == "" {
			source = question.Content
		}
		hits = append(hits, &common.SearchHitResult{
			QuestionResult: mapper.NewQuestionResultFromEntity(question),
			Snippet:        makeSnippet(source, tokens),
		})
	}
	return hits, nil
}

func (s *QuestionService) TopSaved(ctx context.Context) ([]*common.QuestionResult, error) {
	questions, err := s.questionRepo.TopSaved(ctx, TopSavedLimit)
	if err != nil {
		return nil, err
	}
	return mapper.NewQuestionResultsFromEntities(questions), nil
}

func (s *QuestionService) Save(ctx context.Context, userID, questionID int64) (bool, error) {
	created, err := s.savedRepo.Save(ctx, userID, questionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.NewError(domain.ErrNotFound, "Question not found")
		}
		return false, err
	}
	return created, nil
}

func (s *QuestionService) Unsave(ctx context.Context, userID, questionID int64) (bool, error) {
	n, err := s.savedRepo.Unsave(ctx, userID, questionID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *QuestionService) SavedIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.savedRepo.SavedIDs(ctx, userID)
}

func (s *QuestionService) SavedQuestions(ctx context.Context, userID int64) ([]*common.QuestionResult, error) {
	questions, err := s.savedRepo.SavedQuestions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapper.NewQuestionResultsFromEntities(questions), nil
}

func (s *QuestionService) CreateQuestion(ctx context.Context, createCommand *command.CreateQuestionCommand) (*common.QuestionResult, error) {
	content := strings.TrimSpace(createCommand.Content)
	if content == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "Content is required")
	}

	question := &entities.Question{
		Title:   strings.TrimSpace(createCommand.Title),
		Content: content,
		Answer:  strings.TrimSpace(createCommand.Answer),
		Tags:    cleanTags(createCommand.Tags),
	}
	if createCommand.UserId != 0 {
		question.UserID = &createCommand.UserId
	}

	created, err := s.questionRepo.Create(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.logger.Info("question created", zap.Int64("question_id", created.ID))
	return mapper.NewQuestionResultFromEntity(created), nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
