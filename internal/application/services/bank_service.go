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
	"sqlpractice-service/internal/application/query"
	"sqlpractice-service/internal/domain"
	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/domain/repositories"
)

type BankService struct {
	bankRepo     repositories.BankRepository
	favoriteRepo repositories.FavoriteRepository
	questionRepo repositories.QuestionRepository
	logger       *zap.Logger
}

func NewBankService(
	bankRepo repositories.BankRepository,
	favoriteRepo repositories.FavoriteRepository,
	questionRepo repositories.QuestionRepository,
	logger *zap.Logger,
) interfaces.BankService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankService{
		bankRepo:     bankRepo,
		favoriteRepo: favoriteRepo,
		questionRepo: questionRepo,
		logger:       logger,
	}
}

func (s *BankService) List(ctx context.Context, limit int) ([]*common.BankResult, error) {
	banks, err := s.bankRepo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return mapper.NewBankResultsFromEntities(banks), nil
}

// ListGroupedByTopic keeps the newest-first order of List, both across
// groups (by first appearance) and within each group.
func (s *BankService) ListGroupedByTopic(ctx context.Context, limit int) ([]*common.BankGroupResult, error) {
	banks, err := s.bankRepo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	groups := []*common.BankGroupResult{}
	byTopic := map[string]*common.BankGroupResult{}
	for _, bank := range banks {
		topic := bank.DisplayTopic()
		group, ok := byTopic[topic]
		if !ok {
			group = &common.BankGroupResult{Topic: topic, Banks: []*common.BankResult{}}
			byTopic[topic] = group
			groups = append(groups, group)
		}
		group.Banks = append(group.Banks, mapper.NewBankResultFromEntity(bank))
	}
	return groups, nil
}

func (s *BankService) ListByTopic(ctx context.Context, topic string, limit int) ([]*common.BankResult, error) {
	banks, err := s.bankRepo.ListByTopic(ctx, strings.TrimSpace(topic), limit)
	if err != nil {
		return nil, err
	}
	return mapper.NewBankResultsFromEntities(banks), nil
}

func (s *BankService) Get(ctx context.Context, id int64) (*query.BankDetailQueryResult, error) {
	bank, err := s.bankRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, domain.NewError(domain.ErrNotFound, "Bank not found")
	}

	questions, err := s.questionRepo.ListByBank(ctx, id)
	if err != nil {
		return nil, err
	}
	return &query.BankDetailQueryResult{
		Bank:      mapper.NewBankResultFromEntity(bank),
		Questions: mapper.NewQuestionResultsFromEntities(questions),
	}, nil
}

func (s *BankService) Favorite(ctx context.Context, userID, bankID int64) (bool, error) {
	created, err := s.favoriteRepo.Add(ctx, userID, bankID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.NewError(domain.ErrNotFound, "Bank not found")
		}
		return false, err
	}
	return created, nil
}

func (s *BankService) Unfavorite(ctx context.Context, userID, bankID int64) (bool, error) {
	n, err := s.favoriteRepo.Remove(ctx, userID, bankID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *BankService) IsFavorited(ctx context.Context, userID, bankID int64) (bool, error) {
	return s.favoriteRepo.IsFavorited(ctx, userID, bankID)
}

func (s *BankService) Favorites(ctx context.Context, userID int64) ([]*common.BankResult, error) {
	banks, err := s.favoriteRepo.FavoriteBanks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapper.NewBankResultsFromEntities(banks), nil
}

func (s *BankService) BatchUnfavorite(ctx context.Context, userID int64, batchCommand *command.BatchUnfavoriteCommand) (int64, error) {
	ids := make([]int64, 0, len(batchCommand.Ids))
	for _, id := range batchCommand.Ids {
		if id <= 0 {
			return 0, domain.NewError(domain.ErrInvalidInput, "Invalid bank id %d", id)
		}
		ids = append(ids, id)
	}
	return s.favoriteRepo.BatchRemove(ctx, userID, ids)
}

func (s *BankService) CreateBank(ctx context.Context, createCommand *command.CreateBankCommand) (*common.BankResult, error) {
	title := strings.TrimSpace(createCommand.Title)
	if title == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "Title is required")
	}

	bank := &entities.Bank{
		Title:       title,
		Topic:       strings.TrimSpace(createCommand.Topic),
		Description: strings.TrimSpace(createCommand.Description),
	}
	if createCommand.UserId != 0 {
		bank.UserID = &createCommand.UserId
	}

	created, err := s.bankRepo.Create(ctx, bank)
	if err != nil {
		return nil, fmt.Errorf("create bank: %w", err)
	}
	s.logger.Info("bank created", zap.Int64("bank_id", created.ID))
	return mapper.NewBankResultFromEntity(created), nil
}

func (s *BankService) AddQuestion(ctx context.Context, bankID, questionID int64) (bool, error) {
	added, err := s.bankRepo.AddQuestion(ctx, bankID, questionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.NewError(domain.ErrNotFound, "Bank or question not found")
		}
		return false, err
	}
	return added, nil
}

func (s *BankService) RemoveQuestion(ctx context.Context, bankID, questionID int64) (bool, error) {
	return s.bankRepo.RemoveQuestion(ctx, bankID, questionID)
}
