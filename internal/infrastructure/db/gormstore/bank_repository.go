package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sqlpractice-service/internal/domain"
	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/domain/repositories"
)

const (
	DefaultBankListLimit  = 12
	DefaultBankTopicLimit = 20
)

type BankRepository struct {
	db *gorm.DB
}

func NewBankRepository(db *gorm.DB) repositories.BankRepository {
	return &BankRepository{db: db}
}

func (r *BankRepository) List(ctx context.Context, limit int) ([]*entities.Bank, error) {
	if limit <= 0 {
		limit = DefaultBankListLimit
	}

	var models []BankModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query question_banks: %w", err)
	}
	return mapBanks(models), nil
}

func (r *BankRepository) ListByTopic(ctx context.Context, topic string, limit int) ([]*entities.Bank, error) {
	if limit <= 0 {
		limit = DefaultBankTopicLimit
	}

	var models []BankModel
	err := r.db.WithContext(ctx).
		Where("topic = ?", topic).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query question_banks by topic: %w", err)
	}
	return mapBanks(models), nil
}

func (r *BankRepository) FindByID(ctx context.Context, id int64) (*entities.Bank, error) {
	var m BankModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query question_banks by id: %w", err)
	}
	return mapBank(&m), nil
}

func (r *BankRepository) Create(ctx context.Context, bank *entities.Bank) (*entities.Bank, error) {
	m := BankModel{
		Title:       bank.Title,
		Topic:       bank.Topic,
		Description: bank.Description,
		UserID:      bank.UserID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("insert question_banks: %w", err)
	}
	return mapBank(&m), nil
}

func (r *BankRepository) AddQuestion(ctx context.Context, bankID, questionID int64) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &BankModel{}, bankID, "bank"); err != nil {
			return err
		}
		if err := mustExist(tx, &QuestionModel{}, questionID, "question"); err != nil {
			return err
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&BankQuestionModel{QuestionBankID: bankID, QuestionID: questionID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true

		return tx.Model(&BankModel{}).
			Where("id = ?", bankID).
			UpdateColumn("total_questions", gorm.Expr("total_questions + 1")).Error
	})
	if err != nil {
		return false, fmt.Errorf("add question to bank: %w", err)
	}
	return created, nil
}

func (r *BankRepository) RemoveQuestion(ctx context.Context, bankID, questionID int64) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("question_bank_id = ? AND question_id = ?", bankID, questionID).
			Delete(&BankQuestionModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		return tx.Unscoped().Model(&BankModel{}).
			Where("id = ?", bankID).
			UpdateColumn("total_questions", gorm.Expr(decrementFloorZero("total_questions"))).Error
	})
	if err != nil {
		return false, fmt.Errorf("remove question from bank: %w", err)
	}
	return removed, nil
}

func mustExist(tx *gorm.DB, model any, id int64, what string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}

func mapBank(m *BankModel) *entities.Bank {
	return &entities.Bank{
		ID:             m.ID,
		Title:          m.Title,
		Topic:          m.Topic,
		Description:    m.Description,
		UserID:         m.UserID,
		TotalQuestions: m.TotalQuestions,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func mapBanks(models []BankModel) []*entities.Bank {
	out := make([]*entities.Bank, 0, len(models))
	for i := range models {
		out = append(out, mapBank(&models[i]))
	}
	return out
}
