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

type SavedRepository struct {
	db *gorm.DB
}

func NewSavedRepository(db *gorm.DB) repositories.SavedRepository {
	return &SavedRepository{db: db}
}

func (r *SavedRepository) Save(ctx context.Context, userID, questionID int64) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q QuestionModel
		if err := tx.Select("id").Where("id = ?", questionID).First(&q).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("question %d: %w", questionID, domain.ErrNotFound)
			}
			return err
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&SavedQuestionModel{UserID: userID, QuestionID: questionID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true

		return tx.Model(&QuestionModel{}).
			Where("id = ?", questionID).
			UpdateColumn("saved_count", gorm.Expr("saved_count + 1")).Error
	})
	if err != nil {
		return false, fmt.Errorf("save question: %w", err)
	}
	return created, nil
}

func (r *SavedRepository) Unsave(ctx context.Context, userID, questionID int64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND question_id = ?", userID, questionID).
			Delete(&SavedQuestionModel{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}

		return tx.Unscoped().Model(&QuestionModel{}).
			Where("id = ?", questionID).
			UpdateColumn("saved_count", gorm.Expr(decrementFloorZero("saved_count"))).Error
	})
	if err != nil {
		return 0, fmt.Errorf("unsave question: %w", err)
	}
	return affected, nil
}

func (r *SavedRepository) IsSaved(ctx context.Context, userID, questionID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SavedQuestionModel{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query user_question_saved: %w", err)
	}
	return count > 0, nil
}

func (r *SavedRepository) SavedIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).Model(&SavedQuestionModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query saved ids: %w", err)
	}
	return ids, nil
}

func (r *SavedRepository) SavedQuestions(ctx context.Context, userID int64) ([]*entities.Question, error) {
	var models []QuestionModel
	err := r.db.WithContext(ctx).
		Joins("JOIN user_question_saved uqs ON uqs.question_id = questions.id").
		Where("uqs.user_id = ?", userID).
		Order("uqs.created_at DESC, uqs.id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("get saved questions: %w", err)
	}
	return mapQuestions(models), nil
}
