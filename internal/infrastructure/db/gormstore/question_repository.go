package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/domain/repositories"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) List(ctx context.Context) ([]*entities.Question, error) {
	var models []QuestionModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	return mapQuestions(models), nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id int64) (*entities.Question, error) {
	var m QuestionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query question %d: %w", id, err)
	}
	return mapQuestion(&m), nil
}

func (r *QuestionRepository) ListByBank(ctx context.Context, bankID int64) ([]*entities.Question, error) {
	var models []QuestionModel
	err := r.db.WithContext(ctx).
		Joins("JOIN question_bank_questions qbq ON qbq.question_id = questions.id").
		Where("qbq.question_bank_id = ?", bankID).
		Order("questions.created_at DESC, questions.id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query questions of bank %d: %w", bankID, err)
	}
	return mapQuestions(models), nil
}

func (r *QuestionRepository) Search(ctx context.Context, str string) ([]*entities.Question, error) {
	q := strings.TrimSpace(str)
	if q == "" {
		return []*entities.Question{}, nil
	}

	pattern := "%" + escapeLike(q) + "%"

	var models []QuestionModel
	err := r.db.WithContext(ctx).
		Where(searchClause(r.db.Dialector.Name()), pattern, pattern, pattern).
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	return mapQuestions(models), nil
}

func (r *QuestionRepository) TopSaved(ctx context.Context, limit int) ([]*entities.Question, error) {
	var models []QuestionModel
	err := r.db.WithContext(ctx).
		Order("saved_count DESC, id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query top saved questions: %w", err)
	}
	return mapQuestions(models), nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *entities.Question) (*entities.Question, error) {
	m := QuestionModel{
		Title:   question.Title,
		Content: question.Content,
		Answer:  question.Answer,
		Tags:    question.Tags,
		UserID:  question.UserID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	return mapQuestion(&m), nil
}

func mapQuestion(m *QuestionModel) *entities.Question {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return &entities.Question{
		ID:         m.ID,
		Title:      m.Title,
		Content:    m.Content,
		Answer:     m.Answer,
		Tags:       tags,
		UserID:     m.UserID,
		SavedCount: m.SavedCount,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func mapQuestions(models []QuestionModel) []*entities.Question {
	out := make([]*entities.Question, 0, len(models))
	for i := range models {
		out = append(out, mapQuestion(&models[i]))
	}
	return out
}
