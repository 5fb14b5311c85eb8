package mapper

import (
	"sqlpractice-service/internal/application/common"
	"sqlpractice-service/internal/domain/entities"
)

func NewQuestionResultFromEntity(q *entities.Question) *common.QuestionResult {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	return &common.QuestionResult{
		Id:           q.ID,
		Title:        q.Title,
		DisplayTitle: q.DisplayTitle(),
		Content:      q.Content,
		Answer:       q.Answer,
		Tags:         tags,
		SavedCount:   q.SavedCount,
		CreatedAt:    q.CreatedAt,
	}
}

func NewQuestionResultsFromEntities(questions []*entities.Question) []*common.QuestionResult {
	out := make([]*common.QuestionResult, 0, len(questions))
	for _, q := range questions {
		out = append(out, NewQuestionResultFromEntity(q))
	}
	return out
}

func NewBankResultFromEntity(b *entities.Bank) *common.BankResult {
	return &common.BankResult{
		Id:             b.ID,
		Title:          b.Title,
		Topic:          b.Topic,
		Description:    b.Description,
		TotalQuestions: b.TotalQuestions,
		CreatedAt:      b.CreatedAt,
	}
}

func NewBankResultsFromEntities(banks []*entities.Bank) []*common.BankResult {
	out := make([]*common.BankResult, 0, len(banks))
	for _, b := range banks {
		out = append(out, NewBankResultFromEntity(b))
	}
	return out
}
