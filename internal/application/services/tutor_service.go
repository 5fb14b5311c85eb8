package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sqlpractice-service/internal/application/command"
	"sqlpractice-service/internal/application/interfaces"
	"sqlpractice-service/internal/domain"
	"sqlpractice-service/internal/infrastructure/llm"
)

type TutorService struct {
	client llm.Client
	logger *zap.Logger
}

func NewTutorService(client llm.Client, logger *zap.Logger) interfaces.TutorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TutorService{client: client, logger: logger}
}

func explainRequest(explainCommand *command.ExplainCommand) (llm.Request, error) {
	question := strings.TrimSpace(explainCommand.Question)
	if question == "" {
		return llm.Request{}, domain.NewError(domain.ErrInvalidInput, "Question is required")
	}
	return llm.Request{
		System: llm.SQLTutorSystem,
		User:   llm.ExplainSQLPrompt(question, strings.TrimSpace(explainCommand.Answer)),
	}, nil
}

func (s *TutorService) Explain(ctx context.Context, explainCommand *command.ExplainCommand) (string, error) {
	req, err := explainRequest(explainCommand)
	if err != nil {
		return "", err
	}

	explanation, err := s.client.Complete(ctx, req)
	if err != nil {
		s.logger.Error("explain failed", zap.Error(err))
		return "", fmt.Errorf("explain sql: %w", err)
	}
	return explanation, nil
}

func (s *TutorService) ExplainStream(ctx context.Context, explainCommand *command.ExplainCommand) (<-chan string, <-chan error, error) {
	req, err := explainRequest(explainCommand)
	if err != nil {
		return nil, nil, err
	}
	content, errs := s.client.Stream(ctx, req)
	return content, errs, nil
}

func (s *TutorService) CheckSQL(ctx context.Context, checkCommand *command.CheckSQLCommand) (string, error) {
	userSQL := strings.TrimSpace(checkCommand.UserSQL)
	correctSQL := strings.TrimSpace(checkCommand.CorrectSQL)
	question := strings.TrimSpace(checkCommand.Question)

	var missing []string
	if userSQL == "" {
		missing = append(missing, "userSQL")
	}
	if correctSQL == "" {
		missing = append(missing, "correctSQL")
	}
	if question == "" {
		missing = append(missing, "question")
	}
	if len(missing) > 0 {
		return "", domain.NewError(domain.ErrInvalidInput,
			"Missing required fields: %s", strings.Join(missing, ", "))
	}

	feedback, err := s.client.Complete(ctx, llm.Request{
		System: llm.SQLReviewerSystem,
		User:   llm.CheckSQLPrompt(userSQL, correctSQL, question),
	})
	if err != nil {
		s.logger.Error("check sql failed", zap.Error(err))
		return "", fmt.Errorf("check sql: %w", err)
	}
	return feedback, nil
}
