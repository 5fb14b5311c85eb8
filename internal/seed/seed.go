// Package seed loads question banks from a YAML document into the store.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/domain/repositories"
)

// existing banks are matched by title within their topic
const maxBanksPerTopic = 1000

type Document struct {
	Banks []Bank `yaml:"banks"`
}

type Bank struct {
	Title       string     `yaml:"title"`
	Topic       string     `yaml:"topic"`
	Description string     `yaml:"description"`
	Questions   []Question `yaml:"questions"`
}

type Question struct {
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"`
	Answer  string   `yaml:"answer"`
	Tags    []string `yaml:"tags"`
}

type Stats struct {
	Banks        int
	SkippedBanks int
	Questions    int
}

// Parse decodes a seed document. Unknown fields are rejected.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

func (d *Document) validate() error {
	for i, b := range d.Banks {
		if strings.TrimSpace(b.Title) == "" {
			return fmt.Errorf("bank %d: title is required", i+1)
		}
		for j, q := range b.Questions {
			if strings.TrimSpace(q.Content) == "" {
				return fmt.Errorf("bank %q question %d: content is required", b.Title, j+1)
			}
		}
	}
	return nil
}

type Seeder struct {
	banks     repositories.BankRepository
	questions repositories.QuestionRepository
	logger    *zap.Logger
}

func NewSeeder(banks repositories.BankRepository, questions repositories.QuestionRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{banks: banks, questions: questions, logger: logger}
}

// Apply inserts every bank of doc that is not already present, with its
// questions. Links go through the bank repository so total_questions
// stays in step.
func (s *Seeder) Apply(ctx context.Context, doc *Document) (Stats, error) {
	var stats Stats
	for _, b := range doc.Banks {
		exists, err := s.bankExists(ctx, b.Title, b.Topic)
		if err != nil {
			return stats, err
		}
		if exists {
			s.logger.Info("bank already seeded", zap.String("title", b.Title))
			stats.SkippedBanks++
			continue
		}

		bank, err := s.banks.Create(ctx, &entities.Bank{
			Title:       strings.TrimSpace(b.Title),
			Topic:       strings.TrimSpace(b.Topic),
			Description: b.Description,
		})
		if err != nil {
			return stats, fmt.Errorf("create bank %q: %w", b.Title, err)
		}
		stats.Banks++

		for _, q := range b.Questions {
			question, err := s.questions.Create(ctx, &entities.Question{
				Title:   strings.TrimSpace(q.Title),
				Content: q.Content,
				Answer:  q.Answer,
				Tags:    q.Tags,
			})
			if err != nil {
				return stats, fmt.Errorf("create question in %q: %w", b.Title, err)
			}
			if _, err := s.banks.AddQuestion(ctx, bank.ID, question.ID); err != nil {
				return stats, fmt.Errorf("link question %d to bank %d: %w", question.ID, bank.ID, err)
			}
			stats.Questions++
		}
		s.logger.Info("bank seeded",
			zap.Int64("bank_id", bank.ID),
			zap.String("title", bank.Title),
			zap.Int("questions", len(b.Questions)))
	}
	return stats, nil
}

func (s *Seeder) bankExists(ctx context.Context, title, topic string) (bool, error) {
	banks, err := s.banks.ListByTopic(ctx, strings.TrimSpace(topic), maxBanksPerTopic)
	if err != nil {
		return false, err
	}
	for _, b := range banks {
		if b.Title == strings.TrimSpace(title) {
			return true, nil
		}
	}
	return false, nil
}
