package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlpractice-service/internal/infrastructure/db/gormstore"
	"sqlpractice-service/internal/infrastructure/db/gormstore/gormtest"
)

const sample = `
banks:
  - title: Joins
    topic: basics
    description: Combining tables
    questions:
      - title: Inner join
        content: "# Inner join\nList users with their orders."
        answer: SELECT * FROM users JOIN orders ON orders.user_id = users.id;
        tags: [join]
      - content: Count orders per user.
        answer: SELECT user_id, COUNT(*) FROM orders GROUP BY user_id;
  - title: Empty bank
    topic: basics
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, doc.Banks, 2)
	assert.Equal(t, "Joins", doc.Banks[0].Title)
	assert.Len(t, doc.Banks[0].Questions, 2)
	assert.Equal(t, []string{"join"}, doc.Banks[0].Questions[0].Tags)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown field", "banks:\n  - title: x\n    colour: red\n", "colour"},
		{"missing title", "banks:\n  - topic: basics\n", "title is required"},
		{"missing content", "banks:\n  - title: x\n    questions:\n      - title: q\n", "content is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	doc, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Banks)
}

func TestApplyIsRepeatable(t *testing.T) {
	ctx := context.Background()
	db := gormtest.New(t)
	banks := gormstore.NewBankRepository(db)
	questions := gormstore.NewQuestionRepository(db)
	s := NewSeeder(banks, questions, nil)

	doc, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	stats, err := s.Apply(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, Stats{Banks: 2, Questions: 2}, stats)

	stats, err = s.Apply(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, Stats{SkippedBanks: 2}, stats)

	list, err := banks.ListByTopic(ctx, "basics", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, b := range list {
		if b.Title == "Joins" {
			assert.Equal(t, int64(2), b.TotalQuestions)
		}
	}

	all, err := questions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
