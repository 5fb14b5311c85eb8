package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExplainSQLPrompt(t *testing.T) {
	p := ExplainSQLPrompt("Find duplicates", "SELECT email FROM t GROUP BY email HAVING COUNT(*) > 1")
	assert.True(t, strings.HasPrefix(p, "You are a helpful SQL tutor. A student is practicing SQL questions.\n\nQuestion:\nFind duplicates\n\n"))
	assert.Contains(t, p, "Correct Answer:\nSELECT email FROM t GROUP BY email HAVING COUNT(*) > 1\n\n\n\nPlease provide:")
	assert.True(t, strings.HasSuffix(p, "Use markdown for formatting if needed."))

	bare := ExplainSQLPrompt("Find duplicates", "")
	assert.NotContains(t, bare, "Correct Answer")
	assert.Contains(t, bare, "Find duplicates\n\n\n\nPlease provide:")
}

func TestCheckSQLPrompt(t *testing.T) {
	p := CheckSQLPrompt("SELECT 1", "SELECT 2", "Pick a number")
	assert.Contains(t, p, "Question:\nPick a number\n\nStudent's SQL:\n```sql\nSELECT 1\n```\n\nCorrect SQL:\n```sql\nSELECT 2\n```")
	assert.Contains(t, p, "**Score**: Rate from 0-100")
	assert.True(t, strings.HasSuffix(p, "Be encouraging but accurate."))
}
