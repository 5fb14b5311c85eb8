package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"join", "group", "by"}, tokenize("  join, group by，join "))
	assert.Empty(t, tokenize("   "))
	assert.Equal(t, []string{"窗口函数"}, tokenize("窗口函数"))
}

func TestMakeSnippet(t *testing.T) {
	text := strings.Repeat("a", 100) + "MATCH" + strings.Repeat("b", 100)

	s := makeSnippet(text, []string{"match"})
	assert.Equal(t, "…"+strings.Repeat("a", 60)+"MATCH"+strings.Repeat("b", 60)+"…", s)

	assert.Equal(t, "short MATCH", makeSnippet("short MATCH", []string{"match"}))
	assert.Equal(t, strings.Repeat("x", 160), makeSnippet(strings.Repeat("x", 200), []string{"zzz"}))
	assert.Equal(t, "tiny", makeSnippet("tiny", nil))

	// the earliest match wins regardless of token order
	assert.Equal(t, "one two", makeSnippet("one two", []string{"two", "one"}))
}
