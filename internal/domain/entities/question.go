package entities

import (
	"strings"
	"time"
	"unicode/utf8"
)

const fallbackTitleRunes = 50

type Question struct {
	ID         int64
	Title      string
	Content    string
	Answer     string
	Tags       []string
	UserID     *int64
	SavedCount int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Question) DisplayTitle() string {
	if t := strings.TrimSpace(q.Title); t != "" {
		return t
	}
	return ExtractTitle(q.Content)
}

// ExtractTitle derives a title from markdown: the first heading line with
// its leading #s removed, else the first 50 characters of the text.
func ExtractTitle(md string) string {
	if md == "" {
		return "Untitled"
	}
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	if utf8.RuneCountInString(md) <= fallbackTitleRunes {
		return md
	}
	return string([]rune(md)[:fallbackTitleRunes]) + "..."
}
