package entities

import (
	"strings"
	"time"
)

const unnamedTopic = "Unnamed Bank"

type Bank struct {
	ID             int64
	Title          string
	Topic          string
	Description    string
	UserID         *int64
	TotalQuestions int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayTopic is the grouping key used on the home page.
func (b *Bank) DisplayTopic() string {
	if t := strings.TrimSpace(b.Topic); t != "" {
		return t
	}
	return unnamedTopic
}
