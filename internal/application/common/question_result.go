package common

import "time"

type QuestionResult struct {
	Id           int64     `json:"id"`
	Title        string    `json:"title"`
	DisplayTitle string    `json:"display_title"`
	Content      string    `json:"content"`
	Answer       string    `json:"answer"`
	Tags         []string  `json:"tags"`
	SavedCount   int64     `json:"saved_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// SearchHitResult is a question matched by search, with a short excerpt
// around the first matching keyword.
type SearchHitResult struct {
	*QuestionResult
	Snippet string `json:"snippet"`
}
