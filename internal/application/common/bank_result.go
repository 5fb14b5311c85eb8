package common

import "time"

type BankResult struct {
	Id             int64     `json:"id"`
	Title          string    `json:"title"`
	Topic          string    `json:"topic"`
	Description    string    `json:"description"`
	TotalQuestions int64     `json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
}

type BankGroupResult struct {
	Topic string        `json:"topic"`
	Banks []*BankResult `json:"banks"`
}
