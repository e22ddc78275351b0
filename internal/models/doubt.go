package models

import "time"

const (
	DoubtStatusOpen     = "open"
	DoubtStatusAnswered = "answered"
	DoubtStatusResolved = "resolved"
)

type Doubt struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Topic     *string   `json:"topic,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DoubtAnswer struct {
	ID        int64     `json:"id"`
	DoubtID   int64     `json:"doubt_id"`
	MentorID  int64     `json:"mentor_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type DoubtDetail struct {
	Doubt
	Answers []DoubtAnswer `json:"answers,omitempty"`
}
