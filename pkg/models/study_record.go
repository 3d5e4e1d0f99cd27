package models

import "time"

// StudyMode classifies what kind of interaction produced a record
type StudyMode string

const (
	ModeLearn  StudyMode = "learn"
	ModeReview StudyMode = "review"
	ModeTest   StudyMode = "test"
)

// StudyRecord is an immutable log entry for one graded interaction. Records
// are appended once and never mutated; they reference the word by key only.
type StudyRecord struct {
	ID              string    `json:"id" db:"id"`
	WordKey         string    `json:"word_key" db:"word_key"`
	Mode            StudyMode `json:"mode" db:"mode"`
	Correct         bool      `json:"correct" db:"correct"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`
	Timestamp       time.Time `json:"timestamp" db:"timestamp"`
}
