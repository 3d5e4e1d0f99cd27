package models

import (
	"strings"
	"time"
)

// Level tags a word with the vocabulary tier it belongs to
type Level string

const (
	LevelTier4 Level = "tier4"
	LevelTier6 Level = "tier6"
)

// Mastery is the derived learning state of a word
type Mastery string

const (
	MasteryNew      Mastery = "new"
	MasteryLearning Mastery = "learning"
	MasteryMastered Mastery = "mastered"
)

// SM-2 defaults for a word that has never been reviewed
const (
	DefaultEaseFactor   = 2.5
	MinEaseFactor       = 1.3
	DefaultIntervalDays = 1
)

// Word represents a vocabulary entry together with its SM-2 scheduling state.
// Key is the term itself, always stored lowercase. The SM-2 fields are mutated
// only by the spaced_repetition package.
type Word struct {
	Key            string     `json:"key" db:"key"`
	Phonetic       string     `json:"phonetic" db:"phonetic"`
	Meaning        string     `json:"meaning" db:"meaning"`
	Example        string     `json:"example" db:"example"`
	Level          Level      `json:"level" db:"level"`
	Favorite       bool       `json:"favorite" db:"favorite"`
	EaseFactor     float64    `json:"ease_factor" db:"ease_factor"`
	IntervalDays   int        `json:"interval_days" db:"interval_days"`
	Repetitions    int        `json:"repetitions" db:"repetitions"`
	DueDate        time.Time  `json:"due_date" db:"due_date"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// NormalizeKey lowercases and trims a term for use as a word key
func NormalizeKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Mastery derives the learning state from the repetition count. It is never
// stored independently, so it cannot drift from Repetitions.
func (w *Word) Mastery() Mastery {
	switch {
	case w.Repetitions >= 6:
		return MasteryMastered
	case w.Repetitions >= 2:
		return MasteryLearning
	default:
		return MasteryNew
	}
}

// IsDue reports whether the word is eligible for review at the given time
func (w *Word) IsDue(now time.Time) bool {
	return !w.DueDate.After(now)
}

// ResetProgress returns the SM-2 fields to their defaults. The word itself
// survives a full progress reset, only its scheduling state is cleared.
func (w *Word) ResetProgress(now time.Time) {
	w.EaseFactor = DefaultEaseFactor
	w.IntervalDays = DefaultIntervalDays
	w.Repetitions = 0
	w.DueDate = now
	w.LastReviewedAt = nil
	w.Favorite = false
}
