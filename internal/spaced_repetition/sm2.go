package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/wordtrainer/pkg/models"
)

// PassThreshold is the lowest quality counted as a successful recall
const PassThreshold = 3

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// Review applies the SM-2 algorithm to a word in place and reschedules it.
// Out-of-range quality is clamped to [0,5], never rejected; the function
// always succeeds. The caller is responsible for persisting the word.
func Review(w *models.Word, quality QualityResponse, now time.Time) {
	if quality < QualityBlackout {
		quality = QualityBlackout
	}
	if quality > QualityPerfect {
		quality = QualityPerfect
	}

	// Classic SM-2 easiness adjustment, applied on every review regardless
	// of pass/fail, floored so intervals keep growing.
	q := float64(quality)
	ef := w.EaseFactor + (0.1 - (5.0-q)*(0.08+(5.0-q)*0.02))
	if ef < models.MinEaseFactor {
		ef = models.MinEaseFactor
	}
	w.EaseFactor = ef

	if quality < PassThreshold {
		// Lapse: restart learning from scratch
		w.Repetitions = 0
		w.IntervalDays = 1
	} else {
		w.Repetitions++
		switch w.Repetitions {
		case 1:
			w.IntervalDays = 1
		case 2:
			w.IntervalDays = 6
		default:
			next := int(math.Round(float64(w.IntervalDays) * w.EaseFactor))
			if next < 1 {
				next = 1
			}
			w.IntervalDays = next
		}
	}

	w.DueDate = now.AddDate(0, 0, w.IntervalDays)
	reviewed := now
	w.LastReviewedAt = &reviewed
}

// DuePool returns the words eligible for review (due date reached),
// deduplicated by key. Input order is preserved.
func DuePool(words []models.Word, now time.Time) []models.Word {
	seen := make(map[string]bool, len(words))
	var pool []models.Word
	for _, w := range words {
		if seen[w.Key] || !w.IsDue(now) {
			continue
		}
		seen[w.Key] = true
		pool = append(pool, w)
	}
	return pool
}

// MixedPool returns the union of due words and never-studied words,
// deduplicated by key, for mixed learn/review sessions.
func MixedPool(words []models.Word, now time.Time) []models.Word {
	seen := make(map[string]bool, len(words))
	var pool []models.Word
	for _, w := range words {
		if seen[w.Key] {
			continue
		}
		if w.IsDue(now) || w.Mastery() == models.MasteryNew {
			seen[w.Key] = true
			pool = append(pool, w)
		}
	}
	return pool
}

// Flashcard session size bounds derived from the daily goal
const (
	minSessionCap = 30
	maxSessionCap = 80
)

// SessionCap converts the daily goal into a flashcard session size,
// clamped to [30,80]
func SessionCap(dailyGoal int) int {
	size := dailyGoal * 2
	if size < minSessionCap {
		size = minSessionCap
	}
	if size > maxSessionCap {
		size = maxSessionCap
	}
	return size
}
