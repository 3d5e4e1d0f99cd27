package practice

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/example/wordtrainer/internal/spaced_repetition"
	"github.com/example/wordtrainer/pkg/models"
)

// FlashcardMode selects which words enter a flashcard session pool
type FlashcardMode string

const (
	// FlashcardMixed studies due words together with never-studied ones
	FlashcardMixed FlashcardMode = "mixed"
	// FlashcardReviewOnly studies due words only
	FlashcardReviewOnly FlashcardMode = "review_only"
)

// FlashcardState is the two-state lifecycle of a flashcard session
type FlashcardState string

const (
	FlashcardActive FlashcardState = "active"
	FlashcardIdle   FlashcardState = "idle"
)

// FlashcardSession is the open-ended card review flow: the learner flips
// through cards and rates each one known or unknown. Unlike a quiz there is
// no countdown and no grading, only self-assessment.
type FlashcardSession struct {
	state   FlashcardState
	cards   []models.Word
	index   int
	records []models.StudyRecord
	touched map[string]bool
}

// NewFlashcardSession builds the card pool for the given mode, shuffles it
// and caps it at the session size derived from the daily goal. An empty pool
// yields a session that is already idle, not an error.
func NewFlashcardSession(words []models.Word, mode FlashcardMode, dailyGoal int, rng *rand.Rand, now time.Time) *FlashcardSession {
	var pool []models.Word
	if mode == FlashcardReviewOnly {
		pool = spaced_repetition.DuePool(words, now)
	} else {
		pool = spaced_repetition.MixedPool(words, now)
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if max := spaced_repetition.SessionCap(dailyGoal); len(pool) > max {
		pool = pool[:max]
	}

	s := &FlashcardSession{
		state:   FlashcardActive,
		cards:   pool,
		touched: make(map[string]bool),
	}
	if len(pool) == 0 {
		s.state = FlashcardIdle
	}
	return s
}

// State returns the session lifecycle state
func (s *FlashcardSession) State() FlashcardState { return s.state }

// Current returns the card being shown, or false when the session is idle
func (s *FlashcardSession) Current() (models.Word, bool) {
	if s.state != FlashcardActive {
		return models.Word{}, false
	}
	return s.cards[s.index], true
}

// Progress returns how many cards have been rated and the session total
func (s *FlashcardSession) Progress() (done, total int) {
	return s.index, len(s.cards)
}

// RateKnown marks the current card as remembered (quality 4) and advances
func (s *FlashcardSession) RateKnown(now time.Time) {
	s.rate(spaced_repetition.QualityCorrectHesitation, true, now)
}

// RateUnknown marks the current card as forgotten (quality 1) and advances
func (s *FlashcardSession) RateUnknown(now time.Time) {
	s.rate(spaced_repetition.QualityIncorrect, false, now)
}

// ToggleFavorite flips the favorite flag on the current card without
// touching its schedule, and reports the new value
func (s *FlashcardSession) ToggleFavorite() bool {
	if s.state != FlashcardActive {
		return false
	}
	card := &s.cards[s.index]
	card.Favorite = !card.Favorite
	s.touched[card.Key] = true
	return card.Favorite
}

func (s *FlashcardSession) rate(quality spaced_repetition.QualityResponse, known bool, now time.Time) {
	if s.state != FlashcardActive {
		return
	}
	card := &s.cards[s.index]

	// First-ever exposure is a learn event, everything after that a review.
	mode := models.ModeReview
	if card.LastReviewedAt == nil {
		mode = models.ModeLearn
	}

	spaced_repetition.Review(card, quality, now)
	s.touched[card.Key] = true
	s.records = append(s.records, models.StudyRecord{
		ID:        uuid.NewString(),
		WordKey:   card.Key,
		Mode:      mode,
		Correct:   known,
		Timestamp: now,
	})

	s.index++
	if s.index >= len(s.cards) {
		s.state = FlashcardIdle
	}
}

// UpdatedWords returns the cards mutated during the session
func (s *FlashcardSession) UpdatedWords() []models.Word {
	var updated []models.Word
	for _, w := range s.cards {
		if s.touched[w.Key] {
			updated = append(updated, w)
		}
	}
	return updated
}

// Records returns the study records appended during the session
func (s *FlashcardSession) Records() []models.StudyRecord {
	return s.records
}
