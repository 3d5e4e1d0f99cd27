package practice

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordtrainer/pkg/models"
)

func duePool(n int, now time.Time) []models.Word {
	pool := testPool(n)
	for i := range pool {
		pool[i].DueDate = now.Add(-time.Hour)
	}
	return pool
}

func TestFlashcardSessionEmptyPoolIsIdle(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rng := rand.New(rand.NewSource(1))

	s := NewFlashcardSession(nil, FlashcardMixed, 20, rng, now)
	assert.Equal(t, FlashcardIdle, s.State())

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestFlashcardSessionRatingFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(2))
	s := NewFlashcardSession(duePool(3, now), FlashcardMixed, 20, rng, now)
	require.Equal(t, FlashcardActive, s.State())

	first, ok := s.Current()
	require.True(t, ok)
	s.RateKnown(now)

	second, ok := s.Current()
	require.True(t, ok)
	assert.NotEqual(t, first.Key, second.Key)
	s.RateUnknown(now)

	s.RateKnown(now)
	assert.Equal(t, FlashcardIdle, s.State())

	records := s.Records()
	require.Len(t, records, 3)
	// Never-reviewed cards log learn events.
	assert.Equal(t, models.ModeLearn, records[0].Mode)
	assert.True(t, records[0].Correct)
	assert.False(t, records[1].Correct)

	updated := s.UpdatedWords()
	require.Len(t, updated, 3)
	known := 0
	for _, w := range updated {
		if w.Repetitions == 1 {
			known++
		} else {
			assert.Equal(t, 0, w.Repetitions)
		}
	}
	assert.Equal(t, 2, known)
}

func TestFlashcardSessionReviewModeForStudiedWords(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rng := rand.New(rand.NewSource(3))

	reviewed := now.Add(-48 * time.Hour)
	pool := duePool(1, now)
	pool[0].Repetitions = 3
	pool[0].LastReviewedAt = &reviewed

	s := NewFlashcardSession(pool, FlashcardReviewOnly, 20, rng, now)
	s.RateKnown(now)

	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, models.ModeReview, records[0].Mode)
}

func TestFlashcardSessionReviewOnlyExcludesNewWords(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rng := rand.New(rand.NewSource(4))

	fresh := testPool(1)
	fresh[0].DueDate = now.Add(24 * time.Hour) // new but not due

	s := NewFlashcardSession(fresh, FlashcardReviewOnly, 20, rng, now)
	assert.Equal(t, FlashcardIdle, s.State())

	mixed := NewFlashcardSession(fresh, FlashcardMixed, 20, rng, now)
	assert.Equal(t, FlashcardActive, mixed.State())
}

func TestFlashcardSessionCap(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rng := rand.New(rand.NewSource(5))

	s := NewFlashcardSession(duePool(90, now), FlashcardMixed, 10, rng, now)
	_, total := s.Progress()
	assert.Equal(t, 30, total, "daily goal 10 caps the session at 30 cards")
}

func TestFlashcardSessionToggleFavorite(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rng := rand.New(rand.NewSource(6))
	s := NewFlashcardSession(duePool(2, now), FlashcardMixed, 20, rng, now)

	card, _ := s.Current()
	assert.False(t, card.Favorite)

	assert.True(t, s.ToggleFavorite())
	assert.False(t, s.ToggleFavorite())
	assert.True(t, s.ToggleFavorite())

	// Favoriting does not advance, grade or schedule anything.
	current, _ := s.Current()
	assert.Equal(t, card.Key, current.Key)
	assert.Empty(t, s.Records())
	assert.Equal(t, 0, current.Repetitions)

	updated := s.UpdatedWords()
	require.Len(t, updated, 1)
	assert.True(t, updated[0].Favorite)
}
