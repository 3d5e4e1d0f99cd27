package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordtrainer/pkg/models"
)

func newWord(key string) models.Word {
	return models.Word{
		Key:          key,
		Meaning:      "meaning of " + key,
		EaseFactor:   models.DefaultEaseFactor,
		IntervalDays: models.DefaultIntervalDays,
	}
}

func TestReviewInvariants(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	// Out-of-range qualities are clamped, and the invariants hold for every
	// quality value.
	for q := QualityResponse(-3); q <= 8; q++ {
		w := newWord("apple")
		Review(&w, q, now)

		assert.GreaterOrEqual(t, w.IntervalDays, 1, "quality %d", q)
		assert.GreaterOrEqual(t, w.EaseFactor, models.MinEaseFactor, "quality %d", q)
		require.NotNil(t, w.LastReviewedAt)
		assert.Equal(t, now, *w.LastReviewedAt)
		assert.Equal(t, now.AddDate(0, 0, w.IntervalDays), w.DueDate)
	}
}

func TestReviewLapseResetsProgress(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tests := []struct {
		name    string
		quality QualityResponse
	}{
		{"blackout", QualityBlackout},
		{"incorrect", QualityIncorrect},
		{"incorrect but familiar", QualityIncorrectFamiliar},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := newWord("banana")
			w.Repetitions = 5
			w.IntervalDays = 42
			w.EaseFactor = 2.1

			Review(&w, tt.quality, now)

			assert.Equal(t, 0, w.Repetitions)
			assert.Equal(t, 1, w.IntervalDays)
			assert.Equal(t, models.MasteryNew, w.Mastery())
		})
	}
}

func TestReviewIntervalProgression(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	w := newWord("cat")

	// Three perfect reviews from a fresh word: 1, 6, round(6*EF) days.
	Review(&w, QualityPerfect, now)
	assert.Equal(t, 1, w.IntervalDays)
	assert.Equal(t, 1, w.Repetitions)

	Review(&w, QualityPerfect, now.AddDate(0, 0, 1))
	assert.Equal(t, 6, w.IntervalDays)
	assert.Equal(t, 2, w.Repetitions)

	Review(&w, QualityPerfect, now.AddDate(0, 0, 7))
	// EF grew by 0.1 per perfect review: 2.5 -> 2.6 -> 2.7 -> 2.8,
	// so the third interval is round(6*2.8) = 17.
	assert.Equal(t, 17, w.IntervalDays)
	assert.Equal(t, 3, w.Repetitions)
}

func TestReviewIntervalProgressionFixedEase(t *testing.T) {
	t.Parallel()

	// Quality 4 leaves the ease factor untouched, so the classic
	// 1 -> 6 -> round(6*2.5)=15 sequence applies.
	now := time.Now()
	w := newWord("dog")

	for _, want := range []int{1, 6, 15} {
		Review(&w, QualityCorrectHesitation, now)
		assert.Equal(t, want, w.IntervalDays)
		assert.InDelta(t, models.DefaultEaseFactor, w.EaseFactor, 1e-9)
	}
}

func TestReviewEaseFactorFloor(t *testing.T) {
	t.Parallel()

	now := time.Now()
	w := newWord("egg")
	w.EaseFactor = models.MinEaseFactor

	// Repeated blackouts must never push the ease factor below the floor.
	for i := 0; i < 5; i++ {
		Review(&w, QualityBlackout, now)
		assert.Equal(t, models.MinEaseFactor, w.EaseFactor)
	}
}

func TestMasteryDerivedFromRepetitions(t *testing.T) {
	t.Parallel()

	now := time.Now()
	w := newWord("fig")

	assert.Equal(t, models.MasteryNew, w.Mastery())

	Review(&w, QualityCorrectHesitation, now)
	assert.Equal(t, models.MasteryNew, w.Mastery())

	Review(&w, QualityCorrectHesitation, now)
	assert.Equal(t, models.MasteryLearning, w.Mastery())

	for i := 0; i < 4; i++ {
		Review(&w, QualityCorrectHesitation, now)
	}
	assert.Equal(t, models.MasteryMastered, w.Mastery())
}

func TestDuePool(t *testing.T) {
	t.Parallel()

	now := time.Now()
	due := newWord("alpha")
	due.DueDate = now.Add(-time.Hour)
	future := newWord("beta")
	future.DueDate = now.Add(48 * time.Hour)
	dup := due

	pool := DuePool([]models.Word{due, future, dup}, now)

	require.Len(t, pool, 1)
	assert.Equal(t, "alpha", pool[0].Key)
}

func TestMixedPoolIncludesNewWords(t *testing.T) {
	t.Parallel()

	now := time.Now()

	fresh := newWord("gamma") // never studied, not yet due
	fresh.DueDate = now.Add(24 * time.Hour)

	studied := newWord("delta") // learning, not due
	studied.Repetitions = 3
	studied.DueDate = now.Add(24 * time.Hour)

	overdue := newWord("epsilon")
	overdue.Repetitions = 3
	overdue.DueDate = now.Add(-24 * time.Hour)

	pool := MixedPool([]models.Word{fresh, studied, overdue}, now)

	keys := make([]string, 0, len(pool))
	for _, w := range pool {
		keys = append(keys, w.Key)
	}
	assert.ElementsMatch(t, []string{"gamma", "epsilon"}, keys)
}

func TestSessionCap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goal string
		in   int
		want int
	}{
		{"small goal clamps up", 10, 30},
		{"mid goal doubles", 25, 50},
		{"large goal clamps down", 100, 80},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SessionCap(tt.in), tt.goal)
	}
}
