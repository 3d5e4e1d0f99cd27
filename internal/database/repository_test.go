package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordtrainer/pkg/models"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWordRepositoryRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewWordRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	word := &models.Word{
		Key:      "Apple", // stored lowercase
		Phonetic: "/ˈæp.əl/",
		Meaning:  "a round fruit",
		Example:  "She ate an apple.",
		Level:    models.LevelTier4,
		DueDate:  now,
	}
	require.NoError(t, repo.Create(word))
	assert.Equal(t, "apple", word.Key)

	got, err := repo.GetByKey("APPLE")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a round fruit", got.Meaning)
	assert.Equal(t, models.DefaultEaseFactor, got.EaseFactor)
	assert.Equal(t, models.DefaultIntervalDays, got.IntervalDays)
	assert.Nil(t, got.LastReviewedAt)

	missing, err := repo.GetByKey("pear")
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWordRepositoryUpdateContentPreservesProgress(t *testing.T) {
	db := testDB(t)
	repo := NewWordRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	word := &models.Word{Key: "banana", Meaning: "old meaning", DueDate: now}
	require.NoError(t, repo.Create(word))

	// Simulate accumulated progress.
	word.Repetitions = 4
	word.EaseFactor = 2.1
	word.IntervalDays = 12
	word.LastReviewedAt = &now
	require.NoError(t, repo.SaveProgress(word))

	// A re-import only touches content fields.
	word.Meaning = "new meaning"
	word.Phonetic = "/bəˈnɑː.nə/"
	require.NoError(t, repo.UpdateContent(word))

	got, err := repo.GetByKey("banana")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new meaning", got.Meaning)
	assert.Equal(t, 4, got.Repetitions)
	assert.Equal(t, 12, got.IntervalDays)
	assert.InDelta(t, 2.1, got.EaseFactor, 1e-9)
	require.NotNil(t, got.LastReviewedAt)
}

func TestWordRepositoryResetAllProgress(t *testing.T) {
	db := testDB(t)
	repo := NewWordRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	word := &models.Word{Key: "cherry", Meaning: "a small fruit", DueDate: now}
	require.NoError(t, repo.Create(word))

	word.Repetitions = 7
	word.Favorite = true
	word.LastReviewedAt = &now
	require.NoError(t, repo.SaveProgress(word))

	require.NoError(t, repo.ResetAllProgress(now))

	got, err := repo.GetByKey("cherry")
	require.NoError(t, err)
	require.NotNil(t, got)
	// The entity survives, its progress does not.
	assert.Equal(t, "a small fruit", got.Meaning)
	assert.Equal(t, 0, got.Repetitions)
	assert.False(t, got.Favorite)
	assert.Nil(t, got.LastReviewedAt)
	assert.Equal(t, models.MasteryNew, got.Mastery())
}

func TestRecordRepository(t *testing.T) {
	db := testDB(t)
	repo := NewRecordRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	batch := []models.StudyRecord{
		{WordKey: "apple", Mode: models.ModeLearn, Correct: true, Timestamp: now.Add(-time.Minute)},
		{WordKey: "apple", Mode: models.ModeTest, Correct: false, DurationSeconds: 9, Timestamp: now},
	}
	require.NoError(t, repo.CreateBatch(batch))

	records, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Oldest first, IDs assigned on insert.
	assert.Equal(t, models.ModeLearn, records[0].Mode)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, 9, records[1].DurationSeconds)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.DeleteAll())
	count, err = repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAchievementRepositoryIdempotentUnlock(t *testing.T) {
	db := testDB(t)
	repo := NewAchievementRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	unlock := &models.AchievementUnlock{Key: "first_study", UnlockedAt: now}
	require.NoError(t, repo.Create(unlock))

	// A retried save of the same key must not duplicate the unlock.
	later := &models.AchievementUnlock{Key: "first_study", UnlockedAt: now.Add(time.Hour)}
	require.NoError(t, repo.Create(later))

	unlocks, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	assert.Equal(t, "first_study", unlocks[0].Key)
}

func TestSettingsRepository(t *testing.T) {
	db := testDB(t)
	repo := NewSettingsRepository(db)

	// Defaults before anything is saved.
	s, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	// Out-of-range values are clamped on write, never stored out of range.
	s.DailyGoal = 500
	s.QuestionCount = 1
	s.ReminderHour = 20
	require.NoError(t, repo.Save(s))

	got, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, models.MaxDailyGoal, got.DailyGoal)
	assert.Equal(t, models.MinQuestionCount, got.QuestionCount)
	assert.Equal(t, 20, got.ReminderHour)

	// Saving again overwrites the singleton row.
	got.DailyGoal = 50
	require.NoError(t, repo.Save(got))
	again, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, 50, again.DailyGoal)
}
