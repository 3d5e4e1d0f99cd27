package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordtrainer/pkg/models"
)

// WordRepository handles database operations for words
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// GetAll returns all words
func (r *WordRepository) GetAll() ([]models.Word, error) {
	var words []models.Word
	err := r.db.Select(&words, "SELECT * FROM words ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return words, nil
}

// GetByKey returns a word by its normalized key, or nil when absent
func (r *WordRepository) GetByKey(key string) (*models.Word, error) {
	var word models.Word
	query := r.db.Rebind("SELECT * FROM words WHERE key = ?")
	err := r.db.Get(&word, query, models.NormalizeKey(key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word by key: %w", err)
	}
	return &word, nil
}

// GetFavorites returns all favorited words
func (r *WordRepository) GetFavorites() ([]models.Word, error) {
	var words []models.Word
	query := r.db.Rebind("SELECT * FROM words WHERE favorite = ? ORDER BY key")
	err := r.db.Select(&words, query, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite words: %w", err)
	}
	return words, nil
}

// Create inserts a new word with default SM-2 state
func (r *WordRepository) Create(word *models.Word) error {
	word.Key = models.NormalizeKey(word.Key)
	if word.CreatedAt.IsZero() {
		word.CreatedAt = time.Now()
	}
	if word.DueDate.IsZero() {
		word.DueDate = word.CreatedAt
	}
	if word.EaseFactor == 0 {
		word.EaseFactor = models.DefaultEaseFactor
	}
	if word.IntervalDays == 0 {
		word.IntervalDays = models.DefaultIntervalDays
	}

	query := r.db.Rebind(`
		INSERT INTO words (key, phonetic, meaning, example, level, favorite,
			ease_factor, interval_days, repetitions, due_date, last_reviewed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.Exec(query,
		word.Key,
		word.Phonetic,
		word.Meaning,
		word.Example,
		word.Level,
		word.Favorite,
		word.EaseFactor,
		word.IntervalDays,
		word.Repetitions,
		word.DueDate,
		word.LastReviewedAt,
		word.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %w", err)
	}
	return nil
}

// UpdateContent replaces the content fields of an existing word, leaving the
// SM-2 progress untouched. Used by the idempotent seed import.
func (r *WordRepository) UpdateContent(word *models.Word) error {
	query := r.db.Rebind(`
		UPDATE words SET phonetic = ?, meaning = ?, example = ?, level = ?
		WHERE key = ?
	`)
	_, err := r.db.Exec(query,
		word.Phonetic,
		word.Meaning,
		word.Example,
		word.Level,
		models.NormalizeKey(word.Key),
	)
	if err != nil {
		return fmt.Errorf("failed to update word content: %w", err)
	}
	return nil
}

// SaveProgress persists the SM-2 and favorite state after a review
func (r *WordRepository) SaveProgress(word *models.Word) error {
	query := r.db.Rebind(`
		UPDATE words SET favorite = ?, ease_factor = ?, interval_days = ?,
			repetitions = ?, due_date = ?, last_reviewed_at = ?
		WHERE key = ?
	`)
	_, err := r.db.Exec(query,
		word.Favorite,
		word.EaseFactor,
		word.IntervalDays,
		word.Repetitions,
		word.DueDate,
		word.LastReviewedAt,
		word.Key,
	)
	if err != nil {
		return fmt.Errorf("failed to save word progress: %w", err)
	}
	return nil
}

// ResetAllProgress returns every word to its default SM-2 state. The words
// themselves survive a full progress reset.
func (r *WordRepository) ResetAllProgress(now time.Time) error {
	query := r.db.Rebind(`
		UPDATE words SET favorite = ?, ease_factor = ?, interval_days = ?,
			repetitions = 0, due_date = ?, last_reviewed_at = NULL
	`)
	_, err := r.db.Exec(query, false, models.DefaultEaseFactor, models.DefaultIntervalDays, now)
	if err != nil {
		return fmt.Errorf("failed to reset word progress: %w", err)
	}
	return nil
}

// Count returns the number of words in the store
func (r *WordRepository) Count() (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM words")
	if err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}
