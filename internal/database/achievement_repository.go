package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordtrainer/pkg/models"
)

// AchievementRepository handles database operations for achievement unlocks
type AchievementRepository struct {
	db *sqlx.DB
}

// NewAchievementRepository creates a new repository instance
func NewAchievementRepository(db *sqlx.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// GetAll returns every unlocked achievement, oldest first
func (r *AchievementRepository) GetAll() ([]models.AchievementUnlock, error) {
	var unlocks []models.AchievementUnlock
	err := r.db.Select(&unlocks, "SELECT * FROM achievements ORDER BY unlocked_at")
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	return unlocks, nil
}

// Create records an unlock. The key is the primary key, so a retried save of
// the same unlock is a no-op rather than a duplicate.
func (r *AchievementRepository) Create(unlock *models.AchievementUnlock) error {
	query := r.db.Rebind(`
		INSERT INTO achievements (key, unlocked_at)
		VALUES (?, ?)
		ON CONFLICT (key) DO NOTHING
	`)
	_, err := r.db.Exec(query, unlock.Key, unlock.UnlockedAt)
	if err != nil {
		return fmt.Errorf("failed to create achievement unlock: %w", err)
	}
	return nil
}

// DeleteAll removes every unlock; used only by a full progress reset
func (r *AchievementRepository) DeleteAll() error {
	if _, err := r.db.Exec("DELETE FROM achievements"); err != nil {
		return fmt.Errorf("failed to delete achievements: %w", err)
	}
	return nil
}
