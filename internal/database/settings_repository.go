package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordtrainer/pkg/models"
)

// settingsRowID is the fixed key of the singleton settings row
const settingsRowID = 1

// SettingsRepository handles database operations for the settings singleton
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings, or the defaults when nothing has been
// saved yet
func (r *SettingsRepository) Get() (models.Settings, error) {
	var s models.Settings
	query := r.db.Rebind(`
		SELECT daily_goal, reminder_enabled, reminder_hour, sound_enabled,
			haptics_enabled, auto_play_enabled, appearance,
			question_timeout_seconds, question_count
		FROM settings WHERE id = ?
	`)
	err := r.db.Get(&s, query, settingsRowID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	s.Normalize()
	return s, nil
}

// Save persists the settings, clamping bounded fields first so out-of-range
// values are never stored
func (r *SettingsRepository) Save(s models.Settings) error {
	s.Normalize()
	query := r.db.Rebind(`
		INSERT INTO settings (id, daily_goal, reminder_enabled, reminder_hour,
			sound_enabled, haptics_enabled, auto_play_enabled, appearance,
			question_timeout_seconds, question_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			daily_goal = excluded.daily_goal,
			reminder_enabled = excluded.reminder_enabled,
			reminder_hour = excluded.reminder_hour,
			sound_enabled = excluded.sound_enabled,
			haptics_enabled = excluded.haptics_enabled,
			auto_play_enabled = excluded.auto_play_enabled,
			appearance = excluded.appearance,
			question_timeout_seconds = excluded.question_timeout_seconds,
			question_count = excluded.question_count
	`)
	_, err := r.db.Exec(query,
		settingsRowID,
		s.DailyGoal,
		s.ReminderEnabled,
		s.ReminderHour,
		s.SoundEnabled,
		s.HapticsEnabled,
		s.AutoPlayEnabled,
		s.Appearance,
		s.QuestionTimeoutSeconds,
		s.QuestionCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
