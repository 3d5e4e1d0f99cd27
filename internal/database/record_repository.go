package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/wordtrainer/pkg/models"
)

// RecordRepository handles database operations for study records
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository creates a new repository instance
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create appends one immutable study record
func (r *RecordRepository) Create(rec *models.StudyRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	query := r.db.Rebind(`
		INSERT INTO study_records (id, word_key, mode, correct, duration_seconds, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.Exec(query,
		rec.ID,
		rec.WordKey,
		rec.Mode,
		rec.Correct,
		rec.DurationSeconds,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create study record: %w", err)
	}
	return nil
}

// CreateBatch appends the records produced by one finished session
func (r *RecordRepository) CreateBatch(records []models.StudyRecord) error {
	for i := range records {
		if err := r.Create(&records[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetAll returns the full record history, oldest first
func (r *RecordRepository) GetAll() ([]models.StudyRecord, error) {
	var records []models.StudyRecord
	err := r.db.Select(&records, "SELECT * FROM study_records ORDER BY timestamp")
	if err != nil {
		return nil, fmt.Errorf("failed to get study records: %w", err)
	}
	return records, nil
}

// Count returns the total number of study records
func (r *RecordRepository) Count() (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM study_records")
	if err != nil {
		return 0, fmt.Errorf("failed to count study records: %w", err)
	}
	return count, nil
}

// DeleteAll removes the whole history; used only by a full progress reset
func (r *RecordRepository) DeleteAll() error {
	if _, err := r.db.Exec("DELETE FROM study_records"); err != nil {
		return fmt.Errorf("failed to delete study records: %w", err)
	}
	return nil
}
