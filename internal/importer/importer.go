// Package importer loads vocabulary seed files into the word store. Imports
// are idempotent: existing entries get their content fields refreshed while
// their SM-2 progress is preserved, new entries are inserted with defaults.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/example/wordtrainer/pkg/models"
)

// ErrSeedSourceMissing signals that the seed file does not exist. Fatal on
// first run (there would be nothing to learn), recoverable by retry.
var ErrSeedSourceMissing = errors.New("importer: seed source missing")

// WordStore is the slice of the word repository the importer needs
type WordStore interface {
	GetByKey(key string) (*models.Word, error)
	Create(word *models.Word) error
	UpdateContent(word *models.Word) error
}

// SeedWord is one entry of a seed file before it becomes a Word
type SeedWord struct {
	Term     string `json:"word"`
	Phonetic string `json:"phonetic"`
	Meaning  string `json:"meaning"`
	Example  string `json:"example"`
	Tier     string `json:"tier"`
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
	Errors    []string
}

// Importer reads seed files and upserts their words
type Importer struct {
	words WordStore
	log   *zap.Logger
}

// New creates an importer writing through the given store
func New(words WordStore, log *zap.Logger) *Importer {
	return &Importer{words: words, log: log}
}

// ImportFile dispatches on the file extension: .xlsx, .csv or .json
func (im *Importer) ImportFile(path string) (*ImportResult, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSeedSourceMissing, path)
		}
		return nil, fmt.Errorf("failed to stat seed file: %w", err)
	}

	var (
		seeds []SeedWord
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		seeds, err = readJSON(path)
	case ".csv":
		seeds, err = readCSV(path)
	default:
		seeds, err = readExcel(path)
	}
	if err != nil {
		return nil, err
	}

	result := im.importSeeds(seeds)
	im.log.Info("seed import finished",
		zap.String("path", path),
		zap.Int("processed", result.Processed),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// importSeeds upserts each seed entry, keyed by the lowercased term
func (im *Importer) importSeeds(seeds []SeedWord) *ImportResult {
	result := &ImportResult{Errors: make([]string, 0)}

	for i, seed := range seeds {
		result.Processed++

		key := models.NormalizeKey(seed.Term)
		if key == "" || strings.TrimSpace(seed.Meaning) == "" {
			result.Skipped++
			continue
		}

		existing, err := im.words.GetByKey(key)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i+1, key, err))
			continue
		}

		if existing != nil {
			// Refresh content only; progress fields stay as they are.
			existing.Phonetic = seed.Phonetic
			existing.Meaning = strings.TrimSpace(seed.Meaning)
			existing.Example = strings.TrimSpace(seed.Example)
			existing.Level = parseLevel(seed.Tier)
			if err := im.words.UpdateContent(existing); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i+1, key, err))
				continue
			}
			result.Updated++
			continue
		}

		word := &models.Word{
			Key:      key,
			Phonetic: seed.Phonetic,
			Meaning:  strings.TrimSpace(seed.Meaning),
			Example:  strings.TrimSpace(seed.Example),
			Level:    parseLevel(seed.Tier),
		}
		if err := im.words.Create(word); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (%s): %v", i+1, key, err))
			continue
		}
		result.Created++
	}

	return result
}

// parseLevel maps a seed tier tag onto the level enum, defaulting to tier4
func parseLevel(tier string) models.Level {
	if strings.Contains(tier, "6") {
		return models.LevelTier6
	}
	return models.LevelTier4
}

func readJSON(path string) ([]SeedWord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seeds []SeedWord
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seed JSON: %w", err)
	}
	return seeds, nil
}

// readCSV expects term,phonetic,meaning,example,level columns with a header
func readCSV(path string) ([]SeedWord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // allow ragged rows
	reader.LazyQuotes = true

	var seeds []SeedWord
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rowNum++
		if rowNum == 1 {
			continue // header
		}
		seeds = append(seeds, seedFromRow(row))
	}
	return seeds, nil
}

// readExcel expects the same columns on the first sheet, header in row 1
func readExcel(path string) ([]SeedWord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	var seeds []SeedWord
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		seeds = append(seeds, seedFromRow(row))
	}
	return seeds, nil
}

func seedFromRow(row []string) SeedWord {
	var seed SeedWord
	if len(row) > 0 {
		seed.Term = row[0]
	}
	if len(row) > 1 {
		seed.Phonetic = row[1]
	}
	if len(row) > 2 {
		seed.Meaning = row[2]
	}
	if len(row) > 3 {
		seed.Example = row[3]
	}
	if len(row) > 4 {
		seed.Tier = row[4]
	}
	return seed
}
