package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/wordtrainer/pkg/models"
)

// fakeStore is an in-memory WordStore for importer tests
type fakeStore struct {
	words   map[string]*models.Word
	created int
	updated int
}

func newFakeStore() *fakeStore {
	return &fakeStore{words: map[string]*models.Word{}}
}

func (s *fakeStore) GetByKey(key string) (*models.Word, error) {
	if w, ok := s.words[models.NormalizeKey(key)]; ok {
		clone := *w
		return &clone, nil
	}
	return nil, nil
}

func (s *fakeStore) Create(word *models.Word) error {
	w := *word
	s.words[w.Key] = &w
	s.created++
	return nil
}

func (s *fakeStore) UpdateContent(word *models.Word) error {
	existing := s.words[models.NormalizeKey(word.Key)]
	existing.Phonetic = word.Phonetic
	existing.Meaning = word.Meaning
	existing.Example = word.Example
	existing.Level = word.Level
	s.updated++
	return nil
}

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportFileMissingSource(t *testing.T) {
	t.Parallel()

	im := New(newFakeStore(), zap.NewNop())
	_, err := im.ImportFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrSeedSourceMissing)
}

func TestImportJSONSeed(t *testing.T) {
	t.Parallel()

	seed := `[
		{"word": "Abandon", "phonetic": "/əˈbæn.dən/", "meaning": "to leave behind", "tier": "4", "example": "He abandoned the car."},
		{"word": "meticulous", "phonetic": "", "meaning": "very careful", "tier": "6", "example": ""},
		{"word": "", "meaning": "orphan meaning"},
		{"word": "nomeaning", "meaning": "  "}
	]`
	path := writeSeed(t, "seed.json", seed)

	store := newFakeStore()
	im := New(store, zap.NewNop())

	result, err := im.ImportFile(path)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Processed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, result.Errors)

	// Keys are lowercased on import.
	w, _ := store.GetByKey("abandon")
	require.NotNil(t, w)
	assert.Equal(t, "to leave behind", w.Meaning)
	assert.Equal(t, models.LevelTier4, w.Level)

	w, _ = store.GetByKey("meticulous")
	require.NotNil(t, w)
	assert.Equal(t, models.LevelTier6, w.Level)
}

func TestImportIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	im := New(store, zap.NewNop())

	first := writeSeed(t, "v1.json", `[{"word": "apple", "meaning": "a fruit", "tier": "4"}]`)
	_, err := im.ImportFile(first)
	require.NoError(t, err)

	// Accumulate some progress between imports.
	store.words["apple"].Repetitions = 5
	store.words["apple"].EaseFactor = 2.0

	second := writeSeed(t, "v2.json", `[{"word": "apple", "meaning": "a round fruit", "tier": "4"}]`)
	result, err := im.ImportFile(second)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Zero(t, result.Created)

	// Content refreshed, progress preserved.
	w := store.words["apple"]
	assert.Equal(t, "a round fruit", w.Meaning)
	assert.Equal(t, 5, w.Repetitions)
	assert.InDelta(t, 2.0, w.EaseFactor, 1e-9)
}

func TestImportCSVSeed(t *testing.T) {
	t.Parallel()

	csvContent := "term,phonetic,meaning,example,level\n" +
		"ubiquitous,/juːˈbɪk.wɪ.təs/,found everywhere,Smartphones are ubiquitous.,6\n" +
		"window,,an opening in a wall,,4\n"
	path := writeSeed(t, "seed.csv", csvContent)

	store := newFakeStore()
	im := New(store, zap.NewNop())

	result, err := im.ImportFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Created)

	w, _ := store.GetByKey("ubiquitous")
	require.NotNil(t, w)
	assert.Equal(t, models.LevelTier6, w.Level)
	assert.Equal(t, "Smartphones are ubiquitous.", w.Example)
}
