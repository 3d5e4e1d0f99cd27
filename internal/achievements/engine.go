// Package achievements evaluates unlock conditions over the word, record and
// unlock history. Definitions are scanned in a fixed order and at most one
// achievement unlocks per evaluation; callers loop until no key is returned.
package achievements

import (
	"time"

	"github.com/example/wordtrainer/internal/analytics"
	"github.com/example/wordtrainer/pkg/models"
)

// SessionResult carries the latest quiz outcome into an evaluation. Nil when
// the evaluation is not triggered by a finished session.
type SessionResult struct {
	Correct int
	Total   int
}

// Input is everything an evaluation reads. The engine holds no state of its
// own between calls.
type Input struct {
	Words    []models.Word
	Records  []models.StudyRecord
	Unlocked []models.AchievementUnlock
	Session  *SessionResult
	Now      time.Time
}

// Definition pairs an achievement key with its unlock predicate
type Definition struct {
	Key         string
	Title       string
	Description string
	satisfied   func(in Input) bool
}

// Definitions is the fixed, ordered achievement list. Order matters: the
// first newly-satisfied definition wins an evaluation.
var Definitions = []Definition{
	{
		Key:         "first_study",
		Title:       "First Steps",
		Description: "Complete your first study session",
		satisfied: func(in Input) bool {
			return len(in.Records) > 0
		},
	},
	{
		Key:         "streak_7",
		Title:       "One Week Streak",
		Description: "Study 7 days in a row",
		satisfied: func(in Input) bool {
			return analytics.StreakDays(in.Records, in.Now) >= 7
		},
	},
	{
		Key:         "mastered_100",
		Title:       "Century Club",
		Description: "Master 100 words",
		satisfied: func(in Input) bool {
			return analytics.MasteredCount(in.Words) >= 100
		},
	},
	{
		Key:         "review_200",
		Title:       "Diligent Reviewer",
		Description: "Log 200 study events",
		satisfied: func(in Input) bool {
			return len(in.Records) >= 200
		},
	},
	{
		Key:         "perfect_10",
		Title:       "Perfect Ten",
		Description: "Score 10/10 in a quiz",
		satisfied: func(in Input) bool {
			return in.Session != nil && in.Session.Total == 10 && in.Session.Correct == 10
		},
	},
}

// Lookup returns the definition for a key, or false if none exists
func Lookup(key string) (Definition, bool) {
	for _, def := range Definitions {
		if def.Key == key {
			return def, true
		}
	}
	return Definition{}, false
}

// Evaluate scans the definitions in order, skipping already-unlocked keys,
// and returns the first newly-satisfied one. The empty string means nothing
// new unlocked. Unlocking is idempotent: a key present in Input.Unlocked is
// never returned again.
func Evaluate(in Input) string {
	unlocked := make(map[string]bool, len(in.Unlocked))
	for _, u := range in.Unlocked {
		unlocked[u.Key] = true
	}

	for _, def := range Definitions {
		if unlocked[def.Key] {
			continue
		}
		if def.satisfied(in) {
			return def.Key
		}
	}
	return ""
}
