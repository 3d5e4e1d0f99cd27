package models

// Bounds applied to user-tunable settings on every write
const (
	MinDailyGoal     = 10
	MaxDailyGoal     = 100
	MinQuestionCount = 5
	MaxQuestionCount = 60
)

// Appearance selects the UI color scheme preference
type Appearance string

const (
	AppearanceSystem Appearance = "system"
	AppearanceLight  Appearance = "light"
	AppearanceDark   Appearance = "dark"
)

// Settings is the single user configuration record, identified by a fixed
// row key in the store. Out-of-range values are clamped on write, never
// stored out of range and never rejected.
type Settings struct {
	DailyGoal              int        `json:"daily_goal" db:"daily_goal"`
	ReminderEnabled        bool       `json:"reminder_enabled" db:"reminder_enabled"`
	ReminderHour           int        `json:"reminder_hour" db:"reminder_hour"`
	SoundEnabled           bool       `json:"sound_enabled" db:"sound_enabled"`
	HapticsEnabled         bool       `json:"haptics_enabled" db:"haptics_enabled"`
	AutoPlayEnabled        bool       `json:"auto_play_enabled" db:"auto_play_enabled"`
	Appearance             Appearance `json:"appearance" db:"appearance"`
	QuestionTimeoutSeconds int        `json:"question_timeout_seconds" db:"question_timeout_seconds"`
	QuestionCount          int        `json:"question_count" db:"question_count"`
}

// DefaultSettings returns the configuration used before the user changes anything
func DefaultSettings() Settings {
	return Settings{
		DailyGoal:              20,
		ReminderEnabled:        true,
		ReminderHour:           9,
		SoundEnabled:           true,
		HapticsEnabled:         true,
		AutoPlayEnabled:        false,
		Appearance:             AppearanceSystem,
		QuestionTimeoutSeconds: 15,
		QuestionCount:          10,
	}
}

// Normalize clamps all bounded fields into their valid ranges
func (s *Settings) Normalize() {
	s.DailyGoal = clampInt(s.DailyGoal, MinDailyGoal, MaxDailyGoal)
	s.QuestionCount = clampInt(s.QuestionCount, MinQuestionCount, MaxQuestionCount)
	s.ReminderHour = clampInt(s.ReminderHour, 0, 23)
	if s.QuestionTimeoutSeconds < 5 {
		s.QuestionTimeoutSeconds = 5
	}
	if s.Appearance == "" {
		s.Appearance = AppearanceSystem
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
