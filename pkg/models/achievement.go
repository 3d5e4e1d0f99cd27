package models

import "time"

// AchievementUnlock records that a named achievement has fired. At most one
// unlock ever exists per key.
type AchievementUnlock struct {
	Key        string    `json:"key" db:"key"`
	UnlockedAt time.Time `json:"unlocked_at" db:"unlocked_at"`
}
