// Package analytics aggregates study records into the counters shown on the
// statistics screen: daily totals, streaks and activity charts. All functions
// are pure; "day" means a calendar day in the location of the supplied time.
package analytics

import (
	"time"

	"github.com/example/wordtrainer/pkg/models"
)

// HeatmapDays is the fixed window of the calendar heatmap (12 weeks)
const HeatmapDays = 84

// DayBucket is one day of aggregated activity
type DayBucket struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// startOfDay truncates t to midnight in its own location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TodayCount returns how many records fall on the same calendar day as now
func TodayCount(records []models.StudyRecord, now time.Time) int {
	today := startOfDay(now)
	count := 0
	for _, r := range records {
		if startOfDay(r.Timestamp.In(now.Location())).Equal(today) {
			count++
		}
	}
	return count
}

// StreakDays walks backward from today counting consecutive calendar days
// with at least one record. A day with no records breaks the streak, so the
// result is 0 when today has no activity yet.
func StreakDays(records []models.StudyRecord, now time.Time) int {
	days := make(map[time.Time]bool, len(records))
	for _, r := range records {
		days[startOfDay(r.Timestamp.In(now.Location()))] = true
	}

	streak := 0
	day := startOfDay(now)
	for days[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LineStats buckets records into the trailing rangeDays calendar days,
// including today, oldest first. Days without records yield a zero bucket,
// never a gap in the series.
func LineStats(records []models.StudyRecord, rangeDays int, now time.Time) []DayBucket {
	if rangeDays <= 0 {
		return nil
	}

	counts := make(map[time.Time]int, len(records))
	for _, r := range records {
		counts[startOfDay(r.Timestamp.In(now.Location()))]++
	}

	buckets := make([]DayBucket, 0, rangeDays)
	first := startOfDay(now).AddDate(0, 0, -(rangeDays - 1))
	for i := 0; i < rangeDays; i++ {
		day := first.AddDate(0, 0, i)
		buckets = append(buckets, DayBucket{Date: day, Count: counts[day]})
	}
	return buckets
}

// HeatmapStats buckets records over the fixed heatmap window
func HeatmapStats(records []models.StudyRecord, now time.Time) []DayBucket {
	return LineStats(records, HeatmapDays, now)
}

// MasteredCount returns how many words are currently mastered
func MasteredCount(words []models.Word) int {
	count := 0
	for _, w := range words {
		if w.Mastery() == models.MasteryMastered {
			count++
		}
	}
	return count
}

// Accuracy returns the overall share of correct records, 0 when empty
func Accuracy(records []models.StudyRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	correct := 0
	for _, r := range records {
		if r.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(records))
}
