// Package scheduler runs the periodic reminder job: once per hour it checks
// whether the configured reminder hour has arrived and, if words are due,
// asks the notifier to nudge the learner. Notification delivery is a
// fire-and-forget concern of the collaborator, never awaited.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/wordtrainer/internal/spaced_repetition"
	"github.com/example/wordtrainer/pkg/models"
)

// WordSource provides the words to check for due reviews
type WordSource interface {
	GetAll() ([]models.Word, error)
}

// SettingsSource provides the reminder configuration
type SettingsSource interface {
	Get() (models.Settings, error)
}

// Notifier receives the reminder request
type Notifier interface {
	NotifyDueWords(count int) error
}

// Scheduler manages the scheduled reminder task
type Scheduler struct {
	scheduler *gocron.Scheduler
	words     WordSource
	settings  SettingsSource
	notifier  Notifier
	log       *zap.Logger
	now       func() time.Time
}

// New creates a new scheduler instance
func New(words WordSource, settings SettingsSource, notifier Notifier, log *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		words:     words,
		settings:  settings,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Start begins running the hourly reminder check without blocking
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndNotify)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndNotify fires the reminder when the configured hour has arrived and
// at least one word is due
func (s *Scheduler) checkAndNotify() {
	settings, err := s.settings.Get()
	if err != nil {
		s.log.Error("failed to load settings for reminder check", zap.Error(err))
		return
	}
	if !settings.ReminderEnabled {
		return
	}

	now := s.now()
	if now.Hour() != settings.ReminderHour {
		return
	}

	count, err := s.dueCount(now)
	if err != nil {
		s.log.Error("failed to count due words", zap.Error(err))
		return
	}
	if count == 0 {
		return
	}

	if err := s.notifier.NotifyDueWords(count); err != nil {
		s.log.Warn("failed to send due-word reminder", zap.Int("due", count), zap.Error(err))
	}
}

// RunManualCheck forces a reminder check regardless of the configured hour
func (s *Scheduler) RunManualCheck() error {
	count, err := s.dueCount(s.now())
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return s.notifier.NotifyDueWords(count)
}

func (s *Scheduler) dueCount(now time.Time) (int, error) {
	words, err := s.words.GetAll()
	if err != nil {
		return 0, err
	}
	return len(spaced_repetition.DuePool(words, now)), nil
}
