// Package bot is the Telegram delivery surface. It renders core results and
// forwards user actions into the session engines; all learning logic lives in
// the practice, spaced_repetition, analytics and achievements packages.
package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/example/wordtrainer/internal/database"
	"github.com/example/wordtrainer/internal/practice"
)

// chatSession is the per-chat interaction state. At most one quiz or one
// flashcard session is active per chat at a time.
type chatSession struct {
	quiz       *practice.QuizSession
	flash      *practice.FlashcardSession
	revealed   bool          // current flashcard flipped to its back side
	stopTicker chan struct{} // closes to tear down the quiz countdown
}

// Bot wires Telegram updates to the trainer core
type Bot struct {
	api          *tgbotapi.BotAPI
	words        *database.WordRepository
	records      *database.RecordRepository
	achievements *database.AchievementRepository
	settings     *database.SettingsRepository
	log          *zap.Logger
	rng          *rand.Rand

	mu        sync.Mutex
	sessions  map[int64]*chatSession
	ownerChat int64 // chat of the most recent /start, reminder target
}

// New creates the bot around an authorized Telegram API client
func New(token string, db *sqlx.DB, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Bot{
		api:          api,
		words:        database.NewWordRepository(db),
		records:      database.NewRecordRepository(db),
		achievements: database.NewAchievementRepository(db),
		settings:     database.NewSettingsRepository(db),
		log:          log,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		sessions:     make(map[int64]*chatSession),
	}, nil
}

// Start blocks processing updates until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

// Stop tears down active countdowns and stops receiving updates
func (b *Bot) Stop() {
	b.mu.Lock()
	for _, s := range b.sessions {
		if s.stopTicker != nil {
			close(s.stopTicker)
			s.stopTicker = nil
		}
	}
	b.mu.Unlock()

	b.api.StopReceivingUpdates()
}

// NotifyDueWords implements the reminder notifier: it nudges the owner chat
// that reviews are waiting. Called by the scheduler, fire-and-forget.
func (b *Bot) NotifyDueWords(count int) error {
	b.mu.Lock()
	chat := b.ownerChat
	b.mu.Unlock()
	if chat == 0 {
		return nil // nobody has talked to the bot yet
	}
	text := fmt.Sprintf("⏰ %d word(s) are due for review. Send /review to keep your streak going!", count)
	return b.send(tgbotapi.NewMessage(chat, text))
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while handling update", zap.Any("panic", r))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		if update.Message.IsCommand() {
			b.handleCommand(update.Message)
		} else {
			b.handleText(update.Message)
		}
	}
}

// session returns the chat's interaction state, creating it on first use
func (b *Bot) session(chatID int64) *chatSession {
	s, ok := b.sessions[chatID]
	if !ok {
		s = &chatSession{}
		b.sessions[chatID] = s
	}
	return s
}

// startCountdown runs the 1-second tick loop for an active quiz. The loop
// stops when the stop channel closes, so a finished or abandoned session can
// never fire a late auto-submit.
func (b *Bot) startCountdown(chatID int64, s *chatSession) {
	stop := make(chan struct{})
	s.stopTicker = stop

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				if b.tickQuiz(chatID, now) {
					return
				}
			}
		}
	}()
}

// tickQuiz advances the countdown by one tick and reports whether the loop
// should stop
func (b *Bot) tickQuiz(chatID int64, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.sessions[chatID]
	if s == nil || s.quiz == nil {
		return true
	}
	grade := s.quiz.Tick(now)
	if grade == nil {
		return false
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("⌛️ Time's up! The answer was: %s", grade.CorrectAnswer)))
	b.advanceQuiz(chatID, s, now)
	return s.quiz == nil
}

func (b *Bot) send(c tgbotapi.Chattable) error {
	if _, err := b.api.Send(c); err != nil {
		b.log.Warn("failed to send telegram message", zap.Error(err))
		return err
	}
	return nil
}
