package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/wordtrainer/internal/achievements"
	"github.com/example/wordtrainer/pkg/models"
)

// evaluateAchievements runs the achievement engine in a loop, since the
// engine unlocks at most one achievement per call, persisting and announcing
// each unlock. Session counts of 0/0 mean no quiz result accompanies this
// check.
func (b *Bot) evaluateAchievements(chatID int64, sessionCorrect, sessionTotal int) {
	words, err := b.words.GetAll()
	if err != nil {
		b.log.Error("failed to load words for achievement check", zap.Error(err))
		return
	}
	records, err := b.records.GetAll()
	if err != nil {
		b.log.Error("failed to load records for achievement check", zap.Error(err))
		return
	}
	unlocked, err := b.achievements.GetAll()
	if err != nil {
		b.log.Error("failed to load achievements", zap.Error(err))
		return
	}

	var session *achievements.SessionResult
	if sessionTotal > 0 {
		session = &achievements.SessionResult{Correct: sessionCorrect, Total: sessionTotal}
	}

	now := time.Now()
	for {
		in := achievements.Input{
			Words:    words,
			Records:  records,
			Unlocked: unlocked,
			Session:  session,
			Now:      now,
		}
		key := achievements.Evaluate(in)
		if key == "" {
			return
		}

		unlock := models.AchievementUnlock{Key: key, UnlockedAt: now}
		if err := b.achievements.Create(&unlock); err != nil {
			b.log.Error("failed to save achievement unlock", zap.String("key", key), zap.Error(err))
			return
		}
		unlocked = append(unlocked, unlock)

		if def, ok := achievements.Lookup(key); ok {
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("🏆 Achievement unlocked: %s\n%s", def.Title, def.Description)))
		}
	}
}
