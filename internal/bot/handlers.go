package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/wordtrainer/internal/achievements"
	"github.com/example/wordtrainer/internal/analytics"
	"github.com/example/wordtrainer/internal/practice"
	"github.com/example/wordtrainer/pkg/models"
)

const helpText = `📚 Word Trainer

/learn — study new and due words with flashcards
/review — review due words only
/quiz — start a practice quiz
/stats — your study statistics
/favorites — words you starred
/achievements — unlocked achievements
/settings — show and change settings
/reset — erase all progress (words survive)`

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.mu.Lock()
		b.ownerChat = chatID
		b.mu.Unlock()
		b.send(tgbotapi.NewMessage(chatID, helpText))
	case "help":
		b.send(tgbotapi.NewMessage(chatID, helpText))
	case "learn":
		b.startFlashcards(chatID, practice.FlashcardMixed)
	case "review":
		b.startFlashcards(chatID, practice.FlashcardReviewOnly)
	case "quiz":
		b.sendQuizMenu(chatID)
	case "stats":
		b.sendStats(chatID)
	case "favorites":
		b.sendFavorites(chatID)
	case "achievements":
		b.sendAchievements(chatID)
	case "settings":
		b.handleSettingsCommand(chatID, msg.CommandArguments())
	case "reset":
		b.sendResetConfirm(chatID)
	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. Try /help"))
	}
}

// handleText feeds free-text messages into an active fill-blank quiz
func (b *Bot) handleText(msg *tgbotapi.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.sessions[msg.Chat.ID]
	if s == nil || s.quiz == nil {
		return
	}
	if q, ok := s.quiz.Current(); !ok || q.Type != practice.FillBlank {
		return
	}
	b.submitQuizAnswer(msg.Chat.ID, s, msg.Text)
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	// Ack first so the client stops its spinner.
	b.api.Request(tgbotapi.NewCallback(cq.ID, ""))

	chatID := cq.Message.Chat.ID
	data := cq.Data

	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case strings.HasPrefix(data, "quiz:"):
		b.startQuiz(chatID, practice.QuestionType(strings.TrimPrefix(data, "quiz:")))
	case strings.HasPrefix(data, "opt:"):
		b.handleOptionAnswer(chatID, strings.TrimPrefix(data, "opt:"))
	case strings.HasPrefix(data, "flash:"):
		b.handleFlashAction(chatID, strings.TrimPrefix(data, "flash:"))
	case data == "reset:yes":
		b.performReset(chatID)
	case data == "reset:no":
		b.send(tgbotapi.NewMessage(chatID, "Reset cancelled."))
	}
}

// --- quiz flow ---

func (b *Bot) sendQuizMenu(chatID int64) {
	words, err := b.words.GetAll()
	if err != nil {
		b.log.Error("failed to load words", zap.Error(err))
		b.send(tgbotapi.NewMessage(chatID, "Something went wrong, try again."))
		return
	}
	if len(words) < practice.MinPoolSize {
		b.send(tgbotapi.NewMessage(chatID, "Not enough words to start a quiz yet. Import more words first."))
		return
	}

	msg := tgbotapi.NewMessage(chatID, "Choose a quiz type:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔤 Multiple choice", "quiz:"+string(practice.MultipleChoice)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✍️ Fill the blank", "quiz:"+string(practice.FillBlank)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔊 Listening", "quiz:"+string(practice.Listening)),
		),
	)
	b.send(msg)
}

// startQuiz is called with the session mutex held
func (b *Bot) startQuiz(chatID int64, qtype practice.QuestionType) {
	words, err := b.words.GetAll()
	if err != nil {
		b.log.Error("failed to load words", zap.Error(err))
		return
	}
	settings, err := b.settings.Get()
	if err != nil {
		b.log.Error("failed to load settings", zap.Error(err))
		return
	}

	quiz, err := practice.NewQuizSession(words, practice.QuizConfig{
		Type:           qtype,
		QuestionCount:  settings.QuestionCount,
		TimeoutSeconds: settings.QuestionTimeoutSeconds,
	}, b.rng)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Not enough words to start a quiz."))
		return
	}

	s := b.session(chatID)
	if s.stopTicker != nil {
		close(s.stopTicker)
		s.stopTicker = nil
	}
	s.quiz = quiz
	s.flash = nil

	now := time.Now()
	quiz.Start(now)
	b.sendQuestion(chatID, s)
	b.startCountdown(chatID, s)
}

func (b *Bot) sendQuestion(chatID int64, s *chatSession) {
	q, ok := s.quiz.Current()
	if !ok {
		return
	}

	done := len(s.quiz.Records())
	header := fmt.Sprintf("Question %d/%d (%ds)\n\n", done+1, s.quiz.Total(), s.quiz.Remaining())

	var msg tgbotapi.MessageConfig
	switch q.Type {
	case practice.FillBlank:
		msg = tgbotapi.NewMessage(chatID, header+fmt.Sprintf("Type the word that means:\n«%s»", q.Prompt))
	case practice.Listening:
		// No audio channel here, the term is hidden behind a spoiler instead.
		msg = tgbotapi.NewMessage(chatID, header+fmt.Sprintf("Listen: <tg-spoiler>%s</tg-spoiler>\nWhich word did you hear?", q.Answer))
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyMarkup = optionKeyboard(q.Options)
	default:
		msg = tgbotapi.NewMessage(chatID, header+fmt.Sprintf("What does «%s» mean?", q.Prompt))
		msg.ReplyMarkup = optionKeyboard(q.Options)
	}
	b.send(msg)
}

func optionKeyboard(options []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for i, opt := range options {
		label := opt
		if len(label) > 60 {
			label = label[:57] + "..."
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "opt:"+strconv.Itoa(i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// handleOptionAnswer resolves an option index back to its text and submits
// it; called with the session mutex held
func (b *Bot) handleOptionAnswer(chatID int64, idxStr string) {
	s := b.sessions[chatID]
	if s == nil || s.quiz == nil {
		return
	}
	q, ok := s.quiz.Current()
	if !ok {
		return
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(q.Options) {
		return
	}
	b.submitQuizAnswer(chatID, s, q.Options[idx])
}

// submitQuizAnswer grades the answer and advances; called with the mutex held
func (b *Bot) submitQuizAnswer(chatID int64, s *chatSession, answer string) {
	now := time.Now()
	grade, ok := s.quiz.Submit(answer, now)
	if !ok {
		return // already answered, e.g. the countdown beat the user to it
	}

	if grade.Correct {
		b.send(tgbotapi.NewMessage(chatID, "✅ Correct!"))
	} else {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Wrong. The answer was: %s", grade.CorrectAnswer)))
	}
	b.advanceQuiz(chatID, s, now)
}

// advanceQuiz moves to the next question or wraps up; called with the mutex held
func (b *Bot) advanceQuiz(chatID int64, s *chatSession, now time.Time) {
	if s.quiz.Advance(now) {
		b.sendQuestion(chatID, s)
		return
	}
	b.finishQuiz(chatID, s)
}

// finishQuiz persists the session outcome and reports it; called with the
// mutex held
func (b *Bot) finishQuiz(chatID int64, s *chatSession) {
	quiz := s.quiz
	s.quiz = nil
	if s.stopTicker != nil {
		close(s.stopTicker)
		s.stopTicker = nil
	}

	summary, ok := quiz.Summary()
	if !ok {
		return
	}

	// The in-memory result stands even if persistence fails; failures are
	// logged and the session is not rolled back.
	for _, w := range quiz.UpdatedWords() {
		w := w
		if err := b.words.SaveProgress(&w); err != nil {
			b.log.Error("failed to save word progress", zap.String("key", w.Key), zap.Error(err))
		}
	}
	if err := b.records.CreateBatch(quiz.Records()); err != nil {
		b.log.Error("failed to save study records", zap.Error(err))
	}

	text := fmt.Sprintf("🏁 Quiz finished!\n\nScore: %d/%d (%.0f%%)\nTime: %ds",
		summary.Correct, summary.Total, summary.Accuracy*100, summary.ElapsedSeconds)
	if len(summary.Wrong) > 0 {
		text += "\n\nWorth another look:"
		for _, wrong := range summary.Wrong {
			text += fmt.Sprintf("\n• %s — %s", wrong.WordKey, wrong.Meaning)
		}
	}
	b.send(tgbotapi.NewMessage(chatID, text))

	b.evaluateAchievements(chatID, summary.Correct, summary.Total)
}

// --- flashcard flow ---

func (b *Bot) startFlashcards(chatID int64, mode practice.FlashcardMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	words, err := b.words.GetAll()
	if err != nil {
		b.log.Error("failed to load words", zap.Error(err))
		return
	}
	settings, err := b.settings.Get()
	if err != nil {
		b.log.Error("failed to load settings", zap.Error(err))
		return
	}

	flash := practice.NewFlashcardSession(words, mode, settings.DailyGoal, b.rng, time.Now())
	if flash.State() == practice.FlashcardIdle {
		b.send(tgbotapi.NewMessage(chatID, "🎉 Nothing to study right now, come back later."))
		return
	}

	s := b.session(chatID)
	if s.stopTicker != nil {
		close(s.stopTicker)
		s.stopTicker = nil
	}
	s.quiz = nil
	s.flash = flash
	s.revealed = false

	b.sendFlashcard(chatID, s)
}

func (b *Bot) sendFlashcard(chatID int64, s *chatSession) {
	card, ok := s.flash.Current()
	if !ok {
		return
	}
	done, total := s.flash.Progress()

	var text string
	var keyboard tgbotapi.InlineKeyboardMarkup
	if s.revealed {
		text = fmt.Sprintf("Card %d/%d\n\n%s %s\n\n%s", done+1, total, card.Key, card.Phonetic, card.Meaning)
		if card.Example != "" {
			text += "\n\n" + card.Example
		}
		fav := "☆ Favorite"
		if card.Favorite {
			fav = "★ Unfavorite"
		}
		keyboard = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("😎 Knew it", "flash:known"),
				tgbotapi.NewInlineKeyboardButtonData("😕 Forgot", "flash:unknown"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fav, "flash:fav"),
				tgbotapi.NewInlineKeyboardButtonData("⏹ Stop", "flash:stop"),
			),
		)
	} else {
		text = fmt.Sprintf("Card %d/%d\n\n%s %s", done+1, total, card.Key, card.Phonetic)
		keyboard = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👀 Show meaning", "flash:reveal"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⏹ Stop", "flash:stop"),
			),
		)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

// handleFlashAction dispatches a flashcard button press; called with the
// mutex held
func (b *Bot) handleFlashAction(chatID int64, action string) {
	s := b.sessions[chatID]
	if s == nil || s.flash == nil {
		return
	}

	switch action {
	case "reveal":
		s.revealed = true
		b.sendFlashcard(chatID, s)
	case "known":
		s.flash.RateKnown(time.Now())
		b.afterFlashRating(chatID, s)
	case "unknown":
		s.flash.RateUnknown(time.Now())
		b.afterFlashRating(chatID, s)
	case "fav":
		s.flash.ToggleFavorite()
		b.persistFlashCard(s)
		b.sendFlashcard(chatID, s)
	case "stop":
		b.endFlashcards(chatID, s)
	}
}

// afterFlashRating persists the rated card and either shows the next one or
// ends the run
func (b *Bot) afterFlashRating(chatID int64, s *chatSession) {
	b.persistFlashCard(s)

	if recs := s.flash.Records(); len(recs) > 0 {
		last := recs[len(recs)-1]
		if err := b.records.Create(&last); err != nil {
			b.log.Error("failed to save study record", zap.Error(err))
		}
	}

	if s.flash.State() == practice.FlashcardIdle {
		b.endFlashcards(chatID, s)
		return
	}
	s.revealed = false
	b.sendFlashcard(chatID, s)
}

// persistFlashCard writes every card the session has touched so far. Cards
// are few and writes are idempotent, so re-saving is harmless.
func (b *Bot) persistFlashCard(s *chatSession) {
	for _, w := range s.flash.UpdatedWords() {
		w := w
		if err := b.words.SaveProgress(&w); err != nil {
			b.log.Error("failed to save word progress", zap.String("key", w.Key), zap.Error(err))
		}
	}
}

func (b *Bot) endFlashcards(chatID int64, s *chatSession) {
	done, total := s.flash.Progress()
	s.flash = nil
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Session over: %d/%d cards studied. /stats for details", done, total)))
	b.evaluateAchievements(chatID, 0, 0)
}

// --- stats, achievements, settings, reset ---

func (b *Bot) sendStats(chatID int64) {
	words, err := b.words.GetAll()
	if err != nil {
		b.log.Error("failed to load words", zap.Error(err))
		return
	}
	records, err := b.records.GetAll()
	if err != nil {
		b.log.Error("failed to load records", zap.Error(err))
		return
	}
	settings, err := b.settings.Get()
	if err != nil {
		b.log.Error("failed to load settings", zap.Error(err))
		return
	}

	now := time.Now()
	today := analytics.TodayCount(records, now)
	streak := analytics.StreakDays(records, now)
	mastered := analytics.MasteredCount(words)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Statistics\n\n")
	fmt.Fprintf(&sb, "Today: %d/%d\n", today, settings.DailyGoal)
	fmt.Fprintf(&sb, "Streak: %d day(s) 🔥\n", streak)
	fmt.Fprintf(&sb, "Mastered: %d/%d words\n", mastered, len(words))
	fmt.Fprintf(&sb, "Total reviews: %d\n", len(records))
	fmt.Fprintf(&sb, "Accuracy: %.0f%%\n", analytics.Accuracy(records)*100)

	sb.WriteString("\nLast 7 days:\n")
	for _, bucket := range analytics.LineStats(records, 7, now) {
		bar := strings.Repeat("▇", min(bucket.Count, 20))
		if bucket.Count == 0 {
			bar = "·"
		}
		fmt.Fprintf(&sb, "%s %s %d\n", bucket.Date.Format("Mon"), bar, bucket.Count)
	}

	b.send(tgbotapi.NewMessage(chatID, sb.String()))
}

func (b *Bot) sendFavorites(chatID int64) {
	favorites, err := b.words.GetFavorites()
	if err != nil {
		b.log.Error("failed to load favorite words", zap.Error(err))
		return
	}
	if len(favorites) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "No favorites yet. Star words during flashcard sessions."))
		return
	}

	var sb strings.Builder
	sb.WriteString("⭐️ Favorites\n")
	for _, w := range favorites {
		fmt.Fprintf(&sb, "\n%s %s\n%s", w.Key, w.Phonetic, w.Meaning)
	}
	b.send(tgbotapi.NewMessage(chatID, sb.String()))
}

func (b *Bot) sendAchievements(chatID int64) {
	unlocks, err := b.achievements.GetAll()
	if err != nil {
		b.log.Error("failed to load achievements", zap.Error(err))
		return
	}
	if len(unlocks) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "No achievements yet — keep studying!"))
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Achievements\n")
	for _, u := range unlocks {
		title := u.Key
		if def, ok := achievements.Lookup(u.Key); ok {
			title = def.Title
		}
		fmt.Fprintf(&sb, "\n• %s (%s)", title, u.UnlockedAt.Format("2006-01-02"))
	}
	b.send(tgbotapi.NewMessage(chatID, sb.String()))
}

func (b *Bot) handleSettingsCommand(chatID int64, args string) {
	settings, err := b.settings.Get()
	if err != nil {
		b.log.Error("failed to load settings", zap.Error(err))
		return
	}

	fields := strings.Fields(args)
	if len(fields) == 2 {
		if b.applySetting(&settings, fields[0], fields[1]) {
			if err := b.settings.Save(settings); err != nil {
				b.log.Error("failed to save settings", zap.Error(err))
				b.send(tgbotapi.NewMessage(chatID, "Could not save settings, try again."))
				return
			}
			// Re-read so the confirmation shows the clamped values.
			settings, _ = b.settings.Get()
		} else {
			b.send(tgbotapi.NewMessage(chatID, "Unknown setting. See /settings for the list."))
			return
		}
	}

	reminder := "off"
	if settings.ReminderEnabled {
		reminder = fmt.Sprintf("%02d:00", settings.ReminderHour)
	}
	text := fmt.Sprintf(`⚙️ Settings

goal      %d words/day
count     %d questions per quiz
timeout   %ds per question
reminder  %s

Change with: /settings <name> <value>
e.g. /settings goal 30, /settings reminder off`,
		settings.DailyGoal, settings.QuestionCount, settings.QuestionTimeoutSeconds, reminder)
	b.send(tgbotapi.NewMessage(chatID, text))
}

// applySetting mutates one settings field from its textual name and value;
// clamping happens in the repository on save
func (b *Bot) applySetting(s *models.Settings, name, value string) bool {
	switch name {
	case "goal":
		if v, err := strconv.Atoi(value); err == nil {
			s.DailyGoal = v
			return true
		}
	case "count":
		if v, err := strconv.Atoi(value); err == nil {
			s.QuestionCount = v
			return true
		}
	case "timeout":
		if v, err := strconv.Atoi(value); err == nil {
			s.QuestionTimeoutSeconds = v
			return true
		}
	case "reminder":
		if value == "off" {
			s.ReminderEnabled = false
			return true
		}
		if v, err := strconv.Atoi(value); err == nil {
			s.ReminderEnabled = true
			s.ReminderHour = v
			return true
		}
	}
	return false
}

func (b *Bot) sendResetConfirm(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "This erases all progress, records and achievements. The words themselves stay. Are you sure?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, erase everything", "reset:yes"),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "reset:no"),
		),
	)
	b.send(msg)
}

// performReset wipes progress, history and unlocks; called with the mutex held
func (b *Bot) performReset(chatID int64) {
	s := b.sessions[chatID]
	if s != nil {
		if s.stopTicker != nil {
			close(s.stopTicker)
			s.stopTicker = nil
		}
		s.quiz = nil
		s.flash = nil
	}

	if err := b.words.ResetAllProgress(time.Now()); err != nil {
		b.log.Error("failed to reset word progress", zap.Error(err))
	}
	if err := b.records.DeleteAll(); err != nil {
		b.log.Error("failed to delete study records", zap.Error(err))
	}
	if err := b.achievements.DeleteAll(); err != nil {
		b.log.Error("failed to delete achievements", zap.Error(err))
	}
	b.send(tgbotapi.NewMessage(chatID, "All progress has been reset. Fresh start! 🌱"))
}
