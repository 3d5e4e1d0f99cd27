package practice

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/wordtrainer/internal/spaced_repetition"
	"github.com/example/wordtrainer/pkg/models"
)

// SessionState is the lifecycle state of a quiz session
type SessionState string

const (
	StateSetup      SessionState = "setup"
	StateInProgress SessionState = "in_progress"
	StateFinished   SessionState = "finished"
)

// Quality scores reported to the scheduler for quiz outcomes
const (
	passQuality = spaced_repetition.QualityCorrectHesitation
	failQuality = spaced_repetition.QualityIncorrectFamiliar
)

// QuizConfig carries the configured session parameters. The zero config is
// not usable; callers derive it from Settings.
type QuizConfig struct {
	Type           QuestionType
	QuestionCount  int
	TimeoutSeconds int
}

// WrongAnswer is one entry of the mistake list shown after the session
type WrongAnswer struct {
	WordKey       string `json:"word_key"`
	Meaning       string `json:"meaning"`
	CorrectAnswer string `json:"correct_answer"`
}

// Grade is the outcome of a single submitted answer
type Grade struct {
	Correct       bool
	CorrectAnswer string
	TimedOut      bool
}

// Summary describes a finished session
type Summary struct {
	Correct        int
	Total          int
	Accuracy       float64
	ElapsedSeconds int
	Wrong          []WrongAnswer
}

// QuizSession runs one practice quiz: Setup -> InProgress -> Finished.
// It owns copies of the pool words it touches; the caller persists the
// updated words and appended records after the session ends. The session is
// not safe for concurrent use; the one-shot answer latch only guards
// against a timeout and a user submission landing on the same question.
type QuizSession struct {
	state     SessionState
	questions []Question
	words     map[string]*models.Word
	cfg       QuizConfig

	index         int
	answered      bool
	remaining     int
	questionStart time.Time

	correct   int
	wrong     []WrongAnswer
	records   []models.StudyRecord
	touched   []string
	startedAt time.Time
	summary   Summary
}

// NewQuizSession generates the question list from the pool and returns a
// session in the Setup state. Pools smaller than MinPoolSize cannot produce
// unambiguous choice questions and are rejected with ErrEmptyPool.
func NewQuizSession(pool []models.Word, cfg QuizConfig, rng *rand.Rand) (*QuizSession, error) {
	if len(pool) < MinPoolSize {
		return nil, ErrEmptyPool
	}
	if cfg.QuestionCount < models.MinQuestionCount {
		cfg.QuestionCount = models.MinQuestionCount
	}
	if cfg.QuestionCount > models.MaxQuestionCount {
		cfg.QuestionCount = models.MaxQuestionCount
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 15
	}

	questions := Generate(cfg.Type, pool, cfg.QuestionCount, rng)

	words := make(map[string]*models.Word, len(questions))
	for _, w := range pool {
		w := w
		words[w.Key] = &w
	}

	return &QuizSession{
		state:     StateSetup,
		questions: questions,
		words:     words,
		cfg:       cfg,
	}, nil
}

// Start transitions the session into InProgress and arms the first countdown
func (s *QuizSession) Start(now time.Time) {
	if s.state != StateSetup {
		return
	}
	s.state = StateInProgress
	s.startedAt = now
	s.resetQuestion(now)
}

// State returns the current lifecycle state
func (s *QuizSession) State() SessionState { return s.state }

// Total returns the number of questions in the session
func (s *QuizSession) Total() int { return len(s.questions) }

// Current returns the active question, or false when none is active
func (s *QuizSession) Current() (Question, bool) {
	if s.state != StateInProgress || s.index >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.index], true
}

// Remaining returns the seconds left on the active question's countdown
func (s *QuizSession) Remaining() int { return s.remaining }

// Answered reports whether the active question has already been graded
func (s *QuizSession) Answered() bool { return s.answered }

// Tick advances the per-question countdown by one second. When it reaches
// zero the question is auto-submitted with an empty answer; the returned
// grade is non-nil in that case.
func (s *QuizSession) Tick(now time.Time) *Grade {
	if s.state != StateInProgress || s.answered {
		return nil
	}
	s.remaining--
	if s.remaining > 0 {
		return nil
	}
	grade, ok := s.Submit("", now)
	if !ok {
		return nil
	}
	grade.TimedOut = true
	return &grade
}

// Submit grades the answer for the active question. Grading is one-shot: a
// second submission for the same question is a no-op and returns false.
func (s *QuizSession) Submit(answer string, now time.Time) (Grade, bool) {
	if s.state != StateInProgress || s.answered {
		return Grade{}, false
	}
	q, ok := s.Current()
	if !ok {
		return Grade{}, false
	}
	s.answered = true

	correct := isCorrect(q, answer)
	quality := failQuality
	if correct {
		s.correct++
		quality = passQuality
	} else {
		s.wrong = append(s.wrong, WrongAnswer{
			WordKey:       q.WordKey,
			Meaning:       q.Meaning,
			CorrectAnswer: q.Answer,
		})
	}

	if w := s.words[q.WordKey]; w != nil {
		spaced_repetition.Review(w, quality, now)
		s.touched = append(s.touched, q.WordKey)
	}

	duration := int(now.Sub(s.questionStart).Seconds())
	if duration < 0 {
		duration = 0
	}
	s.records = append(s.records, models.StudyRecord{
		ID:              uuid.NewString(),
		WordKey:         q.WordKey,
		Mode:            models.ModeTest,
		Correct:         correct,
		DurationSeconds: duration,
		Timestamp:       now,
	})

	return Grade{Correct: correct, CorrectAnswer: q.Answer}, true
}

// isCorrect dispatches grading on the question type: free-text answers are
// trimmed and case-folded, choice answers must match the option exactly.
func isCorrect(q Question, answer string) bool {
	if q.Type == FillBlank {
		return strings.EqualFold(strings.TrimSpace(answer), q.Answer)
	}
	return answer == q.Answer
}

// Advance moves to the next question, resetting the per-question state, or
// finishes the session after the last one. It reports whether another
// question is active.
func (s *QuizSession) Advance(now time.Time) bool {
	if s.state != StateInProgress || !s.answered {
		return false
	}
	s.index++
	if s.index >= len(s.questions) {
		s.finish(now)
		return false
	}
	s.resetQuestion(now)
	return true
}

func (s *QuizSession) resetQuestion(now time.Time) {
	s.answered = false
	s.remaining = s.cfg.TimeoutSeconds
	s.questionStart = now
}

func (s *QuizSession) finish(now time.Time) {
	s.state = StateFinished

	total := len(s.questions)
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(s.correct) / float64(total)
	}
	s.summary = Summary{
		Correct:        s.correct,
		Total:          total,
		Accuracy:       accuracy,
		ElapsedSeconds: int(now.Sub(s.startedAt).Seconds()),
		Wrong:          s.wrong,
	}
}

// Summary returns the final results once the session has finished
func (s *QuizSession) Summary() (Summary, bool) {
	if s.state != StateFinished {
		return Summary{}, false
	}
	return s.summary, true
}

// UpdatedWords returns the words whose SM-2 state changed during the session
func (s *QuizSession) UpdatedWords() []models.Word {
	updated := make([]models.Word, 0, len(s.touched))
	for _, key := range s.touched {
		if w, ok := s.words[key]; ok {
			updated = append(updated, *w)
		}
	}
	return updated
}

// Records returns the study records appended during the session
func (s *QuizSession) Records() []models.StudyRecord {
	return s.records
}
