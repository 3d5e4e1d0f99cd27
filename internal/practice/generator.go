// Package practice builds quiz questions from the word pool and runs the
// session state machines that grade answers and feed the SM-2 scheduler.
package practice

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/example/wordtrainer/pkg/models"
)

// QuestionType represents different kinds of practice questions
type QuestionType string

const (
	// MultipleChoice shows the term and asks for the meaning among 4 options
	MultipleChoice QuestionType = "multiple_choice"
	// FillBlank shows the meaning and asks the user to type the term
	FillBlank QuestionType = "fill_blank"
	// Listening plays the term aloud and asks for it among 4 term options
	Listening QuestionType = "listening"
)

// ListeningPrompt marks a question whose prompt is spoken, not displayed
const ListeningPrompt = "[play audio]"

// OptionCount is the fixed number of options on choice questions
const OptionCount = 4

// MinPoolSize is the smallest pool a quiz can be generated from; with fewer
// words there are not enough distractors for a 4-option question
const MinPoolSize = 4

// ErrEmptyPool signals that the word pool is too small to start a session
var ErrEmptyPool = errors.New("practice: not enough words in pool")

// Question is a single practice question. Options is empty for free-text
// types; for choice types it holds exactly OptionCount unique entries, one
// of which equals Answer.
type Question struct {
	Type    QuestionType `json:"type"`
	WordKey string       `json:"word_key"`
	Prompt  string       `json:"prompt"`
	Answer  string       `json:"answer"`
	Options []string     `json:"options,omitempty"`
	Meaning string       `json:"meaning"`
}

// Generate selects count distinct words at random from the pool and builds
// one question per word. If the pool holds fewer than count words the whole
// pool is used.
func Generate(qtype QuestionType, pool []models.Word, count int, rng *rand.Rand) []Question {
	if count <= 0 || len(pool) == 0 {
		return nil
	}

	picked := make([]models.Word, len(pool))
	copy(picked, pool)
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if len(picked) > count {
		picked = picked[:count]
	}

	questions := make([]Question, 0, len(picked))
	for _, w := range picked {
		questions = append(questions, buildQuestion(qtype, w, pool, rng))
	}
	return questions
}

func buildQuestion(qtype QuestionType, w models.Word, pool []models.Word, rng *rand.Rand) Question {
	q := Question{
		Type:    qtype,
		WordKey: w.Key,
		Meaning: w.Meaning,
	}

	switch qtype {
	case FillBlank:
		q.Prompt = w.Meaning
		q.Answer = w.Key

	case Listening:
		q.Prompt = ListeningPrompt
		q.Answer = w.Key
		distractors := make([]string, 0, len(pool))
		for _, other := range pool {
			if other.Key != w.Key {
				distractors = append(distractors, other.Key)
			}
		}
		q.Options = buildOptions(q.Answer, distractors, rng)

	default: // MultipleChoice
		q.Type = MultipleChoice
		q.Prompt = w.Key
		if w.Phonetic != "" {
			q.Prompt = w.Key + " " + w.Phonetic
		}
		q.Answer = w.Meaning
		distractors := make([]string, 0, len(pool))
		for _, other := range pool {
			// A distractor with the same meaning would make the question
			// ambiguous, skip it.
			if other.Key != w.Key && other.Meaning != w.Meaning {
				distractors = append(distractors, other.Meaning)
			}
		}
		q.Options = buildOptions(q.Answer, distractors, rng)
	}

	return q
}

// buildOptions assembles exactly OptionCount unique options including the
// correct answer. Distractors are drawn at random; placeholders fill the
// remainder when the pool cannot supply enough distinct wrong answers.
func buildOptions(correct string, distractors []string, rng *rand.Rand) []string {
	options := []string{correct}
	used := map[string]bool{correct: true}

	rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	for _, d := range distractors {
		if len(options) == OptionCount {
			break
		}
		if d == "" || used[d] {
			continue
		}
		used[d] = true
		options = append(options, d)
	}

	for i := 1; len(options) < OptionCount; i++ {
		placeholder := fmt.Sprintf("—— %d ——", i)
		if used[placeholder] {
			continue
		}
		used[placeholder] = true
		options = append(options, placeholder)
	}

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
