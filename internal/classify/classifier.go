// Package classify derives a question context (type, category, difficulty)
// from interview question text using keyword rules.
package classify

import (
	"strings"

	"github.com/abhisek/prepcoach/internal/apperr"
)

// QuestionType is the broad kind of interview question.
type QuestionType string

const (
	TypeBehavioral  QuestionType = "behavioral"
	TypeTechnical   QuestionType = "technical"
	TypeSituational QuestionType = "situational"
	TypeGeneral     QuestionType = "general"
)

// Difficulty is the estimated difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Context describes a classified question. It is derived on demand and
// never persisted.
type Context struct {
	Type       QuestionType `json:"type"`
	Category   string       `json:"category"`
	Difficulty Difficulty   `json:"difficulty"`
	Role       string       `json:"role,omitempty"`
	Industry   string       `json:"industry,omitempty"`
}

// Classifier classifies question text against a Lexicon.
type Classifier struct {
	lex Lexicon
}

// New creates a Classifier over lex.
func New(lex Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

// Classify runs the type, category, and difficulty passes over text.
// It never fails; unmatched text resolves to general/general/medium.
func (c *Classifier) Classify(text, role, industry string) Context {
	lower := strings.ToLower(text)

	qt := c.questionType(lower)
	return Context{
		Type:       qt,
		Category:   c.category(qt, lower),
		Difficulty: c.difficulty(lower),
		Role:       role,
		Industry:   industry,
	}
}

// ValidateText rejects blank question text.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.Validation("question", "text must not be empty")
	}
	return nil
}

func (c *Classifier) questionType(lower string) QuestionType {
	for _, r := range c.lex.Types {
		if containsAny(lower, r.Keywords) {
			return r.Type
		}
	}
	return TypeGeneral
}

func (c *Classifier) category(qt QuestionType, lower string) string {
	for _, r := range c.lex.Categories[qt] {
		if containsAny(lower, r.Keywords) {
			return r.Name
		}
	}
	if d, ok := c.lex.DefaultCategory[qt]; ok {
		return d
	}
	return string(TypeGeneral)
}

func (c *Classifier) difficulty(lower string) Difficulty {
	switch {
	case containsAny(lower, c.lex.HardTerms):
		return DifficultyHard
	case containsAny(lower, c.lex.EasyTerms):
		return DifficultyEasy
	default:
		return DifficultyMedium
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
