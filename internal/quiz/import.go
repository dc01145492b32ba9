package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/abhisek/prepcoach/internal/apperr"
	"github.com/abhisek/prepcoach/internal/store"
)

// Definition is the JSON form of a quiz accepted by Import.
type Definition struct {
	Title         string          `json:"title"`
	MaxAttempts   int             `json:"max_attempts"`
	PassingScore  int             `json:"passing_score"`
	Randomized    bool            `json:"randomized"`
	TimeLimitSecs int             `json:"time_limit_secs"`
	Questions     []QuestionInput `json:"questions"`
}

// QuestionInput is one question of a Definition. Answer accepts a string,
// a boolean, or a list of strings.
type QuestionInput struct {
	Text    string             `json:"text"`
	Type    store.QuestionType `json:"type"`
	Options []string           `json:"options"`
	Answer  Answer             `json:"answer"`
	Points  int                `json:"points"`
}

// Answer is a list of answer values decoded leniently from JSON.
type Answer []string

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(data, []byte("[")):
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*a = list
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*a = Answer{string(data)}
	case bytes.Equal(data, []byte("null")):
		*a = nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("answer must be a string, boolean or list of strings")
		}
		*a = Answer{s}
	}
	return nil
}

// ParseDefinition decodes a quiz definition, rejecting unknown fields.
func ParseDefinition(r io.Reader) (Definition, error) {
	var def Definition
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return Definition{}, apperr.Validation("quiz definition", "%v", err)
	}
	return def, nil
}

// Validate checks def and fills defaults: one attempt, one point per
// question.
func (def *Definition) Validate() error {
	var errs []error
	def.Title = strings.TrimSpace(def.Title)
	if def.Title == "" {
		errs = append(errs, apperr.Validation("title", "must not be empty"))
	}
	if def.MaxAttempts == 0 {
		def.MaxAttempts = 1
	}
	if def.MaxAttempts < 0 {
		errs = append(errs, apperr.Validation("max_attempts", "must be positive"))
	}
	if def.PassingScore < 0 {
		errs = append(errs, apperr.Validation("passing_score", "must not be negative"))
	}
	if def.TimeLimitSecs < 0 {
		errs = append(errs, apperr.Validation("time_limit_secs", "must not be negative"))
	}
	if len(def.Questions) == 0 {
		errs = append(errs, apperr.Validation("questions", "at least one question is required"))
	}

	total := 0
	for i := range def.Questions {
		q := &def.Questions[i]
		if q.Points == 0 {
			q.Points = 1
		}
		total += q.Points
		if err := q.validate(); err != nil {
			errs = append(errs, fmt.Errorf("question %d: %w", i+1, err))
		}
	}
	if def.PassingScore > total && len(def.Questions) > 0 {
		errs = append(errs, apperr.Validation("passing_score", "%d exceeds the maximum score %d", def.PassingScore, total))
	}
	return errors.Join(errs...)
}

func (q *QuestionInput) validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return apperr.Validation("text", "must not be empty")
	}
	if q.Points < 0 {
		return apperr.Validation("points", "must be positive")
	}
	answers := normalizeAll(q.Answer)
	options := normalizeAll(q.Options)

	switch q.Type {
	case store.MultipleChoice:
		if len(answers) != 1 {
			return apperr.Validation("answer", "multiple choice needs exactly one answer")
		}
		if !slices.Contains(options, answers[0]) {
			return apperr.Validation("answer", "%q is not one of the options", q.Answer[0])
		}
	case store.MultipleSelect:
		if len(answers) == 0 {
			return apperr.Validation("answer", "multiple select needs at least one answer")
		}
		for _, a := range answers {
			if !slices.Contains(options, a) {
				return apperr.Validation("answer", "%q is not one of the options", a)
			}
		}
	case store.TrueFalse:
		if len(answers) != 1 {
			return apperr.Validation("answer", "true/false needs exactly one answer")
		}
		if _, ok := parseBool(answers[0]); !ok {
			return apperr.Validation("answer", "%q is not true or false", q.Answer[0])
		}
	case store.ShortAnswer:
		if len(answers) != 1 {
			return apperr.Validation("answer", "short answer needs exactly one answer")
		}
	default:
		return apperr.Validation("type", "unknown question type %q", q.Type)
	}
	return nil
}

// Import validates def and stores it as a new quiz.
func (e *Engine) Import(ctx context.Context, def Definition) (store.Quiz, error) {
	if err := def.Validate(); err != nil {
		return store.Quiz{}, err
	}

	q := store.Quiz{
		ID:            e.newID(),
		Title:         def.Title,
		MaxAttempts:   def.MaxAttempts,
		PassingScore:  def.PassingScore,
		IsRandomized:  def.Randomized,
		TimeLimitSecs: def.TimeLimitSecs,
		CreatedAt:     e.now(),
	}
	questions := make([]store.Question, len(def.Questions))
	for i, in := range def.Questions {
		questions[i] = store.Question{
			ID:            e.newID(),
			QuizID:        q.ID,
			Text:          strings.TrimSpace(in.Text),
			Type:          in.Type,
			Options:       in.Options,
			CorrectAnswer: in.Answer,
			Points:        in.Points,
			OrderIndex:    i,
		}
	}
	if err := e.repo.CreateQuiz(ctx, q, questions); err != nil {
		return store.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	e.logger.Info("quiz imported", zapQuiz(q, len(questions))...)
	return q, nil
}
