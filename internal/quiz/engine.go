// Package quiz runs graded quiz attempts: starting within the attempt
// limit, grading answers, and scoring submissions.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/apperr"
	"github.com/abhisek/prepcoach/internal/keylock"
	"github.com/abhisek/prepcoach/internal/logging"
	"github.com/abhisek/prepcoach/internal/store"
)

// Engine grades quiz attempts over a QuizRepo. It is safe for concurrent
// use: starts are serialized per (user, quiz) and answers and submits
// per attempt.
type Engine struct {
	repo   store.QuizRepo
	logger *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	now   func() time.Time
	newID func() string

	startLocks   keylock.Mutex
	attemptLocks keylock.Mutex
}

// NewEngine creates an Engine. rng drives randomized question order; nil
// uses the global source. A nil logger discards output.
func NewEngine(repo store.QuizRepo, rng *rand.Rand, logger *zap.Logger) *Engine {
	return &Engine{
		repo:   repo,
		logger: logging.OrNop(logger),
		rng:    rng,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Start opens a new attempt for userID. The question set is snapshotted:
// shuffled when the quiz is randomized, else in OrderIndex order.
func (e *Engine) Start(ctx context.Context, userID, quizID string) (store.Attempt, error) {
	if userID == "" {
		return store.Attempt{}, apperr.Validation("user", "must not be empty")
	}

	q, err := e.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return store.Attempt{}, mapErr(err, "quiz", quizID, "start attempt")
	}
	questions, err := e.repo.Questions(ctx, quizID)
	if err != nil {
		return store.Attempt{}, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return store.Attempt{}, &apperr.StateError{Op: "start attempt", Reason: "quiz has no questions"}
	}
	if q.IsRandomized {
		e.shuffle(questions)
	}

	a := store.Attempt{
		ID:          e.newID(),
		UserID:      userID,
		QuizID:      quizID,
		State:       store.AttemptInProgress,
		StartedAt:   e.now(),
		QuestionIDs: make([]string, len(questions)),
	}
	for i, qq := range questions {
		a.QuestionIDs[i] = qq.ID
		a.MaxScore += qq.Points
	}

	unlock := e.startLocks.Lock(userID + "\x00" + quizID)
	defer unlock()

	a, err = e.repo.StartAttempt(ctx, a, q.MaxAttempts)
	if err != nil {
		return store.Attempt{}, mapErr(err, "quiz", quizID, "start attempt")
	}
	e.logger.Debug("attempt started",
		zap.String("attempt", a.ID),
		zap.String("user", userID),
		zap.String("quiz", quizID),
		zap.Int("number", a.AttemptNumber),
	)
	return a, nil
}

// shuffle is a Fisher-Yates permutation of questions.
func (e *Engine) shuffle(questions []store.Question) {
	swap := func(i, j int) { questions[i], questions[j] = questions[j], questions[i] }
	if e.rng == nil {
		rand.Shuffle(len(questions), swap)
		return
	}
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	e.rng.Shuffle(len(questions), swap)
}

// Answer grades answer against the question and stores it, replacing any
// earlier answer to the same question in this attempt.
func (e *Engine) Answer(ctx context.Context, attemptID, questionID string, answer []string) (store.Response, error) {
	unlock := e.attemptLocks.Lock(attemptID)
	defer unlock()

	a, err := e.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		return store.Response{}, mapErr(err, "attempt", attemptID, "answer")
	}
	if a.State != store.AttemptInProgress {
		return store.Response{}, &apperr.StateError{Op: "answer", State: string(a.State), Reason: "attempt already submitted"}
	}
	if !slices.Contains(a.QuestionIDs, questionID) {
		return store.Response{}, apperr.NotFound("question", questionID)
	}

	q, err := e.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return store.Response{}, mapErr(err, "question", questionID, "answer")
	}

	resp := store.Response{
		AttemptID:  attemptID,
		QuestionID: questionID,
		Answer:     answer,
		IsCorrect:  IsCorrect(*q, answer),
		AnsweredAt: e.now(),
	}
	if resp.IsCorrect {
		resp.PointsEarned = q.Points
	}
	if err := e.repo.UpsertResponse(ctx, resp); err != nil {
		return store.Response{}, mapErr(err, "attempt", attemptID, "answer")
	}
	return resp, nil
}

// Submit scores the attempt and closes it. A submitted attempt cannot be
// submitted again.
func (e *Engine) Submit(ctx context.Context, attemptID string) (store.Attempt, error) {
	unlock := e.attemptLocks.Lock(attemptID)
	defer unlock()

	a, err := e.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		return store.Attempt{}, mapErr(err, "attempt", attemptID, "submit")
	}
	if a.State != store.AttemptInProgress {
		return store.Attempt{}, &apperr.StateError{Op: "submit", State: string(a.State), Reason: "attempt already submitted"}
	}
	q, err := e.repo.GetQuiz(ctx, a.QuizID)
	if err != nil {
		return store.Attempt{}, mapErr(err, "quiz", a.QuizID, "submit")
	}

	done, err := e.repo.SubmitAttempt(ctx, attemptID, q.PassingScore, e.now())
	if err != nil {
		return store.Attempt{}, mapErr(err, "attempt", attemptID, "submit")
	}
	e.logger.Info("attempt submitted",
		zap.String("attempt", attemptID),
		zap.Int("score", *done.Score),
		zap.Int("max_score", done.MaxScore),
		zap.Bool("passed", *done.Passed),
	)
	return done, nil
}

// Review is an attempt with its quiz, questions in attempt order, and
// responses keyed by question ID.
type Review struct {
	Quiz      store.Quiz
	Attempt   store.Attempt
	Questions []store.Question
	Responses map[string]store.Response
}

// Review loads everything needed to display an attempt.
func (e *Engine) Review(ctx context.Context, attemptID string) (Review, error) {
	a, err := e.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		return Review{}, mapErr(err, "attempt", attemptID, "review")
	}
	q, err := e.repo.GetQuiz(ctx, a.QuizID)
	if err != nil {
		return Review{}, mapErr(err, "quiz", a.QuizID, "review")
	}
	all, err := e.repo.Questions(ctx, a.QuizID)
	if err != nil {
		return Review{}, fmt.Errorf("load questions: %w", err)
	}
	byID := make(map[string]store.Question, len(all))
	for _, qq := range all {
		byID[qq.ID] = qq
	}

	r := Review{Quiz: *q, Attempt: *a, Responses: map[string]store.Response{}}
	for _, id := range a.QuestionIDs {
		if qq, ok := byID[id]; ok {
			r.Questions = append(r.Questions, qq)
		}
	}
	responses, err := e.repo.Responses(ctx, attemptID)
	if err != nil {
		return Review{}, fmt.Errorf("load responses: %w", err)
	}
	for _, resp := range responses {
		r.Responses[resp.QuestionID] = resp
	}
	return r, nil
}

// Deadline returns when the attempt's time limit runs out. ok is false
// for untimed quizzes. Enforcing the limit is up to the caller.
func Deadline(q store.Quiz, a store.Attempt) (deadline time.Time, ok bool) {
	if q.TimeLimitSecs <= 0 {
		return time.Time{}, false
	}
	return a.StartedAt.Add(time.Duration(q.TimeLimitSecs) * time.Second), true
}

// mapErr converts store sentinels to the caller-facing error kinds.
func mapErr(err error, kind, id, op string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(kind, id)
	case errors.Is(err, store.ErrLimitReached):
		return &apperr.StateError{Op: op, Reason: "attempts exhausted"}
	case errors.Is(err, store.ErrConflict) && op == "start attempt":
		return &apperr.StateError{Op: op, Reason: "another attempt was started concurrently"}
	case errors.Is(err, store.ErrConflict):
		return &apperr.StateError{Op: op, State: string(store.AttemptSubmitted), Reason: "attempt already submitted"}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func zapQuiz(q store.Quiz, questions int) []zap.Field {
	return []zap.Field{
		zap.String("quiz", q.ID),
		zap.String("title", q.Title),
		zap.Int("questions", questions),
	}
}
