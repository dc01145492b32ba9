package quiz

import (
	"time"

	"github.com/abhisek/prepcoach/internal/quiz"
	"github.com/abhisek/prepcoach/internal/store"
)

// startedMsg carries the opened attempt with its questions in order.
type startedMsg struct {
	Review quiz.Review
	Err    error
}

// answeredMsg reports the graded answer to the current question.
type answeredMsg struct {
	Response store.Response
	Err      error
}

// submittedMsg carries the scored attempt.
type submittedMsg struct {
	Attempt store.Attempt
	Err     error
}

// tickMsg drives the countdown for timed quizzes.
type tickMsg time.Time
