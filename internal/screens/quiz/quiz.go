// Package quiz is the interactive screen for taking a quiz attempt.
package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepcoach/internal/apperr"
	"github.com/abhisek/prepcoach/internal/quiz"
	"github.com/abhisek/prepcoach/internal/screen"
	"github.com/abhisek/prepcoach/internal/store"
	"github.com/abhisek/prepcoach/internal/ui/components"
	"github.com/abhisek/prepcoach/internal/ui/layout"
	"github.com/abhisek/prepcoach/internal/ui/report"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseFeedback
	phaseSubmitting
	phaseDone
)

var _ screen.Screen = (*Screen)(nil)

// Screen walks the user through one attempt: each answer is graded as it
// is given, and the attempt is submitted after the last question or when
// the time limit runs out.
type Screen struct {
	engine *quiz.Engine
	userID string
	quizID string

	phase     phase
	quiz      store.Quiz
	attempt   store.Attempt
	questions []store.Question
	idx       int
	correct   int

	choice    components.Choice
	input     components.TextInput
	freeText  bool
	last      *store.Response
	deadline  time.Time
	timed     bool
	remaining time.Duration

	result store.Attempt
	err    error

	now func() time.Time
}

// New creates a screen that starts a new attempt at quizID for userID.
func New(engine *quiz.Engine, userID, quizID string) *Screen {
	return &Screen{engine: engine, userID: userID, quizID: quizID, now: time.Now}
}

func (s *Screen) Init() tea.Cmd {
	engine, userID, quizID := s.engine, s.userID, s.quizID
	return func() tea.Msg {
		ctx := context.Background()
		a, err := engine.Start(ctx, userID, quizID)
		if err != nil {
			return startedMsg{Err: err}
		}
		r, err := engine.Review(ctx, a.ID)
		return startedMsg{Review: r, Err: err}
	}
}

func (s *Screen) Title() string {
	if s.quiz.Title == "" {
		return "Quiz"
	}
	return s.quiz.Title
}

// Status shows the remaining time of a timed attempt.
func (s *Screen) Status() string {
	if !s.timed || s.phase == phaseDone {
		return ""
	}
	r := s.remaining.Round(time.Second)
	return fmt.Sprintf("⏱ %d:%02d", int(r.Minutes()), int(r.Seconds())%60)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.phase == phaseDone || s.err != nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Exit"}}
	case s.phase == phaseFeedback:
		return []layout.KeyHint{{Key: "Any key", Description: "Next"}}
	case s.freeText:
		return []layout.KeyHint{{Key: "Enter", Description: "Answer"}}
	case s.choice.Multi:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Space", Description: "Toggle"},
			{Key: "Enter", Description: "Answer"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
		}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)
	case answeredMsg:
		return s.handleAnswered(msg)
	case submittedMsg:
		if msg.Err != nil {
			s.err = msg.Err
		}
		s.result = msg.Attempt
		s.phase = phaseDone
		return s, nil
	case tickMsg:
		return s.handleTick(time.Time(msg))
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswering && s.freeText {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.err = msg.Err
		s.phase = phaseDone
		return s, nil
	}
	s.quiz = msg.Review.Quiz
	s.attempt = msg.Review.Attempt
	s.questions = msg.Review.Questions
	s.phase = phaseAnswering
	s.prepare()

	if d, ok := quiz.Deadline(s.quiz, s.attempt); ok {
		s.timed, s.deadline = true, d
		s.remaining = d.Sub(s.now())
		return s, tick()
	}
	return s, nil
}

func (s *Screen) handleAnswered(msg answeredMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		// A submitted attempt means the time ran out elsewhere.
		if apperr.IsState(msg.Err) {
			return s, s.submit()
		}
		s.err = msg.Err
		s.phase = phaseDone
		return s, nil
	}
	s.last = &msg.Response
	if msg.Response.IsCorrect {
		s.correct++
	}
	s.phase = phaseFeedback
	return s, nil
}

func (s *Screen) handleTick(now time.Time) (screen.Screen, tea.Cmd) {
	if !s.timed || s.phase == phaseDone || s.phase == phaseSubmitting {
		return s, nil
	}
	s.remaining = s.deadline.Sub(now)
	if s.remaining <= 0 {
		s.remaining = 0
		return s, s.submit()
	}
	return s, tick()
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseDone:
		if msg.String() == "enter" || msg.String() == "q" || msg.String() == "esc" {
			return s, tea.Quit
		}
		return s, nil

	case phaseFeedback:
		s.idx++
		if s.idx >= len(s.questions) {
			return s, s.submit()
		}
		s.phase = phaseAnswering
		s.prepare()
		return s, nil

	case phaseAnswering:
		if s.freeText {
			if msg.String() == "enter" {
				if strings.TrimSpace(s.input.Value()) == "" {
					return s, nil
				}
				return s, s.answer([]string{s.input.Value()})
			}
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		s.choice, _ = s.choice.Update(msg)
		if s.choice.Submitted {
			return s, s.answer(s.choice.Selected())
		}
	}
	return s, nil
}

// prepare sets up the input for the current question.
func (s *Screen) prepare() {
	q := s.questions[s.idx]
	s.last = nil
	s.freeText = false
	switch q.Type {
	case store.ShortAnswer:
		s.freeText = true
		s.input = components.NewTextInput("Type your answer", 200)
	case store.TrueFalse:
		opts := q.Options
		if len(opts) == 0 {
			opts = []string{"True", "False"}
		}
		s.choice = components.NewChoice(opts, false)
	default:
		s.choice = components.NewChoice(q.Options, q.Type == store.MultipleSelect)
	}
}

func (s *Screen) answer(values []string) tea.Cmd {
	engine, attemptID, questionID := s.engine, s.attempt.ID, s.questions[s.idx].ID
	return func() tea.Msg {
		resp, err := engine.Answer(context.Background(), attemptID, questionID, values)
		return answeredMsg{Response: resp, Err: err}
	}
}

func (s *Screen) submit() tea.Cmd {
	s.phase = phaseSubmitting
	engine, attemptID := s.engine, s.attempt.ID
	return func() tea.Msg {
		a, err := engine.Submit(context.Background(), attemptID)
		return submittedMsg{Attempt: a, Err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (s *Screen) View(width, height int) string {
	if s.err != nil {
		return theme.Incorrect.Render("Error: ") + theme.Body.Render(s.err.Error())
	}

	switch s.phase {
	case phaseLoading:
		return theme.Hint.Render("Starting attempt...")
	case phaseSubmitting:
		return theme.Hint.Render("Submitting...")
	case phaseDone:
		return report.Result(s.result) + "\n\n" +
			theme.Body.Render(fmt.Sprintf("%d of %d answered correctly.", s.correct, len(s.questions)))
	}

	q := s.questions[s.idx]
	progress := components.NewProgressBar(
		fmt.Sprintf("Question %d/%d", s.idx+1, len(s.questions)),
		float64(s.idx)/float64(len(s.questions)), false, min(width, 60),
	)

	body := []string{
		progress.View(),
		"",
		lipgloss.NewStyle().Width(width).Foreground(theme.Text).Bold(true).Render(q.Text),
		theme.Hint.Render(fmt.Sprintf("%d point(s)", q.Points)),
		"",
	}
	if s.freeText {
		body = append(body, s.input.View())
	} else {
		body = append(body, s.choice.View())
	}

	if s.phase == phaseFeedback && s.last != nil {
		verdict := theme.Incorrect.Render("✗ Incorrect")
		if s.last.IsCorrect {
			verdict = theme.Correct.Render("✓ Correct")
		}
		body = append(body, "", verdict)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body...)
}
