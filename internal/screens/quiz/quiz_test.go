package quiz

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepcoach/internal/quiz"
	"github.com/abhisek/prepcoach/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestScreen(t *testing.T, def quiz.Definition) *Screen {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	engine := quiz.NewEngine(st.QuizRepo(), rand.New(rand.NewPCG(1, 2)), nil)
	q, err := engine.Import(context.Background(), def)
	require.NoError(t, err)
	return New(engine, "u1", q.ID)
}

// run executes cmd and feeds its message back, following chained
// commands until none remain.
func run(t *testing.T, s *Screen, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(tickMsg); ok {
			return
		}
		_, cmd = s.Update(msg)
	}
}

func press(t *testing.T, s *Screen, msg tea.Msg) {
	t.Helper()
	_, cmd := s.Update(msg)
	run(t, s, cmd)
}

func goQuiz() quiz.Definition {
	return quiz.Definition{
		Title:        "Go basics",
		PassingScore: 2,
		Questions: []quiz.QuestionInput{
			{Text: "Which keyword starts a goroutine?", Type: store.MultipleChoice, Options: []string{"defer", "go", "chan"}, Answer: quiz.Answer{"go"}},
			{Text: "Go has generics.", Type: store.TrueFalse, Answer: quiz.Answer{"true"}},
			{Text: "Pick the reference types.", Type: store.MultipleSelect, Options: []string{"map", "int", "slice"}, Answer: quiz.Answer{"map", "slice"}},
			{Text: "Name the zero value of a pointer.", Type: store.ShortAnswer, Answer: quiz.Answer{"nil"}},
		},
	}
}

func TestTakeQuiz(t *testing.T) {
	s := newTestScreen(t, goQuiz())
	run(t, s, s.Init())
	require.NoError(t, s.err)
	assert.Equal(t, "Go basics", s.Title())
	assert.Equal(t, phaseAnswering, s.phase)
	assert.Contains(t, s.View(80, 20), "Which keyword starts a goroutine?")

	// Multiple choice: jump to option 2.
	press(t, s, keyPress('2'))
	press(t, s, specialKey(tea.KeyEnter))
	require.Equal(t, phaseFeedback, s.phase)
	assert.True(t, s.last.IsCorrect)
	assert.Contains(t, s.View(80, 20), "Correct")
	press(t, s, keyPress('n'))

	// True/false: the first default option is "True".
	press(t, s, specialKey(tea.KeyEnter))
	assert.True(t, s.last.IsCorrect)
	press(t, s, keyPress('n'))

	// Multiple select: enter without a selection is ignored.
	press(t, s, specialKey(tea.KeyEnter))
	assert.Equal(t, phaseAnswering, s.phase)
	press(t, s, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	press(t, s, specialKey(tea.KeyDown))
	press(t, s, specialKey(tea.KeyDown))
	press(t, s, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	press(t, s, specialKey(tea.KeyEnter))
	assert.True(t, s.last.IsCorrect)
	press(t, s, keyPress('n'))

	// Short answer, graded case-insensitively.
	require.True(t, s.freeText)
	for _, r := range "NIL" {
		press(t, s, keyPress(r))
	}
	press(t, s, specialKey(tea.KeyEnter))
	assert.True(t, s.last.IsCorrect)

	// Leaving the last feedback submits the attempt.
	press(t, s, keyPress('n'))
	require.Equal(t, phaseDone, s.phase)
	require.NoError(t, s.err)
	require.NotNil(t, s.result.Score)
	assert.Equal(t, 4, *s.result.Score)
	assert.True(t, *s.result.Passed)
	assert.Equal(t, 4, s.correct)
	assert.Contains(t, s.View(80, 20), "PASSED")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestTimeLimitSubmits(t *testing.T) {
	def := goQuiz()
	def.TimeLimitSecs = 60
	s := newTestScreen(t, def)

	_, cmd := s.Update(s.Init()())
	require.True(t, s.timed)
	require.NotNil(t, cmd)
	assert.NotEmpty(t, s.Status())

	_, cmd = s.Update(tickMsg(s.deadline.Add(time.Second)))
	assert.Equal(t, phaseSubmitting, s.phase)
	run(t, s, cmd)

	require.Equal(t, phaseDone, s.phase)
	require.NotNil(t, s.result.Score)
	assert.Equal(t, 0, *s.result.Score)
	assert.False(t, *s.result.Passed)
}

func TestStartErrorShown(t *testing.T) {
	def := goQuiz()
	s := newTestScreen(t, def)
	s.quizID = "missing"

	run(t, s, s.Init())
	assert.Equal(t, phaseDone, s.phase)
	assert.Error(t, s.err)
	assert.Contains(t, s.View(80, 20), "Error")
}
