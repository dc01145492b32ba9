package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepcoach/internal/classify"
	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/store"
	"github.com/abhisek/prepcoach/internal/trends"
)

// testEnv isolates a command run: a temp working directory, a temp
// database and no model provider.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PREPCOACH_DB", filepath.Join(dir, "test.db"))
	t.Setenv("PREPCOACH_LLM_PROVIDER", "none")
	t.Setenv("PREPCOACH_LOG_LEVEL", "error")
	return dir
}

// execute runs the root command with args. Flags keep their values
// between runs, so every call passes the output format explicitly.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestClassifyJSON(t *testing.T) {
	testEnv(t)

	out, err := execute(t, "classify", "--output", "json", "--role", "SRE", "How would you design a distributed cache?")
	require.NoError(t, err, out)

	var qc classify.Context
	require.NoError(t, json.Unmarshal([]byte(out), &qc))
	assert.Equal(t, classify.TypeTechnical, qc.Type)
	assert.Equal(t, "system-design", qc.Category)
	assert.Equal(t, classify.DifficultyHard, qc.Difficulty)
	assert.Equal(t, "SRE", qc.Role)
}

func TestSessionFlowFeedsTrends(t *testing.T) {
	testEnv(t)

	_, err := execute(t, "session", "start", "--output", "json", "--user", "ana", "Tell me about a time you led a team")
	require.NoError(t, err)

	out, err := execute(t, "session", "respond", "--output", "json", "--user", "ana", "--session", "",
		"--transcript", "I led the migration and we shipped on time", "--duration", "5s")
	require.NoError(t, err, out)
	var fb session.Feedback
	require.NoError(t, json.Unmarshal([]byte(out), &fb))
	assert.True(t, fb.Analysis.IsFallback())
	assert.NotEmpty(t, fb.Insights)

	out, err = execute(t, "session", "complete", "--output", "json", "--user", "ana", "--session", "")
	require.NoError(t, err, out)
	var snap store.MetricSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "ana", snap.UserID)

	out, err = execute(t, "trends", "--output", "json", "--user", "ana")
	require.NoError(t, err, out)
	var in trends.Insights
	require.NoError(t, json.Unmarshal([]byte(out), &in))
	assert.Equal(t, trends.StateInsufficientData, in.UserState)
	assert.Equal(t, snap.OverallScore, in.CurrentPerformance.OverallScore)

	_, err = execute(t, "session", "complete", "--output", "json", "--user", "ana", "--session", "")
	assert.Error(t, err, "no session left in progress")
}

func TestQuizImportAndList(t *testing.T) {
	dir := testEnv(t)

	def := `{
		"title": "Go basics",
		"passing_score": 1,
		"questions": [
			{"text": "Go is statically typed.", "type": "TRUE_FALSE", "answer": true}
		]
	}`
	path := filepath.Join(dir, "quiz.json")
	require.NoError(t, os.WriteFile(path, []byte(def), 0o644))

	out, err := execute(t, "quiz", "import", "--output", "json", path)
	require.NoError(t, err, out)
	var q store.Quiz
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, "Go basics", q.Title)

	out, err = execute(t, "quiz", "list", "--output", "json")
	require.NoError(t, err, out)
	var quizzes []store.Quiz
	require.NoError(t, json.Unmarshal([]byte(out), &quizzes))
	require.Len(t, quizzes, 1)
	assert.Equal(t, q.ID, quizzes[0].ID)

	out, err = execute(t, "quiz", "start", "--output", "json", "--user", "ana", q.ID)
	require.NoError(t, err, out)
	var started startedAttempt
	require.NoError(t, json.Unmarshal([]byte(out), &started))
	require.Len(t, started.Questions, 1)

	_, err = execute(t, "quiz", "answer", "--output", "json", started.Attempt.ID, started.Questions[0].ID, "yes")
	require.NoError(t, err)

	out, err = execute(t, "quiz", "submit", "--output", "json", started.Attempt.ID)
	require.NoError(t, err, out)
	var a store.Attempt
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	require.NotNil(t, a.Passed)
	assert.True(t, *a.Passed)
}

func TestQuizImportRejectsUnknownFields(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"x","bogus":1}`), 0o644))

	_, err := execute(t, "quiz", "import", "--output", "text", path)
	assert.Error(t, err)
}

func TestReadTranscriptRejectsBoth(t *testing.T) {
	cmd := sessionRespondCmd
	require.NoError(t, cmd.Flags().Set("transcript", "hello"))
	require.NoError(t, cmd.Flags().Set("file", "x.txt"))
	t.Cleanup(func() {
		_ = cmd.Flags().Set("transcript", "")
		_ = cmd.Flags().Set("file", "")
	})

	_, err := readTranscript(cmd)
	assert.Error(t, err)
}
