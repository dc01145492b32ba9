package coaching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/prepcoach/internal/classify"
	"github.com/abhisek/prepcoach/internal/llm"
)

func newTestAnalyst(t *testing.T, responses ...llm.MockResponse) (*Analyst, *llm.MockProvider, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	mock := llm.NewMockProvider(responses...)
	return NewAnalyst(mock, DefaultAnalystConfig(), nil, zap.New(core)), mock, logs
}

var conflictRequest = AnalysisRequest{
	Question:   "Tell me about a time you had a conflict with a coworker",
	Context:    classify.Context{Type: classify.TypeBehavioral, Category: "conflict-resolution", Difficulty: "medium", Role: "backend engineer"},
	Transcript: "We disagreed on the rollout plan, so I set up a call and we agreed on a canary.",
}

func TestAnalyzeAnswer_ParsesFencedJSON(t *testing.T) {
	a, mock, logs := newTestAnalyst(t, llm.MockText("Here you go:\n```json\n"+
		`{"overallScore": 82.4, "contentScore": "75", "structureScore": 140, "communicationScore": -3,`+
		` "strengths": ["Clear outcome", 3], "improvements": "Quantify the impact", "summary": "Solid answer."}`+
		"\n```"))

	got := a.AnalyzeAnswer(context.Background(), conflictRequest)

	assert.Equal(t, 82, got.OverallScore)
	assert.Equal(t, 75, got.ContentScore)
	assert.Equal(t, 100, got.StructureScore)
	assert.Equal(t, 0, got.CommunicationScore)
	assert.Equal(t, []string{"Clear outcome", "3"}, got.Strengths)
	assert.Equal(t, []string{"Quantify the impact"}, got.Improvements)
	assert.Equal(t, "Solid answer.", got.Summary)
	assert.Equal(t, "mock", got.Provider)
	assert.False(t, got.IsFallback())
	assert.Zero(t, logs.Len())

	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, []llm.Purpose{llm.PurposeAnswerAnalysis}, mock.Purposes)
	req := mock.Calls[0]
	assert.Nil(t, req.Schema)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "Role: backend engineer")
	assert.Contains(t, req.Messages[0].Content, "agreed on a canary")
}

func TestAnalyzeAnswer_Fallback(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"unparsable text", llm.MockText("I think this answer was pretty good overall!")},
		{"missing fields", llm.MockText(`{"overallScore": 90}`)},
		{"truncated json", llm.MockText(`{"overallScore": 90, "contentScore": 80,`)},
		{"word scores", llm.MockText(`{"overallScore": "excellent", "contentScore": "n/a", "structureScore": "good", "communicationScore": "great"}`)},
		{"one word score", llm.MockText(`{"overallScore": 88, "contentScore": "80", "structureScore": "solid", "communicationScore": 75}`)},
		{"provider error", llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, logs := newTestAnalyst(t, tt.resp)

			got := a.AnalyzeAnswer(context.Background(), conflictRequest)

			assert.Equal(t, FallbackAnalysis(), got)
			assert.Equal(t, ProviderFallback, got.Provider)
			assert.Equal(t, FallbackOverallScore, got.OverallScore)
			assert.NotEmpty(t, got.Strengths)
			assert.Equal(t, 1, logs.FilterMessage("answer analysis unavailable, using fallback").Len())
		})
	}
}

func TestAnalyzeAnswer_DisabledProvider(t *testing.T) {
	a := NewAnalyst(llm.Disabled(), DefaultAnalystConfig(), nil, nil)
	got := a.AnalyzeAnswer(context.Background(), conflictRequest)
	assert.True(t, got.IsFallback())
}

func TestSuggestQuestions(t *testing.T) {
	a, mock, _ := newTestAnalyst(t, llm.MockText(`[
		{"question": "How would you design a rate limiter?", "type": "technical"},
		{"question": "  ", "type": "general"},
		{"question": "Tell me about a time you missed a deadline", "type": "story"},
		{"question": "Why this company?"}
	]`))

	got := a.SuggestQuestions(context.Background(), SuggestRequest{Role: "SRE", Count: 2})
	assert.Equal(t, []llm.Purpose{llm.PurposeQuestionSuggestions}, mock.Purposes)

	assert.Equal(t, "mock", got.Provider)
	assert.Equal(t, []SuggestedQuestion{
		{Question: "How would you design a rate limiter?", Type: classify.TypeTechnical},
		{Question: "Tell me about a time you missed a deadline", Type: classify.TypeBehavioral},
	}, got.Questions)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Number of questions: 2")
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Role: SRE")
}

func TestSuggestQuestions_DefaultCount(t *testing.T) {
	a, mock, _ := newTestAnalyst(t)
	got := a.SuggestQuestions(context.Background(), SuggestRequest{})

	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Number of questions: 5")
	assert.Equal(t, FallbackSuggestions(), got)
}

func TestSuggestQuestions_Fallback(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"object instead of array", `{"question": "Why?"}`},
		{"no usable items", `[{"question": ""}, {"type": "general"}]`},
		{"prose", "Sorry, I can't help with that."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, logs := newTestAnalyst(t, llm.MockText(tt.text))
			got := a.SuggestQuestions(context.Background(), SuggestRequest{Count: 3})
			assert.Equal(t, ProviderFallback, got.Provider)
			assert.Len(t, got.Questions, 5)
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestAnalyzeAnswer_ReportsRespondingModel(t *testing.T) {
	reply := llm.MockText(`{"overallScore": 77, "contentScore": 70, "structureScore": 80, "communicationScore": 81}`)
	reply.Model = "claude-sonnet-4"
	a, _, _ := newTestAnalyst(t, reply)

	got := a.AnalyzeAnswer(context.Background(), conflictRequest)

	assert.Equal(t, "claude-sonnet-4", got.Provider)
	assert.Equal(t, 77, got.OverallScore)
	assert.Equal(t, []string{}, got.Strengths)
}
