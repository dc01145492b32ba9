package coaching

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/classify"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/logging"
)

// ProviderFallback tags payloads substituted after a provider or parse
// failure.
const ProviderFallback = "fallback"

// Fallback scores used when the model cannot produce an analysis.
const (
	FallbackOverallScore       = 70
	FallbackContentScore       = 70
	FallbackStructureScore     = 70
	FallbackCommunicationScore = 70
)

// analysisScoreFields are the required score fields, in Analysis order.
var analysisScoreFields = [...]string{"overallScore", "contentScore", "structureScore", "communicationScore"}

// AnalystConfig holds generation parameters for model calls.
type AnalystConfig struct {
	MaxTokens   int
	Temperature float64

	// SuggestionCount is how many practice questions to ask for when the
	// caller does not say.
	SuggestionCount int
}

// DefaultAnalystConfig returns sensible defaults.
func DefaultAnalystConfig() AnalystConfig {
	return AnalystConfig{
		MaxTokens:       1024,
		Temperature:     0.3,
		SuggestionCount: 5,
	}
}

// Analysis is a scored assessment of one answer.
type Analysis struct {
	OverallScore       int      `json:"overallScore"`
	ContentScore       int      `json:"contentScore"`
	StructureScore     int      `json:"structureScore"`
	CommunicationScore int      `json:"communicationScore"`
	Strengths          []string `json:"strengths"`
	Improvements       []string `json:"improvements"`
	Summary            string   `json:"summary"`

	// Provider is the model that produced the analysis, or "fallback".
	Provider string `json:"provider"`
}

// IsFallback reports whether a was substituted after a failure.
func (a Analysis) IsFallback() bool { return a.Provider == ProviderFallback }

// AnalysisRequest is the input to AnalyzeAnswer.
type AnalysisRequest struct {
	Question   string
	Context    classify.Context
	Transcript string
}

// SuggestedQuestion is one practice question proposed by the model.
type SuggestedQuestion struct {
	Question string                `json:"question"`
	Type     classify.QuestionType `json:"type"`
}

// Suggestions is the result of SuggestQuestions.
type Suggestions struct {
	Questions []SuggestedQuestion `json:"questions"`
	Provider  string              `json:"provider"`
}

// SuggestRequest is the input to SuggestQuestions.
type SuggestRequest struct {
	Role     string
	Industry string
	Count    int
}

// Analyst asks the language model to analyze answers and suggest
// practice questions. Every call returns a usable payload: failures are
// logged and replaced with fixed fallbacks.
type Analyst struct {
	provider   llm.Provider
	cfg        AnalystConfig
	classifier *classify.Classifier
	logger     *zap.Logger
}

// NewAnalyst creates an Analyst. A nil logger discards output.
func NewAnalyst(provider llm.Provider, cfg AnalystConfig, classifier *classify.Classifier, logger *zap.Logger) *Analyst {
	if classifier == nil {
		classifier = classify.New(classify.DefaultLexicon())
	}
	return &Analyst{
		provider:   provider,
		cfg:        cfg,
		classifier: classifier,
		logger:     logging.OrNop(logger),
	}
}

// AnalyzeAnswer scores req.Transcript. Scores are clamped to [0,100]; a
// score that is not a number makes the whole reply a fallback.
func (a *Analyst) AnalyzeAnswer(ctx context.Context, req AnalysisRequest) Analysis {
	ctx = llm.WithPurpose(ctx, llm.PurposeAnswerAnalysis)

	prompt, err := render(analysisUserTemplate, req)
	if err != nil {
		return a.analysisFallback(err)
	}

	resp, err := a.provider.Generate(ctx, llm.UserPrompt(analysisSystemPrompt, prompt, a.cfg.MaxTokens, a.cfg.Temperature))
	if err != nil {
		return a.analysisFallback(err)
	}

	var raw map[string]any
	if err := llm.DecodeObject(resp.Text(), AnalysisSchema, &raw); err != nil {
		return a.analysisFallback(err)
	}

	var scores [len(analysisScoreFields)]int
	for i, field := range analysisScoreFields {
		n, ok := llm.ParseInt(raw[field], 0, 100)
		if !ok {
			return a.analysisFallback(&llm.ErrUnparsable{
				Raw: resp.Text(),
				Err: fmt.Errorf("%s is not a number: %v", field, raw[field]),
			})
		}
		scores[i] = n
	}

	provider := resp.Model
	if provider == "" {
		provider = a.provider.ModelID()
	}
	return Analysis{
		OverallScore:       scores[0],
		ContentScore:       scores[1],
		StructureScore:     scores[2],
		CommunicationScore: scores[3],
		Strengths:          llm.CoerceStrings(raw["strengths"]),
		Improvements:       llm.CoerceStrings(raw["improvements"]),
		Summary:            llm.CoerceString(raw["summary"], ""),
		Provider:           provider,
	}
}

func (a *Analyst) analysisFallback(err error) Analysis {
	a.logger.Warn("answer analysis unavailable, using fallback", zap.Error(err))
	return FallbackAnalysis()
}

// FallbackAnalysis is the fixed payload returned when the model fails.
func FallbackAnalysis() Analysis {
	return Analysis{
		OverallScore:       FallbackOverallScore,
		ContentScore:       FallbackContentScore,
		StructureScore:     FallbackStructureScore,
		CommunicationScore: FallbackCommunicationScore,
		Strengths:          []string{"You gave a complete answer to the question."},
		Improvements: []string{
			"Add a concrete, measurable result.",
			"Follow a clear structure from setup to outcome.",
		},
		Summary:  "Automated analysis is unavailable right now; scores are defaults.",
		Provider: ProviderFallback,
	}
}

// SuggestQuestions asks the model for practice questions fitting the
// role and industry. Items without text are dropped; unknown types are
// re-derived by classifying the question.
func (a *Analyst) SuggestQuestions(ctx context.Context, req SuggestRequest) Suggestions {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionSuggestions)
	if req.Count <= 0 {
		req.Count = a.cfg.SuggestionCount
	}

	prompt, err := render(suggestUserTemplate, req)
	if err != nil {
		return a.suggestFallback(err)
	}

	resp, err := a.provider.Generate(ctx, llm.UserPrompt(suggestSystemPrompt, prompt, a.cfg.MaxTokens, a.cfg.Temperature))
	if err != nil {
		return a.suggestFallback(err)
	}

	var raw []map[string]any
	if err := llm.DecodeArray(resp.Text(), SuggestionsSchema, &raw); err != nil {
		return a.suggestFallback(err)
	}

	out := Suggestions{Provider: resp.Model}
	if out.Provider == "" {
		out.Provider = a.provider.ModelID()
	}
	for _, item := range raw {
		text := llm.CoerceString(item["question"], "")
		if text == "" {
			continue
		}
		qt := classify.QuestionType(llm.CoerceString(item["type"], ""))
		if !validType(qt) {
			qt = a.classifier.Classify(text, req.Role, req.Industry).Type
		}
		out.Questions = append(out.Questions, SuggestedQuestion{Question: text, Type: qt})
		if len(out.Questions) == req.Count {
			break
		}
	}
	if len(out.Questions) == 0 {
		return a.suggestFallback(&llm.ErrUnparsable{Raw: resp.Text(), Err: errors.New("no usable questions")})
	}
	return out
}

func (a *Analyst) suggestFallback(err error) Suggestions {
	a.logger.Warn("question suggestions unavailable, using fallback", zap.Error(err))
	return FallbackSuggestions()
}

// FallbackSuggestions is the fixed question set returned when the model
// fails.
func FallbackSuggestions() Suggestions {
	return Suggestions{
		Questions: []SuggestedQuestion{
			{Question: "Tell me about yourself.", Type: classify.TypeGeneral},
			{Question: "Tell me about a time you had a conflict with a coworker.", Type: classify.TypeBehavioral},
			{Question: "Describe a situation where you missed a deadline.", Type: classify.TypeBehavioral},
			{Question: "How would you design a URL shortener?", Type: classify.TypeTechnical},
			{Question: "What if a customer escalated an issue directly to you?", Type: classify.TypeSituational},
		},
		Provider: ProviderFallback,
	}
}

func validType(qt classify.QuestionType) bool {
	switch qt {
	case classify.TypeBehavioral, classify.TypeTechnical, classify.TypeSituational, classify.TypeGeneral:
		return true
	}
	return false
}

const analysisSystemPrompt = `You are an experienced interview coach. Score the candidate's spoken answer.

Instructions:
- Reply with a single JSON object and nothing else.
- Fields: overallScore, contentScore, structureScore, communicationScore (integers 0-100),
  strengths (array of short strings), improvements (array of short strings), summary (one sentence).
- Judge the answer against the question type and the expected answer structure.
- Be specific: cite what the candidate actually said.`

var analysisUserTemplate = template.Must(template.New("analysis").Parse(`Question: {{.Question}}
Question type: {{.Context.Type}} ({{.Context.Category}}, {{.Context.Difficulty}})
{{if .Context.Role}}Role: {{.Context.Role}}
{{end}}{{if .Context.Industry}}Industry: {{.Context.Industry}}
{{end}}
Candidate's answer:
{{.Transcript}}`))

const suggestSystemPrompt = `You are an experienced interview coach. Propose realistic interview questions for practice.

Instructions:
- Reply with a single JSON array and nothing else.
- Each item is an object with "question" (string) and "type"
  (one of "behavioral", "technical", "situational", "general").
- Mix question types and avoid duplicates.`

var suggestUserTemplate = template.Must(template.New("suggest").Parse(`Number of questions: {{.Count}}
{{if .Role}}Role: {{.Role}}
{{end}}{{if .Industry}}Industry: {{.Industry}}
{{end}}`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
