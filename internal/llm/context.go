package llm

import "context"

// Purpose labels what a model call is for. It is recorded with every
// logged request and is the grouping key of `llm stats`.
type Purpose string

const (
	PurposeAnswerAnalysis      Purpose = "answer-analysis"
	PurposeQuestionSuggestions Purpose = "question-suggestions"
	PurposeUnknown             Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose returns a copy of ctx carrying p.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose carried by ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
