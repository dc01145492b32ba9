package coaching

import "github.com/abhisek/prepcoach/internal/llm"

// AnalysisSchema lists the fields an answer analysis must carry. Values
// are checked loosely and clamped after decoding, since models often
// quote numbers.
var AnalysisSchema = &llm.Schema{
	Name:        "answer-analysis",
	Description: "Scored assessment of an interview answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overallScore":       map[string]any{"type": []any{"number", "string"}},
			"contentScore":       map[string]any{"type": []any{"number", "string"}},
			"structureScore":     map[string]any{"type": []any{"number", "string"}},
			"communicationScore": map[string]any{"type": []any{"number", "string"}},
			"strengths":          map[string]any{"type": []any{"array", "string"}},
			"improvements":       map[string]any{"type": []any{"array", "string"}},
			"summary":            map[string]any{"type": []any{"string", "null"}},
		},
		"required": []any{"overallScore", "contentScore", "structureScore", "communicationScore"},
	},
}

// SuggestionsSchema describes a list of suggested practice questions.
var SuggestionsSchema = &llm.Schema{
	Name:        "question-suggestions",
	Description: "Practice interview questions",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"question"},
		},
	},
}
