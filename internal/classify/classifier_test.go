package classify

import (
	"testing"

	"github.com/abhisek/prepcoach/internal/apperr"
)

func TestClassify(t *testing.T) {
	c := New(DefaultLexicon())

	tests := []struct {
		name     string
		text     string
		wantType QuestionType
		wantCat  string
		wantDiff Difficulty
	}{
		{
			name:     "behavioral conflict",
			text:     "Tell me about a time you had a conflict with a coworker",
			wantType: TypeBehavioral,
			wantCat:  "conflict-resolution",
			wantDiff: DifficultyMedium,
		},
		{
			name:     "behavioral leadership",
			text:     "Tell me about a time you led a team through a reorg",
			wantType: TypeBehavioral,
			wantCat:  "leadership",
			wantDiff: DifficultyMedium,
		},
		{
			name:     "behavioral failure",
			text:     "Tell me about a time you failed at something",
			wantType: TypeBehavioral,
			wantCat:  "learning-from-failure",
			wantDiff: DifficultyMedium,
		},
		{
			name:     "behavioral mistake",
			text:     "Describe a situation where you made a mistake",
			wantType: TypeBehavioral,
			wantCat:  "learning-from-failure",
			wantDiff: DifficultyMedium,
		},
		{
			name:     "technical system design is hard",
			text:     "How would you design a distributed cache?",
			wantType: TypeTechnical,
			wantCat:  "system-design",
			wantDiff: DifficultyHard,
		},
		{
			name:     "technical basic",
			text:     "Explain a basic REST API",
			wantType: TypeTechnical,
			wantCat:  "general-technical",
			wantDiff: DifficultyEasy,
		},
		{
			name:     "situational default leaf",
			text:     "What if your manager asked you to cut corners?",
			wantType: TypeSituational,
			wantCat:  "general-situational",
			wantDiff: DifficultyMedium,
		},
		{
			name:     "situational customer",
			text:     "Imagine an angry customer calls you directly",
			wantType: TypeSituational,
			wantCat:  "customer-focus",
			wantDiff: DifficultyMedium,
		},
		{
			name:     "general motivation",
			text:     "Why do you want to work here?",
			wantType: TypeGeneral,
			wantCat:  "motivation",
			wantDiff: DifficultyMedium,
		},
		{
			name:     "general easy",
			text:     "Tell me about yourself",
			wantType: TypeGeneral,
			wantCat:  "general",
			wantDiff: DifficultyEasy,
		},
		{
			name:     "empty text",
			text:     "",
			wantType: TypeGeneral,
			wantCat:  "general",
			wantDiff: DifficultyMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, "", "")
			if got.Type != tt.wantType {
				t.Errorf("type = %q, want %q", got.Type, tt.wantType)
			}
			if got.Category != tt.wantCat {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCat)
			}
			if got.Difficulty != tt.wantDiff {
				t.Errorf("difficulty = %q, want %q", got.Difficulty, tt.wantDiff)
			}
		})
	}
}

func TestClassify_BehavioralWinsOverTechnical(t *testing.T) {
	c := New(DefaultLexicon())
	got := c.Classify("Tell me about a time you had to explain a complex algorithm", "", "")
	if got.Type != TypeBehavioral {
		t.Fatalf("type = %q, want behavioral", got.Type)
	}
	if got.Difficulty != DifficultyHard {
		t.Fatalf("difficulty = %q, want hard", got.Difficulty)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := New(DefaultLexicon())
	got := c.Classify("TELL ME ABOUT A TIME YOU DISAGREED WITH YOUR BOSS", "", "")
	if got.Type != TypeBehavioral || got.Category != "conflict-resolution" {
		t.Fatalf("got %+v", got)
	}
}

func TestClassify_CarriesRoleAndIndustry(t *testing.T) {
	c := New(DefaultLexicon())
	got := c.Classify("Why do you want this job?", "backend engineer", "fintech")
	if got.Role != "backend engineer" || got.Industry != "fintech" {
		t.Fatalf("got %+v", got)
	}
}

func TestClassify_CustomLexicon(t *testing.T) {
	lex := Lexicon{
		Types: []TypeRule{{Type: TypeTechnical, Keywords: []string{"kubernetes"}}},
	}
	got := New(lex).Classify("What do you know about Kubernetes?", "", "")
	if got.Type != TypeTechnical {
		t.Fatalf("type = %q, want technical", got.Type)
	}
	if got.Category != "general" {
		t.Fatalf("category = %q, want general fallback", got.Category)
	}
}

func TestValidateText(t *testing.T) {
	if err := ValidateText("  \n"); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := ValidateText("Why us?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
