package classify

// Lexicon holds the keyword tables used for classification.
// Treat a Lexicon as immutable once passed to New.
type Lexicon struct {
	// Types are matched in order; the first rule with a hit wins.
	Types []TypeRule

	// Categories maps each question type to its ordered category rules.
	Categories map[QuestionType][]CategoryRule

	// DefaultCategory is the leaf used when no category rule matches.
	DefaultCategory map[QuestionType]string

	// HardTerms are checked before EasyTerms.
	HardTerms []string
	EasyTerms []string
}

// TypeRule maps keywords to a question type.
type TypeRule struct {
	Type     QuestionType
	Keywords []string
}

// CategoryRule maps keywords to a sub-category name.
type CategoryRule struct {
	Name     string
	Keywords []string
}

// DefaultLexicon returns the built-in keyword tables.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Types: []TypeRule{
			{Type: TypeBehavioral, Keywords: []string{
				"tell me about a time", "describe a situation", "give an example",
				"give me an example", "when did you", "how did you handle",
				"what would you do if", "have you ever", "share an experience",
			}},
			{Type: TypeTechnical, Keywords: []string{
				"how would you", "explain", "implement", "algorithm", "database",
				"system design", "design a", "code", "complexity", "data structure",
			}},
			{Type: TypeSituational, Keywords: []string{
				"what if", "imagine", "hypothetical", "suppose", "scenario",
			}},
		},
		Categories: map[QuestionType][]CategoryRule{
			TypeBehavioral: {
				{Name: "conflict-resolution", Keywords: []string{"conflict", "disagree", "difficult coworker", "difficult colleague"}},
				{Name: "leadership", Keywords: []string{"lead", "mentor", "team", "initiative"}},
				{Name: "learning-from-failure", Keywords: []string{"fail", "mistake", "setback", "went wrong"}},
				{Name: "problem-solving", Keywords: []string{"problem", "challenge", "obstacle"}},
				{Name: "time-management", Keywords: []string{"deadline", "prioritiz", "prioritis", "pressure"}},
			},
			TypeTechnical: {
				{Name: "system-design", Keywords: []string{"system design", "design a", "architecture", "scale"}},
				{Name: "algorithms", Keywords: []string{"algorithm", "complexity", "data structure", "sort"}},
				{Name: "databases", Keywords: []string{"database", "sql", "query", "index"}},
				{Name: "coding", Keywords: []string{"implement", "code", "debug", "function"}},
			},
			TypeSituational: {
				{Name: "customer-focus", Keywords: []string{"customer", "client", "user complaint"}},
				{Name: "teamwork", Keywords: []string{"team", "colleague", "coworker"}},
				{Name: "ethics", Keywords: []string{"ethic", "integrity", "dishonest"}},
			},
			TypeGeneral: {
				{Name: "motivation", Keywords: []string{"why do you want", "why are you interested", "motivat"}},
				{Name: "self-assessment", Keywords: []string{"strength", "weakness"}},
				{Name: "career-goals", Keywords: []string{"five years", "5 years", "career", "goal"}},
			},
		},
		DefaultCategory: map[QuestionType]string{
			TypeBehavioral:  "general-behavioral",
			TypeTechnical:   "general-technical",
			TypeSituational: "general-situational",
			TypeGeneral:     "general",
		},
		HardTerms: []string{
			"complex", "architecture", "scalab", "distributed", "optimiz",
			"trade-off", "tradeoff", "concurren", "system design", "large-scale",
		},
		EasyTerms: []string{
			"basic", "simple", "what is", "tell me about yourself",
			"introduce yourself", "define",
		},
	}
}
