package quiz

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/abhisek/prepcoach/internal/store"
)

var (
	trueWords  = []string{"t", "true", "yes", "y", "1"}
	falseWords = []string{"f", "false", "no", "n", "0"}
)

// Normalize trims s, folds case and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

// IsCorrect reports whether answer matches the question's correct answer
// after normalization.
func IsCorrect(q store.Question, answer []string) bool {
	got := normalizeAll(answer)
	want := normalizeAll(q.CorrectAnswer)

	switch q.Type {
	case store.MultipleSelect:
		return len(want) > 0 && slices.Equal(toSet(got), toSet(want))
	case store.TrueFalse:
		if len(got) != 1 || len(want) != 1 {
			return false
		}
		g, ok1 := parseBool(got[0])
		w, ok2 := parseBool(want[0])
		return ok1 && ok2 && g == w
	default:
		return len(got) == 1 && len(want) == 1 && got[0] == want[0]
	}
}

// normalizeAll normalizes each value and drops empties.
func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func toSet(values []string) []string {
	s := slices.Clone(values)
	slices.Sort(s)
	return slices.Compact(s)
}

func parseBool(s string) (value, ok bool) {
	switch {
	case slices.Contains(trueWords, s):
		return true, true
	case slices.Contains(falseWords, s):
		return false, true
	}
	return false, false
}
