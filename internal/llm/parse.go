package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StripCodeFences removes markdown code fences (```json / ```) that models
// often wrap around JSON, plus any stray backticks at either end.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "json"), "JSON")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.Trim(strings.TrimSpace(s), "`")
}

// ExtractObject returns the substring from the first '{' to the last '}'
// after stripping code fences.
func ExtractObject(s string) (string, error) {
	return extractBetween(s, '{', '}')
}

// ExtractArray returns the substring from the first '[' to the last ']'
// after stripping code fences.
func ExtractArray(s string) (string, error) {
	return extractBetween(s, '[', ']')
}

func extractBetween(s string, open, close byte) (string, error) {
	clean := StripCodeFences(s)
	start := strings.IndexByte(clean, open)
	end := strings.LastIndexByte(clean, close)
	if start < 0 || end <= start {
		return "", &ErrUnparsable{Raw: s, Err: fmt.Errorf("no %c...%c span found", open, close)}
	}
	return clean[start : end+1], nil
}

// DecodeObject extracts the JSON object from model text, checks it against
// schema (when non-nil) and unmarshals it into v.
func DecodeObject(text string, schema *Schema, v any) error {
	raw, err := ExtractObject(text)
	if err != nil {
		return err
	}
	return decode(text, raw, schema, v)
}

// DecodeArray is DecodeObject for a top-level JSON array.
func DecodeArray(text string, schema *Schema, v any) error {
	raw, err := ExtractArray(text)
	if err != nil {
		return err
	}
	return decode(text, raw, schema, v)
}

func decode(text, raw string, schema *Schema, v any) error {
	if err := validateResponse(schema, json.RawMessage(raw)); err != nil {
		var inv *ErrInvalidResponse
		if errors.As(err, &inv) {
			return &ErrUnparsable{Raw: text, Err: inv.Err}
		}
		return &ErrUnparsable{Raw: text, Err: err}
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &ErrUnparsable{Raw: text, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	return min(hi, max(lo, v))
}

// ParseInt converts a decoded JSON value (number or numeric string) to a
// rounded int clamped to [lo, hi]. It reports false for anything else,
// including NaN and infinities.
func ParseInt(v any, lo, hi int) (int, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(x, "%")), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return ClampInt(int(math.Round(f)), lo, hi), true
}

// CoerceInt is ParseInt with def substituted on failure.
func CoerceInt(v any, lo, hi, def int) int {
	if n, ok := ParseInt(v, lo, hi); ok {
		return n
	}
	return def
}

// CoerceStrings converts a decoded JSON value to a string slice. A lone
// string becomes a one-element slice; non-string array items are
// formatted; anything else yields an empty, non-nil slice.
func CoerceStrings(v any) []string {
	out := []string{}
	switch x := v.(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range x {
			switch it := item.(type) {
			case nil:
			case string:
				if s := strings.TrimSpace(it); s != "" {
					out = append(out, s)
				}
			default:
				out = append(out, fmt.Sprint(it))
			}
		}
	}
	return out
}

// CoerceString returns v as a trimmed string, or def when v is not a
// non-empty string.
func CoerceString(v any, def string) string {
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return def
}
