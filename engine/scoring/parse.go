package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The model's output format is not contractually guaranteed: replies arrive
// as bare JSON, fenced JSON, or prose with JSON buried inside. Parsing here
// is deliberately forgiving; callers fall back on any error.

var errNoJSON = errors.New("no structured content in response")

// stripFences removes a Markdown code-fence wrapper if present.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}

// extractDelimited returns the first balanced open...close substring,
// respecting JSON string literals and escapes.
func extractDelimited(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

func extractObject(raw string) (string, bool) {
	return extractDelimited(stripFences(raw), '{', '}')
}

func extractArray(raw string) (string, bool) {
	return extractDelimited(stripFences(raw), '[', ']')
}

var intToken = regexp.MustCompile(`-?\d+`)

// firstInt returns the first integer token found anywhere in s.
func firstInt(s string) (int, bool) {
	tok := intToken.FindString(s)
	if tok == "" {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseScore recovers an integer score from model output. Prefers a JSON
// object with a "score" field; otherwise takes the first integer token.
// Always clamps to [0, 100].
func parseScore(raw string) (int, error) {
	if obj, ok := extractObject(raw); ok {
		var data map[string]any
		if err := json.Unmarshal([]byte(obj), &data); err == nil {
			if n, ok := coerceInt(data["score"]); ok {
				return clampScore(n), nil
			}
		}
	}
	if n, ok := firstInt(stripFences(raw)); ok {
		return clampScore(n), nil
	}
	return 0, fmt.Errorf("parse score: %w", errNoJSON)
}

// parseFeedback recovers feedback text/details from model output. The
// category is always computed locally from the score, never trusted from the
// model.
func parseFeedback(raw string, score int) (Feedback, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return Feedback{}, fmt.Errorf("parse feedback: %w", errNoJSON)
	}

	var data struct {
		Text    string `json:"text"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal([]byte(obj), &data); err != nil {
		return Feedback{}, fmt.Errorf("parse feedback: %w", err)
	}

	text := strings.TrimSpace(data.Text)
	details := strings.TrimSpace(data.Details)
	if text == "" {
		return Feedback{}, errors.New("parse feedback: missing text field")
	}
	if details == "" {
		details = text
	}

	return Feedback{Text: text, Category: CategoryOf(score), Details: details}, nil
}

// parseQuestions recovers interview questions from model output. Accepts
// both reply shapes seen in the wild, an array of {question, rationale}
// objects or a bare array of strings, and normalizes to the object shape.
func parseQuestions(raw string) ([]Question, error) {
	arr, ok := extractArray(raw)
	if !ok {
		return nil, fmt.Errorf("parse questions: %w", errNoJSON)
	}

	var items []any
	if err := json.Unmarshal([]byte(arr), &items); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}

	var out []Question
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if q := strings.TrimSpace(v); q != "" {
				out = append(out, Question{Question: q})
			}
		case map[string]any:
			q := strings.TrimSpace(coerceString(v["question"]))
			if q == "" {
				continue
			}
			out = append(out, Question{
				Question:  q,
				Rationale: strings.TrimSpace(coerceString(v["rationale"])),
			})
		}
	}
	if len(out) == 0 {
		return nil, errors.New("parse questions: no usable entries")
	}
	return out, nil
}

func coerceInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case string:
		return firstInt(val)
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
