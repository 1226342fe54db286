package vision

import (
	"encoding/json"
	"strings"
)

// Result is the outcome of parsing raw model output. When Structured is
// false the model's text was not decodable JSON and Raw carries the
// full output to be used verbatim as a description.
type Result struct {
	Fields     map[string]any
	Raw        string
	Structured bool
}

// Parse extracts a JSON object from the model's raw text, tolerating
// markdown code fences around it. Parsing failures are recovered by
// returning an unstructured result; this function never fails.
func Parse(raw string) Result {
	candidate := stripFences(strings.TrimSpace(raw))

	var fields map[string]any
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return Result{Raw: raw}
	}
	return Result{Fields: fields, Raw: raw, Structured: true}
}

// stripFences returns the contents of a ```json fenced block if
// present, else of the first generic fenced block, else the input.
func stripFences(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return text
}

// String returns the string value of a parsed field, or "" when absent
// or of another type.
func (r Result) String(key string) string {
	if !r.Structured {
		return ""
	}
	value, _ := r.Fields[key].(string)
	return value
}

// Description returns the parsed "description" field, falling back to
// the raw model text so a detection always carries a description.
func (r Result) Description() string {
	if desc := r.String("description"); desc != "" {
		return desc
	}
	return r.Raw
}
