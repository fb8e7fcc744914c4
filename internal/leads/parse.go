package leads

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "creatorsite/pkg/errors"
)

//go:embed lead_candidate.schema.json
var candidateSchemaJSON []byte

var (
	candidateSchema = mustSchema(candidateSchemaJSON)
	codeFence       = regexp.MustCompile("(?i)```(?:json)?\r?\n?")
)

func mustSchema(raw []byte) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("leads: invalid candidate schema: %v", err))
	}
	return schema
}

// Parse recovers a JSON array of leads from pasted text and normalizes every
// element. Code fences and prose around the outermost brackets are ignored.
// The first invalid element fails the whole batch. Nothing is stored.
func Parse(text string, nctx NormalizeContext) ([]Candidate, error) {
	payload := extractArray(text)

	var data any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, &apperrors.AppError{
			Code:    apperrors.ErrCodeValidation,
			Message: "could not parse pasted text as JSON",
			Field:   "text",
			Err:     err,
		}
	}

	values, ok := data.([]any)
	if !ok {
		return nil, apperrors.Validation("text", "expected a JSON array of leads")
	}
	return ParseValues(values, nctx)
}

// ParseValues validates and normalizes already decoded lead objects.
func ParseValues(values []any, nctx NormalizeContext) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(values))
	for i, v := range values {
		field := fmt.Sprintf("leads[%d]", i)

		raw, ok := v.(map[string]any)
		if !ok {
			return nil, apperrors.Validation(field, fmt.Sprintf("lead %d must be a JSON object", i+1))
		}

		result, err := candidateSchema.Validate(gojsonschema.NewGoLoader(raw))
		if err != nil {
			return nil, apperrors.Validation(field, fmt.Sprintf("lead %d could not be validated: %v", i+1, err))
		}
		if !result.Valid() {
			return nil, apperrors.Validation(field, fmt.Sprintf("lead %d is missing company_name", i+1))
		}

		c, err := Normalize(raw, nctx)
		if err != nil {
			return nil, apperrors.Validation(field, fmt.Sprintf("lead %d is missing company_name", i+1))
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// extractArray strips code fences and keeps the text between the first '['
// and the last ']'. Without both brackets the cleaned text is returned.
func extractArray(text string) string {
	cleaned := codeFence.ReplaceAllString(strings.TrimSpace(text), "")
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start >= 0 && end > start {
		return cleaned[start : end+1]
	}
	return strings.TrimSpace(cleaned)
}

// CandidateKeys lists every key a pasted lead may carry, with nested social
// handles written as "socials.<network>".
func CandidateKeys() []string {
	var schema struct {
		Properties map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(candidateSchemaJSON, &schema); err != nil {
		return nil
	}

	var keys []string
	for name, prop := range schema.Properties {
		keys = append(keys, name)
		for nested := range prop.Properties {
			keys = append(keys, name+"."+nested)
		}
	}
	sort.Strings(keys)
	return keys
}
