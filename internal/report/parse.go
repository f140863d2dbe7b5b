package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"singularshift/internal/model"
)

// ErrNoJSONObject means the reply held no decodable JSON object
var ErrNoJSONObject = errors.New("no JSON object in response")

// ParseError describes one report field that was replaced by its default.
// It is logged and never returned to callers of Generate.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse report: %v", e.Err)
	}
	return fmt.Sprintf("parse report field %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errMissing = errors.New("missing or empty")

// stripFences removes Markdown code fences around a model reply
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// decodeObject parses raw as a JSON object, falling back to the first
// object embedded in surrounding prose
func decodeObject(raw string) (map[string]json.RawMessage, error) {
	cleaned := stripFences(raw)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil && obj != nil {
		return obj, nil
	}

	for i := strings.Index(cleaned, "{"); i >= 0; {
		dec := json.NewDecoder(strings.NewReader(cleaned[i:]))
		obj = nil
		if err := dec.Decode(&obj); err == nil && obj != nil {
			return obj, nil
		}
		next := strings.Index(cleaned[i+1:], "{")
		if next < 0 {
			break
		}
		i += next + 1
	}

	if obj := salvageFields(cleaned); len(obj) > 0 {
		return obj, nil
	}
	return nil, ErrNoJSONObject
}

var reportKeys = []string{"readinessScore", "benchmarkSummary", "recommendations", "strengths", "weaknesses"}

// salvageFields recovers individual "key": value pairs from a truncated or
// otherwise invalid object
func salvageFields(s string) map[string]json.RawMessage {
	obj := make(map[string]json.RawMessage)
	for _, key := range reportKeys {
		i := strings.Index(s, `"`+key+`"`)
		if i < 0 {
			continue
		}
		rest := strings.TrimLeft(s[i+len(key)+2:], " \t\r\n")
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		var v json.RawMessage
		if err := json.NewDecoder(strings.NewReader(rest[1:])).Decode(&v); err == nil {
			obj[key] = v
		}
	}
	return obj
}

// ParseReport turns a model reply into an AuditReport. Each field that is
// missing or malformed takes its default on its own; the returned errors
// list what was replaced. RoleCategory is left empty.
func ParseReport(raw string) (model.AuditReport, []error) {
	def := model.DefaultAuditReport()
	def.RoleCategory = ""

	obj, err := decodeObject(raw)
	if err != nil {
		return def, []error{&ParseError{Err: err}}
	}

	var errs []error
	out := def

	score, err := parseScore(obj["readinessScore"])
	if err != nil {
		errs = append(errs, &ParseError{Field: "readinessScore", Err: err})
	} else {
		out.ReadinessScore = score
	}

	if s, err := parseText(obj["benchmarkSummary"]); err != nil {
		errs = append(errs, &ParseError{Field: "benchmarkSummary", Err: err})
	} else {
		out.BenchmarkSummary = s
	}

	lists := []struct {
		key string
		dst *[]string
	}{
		{"recommendations", &out.Recommendations},
		{"strengths", &out.Strengths},
		{"weaknesses", &out.Weaknesses},
	}
	for _, l := range lists {
		items, err := parseList(obj[l.key])
		if err != nil {
			errs = append(errs, &ParseError{Field: l.key, Err: err})
			continue
		}
		*l.dst = items
	}

	return out, errs
}

func parseScore(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errMissing
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("not a number: %s", raw)
	}
	v := math.Round(f)
	if math.IsNaN(v) || v < 0 || v > 100 {
		return 0, fmt.Errorf("out of range: %v", f)
	}
	return int(v), nil
}

func parseText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errMissing
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("not a string: %s", raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errMissing
	}
	return s, nil
}

func parseList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errMissing
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("not a string array: %s", raw)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil, errMissing
	}
	return out, nil
}
