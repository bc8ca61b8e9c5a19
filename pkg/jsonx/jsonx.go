// Package jsonx repairs and coerces JSON emitted by generative models.
//
// Providers routinely wrap JSON in markdown fences despite instructions not
// to, and occasionally emit raw control characters inside string values when
// echoing multi-line text. Sanitize corrects both faults without altering
// semantic content; Coerce maps the parsed object onto a fixed target shape
// so consumers never see a missing field.
package jsonx

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```[a-zA-Z0-9]*\n?")

// Sanitize returns text that is best-effort parseable as JSON. It removes
// markdown fence markers (with or without a language tag) and escapes literal
// newline, carriage-return and tab characters found inside JSON string
// literals. Already-clean JSON passes through unchanged.
func Sanitize(raw string) string {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	return escapeControlChars(cleaned)
}

// escapeControlChars is a two-state automaton (outside-string, inside-string)
// with an escaped flag. Inside a string literal, bare \n, \r and \t become
// their two-character escape sequences so the string stays a single JSON
// token. Everything outside strings passes through untouched.
func escapeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch {
		case r == '\\':
			escaped = true
			b.WriteRune(r)
		case r == '"':
			inString = !inString
			b.WriteRune(r)
		case inString && r == '\n':
			b.WriteString(`\n`)
		case inString && r == '\r':
			b.WriteString(`\r`)
		case inString && r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseObject unmarshals sanitized text into a generic object. Callers
// surface the error as a generation failure; there is no retry at this layer.
func ParseObject(s string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("op=jsonx.ParseObject: %w", err)
	}
	return m, nil
}

// Field names one target field and the value substituted when the source
// object lacks it (or carries an explicit null).
type Field struct {
	Name    string
	Default any
}

// Schema declares the target shape for Coerce. When VariantKey is set and
// present on the source while PrimaryField is absent at top level, fields are
// read from the nested object instead (handles providers that wrap output in
// an extra envelope).
type Schema struct {
	Fields       []Field
	VariantKey   string
	PrimaryField string
}

// Coerce maps src onto the schema's target shape. For each target field the
// source value is taken if present and non-nil, otherwise the configured
// default. Never fails; always returns a fully-populated object.
func Coerce(src map[string]any, sc Schema) map[string]any {
	if src == nil {
		src = map[string]any{}
	}
	if sc.VariantKey != "" {
		if _, hasPrimary := src[sc.PrimaryField]; !hasPrimary {
			if nested, ok := src[sc.VariantKey].(map[string]any); ok {
				src = nested
			}
		}
	}
	out := make(map[string]any, len(sc.Fields))
	for _, f := range sc.Fields {
		if v, ok := src[f.Name]; ok && v != nil {
			out[f.Name] = v
			continue
		}
		out[f.Name] = f.Default
	}
	return out
}

// Decode round-trips a coerced object into a typed struct.
func Decode(m map[string]any, v any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("op=jsonx.Decode: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("op=jsonx.Decode: %w", err)
	}
	return nil
}
