package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// The normalizer recovers structured data from loosely formatted model
// output: markdown fences, surrounding prose, or a requested list wrapped
// in an object. It is deterministic and side-effect free.

// NormalizeObject extracts a JSON object from raw model output.
func NormalizeObject(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response text", ErrInvalidInput)
	}
	text = stripFirstFence(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		if json.Valid([]byte(text)) {
			return nil, fmt.Errorf("%w: expected object, got %s", ErrShapeMismatch, previewOf(text))
		}
		return nil, fmt.Errorf("%w in %s", ErrNoJSONFound, previewOf(text))
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return obj, nil
}

// NormalizeList extracts a JSON list from raw model output. If the output is
// an object instead, the first list-valued entry (in document order) is
// adopted, which handles models that wrap a requested list in an object.
func NormalizeList(raw string) ([]any, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response text", ErrInvalidInput)
	}
	text = stripFirstFence(text)

	var list []any
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return list, nil
	}

	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start != -1 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &list); err == nil {
			return list, nil
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w in %s", ErrNoJSONFound, previewOf(text))
	}

	if adopted, ok := firstListValue(text[start : end+1]); ok {
		return adopted, nil
	}
	return nil, fmt.Errorf("%w: no list-valued entry found", ErrShapeMismatch)
}

// DecodeObject normalizes raw output and unmarshals it into target.
func DecodeObject(raw string, target any) error {
	obj, err := NormalizeObject(raw)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to re-encode object: %w", err)
	}
	if err := json.Unmarshal(buf, target); err != nil {
		return fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return nil
}

// DecodeList normalizes raw output and unmarshals the list into target.
func DecodeList(raw string, target any) error {
	list, err := NormalizeList(raw)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to re-encode list: %w", err)
	}
	if err := json.Unmarshal(buf, target); err != nil {
		return fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return nil
}

// stripFirstFence removes a single pair of fenced-code delimiters. Only the
// first fenced block is considered; text outside it is dropped.
func stripFirstFence(text string) string {
	open := strings.Index(text, "```")
	if open == -1 {
		return text
	}

	rest := text[open+3:]
	// Drop a language tag such as "json" on the fence line.
	if nl := strings.IndexByte(rest, '\n'); nl != -1 && isLanguageTag(rest[:nl]) {
		rest = rest[nl+1:]
	}

	if closing := strings.Index(rest, "```"); closing != -1 {
		rest = rest[:closing]
	}
	return strings.TrimSpace(rest)
}

func isLanguageTag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// firstListValue scans a JSON object in document order and returns the first
// list-valued entry.
func firstListValue(objJSON string) ([]any, bool) {
	dec := json.NewDecoder(strings.NewReader(objJSON))

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		trimmed := bytes.TrimSpace(value)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			continue
		}
		var list []any
		if err := json.Unmarshal(trimmed, &list); err == nil {
			return list, true
		}
	}
	return nil, false
}

func previewOf(text string) string {
	const maxPreview = 100
	runes := []rune(text)
	if len(runes) <= maxPreview {
		return fmt.Sprintf("%q", text)
	}
	return fmt.Sprintf("%q...", string(runes[:maxPreview]))
}
