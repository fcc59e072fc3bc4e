package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON object out of a model response into T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	return parseDelimited[T](response, '{', '}')
}

// ParseJSONList is ParseJSON for responses whose payload is a bare JSON array.
func ParseJSONList[T any](response string) ([]T, error) {
	return parseDelimited[[]T](response, '[', ']')
}

func parseDelimited[T any](response string, open, close byte) (T, error) {
	var zero T

	start := strings.IndexByte(response, open)
	if start == -1 {
		return zero, fmt.Errorf("no JSON found in response (missing '%c')", open)
	}
	end := strings.LastIndexByte(response, close)
	if end < start {
		return zero, fmt.Errorf("no JSON found in response (missing '%c')", close)
	}
	jsonStr := response[start : end+1]

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
