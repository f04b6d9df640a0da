package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateFinite reports an ErrCodeInvalidInput error naming the first
// non-finite value. Names and values are paired by index.
func ValidateFinite(names []string, values ...float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			name := "value"
			if i < len(names) {
				name = names[i]
			}
			return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
		}
	}
	return nil
}

// ValidateRange checks that low < high for a named domain axis.
// A zero or negative span yields ErrCodeDegenerateRange.
func ValidateRange(axis string, low, high float64) error {
	if !(low < high) {
		return New(ErrCodeDegenerateRange, "%s range is degenerate: %v >= %v", axis, low, high)
	}
	return nil
}

// ValidatePath validates a file path supplied to the CLI or API for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateRecordingID rejects identifiers that cannot name a stored recording.
// IDs are used as file names by the file store, so separators are refused.
func ValidateRecordingID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "recording id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "recording id too long (max 128 characters)")
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "recording id contains invalid characters: %q", id)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "recording id contains control characters")
		}
	}
	return nil
}
