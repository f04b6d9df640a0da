package errors

import (
	"math"
	"testing"
)

func TestValidateFinite(t *testing.T) {
	names := []string{"width", "height"}
	tests := []struct {
		name    string
		values  []float64
		wantErr bool
	}{
		{"all finite", []float64{1, 2}, false},
		{"nan", []float64{math.NaN(), 2}, true},
		{"positive inf", []float64{1, math.Inf(1)}, true},
		{"negative inf", []float64{math.Inf(-1)}, true},
		{"unnamed extra", []float64{1, 2, math.NaN()}, true},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFinite(names, tt.values...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFinite(%v) error = %v, wantErr %v", tt.values, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateFinite returned wrong code: %v", err)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name      string
		low, high float64
		wantErr   bool
	}{
		{"ordered", 0, 1000, false},
		{"negative ordered", -50, -10, false},
		{"equal", 500, 500, true},
		{"inverted", 10, 5, true},
		{"nan", math.NaN(), 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("time", tt.low, tt.high)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange(%v, %v) error = %v, wantErr %v", tt.low, tt.high, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeDegenerateRange) {
				t.Errorf("ValidateRange returned wrong code: %v", err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "recording.json", false},
		{"valid nested", "data/recordings/42.json", false},
		{"valid absolute", "/tmp/overlay.svg", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "../../../etc/passwd", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateRecordingID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "42", false},
		{"hex", "65f0c0ffee", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"dots", "..", true},
		{"control", "a\x01", true},
		{"too long", string(make([]byte, 200)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecordingID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecordingID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeInvalidGeometry,
		ErrCodeUnknownKind,
		ErrCodeInvalidLayout,
		ErrCodeDegenerateRange,
		ErrCodeUnrecognizedLayout,
		ErrCodeSegmentNotFound,
		ErrCodeSpansSegments,
		ErrCodeNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
