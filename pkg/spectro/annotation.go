package spectro

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/spectromap/pkg/errors"
)

// Kind names an annotation variant.
type Kind int

const (
	// KindPulse is a bounded time×frequency annotation.
	KindPulse Kind = iota + 1
	// KindSequence is a time-only annotation with a species list.
	KindSequence
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPulse:
		return "pulse"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// ParseKind parses a wire name. Unknown names yield ErrCodeUnknownKind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pulse":
		return KindPulse, nil
	case "sequence":
		return KindSequence, nil
	default:
		return 0, errors.New(errors.ErrCodeUnknownKind, "unknown annotation kind %q (must be pulse or sequence)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != KindPulse && k != KindSequence {
		return nil, errors.New(errors.ErrCodeUnknownKind, "unknown annotation kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Annotation is implemented by [Pulse] and [Sequence] only.
type Annotation interface {
	Kind() Kind
	// Span returns the annotation's start and end time in milliseconds.
	Span() (start, end float64)
	annotation()
}

// Pulse is a bounded annotation covering a full time×frequency rectangle.
type Pulse struct {
	ID        int64   `json:"id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	LowFreq   float64 `json:"low_freq"`
	HighFreq  float64 `json:"high_freq"`
	Editing   bool    `json:"editing,omitempty"`
}

func (Pulse) Kind() Kind                   { return KindPulse }
func (p Pulse) Span() (start, end float64) { return p.StartTime, p.EndTime }
func (Pulse) annotation()                  {}

// Species is one entry of a sequence's label list.
type Species struct {
	SpeciesCode string `json:"species_code,omitempty"`
	CommonName  string `json:"common_name,omitempty"`
}

// Label is the species code, falling back to the common name.
func (s Species) Label() string {
	if s.SpeciesCode != "" {
		return s.SpeciesCode
	}
	return s.CommonName
}

// Sequence is a temporal annotation. Its frequency extent is not part of the
// domain value; it is drawn in a fixed display band.
type Sequence struct {
	ID            int64     `json:"id"`
	StartTime     float64   `json:"start_time"`
	EndTime       float64   `json:"end_time"`
	Species       []Species `json:"species,omitempty"`
	Type          string    `json:"type,omitempty"`
	Comments      string    `json:"comments,omitempty"`
	OwnerUsername string    `json:"owner_username,omitempty"`
}

func (Sequence) Kind() Kind                   { return KindSequence }
func (s Sequence) Span() (start, end float64) { return s.StartTime, s.EndTime }
func (Sequence) annotation()                  {}

// DecodeAnnotation decodes a JSON annotation of the given kind.
func DecodeAnnotation(kind Kind, data []byte) (Annotation, error) {
	switch kind {
	case KindPulse:
		var p Pulse
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode pulse annotation")
		}
		return p, nil
	case KindSequence:
		var s Sequence
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode sequence annotation")
		}
		return s, nil
	default:
		return nil, errors.New(errors.ErrCodeUnknownKind, "unknown annotation kind %d", int(kind))
	}
}
