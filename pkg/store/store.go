// Package store persists recordings and their annotations.
//
// A [Recording] bundles a spectrogram layout with the pulse and sequence
// annotations drawn over it. [FileStore] keeps one JSON document per
// recording for the CLI; [MongoStore] splits recordings, pulse annotations
// and temporal (sequence) annotations across three collections for the
// HTTP server.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/spectromap/pkg/spectro"
)

// Recording is a spectrogram with its annotations.
type Recording struct {
	ID         string             `json:"id"`
	Name       string             `json:"name,omitempty"`
	Layout     spectro.Layout     `json:"layout"`
	Background string             `json:"background,omitempty"`
	Pulses     []spectro.Pulse    `json:"pulses"`
	Sequences  []spectro.Sequence `json:"sequences"`
	UpdatedAt  time.Time          `json:"updated_at,omitzero"`
}

// Summary is the list view of a recording.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Form      string    `json:"form"`
	Pulses    int       `json:"pulses"`
	Sequences int       `json:"sequences"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Summarize returns the list view of r.
func (r Recording) Summarize() Summary {
	return Summary{
		ID:        r.ID,
		Name:      r.Name,
		Form:      r.Layout.Form().String(),
		Pulses:    len(r.Pulses),
		Sequences: len(r.Sequences),
		UpdatedAt: r.UpdatedAt,
	}
}

// Store is implemented by [FileStore] and [MongoStore].
// Missing recordings and annotations yield ErrCodeNotFound.
type Store interface {
	Recording(ctx context.Context, id string) (Recording, error)
	List(ctx context.Context) ([]Summary, error)
	// Put creates or replaces a recording with all its annotations.
	Put(ctx context.Context, r Recording) error
	// UpdatePulse replaces the pulse with the same ID.
	UpdatePulse(ctx context.Context, recordingID string, p spectro.Pulse) error
	// UpdateSequence replaces the sequence with the same ID.
	UpdateSequence(ctx context.Context, recordingID string, s spectro.Sequence) error
	Close(ctx context.Context) error
}

func replacePulse(pulses []spectro.Pulse, p spectro.Pulse) bool {
	for i := range pulses {
		if pulses[i].ID == p.ID {
			pulses[i] = p
			return true
		}
	}
	return false
}

func replaceSequence(sequences []spectro.Sequence, s spectro.Sequence) bool {
	for i := range sequences {
		if sequences[i].ID == s.ID {
			sequences[i] = s
			return true
		}
	}
	return false
}
