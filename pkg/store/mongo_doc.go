package store

import (
	"time"

	"github.com/matzehuels/spectromap/pkg/spectro"
)

type layoutDoc struct {
	Width      float64   `bson:"width"`
	Height     float64   `bson:"height"`
	StartTime  float64   `bson:"start_time"`
	EndTime    float64   `bson:"end_time"`
	StartTimes []float64 `bson:"start_times"`
	EndTimes   []float64 `bson:"end_times"`
	Widths     []float64 `bson:"widths,omitempty"`
	LowFreq    float64   `bson:"low_freq"`
	HighFreq   float64   `bson:"high_freq"`
}

type recordingDoc struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name,omitempty"`
	Layout     layoutDoc `bson:"layout"`
	Background string    `bson:"background,omitempty"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

type pulseDoc struct {
	RecordingID string  `bson:"recording_id"`
	ID          int64   `bson:"id"`
	StartTime   float64 `bson:"start_time"`
	EndTime     float64 `bson:"end_time"`
	LowFreq     float64 `bson:"low_freq"`
	HighFreq    float64 `bson:"high_freq"`
}

type speciesDoc struct {
	SpeciesCode string `bson:"species_code,omitempty"`
	CommonName  string `bson:"common_name,omitempty"`
}

type sequenceDoc struct {
	RecordingID   string       `bson:"recording_id"`
	ID            int64        `bson:"id"`
	StartTime     float64      `bson:"start_time"`
	EndTime       float64      `bson:"end_time"`
	Species       []speciesDoc `bson:"species,omitempty"`
	Type          string       `bson:"type,omitempty"`
	Comments      string       `bson:"comments,omitempty"`
	OwnerUsername string       `bson:"owner_username,omitempty"`
}

func newRecordingDoc(r Recording) recordingDoc {
	l := r.Layout
	return recordingDoc{
		ID:   r.ID,
		Name: r.Name,
		Layout: layoutDoc{
			Width:      l.Width,
			Height:     l.Height,
			StartTime:  l.StartTime,
			EndTime:    l.EndTime,
			StartTimes: l.StartTimes,
			EndTimes:   l.EndTimes,
			Widths:     l.Widths,
			LowFreq:    l.LowFreq,
			HighFreq:   l.HighFreq,
		},
		Background: r.Background,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (d recordingDoc) recording(pulses []pulseDoc, sequences []sequenceDoc) Recording {
	l := d.Layout
	r := Recording{
		ID:   d.ID,
		Name: d.Name,
		Layout: spectro.Layout{
			Width:      l.Width,
			Height:     l.Height,
			StartTime:  l.StartTime,
			EndTime:    l.EndTime,
			StartTimes: l.StartTimes,
			EndTimes:   l.EndTimes,
			Widths:     l.Widths,
			LowFreq:    l.LowFreq,
			HighFreq:   l.HighFreq,
		},
		Background: d.Background,
		UpdatedAt:  d.UpdatedAt,
		Pulses:     make([]spectro.Pulse, len(pulses)),
		Sequences:  make([]spectro.Sequence, len(sequences)),
	}
	for i, p := range pulses {
		r.Pulses[i] = p.pulse()
	}
	for i, s := range sequences {
		r.Sequences[i] = s.sequence()
	}
	return r
}

func newPulseDoc(recordingID string, p spectro.Pulse) pulseDoc {
	return pulseDoc{
		RecordingID: recordingID,
		ID:          p.ID,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		LowFreq:     p.LowFreq,
		HighFreq:    p.HighFreq,
	}
}

func (d pulseDoc) pulse() spectro.Pulse {
	return spectro.Pulse{ID: d.ID, StartTime: d.StartTime, EndTime: d.EndTime, LowFreq: d.LowFreq, HighFreq: d.HighFreq}
}

func newSequenceDoc(recordingID string, s spectro.Sequence) sequenceDoc {
	d := sequenceDoc{
		RecordingID:   recordingID,
		ID:            s.ID,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Type:          s.Type,
		Comments:      s.Comments,
		OwnerUsername: s.OwnerUsername,
	}
	for _, sp := range s.Species {
		d.Species = append(d.Species, speciesDoc{SpeciesCode: sp.SpeciesCode, CommonName: sp.CommonName})
	}
	return d
}

func (d sequenceDoc) sequence() spectro.Sequence {
	s := spectro.Sequence{
		ID:            d.ID,
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		Type:          d.Type,
		Comments:      d.Comments,
		OwnerUsername: d.OwnerUsername,
	}
	for _, sp := range d.Species {
		s.Species = append(s.Species, spectro.Species{SpeciesCode: sp.SpeciesCode, CommonName: sp.CommonName})
	}
	return s
}
