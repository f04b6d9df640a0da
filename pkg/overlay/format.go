package overlay

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/matzehuels/spectromap/pkg/observability"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

const (
	// tickLength is the length of the start/end tick lines in pixels.
	tickLength = 12
	// labelOffset separates a time label from the end of its tick.
	labelOffset = 5
	// speciesSpacing stacks species labels of one sequence.
	speciesSpacing = 15
)

// Layers selects which parts of a frame are produced.
type Layers struct {
	Rects   bool
	Times   bool
	Species bool
}

// AllLayers enables every layer.
var AllLayers = Layers{Rects: true, Times: true, Species: true}

// Input is one redraw request.
type Input struct {
	View      spectro.View
	Pulses    []spectro.Pulse
	Sequences []spectro.Sequence
	// Selected marks one pulse as selected, if non-nil.
	Selected *int64
	// Layers defaults to AllLayers when zero.
	Layers Layers
}

// Format maps every annotation of in and assembles the frame. Pulses and
// sequences are mapped concurrently; output order follows input order.
// Format returns ctx.Err() if the context is cancelled before mapping ends.
func Format(ctx context.Context, in Input) (Frame, error) {
	layers := in.Layers
	if layers == (Layers{}) {
		layers = AllLayers
	}

	start := time.Now()
	pulses := mapAll(in.Pulses, func(p spectro.Pulse) spectro.Polygon {
		return spectro.PulsePolygon(p, in.View)
	})
	sequences := mapAll(in.Sequences, func(s spectro.Sequence) spectro.Polygon {
		return spectro.SequencePolygon(s, in.View, spectro.WithBand(spectro.SequenceBand))
	})
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	frame := Frame{Width: in.View.EffectiveWidth(), Height: in.View.EffectiveHeight()}
	if layers.Rects {
		frame.Rects = rects(in.Pulses, pulses, in.Selected)
	}
	if layers.Times {
		frame.Lines, frame.Texts = times(in.Pulses, pulses, in.Sequences, sequences)
	}
	if layers.Species {
		frame.Texts = append(frame.Texts, species(in.Sequences, sequences)...)
	}

	droppedPulses := countDropped(pulses)
	droppedSequences := countDropped(sequences)
	frame.Dropped = droppedPulses + droppedSequences

	elapsed := time.Since(start)
	hooks := observability.Transform()
	hooks.OnFormat(ctx, spectro.KindPulse.String(), len(pulses), droppedPulses, elapsed)
	hooks.OnFormat(ctx, spectro.KindSequence.String(), len(sequences), droppedSequences, elapsed)
	return frame, nil
}

// FormatRects maps pulses to selectable rects, skipping unrenderable ones.
func FormatRects(pulses []spectro.Pulse, v spectro.View, selected *int64) []Rect {
	polys := mapAll(pulses, func(p spectro.Pulse) spectro.Polygon { return spectro.PulsePolygon(p, v) })
	return rects(pulses, polys, selected)
}

// FormatTimes builds start/end tick lines and millisecond labels.
func FormatTimes(pulses []spectro.Pulse, sequences []spectro.Sequence, v spectro.View) ([]Line, []Text) {
	pp := mapAll(pulses, func(p spectro.Pulse) spectro.Polygon { return spectro.PulsePolygon(p, v) })
	sp := mapAll(sequences, func(s spectro.Sequence) spectro.Polygon {
		return spectro.SequencePolygon(s, v, spectro.WithBand(spectro.SequenceBand))
	})
	return times(pulses, pp, sequences, sp)
}

// FormatSpecies builds the stacked species labels of sequences.
func FormatSpecies(sequences []spectro.Sequence, v spectro.View) []Text {
	sp := mapAll(sequences, func(s spectro.Sequence) spectro.Polygon {
		return spectro.SequencePolygon(s, v, spectro.WithBand(spectro.SequenceBand))
	})
	return species(sequences, sp)
}

func rects(pulses []spectro.Pulse, polys []spectro.Polygon, selected *int64) []Rect {
	out := make([]Rect, 0, len(pulses))
	for i, p := range pulses {
		if !polys[i].Renderable() {
			continue
		}
		out = append(out, Rect{
			ID:       p.ID,
			Selected: selected != nil && *selected == p.ID,
			Editing:  p.Editing,
			Polygon:  polys[i],
		})
	}
	return out
}

// times places ticks below pulses (from ymin downward) and above sequences
// (from ymax upward), each labelled with the annotation's time in ms.
func times(pulses []spectro.Pulse, pp []spectro.Polygon, sequences []spectro.Sequence, sp []spectro.Polygon) ([]Line, []Text) {
	var lines []Line
	var texts []Text
	mark := func(x, y, dy, offsetY float64, ms float64) {
		lines = append(lines, Line{Coordinates: [2]spectro.Point{{x, y}, {x, y + dy}}, Thicker: true})
		texts = append(texts, Text{Text: formatMS(ms), X: x, Y: y + dy, OffsetY: offsetY})
	}

	for i, p := range pulses {
		if !pp[i].Renderable() {
			continue
		}
		xmin, ymin, xmax, _ := pp[i].Bounds()
		mark(xmin, ymin, tickLength, labelOffset, p.StartTime)
		mark(xmax, ymin, tickLength, labelOffset, p.EndTime)
	}
	for i, s := range sequences {
		if !sp[i].Renderable() {
			continue
		}
		xmin, _, xmax, ymax := sp[i].Bounds()
		mark(xmin, ymax, -tickLength, -labelOffset, s.StartTime)
		mark(xmax, ymax, -tickLength, -labelOffset, s.EndTime)
	}
	return lines, texts
}

func species(sequences []spectro.Sequence, sp []spectro.Polygon) []Text {
	var texts []Text
	for i, s := range sequences {
		if !sp[i].Renderable() {
			continue
		}
		xmin, _, xmax, ymax := sp[i].Bounds()
		var offset float64
		for _, sc := range s.Species {
			texts = append(texts, Text{
				Text:    sc.Label(),
				X:       xmin + (xmax-xmin)/2,
				Y:       ymax,
				OffsetY: offset,
				Align:   "center",
			})
			offset += speciesSpacing
		}
	}
	return texts
}

func formatMS(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
}

func countDropped(polys []spectro.Polygon) int {
	n := 0
	for _, p := range polys {
		if !p.Renderable() {
			n++
		}
	}
	return n
}

// parallelThreshold is the batch size below which mapping stays on one goroutine.
const parallelThreshold = 256

// mapAll applies fn to every item, in parallel for large batches. Results
// are written by index so output order matches input order.
func mapAll[T any](items []T, fn func(T) spectro.Polygon) []spectro.Polygon {
	out := make([]spectro.Polygon, len(items))
	if len(items) < parallelThreshold {
		for i, it := range items {
			out[i] = fn(it)
		}
		return out
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(items) + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < len(items); lo += chunk {
		hi := min(lo+chunk, len(items))
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = fn(items[i])
			}
		}(lo, hi)
	}
	wg.Wait()
	return out
}
