package overlay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/matzehuels/spectromap/pkg/spectro"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Fatal("empty recorder reported a frame")
	}

	in := Input{View: testView(), Pulses: []spectro.Pulse{{ID: 9, StartTime: 10, EndTime: 20, LowFreq: 10, HighFreq: 20}}}
	f, err := Redraw(context.Background(), &r, in)
	if err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	last, ok := r.Last()
	if !ok || len(last.Rects) != 1 || last.Rects[0].ID != f.Rects[0].ID {
		t.Errorf("Last = %+v, %v", last, ok)
	}
	if len(r.Frames()) != 1 {
		t.Errorf("len(Frames) = %d, want 1", len(r.Frames()))
	}
}

func TestRedrawSinkError(t *testing.T) {
	boom := errors.New("boom")
	s := SinkFunc(func(context.Context, Frame) error { return boom })
	if _, err := Redraw(context.Background(), s, Input{View: testView()}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestLineMarshalJSON(t *testing.T) {
	l := Line{Coordinates: [2]spectro.Point{{1, 2}, {1, 14}}, Thicker: true}
	data, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"LineString","coordinates":[[1,2],[1,14]],"thicker":true}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
