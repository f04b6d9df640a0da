package spectro

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/spectromap/pkg/errors"
)

func uniformLayout() Layout {
	return Layout{Width: 1000, Height: 500, StartTime: 0, EndTime: 1000, LowFreq: 0, HighFreq: 500}
}

func segmentedLayout() Layout {
	return uniformLayout().WithSegments([]float64{0, 500}, []float64{400, 1000})
}

func TestLayoutForm(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		want   Form
	}{
		{"uniform", uniformLayout(), FormUniform},
		{"segmented", segmentedLayout(), FormSegmented},
		{"empty segments", uniformLayout().WithSegments([]float64{}, []float64{}), FormSegmented},
		{"only start times", Layout{StartTimes: []float64{0}}, FormUnrecognized},
		{"only end times", Layout{EndTimes: []float64{10}}, FormUnrecognized},
		{"length mismatch", Layout{StartTimes: []float64{0, 5}, EndTimes: []float64{10}}, FormUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.layout.Form(); got != tt.want {
				t.Errorf("Form() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Layout)
		code   errors.Code
	}{
		{"valid", func(*Layout) {}, ""},
		{"zero time span", func(l *Layout) { l.EndTime = l.StartTime }, errors.ErrCodeDegenerateRange},
		{"inverted time span", func(l *Layout) { l.EndTime = -1 }, errors.ErrCodeDegenerateRange},
		{"zero frequency span", func(l *Layout) { l.HighFreq = l.LowFreq }, errors.ErrCodeDegenerateRange},
		{"zero width", func(l *Layout) { l.Width = 0 }, errors.ErrCodeInvalidLayout},
		{"negative height", func(l *Layout) { l.Height = -5 }, errors.ErrCodeInvalidLayout},
		{"nan width", func(l *Layout) { l.Width = math.NaN() }, errors.ErrCodeInvalidLayout},
		{"infinite end", func(l *Layout) { l.EndTime = math.Inf(1) }, errors.ErrCodeInvalidLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := uniformLayout()
			tt.mutate(&l)
			err := l.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestNewLayout(t *testing.T) {
	if _, err := NewLayout(1000, 500, 0, 1000, 0, 500); err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	if _, err := NewLayout(1000, 500, 0, 0, 0, 500); !errors.Is(err, errors.ErrCodeDegenerateRange) {
		t.Errorf("NewLayout degenerate = %v, want DEGENERATE_RANGE", err)
	}
}

func TestWithSegmentsCopies(t *testing.T) {
	starts := []float64{0, 500}
	l := uniformLayout().WithSegments(starts, []float64{400, 1000})
	starts[0] = 99
	if l.StartTimes[0] != 0 {
		t.Error("WithSegments should copy its arguments")
	}
}

func TestEffectiveSize(t *testing.T) {
	tests := []struct {
		name         string
		view         View
		wantW, wantH float64
	}{
		{"native", uniformLayout().View(), 1000, 500},
		{"larger scaled", uniformLayout().Scaled(2000, 1000), 2000, 1000},
		{"smaller scaled never clips", uniformLayout().Scaled(500, 250), 1000, 500},
		{"mixed", uniformLayout().Scaled(1500, 100), 1500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.view.EffectiveWidth(); got != tt.wantW {
				t.Errorf("EffectiveWidth() = %v, want %v", got, tt.wantW)
			}
			if got := tt.view.EffectiveHeight(); got != tt.wantH {
				t.Errorf("EffectiveHeight() = %v, want %v", got, tt.wantH)
			}
		})
	}
}

func TestLayoutJSONWireNames(t *testing.T) {
	data := []byte(`{"width":1000,"height":500,"start_time":0,"end_time":1000,
		"start_times":[0,500],"end_times":[400,1000],"low_freq":0,"high_freq":500}`)
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if l.Form() != FormSegmented || l.Segments() != 2 {
		t.Errorf("decoded form = %v with %d segments, want segmented with 2", l.Form(), l.Segments())
	}

	var u Layout
	if err := json.Unmarshal([]byte(`{"width":1,"height":1,"end_time":1,"high_freq":1}`), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if u.Form() != FormUniform {
		t.Errorf("missing segment fields decoded as %v, want uniform", u.Form())
	}
}

func TestLayoutJSONKeepsForm(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		want   Form
	}{
		{"uniform", uniformLayout(), FormUniform},
		{"segmented", segmentedLayout(), FormSegmented},
		{"zero segments", uniformLayout().WithSegments([]float64{}, []float64{}), FormSegmented},
	}

	pulse := Pulse{StartTime: 100, EndTime: 200, LowFreq: 100, HighFreq: 200}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.layout)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var got Layout
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got.Form() != tt.want {
				t.Errorf("Form() after round trip = %v, want %v (encoded %s)", got.Form(), tt.want, data)
			}
			if a, b := PulsePolygon(pulse, tt.layout.View()), PulsePolygon(pulse, got.View()); a != b {
				t.Errorf("polygon changed across round trip: %v -> %v", a.Ring, b.Ring)
			}
		})
	}
}
