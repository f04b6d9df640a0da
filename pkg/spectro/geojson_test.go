package spectro

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/spectromap/pkg/errors"
)

func TestPolygonMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Rect(100, 400, 200, 300))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"Polygon","coordinates":[[[100,400],[100,300],[200,300],[200,400],[100,400]]]}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestPolygonUnmarshalJSON(t *testing.T) {
	var p Polygon
	err := json.Unmarshal([]byte(`{"type":"Polygon","coordinates":[[[100,400],[100,300],[200,300],[200,400],[100,400]]]}`), &p)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p != Rect(100, 400, 200, 300) {
		t.Errorf("Unmarshal = %v", p.Ring)
	}

	err = json.Unmarshal([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`), &p)
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("4-position polygon error = %v, want INVALID_GEOMETRY", err)
	}
}

func TestDecodeRing(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{"bare ring", `[[0,0],[1,0],[1,1],[0,1]]`, 4, false},
		{"polygon", `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`, 5, false},
		{"feature", `{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}`, 5, false},
		{"feature without geometry", `{"type":"Feature"}`, 0, true},
		{"polygon without rings", `{"type":"Polygon","coordinates":[]}`, 0, true},
		{"line string", `{"type":"LineString","coordinates":[[0,0],[1,1]]}`, 0, true},
		{"garbage", `{{`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ring, err := DecodeRing([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeRing error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(ring) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(ring), tt.wantLen)
			}
		})
	}
}

func TestDecodeAnnotation(t *testing.T) {
	a, err := DecodeAnnotation(KindSequence, []byte(`{"id":7,"start_time":10,"end_time":20,"species":[{"species_code":"MYLU"},{"common_name":"big brown bat"}]}`))
	if err != nil {
		t.Fatalf("DecodeAnnotation: %v", err)
	}
	s, ok := a.(Sequence)
	if !ok {
		t.Fatalf("decoded %T, want Sequence", a)
	}
	if s.ID != 7 || len(s.Species) != 2 || s.Species[0].Label() != "MYLU" || s.Species[1].Label() != "big brown bat" {
		t.Errorf("decoded %+v", s)
	}

	if _, err := DecodeAnnotation(Kind(9), []byte(`{}`)); !errors.Is(err, errors.ErrCodeUnknownKind) {
		t.Errorf("unknown kind error = %v", err)
	}
	if _, err := DecodeAnnotation(KindPulse, []byte(`[`)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad json error = %v", err)
	}
}
