package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/httputil"
	"github.com/matzehuels/spectromap/pkg/pipeline"
	"github.com/matzehuels/spectromap/pkg/spectro"
	"github.com/matzehuels/spectromap/pkg/store"
)

const layoutJSON = `{"width":1000,"height":500,"start_time":0,"end_time":1000,"low_freq":0,"high_freq":500}`

const segmentedJSON = `{"width":1000,"height":500,"start_time":0,"end_time":1000,` +
	`"start_times":[0,500],"end_times":[400,1000],"low_freq":0,"high_freq":500}`

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	rec := store.Recording{
		ID:     "rec-1",
		Layout: spectro.Layout{Width: 1000, Height: 500, StartTime: 0, EndTime: 1000, LowFreq: 0, HighFreq: 500},
		Pulses: []spectro.Pulse{{ID: 1, StartTime: 100, EndTime: 200, LowFreq: 100, HighFreq: 200}},
		Sequences: []spectro.Sequence{
			{ID: 7, StartTime: 50, EndTime: 400, Species: []spectro.Species{{SpeciesCode: "EPFU"}}},
		},
	}
	if err := st.Put(context.Background(), rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(Options{
		Runner: pipeline.NewRunner(nil, nil, logger),
		Store:  st,
		Logger: logger,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decodeError(t *testing.T, data []byte) httputil.ErrorBody {
	t.Helper()
	var body httputil.ErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode error body %s: %v", data, err)
	}
	return body
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, data := do(t, ts, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(data), `"status":"ok"`) {
		t.Errorf("body = %s", data)
	}
	if resp.Header.Get(httputil.HeaderRequestID) == "" {
		t.Error("missing request id header")
	}
}

func TestPolygon(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		want   spectro.Polygon
		code   errors.Code
	}{
		{
			name:   "pulse",
			body:   `{"layout":` + layoutJSON + `,"kind":"pulse","annotation":{"id":1,"start_time":100,"end_time":200,"low_freq":100,"high_freq":200}}`,
			status: http.StatusOK,
			want:   spectro.Rect(100, 400, 200, 300),
		},
		{
			name:   "scaled pulse",
			body:   `{"layout":` + layoutJSON + `,"scaled_width":2000,"scaled_height":1000,"kind":"pulse","annotation":{"start_time":100,"end_time":200,"low_freq":100,"high_freq":200}}`,
			status: http.StatusOK,
			want:   spectro.Rect(200, 800, 400, 600),
		},
		{
			name:   "sequence default band",
			body:   `{"layout":` + layoutJSON + `,"kind":"sequence","annotation":{"id":7,"start_time":50,"end_time":400}}`,
			status: http.StatusOK,
			want:   spectro.Rect(50, 0, 400, 10),
		},
		{
			name:   "sequence display band",
			body:   `{"layout":` + layoutJSON + `,"kind":"sequence","band":[-10,-50],"annotation":{"id":7,"start_time":50,"end_time":400}}`,
			status: http.StatusOK,
			want:   spectro.Rect(50, -10, 400, -50),
		},
		{
			name:   "pulse y scale",
			body:   `{"layout":` + layoutJSON + `,"kind":"pulse","y_scale":0.5,"annotation":{"start_time":100,"end_time":200,"low_freq":100,"high_freq":200}}`,
			status: http.StatusOK,
			want:   spectro.Rect(100, 200, 200, 150),
		},
		{
			name:   "spanning segments yields sentinel",
			body:   `{"layout":` + segmentedJSON + `,"kind":"pulse","annotation":{"start_time":300,"end_time":600,"low_freq":100,"high_freq":200}}`,
			status: http.StatusOK,
			want:   spectro.SentinelPolygon(),
		},
		{
			name:   "unknown kind",
			body:   `{"layout":` + layoutJSON + `,"kind":"chirp","annotation":{}}`,
			status: http.StatusBadRequest,
			code:   errors.ErrCodeUnknownKind,
		},
		{
			name:   "unknown field",
			body:   `{"layout":` + layoutJSON + `,"kind":"pulse","annotation":{},"zoom":2}`,
			status: http.StatusBadRequest,
			code:   errors.ErrCodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, ts, http.MethodPost, "/v1/polygon", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, data)
			}
			if tt.code != "" {
				if got := decodeError(t, data).Code; got != tt.code {
					t.Errorf("code = %s, want %s", got, tt.code)
				}
				return
			}
			var got spectro.Polygon
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("decode polygon %s: %v", data, err)
			}
			if got != tt.want {
				t.Errorf("polygon = %v, want %v", got.Ring, tt.want.Ring)
			}
		})
	}
}

func TestInvert(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("ring round trip", func(t *testing.T) {
		body := `{"layout":` + layoutJSON + `,"ring":[[100,400],[100,300],[200,300],[200,400],[100,400]]}`
		resp, data := do(t, ts, http.MethodPost, "/v1/invert", body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d (%s)", resp.StatusCode, data)
		}
		var d spectro.Domain
		if err := json.Unmarshal(data, &d); err != nil {
			t.Fatal(err)
		}
		want := spectro.Domain{StartTime: 100, EndTime: 200, LowFreq: 100, HighFreq: 200}
		if d != want {
			t.Errorf("domain = %+v, want %+v", d, want)
		}
	})

	t.Run("geojson polygon", func(t *testing.T) {
		body := `{"layout":` + layoutJSON + `,"polygon":{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[200,300],[100,300],[100,400],[200,400],[200,300]]]}}}`
		resp, data := do(t, ts, http.MethodPost, "/v1/invert", body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d (%s)", resp.StatusCode, data)
		}
		if strings.Contains(string(data), `"code"`) {
			t.Errorf("success body carries an error: %s", data)
		}
	})

	t.Run("spans segments", func(t *testing.T) {
		body := `{"layout":` + segmentedJSON + `,"ring":[[350,400],[350,300],[450,300],[450,400],[350,400]]}`
		resp, data := do(t, ts, http.MethodPost, "/v1/invert", body)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d (%s)", resp.StatusCode, data)
		}
		var got struct {
			spectro.Domain
			Code errors.Code `json:"code"`
		}
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Code != errors.ErrCodeSpansSegments {
			t.Errorf("code = %s, want SPANS_SEGMENTS", got.Code)
		}
		if got.StartTime != -1 || got.EndTime != -1 {
			t.Errorf("times = (%v, %v), want (-1, -1)", got.StartTime, got.EndTime)
		}
		if got.LowFreq != 100 || got.HighFreq != 200 {
			t.Errorf("frequencies = (%v, %v), want (100, 200)", got.LowFreq, got.HighFreq)
		}
	})

	t.Run("missing geometry", func(t *testing.T) {
		resp, data := do(t, ts, http.MethodPost, "/v1/invert", `{"layout":`+layoutJSON+`}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d (%s)", resp.StatusCode, data)
		}
	})
}

func TestNormalize(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, data := do(t, ts, http.MethodPost, "/v1/normalize", `{"ring":[[30,5],[10,25],[0,15],[20,0],[30,5]]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.StatusCode, data)
	}
	var got spectro.Polygon
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if want := spectro.Rect(0, 25, 30, 0); got != want {
		t.Errorf("polygon = %v, want %v", got.Ring, want.Ring)
	}

	resp, data = do(t, ts, http.MethodPost, "/v1/normalize", `{"ring":[[0,0],[1,1],[0,0]]}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("short ring status = %d (%s)", resp.StatusCode, data)
	}
	if got := decodeError(t, data).Code; got != errors.ErrCodeInvalidGeometry {
		t.Errorf("code = %s, want INVALID_GEOMETRY", got)
	}
}

func TestCenter(t *testing.T) {
	ts, _ := newTestServer(t)

	body := `{"layout":` + layoutJSON + `,"kind":"pulse","annotation":{"start_time":100,"end_time":200,"low_freq":100,"high_freq":200}}`
	resp, data := do(t, ts, http.MethodPost, "/v1/center", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.StatusCode, data)
	}
	var got spectro.Point
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	// Centroid averages all five vertices, closing vertex included.
	if want := spectro.Pt(140, 360); got != want {
		t.Errorf("center = %v, want %v", got, want)
	}
}

func TestOverlay(t *testing.T) {
	ts, _ := newTestServer(t)

	body := `{"layout":` + layoutJSON + `,"format":"json","pulses":[{"id":1,"start_time":100,"end_time":200,"low_freq":100,"high_freq":200}]}`
	resp, data := do(t, ts, http.MethodPost, "/v1/overlay", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/geo+json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(string(data), `"FeatureCollection"`) {
		t.Errorf("body = %s", data)
	}

	resp, _ = do(t, ts, http.MethodPost, "/v1/overlay", `{"layout":`+layoutJSON+`,"format":"bmp"}`)
	if resp.StatusCode != http.StatusNotAcceptable {
		t.Errorf("bad format status = %d", resp.StatusCode)
	}

	huge := `{"width":4294967296,"height":4294967296,"start_time":0,"end_time":1000,"low_freq":0,"high_freq":500}`
	resp, data = do(t, ts, http.MethodPost, "/v1/overlay", `{"layout":`+huge+`,"format":"png"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("oversized png status = %d (%s)", resp.StatusCode, data)
	}
}

func TestRecordings(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, data := do(t, ts, http.MethodGet, "/v1/recordings", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d (%s)", resp.StatusCode, data)
	}
	var list []store.Summary
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "rec-1" || list[0].Pulses != 1 {
		t.Errorf("list = %+v", list)
	}

	resp, data = do(t, ts, http.MethodGet, "/v1/recordings/rec-1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d (%s)", resp.StatusCode, data)
	}

	resp, data = do(t, ts, http.MethodGet, "/v1/recordings/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing status = %d (%s)", resp.StatusCode, data)
	}
	if got := decodeError(t, data).Code; got != errors.ErrCodeNotFound {
		t.Errorf("code = %s, want NOT_FOUND", got)
	}
}

func TestRecordingOverlay(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
		ctype  string
	}{
		{"default svg", "", http.StatusOK, "image/svg+xml"},
		{"geojson selected", "?format=json&selected=1&layers=rects,times", http.StatusOK, "application/geo+json"},
		{"png", "?format=png&scaled_width=500&scaled_height=250", http.StatusOK, "image/png"},
		{"bad selected", "?selected=one", http.StatusBadRequest, ""},
		{"bad layer", "?layers=grid", http.StatusBadRequest, ""},
		{"bad width", "?scaled_width=wide", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, ts, http.MethodGet, "/v1/recordings/rec-1/overlay"+tt.query, "")
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, data)
			}
			if tt.ctype != "" && !strings.HasPrefix(resp.Header.Get("Content-Type"), tt.ctype) {
				t.Errorf("Content-Type = %q, want %q", resp.Header.Get("Content-Type"), tt.ctype)
			}
		})
	}
}

func TestEditPulse(t *testing.T) {
	ts, st := newTestServer(t)

	body := `{"ring":[[150,450],[150,250],[300,250],[300,450],[150,450]]}`
	resp, data := do(t, ts, http.MethodPut, "/v1/recordings/rec-1/pulses/1", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.StatusCode, data)
	}

	rec, err := st.Recording(context.Background(), "rec-1")
	if err != nil {
		t.Fatal(err)
	}
	want := spectro.Pulse{ID: 1, StartTime: 150, EndTime: 300, LowFreq: 50, HighFreq: 250}
	if rec.Pulses[0] != want {
		t.Errorf("stored pulse = %+v, want %+v", rec.Pulses[0], want)
	}

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown pulse", "/v1/recordings/rec-1/pulses/99", body, http.StatusNotFound},
		{"non-numeric id", "/v1/recordings/rec-1/pulses/abc", body, http.StatusBadRequest},
		{"degenerate ring", "/v1/recordings/rec-1/pulses/1", `{"ring":[[0,0]]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, ts, http.MethodPut, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, data)
			}
		})
	}
}

func TestEditSequence(t *testing.T) {
	ts, st := newTestServer(t)

	body := `{"ring":[[60,-10],[60,-50],[420,-50],[420,-10],[60,-10]]}`
	resp, data := do(t, ts, http.MethodPut, "/v1/recordings/rec-1/sequences/7", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.StatusCode, data)
	}
	rec, err := st.Recording(context.Background(), "rec-1")
	if err != nil {
		t.Fatal(err)
	}
	seq := rec.Sequences[0]
	if seq.StartTime != 60 || seq.EndTime != 420 {
		t.Errorf("span = (%v, %v), want (60, 420)", seq.StartTime, seq.EndTime)
	}
	if len(seq.Species) != 1 || seq.Species[0].SpeciesCode != "EPFU" {
		t.Errorf("species lost: %+v", seq.Species)
	}
}
