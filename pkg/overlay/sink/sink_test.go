package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/overlay"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

func testFrame(t *testing.T) overlay.Frame {
	t.Helper()
	view := spectro.Layout{Width: 200, Height: 100, StartTime: 0, EndTime: 200, LowFreq: 0, HighFreq: 100}.View()
	sel := int64(2)
	f, err := overlay.Format(context.Background(), overlay.Input{
		View: view,
		Pulses: []spectro.Pulse{
			{ID: 1, StartTime: 10, EndTime: 50, LowFreq: 20, HighFreq: 60},
			{ID: 2, StartTime: 100, EndTime: 150, LowFreq: 10, HighFreq: 90},
		},
		Sequences: []spectro.Sequence{{ID: 3, StartTime: 10, EndTime: 150, Species: []spectro.Species{{SpeciesCode: "MYLU"}}}},
		Selected:  &sel,
	})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	return f
}

func TestRenderGeoJSON(t *testing.T) {
	data, err := RenderGeoJSON(testFrame(t))
	if err != nil {
		t.Fatalf("RenderGeoJSON() error: %v", err)
	}

	var out featureCollection
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Type != "FeatureCollection" {
		t.Errorf("Type = %q", out.Type)
	}
	// 2 rects, 6 ticks, 6 time labels, 1 species label
	if len(out.Features) != 15 {
		t.Errorf("Features = %d, want 15", len(out.Features))
	}

	layers := map[string]int{}
	for _, f := range out.Features {
		layers[f.Properties["layer"].(string)]++
	}
	if layers["rect"] != 2 || layers["tick"] != 6 || layers["label"] != 7 {
		t.Errorf("layers = %v", layers)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testFrame(t), WithBackgroundURL("night.png?a=1&b=2")))

	checks := []struct {
		name string
		want string
	}{
		{"root", `<svg xmlns="http://www.w3.org/2000/svg"`},
		{"extends above for sequences", `viewBox="0 -67.0 200.0 174.0"`},
		{"background escaped", `href="night.png?a=1&amp;b=2"`},
		{"unselected stroke", `id="pulse-1" points="10.0,80.0 10.0,40.0 50.0,40.0 50.0,80.0 10.0,80.0" stroke="#FF0000"`},
		{"selected stroke", `id="pulse-2" points="100.0,90.0 100.0,10.0 150.0,10.0 150.0,90.0 100.0,90.0" stroke="#00FFFF"`},
		{"tick color", `<g class="ticks" stroke="#00FFFF">`},
		{"label", `>10ms</text>`},
		{"species centered", `text-anchor="middle">MYLU</text>`},
	}
	for _, tt := range checks {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(svg, tt.want) {
				t.Errorf("SVG missing %q", tt.want)
			}
		})
	}
}

func TestRenderSVGCustomStyle(t *testing.T) {
	svg := string(RenderSVG(testFrame(t), WithStyle(Style{Stroke: "#123456"})))
	if !strings.Contains(svg, `stroke="#123456"`) {
		t.Error("custom stroke not applied")
	}
	if !strings.Contains(svg, `stroke="#00FFFF"`) {
		t.Error("unset fields should keep defaults")
	}
}

func TestRenderPNG(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := range bg.Pix {
		bg.Pix[i] = 0x40
	}

	data, err := RenderPNG(testFrame(t), WithBackground(bg), WithScale(2))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(400, 348) {
		t.Errorf("size = %v, want 400x348", got)
	}

	// Left edge of the unselected pulse at x=10, y=60 (canvas row (60+67)*2).
	r, g, b, _ := img.At(20, 254).RGBA()
	if got := (color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff}); got != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("stroke pixel = %v, want red", got)
	}
}

func TestRenderPNGEmptyFrame(t *testing.T) {
	_, err := RenderPNG(overlay.Frame{})
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("err = %v, want INVALID_GEOMETRY", err)
	}
}

func TestRenderPNGTooLarge(t *testing.T) {
	tests := []struct {
		name  string
		frame overlay.Frame
		opts  []Option
	}{
		{"wrapping product", overlay.Frame{Width: 1 << 32, Height: 1 << 32}, nil},
		{"one huge axis", overlay.Frame{Width: 1e300, Height: 10}, nil},
		{"area over limit", overlay.Frame{Width: 10000, Height: 10000}, nil},
		{"scaled over limit", overlay.Frame{Width: 4000, Height: 4000}, []Option{WithScale(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderPNG(tt.frame, tt.opts...)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{0xff, 0, 0, 0xff}, false},
		{"00ffff", color.RGBA{0, 0xff, 0xff, 0xff}, false},
		{"#fff", color.RGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#12345", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStyleValidate(t *testing.T) {
	if err := DefaultStyle.Validate(); err != nil {
		t.Errorf("DefaultStyle.Validate() = %v", err)
	}
	bad := DefaultStyle
	bad.Tick = "cyan"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for named color")
	}
	bad = DefaultStyle
	bad.FontSize = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero font size")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{" PNG ", FormatPNG, false},
		{"geojson", FormatGeoJSON, false},
		{"json", FormatGeoJSON, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := Writer{W: &buf, Format: FormatSVG}
	if err := w.Draw(context.Background(), testFrame(t)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<svg") {
		t.Errorf("output = %.20q", buf.String())
	}

	w.Format = "tiff"
	if err := w.Draw(context.Background(), testFrame(t)); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}
