package overlay

import (
	"encoding/json"

	"github.com/matzehuels/spectromap/pkg/spectro"
)

// Rect is a pulse annotation in render space.
type Rect struct {
	ID       int64           `json:"id"`
	Selected bool            `json:"selected"`
	Editing  bool            `json:"editing,omitempty"`
	Polygon  spectro.Polygon `json:"polygon"`
}

// Line is a two-point GeoJSON LineString.
type Line struct {
	Coordinates [2]spectro.Point `json:"-"`
	Thicker     bool             `json:"thicker,omitempty"`
	Grid        bool             `json:"grid,omitempty"`
}

// MarshalJSON encodes the line as {"type":"LineString","coordinates":[...]} plus flags.
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string          `json:"type"`
		Coordinates []spectro.Point `json:"coordinates"`
		Thicker     bool            `json:"thicker,omitempty"`
		Grid        bool            `json:"grid,omitempty"`
	}{"LineString", l.Coordinates[:], l.Thicker, l.Grid})
}

// Text is a label anchored at (X, Y) and shifted by the offsets in screen pixels.
type Text struct {
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Align   string  `json:"align,omitempty"`
}

// Frame is the complete drawing data for one spectrogram redraw.
type Frame struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Rects   []Rect  `json:"rects"`
	Lines   []Line  `json:"lines"`
	Texts   []Text  `json:"texts"`
	Dropped int     `json:"dropped"`
}

// Len is the number of drawable items.
func (f Frame) Len() int { return len(f.Rects) + len(f.Lines) + len(f.Texts) }
