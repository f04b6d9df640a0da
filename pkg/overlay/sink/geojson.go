package sink

import (
	"encoding/json"

	"github.com/matzehuels/spectromap/pkg/overlay"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   any            `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type pointGeometry struct {
	Type        string        `json:"type"`
	Coordinates spectro.Point `json:"coordinates"`
}

// RenderGeoJSON encodes the frame as a GeoJSON FeatureCollection. Rects
// become Polygon features, tick lines LineString features and labels Point
// features carrying the text and offsets as properties.
func RenderGeoJSON(f overlay.Frame) ([]byte, error) {
	out := featureCollection{
		Type:     "FeatureCollection",
		Width:    f.Width,
		Height:   f.Height,
		Features: make([]feature, 0, f.Len()),
	}

	for _, r := range f.Rects {
		out.Features = append(out.Features, feature{
			Type:     "Feature",
			Geometry: r.Polygon,
			Properties: map[string]any{
				"layer":    "rect",
				"id":       r.ID,
				"selected": r.Selected,
				"editing":  r.Editing,
			},
		})
	}
	for _, l := range f.Lines {
		out.Features = append(out.Features, feature{
			Type:     "Feature",
			Geometry: l,
			Properties: map[string]any{
				"layer":   "tick",
				"thicker": l.Thicker,
				"grid":    l.Grid,
			},
		})
	}
	for _, t := range f.Texts {
		props := map[string]any{
			"layer":    "label",
			"text":     t.Text,
			"offset_x": t.OffsetX,
			"offset_y": t.OffsetY,
		}
		if t.Align != "" {
			props["align"] = t.Align
		}
		out.Features = append(out.Features, feature{
			Type:       "Feature",
			Geometry:   pointGeometry{Type: "Point", Coordinates: spectro.Pt(t.X, t.Y)},
			Properties: props,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
