package spectro

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/spectromap/pkg/errors"
)

type geoJSONFeature struct {
	Type     string          `json:"type"`
	Geometry json.RawMessage `json:"geometry"`
}

// DecodeRing extracts the outer ring from a GeoJSON Feature, a Polygon
// geometry, or a bare array of positions.
func DecodeRing(data []byte) ([]Point, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var ring []Point
		if err := json.Unmarshal(data, &ring); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode ring")
		}
		return ring, nil
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode geometry")
	}

	switch head.Type {
	case "Feature":
		var f geoJSONFeature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode feature")
		}
		if len(f.Geometry) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "feature has no geometry")
		}
		return DecodeRing(f.Geometry)
	case "Polygon":
		var g geoJSONPolygon
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode polygon")
		}
		if len(g.Coordinates) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "polygon has no rings")
		}
		return g.Coordinates[0], nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "unsupported geometry type %q", head.Type)
	}
}
