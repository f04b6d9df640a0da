package sink

import (
	"context"
	"io"
	"strings"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/overlay"
)

// Output formats.
const (
	FormatSVG     = "svg"
	FormatGeoJSON = "json"
	FormatPNG     = "png"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatGeoJSON, FormatPNG}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "application/geo+json"
	}
}

// ParseFormat normalises a format name. "geojson" is accepted for json.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatSVG, FormatPNG, FormatGeoJSON:
		return f, nil
	case "geojson":
		return FormatGeoJSON, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want svg, json or png)", s)
	}
}

// Render dispatches to the renderer for format.
func Render(f overlay.Frame, format string, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(f, opts...), nil
	case FormatGeoJSON:
		return RenderGeoJSON(f)
	case FormatPNG:
		return RenderPNG(f, opts...)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

// Writer is an [overlay.Sink] that renders each frame to W.
type Writer struct {
	W       io.Writer
	Format  string
	Options []Option
}

// Draw renders f and writes it.
func (w Writer) Draw(ctx context.Context, f overlay.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Render(f, w.Format, w.Options...)
	if err != nil {
		return err
	}
	_, err = w.W.Write(data)
	return err
}

var _ overlay.Sink = Writer{}
