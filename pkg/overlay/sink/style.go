package sink

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/spectromap/pkg/errors"
)

// Style holds the overlay colors as CSS hex strings.
type Style struct {
	Stroke      string  `toml:"stroke" json:"stroke"`
	Selected    string  `toml:"selected" json:"selected"`
	Tick        string  `toml:"tick" json:"tick"`
	Text        string  `toml:"text" json:"text"`
	StrokeWidth float64 `toml:"stroke_width" json:"stroke_width"`
	TickWidth   float64 `toml:"tick_width" json:"tick_width"`
	FontSize    float64 `toml:"font_size" json:"font_size"`
}

// DefaultStyle is the annotation editor's palette.
var DefaultStyle = Style{
	Stroke:      "#FF0000",
	Selected:    "#00FFFF",
	Tick:        "#00FFFF",
	Text:        "#FFFFFF",
	StrokeWidth: 2,
	TickWidth:   4,
	FontSize:    12,
}

// Validate checks that every color parses.
func (s Style) Validate() error {
	for _, c := range []string{s.Stroke, s.Selected, s.Tick, s.Text} {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	if s.StrokeWidth <= 0 || s.TickWidth <= 0 || s.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "style widths and font size must be positive")
	}
	return nil
}

// withDefaults fills empty fields from DefaultStyle.
func (s Style) withDefaults() Style {
	if s.Stroke == "" {
		s.Stroke = DefaultStyle.Stroke
	}
	if s.Selected == "" {
		s.Selected = DefaultStyle.Selected
	}
	if s.Tick == "" {
		s.Tick = DefaultStyle.Tick
	}
	if s.Text == "" {
		s.Text = DefaultStyle.Text
	}
	if s.StrokeWidth <= 0 {
		s.StrokeWidth = DefaultStyle.StrokeWidth
	}
	if s.TickWidth <= 0 {
		s.TickWidth = DefaultStyle.TickWidth
	}
	if s.FontSize <= 0 {
		s.FontSize = DefaultStyle.FontSize
	}
	return s
}

// ParseColor parses "#RGB" or "#RRGGBB".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidFormat, "invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func mustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}
