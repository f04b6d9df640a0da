package sink

import (
	"bytes"
	"fmt"
	"html"
	"image"
	"math"

	"github.com/matzehuels/spectromap/pkg/overlay"
)

// Option configures the SVG and PNG renderers.
type Option func(*renderer)

type renderer struct {
	style      Style
	background string
	scale      float64
	image      image.Image
}

// WithStyle sets the overlay colors. Empty fields keep their defaults.
func WithStyle(s Style) Option { return func(r *renderer) { r.style = s.withDefaults() } }

// WithBackgroundURL references a spectrogram image underneath the SVG overlay.
func WithBackgroundURL(url string) Option { return func(r *renderer) { r.background = url } }

// WithBackground draws img underneath the PNG overlay, resized to the frame.
func WithBackground(img image.Image) Option { return func(r *renderer) { r.image = img } }

// WithScale sets the PNG pixel scale factor (default 1).
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

func newRenderer(opts []Option) renderer {
	r := renderer{style: DefaultStyle, scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) {
		r.scale = 1
	}
	return r
}

// RenderSVG draws the frame as a standalone SVG document.
func RenderSVG(f overlay.Frame, opts ...Option) []byte {
	r := newRenderer(opts)
	top, height := verticalExtent(f)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		top, f.Width, height, f.Width, height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <image href="%s" x="0" y="0" width="%.1f" height="%.1f" preserveAspectRatio="none"/>`+"\n",
			html.EscapeString(r.background), f.Width, f.Height)
	}

	buf.WriteString(`  <g class="rects" fill="none">` + "\n")
	for _, rect := range f.Rects {
		stroke := r.style.Stroke
		if rect.Selected {
			stroke = r.style.Selected
		}
		fmt.Fprintf(&buf, `    <polygon id="pulse-%d" points="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			rect.ID, svgPoints(rect), stroke, r.style.StrokeWidth)
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g class="ticks" stroke="%s">`+"\n", r.style.Tick)
	for _, l := range f.Lines {
		width := r.style.StrokeWidth
		if l.Thicker {
			width = r.style.TickWidth
		}
		a, b := l.Coordinates[0], l.Coordinates[1]
		fmt.Fprintf(&buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-width="%.1f"/>`+"\n",
			a.X(), a.Y(), b.X(), b.Y(), width)
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g class="labels" fill="%s" font-family="sans-serif" font-size="%.0f">`+"\n",
		r.style.Text, r.style.FontSize)
	for _, t := range f.Texts {
		fmt.Fprintf(&buf, `    <text x="%.1f" y="%.1f"%s>%s</text>`+"\n",
			t.X+t.OffsetX, t.Y+t.OffsetY, svgAnchor(t.Align), html.EscapeString(t.Text))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func svgPoints(r overlay.Rect) string {
	var buf bytes.Buffer
	for i, p := range r.Polygon.Ring {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%.1f,%.1f", p.X(), p.Y())
	}
	return buf.String()
}

func svgAnchor(align string) string {
	switch align {
	case "center":
		return ` text-anchor="middle"`
	case "right":
		return ` text-anchor="end"`
	default:
		return ""
	}
}

// verticalExtent widens the frame to include sequence bands and labels drawn
// above y=0 or below the spectrogram.
func verticalExtent(f overlay.Frame) (top, height float64) {
	lo, hi := 0.0, f.Height
	grow := func(y float64) {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	for _, r := range f.Rects {
		for _, p := range r.Polygon.Ring {
			grow(p.Y())
		}
	}
	for _, l := range f.Lines {
		grow(l.Coordinates[0].Y())
		grow(l.Coordinates[1].Y())
	}
	for _, t := range f.Texts {
		grow(t.Y + t.OffsetY)
	}
	return lo, hi - lo
}
