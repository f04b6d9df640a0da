package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/overlay"
)

// maxPNGPixels bounds the raster size.
const maxPNGPixels = 64 << 20

// LoadBackground opens a spectrogram image from disk.
func LoadBackground(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open background %s", path)
	}
	return img, nil
}

// DecodeBackground decodes a spectrogram image from memory.
func DecodeBackground(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode background")
	}
	return img, nil
}

type canvas struct {
	img   *image.RGBA
	scale float64
	top   float64
}

func (c *canvas) px(x, y float64) (float64, float64) {
	return x * c.scale, (y - c.top) * c.scale
}

// RenderPNG rasterises the frame. Sequence bands above the spectrogram
// extend the canvas upward; the background occupies the spectrogram area.
func RenderPNG(f overlay.Frame, opts ...Option) ([]byte, error) {
	r := newRenderer(opts)
	top, height := verticalExtent(f)

	fw := math.Ceil(f.Width * r.scale)
	fh := math.Ceil(height * r.scale)
	if !(fw > 0 && fh > 0) {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "frame has no area: %.1fx%.1f", f.Width, height)
	}
	// Checked in float64 so huge frames cannot wrap the int conversion.
	if fw > maxPNGPixels || fh > maxPNGPixels || fw*fh > maxPNGPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png too large: %.0fx%.0f", fw, fh)
	}
	w, h := int(fw), int(fh)

	c := &canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), scale: r.scale, top: top}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)

	if r.image != nil {
		bw := int(math.Round(f.Width * r.scale))
		bh := int(math.Round(f.Height * r.scale))
		if bw > 0 && bh > 0 {
			bg := imaging.Resize(r.image, bw, bh, imaging.Lanczos)
			_, y0 := c.px(0, 0)
			at := image.Pt(0, int(math.Round(y0)))
			draw.Draw(c.img, bg.Bounds().Add(at), bg, image.Point{}, draw.Over)
		}
	}

	stroke, selected := mustColor(r.style.Stroke), mustColor(r.style.Selected)
	for _, rect := range f.Rects {
		col := stroke
		if rect.Selected {
			col = selected
		}
		ring := rect.Polygon.Ring
		for i := 0; i < len(ring)-1; i++ {
			x0, y0 := c.px(ring[i].X(), ring[i].Y())
			x1, y1 := c.px(ring[i+1].X(), ring[i+1].Y())
			c.line(x0, y0, x1, y1, r.style.StrokeWidth*r.scale, col)
		}
	}

	tick := mustColor(r.style.Tick)
	for _, l := range f.Lines {
		width := r.style.StrokeWidth
		if l.Thicker {
			width = r.style.TickWidth
		}
		x0, y0 := c.px(l.Coordinates[0].X(), l.Coordinates[0].Y())
		x1, y1 := c.px(l.Coordinates[1].X(), l.Coordinates[1].Y())
		c.line(x0, y0, x1, y1, width*r.scale, tick)
	}

	text := image.NewUniform(mustColor(r.style.Text))
	for _, t := range f.Texts {
		x, y := c.px(t.X+t.OffsetX, t.Y+t.OffsetY)
		c.text(x, y, t.Text, t.Align, text)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// line stamps squares of the given width along the segment.
func (c *canvas) line(x0, y0, x1, y1, width float64, col color.Color) {
	half := math.Max(width/2, 0.5)
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	src := image.NewUniform(col)
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		r := image.Rect(
			int(math.Floor(x-half)), int(math.Floor(y-half)),
			int(math.Ceil(x+half)), int(math.Ceil(y+half)),
		)
		draw.Draw(c.img, r.Intersect(c.img.Bounds()), src, image.Point{}, draw.Over)
	}
}

func (c *canvas) text(x, y float64, s, align string, src image.Image) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	switch align {
	case "center":
		x -= float64(width) / 2
	case "right":
		x -= float64(width)
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  src,
		Face: face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(s)
}
