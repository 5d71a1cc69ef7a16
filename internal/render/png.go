package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"flowedit/internal/diagram"
	"flowedit/internal/editor"
)

// Padding surrounds the diagram in image exports, in world units.
const Padding = 20.0

// MaxImageSide limits either side of an exported PNG, in pixels.
const MaxImageSide = 16384

var ErrTooLarge = errors.New("render: diagram too large for an image")

const (
	strokeWidth = 2.0
	arrowLength = 10.0
	arrowWidth  = 7.0
	fontSize    = 14.0
)

// PNG draws the whole scene at one pixel per world unit. The guide line
// and connection points are not part of an export.
func PNG(w io.Writer, s Scene) error {
	dc, err := drawImage(s)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the scene to a PNG file. Nothing is created when the
// scene cannot be drawn.
func SavePNG(path string, s Scene) (err error) {
	if _, err := imageSize(s); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return PNG(f, s)
}

// imageSize returns the pixel size of the scene's export.
func imageSize(s Scene) (image.Point, error) {
	lo, hi, ok := s.Bounds()
	if !ok {
		return image.Point{}, ErrEmpty
	}
	w := math.Ceil(hi.X - lo.X + 2*Padding)
	h := math.Ceil(hi.Y - lo.Y + 2*Padding)
	if !(w <= MaxImageSide && h <= MaxImageSide) {
		return image.Point{}, fmt.Errorf("%w: %.0fx%.0f", ErrTooLarge, w, h)
	}
	return image.Pt(int(w), int(h)), nil
}

func drawImage(s Scene) (*gg.Context, error) {
	size, err := imageSize(s)
	if err != nil {
		return nil, err
	}
	lo, _, _ := s.Bounds()
	origin := diagram.Point{X: lo.X - Padding, Y: lo.Y - Padding}

	dc := gg.NewContext(size.X, size.Y)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, e := range s.Edges {
		drawEdgePNG(dc, e.From.Sub(origin), e.To.Sub(origin))
	}
	for _, n := range s.Nodes {
		drawNodePNG(dc, n, n.Position.Sub(origin))
	}
	return dc, nil
}

func drawEdgePNG(dc *gg.Context, from, to diagram.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	dc.SetColor(lineColor)
	dc.SetLineWidth(strokeWidth)
	if length < 0.1 {
		return
	}
	dx, dy = dx/length, dy/length

	// Stop the shaft at the arrow base so the tip stays sharp.
	base := diagram.Point{X: to.X - arrowLength*dx, Y: to.Y - arrowLength*dy}
	dc.DrawLine(from.X, from.Y, base.X, base.Y)
	dc.Stroke()

	half := arrowWidth / 2
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(base.X+half*dy, base.Y-half*dx)
	dc.LineTo(base.X-half*dy, base.Y+half*dx)
	dc.ClosePath()
	dc.Fill()
}

func drawNodePNG(dc *gg.Context, n Node, at diagram.Point) {
	hw, hh := n.Shape.HalfWidth, n.Shape.HalfHeight
	switch n.Type {
	case diagram.Start:
		dc.DrawEllipse(at.X, at.Y, hw, hh)
	case diagram.Process:
		dc.DrawRoundedRectangle(at.X-hw, at.Y-hh, 2*hw, 2*hh, 5)
	default:
		dc.NewSubPath()
		for i, off := range n.Shape.Offsets {
			if i == 0 {
				dc.MoveTo(at.X+off.X, at.Y+off.Y)
			} else {
				dc.LineTo(at.X+off.X, at.Y+off.Y)
			}
		}
		dc.ClosePath()
	}

	p := PaletteOf(n.Type)
	dc.SetColor(p.Fill)
	dc.FillPreserve()
	dc.SetColor(p.Stroke)
	dc.SetLineWidth(strokeWidth)
	dc.Stroke()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(n.Label, at.X, at.Y, 0.5, 0.35)
}

// ExportPNGFile renders d, without any editor state, to path.
func ExportPNGFile(path string, d *diagram.Diagram) error {
	return SavePNG(path, NewScene(d, editor.View{}))
}
