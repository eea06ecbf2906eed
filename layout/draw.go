package layout

import (
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/suxatcode/mindtree/geometry"
	"github.com/suxatcode/mindtree/tree"
)

type DrawOptions struct {
	Width, Height int
	// Padding around the drawing, in pixels.
	Padding     float64
	InvertColor bool
	Curve       geometry.CurveConfig
}

var DefaultDrawOptions = DrawOptions{
	Width:   800,
	Height:  600,
	Padding: 20,
	Curve:   geometry.DefaultCurveConfig,
}

// DrawFile renders t as PNG into filename.
func DrawFile(filename string, t *tree.Tree, opts DrawOptions) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return Draw(file, t, opts)
}

// Draw renders the visible nodes, edges and condition curves of t as PNG,
// scaled to fit the image.
func Draw(w io.Writer, t *tree.Tree, opts DrawOptions) error {
	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = DefaultDrawOptions.Width, DefaultDrawOptions.Height
	}
	background, foreground := "#ffffff", "#000000"
	if opts.InvertColor {
		background, foreground = foreground, background
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetHexColor(background)
	dc.Clear()

	visible := t.Visible()
	minX, minY := math.Inf(+1), math.Inf(+1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range visible {
		minX, maxX = math.Min(minX, n.Pos.X()-n.R), math.Max(maxX, n.Pos.X()+n.R)
		minY, maxY = math.Min(minY, n.Pos.Y()-n.R), math.Max(maxY, n.Pos.Y()+n.R)
	}
	scale := math.Min(
		(float64(opts.Width)-2*opts.Padding)/math.Max(maxX-minX, 1),
		(float64(opts.Height)-2*opts.Padding)/math.Max(maxY-minY, 1),
	)
	dc.Translate(opts.Padding, opts.Padding)
	dc.Scale(scale, scale)
	dc.Translate(-minX, -minY)

	dc.SetHexColor(foreground)
	dc.SetLineWidth(1)
	for _, e := range t.Edges() {
		dc.DrawLine(e.Start.X(), e.Start.Y(), e.End.X(), e.End.Y())
	}
	dc.Stroke()

	root, _ := t.Node(t.Root)
	for _, c := range t.ConditionLinks() {
		curve := geometry.ConditionCurve(c.Source.Circle(), c.Target.Circle(), root.Pos, opts.Curve)
		if curve.Degenerate {
			continue
		}
		dc.MoveTo(curve.Start.X(), curve.Start.Y())
		dc.QuadraticTo(curve.Control.X(), curve.Control.Y(), curve.End.X(), curve.End.Y())
		dc.DrawLine(curve.End.X(), curve.End.Y(), curve.ArrowLeft.X(), curve.ArrowLeft.Y())
		dc.DrawLine(curve.End.X(), curve.End.Y(), curve.ArrowRight.X(), curve.ArrowRight.Y())
	}
	dc.SetDash(4, 4)
	dc.Stroke()
	dc.SetDash()

	for _, n := range visible {
		dc.DrawCircle(n.Pos.X(), n.Pos.Y(), n.R)
		dc.SetHexColor(background)
		if n.Finished {
			dc.SetHexColor("#b7eb8f")
		}
		dc.FillPreserve()
		dc.SetHexColor(n.Style.Stroke)
		dc.SetLineWidth(n.Style.StrokeWidth)
		dc.Stroke()
		dc.SetHexColor(foreground)
		dc.DrawStringAnchored(n.Title, n.Pos.X(), n.Pos.Y(), 0.5, 0.5)
	}
	return dc.EncodePNG(w)
}
