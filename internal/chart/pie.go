// Package chart renders the category breakdown of a trip as images.
package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/mmynk/tripledger/internal/calculator"
)

const (
	pieSize    = 240
	pieRadius  = 100
	legendX    = pieSize + 20
	legendRow  = 22
	svgWidth   = pieSize + 180
	emptyColor = "#E5E7EB"
)

// WritePieSVG draws totals as a pie chart with a legend. Wedges start at
// twelve o'clock and run clockwise in the order given.
func WritePieSVG(w io.Writer, totals []calculator.CategoryTotal) error {
	var buf bytes.Buffer
	height := max(pieSize, legendRow*len(totals)+2*legendRow)

	canvas := svg.New(&buf)
	canvas.Start(svgWidth, height)
	canvas.Title("Spend by category")

	c := pieSize / 2
	slices := calculator.PieSlices(totals)
	if len(slices) == 0 {
		canvas.Circle(c, c, pieRadius, "fill:"+emptyColor)
		canvas.Text(c, c, "No expenses", "text-anchor:middle;font-family:sans-serif;font-size:14px;fill:#6B7280")
	}

	canvas.Gtransform(fmt.Sprintf("rotate(-90 %d %d)", c, c))
	for _, s := range slices {
		if s.FullCircle {
			canvas.Circle(c, c, pieRadius, "fill:"+s.Color)
			continue
		}
		if s.End-s.Start <= 0 {
			continue
		}
		canvas.Path(wedgePath(float64(c), float64(c), pieRadius, s), "fill:"+s.Color)
	}
	canvas.Gend()

	for i, t := range totals {
		y := legendRow * (i + 1)
		canvas.Rect(legendX, y-12, 14, 14, "fill:"+t.Category.Color())
		canvas.Text(legendX+22, y, fmt.Sprintf("%s %.1f%%", t.Category, t.Percentage),
			"font-family:sans-serif;font-size:13px;fill:#111827")
	}

	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

// wedgePath returns the SVG path of a pie wedge centred on (cx, cy).
func wedgePath(cx, cy, r float64, s calculator.Slice) string {
	x0, y0 := cx+r*math.Cos(s.StartAngle), cy+r*math.Sin(s.StartAngle)
	x1, y1 := cx+r*math.Cos(s.EndAngle), cy+r*math.Sin(s.EndAngle)
	largeArc := 0
	if s.LargeArc {
		largeArc = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %.3f %.3f ", cx, cy)
	fmt.Fprintf(&b, "L %.3f %.3f ", x0, y0)
	fmt.Fprintf(&b, "A %.3f %.3f 0 %d 1 %.3f %.3f Z", r, r, largeArc, x1, y1)
	return b.String()
}
