package chart

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mmynk/tripledger/internal/calculator"
)

const (
	barWidth   = 32
	barsWidth  = 6 * vg.Inch
	barsHeight = 4 * vg.Inch
)

// WriteBarPNG draws totals as a bar chart, one coloured bar per category,
// with amounts on the Y axis labelled by currencyCode.
func WriteBarPNG(w io.Writer, totals []calculator.CategoryTotal, currencyCode string) error {
	p := plot.New()
	p.Title.Text = "Spend by category"
	p.Y.Label.Text = currencyCode
	p.Y.Min = 0

	if len(totals) == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Max = 1
	}

	labels := make([]string, len(totals))
	for i, t := range totals {
		bars, err := plotter.NewBarChart(plotter.Values{t.Amount}, vg.Points(barWidth))
		if err != nil {
			return fmt.Errorf("failed to build bar for %s: %w", t.Category, err)
		}
		bars.XMin = float64(i)
		bars.Color = hexColor(t.Category.Color())
		bars.LineStyle.Width = 0
		p.Add(bars)
		labels[i] = string(t.Category)
	}
	if len(labels) > 0 {
		p.NominalX(labels...)
	}

	wt, err := p.WriterTo(barsWidth, barsHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write bar chart: %w", err)
	}
	return nil
}

// hexColor parses "#RRGGBB". Malformed input yields mid grey.
func hexColor(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
