package gallery

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/koios/plotbox/internal/figure"
	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const seed = 19680801

func linspace(start, stop float64, n int) []float64 {
	xs := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	return xs
}

// plotSimple draws x, x² and x³ with a legend
func plotSimple(size figure.Size) (figure.Figure, error) {
	f := figure.NewPlot(size)
	p := f.Plot()
	p.X.Label.Text = "x label"
	p.Y.Label.Text = "y label"
	p.Legend.Top = true
	p.Legend.Left = true

	curves := []struct {
		label string
		fn    func(float64) float64
	}{
		{"linear", func(x float64) float64 { return x }},
		{"quadratic", func(x float64) float64 { return x * x }},
		{"cubic", func(x float64) float64 { return x * x * x }},
	}

	xs := linspace(0, 2, 100)
	for i, c := range curves {
		pts := make(plotter.XYs, len(xs))
		for j, x := range xs {
			pts[j].X, pts[j].Y = x, c.fn(x)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", c.label, err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(c.label, line)
	}

	return f, nil
}

// plotSignals draws two noisy signals sharing a 10Hz component
func plotSignals(size figure.Size) (figure.Figure, error) {
	rng := rand.New(rand.NewSource(seed))

	const dt = 0.01
	ts := linspace(0, 2, int(2/dt)+1)
	s1 := make(plotter.XYs, len(ts))
	s2 := make(plotter.XYs, len(ts))
	for i, t := range ts {
		base := math.Sin(2 * math.Pi * 10 * t)
		s1[i].X, s1[i].Y = t, base+rng.NormFloat64()
		s2[i].X, s2[i].Y = t, base+rng.NormFloat64()
	}

	f := figure.NewPlot(size)
	p := f.Plot()
	p.X.Label.Text = "time"
	p.Y.Label.Text = "s1 and s2"
	p.Add(plotter.NewGrid())

	if err := plotutil.AddLines(p, "s1", s1, "s2", s2); err != nil {
		return nil, fmt.Errorf("signal lines: %w", err)
	}

	return f, nil
}

// plotBars draws a labeled bar chart with go-chart
func plotBars(size figure.Size) (figure.Figure, error) {
	w, h := size.Pixels()
	return figure.NewChart(chart.BarChart{
		Title:  "Fruit supply",
		Width:  w,
		Height: h,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Bars: []chart.Value{
			{Value: 40, Label: "apple"},
			{Value: 100, Label: "blueberry"},
			{Value: 30, Label: "cherry"},
			{Value: 55, Label: "orange"},
		},
	}), nil
}

// plotPie draws a pie chart with go-chart
func plotPie(size figure.Size) (figure.Figure, error) {
	w, h := size.Pixels()
	return figure.NewChart(chart.PieChart{
		Width:  w,
		Height: h,
		Values: []chart.Value{
			{Value: 15, Label: "Frogs"},
			{Value: 30, Label: "Hogs"},
			{Value: 45, Label: "Dogs"},
			{Value: 10, Label: "Logs"},
		},
	}), nil
}

// waveGrid is a z = sin(x)·cos(y) surface sampled on a regular grid
type waveGrid struct {
	cols, rows int
}

func (g waveGrid) Dims() (c, r int)   { return g.cols, g.rows }
func (g waveGrid) X(c int) float64    { return float64(c) * 4 * math.Pi / float64(g.cols-1) }
func (g waveGrid) Y(r int) float64    { return float64(r) * 4 * math.Pi / float64(g.rows-1) }
func (g waveGrid) Z(c, r int) float64 { return math.Sin(g.X(c)) * math.Cos(g.Y(r)) }

// plotColormap draws a heat map of a sampled wave surface
func plotColormap(size figure.Size) (figure.Figure, error) {
	f := figure.NewPlot(size)
	p := f.Plot()
	p.Title.Text = "sin(x) cos(y)"
	p.Add(plotter.NewHeatMap(waveGrid{cols: 40, rows: 30}, palette.Heat(12, 1)))
	return f, nil
}

// drawDensity draws a normalized histogram of normal samples with the
// matching density curve onto p
func drawDensity(p *plot.Plot) error {
	rng := rand.New(rand.NewSource(seed))

	values := make(plotter.Values, 500)
	for i := range values {
		values[i] = rng.NormFloat64()
	}

	hist, err := plotter.NewHist(values, 24)
	if err != nil {
		return fmt.Errorf("density histogram: %w", err)
	}
	hist.Normalize(1)
	p.Add(hist)

	pdf := plotter.NewFunction(func(x float64) float64 {
		return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
	})
	pdf.Color = plotutil.Color(1)
	pdf.Width = vg.Points(2)
	p.Add(pdf)

	p.Title.Text = "Normal samples"
	p.X.Label.Text = "value"
	p.Y.Label.Text = "density"
	return nil
}
