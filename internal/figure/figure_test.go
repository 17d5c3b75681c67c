package figure

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot/plotter"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func newLinePlot(t *testing.T, size Size) *Plot {
	t.Helper()
	f := NewPlot(size)
	line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	require.NoError(t, err)
	f.Plot().Add(line)
	return f
}

func TestPlotWritePNG(t *testing.T) {
	f := newLinePlot(t, Size{Width: 2, Height: 1.5, DPI: 50})

	var buf bytes.Buffer
	require.NoError(t, f.WritePNG(&buf))
	require.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	w, h := f.Size().Pixels()
	assert.Equal(t, 100, w)
	assert.Equal(t, 75, h)
	assert.Equal(t, w, img.Bounds().Dx())
	assert.Equal(t, h, img.Bounds().Dy())
}

func TestPlotWritePNGDeterministic(t *testing.T) {
	f := newLinePlot(t, Size{Width: 2, Height: 2, DPI: 40})

	var first, second bytes.Buffer
	require.NoError(t, f.WritePNG(&first))
	require.NoError(t, f.WritePNG(&second))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestPlotClosed(t *testing.T) {
	f := newLinePlot(t, Size{})
	f.Close()

	assert.True(t, f.Closed())
	err := f.WritePNG(io.Discard)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPlotNil(t *testing.T) {
	f := FromPlot(nil, Size{})
	assert.ErrorIs(t, f.WritePNG(io.Discard), ErrInvalid)
}

func TestSizeDefaults(t *testing.T) {
	f := NewPlot(Size{Width: -1})
	assert.Equal(t, DefaultSize(), f.Size())

	w, h := DefaultSize().Pixels()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPlotWriterErrorPropagates(t *testing.T) {
	f := newLinePlot(t, Size{Width: 1, Height: 1, DPI: 20})
	err := f.WritePNG(failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestChartWritePNG(t *testing.T) {
	c := NewChart(chart.BarChart{
		Width:  400,
		Height: 300,
		Bars: []chart.Value{
			{Value: 3, Label: "a"},
			{Value: 5, Label: "b"},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, c.WritePNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

type brokenChart struct{}

func (brokenChart) Render(chart.RendererProvider, io.Writer) error {
	return errors.New("no series")
}

type panickingChart struct{}

func (panickingChart) Render(chart.RendererProvider, io.Writer) error {
	panic("index out of range")
}

func TestChartErrors(t *testing.T) {
	err := NewChart(brokenChart{}).WritePNG(io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no series")

	err = NewChart(panickingChart{}).WritePNG(io.Discard)
	assert.ErrorIs(t, err, ErrInvalid)

	assert.ErrorIs(t, NewChart(nil).WritePNG(io.Discard), ErrInvalid)

	c := NewChart(brokenChart{})
	c.Close()
	assert.True(t, c.Closed())
	assert.ErrorIs(t, c.WritePNG(io.Discard), ErrClosed)
}
