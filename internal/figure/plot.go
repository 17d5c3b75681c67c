package figure

import (
	"fmt"
	"io"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Plot is a figure handle backed by a gonum plot
type Plot struct {
	mu     sync.Mutex
	plot   *plot.Plot
	size   Size
	closed bool
}

// NewPlot creates an empty gonum figure of the given size
func NewPlot(size Size) *Plot {
	return FromPlot(plot.New(), size)
}

// FromPlot wraps an existing gonum plot. The plot is only read when the
// figure is serialized.
func FromPlot(p *plot.Plot, size Size) *Plot {
	return &Plot{plot: p, size: size.normalize()}
}

// Plot returns the underlying gonum plot for adding data
func (f *Plot) Plot() *plot.Plot {
	return f.plot
}

// Size returns the geometry the figure is rasterized at
func (f *Plot) Size() Size {
	return f.size
}

// WritePNG rasterizes the plot and writes it as PNG
func (f *Plot) WritePNG(w io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if f.plot == nil {
		return ErrInvalid
	}

	return safeRender(func() error {
		c := vgimg.NewWith(
			vgimg.UseWH(vg.Length(f.size.Width)*vg.Inch, vg.Length(f.size.Height)*vg.Inch),
			vgimg.UseDPI(f.size.DPI),
		)
		f.plot.Draw(draw.New(c))

		if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
			return fmt.Errorf("failed to write png: %w", err)
		}
		return nil
	})
}

// Close releases the handle; later serialization fails with ErrClosed
func (f *Plot) Close() {
	f.mu.Lock()
	f.closed = true
	f.plot = nil
	f.mu.Unlock()
}

// Closed reports whether Close has been called
func (f *Plot) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
