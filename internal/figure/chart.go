package figure

import (
	"fmt"
	"io"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Renderable is implemented by go-chart's chart types (Chart, BarChart,
// PieChart, DonutChart, StackedBarChart)
type Renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Chart is a figure handle backed by a go-chart renderable
type Chart struct {
	mu     sync.Mutex
	chart  Renderable
	closed bool
}

// NewChart wraps a go-chart renderable as a figure
func NewChart(r Renderable) *Chart {
	return &Chart{chart: r}
}

// WritePNG renders the chart with go-chart's PNG renderer
func (c *Chart) WritePNG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.chart == nil {
		return ErrInvalid
	}

	return safeRender(func() error {
		if err := c.chart.Render(chart.PNG, w); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		return nil
	})
}

// Close releases the handle; later serialization fails with ErrClosed
func (c *Chart) Close() {
	c.mu.Lock()
	c.closed = true
	c.chart = nil
	c.mu.Unlock()
}

// Closed reports whether Close has been called
func (c *Chart) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
