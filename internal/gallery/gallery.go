// Package gallery holds the demo plots shown by the server and CLI.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/koios/plotbox/internal/encoder"
	"github.com/koios/plotbox/internal/figure"
	"github.com/koios/plotbox/internal/view"
	"github.com/koios/plotbox/pkg/models"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
)

// ErrUnknownPlot is returned for ids that are not in the gallery
var ErrUnknownPlot = errors.New("unknown plot")

// Item is one demo plot. Exactly one of figure or current is set: figure
// builds an explicit handle, current draws onto the registry's current
// figure.
type Item struct {
	ID      string `json:"id"`
	Caption string `json:"caption"`

	figure  func(figure.Size) (figure.Figure, error)
	current func(*plot.Plot) error
}

func defaultItems() []Item {
	return []Item{
		{ID: "simple", Caption: "## Line plots", figure: plotSimple},
		{ID: "signals", Caption: "## Signal coherence", figure: plotSignals},
		{ID: "bars", Caption: "## Bar chart", figure: plotBars},
		{ID: "pie", Caption: "## Pie chart", figure: plotPie},
		{ID: "colormap", Caption: "## Color map", figure: plotColormap},
		{ID: "density", Caption: "## Density (current figure)", current: drawDensity},
	}
}

// Gallery encodes demo plots into boxes
type Gallery struct {
	encoder *encoder.Encoder
	pool    *encoder.Pool
	size    figure.Size
	logger  *zap.Logger
	items   []Item

	// currentMu serializes builders that go through the shared registry
	currentMu sync.Mutex
}

// New creates a gallery whose explicit figures use size
func New(enc *encoder.Encoder, size figure.Size, logger *zap.Logger) *Gallery {
	return &Gallery{
		encoder: enc,
		size:    size,
		logger:  logger,
		items:   defaultItems(),
	}
}

// WithPool routes explicit figures through a started encoder pool
func (g *Gallery) WithPool(pool *encoder.Pool) *Gallery {
	g.pool = pool
	return g
}

// Encoder returns the encoder the gallery renders with
func (g *Gallery) Encoder() *encoder.Encoder {
	return g.encoder
}

// Items lists the gallery in display order
func (g *Gallery) Items() []Item {
	out := make([]Item, len(g.items))
	copy(out, g.items)
	return out
}

// Box encodes the plot with the given id
func (g *Gallery) Box(ctx context.Context, id string) (*models.Box, error) {
	for _, item := range g.items {
		if item.ID == id {
			return g.encodeItem(ctx, item)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPlot, id)
}

// Show registers plugins with sink, then shows every plot in order. The
// first encode or sink error aborts the sequence.
func (g *Gallery) Show(ctx context.Context, sink view.Sink, plugins ...*models.Plugin) error {
	if err := sink.Register(plugins...); err != nil {
		return fmt.Errorf("failed to register plugins: %w", err)
	}

	for _, item := range g.items {
		box, err := g.encodeItem(ctx, item)
		if err != nil {
			return err
		}
		if err := sink.Show(item.Caption, box); err != nil {
			return fmt.Errorf("failed to show %s: %w", item.ID, err)
		}
	}

	g.logger.Debug("Gallery shown", zap.Int("plots", len(g.items)))
	return nil
}

func (g *Gallery) encodeItem(ctx context.Context, item Item) (*models.Box, error) {
	if item.current != nil {
		return g.encodeCurrent(item)
	}

	fig, err := item.figure(g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", item.ID, err)
	}

	var box *models.Box
	if g.pool != nil {
		box, err = g.pool.Submit(ctx, fig)
	} else {
		box, err = g.encoder.Box(fig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", item.ID, err)
	}
	return box, nil
}

func (g *Gallery) encodeCurrent(item Item) (*models.Box, error) {
	g.currentMu.Lock()
	defer g.currentMu.Unlock()

	registry := g.encoder.Registry()
	if err := item.current(registry.Gcf().Plot()); err != nil {
		registry.CloseAll()
		return nil, fmt.Errorf("failed to build %s: %w", item.ID, err)
	}

	box, err := g.encoder.CurrentBox()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", item.ID, err)
	}
	return box, nil
}
