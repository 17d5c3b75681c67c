package encoder

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/koios/plotbox/internal/figure"
	"github.com/koios/plotbox/internal/plugin"
	"github.com/koios/plotbox/pkg/models"
	"go.uber.org/zap"
)

// ErrNoCurrentFigure is returned by CurrentBox when the registry is empty
var ErrNoCurrentFigure = errors.New("no current figure")

const (
	pathExplicit = "explicit"
	pathCurrent  = "current"
)

// Encoder turns figures into plot boxes
type Encoder struct {
	logger   *zap.Logger
	registry *figure.Registry
	metrics  *encoderMetrics
}

// New creates an encoder. The registry is only used by CurrentBox; a nil
// registry means figure.Default.
func New(logger *zap.Logger, registry *figure.Registry) *Encoder {
	if registry == nil {
		registry = figure.Default
	}
	return &Encoder{
		logger:   logger,
		registry: registry,
		metrics:  globalEncoderMetrics(),
	}
}

// Registry returns the registry CurrentBox reads from
func (e *Encoder) Registry() *figure.Registry {
	return e.registry
}

// Encode serializes a figure to PNG bytes
func (e *Encoder) Encode(fig figure.Figure) ([]byte, error) {
	return e.encode(pathExplicit, fig)
}

// Box encodes fig into a box for the plugin's render mode. It leaves the
// figure registry untouched.
func (e *Encoder) Box(fig figure.Figure) (*models.Box, error) {
	data, err := e.encode(pathExplicit, fig)
	if err != nil {
		return nil, err
	}
	return newBox(data), nil
}

// CurrentBox encodes the registry's current figure, then closes every
// figure the registry tracks, whether or not encoding succeeded.
func (e *Encoder) CurrentBox() (*models.Box, error) {
	defer func() {
		e.registry.CloseAll()
		e.metrics.openFigures.Set(float64(e.registry.Len()))
	}()

	fig, ok := e.registry.Current()
	if !ok {
		e.metrics.encodes.WithLabelValues(pathCurrent, "error").Inc()
		e.metrics.durations.WithLabelValues(pathCurrent).Observe(0)
		return nil, ErrNoCurrentFigure
	}

	data, err := e.encode(pathCurrent, fig)
	if err != nil {
		return nil, err
	}
	return newBox(data), nil
}

func (e *Encoder) encode(path string, fig figure.Figure) (data []byte, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("%w: %v", figure.ErrInvalid, r)
		}

		status := "success"
		if err != nil {
			status = "error"
			e.logger.Debug("Figure encode failed", zap.String("path", path), zap.Error(err))
		}
		e.metrics.encodes.WithLabelValues(path, status).Inc()
		e.metrics.durations.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}()

	if fig == nil {
		return nil, fmt.Errorf("encode figure: %w", figure.ErrInvalid)
	}

	var buf bytes.Buffer
	if err := fig.WritePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode figure: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("encode figure: %w: empty png output", figure.ErrInvalid)
	}

	e.metrics.payloadSize.Observe(float64(buf.Len()))
	e.logger.Debug("Figure encoded",
		zap.String("path", path),
		zap.Int("output_size", buf.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return buf.Bytes(), nil
}

func newBox(data []byte) *models.Box {
	return &models.Box{
		Mode:   plugin.Mode(),
		Data:   map[string]string{"png": base64.StdEncoding.EncodeToString(data)},
		Ignore: true,
	}
}
