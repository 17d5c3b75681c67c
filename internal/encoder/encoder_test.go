package encoder

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"io"
	"testing"

	"github.com/koios/plotbox/internal/figure"
	"github.com/koios/plotbox/internal/plugin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/plot/plotter"
	"pgregory.net/rapid"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

var smallSize = figure.Size{Width: 1.5, Height: 1, DPI: 40}

func linePlot(t require.TestingT, size figure.Size, pts plotter.XYs) *figure.Plot {
	f := figure.NewPlot(size)
	line, err := plotter.NewLine(pts)
	require.NoError(t, err)
	f.Plot().Add(line)
	return f
}

func decodePayload(t *testing.T, s string) []byte {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(s)
	require.NoError(t, err)
	return raw
}

func TestBoxEndToEnd(t *testing.T) {
	enc := New(zap.NewNop(), figure.NewRegistry(figure.Size{}))
	fig := linePlot(t, figure.Size{}, plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})

	box, err := enc.Box(fig)
	require.NoError(t, err)

	assert.Equal(t, "plugin:matplotlib.render", box.Mode)
	assert.True(t, box.Ignore)
	require.NotEmpty(t, box.Data["png"])
	assert.Len(t, box.Data, 1)

	raw := decodePayload(t, box.Data["png"])
	assert.Equal(t, pngSignature, raw[:8])

	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
	assert.NoError(t, box.Validate())
}

func TestBoxModeMatchesPlugin(t *testing.T) {
	enc := New(zap.NewNop(), nil)
	box, err := enc.Box(linePlot(t, smallSize, plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}}))
	require.NoError(t, err)

	assert.True(t, box.ResolvesTo(plugin.Plugin()))
}

func TestBoxMatchesNativeSerializer(t *testing.T) {
	enc := New(zap.NewNop(), nil)

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 8).Draw(rt, "points")
		pts := make(plotter.XYs, n)
		for i := range pts {
			pts[i].X = float64(i)
			pts[i].Y = rapid.Float64Range(-100, 100).Draw(rt, "y")
		}
		fig := linePlot(rt, smallSize, pts)

		var native bytes.Buffer
		if err := fig.WritePNG(&native); err != nil {
			rt.Fatalf("native serialization failed: %v", err)
		}

		box, err := enc.Box(fig)
		if err != nil {
			rt.Fatalf("encode failed: %v", err)
		}

		raw, err := base64.StdEncoding.DecodeString(box.Data["png"])
		if err != nil {
			rt.Fatalf("payload is not base64: %v", err)
		}
		if !bytes.Equal(native.Bytes(), raw) {
			rt.Fatalf("encoded payload differs from native PNG (%d vs %d bytes)", len(raw), native.Len())
		}
	})
}

func TestBoxLeavesRegistryAlone(t *testing.T) {
	registry := figure.NewRegistry(smallSize)
	tracked := registry.NewPlot()
	enc := New(zap.NewNop(), registry)

	_, err := enc.Box(linePlot(t, smallSize, plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}}))
	require.NoError(t, err)

	assert.Equal(t, 1, registry.Len())
	assert.False(t, tracked.Closed())
}

func TestBoxClosedFigure(t *testing.T) {
	enc := New(zap.NewNop(), nil)
	fig := linePlot(t, smallSize, plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	fig.Close()

	box, err := enc.Box(fig)
	assert.Nil(t, box)
	assert.ErrorIs(t, err, figure.ErrClosed)
}

func TestBoxInvalidFigures(t *testing.T) {
	enc := New(zap.NewNop(), nil)

	box, err := enc.Box(nil)
	assert.Nil(t, box)
	assert.ErrorIs(t, err, figure.ErrInvalid)

	var typedNil *figure.Plot
	box, err = enc.Box(typedNil)
	assert.Nil(t, box)
	assert.ErrorIs(t, err, figure.ErrInvalid)
}

type stubFigure struct {
	data []byte
	err  error
}

func (s stubFigure) WritePNG(w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := w.Write(s.data)
	return err
}

func TestBoxPropagatesLibraryError(t *testing.T) {
	libErr := errors.New("singular matrix")
	enc := New(zap.NewNop(), nil)

	box, err := enc.Box(stubFigure{err: libErr})
	assert.Nil(t, box)
	assert.ErrorIs(t, err, libErr)
}

func TestBoxEmptyOutput(t *testing.T) {
	enc := New(zap.NewNop(), nil)

	box, err := enc.Box(stubFigure{})
	assert.Nil(t, box)
	assert.ErrorIs(t, err, figure.ErrInvalid)
}

func TestEncodeReturnsRawBytes(t *testing.T) {
	enc := New(zap.NewNop(), nil)

	data, err := enc.Encode(stubFigure{data: []byte("payload")})
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestCurrentBox(t *testing.T) {
	registry := figure.NewRegistry(smallSize)
	enc := New(zap.NewNop(), registry)

	older := registry.NewPlot()
	cur := registry.NewPlot()
	line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	require.NoError(t, err)
	cur.Plot().Add(line)

	var native bytes.Buffer
	require.NoError(t, cur.WritePNG(&native))

	box, err := enc.CurrentBox()
	require.NoError(t, err)
	assert.Equal(t, plugin.Mode(), box.Mode)
	assert.Equal(t, native.Bytes(), decodePayload(t, box.Data["png"]))

	assert.Equal(t, 0, registry.Len())
	assert.True(t, older.Closed())
	assert.True(t, cur.Closed())
}

func TestCurrentBoxClosesOnFailure(t *testing.T) {
	registry := figure.NewRegistry(smallSize)
	enc := New(zap.NewNop(), registry)

	registry.NewPlot()
	registry.Register(brokenHandle{})

	box, err := enc.CurrentBox()
	assert.Nil(t, box)
	assert.Error(t, err)
	assert.Equal(t, 0, registry.Len())
}

func TestCurrentBoxEmptyRegistryErrorsInsteadOfBlankFigure(t *testing.T) {
	enc := New(zap.NewNop(), figure.NewRegistry(smallSize))

	box, err := enc.CurrentBox()
	assert.Nil(t, box)
	assert.ErrorIs(t, err, ErrNoCurrentFigure)
}

func encodeCounts(t *testing.T, m *encoderMetrics, path string) (encodes, durations uint64) {
	t.Helper()
	for _, status := range []string{"success", "error"} {
		var c dto.Metric
		require.NoError(t, m.encodes.WithLabelValues(path, status).Write(&c))
		encodes += uint64(c.GetCounter().GetValue())
	}
	var h dto.Metric
	require.NoError(t, m.durations.WithLabelValues(path).(prometheus.Metric).Write(&h))
	return encodes, h.GetHistogram().GetSampleCount()
}

func TestCurrentBoxMetricsStayPaired(t *testing.T) {
	enc := New(zap.NewNop(), figure.NewRegistry(smallSize))
	encodes0, durations0 := encodeCounts(t, enc.metrics, pathCurrent)

	_, err := enc.CurrentBox()
	require.ErrorIs(t, err, ErrNoCurrentFigure)

	enc.Registry().Register(linePlot(t, smallSize, plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}}))
	_, err = enc.CurrentBox()
	require.NoError(t, err)

	encodes, durations := encodeCounts(t, enc.metrics, pathCurrent)
	assert.Equal(t, uint64(2), encodes-encodes0)
	assert.Equal(t, uint64(2), durations-durations0)
}

type brokenHandle struct{}

func (brokenHandle) WritePNG(io.Writer) error { return errors.New("figure has no canvas") }
func (brokenHandle) Close()                   {}
func (brokenHandle) Closed() bool             { return false }
