package figure

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrClosed is returned when serializing a figure that has been closed
	ErrClosed = errors.New("figure is closed")
	// ErrInvalid is returned when a figure handle has nothing to render
	ErrInvalid = errors.New("figure is not renderable")
)

// Figure is a renderable plot that can serialize itself as a PNG image
type Figure interface {
	WritePNG(w io.Writer) error
}

// Handle is a figure with a lifetime that the registry can track and close
type Handle interface {
	Figure
	Close()
	Closed() bool
}

// Default figure geometry, in inches and dots per inch
const (
	DefaultWidth  = 6.4
	DefaultHeight = 4.8
	DefaultDPI    = 100
)

// Size is the physical size and resolution a figure is rasterized at
type Size struct {
	Width  float64 // inches
	Height float64 // inches
	DPI    int
}

// DefaultSize returns the default figure geometry
func DefaultSize() Size {
	return Size{Width: DefaultWidth, Height: DefaultHeight, DPI: DefaultDPI}
}

// normalize fills unset or non-positive dimensions with defaults
func (s Size) normalize() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	if s.DPI <= 0 {
		s.DPI = DefaultDPI
	}
	return s
}

// Pixels returns the raster dimensions for the size
func (s Size) Pixels() (width, height int) {
	s = s.normalize()
	return int(s.Width*float64(s.DPI) + 0.5), int(s.Height*float64(s.DPI) + 0.5)
}

// safeRender converts a panic raised inside a plotting library into an error
func safeRender(render func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: render panicked: %v", ErrInvalid, r)
		}
	}()
	return render()
}
