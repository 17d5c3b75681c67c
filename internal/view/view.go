// Package view delivers plugins and boxes to a UI client.
package view

import (
	"sync"

	"github.com/koios/plotbox/pkg/models"
)

// Sink accepts plugin registrations and box compositions
type Sink interface {
	Register(plugins ...*models.Plugin) error
	Show(caption string, boxes ...*models.Box) error
}

// Frame is one message sent to a client
type Frame struct {
	Type    string           `json:"t"`
	Plugins []*models.Plugin `json:"plugins,omitempty"`
	Caption string           `json:"caption,omitempty"`
	Boxes   []*models.Box    `json:"boxes,omitempty"`
}

// Frame types
const (
	FramePlugins = "plugins"
	FrameShow    = "show"
)

// Recorder is a Sink that keeps every frame in memory
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Register records a plugins frame
func (r *Recorder) Register(plugins ...*models.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, Frame{Type: FramePlugins, Plugins: plugins})
	return nil
}

// Show records a show frame holding the boxes
func (r *Recorder) Show(caption string, boxes ...*models.Box) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, Frame{Type: FrameShow, Caption: caption, Boxes: boxes})
	return nil
}

// Frames returns a copy of the recorded frames
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}
