package figure

import "sync"

// Registry tracks open figures and the "current" one, for code that builds
// plots against implicit global state instead of passing handles around.
// Figures stay registered until closed, so callers that rely on it must
// call CloseAll once they are done.
type Registry struct {
	mu      sync.Mutex
	size    Size
	figures []Handle // registration order; last is current
}

// NewRegistry creates a registry whose new figures use the given size
func NewRegistry(size Size) *Registry {
	return &Registry{size: size.normalize()}
}

// Default is the process-wide figure registry
var Default = NewRegistry(DefaultSize())

// NewPlot creates a gonum figure, registers it and makes it current
func (r *Registry) NewPlot() *Plot {
	f := NewPlot(r.size)
	r.Register(f)
	return f
}

// Register tracks h and makes it the current figure. Registering a figure
// that is already tracked only moves it to current.
func (r *Registry) Register(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(h)
	r.figures = append(r.figures, h)
}

// Current returns the current figure, if any
func (r *Registry) Current() (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.figures) == 0 {
		return nil, false
	}
	return r.figures[len(r.figures)-1], true
}

// Gcf returns the current figure if it is a gonum plot, creating a new
// current plot otherwise
func (r *Registry) Gcf() *Plot {
	if h, ok := r.Current(); ok {
		if p, ok := h.(*Plot); ok {
			return p
		}
	}
	return r.NewPlot()
}

// Close closes h and stops tracking it. The most recently registered
// remaining figure becomes current.
func (r *Registry) Close(h Handle) {
	r.mu.Lock()
	r.remove(h)
	r.mu.Unlock()
	h.Close()
}

// CloseAll closes every tracked figure and empties the registry
func (r *Registry) CloseAll() {
	r.mu.Lock()
	figures := r.figures
	r.figures = nil
	r.mu.Unlock()

	for _, h := range figures {
		h.Close()
	}
}

// Len returns the number of tracked figures
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.figures)
}

func (r *Registry) remove(h Handle) {
	for i, f := range r.figures {
		if f == h {
			r.figures = append(r.figures[:i], r.figures[i+1:]...)
			return
		}
	}
}
