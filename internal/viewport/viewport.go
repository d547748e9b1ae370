// Package viewport supplies the desktop viewport size that the work area is
// derived from. Sizes are sampled on every call rather than cached by callers.
package viewport

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/geometry"
)

// Source reports the current viewport size.
type Source interface {
	Size() geometry.Size
}

// Resizer is implemented by sources whose size can be set by a client.
type Resizer interface {
	SetSize(geometry.Size)
}

// Static is a fixed, settable viewport.
type Static struct {
	mu   sync.RWMutex
	size geometry.Size
}

// NewStatic creates a static viewport of the given size.
func NewStatic(width, height int) *Static {
	return &Static{size: geometry.Size{Width: width, Height: height}}
}

// Size returns the current size.
func (s *Static) Size() geometry.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// SetSize replaces the size.
func (s *Static) SetSize(size geometry.Size) {
	s.mu.Lock()
	s.size = size
	s.mu.Unlock()
}

// FromConfig builds the configured source. With source "auto" an X11
// connection is attempted when DISPLAY is set and the static size is used
// otherwise. The returned close func is never nil.
func FromConfig(cfg *config.Config) (Source, func(), error) {
	fallback := geometry.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
	noop := func() {}

	switch cfg.Viewport.Source {
	case config.ViewportStatic:
		return NewStatic(fallback.Width, fallback.Height), noop, nil
	case config.ViewportX11:
		src, err := NewX11(fallback)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open X11 viewport: %w", err)
		}
		return src, src.Close, nil
	default:
		if os.Getenv("DISPLAY") == "" {
			return NewStatic(fallback.Width, fallback.Height), noop, nil
		}
		src, err := NewX11(fallback)
		if err != nil {
			log.Printf("Viewport: X11 unavailable (%v), using static %dx%d", err, fallback.Width, fallback.Height)
			return NewStatic(fallback.Width, fallback.Height), noop, nil
		}
		return src, src.Close, nil
	}
}
