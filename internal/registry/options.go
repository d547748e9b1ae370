package registry

import (
	"time"

	"github.com/1broseidon/retrodesk/internal/geometry"
)

// Timer is the handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// ScheduleFunc runs f after d. The default is time.AfterFunc.
type ScheduleFunc func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option customizes a Registry.
type Option func(*Registry)

// WithScheduler replaces the timer used for deferred close removal.
func WithScheduler(fn ScheduleFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.schedule = fn
		}
	}
}

// OpenOption customizes a single Open call.
type OpenOption func(*openParams)

type openParams struct {
	position *geometry.Point
	size     *geometry.Size
	canClose *bool
}

// WithPosition places a newly created window. Ignored on reopen.
func WithPosition(p geometry.Point) OpenOption {
	return func(o *openParams) { o.position = &p }
}

// WithSize sizes a newly created window. Ignored on reopen.
func WithSize(s geometry.Size) OpenOption {
	return func(o *openParams) { o.size = &s }
}

// WithCanClose overrides whether a newly created window may be closed.
func WithCanClose(canClose bool) OpenOption {
	return func(o *openParams) { o.canClose = &canClose }
}
