// Package gesture turns pointer gestures on window chrome into transient
// geometry and a single commit to the window store.
package gesture

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/registry"
)

var (
	ErrUnknownWindow = errors.New("unknown window")
	ErrMaximized     = errors.New("window is maximized")
	ErrGestureActive = errors.New("a gesture is already in flight on this window")
	ErrInvalidHandle = errors.New("invalid resize handle")
)

// WindowStore is the subset of the registry a controller needs.
type WindowStore interface {
	Window(id string) (registry.Window, bool)
	Focus(id string)
	ToggleMaximize(id string)
	CommitBounds(id string, b geometry.Bounds) bool
	WorkArea() geometry.Rect
	MinSize() geometry.Size
	Subscribe(fn func(registry.Event)) func()
}

// Controller holds one gesture slot per window.
type Controller struct {
	store      WindowStore
	minVisible int
	onBegin    func(id string, phase Phase, err error)
	onEnd      func(id string, reason EndReason, b geometry.Bounds)
	unsub      func()

	mu    sync.Mutex
	slots map[string]*slot
}

// NewController creates a controller committing into store. minVisible is
// the part of a dragged window that must stay inside the work area.
func NewController(store WindowStore, minVisible int) *Controller {
	if minVisible <= 0 {
		minVisible = 1
	}
	c := &Controller{
		store:      store,
		minVisible: minVisible,
		slots:      make(map[string]*slot),
	}
	c.unsub = store.Subscribe(c.invalidate)
	return c
}

// Close stops following store changes.
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
	}
}

// invalidate drops a gesture without committing when its window was
// maximized, closed or replaced while the gesture was in flight.
func (c *Controller) invalidate(ev registry.Event) {
	switch ev.Kind {
	case registry.EventMaximized, registry.EventClosing, registry.EventClosed, registry.EventOpened:
	default:
		return
	}
	c.mu.Lock()
	delete(c.slots, ev.ID)
	c.mu.Unlock()
}

// OnBegin registers fn to run after each gesture start attempt. err is nil
// when the gesture started.
func (c *Controller) OnBegin(fn func(id string, phase Phase, err error)) {
	c.mu.Lock()
	c.onBegin = fn
	c.mu.Unlock()
}

// OnEnd registers fn to run after each gesture commit.
func (c *Controller) OnEnd(fn func(id string, reason EndReason, b geometry.Bounds)) {
	c.mu.Lock()
	c.onEnd = fn
	c.mu.Unlock()
}

// BeginDrag starts moving a window by its title bar and focuses it.
func (c *Controller) BeginDrag(id string, pointer geometry.Point) (string, error) {
	return c.begin(id, PhaseDragging, 0, pointer)
}

// BeginResize starts resizing a window from handle and focuses it.
func (c *Controller) BeginResize(id string, handle Handle, pointer geometry.Point) (string, error) {
	if !handle.Valid() {
		return "", ErrInvalidHandle
	}
	return c.begin(id, PhaseResizing, handle, pointer)
}

func (c *Controller) begin(id string, phase Phase, handle Handle, pointer geometry.Point) (string, error) {
	token, err := c.claim(id, phase, handle, pointer)

	c.mu.Lock()
	onBegin := c.onBegin
	c.mu.Unlock()
	if onBegin != nil {
		onBegin(id, phase, err)
	}
	if err != nil {
		return "", err
	}

	c.store.Focus(id)
	return token, nil
}

func (c *Controller) claim(id string, phase Phase, handle Handle, pointer geometry.Point) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.slots[id]; busy {
		return "", ErrGestureActive
	}
	w, ok := c.store.Window(id)
	if !ok || !w.IsOpen {
		return "", ErrUnknownWindow
	}
	if w.IsMaximized {
		return "", ErrMaximized
	}
	s := &slot{
		token:        uuid.New().String(),
		phase:        phase,
		handle:       handle,
		startPointer: pointer,
		start:        w.Bounds(),
		current:      w.Bounds(),
	}
	c.slots[id] = s
	return s.token, nil
}

// Move feeds a pointer position into the window's gesture and returns the
// clamped transient geometry. ok is false when no gesture is in flight.
func (c *Controller) Move(id string, pointer geometry.Point) (geometry.Bounds, bool) {
	wa := c.store.WorkArea()
	minSize := c.store.MinSize()

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[id]
	if !ok {
		return geometry.Bounds{}, false
	}
	delta := pointer.Sub(s.startPointer)
	switch s.phase {
	case PhaseDragging:
		s.current = DragBounds(s.start, delta, wa, c.minVisible)
	case PhaseResizing:
		s.current = ResizeBounds(s.start, s.handle, delta, wa, minSize)
	}
	return s.current, true
}

// End finishes the window's gesture, committing the last transient
// geometry. Repeated terminal signals are no-ops and return false. A window
// that was maximized or closed in the meantime is left as it is.
func (c *Controller) End(id string, reason EndReason) (geometry.Bounds, bool) {
	return c.end(id, "", reason)
}

// EndToken ends the gesture only if token identifies the one in flight.
func (c *Controller) EndToken(id, token string, reason EndReason) (geometry.Bounds, bool) {
	if token == "" {
		return geometry.Bounds{}, false
	}
	return c.end(id, token, reason)
}

func (c *Controller) end(id, token string, reason EndReason) (geometry.Bounds, bool) {
	c.mu.Lock()
	s, ok := c.slots[id]
	if !ok || (token != "" && s.token != token) {
		c.mu.Unlock()
		return geometry.Bounds{}, false
	}
	delete(c.slots, id)
	onEnd := c.onEnd
	c.mu.Unlock()

	if !c.store.CommitBounds(id, s.current) {
		return geometry.Bounds{}, false
	}
	if onEnd != nil {
		onEnd(id, reason, s.current)
	}
	return s.current, true
}

// CancelAll ends every in-flight gesture, as on window blur or a
// visibility change. It returns the affected window ids, sorted.
func (c *Controller) CancelAll(reason EndReason) []string {
	c.mu.Lock()
	ids := make([]string, 0, len(c.slots))
	for id := range c.slots {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	sort.Strings(ids)
	ended := ids[:0]
	for _, id := range ids {
		if _, ok := c.End(id, reason); ok {
			ended = append(ended, id)
		}
	}
	return ended
}

// TitleDoubleClick toggles maximize unless a gesture is in flight.
func (c *Controller) TitleDoubleClick(id string) bool {
	c.mu.Lock()
	_, busy := c.slots[id]
	c.mu.Unlock()
	if busy {
		return false
	}
	if _, ok := c.store.Window(id); !ok {
		return false
	}
	c.store.ToggleMaximize(id)
	return true
}

// Phase returns the window's gesture phase.
func (c *Controller) Phase(id string) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[id]; ok {
		return s.phase
	}
	return PhaseIdle
}

// Active lists in-flight gestures sorted by window id.
func (c *Controller) Active() []Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Snapshot, 0, len(c.slots))
	for id, s := range c.slots {
		snap := Snapshot{
			WindowID:  id,
			Token:     s.token,
			Phase:     s.phase.String(),
			Transient: s.current,
		}
		if s.phase == PhaseResizing {
			snap.Handle = s.handle.String()
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WindowID < out[j].WindowID })
	return out
}

// Transient returns the uncommitted geometry of the window's gesture.
func (c *Controller) Transient(id string) (geometry.Bounds, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[id]; ok {
		return s.current, true
	}
	return geometry.Bounds{}, false
}
