// Package registry owns the canonical collection of desktop windows: their
// open/minimized/maximized state, stacking order and committed geometry.
//
// Every operation degrades to a no-op on unknown ids; none of them fail.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

// Registry is the window store shared by every window-bearing surface.
type Registry struct {
	mu sync.Mutex

	windows  []*Window // insertion order
	activeID string
	zCounter int

	exitReasons map[string]ExitReason
	closing     map[string]uint64 // window id -> current close token
	timers      map[string]Timer
	closeSeq    uint64

	viewport    viewport.Source
	schedule    ScheduleFunc
	menubar     int
	dock        int
	minSize     geometry.Size
	defaultSize geometry.Size
	defaultPos  geometry.Point
	closeDelay  time.Duration
	nonClosable map[string]struct{}

	listenerMu sync.Mutex
	listeners  map[int]func(Event)
	nextListen int
}

// New creates an empty registry configured from cfg. The viewport is sampled
// on every work-area computation.
func New(cfg *config.Config, vp viewport.Source, opts ...Option) *Registry {
	r := &Registry{
		zCounter:    cfg.Windows.BaseZIndex,
		exitReasons: make(map[string]ExitReason),
		closing:     make(map[string]uint64),
		timers:      make(map[string]Timer),
		viewport:    vp,
		schedule:    afterFunc,
		listeners:   make(map[int]func(Event)),
	}
	r.applyConfigLocked(cfg)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconfigure applies chrome heights, window defaults, the close delay and
// the non-closable list from cfg. Maximized windows are pinned to the new
// work area; other windows keep their geometry and pending closes keep the
// delay they were scheduled with.
func (r *Registry) Reconfigure(cfg *config.Config) {
	r.mu.Lock()
	r.applyConfigLocked(cfg)
	wa := r.workAreaLocked()
	var moved []string
	for _, w := range r.windows {
		if r.isDenied(w.ID) {
			w.CanClose = false
		}
		if w.IsMaximized && (w.Position != wa.Origin() || w.Size != wa.Extent()) {
			w.Position = wa.Origin()
			w.Size = wa.Extent()
			moved = append(moved, w.ID)
		}
	}
	r.mu.Unlock()

	for _, id := range moved {
		r.emit(Event{Kind: EventBounds, ID: id})
	}
}

func (r *Registry) applyConfigLocked(cfg *config.Config) {
	r.menubar = cfg.Chrome.MenubarHeight
	r.dock = cfg.Chrome.DockHeight
	r.minSize = cfg.MinSize()
	r.defaultSize = geometry.ClampSize(cfg.DefaultSize(), cfg.MinSize())
	r.defaultPos = cfg.DefaultPosition()
	r.closeDelay = cfg.CloseDelay()
	r.nonClosable = make(map[string]struct{}, len(cfg.Windows.NonClosable))
	for _, id := range cfg.Windows.NonClosable {
		r.nonClosable[id] = struct{}{}
	}
}

// Open shows the window with the given id, creating it on first use.
// Reopening keeps geometry, replaces the title and cancels a pending close.
func (r *Registry) Open(id, title string, opts ...OpenOption) {
	var params openParams
	for _, opt := range opts {
		opt(&params)
	}

	r.mu.Lock()
	kind := EventReopened
	w := r.find(id)
	if w != nil {
		w.IsOpen = true
		w.IsMinimized = false
		w.Title = title
	} else {
		kind = EventOpened
		w = &Window{
			ID:       id,
			Title:    title,
			IsOpen:   true,
			CanClose: !r.isDenied(id),
			Position: r.defaultPos,
			Size:     r.defaultSize,
		}
		if params.position != nil {
			w.Position = *params.position
		}
		if params.size != nil {
			w.Size = geometry.ClampSize(*params.size, r.minSize)
		}
		if params.canClose != nil && !*params.canClose {
			w.CanClose = false
		}
		r.windows = append(r.windows, w)
	}
	r.raiseLocked(w)
	r.mu.Unlock()

	r.emit(Event{Kind: kind, ID: id})
}

// Close starts closing a window. Non-closable windows are left untouched.
// The record is removed after the configured delay unless the window is
// reopened, focused or closed again in the meantime.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	w := r.find(id)
	if w == nil {
		r.mu.Unlock()
		return
	}
	if !w.CanClose || r.isDenied(id) {
		r.mu.Unlock()
		r.emit(Event{Kind: EventCloseDenied, ID: id})
		return
	}

	r.cancelCloseLocked(id)
	r.exitReasons[id] = ExitClose
	if r.closeDelay <= 0 {
		r.removeLocked(id)
		r.mu.Unlock()
		r.emit(Event{Kind: EventClosed, ID: id})
		return
	}

	r.closeSeq++
	token := r.closeSeq
	r.closing[id] = token
	r.timers[id] = r.schedule(r.closeDelay, func() { r.finishClose(id, token) })
	r.mu.Unlock()

	r.emit(Event{Kind: EventClosing, ID: id})
}

func (r *Registry) finishClose(id string, token uint64) {
	r.mu.Lock()
	if current, ok := r.closing[id]; !ok || current != token {
		r.mu.Unlock()
		return
	}
	r.removeLocked(id)
	r.mu.Unlock()

	r.emit(Event{Kind: EventClosed, ID: id})
}

// Focus raises an open window, unminimizes it and makes it active.
func (r *Registry) Focus(id string) {
	r.mu.Lock()
	w := r.find(id)
	if w == nil || !w.IsOpen {
		r.mu.Unlock()
		return
	}
	w.IsMinimized = false
	r.raiseLocked(w)
	r.mu.Unlock()

	r.emit(Event{Kind: EventFocused, ID: id})
}

// Restore brings a window back from the dock. It behaves exactly like Focus.
func (r *Registry) Restore(id string) {
	r.Focus(id)
}

// Minimize hides a window to the dock without changing its z-index.
func (r *Registry) Minimize(id string) {
	r.mu.Lock()
	w := r.find(id)
	if w == nil {
		r.mu.Unlock()
		return
	}
	r.cancelCloseLocked(id)
	r.exitReasons[id] = ExitMinimize
	w.IsMinimized = true
	if r.activeID == id {
		r.activeID = ""
	}
	r.mu.Unlock()

	r.emit(Event{Kind: EventMinimized, ID: id})
}

// ToggleMaximize pins a window to the work area, or returns it to the
// geometry it had before maximizing. Either way the window is focused.
func (r *Registry) ToggleMaximize(id string) {
	r.mu.Lock()
	w := r.find(id)
	if w == nil {
		r.mu.Unlock()
		return
	}

	kind := EventMaximized
	if w.IsMaximized {
		kind = EventUnmaximized
		w.IsMaximized = false
		if w.RestoreBounds != nil {
			w.Position = w.RestoreBounds.Position
			w.Size = w.RestoreBounds.Size
		} else {
			w.Position = r.defaultPos
			w.Size = r.defaultSize
		}
		w.RestoreBounds = nil
	} else {
		saved := w.Bounds()
		w.RestoreBounds = &saved
		wa := r.workAreaLocked()
		w.Position = wa.Origin()
		w.Size = wa.Extent()
		w.IsMaximized = true
	}
	w.IsMinimized = false
	r.raiseLocked(w)
	r.mu.Unlock()

	r.emit(Event{Kind: kind, ID: id})
}

// UpdateBounds persists geometry verbatim. Callers clamp.
func (r *Registry) UpdateBounds(id string, b geometry.Bounds) {
	r.mu.Lock()
	w := r.find(id)
	if w == nil {
		r.mu.Unlock()
		return
	}
	w.Position = b.Position
	w.Size = b.Size
	r.mu.Unlock()

	r.emit(Event{Kind: EventBounds, ID: id})
}

// CommitBounds stores the result of a gesture. It refuses, returning false,
// when the window is gone or maximized.
func (r *Registry) CommitBounds(id string, b geometry.Bounds) bool {
	r.mu.Lock()
	w := r.find(id)
	if w == nil || !w.IsOpen || w.IsMaximized {
		r.mu.Unlock()
		return false
	}
	w.Position = b.Position
	w.Size = b.Size
	r.mu.Unlock()

	r.emit(Event{Kind: EventBounds, ID: id})
	return true
}

// SetTitle renames a window without raising it.
func (r *Registry) SetTitle(id, title string) {
	r.mu.Lock()
	w := r.find(id)
	if w == nil {
		r.mu.Unlock()
		return
	}
	w.Title = title
	r.mu.Unlock()

	r.emit(Event{Kind: EventRetitled, ID: id})
}

// CycleFocus focuses the next (or previous) visible window after the active
// one in insertion order, wrapping around. It returns the focused id.
func (r *Registry) CycleFocus(forward bool) (string, bool) {
	r.mu.Lock()
	var visible []string
	start := -1
	for _, w := range r.windows {
		if !w.IsOpen || w.IsMinimized {
			continue
		}
		if w.ID == r.activeID {
			start = len(visible)
		}
		visible = append(visible, w.ID)
	}
	r.mu.Unlock()

	if len(visible) == 0 {
		return "", false
	}

	var next int
	switch {
	case start < 0 && forward:
		next = 0
	case start < 0:
		next = len(visible) - 1
	case forward:
		next = (start + 1) % len(visible)
	default:
		next = (start - 1 + len(visible)) % len(visible)
	}

	id := visible[next]
	r.Focus(id)
	return id, true
}

// WorkArea returns the usable desktop rectangle for the current viewport.
func (r *Registry) WorkArea() geometry.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.workAreaLocked()
}

// MinSize returns the minimum window size.
func (r *Registry) MinSize() geometry.Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.minSize
}

// Window returns a snapshot of one window.
func (r *Registry) Window(id string) (Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.find(id)
	if w == nil {
		return Window{}, false
	}
	return r.snapshotLocked(w), true
}

// Windows returns snapshots of all windows in insertion order.
func (r *Registry) Windows() []Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Window, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, r.snapshotLocked(w))
	}
	return out
}

// WindowsByZ returns snapshots ordered back to front.
func (r *Registry) WindowsByZ() []Window {
	out := r.Windows()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// DockEntries lists every open window, minimized ones included.
func (r *Registry) DockEntries() []DockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DockEntry, 0, len(r.windows))
	for _, w := range r.windows {
		if !w.IsOpen {
			continue
		}
		out = append(out, DockEntry{
			ID:        w.ID,
			Title:     w.Title,
			Minimized: w.IsMinimized,
			Active:    w.ID == r.activeID,
		})
	}
	return out
}

// ActiveID returns the active window id, or "" when none is active.
func (r *Registry) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeID
}

// ExitReason returns the pending exit tag for a window.
func (r *Registry) ExitReason(id string) ExitReason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exitReasons[id]
}

// Closing reports whether a deferred removal is pending for id.
func (r *Registry) Closing(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.closing[id]
	return ok
}

// Subscribe registers fn for every state change. Callbacks run after the
// change is applied, outside the registry lock. The returned func removes
// the subscription.
func (r *Registry) Subscribe(fn func(Event)) func() {
	r.listenerMu.Lock()
	id := r.nextListen
	r.nextListen++
	r.listeners[id] = fn
	r.listenerMu.Unlock()

	return func() {
		r.listenerMu.Lock()
		delete(r.listeners, id)
		r.listenerMu.Unlock()
	}
}

func (r *Registry) emit(ev Event) {
	r.listenerMu.Lock()
	keys := make([]int, 0, len(r.listeners))
	for k := range r.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fns := make([]func(Event), 0, len(keys))
	for _, k := range keys {
		fns = append(fns, r.listeners[k])
	}
	r.listenerMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (r *Registry) snapshotLocked(w *Window) Window {
	out := w.clone()
	out.ExitReason = r.exitReasons[w.ID]
	return out
}

func (r *Registry) find(id string) *Window {
	for _, w := range r.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (r *Registry) isDenied(id string) bool {
	_, ok := r.nonClosable[id]
	return ok
}

// raiseLocked assigns the next z value, activates w and clears its exit tag
// along with any pending close.
func (r *Registry) raiseLocked(w *Window) {
	r.zCounter++
	w.ZIndex = r.zCounter
	r.activeID = w.ID
	delete(r.exitReasons, w.ID)
	r.cancelCloseLocked(w.ID)
}

func (r *Registry) cancelCloseLocked(id string) {
	if t, ok := r.timers[id]; ok {
		t.Stop()
		delete(r.timers, id)
	}
	delete(r.closing, id)
}

func (r *Registry) removeLocked(id string) {
	for i, w := range r.windows {
		if w.ID == id {
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			break
		}
	}
	delete(r.closing, id)
	delete(r.timers, id)
	delete(r.exitReasons, id)
	if r.activeID == id {
		r.activeID = ""
	}
}

func (r *Registry) workAreaLocked() geometry.Rect {
	var size geometry.Size
	if r.viewport != nil {
		size = r.viewport.Size()
	}
	return geometry.WorkArea(size, r.menubar, r.dock)
}
