// Package desktop bundles the window registry, the gesture controller and the
// icon layout behind one handle that the daemon, the MCP server, the script
// runner and the TUI share.
package desktop

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/eventlog"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/registry"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

var (
	ErrEmptyID       = errors.New("window id is required")
	ErrFixedViewport = errors.New("viewport size is controlled by the display server")
	ErrInvalidSize   = errors.New("viewport size must be positive")
)

// Option configures a Desktop.
type Option func(*options)

type options struct {
	logger    *eventlog.Logger
	scheduler registry.ScheduleFunc
}

// WithLogger records registry, gesture and icon actions to l.
func WithLogger(l *eventlog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithScheduler replaces the timer used for deferred window removal.
func WithScheduler(fn registry.ScheduleFunc) Option {
	return func(o *options) { o.scheduler = fn }
}

// Desktop is one running desktop.
type Desktop struct {
	Registry  *registry.Registry
	Gestures  *gesture.Controller
	Icons     *icons.Layout
	Selection *icons.Selection

	id       string
	started  time.Time
	viewport viewport.Source
	logger   *eventlog.Logger

	mu  sync.RWMutex
	cfg *config.Config
}

// Status summarizes a desktop for status reports.
type Status struct {
	InstanceID    string        `json:"instance_id" yaml:"instance_id"`
	UptimeSeconds int64         `json:"uptime_seconds" yaml:"uptime_seconds"`
	Viewport      geometry.Size `json:"viewport" yaml:"viewport"`
	WorkArea      geometry.Rect `json:"work_area" yaml:"work_area"`
	Windows       int           `json:"windows" yaml:"windows"`
	Minimized     int           `json:"minimized" yaml:"minimized"`
	ActiveID      string        `json:"active_id,omitempty" yaml:"active_id,omitempty"`
	Gestures      int           `json:"gestures" yaml:"gestures"`
}

// New creates a desktop over vp.
func New(cfg *config.Config, vp viewport.Source, opts ...Option) *Desktop {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var regOpts []registry.Option
	if o.scheduler != nil {
		regOpts = append(regOpts, registry.WithScheduler(o.scheduler))
	}
	reg := registry.New(cfg, vp, regOpts...)
	layout := icons.New(cfg, vp)

	d := &Desktop{
		Registry:  reg,
		Gestures:  gesture.NewController(reg, cfg.Windows.MinVisible),
		Icons:     layout,
		Selection: icons.NewSelection(layout.IDs()),
		id:        uuid.NewString(),
		started:   time.Now(),
		viewport:  vp,
		logger:    o.logger,
		cfg:       cfg,
	}
	if d.logger != nil {
		d.logger.RecordRegistry(reg)
		d.logger.RecordGestures(d.Gestures)
	}
	return d
}

// ID returns the instance id assigned at creation.
func (d *Desktop) ID() string { return d.id }

// Config returns the active configuration.
func (d *Desktop) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Viewport returns the current viewport size.
func (d *Desktop) Viewport() geometry.Size {
	return d.viewport.Size()
}

// OpenWindow opens id, filling title and geometry from the window catalog
// when the caller leaves them empty. Unknown ids fall back to the window
// defaults and use the id as the title.
func (d *Desktop) OpenWindow(id, title string, pos *geometry.Point, size *geometry.Size) (registry.Window, error) {
	if id == "" {
		return registry.Window{}, ErrEmptyID
	}

	entry, _ := d.Config().Lookup(id)
	if title == "" {
		title = entry.Title
	}
	if title == "" {
		title = id
	}
	if pos == nil {
		pos = entry.Position
	}
	if size == nil {
		size = entry.Size
	}

	var opts []registry.OpenOption
	if pos != nil {
		opts = append(opts, registry.WithPosition(*pos))
	}
	if size != nil {
		opts = append(opts, registry.WithSize(*size))
	}
	d.Registry.Open(id, title, opts...)

	w, _ := d.Registry.Window(id)
	return w, nil
}

// MoveWindow moves a window to pos under the same clamp a title-bar drag
// applies.
func (d *Desktop) MoveWindow(id string, pos geometry.Point) (registry.Window, error) {
	w, err := d.movable(id)
	if err != nil {
		return registry.Window{}, err
	}
	b := gesture.DragBounds(w.Bounds(), pos.Sub(w.Position), d.Registry.WorkArea(), d.Config().Windows.MinVisible)
	d.Registry.UpdateBounds(id, b)
	w, _ = d.Registry.Window(id)
	return w, nil
}

// ResizeWindow resizes a window from its bottom-right corner, clamped the
// same way as a resize gesture.
func (d *Desktop) ResizeWindow(id string, size geometry.Size) (registry.Window, error) {
	w, err := d.movable(id)
	if err != nil {
		return registry.Window{}, err
	}
	delta := geometry.Point{X: size.Width - w.Size.Width, Y: size.Height - w.Size.Height}
	b := gesture.ResizeBounds(w.Bounds(), gesture.HandleSE, delta, d.Registry.WorkArea(), d.Registry.MinSize())
	d.Registry.UpdateBounds(id, b)
	w, _ = d.Registry.Window(id)
	return w, nil
}

func (d *Desktop) movable(id string) (registry.Window, error) {
	w, ok := d.Registry.Window(id)
	if !ok {
		return registry.Window{}, fmt.Errorf("%w: %s", gesture.ErrUnknownWindow, id)
	}
	if w.IsMaximized {
		return registry.Window{}, fmt.Errorf("%w: %s", gesture.ErrMaximized, id)
	}
	return w, nil
}

// DragIcon moves an icon as a single pointer drag from its current position
// to pos and drops it there.
func (d *Desktop) DragIcon(id string, pos geometry.Point) (icons.Icon, error) {
	start, ok := d.Icons.Position(id)
	if !ok {
		return icons.Icon{}, fmt.Errorf("%w: %s", icons.ErrUnknownIcon, id)
	}
	if err := d.Icons.StartDrag(id, start); err != nil {
		return icons.Icon{}, err
	}
	d.Icons.UpdateDrag(pos)
	icon, _ := d.Icons.EndDrag()
	d.logger.Log(eventlog.ActionIconDrop, "", map[string]interface{}{
		"icon": id,
		"col":  icon.Cell.X,
		"row":  icon.Cell.Y,
	})
	return icon, nil
}

// SelectIcon puts the keyboard selection on icon id.
func (d *Desktop) SelectIcon(id string) (string, error) {
	if !d.Selection.Select(id) {
		return "", fmt.Errorf("%w: %s", icons.ErrUnknownIcon, id)
	}
	return id, nil
}

// StepIconSelection moves the icon selection ring and returns the selected
// id, "" after a clear.
func (d *Desktop) StepIconSelection(step icons.Step) (string, error) {
	return d.Selection.Apply(step)
}

// SetViewport resizes a static viewport.
func (d *Desktop) SetViewport(size geometry.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return ErrInvalidSize
	}
	r, ok := d.viewport.(viewport.Resizer)
	if !ok {
		return ErrFixedViewport
	}
	r.SetSize(size)
	d.logger.Log(eventlog.ActionViewport, "", map[string]interface{}{
		"width":  size.Width,
		"height": size.Height,
	})
	return nil
}

// Reload swaps in a new configuration. Window defaults, chrome heights and
// close rules apply immediately; the icon grid keeps its current geometry.
func (d *Desktop) Reload(cfg *config.Config) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
	d.Registry.Reconfigure(cfg)
	d.logger.Log(eventlog.ActionReload, "", nil)
}

// Status reports counters for the desktop.
func (d *Desktop) Status() Status {
	st := Status{
		InstanceID:    d.id,
		UptimeSeconds: int64(time.Since(d.started).Seconds()),
		Viewport:      d.Viewport(),
		WorkArea:      d.Registry.WorkArea(),
		ActiveID:      d.Registry.ActiveID(),
		Gestures:      len(d.Gestures.Active()),
	}
	for _, w := range d.Registry.Windows() {
		st.Windows++
		if w.IsMinimized {
			st.Minimized++
		}
	}
	return st
}
