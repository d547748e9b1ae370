package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler samples the viewport and repairs window geometry after it
// changes: maximized windows are re-pinned to the new work area and the
// rest are pulled back inside it.
type Reconciler struct {
	interval time.Duration
	desktop  *desktop.Desktop
	logger   *slog.Logger

	last geometry.Size
}

// NewReconciler creates a reconciler for d.
func NewReconciler(cfg ReconcilerConfig, d *desktop.Desktop) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		desktop:  d,
		logger:   logger,
		last:     d.Viewport(),
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.ReconcileNow()
		}
	}
}

// ReconcileNow performs one pass and returns the ids whose geometry was
// repaired. Nothing is touched while the viewport is unchanged.
func (r *Reconciler) ReconcileNow() (fixed []string) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	size := r.desktop.Viewport()
	if size == r.last {
		return nil
	}
	r.logger.Info("viewport changed",
		"from", sizeString(r.last),
		"to", sizeString(size))
	r.last = size

	return r.repair()
}

// repair re-fits every window that is not mid-gesture.
func (r *Reconciler) repair() []string {
	reg := r.desktop.Registry
	wa := reg.WorkArea()
	minVisible := r.desktop.Config().Windows.MinVisible

	var fixed []string
	for _, w := range reg.Windows() {
		if !w.IsOpen || r.desktop.Gestures.Phase(w.ID) != gesture.PhaseIdle {
			continue
		}

		want := fitBounds(w.Bounds(), w.IsMaximized, wa, minVisible)
		if want == w.Bounds() {
			continue
		}
		reg.UpdateBounds(w.ID, want)
		fixed = append(fixed, w.ID)
		r.logger.Debug("window refit",
			"window", w.ID,
			"maximized", w.IsMaximized,
			"x", want.Position.X,
			"y", want.Position.Y,
			"width", want.Size.Width,
			"height", want.Size.Height)
	}
	return fixed
}
