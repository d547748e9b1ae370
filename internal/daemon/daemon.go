// Package daemon runs a desktop behind the IPC socket: it owns the viewport
// source, the action log, config reloads and the reconciler.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/eventlog"
	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

// Options configures a Daemon. Zero values select the standard locations.
type Options struct {
	ConfigPath        string
	SocketPath        string
	Logger            *slog.Logger
	ReconcileInterval time.Duration
	// HandleSignals makes Run stop on SIGINT/SIGTERM and reload on SIGHUP.
	HandleSignals bool
}

// Daemon is a running desktop instance.
type Daemon struct {
	configPath string
	logger     *slog.Logger

	desktop       *desktop.Desktop
	server        *ipc.Server
	events        *eventlog.Logger
	reconciler    *Reconciler
	closeViewport func()
	reloads       chan struct{}
	handleSignals bool
}

// New loads the configuration and assembles the daemon. Nothing listens
// until Run.
func New(opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	d := &Daemon{
		configPath:    path,
		logger:        logger,
		reloads:       make(chan struct{}, 1),
		handleSignals: opts.HandleSignals,
	}

	cfg, err := d.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	vp, closeVP, err := viewport.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	d.closeViewport = closeVP

	events, err := eventlog.New(eventlog.OptionsFromConfig(cfg))
	if err != nil {
		// Keep running without the action log.
		logger.Warn("action log disabled", "error", err)
		events = nil
	}
	d.events = events

	d.desktop = desktop.New(cfg, vp, desktop.WithLogger(events))

	if opts.SocketPath != "" {
		d.server = ipc.NewServerAt(opts.SocketPath, d.desktop, d.load, d.reloads)
	} else {
		srv, err := ipc.NewServer(d.desktop, d.load, d.reloads)
		if err != nil {
			closeVP()
			events.Close()
			return nil, err
		}
		d.server = srv
	}

	d.reconciler = NewReconciler(ReconcilerConfig{
		Interval: opts.ReconcileInterval,
		Logger:   logger,
	}, d.desktop)

	return d, nil
}

func (d *Daemon) load() (*config.Config, error) {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// Desktop returns the served desktop.
func (d *Daemon) Desktop() *desktop.Desktop {
	return d.desktop
}

// SocketPath returns the IPC socket path.
func (d *Daemon) SocketPath() string {
	return d.server.SocketPath()
}

// Run serves until ctx is cancelled or, with HandleSignals, a terminating
// signal arrives.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.closeViewport()
	defer d.events.Close()

	if err := d.server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer d.server.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go d.reconciler.Run(ctx)

	var fileChanges <-chan struct{}
	if d.desktop.Config().WatchConfig {
		w, err := newConfigWatcher(d.configPath, d.logger)
		if err != nil {
			d.logger.Warn("config watching disabled", "error", err)
		} else {
			fileChanges = w.Changes()
			go w.Run(ctx)
			d.logger.Info("watching config", "path", d.configPath)
		}
	}

	var sigCh chan os.Signal
	if d.handleSignals {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigCh)
	}

	d.logger.Info("retrodesk daemon started",
		"instance", d.desktop.ID(),
		"socket", d.server.SocketPath())

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down retrodesk daemon")
			return nil

		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				d.reload("signal")
				continue
			}
			d.logger.Info("shutting down retrodesk daemon", "signal", sig.String())
			return nil

		case <-fileChanges:
			d.reload("file")

		case <-d.reloads:
			// The IPC server has already applied the new config.
			d.logger.Info("config reloaded", "trigger", "ipc")
		}
	}
}

// reload re-reads the config file and applies it. A broken file leaves the
// running config in place.
func (d *Daemon) reload(trigger string) {
	cfg, err := d.load()
	if err != nil {
		d.logger.Error("config reload failed", "trigger", trigger, "error", err)
		return
	}
	d.desktop.Reload(cfg)
	d.logger.Info("config reloaded", "trigger", trigger)
}
