// Package eventlog writes a rotating log of desktop actions.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/retrodesk/internal/config"
)

// LogLevel defines the logging verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Action names a logged desktop operation.
type Action string

const (
	ActionOpen          Action = "OPEN"
	ActionReopen        Action = "REOPEN"
	ActionFocus         Action = "FOCUS"
	ActionMinimize      Action = "MINIMIZE"
	ActionMaximize      Action = "MAXIMIZE"
	ActionUnmaximize    Action = "UNMAXIMIZE"
	ActionBounds        Action = "BOUNDS"
	ActionClosing       Action = "CLOSING"
	ActionClosed        Action = "CLOSED"
	ActionCloseDenied   Action = "CLOSE-DENIED"
	ActionRetitle       Action = "RETITLE"
	ActionGestureBegin  Action = "GESTURE-BEGIN"
	ActionGestureEnd    Action = "GESTURE-END"
	ActionGestureRefuse Action = "GESTURE-REFUSED"
	ActionIconDrop      Action = "ICON-DROP"
	ActionViewport      Action = "VIEWPORT"
	ActionReload        Action = "RELOAD"
)

func actionLevel(action Action) LogLevel {
	switch action {
	case ActionBounds, ActionCloseDenied, ActionGestureBegin, ActionRetitle:
		return LevelDebug
	case ActionGestureRefuse:
		return LevelWarn
	default:
		return LevelInfo
	}
}

// Options holds configuration for the logger.
type Options struct {
	Enabled   bool
	Level     LogLevel
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// OptionsFromConfig converts the logging section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	lc := cfg.GetLoggingConfig()
	return Options{
		Enabled:   lc.Enabled,
		Level:     ParseLogLevel(lc.Level),
		FilePath:  lc.File,
		MaxSizeMB: lc.MaxSizeMB,
		MaxFiles:  lc.MaxFiles,
	}
}

// Logger handles action logging with file rotation.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	opts        Options
	currentSize int64
	now         func() time.Time
}

// New creates a logger. A disabled logger accepts and drops every entry.
func New(opts Options) (*Logger, error) {
	if !opts.Enabled {
		return &Logger{opts: opts, now: time.Now}, nil
	}

	dir := filepath.Dir(opts.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", opts.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &Logger{
		file:        f,
		opts:        opts,
		currentSize: stat.Size(),
		now:         time.Now,
	}, nil
}

// Log records an action. windowID may be empty.
func (l *Logger) Log(action Action, windowID string, details map[string]interface{}) {
	if l == nil || !l.opts.Enabled {
		return
	}
	if actionLevel(action) < l.opts.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	maxBytes := int64(l.opts.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && l.currentSize >= maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	n, err := l.file.WriteString(formatEntry(l.now(), action, windowID, details))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

func formatEntry(ts time.Time, action Action, windowID string, details map[string]interface{}) string {
	var sb strings.Builder
	sb.WriteString(ts.Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(action))
	sb.WriteString("]")

	if windowID != "" {
		sb.WriteString(" window=")
		sb.WriteString(windowID)
	}

	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			switch val := details[k].(type) {
			case string:
				sb.WriteString(fmt.Sprintf(" %s=%q", k, val))
			default:
				sb.WriteString(fmt.Sprintf(" %s=%v", k, val))
			}
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// Close closes the logger and releases resources.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate shifts actions.log -> actions.log.1 -> actions.log.2 and so on,
// keeping MaxFiles rotated files.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	basePath := l.opts.FilePath
	for i := l.opts.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == l.opts.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
		}
	}

	if l.opts.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else {
		os.Remove(basePath)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	l.file = f
	l.currentSize = 0
	return nil
}

// ParseLogLevel converts a string to LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
