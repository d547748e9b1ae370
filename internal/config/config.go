package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retrodesk/internal/geometry"
)

// Chrome holds the heights of the fixed desktop bars that the work area
// excludes.
type Chrome struct {
	MenubarHeight int `yaml:"menubar_height"`
	DockHeight    int `yaml:"dock_height"`
}

// WindowSettings configures the window registry and gesture controller.
type WindowSettings struct {
	MinWidth      int `yaml:"min_width"`
	MinHeight     int `yaml:"min_height"`
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	DefaultX      int `yaml:"default_x"`
	DefaultY      int `yaml:"default_y"`
	// BaseZIndex seeds the z counter above fixed chrome layers.
	BaseZIndex int `yaml:"base_z_index"`
	// CloseDelayMS is how long a closing window stays in the registry so
	// its exit transition can be observed. 0 removes immediately.
	CloseDelayMS int `yaml:"close_delay_ms"`
	// MinVisible is the sliver of a dragged window that must stay inside
	// the work area.
	MinVisible  int      `yaml:"min_visible"`
	NonClosable []string `yaml:"non_closable"`
}

// CatalogEntry describes a known window id: its title and the geometry used
// when it is opened without explicit placement.
type CatalogEntry struct {
	Title    string          `yaml:"title"`
	Position *geometry.Point `yaml:"position,omitempty"`
	Size     *geometry.Size  `yaml:"size,omitempty"`
}

// IconSettings configures the desktop icon grid.
type IconSettings struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	// OffsetX is the grid origin from the left edge; OffsetY is measured
	// from the bottom of the menu bar.
	OffsetX    int            `yaml:"offset_x"`
	OffsetY    int            `yaml:"offset_y"`
	PerColumn  int            `yaml:"per_column"`
	IconWidth  int            `yaml:"icon_width"`
	IconHeight int            `yaml:"icon_height"`
	TrashID    string         `yaml:"trash_id"`
	TrashInset geometry.Point `yaml:"trash_inset"`
	IDs        []string       `yaml:"ids"`
}

// ViewportSource selects where the desktop viewport size comes from.
type ViewportSource string

const (
	ViewportAuto   ViewportSource = "auto"
	ViewportStatic ViewportSource = "static"
	ViewportX11    ViewportSource = "x11"
)

// ViewportSettings configures the viewport size source.
type ViewportSettings struct {
	Source ViewportSource `yaml:"source"`
	Width  int            `yaml:"width"`
	Height int            `yaml:"height"`
}

// LoggingConfig configures the desktop action log.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: $XDG_STATE_HOME/retrodesk/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config is the effective retrodesk configuration.
type Config struct {
	Chrome      Chrome                  `yaml:"chrome"`
	Windows     WindowSettings          `yaml:"windows"`
	Catalog     map[string]CatalogEntry `yaml:"catalog"`
	Icons       IconSettings            `yaml:"icons"`
	Viewport    ViewportSettings        `yaml:"viewport"`
	Logging     LoggingConfig           `yaml:"logging"`
	WatchConfig bool                    `yaml:"watch_config"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Chrome: Chrome{
			MenubarHeight: 36,
			DockHeight:    48,
		},
		Windows: WindowSettings{
			MinWidth:      280,
			MinHeight:     200,
			DefaultWidth:  600,
			DefaultHeight: 400,
			DefaultX:      100,
			DefaultY:      100,
			BaseZIndex:    10,
			CloseDelayMS:  200,
			MinVisible:    40,
			NonClosable:   []string{"welcome"},
		},
		Catalog: defaultCatalog(),
		Icons: IconSettings{
			CellWidth:  130,
			CellHeight: 155,
			OffsetX:    20,
			OffsetY:    20,
			PerColumn:  4,
			IconWidth:  112,
			IconHeight: 130,
			TrashID:    "trash",
			TrashInset: geometry.Point{X: 130, Y: 165},
			IDs:        []string{"about", "projects", "skills", "contact", "browser", "trash"},
		},
		Viewport: ViewportSettings{
			Source: ViewportAuto,
			Width:  1280,
			Height: 800,
		},
		Logging: LoggingConfig{
			Enabled:   true,
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

func defaultCatalog() map[string]CatalogEntry {
	pt := func(x, y int) *geometry.Point { return &geometry.Point{X: x, Y: y} }
	return map[string]CatalogEntry{
		"welcome":  {Title: "Welcome", Position: pt(120, 90)},
		"about":    {Title: "About Me", Position: pt(50, 50)},
		"projects": {Title: "My Projects", Position: pt(100, 80)},
		"skills":   {Title: "Technical Skills", Position: pt(150, 110)},
		"contact":  {Title: "Contact Card", Position: pt(200, 140)},
		"trash":    {Title: "Trash", Position: pt(250, 170)},
		"browser":  {Title: "Web Browser", Position: pt(50, 50), Size: &geometry.Size{Width: 800, Height: 600}},
	}
}

// MinSize returns the minimum window size.
func (c *Config) MinSize() geometry.Size {
	return geometry.Size{Width: c.Windows.MinWidth, Height: c.Windows.MinHeight}
}

// DefaultSize returns the size given to windows opened without one.
func (c *Config) DefaultSize() geometry.Size {
	return geometry.Size{Width: c.Windows.DefaultWidth, Height: c.Windows.DefaultHeight}
}

// DefaultPosition returns the position given to windows opened without one.
func (c *Config) DefaultPosition() geometry.Point {
	return geometry.Point{X: c.Windows.DefaultX, Y: c.Windows.DefaultY}
}

// CloseDelay returns the deferred-removal delay for closing windows.
func (c *Config) CloseDelay() time.Duration {
	return time.Duration(c.Windows.CloseDelayMS) * time.Millisecond
}

// Lookup returns the catalog entry for a window id.
func (c *Config) Lookup(id string) (CatalogEntry, bool) {
	entry, ok := c.Catalog[id]
	return entry, ok
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		path, err := xdg.StateFile(filepath.Join("retrodesk", "actions.log"))
		if err != nil {
			path = filepath.Join(xdg.StateHome, "retrodesk", "actions.log")
		}
		cfg.File = path
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the effective configuration for values the desktop cannot
// work with.
func (c *Config) Validate() error {
	if c.Chrome.MenubarHeight < 0 {
		return &ValidationError{Path: "chrome.menubar_height", Err: fmt.Errorf("menubar_height must be >= 0")}
	}
	if c.Chrome.DockHeight < 0 {
		return &ValidationError{Path: "chrome.dock_height", Err: fmt.Errorf("dock_height must be >= 0")}
	}

	w := c.Windows
	if w.MinWidth <= 0 {
		return &ValidationError{Path: "windows.min_width", Err: fmt.Errorf("min_width must be positive")}
	}
	if w.MinHeight <= 0 {
		return &ValidationError{Path: "windows.min_height", Err: fmt.Errorf("min_height must be positive")}
	}
	if w.DefaultWidth < w.MinWidth {
		return &ValidationError{Path: "windows.default_width", Err: fmt.Errorf("default_width must be >= min_width (%d)", w.MinWidth)}
	}
	if w.DefaultHeight < w.MinHeight {
		return &ValidationError{Path: "windows.default_height", Err: fmt.Errorf("default_height must be >= min_height (%d)", w.MinHeight)}
	}
	if w.BaseZIndex < 0 {
		return &ValidationError{Path: "windows.base_z_index", Err: fmt.Errorf("base_z_index must be >= 0")}
	}
	if w.CloseDelayMS < 0 {
		return &ValidationError{Path: "windows.close_delay_ms", Err: fmt.Errorf("close_delay_ms must be >= 0")}
	}
	if w.MinVisible <= 0 {
		return &ValidationError{Path: "windows.min_visible", Err: fmt.Errorf("min_visible must be positive")}
	}
	for _, id := range w.NonClosable {
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Path: "windows.non_closable", Err: fmt.Errorf("non_closable contains an empty id")}
		}
	}

	for id, entry := range c.Catalog {
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Path: "catalog", Err: fmt.Errorf("catalog contains an empty window id")}
		}
		if strings.TrimSpace(entry.Title) == "" {
			return &ValidationError{Path: "catalog." + id + ".title", Err: fmt.Errorf("title must not be empty")}
		}
		if entry.Size != nil && (entry.Size.Width < w.MinWidth || entry.Size.Height < w.MinHeight) {
			return &ValidationError{Path: "catalog." + id + ".size", Err: fmt.Errorf("size must be at least %dx%d", w.MinWidth, w.MinHeight)}
		}
	}

	ic := c.Icons
	if ic.CellWidth <= 0 || ic.CellHeight <= 0 {
		return &ValidationError{Path: "icons", Err: fmt.Errorf("cell_width and cell_height must be positive")}
	}
	if ic.PerColumn <= 0 {
		return &ValidationError{Path: "icons.per_column", Err: fmt.Errorf("per_column must be positive")}
	}
	if ic.IconWidth <= 0 || ic.IconHeight <= 0 {
		return &ValidationError{Path: "icons", Err: fmt.Errorf("icon_width and icon_height must be positive")}
	}
	seen := make(map[string]struct{}, len(ic.IDs))
	for _, id := range ic.IDs {
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Path: "icons.ids", Err: fmt.Errorf("icon ids must not be empty")}
		}
		if _, dup := seen[id]; dup {
			return &ValidationError{Path: "icons.ids", Err: fmt.Errorf("duplicate icon id %q", id)}
		}
		seen[id] = struct{}{}
	}

	switch c.Viewport.Source {
	case ViewportAuto, ViewportStatic, ViewportX11:
	default:
		return &ValidationError{Path: "viewport.source", Err: fmt.Errorf("source must be one of: auto, static, x11")}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("width and height must be positive")}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging", Err: fmt.Errorf("max_size_mb and max_files must be >= 0")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, warn := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", warn)
		}
	}

	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string
	hasTrash := false
	for _, id := range c.Icons.IDs {
		if id == c.Icons.TrashID {
			hasTrash = true
		}
	}
	if c.Icons.TrashID != "" && !hasTrash {
		warnings = append(warnings, fmt.Sprintf("icons.trash_id %q is not in icons.ids; no trash icon will be shown", c.Icons.TrashID))
	}
	if c.Windows.DefaultWidth > c.Viewport.Width {
		warnings = append(warnings, fmt.Sprintf("windows.default_width %d exceeds viewport width %d", c.Windows.DefaultWidth, c.Viewport.Width))
	}
	return warnings
}
