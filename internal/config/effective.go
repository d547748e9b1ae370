package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw file values on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Chrome != nil {
		if raw.Chrome.MenubarHeight != nil {
			cfg.Chrome.MenubarHeight = *raw.Chrome.MenubarHeight
		}
		if raw.Chrome.DockHeight != nil {
			cfg.Chrome.DockHeight = *raw.Chrome.DockHeight
		}
	}

	if w := raw.Windows; w != nil {
		cfg.Windows.MinWidth = derefInt(w.MinWidth, cfg.Windows.MinWidth)
		cfg.Windows.MinHeight = derefInt(w.MinHeight, cfg.Windows.MinHeight)
		cfg.Windows.DefaultWidth = derefInt(w.DefaultWidth, cfg.Windows.DefaultWidth)
		cfg.Windows.DefaultHeight = derefInt(w.DefaultHeight, cfg.Windows.DefaultHeight)
		cfg.Windows.DefaultX = derefInt(w.DefaultX, cfg.Windows.DefaultX)
		cfg.Windows.DefaultY = derefInt(w.DefaultY, cfg.Windows.DefaultY)
		cfg.Windows.BaseZIndex = derefInt(w.BaseZIndex, cfg.Windows.BaseZIndex)
		cfg.Windows.CloseDelayMS = derefInt(w.CloseDelayMS, cfg.Windows.CloseDelayMS)
		cfg.Windows.MinVisible = derefInt(w.MinVisible, cfg.Windows.MinVisible)
		if w.NonClosable != nil {
			cfg.Windows.NonClosable = append([]string(nil), w.NonClosable...)
		}
	}

	for id, entry := range raw.Catalog {
		base := cfg.Catalog[id]
		if entry.Title != nil {
			base.Title = strings.TrimSpace(*entry.Title)
		}
		if entry.Position != nil {
			pos := *entry.Position
			base.Position = &pos
		}
		if entry.Size != nil {
			size := *entry.Size
			base.Size = &size
		}
		if base.Title == "" {
			return nil, &ValidationError{Path: "catalog." + id + ".title", Err: fmt.Errorf("title is required for new catalog entries")}
		}
		cfg.Catalog[id] = base
	}

	if ic := raw.Icons; ic != nil {
		cfg.Icons.CellWidth = derefInt(ic.CellWidth, cfg.Icons.CellWidth)
		cfg.Icons.CellHeight = derefInt(ic.CellHeight, cfg.Icons.CellHeight)
		cfg.Icons.OffsetX = derefInt(ic.OffsetX, cfg.Icons.OffsetX)
		cfg.Icons.OffsetY = derefInt(ic.OffsetY, cfg.Icons.OffsetY)
		cfg.Icons.PerColumn = derefInt(ic.PerColumn, cfg.Icons.PerColumn)
		cfg.Icons.IconWidth = derefInt(ic.IconWidth, cfg.Icons.IconWidth)
		cfg.Icons.IconHeight = derefInt(ic.IconHeight, cfg.Icons.IconHeight)
		if ic.TrashID != nil {
			cfg.Icons.TrashID = *ic.TrashID
		}
		if ic.TrashInset != nil {
			cfg.Icons.TrashInset = *ic.TrashInset
		}
		if ic.IDs != nil {
			cfg.Icons.IDs = append([]string(nil), ic.IDs...)
		}
	}

	if vp := raw.Viewport; vp != nil {
		if vp.Source != nil {
			cfg.Viewport.Source = ViewportSource(strings.ToLower(string(*vp.Source)))
		}
		cfg.Viewport.Width = derefInt(vp.Width, cfg.Viewport.Width)
		cfg.Viewport.Height = derefInt(vp.Height, cfg.Viewport.Height)
	}

	if lg := raw.Logging; lg != nil {
		if lg.Enabled != nil {
			cfg.Logging.Enabled = *lg.Enabled
		}
		if lg.Level != nil {
			cfg.Logging.Level = *lg.Level
		}
		if lg.File != nil {
			cfg.Logging.File = *lg.File
		}
		cfg.Logging.MaxSizeMB = derefInt(lg.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(lg.MaxFiles, cfg.Logging.MaxFiles)
	}

	if raw.WatchConfig != nil {
		cfg.WatchConfig = *raw.WatchConfig
	}

	return cfg, nil
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
