package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retrodesk/internal/geometry"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawChrome struct {
	MenubarHeight *int `yaml:"menubar_height"`
	DockHeight    *int `yaml:"dock_height"`
}

type RawWindowSettings struct {
	MinWidth      *int     `yaml:"min_width"`
	MinHeight     *int     `yaml:"min_height"`
	DefaultWidth  *int     `yaml:"default_width"`
	DefaultHeight *int     `yaml:"default_height"`
	DefaultX      *int     `yaml:"default_x"`
	DefaultY      *int     `yaml:"default_y"`
	BaseZIndex    *int     `yaml:"base_z_index"`
	CloseDelayMS  *int     `yaml:"close_delay_ms"`
	MinVisible    *int     `yaml:"min_visible"`
	NonClosable   []string `yaml:"non_closable"`
}

type RawCatalogEntry struct {
	Title    *string         `yaml:"title"`
	Position *geometry.Point `yaml:"position"`
	Size     *geometry.Size  `yaml:"size"`
}

type RawIconSettings struct {
	CellWidth  *int            `yaml:"cell_width"`
	CellHeight *int            `yaml:"cell_height"`
	OffsetX    *int            `yaml:"offset_x"`
	OffsetY    *int            `yaml:"offset_y"`
	PerColumn  *int            `yaml:"per_column"`
	IconWidth  *int            `yaml:"icon_width"`
	IconHeight *int            `yaml:"icon_height"`
	TrashID    *string         `yaml:"trash_id"`
	TrashInset *geometry.Point `yaml:"trash_inset"`
	IDs        []string        `yaml:"ids"`
}

type RawViewportSettings struct {
	Source *ViewportSource `yaml:"source"`
	Width  *int            `yaml:"width"`
	Height *int            `yaml:"height"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig mirrors the YAML file; nil fields were not set by the file.
type RawConfig struct {
	Include     IncludeList                `yaml:"include"`
	Chrome      *RawChrome                 `yaml:"chrome"`
	Windows     *RawWindowSettings         `yaml:"windows"`
	Catalog     map[string]RawCatalogEntry `yaml:"catalog"`
	Icons       *RawIconSettings           `yaml:"icons"`
	Viewport    *RawViewportSettings       `yaml:"viewport"`
	Logging     *RawLoggingConfig          `yaml:"logging"`
	WatchConfig *bool                      `yaml:"watch_config"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Chrome != nil {
		merged := mergeRawChrome(derefOr(out.Chrome), *overlay.Chrome)
		out.Chrome = &merged
	}
	if overlay.Windows != nil {
		merged := mergeRawWindows(derefOr(out.Windows), *overlay.Windows)
		out.Windows = &merged
	}
	if overlay.Catalog != nil {
		catalog := make(map[string]RawCatalogEntry, len(out.Catalog)+len(overlay.Catalog))
		for id, entry := range out.Catalog {
			catalog[id] = entry
		}
		for id, entry := range overlay.Catalog {
			catalog[id] = mergeRawCatalogEntry(catalog[id], entry)
		}
		out.Catalog = catalog
	}
	if overlay.Icons != nil {
		merged := mergeRawIcons(derefOr(out.Icons), *overlay.Icons)
		out.Icons = &merged
	}
	if overlay.Viewport != nil {
		merged := derefOr(out.Viewport)
		if overlay.Viewport.Source != nil {
			merged.Source = overlay.Viewport.Source
		}
		if overlay.Viewport.Width != nil {
			merged.Width = overlay.Viewport.Width
		}
		if overlay.Viewport.Height != nil {
			merged.Height = overlay.Viewport.Height
		}
		out.Viewport = &merged
	}
	if overlay.Logging != nil {
		merged := derefOr(out.Logging)
		if overlay.Logging.Enabled != nil {
			merged.Enabled = overlay.Logging.Enabled
		}
		if overlay.Logging.Level != nil {
			merged.Level = overlay.Logging.Level
		}
		if overlay.Logging.File != nil {
			merged.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			merged.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			merged.MaxFiles = overlay.Logging.MaxFiles
		}
		out.Logging = &merged
	}
	if overlay.WatchConfig != nil {
		out.WatchConfig = overlay.WatchConfig
	}

	return out
}

func derefOr[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func mergeRawChrome(base RawChrome, overlay RawChrome) RawChrome {
	out := base
	if overlay.MenubarHeight != nil {
		out.MenubarHeight = overlay.MenubarHeight
	}
	if overlay.DockHeight != nil {
		out.DockHeight = overlay.DockHeight
	}
	return out
}

func mergeRawWindows(base RawWindowSettings, overlay RawWindowSettings) RawWindowSettings {
	out := base
	if overlay.MinWidth != nil {
		out.MinWidth = overlay.MinWidth
	}
	if overlay.MinHeight != nil {
		out.MinHeight = overlay.MinHeight
	}
	if overlay.DefaultWidth != nil {
		out.DefaultWidth = overlay.DefaultWidth
	}
	if overlay.DefaultHeight != nil {
		out.DefaultHeight = overlay.DefaultHeight
	}
	if overlay.DefaultX != nil {
		out.DefaultX = overlay.DefaultX
	}
	if overlay.DefaultY != nil {
		out.DefaultY = overlay.DefaultY
	}
	if overlay.BaseZIndex != nil {
		out.BaseZIndex = overlay.BaseZIndex
	}
	if overlay.CloseDelayMS != nil {
		out.CloseDelayMS = overlay.CloseDelayMS
	}
	if overlay.MinVisible != nil {
		out.MinVisible = overlay.MinVisible
	}
	if overlay.NonClosable != nil {
		out.NonClosable = append([]string(nil), overlay.NonClosable...)
	}
	return out
}

func mergeRawCatalogEntry(base RawCatalogEntry, overlay RawCatalogEntry) RawCatalogEntry {
	out := base
	if overlay.Title != nil {
		out.Title = overlay.Title
	}
	if overlay.Position != nil {
		out.Position = overlay.Position
	}
	if overlay.Size != nil {
		out.Size = overlay.Size
	}
	return out
}

func mergeRawIcons(base RawIconSettings, overlay RawIconSettings) RawIconSettings {
	out := base
	if overlay.CellWidth != nil {
		out.CellWidth = overlay.CellWidth
	}
	if overlay.CellHeight != nil {
		out.CellHeight = overlay.CellHeight
	}
	if overlay.OffsetX != nil {
		out.OffsetX = overlay.OffsetX
	}
	if overlay.OffsetY != nil {
		out.OffsetY = overlay.OffsetY
	}
	if overlay.PerColumn != nil {
		out.PerColumn = overlay.PerColumn
	}
	if overlay.IconWidth != nil {
		out.IconWidth = overlay.IconWidth
	}
	if overlay.IconHeight != nil {
		out.IconHeight = overlay.IconHeight
	}
	if overlay.TrashID != nil {
		out.TrashID = overlay.TrashID
	}
	if overlay.TrashInset != nil {
		out.TrashInset = overlay.TrashInset
	}
	if overlay.IDs != nil {
		out.IDs = append([]string(nil), overlay.IDs...)
	}
	return out
}
