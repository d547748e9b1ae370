package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// SourceKind says where a config value came from.
type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source locates the last writer of a config value.
type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // dotted YAML path -> last file that set it
	Files   []string          // every file read, includes first
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/retrodesk/config.yaml.
func DefaultConfigPath() (string, error) {
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("failed to resolve config home")
	}
	return filepath.Join(xdg.ConfigHome, "retrodesk", "config.yaml"), nil
}

// Load reads the config from the default location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load plus per-value sources for config explain.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path (and its includes) over the defaults. A missing
// file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	fl := fileLoader{
		visited: make(map[string]bool),
		sources: make(map[string]Source),
	}

	exists, err := fileExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := fl.load(path, nil); err != nil {
			return nil, err
		}
	}

	cfg, err := BuildEffectiveConfig(fl.raw)
	if err != nil {
		return nil, withSource(err, fl.sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, withSource(err, fl.sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: fl.sources,
		Files:   fl.files,
	}, nil
}

// fileLoader folds a config file and its includes into one RawConfig.
// Includes are applied before the file that names them, so the including
// file wins.
type fileLoader struct {
	visited map[string]bool
	raw     RawConfig
	sources map[string]Source
	files   []string
}

// include is one entry of an include: key.
type include struct {
	path string
	at   Source
}

func (fl *fileLoader) load(path string, chain []string) error {
	file, err := realPath(path)
	if err != nil {
		return err
	}
	for _, prev := range chain {
		if prev == file {
			return fmt.Errorf("include cycle detected: %s -> %s", strings.Join(chain, " -> "), file)
		}
	}
	// A file reached twice through different includes is applied once.
	if fl.visited[file] {
		return nil
	}
	fl.visited[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", file, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	if err := strictDecode(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	root := topMapping(&doc)
	for _, inc := range includesOf(root, file) {
		targets, err := includeTargets(file, inc.path)
		if err != nil {
			return fmt.Errorf("%s:%d:%d: include %q: %w", inc.at.File, inc.at.Line, inc.at.Column, inc.path, err)
		}
		for _, target := range targets {
			if err := fl.load(target, append(chain, file)); err != nil {
				return err
			}
		}
	}

	fl.raw = fl.raw.merge(raw)
	recordSources(root, file, "", fl.sources)
	fl.files = append(fl.files, file)
	return nil
}

func strictDecode(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// realPath resolves symlinks where possible so cycles are seen through them.
func realPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// includeTargets resolves ref against the including file. A directory
// expands to its *.yaml and *.yml files in name order.
func includeTargets(from, ref string) ([]string, error) {
	if ref == "" {
		return nil, fmt.Errorf("path is empty")
	}
	path, err := expandHome(ref)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(from), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(path, ent.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// topMapping returns the document's root mapping, or nil.
func topMapping(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

func nodeSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

// recordSources maps every key under node to its dotted path. Sequences are
// recorded as a whole.
func recordSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if prefix != "" {
			key = prefix + "." + key
		}
		out[key] = nodeSource(file, val)
		recordSources(val, file, key, out)
	}
}

// includesOf reads the include: key, a string or a list of strings.
func includesOf(root *yaml.Node, file string) []include {
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		var items []*yaml.Node
		switch val.Kind {
		case yaml.ScalarNode:
			items = []*yaml.Node{val}
		case yaml.SequenceNode:
			items = val.Content
		}
		var out []include
		for _, item := range items {
			if item.Kind == yaml.ScalarNode {
				out = append(out, include{path: item.Value, at: nodeSource(file, item)})
			}
		}
		return out
	}
	return nil
}

// withSource points a validation error at the file line that set the value.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}
