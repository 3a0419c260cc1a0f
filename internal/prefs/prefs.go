// Package prefs handles cirrus user preferences persistence.
// Preferences are stored in ~/.config/cirrus/prefs.toml as flat keys.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the console.
type Prefs struct {
	Theme         string `toml:"theme" json:"theme" yaml:"theme"`
	SidebarOpen   bool   `toml:"sidebar_open" json:"sidebar_open" yaml:"sidebar_open"`
	SortKey       string `toml:"sort_key" json:"sort_key" yaml:"sort_key"`
	SortOrder     string `toml:"sort_order" json:"sort_order" yaml:"sort_order"`
	TypeToConfirm bool   `toml:"type_to_confirm" json:"type_to_confirm" yaml:"type_to_confirm"`
	DefaultView   string `toml:"default_view" json:"default_view" yaml:"default_view"`
}

const (
	defaultPrefsPath   = "~/.config/cirrus/prefs.toml"
	defaultTheme       = "Nightfox"
	defaultSortKey     = "label"
	defaultSortOrder   = "asc"
	defaultDefaultView = "instances"
)

// Valid values for the enumerated keys.
var (
	SortKeys   = []string{"label", "id", "status", "region", "created"}
	SortOrders = []string{"asc", "desc"}
	Views      = []string{"instances", "volumes", "nodebalancers", "domains", "clusters", "buckets", "events", "logs"}
)

var keys = []string{"theme", "sidebar_open", "sort_key", "sort_order", "type_to_confirm", "default_view"}

// Default returns the built-in preferences.
func Default() Prefs {
	return Prefs{
		Theme:         defaultTheme,
		SidebarOpen:   true,
		SortKey:       defaultSortKey,
		SortOrder:     defaultSortOrder,
		TypeToConfirm: true,
		DefaultView:   defaultDefaultView,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Keys lists every preference key in file order.
func Keys() []string {
	return slices.Clone(keys)
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	prefs := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	return prefs.normalized(), nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// Get returns the value of key as a string.
func (p Prefs) Get(key string) (string, error) {
	switch key {
	case "theme":
		return p.Theme, nil
	case "sidebar_open":
		return strconv.FormatBool(p.SidebarOpen), nil
	case "sort_key":
		return p.SortKey, nil
	case "sort_order":
		return p.SortOrder, nil
	case "type_to_confirm":
		return strconv.FormatBool(p.TypeToConfirm), nil
	case "default_view":
		return p.DefaultView, nil
	default:
		return "", fmt.Errorf("unknown preference %q (known: %s)", key, strings.Join(keys, ", "))
	}
}

// Set parses value and stores it under key.
func (p *Prefs) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "theme":
		if value == "" {
			return fmt.Errorf("theme must not be empty")
		}
		p.Theme = value
	case "sidebar_open":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("sidebar_open: %w", err)
		}
		p.SidebarOpen = b
	case "sort_key":
		if err := oneOf(key, value, SortKeys); err != nil {
			return err
		}
		p.SortKey = value
	case "sort_order":
		if err := oneOf(key, value, SortOrders); err != nil {
			return err
		}
		p.SortOrder = value
	case "type_to_confirm":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("type_to_confirm: %w", err)
		}
		p.TypeToConfirm = b
	case "default_view":
		if err := oneOf(key, value, Views); err != nil {
			return err
		}
		p.DefaultView = value
	default:
		return fmt.Errorf("unknown preference %q (known: %s)", key, strings.Join(keys, ", "))
	}
	return nil
}

// ToggleSortOrder flips between ascending and descending.
func (p *Prefs) ToggleSortOrder() {
	if p.SortOrder == "desc" {
		p.SortOrder = "asc"
		return
	}
	p.SortOrder = "desc"
}

// NextSortKey advances to the next sort key.
func (p *Prefs) NextSortKey() {
	i := slices.Index(SortKeys, p.SortKey)
	p.SortKey = SortKeys[(i+1)%len(SortKeys)]
}

// normalized replaces empty or unknown values with defaults.
func (p Prefs) normalized() Prefs {
	d := Default()
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = d.Theme
	}
	if !slices.Contains(SortKeys, p.SortKey) {
		p.SortKey = d.SortKey
	}
	if !slices.Contains(SortOrders, p.SortOrder) {
		p.SortOrder = d.SortOrder
	}
	if !slices.Contains(Views, p.DefaultView) {
		p.DefaultView = d.DefaultView
	}
	return p
}

func oneOf(key, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s", key, strings.Join(allowed, ", "))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
