// Package prefs remembers the setup wizard's theme between runs. The wizard
// saves the theme name every time ctrl+t cycles it, and the setup and
// reconfigure commands read it back before opening the TUI.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/dinemenu/internal/config"
)

// Prefs is the content of prefs.toml.
type Prefs struct {
	// Theme names one of the ui palettes. Unknown names fall back to the
	// first palette when the wizard starts.
	Theme string `toml:"theme"`
}

const (
	defaultPrefsPath = "~/.config/dinemenu/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath is where the CLI keeps prefs.toml.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load returns the stored preferences. A missing, unreadable or malformed
// file, or an empty theme, yields the default theme; the wizard never fails
// to open over preferences.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{Theme: defaultTheme}
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Prefs{Theme: defaultTheme}
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil || strings.TrimSpace(p.Theme) == "" {
		return Prefs{Theme: defaultTheme}
	}
	return p
}

// Save overwrites prefs.toml with p.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
