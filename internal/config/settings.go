// file: internal/config/settings.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"reversi_go/internal/engine"
	"reversi_go/internal/game"
)

// Settings are the user preferences kept between runs.
type Settings struct {
	Strength       int        `toml:"strength"`
	HumanColor     game.Color `toml:"human_color"`
	Animation      bool       `toml:"animation"`
	AnimationSpeed int        `toml:"animation_speed"` // 1 (slow) .. 10 (fast)
	Sound          bool       `toml:"sound"`
	Grayscale      bool       `toml:"grayscale"`
}

func DefaultSettings() Settings {
	return Settings{
		Strength:       engine.MinStrength,
		HumanColor:     game.First,
		Animation:      true,
		AnimationSpeed: 5,
		Sound:          true,
	}
}

// Normalize clamps every field into its valid range.
func (s *Settings) Normalize() {
	s.Strength = min(max(s.Strength, engine.MinStrength), engine.MaxStrength)
	if s.HumanColor != game.Second {
		s.HumanColor = game.First
	}
	s.AnimationSpeed = min(max(s.AnimationSpeed, 1), 10)
}

// LoadSettings reads path. A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	s.Normalize()
	return s, nil
}

func SaveSettings(path string, s Settings) error {
	s.Normalize()
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return writeFile(path, data)
}

// writeFile replaces path through a temp file in the same directory.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
