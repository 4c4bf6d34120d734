package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultPath returns the canonical config location,
// ~/.config/busboard/config.json, overridable via BUSBOARD_CONFIG.
func DefaultPath() string {
	if p := os.Getenv("BUSBOARD_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".config", "busboard", "config.json")
}

// Load reads and validates the configuration at path. Missing keys fall back
// to the documented defaults; unknown keys are ignored.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints and per-stop filter consistency.
func Validate(cfg Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}
	for i, s := range cfg.Stops {
		if len(s.LinesInclude) > 0 && len(s.LinesExclude) > 0 {
			return fmt.Errorf("stop %d (%s): LinesInclude and LinesExclude are mutually exclusive", i, s.ID)
		}
	}
	return nil
}

// Save validates cfg and writes it to path, creating parent directories.
// If a file already exists it is first copied into backupDir with a
// timestamped name; pass backupDir == "" to skip backups. The write itself
// goes through a temp file and rename so a crash never truncates the config.
func Save(path string, cfg Config, backupDir string) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if backupDir != "" {
		if err := backup(path, backupDir); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func backup(path, backupDir string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("config_%s.json", time.Now().Format("20060102_150405"))
	return os.WriteFile(filepath.Join(backupDir, name), data, 0o644)
}
