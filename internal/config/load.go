package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the standard locations.
const FileName = "brushtool.yaml"

// TOMLFileName is the alternative TOML config file name.
const TOMLFileName = "brushtool.toml"

// Load loads configuration with priority: defaults < file < flags.
// flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	// explicit path takes priority
	var configPath string
	if flags != nil && flags.ConfigPath != "" {
		p, err := homedir.Expand(flags.ConfigPath)
		if err != nil {
			return nil, err
		}
		configPath = p
	}
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	if flags != nil {
		flags.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Path returns where Load would read the config from, or where Save writes
// it when no file exists yet.
func Path(flags *Flags) string {
	if flags != nil && flags.ConfigPath != "" {
		if p, err := homedir.Expand(flags.ConfigPath); err == nil {
			return p
		}
		return flags.ConfigPath
	}
	if p := findConfigFile(); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), FileName)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	dir := ConfigDir()
	candidates := []string{
		"./" + FileName,
		"./" + TOMLFileName,
		filepath.Join(dir, FileName),
		filepath.Join(dir, TOMLFileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, err := homedir.Dir()
	if err != nil {
		home = os.TempDir()
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Brushkit")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Brushkit")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "brushkit")
		}
		return filepath.Join(home, ".config", "brushkit")
	}
}

// isTOML reports whether path names a TOML file; everything else is YAML.
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// loadFromFile loads config from a YAML or TOML file, merging with existing
// values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}
