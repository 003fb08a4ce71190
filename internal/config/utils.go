package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/pprofiler/internal/errors"
)

// GetConfigBaseDir returns the base directory for configuration files
func GetConfigBaseDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, ConfigDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", ConfigDirName)
}

// GetConfigPath returns the full path to the configuration file
func GetConfigPath() string {
	return filepath.Join(GetConfigBaseDir(), ConfigFilename)
}

// GetIconBaseDir returns the default directory holding the light/ and dark/ icon sets
func GetIconBaseDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, ConfigDirName, IconDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", ConfigDirName, IconDirName)
}

// NormalizeTheme lowercases a forced theme name and rejects anything other
// than dark, light or empty (not forced).
func NormalizeTheme(theme string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(theme))
	switch t {
	case "", ThemeDark, ThemeLight:
		return t, nil
	default:
		return "", errors.InvalidInputf("force theme %q must be %q or %q", theme, ThemeDark, ThemeLight)
	}
}
