package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the application configuration. It is produced once at
// startup by Load and handed by value to each component constructor.
type Config struct {
	Command CommandConfig `mapstructure:"command" yaml:"command"`
	Refresh RefreshConfig `mapstructure:"refresh" yaml:"refresh"`
	Tray    TrayConfig    `mapstructure:"tray" yaml:"tray"`
	Theme   ThemeConfig   `mapstructure:"theme" yaml:"theme"`
	Icons   IconsConfig   `mapstructure:"icons" yaml:"icons"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CommandConfig describes the external control command
type CommandConfig struct {
	Path          string        `mapstructure:"path" yaml:"path"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ExcludedLines []string      `mapstructure:"excluded_lines" yaml:"excluded_lines"`
}

// RefreshConfig represents the reconciler polling configuration
type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// TrayConfig represents tray input configuration
type TrayConfig struct {
	MouseReverse bool `mapstructure:"mouse_reverse" yaml:"mouse_reverse"`
}

// ThemeConfig represents icon theme selection. An empty Force follows the OS.
type ThemeConfig struct {
	Force string `mapstructure:"force" yaml:"force"`
}

// Forced reports whether OS theme detection is bypassed
func (t ThemeConfig) Forced() bool {
	return t.Force != ""
}

// IconsConfig represents the icon directory layout
type IconsConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// flagKeys maps command line flag names to configuration keys
var flagKeys = map[string]string{
	"command":       "command.path",
	"timeout":       "command.timeout",
	"interval":      "refresh.interval",
	"mouse-reverse": "tray.mouse_reverse",
	"force-theme":   "theme.force",
	"icon-dir":      "icons.dir",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
}

// Default returns the configuration used when no file, environment or flag
// overrides anything.
func Default() Config {
	return Config{
		Command: CommandConfig{
			Path:          DefaultCommandPath,
			Timeout:       DefaultCommandTimeout,
			ExcludedLines: append([]string(nil), DefaultExcludedLines...),
		},
		Refresh: RefreshConfig{Interval: DefaultRefreshInterval},
		Icons:   IconsConfig{Dir: GetIconBaseDir()},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Load loads configuration from a file, environment variables and the given
// flag set (which may be nil). Flags take precedence over environment, which
// takes precedence over the file.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("command.path", def.Command.Path)
	v.SetDefault("command.timeout", def.Command.Timeout)
	v.SetDefault("command.excluded_lines", def.Command.ExcludedLines)
	v.SetDefault("refresh.interval", def.Refresh.Interval)
	v.SetDefault("tray.mouse_reverse", false)
	v.SetDefault("theme.force", "")
	v.SetDefault("icons.dir", def.Icons.Dir)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	if configFile != "" {
		v.SetConfigFile(configFile)
		slog.Info("Using config file from command line", "path", configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		configPath := GetConfigPath()
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			slog.Info("Using default config file", "path", configPath)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		Command: CommandConfig{
			Path:          v.GetString("command.path"),
			Timeout:       v.GetDuration("command.timeout"),
			ExcludedLines: v.GetStringSlice("command.excluded_lines"),
		},
		Refresh: RefreshConfig{
			Interval: v.GetDuration("refresh.interval"),
		},
		Tray: TrayConfig{
			MouseReverse: v.GetBool("tray.mouse_reverse"),
		},
		Theme: ThemeConfig{
			Force: v.GetString("theme.force"),
		},
		Icons: IconsConfig{
			Dir: v.GetString("icons.dir"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	return Validate(cfg)
}

// Validate normalizes a configuration. Non-positive durations fall back to
// their defaults and the refresh interval is raised to at least the command
// timeout so polls can never overlap a running command.
func Validate(cfg Config) (Config, error) {
	theme, err := NormalizeTheme(cfg.Theme.Force)
	if err != nil {
		return Config{}, err
	}
	cfg.Theme.Force = theme

	if cfg.Command.Path == "" {
		cfg.Command.Path = DefaultCommandPath
	}
	if cfg.Command.Timeout <= 0 {
		cfg.Command.Timeout = DefaultCommandTimeout
	}
	if cfg.Refresh.Interval <= 0 {
		cfg.Refresh.Interval = DefaultRefreshInterval
	}
	if cfg.Refresh.Interval < cfg.Command.Timeout {
		slog.Warn("Refresh interval shorter than command timeout, clamping",
			"interval", cfg.Refresh.Interval,
			"timeout", cfg.Command.Timeout)
		cfg.Refresh.Interval = cfg.Command.Timeout
	}
	if cfg.Icons.Dir == "" {
		cfg.Icons.Dir = GetIconBaseDir()
	}

	// Copy so callers holding the value can't alias viper's slice
	cfg.Command.ExcludedLines = append([]string(nil), cfg.Command.ExcludedLines...)

	return cfg, nil
}
