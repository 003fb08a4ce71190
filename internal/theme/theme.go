// Package theme reports whether the desktop currently prefers a light or a
// dark appearance.
package theme

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmylchreest/pprofiler/internal/config"
	"github.com/jmylchreest/pprofiler/internal/errors"
)

// Theme is the OS-wide appearance, used to pick an icon variant.
type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return config.ThemeDark
	}
	return config.ThemeLight
}

// Parse converts "dark" or "light" (any case) to a Theme.
func Parse(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case config.ThemeDark:
		return Dark, nil
	case config.ThemeLight:
		return Light, nil
	default:
		return Light, errors.InvalidInputf("unknown theme %q", s)
	}
}

// Source queries the current OS appearance.
type Source interface {
	Current(ctx context.Context) (Theme, error)
}

// Chain asks each source in turn and returns the first answer.
type Chain struct {
	sources []Source
	logger  *slog.Logger
}

// NewChain creates a source that falls back through sources in order.
func NewChain(logger *slog.Logger, sources ...Source) *Chain {
	return &Chain{sources: sources, logger: logger}
}

// Current returns the first successful answer, or the last error.
func (c *Chain) Current(ctx context.Context) (Theme, error) {
	err := errors.NotFoundf("no theme source configured")
	for i, s := range c.sources {
		var t Theme
		t, err = s.Current(ctx)
		if err == nil {
			return t, nil
		}
		c.logger.Debug("theme: source failed, trying next", "index", i, "error", err)
	}
	return Light, err
}

// Detect returns the OS theme, or Light when nothing can tell.
func Detect(ctx context.Context, logger *slog.Logger, src Source) Theme {
	t, err := src.Current(ctx)
	if err != nil {
		logger.Warn("Unable to detect OS theme, assuming light", "error", err)
		return Light
	}
	return t
}
