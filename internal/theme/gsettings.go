package theme

import (
	"context"
	"strings"
	"time"

	"github.com/jmylchreest/pprofiler/internal/command"
	"github.com/jmylchreest/pprofiler/internal/errors"
)

const gsettingsColorScheme = "gsettings get org.gnome.desktop.interface color-scheme"

// GSettingsSource reads GNOME's color-scheme key through the gsettings tool.
type GSettingsSource struct {
	runner  command.Runner
	timeout time.Duration
}

// NewGSettingsSource creates a source that runs gsettings through runner.
func NewGSettingsSource(runner command.Runner, timeout time.Duration) *GSettingsSource {
	return &GSettingsSource{runner: runner, timeout: timeout}
}

// Current runs gsettings and interprets its answer.
func (g *GSettingsSource) Current(ctx context.Context) (Theme, error) {
	res := g.runner.Run(ctx, gsettingsColorScheme, g.timeout)
	if !res.OK() {
		return Light, errors.CommandFailedf("gsettings color-scheme: %v", res.Err)
	}
	for _, line := range res.Lines {
		if line == "" {
			continue
		}
		value := strings.Trim(line, `'"`)
		if strings.Contains(strings.ToLower(value), "dark") {
			return Dark, nil
		}
		return Light, nil
	}
	return Light, errors.NotFoundf("gsettings printed no color-scheme")
}
