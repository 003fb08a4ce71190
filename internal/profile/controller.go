// Package profile wraps the power-profiles control tool: listing, reading and
// switching the active profile, and cleaning the tool's output.
package profile

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jmylchreest/pprofiler/internal/command"
	"github.com/jmylchreest/pprofiler/internal/config"
)

// Sub-verbs understood by the control tool
const (
	VerbList = "list"
	VerbGet  = "get"
	VerbSet  = "set"
)

// Profile is a power profile identifier as reported by the control tool.
type Profile string

// Controller issues list/get/set commands through a command.Runner.
type Controller struct {
	runner   command.Runner
	command  string
	timeout  time.Duration
	excluded []string
	logger   *slog.Logger
}

// NewController creates a controller for the configured control command.
func NewController(logger *slog.Logger, runner command.Runner, cfg config.CommandConfig) *Controller {
	return &Controller{
		runner:   runner,
		command:  cfg.Path,
		timeout:  cfg.Timeout,
		excluded: append([]string(nil), cfg.ExcludedLines...),
		logger:   logger,
	}
}

func (c *Controller) run(ctx context.Context, args ...string) command.Result {
	return c.runner.Run(ctx, c.command+" "+strings.Join(args, " "), c.timeout)
}

// List returns the available profiles in the order the tool prints them.
// ok reflects whether the command succeeded.
func (c *Controller) List(ctx context.Context) ([]Profile, bool) {
	res := c.run(ctx, VerbList)
	if !res.OK() {
		c.logger.Debug("profile: list failed", "error", res.Err, "timed_out", res.TimedOut)
		return []Profile{}, false
	}
	return ParseList(res.Lines, c.excluded), true
}

// Active returns the profile the tool reports as active. The profile is
// empty when the command fails or prints nothing usable.
func (c *Controller) Active(ctx context.Context) (Profile, bool) {
	res := c.run(ctx, VerbGet)
	if !res.OK() {
		c.logger.Debug("profile: get failed", "error", res.Err, "timed_out", res.TimedOut)
		return "", false
	}
	return ParseActive(res.Lines), true
}

// Set asks the tool to activate name. The name is not checked against the
// known profiles; the tool rejects unknown names itself.
func (c *Controller) Set(ctx context.Context, name Profile) bool {
	c.logger.Info("Set profile", "profile", name)
	res := c.run(ctx, VerbSet, command.Quote(string(name)))
	if !res.OK() {
		c.logger.Warn("profile: set failed", "profile", name, "error", res.Err, "timed_out", res.TimedOut)
		return false
	}
	return true
}

// ParseList turns `list` output into profiles: lines containing an excluded
// marker are dropped, the rest are cleaned and kept unless empty. Duplicates
// are kept so the result mirrors the tool's output.
func ParseList(lines []string, excluded []string) []Profile {
	profiles := make([]Profile, 0, len(lines))
	for _, line := range lines {
		if line == "" || Excluded(line, excluded) {
			continue
		}
		if name := CleanLine(line); name != "" {
			profiles = append(profiles, Profile(name))
		}
	}
	return profiles
}

// ParseActive returns the first non-empty line of `get` output.
func ParseActive(lines []string) Profile {
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			return Profile(line)
		}
	}
	return ""
}

// Excluded reports whether line contains any of the metadata markers.
func Excluded(line string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// CleanLine strips the current-profile asterisk, colons and surrounding
// whitespace. Applying it twice gives the same result as applying it once.
func CleanLine(line string) string {
	line = strings.ReplaceAll(line, "*", "")
	line = strings.ReplaceAll(line, ":", "")
	return strings.TrimSpace(line)
}
