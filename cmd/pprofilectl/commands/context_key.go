package commands

import (
	"context"

	"github.com/jmylchreest/pprofiler/internal/profile"
)

// contextKey is the type of values commands store in the command context.
type contextKey int

const (
	// ClientContextKey holds the ProfileClient. Tests put a fake under the
	// same key.
	ClientContextKey contextKey = iota

	// ConfigContextKey holds the effective config.Config.
	ConfigContextKey
)

// ProfileClient is the subset of profile.Controller the commands use.
type ProfileClient interface {
	List(ctx context.Context) ([]profile.Profile, bool)
	Active(ctx context.Context) (profile.Profile, bool)
	Set(ctx context.Context, name profile.Profile) bool
}

var _ ProfileClient = (*profile.Controller)(nil)
