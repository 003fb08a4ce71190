// Package reconcile keeps the displayed profile and theme in step with the
// power profile daemon and the desktop appearance. It polls on a ticker and
// publishes an event only when something actually changed.
package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/pprofiler/internal/events"
	"github.com/jmylchreest/pprofiler/internal/profile"
	"github.com/jmylchreest/pprofiler/internal/theme"
)

// ProfileSource reports the active power profile.
type ProfileSource interface {
	Active(ctx context.Context) (profile.Profile, bool)
}

// ThemeState is the theme icons are drawn for. A forced theme is never
// replaced by what the OS reports.
type ThemeState struct {
	Theme  theme.Theme
	Forced bool
}

// State is a snapshot of what the reconciler last observed.
type State struct {
	// Profile is empty until a poll succeeds.
	Profile profile.Profile
	Theme   ThemeState
}

// Reconciler owns the observed state. Poll may be called from any goroutine;
// concurrent polls are skipped rather than queued.
type Reconciler struct {
	logger   *slog.Logger
	profiles ProfileSource
	themes   theme.Source
	bus      *events.Bus

	pollMu sync.Mutex

	mu            sync.Mutex
	state         State
	profileFailed bool
	themeFailed   bool
	cancel        context.CancelFunc
	done          chan struct{}
}

// New creates a reconciler starting from the given theme and an unknown
// profile. themes may be nil when the theme is forced.
func New(logger *slog.Logger, profiles ProfileSource, themes theme.Source, bus *events.Bus, initial ThemeState) *Reconciler {
	return &Reconciler{
		logger:   logger,
		profiles: profiles,
		themes:   themes,
		bus:      bus,
		state:    State{Theme: initial},
	}
}

// State returns a copy of the current state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Poll runs one reconciliation step and returns the events it published.
// If another poll is still in flight it returns nil immediately.
func (r *Reconciler) Poll(ctx context.Context) []events.Event {
	if !r.pollMu.TryLock() {
		r.logger.Debug("Previous poll still running, skipping")
		return nil
	}
	defer r.pollMu.Unlock()
	return r.poll(ctx)
}

// Refresh runs a reconciliation step, waiting for any poll in flight to
// finish first. Use it when a fresh read is required, such as right after
// switching profile; a poll already running may have read the old value.
func (r *Reconciler) Refresh(ctx context.Context) []events.Event {
	r.pollMu.Lock()
	defer r.pollMu.Unlock()
	return r.poll(ctx)
}

// poll must be called with pollMu held.
func (r *Reconciler) poll(ctx context.Context) []events.Event {
	var emitted []events.Event

	if e, ok := r.pollProfile(ctx); ok {
		emitted = append(emitted, e)
	}
	if e, ok := r.pollTheme(ctx); ok {
		emitted = append(emitted, e)
	}

	for _, e := range emitted {
		r.bus.Publish(e)
	}
	return emitted
}

func (r *Reconciler) pollProfile(ctx context.Context) (events.Event, bool) {
	active, ok := r.profiles.Active(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !ok {
		if !r.profileFailed {
			r.logger.Warn("Unable to read active profile, keeping last known state", "profile", r.state.Profile)
		}
		r.profileFailed = true
		return events.Event{}, false
	}
	if r.profileFailed {
		r.logger.Info("Active profile readable again")
		r.profileFailed = false
	}

	if active == "" || active == r.state.Profile {
		return events.Event{}, false
	}

	previous := r.state.Profile
	r.state.Profile = active
	r.logger.Info("Active profile changed", "profile", active, "previous", previous)

	return events.NewEvent(events.ProfileChanged, events.ProfileChangedData{
		Profile:  string(active),
		Previous: string(previous),
	}), true
}

func (r *Reconciler) pollTheme(ctx context.Context) (events.Event, bool) {
	r.mu.Lock()
	forced := r.state.Theme.Forced
	r.mu.Unlock()

	if forced || r.themes == nil {
		return events.Event{}, false
	}

	current, err := r.themes.Current(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		if !r.themeFailed {
			r.logger.Warn("Unable to read OS theme, keeping last known theme", "theme", r.state.Theme.Theme.String(), "error", err)
		}
		r.themeFailed = true
		return events.Event{}, false
	}
	r.themeFailed = false

	if current == r.state.Theme.Theme {
		return events.Event{}, false
	}

	previous := r.state.Theme.Theme
	r.state.Theme.Theme = current
	r.logger.Info("OS theme changed", "theme", current.String(), "previous", previous.String())

	return events.NewEvent(events.ThemeChanged, events.ThemeChangedData{
		Theme:    current.String(),
		Previous: previous.String(),
	}), true
}

// Run polls once immediately and then every interval until ctx is cancelled
// or Stop is called.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	defer close(done)
	defer cancel()

	r.logger.Debug("Starting reconciler", "interval", interval)
	r.Poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Reconciler stopped")
			return
		case <-ticker.C:
			r.Poll(ctx)
		}
	}
}

// Stop cancels a running Run loop and waits for it to return. It is a no-op
// if Run was never started.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
