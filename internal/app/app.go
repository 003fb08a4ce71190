// Package app ties the profile controller, the reconciler and the tray
// presenter together and consumes the intents produced by the tray menus.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/pprofiler/internal/events"
	"github.com/jmylchreest/pprofiler/internal/profile"
	"github.com/jmylchreest/pprofiler/internal/reconcile"
)

// Switcher changes the active power profile.
type Switcher interface {
	Set(ctx context.Context, name profile.Profile) bool
}

// Reconciler is the polling engine driving the displayed state.
type Reconciler interface {
	Refresh(ctx context.Context) []events.Event
	Run(ctx context.Context, interval time.Duration)
	Stop()
	State() reconcile.State
}

// Presenter is the visible tray icon.
type Presenter interface {
	Quit()
}

// Option configures an App.
type Option func(*App)

// WithAbout replaces the about dialog implementation.
func WithAbout(fn ShowAboutFunc) Option {
	return func(a *App) { a.about = fn }
}

// WithNotifier replaces the desktop notification implementation.
func WithNotifier(fn NotifyFunc) Option {
	return func(a *App) { a.notify = fn }
}

// App owns the background workers and dispatches user intents.
type App struct {
	logger     *slog.Logger
	version    string
	interval   time.Duration
	switcher   Switcher
	reconciler Reconciler
	about      ShowAboutFunc
	notify     NotifyFunc

	mu        sync.Mutex
	presenter Presenter

	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// New creates an App. The reconciler is started by Start, not here.
func New(logger *slog.Logger, version string, interval time.Duration, switcher Switcher, reconciler Reconciler, opts ...Option) *App {
	rootCtx, rootCancel := context.WithCancel(context.Background())
	a := &App{
		logger:     logger,
		version:    version,
		interval:   interval,
		switcher:   switcher,
		reconciler: reconciler,
		about:      zenityAbout,
		notify:     beeepNotify,
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetPresenter sets the presenter torn down on Quit.
func (a *App) SetPresenter(p Presenter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.presenter = p
}

// Context returns the application lifetime context. It is cancelled by Stop.
func (a *App) Context() context.Context {
	return a.rootCtx
}

// Start launches the reconciler loop.
func (a *App) Start() {
	a.logger.Info("Starting reconciler", "interval", a.interval)
	a.Go("reconciler", func(ctx context.Context) {
		a.reconciler.Run(ctx, a.interval)
	})
}

// Go runs fn on a tracked goroutine that Stop waits for.
func (a *App) Go(name string, fn func(ctx context.Context)) {
	a.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("panic in background worker", "worker", name, "recover", r)
			}
		}()
		fn(a.rootCtx)
	})
}

// Dispatch performs a single intent.
func (a *App) Dispatch(ctx context.Context, intent Intent) {
	a.logger.Debug("Dispatching intent", "intent", intent.String())

	switch intent.Kind {
	case IntentSetProfile:
		a.setProfile(ctx, intent.Profile)
	case IntentOpenAbout:
		a.openAbout()
	case IntentQuit:
		a.Quit()
	default:
		a.logger.Warn("Ignoring unknown intent", "intent", intent.String())
	}
}

func (a *App) setProfile(ctx context.Context, name profile.Profile) {
	ok := a.switcher.Set(ctx, name)
	if !ok {
		a.logger.Warn("Failed to set profile", "profile", name)
		if err := a.notify("Unable to switch power profile", "Could not set profile "+string(name)); err != nil {
			a.logger.Debug("Notification failed", "error", err)
		}
	}

	// Refresh immediately so the icon follows without waiting for a tick
	a.reconciler.Refresh(ctx)
	if active := a.reconciler.State().Profile; ok && active != name {
		a.logger.Warn("Profile set but daemon reports another", "requested", name, "active", active)
	}
}

func (a *App) openAbout() {
	a.Go("about", func(ctx context.Context) {
		if err := a.about(ctx, AboutTitle(), AboutText(a.version)); err != nil {
			a.logger.Warn("Unable to show about dialog", "error", err)
		}
	})
}

// Stop halts the reconciler and waits for background workers. It is safe
// to call more than once.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		a.logger.Info("Shutting down")
		a.reconciler.Stop()
		a.rootCancel()
		a.wg.Wait()
	})
}

// Quit stops background work, then tears the presenter down.
func (a *App) Quit() {
	a.Stop()

	a.mu.Lock()
	p := a.presenter
	a.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}
