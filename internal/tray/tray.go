// Package tray renders the power profile indicator with fyne.io/systray.
package tray

import (
	"context"
	"log/slog"
	"sync"

	"fyne.io/systray"
	"github.com/jmylchreest/pprofiler/internal/app"
	"github.com/jmylchreest/pprofiler/internal/config"
	"github.com/jmylchreest/pprofiler/internal/events"
	"github.com/jmylchreest/pprofiler/internal/icons"
	"github.com/jmylchreest/pprofiler/internal/profile"
	"github.com/jmylchreest/pprofiler/internal/theme"
)

// ProfileLister reads the available profiles.
type ProfileLister interface {
	List(ctx context.Context) ([]profile.Profile, bool)
}

// Dispatcher consumes intents from menu clicks.
type Dispatcher interface {
	Dispatch(ctx context.Context, intent app.Intent)
}

// Options configures a Presenter.
type Options struct {
	MouseReverse bool
	IconDir      string
	Theme        theme.Theme
}

// Presenter owns the tray icon, its tooltip and the registered menu.
//
// systray cannot pop a menu up programmatically, so a click swaps the
// registered menu for the one the button maps to. The host shows it on its
// own menu gesture. Until the first click the menu for Secondary is
// registered.
type Presenter struct {
	mu         sync.Mutex
	ctx        context.Context
	logger     *slog.Logger
	lister     ProfileLister
	dispatcher Dispatcher
	bus        *events.Bus
	opts       Options

	icons     *icons.Set
	active    profile.Profile
	current   MenuKind
	menuBuilt bool
	stopChan  chan struct{}

	events      chan events.Event
	unsubscribe func()
	done        chan struct{}
	quitOnce    sync.Once

	setIcon    func([]byte)
	setTooltip func(string)
	quit       func()
}

// NewPresenter creates a presenter. Nothing is shown until OnReady runs.
func NewPresenter(ctx context.Context, logger *slog.Logger, lister ProfileLister, dispatcher Dispatcher, bus *events.Bus, opts Options) *Presenter {
	return &Presenter{
		ctx:        ctx,
		logger:     logger,
		lister:     lister,
		dispatcher: dispatcher,
		bus:        bus,
		opts:       opts,
		icons:      icons.Load(logger, opts.IconDir, opts.Theme),
		current:    IntentFor(Secondary, opts.MouseReverse),
		stopChan:   make(chan struct{}),
		events:     make(chan events.Event, 16),
		done:       make(chan struct{}),
		setIcon:    systray.SetIcon,
		setTooltip: systray.SetTooltip,
		quit:       systray.Quit,
	}
}

// OnReady is called when systray is ready
func (p *Presenter) OnReady() {
	p.mu.Lock()
	// No profile is known before the first poll; show balanced
	p.setIcon(p.icons.ForKind(profile.Balanced))
	p.mu.Unlock()

	systray.SetTitle(config.AppName)
	p.setTooltip(config.AppName)

	systray.SetOnTapped(func() {
		p.Show(IntentFor(Primary, p.opts.MouseReverse))
	})
	systray.SetOnSecondaryTapped(func() {
		p.Show(IntentFor(Secondary, p.opts.MouseReverse))
	})

	p.Start()

	p.mu.Lock()
	p.rebuildMenu(p.current)
	p.mu.Unlock()
}

// Start subscribes to state events. OnReady calls it; tests call it
// directly.
func (p *Presenter) Start() {
	p.unsubscribe = p.bus.Subscribe(func(e events.Event) {
		select {
		case p.events <- e:
		default:
			p.logger.Warn("Presenter event queue full, dropping event", "type", e.Type)
		}
	})
	go p.eventLoop()
}

// OnExit is called when systray exits
func (p *Presenter) OnExit() {
	p.stop()
}

// Quit removes the tray icon and ends the systray loop.
func (p *Presenter) Quit() {
	p.stop()
	p.quit()
}

func (p *Presenter) stop() {
	p.quitOnce.Do(func() {
		if p.unsubscribe != nil {
			p.unsubscribe()
		}
		close(p.done)

		p.mu.Lock()
		close(p.stopChan)
		p.mu.Unlock()
	})
}

func (p *Presenter) eventLoop() {
	for {
		select {
		case <-p.done:
			return
		case e := <-p.events:
			p.handleEvent(e)
		}
	}
}

func (p *Presenter) handleEvent(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped() {
		return
	}

	switch e.Type {
	case events.ProfileChanged:
		var data events.ProfileChangedData
		if err := e.Decode(&data); err != nil {
			p.logger.Warn("Bad profile event", "error", err)
			return
		}
		p.active = profile.Profile(data.Profile)
		p.render()
		if p.menuBuilt && p.current == ProfileMenuKind {
			p.rebuildMenu(ProfileMenuKind)
		}

	case events.ThemeChanged:
		var data events.ThemeChangedData
		if err := e.Decode(&data); err != nil {
			p.logger.Warn("Bad theme event", "error", err)
			return
		}
		t, err := theme.Parse(data.Theme)
		if err != nil {
			p.logger.Warn("Bad theme event", "error", err)
			return
		}
		p.icons = icons.Load(p.logger, p.opts.IconDir, t)
		p.render()

	case events.IconsReloaded:
		var data events.IconsReloadedData
		if err := e.Decode(&data); err != nil {
			p.logger.Warn("Bad icons event", "error", err)
			return
		}
		if data.Theme != p.icons.Theme().String() {
			return
		}
		p.icons = icons.Load(p.logger, p.opts.IconDir, p.icons.Theme())
		p.render()
	}
}

// render must be called with mu held.
func (p *Presenter) render() {
	icon := p.icons.For(p.active)
	if p.active == "" {
		icon = p.icons.ForKind(profile.Balanced)
	}
	p.setIcon(icon)
	p.setTooltip(Tooltip(p.active))
}

// Show registers the menu for kind, refreshing the profile list.
func (p *Presenter) Show(kind MenuKind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped() {
		return
	}
	p.rebuildMenu(kind)
}

func (p *Presenter) stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// rebuildMenu must be called with mu held.
func (p *Presenter) rebuildMenu(kind MenuKind) {
	var entries []MenuEntry
	if kind == ProfileMenuKind {
		profiles, ok := p.lister.List(p.ctx)
		if !ok {
			p.logger.Warn("Unable to list profiles")
		}
		entries = ProfileMenu(profiles, p.active)
	} else {
		entries = AppMenu()
	}

	if p.menuBuilt {
		// Signal to stop old handlers
		close(p.stopChan)
		p.stopChan = make(chan struct{})
		systray.ResetMenu()
	}

	for _, entry := range entries {
		switch entry.Kind {
		case EntrySeparator:
			systray.AddSeparator()
		case EntryLabel:
			item := systray.AddMenuItem(entry.Title, entry.Tooltip)
			item.Disable()
		case EntryRadio:
			item := systray.AddMenuItemCheckbox(entry.Title, entry.Tooltip, entry.Checked)
			go p.handleMenuItem(item, entry.Intent, p.stopChan)
		case EntryAction:
			item := systray.AddMenuItem(entry.Title, entry.Tooltip)
			go p.handleMenuItem(item, entry.Intent, p.stopChan)
		}
	}

	p.current = kind
	p.menuBuilt = true
	p.logger.Debug("Menu rebuilt", "menu", kind.String(), "entries", len(entries))
}

// handleMenuItem dispatches intent for every click until stop closes.
func (p *Presenter) handleMenuItem(item *systray.MenuItem, intent app.Intent, stop chan struct{}) {
	for {
		select {
		case <-item.ClickedCh:
			p.dispatcher.Dispatch(p.ctx, intent)
		case <-stop:
			return
		}
	}
}

// Active returns the profile currently displayed.
func (p *Presenter) Active() profile.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}
