package tray

import (
	"github.com/jmylchreest/pprofiler/internal/app"
	"github.com/jmylchreest/pprofiler/internal/profile"
)

// Button is a physical click on the tray icon.
type Button int

const (
	Primary Button = iota
	Secondary
)

// MenuKind selects which menu a click opens.
type MenuKind int

const (
	ProfileMenuKind MenuKind = iota
	AppMenuKind
)

func (k MenuKind) String() string {
	if k == AppMenuKind {
		return "app"
	}
	return "profiles"
}

// IntentFor maps a click to a menu. reverse swaps the two buttons.
func IntentFor(b Button, reverse bool) MenuKind {
	primary := b == Primary
	if reverse {
		primary = !primary
	}
	if primary {
		return ProfileMenuKind
	}
	return AppMenuKind
}

// EntryKind describes how a menu entry is rendered.
type EntryKind int

const (
	EntryRadio EntryKind = iota
	EntryAction
	EntrySeparator
	EntryLabel
)

// MenuEntry is one rendered line of a menu. Intent is what selecting the
// entry dispatches; it is unused for separators and labels.
type MenuEntry struct {
	Kind    EntryKind
	Title   string
	Tooltip string
	Checked bool
	Intent  app.Intent
}

// NoProfilesTitle is shown when the profile list could not be read.
const NoProfilesTitle = "No profiles available"

// ProfileMenu builds the radio menu for profiles, with active checked.
// Duplicate names produce duplicate entries.
func ProfileMenu(profiles []profile.Profile, active profile.Profile) []MenuEntry {
	if len(profiles) == 0 {
		return []MenuEntry{{Kind: EntryLabel, Title: NoProfilesTitle}}
	}

	entries := make([]MenuEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, MenuEntry{
			Kind:    EntryRadio,
			Title:   string(p),
			Tooltip: "Switch to " + string(p),
			Checked: active != "" && p == active,
			Intent:  app.SetProfile(p),
		})
	}
	return entries
}

// AppMenu builds the About / Quit menu.
func AppMenu() []MenuEntry {
	return []MenuEntry{
		{Kind: EntryAction, Title: "About", Tooltip: "About this application", Intent: app.OpenAbout()},
		{Kind: EntrySeparator},
		{Kind: EntryAction, Title: "Quit", Tooltip: "Quit the application", Intent: app.Quit()},
	}
}

// Tooltip returns the icon tooltip for the active profile.
func Tooltip(active profile.Profile) string {
	if active == "" {
		return "Active Profile: unknown"
	}
	return "Active Profile: " + string(active)
}
