package app

import (
	"fmt"

	"github.com/jmylchreest/pprofiler/internal/profile"
)

// IntentKind identifies what the user asked for.
type IntentKind int

const (
	IntentSetProfile IntentKind = iota
	IntentOpenAbout
	IntentQuit
)

func (k IntentKind) String() string {
	switch k {
	case IntentSetProfile:
		return "set-profile"
	case IntentOpenAbout:
		return "open-about"
	case IntentQuit:
		return "quit"
	default:
		return fmt.Sprintf("intent(%d)", int(k))
	}
}

// Intent is a user request produced by a menu click. Profile is only set
// for IntentSetProfile.
type Intent struct {
	Kind    IntentKind
	Profile profile.Profile
}

// SetProfile asks for the named profile to become active.
func SetProfile(name profile.Profile) Intent {
	return Intent{Kind: IntentSetProfile, Profile: name}
}

// OpenAbout asks for the about dialog.
func OpenAbout() Intent {
	return Intent{Kind: IntentOpenAbout}
}

// Quit asks the application to exit.
func Quit() Intent {
	return Intent{Kind: IntentQuit}
}

func (i Intent) String() string {
	if i.Kind == IntentSetProfile {
		return fmt.Sprintf("%s(%s)", i.Kind, i.Profile)
	}
	return i.Kind.String()
}
