package theme

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/jmylchreest/pprofiler/internal/errors"
)

const (
	portalDest          = "org.freedesktop.portal.Desktop"
	portalPath          = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	portalReadMethod    = "org.freedesktop.portal.Settings.Read"
	appearanceNamespace = "org.freedesktop.appearance"
	colorSchemeKey      = "color-scheme"
)

// Values of org.freedesktop.appearance color-scheme
const (
	colorSchemeNoPreference uint32 = 0
	colorSchemePreferDark   uint32 = 1
	colorSchemePreferLight  uint32 = 2
)

// PortalSource reads the color-scheme setting from the XDG desktop portal
// over the session bus.
type PortalSource struct {
	connect func() (*dbus.Conn, error)
}

// NewPortalSource creates a source using the shared session bus connection.
func NewPortalSource() *PortalSource {
	return &PortalSource{connect: dbus.SessionBus}
}

// Current queries the portal for the preferred color scheme.
func (p *PortalSource) Current(ctx context.Context) (Theme, error) {
	conn, err := p.connect()
	if err != nil {
		return Light, errors.WrapErrorf(err, "connecting to session bus")
	}

	obj := conn.Object(portalDest, portalPath)
	var value dbus.Variant
	if err := obj.CallWithContext(ctx, portalReadMethod, 0, appearanceNamespace, colorSchemeKey).Store(&value); err != nil {
		return Light, errors.WrapErrorf(err, "reading %s %s", appearanceNamespace, colorSchemeKey)
	}

	return fromColorScheme(unwrapVariant(value))
}

// unwrapVariant removes the extra variant layer Settings.Read adds around
// the actual value.
func unwrapVariant(v dbus.Variant) any {
	for {
		inner, ok := v.Value().(dbus.Variant)
		if !ok {
			return v.Value()
		}
		v = inner
	}
}

func fromColorScheme(value any) (Theme, error) {
	scheme, ok := value.(uint32)
	if !ok {
		return Light, errors.InvalidInputf("unexpected color-scheme value %v (%T)", value, value)
	}
	switch scheme {
	case colorSchemePreferDark:
		return Dark, nil
	case colorSchemeNoPreference, colorSchemePreferLight:
		return Light, nil
	default:
		return Light, errors.InvalidInputf("unknown color-scheme %d", scheme)
	}
}
