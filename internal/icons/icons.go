// Package icons resolves the tray icon for a profile under the current theme.
package icons

import (
	_ "embed"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmylchreest/pprofiler/internal/profile"
	"github.com/jmylchreest/pprofiler/internal/theme"
)

//go:embed assets/default.png
var defaultIcon []byte

// Ext is the file extension of icon files.
const Ext = ".png"

// Default returns the embedded icon used when no file matches.
func Default() []byte {
	return defaultIcon
}

// Set is a fixed table of icons for one theme, indexed by profile kind.
// Every slot is populated, so lookups never return nil.
type Set struct {
	theme theme.Theme
	dir   string
	icons [profile.NumKinds][]byte
}

// Path returns the file an icon for kind is read from.
func Path(baseDir string, t theme.Theme, k profile.Kind) string {
	return filepath.Join(ThemeDir(baseDir, t), k.String()+Ext)
}

// ThemeDir returns the directory holding the icons of one theme.
func ThemeDir(baseDir string, t theme.Theme) string {
	return filepath.Join(baseDir, t.String())
}

// Load reads <baseDir>/<theme>/<profile>.png for every kind. Files that are
// missing or unreadable fall back to the embedded default.
func Load(logger *slog.Logger, baseDir string, t theme.Theme) *Set {
	s := &Set{theme: t, dir: ThemeDir(baseDir, t)}
	loaded := 0
	for k := range s.icons {
		kind := profile.Kind(k)
		path := Path(baseDir, t, kind)
		data, err := os.ReadFile(path)
		if err != nil || len(data) == 0 {
			if err != nil && !os.IsNotExist(err) {
				logger.Warn("Unable to read icon, using default", "path", path, "error", err)
			}
			s.icons[k] = defaultIcon
			continue
		}
		s.icons[k] = data
		loaded++
	}
	logger.Debug("Loaded icons", "dir", s.dir, "theme", t.String(), "files", loaded)
	return s
}

// For returns the icon for a profile name. Non-canonical names use the
// unknown slot.
func (s *Set) For(p profile.Profile) []byte {
	return s.ForKind(profile.KindOf(p))
}

// ForKind returns the icon for a kind.
func (s *Set) ForKind(k profile.Kind) []byte {
	if k < 0 || int(k) >= profile.NumKinds {
		k = profile.Unknown
	}
	if icon := s.icons[k]; icon != nil {
		return icon
	}
	return defaultIcon
}

// Theme returns the theme the set was loaded for.
func (s *Set) Theme() theme.Theme {
	return s.theme
}
