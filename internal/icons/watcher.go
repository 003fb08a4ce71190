package icons

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/jmylchreest/pprofiler/internal/events"
	"github.com/jmylchreest/pprofiler/internal/theme"
)

// Watcher publishes IconsReloaded when icon files change on disk.
type Watcher struct {
	logger  *slog.Logger
	bus     *events.Bus
	baseDir string
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching the light and dark icon directories under
// baseDir. Directories that do not exist are skipped; if neither exists the
// base directory itself is watched so later creation is noticed.
func NewWatcher(logger *slog.Logger, bus *events.Bus, baseDir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{logger: logger, bus: bus, baseDir: baseDir, watcher: fw}

	watched := 0
	for _, t := range []theme.Theme{theme.Light, theme.Dark} {
		dir := ThemeDir(baseDir, t)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := fw.Add(dir); err != nil {
			logger.Warn("Unable to watch icon directory", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		if err := fw.Add(baseDir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Run processes filesystem events until ctx is done or the watcher closes.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		_ = w.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Icon watcher error", "error", err)
		}
	}
}

// Close stops the watcher. Run returns shortly after.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	dir := filepath.Dir(event.Name)
	if filepath.Clean(dir) == filepath.Clean(w.baseDir) {
		// A theme directory appeared under the base directory
		if event.Op&fsnotify.Create != 0 {
			if t, err := theme.Parse(filepath.Base(event.Name)); err == nil {
				if err := w.watcher.Add(event.Name); err == nil {
					w.publish(t, event.Name)
				}
			}
		}
		return
	}

	if !strings.EqualFold(filepath.Ext(event.Name), Ext) {
		return
	}
	t, err := theme.Parse(filepath.Base(dir))
	if err != nil {
		return
	}
	w.logger.Debug("Icon file changed", "path", event.Name, "op", event.Op.String())
	w.publish(t, dir)
}

func (w *Watcher) publish(t theme.Theme, dir string) {
	w.bus.Publish(events.NewEvent(events.IconsReloaded, events.IconsReloadedData{
		Theme: t.String(),
		Dir:   dir,
	}))
}
