package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/systray"
	"github.com/jmylchreest/pprofiler/internal/app"
	"github.com/jmylchreest/pprofiler/internal/command"
	"github.com/jmylchreest/pprofiler/internal/config"
	"github.com/jmylchreest/pprofiler/internal/errors"
	"github.com/jmylchreest/pprofiler/internal/events"
	"github.com/jmylchreest/pprofiler/internal/icons"
	"github.com/jmylchreest/pprofiler/internal/profile"
	"github.com/jmylchreest/pprofiler/internal/reconcile"
	"github.com/jmylchreest/pprofiler/internal/theme"
	"github.com/jmylchreest/pprofiler/internal/tray"
	"github.com/jmylchreest/pprofiler/internal/utils"
	"github.com/spf13/cobra"
)

var (
	version   = "1.0"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "pprofiler",
		Short:        config.AppName + " tray indicator",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return errors.LogErrorAndReturn(utils.SetupErrorLogger(), err, "failed to load configuration")
			}
			return run(cfg)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("%s v{{.Version}}\n", config.AppName))

	flags := cmd.Flags()
	flags.BoolP("version", "v", false, "Show version")
	flags.BoolP("mouse-reverse", "m", false, "Swap the mouse buttons opening the profile and application menus")
	flags.StringP("force-theme", "f", "", "Force the icon theme (dark, light)")
	flags.StringVar(&configFile, "config", "", "Path to config file")
	flags.String("command", config.DefaultCommandPath, "Power profile control command")
	flags.Duration("timeout", config.DefaultCommandTimeout, "Timeout for a single control command")
	flags.Duration("interval", config.DefaultRefreshInterval, "Refresh interval")
	flags.String("icon-dir", "", "Icon base directory containing light/ and dark/")
	flags.String("log-level", config.LogLevelInfo, "Log level (debug, info, warn, error)")
	flags.String("log-format", config.LogFormatText, "Log format (text, json)")

	return cmd
}

func run(cfg config.Config) error {
	logger := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	utils.SetAsDefaultLogger(logger)

	release, err := acquireLock(lockDir())
	if err != nil {
		return errors.LogErrorAndReturn(logger, err, "Unable to start", "lock_dir", lockDir())
	}
	defer release()

	logger.Info("Starting "+config.AppName,
		"version", version,
		"commit", commit,
		"buildDate", buildDate,
		"command", cfg.Command.Path,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := command.NewExecRunner(logger)
	controller := profile.NewController(logger, runner, cfg.Command)
	themeSource, initialTheme := setupTheme(ctx, logger, runner, cfg)

	if cfg.Tray.MouseReverse {
		logger.Info("Mouse buttons reversed")
	}

	bus := events.NewBus()
	reconciler := reconcile.New(logger, controller, themeSource, bus, reconcile.ThemeState{
		Theme:  initialTheme,
		Forced: cfg.Theme.Forced(),
	})

	application := app.New(logger, version, cfg.Refresh.Interval, controller, reconciler)
	presenter := tray.NewPresenter(application.Context(), logger, controller, application, bus, tray.Options{
		MouseReverse: cfg.Tray.MouseReverse,
		IconDir:      cfg.Icons.Dir,
		Theme:        initialTheme,
	})
	application.SetPresenter(presenter)

	if watcher, err := icons.NewWatcher(logger, bus, cfg.Icons.Dir); err != nil {
		logger.Debug("Icon directory not watched", "dir", cfg.Icons.Dir, "error", err)
	} else {
		application.Go("icon-watcher", watcher.Run)
	}

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("Received signal, shutting down")
			application.Quit()
		case <-application.Context().Done():
		}
	}()

	systray.Run(func() {
		presenter.OnReady()
		application.Start()
	}, onExit(application, presenter))

	logger.Info(config.AppName + " stopped")
	return nil
}

// setupTheme returns the OS theme source and the theme to start with. The
// source is nil when the theme is forced.
func setupTheme(ctx context.Context, logger *slog.Logger, runner command.Runner, cfg config.Config) (theme.Source, theme.Theme) {
	if cfg.Theme.Forced() {
		t, err := theme.Parse(cfg.Theme.Force)
		if err != nil {
			// Validate already normalized the value
			logger.Warn("Ignoring invalid forced theme", "theme", cfg.Theme.Force, "error", err)
		} else {
			logger.Info("Forcing theme", "theme", t.String())
			return nil, t
		}
	}

	src := theme.NewChain(logger,
		theme.NewPortalSource(),
		theme.NewGSettingsSource(runner, cfg.Command.Timeout),
	)
	t := theme.Detect(ctx, logger, src)
	logger.Info("Detected OS theme", "theme", t.String())
	return src, t
}

// onExit returns the systray exit callback. Polling stops before the
// presenter is torn down.
func onExit(application interface{ Stop() }, presenter interface{ OnExit() }) func() {
	return func() {
		application.Stop()
		presenter.OnExit()
	}
}
