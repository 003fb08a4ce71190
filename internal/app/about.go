package app

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/jmylchreest/pprofiler/internal/config"
	"github.com/jmylchreest/pprofiler/internal/icons"
	"github.com/ncruces/zenity"
)

// AboutTitle returns the about dialog window title.
func AboutTitle() string {
	return "About " + config.AppName
}

// AboutText returns the body of the about dialog.
func AboutText(version string) string {
	return fmt.Sprintf("%s\nVersion: %s\n\nCopyright (c) 2025~ %s\n\n%s\n\nContact: %s\n%s",
		config.AppName, version, config.AppAuthor, config.AppLicense, config.AppContact, config.AppWebsite)
}

// ShowAboutFunc displays an about dialog and blocks until it is closed or
// ctx is cancelled.
type ShowAboutFunc func(ctx context.Context, title, text string) error

// NotifyFunc shows a desktop notification.
type NotifyFunc func(title, message string) error

func zenityAbout(ctx context.Context, title, text string) error {
	err := zenity.Info(text, zenity.Title(title), zenity.InfoIcon, zenity.Context(ctx))
	if err == zenity.ErrCanceled {
		return nil
	}
	return err
}

func beeepNotify(title, message string) error {
	beeep.AppName = config.AppName
	return beeep.Notify(title, message, icons.Default())
}
