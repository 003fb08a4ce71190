package config

import "time"

// Application identity, shown by --version and the About dialog
const (
	AppName    = "Power Profile Manager"
	AppAuthor  = "Dimitrios Koukas"
	AppWebsite = "https://github.com/polemion/pprofiler"
	AppLicense = "GNU Affero General Public License (GNU GPL-3.0),\n see https://www.gnu.org/licenses/"
	AppContact = "https://www.dnkoukas.xyz/contact-me/"
)

// Common constants shared between the tray and the control CLI
const (
	// ConfigDirName is the name of the config directory within XDG_CONFIG_HOME
	ConfigDirName = "pprofiler"

	// ConfigFilename is the base filename for the config file
	ConfigFilename = "pprofiler.yaml"

	// IconDirName is the icon directory name within XDG_DATA_HOME/pprofiler
	IconDirName = "icons"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "PPROFILER"

	// DefaultCommandPath is the power-profiles-daemon control tool
	DefaultCommandPath = "/usr/bin/powerprofilesctl"
)

// DefaultExcludedLines are substrings marking metadata lines in `list` output
var DefaultExcludedLines = []string{
	"CpuDriver:",
	"Degraded:",
	"PlatformDriver:",
}

// Default timeouts and intervals
const (
	// DefaultCommandTimeout bounds a single control command invocation
	DefaultCommandTimeout = 1 * time.Second

	// DefaultRefreshInterval is the reconciler poll cadence
	DefaultRefreshInterval = 3000 * time.Millisecond
)

// Theme names, also used as icon subdirectory names
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Logging constants
const (
	// LogLevelDebug represents debug log level
	LogLevelDebug = "debug"

	// LogLevelInfo represents info log level
	LogLevelInfo = "info"

	// LogLevelWarn represents warning log level
	LogLevelWarn = "warn"

	// LogLevelError represents error log level
	LogLevelError = "error"

	// LogFormatText represents text log format
	LogFormatText = "text"

	// LogFormatJSON represents JSON log format
	LogFormatJSON = "json"
)
