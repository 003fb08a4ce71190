package commands

import (
	"context"
	"fmt"

	"github.com/jmylchreest/pprofiler/internal/command"
	"github.com/jmylchreest/pprofiler/internal/config"
	"github.com/jmylchreest/pprofiler/internal/errors"
	"github.com/jmylchreest/pprofiler/internal/profile"
	"github.com/jmylchreest/pprofiler/internal/utils"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "pprofilectl",
		Short:        "Query and switch power profiles",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if _, ok := ctx.Value(ClientContextKey).(ProfileClient); ok {
				return nil
			}

			cfg, err := config.Load(configFile, cmd.Root().PersistentFlags())
			if err != nil {
				return errors.LogErrorAndReturn(utils.SetupErrorLogger(), err, "failed to load configuration")
			}

			logger := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
			utils.SetAsDefaultLogger(logger)

			controller := profile.NewController(logger, command.NewExecRunner(logger), cfg.Command)
			ctx = context.WithValue(ctx, ClientContextKey, ProfileClient(controller))
			ctx = context.WithValue(ctx, ConfigContextKey, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	// Add global flags
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")
	cmd.PersistentFlags().String("command", config.DefaultCommandPath, "Power profile control command")
	cmd.PersistentFlags().Duration("timeout", config.DefaultCommandTimeout, "Timeout for a single control command")
	cmd.PersistentFlags().String("log-level", config.LogLevelWarn, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", config.LogFormatText, "Log format (text, json)")

	// Add commands
	cmd.AddCommand(newVersionCommand(version, commit, buildDate))
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newGetCommand())
	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newConfigCommand())

	return cmd
}

// newVersionCommand creates the version command
func newVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Version needs no config or control command
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", config.AppName, version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}

func clientFromCmd(cmd *cobra.Command) (ProfileClient, error) {
	c, ok := cmd.Context().Value(ClientContextKey).(ProfileClient)
	if !ok || c == nil {
		return nil, errors.Internalf("profile client not initialised")
	}
	return c, nil
}
