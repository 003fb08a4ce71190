package commands

import (
	"fmt"

	"github.com/jmylchreest/pprofiler/internal/config"
	"github.com/jmylchreest/pprofiler/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newConfigCommand creates the config command
func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok := cmd.Context().Value(ConfigContextKey).(config.Config)
			if !ok {
				return errors.Internalf("configuration not loaded")
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.WrapErrorf(err, "failed to encode configuration")
			}
			fmt.Print(string(out))
			return nil
		},
	}
}
