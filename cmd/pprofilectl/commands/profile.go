package commands

import (
	"fmt"
	"strconv"

	"github.com/jmylchreest/pprofiler/internal/errors"
	"github.com/jmylchreest/pprofiler/internal/profile"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// ProfileTableData returns the table for a profile list, header first
func ProfileTableData(profiles []profile.Profile, active profile.Profile) pterm.TableData {
	data := pterm.TableData{{"Profile", "Kind", "Active"}}
	for _, p := range profiles {
		mark := ""
		if p == active {
			mark = "*"
		}
		data = append(data, []string{string(p), profile.KindOf(p).String(), mark})
	}
	return data
}

// ProfileParseable returns the key=value line for a profile
func ProfileParseable(p profile.Profile, active bool) string {
	return fmt.Sprintf("name=%q kind=%q active=%s", string(p), profile.KindOf(p).String(), strconv.FormatBool(active))
}

// newListCommand creates the list command
func newListCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available power profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			profiles, ok := c.List(cmd.Context())
			if !ok {
				return errors.CommandFailedf("unable to list profiles")
			}
			// An unreadable active profile only loses the marker
			active, _ := c.Active(cmd.Context())

			if len(profiles) == 0 {
				if parseable {
					return nil
				}
				pterm.Info.Println("No profiles reported")
				return nil
			}

			if parseable {
				for _, p := range profiles {
					fmt.Println(ProfileParseable(p, p == active))
				}
				return nil
			}

			return pterm.DefaultTable.WithHasHeader().WithData(ProfileTableData(profiles, active)).Render()
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

// newGetCommand creates the get command
func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the active power profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			active, ok := c.Active(cmd.Context())
			if !ok {
				return errors.CommandFailedf("unable to read active profile")
			}
			if active == "" {
				return errors.NotFoundf("no active profile reported")
			}
			fmt.Println(string(active))
			return nil
		},
	}
}

// newSetCommand creates the set command
func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <profile>",
		Short: "Switch to a power profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := profile.Profile(args[0])
			if name == "" {
				return errors.InvalidInputf("profile name must not be empty")
			}
			c, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			if !c.Set(cmd.Context(), name) {
				return errors.CommandFailedf("unable to set profile %q", name)
			}
			pterm.Success.Printf("Profile set to %s\n", name)
			return nil
		},
	}
}
