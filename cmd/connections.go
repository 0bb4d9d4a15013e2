package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/giantswarm/linkedin-mcp/internal/cli"
)

func newConnectionsCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "connections",
		Short: "Show the number of 1st-degree connections",
		Long: `Shows the number of 1st-degree connections of the signed-in member.

LinkedIn only serves this to applications granted the r_network scope; without
it a warning is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			result, err := a.client.ConnectionCount(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			if !result.OK() {
				return a.printSoftFailure(result.Failure)
			}
			if handled, err := a.printer.Structured(result.Value); handled {
				return err
			}
			a.printer.KeyValues([]cli.Field{{Key: "Connections", Value: strconv.Itoa(result.Value.Total)}})
			return nil
		},
	}
}
