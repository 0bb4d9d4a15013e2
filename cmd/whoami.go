package cmd

import (
	"github.com/spf13/cobra"

	"github.com/giantswarm/linkedin-mcp/internal/cli"
)

func newWhoamiCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the member URN of the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			result, err := a.client.Identity(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			if !result.OK() {
				return a.printSoftFailure(result.Failure)
			}
			if handled, err := a.printer.Structured(result.Value); handled {
				return err
			}
			a.printer.KeyValues([]cli.Field{
				{Key: "URN", Value: result.Value.URN},
				{Key: "Name", Value: result.Value.Name},
				{Key: "Email", Value: result.Value.Email},
			})
			return nil
		},
	}
}
