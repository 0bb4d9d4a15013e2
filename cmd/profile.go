package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/giantswarm/linkedin-mcp/internal/cli"
)

func newProfileCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the LinkedIn profile of the signed-in member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			result, err := a.client.Profile(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			if !result.OK() {
				return a.printSoftFailure(result.Failure)
			}
			if handled, err := a.printer.Structured(result.Value); handled {
				return err
			}

			p := result.Value
			verified := ""
			if p.EmailVerified != nil {
				verified = strconv.FormatBool(*p.EmailVerified)
			}
			a.printer.KeyValues([]cli.Field{
				{Key: "Name", Value: p.Name},
				{Key: "Given name", Value: p.GivenName},
				{Key: "Family name", Value: p.FamilyName},
				{Key: "Email", Value: p.Email},
				{Key: "Email verified", Value: verified},
				{Key: "ID", Value: p.Sub},
				{Key: "Picture", Value: p.Picture},
				{Key: "Source", Value: p.Source},
			})
			return nil
		},
	}
}
