package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newLeadCommand() *cobra.Command {
	leadCmd := &cobra.Command{
		Use:   "lead",
		Short: "Join the caloriespot mailing list",
	}

	var source string
	submitCmd := &cobra.Command{
		Use:   "submit <email>",
		Short: "Submit an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			capture := app.leadCapture(cmd.Context(), source)
			capture.SetEmail(args[0])
			if err := capture.Submit(cmd.Context()); err != nil {
				if msg := capture.Error(); msg != "" {
					return errors.New(msg)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Thanks! Check your inbox for the free guide.")
			return nil
		},
	}
	submitCmd.Flags().StringVar(&source, "source", "", "Lead source tag (defaults to LEAD_SOURCE)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether an email was already submitted on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			capture := app.leadCapture(cmd.Context(), "")
			if capture.IsSubmitted() {
				fmt.Fprintln(cmd.OutOrStdout(), "Submitted")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Not submitted")
			return nil
		},
	}

	leadCmd.AddCommand(submitCmd, statusCmd)
	return leadCmd
}
