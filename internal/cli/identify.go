package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/timing"
)

func newIdentifyCommand() *cobra.Command {
	var archive bool

	cmd := &cobra.Command{
		Use:   "identify <image-file>",
		Short: "Identify the car in a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			identifier, err := app.identifier(cmd.Context(), archive)
			if err != nil {
				return err
			}

			result := identifier.IdentifyImage(cmd.Context(), image, timing.NewSession("identify"))

			if result == nil {
				return errors.New(identifier.Error())
			}
			printIdentification(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&archive, "archive", false, "Store the photo in the scan archive")
	return cmd
}

func printIdentification(w io.Writer, r *model.CarIdentification) {
	fmt.Fprintf(w, "Make:       %s\n", orUnknown(r.Make))
	fmt.Fprintf(w, "Model:      %s\n", orUnknown(r.Model))
	if r.Year != nil {
		fmt.Fprintf(w, "Year:       %d\n", *r.Year)
	} else {
		fmt.Fprintln(w, "Year:       unknown")
	}
	if r.Confidence != nil {
		fmt.Fprintf(w, "Confidence: %s", *r.Confidence)
		if r.ConfidenceScore != nil {
			fmt.Fprintf(w, " (%.0f%%)", *r.ConfidenceScore)
		}
		fmt.Fprintln(w)
	}
	if r.SpotScore != nil {
		fmt.Fprintf(w, "Spot score: %d\n", *r.SpotScore)
	}
	fmt.Fprintf(w, "\n%s\n", r.Disclaimer)
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return "unknown"
	}
	return *s
}
