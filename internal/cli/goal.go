package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

func newGoalCommand() *cobra.Command {
	goalCmd := &cobra.Command{
		Use:   "goal",
		Short: "Show or change the daily calorie goal",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the daily calorie goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}
			goal := app.goal().Load(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Daily goal: %d kcal\n", goal)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <kcal>",
		Short: fmt.Sprintf("Set the daily calorie goal (%d-%d)", model.MinCalorieGoal, model.MaxCalorieGoal),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requested, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("goal must be a whole number of kcal: %q", args[0])
			}
			app, err := appFrom(cmd)
			if err != nil {
				return err
			}

			goal := app.goal()
			goal.Load(cmd.Context())
			saved := goal.SetGoal(cmd.Context(), requested)

			out := cmd.OutOrStdout()
			if saved != requested {
				fmt.Fprintf(out, "Goal adjusted to the allowed range %d-%d kcal\n", model.MinCalorieGoal, model.MaxCalorieGoal)
			}
			fmt.Fprintf(out, "Daily goal set to %d kcal\n", saved)
			return nil
		},
	}

	goalCmd.AddCommand(showCmd, setCmd)
	return goalCmd
}
