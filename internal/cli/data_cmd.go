package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/belphemur/capacity-planner/internal/dataset"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json|file.yaml>",
		Short: "Replace all planner data with a dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := dataset.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := app.Store.Replace(cmd.Context(), state); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d people, %d projects, %d assignments\n",
				len(state.People), len(state.Projects), len(state.Assignments))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.json|file.yaml>",
		Short: "Write all planner data to a dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dataset.WriteFile(args[0], app.Store.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every person, project and assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			if err := app.Store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Planner cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
