package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level command and registers all subcommands
// against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "capacity-planner",
		Short:         "Plan people across projects on a business-day timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newImportCmd(app),
		newExportCmd(app),
		newClearCmd(app),
		newPersonCmd(app),
		newProjectCmd(app),
		newAssignCmd(app),
		newUnassignCmd(app),
		newDragCmd(app),
		newTimelineCmd(app),
		newCapacityCmd(app),
		newMonthCmd(app),
		newMetricsCmd(app),
	)

	return root
}
