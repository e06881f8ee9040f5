package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/belphemur/capacity-planner/internal/capacity"
	"github.com/belphemur/capacity-planner/internal/store"
)

func newPersonCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage people",
	}

	cmd.AddCommand(
		newPersonAddCmd(app),
		newPersonListCmd(app),
		newPersonRenameCmd(app),
		newPersonRemoveCmd(app),
	)
	return cmd
}

func newPersonAddCmd(app *App) *cobra.Command {
	var avatar string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var av *string
			if avatar != "" {
				av = &avatar
			}
			p, err := app.Store.AddPerson(cmd.Context(), args[0], av)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added person %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	return cmd
}

func newPersonListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List people",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Store.Snapshot()
			rows := make([][]string, 0, len(st.People))
			for _, p := range st.People {
				rows = append(rows, []string{
					p.Name,
					p.ID,
					strconv.Itoa(len(capacity.PersonAssignments(st.Assignments, p.ID))),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"NAME", "ID", "ASSIGNMENTS"}, rows))
			return nil
		},
	}
}

func newPersonRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name|id> <new name>",
		Short: "Rename a person",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Store.FindPersonByName(args[0])
			if err != nil {
				return err
			}
			updated, err := app.Store.UpdatePerson(cmd.Context(), p.ID, store.PersonPatch{Name: &args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", p.Name, updated.Name)
			return nil
		},
	}
}

func newPersonRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name|id>",
		Short: "Remove a person and all of their assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Store.FindPersonByName(args[0])
			if err != nil {
				return err
			}
			if err := app.Store.DeletePerson(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed person %s\n", p.Name)
			return nil
		},
	}
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectEstimateCmd(app),
		newProjectRemoveCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var color, emoji string
	var estimate float64

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := store.ProjectInput{Name: args[0]}
			if color != "" {
				in.Color = &color
			}
			if emoji != "" {
				in.Emoji = &emoji
			}
			if cmd.Flags().Changed("estimate") {
				in.EstimatedDays = &estimate
			}
			p, err := app.Store.AddProject(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Bar color, e.g. #336699")
	cmd.Flags().StringVar(&emoji, "emoji", "", "Emoji shown next to the name")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "Estimated effort in man-days")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects with booked effort against their estimate",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Store.Snapshot()
			rows := make([][]string, 0, len(st.Projects))
			for _, p := range st.Projects {
				status := capacity.Estimate(p, st.Assignments)
				name := p.Name
				if p.Emoji != nil {
					name = *p.Emoji + " " + name
				}
				rows = append(rows, []string{name, p.ID, badgeStyle(status.Badge).Render(status.Text)})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"NAME", "ID", "BOOKED"}, rows))
			return nil
		},
	}
}

func newProjectEstimateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate <name|id> <man-days>",
		Short: "Set a project's estimate; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Store.FindProjectByName(args[0])
			if err != nil {
				return err
			}
			days, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid estimate %q: %w", args[1], err)
			}
			updated, err := app.Store.UpdateProject(cmd.Context(), p.ID, store.ProjectPatch{EstimatedDays: &days})
			if err != nil {
				return err
			}
			status := capacity.Estimate(updated, app.Store.Assignments())
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", updated.Name, status.Text)
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name|id>",
		Short: "Remove a project and all of its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Store.FindProjectByName(args[0])
			if err != nil {
				return err
			}
			if err := app.Store.DeleteProject(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", p.Name)
			return nil
		},
	}
}
