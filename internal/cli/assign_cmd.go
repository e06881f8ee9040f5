package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/capacity"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/dragcreate"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/belphemur/capacity-planner/internal/store"
)

func parseDateFlag(name, value string) (calendar.Date, error) {
	d, err := calendar.ParseISO(value)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return d, nil
}

func newAssignCmd(app *App) *cobra.Command {
	var person, project, start, end, allocation, note string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Book a person on a project (or time off) for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Store.FindPersonByName(person)
			if err != nil {
				return err
			}
			j, err := app.Store.FindProjectByName(project)
			if err != nil {
				return err
			}
			startDate, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			endDate := startDate
			if end != "" {
				if endDate, err = parseDateFlag("end", end); err != nil {
					return err
				}
			}
			alloc, err := constants.ParseAllocation(allocation)
			if err != nil {
				return err
			}

			in := store.AssignmentInput{
				PersonID:   p.ID,
				ProjectID:  j.ID,
				Start:      startDate,
				End:        endDate,
				Allocation: alloc,
			}
			if note != "" {
				in.Subtitle = &note
			}
			a, err := app.Store.CreateAssignment(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booked %s on %s %s..%s at %s (%s man-days) [%s]\n",
				p.Name, j.Name, a.Start, a.End, a.Allocation,
				formatFloat(capacity.ManDays(a.Start, a.End, a.Allocation)), a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&person, "person", "", "Person name or ID")
	cmd.Flags().StringVar(&project, "project", "", `Project name or ID, "time off" for unavailability`)
	cmd.Flags().StringVar(&start, "start", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "Last day, YYYY-MM-DD (defaults to --start)")
	cmd.Flags().StringVar(&allocation, "allocation", "100%", "Share of the day: 25%, 50%, 75% or 100%")
	cmd.Flags().StringVar(&note, "note", "", "Subtitle shown on the bar")
	_ = cmd.MarkFlagRequired("person")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newUnassignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <assignment-id>",
		Short: "Delete an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.DeleteAssignment(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted assignment %s\n", args[0])
			return nil
		},
	}
}

// newDragCmd replays a long-press drag across the timeline row of a person and
// project, booking the weekdays it covers at full time
func newDragCmd(app *App) *cobra.Command {
	var person, project, from, to string

	cmd := &cobra.Command{
		Use:   "drag",
		Short: "Book full-time days by replaying a drag gesture from one day to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Store.FindPersonByName(person)
			if err != nil {
				return err
			}
			j, err := app.Store.FindProjectByName(project)
			if err != nil {
				return err
			}
			fromDate, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			toDate, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}

			m := app.window(app.Store.Snapshot())
			span := calendar.ClampDateRange(fromDate, toDate)
			if span.Start.Before(m.View().Start) || span.End.After(m.EndDate()) {
				m.SetStart(calendar.MondayOf(span.Start))
				m.SetDays(calendar.DaysBetweenInclusive(m.View().Start, span.End) + 7)
			}
			xOf := func(d calendar.Date) float64 {
				return m.Left(m.IndexOf(d)) + m.View().PxPerDay/2
			}

			rowKey := p.ID + ":" + j.ID
			rows := func(key string) (planner.Subrow, bool) {
				if key != rowKey {
					return planner.Subrow{}, false
				}
				return planner.Subrow{Kind: planner.SubrowItem, Key: key, PersonID: p.ID, ProjectID: j.ID}, true
			}

			opts := app.Config.DragOptions()
			machine := dragcreate.New(opts, dragcreate.RealScheduler{}, m, nil)
			machine.Press(rowKey, dragcreate.ButtonLeft, xOf(fromDate))
			if err := waitActive(machine, opts.LongPressDelay); err != nil {
				return err
			}
			machine.Move(xOf(toDate), clientWidth/2)
			if preview, ok := machine.Preview(); ok {
				app.logger.Debug().
					Str("start", preview.Start.String()).
					Str("end", preview.End.String()).
					Float64("left", preview.Left).
					Float64("width", preview.Width).
					Msg("Drag preview")
			}

			candidate, ok := machine.Release(dragcreate.ButtonLeft, rows)
			if !ok {
				return fmt.Errorf("drag did not produce an assignment")
			}
			a, err := app.Store.CreateFromCandidate(cmd.Context(), candidate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booked %s on %s %s..%s (%d weekdays) [%s]\n",
				p.Name, j.Name, a.Start, a.End, candidate.Duration, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&person, "person", "", "Person name or ID")
	cmd.Flags().StringVar(&project, "project", "", `Project name or ID, "time off" for unavailability`)
	cmd.Flags().StringVar(&from, "from", "", "Day the press starts on, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Day the pointer is released on, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("person")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// waitActive holds the press until the long-press timer has fired
func waitActive(machine *dragcreate.Machine, delay time.Duration) error {
	deadline := time.NewTimer(4*delay + 100*time.Millisecond)
	defer deadline.Stop()
	poll := time.NewTicker(5 * time.Millisecond)
	defer poll.Stop()

	for machine.State() != dragcreate.StateActive {
		select {
		case <-deadline.C:
			machine.Cancel()
			return fmt.Errorf("long press did not activate within %s", 4*delay)
		case <-poll.C:
		}
	}
	return nil
}
