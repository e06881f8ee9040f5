package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/belphemur/capacity-planner/internal/capacity"
	"github.com/belphemur/capacity-planner/internal/metrics"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/belphemur/capacity-planner/internal/viewhelpers"
)

func newCapacityCmd(app *App) *cobra.Command {
	var fit bool

	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Summarize load per person and booked effort per project over the window",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Store.Snapshot()
			m := app.window(st)
			if fit {
				m.FitToAssignments(app.Config.Today(), st.Assignments)
			}
			days := m.DaySequence()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, header(fmt.Sprintf("People %s..%s", m.View().Start, m.EndDate())))
			rows := make([][]string, 0, len(st.People))
			for _, p := range st.People {
				sum := capacity.Summarize(capacity.Aggregate(st.Assignments, days, capacity.PersonGroup(p.ID)))
				peak := "-"
				if sum.PeakIndex >= 0 && sum.Peak > 0 {
					peak = days[sum.PeakIndex].String()
				}
				rows = append(rows, []string{
					p.Name,
					formatFloat(sum.Total),
					capacity.FormatPercent(sum.Mean),
					loadStyle(sum.Peak).Render(capacity.FormatPercent(sum.Peak)),
					peak,
					overStyle(sum.OverDays),
				})
			}
			fmt.Fprint(out, renderTable([]string{"PERSON", "MAN-DAYS", "MEAN", "PEAK", "PEAK DAY", "OVER"}, rows))

			fmt.Fprintln(out)
			fmt.Fprintln(out, header("Projects"))
			rows = rows[:0]
			for _, p := range st.Projects {
				status := capacity.Estimate(p, st.Assignments)
				remaining := "-"
				if status.Estimated != nil {
					remaining = formatFloat(status.Remaining)
				}
				var over []string
				for _, id := range capacity.OverloadedMembers(st.Assignments, days, p.ID) {
					over = append(over, planner.PersonName(st, id))
				}
				rows = append(rows, []string{
					p.Name,
					badgeStyle(status.Badge).Render(status.Text),
					remaining,
					styleRed.Render(strings.Join(over, ", ")),
				})
			}
			fmt.Fprint(out, renderTable([]string{"PROJECT", "BOOKED", "REMAINING", "OVERLOADED"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fit, "fit", false, "Size the window around every assignment")
	return cmd
}

func overStyle(n int) string {
	if n == 0 {
		return styleDim.Render("0")
	}
	return styleRed.Render(strconv.Itoa(n))
}

func newMonthCmd(app *App) *cobra.Command {
	var person, project, date string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show a month calendar of one person's or project's load",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (person == "") == (project == "") {
				return fmt.Errorf("exactly one of --person or --project is required")
			}
			ref := app.Config.Today()
			if date != "" {
				d, err := parseDateFlag("date", date)
				if err != nil {
					return err
				}
				ref = d
			}

			var group capacity.Group
			var name string
			if person != "" {
				p, err := app.Store.FindPersonByName(person)
				if err != nil {
					return err
				}
				group, name = capacity.PersonGroup(p.ID), p.Name
			} else {
				p, err := app.Store.FindProjectByName(project)
				if err != nil {
					return err
				}
				group, name = capacity.ProjectGroup(p.ID), p.Name
			}

			monthName, weeks := viewhelpers.StructureMonth(ref, app.Store.Assignments(), group)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, header(name+" · "+monthName))

			var head strings.Builder
			for _, d := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
				head.WriteString(styleBold.Render(cell(d, 9)))
			}
			fmt.Fprintln(out, head.String())

			for _, week := range weeks {
				var days, loads strings.Builder
				for _, day := range week {
					num := cell(strconv.Itoa(day.DayOfMonth), 9)
					if !day.IsCurrentMonth || day.IsWeekend {
						days.WriteString(styleDim.Render(num))
					} else {
						days.WriteString(num)
					}

					switch {
					case day.IsWeekend:
						loads.WriteString(cell("", 9))
					case len(day.Bookings) == 0:
						loads.WriteString(styleDim.Render(cell("·", 9)))
					default:
						loads.WriteString(loadStyle(day.Load).Render(cell(capacity.FormatPercent(day.Load), 9)))
					}
				}
				fmt.Fprintln(out, days.String())
				fmt.Fprintln(out, loads.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&person, "person", "", "Person name or ID")
	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&date, "date", "", "Any day of the month to show, YYYY-MM-DD (defaults to today)")
	return cmd
}

func newMetricsCmd(app *App) *cobra.Command {
	var path string
	var fit bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Write load gauges over the window to a Prometheus textfile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = app.Config.Service.MetricsFile
			}
			if path == "" {
				return fmt.Errorf("no metrics file: pass --out or set service.metrics_file")
			}

			st := app.Store.Snapshot()
			m := app.window(st)
			if fit {
				m.FitToAssignments(app.Config.Today(), st.Assignments)
			}

			exporter, err := metrics.NewExporter(nil)
			if err != nil {
				return err
			}
			exporter.Record(st, m.DaySequence())
			if err := exporter.WriteTextfile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Metrics written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "out", "", "Textfile path (defaults to service.metrics_file)")
	cmd.Flags().BoolVar(&fit, "fit", false, "Size the window around every assignment")
	return cmd
}
