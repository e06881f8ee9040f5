package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/capacity"
	"github.com/belphemur/capacity-planner/internal/config"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/dataset"
	"github.com/belphemur/capacity-planner/internal/lanes"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/belphemur/capacity-planner/internal/viewport"
)

const (
	labelWidth = 24
	colWidth   = 4
)

type timelineOptions struct {
	mode        string
	from        string
	weeks       int
	zoom        float64
	fit         bool
	extendLeft  int
	extendRight int
	selected    string
	save        bool
}

func newTimelineCmd(app *App) *cobra.Command {
	var opts timelineOptions

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the business-day timeline grouped by person or project",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Store.Snapshot()
			view := config.ResolveView(app.Config, app.Store)
			if opts.mode != "" {
				mode, err := constants.ParseViewMode(opts.mode)
				if err != nil {
					return err
				}
				view.Mode = mode
			}
			if opts.selected != "" {
				view.SelectedID = &opts.selected
			}

			m, err := app.timelineWindow(st, opts)
			if err != nil {
				return err
			}
			if !opts.fit && m.NeedsExpansion(st.Assignments) {
				app.logger.Info().Msg("Some assignments fall outside the window, --fit shows them all")
			}

			frags := dataset.NewFragments(st.Assignments, dataset.FragmentOptions{
				Weeks:       app.Config.Data.FragmentWeeks,
				BufferWeeks: app.Config.Data.PreloadBufferWeeks,
			})
			start, end := m.View().Start, m.EndDate()
			frags.LoadRange(start, end)
			visible := frags.AssignmentsForRange(start, end)

			renderTimeline(cmd.OutOrStdout(), st, visible, m, view)

			if opts.save {
				if err := app.Store.SetView(cmd.Context(), m.Apply(view)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("View saved"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "", "Group rows by person or project (defaults to the saved mode)")
	cmd.Flags().StringVar(&opts.from, "from", "", "Jump to this date, YYYY-MM-DD")
	cmd.Flags().IntVar(&opts.weeks, "weeks", 0, "Window length in weeks")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 0, "Column width in pixels, used for the saved view")
	cmd.Flags().BoolVar(&opts.fit, "fit", false, "Size the window around every assignment")
	cmd.Flags().IntVar(&opts.extendLeft, "extend-left", 0, "Grow the window backward by this many weekdays")
	cmd.Flags().IntVar(&opts.extendRight, "extend-right", 0, "Grow the window forward by this many weekdays")
	cmd.Flags().StringVar(&opts.selected, "select", "", "Highlight this person or project ID")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Persist the resulting window and mode")
	return cmd
}

// timelineWindow applies the navigation flags on top of the persisted window
func (a *App) timelineWindow(st planner.State, opts timelineOptions) (*viewport.Model, error) {
	m := a.window(st)
	mode, err := config.ParseScrollMode(a.Config.Scroll.Mode)
	if err != nil {
		return nil, err
	}

	if opts.fit {
		m.FitToAssignments(a.Config.Today(), st.Assignments)
	}
	if opts.from != "" {
		d, err := parseDateFlag("from", opts.from)
		if err != nil {
			return nil, err
		}
		m.JumpTo(d)
		if !opts.fit {
			m.SetStart(calendar.MondayOf(d))
		}
	}
	if opts.weeks > 0 {
		m.SetDays(opts.weeks * 7)
	}
	if opts.zoom > 0 {
		m.SetZoom(opts.zoom)
	}
	m.Prepend(opts.extendLeft, mode)
	m.Append(opts.extendRight, mode)
	return m, nil
}

func renderTimeline(w io.Writer, st planner.State, visible []planner.Assignment, m *viewport.Model, view planner.ViewState) {
	days := m.DaySequence()
	base := m.View().Start

	title := fmt.Sprintf("%s..%s by %s", base, m.EndDate(), view.Mode)
	fmt.Fprintln(w, header(title))

	// month and day headers
	var months strings.Builder
	months.WriteString(strings.Repeat(" ", labelWidth))
	for _, seg := range m.MonthSegments() {
		months.WriteString(styleBold.Render(label(seg.Label, seg.Span*colWidth)))
	}
	fmt.Fprintln(w, months.String())

	var dayLine strings.Builder
	dayLine.WriteString(strings.Repeat(" ", labelWidth))
	for _, d := range days {
		txt := strconv.Itoa(d.Day())
		if d.Weekday() == time.Monday {
			dayLine.WriteString(styleHeader.Render(cell(txt, colWidth)))
			continue
		}
		dayLine.WriteString(styleDim.Render(cell(txt, colWidth)))
	}
	fmt.Fprintln(w, dayLine.String())

	if view.Mode == constants.ViewModeProject {
		for _, p := range st.Projects {
			renderProjectGroup(w, st, visible, days, base, p, isSelected(view, p.ID))
		}
		return
	}
	for _, p := range st.People {
		renderPersonGroup(w, st, visible, days, base, p, isSelected(view, p.ID))
	}
}

func isSelected(view planner.ViewState, id string) bool {
	return view.SelectedID != nil && *view.SelectedID == id
}

func renderPersonGroup(w io.Writer, st planner.State, visible []planner.Assignment, days []calendar.Date, base calendar.Date, p planner.Person, selected bool) {
	series := capacity.Aggregate(visible, days, capacity.PersonGroup(p.ID))
	name := p.Name
	if selected {
		name = "▶ " + name
	}
	fmt.Fprintln(w, groupLine(name, series))

	for _, row := range planner.PersonSubrows(st, p.ID) {
		if row.Kind != planner.SubrowItem {
			continue
		}
		renderSubrow(w, st, visible, days, base, row)
	}
}

func renderProjectGroup(w io.Writer, st planner.State, visible []planner.Assignment, days []calendar.Date, base calendar.Date, p planner.Project, selected bool) {
	series := capacity.Aggregate(visible, days, capacity.ProjectGroup(p.ID))
	name := p.Name
	if p.Emoji != nil {
		name = *p.Emoji + " " + name
	}
	if selected {
		name = "▶ " + name
	}
	fmt.Fprintln(w, groupLine(name, series))

	status := capacity.Estimate(p, st.Assignments)
	notes := []string{badgeStyle(status.Badge).Render(status.Text)}
	if over := capacity.OverloadedMembers(visible, days, p.ID); len(over) > 0 {
		names := make([]string, 0, len(over))
		for _, id := range over {
			names = append(names, planner.PersonName(st, id))
		}
		notes = append(notes, styleRed.Render("overloaded: "+strings.Join(names, ", ")))
	}
	fmt.Fprintln(w, strings.Repeat(" ", 2)+strings.Join(notes, "  "))

	for _, row := range planner.ProjectSubrows(st, p.ID) {
		if row.Kind != planner.SubrowItem {
			continue
		}
		renderSubrow(w, st, visible, days, base, row)
	}
}

// groupLine renders a group name followed by its daily load in percent
func groupLine(name string, series capacity.Series) string {
	var b strings.Builder
	b.WriteString(styleBold.Render(label(name, labelWidth)))
	for _, v := range series.Daily {
		if v == 0 {
			b.WriteString(styleDim.Render(cell("·", colWidth)))
			continue
		}
		pct := strconv.Itoa(int(math.Round(v * 100)))
		b.WriteString(loadStyle(v).Render(cell(pct, colWidth)))
	}
	return b.String()
}

// renderSubrow draws one line per lane, one bar cell per column an assignment covers
func renderSubrow(w io.Writer, st planner.State, visible []planner.Assignment, days []calendar.Date, base calendar.Date, row planner.Subrow) {
	layout := lanes.ForRow(base, visible, row.PersonID, row.ProjectID)
	style := barStyle(st, row.ProjectID)

	for lane := 0; lane < layout.LaneCount; lane++ {
		var b strings.Builder
		if lane == 0 {
			b.WriteString("  " + label(row.Label, labelWidth-2))
		} else {
			b.WriteString(strings.Repeat(" ", labelWidth))
		}
		for _, d := range days {
			idx := lanes.ToDayIndex(base, d)
			glyph := ""
			for _, item := range layout.Items {
				if item.Lane == lane && idx >= item.StartIndex && idx <= item.EndIndex {
					glyph = barGlyph(item.Allocation)
					break
				}
			}
			if glyph == "" {
				b.WriteString(strings.Repeat(" ", colWidth))
				continue
			}
			b.WriteString(style.Render(glyph))
		}
		fmt.Fprintln(w, b.String())
	}
}

func barGlyph(a constants.Allocation) string {
	switch a {
	case constants.AllocationQuarter:
		return "▂▂▂ "
	case constants.AllocationHalf:
		return "▄▄▄ "
	case constants.AllocationThreeQuarters:
		return "▆▆▆ "
	default:
		return "███ "
	}
}

func barStyle(st planner.State, projectID string) lipgloss.Style {
	if constants.IsTimeOff(projectID) {
		return styleDim
	}
	for _, p := range st.Projects {
		if p.ID == projectID && p.Color != nil && *p.Color != "" {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(*p.Color))
		}
	}
	return styleGreen
}
