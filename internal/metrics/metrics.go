// Package metrics publishes planner load figures as Prometheus gauges, written
// to a node-exporter textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/capacity"
	"github.com/belphemur/capacity-planner/internal/logging"
	"github.com/belphemur/capacity-planner/internal/planner"
)

const namespace = "planner"

// Exporter records the load of every person and project over a window
type Exporter struct {
	registry *prometheus.Registry

	personPeak     *prometheus.GaugeVec
	personMean     *prometheus.GaugeVec
	personOverDays *prometheus.GaugeVec
	personManDays  *prometheus.GaugeVec
	projectBooked  *prometheus.GaugeVec
	projectRemain  *prometheus.GaugeVec
	windowDays     prometheus.Gauge

	logger zerolog.Logger
}

// NewExporter registers the planner gauges on reg. A nil reg gets a fresh registry.
// Collectors already registered on reg are reused.
func NewExporter(reg *prometheus.Registry) (*Exporter, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	personLabels := []string{"person_id", "person"}
	projectLabels := []string{"project_id", "project"}

	e := &Exporter{registry: reg, logger: logging.GetLogger("metrics")}

	var err error
	if e.personPeak, err = registerVec(reg, "person_peak_load", "Highest daily load of a person in the window (1 = full time)", personLabels); err != nil {
		return nil, err
	}
	if e.personMean, err = registerVec(reg, "person_mean_load", "Mean load of a person over the business days of the window", personLabels); err != nil {
		return nil, err
	}
	if e.personOverDays, err = registerVec(reg, "person_overallocated_days", "Days in the window where a person is booked above full time", personLabels); err != nil {
		return nil, err
	}
	if e.personManDays, err = registerVec(reg, "person_booked_man_days", "Man-days booked for a person inside the window, time off included", personLabels); err != nil {
		return nil, err
	}
	if e.projectBooked, err = registerVec(reg, "project_booked_man_days", "Man-days booked on a project across all dates", projectLabels); err != nil {
		return nil, err
	}
	if e.projectRemain, err = registerVec(reg, "project_remaining_man_days", "Estimate minus booked man-days, only for estimated projects", projectLabels); err != nil {
		return nil, err
	}

	window := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "window_days",
		Help:      "Calendar days covered by the recorded window",
	})
	if err := reg.Register(window); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("failed to register window gauge: %w", err)
		}
		window = are.ExistingCollector.(prometheus.Gauge)
	}
	e.windowDays = window

	return e, nil
}

func registerVec(reg prometheus.Registerer, name, help string, labels []string) (*prometheus.GaugeVec, error) {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.GaugeVec), nil
		}
		return nil, fmt.Errorf("failed to register %s: %w", name, err)
	}
	return vec, nil
}

// Registry exposes the registry the gauges live on
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Record replaces every gauge with the figures of state over days
func (e *Exporter) Record(state planner.State, days []calendar.Date) {
	for _, vec := range []*prometheus.GaugeVec{e.personPeak, e.personMean, e.personOverDays, e.personManDays, e.projectBooked, e.projectRemain} {
		vec.Reset()
	}

	e.windowDays.Set(float64(len(days)))

	for _, p := range state.People {
		series := capacity.Aggregate(state.Assignments, days, capacity.PersonGroup(p.ID))
		sum := capacity.Summarize(series)
		e.personPeak.WithLabelValues(p.ID, p.Name).Set(sum.Peak)
		e.personMean.WithLabelValues(p.ID, p.Name).Set(sum.Mean)
		e.personOverDays.WithLabelValues(p.ID, p.Name).Set(float64(sum.OverDays))
		e.personManDays.WithLabelValues(p.ID, p.Name).Set(series.TotalManDays)
	}

	for _, p := range state.Projects {
		status := capacity.Estimate(p, state.Assignments)
		e.projectBooked.WithLabelValues(p.ID, p.Name).Set(status.Booked)
		if status.Estimated != nil {
			e.projectRemain.WithLabelValues(p.ID, p.Name).Set(status.Remaining)
		}
	}

	e.logger.Debug().
		Int("people", len(state.People)).
		Int("projects", len(state.Projects)).
		Int("days", len(days)).
		Msg("Recorded planner metrics")
}

// WriteTextfile writes the registry in the node-exporter textfile format
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	e.logger.Info().Str("path", path).Msg("Metrics textfile written")
	return nil
}
