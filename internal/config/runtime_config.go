package config

import (
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// ViewSource provides the view persisted alongside the planner data
type ViewSource interface {
	View() planner.ViewState
}

// ResolveView merges file configuration with the persisted view.
// The stored mode, start and selection win; zoom and day count fall back to the
// configured values and are kept inside the configured bounds.
func ResolveView(cfg *Config, source ViewSource) planner.ViewState {
	v := source.View()

	if !v.Mode.IsValid() {
		v.Mode = constants.ViewModePerson
	}

	if v.PxPerDay <= 0 {
		v.PxPerDay = cfg.View.PxPerDay
	}
	if v.PxPerDay < cfg.View.MinZoom {
		v.PxPerDay = cfg.View.MinZoom
	}
	if v.PxPerDay > cfg.View.MaxZoom {
		v.PxPerDay = cfg.View.MaxZoom
	}

	if v.Days > 0 && v.Days < cfg.View.MinDays {
		v.Days = cfg.View.MinDays
	}

	return v
}
