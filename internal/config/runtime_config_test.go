package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// stubViewSource implements ViewSource for testing
type stubViewSource struct {
	view planner.ViewState
}

func (s stubViewSource) View() planner.ViewState { return s.view }

func TestResolveView(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	selected := "j1"
	tests := []struct {
		name     string
		stored   planner.ViewState
		expected planner.ViewState
	}{
		{
			name:     "empty store uses configured zoom",
			stored:   planner.ViewState{},
			expected: planner.ViewState{Mode: constants.ViewModePerson, PxPerDay: 56},
		},
		{
			name: "stored values win",
			stored: planner.ViewState{
				Mode: constants.ViewModeProject, Start: calendar.MustParseISO("2025-10-13"),
				Days: 47, PxPerDay: 40, SelectedID: &selected,
			},
			expected: planner.ViewState{
				Mode: constants.ViewModeProject, Start: calendar.MustParseISO("2025-10-13"),
				Days: 47, PxPerDay: 40, SelectedID: &selected,
			},
		},
		{
			name:     "zoom above bounds is clamped",
			stored:   planner.ViewState{Mode: constants.ViewModePerson, PxPerDay: 200},
			expected: planner.ViewState{Mode: constants.ViewModePerson, PxPerDay: 64},
		},
		{
			name:     "zoom below bounds is clamped",
			stored:   planner.ViewState{Mode: constants.ViewModePerson, PxPerDay: 3},
			expected: planner.ViewState{Mode: constants.ViewModePerson, PxPerDay: 24},
		},
		{
			name:     "short window grows to minimum",
			stored:   planner.ViewState{Mode: "unknown", Days: 2, PxPerDay: 56},
			expected: planner.ViewState{Mode: constants.ViewModePerson, Days: 7, PxPerDay: 56},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveView(cfg, stubViewSource{view: tt.stored})
			assert.Equal(t, tt.expected, got)
		})
	}
}
