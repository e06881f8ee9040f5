package signals

import (
	"context"

	"github.com/maniartech/signals"

	"github.com/belphemur/capacity-planner/internal/planner"
)

// ChangeKind describes what happened to an entity
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Entity names carried by EntityChangedData
const (
	EntityPerson  = "person"
	EntityProject = "project"
)

// AssignmentChangedData contains the assignment after the change, or before it for deletions
type AssignmentChangedData struct {
	Kind       ChangeKind
	Assignment planner.Assignment
}

// EntityChangedData contains data associated with a person or project change
type EntityChangedData struct {
	Kind   ChangeKind
	Entity string
	ID     string
}

// ViewChangedData contains the persisted view after a change
type ViewChangedData struct {
	View planner.ViewState
}

// StateReplacedData is emitted when a whole document is loaded, imported or cleared
type StateReplacedData struct {
	People      int
	Projects    int
	Assignments int
}

// Signal definitions using generics
var AssignmentChanged = signals.New[AssignmentChangedData]()
var EntityChanged = signals.New[EntityChangedData]()
var ViewChanged = signals.New[ViewChangedData]()
var StateReplaced = signals.New[StateReplacedData]()

// EmitAssignmentChanged emits a signal when an assignment is created, updated or deleted
func EmitAssignmentChanged(ctx context.Context, kind ChangeKind, a planner.Assignment) {
	AssignmentChanged.Emit(ctx, AssignmentChangedData{Kind: kind, Assignment: a})
}

// EmitEntityChanged emits a signal when a person or project changes
func EmitEntityChanged(ctx context.Context, kind ChangeKind, entity, id string) {
	EntityChanged.Emit(ctx, EntityChangedData{Kind: kind, Entity: entity, ID: id})
}

// EmitViewChanged emits a signal when the persisted view changes
func EmitViewChanged(ctx context.Context, v planner.ViewState) {
	ViewChanged.Emit(ctx, ViewChangedData{View: v})
}

// EmitStateReplaced emits a signal when the whole state is swapped
func EmitStateReplaced(ctx context.Context, s planner.State) {
	StateReplaced.Emit(ctx, StateReplacedData{
		People:      len(s.People),
		Projects:    len(s.Projects),
		Assignments: len(s.Assignments),
	})
}

// OnAssignmentChanged registers a handler for assignment events
func OnAssignmentChanged(handler func(ctx context.Context, data AssignmentChangedData), key ...string) {
	if len(key) > 0 {
		AssignmentChanged.AddListener(handler, key[0])
	} else {
		AssignmentChanged.AddListener(handler)
	}
}

// OnEntityChanged registers a handler for person and project events
func OnEntityChanged(handler func(ctx context.Context, data EntityChangedData), key ...string) {
	if len(key) > 0 {
		EntityChanged.AddListener(handler, key[0])
	} else {
		EntityChanged.AddListener(handler)
	}
}

// OnViewChanged registers a handler for view events
func OnViewChanged(handler func(ctx context.Context, data ViewChangedData), key ...string) {
	if len(key) > 0 {
		ViewChanged.AddListener(handler, key[0])
	} else {
		ViewChanged.AddListener(handler)
	}
}

// OnStateReplaced registers a handler for whole-state events
func OnStateReplaced(handler func(ctx context.Context, data StateReplacedData), key ...string) {
	if len(key) > 0 {
		StateReplaced.AddListener(handler, key[0])
	} else {
		StateReplaced.AddListener(handler)
	}
}

// RemoveListeners unregisters the keyed handler from every signal
func RemoveListeners(key string) {
	AssignmentChanged.RemoveListener(key)
	EntityChanged.RemoveListener(key)
	ViewChanged.RemoveListener(key)
	StateReplaced.RemoveListener(key)
}
