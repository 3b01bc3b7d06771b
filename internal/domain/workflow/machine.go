package workflow

import (
	"context"
	"fmt"
)

// StateMachine tracks the current state of a document and validates
// role-gated transitions before any persistence happens.
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current state
	PermittedTriggers() []Trigger
}

// stateMachine implements StateMachine
type stateMachine struct {
	currentState State
	transitions  map[State]map[Trigger]transition
}

// State returns the current state
func (m *stateMachine) State() State {
	return m.currentState
}

// CanFire returns true if the trigger is permitted in the current state.
// Guards are not evaluated here; they need a context at Fire time.
func (m *stateMachine) CanFire(trigger Trigger) bool {
	_, ok := m.transitions[m.currentState][trigger]
	return ok
}

// Fire attempts to execute the trigger, transitioning to the new state if allowed
func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	t, ok := m.transitions[m.currentState][trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}

	if t.guard != nil && !t.guard(ctx) {
		return fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, trigger, m.currentState)
	}

	m.currentState = t.toState
	return nil
}

// PermittedTriggers returns all triggers that can be fired in the current state
func (m *stateMachine) PermittedTriggers() []Trigger {
	config := m.transitions[m.currentState]

	triggers := make([]Trigger, 0, len(config))
	for trigger := range config {
		triggers = append(triggers, trigger)
	}

	return triggers
}
