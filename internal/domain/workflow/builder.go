package workflow

import (
	"context"
	"fmt"
)

// GuardFunc is a function that evaluates whether a transition should be allowed
type GuardFunc func(ctx context.Context) bool

// StateMachineBuilder builds a configured state machine
type StateMachineBuilder interface {
	// Configure returns a state configuration for the given state
	Configure(state State) StateConfiguration

	// Build creates a new state machine instance with the given initial state
	Build(initialState State) (StateMachine, error)
}

// StateConfiguration configures transitions out of a specific state.
// Each (state, trigger) pair permits exactly one target state.
type StateConfiguration interface {
	// Permit allows a trigger to transition to the target state
	Permit(trigger Trigger, toState State) StateConfiguration

	// PermitIf allows a trigger to transition to the target state if the guard passes
	PermitIf(trigger Trigger, toState State, guard GuardFunc) StateConfiguration
}

// transition represents a state transition with optional guard
type transition struct {
	toState State
	guard   GuardFunc
}

type stateConfig struct {
	fromState   State
	transitions map[Trigger]transition
}

type stateMachineBuilder struct {
	configurations map[State]*stateConfig
}

// NewBuilder creates a new state machine builder
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		configurations: make(map[State]*stateConfig),
	}
}

// Configure returns a state configuration for the given state
func (b *stateMachineBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	config, exists := b.configurations[state]
	if !exists {
		config = &stateConfig{
			fromState:   state,
			transitions: make(map[Trigger]transition),
		}
		b.configurations[state] = config
	}

	return config
}

// Build creates a new state machine instance with the given initial state.
// The transition table is copied so machines built from the same builder
// never share mutable state.
func (b *stateMachineBuilder) Build(initialState State) (StateMachine, error) {
	if !initialState.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, initialState)
	}

	transitions := make(map[State]map[Trigger]transition, len(b.configurations))
	for state, config := range b.configurations {
		copied := make(map[Trigger]transition, len(config.transitions))
		for trigger, t := range config.transitions {
			copied[trigger] = t
		}
		transitions[state] = copied
	}

	return &stateMachine{
		currentState: initialState,
		transitions:  transitions,
	}, nil
}

// Permit allows a trigger to transition to the target state
func (c *stateConfig) Permit(trigger Trigger, toState State) StateConfiguration {
	return c.PermitIf(trigger, toState, nil)
}

// PermitIf allows a trigger to transition to the target state if the guard passes
func (c *stateConfig) PermitIf(trigger Trigger, toState State, guard GuardFunc) StateConfiguration {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}
	if c.fromState.IsTerminal() {
		panic(fmt.Sprintf("cannot configure transitions out of terminal state %s", c.fromState))
	}

	c.transitions[trigger] = transition{
		toState: toState,
		guard:   guard,
	}

	return c
}
