// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package provider

// State is a step of one media load.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateBootstrapping    State = "bootstrapping"
	StateBatching         State = "batching"
	StateAwaitingResponse State = "awaiting_response"
	StateReconciling      State = "reconciling"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

var transitions = map[State][]State{
	StateIdle:             {StateValidating},
	StateValidating:       {StateBootstrapping, StateBatching, StateFailed},
	StateBootstrapping:    {StateBatching, StateFailed},
	StateBatching:         {StateAwaitingResponse, StateFailed},
	StateAwaitingResponse: {StateReconciling, StateFailed},
	StateReconciling:      {StateDone, StateFailed},
}

// CanTransition reports whether a load may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }
