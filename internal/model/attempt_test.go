package model

import "testing"

func TestAttemptStatusTransitions(t *testing.T) {
	tests := []struct {
		from    AttemptStatus
		to      AttemptStatus
		allowed bool
	}{
		{AttemptStatusInProgress, AttemptStatusLocked, true},
		{AttemptStatusInProgress, AttemptStatusSubmitted, true},
		{AttemptStatusInProgress, AttemptStatusAborted, true},
		{AttemptStatusInProgress, AttemptStatusScored, false},
		{AttemptStatusLocked, AttemptStatusInProgress, true},
		{AttemptStatusLocked, AttemptStatusAborted, true},
		{AttemptStatusLocked, AttemptStatusSubmitted, false},
		{AttemptStatusSubmitted, AttemptStatusScored, true},
		{AttemptStatusSubmitted, AttemptStatusInProgress, false},
		{AttemptStatusSubmitted, AttemptStatusAborted, true},
		{AttemptStatusScored, AttemptStatusInProgress, false},
		{AttemptStatusScored, AttemptStatusAborted, false},
		{AttemptStatusAborted, AttemptStatusInProgress, false},
	}

	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestAbortedReachableFromEveryNonTerminalStatus(t *testing.T) {
	statuses := []AttemptStatus{
		AttemptStatusInProgress,
		AttemptStatusLocked,
		AttemptStatusSubmitted,
		AttemptStatusScored,
		AttemptStatusAborted,
	}
	for _, status := range statuses {
		want := !status.IsTerminal()
		if got := status.CanTransitionTo(AttemptStatusAborted); got != want {
			t.Errorf("%s -> ABORTED: got %v, want %v", status, got, want)
		}
	}
}

func TestAttemptStatusIsTerminal(t *testing.T) {
	terminal := map[AttemptStatus]bool{
		AttemptStatusInProgress: false,
		AttemptStatusLocked:     false,
		AttemptStatusSubmitted:  false,
		AttemptStatusScored:     true,
		AttemptStatusAborted:    true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s: IsTerminal() = %v, want %v", status, got, want)
		}
	}
}
