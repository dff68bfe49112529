package core

// Transition outcome constants define the possible results of Decide functions.
const (
	transitionOutcomeChanged   = "changed"
	transitionOutcomeUnchanged = "unchanged"
	transitionOutcomeError     = "error"
)

// TransitionResult represents the outcome of a feature's Decide function.
// It carries the next library state for changed outcomes, the untouched input
// state otherwise, and an error for business rule violations.
//
// IMPORTANT: TransitionResult values should only be constructed using the
// factory methods: ChangedTransition, UnchangedTransition, or ErrorTransition.
type TransitionResult struct {
	Outcome string
	State   LibraryState
	Err     error
}

// ChangedTransition creates a result for an operation that produced a new
// state which must be stored.
func ChangedTransition(state LibraryState) TransitionResult {
	return TransitionResult{
		Outcome: transitionOutcomeChanged,
		State:   state,
	}
}

// UnchangedTransition creates a result for an idempotent operation where no
// state change is needed and nothing must be stored.
func UnchangedTransition(state LibraryState) TransitionResult {
	return TransitionResult{
		Outcome: transitionOutcomeUnchanged,
		State:   state,
	}
}

// ErrorTransition creates a result for a failed business operation.
// The state is the unchanged input state; nothing must be stored.
func ErrorTransition(state LibraryState, err error) TransitionResult {
	return TransitionResult{
		Outcome: transitionOutcomeError,
		State:   state,
		Err:     err,
	}
}

// HasStateToStore returns true when the operation produced a new state.
func (r TransitionResult) HasStateToStore() bool {
	return r.Outcome == transitionOutcomeChanged
}

// HasError returns the business error for error outcomes, nil otherwise.
func (r TransitionResult) HasError() error {
	if r.Outcome == transitionOutcomeError {
		return r.Err
	}

	return nil
}
