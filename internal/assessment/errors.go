package assessment

import "fmt"

// ValidationError rejects a user-supplied value. The stage does not advance
// and the caller may simply re-prompt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// WrongStageError is returned when a transition entry point is invoked
// outside the stage it belongs to. Recoverable; the machine is unchanged.
type WrongStageError struct {
	Op    string
	Stage Stage
}

func (e *WrongStageError) Error() string {
	return fmt.Sprintf("%s is not allowed in stage %q", e.Op, e.Stage)
}

// CollaboratorError wraps a failed or unavailable capture/analysis
// collaborator. It is handled inside the response step with defined defaults
// and never unwinds past a transition; it exists so the fallback is a
// documented contract instead of a swallowed exception.
type CollaboratorError struct {
	Name string
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator %s unavailable: %v", e.Name, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// StateConsistencyError signals that the task cursor no longer agrees with
// itself. Fatal: the only error allowed to escape a response step, because
// scoring against the wrong task would silently corrupt the session.
type StateConsistencyError struct {
	Expected string
	Got      string
}

func (e *StateConsistencyError) Error() string {
	return fmt.Sprintf("task cursor out of sync: expected question %q, got %q", e.Expected, e.Got)
}
