package usecase

import "fmt"

// Phase identifies the pipeline stage where a fatal error occurred.
type Phase string

const (
	PhaseLoad  Phase = "load"
	PhaseStore Phase = "store"
	PhaseIndex Phase = "index"
)

// PhaseError wraps a fatal pipeline error with the phase it occurred
// in, so callers can tell configuration, storage and indexing failures
// apart without matching message strings.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s phase failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
