package orchestrator

import (
	"errors"
	"fmt"
)

// ErrSymbolNotSet is returned when a pipeline is invoked before a session
// has a symbol.
var ErrSymbolNotSet = errors.New("symbol not set")

// PrecedingStageError reports a stage invoked before its prerequisite
// produced a result. Always fatal to the current stage.
type PrecedingStageError struct {
	Stage   string
	Missing string
}

func (e *PrecedingStageError) Error() string {
	return fmt.Sprintf("%s requires %s, which is not available", e.Stage, e.Missing)
}

// ModelExecutionError wraps a failure of the execution backend itself.
// Unlike upstream fetch failures, these always abort the pipeline.
type ModelExecutionError struct {
	Stage string
	Err   error
}

func (e *ModelExecutionError) Error() string {
	return fmt.Sprintf("model execution failed in %s stage: %v", e.Stage, e.Err)
}

func (e *ModelExecutionError) Unwrap() error {
	return e.Err
}
