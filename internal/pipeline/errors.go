package pipeline

import "fmt"

// PipelineError records the state a run was in when it aborted.
type PipelineError struct {
	Stage   State
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// ValidationError rejects input before anything else happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RemoteServiceError wraps a failed call to the generation or synthesis service.
type RemoteServiceError struct {
	Service string // "generation" or "synthesis"
	Err     error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Service, e.Err)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// FilesystemError wraps a failed directory or file write.
type FilesystemError struct {
	Op  string
	Err error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
