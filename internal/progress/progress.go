package progress

import "time"

// Stage identifies which pipeline state is active.
type Stage string

const (
	StageValidating   Stage = "validating"
	StageGenerating   Stage = "generating"
	StageCleaning     Stage = "cleaning"
	StageSynthesizing Stage = "synthesizing"
	StageDone         Stage = "done"
	StageAborted      Stage = "aborted"
)

// Event carries progress information from the pipeline to the renderer.
type Event struct {
	Stage   Stage
	Message string
	Percent float64 // 0.0–1.0
	Elapsed time.Duration
	Error   error
	// Folder is set on StageDone with the run's output folder.
	Folder string
	// AudioBytes is the synthesized audio size, set on StageDone.
	AudioBytes int64
}

// Callback is the function signature for progress event handlers.
type Callback func(Event)

// NopCallback is a no-op progress callback for tests and silent mode.
func NopCallback(Event) {}

// NewEvent creates an Event with common fields populated.
func NewEvent(stage Stage, msg string, pct float64, start time.Time) Event {
	return Event{
		Stage:   stage,
		Message: msg,
		Percent: pct,
		Elapsed: time.Since(start),
	}
}
