package pipeline

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/apresai/comedian/internal/output"
	"github.com/apresai/comedian/internal/prefs"
	"github.com/apresai/comedian/internal/progress"
	"github.com/apresai/comedian/internal/script"
	"github.com/apresai/comedian/internal/tts"
)

var tracer = otel.Tracer("comedian/pipeline")

// State is a step of a single run.
type State string

const (
	StateIdle         State = "idle"
	StateValidating   State = "validating"
	StateGenerating   State = "generating"
	StateCleaning     State = "cleaning"
	StateSynthesizing State = "synthesizing"
	StateDone         State = "done"
	StateAborted      State = "aborted"
)

const (
	previewRunes = 200

	emptyThoughtsMessage = "Please enter your thoughts. Don't leave us hanging!"
)

// Request is one submission from an interactive surface.
type Request struct {
	Thoughts string
	VoiceID  string
	Style    script.Style
	Clean    bool
}

// Result describes the artifacts of a completed run.
type Result struct {
	RunID          string
	Folder         string
	TranscriptPath string
	AudioPath      string
	AudioBytes     int64
	Script         string
	Preview        string
}

// Submitter is what a user-facing surface needs from the pipeline.
type Submitter interface {
	Submit(ctx context.Context, req Request) (*Result, error)
}

// Synthesizer streams speech audio for a script.
type Synthesizer interface {
	Synthesize(ctx context.Context, req tts.Request, w io.Writer) (int64, error)
}

// PreferencesSaver persists preferences after each accepted submission.
type PreferencesSaver interface {
	Save(p prefs.Preferences) error
}

// Options wires an Orchestrator to its collaborators.
type Options struct {
	Generator   script.Generator
	Synthesizer Synthesizer
	Writer      *output.Writer
	Store       PreferencesSaver
	Logger      *slog.Logger
	OnProgress  progress.Callback
}

// Orchestrator runs the thoughts-to-audio pipeline one run at a time.
type Orchestrator struct {
	gen        script.Generator
	synth      Synthesizer
	writer     *output.Writer
	store      PreferencesSaver
	log        *slog.Logger
	onProgress progress.Callback

	mu    sync.Mutex
	prefs prefs.Preferences
}

// New creates an Orchestrator whose Submit starts from initial.
func New(opts Options, initial prefs.Preferences) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	onProgress := opts.OnProgress
	if onProgress == nil {
		onProgress = progress.NopCallback
	}
	return &Orchestrator{
		gen:        opts.Generator,
		synth:      opts.Synthesizer,
		writer:     opts.Writer,
		store:      opts.Store,
		log:        logger,
		onProgress: onProgress,
		prefs:      initial,
	}
}

// Preferences returns the preferences the next Submit will start from.
func (o *Orchestrator) Preferences() prefs.Preferences {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.prefs
}

// Submit runs the pipeline with the orchestrator's current preferences and
// keeps the updated preferences for the next call. Calls are serialized.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	updated, res, err := o.Run(ctx, o.prefs, req)
	o.prefs = updated
	return res, err
}

// ValidateThoughts rejects thoughts with no visible characters.
func ValidateThoughts(thoughts string) error {
	if strings.TrimSpace(thoughts) == "" {
		return &ValidationError{Message: emptyThoughtsMessage}
	}
	return nil
}

// Run executes one pipeline run starting from p and returns the preferences
// as updated by this run. Preferences are saved after validation and before
// any remote call, so a later failure keeps the user's selections.
func (o *Orchestrator) Run(ctx context.Context, p prefs.Preferences, req Request) (prefs.Preferences, *Result, error) {
	if err := ValidateThoughts(req.Thoughts); err != nil {
		return p, nil, err
	}

	start := time.Now()
	runID := newRunID()
	log := o.log.With("run_id", runID)

	ctx, span := tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("style", string(req.Style)),
		attribute.Bool("clean", req.Clean),
	))
	defer span.End()

	// Validating
	o.onProgress(progress.NewEvent(progress.StageValidating, "Saving preferences...", 0.05, start))
	p.VoiceID = req.VoiceID
	p.ComedyStyle = string(req.Style)
	p.CleanScript = req.Clean
	if err := o.store.Save(p); err != nil {
		return p, nil, o.abort(ctx, span, start, StateValidating, "failed to save preferences",
			&FilesystemError{Op: "save preferences", Err: err})
	}
	log.DebugContext(ctx, "Preferences saved", "voice_id", p.VoiceID, "style", p.ComedyStyle, "clean", p.CleanScript)

	// Generating
	o.onProgress(progress.NewEvent(progress.StageGenerating, "Generating comedy script...", 0.15, start))
	stageStart := time.Now()
	prompt := script.BuildPrompt(req.Thoughts, req.Style, req.Clean)
	text, err := o.generate(ctx, prompt)
	if err != nil {
		return p, nil, o.abort(ctx, span, start, StateGenerating, "failed to generate script",
			&RemoteServiceError{Service: "generation", Err: err})
	}
	log.InfoContext(ctx, "Script generated", "chars", len(text), "elapsed", time.Since(stageStart).Round(time.Millisecond))

	// Cleaning
	final := text
	if req.Clean {
		o.onProgress(progress.NewEvent(progress.StageCleaning, "Removing stage directions...", 0.5, start))
		final = script.Clean(text)
		log.DebugContext(ctx, "Script cleaned", "before", len(text), "after", len(final))
	}

	// Synthesizing
	o.onProgress(progress.NewEvent(progress.StageSynthesizing, "Synthesizing audio...", 0.6, start))
	res, err := o.persist(ctx, p, req, final)
	if err != nil {
		return p, nil, o.abort(ctx, span, start, StateSynthesizing, "failed to produce artifacts", err)
	}
	res.RunID = runID

	// Done
	done := progress.NewEvent(progress.StageDone, "Comedy gold generated!", 1, start)
	done.Folder = res.Folder
	done.AudioBytes = res.AudioBytes
	o.onProgress(done)
	span.SetAttributes(attribute.String("folder", res.Folder), attribute.Int64("audio_bytes", res.AudioBytes))
	log.InfoContext(ctx, "Run complete",
		"folder", res.Folder,
		"audio_bytes", res.AudioBytes,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return p, res, nil
}

func (o *Orchestrator) generate(ctx context.Context, prompt script.Prompt) (string, error) {
	ctx, span := tracer.Start(ctx, "pipeline.generate")
	defer span.End()

	text, err := o.gen.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return "", err
	}
	return text, nil
}

// persist writes the transcript, then streams synthesized audio into the
// audio file. A failed synthesis removes the partial audio file but leaves
// the transcript in place.
func (o *Orchestrator) persist(ctx context.Context, p prefs.Preferences, req Request, final string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "pipeline.synthesize")
	defer span.End()

	dir, err := o.writer.CreateFolder(final)
	if err != nil {
		return nil, &FilesystemError{Op: "create output folder", Err: err}
	}
	transcriptPath, err := output.WriteTranscript(dir, final)
	if err != nil {
		return nil, &FilesystemError{Op: "write transcript", Err: err}
	}

	f, audioPath, err := output.CreateAudio(dir)
	if err != nil {
		return nil, &FilesystemError{Op: "create audio file", Err: err}
	}
	n, synthErr := o.synth.Synthesize(ctx, tts.Request{
		Text:         final,
		VoiceID:      req.VoiceID,
		OutputFormat: p.OutputFormat,
	}, f)
	closeErr := f.Close()
	if synthErr != nil {
		span.RecordError(synthErr)
		span.SetStatus(codes.Error, "synthesis failed")
		os.Remove(audioPath)
		return nil, &RemoteServiceError{Service: "synthesis", Err: synthErr}
	}
	if closeErr != nil {
		return nil, &FilesystemError{Op: "write audio file", Err: closeErr}
	}

	return &Result{
		Folder:         dir,
		TranscriptPath: transcriptPath,
		AudioPath:      audioPath,
		AudioBytes:     n,
		Script:         final,
		Preview:        Preview(final),
	}, nil
}

func (o *Orchestrator) abort(ctx context.Context, span trace.Span, start time.Time, stage State, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)

	ev := progress.NewEvent(progress.StageAborted, msg, 0, start)
	ev.Error = err
	o.onProgress(ev)
	o.log.ErrorContext(ctx, "Run aborted", "stage", stage, "error", err)

	return &PipelineError{Stage: stage, Message: msg, Err: err}
}

// Preview returns the first 200 characters of s, with an ellipsis when cut.
func Preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "..."
}

func newRunID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return time.Now().Format("20060102-150405.000")
	}
	return id.String()
}
