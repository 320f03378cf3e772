package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRenderBar(t *testing.T) {
	tests := []struct {
		pct   float64
		width int
		want  string
	}{
		{0, 4, "[....]"},
		{0.5, 4, "[##..]"},
		{1, 4, "[####]"},
		{1.7, 4, "[####]"},
		{-1, 4, "[....]"},
	}
	for _, tt := range tests {
		if got := renderBar(tt.pct, tt.width); got != tt.want {
			t.Errorf("renderBar(%v, %d) = %q, want %q", tt.pct, tt.width, got, tt.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(75 * time.Second); got != "1:15" {
		t.Errorf("Expected 1:15, got %s", got)
	}
	if got := formatElapsed(0); got != "0:00" {
		t.Errorf("Expected 0:00, got %s", got)
	}
}

func TestPlainRendererLifecycle(t *testing.T) {
	var buf bytes.Buffer
	r := &BarRenderer{out: &buf, width: 80}

	r.Handle(NewEvent(StageGenerating, "Generating comedy script...", 0.2, time.Now()))
	r.Handle(Event{Stage: StageDone, Message: "Done", Folder: "comedy_output/x", AudioBytes: 2 * 1024 * 1024})
	r.Finish()

	out := buf.String()
	if !strings.Contains(out, "generating") || !strings.Contains(out, "Generating comedy script...") {
		t.Errorf("Missing stage line in %q", out)
	}
	if !strings.Contains(out, "Saved to comedy_output/x (2.0 MB audio") {
		t.Errorf("Missing summary in %q", out)
	}
}

func TestPlainRendererAborted(t *testing.T) {
	var buf bytes.Buffer
	r := &BarRenderer{out: &buf, width: 80}

	r.Handle(Event{Stage: StageSynthesizing, Message: "Synthesizing audio..."})
	r.Handle(Event{Stage: StageAborted, Message: "failed to produce artifacts", Error: errors.New("boom")})
	r.Finish()

	if !strings.Contains(buf.String(), "Aborted during synthesizing") {
		t.Errorf("Missing abort summary in %q", buf.String())
	}
}

func TestFinishResetsForNextRun(t *testing.T) {
	var buf bytes.Buffer
	r := &BarRenderer{out: &buf, width: 80}

	r.Handle(Event{Stage: StageDone, Message: "Comedy gold generated!"})
	r.Finish()
	buf.Reset()

	// A validation failure emits no events; Finish must stay silent.
	r.Finish()
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestTTYRendererDrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	r := &BarRenderer{out: &buf, isTTY: true, width: 100}

	r.Handle(Event{Stage: StageGenerating, Message: "Generating comedy script...", Percent: 0.5})
	out := buf.String()
	if !strings.HasPrefix(out, "\r\033[2K") || !strings.Contains(out, "(2/4)") || !strings.Contains(out, " 50%") {
		t.Errorf("Unexpected TTY line %q", out)
	}

	r.Finish()
	if !strings.HasSuffix(buf.String(), "\r\033[2K") {
		t.Errorf("Expected line cleared, got %q", buf.String())
	}
}
