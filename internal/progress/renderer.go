package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// steps orders the stages a run passes through, for the "(n/4)" counter.
var steps = map[Stage]int{
	StageValidating:   1,
	StageGenerating:   2,
	StageCleaning:     3,
	StageSynthesizing: 4,
}

const totalSteps = 4

// BarRenderer keeps one status line updated in place on a TTY, or prints one
// timestamped line per event otherwise. Finish prints a summary and resets
// the renderer for the next run.
type BarRenderer struct {
	out   io.Writer
	isTTY bool
	width int

	start   time.Time
	active  Stage // last stage before done/aborted
	last    Event
	drawn   bool
	started bool
}

// NewBarRenderer creates a renderer for out, detecting TTY mode and width.
func NewBarRenderer(out *os.File) *BarRenderer {
	tty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())

	width := 80
	if tty {
		if w, _, err := term.GetSize(out.Fd()); err == nil && w > 0 {
			width = w
		}
	}
	return &BarRenderer{out: out, isTTY: tty, width: width}
}

// Handle satisfies Callback.
func (r *BarRenderer) Handle(e Event) {
	if !r.started {
		r.start = time.Now()
		r.started = true
	}
	e.Elapsed = time.Since(r.start)

	switch e.Stage {
	case StageDone:
		e.Percent = 1
	case StageAborted:
	default:
		r.active = e.Stage
	}
	r.last = e

	if r.isTTY {
		r.drawLine(e)
		return
	}
	fmt.Fprintf(r.out, "[%s] %-12s %s\n", formatElapsed(e.Elapsed), e.Stage, e.Message)
}

// Finish clears the status line and prints how the run ended.
func (r *BarRenderer) Finish() {
	if r.drawn {
		fmt.Fprint(r.out, "\r\033[2K")
	}

	e := r.last
	elapsed := formatElapsed(e.Elapsed)
	switch {
	case e.Stage == StageAborted || e.Error != nil:
		fmt.Fprintf(r.out, "  Aborted during %s after %s: %s\n", r.active, elapsed, e.Message)
	case e.Stage == StageDone && e.AudioBytes > 0:
		fmt.Fprintf(r.out, "  Saved to %s (%.1f MB audio, %s)\n", e.Folder, float64(e.AudioBytes)/(1024*1024), elapsed)
	case e.Stage == StageDone:
		fmt.Fprintf(r.out, "  %s (%s)\n", e.Message, elapsed)
	}

	*r = BarRenderer{out: r.out, isTTY: r.isTTY, width: r.width}
}

func (r *BarRenderer) drawLine(e Event) {
	step := ""
	if n, ok := steps[r.active]; ok && e.Stage != StageDone {
		step = fmt.Sprintf("(%d/%d) ", n, totalSteps)
	}
	suffix := fmt.Sprintf(" %3d%%  %s", int(clamp(e.Percent)*100), formatElapsed(e.Elapsed))
	prefix := "  " + step + e.Message + " "

	fmt.Fprint(r.out, "\r\033[2K"+prefix+renderBar(e.Percent, r.barWidth(len(prefix)+len(suffix)))+suffix)
	r.drawn = true
}

// barWidth fits the bar between the message and the percent column.
func (r *BarRenderer) barWidth(used int) int {
	w := r.width - used - 3
	if w < 10 {
		return 10
	}
	if w > 40 {
		return 40
	}
	return w
}

func clamp(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 1:
		return 1
	}
	return pct
}

// renderBar draws a [####....] bar of the given width.
func renderBar(pct float64, width int) string {
	filled := int(clamp(pct) * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// formatElapsed formats a duration as M:SS.
func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
