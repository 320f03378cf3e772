package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apresai/comedian/internal/pipeline"
)

type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeWarning
	noticeFailure
)

// notice is the blocking message shown after each submission.
type notice struct {
	kind  noticeKind
	title string
	body  string
}

var noticeColors = map[noticeKind]lipgloss.Color{
	noticeSuccess: lipgloss.Color("#04B575"),
	noticeWarning: lipgloss.Color("#F4C542"),
	noticeFailure: lipgloss.Color("#FF5555"),
}

func successNotice(res *pipeline.Result) notice {
	body := fmt.Sprintf("Saved in folder: %s\nAudio: %s\nScript: %s\n\nPreview:\n%s",
		res.Folder, res.AudioPath, res.TranscriptPath, res.Preview)
	return notice{kind: noticeSuccess, title: "Comedy gold generated!", body: body}
}

func noticeFor(res *pipeline.Result, err error) notice {
	if err == nil {
		return successNotice(res)
	}

	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		return notice{kind: noticeWarning, title: "Warning", body: verr.Message}
	}

	var (
		rerr *pipeline.RemoteServiceError
		ferr *pipeline.FilesystemError
		body string
	)
	switch {
	case errors.As(err, &rerr):
		body = fmt.Sprintf("The %s service failed:\n%v", rerr.Service, rerr.Err)
	case errors.As(err, &ferr):
		body = fmt.Sprintf("Could not %s:\n%v", ferr.Op, ferr.Err)
	default:
		body = err.Error()
	}
	return notice{kind: noticeFailure, title: "An error occurred", body: body}
}

func renderNotice(n notice) string {
	color := noticeColors[n.kind]
	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(n.title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Width(72)
	return box.Render(title + "\n\n" + strings.TrimRight(n.body, "\n"))
}

// noticeModel shows a notice until the user dismisses it.
type noticeModel struct {
	n    notice
	quit bool
}

func (m noticeModel) Init() tea.Cmd { return nil }

func (m noticeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "esc", " ":
			return m, tea.Quit
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m noticeModel) View() string {
	return "\n" + renderNotice(m.n) + "\n" + helpStyle.Render("  enter to go back to the form | q to quit") + "\n"
}

// showNotice blocks until the notice is dismissed and reports whether the
// user asked to quit.
func showNotice(ctx context.Context, n notice) (quit bool, err error) {
	result, err := tea.NewProgram(noticeModel{n: n}, tea.WithContext(ctx)).Run()
	if err != nil {
		return true, fmt.Errorf("TUI error: %w", err)
	}
	return result.(noticeModel).quit, nil
}
