package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apresai/comedian/internal/pipeline"
	"github.com/apresai/comedian/internal/prefs"
	"github.com/apresai/comedian/internal/script"
	"github.com/apresai/comedian/internal/tts"
)

// menuItem represents a single field of the form.
type menuItem struct {
	label    string
	value    string
	options  []menuOption
	required bool
	editing  bool
	cursor   int // cursor within options when editing
}

type menuOption struct {
	label string
	value string
}

// menuState tracks which phase the form is in.
type menuState int

const (
	stateMenu menuState = iota
	stateEditing
)

const (
	idxThoughts = iota
	idxVoice
	idxStyle
	idxClean
	idxGenerate
)

const thoughtsPreviewRunes = 60

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)

	menuLabelStyle = lipgloss.NewStyle().
			Width(16).
			Align(lipgloss.Right).
			MarginRight(2)

	menuValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	menuValueDimStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#555555")).
				Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	requiredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	selectedOptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#04B575")).
				Bold(true).
				PaddingLeft(2)

	thoughtsBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#7D56F4")).
				Padding(0, 1).
				Width(64)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 3)

	buttonDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Padding(0, 3)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	headerBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#7D56F4")).
			MarginBottom(1).
			PaddingBottom(0)
)

var styleLabels = map[script.Style]string{
	script.StyleObservational:   "Observational - everyday situations",
	script.StyleSarcastic:       "Sarcastic - witty, full of sass",
	script.StyleAbsurdist:       "Absurdist - the weirder the better",
	script.StyleSelfDeprecating: "Self-deprecating - relatable, endearing",
	script.StyleTopical:         "Topical - current events, pop culture",
}

// formModel is the Bubble Tea model for the thoughts form.
type formModel struct {
	items     []menuItem
	cursor    int
	state     menuState
	submitted bool
	cancelled bool
}

func voiceOptions(voices []tts.Voice, fallback tts.Voice) []menuOption {
	opts := make([]menuOption, 0, len(voices)+1)
	seenFallback := false
	for _, v := range voices {
		label := v.Name
		if v.Category != "" {
			label += " (" + v.Category + ")"
		}
		if v.ID == fallback.ID {
			label += " (default)"
			seenFallback = true
		}
		opts = append(opts, menuOption{label: label, value: v.ID})
	}
	if !seenFallback && fallback.ID != "" {
		opts = append([]menuOption{{label: fallback.Name + " (default)", value: fallback.ID}}, opts...)
	}
	return opts
}

func styleOptions() []menuOption {
	opts := make([]menuOption, 0, len(script.Styles()))
	for _, s := range script.Styles() {
		opts = append(opts, menuOption{label: styleLabels[s], value: string(s)})
	}
	return opts
}

// newFormModel builds the form preselected from the stored preferences.
// voiceID must already be resolved against the catalog.
func newFormModel(voices []tts.Voice, fallback tts.Voice, current prefs.Preferences, voiceID string) formModel {
	style := current.ComedyStyle
	if !script.IsValidStyle(style) {
		style = string(script.StyleObservational)
	}

	items := []menuItem{
		{label: "Your thoughts", required: true},
		{label: "Voice", value: voiceID, options: voiceOptions(voices, fallback)},
		{label: "Comedy style", value: style, options: styleOptions()},
		{label: "Clean script", value: formatBool(current.CleanScript)},
		{label: ">>> Generate <<<"},
	}

	for i := range items {
		for j, opt := range items[i].options {
			if opt.value == items[i].value {
				items[i].cursor = j
				break
			}
		}
	}

	return formModel{items: items, cursor: idxThoughts, state: stateMenu}
}

// resume returns the form as it should reappear after a submission.
func (m formModel) resume() formModel {
	m.submitted = false
	m.state = stateMenu
	return m
}

// request converts the form values into a pipeline submission.
func (m formModel) request() pipeline.Request {
	return pipeline.Request{
		Thoughts: m.items[idxThoughts].value,
		VoiceID:  m.items[idxVoice].value,
		Style:    script.Style(m.items[idxStyle].value),
		Clean:    m.items[idxClean].value == "true",
	}
}

func (m formModel) Init() tea.Cmd {
	return nil
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.state == stateEditing {
		return m.updateEditing(key)
	}
	return m.updateMenu(key)
}

func (m formModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.cancelled = true
		return m, tea.Quit

	case "up", "k", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j", "tab":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "enter", " ":
		switch m.cursor {
		case idxGenerate:
			m.submitted = true
			return m, tea.Quit
		case idxClean:
			m.items[idxClean].value = formatBool(m.items[idxClean].value != "true")
			return m, nil
		}
		if m.cursor == idxThoughts || len(m.items[m.cursor].options) > 0 {
			m.state = stateEditing
			m.items[m.cursor].editing = true
		}
	}
	return m, nil
}

func (m formModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := m.cursor
	item := &m.items[idx]

	if idx == idxThoughts {
		switch msg.String() {
		case "enter", "esc":
			item.editing = false
			m.state = stateMenu
			if msg.String() == "enter" {
				m.cursor++
			}
		case "ctrl+j", "alt+enter":
			item.value += "\n"
		case "backspace":
			if r := []rune(item.value); len(r) > 0 {
				item.value = string(r[:len(r)-1])
			}
		case "ctrl+u":
			item.value = ""
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		default:
			// Accept typed characters and pasted text
			switch msg.Type {
			case tea.KeyRunes:
				item.value += string(msg.Runes)
			case tea.KeySpace:
				item.value += " "
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "enter", " ":
		if item.cursor >= 0 && item.cursor < len(item.options) {
			item.value = item.options[item.cursor].value
		}
		item.editing = false
		m.state = stateMenu
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "esc":
		item.editing = false
		m.state = stateMenu

	case "up", "k":
		if item.cursor > 0 {
			item.cursor--
		}

	case "down", "j":
		if item.cursor < len(item.options)-1 {
			item.cursor++
		}

	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m formModel) View() string {
	var b strings.Builder

	b.WriteString(headerBorder.Render(titleStyle.Render("Comedian")))
	b.WriteString("\n")

	for i, item := range m.items {
		isActive := m.cursor == i

		if i == idxGenerate {
			b.WriteString("\n")
			if isActive {
				b.WriteString("  " + buttonStyle.Render(" Generate "))
			} else {
				b.WriteString("  " + buttonDimStyle.Render(" Generate "))
			}
			b.WriteString("\n")
			continue
		}

		cursor := "  "
		if isActive {
			cursor = cursorStyle.Render("> ")
		}

		label := item.label
		if item.required {
			label += requiredStyle.Render("*")
		}

		b.WriteString(cursor + menuLabelStyle.Render(label) + " " + m.renderValue(i) + "\n")

		if i == idxThoughts && item.editing {
			b.WriteString(thoughtsBoxStyle.Render(item.value+"_") + "\n")
		}

		if item.editing && len(item.options) > 0 {
			for j, opt := range item.options {
				if j == item.cursor {
					b.WriteString(selectedOptionStyle.Render("> "+opt.label) + "\n")
				} else {
					b.WriteString(optionStyle.Render("  "+opt.label) + "\n")
				}
			}
		}
	}

	switch {
	case m.state == stateEditing && m.cursor == idxThoughts:
		b.WriteString(helpStyle.Render("  type your thoughts | ctrl+j for a new line | enter to confirm | ctrl+u to clear"))
	case m.state == stateEditing:
		b.WriteString(helpStyle.Render("  j/k or arrows to pick | enter to select | esc to cancel"))
	default:
		b.WriteString(helpStyle.Render("  j/k or arrows to navigate | enter to edit or toggle | q to quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m formModel) renderValue(i int) string {
	item := m.items[i]
	switch {
	case i == idxThoughts && item.editing:
		return menuValueDimStyle.Render("(editing below)")
	case i == idxThoughts && strings.TrimSpace(item.value) == "":
		return menuValueDimStyle.Render("(what's on your mind?)")
	case i == idxThoughts:
		return menuValueStyle.Render(previewThoughts(item.value))
	case i == idxClean:
		if item.value == "true" {
			return menuValueStyle.Render("Yes - strip stage directions")
		}
		return menuValueStyle.Render("No - keep the script as written")
	}

	for _, opt := range item.options {
		if opt.value == item.value {
			return menuValueStyle.Render(opt.label)
		}
	}
	if item.value == "" {
		return menuValueDimStyle.Render("(not set)")
	}
	return menuValueStyle.Render(item.value)
}

func previewThoughts(s string) string {
	flat := strings.Join(strings.Fields(s), " ")
	r := []rune(flat)
	if len(r) > thoughtsPreviewRunes {
		return string(r[:thoughtsPreviewRunes]) + "..."
	}
	return flat
}

func formatBool(b bool) string {
	return fmt.Sprintf("%t", b)
}
