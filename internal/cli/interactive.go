package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// runInteractive loops form, run, notification until the user quits.
func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, renderer, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	current := a.Orchestrator.Preferences()
	voiceID, err := a.Catalog.Resolve(current.VoiceID)
	if err != nil {
		a.Log.Warn("Stored voice is no longer available, using the default", "voice_id", current.VoiceID)
		voiceID = a.Voice.DefaultVoice().ID
	}
	form := newFormModel(a.Catalog.Voices(), a.Voice.DefaultVoice(), current, voiceID)

	for {
		result, err := tea.NewProgram(form, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		form = result.(formModel)
		if form.cancelled || !form.submitted {
			return nil
		}

		res, runErr := a.Orchestrator.Submit(ctx, form.request())
		if renderer != nil {
			renderer.Finish()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		quit, err := showNotice(ctx, noticeFor(res, runErr))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		form = form.resume()
	}
}
