package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apresai/comedian/internal/ingest"
	"github.com/apresai/comedian/internal/pipeline"
	"github.com/apresai/comedian/internal/script"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one routine without the interactive form",
	Example: `  comedian generate -t "My cat ignores me" --style sarcastic
  comedian generate -i notes.txt --voice Rachel --no-clean
  comedian generate -i https://example.com/rant --style topical`,
	RunE: runGenerate,
}

var (
	flagThoughts     string
	flagInput        string
	flagVoice        string
	flagStyle        string
	flagClean        bool
	flagNoClean      bool
	flagOutputFormat string
)

func init() {
	rootCmd.AddCommand(generateCmd)
	f := generateCmd.Flags()
	f.StringVarP(&flagThoughts, "thoughts", "t", "", "Your random thoughts")
	f.StringVarP(&flagInput, "input", "i", "", "Read thoughts from a text file, PDF, URL, or - for stdin")
	f.StringVar(&flagVoice, "voice", "", "Voice name or ID (default: last used)")
	f.StringVarP(&flagStyle, "style", "s", "", "Comedy style: "+joinNames(script.StyleNames())+" (default: last used)")
	f.BoolVar(&flagClean, "clean", false, "Strip stage directions and audience reactions")
	f.BoolVar(&flagNoClean, "no-clean", false, "Keep the script exactly as generated")
	f.StringVar(&flagOutputFormat, "output-format", "", "ElevenLabs output format, e.g. mp3_44100_128 (default: last used)")
	generateCmd.MarkFlagsMutuallyExclusive("thoughts", "input")
	generateCmd.MarkFlagsMutuallyExclusive("clean", "no-clean")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if flagStyle != "" && !script.IsValidStyle(flagStyle) {
		return fmt.Errorf("invalid style %q: must be one of %s", flagStyle, joinNames(script.StyleNames()))
	}

	thoughts, err := readThoughts(ctx, flagThoughts, flagInput)
	if err != nil {
		return err
	}

	a, renderer, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.Orchestrator.Preferences()
	if flagOutputFormat != "" {
		p.OutputFormat = flagOutputFormat
	}

	voice := p.VoiceID
	if flagVoice != "" {
		voice = flagVoice
	}
	voiceID, err := a.Catalog.Resolve(voice)
	if err != nil {
		return fmt.Errorf("%w (run 'comedian list-voices')", err)
	}

	style := flagStyle
	if style == "" {
		style = p.ComedyStyle
	}

	a.Log.Info("Generating routine", "voice", a.Catalog.NameFor(voiceID), "style", style, "model", a.Config.Model)

	clean := p.CleanScript
	switch {
	case flagClean:
		clean = true
	case flagNoClean:
		clean = false
	}

	_, res, err := a.Orchestrator.Run(ctx, p, pipeline.Request{
		Thoughts: thoughts,
		VoiceID:  voiceID,
		Style:    script.Style(style),
		Clean:    clean,
	})
	if renderer != nil {
		renderer.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Println(renderNotice(successNotice(res)))
	return nil
}

// readThoughts returns the text to submit. Blank text is rejected here, before
// setup fetches voices or creates the output root.
func readThoughts(ctx context.Context, text, input string) (string, error) {
	if input != "" {
		t, err := ingest.Load(ctx, input)
		if err != nil {
			return "", err
		}
		text = t.Text
	}
	if err := pipeline.ValidateThoughts(text); err != nil {
		return "", err
	}
	return text, nil
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

func ruler(n int) string {
	return strings.Repeat("─", n)
}
