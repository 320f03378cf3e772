package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/apresai/comedian/internal/app"
	"github.com/apresai/comedian/internal/config"
	"github.com/apresai/comedian/internal/observability"
	"github.com/apresai/comedian/internal/progress"
	"github.com/apresai/comedian/internal/script"
	"github.com/apresai/comedian/internal/tts"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "comedian",
	Short:         "Turn random thoughts into a stand-up comedy routine, spoken aloud",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("comedian %s\n", Version)
	},
}

var listVoicesCmd = &cobra.Command{
	Use:   "list-voices",
	Short: "List the voices offered by the TTS provider",
	RunE:  runListVoices,
}

var (
	flagModel     string
	flagTTS       string
	flagOutputDir string
	flagPrefs     string
	flagVerbose   bool
	flagJSONLogs  bool
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listVoicesCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagModel, "model", "m", "", "Script generation model: "+joinNames(script.ModelNames())+" (default gpt-4)")
	pf.StringVarP(&flagTTS, "tts", "T", "", "TTS provider: "+joinNames(tts.ProviderNames())+" (default elevenlabs)")
	pf.StringVarP(&flagOutputDir, "output-dir", "o", "", "Directory that holds one folder per routine (default comedy_output)")
	pf.StringVar(&flagPrefs, "prefs", "", "Preferences file (default comedian_preferences.json)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable detailed logging instead of the progress bar")
	pf.BoolVar(&flagJSONLogs, "json-logs", false, "Write logs as JSON lines")
}

// Execute runs the root command with ctx, which is cancelled on Ctrl-C.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
	}
	return err
}

// loadConfig applies command-line overrides on top of .env and the environment.
func loadConfig() config.Config {
	cfg := config.Load()
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagTTS != "" {
		cfg.TTS = flagTTS
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagPrefs != "" {
		cfg.PrefsFile = flagPrefs
	}
	return cfg
}

// newLogger keeps the terminal clean for the progress bar unless --verbose.
func newLogger() *slog.Logger {
	if !flagVerbose {
		return observability.InitLogger(io.Discard, observability.LogOptions{})
	}
	return observability.InitLogger(os.Stderr, observability.LogOptions{Verbose: true, JSON: flagJSONLogs})
}

// setup builds the application. The returned renderer is nil in verbose mode.
func setup(ctx context.Context) (*app.App, *progress.BarRenderer, error) {
	var (
		renderer   *progress.BarRenderer
		onProgress progress.Callback
	)
	if !flagVerbose {
		renderer = progress.NewBarRenderer(os.Stdout)
		onProgress = renderer.Handle
	}

	a, err := app.New(ctx, loadConfig(), newLogger(), onProgress)
	if err != nil {
		return nil, nil, err
	}
	return a, renderer, nil
}

func runListVoices(cmd *cobra.Command, args []string) error {
	a, _, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	current := a.Orchestrator.Preferences()
	selected, _ := a.Catalog.Resolve(current.VoiceID)
	def := a.Voice.DefaultVoice()

	fmt.Printf("\n  %s voices\n", a.Voice.Name())
	fmt.Printf("  %s\n", ruler(60))
	fmt.Printf("  %-24s %-24s %s\n", "ID", "NAME", "CATEGORY")
	for _, v := range a.Catalog.Voices() {
		marks := ""
		if v.ID == def.ID {
			marks += " (default)"
		}
		if v.ID == selected {
			marks += " (selected)"
		}
		fmt.Printf("  %-24s %-24s %s%s\n", v.ID, v.Name, v.Category, marks)
	}
	fmt.Println()
	return nil
}
