package output

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultRoot is the directory that holds one folder per run.
	DefaultRoot = "comedy_output"

	TranscriptFile = "comedy_script.txt"
	AudioFile      = "comedy_audio.mp3"

	// fallbackName is used when a script yields an empty folder name.
	fallbackName = "untitled"
)

// Writer places run artifacts under a root directory.
type Writer struct {
	root string
}

func NewWriter(root string) *Writer {
	if root == "" {
		root = DefaultRoot
	}
	return &Writer{root: root}
}

func (w *Writer) Root() string { return w.root }

// EnsureRoot creates the root directory if it does not exist.
func (w *Writer) EnsureRoot() error {
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return fmt.Errorf("create output root %s: %w", w.root, err)
	}
	return nil
}

// CreateFolder creates (or reuses) the run folder named after script.
// Two scripts with the same derived name share a folder.
func (w *Writer) CreateFolder(script string) (string, error) {
	name := FolderName(script)
	if name == "" {
		name = fallbackName
	}
	dir := filepath.Join(w.root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output folder %s: %w", dir, err)
	}
	return dir, nil
}

// WriteTranscript writes script verbatim to the folder's transcript file.
func WriteTranscript(dir, script string) (string, error) {
	path := filepath.Join(dir, TranscriptFile)
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		return "", fmt.Errorf("write transcript %s: %w", path, err)
	}
	return path, nil
}

// CreateAudio opens the folder's audio file for writing, truncating any
// previous content. The caller closes it.
func CreateAudio(dir string) (*os.File, string, error) {
	path := filepath.Join(dir, AudioFile)
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("create audio file %s: %w", path, err)
	}
	return f, path, nil
}
