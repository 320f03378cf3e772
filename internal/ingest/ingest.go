// Package ingest reads a user's thoughts from somewhere other than the
// command line: a text file, a PDF, a web page, or standard input.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type Kind string

const (
	KindText  Kind = "text"
	KindPDF   Kind = "pdf"
	KindURL   Kind = "url"
	KindStdin Kind = "stdin"

	// maxInputSize caps how much is read from any single source (5 MB).
	maxInputSize = 5 * 1024 * 1024
)

// ErrNoText is returned when a source yields only whitespace.
var ErrNoText = errors.New("no text found")

// Thoughts is the text pulled from a source, ready to hand to the pipeline.
type Thoughts struct {
	Text   string
	Kind   Kind
	Origin string
	Words  int
}

// Loader reads thoughts from one kind of location.
type Loader interface {
	Load(ctx context.Context, location string) (*Thoughts, error)
}

// KindOf guesses the kind of location from its shape.
func KindOf(location string) Kind {
	switch {
	case location == "-":
		return KindStdin
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return KindURL
	case strings.HasSuffix(strings.ToLower(location), ".pdf"):
		return KindPDF
	default:
		return KindText
	}
}

// Load reads thoughts from location using the loader for its kind.
func Load(ctx context.Context, location string) (*Thoughts, error) {
	return LoaderFor(KindOf(location)).Load(ctx, location)
}

func LoaderFor(kind Kind) Loader {
	switch kind {
	case KindURL:
		return &WebLoader{}
	case KindPDF:
		return &PDFLoader{}
	case KindStdin:
		return &StreamLoader{R: os.Stdin}
	default:
		return &FileLoader{}
	}
}

// StreamLoader reads thoughts from an already open reader.
type StreamLoader struct {
	R io.Reader
}

func (s *StreamLoader) Load(_ context.Context, location string) (*Thoughts, error) {
	data, err := io.ReadAll(io.LimitReader(s.R, maxInputSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return newThoughts(string(data), KindStdin, "stdin")
}

func newThoughts(text string, kind Kind, origin string) (*Thoughts, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%s: %w", origin, ErrNoText)
	}
	return &Thoughts{
		Text:   text,
		Kind:   kind,
		Origin: origin,
		Words:  len(strings.Fields(text)),
	}, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() > maxInputSize {
		return fmt.Errorf("%s is too large (%d bytes, max %d)", path, info.Size(), maxInputSize)
	}
	return nil
}
