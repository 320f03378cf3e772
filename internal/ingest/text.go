package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileLoader reads thoughts from a plain text file.
type FileLoader struct{}

func (FileLoader) Load(_ context.Context, location string) (*Thoughts, error) {
	if err := checkFile(location); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return newThoughts(string(data), KindText, filepath.Base(location))
}
