package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFLoader extracts plain text from every readable page of a PDF.
type PDFLoader struct{}

func (PDFLoader) Load(ctx context.Context, location string) (*Thoughts, error) {
	if err := checkFile(location); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open PDF %s: %w", location, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	t, err := newThoughts(sb.String(), KindPDF, filepath.Base(location))
	if err != nil {
		return nil, fmt.Errorf("%w (scanned or image-only PDF?)", err)
	}
	return t, nil
}
