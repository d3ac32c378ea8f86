package extract

import (
	"context"
	"time"
)

// TextExtractor pulls a bounded text sample out of one document format.
type TextExtractor interface {
	// Name identifies the adapter in logs and results.
	Name() string
	// Available reports whether the adapter can run in this environment.
	Available() bool
	Extract(ctx context.Context, path string) (Result, error)
}

// Result is the text sample for one document.
type Result struct {
	Text     string
	Units    int    // pages, paragraphs, sheets or slides, depending on format
	Method   string // adapter name, plus "+pdftotext" when the fallback ran
	Duration time.Duration
	Warnings []string
}

// Limits caps how much of each document is inspected.
type Limits struct {
	PDFPages       int
	WordParagraphs int
	ExcelCells     int
	SlideCount     int
	LegacyBytes    int
}

// DefaultLimits matches the organizer defaults.
func DefaultLimits() Limits {
	return Limits{
		PDFPages:       2,
		WordParagraphs: 20,
		ExcelCells:     100,
		SlideCount:     3,
		LegacyBytes:    256 << 10,
	}
}
