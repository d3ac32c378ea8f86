package extract

import (
	"archive/zip"
	"context"
	"fmt"
	"strings"
	"time"
)

// WordExtractor reads the first non-empty paragraphs of a .docx body.
type WordExtractor struct {
	maxParagraphs int
}

func NewWordExtractor(maxParagraphs int) *WordExtractor {
	if maxParagraphs <= 0 {
		maxParagraphs = DefaultLimits().WordParagraphs
	}
	return &WordExtractor{maxParagraphs: maxParagraphs}
}

func (w *WordExtractor) Name() string { return "docx" }

func (w *WordExtractor) Available() bool { return true }

func (w *WordExtractor) Extract(_ context.Context, path string) (Result, error) {
	start := time.Now()
	res := Result{Method: w.Name()}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return res, fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	rc, err := openPart(&zr.Reader, "word/document.xml")
	if err != nil {
		return res, err
	}
	defer rc.Close()

	// a damaged body still yields the paragraphs read before the fault
	paras, err := paragraphs(rc)
	if err != nil {
		if len(paras) == 0 {
			return res, err
		}
		res.Warnings = append(res.Warnings, err.Error())
	}
	res.Units = len(paras)

	var kept []string
	for _, p := range paras {
		if p == "" {
			continue
		}
		kept = append(kept, p)
		if len(kept) == w.maxParagraphs {
			break
		}
	}
	res.Text = strings.Join(kept, "\n")
	res.Duration = time.Since(start)
	return res, nil
}
