package extract

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/common"
)

// Registry dispatches extraction by file extension. It never fails: errors
// and unavailable adapters are logged and yield an empty sample.
type Registry struct {
	adapters map[string]TextExtractor
	fallback TextExtractor
	logger   *slog.Logger
}

// NewRegistry creates an empty registry whose unknown extensions map to Unsupported.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		adapters: make(map[string]TextExtractor),
		fallback: Unsupported{},
		logger:   logger,
	}
}

// NewDefaultRegistry wires every built-in adapter with the given limits.
// pdftotext is resolved on PATH; when missing the PDF fallback is off.
func NewDefaultRegistry(limits Limits, pdftotext string, runner Runner, logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(NewPDFExtractor(limits.PDFPages, LookPath(pdftotext), runner, r.logger), "pdf")
	r.Register(NewWordExtractor(limits.WordParagraphs), "docx")
	r.Register(NewExcelExtractor(limits.ExcelCells), "xlsx")
	r.Register(NewSlidesExtractor(limits.SlideCount), "pptx")
	r.Register(NewLegacyExtractor(limits.LegacyBytes), "doc", "xls", "ppt")
	r.Register(Unsupported{}, "zip", "rar", "7z")
	return r
}

// Register binds an adapter to one or more extensions (with or without dot).
func (r *Registry) Register(e TextExtractor, exts ...string) {
	for _, ext := range exts {
		r.adapters[constants.NormalizeExt(ext)] = e
	}
}

// For returns the adapter bound to path's extension.
func (r *Registry) For(path string) TextExtractor {
	if e, ok := r.adapters[constants.NormalizeExt(filepath.Ext(path))]; ok {
		return e
	}
	return r.fallback
}

// Extract returns the normalized lowercase sample for path.
func (r *Registry) Extract(ctx context.Context, path string) Result {
	start := time.Now()
	e := r.For(path)
	if !e.Available() {
		r.logger.Warn("extract.adapter.unavailable", "path", path, "adapter", e.Name())
		return Result{Method: e.Name()}
	}

	res, err := e.Extract(ctx, path)
	if errors.Is(err, common.ErrUnsupported) {
		r.logger.Debug("extract.unsupported", "path", path, "error", err)
		return Result{Method: res.Method, Duration: time.Since(start)}
	}
	if err != nil {
		r.logger.Warn("extract.failed",
			"path", path,
			"adapter", e.Name(),
			"error", err,
		)
		return Result{Method: res.Method, Units: res.Units, Warnings: append(res.Warnings, err.Error()), Duration: time.Since(start)}
	}

	res.Text = Normalize(res.Text)
	if res.Duration == 0 {
		res.Duration = time.Since(start)
	}
	r.logger.Debug("extract.ok",
		"path", path,
		"adapter", res.Method,
		"units", res.Units,
		"chars", len(res.Text),
	)
	return res
}
