// Package pipeline walks an input tree and organizes every supported document:
// extract text, classify, name, copy, and record the result in the manifest.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/classify"
	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/entity"
	"github.com/capsresources/resource-organizer/internal/extract"
	"github.com/capsresources/resource-organizer/internal/organize"
)

// Extractor yields the text sample for a document. It never fails;
// *extract.Registry is the production implementation.
type Extractor interface {
	Extract(ctx context.Context, path string) extract.Result
}

// Processor runs one document through extract, classify, name and copy.
type Processor struct {
	logger        *slog.Logger
	extractor     Extractor
	classifier    *classify.Classifier
	organizedRoot string
	dryRun        bool
	planned       map[string]struct{}
}

func NewProcessor(logger *slog.Logger, extractor Extractor, classifier *classify.Classifier, organizedRoot string) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = classify.New(logger)
	}
	return &Processor{
		logger:        logger,
		extractor:     extractor,
		classifier:    classifier,
		organizedRoot: organizedRoot,
		planned:       make(map[string]struct{}),
	}
}

// SetDryRun makes ProcessFile compute target paths without copying.
// Planned paths still count as taken for later collisions.
func (p *Processor) SetDryRun(dryRun bool) {
	p.dryRun = dryRun
}

// ProcessFile organizes one file. A document with no grade is SKIPPED with a
// nil record and common.ErrNoGrade; any other failure is FAILED with the error.
func (p *Processor) ProcessFile(ctx context.Context, path string) (constants.Outcome, *entity.OrganizedRecord, error) {
	logger := common.LoggerFromContext(ctx, p.logger)

	info, err := os.Stat(path)
	if err != nil {
		return constants.OutcomeFailed, nil, common.WrapError(err, "stat source")
	}
	doc := entity.NewSourceDocument(path, info.Size())

	res := p.extractor.Extract(ctx, path)
	c := p.classifier.Classify(res.Text, doc.Filename)
	if !c.HasGrade() {
		logger.Warn("pipeline.file.skipped",
			"path", path,
			"error", common.ErrNoGrade,
			"method", res.Method,
			"chars", len(res.Text),
		)
		return constants.OutcomeSkipped, nil, common.ErrNoGrade
	}

	dir := organize.TargetDir(p.organizedRoot, c)
	target, err := organize.ResolveCollisionWith(dir, organize.Filename(c, doc.Extension), p.taken)
	if err != nil {
		return constants.OutcomeFailed, nil, common.WrapError(err, "resolve target")
	}

	if p.dryRun {
		p.planned[target] = struct{}{}
	} else if err := organize.CopyFile(path, target); err != nil {
		return constants.OutcomeFailed, nil, common.WrapError(err, "relocate")
	}

	rec := &entity.OrganizedRecord{
		OriginalPath: path,
		NewPath:      target,
		NewFilename:  filepath.Base(target),
		FileType:     string(constants.FileTypeOf(doc.Extension)),
		Grade:        string(c.Grade),
		Subject:      c.Subject,
		Type:         string(c.Type),
		Year:         c.Year,
		Pages:        res.Units,
		FileSize:     organize.HumanSize(doc.Size),
		Extension:    doc.Extension,
	}
	logger.Info("pipeline.file.organized",
		"path", path,
		"new_filename", rec.NewFilename,
		"grade", rec.Grade,
		"subject", rec.Subject,
		"type", rec.Type,
		"year", rec.Year,
		"pages", rec.Pages,
		"size", rec.FileSize,
		"dry_run", p.dryRun,
	)
	return constants.OutcomeOrganized, rec, nil
}

func (p *Processor) taken(path string) (bool, error) {
	if _, ok := p.planned[path]; ok {
		return true, nil
	}
	return organize.Exists(path)
}
