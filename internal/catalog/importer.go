package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/entity"
	"github.com/capsresources/resource-organizer/internal/manifest"
)

// PriceFunc returns the catalog price for a grade.
type PriceFunc func(grade string) float64

// ImportResult is the outcome for one manifest record.
type ImportResult struct {
	Index    int
	FileName string
	Title    string
	Outcome  constants.ImportOutcome
	Err      error
}

// ImportStats summarizes one import run.
type ImportStats struct {
	RunID    string
	Imported int
	Skipped  int // duplicates already in the catalog
	Errors   int
	Total    int // products in the catalog after the run
	ByGrade  []entity.GradeCount
	Results  []ImportResult
}

// Importer turns manifest records into catalog products.
type Importer struct {
	repo   ProductRepository
	price  PriceFunc
	logger *slog.Logger
	now    func() time.Time
}

func NewImporter(repo ProductRepository, price PriceFunc, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if price == nil {
		price = common.DefaultConfig().Catalog.PriceFor
	}
	return &Importer{repo: repo, price: price, logger: logger, now: time.Now}
}

// Import inserts every valid record whose organized filename is not in the
// catalog yet. Per-record problems are counted; only the final catalog
// queries can fail the run.
func (im *Importer) Import(ctx context.Context, entries []manifest.Entry) (*ImportStats, error) {
	runID := common.RunIDFromContext(ctx)
	if runID == "" {
		runID = common.NewRunID()
		ctx = common.WithRunID(ctx, runID)
	}
	logger := common.LoggerFromContext(ctx, im.logger)
	stats := &ImportStats{RunID: runID}

	logger.Info("catalog.import.start", "records", len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		res := im.importOne(ctx, e)
		switch res.Outcome {
		case constants.ImportInserted:
			stats.Imported++
			logger.Info("catalog.import.inserted", "file_name", res.FileName, "title", res.Title)
		case constants.ImportDuplicate:
			stats.Skipped++
			logger.Info("catalog.import.duplicate", "file_name", res.FileName)
		default:
			stats.Errors++
			logger.Error("catalog.import.failed", "index", res.Index, "file_name", res.FileName, "error", res.Err)
		}
		stats.Results = append(stats.Results, res)
	}

	total, err := im.repo.Count(ctx)
	if err != nil {
		return stats, err
	}
	stats.Total = total
	if stats.ByGrade, err = im.repo.CountByGrade(ctx); err != nil {
		return stats, err
	}

	logger.Info("catalog.import.done",
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"total", stats.Total,
	)
	return stats, nil
}

func (im *Importer) importOne(ctx context.Context, e manifest.Entry) ImportResult {
	res := ImportResult{Index: e.Index, FileName: e.Record.NewFilename, Outcome: constants.ImportFailed}
	if e.Err != nil {
		res.Err = e.Err
		return res
	}
	if err := ValidateRecord(e.Record); err != nil {
		res.Err = err
		return res
	}

	exists, err := im.repo.ExistsByFileName(ctx, e.Record.NewFilename)
	if err != nil {
		res.Err = err
		return res
	}
	if exists {
		res.Outcome = constants.ImportDuplicate
		return res
	}

	p := NewProduct(e.Record, im.price(e.Record.Grade), im.now())
	if err := im.repo.Create(ctx, &p); err != nil {
		res.Err = err
		return res
	}
	res.Title = p.Title
	res.Outcome = constants.ImportInserted
	return res
}

// ValidateRecord checks the fields a product is built from.
func ValidateRecord(rec entity.OrganizedRecord) error {
	v := common.NewValidator()
	v.Field("new_filename", rec.NewFilename, common.Required, common.MaxLength(255)).
		Field("grade", rec.Grade, common.Required, common.OneOf("the grade levels", constants.IsValidGrade)).
		Field("subject", rec.Subject, common.Required).
		Field("type", rec.Type, common.Required, common.OneOf("the resource types", constants.IsValidResourceType)).
		Field("year", rec.Year, common.Year)
	return v.Error()
}

// NewProduct derives a catalog product from a manifest record.
func NewProduct(rec entity.OrganizedRecord, price float64, now time.Time) entity.Product {
	grade := constants.Grade(rec.Grade)
	rt := constants.ResourceType(rec.Type)
	return entity.Product{
		Title:       Title(grade, rec.Subject, rt, rec.Year),
		Description: Description(rec),
		Grade:       rec.Grade,
		Subject:     rec.Subject,
		Price:       price,
		FileName:    rec.NewFilename,
		FileSize:    rec.FileSize,
		Pages:       rec.Pages,
		Thumbnail:   Thumbnail(rec.Grade, rec.Subject),
		Category:    rec.Type,
		Tags:        []string{rec.Grade, rec.Subject, rec.Type, rec.Year, "CAPS", "South Africa"},
		Downloads:   0,
		IsActive:    true,
		CreatedAt:   now,
	}
}

// Title renders "Grade 5 Mathematics Worksheets (2022)".
func Title(grade constants.Grade, subject string, rt constants.ResourceType, year string) string {
	return fmt.Sprintf("%s %s %s (%s)", grade.DisplayName(), subject, rt.DisplayName(), year)
}

// Description is the catalog blurb for a record.
func Description(rec entity.OrganizedRecord) string {
	grade := constants.Grade(rec.Grade).DisplayName()
	var b strings.Builder
	fmt.Fprintf(&b, "Comprehensive %s for %s %s. ", strings.ReplaceAll(rec.Type, "-", " "), grade, rec.Subject)
	fmt.Fprintf(&b, "This %d-page resource provides quality educational content aligned with CAPS curriculum requirements. ", rec.Pages)
	fmt.Fprintf(&b, "Perfect for educators and parents supporting learners in %s.", rec.Subject)
	return b.String()
}

// Thumbnail is the image path shared by every product of a grade and subject.
func Thumbnail(grade, subject string) string {
	return fmt.Sprintf("/images/products/%s-%s.jpg", grade, strings.ReplaceAll(strings.ToLower(subject), " ", "-"))
}
