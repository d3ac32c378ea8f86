package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/entity"
	"github.com/capsresources/resource-organizer/internal/manifest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := common.DefaultConfig().Catalog
	cfg.DSN = filepath.Join(t.TempDir(), "db", "catalog.db")

	store, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Migrate(context.Background()))
	// idempotent
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func record(grade, subject, typ, year, name string) entity.OrganizedRecord {
	return entity.OrganizedRecord{
		OriginalPath: "/in/" + name,
		NewPath:      "/out/" + name,
		NewFilename:  name,
		FileType:     "pdf",
		Grade:        grade,
		Subject:      subject,
		Type:         typ,
		Year:         year,
		Pages:        4,
		FileSize:     "1.2 MB",
		Extension:    ".pdf",
	}
}

func entries(recs ...entity.OrganizedRecord) []manifest.Entry {
	out := make([]manifest.Entry, len(recs))
	for i, r := range recs {
		out[i] = manifest.Entry{Index: i, Record: r}
	}
	return out
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), common.CatalogConfig{Driver: "mongo"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestProductRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.HealthCheck(ctx, time.Second))
	assert.Equal(t, "sqlite3", store.Dialect())

	repo := NewProductRepository(store, nil)
	p := NewProduct(record("grade5", "Mathematics", "worksheets", "2022", "grade5-mathematics-worksheets-2022.pdf"), 49.99, time.Now())
	require.NoError(t, repo.Create(ctx, &p))

	ok, err := repo.ExistsByFileName(ctx, p.FileName)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByFileName(ctx, "missing.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByFileName(ctx, p.FileName)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Grade 5 Mathematics Worksheets (2022)", got.Title)
	assert.Equal(t, []string{"grade5", "Mathematics", "worksheets", "2022", "CAPS", "South Africa"}, got.Tags)
	assert.True(t, got.IsActive)
	assert.Equal(t, 4, got.Pages)

	_, err = repo.GetByFileName(ctx, "missing.pdf")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	dup := p
	dup.ID = uuid.Nil
	assert.Error(t, repo.Create(ctx, &dup), "file_name is unique")
}

func TestImporterSkipsDuplicatesAndInvalid(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repo := NewProductRepository(store, nil)
	cfg := common.DefaultConfig().Catalog
	im := NewImporter(repo, cfg.PriceFor, nil)

	bad := record("grade13", "Mathematics", "worksheets", "2022", "bad.pdf")
	list := entries(
		record("grade5", "Mathematics", "worksheets", "2022", "grade5-mathematics-worksheets-2022.pdf"),
		record("grade12", "Physical Sciences", "assessments", "2021", "grade12-physical-sciences-assessments-2021.pdf"),
		record("grade5", "Mathematics", "worksheets", "2022", "grade5-mathematics-worksheets-2022.pdf"),
		bad,
	)
	list = append(list, manifest.Entry{Index: 4, Err: common.ErrValidation})

	stats, err := im.Import(ctx, list)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 2, stats.Errors)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, []entity.GradeCount{{Grade: "grade5", Count: 1}, {Grade: "grade12", Count: 1}}, stats.ByGrade)
	require.Len(t, stats.Results, 5)
	assert.Equal(t, constants.ImportDuplicate, stats.Results[2].Outcome)
	assert.Equal(t, constants.ImportFailed, stats.Results[3].Outcome)
	assert.True(t, common.IsValidationError(stats.Results[3].Err))

	got, err := repo.GetByFileName(ctx, "grade12-physical-sciences-assessments-2021.pdf")
	require.NoError(t, err)
	assert.Equal(t, 89.99, got.Price)
	assert.Equal(t, "/images/products/grade12-physical-sciences.jpg", got.Thumbnail)
	assert.Equal(t, "assessments", got.Category)

	// a second import of the same manifest only finds duplicates
	stats, err = im.Import(ctx, list[:3])
	require.NoError(t, err)
	assert.Zero(t, stats.Imported)
	assert.Equal(t, 3, stats.Skipped)
}

func TestTitleAndDescription(t *testing.T) {
	assert.Equal(t, "Reception Life Skills Lesson Plans (2024)", Title(constants.Reception, "Life Skills", constants.LessonPlans, "2024"))
	assert.Equal(t, "Grade 10 Accounting Study Guides (2023)", Title(constants.Grade10, "Accounting", constants.StudyGuides, "2023"))

	rec := record("grade5", "Mathematics", "lesson-plans", "2022", "x.pdf")
	assert.Equal(t,
		"Comprehensive lesson plans for Grade 5 Mathematics. "+
			"This 4-page resource provides quality educational content aligned with CAPS curriculum requirements. "+
			"Perfect for educators and parents supporting learners in Mathematics.",
		Description(rec))
}

func TestNewProductUsesPriceAndDefaults(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cfg := common.DefaultConfig().Catalog
	p := NewProduct(record("preschool", "Creative Arts", "activities", "2020", "p.pdf"), cfg.PriceFor("preschool"), now)

	assert.Equal(t, 29.99, p.Price)
	assert.Equal(t, "Preschool Creative Arts Activities (2020)", p.Title)
	assert.Equal(t, "/images/products/preschool-creative-arts.jpg", p.Thumbnail)
	assert.Equal(t, now, p.CreatedAt)
	assert.True(t, p.IsActive)
	assert.Zero(t, p.Downloads)
	assert.Equal(t, 49.99, cfg.PriceFor("unknown"))
}
