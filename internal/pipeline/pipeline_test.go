package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/classify"
	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/extract"
	"github.com/capsresources/resource-organizer/internal/manifest"
)

// textByName returns canned text keyed by base filename.
type textByName map[string]string

func (textByName) Name() string    { return "stub" }
func (textByName) Available() bool { return true }
func (s textByName) Extract(_ context.Context, path string) (extract.Result, error) {
	return extract.Result{Text: s[filepath.Base(path)], Units: 1, Method: "stub"}, nil
}

type fixture struct {
	in, out, manifest string
}

func newFixture(t *testing.T, files ...string) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		in:  filepath.Join(root, "resources"),
		out: filepath.Join(root, "organized"),
	}
	f.manifest = filepath.Join(f.out, constants.ManifestFilename)
	for _, name := range files {
		p := filepath.Join(f.in, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("content of "+name), 0o644))
	}
	return f
}

func (f fixture) batch(texts textByName, mutate func(*BatchConfig)) *Batch {
	reg := extract.NewRegistry(nil)
	reg.Register(texts, constants.DefaultExtensions...)
	cfg := BatchConfig{
		InputRoot:     f.in,
		OrganizedRoot: f.out,
		ManifestPath:  f.manifest,
		SkipHidden:    true,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewBatch(cfg, NewProcessor(nil, reg, classify.New(nil), f.out), nil)
}

func TestRunOrganizesEndToEnd(t *testing.T) {
	f := newFixture(t, "doc1.pdf")
	res, err := f.batch(textByName{"doc1.pdf": "Grade 5 Mathematics Worksheet 2022"}, nil).Run(context.Background())
	require.NoError(t, err)

	want := filepath.Join(f.out, "grade5", "Mathematics", "grade5-mathematics-worksheets-2022.pdf")
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "content of doc1.pdf", string(data))
	_, err = os.Stat(filepath.Join(f.in, "doc1.pdf"))
	require.NoError(t, err)

	assert.Equal(t, f.manifest, res.ManifestPath)
	records, err := manifest.Read(f.manifest)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "grade5", rec.Grade)
	assert.Equal(t, "Mathematics", rec.Subject)
	assert.Equal(t, "worksheets", rec.Type)
	assert.Equal(t, "2022", rec.Year)
	assert.Equal(t, want, rec.NewPath)
	assert.Equal(t, "grade5-mathematics-worksheets-2022.pdf", rec.NewFilename)
	assert.Equal(t, "pdf", rec.FileType)
	assert.Equal(t, ".pdf", rec.Extension)
	assert.Equal(t, 1, rec.Pages)
	assert.Equal(t, "19.0 B", rec.FileSize)

	assert.Equal(t, 1, res.Stats.Organized)
	assert.Equal(t, 1, res.Stats.Processed())
	assert.Equal(t, int64(19), res.Stats.Bytes)
	assert.Equal(t, map[constants.Grade]map[string]int{constants.Grade5: {"Mathematics": 1}}, res.Stats.Breakdown)
	assert.Len(t, res.Stats.RunID, 26)
}

func TestRunSkipsDocumentsWithoutGrade(t *testing.T) {
	f := newFixture(t, "doc1.pdf", "scan0001.pdf")
	res, err := f.batch(textByName{"doc1.pdf": "Grade 5 Mathematics Worksheet 2022"}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.Organized)
	assert.Equal(t, 1, res.Stats.Skipped)
	assert.Zero(t, res.Stats.Failed)
	assert.Equal(t, []string{filepath.Join(f.in, "scan0001.pdf")}, res.Stats.Skips)

	records, err := manifest.Read(f.manifest)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(f.in, "doc1.pdf"), records[0].OriginalPath)
}

func TestRunResolvesCollisionsInDiscoveryOrder(t *testing.T) {
	f := newFixture(t, "a/doc1.pdf", "b/doc2.pdf")
	texts := textByName{
		"doc1.pdf": "Grade 5 Mathematics Worksheet 2022",
		"doc2.pdf": "grade 5 maths worksheet 2022",
	}
	res, err := f.batch(texts, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, "grade5-mathematics-worksheets-2022.pdf", res.Records[0].NewFilename)
	assert.Equal(t, "grade5-mathematics-worksheets-2022-1.pdf", res.Records[1].NewFilename)
	for _, rec := range res.Records {
		_, err := os.Stat(rec.NewPath)
		assert.NoError(t, err)
	}
	assert.Equal(t, 2, res.Stats.Breakdown[constants.Grade5]["Mathematics"])
}

func TestRunMissingInputRootIsFatal(t *testing.T) {
	f := newFixture(t)
	res, err := f.batch(textByName{}, nil).Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsInputRootMissing(err))
	assert.Equal(t, "INPUT_ROOT_MISSING", common.CodeOf(err))

	_, statErr := os.Stat(f.manifest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunFiltersWalk(t *testing.T) {
	f := newFixture(t,
		"grade3-notes.txt",
		".hidden/grade3 worksheet.pdf",
		".grade3.pdf",
		"drafts/grade3 draft.pdf",
		"bundle grade 4.zip",
		"keep/grade 6 english.docx",
	)
	res, err := f.batch(textByName{}, func(c *BatchConfig) {
		c.Exclude = []string{"drafts/**"}
	}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Matched)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "grade4-general-worksheets-2024.zip", res.Records[0].NewFilename)
	assert.Equal(t, "archive", res.Records[0].FileType)
	assert.Equal(t, "grade6-english-worksheets-2024.docx", res.Records[1].NewFilename)
	assert.Equal(t, "word", res.Records[1].FileType)
}

func TestRunSkipsOrganizedRootInsideInput(t *testing.T) {
	f := newFixture(t, "doc1.pdf")
	f.out = filepath.Join(f.in, "zz-organized")
	f.manifest = filepath.Join(f.out, constants.ManifestFilename)
	// a leftover from a previous run must not be picked up again
	prev := filepath.Join(f.out, "grade5", "Mathematics", "grade5-mathematics-worksheets-2022.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(prev), 0o755))
	require.NoError(t, os.WriteFile(prev, []byte("old"), 0o644))

	res, err := f.batch(textByName{"doc1.pdf": "Grade 5 Mathematics Worksheet 2022"}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Matched)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "grade5-mathematics-worksheets-2022-1.pdf", res.Records[0].NewFilename)
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	f := newFixture(t, "doc1.pdf", "doc2.pdf")
	texts := textByName{
		"doc1.pdf": "Grade 5 Mathematics Worksheet 2022",
		"doc2.pdf": "Grade 5 Mathematics Worksheet 2022",
	}
	res, err := f.batch(texts, func(c *BatchConfig) { c.DryRun = true }).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "grade5-mathematics-worksheets-2022-1.pdf", res.Records[1].NewFilename)
	assert.Empty(t, res.ManifestPath)
	_, statErr := os.Stat(f.out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCountsRelocationFailures(t *testing.T) {
	f := newFixture(t, "doc1.pdf", "doc2.pdf")
	// a file where the grade directory should be makes the copy fail
	require.NoError(t, os.MkdirAll(f.out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.out, "grade5"), []byte("blocker"), 0o644))

	texts := textByName{
		"doc1.pdf": "Grade 5 Mathematics Worksheet 2022",
		"doc2.pdf": "Grade 7 English Test 2021",
	}
	res, err := f.batch(texts, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.Failed)
	assert.Equal(t, 1, res.Stats.Organized)
	require.Len(t, res.Stats.Failures, 1)
	assert.Equal(t, filepath.Join(f.in, "doc1.pdf"), res.Stats.Failures[0].Path)

	records, err := manifest.Read(f.manifest)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "grade7-english-assessments-2021.pdf", records[0].NewFilename)
}

func TestRunHonoursCancellation(t *testing.T) {
	f := newFixture(t, "doc1.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.batch(textByName{"doc1.pdf": "grade 5"}, nil).Run(ctx)
	require.Error(t, err)
	_, statErr := os.Stat(f.manifest)
	assert.True(t, os.IsNotExist(statErr))
}

func writeOnePagePDF(t *testing.T, path, ops string) {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(ops), ops),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func TestRunOrganizesRealPDF(t *testing.T) {
	f := newFixture(t)
	writeOnePagePDF(t, filepath.Join(f.in, "plain.pdf"),
		"BT\n/F1 12 Tf\n72 720 Td\n(Grade 5 Mathematics Worksheet 2022) Tj\nET")
	writeOnePagePDF(t, filepath.Join(f.in, "kerned.pdf"),
		"BT\n/F1 12 Tf\n72 720 Td\n[(Grade) -250 (5 Mathematics Worksheet 2022)] TJ\nET")

	reg := extract.NewDefaultRegistry(extract.DefaultLimits(), "", nil, nil)
	cfg := BatchConfig{InputRoot: f.in, OrganizedRoot: f.out, ManifestPath: f.manifest}
	res, err := NewBatch(cfg, NewProcessor(nil, reg, classify.New(nil), f.out), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Organized)
	assert.Zero(t, res.Stats.Skipped)
	dir := filepath.Join(f.out, "grade5", "Mathematics")
	// kerned.pdf is walked first
	assert.FileExists(t, filepath.Join(dir, "grade5-mathematics-worksheets-2022.pdf"))
	assert.FileExists(t, filepath.Join(dir, "grade5-mathematics-worksheets-2022-1.pdf"))
	for _, rec := range res.Records {
		assert.Equal(t, 1, rec.Pages)
		assert.Equal(t, "pdf", rec.FileType)
	}
}

func TestProcessFileOutcomes(t *testing.T) {
	f := newFixture(t, "scan0001.pdf", "doc1.pdf")
	reg := extract.NewRegistry(nil)
	reg.Register(textByName{"doc1.pdf": "Grade 2 English"}, "pdf")
	p := NewProcessor(nil, reg, classify.New(nil), f.out)
	ctx := context.Background()

	outcome, rec, err := p.ProcessFile(ctx, filepath.Join(f.in, "scan0001.pdf"))
	assert.Equal(t, constants.OutcomeSkipped, outcome)
	assert.Nil(t, rec)
	assert.True(t, errors.Is(err, common.ErrNoGrade))

	outcome, _, err = p.ProcessFile(ctx, filepath.Join(f.in, "gone.pdf"))
	assert.Equal(t, constants.OutcomeFailed, outcome)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	outcome, rec, err = p.ProcessFile(ctx, filepath.Join(f.in, "doc1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, constants.OutcomeOrganized, outcome)
	assert.Equal(t, "grade2-english-worksheets-2024.pdf", rec.NewFilename)
}
