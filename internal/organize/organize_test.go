package organize

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/entity"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Physical Sciences!!":   "physical-sciences",
		"  Life   Skills ":      "life-skills",
		"Mathematics":           "mathematics",
		"Business -- Studies":   "business-studies",
		"--Creative Arts (new)": "creative-arts-new",
		"":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestFilenameAndTargetDir(t *testing.T) {
	c := entity.Classification{
		Grade:   constants.Grade10,
		Subject: "Physical Sciences",
		Type:    constants.LessonPlans,
		Year:    "2023",
	}
	assert.Equal(t, "grade10-physical-sciences-lesson-plans-2023.pdf", Filename(c, ".pdf"))
	assert.Equal(t, filepath.Join("/out", "grade10", "Physical-Sciences"), TargetDir("/out", c))
}

func TestResolveCollision(t *testing.T) {
	dir := t.TempDir()
	name := "grade5-mathematics-worksheets-2022.pdf"

	got, err := ResolveCollision(dir, name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, name), got)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a"), 0o644))
	got, err = ResolveCollision(dir, name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "grade5-mathematics-worksheets-2022-1.pdf"), got)

	require.NoError(t, os.WriteFile(got, []byte("b"), 0o644))
	got, err = ResolveCollision(dir, name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "grade5-mathematics-worksheets-2022-2.pdf"), got)
}

func TestCopyFilePreservesSourceAndTimes(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "doc1.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4 body"), 0o640))
	mtime := time.Date(2022, 3, 14, 15, 9, 26, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	dst := filepath.Join(root, "out", "grade5", "Mathematics", "grade5-mathematics-worksheets-2022.pdf")
	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))

	_, err = os.Stat(src)
	require.NoError(t, err, "source must stay in place")

	// refuses to overwrite
	require.Error(t, CopyFile(src, dst))
	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "missing.pdf"), filepath.Join(dir, "out.pdf"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "out.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCollidingCopiesBothPresent(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.pdf")
	b := filepath.Join(root, "b.pdf")
	require.NoError(t, os.WriteFile(a, []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("second"), 0o644))

	dir := filepath.Join(root, "out")
	name := "grade5-mathematics-worksheets-2022.pdf"
	for _, src := range []string{a, b} {
		dst, err := ResolveCollision(dir, name)
		require.NoError(t, err)
		require.NoError(t, CopyFile(src, dst))
	}

	first, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "grade5-mathematics-worksheets-2022-1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(first))
	assert.Equal(t, "second", string(second))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0.0 B", HumanSize(0))
	assert.Equal(t, "512.0 B", HumanSize(512))
	assert.Equal(t, "1.5 KB", HumanSize(1536))
	assert.Equal(t, "2.0 MB", HumanSize(2<<20))
	assert.Equal(t, "3.0 GB", HumanSize(3<<30))
	assert.Equal(t, "1.0 TB", HumanSize(1<<40))
}
