package manifest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capsresources/resource-organizer/internal/common"
	"github.com/capsresources/resource-organizer/internal/entity"
)

func sampleRecord() entity.OrganizedRecord {
	return entity.OrganizedRecord{
		OriginalPath: "/in/doc1.pdf",
		NewPath:      "/out/grade5/Mathematics/grade5-mathematics-worksheets-2022.pdf",
		NewFilename:  "grade5-mathematics-worksheets-2022.pdf",
		FileType:     "pdf",
		Grade:        "grade5",
		Subject:      "Mathematics",
		Type:         "worksheets",
		Year:         "2022",
		Pages:        3,
		FileSize:     "1.5 KB",
		Extension:    ".pdf",
	}
}

func TestEncodeLayout(t *testing.T) {
	var buf bytes.Buffer
	rec := sampleRecord()
	rec.Subject = "Life Skills & More"
	require.NoError(t, Encode(&buf, []entity.OrganizedRecord{rec}))

	out := buf.String()
	assert.Contains(t, out, "[\n  {\n    \"original_path\": \"/in/doc1.pdf\",")
	assert.Contains(t, out, `"subject": "Life Skills & More"`)
	assert.Contains(t, out, `"pages": 3`)

	buf.Reset()
	require.NoError(t, Encode(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "organized", "_organization_results.json")
	second := sampleRecord()
	second.NewFilename = "grade5-mathematics-worksheets-2022-1.pdf"
	want := []entity.OrganizedRecord{sampleRecord(), second}

	require.NoError(t, Write(path, want))
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".manifest-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDecodeFlagsMissingFields(t *testing.T) {
	doc := []byte(`[
  {"new_filename": "a.pdf", "grade": "grade1", "subject": "English", "type": "worksheets", "year": "2024", "pages": 1},
  {"new_filename": "b.pdf", "subject": "English", "type": "worksheets", "year": "2024"},
  "not an object"
]`)
	entries, err := Decode(doc)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.NoError(t, entries[0].Err)
	assert.Equal(t, "grade1", entries[0].Record.Grade)

	require.Error(t, entries[1].Err)
	assert.True(t, errors.Is(entries[1].Err, common.ErrValidation))
	assert.Equal(t, 1, entries[1].Index)

	assert.Error(t, entries[2].Err)
}

func TestDecodeRejectsNonArray(t *testing.T) {
	_, err := Decode([]byte(`{"grade": "grade1"}`))
	assert.Error(t, err)
}

func TestReadFailsOnInvalidRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"grade": "grade1"}]`), 0o644))
	_, err := Read(path)
	assert.Error(t, err)

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
