// Package manifest reads and writes the run manifest, the JSON array of
// organized records handed to catalog import.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/capsresources/resource-organizer/internal/entity"
)

// Encode writes records as an indented JSON array without HTML escaping.
// A nil slice is written as [].
func Encode(w io.Writer, records []entity.OrganizedRecord) error {
	if records == nil {
		records = []entity.OrganizedRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// Write replaces the manifest at path in one step: the array is written to a
// temporary file beside it and renamed into place.
func Write(path string, records []entity.OrganizedRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename manifest: %w", err)
	}
	return nil
}

// Entry is one decoded manifest element. Err is set when the element is
// missing a required field or cannot be decoded; Record is then partial.
type Entry struct {
	Index  int
	Record entity.OrganizedRecord
	Err    error
}

// Load reads the manifest at path and checks every element on its own, so
// one bad record does not hide the rest.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Decode(data)
}

// Decode parses a manifest document. Only a malformed top level is an error.
func Decode(data []byte) ([]Entry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("manifest is not a JSON array: %w", err)
	}

	entries := make([]Entry, len(raw))
	for i, msg := range raw {
		entries[i].Index = i
		if err := ValidateRecord(msg); err != nil {
			entries[i].Err = err
			continue
		}
		if err := json.Unmarshal(msg, &entries[i].Record); err != nil {
			entries[i].Err = fmt.Errorf("decode record %d: %w", i, err)
		}
	}
	return entries, nil
}

// Read loads the manifest and fails on the first invalid record.
func Read(path string) ([]entity.OrganizedRecord, error) {
	entries, err := Load(path)
	if err != nil {
		return nil, err
	}
	records := make([]entity.OrganizedRecord, 0, len(entries))
	for _, e := range entries {
		if e.Err != nil {
			return nil, fmt.Errorf("record %d: %w", e.Index, e.Err)
		}
		records = append(records, e.Record)
	}
	return records, nil
}
