package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

// mainStreams names the stream holding document text for each legacy format.
var mainStreams = map[string]bool{
	"WordDocument":        true, // .doc
	"Workbook":            true, // .xls
	"Book":                true, // .xls (BIFF5)
	"PowerPoint Document": true, // .ppt
}

// minRun is the shortest character run kept from a binary stream.
const minRun = 4

// maxLetter bounds accepted letters to the Latin blocks; misaligned UTF-16
// pairs decode to CJK and other scripts.
const maxLetter = 0x024F

// LegacyExtractor pulls readable text out of OLE2 compound documents
// (.doc, .xls, .ppt) by harvesting UTF-16LE and ASCII runs from the main stream.
type LegacyExtractor struct {
	maxBytes int
}

func NewLegacyExtractor(maxBytes int) *LegacyExtractor {
	if maxBytes <= 0 {
		maxBytes = DefaultLimits().LegacyBytes
	}
	return &LegacyExtractor{maxBytes: maxBytes}
}

func (l *LegacyExtractor) Name() string { return "ole2" }

func (l *LegacyExtractor) Available() bool { return true }

func (l *LegacyExtractor) Extract(_ context.Context, path string) (Result, error) {
	start := time.Now()
	res := Result{Method: l.Name()}

	f, err := os.Open(path)
	if err != nil {
		return res, err
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return res, fmt.Errorf("read compound file: %w", err)
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if !mainStreams[entry.Name] {
			continue
		}
		buf := make([]byte, min(int(entry.Size), l.maxBytes))
		n, rerr := io.ReadFull(entry, buf)
		if rerr != nil && rerr != io.ErrUnexpectedEOF {
			return res, fmt.Errorf("read %s stream: %w", entry.Name, rerr)
		}
		res.Units = 1
		res.Text = harvestText(buf[:n])
		break
	}
	if res.Units == 0 {
		return res, fmt.Errorf("no document stream in %s", path)
	}
	res.Duration = time.Since(start)
	return res, nil
}

// harvestText keeps printable runs of at least minRun characters, read
// both as UTF-16LE and as single-byte text.
func harvestText(data []byte) string {
	var runs []string

	// records are not word aligned, so text may start at either parity
	for off := 0; off < 2; off++ {
		u := make([]uint16, 0, len(data)/2)
		for i := off; i+1 < len(data); i += 2 {
			u = append(u, uint16(data[i])|uint16(data[i+1])<<8)
		}
		runs = append(runs, printableRuns(utf16.Decode(u))...)
	}

	ascii := make([]rune, len(data))
	for i, c := range data {
		ascii[i] = rune(c)
	}
	runs = append(runs, printableRuns(ascii)...)

	return strings.Join(runs, " ")
}

func printableRuns(rs []rune) []string {
	var out []string
	var cur []rune
	emit := func() {
		if s := strings.TrimSpace(string(cur)); len([]rune(s)) >= minRun && hasLetter(s) {
			out = append(out, s)
		}
		cur = cur[:0]
	}
	for _, r := range rs {
		if r < 0x80 && (unicode.IsPrint(r) || r == '\t') || r >= 0xA0 && r <= maxLetter && unicode.IsLetter(r) {
			cur = append(cur, r)
			continue
		}
		emit()
	}
	emit()
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
