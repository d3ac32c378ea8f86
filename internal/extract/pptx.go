package extract

import (
	"archive/zip"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SlidesExtractor reads the text frames of the first slides of a .pptx deck.
type SlidesExtractor struct {
	maxSlides int
}

func NewSlidesExtractor(maxSlides int) *SlidesExtractor {
	if maxSlides <= 0 {
		maxSlides = DefaultLimits().SlideCount
	}
	return &SlidesExtractor{maxSlides: maxSlides}
}

func (s *SlidesExtractor) Name() string { return "pptx" }

func (s *SlidesExtractor) Available() bool { return true }

func (s *SlidesExtractor) Extract(_ context.Context, path string) (Result, error) {
	start := time.Now()
	res := Result{Method: s.Name()}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return res, fmt.Errorf("open pptx: %w", err)
	}
	defer zr.Close()

	slides := slideParts(&zr.Reader)
	res.Units = len(slides)

	var b strings.Builder
	for i, name := range slides {
		if i == s.maxSlides {
			break
		}
		text, err := slideText(&zr.Reader, name)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
	}
	res.Text = b.String()
	res.Duration = time.Since(start)
	return res, nil
}

// slideParts lists ppt/slides/slideN.xml ordered by N.
func slideParts(zr *zip.Reader) []string {
	type part struct {
		name string
		n    int
	}
	var parts []part
	for _, f := range zr.File {
		rest, ok := strings.CutPrefix(f.Name, "ppt/slides/slide")
		if !ok {
			continue
		}
		num, ok := strings.CutSuffix(rest, ".xml")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		parts = append(parts, part{name: f.Name, n: n})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].n < parts[j].n })

	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.name
	}
	return names
}

func slideText(zr *zip.Reader, name string) (string, error) {
	rc, err := openPart(zr, name)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	paras, err := paragraphs(rc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	var kept []string
	for _, p := range paras {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n"), nil
}
