package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/capsresources/resource-organizer/internal/common"
)

// PDFExtractor reads the text operators of the first pages with pdfcpu.
// When pdfcpu yields nothing and a pdftotext binary is configured, the
// same pages are run through pdftotext instead.
type PDFExtractor struct {
	maxPages  int
	pdftotext string
	runner    Runner
	logger    *slog.Logger
}

// NewPDFExtractor creates a PDF adapter. An empty pdftotext disables the fallback.
func NewPDFExtractor(maxPages int, pdftotext string, runner Runner, logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if maxPages <= 0 {
		maxPages = DefaultLimits().PDFPages
	}
	return &PDFExtractor{maxPages: maxPages, pdftotext: pdftotext, runner: runner, logger: logger}
}

func (p *PDFExtractor) Name() string { return "pdf" }

func (p *PDFExtractor) Available() bool { return true }

func (p *PDFExtractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	res := Result{Method: p.Name()}

	text, pages, err := p.readPages(path)
	res.Units = pages
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}

	if strings.TrimSpace(text) == "" && p.pdftotext != "" {
		out, n, ferr := p.runPdftotext(ctx, path)
		if ferr == nil {
			text = out
			err = nil
			res.Method += "+pdftotext"
			if res.Units == 0 {
				res.Units = n
			}
		} else {
			res.Warnings = append(res.Warnings, ferr.Error())
			if err == nil {
				err = ferr
			}
		}
	}

	res.Text = text
	res.Duration = time.Since(start)
	p.logger.Debug("pdf extraction finished",
		"path", path,
		"method", res.Method,
		"pages", res.Units,
		"chars", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, err
}

// readPages returns text from the first maxPages pages and the total page count.
func (p *PDFExtractor) readPages(path string) (text string, pages int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	// pdfcpu can panic on malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdfcpu panic: %v", common.ErrInternal, r)
		}
	}()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return "", 0, fmt.Errorf("pdfcpu read: %w", err)
	}

	var b strings.Builder
	for pageNr := 1; pageNr <= pdfCtx.PageCount && pageNr <= p.maxPages; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		if s := textFromContent(data); s != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(s)
		}
	}
	return b.String(), pdfCtx.PageCount, nil
}

func (p *PDFExtractor) runPdftotext(ctx context.Context, path string) (string, int, error) {
	out, errb, err := p.runner.Run(ctx, p.pdftotext, p.logger,
		"-f", "1", "-l", strconv.Itoa(p.maxPages), "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	text := string(out)
	// pdftotext ends every page with a form feed
	pages := strings.Count(text, "\f")
	if pages == 0 && strings.TrimSpace(text) != "" {
		pages = 1
	}
	return text, pages, nil
}

// wordGap is the TJ adjustment (thousandths of text space, negative moves
// right) treated as a space between words.
const wordGap = -200

// textFromContent collects the string operands of the text showing
// operators (Tj, TJ, ' and ") in a page content stream.
func textFromContent(data []byte) string {
	var b strings.Builder
	var operands []string
	inArray := false

	flush := func() {
		for _, s := range operands {
			b.WriteString(s)
		}
		operands = operands[:0]
	}
	space := func() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, n := readLiteral(data[i:])
			operands = append(operands, s)
			i += n
		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case c == '<':
			s, n := readHex(data[i:])
			operands = append(operands, s)
			i += n
		case c == '[':
			inArray = true
			i++
		case c == ']':
			inArray = false
			i++
		case isPDFSpace(c) || isPDFDelim(c):
			i++
		default:
			j := i
			for j < len(data) && !isPDFSpace(data[j]) && !isPDFDelim(data[j]) {
				j++
			}
			switch tok := string(data[i:j]); tok {
			case "Tj", "TJ":
				flush()
			case "'", `"`:
				space()
				flush()
			case "Td", "TD", "T*", "Tm", "ET":
				space()
				operands = operands[:0]
			default:
				if inArray {
					if v, err := strconv.ParseFloat(tok, 64); err == nil && v <= wordGap {
						operands = append(operands, " ")
					}
				} else if isOperator(tok) {
					operands = operands[:0]
				}
			}
			i = j
		}
	}
	return collapseSpace(b.String())
}

// readLiteral decodes a (...) string starting at data[0], returning the
// text and the number of bytes consumed.
func readLiteral(data []byte) (string, int) {
	var b strings.Builder
	depth := 0
	i := 0
	for ; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '\\' && i+1 < len(data):
			i++
			switch e := data[i]; e {
			case 'n', 'r', 't', 'f':
				b.WriteByte(' ')
			case 'b':
			case '\n', '\r':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2 && i+1 < len(data) && data[i+1] >= '0' && data[i+1] <= '7'; k++ {
						i++
						v = v*8 + int(data[i]-'0')
					}
					b.WriteRune(rune(byte(v)))
				} else {
					b.WriteByte(e)
				}
			}
		case c == '(':
			if depth > 0 {
				b.WriteByte(c)
			}
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1
			}
			b.WriteByte(c)
		default:
			b.WriteRune(rune(c))
		}
	}
	return b.String(), i
}

// readHex decodes a <...> string starting at data[0].
func readHex(data []byte) (string, int) {
	var digits []byte
	i := 1
	for ; i < len(data) && data[i] != '>'; i++ {
		if unhex(data[i]) >= 0 {
			digits = append(digits, data[i])
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	var b strings.Builder
	for k := 0; k < len(digits); k += 2 {
		b.WriteRune(rune(byte(unhex(digits[k])<<4 | unhex(digits[k+1]))))
	}
	return b.String(), i + 1
}

func unhex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isOperator(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// collapseSpace drops non-printable runes and folds whitespace runs to one space.
func collapseSpace(s string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace && b.Len() > 0 {
				b.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
