// Package report renders run and import summaries for the console.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/catalog"
	"github.com/capsresources/resource-organizer/internal/classify"
	"github.com/capsresources/resource-organizer/internal/entity"
	"github.com/capsresources/resource-organizer/internal/pipeline"
)

// Printer writes styled summaries. Colors are dropped when w is not a terminal.
type Printer struct {
	w     io.Writer
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	bad   lipgloss.Style
	dim   lipgloss.Style
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		title: r.NewStyle().Foreground(lipgloss.Color("#86AAEC")).Bold(true),
		label: r.NewStyle().Bold(true),
		ok:    r.NewStyle().Foreground(lipgloss.Color("#73D216")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#EDD400")),
		bad:   r.NewStyle().Foreground(lipgloss.Color("#EF2929")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) count(label string, n int, style lipgloss.Style) {
	p.line("  %-12s %s", p.label.Render(label), style.Render(humanize.Comma(int64(n))))
}

// Record prints the one-line outcome for an organized file.
func (p *Printer) Record(rec entity.OrganizedRecord) {
	p.line("%s %s", p.ok.Render("organized"), rec.NewFilename)
	p.line("    %s | %s | %s | %s", constants.Grade(rec.Grade).DisplayName(), rec.Subject,
		constants.ResourceType(rec.Type).DisplayName(), rec.Year)
	p.line("    %s", p.dim.Render(fmt.Sprintf("%d pages, %s", rec.Pages, rec.FileSize)))
}

// Run prints the organize summary: totals, the grade/subject breakdown
// and every failure.
func (p *Printer) Run(res *pipeline.RunResult) {
	if res == nil {
		return
	}
	s := res.Stats
	p.line("%s", p.title.Render("Organization summary"))
	p.count("Organized", s.Organized, p.ok)
	p.count("Skipped", s.Skipped, p.warn)
	p.count("Failed", s.Failed, p.bad)
	p.count("Processed", s.Processed(), p.label)
	if s.Bytes > 0 {
		p.line("  %-12s %s", p.label.Render("Copied"), humanize.Bytes(uint64(s.Bytes)))
	}
	if !s.Finished.IsZero() && !s.Started.IsZero() {
		p.line("  %-12s %s", p.label.Render("Took"), s.Finished.Sub(s.Started).Round(time.Millisecond))
	}

	if len(s.Breakdown) > 0 {
		p.line("")
		p.line("%s", p.title.Render("By grade"))
		for _, g := range sortedGrades(s.Breakdown) {
			subjects := s.Breakdown[g]
			total := 0
			for _, n := range subjects {
				total += n
			}
			p.line("  %s %s", p.label.Render(g.DisplayName()), p.dim.Render(fmt.Sprintf("(%s)", humanize.Comma(int64(total)))))
			names := make([]string, 0, len(subjects))
			for name := range subjects {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				p.line("    %-28s %s", name, humanize.Comma(int64(subjects[name])))
			}
		}
	}

	if len(s.Failures) > 0 {
		p.line("")
		p.line("%s", p.bad.Render("Failures"))
		for _, f := range s.Failures {
			p.line("  %s: %v", f.Path, f.Err)
		}
	}

	p.line("")
	if res.ManifestPath != "" {
		p.line("%s %s", p.label.Render("Manifest:"), res.ManifestPath)
	} else {
		p.line("%s", p.dim.Render("No manifest written"))
	}
}

// Import prints the catalog import summary.
func (p *Printer) Import(s *catalog.ImportStats) {
	if s == nil {
		return
	}
	p.line("%s", p.title.Render("Catalog import"))
	p.count("Imported", s.Imported, p.ok)
	p.count("Duplicates", s.Skipped, p.warn)
	p.count("Errors", s.Errors, p.bad)
	p.count("In catalog", s.Total, p.label)

	if len(s.ByGrade) > 0 {
		p.line("")
		p.line("%s", p.title.Render("Products by grade"))
		for _, gc := range s.ByGrade {
			p.line("  %-12s %s", constants.Grade(gc.Grade).DisplayName(), humanize.Comma(int64(gc.Count)))
		}
	}

	var failed []string
	for _, r := range s.Results {
		if r.Outcome == constants.ImportFailed {
			failed = append(failed, fmt.Sprintf("  #%d %s: %v", r.Index, r.FileName, r.Err))
		}
	}
	if len(failed) > 0 {
		p.line("")
		p.line("%s", p.bad.Render("Rejected records"))
		p.line("%s", strings.Join(failed, "\n"))
	}
}

// Explain prints how a document was classified.
func (p *Printer) Explain(path string, exp classify.Explanation) {
	p.line("%s %s", p.title.Render("Classification"), path)
	grade := "none"
	if exp.Result.HasGrade() {
		grade = exp.Result.Grade.DisplayName()
	}
	p.line("  %-12s %s", p.label.Render("Grade"), grade)
	p.line("  %-12s %s", p.label.Render("Subject"), exp.Result.Subject)
	p.line("  %-12s %s", p.label.Render("Type"), exp.Result.Type.DisplayName())
	p.line("  %-12s %s", p.label.Render("Year"), exp.Result.Year)
	for _, s := range exp.Subjects {
		p.line("    subject %-26s %d", s.Key, s.Score)
	}
	for _, s := range exp.Types {
		p.line("    type    %-26s %d", s.Key, s.Score)
	}
}

func sortedGrades(m map[constants.Grade]map[string]int) []constants.Grade {
	out := make([]constants.Grade, 0, len(m))
	for g := range m {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return constants.GradeRank(out[i]) < constants.GradeRank(out[j])
	})
	return out
}
