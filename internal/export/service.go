package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/capsresources/resource-organizer/constants"
	"github.com/capsresources/resource-organizer/internal/entity"
)

const (
	ResourcesSheet = "Resources"
	SummarySheet   = "Summary"
)

// Service produces XLSX workbooks from manifest records.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Filter narrows the exported records. Empty fields match everything.
type Filter struct {
	Grade   string
	Subject string
}

func (f Filter) match(r entity.OrganizedRecord) bool {
	return (f.Grade == "" || r.Grade == f.Grade) && (f.Subject == "" || r.Subject == f.Subject)
}

// ExportRecordsXLSX returns a workbook (as bytes) with one row per record on
// the Resources sheet and grade/subject counts on the Summary sheet.
func (s *Service) ExportRecordsXLSX(records []entity.OrganizedRecord, filter Filter) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResourcesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(ResourcesSheet)
	f.SetActiveSheet(activeIndex)

	headers := []any{
		"Grade",
		"Subject",
		"Type",
		"Year",
		"File Name",
		"File Type",
		"Pages",
		"Size",
		"Organized Path",
		"Original Path",
	}
	writeRow(f, ResourcesSheet, 1, headers...)

	counts := map[string]map[string]int{}
	row := 2
	for _, r := range records {
		if !filter.match(r) {
			continue
		}
		writeRow(f, ResourcesSheet, row,
			r.Grade, r.Subject, r.Type, r.Year, r.NewFilename, r.FileType, r.Pages, r.FileSize, r.NewPath, r.OriginalPath)
		row++

		if counts[r.Grade] == nil {
			counts[r.Grade] = map[string]int{}
		}
		counts[r.Grade][r.Subject]++
	}

	_ = f.SetColWidth(ResourcesSheet, "A", "A", 12) // grade
	_ = f.SetColWidth(ResourcesSheet, "B", "B", 24) // subject
	_ = f.SetColWidth(ResourcesSheet, "C", "D", 14)
	_ = f.SetColWidth(ResourcesSheet, "E", "E", 48) // file name
	_ = f.SetColWidth(ResourcesSheet, "F", "H", 10)
	_ = f.SetColWidth(ResourcesSheet, "I", "J", 60) // paths
	_ = f.SetPanes(ResourcesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	writeSummary(f, counts)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"grade", filter.Grade,
		"subject", filter.Subject,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, counts map[string]map[string]int) {
	writeRow(f, SummarySheet, 1, "Grade", "Subject", "Resources")

	grades := make([]string, 0, len(counts))
	for g := range counts {
		grades = append(grades, g)
	}
	sort.Slice(grades, func(i, j int) bool {
		return constants.GradeRank(constants.Grade(grades[i])) < constants.GradeRank(constants.Grade(grades[j]))
	})

	row := 2
	for _, g := range grades {
		subjects := make([]string, 0, len(counts[g]))
		for s := range counts[g] {
			subjects = append(subjects, s)
		}
		sort.Strings(subjects)
		for _, s := range subjects {
			writeRow(f, SummarySheet, row, g, s, counts[g][s])
			row++
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 12)
	_ = f.SetColWidth(SummarySheet, "B", "B", 24)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
