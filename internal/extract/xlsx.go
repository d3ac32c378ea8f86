package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelExtractor reads the first non-empty cell values of an .xlsx workbook,
// sheet by sheet in workbook order.
type ExcelExtractor struct {
	maxCells int
}

func NewExcelExtractor(maxCells int) *ExcelExtractor {
	if maxCells <= 0 {
		maxCells = DefaultLimits().ExcelCells
	}
	return &ExcelExtractor{maxCells: maxCells}
}

func (e *ExcelExtractor) Name() string { return "xlsx" }

func (e *ExcelExtractor) Available() bool { return true }

func (e *ExcelExtractor) Extract(_ context.Context, path string) (Result, error) {
	start := time.Now()
	res := Result{Method: e.Name()}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return res, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	res.Units = len(sheets)

	var cells []string
	for _, sheet := range sheets {
		if len(cells) >= e.maxCells {
			break
		}
		got, err := e.sheetCells(f, sheet, e.maxCells-len(cells))
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("sheet %s: %v", sheet, err))
		}
		cells = append(cells, got...)
	}

	res.Text = strings.Join(cells, " ")
	res.Duration = time.Since(start)
	return res, nil
}

func (e *ExcelExtractor) sheetCells(f *excelize.File, sheet string, limit int) ([]string, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() && len(out) < limit {
		cols, err := rows.Columns()
		if err != nil {
			return out, err
		}
		for _, v := range cols {
			if v = strings.TrimSpace(v); v == "" {
				continue
			}
			out = append(out, v)
			if len(out) == limit {
				break
			}
		}
	}
	return out, rows.Error()
}
