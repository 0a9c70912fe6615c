package export

import (
	"bytes"
	"fmt"

	"github.com/ogurasousui/daily-report/internal/core/report"
	"github.com/xuri/excelize/v2"
)

// ContentType は xlsx のレスポンス Content-Type です。
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "日報"

// ReportHeader は日報エクスポートの表頭です。
var ReportHeader = []string{"日付", "社員番号", "氏名", "タイトル", "内容", "状態"}

var reportColumnWidths = []float64{12, 12, 20, 30, 60, 10}

// Reports は日報一覧を 1 シートの xlsx に書き出します。
func Reports(reports []*report.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("export: create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export: delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &ReportHeader); err != nil {
		return nil, fmt.Errorf("export: write header: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(ReportHeader), 1)
	if err != nil {
		return nil, fmt.Errorf("export: header range: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("export: apply header style: %w", err)
	}

	for i, width := range reportColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("export: column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("export: column width: %w", err)
		}
	}

	for i, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export: row %d: %w", i+2, err)
		}
		values := reportRow(r)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("export: write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func reportRow(r *report.Report) []any {
	name := ""
	if r.Employee != nil {
		name = r.Employee.Name
	}
	status := "有効"
	if r.DeleteFlag {
		status = "削除済"
	}
	return []any{
		r.ReportDate.Format("2006-01-02"),
		r.EmployeeCode,
		name,
		r.Title,
		r.Content,
		status,
	}
}
