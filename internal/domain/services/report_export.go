package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReportFileName 下载文件名
func ReportFileName(r *Report, format string) string {
	return fmt.Sprintf("door-report-%s-%s.%s", r.Type, r.GeneratedAt.Format("20060102-150405"), format)
}

// RenderCSV 将报表写为 CSV，首行为列名
func RenderCSV(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(r.Columns); err != nil {
		return nil, err
	}
	for _, row := range r.Rows {
		record := make([]string, len(r.Columns))
		for i, col := range r.Columns {
			record[i] = formatCell(row[col])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderXLSX 将报表写为 Excel 工作簿
func RenderXLSX(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Report"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	// 删除默认的 Sheet1 后索引会变化
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if index, err := f.GetSheetIndex(sheet); err == nil {
		f.SetActiveSheet(index)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// 表头
	for col, name := range r.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheet, colName, colName, 18); err != nil {
			return nil, err
		}
	}

	// 数据从第 2 行开始
	for rowIdx, row := range r.Rows {
		for col, name := range r.Columns {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			value := row[name]
			if t, ok := value.(time.Time); ok {
				value = formatCell(t)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
