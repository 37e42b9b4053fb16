package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Petrol Book"

// ExportXLSX writes the table to a spreadsheet: a title, a generation line,
// a styled header on row 4 and one row per display row, followed by totals.
func ExportXLSX(table Table, path string, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	sheet := xlsxSheetName

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	title := strings.TrimSpace(table.Meta.Manufacturer + " " + table.Meta.Model)
	if title == "" {
		title = "Petrol Book"
	}
	f.SetCellValue(sheet, "A1", title)
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetRowHeight(sheet, 1, 30)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Generated: %s", now.Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for colIdx, header := range ColumnHeaders(table.ReferenceDistance) {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(colIdx + 1)
		f.SetColWidth(sheet, colName, colName, 18)
	}

	for rowIdx, row := range table.Rows {
		for colIdx, value := range row.Cells() {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheet, cell, value)
		}
	}

	summaryRow := len(table.Rows) + 6
	s := table.Summary
	u := table.Units
	summary := [][2]string{
		{"Total costs", fmt.Sprintf("%.2f %s", s.TotalCosts, u.Costs)},
		{"Total liquid", fmt.Sprintf("%.2f %s", s.TotalLiquid, u.Liquid)},
		{"Total distance", fmt.Sprintf("%.1f %s", s.TotalDistance, u.Distance)},
	}
	if s.AvgLiquidPerReferenceDistance.Valid {
		summary = append(summary,
			[2]string{"Average liquid", fmt.Sprintf("%.2f %s / %d%s", s.AvgLiquidPerReferenceDistance.Value, u.Liquid, s.ReferenceDistance, u.Distance)},
			[2]string{"Average costs", fmt.Sprintf("%.2f %s / %d%s", s.AvgCostPerReferenceDistance.Value, u.Costs, s.ReferenceDistance, u.Distance)},
		)
	}
	for i, kv := range summary {
		keyCell, _ := excelize.CoordinatesToCellName(1, summaryRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow+i)
		f.SetCellValue(sheet, keyCell, kv[0])
		f.SetCellValue(sheet, valueCell, kv[1])
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing spreadsheet: %w", err)
	}
	return nil
}
