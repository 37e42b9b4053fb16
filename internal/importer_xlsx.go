package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// xlsxColumns maps accepted header labels (lower case) to entry fields
var xlsxColumns = map[string]string{
	"date":           "date",
	"time":           "time",
	"station":        "station",
	"petrol station": "station",
	"petrolstation":  "station",
	"type":           "type",
	"petrol type":    "type",
	"petroltype":     "type",
	"fuel":           "type",
	"costs":          "costs",
	"cost":           "costs",
	"liquid":         "liquid",
	"volume":         "liquid",
	"distance":       "distance",
	"mileage":        "mileage",
	"odometer":       "mileage",
}

// xlsxDateLayouts are the date formats spreadsheet tools commonly display
var xlsxDateLayouts = []string{"2006-01-02", "01-02-06", "02.01.2006", "1/2/06", "1/2/2006"}

// ImportXLSX reads entries from the first sheet of a spreadsheet.
// The header row must contain at least a Date and a Mileage column; it may be
// preceded by title rows. Rows without a date are skipped.
func ImportXLSX(path string) ([]EntryInput, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	// Find header row and column indices
	cols := map[string]int{}
	dataStartRow := -1
	for i, row := range rows {
		found := map[string]int{}
		for j, cell := range row {
			if field, ok := xlsxColumns[strings.ToLower(strings.TrimSpace(cell))]; ok {
				if _, dup := found[field]; !dup {
					found[field] = j
				}
			}
		}
		_, hasDate := found["date"]
		_, hasMileage := found["mileage"]
		if hasDate && hasMileage {
			cols = found
			dataStartRow = i + 1
			break
		}
	}

	if dataStartRow < 0 {
		return nil, fmt.Errorf("could not find required columns (Date, Mileage)")
	}

	cell := func(row []string, field string) string {
		j, ok := cols[field]
		if !ok || j >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[j])
	}

	var entries []EntryInput
	for i := dataStartRow; i < len(rows); i++ {
		row := rows[i]

		dateStr := cell(row, "date")
		if dateStr == "" {
			continue
		}

		entries = append(entries, EntryInput{
			Date:       normalizeSheetDate(dateStr),
			Time:       normalizeSheetTime(cell(row, "time")),
			Station:    cell(row, "station"),
			PetrolType: cell(row, "type"),
			Costs:      cell(row, "costs"),
			Liquid:     cell(row, "liquid"),
			Distance:   cell(row, "distance"),
			Mileage:    cell(row, "mileage"),
		})
	}

	return entries, nil
}

func normalizeSheetDate(s string) string {
	for _, layout := range xlsxDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return s // left for entry validation to reject
}

func normalizeSheetTime(s string) string {
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04:05 PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return s
}
