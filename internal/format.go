package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Unavailable is shown for missing values and metrics
const Unavailable = "-"

// Status describes the outcome of building a table
type Status string

const (
	StatusEmpty Status = "empty"
	StatusOK    Status = "ok"
)

// Columns is the fixed column order of every rendered table
var Columns = []string{
	"Date",
	"Time",
	"Petrol Station",
	"Petrol Type",
	"Costs",
	"Liquid",
	"Distance",
	"Mileage",
	"Costs / Liquid",
	"Liquid / Distance",
	"Costs / Distance",
}

// ColumnHeaders returns Columns with the reference distance spelled out in the
// scaled ratio headers.
func ColumnHeaders(referenceDistance int) []string {
	headers := make([]string, len(Columns))
	copy(headers, Columns)
	headers[9] = fmt.Sprintf("Liquid / %d Distance", referenceDistance)
	headers[10] = fmt.Sprintf("Costs / %d Distance", referenceDistance)
	return headers
}

// Format renders derived records as display rows, most recent first.
// No records yields an empty slice and StatusEmpty.
func Format(derived []DerivedRecord, referenceDistance int) ([]DisplayRow, Status) {
	rows := make([]DisplayRow, 0, len(derived))
	if len(derived) == 0 {
		return rows, StatusEmpty
	}

	for _, d := range derived {
		rows = append(rows, FormatRecord(d, referenceDistance))
	}
	SortForDisplay(rows)
	return rows, StatusOK
}

// FormatRecord renders one record using the record's own unit labels.
func FormatRecord(d DerivedRecord, referenceDistance int) DisplayRow {
	u := d.Units
	row := DisplayRow{
		Date:          orUnavailable(d.Date),
		Time:          orUnavailable(d.Time),
		PetrolStation: orUnavailable(d.PetrolStation),
		PetrolType:    orUnavailable(d.PetrolType),
		Partial:       !d.CostPerLiquid.Valid,
	}

	if d.Complete {
		row.Costs = fmt.Sprintf("%.2f %s", d.Costs, u.Costs)
		row.Liquid = fmt.Sprintf("%.2f %s", d.Liquid, u.Liquid)
		row.Distance = fmt.Sprintf("%.1f %s", d.Distance, u.Distance)
	} else {
		row.Costs = withUnit(d.Raw.Costs, u.Costs)
		row.Liquid = withUnit(d.Raw.Liquid, u.Liquid)
		row.Distance = withUnit(d.Raw.Distance, u.Distance)
	}

	row.Mileage = Unavailable
	if d.RelativeMileage.Valid {
		row.Mileage = strconv.FormatFloat(d.RelativeMileage.Value, 'f', -1, 64) + " " + u.Distance
	}

	row.CostPerLiquid = Unavailable
	if d.CostPerLiquid.Valid {
		row.CostPerLiquid = fmt.Sprintf("%.3f %s / %s", d.CostPerLiquid.Value, u.Costs, u.Liquid)
	}
	row.LiquidPerReferenceDistance = Unavailable
	if d.LiquidPerReferenceDistance.Valid {
		row.LiquidPerReferenceDistance = fmt.Sprintf("%.2f %s / %d%s", d.LiquidPerReferenceDistance.Value, u.Liquid, referenceDistance, u.Distance)
	}
	row.CostPerReferenceDistance = Unavailable
	if d.CostPerReferenceDistance.Valid {
		row.CostPerReferenceDistance = fmt.Sprintf("%.2f %s / %d%s", d.CostPerReferenceDistance.Value, u.Costs, referenceDistance, u.Distance)
	}

	return row
}

// SortForDisplay orders rows by date, then time, most recent first.
// Rows with equal timestamps keep their relative order.
func SortForDisplay(rows []DisplayRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return chronoLess(chronoKeyOf(rows[i].Date, rows[i].Time), chronoKeyOf(rows[j].Date, rows[j].Time), true)
	})
}

func orUnavailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unavailable
	}
	return s
}

func withUnit(value, unit string) string {
	if strings.TrimSpace(value) == "" {
		return Unavailable
	}
	return value + " " + unit
}
