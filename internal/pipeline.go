package internal

import "log/slog"

// Table is the derived view of a petrol book, ready for a renderer.
type Table struct {
	Meta              Meta
	Units             Units
	ReferenceDistance int
	Rows              []DisplayRow
	Status            Status
	Summary           Summary
	Problems          []RecordError
}

// BuildTable runs normalize, derive and format over the document.
// Record problems do not fail the table; they are collected in Problems.
func BuildTable(doc *Document, referenceDistance int) (Table, error) {
	units := doc.Units.WithDefaults(DefaultUnits())

	normalized, problems := Normalize(doc.FuelingOperations, units)
	derived, metricProblems, err := DeriveMetrics(normalized, referenceDistance)
	if err != nil {
		return Table{}, err
	}
	problems = append(problems, metricProblems...)

	rows, status := Format(derived, referenceDistance)

	for _, p := range problems {
		slog.Debug("Skipping metrics for record", "record", p.Index+1, "date", p.Date, "error", p.Err)
	}

	return Table{
		Meta:              doc.Meta,
		Units:             units,
		ReferenceDistance: referenceDistance,
		Rows:              rows,
		Status:            status,
		Summary:           Summarize(derived, referenceDistance),
		Problems:          problems,
	}, nil
}

// StatusMessage is the one-line status shown next to a table
func (t Table) StatusMessage() string {
	switch {
	case t.Status == StatusEmpty:
		return "petrol book is empty"
	case len(t.Problems) > 0:
		return "petrol book loaded with problems"
	default:
		return "petrol book loaded successfully"
	}
}
