package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputOptions controls which rows are displayed
type OutputOptions struct {
	Limit   int    // most recent rows only, 0 = all
	Station string // case-insensitive substring filter
	NoColor bool
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	Vehicle           Meta         `json:"vehicle"`
	Status            string       `json:"status"`
	Message           string       `json:"message"`
	ReferenceDistance int          `json:"reference_distance"`
	Rows              []DisplayRow `json:"rows"`
	Summary           JSONSummary  `json:"summary"`
	Problems          []string     `json:"problems,omitempty"`
}

// JSONSummary contains aggregate statistics
type JSONSummary struct {
	Records                       int      `json:"records"`
	WithMetrics                   int      `json:"with_metrics"`
	TotalCosts                    float64  `json:"total_costs"`
	TotalLiquid                   float64  `json:"total_liquid"`
	TotalDistance                 float64  `json:"total_distance"`
	AvgCostPerLiquid              *float64 `json:"avg_cost_per_liquid"`
	AvgLiquidPerReferenceDistance *float64 `json:"avg_liquid_per_reference_distance"`
	AvgCostPerReferenceDistance   *float64 `json:"avg_cost_per_reference_distance"`
	Units                         Units    `json:"units"`
}

// NewJSONOutput converts a table for JSON rendering, applying opts to the rows
func NewJSONOutput(t Table, opts OutputOptions) JSONOutput {
	out := JSONOutput{
		Vehicle:           t.Meta,
		Status:            string(t.Status),
		Message:           t.StatusMessage(),
		ReferenceDistance: t.ReferenceDistance,
		Rows:              FilterRows(t.Rows, opts),
		Summary: JSONSummary{
			Records:                       t.Summary.Records,
			WithMetrics:                   t.Summary.WithMetrics,
			TotalCosts:                    t.Summary.TotalCosts,
			TotalLiquid:                   t.Summary.TotalLiquid,
			TotalDistance:                 t.Summary.TotalDistance,
			AvgCostPerLiquid:              metricPtr(t.Summary.AvgCostPerLiquid),
			AvgLiquidPerReferenceDistance: metricPtr(t.Summary.AvgLiquidPerReferenceDistance),
			AvgCostPerReferenceDistance:   metricPtr(t.Summary.AvgCostPerReferenceDistance),
			Units:                         t.Units,
		},
	}
	for _, p := range t.Problems {
		out.Problems = append(out.Problems, p.Error())
	}
	return out
}

// PrintTableJSON outputs the table in JSON format
func PrintTableJSON(w io.Writer, t Table, opts OutputOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewJSONOutput(t, opts))
}

// PrintTable outputs the fueling table with a totals footer
func PrintTable(w io.Writer, t Table, opts OutputOptions) {
	if t.Status == StatusEmpty {
		fmt.Fprintln(w, t.StatusMessage())
		return
	}

	rows := FilterRows(t.Rows, opts)
	vehicle := strings.TrimSpace(t.Meta.Manufacturer + " " + t.Meta.Model)
	fmt.Fprintf(w, "%s: %d records (%d with metrics)\n", vehicle, t.Summary.Records, t.Summary.WithMetrics)
	if len(rows) != len(t.Rows) {
		fmt.Fprintf(w, "Showing: %d of %d\n", len(rows), len(t.Rows))
	}
	fmt.Fprintln(w)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	header := table.Row{}
	for _, h := range ColumnHeaders(t.ReferenceDistance) {
		header = append(header, h)
	}
	tw.AppendHeader(header)

	for _, r := range rows {
		row := table.Row{}
		for _, c := range r.Cells() {
			if r.Partial && !opts.NoColor {
				c = text.FgHiBlack.Sprint(c)
			}
			row = append(row, c)
		}
		tw.AppendRow(row)
	}

	tw.AppendSeparator()

	s := t.Summary
	u := t.Units
	bold := func(v string) string {
		if opts.NoColor {
			return v
		}
		return text.Bold.Sprint(v)
	}
	tw.AppendFooter(table.Row{
		bold("Total"), "", "", "",
		bold(fmt.Sprintf("%.2f %s", s.TotalCosts, u.Costs)),
		bold(fmt.Sprintf("%.2f %s", s.TotalLiquid, u.Liquid)),
		bold(fmt.Sprintf("%.1f %s", s.TotalDistance, u.Distance)),
		"",
		bold(formatSummaryMetric(s.AvgCostPerLiquid, "%.3f %s / %s", u.Costs, u.Liquid)),
		bold(formatSummaryMetric(s.AvgLiquidPerReferenceDistance, "%.2f %s / %d%s", u.Liquid, s.ReferenceDistance, u.Distance)),
		bold(formatSummaryMetric(s.AvgCostPerReferenceDistance, "%.2f %s / %d%s", u.Costs, s.ReferenceDistance, u.Distance)),
	})

	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault

	// Right-align the numeric columns (Costs onwards)
	var configs []table.ColumnConfig
	for col := 5; col <= len(Columns); col++ {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	tw.Render()

	for _, p := range t.Problems {
		fmt.Fprintf(w, "Warning: %v\n", p.Error())
	}
}

// FilterRows applies the station filter and row limit to display rows
func FilterRows(rows []DisplayRow, opts OutputOptions) []DisplayRow {
	result := make([]DisplayRow, 0, len(rows))
	needle := strings.ToLower(strings.TrimSpace(opts.Station))
	for _, r := range rows {
		if needle != "" && !strings.Contains(strings.ToLower(r.PetrolStation), needle) {
			continue
		}
		result = append(result, r)
		if opts.Limit > 0 && len(result) == opts.Limit {
			break
		}
	}
	return result
}

// PrintStations outputs station usage counts
func PrintStations(w io.Writer, stations []StationCount) {
	if len(stations) == 0 {
		fmt.Fprintln(w, "No petrol stations recorded.")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Petrol Station", "Fuelings"})
	for _, sc := range stations {
		tw.AppendRow(table.Row{sc.Name, sc.Count})
	}
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	tw.Render()
}

func formatSummaryMetric(m Metric, format string, args ...any) string {
	if !m.Valid {
		return Unavailable
	}
	return fmt.Sprintf(format, append([]any{m.Value}, args...)...)
}

func metricPtr(m Metric) *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}
