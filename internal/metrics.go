package internal

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DefaultReferenceDistance is the "per N distance units" used for consumption ratios
const DefaultReferenceDistance = 100

// DeriveMetrics computes the ratios and relative mileage of every complete record.
//
// Partial records and records with unusable values (zero liquid or distance,
// negative numbers) keep the three ratios unavailable. The latter are also
// returned as errors. Their relative mileage is derived from the raw mileage
// when it is a whole number. The returned slice has the same order as records.
func DeriveMetrics(records []NormalizedRecord, referenceDistance int) ([]DerivedRecord, []RecordError, error) {
	if referenceDistance <= 0 {
		return nil, nil, fmt.Errorf("%w: reference distance must be positive, got %d", ErrInvalidInput, referenceDistance)
	}

	var problems []RecordError
	usable := make([]bool, len(records))
	var candidates []NormalizedRecord
	for i, rec := range records {
		if !rec.Complete {
			continue
		}
		if err := CheckRecord(rec); err != nil {
			problems = append(problems, *err)
			continue
		}
		usable[i] = true
		candidates = append(candidates, rec)
	}

	baseline, hasBaseline := BaselineOffset(candidates)

	ref := float64(referenceDistance)
	derived := make([]DerivedRecord, 0, len(records))
	for i, rec := range records {
		d := DerivedRecord{NormalizedRecord: rec}
		switch {
		case !hasBaseline:
		case usable[i]:
			d.CostPerLiquid = Available(roundTo(rec.Costs/rec.Liquid, 3))
			d.CostPerReferenceDistance = Available(roundTo(rec.Costs/rec.Distance*ref, 2))
			d.LiquidPerReferenceDistance = Available(roundTo(rec.Liquid/rec.Distance*ref, 2))
			d.RelativeMileage = Available(relativeMileage(rec.Mileage, baseline))
		default:
			// Partial and flagged records still show where the odometer stood
			if mileage, err := TextField(rec.Raw.Mileage).Int(); err == nil && mileage >= 0 {
				d.RelativeMileage = Available(relativeMileage(mileage, baseline))
			}
		}
		derived = append(derived, d)
	}

	return derived, problems, nil
}

// CheckRecord guards the divisions of a complete record. Entry validation
// rejects zero values, but historical data is not re-validated on load.
func CheckRecord(rec NormalizedRecord) *RecordError {
	switch {
	case rec.Liquid <= 0:
		return invalidRecord(rec, "liquid must be greater than zero, got %v", rec.Liquid)
	case rec.Distance <= 0:
		return invalidRecord(rec, "distance must be greater than zero, got %v", rec.Distance)
	case rec.Costs < 0:
		return invalidRecord(rec, "costs must not be negative, got %v", rec.Costs)
	case rec.Mileage < 0:
		return invalidRecord(rec, "mileage must not be negative, got %d", rec.Mileage)
	}
	return nil
}

// BaselineOffset returns mileage - distance of the chronologically earliest
// record. Records are sorted ascending by date and time for this, independent
// of the display order.
func BaselineOffset(records []NormalizedRecord) (float64, bool) {
	if len(records) == 0 {
		return 0, false
	}

	sorted := make([]NormalizedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return chronoLess(chronoKeyOf(sorted[i].Date, sorted[i].Time), chronoKeyOf(sorted[j].Date, sorted[j].Time), false)
	})

	first := sorted[0]
	return float64(first.Mileage) - first.Distance, true
}

// Summary aggregates the records that have metrics
type Summary struct {
	Records                       int     `json:"records"`
	WithMetrics                   int     `json:"with_metrics"`
	TotalCosts                    float64 `json:"total_costs"`
	TotalLiquid                   float64 `json:"total_liquid"`
	TotalDistance                 float64 `json:"total_distance"`
	AvgCostPerLiquid              Metric  `json:"-"`
	AvgLiquidPerReferenceDistance Metric  `json:"-"`
	AvgCostPerReferenceDistance   Metric  `json:"-"`
	ReferenceDistance             int     `json:"reference_distance"`
}

// Summarize totals costs, liquid and distance of records with metrics and
// computes averages from the totals.
func Summarize(derived []DerivedRecord, referenceDistance int) Summary {
	s := Summary{
		Records:           len(derived),
		ReferenceDistance: referenceDistance,
	}
	for _, d := range derived {
		if !d.CostPerLiquid.Valid {
			continue
		}
		s.WithMetrics++
		s.TotalCosts += d.Costs
		s.TotalLiquid += d.Liquid
		s.TotalDistance += d.Distance
	}

	s.TotalCosts = roundTo(s.TotalCosts, 2)
	s.TotalLiquid = roundTo(s.TotalLiquid, 2)
	s.TotalDistance = roundTo(s.TotalDistance, 1)

	if s.TotalLiquid > 0 {
		s.AvgCostPerLiquid = Available(roundTo(s.TotalCosts/s.TotalLiquid, 3))
	}
	if s.TotalDistance > 0 && referenceDistance > 0 {
		ref := float64(referenceDistance)
		s.AvgLiquidPerReferenceDistance = Available(roundTo(s.TotalLiquid/s.TotalDistance*ref, 2))
		s.AvgCostPerReferenceDistance = Available(roundTo(s.TotalCosts/s.TotalDistance*ref, 2))
	}
	return s
}

// relativeMileage keeps the precision of the recorded distance; rounding only
// removes float noise from the subtraction.
func relativeMileage(mileage int64, baseline float64) float64 {
	return roundTo(float64(mileage)-baseline, 6)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// chronoKey orders records by date and time. Records whose date cannot be
// parsed sort after all dated records in both directions.
type chronoKey struct {
	valid bool
	at    time.Time
	raw   string
}

func chronoKeyOf(date, clock string) chronoKey {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return chronoKey{raw: date + " " + clock}
	}
	if c, err := time.Parse("15:04", clock); err == nil {
		d = d.Add(time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute)
	}
	return chronoKey{valid: true, at: d, raw: date + " " + clock}
}

func chronoLess(a, b chronoKey, descending bool) bool {
	if a.valid != b.valid {
		return a.valid
	}
	if a.valid {
		if descending {
			return a.at.After(b.at)
		}
		return a.at.Before(b.at)
	}
	if descending {
		return a.raw > b.raw
	}
	return a.raw < b.raw
}
