package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Document is the on-disk petrol book.
type Document struct {
	FuelingOperations []FuelingRecord `json:"fuelingOperations"`
	Meta              Meta            `json:"meta"`
	Units             Units           `json:"units"`
}

// Meta identifies the vehicle the log belongs to
type Meta struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

// Units holds display-only unit labels
type Units struct {
	Costs    string `json:"costs"`
	Distance string `json:"distance"`
	Liquid   string `json:"liquid"`
}

// DefaultUnits returns the labels used for newly created documents.
func DefaultUnits() Units {
	return Units{
		Costs:    "€",
		Distance: "km",
		Liquid:   "l",
	}
}

// WithDefaults fills empty labels from d
func (u Units) WithDefaults(d Units) Units {
	if u.Costs == "" {
		u.Costs = d.Costs
	}
	if u.Distance == "" {
		u.Distance = d.Distance
	}
	if u.Liquid == "" {
		u.Liquid = d.Liquid
	}
	return u
}

// FuelingRecord is one logged refill or odometer entry.
// Units is a snapshot of the document units at the time of entry.
type FuelingRecord struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	PetrolStation string `json:"petrolStation"`
	PetrolType    string `json:"petrolType"`
	Costs         Field  `json:"costs"`
	Liquid        Field  `json:"liquid"`
	Distance      Field  `json:"distance"`
	Mileage       Field  `json:"mileage"`
	Units         *Units `json:"units,omitempty"`
}

// Field is a numeric log value kept exactly as it appears in the file.
// Historical files contain nulls, empty strings and numbers written as strings.
type Field struct {
	raw json.RawMessage
}

// NumberField returns a field holding v
func NumberField(v float64) Field {
	return Field{raw: json.RawMessage(strconv.FormatFloat(v, 'f', -1, 64))}
}

// IntField returns a field holding v
func IntField(v int64) Field {
	return Field{raw: json.RawMessage(strconv.FormatInt(v, 10))}
}

// NullField returns an explicit null
func NullField() Field {
	return Field{raw: json.RawMessage("null")}
}

// TextField returns a field holding s as a JSON string
func TextField(s string) Field {
	data, _ := json.Marshal(s)
	return Field{raw: data}
}

// IsEmpty reports whether the field is absent, null or a blank string.
func (f Field) IsEmpty() bool {
	s := bytes.TrimSpace(f.raw)
	if len(s) == 0 || string(s) == "null" {
		return true
	}
	if s[0] == '"' {
		return strings.TrimSpace(f.Text()) == ""
	}
	return false
}

// Text returns the value without JSON quoting, or "" when empty.
func (f Field) Text() string {
	s := bytes.TrimSpace(f.raw)
	if len(s) == 0 || string(s) == "null" {
		return ""
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(s, &str); err != nil {
			return string(s)
		}
		return str
	}
	return string(s)
}

// Float parses the field as a finite decimal number.
func (f Field) Float() (float64, error) {
	if f.IsEmpty() {
		return 0, fmt.Errorf("value is empty")
	}
	text := strings.TrimSpace(f.Text())
	v, err := parsePlainDecimal(text)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", text)
	}
	return v, nil
}

// plainDecimal is a decimal number with an optional exponent. Hex floats,
// digit separators, Inf and NaN do not match.
var plainDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func parsePlainDecimal(s string) (float64, error) {
	if !plainDecimal.MatchString(s) {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// Int parses the field as a whole number. Decimals with a zero fraction are accepted.
func (f Field) Int() (int64, error) {
	v, err := f.Float()
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%q is not a whole number", f.Text())
	}
	return int64(v), nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(f.raw)) == 0 {
		return []byte("null"), nil
	}
	return f.raw, nil
}

func (f *Field) UnmarshalJSON(data []byte) error {
	f.raw = append(json.RawMessage(nil), data...)
	return nil
}

// RawValues holds the verbatim text of a record's numeric fields ("" when empty)
type RawValues struct {
	Costs    string
	Liquid   string
	Distance string
	Mileage  string
}

// NormalizedRecord is a fueling record with resolved units and coerced numbers.
// The numeric fields are only meaningful when Complete is true.
type NormalizedRecord struct {
	Index         int // position in the document
	Date          string
	Time          string
	PetrolStation string
	PetrolType    string
	Units         Units
	Complete      bool
	Costs         float64
	Liquid        float64
	Distance      float64
	Mileage       int64
	Raw           RawValues
}

// Metric is a derived value that may be unavailable
type Metric struct {
	Value float64
	Valid bool
}

// Available returns a valid metric
func Available(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// DerivedRecord carries the computed ratios of a record
type DerivedRecord struct {
	NormalizedRecord
	CostPerLiquid              Metric
	CostPerReferenceDistance   Metric
	LiquidPerReferenceDistance Metric
	RelativeMileage            Metric
}

// DisplayRow is one rendered table row. Missing values are "-".
type DisplayRow struct {
	Date                       string `json:"date"`
	Time                       string `json:"time"`
	PetrolStation              string `json:"petrol_station"`
	PetrolType                 string `json:"petrol_type"`
	Costs                      string `json:"costs"`
	Liquid                     string `json:"liquid"`
	Distance                   string `json:"distance"`
	Mileage                    string `json:"mileage"`
	CostPerLiquid              string `json:"cost_per_liquid"`
	LiquidPerReferenceDistance string `json:"liquid_per_reference_distance"`
	CostPerReferenceDistance   string `json:"cost_per_reference_distance"`
	Partial                    bool   `json:"partial"`
}

// Cells returns the row values in Columns order
func (r DisplayRow) Cells() []string {
	return []string{
		r.Date,
		r.Time,
		r.PetrolStation,
		r.PetrolType,
		r.Costs,
		r.Liquid,
		r.Distance,
		r.Mileage,
		r.CostPerLiquid,
		r.LiquidPerReferenceDistance,
		r.CostPerReferenceDistance,
	}
}
