package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultPetrolTypes is the suggestion list for the petrol type field
var DefaultPetrolTypes = []string{"Super E5", "Super E10", "Super Plus E5"}

// EntryInput holds the raw values of the entry form
type EntryInput struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Station    string `json:"petrolStation"`
	PetrolType string `json:"petrolType"`
	Costs      string `json:"costs"`
	Liquid     string `json:"liquid"`
	Distance   string `json:"distance"`
	Mileage    string `json:"mileage"`
}

// NewEntryInput returns an input with date and time set to now
func NewEntryInput(now time.Time) EntryInput {
	return EntryInput{
		Date: now.Format("2006-01-02"),
		Time: now.Format("15:04"),
	}
}

// Record validates the input and builds a fueling record with a copy of units.
// Costs, liquid and distance must be positive; zero fill-ups are rejected.
func (in EntryInput) Record(units Units) (FuelingRecord, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(in.Date))
	if err != nil {
		return FuelingRecord{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, in.Date)
	}
	clock, err := time.Parse("15:04", strings.TrimSpace(in.Time))
	if err != nil {
		return FuelingRecord{}, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, in.Time)
	}

	costs, err := parsePositive("costs", in.Costs)
	if err != nil {
		return FuelingRecord{}, err
	}
	liquid, err := parsePositive("liquid", in.Liquid)
	if err != nil {
		return FuelingRecord{}, err
	}
	distance, err := parsePositive("distance", in.Distance)
	if err != nil {
		return FuelingRecord{}, err
	}
	mileage, err := parseMileage(in.Mileage)
	if err != nil {
		return FuelingRecord{}, err
	}

	snapshot := units
	return FuelingRecord{
		Date:          date.Format("2006-01-02"),
		Time:          clock.Format("15:04"),
		PetrolStation: strings.TrimSpace(in.Station),
		PetrolType:    strings.TrimSpace(in.PetrolType),
		Costs:         NumberField(costs),
		Liquid:        NumberField(liquid),
		Distance:      NumberField(distance),
		Mileage:       IntField(mileage),
		Units:         &snapshot,
	}, nil
}

// PartialRecord builds an informational record without a fill-up. Only date,
// time and mileage are required; costs and distance are kept when given.
func (in EntryInput) PartialRecord(units Units) (FuelingRecord, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(in.Date))
	if err != nil {
		return FuelingRecord{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, in.Date)
	}
	clock := strings.TrimSpace(in.Time)
	if clock != "" {
		t, err := time.Parse("15:04", clock)
		if err != nil {
			return FuelingRecord{}, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, in.Time)
		}
		clock = t.Format("15:04")
	}
	mileage, err := parseMileage(in.Mileage)
	if err != nil {
		return FuelingRecord{}, err
	}

	rec := FuelingRecord{
		Date:          date.Format("2006-01-02"),
		Time:          clock,
		PetrolStation: strings.TrimSpace(in.Station),
		PetrolType:    strings.TrimSpace(in.PetrolType),
		Costs:         NullField(),
		Liquid:        NullField(),
		Distance:      NullField(),
		Mileage:       IntField(mileage),
	}
	if strings.TrimSpace(in.Costs) != "" {
		v, err := parseNonNegative("costs", in.Costs)
		if err != nil {
			return FuelingRecord{}, err
		}
		rec.Costs = NumberField(v)
	}
	if strings.TrimSpace(in.Distance) != "" {
		v, err := parseNonNegative("distance", in.Distance)
		if err != nil {
			return FuelingRecord{}, err
		}
		rec.Distance = NumberField(v)
	}
	snapshot := units
	rec.Units = &snapshot
	return rec, nil
}

// ValidateMeta checks that the vehicle is identified
func (d *Document) ValidateMeta() error {
	if strings.TrimSpace(d.Meta.Manufacturer) == "" {
		return fmt.Errorf("%w: please enter manufacturer", ErrInvalidInput)
	}
	if strings.TrimSpace(d.Meta.Model) == "" {
		return fmt.Errorf("%w: please enter model", ErrInvalidInput)
	}
	return nil
}

// AddRecord validates the input and appends the record to the document.
// The document is left untouched when validation fails.
func AddRecord(doc *Document, in EntryInput) (FuelingRecord, error) {
	if err := doc.ValidateMeta(); err != nil {
		return FuelingRecord{}, err
	}
	rec, err := in.Record(doc.Units.WithDefaults(DefaultUnits()))
	if err != nil {
		return FuelingRecord{}, err
	}
	doc.FuelingOperations = append(doc.FuelingOperations, rec)
	return rec, nil
}

// AddPartialRecord appends an informational record, see PartialRecord
func AddPartialRecord(doc *Document, in EntryInput) (FuelingRecord, error) {
	if err := doc.ValidateMeta(); err != nil {
		return FuelingRecord{}, err
	}
	rec, err := in.PartialRecord(doc.Units.WithDefaults(DefaultUnits()))
	if err != nil {
		return FuelingRecord{}, err
	}
	doc.FuelingOperations = append(doc.FuelingOperations, rec)
	return rec, nil
}

func parseDecimal(field, value string) (float64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := parsePlainDecimal(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidInput, field, value)
	}
	return v, nil
}

func parsePositive(field, value string) (float64, error) {
	v, err := parseDecimal(field, value)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("%w: %s can not be zero", ErrInvalidInput, field)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s can not be negative", ErrInvalidInput, field)
	}
	return v, nil
}

func parseNonNegative(field, value string) (float64, error) {
	v, err := parseDecimal(field, value)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s can not be negative", ErrInvalidInput, field)
	}
	return v, nil
}

func parseMileage(value string) (int64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, fmt.Errorf("%w: mileage is required", ErrInvalidInput)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: mileage %q must be a whole number", ErrInvalidInput, value)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: mileage can not be negative", ErrInvalidInput)
	}
	return v, nil
}
