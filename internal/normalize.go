package internal

// Normalize resolves units and coerces the numeric fields of every record.
//
// A record is complete when it has a liquid value. Complete records with a
// non-numeric costs, liquid, distance or mileage are flagged: they are reported
// in the returned errors and continue as partial records, so the row is still
// shown but no metrics are derived from it.
func Normalize(records []FuelingRecord, defaults Units) ([]NormalizedRecord, []RecordError) {
	var problems []RecordError
	result := make([]NormalizedRecord, 0, len(records))

	for i, rec := range records {
		units := defaults
		if rec.Units != nil {
			units = rec.Units.WithDefaults(defaults)
		}

		n := NormalizedRecord{
			Index:         i,
			Date:          rec.Date,
			Time:          rec.Time,
			PetrolStation: rec.PetrolStation,
			PetrolType:    rec.PetrolType,
			Units:         units,
			Raw: RawValues{
				Costs:    rec.Costs.Text(),
				Liquid:   rec.Liquid.Text(),
				Distance: rec.Distance.Text(),
				Mileage:  rec.Mileage.Text(),
			},
		}

		if !rec.Liquid.IsEmpty() {
			if err := coerce(&n, rec); err != nil {
				problems = append(problems, *err)
			} else {
				n.Complete = true
			}
		}

		result = append(result, n)
	}

	return result, problems
}

func coerce(n *NormalizedRecord, rec FuelingRecord) *RecordError {
	var err error
	if n.Costs, err = rec.Costs.Float(); err != nil {
		return invalidRecord(*n, "costs: %v", err)
	}
	if n.Liquid, err = rec.Liquid.Float(); err != nil {
		return invalidRecord(*n, "liquid: %v", err)
	}
	if n.Distance, err = rec.Distance.Float(); err != nil {
		return invalidRecord(*n, "distance: %v", err)
	}
	if n.Mileage, err = rec.Mileage.Int(); err != nil {
		return invalidRecord(*n, "mileage: %v", err)
	}
	return nil
}
