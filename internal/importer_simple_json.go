package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimpleJSONFormat is a minimal JSON format for bulk entry
// Example:
//
//	{
//	  "entries": [
//	    {"date": "2025-01-15", "time": "08:30", "petrolStation": "Aral", "petrolType": "Super E5",
//	     "costs": 80.50, "liquid": 50.12, "distance": 650.6, "mileage": 79000},
//	    {"date": "2025-02-01", "mileage": 79420}
//	  ]
//	}
//
// Numbers may also be written as strings. An entry without liquid is imported
// as a partial record.
type SimpleJSONFormat struct {
	Entries []SimpleJSONEntry `json:"entries"`
}

type SimpleJSONEntry struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	PetrolStation string `json:"petrolStation"`
	PetrolType    string `json:"petrolType"`
	Costs         Field  `json:"costs"`
	Liquid        Field  `json:"liquid"`
	Distance      Field  `json:"distance"`
	Mileage       Field  `json:"mileage"`
}

// ImportSimpleJSON reads entries from a file in the simple JSON format
func ImportSimpleJSON(path string) ([]EntryInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	entries := make([]EntryInput, 0, len(jsonData.Entries))
	for _, e := range jsonData.Entries {
		entries = append(entries, EntryInput{
			Date:       e.Date,
			Time:       e.Time,
			Station:    e.PetrolStation,
			PetrolType: e.PetrolType,
			Costs:      e.Costs.Text(),
			Liquid:     e.Liquid.Text(),
			Distance:   e.Distance.Text(),
			Mileage:    e.Mileage.Text(),
		})
	}
	return entries, nil
}
