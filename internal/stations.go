package internal

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// StationCount is how often a petrol station appears in the log
type StationCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StationUsage counts records per petrol station, most used first.
func StationUsage(doc *Document) []StationCount {
	counts := make(map[string]int)
	for _, rec := range doc.FuelingOperations {
		name := strings.TrimSpace(rec.PetrolStation)
		if name == "" {
			continue
		}
		counts[name]++
	}

	result := make([]StationCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, StationCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// StationNames returns known station names, most used first
func StationNames(doc *Document) []string {
	usage := StationUsage(doc)
	names := make([]string, len(usage))
	for i, sc := range usage {
		names[i] = sc.Name
	}
	return names
}

// CompleteStation expands input to the most used known station containing it
// (case-insensitive). Input that matches nothing is returned unchanged.
func CompleteStation(doc *Document, input string) string {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(input))
	if needle == "" {
		return input
	}
	for _, sc := range StationUsage(doc) {
		if strings.Contains(fold.String(sc.Name), needle) {
			return sc.Name
		}
	}
	return input
}

// MatchStations returns known stations containing input, most used first.
func MatchStations(doc *Document, input string) []StationCount {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(input))
	var result []StationCount
	for _, sc := range StationUsage(doc) {
		if needle == "" || strings.Contains(fold.String(sc.Name), needle) {
			result = append(result, sc)
		}
	}
	return result
}
