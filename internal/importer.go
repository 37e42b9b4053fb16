package internal

import (
	"fmt"
	"sort"
	"strings"
)

// Importer reads fueling entries from a foreign file format
type Importer interface {
	Import(path string) ([]EntryInput, error)
}

// ImporterFunc is a function that implements Importer
type ImporterFunc func(path string) ([]EntryInput, error)

func (f ImporterFunc) Import(path string) ([]EntryInput, error) {
	return f(path)
}

// importers is the registry of available import formats
var importers = map[string]Importer{}

// RegisterImporter registers an importer with the given name
func RegisterImporter(name string, imp Importer) {
	importers[name] = imp
}

// GetImporter returns the importer for the given format
func GetImporter(format string) (Importer, error) {
	imp, ok := importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown import format: %s (available: %v)", format, AvailableImporters())
	}
	return imp, nil
}

// AvailableImporters returns the registered format names, sorted
func AvailableImporters() []string {
	var formats []string
	for name := range importers {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// IsKnownImporter returns true if the name is a registered importer
func IsKnownImporter(name string) bool {
	_, ok := importers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "xlsx:log.xlsx" → ("xlsx", "log.xlsx")
// Example: "C:\path\log.xlsx" → ("", "C:\path\log.xlsx") // Windows path
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownImporter(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known importer, treat whole thing as path
}

// DetectImportFormat picks an importer from the file extension
func DetectImportFormat(path string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".xlsx"):
		return "xlsx"
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		return "simple-json"
	}
	return ""
}

// ImportProblem reports an entry that was not imported
type ImportProblem struct {
	Entry int // 1-based position in the import file
	Err   error
}

func (p ImportProblem) Error() string {
	return fmt.Sprintf("entry %d: %v", p.Entry, p.Err)
}

// ImportEntries validates entries and appends them to doc. Entries without a
// liquid value become partial records. Invalid entries are skipped and reported.
func ImportEntries(doc *Document, entries []EntryInput, cfg *Config) (int, []ImportProblem, error) {
	if err := doc.ValidateMeta(); err != nil {
		return 0, nil, err
	}

	units := doc.Units.WithDefaults(DefaultUnits())
	var problems []ImportProblem
	added := 0
	for i, entry := range entries {
		entry.Station = cfg.CanonicalStation(strings.TrimSpace(entry.Station))

		var rec FuelingRecord
		var err error
		if strings.TrimSpace(entry.Liquid) == "" {
			rec, err = entry.PartialRecord(units)
		} else {
			rec, err = entry.Record(units)
		}
		if err != nil {
			problems = append(problems, ImportProblem{Entry: i + 1, Err: err})
			continue
		}
		doc.FuelingOperations = append(doc.FuelingOperations, rec)
		added++
	}
	return added, problems, nil
}

func init() {
	// Register built-in importers
	RegisterImporter("xlsx", ImporterFunc(ImportXLSX))
	RegisterImporter("simple-json", ImporterFunc(ImportSimpleJSON))
}
