package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestIsKnownImporter(t *testing.T) {
	// Register a test importer
	RegisterImporter("test-format", ImporterFunc(func(path string) ([]EntryInput, error) {
		return nil, nil
	}))

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"known importer", "test-format", true},
		{"built-in xlsx", "xlsx", true},
		{"built-in json", "simple-json", true},
		{"unknown importer", "unknown-format", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsKnownImporter(tt.input)
			if got != tt.expected {
				t.Errorf("IsKnownImporter(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFileArg(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedFormat string
		expectedPath   string
	}{
		{
			name:           "with built-in format prefix",
			input:          "xlsx:log.xlsx",
			expectedFormat: "xlsx",
			expectedPath:   "log.xlsx",
		},
		{
			name:           "no prefix",
			input:          "entries.json",
			expectedFormat: "",
			expectedPath:   "entries.json",
		},
		{
			name:           "unknown prefix treated as path",
			input:          "unknown:entries.json",
			expectedFormat: "",
			expectedPath:   "unknown:entries.json",
		},
		{
			name:           "windows path with drive letter",
			input:          "C:\\Users\\test\\log.xlsx",
			expectedFormat: "",
			expectedPath:   "C:\\Users\\test\\log.xlsx",
		},
		{
			name:           "format prefix with absolute path",
			input:          "simple-json:/home/user/entries.json",
			expectedFormat: "simple-json",
			expectedPath:   "/home/user/entries.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFormat, gotPath := ParseFileArg(tt.input)
			if gotFormat != tt.expectedFormat {
				t.Errorf("ParseFileArg(%q) format = %q, want %q", tt.input, gotFormat, tt.expectedFormat)
			}
			if gotPath != tt.expectedPath {
				t.Errorf("ParseFileArg(%q) path = %q, want %q", tt.input, gotPath, tt.expectedPath)
			}
		})
	}
}

func TestDetectImportFormat(t *testing.T) {
	assert.Equal(t, "xlsx", DetectImportFormat("log.XLSX"))
	assert.Equal(t, "simple-json", DetectImportFormat("entries.json"))
	assert.Equal(t, "", DetectImportFormat("entries.csv"))
}

func TestGetImporter_Unknown(t *testing.T) {
	_, err := GetImporter("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown import format")
}

func TestImportSimpleJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	content := `{
  "entries": [
    {"date": "2025-01-15", "time": "08:30", "petrolStation": "Aral", "petrolType": "Super E5",
     "costs": 80.50, "liquid": 50.12, "distance": 650.6, "mileage": 79000},
    {"date": "2025-02-01", "mileage": "79420"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := ImportSimpleJSON(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, EntryInput{
		Date: "2025-01-15", Time: "08:30", Station: "Aral", PetrolType: "Super E5",
		Costs: "80.50", Liquid: "50.12", Distance: "650.6", Mileage: "79000",
	}, entries[0])
	assert.Equal(t, "", entries[1].Liquid)
	assert.Equal(t, "79420", entries[1].Mileage)
}

func TestImportSimpleJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := ImportSimpleJSON(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing JSON")
}

func TestImportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	rows := [][]any{
		{"My car"},
		{},
		{"Date", "Time", "Petrol Station", "Petrol Type", "Costs", "Liquid", "Distance", "Mileage"},
		{"2025-01-15", "08:30", "Aral", "Super E5", "80,50", "50.12", "650.6", "79000"},
		{"", "", "notes row without date"},
		{"01.02.2025", "", "", "", "", "", "", "79420"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	entries, err := ImportXLSX(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "2025-01-15", entries[0].Date)
	assert.Equal(t, "08:30", entries[0].Time)
	assert.Equal(t, "Aral", entries[0].Station)
	assert.Equal(t, "80,50", entries[0].Costs)
	assert.Equal(t, "2025-02-01", entries[1].Date)
	assert.Equal(t, "", entries[1].Liquid)
}

func TestImportXLSX_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Costs"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := ImportXLSX(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required columns")
}

func TestImportEntries(t *testing.T) {
	doc := NewDocument(DefaultUnits())
	doc.Meta = Meta{Manufacturer: "VW", Model: "Golf"}

	cfg := NewDefaultConfig()
	cfg.Stations = []StationAlias{{Name: "Aral", Patterns: []string{"^aral"}}}
	compileStationPatterns(t, cfg)

	entries := []EntryInput{
		{Date: "2025-01-15", Time: "08:30", Station: "ARAL Tankstelle", Costs: "80.50", Liquid: "50.12", Distance: "650.6", Mileage: "79000"},
		{Date: "2025-02-01", Mileage: "79420"},
		{Date: "2025-02-10", Time: "09:00", Costs: "0", Liquid: "40", Distance: "500", Mileage: "79900"},
	}

	added, problems, err := ImportEntries(doc, entries, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	require.Len(t, problems, 1)
	assert.Equal(t, 3, problems[0].Entry)
	assert.True(t, errors.Is(problems[0].Err, ErrInvalidInput))

	require.Len(t, doc.FuelingOperations, 2)
	assert.Equal(t, "Aral", doc.FuelingOperations[0].PetrolStation)
	assert.True(t, doc.FuelingOperations[1].Liquid.IsEmpty())
	assert.Equal(t, "79420", doc.FuelingOperations[1].Mileage.Text())
}

func TestImportEntries_RequiresMeta(t *testing.T) {
	doc := NewDocument(DefaultUnits())

	added, _, err := ImportEntries(doc, []EntryInput{{Date: "2025-02-01", Mileage: "1"}}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, added)
	assert.Empty(t, doc.FuelingOperations)
}

// compileStationPatterns round-trips cfg through a file so aliases are compiled
func compileStationPatterns(t *testing.T, cfg *Config) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.Save(path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	*cfg = *loaded
}
