package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
file: /tmp/book.json
per_distance: 1
currency: SEK
petrol_types:
  - Diesel
  - Super E10
use_default_petrol_types: false
stations:
  - name: Aral
    patterns:
      - "^aral"
      - "bahnhof"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/book.json", cfg.LogPath())
	assert.Equal(t, 1, cfg.ReferenceDistance())
	assert.Equal(t, []string{"Diesel", "Super E10"}, cfg.PetrolTypeSuggestions())
	assert.Equal(t, "kr", cfg.NewDocumentUnits().Costs)
	assert.Equal(t, "Aral", cfg.CanonicalStation("ARAL Tankstelle"))
	assert.Equal(t, "Aral", cfg.CanonicalStation("Am Bahnhof"))
	assert.Equal(t, "Shell", cfg.CanonicalStation("Shell"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "currency: EUR\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultReferenceDistance, cfg.ReferenceDistance())
	assert.Equal(t, DefaultPetrolTypes, cfg.PetrolTypeSuggestions())
	assert.Equal(t, DefaultUnits(), cfg.NewDocumentUnits())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"negative per_distance", "per_distance: -5\n", "per_distance"},
		{"bad pattern", "stations:\n  - name: X\n    patterns: [\"(\"]\n", "invalid station pattern"},
		{"alias without name", "stations:\n  - patterns: [\"x\"]\n", "has no name"},
		{"invalid yaml", "stations: [\n", "parsing config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfigOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
}

func TestConfig_NewDocumentUnits(t *testing.T) {
	skipSystemLocale = true
	t.Cleanup(func() { skipSystemLocale = false })
	t.Setenv("LC_ALL", "en_GB.UTF-8")

	tests := []struct {
		name string
		cfg  *Config
		want Units
	}{
		{"nil config", nil, DefaultUnits()},
		{"iso code", &Config{Currency: "usd"}, Units{Costs: "$", Distance: "km", Liquid: "l"}},
		{"auto", &Config{Currency: "auto"}, Units{Costs: "£", Distance: "km", Liquid: "l"}},
		{"explicit units win", &Config{Currency: "USD", Units: &Units{Costs: "USD", Distance: "mi", Liquid: "gal"}}, Units{Costs: "USD", Distance: "mi", Liquid: "gal"}},
		{"partial units", &Config{Units: &Units{Distance: "mi"}}, Units{Costs: "€", Distance: "mi", Liquid: "l"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.NewDocumentUnits())
		})
	}
}

func TestConfig_LogPathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &Config{File: "~/cars/golf.json"}
	assert.Equal(t, filepath.Join(home, "cars", "golf.json"), cfg.LogPath())
	assert.Equal(t, filepath.Join(home, "petrol_book.json"), (&Config{}).LogPath())
}

func TestGenerateConfigTemplate(t *testing.T) {
	doc := stationDoc("Aral (Mitte)", "Shell", "Aral (Mitte)")

	cfg := GenerateConfigTemplate(doc)
	require.Len(t, cfg.Stations, 2)
	assert.Equal(t, "Aral (Mitte)", cfg.Stations[0].Name)
	assert.Equal(t, []string{`^Aral \(Mitte\)$`}, cfg.Stations[0].Patterns)

	// The template must load back
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.Save(path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Aral (Mitte)", loaded.CanonicalStation("aral (mitte)"))
}
