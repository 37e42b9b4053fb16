package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// StationAlias maps spellings of a petrol station to one canonical name
type StationAlias struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`

	// compiled patterns
	regexes []*regexp.Regexp `yaml:"-"`
}

type Config struct {
	// File is the petrol book used when no file argument is given
	File string `yaml:"file,omitempty"`

	// PerDistance is the reference distance for consumption ratios (default 100)
	PerDistance int `yaml:"per_distance,omitempty"`

	// Currency is an ISO 4217 code used to pick the cost unit of new petrol books,
	// or "auto" to derive it from the system locale.
	Currency string `yaml:"currency,omitempty"`

	// Units overrides the unit labels of new petrol books
	Units *Units `yaml:"units,omitempty"`

	// PetrolTypes extends the petrol type suggestions
	PetrolTypes []string `yaml:"petrol_types,omitempty"`

	// UseDefaultPetrolTypes controls whether the built-in petrol types are suggested.
	// Defaults to true.
	UseDefaultPetrolTypes *bool `yaml:"use_default_petrol_types,omitempty"`

	// Stations canonicalizes station names of new records
	Stations []StationAlias `yaml:"stations,omitempty"`
}

// DefaultConfigPath returns the default config file path (~/.petrol-book/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".petrol-book", "config.yaml")
}

// DefaultLogPath returns the petrol book used when nothing else is configured
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "petrol_book.json"
	}
	return filepath.Join(home, "petrol_book.json")
}

// NewDefaultConfig creates a config with built-in defaults only.
// Use this when no config file exists.
func NewDefaultConfig() *Config {
	return &Config{PerDistance: DefaultReferenceDistance}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.PerDistance < 0 {
		return nil, fmt.Errorf("invalid per_distance %d: must be positive", cfg.PerDistance)
	}
	if cfg.PerDistance == 0 {
		cfg.PerDistance = DefaultReferenceDistance
	}

	// Compile station patterns
	for i := range cfg.Stations {
		if strings.TrimSpace(cfg.Stations[i].Name) == "" {
			return nil, fmt.Errorf("station alias %d has no name", i+1)
		}
		for _, pattern := range cfg.Stations[i].Patterns {
			re, err := regexp.Compile("(?i)" + pattern) // case-insensitive
			if err != nil {
				return nil, fmt.Errorf("invalid station pattern %q: %w", pattern, err)
			}
			cfg.Stations[i].regexes = append(cfg.Stations[i].regexes, re)
		}
	}

	return &cfg, nil
}

// LoadConfigOrDefault loads path, falling back to NewDefaultConfig when the
// file does not exist. Any other error is returned.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		return NewDefaultConfig(), nil
	}
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDefaultConfig(), nil
	}
	return cfg, err
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ReferenceDistance returns the configured per-distance, or the default
func (c *Config) ReferenceDistance() int {
	if c == nil || c.PerDistance <= 0 {
		return DefaultReferenceDistance
	}
	return c.PerDistance
}

// LogPath returns the configured petrol book with ~ expanded, or DefaultLogPath
func (c *Config) LogPath() string {
	if c == nil || c.File == "" {
		return DefaultLogPath()
	}
	if rest, ok := strings.CutPrefix(c.File, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return c.File
}

// NewDocumentUnits returns the unit labels for a new petrol book:
// explicit units first, then the configured currency, then DefaultUnits.
func (c *Config) NewDocumentUnits() Units {
	units := DefaultUnits()
	if c == nil {
		return units
	}

	switch code := strings.TrimSpace(c.Currency); {
	case strings.EqualFold(code, "auto"):
		if detected := DetectSystemCurrency(); detected != "" {
			units.Costs = GetCurrency(detected).Symbol()
		}
	case code != "":
		units.Costs = GetCurrency(code).Symbol()
	}

	if c.Units != nil {
		units = c.Units.WithDefaults(units)
	}
	return units
}

// PetrolTypeSuggestions returns the petrol types offered by entry forms
func (c *Config) PetrolTypeSuggestions() []string {
	var result []string
	seen := make(map[string]bool)
	add := func(types []string) {
		for _, t := range types {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			result = append(result, t)
		}
	}

	if c == nil || c.UseDefaultPetrolTypes == nil || *c.UseDefaultPetrolTypes {
		add(DefaultPetrolTypes)
	}
	if c != nil {
		add(c.PetrolTypes)
	}
	return result
}

// CanonicalStation returns the alias name of the first station alias matching
// name, or name unchanged.
func (c *Config) CanonicalStation(name string) string {
	if c == nil {
		return name
	}
	for _, alias := range c.Stations {
		for _, re := range alias.regexes {
			if re.MatchString(name) {
				return alias.Name
			}
		}
	}
	return name
}

// GenerateConfigTemplate creates a config template listing the stations of doc
func GenerateConfigTemplate(doc *Document) *Config {
	cfg := &Config{
		PerDistance: DefaultReferenceDistance,
	}
	if doc == nil {
		return cfg
	}

	for _, sc := range StationUsage(doc) {
		cfg.Stations = append(cfg.Stations, StationAlias{
			Name:     sc.Name,
			Patterns: []string{"^" + regexp.QuoteMeta(sc.Name) + "$"},
		})
	}
	return cfg
}
