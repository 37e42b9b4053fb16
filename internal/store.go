package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// LogStore owns the on-disk copy of one petrol book.
// Every write goes through Save; nothing else touches the file.
type LogStore struct {
	path     string
	defaults Units
}

// NewLogStore creates a store for path. defaults are the unit labels of new documents.
func NewLogStore(path string, defaults Units) *LogStore {
	return &LogStore{
		path:     path,
		defaults: defaults.WithDefaults(DefaultUnits()),
	}
}

// Path returns the file the store reads and writes
func (s *LogStore) Path() string {
	return s.path
}

// NewDocument returns an empty petrol book using the given unit labels
func NewDocument(units Units) *Document {
	return &Document{
		FuelingOperations: []FuelingRecord{},
		Units:             units.WithDefaults(DefaultUnits()),
	}
}

// Load reads the petrol book. A missing file (or no path at all) yields a fresh
// document and isNew=true. A file that exists but cannot be parsed returns
// ErrMalformedDocument and no document.
func (s *LogStore) Load() (doc *Document, isNew bool, err error) {
	if s.path == "" {
		return NewDocument(s.defaults), true, nil
	}

	doc, err = s.read()
	if errors.Is(err, ErrPathNotFound) {
		slog.Debug("Petrol book not found, starting a new one", "path", s.path)
		return NewDocument(s.defaults), true, nil
	}
	if err != nil {
		return nil, false, err
	}

	slog.Debug("Loaded petrol book", "path", s.path, "records", len(doc.FuelingOperations))
	return doc, false, nil
}

func (s *LogStore) read() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.path, ErrPathNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	doc, err := decode(data, s.defaults)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return doc, nil
}

// Save replaces the file content with the serialized document.
// The new content is written to a temporary file first and renamed into place.
func (s *LogStore) Save(doc *Document) error {
	if s.path == "" {
		return ErrNoPath
	}

	data, err := Encode(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing petrol book: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing petrol book: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing petrol book: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing petrol book: %w", err)
	}

	slog.Debug("Saved petrol book", "path", s.path, "records", len(doc.FuelingOperations))
	return nil
}

// documentShape detects missing top-level keys
type documentShape struct {
	FuelingOperations *[]FuelingRecord `json:"fuelingOperations"`
	Meta              *Meta            `json:"meta"`
	Units             *Units           `json:"units"`
}

// Decode parses a petrol book, defaulting missing meta and units.
func Decode(data []byte) (*Document, error) {
	return decode(data, DefaultUnits())
}

func decode(data []byte, defaults Units) (*Document, error) {
	var shape documentShape
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if shape.FuelingOperations == nil {
		return nil, fmt.Errorf("%w: missing fuelingOperations list", ErrMalformedDocument)
	}

	doc := &Document{
		FuelingOperations: *shape.FuelingOperations,
		Units:             defaults,
	}
	if shape.Meta != nil {
		doc.Meta = *shape.Meta
	}
	if shape.Units != nil {
		doc.Units = *shape.Units
	}
	return doc, nil
}

// Encode serializes the document the way it is stored: two-space indentation,
// no HTML escaping and a trailing newline.
func Encode(doc *Document) ([]byte, error) {
	if doc.FuelingOperations == nil {
		doc.FuelingOperations = []FuelingRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshaling petrol book: %w", err)
	}
	return buf.Bytes(), nil
}
