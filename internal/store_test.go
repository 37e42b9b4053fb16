package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBook = `{
  "fuelingOperations": [
    {
      "date": "2024-01-01",
      "time": "08:00",
      "petrolStation": "Aral",
      "petrolType": "Super E5",
      "costs": 80.5,
      "liquid": 50.12,
      "distance": 650.6,
      "mileage": 79000,
      "units": {
        "costs": "€",
        "distance": "km",
        "liquid": "l"
      }
    },
    {
      "date": "2024-02-10",
      "time": "",
      "petrolStation": "",
      "petrolType": "",
      "costs": "",
      "liquid": null,
      "distance": "12",
      "mileage": "79600"
    }
  ],
  "meta": {
    "manufacturer": "VW",
    "model": "Golf"
  },
  "units": {
    "costs": "€",
    "distance": "km",
    "liquid": "l"
  }
}
`

func TestLogStore_LoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petrol_book.json")
	store := NewLogStore(path, Units{Costs: "kr"})

	doc, isNew, err := store.Load()
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotNil(t, doc.FuelingOperations)
	assert.Empty(t, doc.FuelingOperations)
	assert.Equal(t, Units{Costs: "kr", Distance: "km", Liquid: "l"}, doc.Units)

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "loading must not create the file")
}

func TestLogStore_LoadNoPath(t *testing.T) {
	doc, isNew, err := NewLogStore("", DefaultUnits()).Load()
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Empty(t, doc.FuelingOperations)
}

func TestLogStore_LoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{"},
		{"wrong root", "[]"},
		{"missing list", `{"meta": {"manufacturer": "VW", "model": "Golf"}}`},
		{"list is not an array", `{"fuelingOperations": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "book.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			doc, _, err := NewLogStore(path, DefaultUnits()).Load()
			require.ErrorIs(t, err, ErrMalformedDocument)
			assert.Nil(t, doc)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLogStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleBook), 0644))

	store := NewLogStore(path, DefaultUnits())
	doc, isNew, err := store.Load()
	require.NoError(t, err)
	assert.False(t, isNew)
	require.Len(t, doc.FuelingOperations, 2)
	assert.Equal(t, Meta{Manufacturer: "VW", Model: "Golf"}, doc.Meta)

	require.NoError(t, store.Save(doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleBook, string(data), "historical values must be written back unchanged")
}

func TestLogStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "book.json")
	store := NewLogStore(path, DefaultUnits())

	doc := NewDocument(DefaultUnits())
	doc.Meta = Meta{Manufacturer: "Opel", Model: "Astra"}
	require.NoError(t, store.Save(doc))
	require.NoError(t, store.Save(doc))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "book.json", entries[0].Name())

	reloaded, isNew, err := store.Load()
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, doc.Meta, reloaded.Meta)
}

func TestLogStore_SaveWithoutPath(t *testing.T) {
	err := NewLogStore("", DefaultUnits()).Save(NewDocument(DefaultUnits()))
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestEncode(t *testing.T) {
	doc := &Document{Meta: Meta{Manufacturer: "A&B", Model: "<1>"}}

	data, err := Encode(doc)
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasSuffix(s, "}\n"))
	assert.Contains(t, s, `"fuelingOperations": []`)
	assert.Contains(t, s, `"manufacturer": "A&B"`)
	assert.Contains(t, s, `"model": "<1>"`)
}

func TestDecode_DefaultsMissingMetaAndUnits(t *testing.T) {
	doc, err := Decode([]byte(`{"fuelingOperations": []}`))
	require.NoError(t, err)
	assert.Equal(t, Meta{}, doc.Meta)
	assert.Equal(t, DefaultUnits(), doc.Units)
}
