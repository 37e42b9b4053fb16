package internal

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTable(t *testing.T) {
	doc, err := Decode([]byte(sampleBook))
	require.NoError(t, err)

	table, err := BuildTable(doc, DefaultReferenceDistance)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, table.Status)
	assert.Equal(t, "petrol book loaded successfully", table.StatusMessage())
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2024-02-10", table.Rows[0].Date)
	assert.True(t, table.Rows[0].Partial)
	assert.Equal(t, "1250.6 km", table.Rows[0].Mileage) // 79600 - (79000 - 650.6)
	assert.Equal(t, "-", table.Rows[0].CostPerLiquid)
	assert.Equal(t, "1.606 € / l", table.Rows[1].CostPerLiquid)
	assert.Equal(t, 1, table.Summary.WithMetrics)
}

func TestBuildTable_Empty(t *testing.T) {
	table, err := BuildTable(NewDocument(DefaultUnits()), DefaultReferenceDistance)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, table.Status)
	assert.Equal(t, "petrol book is empty", table.StatusMessage())
	assert.Empty(t, table.Rows)
}

func TestBuildTable_WithProblems(t *testing.T) {
	doc := NewDocument(DefaultUnits())
	doc.FuelingOperations = []FuelingRecord{
		completeRecord("2024-01-01", "08:00", 80, 50, 600, 80000),
		completeRecord("2024-01-05", "08:00", 80, 0, 600, 80600),
	}

	table, err := BuildTable(doc, DefaultReferenceDistance)
	require.NoError(t, err)
	require.Len(t, table.Problems, 1)
	assert.Equal(t, "petrol book loaded with problems", table.StatusMessage())
	assert.Len(t, table.Rows, 2)
}

func TestBuildTable_ProblemsAreNotWarnedTwice(t *testing.T) {
	// Problems reach the user through Table.Problems; the log only has them at debug
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	doc := NewDocument(DefaultUnits())
	doc.FuelingOperations = []FuelingRecord{
		completeRecord("2024-01-05", "08:00", 80, 0, 600, 80600),
	}
	table, err := BuildTable(doc, DefaultReferenceDistance)
	require.NoError(t, err)
	require.Len(t, table.Problems, 1)
	assert.Empty(t, buf.String())
}

func TestBuildTable_InvalidReferenceDistance(t *testing.T) {
	_, err := BuildTable(NewDocument(DefaultUnits()), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
