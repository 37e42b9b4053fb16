package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Empty(t *testing.T) {
	rows, status := Format(nil, DefaultReferenceDistance)
	assert.Equal(t, StatusEmpty, status)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFormat_CompleteRecord(t *testing.T) {
	derived, _ := derive(t, []FuelingRecord{
		completeRecord("2024-01-01", "08:00", 80.50, 50.12, 650.6, 79000),
	}, DefaultReferenceDistance)

	rows, status := Format(derived, DefaultReferenceDistance)
	require.Equal(t, StatusOK, status)
	require.Len(t, rows, 1)

	assert.Equal(t, DisplayRow{
		Date:                       "2024-01-01",
		Time:                       "08:00",
		PetrolStation:              "Aral",
		PetrolType:                 "Super E5",
		Costs:                      "80.50 €",
		Liquid:                     "50.12 l",
		Distance:                   "650.6 km",
		Mileage:                    "650.6 km",
		CostPerLiquid:              "1.606 € / l",
		LiquidPerReferenceDistance: "7.70 l / 100km",
		CostPerReferenceDistance:   "12.37 € / 100km",
	}, rows[0])
}

func TestFormat_PartialRecordShowsRawValues(t *testing.T) {
	derived, _ := derive(t, []FuelingRecord{
		{Date: "2024-02-01", Costs: TextField(""), Liquid: NullField(), Distance: TextField("12"), Mileage: TextField("79600")},
	}, DefaultReferenceDistance)

	rows, _ := Format(derived, DefaultReferenceDistance)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.True(t, r.Partial)
	assert.Equal(t, Unavailable, r.Time)
	assert.Equal(t, Unavailable, r.PetrolStation)
	assert.Equal(t, Unavailable, r.Costs)
	assert.Equal(t, Unavailable, r.Liquid)
	assert.Equal(t, "12 km", r.Distance)
	assert.Equal(t, Unavailable, r.Mileage)
	assert.Equal(t, Unavailable, r.CostPerLiquid)
	assert.Equal(t, Unavailable, r.LiquidPerReferenceDistance)
	assert.Equal(t, Unavailable, r.CostPerReferenceDistance)
}

func TestFormat_UsesRecordUnits(t *testing.T) {
	rec := completeRecord("2024-01-01", "08:00", 100, 40, 500, 10500)
	rec.Units = &Units{Costs: "kr", Distance: "mi", Liquid: "gal"}
	derived, _ := derive(t, []FuelingRecord{rec}, 1)

	rows, _ := Format(derived, 1)
	assert.Equal(t, "100.00 kr", rows[0].Costs)
	assert.Equal(t, "2.500 kr / gal", rows[0].CostPerLiquid)
	assert.Equal(t, "0.08 gal / 1mi", rows[0].LiquidPerReferenceDistance)
}

func TestFormat_SortsMostRecentFirst(t *testing.T) {
	derived, _ := derive(t, []FuelingRecord{
		completeRecord("2024-02-10", "09:30", 75, 48, 600, 80600),
		completeRecord("2024-01-01", "08:00", 80, 50, 600, 80000),
		completeRecord("2024-03-15", "12:00", 70, 45, 600, 81200),
	}, DefaultReferenceDistance)

	rows, _ := Format(derived, DefaultReferenceDistance)

	var dates []string
	for _, r := range rows {
		dates = append(dates, r.Date)
	}
	assert.Equal(t, []string{"2024-03-15", "2024-02-10", "2024-01-01"}, dates)
}

func TestSortForDisplay(t *testing.T) {
	tests := []struct {
		name string
		rows []DisplayRow
		want []string
	}{
		{
			name: "time orders same day",
			rows: []DisplayRow{{Date: "2024-01-01", Time: "07:00"}, {Date: "2024-01-01", Time: "18:00"}},
			want: []string{"2024-01-01 18:00", "2024-01-01 07:00"},
		},
		{
			name: "equal keys keep input order",
			rows: []DisplayRow{{Date: "2024-01-01", Time: "08:00", PetrolStation: "a"}, {Date: "2024-01-01", Time: "08:00", PetrolStation: "b"}},
			want: []string{"2024-01-01 08:00", "2024-01-01 08:00"},
		},
		{
			name: "unparseable dates last",
			rows: []DisplayRow{{Date: "someday", Time: "-"}, {Date: "2023-05-01", Time: "-"}},
			want: []string{"2023-05-01 -", "someday -"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortForDisplay(tt.rows)
			var got []string
			for _, r := range tt.rows {
				got = append(got, r.Date+" "+r.Time)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	stable := []DisplayRow{{Date: "2024-01-01", Time: "08:00", PetrolStation: "a"}, {Date: "2024-01-01", Time: "08:00", PetrolStation: "b"}}
	SortForDisplay(stable)
	assert.Equal(t, "a", stable[0].PetrolStation)
}

func TestColumnHeaders(t *testing.T) {
	headers := ColumnHeaders(1)
	require.Len(t, headers, len(Columns))
	assert.Equal(t, "Date", headers[0])
	assert.Equal(t, "Liquid / 1 Distance", headers[9])
	assert.Equal(t, "Costs / 1 Distance", headers[10])
	assert.Equal(t, "Liquid / Distance", Columns[9], "Columns must not be modified")
}
