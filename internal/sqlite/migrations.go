package sqlite

import "database/sql"

// schema holds the export tables. Each export replaces their content.
const schema = `
CREATE TABLE IF NOT EXISTS vehicle (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    manufacturer TEXT NOT NULL,
    model TEXT NOT NULL,
    costs_unit TEXT NOT NULL,
    distance_unit TEXT NOT NULL,
    liquid_unit TEXT NOT NULL,
    reference_distance INTEGER NOT NULL,
    exported_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
    position INTEGER PRIMARY KEY,
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    petrol_station TEXT NOT NULL,
    petrol_type TEXT NOT NULL,
    costs TEXT,
    liquid TEXT,
    distance TEXT,
    mileage TEXT,
    costs_unit TEXT,
    distance_unit TEXT,
    liquid_unit TEXT
);

CREATE TABLE IF NOT EXISTS display_rows (
    position INTEGER PRIMARY KEY,
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    petrol_station TEXT NOT NULL,
    petrol_type TEXT NOT NULL,
    costs TEXT NOT NULL,
    liquid TEXT NOT NULL,
    distance TEXT NOT NULL,
    mileage TEXT NOT NULL,
    cost_per_liquid TEXT NOT NULL,
    liquid_per_reference_distance TEXT NOT NULL,
    cost_per_reference_distance TEXT NOT NULL,
    partial INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_date ON records(date, time);
CREATE INDEX IF NOT EXISTS idx_records_petrol_station ON records(petrol_station);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
