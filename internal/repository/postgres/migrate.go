package postgres

import "database/sql"

// migration pairs a name with the DDL that brings the schema forward.
type migration struct {
	Name string
	Up   string
}

var migrations = []migration{
	{
		Name: "initial_schema",
		Up: `
			CREATE EXTENSION IF NOT EXISTS pgcrypto;

			CREATE TABLE IF NOT EXISTS events (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				title TEXT NOT NULL,
				slug TEXT NOT NULL,
				description TEXT NOT NULL,
				overview TEXT NOT NULL,
				image TEXT NOT NULL,
				venue TEXT NOT NULL,
				location TEXT NOT NULL,
				date TEXT NOT NULL,
				time TEXT NOT NULL,
				mode TEXT NOT NULL,
				audience TEXT NOT NULL,
				agenda TEXT[] NOT NULL,
				organizer TEXT NOT NULL,
				tags TEXT[] NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);

			-- The unique index is the authority for slug uniqueness; the
			-- in-process probe only resolves the common case.
			CREATE UNIQUE INDEX IF NOT EXISTS idx_events_slug ON events (slug);
			CREATE INDEX IF NOT EXISTS idx_events_tags ON events USING GIN (tags);

			CREATE TABLE IF NOT EXISTS bookings (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				event_id UUID NOT NULL REFERENCES events (id),
				email TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_bookings_event ON bookings (event_id);
		`,
	},
}

// Migrate runs all pending migrations against db.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS _migrations (
			name TEXT PRIMARY KEY,
			run_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`); err != nil {
		return err
	}

	for _, m := range migrations {
		var applied bool
		if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM _migrations WHERE name = $1)`, m.Name).Scan(&applied); err != nil {
			return err
		}
		if applied {
			continue
		}
		if _, err := db.Exec(m.Up); err != nil {
			return err
		}
		if _, err := db.Exec(`INSERT INTO _migrations (name) VALUES ($1)`, m.Name); err != nil {
			return err
		}
	}
	return nil
}
