// Package store persists the shop's documents (appointments, stylists,
// services, clients, vouchers, schedule) in SQLite. It stands in for the
// hosted document store the original clients talked to: string document
// ids, the original field shapes on the wire, and creation timestamps
// assigned by the store's clock at write time, never by the caller.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"barberbook/internal/events"
)

// Store wraps sql.DB and publishes change events on writes.
type Store struct {
	*sql.DB
	bus *events.Bus

	// now is the store clock; overridable in tests.
	now func() time.Time
}

// Open opens the database at path and runs migrations. The bus may be
// nil when no live views are wired.
func Open(path string, bus *events.Bus) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{DB: db, bus: bus, now: time.Now}, nil
}

func (s *Store) publish(topic, action, documentID string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{Topic: topic, Action: action, DocumentID: documentID})
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS stylists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			image_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS services (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price REAL NOT NULL,
			duration TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS clients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT,
			reputation TEXT NOT NULL DEFAULT 'regular',
			voucher_id TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS vouchers (
			id TEXT PRIMARY KEY,
			client_id TEXT NOT NULL,
			sessions INTEGER NOT NULL,
			remaining INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (client_id) REFERENCES clients(id)
		)`,

		`CREATE TABLE IF NOT EXISTS appointments (
			id TEXT PRIMARY KEY,
			stylist_id TEXT NOT NULL,
			service_id TEXT NOT NULL,
			client_id TEXT,
			client_name TEXT NOT NULL,
			booking_name TEXT,
			client_phone TEXT,
			date TEXT NOT NULL,
			hour TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pendiente',
			payment_method TEXT,
			reminder_sent BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (stylist_id) REFERENCES stylists(id)
		)`,

		`CREATE TABLE IF NOT EXISTS shop_schedule (
			day TEXT NOT NULL,
			position INTEGER NOT NULL,
			start_hour TEXT NOT NULL,
			end_hour TEXT NOT NULL,
			PRIMARY KEY (day, position)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_appointments_stylist_date ON appointments(stylist_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_client_created ON appointments(client_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
