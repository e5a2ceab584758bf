package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository is the persistent store for user-added devices.
//
// It is a small key-value abstraction keyed by device id: the registry
// layers its contents over the default catalog, so implementations only
// ever hold user entries. Implementations must be safe for concurrent use.
type Repository interface {
	// List returns all user devices in stable insertion order.
	List(ctx context.Context) ([]Device, error)

	// GetByID returns a user device by id.
	// Returns ErrDeviceNotFound if the id is not in the store.
	GetByID(ctx context.Context, id string) (*Device, error)

	// Insert adds a new user device.
	// Returns ErrDeviceExists if the id is already in the store.
	Insert(ctx context.Context, d *Device) error

	// Upsert inserts or replaces a user device.
	Upsert(ctx context.Context, d *Device) error

	// Delete removes a user device by id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Clear removes all user devices.
	Clear(ctx context.Context) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open connection with the devices table
// migrated.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List returns all user devices ordered by insertion time.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, room, type, inverted
		FROM devices
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// GetByID returns a user device by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, description, room, type, inverted
		FROM devices
		WHERE id = ?`, id)

	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return d, nil
}

// Insert adds a new user device.
func (r *SQLiteRepository) Insert(ctx context.Context, d *Device) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (id, description, room, type, inverted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Description, d.Room, string(d.Type), boolToInt(d.Inverted), now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDeviceExists
		}
		return fmt.Errorf("inserting device: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a user device, preserving created_at on replace.
func (r *SQLiteRepository) Upsert(ctx context.Context, d *Device) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (id, description, room, type, inverted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			room = excluded.room,
			type = excluded.type,
			inverted = excluded.inverted,
			updated_at = excluded.updated_at`,
		d.ID, d.Description, d.Room, string(d.Type), boolToInt(d.Inverted), now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting device: %w", err)
	}
	return nil
}

// Delete removes a user device by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}
	return nil
}

// Clear removes all user devices.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM devices"); err != nil {
		return fmt.Errorf("clearing devices: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a device row in column order id, description, room,
// type, inverted.
func scanDevice(row rowScanner) (*Device, error) {
	var (
		d        Device
		typeStr  string
		inverted int
	)
	if err := row.Scan(&d.ID, &d.Description, &d.Room, &typeStr, &inverted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning device row: %w", err)
	}
	d.Type = Type(typeStr)
	d.Inverted = inverted != 0
	return &d, nil
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint
// violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
