package device

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the devices table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE devices (
			id          TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			room        TEXT NOT NULL DEFAULT '',
			type        TEXT NOT NULL CHECK (type IN ('DOOR', 'WINDOW')),
			inverted    INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		) STRICT;
		CREATE INDEX idx_devices_type ON devices(type);
		CREATE INDEX idx_devices_description ON devices(description);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close() //nolint:errcheck // Test cleanup
	})
	return db
}

// repositories returns each backend under test by name.
func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	return map[string]Repository{
		"sqlite": NewSQLiteRepository(setupTestDB(t)),
		"memory": NewMemoryRepository(),
	}
}

func TestRepositoryInsertAndGet(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := &Device{
				ID:          "ZWayVDev_zway_5-0-38",
				Description: "Ventana Cocina",
				Room:        "Cocina",
				Type:        TypeWindow,
				Inverted:    true,
			}

			if err := repo.Insert(ctx, d); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}

			got, err := repo.GetByID(ctx, d.ID)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if *got != *d {
				t.Errorf("GetByID() = %+v, want %+v", got, d)
			}
		})
	}
}

func TestRepositoryInsertDuplicate(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := &Device{ID: "dup", Description: "X", Type: TypeDoor}

			if err := repo.Insert(ctx, d); err != nil {
				t.Fatalf("first Insert() error = %v", err)
			}
			if err := repo.Insert(ctx, d); !errors.Is(err, ErrDeviceExists) {
				t.Errorf("second Insert() error = %v, want ErrDeviceExists", err)
			}
		})
	}
}

func TestRepositoryGetMissing(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrDeviceNotFound) {
				t.Errorf("GetByID(missing) error = %v, want ErrDeviceNotFound", err)
			}
		})
	}
}

func TestRepositoryUpsert(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			// Upsert on a fresh id inserts.
			d := &Device{ID: "up-1", Description: "Before", Type: TypeWindow}
			if err := repo.Upsert(ctx, d); err != nil {
				t.Fatalf("Upsert() insert error = %v", err)
			}

			// Upsert on an existing id replaces.
			d.Description = "After"
			d.Inverted = true
			if err := repo.Upsert(ctx, d); err != nil {
				t.Fatalf("Upsert() replace error = %v", err)
			}

			got, err := repo.GetByID(ctx, "up-1")
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if got.Description != "After" || !got.Inverted {
				t.Errorf("GetByID() = %+v, want the replacement", got)
			}

			list, err := repo.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 1 {
				t.Errorf("List() len = %d, want 1 (upsert must not duplicate)", len(list))
			}
		})
	}
}

func TestRepositoryDelete(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.Insert(ctx, &Device{ID: "del-1", Description: "X", Type: TypeDoor}); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}

			if err := repo.Delete(ctx, "del-1"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := repo.GetByID(ctx, "del-1"); !errors.Is(err, ErrDeviceNotFound) {
				t.Errorf("GetByID() after delete error = %v, want ErrDeviceNotFound", err)
			}

			// Deleting an absent id is a no-op.
			if err := repo.Delete(ctx, "del-1"); err != nil {
				t.Errorf("Delete(absent) error = %v, want nil", err)
			}
		})
	}
}

func TestRepositoryListOrderAndClear(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ids := []string{"c", "a", "b"}
			for _, id := range ids {
				if err := repo.Insert(ctx, &Device{ID: id, Description: "D " + id, Type: TypeWindow}); err != nil {
					t.Fatalf("Insert(%s) error = %v", id, err)
				}
			}

			list, err := repo.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 3 {
				t.Fatalf("List() len = %d, want 3", len(list))
			}

			if err := repo.Clear(ctx); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			list, err = repo.List(ctx)
			if err != nil {
				t.Fatalf("List() after clear error = %v", err)
			}
			if len(list) != 0 {
				t.Errorf("List() after clear len = %d, want 0", len(list))
			}
		})
	}
}
