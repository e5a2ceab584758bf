package device

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Logger is the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Subscriber receives the full merged device list after every successful
// registry mutation. There are no incremental diffs; subscribers always
// get a complete snapshot they can render directly.
type Subscriber func(devices []Device)

// Registry layers the persistent user store over the immutable default
// catalog and presents one deduplicated device list.
//
// The merged view is recomputed from the store on every read. The registry
// holds no mutable state of its own beyond the subscriber list, so it can
// never serve a stale merge. A user entry with a catalog id overrides the
// catalog entry in place; deleting it makes the catalog entry reappear.
//
// All public methods are safe for concurrent use.
type Registry struct {
	catalog []Device
	repo    Repository
	logger  Logger

	subMu       sync.RWMutex
	subscribers []Subscriber
}

// NewRegistry creates a registry over the given catalog and store.
// The catalog slice is copied; later mutations by the caller are not seen.
// A nil repo is allowed and reports ErrStoreNotReady on every mutation,
// with reads falling back to the catalog alone.
func NewRegistry(catalog []Device, repo Repository) *Registry {
	cpy := make([]Device, len(catalog))
	copy(cpy, catalog)
	return &Registry{
		catalog: cpy,
		repo:    repo,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Merge combines the default catalog with user devices, keyed by id.
//
// Defaults are inserted first in their given order; user entries overwrite
// colliding ids in place and net-new user entries append in their given
// order. The result is deterministic for identical inputs. Merge is pure:
// neither input is modified.
func Merge(defaults, user []Device) []Device {
	index := make(map[string]int, len(defaults)+len(user))
	merged := make([]Device, 0, len(defaults)+len(user))

	for _, d := range defaults {
		if i, seen := index[d.ID]; seen {
			merged[i] = d
			continue
		}
		index[d.ID] = len(merged)
		merged = append(merged, d)
	}
	for _, d := range user {
		if i, seen := index[d.ID]; seen {
			merged[i] = d
			continue
		}
		index[d.ID] = len(merged)
		merged = append(merged, d)
	}

	return merged
}

// Devices returns the current merged device list.
// It recomputes the merge from the store on every call.
func (r *Registry) Devices(ctx context.Context) ([]Device, error) {
	if r.repo == nil {
		return Merge(r.catalog, nil), nil
	}

	user, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing user devices: %w", err)
	}
	return Merge(r.catalog, user), nil
}

// GetByID looks a device up in the user store first, falling back to the
// default catalog. Returns ErrDeviceNotFound if the id is in neither.
func (r *Registry) GetByID(ctx context.Context, id string) (*Device, error) {
	if r.repo != nil {
		d, err := r.repo.GetByID(ctx, id)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, ErrDeviceNotFound) {
			return nil, err
		}
	}

	for i := range r.catalog {
		if r.catalog[i].ID == id {
			cpy := r.catalog[i]
			return &cpy, nil
		}
	}
	return nil, ErrDeviceNotFound
}

// Add inserts a new user device.
//
// An empty id is assigned a generated one. Returns ErrDeviceExists when the
// id is already in the user store; an id that only collides with the
// catalog is accepted and becomes an override. Subscribers are notified on
// success.
func (r *Registry) Add(ctx context.Context, d *Device) error {
	if r.repo == nil {
		return ErrStoreNotReady
	}
	if d != nil && d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := Validate(d); err != nil {
		return err
	}

	if err := r.repo.Insert(ctx, d); err != nil {
		return err
	}

	r.logger.Info("device added", "id", d.ID, "type", d.Type)
	r.notify(ctx)
	return nil
}

// Update inserts or replaces a user device (upsert semantics).
// Updating a catalog device materialises an override in the store.
// Subscribers are notified on success.
func (r *Registry) Update(ctx context.Context, d *Device) error {
	if r.repo == nil {
		return ErrStoreNotReady
	}
	if err := Validate(d); err != nil {
		return err
	}

	if err := r.repo.Upsert(ctx, d); err != nil {
		return err
	}

	r.logger.Info("device updated", "id", d.ID)
	r.notify(ctx)
	return nil
}

// Delete removes a user device by id. If the id also exists in the default
// catalog, the catalog entry reappears in subsequent listings. Subscribers
// are notified on success.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if r.repo == nil {
		return ErrStoreNotReady
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("device deleted", "id", id)
	r.notify(ctx)
	return nil
}

// Clear removes all user devices, restoring the plain catalog view.
// Subscribers are notified on success.
func (r *Registry) Clear(ctx context.Context) error {
	if r.repo == nil {
		return ErrStoreNotReady
	}

	if err := r.repo.Clear(ctx); err != nil {
		return err
	}

	r.logger.Info("user devices cleared")
	r.notify(ctx)
	return nil
}

// Catalog returns a copy of the immutable default catalog.
func (r *Registry) Catalog() []Device {
	cpy := make([]Device, len(r.catalog))
	copy(cpy, r.catalog)
	return cpy
}

// Count returns the number of devices in the current merged view.
func (r *Registry) Count(ctx context.Context) int {
	devices, err := r.Devices(ctx)
	if err != nil {
		return len(r.catalog)
	}
	return len(devices)
}

// Subscribe registers a subscriber for full-snapshot notifications.
// The subscriber is invoked synchronously after every successful mutation;
// it must not call back into registry mutations.
func (r *Registry) Subscribe(fn Subscriber) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// notify pushes the current merged list to all subscribers.
// A store failure during recompute is logged, not surfaced: the mutation
// that triggered the notification has already succeeded.
func (r *Registry) notify(ctx context.Context) {
	devices, err := r.Devices(ctx)
	if err != nil {
		r.logger.Error("recomputing device list for subscribers", "error", err)
		return
	}

	r.subMu.RLock()
	subs := make([]Subscriber, len(r.subscribers))
	copy(subs, r.subscribers)
	r.subMu.RUnlock()

	for _, fn := range subs {
		fn(devices)
	}
}
