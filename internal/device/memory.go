package device

import (
	"context"
	"sync"
)

// MemoryRepository implements Repository with an in-process map.
//
// It backs diskless deployments and tests. Insertion order is preserved so
// merged listings stay deterministic, matching the SQLite backend's
// created_at ordering.
type MemoryRepository struct {
	mu      sync.RWMutex
	devices map[string]*Device
	order   []string
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		devices: make(map[string]*Device),
	}
}

// List returns all user devices in insertion order.
func (m *MemoryRepository) List(_ context.Context) ([]Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	devices := make([]Device, 0, len(m.order))
	for _, id := range m.order {
		devices = append(devices, *m.devices[id])
	}
	return devices, nil
}

// GetByID returns a user device by id.
func (m *MemoryRepository) GetByID(_ context.Context, id string) (*Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	cpy := *d
	return &cpy, nil
}

// Insert adds a new user device.
func (m *MemoryRepository) Insert(_ context.Context, d *Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.devices[d.ID]; exists {
		return ErrDeviceExists
	}
	cpy := *d
	m.devices[d.ID] = &cpy
	m.order = append(m.order, d.ID)
	return nil
}

// Upsert inserts or replaces a user device.
func (m *MemoryRepository) Upsert(_ context.Context, d *Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cpy := *d
	if _, exists := m.devices[d.ID]; !exists {
		m.order = append(m.order, d.ID)
	}
	m.devices[d.ID] = &cpy
	return nil
}

// Delete removes a user device by id. Absent ids are a no-op.
func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.devices[id]; !exists {
		return nil
	}
	delete(m.devices, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes all user devices.
func (m *MemoryRepository) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.devices = make(map[string]*Device)
	m.order = nil
	return nil
}
