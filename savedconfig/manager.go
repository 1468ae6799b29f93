package savedconfig

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"pin-editor/pinstate"
	"pin-editor/storage"
)

// Manager handles creating, listing, deleting and applying saved
// configurations. The list lives in the durable blob; Manager keeps no
// copy of its own.
type Manager struct {
	store *storage.Store
	newID func() string
}

// NewManager returns a Manager persisting through store.
func NewManager(store *storage.Store) *Manager {
	return &Manager{store: store, newID: func() string { return uuid.New().String() }}
}

// Create snapshots overrides under name and appends it to the list. Names
// are trimmed and need not be unique. A blank name is rejected with
// ErrEmptyName and nothing is stored.
func (m *Manager) Create(ctx context.Context, name, connectorID string, overrides pinstate.OverrideMap) (storage.SavedConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.SavedConfig{}, ErrEmptyName
	}

	cfg := storage.SavedConfig{
		ID:              m.newID(),
		Name:            name,
		ConnectorTypeID: connectorID,
		PinOverrides:    overrides.Clone(),
	}
	m.store.UpdateSavedConfigs(ctx, func(list []storage.SavedConfig) []storage.SavedConfig {
		return append(list, cfg)
	})
	return cfg.Clone(), nil
}

// List returns the saved configurations in insertion order.
func (m *Manager) List(ctx context.Context) []storage.SavedConfig {
	return m.store.Load(ctx).SavedConfigs
}

// Get returns the configuration with the given id.
func (m *Manager) Get(ctx context.Context, id string) (storage.SavedConfig, error) {
	for _, c := range m.List(ctx) {
		if c.ID == id {
			return c, nil
		}
	}
	return storage.SavedConfig{}, ErrNotFound
}

// Delete removes every configuration with the given id. Deleting an
// unknown id is a no-op.
func (m *Manager) Delete(ctx context.Context, id string) {
	m.store.UpdateSavedConfigs(ctx, func(list []storage.SavedConfig) []storage.SavedConfig {
		kept := list[:0]
		for _, c := range list {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		return kept
	})
}

// ApplyTo returns the connector id and a copy of the overrides of the
// configuration with the given id, or ErrNotFound.
func (m *Manager) ApplyTo(ctx context.Context, id string) (string, pinstate.OverrideMap, error) {
	c, err := m.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	overrides := c.PinOverrides.Clone()
	if overrides == nil {
		overrides = pinstate.OverrideMap{}
	}
	return c.ConnectorTypeID, overrides, nil
}
