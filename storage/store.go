// Package storage persists the editor's durable blob through a pluggable
// Backend. Reads never fail past this package: an absent or corrupt record
// is treated as empty. Routine writes are best-effort and only logged.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"pin-editor/pinstate"
)

// Backend is a byte store addressed by key.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Store reads and writes the blob under a single key. Every write
// round-trips the whole blob; mu serializes read-modify-write cycles.
type Store struct {
	mu      sync.Mutex
	backend Backend
	key     string
}

// NewStore returns a Store over backend. An empty key means DefaultKey.
func NewStore(backend Backend, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{backend: backend, key: key}
}

// Load returns the persisted blob, or EmptyBlob when nothing usable is stored.
func (s *Store) Load(ctx context.Context) Blob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// SaveConnectorOverrides stores the overrides of one connector and marks it
// as the last active connector. Write failures are logged and dropped.
func (s *Store) SaveConnectorOverrides(ctx context.Context, connectorID string, overrides pinstate.OverrideMap) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.load(ctx)
	b.Connectors[connectorID] = ConnectorEntry{PinOverrides: overrides.Clone()}
	b.LastConnector = connectorID
	if err := s.write(ctx, b); err != nil {
		log.Printf("storage: save overrides for %s: %v", connectorID, err)
	}
}

// SaveSavedConfigs replaces the saved configuration list, keeping connectors
// and lastConnector. Write failures are logged and dropped.
func (s *Store) SaveSavedConfigs(ctx context.Context, configs []SavedConfig) {
	s.UpdateSavedConfigs(ctx, func([]SavedConfig) []SavedConfig { return configs })
}

// UpdateSavedConfigs applies fn to the stored list under the store lock and
// writes the result back. It returns the list that was written.
func (s *Store) UpdateSavedConfigs(ctx context.Context, fn func([]SavedConfig) []SavedConfig) []SavedConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.load(ctx)
	next := fn(b.SavedConfigs)
	if next == nil {
		next = []SavedConfig{}
	}
	b.SavedConfigs = make([]SavedConfig, len(next))
	for i, c := range next {
		b.SavedConfigs[i] = c.Clone()
	}
	if err := s.write(ctx, b); err != nil {
		log.Printf("storage: save configurations: %v", err)
	}
	return b.Clone().SavedConfigs
}

// Replace overwrites the whole blob. Unlike the routine saves it reports
// write failures, since the caller is replacing state on purpose.
func (s *Store) Replace(ctx context.Context, b Blob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, b.Clone())
}

func (s *Store) load(ctx context.Context) Blob {
	data, err := s.backend.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			log.Printf("storage: read %s: %v", s.key, err)
		}
		return EmptyBlob()
	}
	b, adj, err := Decode(data)
	if err != nil {
		log.Printf("storage: %s is corrupt, starting empty: %v", s.key, err)
		return EmptyBlob()
	}
	for _, a := range adj {
		log.Printf("storage: %s: %s", s.key, a)
	}
	return b
}

func (s *Store) write(ctx context.Context, b Blob) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, s.key, data)
}
