// Package editor holds the live editing state: the active connector, its
// resolved pin map and the selected pin. Every change is persisted through
// storage and announced to subscribers.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"pin-editor/catalog"
	"pin-editor/pinstate"
	"pin-editor/savedconfig"
	"pin-editor/storage"
	"pin-editor/transfer"
)

var ErrUnknownConnector = errors.New("unknown connector type")
var ErrPinOutOfRange = errors.New("pin number out of range")
var ErrUnknownPreset = errors.New("unknown color preset")

// Session is the single editing session of the process.
type Session struct {
	mu        sync.Mutex
	store     *storage.Store
	configs   *savedconfig.Manager
	connector catalog.ConnectorType
	pins      pinstate.PinMap
	selected  int
	now       func() time.Time

	hub *hub
}

// NewSession restores the last active connector from store.
func NewSession(ctx context.Context, store *storage.Store, configs *savedconfig.Manager) *Session {
	s := &Session{store: store, configs: configs, now: time.Now, hub: newHub()}
	b := store.Load(ctx)
	c, ok := catalog.Lookup(b.LastConnector)
	if !ok {
		c = catalog.Default()
	}
	s.connector = c
	s.pins = pinstate.Switch(c, b.Overrides(c.ID))
	return s
}

// Snapshot is a read-only view of the live state.
type Snapshot struct {
	ConnectorTypeID string          `json:"connectorTypeId"`
	Pins            pinstate.PinMap `json:"pins"`
	SelectedPin     *int            `json:"selectedPin"`
}

// State returns a copy of the live state.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{ConnectorTypeID: s.connector.ID, Pins: s.pins.Clone()}
	if s.selected != 0 {
		n := s.selected
		snap.SelectedPin = &n
	}
	return snap
}

// Connector returns the active connector type.
func (s *Session) Connector() catalog.ConnectorType {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, _ := catalog.Lookup(s.connector.ID)
	return c
}

// PinState returns the effective state of pin n. It never fails.
func (s *Session) PinState(n int) pinstate.PinState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pinstate.Effective(s.connector, s.pins, n)
}

// SelectConnector switches the active connector, restoring its stored
// overrides over the catalog defaults. The selection is cleared.
func (s *Session) SelectConnector(ctx context.Context, id string) error {
	c, ok := catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownConnector, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.store.Load(ctx).Overrides(c.ID)
	s.connector = c
	s.pins = pinstate.Switch(c, stored)
	s.selected = 0
	s.commit(ctx, EventConnectorChanged)
	return nil
}

// Select marks pin n as selected; 0 clears the selection.
func (s *Session) Select(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n != 0 && !s.connector.HasPin(n) {
		return fmt.Errorf("%w: %d", ErrPinOutOfRange, n)
	}
	s.selected = n
	s.hub.publish(Event{Type: EventSelectionChanged, State: s.snapshot()})
	return nil
}

// UpdatePin merges patch into pin n.
func (s *Session) UpdatePin(ctx context.Context, n int, patch pinstate.PinOverride) (pinstate.PinState, error) {
	return s.mutatePin(ctx, n, func(c catalog.ConnectorType, pins pinstate.PinMap) pinstate.PinMap {
		return pinstate.Update(c, pins, n, patch)
	})
}

// ApplyPreset sets pin n's color and preset id from the named preset.
func (s *Session) ApplyPreset(ctx context.Context, n int, presetID string) (pinstate.PinState, error) {
	p, ok := catalog.Preset(presetID)
	if !ok {
		return pinstate.PinState{}, fmt.Errorf("%w: %q", ErrUnknownPreset, presetID)
	}
	return s.mutatePin(ctx, n, func(c catalog.ConnectorType, pins pinstate.PinMap) pinstate.PinMap {
		return pinstate.ApplyPreset(c, pins, n, p)
	})
}

// SetCustomColor sets a free-form color on pin n and clears its preset.
func (s *Session) SetCustomColor(ctx context.Context, n int, color string) (pinstate.PinState, error) {
	return s.mutatePin(ctx, n, func(c catalog.ConnectorType, pins pinstate.PinMap) pinstate.PinMap {
		return pinstate.SetCustomColor(c, pins, n, color)
	})
}

// ResetPin restores pin n to its catalog default.
func (s *Session) ResetPin(ctx context.Context, n int) (pinstate.PinState, error) {
	return s.mutatePin(ctx, n, func(c catalog.ConnectorType, pins pinstate.PinMap) pinstate.PinMap {
		return pinstate.ResetPin(c, pins, n)
	})
}

// ResetAll restores every pin of the active connector.
func (s *Session) ResetAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins = pinstate.ResetAll(s.connector)
	s.commit(ctx, EventPinsChanged)
}

func (s *Session) mutatePin(ctx context.Context, n int, fn func(catalog.ConnectorType, pinstate.PinMap) pinstate.PinMap) (pinstate.PinState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connector.HasPin(n) {
		return pinstate.PinState{}, fmt.Errorf("%w: %d", ErrPinOutOfRange, n)
	}
	s.pins = fn(s.connector, s.pins)
	s.commit(ctx, EventPinsChanged)
	return s.pins[n], nil
}

// commit persists the live map and notifies subscribers. Caller holds s.mu.
func (s *Session) commit(ctx context.Context, typ EventType) {
	if len(s.pins) > 0 {
		s.store.SaveConnectorOverrides(ctx, s.connector.ID, s.pins.Overrides())
	}
	s.hub.publish(Event{Type: typ, State: s.snapshot()})
}

// SaveAs snapshots the live pins under name.
func (s *Session) SaveAs(ctx context.Context, name string) (storage.SavedConfig, error) {
	s.mu.Lock()
	id, overrides := s.connector.ID, s.pins.Overrides()
	s.mu.Unlock()

	cfg, err := s.configs.Create(ctx, name, id, overrides)
	if err != nil {
		return storage.SavedConfig{}, err
	}
	s.hub.publish(Event{Type: EventConfigsChanged, State: s.State()})
	return cfg, nil
}

// SavedConfigs lists the saved configurations.
func (s *Session) SavedConfigs(ctx context.Context) []storage.SavedConfig {
	return s.configs.List(ctx)
}

// DeleteConfig removes a saved configuration. Unknown ids are ignored.
func (s *Session) DeleteConfig(ctx context.Context, id string) {
	s.configs.Delete(ctx, id)
	s.hub.publish(Event{Type: EventConfigsChanged, State: s.State()})
}

// LoadConfig makes a saved configuration the live state. Its override map
// is used as-is; pins it lacks fall back to defaults on read. An unknown id
// returns savedconfig.ErrNotFound and changes nothing.
func (s *Session) LoadConfig(ctx context.Context, id string) error {
	connectorID, overrides, err := s.configs.ApplyTo(ctx, id)
	if err != nil {
		return err
	}
	c, ok := catalog.Lookup(connectorID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownConnector, connectorID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.connector = c
	s.pins = pinstate.Restore(c, overrides)
	s.selected = 0
	// An empty snapshot still replaces whatever was stored for c.
	s.store.SaveConnectorOverrides(ctx, c.ID, overrides)
	s.hub.publish(Event{Type: EventConnectorChanged, State: s.snapshot()})
	return nil
}

// Export writes the persisted state as an export document. Live edits are
// already persisted, so the document reflects them.
func (s *Session) Export(ctx context.Context, w io.Writer) (string, error) {
	now := s.now()
	doc := transfer.Export(s.store.Load(ctx), now)
	return transfer.FileName(now), transfer.Encode(w, doc)
}

// Import replaces all persisted state with the contents of r and
// resynchronizes the live state to the imported last connector. On error
// nothing is changed.
func (s *Session) Import(ctx context.Context, r io.Reader) (transfer.Result, error) {
	res, err := transfer.Read(r)
	if err != nil {
		return transfer.Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Replace(ctx, res.Blob); err != nil {
		return transfer.Result{}, fmt.Errorf("store import: %w", err)
	}

	c, ok := catalog.Lookup(res.Blob.LastConnector)
	if !ok {
		c = catalog.Default()
	}
	s.connector = c
	if stored := res.Blob.Overrides(c.ID); stored != nil {
		s.pins = pinstate.Restore(c, stored)
	} else {
		s.pins = pinstate.Defaults(c)
	}
	s.selected = 0
	s.hub.publish(Event{Type: EventImported, State: s.snapshot()})
	return res, nil
}

// ImportOutcome is what ImportAsync delivers when the import finishes.
type ImportOutcome struct {
	Result transfer.Result
	Err    error
}

// ImportAsync runs Import in the background. The returned channel yields
// exactly one outcome and is then closed. Concurrent imports are not
// coordinated; whichever finishes last wins.
func (s *Session) ImportAsync(ctx context.Context, r io.Reader) <-chan ImportOutcome {
	done := make(chan ImportOutcome, 1)
	go func() {
		defer close(done)
		res, err := s.Import(ctx, r)
		done <- ImportOutcome{Result: res, Err: err}
	}()
	return done
}

// Subscribe registers for change events. Call the returned function to
// unsubscribe; it closes the channel.
func (s *Session) Subscribe() (<-chan Event, func()) {
	return s.hub.subscribe()
}
