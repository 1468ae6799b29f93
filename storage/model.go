package storage

import (
	"errors"

	"pin-editor/catalog"
	"pin-editor/pinstate"
)

// DefaultKey names the single durable slot all state lives under.
const DefaultKey = "connector-pin-tool"

// ErrNotExist is returned by a Backend when nothing is stored under a key.
var ErrNotExist = errors.New("storage: key does not exist")

// ConnectorEntry holds the persisted pin overrides of one connector type.
type ConnectorEntry struct {
	PinOverrides pinstate.OverrideMap `json:"pinOverrides"`
}

// SavedConfig is a named snapshot of one connector's pin overrides.
type SavedConfig struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	ConnectorTypeID string               `json:"connectorTypeId"`
	PinOverrides    pinstate.OverrideMap `json:"pinOverrides"`
}

// Clone returns a deep copy of c.
func (c SavedConfig) Clone() SavedConfig {
	c.PinOverrides = c.PinOverrides.Clone()
	return c
}

// Blob is the whole persisted state. It is always read and written as a unit.
type Blob struct {
	Connectors    map[string]ConnectorEntry `json:"connectors"`
	SavedConfigs  []SavedConfig             `json:"savedConfigs"`
	LastConnector string                    `json:"lastConnector"`
}

// EmptyBlob is the state of a fresh install.
func EmptyBlob() Blob {
	return Blob{
		Connectors:    map[string]ConnectorEntry{},
		SavedConfigs:  []SavedConfig{},
		LastConnector: catalog.DefaultConnectorID,
	}
}

// Clone returns a deep copy of b with nil collections replaced by empty ones.
func (b Blob) Clone() Blob {
	out := Blob{
		Connectors:    make(map[string]ConnectorEntry, len(b.Connectors)),
		SavedConfigs:  make([]SavedConfig, len(b.SavedConfigs)),
		LastConnector: b.LastConnector,
	}
	for id, e := range b.Connectors {
		out.Connectors[id] = ConnectorEntry{PinOverrides: e.PinOverrides.Clone()}
	}
	for i, c := range b.SavedConfigs {
		out.SavedConfigs[i] = c.Clone()
	}
	return out
}

// Overrides returns the stored overrides for a connector, or nil.
func (b Blob) Overrides(connectorID string) pinstate.OverrideMap {
	e, ok := b.Connectors[connectorID]
	if !ok {
		return nil
	}
	return e.PinOverrides
}
