package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"pin-editor/catalog"
	"pin-editor/pinstate"
)

// ErrNotObject is returned by Decode when the document is not a JSON object.
var ErrNotObject = errors.New("document is not a JSON object")

// Adjustment records one normalization applied while decoding a blob.
type Adjustment struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (a Adjustment) String() string {
	return a.Field + ": " + a.Message
}

// Decode validates and normalizes a persisted or imported document. Only a
// document that is not valid JSON, or not an object, is an error; every other
// shape problem is repaired and reported as an Adjustment:
//
//   - connectors that is not an object becomes empty; malformed entries are dropped
//   - savedConfigs that is not an array becomes empty; non-object items are dropped
//   - lastConnector that is not a catalog id becomes catalog.DefaultConnectorID
func Decode(data []byte) (Blob, []Adjustment, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Blob{}, nil, ErrNotObject
		}
		return Blob{}, nil, err
	}
	if doc == nil {
		return Blob{}, nil, ErrNotObject
	}

	var adj []Adjustment
	note := func(field, format string, args ...any) {
		adj = append(adj, Adjustment{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	b := EmptyBlob()

	if raw, ok := doc["connectors"]; ok {
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
			note("connectors", "not an object, using empty")
		}
		for id, rawEntry := range entries {
			field := "connectors." + id
			var entry map[string]json.RawMessage
			if err := json.Unmarshal(rawEntry, &entry); err != nil || entry == nil {
				note(field, "not an object, dropped")
				continue
			}
			var ce ConnectorEntry
			if po, ok := entry["pinOverrides"]; ok && string(po) != "null" {
				m, problems := pinstate.DecodeOverrides(po)
				for _, p := range problems {
					note(field+".pinOverrides", "%s", p)
				}
				ce.PinOverrides = m
			}
			b.Connectors[id] = ce
		}
	}

	if raw, ok := doc["savedConfigs"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || items == nil {
			note("savedConfigs", "not an array, using empty")
		}
		for i, rawItem := range items {
			field := fmt.Sprintf("savedConfigs[%d]", i)
			cfg, problems, ok := decodeSavedConfig(rawItem)
			if !ok {
				note(field, "not an object, dropped")
				continue
			}
			for _, p := range problems {
				note(field, "%s", p)
			}
			b.SavedConfigs = append(b.SavedConfigs, cfg)
		}
	}

	if raw, ok := doc["lastConnector"]; ok {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil && catalog.Known(id) {
			b.LastConnector = id
		} else {
			note("lastConnector", "unknown connector %s, using %s", string(raw), catalog.DefaultConnectorID)
		}
	}

	return b, adj, nil
}

func decodeSavedConfig(raw json.RawMessage) (SavedConfig, []string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return SavedConfig{}, nil, false
	}

	var cfg SavedConfig
	var problems []string
	for name, dst := range map[string]*string{"id": &cfg.ID, "name": &cfg.Name, "connectorTypeId": &cfg.ConnectorTypeID} {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			problems = append(problems, name+" is not a string")
		}
	}
	if po, ok := fields["pinOverrides"]; ok && string(po) != "null" {
		m, p := pinstate.DecodeOverrides(po)
		cfg.PinOverrides = m
		for _, s := range p {
			problems = append(problems, "pinOverrides: "+s)
		}
	}
	return cfg, problems, true
}
