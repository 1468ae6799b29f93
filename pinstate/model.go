package pinstate

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PinState is the effective, user-visible state of one pin. PresetID is
// empty when Color was entered by hand rather than picked from a preset.
type PinState struct {
	Label    string `json:"label"`
	Color    string `json:"color"`
	PresetID string `json:"presetId"`
}

// PinOverride is a partial pin state. Nil fields leave the underlying value
// alone when the override is applied.
type PinOverride struct {
	Label    *string `json:"label,omitempty"`
	Color    *string `json:"color,omitempty"`
	PresetID *string `json:"presetId,omitempty"`
}

// Apply shallow-merges o over base.
func (o PinOverride) Apply(base PinState) PinState {
	if o.Label != nil {
		base.Label = *o.Label
	}
	if o.Color != nil {
		base.Color = *o.Color
	}
	if o.PresetID != nil {
		base.PresetID = *o.PresetID
	}
	return base
}

// Override returns a complete override carrying every field of s.
func (s PinState) Override() PinOverride {
	label, color, preset := s.Label, s.Color, s.PresetID
	return PinOverride{Label: &label, Color: &color, PresetID: &preset}
}

func (o PinOverride) clone() PinOverride {
	cp := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	return PinOverride{Label: cp(o.Label), Color: cp(o.Color), PresetID: cp(o.PresetID)}
}

// PinMap maps pin numbers to resolved pin states.
type PinMap map[int]PinState

// Clone returns an independent copy of m.
func (m PinMap) Clone() PinMap {
	out := make(PinMap, len(m))
	for n, s := range m {
		out[n] = s
	}
	return out
}

// Overrides converts m to its persisted form.
func (m PinMap) Overrides() OverrideMap {
	out := make(OverrideMap, len(m))
	for n, s := range m {
		out[n] = s.Override()
	}
	return out
}

// OverrideMap maps pin numbers to overrides. It is the persisted shape of a
// connector's pins and of a saved configuration snapshot.
type OverrideMap map[int]PinOverride

// Clone returns a deep copy of m. A nil map stays nil.
func (m OverrideMap) Clone() OverrideMap {
	if m == nil {
		return nil
	}
	out := make(OverrideMap, len(m))
	for n, o := range m {
		out[n] = o.clone()
	}
	return out
}

// UnmarshalJSON decodes leniently: malformed entries are dropped rather
// than failing the whole document. Use DecodeOverrides to see what was dropped.
func (m *OverrideMap) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	decoded, _ := DecodeOverrides(data)
	*m = decoded
	return nil
}

// DecodeOverrides parses a pin override object. Keys that are not integers,
// values that are not objects, and fields that are not strings are skipped;
// each skip is described in the returned problems.
func DecodeOverrides(data []byte) (OverrideMap, []string) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return OverrideMap{}, []string{"pin overrides are not an object"}
	}

	var problems []string
	out := make(OverrideMap, len(entries))
	for key, raw := range entries {
		n, err := strconv.Atoi(key)
		if err != nil {
			problems = append(problems, fmt.Sprintf("pin key %q is not a number", key))
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			problems = append(problems, fmt.Sprintf("pin %d is not an object", n))
			continue
		}
		var o PinOverride
		for name, dst := range map[string]**string{"label": &o.Label, "color": &o.Color, "presetId": &o.PresetID} {
			v, ok := fields[name]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				problems = append(problems, fmt.Sprintf("pin %d %s is not a string", n, name))
				continue
			}
			*dst = &s
		}
		out[n] = o
	}
	return out, problems
}
