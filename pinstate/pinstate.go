// Package pinstate derives and edits per-pin label/color state for one
// connector type. All functions are pure: maps passed in are never modified.
package pinstate

import (
	"fmt"

	"pin-editor/catalog"
)

// Fallback is the state of a pin the catalog knows nothing about.
func Fallback(n int) PinState {
	return PinState{
		Label:    fmt.Sprintf("Pin %d", n),
		Color:    catalog.FallbackColor,
		PresetID: catalog.DefaultPresetID,
	}
}

// Default returns the catalog default for pin n of c, or Fallback(n) when n
// is outside the connector.
func Default(c catalog.ConnectorType, n int) PinState {
	if !c.HasPin(n) {
		return Fallback(n)
	}
	p := catalog.DefaultPreset()
	return PinState{Label: c.Label(n), Color: p.Color, PresetID: p.ID}
}

// Defaults returns the default state of every pin of c.
func Defaults(c catalog.ConnectorType) PinMap {
	out := make(PinMap, c.TotalPins)
	for n := 1; n <= c.TotalPins; n++ {
		out[n] = Default(c, n)
	}
	return out
}

// Effective resolves pin n: the live entry if present, else the default.
func Effective(c catalog.ConnectorType, pins PinMap, n int) PinState {
	if s, ok := pins[n]; ok {
		return s
	}
	return Default(c, n)
}

// Update shallow-merges patch into pin n. A missing entry starts from the
// default. Label and color are not validated.
func Update(c catalog.ConnectorType, pins PinMap, n int, patch PinOverride) PinMap {
	out := pins.Clone()
	out[n] = patch.Apply(Effective(c, pins, n))
	return out
}

// ApplyPreset sets pin n's color and preset id from p.
func ApplyPreset(c catalog.ConnectorType, pins PinMap, n int, p catalog.ColorPreset) PinMap {
	color, id := p.Color, p.ID
	return Update(c, pins, n, PinOverride{Color: &color, PresetID: &id})
}

// SetCustomColor sets a free-form color and clears the preset id.
func SetCustomColor(c catalog.ConnectorType, pins PinMap, n int, color string) PinMap {
	none := ""
	return Update(c, pins, n, PinOverride{Color: &color, PresetID: &none})
}

// ResetPin restores pin n to its default.
func ResetPin(c catalog.ConnectorType, pins PinMap, n int) PinMap {
	out := pins.Clone()
	out[n] = Default(c, n)
	return out
}

// ResetAll discards every edit.
func ResetAll(c catalog.ConnectorType) PinMap {
	return Defaults(c)
}

// Switch builds the live map for c after a connector change: defaults for
// every pin, with stored overrides merged per pin. Overrides for pins outside
// 1..TotalPins are ignored, so the result always has exactly TotalPins entries.
func Switch(c catalog.ConnectorType, stored OverrideMap) PinMap {
	out := Defaults(c)
	for n, o := range stored {
		if !c.HasPin(n) {
			continue
		}
		out[n] = o.Apply(out[n])
	}
	return out
}

// Restore turns a stored override map into a live map as-is: only the pins
// present in stored get entries, partial entries are completed from the
// default, and out-of-range pins are kept.
func Restore(c catalog.ConnectorType, stored OverrideMap) PinMap {
	out := make(PinMap, len(stored))
	for n, o := range stored {
		out[n] = o.Apply(Default(c, n))
	}
	return out
}
