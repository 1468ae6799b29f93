package catalog

import "slices"

// DefaultPresetID is the preset every pin starts with.
const DefaultPresetID = "unassigned"

// FallbackColor is the neutral gray of the default preset.
const FallbackColor = "#6c757d"

// ColorPreset is a named wire color.
type ColorPreset struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var presets = []ColorPreset{
	{ID: "live", Label: "Live", Color: "#dc3545", Description: "Power / Live"},
	{ID: "ground", Label: "Ground", Color: "#212529", Description: "Ground"},
	{ID: "can-high", Label: "CAN High", Color: "#0d6efd", Description: "CAN bus high"},
	{ID: "can-low", Label: "CAN Low", Color: "#0dcaf0", Description: "CAN bus low"},
	{ID: "tx", Label: "TX", Color: "#198754", Description: "Transmit"},
	{ID: "rx", Label: "RX", Color: "#fd7e14", Description: "Receive"},
	{ID: "signal", Label: "Signal", Color: "#6f42c1", Description: "Generic signal"},
	{ID: DefaultPresetID, Label: "Unassigned", Color: FallbackColor, Description: "Not assigned"},
}

// Presets returns the color presets in display order.
func Presets() []ColorPreset {
	return slices.Clone(presets)
}

// Preset looks up a color preset by id.
func Preset(id string) (ColorPreset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return ColorPreset{}, false
}

// DefaultPreset returns the preset used for pins that were never edited.
// If the default id were ever missing from the table the first preset wins.
func DefaultPreset() ColorPreset {
	if p, ok := Preset(DefaultPresetID); ok {
		return p
	}
	return presets[0]
}
