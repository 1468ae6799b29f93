// Package catalog holds the built-in connector types and color presets.
// Everything here is immutable; lookups hand out copies.
package catalog

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultConnectorID is used whenever a stored or imported connector id is unknown.
const DefaultConnectorID = "DB25"

// ConnectorType describes one physical connector.
type ConnectorType struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Shape         string         `json:"shape"`
	Layout        string         `json:"layout,omitempty"`
	Rows          []int          `json:"rows"`
	TotalPins     int            `json:"totalPins"`
	DefaultLabels map[int]string `json:"defaultLabels"`
}

// Label returns the default label for pin n, or "Pin n" when the catalog has none.
func (c ConnectorType) Label(n int) string {
	if l, ok := c.DefaultLabels[n]; ok {
		return l
	}
	return fmt.Sprintf("Pin %d", n)
}

// HasPin reports whether n is a valid pin number for c.
func (c ConnectorType) HasPin(n int) bool {
	return n >= 1 && n <= c.TotalPins
}

func (c ConnectorType) clone() ConnectorType {
	c.Rows = slices.Clone(c.Rows)
	c.DefaultLabels = maps.Clone(c.DefaultLabels)
	return c
}

// Group is a display grouping of connector ids.
type Group struct {
	Label string   `json:"label"`
	IDs   []string `json:"ids"`
}

func numbered(n int) map[int]string {
	m := make(map[int]string, n)
	for i := 1; i <= n; i++ {
		m[i] = fmt.Sprintf("Pin %d", i)
	}
	return m
}

var serial9 = map[int]string{
	1: "CD", 2: "RX", 3: "TX", 4: "DTR", 5: "Signal GND",
	6: "DSR", 7: "RTS", 8: "CTS", 9: "RI",
}

var connectors = map[string]ConnectorType{
	"DB25": {
		ID: "DB25", Name: "DB-25", Shape: "dsub", Rows: []int{13, 12}, TotalPins: 25,
		DefaultLabels: map[int]string{
			1: "Frame GND", 2: "TX", 3: "RX", 4: "RTS", 5: "CTS",
			6: "DSR", 7: "Signal GND", 8: "CD", 9: "+Tx", 10: "-Tx",
			11: "Unassigned", 12: "Secondary CD", 13: "Secondary CTS",
			14: "Secondary TX", 15: "Tx Clk", 16: "Secondary RX", 17: "RC Clk",
			18: "Unassigned", 19: "Secondary RTS", 20: "DTR", 21: "Signal Quality",
			22: "RI", 23: "Data Rate", 24: "Ext Clk", 25: "Unassigned",
		},
	},
	"DB9": {
		ID: "DB9", Name: "DB-9 (DE-9)", Shape: "dsub", Rows: []int{5, 4}, TotalPins: 9,
		DefaultLabels: serial9,
	},
	"RS232": {
		ID: "RS232", Name: "RS-232 (9-pin)", Shape: "dsub", Rows: []int{5, 4}, TotalPins: 9,
		DefaultLabels: serial9,
	},
	"JACK_35MM_2": {
		ID: "JACK_35MM_2", Name: "3.5mm jack (2-pin)", Shape: "jack35mm", Rows: []int{2}, TotalPins: 2,
		DefaultLabels: map[int]string{1: "Tip", 2: "Sleeve"},
	},
	"JACK_35MM_3": {
		ID: "JACK_35MM_3", Name: "3.5mm jack (3-pin TRS)", Shape: "jack35mm", Rows: []int{3}, TotalPins: 3,
		DefaultLabels: map[int]string{1: "Tip", 2: "Ring", 3: "Sleeve"},
	},
	"JACK_35MM_4": {
		ID: "JACK_35MM_4", Name: "3.5mm jack (4-pin TRRS)", Shape: "jack35mm", Rows: []int{4}, TotalPins: 4,
		DefaultLabels: map[int]string{1: "Tip", 2: "Ring1", 3: "Ring2", 4: "Sleeve"},
	},
	"USB2": {
		ID: "USB2", Name: "USB 2.0 (4-pin)", Shape: "singleRow", Rows: []int{4}, TotalPins: 4,
		DefaultLabels: map[int]string{1: "VCC", 2: "D-", 3: "D+", 4: "GND"},
	},
	"POWER_3": {
		ID: "POWER_3", Name: "3-pin power", Shape: "power3Triangle", Layout: "triangle", Rows: []int{3}, TotalPins: 3,
		DefaultLabels: map[int]string{1: "VCC", 2: "GND", 3: "Signal"},
	},
	"JST_GH_4":  {ID: "JST_GH_4", Name: "JST GH (4-pin)", Shape: "singleRow", Rows: []int{4}, TotalPins: 4, DefaultLabels: numbered(4)},
	"JST_GH_5":  {ID: "JST_GH_5", Name: "JST GH (5-pin)", Shape: "singleRow", Rows: []int{5}, TotalPins: 5, DefaultLabels: numbered(5)},
	"JST_GH_6":  {ID: "JST_GH_6", Name: "JST GH (6-pin)", Shape: "singleRow", Rows: []int{6}, TotalPins: 6, DefaultLabels: numbered(6)},
	"JST_GH_8":  {ID: "JST_GH_8", Name: "JST GH (8-pin)", Shape: "singleRow", Rows: []int{8}, TotalPins: 8, DefaultLabels: numbered(8)},
	"JST_GH_10": {ID: "JST_GH_10", Name: "JST GH (10-pin)", Shape: "singleRow", Rows: []int{10}, TotalPins: 10, DefaultLabels: numbered(10)},
	"JST_GH_12": {ID: "JST_GH_12", Name: "JST GH (12-pin)", Shape: "singleRow", Rows: []int{12}, TotalPins: 12, DefaultLabels: numbered(12)},
}

var groups = []Group{
	{Label: "D-Sub / Serial", IDs: []string{"DB25", "DB9", "RS232"}},
	{Label: "3.5mm jack", IDs: []string{"JACK_35MM_2", "JACK_35MM_3", "JACK_35MM_4"}},
	{Label: "USB", IDs: []string{"USB2"}},
	{Label: "JST GH", IDs: []string{"JST_GH_4", "JST_GH_5", "JST_GH_6", "JST_GH_8", "JST_GH_10", "JST_GH_12"}},
	{Label: "Power", IDs: []string{"POWER_3"}},
}

// Lookup returns the connector type with the given id.
func Lookup(id string) (ConnectorType, bool) {
	c, ok := connectors[id]
	if !ok {
		return ConnectorType{}, false
	}
	return c.clone(), true
}

// Known reports whether id names a catalog connector.
func Known(id string) bool {
	_, ok := connectors[id]
	return ok
}

// Default returns the fallback connector type.
func Default() ConnectorType {
	c, _ := Lookup(DefaultConnectorID)
	return c
}

// All returns every connector type in display order.
func All() []ConnectorType {
	out := make([]ConnectorType, 0, len(connectors))
	for _, g := range groups {
		for _, id := range g.IDs {
			out = append(out, connectors[id].clone())
		}
	}
	return out
}

// Groups returns the display groups in display order.
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Label: g.Label, IDs: slices.Clone(g.IDs)}
	}
	return out
}
