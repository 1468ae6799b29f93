package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pin-editor/catalog"
	"pin-editor/storage"
)

func TestDecodeEmptyObject(t *testing.T) {
	b, adj, err := storage.Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, adj)
	assert.Equal(t, storage.EmptyBlob(), b)
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`null`, `[]`, `42`, `"x"`} {
		_, _, err := storage.Decode([]byte(raw))
		assert.ErrorIs(t, err, storage.ErrNotObject, raw)
	}
	_, _, err := storage.Decode([]byte(`not json`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotObject)
}

func TestDecodeNormalizesBadFields(t *testing.T) {
	raw := `{
		"connectors": "nope",
		"savedConfigs": {"a": 1},
		"lastConnector": 12
	}`
	b, adj, err := storage.Decode([]byte(raw))
	require.NoError(t, err)
	assert.Empty(t, b.Connectors)
	assert.Empty(t, b.SavedConfigs)
	assert.Equal(t, catalog.DefaultConnectorID, b.LastConnector)

	fields := map[string]bool{}
	for _, a := range adj {
		fields[a.Field] = true
	}
	assert.Equal(t, map[string]bool{"connectors": true, "savedConfigs": true, "lastConnector": true}, fields)
}

func TestDecodeDropsMalformedEntries(t *testing.T) {
	raw := `{
		"connectors": {
			"DB9": {"pinOverrides": {"1": {"label": "CD"}, "bad": {}}},
			"USB2": 7,
			"JACK_35MM_2": {}
		},
		"savedConfigs": [
			{"id": "a", "name": "A", "connectorTypeId": "DB9", "pinOverrides": {"2": {"color": "#fff"}}},
			"junk",
			{"id": 5, "name": "B"}
		],
		"lastConnector": "DB9",
		"somethingElse": true
	}`
	b, adj, err := storage.Decode([]byte(raw))
	require.NoError(t, err)

	require.Len(t, b.Connectors, 2)
	assert.Equal(t, "CD", *b.Overrides("DB9")[1].Label)
	assert.Nil(t, b.Overrides("JACK_35MM_2"))

	require.Len(t, b.SavedConfigs, 2)
	assert.Equal(t, "#fff", *b.SavedConfigs[0].PinOverrides[2].Color)
	assert.Equal(t, "", b.SavedConfigs[1].ID)
	assert.Equal(t, "B", b.SavedConfigs[1].Name)

	assert.Equal(t, "DB9", b.LastConnector)
	assert.Len(t, adj, 4)
}
