package editor_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pin-editor/catalog"
	"pin-editor/editor"
	"pin-editor/pinstate"
	"pin-editor/savedconfig"
	"pin-editor/storage"
	"pin-editor/transfer"
)

func str(s string) *string { return &s }

func newSession(t *testing.T, backend storage.Backend) (*editor.Session, *storage.Store) {
	t.Helper()
	store := storage.NewStore(backend, "")
	return editor.NewSession(context.Background(), store, savedconfig.NewManager(store)), store
}

func TestNewSessionDefaults(t *testing.T) {
	s, _ := newSession(t, storage.NewMemoryBackend())
	st := s.State()
	assert.Equal(t, catalog.DefaultConnectorID, st.ConnectorTypeID)
	assert.Len(t, st.Pins, 25)
	assert.Nil(t, st.SelectedPin)
}

func TestNewSessionRestoresLastConnector(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryBackend()
	s, _ := newSession(t, mem)
	require.NoError(t, s.SelectConnector(ctx, "USB2"))
	_, err := s.UpdatePin(ctx, 1, pinstate.PinOverride{Label: str("5V")})
	require.NoError(t, err)

	again, _ := newSession(t, mem)
	assert.Equal(t, "USB2", again.Connector().ID)
	assert.Equal(t, "5V", again.PinState(1).Label)
}

func TestSwitchAndBackRestoresEdits(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	require.NoError(t, s.SelectConnector(ctx, "DB9"))
	_, err := s.UpdatePin(ctx, 3, pinstate.PinOverride{Label: str("TXD")})
	require.NoError(t, err)
	_, err = s.ApplyPreset(ctx, 5, "ground")
	require.NoError(t, err)
	before := s.State().Pins

	require.NoError(t, s.SelectConnector(ctx, "JACK_35MM_3"))
	assert.Len(t, s.State().Pins, 3)
	require.NoError(t, s.SelectConnector(ctx, "DB9"))

	assert.Equal(t, before, s.State().Pins)
}

func TestSelectUnknownConnector(t *testing.T) {
	s, _ := newSession(t, storage.NewMemoryBackend())
	err := s.SelectConnector(context.Background(), "DB37")
	assert.ErrorIs(t, err, editor.ErrUnknownConnector)
	assert.Equal(t, catalog.DefaultConnectorID, s.Connector().ID)
}

func TestPinOutOfRange(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	_, err := s.UpdatePin(ctx, 26, pinstate.PinOverride{Label: str("x")})
	assert.ErrorIs(t, err, editor.ErrPinOutOfRange)
	_, err = s.ResetPin(ctx, 0)
	assert.ErrorIs(t, err, editor.ErrPinOutOfRange)
	assert.ErrorIs(t, s.Select(99), editor.ErrPinOutOfRange)
	assert.Len(t, s.State().Pins, 25)
}

func TestPresetThenCustomColor(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())

	st, err := s.ApplyPreset(ctx, 2, "tx")
	require.NoError(t, err)
	assert.Equal(t, "tx", st.PresetID)
	assert.Equal(t, "#198754", st.Color)

	st, err = s.SetCustomColor(ctx, 2, "#010203")
	require.NoError(t, err)
	assert.Empty(t, st.PresetID)
	assert.Equal(t, "#010203", st.Color)

	_, err = s.ApplyPreset(ctx, 2, "nope")
	assert.ErrorIs(t, err, editor.ErrUnknownPreset)
}

func TestResetPinAndAll(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	c := s.Connector()

	_, _ = s.UpdatePin(ctx, 1, pinstate.PinOverride{Label: str("x")})
	_, _ = s.UpdatePin(ctx, 2, pinstate.PinOverride{Label: str("y")})

	st, err := s.ResetPin(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, pinstate.Defaults(c)[1], st)
	assert.Equal(t, "y", s.PinState(2).Label)

	s.ResetAll(ctx)
	assert.Equal(t, pinstate.Defaults(c), s.State().Pins)
}

func TestWriteFailureKeepsEditing(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryBackend()
	mem.WriteErr = errors.New("quota exceeded")
	s, _ := newSession(t, mem)

	st, err := s.UpdatePin(ctx, 1, pinstate.PinOverride{Label: str("still works")})
	require.NoError(t, err)
	assert.Equal(t, "still works", st.Label)
}

func TestSaveAsAndLoadConfig(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	require.NoError(t, s.SelectConnector(ctx, "USB2"))
	_, _ = s.UpdatePin(ctx, 1, pinstate.PinOverride{Label: str("5V")})

	cfg, err := s.SaveAs(ctx, "usb cable")
	require.NoError(t, err)

	// Later edits do not touch the snapshot.
	_, _ = s.UpdatePin(ctx, 1, pinstate.PinOverride{Label: str("changed")})
	require.NoError(t, s.SelectConnector(ctx, "DB9"))
	require.NoError(t, s.Select(2))

	require.NoError(t, s.LoadConfig(ctx, cfg.ID))
	st := s.State()
	assert.Equal(t, "USB2", st.ConnectorTypeID)
	assert.Equal(t, "5V", st.Pins[1].Label)
	assert.Nil(t, st.SelectedPin)
}

func TestSaveAsBlankName(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	_, err := s.SaveAs(ctx, "  ")
	assert.ErrorIs(t, err, savedconfig.ErrEmptyName)
	assert.Empty(t, s.SavedConfigs(ctx))
}

func TestLoadConfigNotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	_, _ = s.UpdatePin(ctx, 1, pinstate.PinOverride{Label: str("keep")})

	assert.ErrorIs(t, s.LoadConfig(ctx, "ghost"), savedconfig.ErrNotFound)
	assert.Equal(t, "keep", s.PinState(1).Label)
}

func TestLoadEmptyConfigReplacesStoredOverrides(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryBackend()
	s, store := newSession(t, mem)
	doc := `{"connectors":{"USB2":{"pinOverrides":{"1":{"label":"old"}}}},` +
		`"savedConfigs":[{"id":"a","name":"blank","connectorTypeId":"USB2","pinOverrides":{}}]}`
	_, err := s.Import(ctx, strings.NewReader(doc))
	require.NoError(t, err)

	require.NoError(t, s.LoadConfig(ctx, "a"))
	assert.Equal(t, "VCC", s.PinState(1).Label)

	b := store.Load(ctx)
	assert.Equal(t, "USB2", b.LastConnector)
	assert.Empty(t, b.Overrides("USB2"))

	require.NoError(t, s.SelectConnector(ctx, "DB9"))
	require.NoError(t, s.SelectConnector(ctx, "USB2"))
	assert.Equal(t, "VCC", s.PinState(1).Label)

	reopened, _ := newSession(t, mem)
	assert.Equal(t, "USB2", reopened.Connector().ID)
}

func TestDeleteConfig(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	cfg, _ := s.SaveAs(ctx, "a")
	s.DeleteConfig(ctx, "ghost")
	assert.Len(t, s.SavedConfigs(ctx), 1)
	s.DeleteConfig(ctx, cfg.ID)
	assert.Empty(t, s.SavedConfigs(ctx))
}

func TestExportIncludesLiveEdits(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	_, _ = s.UpdatePin(ctx, 4, pinstate.PinOverride{Label: str("exported")})

	var buf bytes.Buffer
	name, err := s.Export(ctx, &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "connector-pin-config-"))

	res, err := transfer.Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "exported", *res.Blob.Overrides("DB25")[4].Label)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, store := newSession(t, storage.NewMemoryBackend())
	require.NoError(t, s.SelectConnector(ctx, "JST_GH_6"))
	_, _ = s.SetCustomColor(ctx, 6, "#ffeedd")
	_, _ = s.SaveAs(ctx, "jst")
	before := store.Load(ctx)

	var buf bytes.Buffer
	_, err := s.Export(ctx, &buf)
	require.NoError(t, err)

	_, err = s.Import(ctx, &buf)
	require.NoError(t, err)
	after := store.Load(ctx)
	assert.Equal(t, before.Connectors, after.Connectors)
	assert.Equal(t, before.SavedConfigs, after.SavedConfigs)
	assert.Equal(t, before.LastConnector, after.LastConnector)
}

func TestImportEmptyObject(t *testing.T) {
	ctx := context.Background()
	s, store := newSession(t, storage.NewMemoryBackend())
	require.NoError(t, s.SelectConnector(ctx, "USB2"))
	_, _ = s.UpdatePin(ctx, 1, pinstate.PinOverride{Label: str("gone")})
	_, _ = s.SaveAs(ctx, "gone too")
	require.NoError(t, s.Select(1))

	_, err := s.Import(ctx, strings.NewReader(`{}`))
	require.NoError(t, err)

	b := store.Load(ctx)
	assert.Empty(t, b.Connectors)
	assert.Empty(t, b.SavedConfigs)
	assert.Equal(t, catalog.DefaultConnectorID, b.LastConnector)

	st := s.State()
	assert.Equal(t, catalog.DefaultConnectorID, st.ConnectorTypeID)
	assert.Equal(t, pinstate.Defaults(catalog.Default()), st.Pins)
	assert.Nil(t, st.SelectedPin)
}

func TestImportMalformedLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	s, store := newSession(t, storage.NewMemoryBackend())
	_, _ = s.UpdatePin(ctx, 1, pinstate.PinOverride{Label: str("keep")})
	_, _ = s.SaveAs(ctx, "keep")
	before := store.Load(ctx)

	_, err := s.Import(ctx, strings.NewReader("not json"))
	var ie *transfer.ImportError
	require.ErrorAs(t, err, &ie)

	assert.Equal(t, before, store.Load(ctx))
	assert.Equal(t, "keep", s.PinState(1).Label)
}

func TestImportUsesStoredOverridesAsIs(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	doc := `{"lastConnector":"USB2","connectors":{"USB2":{"pinOverrides":{"2":{"label":"D minus"}}}}}`

	res, err := s.Import(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, res.Adjustments)

	st := s.State()
	assert.Equal(t, "USB2", st.ConnectorTypeID)
	assert.Len(t, st.Pins, 1)
	assert.Equal(t, "D minus", s.PinState(2).Label)
	assert.Equal(t, "VCC", s.PinState(1).Label)
}

func TestImportAsync(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())

	select {
	case out := <-s.ImportAsync(ctx, strings.NewReader(`{"lastConnector":"POWER_3","connectors":{"POWER_3":{"pinOverrides":{"9":"junk"}}}}`)):
		require.NoError(t, out.Err)
		assert.NotEmpty(t, out.Result.Adjustments)
	case <-time.After(5 * time.Second):
		t.Fatal("import did not complete")
	}
	assert.Equal(t, "POWER_3", s.Connector().ID)

	out := <-s.ImportAsync(ctx, strings.NewReader(`oops`))
	var ie *transfer.ImportError
	assert.ErrorAs(t, out.Err, &ie)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t, storage.NewMemoryBackend())
	events, cancel := s.Subscribe()

	_, err := s.UpdatePin(ctx, 1, pinstate.PinOverride{Label: str("evt")})
	require.NoError(t, err)

	ev := <-events
	assert.Equal(t, editor.EventPinsChanged, ev.Type)
	assert.Equal(t, "evt", ev.State.Pins[1].Label)

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)
}
