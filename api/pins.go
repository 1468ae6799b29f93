package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pin-editor/catalog"
	"pin-editor/editor"
	"pin-editor/geometry"
	"pin-editor/pinstate"
)

func (h *handler) listConnectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"groups":     catalog.Groups(),
		"connectors": catalog.All(),
	})
}

func (h *handler) connectorGeometry(w http.ResponseWriter, r *http.Request) {
	c, ok := catalog.Lookup(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "connector not found", http.StatusNotFound)
		return
	}
	l := geometry.Layout{Rows: c.Rows, Layout: c.Layout, TotalPins: c.TotalPins}
	writeJSON(w, http.StatusOK, map[string]any{
		"positions": geometry.Positions(l),
		"bounds":    geometry.Bounds(l),
	})
}

func (h *handler) listPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Presets())
}

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.State())
}

func (h *handler) selectConnector(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.session.SelectConnector(r.Context(), req.ID); err != nil {
		if errors.Is(err, editor.ErrUnknownConnector) {
			http.Error(w, "unknown connector type", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to switch connector", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.session.State())
}

func (h *handler) selectPin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pin *int `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	n := 0
	if req.Pin != nil {
		n = *req.Pin
	}
	if err := h.session.Select(n); err != nil {
		http.Error(w, "pin number out of range", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.session.State())
}

// pinNumber parses the {n} URL parameter. Range checks happen in the session.
func pinNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		http.Error(w, "invalid pin number", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// writePin sends the pin state, mapping session errors to status codes.
func writePin(w http.ResponseWriter, st pinstate.PinState, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, st)
	case errors.Is(err, editor.ErrPinOutOfRange):
		http.Error(w, "pin number out of range", http.StatusNotFound)
	case errors.Is(err, editor.ErrUnknownPreset):
		http.Error(w, "unknown color preset", http.StatusBadRequest)
	default:
		http.Error(w, "failed to update pin", http.StatusInternalServerError)
	}
}

func (h *handler) getPin(w http.ResponseWriter, r *http.Request) {
	n, ok := pinNumber(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.session.PinState(n))
}

func (h *handler) updatePin(w http.ResponseWriter, r *http.Request) {
	n, ok := pinNumber(w, r)
	if !ok {
		return
	}
	var patch pinstate.PinOverride
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	// A hand-entered color without an explicit preset drops the preset.
	if patch.Color != nil && patch.PresetID == nil {
		none := ""
		patch.PresetID = &none
	}
	st, err := h.session.UpdatePin(r.Context(), n, patch)
	writePin(w, st, err)
}

func (h *handler) applyPreset(w http.ResponseWriter, r *http.Request) {
	n, ok := pinNumber(w, r)
	if !ok {
		return
	}
	var req struct {
		PresetID string `json:"presetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	st, err := h.session.ApplyPreset(r.Context(), n, req.PresetID)
	writePin(w, st, err)
}

func (h *handler) resetPin(w http.ResponseWriter, r *http.Request) {
	n, ok := pinNumber(w, r)
	if !ok {
		return
	}
	st, err := h.session.ResetPin(r.Context(), n)
	writePin(w, st, err)
}

func (h *handler) resetAllPins(w http.ResponseWriter, r *http.Request) {
	h.session.ResetAll(r.Context())
	writeJSON(w, http.StatusOK, h.session.State())
}
