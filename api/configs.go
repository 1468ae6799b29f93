package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pin-editor/savedconfig"
	"pin-editor/transfer"
)

// maxImportSize caps the request body accepted by importFile.
const maxImportSize = 8 << 20

func (h *handler) listConfigs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.SavedConfigs(r.Context()))
}

func (h *handler) createConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	cfg, err := h.session.SaveAs(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, savedconfig.ErrEmptyName) {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to save configuration", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

func (h *handler) deleteConfig(w http.ResponseWriter, r *http.Request) {
	h.session.DeleteConfig(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) loadConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.session.LoadConfig(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, savedconfig.ErrNotFound) {
			http.Error(w, "saved configuration not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load configuration", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, h.session.State())
}

func (h *handler) exportFile(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, err := h.session.Export(r.Context(), &buf)
	if err != nil {
		http.Error(w, "failed to export", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *handler) importFile(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "import file too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read import", http.StatusBadRequest)
		return
	}

	// The import finishes even if the client goes away.
	select {
	case out := <-h.session.ImportAsync(context.WithoutCancel(r.Context()), bytes.NewReader(data)):
		if out.Err != nil {
			var ie *transfer.ImportError
			if errors.As(out.Err, &ie) {
				http.Error(w, ie.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to import", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"state":       h.session.State(),
			"adjustments": out.Result.Adjustments,
		})
	case <-r.Context().Done():
	}
}
