package api

import (
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pin-editor/editor"
)

// RegisterRoutes builds the HTTP API around session. staticFS, when non-nil,
// serves the presentation layer's assets.
func RegisterRoutes(session *editor.Session, staticFS fs.FS) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handler{session: session}

	// Catalog
	r.Get("/api/connectors", h.listConnectors)
	r.Get("/api/connectors/{id}/geometry", h.connectorGeometry)
	r.Get("/api/presets", h.listPresets)

	// Live state
	r.Get("/api/state", h.getState)
	r.Put("/api/state/connector", h.selectConnector)
	r.Put("/api/state/selection", h.selectPin)

	// Pins
	r.Post("/api/pins/reset", h.resetAllPins)
	r.Get("/api/pins/{n}", h.getPin)
	r.Patch("/api/pins/{n}", h.updatePin)
	r.Post("/api/pins/{n}/preset", h.applyPreset)
	r.Post("/api/pins/{n}/reset", h.resetPin)

	// Saved configurations
	r.Get("/api/configs", h.listConfigs)
	r.Post("/api/configs", h.createConfig)
	r.Delete("/api/configs/{id}", h.deleteConfig)
	r.Post("/api/configs/{id}/load", h.loadConfig)

	// Import / export
	r.Get("/api/export", h.exportFile)
	r.Post("/api/import", h.importFile)

	// WebSocket change feed
	r.Get("/api/ws", h.handleWS)

	if staticFS != nil {
		r.Get("/", serveFile(staticFS, "index.html"))
		fileServer := http.FileServer(http.FS(staticFS))
		r.Get("/assets/*", fileServer.ServeHTTP)
	}

	return r
}

// serveFile returns a handler that reads a single file from fsys and sends it.
// http.FileServer would redirect a path ending in index.html to "./".
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

type handler struct {
	session *editor.Session
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
