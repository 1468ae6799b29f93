package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"

	"pin-editor/api"
	"pin-editor/config"
	"pin-editor/editor"
	"pin-editor/savedconfig"
	"pin-editor/storage"
)

func main() {
	configPath := flag.String("config", os.Getenv("PIN_EDITOR_CONFIG"), "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.Backend, err)
	}
	defer closeBackend()

	store := storage.NewStore(backend, cfg.StorageKey)
	session := editor.NewSession(ctx, store, savedconfig.NewManager(store))

	var staticFS fs.FS
	if cfg.StaticDir != "" {
		staticFS = os.DirFS(cfg.StaticDir)
	}
	router := api.RegisterRoutes(session, staticFS)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("pin-editor listening on %s (storage: %s %s)", addr, cfg.Backend, cfg.DataPath)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := storage.OpenSQLite(ctx, cfg.DataPath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case config.BackendMemory:
		return storage.NewMemoryBackend(), func() {}, nil
	default:
		return storage.NewFileBackend(cfg.DataPath), func() {}, nil
	}
}
