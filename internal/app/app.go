// Package app wires the configuration, the generator and the HTTP layer for
// both entrypoints.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"emissions/internal/api"
	"emissions/internal/config"
	"emissions/internal/engine"
	"emissions/internal/export"
	"emissions/internal/models"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config *config.Config
	// Gen is nil when the dataset comes from Config.DataFile.
	Gen *engine.Generator
}

func New(cfg *config.Config) *App {
	a := &App{Config: cfg}
	if cfg.DataFile == "" {
		a.Gen = engine.New(cfg.GeneratorOptions()...)
	}
	return a
}

// Dataset loads Config.DataFile (Arrow IPC for .arrow/.ipc, wide CSV
// otherwise) or synthesizes a fresh dataset.
func (a *App) Dataset() (*models.Dataset, error) {
	if a.Gen != nil {
		return a.Gen.Generate(), nil
	}

	path := a.Config.DataFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".arrow", ".ipc":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		ds, err := export.ReadArrow(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return ds, nil
	default:
		cs, err := engine.LoadWide(path)
		if err != nil {
			return nil, err
		}
		return cs.Dataset(), nil
	}
}

// Serve starts the HTTP server at once and loads the dataset in the
// background; data routes answer 503 until it is ready. It returns when ctx
// is cancelled or the listener fails.
func (a *App) Serve(ctx context.Context) error {
	lvl, err := config.ParseLevel(a.Config.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	// 1. Handler with nil data, live immediately
	h := api.NewHandler(a.Gen, nil)
	h.SetEnsemble(a.Config.Ensemble.Runs, a.Config.Ensemble.Workers)
	e := api.NewServer(h, api.Options{
		RateLimit:  a.Config.RateLimit,
		LogLevel:   lvl,
		AdminToken: a.Config.AdminToken,
	})

	// 2. Load in background
	go func() {
		log.Info("BACKGROUND: loading dataset...")
		t0 := time.Now()

		ds, err := a.Dataset()
		if err != nil {
			log.Fatalf("BACKGROUND: dataset load failed: %v", err)
		}
		h.SetData(ds)

		log.Infof("BACKGROUND: %d series over %d years ready in %v", len(ds.Series), len(ds.Years), time.Since(t0))
	}()

	// 3. Start server
	errc := make(chan error, 1)
	go func() {
		log.Infof("server ready on %s (data loading in background...)", a.Config.Addr)
		errc <- e.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
