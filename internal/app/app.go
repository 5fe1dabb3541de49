// Package app wires configuration into the shared, run-scoped components:
// fonts, icon and QR assets, HTTP client, search client and output store.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/youruser/brandshot/internal/config"
	imagepkg "github.com/youruser/brandshot/internal/image"
	"github.com/youruser/brandshot/internal/monitoring"
	"github.com/youruser/brandshot/internal/pipeline"
	"github.com/youruser/brandshot/internal/storage"
	"github.com/youruser/brandshot/internal/unsplash"
	"github.com/youruser/brandshot/internal/util"
)

type App struct {
	cfg        *config.Config
	log        *zap.Logger
	client     *util.Client
	search     pipeline.Searcher
	store      *storage.LocalFS
	compositor *imagepkg.Compositor
	Metrics    *monitoring.Metrics
}

// New validates cfg, loads fonts and builds the assets. Every error it
// returns is fatal to the process.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fonts, err := imagepkg.LoadFontSet(cfg.FontDir)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	client := util.NewClient(cfg.HTTPTimeout, cfg.DialTimeout, cfg.RequestsPerSecond)
	metrics := monitoring.NewMetrics(reg)

	assets, err := imagepkg.BuildAssets(ctx, client, imagepkg.AssetSources{
		LinkedInIconURL: cfg.LinkedInIconURL,
		FacebookIconURL: cfg.FacebookIconURL,
		QRURL:           cfg.QRURL,
	}, log.With(zap.String("component", "assets")))
	if err != nil {
		return nil, fmt.Errorf("building assets: %w", err)
	}
	metrics.IconFailuresTotal.Add(float64(assets.Placeholders))
	log.Info("assets ready", zap.String("output_dir", store.Root()), zap.Int("icon_placeholders", assets.Placeholders))

	return &App{
		cfg:        cfg,
		log:        log,
		client:     client,
		search:     unsplash.NewClient(cfg.APIBaseURL, cfg.AccessKey, client),
		store:      store,
		compositor: imagepkg.NewCompositor(config.RenderConfig{}, fonts, assets, cfg.WatermarkText),
		Metrics:    metrics,
	}, nil
}

// Downloader returns an orchestrator for one batch writing directly into
// the output directory. All batches share the same fonts and assets.
func (a *App) Downloader(rc config.RenderConfig) *pipeline.Downloader {
	return a.downloader(rc, a.store, "")
}

func (a *App) downloader(rc config.RenderConfig, store pipeline.Store, runID string) *pipeline.Downloader {
	return pipeline.NewDownloader(rc, a.search, a.client, a.compositor.WithConfig(rc), store, pipeline.Options{
		MaxConcurrency: a.cfg.MaxConcurrency,
		Metrics:        a.Metrics,
		Logger:         a.log,
		RunID:          runID,
	})
}

// RunResults runs one batch into its own run_id subdirectory of the output
// directory, so overlapping batches with the same title never share a path.
func (a *App) RunResults(ctx context.Context, rc config.RenderConfig) []pipeline.Result {
	runID := uuid.NewString()
	store, err := a.store.Sub(runID)
	if err != nil {
		a.log.Error("creating run directory", zap.String("run_id", runID), zap.Error(err))
		return nil
	}
	return a.downloader(rc, store, runID).RunResults(ctx)
}
