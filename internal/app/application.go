// Package app wires the catalog services together and manages their
// lifecycle.
package app

import (
	"context"
	"fmt"

	"github.com/cswatch/catalog/internal/app/domain/catalog"
	catalogsvc "github.com/cswatch/catalog/internal/app/services/catalog"
	marketsvc "github.com/cswatch/catalog/internal/app/services/market"
	"github.com/cswatch/catalog/internal/app/storage"
	"github.com/cswatch/catalog/internal/app/storage/memory"
	"github.com/cswatch/catalog/internal/app/system"
	"github.com/cswatch/catalog/internal/config"
	"github.com/cswatch/catalog/internal/metrics"
	"github.com/cswatch/catalog/pkg/logger"
)

// Stores encapsulates persistence dependencies. A nil store defaults to the
// in-memory implementation.
type Stores struct {
	Catalog storage.CatalogStore
}

// Application ties the catalog service and the market feed together and
// manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Catalog *catalogsvc.Service
	Market  *marketsvc.Feed
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, cfg config.MarketConfig, m *metrics.Metrics, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}
	if stores.Catalog == nil {
		stores.Catalog = memory.New()
	}

	catalogService := catalogsvc.New(stores.Catalog, log.WithField("component", "catalog"))

	// Seed the feed from whatever priced skins the store holds at startup;
	// the feed falls back to the canonical demo set when none exist.
	seed, err := stores.Catalog.List(context.Background(), catalog.Skins)
	if err != nil {
		log.WithError(err).Warn("catalog unavailable at startup; market feed uses default seed set")
		seed = nil
	}
	feed := marketsvc.NewFeed(seed, marketsvc.Config{
		WalkBoundPct: cfg.WalkBoundPct,
		SeedDays:     cfg.HistorySeedDays,
		Log:          log.WithField("component", "market-feed"),
		Metrics:      m,
	})

	manager := system.NewManager()
	if err := manager.Register(system.NoopService{ServiceName: "catalog"}); err != nil {
		return nil, fmt.Errorf("register catalog service: %w", err)
	}
	ticker := marketsvc.NewTicker(feed, cfg.TickInterval, log.WithField("component", "market-ticker"))
	if err := manager.Register(ticker); err != nil {
		return nil, fmt.Errorf("register %s: %w", ticker.Name(), err)
	}

	return &Application{
		manager: manager,
		log:     log,
		Catalog: catalogService,
		Market:  feed,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before
// Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
