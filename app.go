package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/futsapp/config"
	"github.com/DhavalSuthar-24/futsapp/internal/events"
	"github.com/DhavalSuthar-24/futsapp/internal/match"
	"github.com/DhavalSuthar-24/futsapp/internal/metrics"
	"github.com/DhavalSuthar-24/futsapp/internal/routing"
	"github.com/DhavalSuthar-24/futsapp/internal/stats"
	"github.com/DhavalSuthar-24/futsapp/internal/storage"
	"github.com/DhavalSuthar-24/futsapp/internal/user"
	"github.com/DhavalSuthar-24/futsapp/internal/venue"
	"github.com/DhavalSuthar-24/futsapp/routes"
)

// geocoderRetries is kept low; the public geocoder rate limits aggressively.
const geocoderRetries = 1

// app owns every long-lived component of the server.
type app struct {
	db        *gorm.DB
	persister *storage.Persister
	hub       *events.Hub
	metrics   *metrics.Metrics
	users     *user.Store
	matches   *match.Store
	stats     *stats.Store
	venues    *venue.Registry
	router    *gin.Engine
}

func newRepository(cfg *config.Config) (storage.Repository, *gorm.DB, error) {
	db, err := config.ConnectDB(*cfg)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		log.Warn().Msg("Using in-memory storage, nothing survives a restart")
		return storage.NewMemoryRepository(), nil, nil
	}
	repo := storage.NewGormRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate storage: %w", err)
	}
	return repo, db, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	repo, db, err := newRepository(cfg)
	if err != nil {
		return nil, err
	}

	registry, err := venue.LoadRegistry(cfg.Venues.File)
	if err != nil {
		return nil, err
	}

	a := &app{db: db, venues: registry}
	a.metrics = metrics.New()
	a.persister = storage.NewPersister(repo, a.metrics)
	a.hub = events.NewHub(events.DefaultHubConfig())

	clock := clockwork.NewRealClock()
	a.users = user.NewStore(clock, a.hub, a.metrics)
	a.matches = match.NewStore(a.users,
		match.WithClock(clock),
		match.WithSnapshotter(a.persister),
		match.WithPublisher(a.hub),
		match.WithMetrics(a.metrics),
		match.WithSeed(cfg.App.SeedMatches),
	)
	a.stats = stats.NewStore(clock, a.persister, a.hub, a.metrics)

	if err := a.matches.Hydrate(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	if err := a.stats.Hydrate(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	directions := routing.NewClient(cfg.Directions.BaseURL, cfg.Directions.Timeout, cfg.Directions.MaxRetries, a.metrics)
	geocoder := routing.NewGeocoder(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout, geocoderRetries)
	locator := venue.NewLocator(registry, geocoder, a.metrics)

	matchController := match.NewMatchController(a.matches, a.stats, registry, locator, directions, clock)
	a.router = routes.SetupRoutes(cfg, routes.Dependencies{
		Users:    a.users,
		Matches:  matchController,
		Stats:    a.stats,
		Venues:   registry,
		Resolver: directions,
		Hub:      a.hub,
		Metrics:  a.metrics,
	})
	return a, nil
}

// Close disconnects websocket clients and writes out pending snapshots.
func (a *app) Close() {
	a.hub.Close()
	a.persister.Close()
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
