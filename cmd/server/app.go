// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package main

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/cohortcast/internal/analytics"
	"github.com/tomtom215/cohortcast/internal/api"
	"github.com/tomtom215/cohortcast/internal/cache"
	"github.com/tomtom215/cohortcast/internal/config"
	"github.com/tomtom215/cohortcast/internal/logging"
	"github.com/tomtom215/cohortcast/internal/models"
	"github.com/tomtom215/cohortcast/internal/predictor"
	"github.com/tomtom215/cohortcast/internal/statestore"
	"github.com/tomtom215/cohortcast/internal/supervisor"
	"github.com/tomtom215/cohortcast/internal/supervisor/services"
)

// shutdownMargin is added to the HTTP shutdown timeout for the supervisor,
// leaving room for the predictor's final save.
const shutdownMargin = 5 * time.Second

// app holds the wired components of one server process.
type app struct {
	cfg       *config.Config
	store     statestore.Store
	predictor *predictor.RetentionPredictor
	results   *cache.Cache[*models.CalculatedMetrics]
	handler   *api.Handler
	server    *http.Server
}

// newApp builds every component from cfg. Call Close to release the state
// store and cache.
func newApp(cfg *config.Config) (*app, error) {
	store, err := statestore.Open(storeConfig(cfg.Store))
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	logging.Info().Str("backend", store.Backend()).Msg("State store opened")

	pred := predictor.New(predictor.Config{
		GameType:        cfg.Predictor.GameType,
		MinDataPoints:   cfg.Predictor.MinDataPoints,
		ValidationSplit: cfg.Predictor.ValidationSplit,
		StateKey:        cfg.Predictor.StateKey,
	}, store, logging.Logger())

	a := &app{
		cfg:       cfg,
		store:     store,
		predictor: pred,
	}

	if cfg.Cache.Enabled {
		a.results, err = cache.New[*models.CalculatedMetrics](cache.Config{
			Name:       "metrics_calculate",
			TTL:        cfg.Cache.TTL,
			MaxEntries: cfg.Cache.MaxEntries,
		})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
	}

	a.handler = api.NewHandler(api.HandlerDeps{
		Calculator:   analytics.NewCalculator(pred),
		Predictor:    pred,
		Store:        store,
		Cache:        a.results,
		MetricConfig: cfg.Metrics.MetricConfig(),
	})

	mw := api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security))
	router := api.NewRouter(a.handler, mw, cfg.Server.MaxBodyBytes)

	a.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// register adds the app's services to the supervisor tree.
func (a *app) register(tree *supervisor.SupervisorTree) {
	tree.AddModelService(services.NewPredictorService(a.predictor, services.PredictorServiceConfig{
		LoadOnStartup:    a.cfg.Predictor.LoadOnStartup,
		AutosaveInterval: a.cfg.Predictor.AutosaveInterval,
		SaveTimeout:      a.cfg.Store.Timeout,
	}, logging.WithComponent("predictor-service")))

	tree.AddAPIService(services.NewHTTPServerService(a.server, a.cfg.Server.ShutdownTimeout, logging.WithComponent("http-server")))
}

// Close releases the cache and the state store.
func (a *app) Close() {
	if a.results != nil {
		a.results.Close()
	}
	if err := a.store.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close state store")
	}
}

func storeConfig(s config.StoreConfig) statestore.Config {
	return statestore.Config{
		Backend:            s.Backend,
		Path:               s.Path,
		InMemory:           s.InMemory,
		RedisAddr:          s.RedisAddr,
		RedisPassword:      s.RedisPassword,
		RedisDB:            s.RedisDB,
		KeyPrefix:          s.KeyPrefix,
		Timeout:            s.Timeout,
		BreakerMaxFailures: s.BreakerMaxFailures,
		BreakerTimeout:     s.BreakerTimeout,
	}
}
