// README: Entry point; loads config, wires services, starts HTTP server and the session janitor.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"farecast/internal/config"
	httptransport "farecast/internal/http"
	"farecast/internal/infra"
	"farecast/internal/maps"
	"farecast/internal/modules/assets"
	"farecast/internal/modules/estimator"
	"farecast/internal/modules/session"
	"farecast/internal/modules/trips"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dbSource trips.Source
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer dbPool.Close()
		dbSource = trips.PostgresSource{Store: trips.NewStore(dbPool, cfg.DB.TripsTable)}
	}

	var predictions estimator.PredictionCache
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Printf("prediction cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			predictions = estimator.NewRedisCache(redisClient, cfg.Estimator.PredictionTTL)
		}
	}

	var routes estimator.DistanceResolver
	if cfg.Maps.APIKey != "" {
		routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey, cfg.Maps.Region)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		routes = routeSvc
	}

	estimatorSvc, err := estimator.NewService(cfg.Estimator.Params, cfg.Estimator.ModelCacheSize, predictions, routes)
	if err != nil {
		log.Fatal(err)
	}
	sessions := session.NewManager(trips.LoadOptions{Provider: cfg.Dataset.Provider}, cfg.Session.IdleTTL)

	catalog := assets.NewCatalog(cfg.Assets.Dir, assets.Default)
	for _, w := range catalog.Warnings() {
		log.Printf("warning: %s", w)
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Sessions:       sessions,
		Estimator:      estimatorSvc,
		Assets:         catalog,
		StaticSource:   trips.FileSource{Path: cfg.Dataset.Path},
		DBSource:       dbSource,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		MaxUploadBytes: cfg.Session.MaxUploadBytes,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes(), ReadHeaderTimeout: 10 * time.Second}

	go sessions.RunJanitor(ctx, cfg.Session.JanitorTick)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("farecast api listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
