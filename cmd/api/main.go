package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"santatecla_living/internal/adapters/geocode"
	server "santatecla_living/internal/adapters/http_server"
	"santatecla_living/internal/adapters/localfs"
	"santatecla_living/internal/adapters/observability"
	redisad "santatecla_living/internal/adapters/redis"
	"santatecla_living/internal/app"
	"santatecla_living/internal/shared"
	mongorepo "santatecla_living/internal/storage/mongo"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo.Connect failed")
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mongorepo.New(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	store := localfs.New(cfg.UploadDir, cfg.UploadBase)
	geo := geocode.New(cfg.GeocodeBase, cfg.GeocodeEmail, 1)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	c := app.NewContentService(repo, store, cache)

	// http
	srv := server.New(cfg.CORSOrigin)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.ServeFiles(cfg.UploadBase, cfg.UploadDir)
	srv.MountHandlers(&server.Handlers{Q: q, C: c, Geo: geo})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
