package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"showgraph-backend/lib/configutil"
	configlibsql "showgraph-backend/lib/configutil/libsql"
	"showgraph-backend/lib/ratelimit"
	"showgraph-backend/lib/scrapers/imdb"
	"showgraph-backend/lib/serviceutil"
	"showgraph-backend/lib/telemetry"
	"showgraph-backend/services/ratings"
	ratingsdb "showgraph-backend/services/ratings/db"
	"time"
)

type RateLimitConfig struct {
	Requests      int `json:"requests"`
	WindowSeconds int `json:"window_seconds"`
}

type Config struct {
	Port          int                 `json:"port"`
	AllowedOrigin string              `json:"allowed_origin"`
	RateLimit     RateLimitConfig     `json:"rate_limit"`
	Cache         configlibsql.Struct `json:"cache"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(*verbose)
	err := telemetry.SetupFromEnv(ctx, "ratingsd")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8230
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}

	var cache *sql.DB
	if cfg.Cache.File != "" {
		cache, err = cfg.Cache.OpenDB(ratingsdb.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open cache database", err)
		}
		err = ratingsdb.New(cache).DeleteExpiredResponses(ctx, time.Now().Add(-ratings.CacheTTL).Unix())
		if err != nil {
			slog.WarnContext(ctx, "failed to purge expired cache entries", "err", err)
		}
	}

	client, err := imdb.NewClient(imdb.ClientOptions{})
	if err != nil {
		serviceutil.Fatal("failed to create imdb client", err)
	}
	service := ratings.NewService(client, cache, ratings.ServiceOptions{})

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		Limit:  cfg.RateLimit.Requests,
		Window: time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	})

	router := NewRouter(service, limiter, cfg.AllowedOrigin)
	go serviceutil.StartHttpServer(cfg.Port, router)

	<-ctx.Done()
}
