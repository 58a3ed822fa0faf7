package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parcelview/internal/platform/config"
	"parcelview/internal/platform/httpserver"
	"parcelview/internal/platform/logger"
	"parcelview/internal/platform/metrics"
	platformredis "parcelview/internal/platform/redis"
	"parcelview/internal/property/analytics"
	"parcelview/internal/property/handler"
	"parcelview/internal/property/refdata"
	"parcelview/internal/property/store/acris"
	"parcelview/internal/property/store/valuation"
	"parcelview/internal/property/taxhistory"
	"parcelview/internal/property/transactions"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	m := metrics.New()

	codes, rates, err := loadReferenceData(ctx, cfg)
	if err != nil {
		log.Error("loading reference data", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("opening valuation database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	acrisClient, err := acris.NewClient(cfg.ACRISBaseURL, acris.WithLogger(log))
	if err != nil {
		log.Error("building recorder client", "error", err)
		os.Exit(1)
	}

	var source acris.Source = acrisClient
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache, err := acris.NewCache(source, redisClient.Client, cfg.CacheTTL,
			acris.WithCacheLogger(log),
			acris.WithCacheMetrics(m),
		)
		if err != nil {
			log.Error("building fetch cache", "error", err)
			os.Exit(1)
		}
		source = cache
		log.Info("fetch cache enabled", "ttl", cfg.CacheTTL.String())
	}

	txSvc, err := transactions.New(source, source, codes,
		transactions.WithLogger(log),
		transactions.WithMetrics(m),
	)
	if err != nil {
		log.Error("building transactions service", "error", err)
		os.Exit(1)
	}

	taxSvc, err := taxhistory.New(valuation.NewPostgres(db), rates,
		taxhistory.WithLogger(log),
	)
	if err != nil {
		log.Error("building tax history service", "error", err)
		os.Exit(1)
	}

	var publisher *analytics.Publisher
	if len(cfg.KafkaSeeds) > 0 {
		publisher, err = analytics.NewPublisher(cfg.KafkaSeeds, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("connecting to kafka", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		if err := publisher.EnsureTopic(ctx); err != nil {
			log.Warn("ensuring analytics topic", "topic", cfg.KafkaTopic, "error", err)
		}
		log.Info("lookup analytics enabled", "topic", cfg.KafkaTopic)
	}

	h, err := handler.New(txSvc, taxSvc,
		handler.WithLogger(log),
		handler.WithMetrics(m),
		handler.WithAnalytics(publisher),
	)
	if err != nil {
		log.Error("building handler", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	h.Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting parcelview", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// loadReferenceData reads the control-code and rate tables from yaml files
// when paths are configured, falling back to the relational store.
func loadReferenceData(ctx context.Context, cfg config.Server) (*refdata.ControlCodes, *refdata.TaxRates, error) {
	if cfg.ControlCodesPath != "" && cfg.TaxRatesPath != "" {
		codes, err := refdata.LoadControlCodes(cfg.ControlCodesPath)
		if err != nil {
			return nil, nil, err
		}
		rates, err := refdata.LoadTaxRates(cfg.TaxRatesPath)
		if err != nil {
			return nil, nil, err
		}
		return codes, rates, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	defer pool.Close()

	codes, err := refdata.LoadControlCodesPostgres(ctx, pool)
	if err != nil {
		return nil, nil, err
	}
	rates, err := refdata.LoadTaxRatesPostgres(ctx, pool)
	if err != nil {
		return nil, nil, err
	}
	return codes, rates, nil
}
