// cmd/web/main.go
//
// Weave – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load config (YAML + env overlays, Vault refs resolved).
//
//  4. Open the control-plane DB and log active-site count.
//
//  5. Build the domain-mapping cache and host resolver.
//
//  6. Assemble the middleware chain: request-id → security headers →
//     request-info enrichment → host-resolution rewrite.
//
//  7. Mount the API surface, tenant-content routes, /metrics, /healthz.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/weave/internal/api"
	"github.com/yanizio/weave/internal/apply"
	"github.com/yanizio/weave/internal/config"
	"github.com/yanizio/weave/internal/database"
	"github.com/yanizio/weave/internal/domain"
	"github.com/yanizio/weave/internal/logger"
	"github.com/yanizio/weave/internal/middleware"
	"github.com/yanizio/weave/internal/requestinfo"
	"github.com/yanizio/weave/internal/routing"
	"github.com/yanizio/weave/internal/server"
	"github.com/yanizio/weave/internal/tenant"
)

const serverEnvPath = "/usr/local/etc/weave/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Control-plane DB connect ────────────────────────────────────
	//
	dsn := cfg.Database.DSN
	if strings.Contains(dsn, "%s") {
		dsn = fmt.Sprintf(dsn, cfg.Database.Password)
	}
	db, err := database.Open(dsn)
	if err != nil {
		logOut.Fatalf("connect control-plane DB: %v", err)
	}
	defer db.Close()
	logOut.Infow("control-plane DB online")

	// Log active-site count as an early sanity check.
	if active, err := tenant.ActiveCount(context.Background(), db); err == nil {
		logOut.Infow("active sites", "count", active)
	}

	//
	// ── 3.  Optional geo enrichment ─────────────────────────────────────
	//
	if cfg.Geo.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
			logOut.Warnw("geo DB unavailable, continuing without", "err", err)
		}
	}

	//
	// ── 4.  Host resolution + apply engine ──────────────────────────────
	//
	domains := domain.NewRepo(db)
	cache := domain.NewCache(domains, cfg.Resolver.CacheTTL, nil)
	resolver := domain.NewResolver(cache)
	engine := apply.New(db, cfg.Apply.TxTimeout)

	//
	// ── 5.  Router and middleware chain ─────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)

	// Host rewrite must run after enrichment so content handlers see the
	// original request metadata.
	r.Use(routing.Middleware(resolver, cfg.HTTP.DevPort))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Mount("/", api.New(db, domains, cache, engine).Routes())

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r)
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}
