// Package server wires the RPC services into an HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"

	gachav1 "github.com/YJlang/gacha/internal/api/gachav1"
	"github.com/YJlang/gacha/internal/auth"
	"github.com/YJlang/gacha/internal/catalog"
	"github.com/YJlang/gacha/internal/collection"
	"github.com/YJlang/gacha/internal/config"
	"github.com/YJlang/gacha/internal/gacha"
	"github.com/YJlang/gacha/internal/service"
)

// Pinger reports backend health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds everything the router serves
type Deps struct {
	Catalog     *catalog.Store
	Gacha       *gacha.Service
	Collections *collection.Service
	Verifier    *auth.Verifier
	// DB backs /health/db; nil reports the check as skipped
	DB        Pinger
	RateLimit config.RateLimitConfig
	Log       logrus.FieldLogger
}

// NewRouter mounts the RPC services, health checks and metrics
func NewRouter(d Deps) http.Handler {
	interceptors := []connect.Interceptor{service.NewLoggingInterceptor(d.Log)}
	if d.RateLimit.RPS > 0 {
		limiter := rate.NewLimiter(rate.Limit(d.RateLimit.RPS), d.RateLimit.Burst)
		interceptors = append(interceptors, service.NewRateLimitInterceptor(limiter))
	}
	interceptors = append(interceptors, auth.NewInterceptor(d.Verifier,
		gachav1.CatalogServiceListCatalogProcedure,
		gachav1.CatalogServiceGetCatalogItemProcedure,
		gachav1.CatalogServiceListRegionsProcedure,
	))
	opts := connect.WithInterceptors(interceptors...)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	path, handler := gachav1.NewGachaServiceHandler(service.NewGachaServer(d.Gacha), opts)
	r.Mount(path, handler)
	path, handler = gachav1.NewCatalogServiceHandler(service.NewCatalogServer(d.Catalog, d.Collections, d.Log), opts)
	r.Mount(path, handler)
	path, handler = gachav1.NewCollectionServiceHandler(service.NewCollectionServer(d.Collections), opts)
	r.Mount(path, handler)

	// Add health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		hostname, _ := os.Hostname()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","service":"gacha","hostname":"%s","catalogLoadedAt":"%s"}`,
			hostname, d.Catalog.LoadedAt().Format(time.RFC3339))
	})

	// Add database health check endpoint
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if d.DB == nil {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok","database":"disabled"}`))
			return
		}
		if err := d.DB.Ping(r.Context()); err != nil {
			d.Log.WithError(err).Warn("Database health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"error","message":"database unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","database":"connected"}`))
	})

	// Add Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// NewHTTPServer creates a server with configuration optimized for high concurrency
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:           cfg.GetServerAddr(),
		ReadTimeout:    time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:    120 * time.Second, // Keep connections alive longer
		MaxHeaderBytes: 1 << 20,           // 1MB
		// Use h2c so we can serve HTTP/2 without TLS
		Handler: h2c.NewHandler(handler, &http2.Server{
			MaxConcurrentStreams: 1000, // Allow more concurrent streams
		}),
	}
}
