package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"countries/internal/country/handler"
	"countries/internal/country/service"
	"countries/internal/platform/metrics"
	"countries/internal/platform/middleware"
	platformredis "countries/internal/platform/redis"
	"countries/internal/web"
	"countries/pkg/platform/httputil"
	"countries/pkg/requestcontext"
)

type routerDeps struct {
	logger   *slog.Logger
	service  *service.Service
	redis    *platformredis.Client
	httpMeta *metrics.HTTP
}

func newRouter(deps routerDeps) (http.Handler, error) {
	pages, err := web.New(deps.service, deps.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.AccessLog(deps.logger, deps.httpMeta))

	handler.New(deps.service, deps.logger).Register(r)
	pages.Register(r)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", healthHandler(deps))
	return r, nil
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Redis  string `json:"redis,omitempty"`
}

func healthHandler(deps routerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		resp := healthResponse{Status: "ok", Store: "ok"}
		if err := deps.service.Ping(ctx); err != nil {
			resp.Status, resp.Store = "degraded", "unavailable"
			logProbeFailure(ctx, deps.logger, "store", err)
		}
		if deps.redis != nil {
			resp.Redis = "ok"
			if err := deps.redis.Health(ctx); err != nil {
				resp.Status, resp.Redis = "degraded", "unavailable"
				logProbeFailure(ctx, deps.logger, "redis", err)
			}
		}
		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}

func logProbeFailure(ctx context.Context, log *slog.Logger, dependency string, err error) {
	log.WarnContext(ctx, "health probe failed",
		"request_id", requestcontext.RequestID(ctx),
		"dependency", dependency,
		"error", err,
	)
}
