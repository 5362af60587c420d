package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/recordhub/recordhub-backend/api/responses"
	"github.com/recordhub/recordhub-backend/pkg/config"
	"github.com/recordhub/recordhub-backend/pkg/db"
	pkgerrors "github.com/recordhub/recordhub-backend/pkg/errors"
	"github.com/recordhub/recordhub-backend/pkg/logger"
	"github.com/recordhub/recordhub-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RecordHub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the datasource and, when configured, the cache.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cacheP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RecordHub-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		checks["database"] = "ok"

		if cacheP != nil {
			if err := cacheP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unreachable"))
				return
			}
			checks["cache"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
