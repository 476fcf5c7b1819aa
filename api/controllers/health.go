package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/petpal-app/petpal-backend/api/responses"
	"github.com/petpal-app/petpal-backend/pkg/config"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/types"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PetPal-Env", cfg.App.Env)
		responses.WriteSuccess(w, types.NewEnvelope(true, "").With("status", "live"))
	}
}

// HealthReady pings every hard dependency and reports per-dependency status.
// Any failure flips the response to 503 so the load balancer drains the
// instance.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PetPal-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		for name, dep := range map[string]pinger{"database": db, "redis": redis} {
			if dep == nil {
				checks[name] = "not configured"
				healthy = false
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "health.ready dependency failed", err)
				}
				continue
			}
			checks[name] = "ok"
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, code, types.NewEnvelope(healthy, "").
			With("status", status).
			With("checks", checks))
	}
}
