package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/higherself/network-server/pkg/config"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
	"github.com/higherself/network-server/pkg/logger"
	"go.uber.org/multierr"

	"github.com/higherself/network-server/api/responses"
)

type pinger interface {
	Ping(context.Context) error
}

// Health reports liveness. The body is intentionally unwrapped; the
// WordPress plugin polls this endpoint and expects a flat object.
func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-HSN-Env", cfg.App.Env)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}
}

// HealthReady verifies the backing dependencies answer. Nil pingers are
// skipped so demo mode stays ready without a database.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var combined error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				combined = multierr.Append(combined, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
			}
		}
		if combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed"))
			return
		}
		w.Header().Set("X-HSN-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// ReadinessDeps assembles the named dependency pingers for HealthReady.
func ReadinessDeps(db, redis pinger) map[string]pinger {
	return map[string]pinger{
		"database": db,
		"redis":    redis,
	}
}
