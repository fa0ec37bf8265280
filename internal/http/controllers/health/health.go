// Package health contains liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/Jawadabbaskhan/socialauth/internal/http/helpers"
	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
)

// Pinger es lo mínimo que readiness necesita de una dependencia.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller handles /healthz and /readyz.
type Controller struct {
	deps map[string]Pinger
}

// New recibe las dependencias a chequear en readiness, por nombre.
func New(deps map[string]Pinger) *Controller {
	return &Controller{deps: deps}
}

// Healthz handles GET /healthz — vivo si responde.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz — listo si todas las dependencias responden.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(c.deps))
	for name, dep := range c.deps {
		if err := dep.Ping(ctx); err != nil {
			logger.From(r.Context()).Warn("readiness check failed",
				logger.Component(name), logger.Err(err))
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	helpers.WriteJSON(w, status, checks)
}
