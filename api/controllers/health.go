package controllers

import (
	"net/http"

	"github.com/forgefitlabs/forgefit-backend/api/responses"
	"github.com/forgefitlabs/forgefit-backend/pkg/config"
	"github.com/forgefitlabs/forgefit-backend/pkg/db"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ForgeFit-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness based on the datasource being reachable.
func HealthReady(cfg *config.Config, pinger db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ForgeFit-Env", cfg.App.Env)
		status := "ready"
		code := http.StatusOK
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		responses.WriteSuccessStatus(w, code, map[string]string{"status": status})
	}
}
