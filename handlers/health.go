package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/llmkit/llm-selector/app"
)

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// ReadinessCheck reports whether the gateway can serve completions
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"status": "ready",
			"checks": map[string]string{},
		}

		providerCount := deps.Registry.Count()
		if providerCount == 0 {
			response["status"] = "not_ready"
			response["checks"].(map[string]string)["providers"] = "none_configured"
		} else {
			response["checks"].(map[string]string)["providers"] = "configured"
		}

		w.Header().Set("Content-Type", "application/json")
		if response["status"] == "ready" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// ProvidersHandler lists registered providers with live availability
func ProvidersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		type providerStatus struct {
			Name      string `json:"name"`
			Available bool   `json:"available"`
		}

		var statuses []providerStatus
		for _, p := range deps.Registry.Providers() {
			statuses = append(statuses, providerStatus{
				Name:      p.Name(),
				Available: p.IsAvailable(ctx),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"providers": statuses,
		})
	}
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"version":     "0.1.0",
			"environment": deps.Config.Environment,
			"policy":      deps.Config.Selection.DefaultPolicy,
			"providers":   deps.Registry.List(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
