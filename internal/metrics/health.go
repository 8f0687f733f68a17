package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthStatus is the body served by the health endpoint
type HealthStatus struct {
	Status     string            `json:"status"` // "healthy" or "unhealthy"
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
	Version    string            `json:"version,omitempty"`
	Uptime     string            `json:"uptime,omitempty"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports healthy while the database answers a ping within
// two seconds.
func HealthHandler(db Pinger, version string) http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := HealthStatus{
			Status:     "healthy",
			Timestamp:  time.Now().UTC(),
			Components: map[string]string{"database": "ok"},
			Version:    version,
			Uptime:     time.Since(started).Round(time.Second).String(),
		}
		code := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			status.Status = "unhealthy"
			status.Components["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	}
}
