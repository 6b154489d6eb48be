package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"agencia-viajes/internal/messaging"
)

// Health handles GET /health: liveness only, no dependency checks.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type dependencyCheck struct {
	Status    string         `json:"status"`
	LatencyMs int64          `json:"latency_ms,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Ready handles GET /health/ready: 200 only when both Postgres and the
// message broker are reachable.
func Ready(db *sql.DB, rmq *messaging.RabbitMQ) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]dependencyCheck{
			"database": checkDatabase(ctx, db),
			"rabbitmq": checkBroker(rmq),
		}

		status := "ready"
		code := http.StatusOK
		for _, c := range checks {
			if c.Status != "up" {
				status = "not_ready"
				code = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"checks":    checks,
		})
	}
}

func checkDatabase(ctx context.Context, db *sql.DB) dependencyCheck {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return dependencyCheck{Status: "down", LatencyMs: latency, Error: err.Error()}
	}

	stats := db.Stats()
	return dependencyCheck{
		Status:    "up",
		LatencyMs: latency,
		Metadata: map[string]any{
			"connections_open":   stats.OpenConnections,
			"connections_in_use": stats.InUse,
			"connections_idle":   stats.Idle,
			"max_open":           stats.MaxOpenConnections,
		},
	}
}

func checkBroker(rmq *messaging.RabbitMQ) dependencyCheck {
	if rmq == nil || rmq.IsClosed() {
		return dependencyCheck{Status: "down", Error: "connection closed"}
	}
	return dependencyCheck{Status: "up"}
}
