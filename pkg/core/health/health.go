// File: health.go
// Title: Health Checks
// Description: A small health check registry with a JSON HTTP handler.
//              scpid mounts it next to the WebSocket endpoint so process
//              monitors can probe the daemon and the instrument state
//              (pending tasks, error queue depth) behind it.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial health checks

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status is the outcome of a health check
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is the outcome of one named check
type CheckResult struct {
	Name    string                 `json:"name"`
	Status  Status                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CheckFunc produces one check result. Checks must be quick; the HTTP
// handler runs them inline per request.
type CheckFunc func(ctx context.Context) CheckResult

// Registry holds the named checks of one service
type Registry struct {
	service string
	version string
	startAt time.Time

	mu     sync.Mutex
	checks map[string]CheckFunc
}

// NewRegistry creates a registry reporting under the given service name
func NewRegistry(service, version string) *Registry {
	return &Registry{
		service: service,
		version: version,
		startAt: time.Now(),
		checks:  make(map[string]CheckFunc),
	}
}

// Register adds or replaces a named check
func (r *Registry) Register(name string, fn CheckFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = fn
}

// Report is the aggregated health state
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	UptimeSec float64       `json:"uptime_seconds"`
	Checks    []CheckResult `json:"checks,omitempty"`
}

// Check runs every registered check and aggregates the worst status
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.Lock()
	checks := make(map[string]CheckFunc, len(r.checks))
	for name, fn := range r.checks {
		checks[name] = fn
	}
	r.mu.Unlock()

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Status:    StatusHealthy,
		UptimeSec: time.Since(r.startAt).Seconds(),
	}
	for name, fn := range checks {
		result := fn(ctx)
		if result.Name == "" {
			result.Name = name
		}
		report.Checks = append(report.Checks, result)
		switch result.Status {
		case StatusUnhealthy:
			report.Status = StatusUnhealthy
		case StatusDegraded:
			if report.Status != StatusUnhealthy {
				report.Status = StatusDegraded
			}
		}
	}
	return report
}

// Handler returns an HTTP handler serving the report as JSON. Unhealthy
// reports answer 503 so load balancers and probes need no body parsing.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		report := r.Check(req.Context())

		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(report); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
