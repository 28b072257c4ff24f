// Package health exposes liveness and readiness endpoints backed by named
// dependency probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// probeTimeout bounds how long a readiness pass may spend across all probes.
const probeTimeout = 5 * time.Second

// Probe checks one dependency and returns nil when it is healthy.
type Probe func(ctx context.Context) error

// Report is the JSON body returned by the health endpoints.
type Report struct {
	Healthy   bool              `json:"healthy"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Registry holds named dependency probes and serves health endpoints.
type Registry struct {
	mu     sync.RWMutex
	probes map[string]Probe
}

// NewRegistry creates an empty probe registry.
func NewRegistry() *Registry {
	return &Registry{probes: make(map[string]Probe)}
}

// Register adds a named probe. Registering the same name twice replaces the
// earlier probe.
func (r *Registry) Register(name string, p Probe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes[name] = p
}

// Liveness always reports healthy while the process is running.
func (r *Registry) Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeReport(w, http.StatusOK, Report{Healthy: true, Timestamp: time.Now().UTC()})
	}
}

// Readiness runs every registered probe and reports 503 if any fails.
func (r *Registry) Readiness() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), probeTimeout)
		defer cancel()

		r.mu.RLock()
		probes := make(map[string]Probe, len(r.probes))
		for name, p := range r.probes {
			probes[name] = p
		}
		r.mu.RUnlock()

		checks := make(map[string]string, len(probes))
		healthy := true
		for name, p := range probes {
			if err := p(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
			} else {
				checks[name] = "ok"
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		writeReport(w, status, Report{Healthy: healthy, Timestamp: time.Now().UTC(), Checks: checks})
	}
}

func writeReport(w http.ResponseWriter, status int, rep Report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rep)
}
