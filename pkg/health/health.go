// Package health serves liveness and readiness probes. All registered
// checks run on one background ticker; probe handlers only read the cached
// results, so they stay cheap no matter how slow a check is.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// kind separates liveness checks from readiness checks.
type kind int

const (
	liveness kind = iota
	readiness
)

// check is one registered probe and its last observed state.
type check struct {
	name    string
	kind    kind
	timeout time.Duration
	fn      CheckFunc

	// failures counts consecutive failed runs. A check turns unhealthy
	// after failureThreshold consecutive failures and recovers on the
	// first success, which keeps one slow scrape from flapping the probe.
	failures int
	lastErr  error
}

const failureThreshold = 3

func (c *check) unhealthy() bool {
	return c.failures >= failureThreshold
}

// Health runs the registered checks and answers probe requests.
type Health struct {
	mu     sync.Mutex
	checks []*check
	ready  bool
	cancel context.CancelFunc
}

// New creates a Health manager. The service reports not-ready until
// SetReady(true) is called after initialisation.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a probe for the /livez endpoint.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.add(&check{name: name, kind: liveness, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a probe for the /readyz endpoint.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.add(&check{name: name, kind: readiness, timeout: timeout, fn: fn})
}

func (h *Health) add(c *check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, c)
}

// Start runs every registered check once, then again at each interval, until
// Stop is called or ctx is cancelled. Register all checks before calling it.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		h.runAll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.runAll(ctx)
			}
		}
	}()
}

// Stop cancels the background runner. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the manual readiness gate. Call with false during graceful
// shutdown so load balancers drain the instance before it exits.
func (h *Health) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// IsReady reports whether the service should receive traffic: the manual
// gate is open and no readiness check is failing.
func (h *Health) IsReady() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.ready {
		return false
	}
	for _, c := range h.checks {
		if c.kind == readiness && c.unhealthy() {
			return false
		}
	}
	return true
}

// runAll executes every check sequentially. The lock is released around the
// check function so a stuck probe cannot block the HTTP handlers.
func (h *Health) runAll(ctx context.Context) {
	h.mu.Lock()
	checks := make([]*check, len(h.checks))
	copy(checks, h.checks)
	h.mu.Unlock()

	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.fn(checkCtx)
		cancel()

		h.mu.Lock()
		c.lastErr = err
		if err != nil {
			c.failures++
		} else {
			c.failures = 0
		}
		h.mu.Unlock()
	}
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint answers the liveness probe: 200 while every liveness check
// passes, 503 with the failing checks otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, h.failures(liveness))
}

// ReadyEndpoint answers the readiness probe: 200 only when the manual gate
// is open and every readiness check passes.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := h.failures(readiness)

	h.mu.Lock()
	ready := h.ready
	h.mu.Unlock()
	if !ready {
		failures["service"] = "not ready"
	}

	h.respond(w, failures)
}

func (h *Health) failures(k kind) map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]string)
	for _, c := range h.checks {
		if c.kind != k || !c.unhealthy() {
			continue
		}
		if c.lastErr != nil {
			out[c.name] = c.lastErr.Error()
		} else {
			out[c.name] = "unhealthy"
		}
	}
	return out
}

func (h *Health) respond(w http.ResponseWriter, failures map[string]string) {
	resp := probeResponse{Status: "ok"}
	status := http.StatusOK
	if len(failures) > 0 {
		resp = probeResponse{Status: "unhealthy", Checks: failures}
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
