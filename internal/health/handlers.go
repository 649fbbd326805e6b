package health

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
)

// ready gates the readiness probe so a draining server stops receiving traffic
// before it closes its listener.
var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady flips the readiness gate. Called with false at shutdown start.
func SetReady(v bool) { ready.Store(v) }

// Checker reports the state of the in-process dependencies the API serves from.
type Checker interface {
	SessionCount() int
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker Checker
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness. The service has no external dependencies; readiness
// means the session registry is wired.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if !ready.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if h.Checker == nil {
		http.Error(w, "session registry unavailable", http.StatusServiceUnavailable)
		return
	}
	status := map[string]string{
		"sessions": strconv.Itoa(h.Checker.SessionCount()),
		"status":   "ok",
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(status)
}
