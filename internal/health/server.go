// Package health exposes liveness and readiness endpoints for the
// prediction service, mounted next to the metrics handler.
package health

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Check reports whether one dependency of the service is usable.
// Returning an error marks the service not ready.
type Check func() error

// Status is the JSON body of the liveness endpoint.
type Status struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Readiness is the JSON body of the readiness endpoint.
type Readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler serves /healthz and /readyz.
type Handler struct {
	service string
	version string
	commit  string
	checks  map[string]Check
	logger  *logrus.Logger
}

// NewHandler builds a health handler. Checks are evaluated on every
// readiness request; a fitted-model check is the usual minimum.
func NewHandler(service, version, commit string, logger *logrus.Logger) *Handler {
	return &Handler{
		service: service,
		version: version,
		commit:  commit,
		checks:  make(map[string]Check),
		logger:  logger,
	}
}

// AddCheck registers a named readiness check.
func (h *Handler) AddCheck(name string, check Check) {
	h.checks[name] = check
}

// Register mounts the endpoints on a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.live)
	mux.HandleFunc("/readyz", h.ready)
}

func (h *Handler) live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Status{
		Status:    "ok",
		Service:   h.service,
		Version:   h.version,
		Commit:    h.commit,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) ready(w http.ResponseWriter, _ *http.Request) {
	resp := Readiness{Status: "ready", Checks: make(map[string]string, len(h.checks))}
	code := http.StatusOK

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "not ready"
			code = http.StatusServiceUnavailable
			if h.logger != nil {
				h.logger.WithFields(logrus.Fields{
					"check": name,
					"error": err.Error(),
				}).Warn("readiness check failed")
			}
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
