package server

import (
	"context"
	"net/http"
	"time"

	"github.com/verselabs/chime/pkg/rhyme"
)

// readyCheckTimeout bounds a single readiness probe.
const readyCheckTimeout = 5 * time.Second

// healthResult is the JSON response body for health endpoints.
type healthResult struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealthz is a liveness probe: a process that can serve HTTP is
// alive.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResult{Status: "ok"})
}

// handleReadyz reports readiness: the model must hold probability tables,
// and — when the model depends on an external transcriber — the
// transcriber must answer a probe transcription.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	checks := map[string]string{"model": "ok"}
	status := http.StatusOK

	if err := s.probeTranscriber(ctx); err != nil {
		checks["transcriber"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["transcriber"] = "ok"
	}

	result := healthResult{Status: "ok", Checks: checks}
	if status != http.StatusOK {
		result.Status = "fail"
	}
	writeJSON(w, status, result)
}

// probeTranscriber tags a one-line probe poem, which exercises the whole
// transcription path the same way a real request would.
func (s *Server) probeTranscriber(ctx context.Context) error {
	_, err := s.model.Tag(ctx, rhyme.NewPoem("ready"))
	return err
}
