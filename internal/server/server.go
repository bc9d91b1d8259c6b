// Package server exposes a loaded rhyme model as a JSON REST API.
//
// Endpoints:
//
//	POST /api/tag     body: {"poem": [...], "format": 1|2|3,
//	                         "transcribed": false, "report": false}
//	GET  /api/model   loaded model settings
//	GET  /healthz     liveness probe
//	GET  /readyz      readiness probe (model loaded, transcriber reachable)
//	GET  /metrics     Prometheus scrape endpoint
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/verselabs/chime/internal/corpus"
	"github.com/verselabs/chime/internal/eval"
	"github.com/verselabs/chime/internal/observe"
	"github.com/verselabs/chime/internal/token"
	"github.com/verselabs/chime/pkg/rhyme"
)

// Server serves tagging requests against one loaded model. Safe for
// concurrent use: the model is read-only and every request owns its data.
type Server struct {
	model    *rhyme.Model
	metrics  *observe.Metrics
	reporter *eval.Reporter

	// allowedOrigins restricts CORS; empty allows all origins.
	allowedOrigins []string
}

// New creates a Server around a trained or loaded model.
func New(model *rhyme.Model, metrics *observe.Metrics, allowedOrigins []string) *Server {
	return &Server{
		model:          model,
		metrics:        metrics,
		reporter:       eval.New(),
		allowedOrigins: allowedOrigins,
	}
}

// Handler returns the fully wired HTTP handler: routes, CORS, and the
// observability middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tag", s.handleTag)
	mux.HandleFunc("GET /api/model", s.handleModel)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", promhttp.Handler())

	c := cors.AllowAll()
	if len(s.allowedOrigins) > 0 {
		c = cors.New(cors.Options{AllowedOrigins: s.allowedOrigins})
	}
	return observe.Middleware(s.metrics)(c.Handler(mux))
}

// tagRequest is the /api/tag request body. The poem field accepts the same
// shapes as JSON corpus files.
type tagRequest struct {
	Poem        json.RawMessage `json:"poem"`
	Format      int             `json:"format"`
	Transcribed bool            `json:"transcribed"`
	Report      bool            `json:"report"`
}

// tagResponse carries the requested rendering plus the optional chain
// plausibility report.
type tagResponse struct {
	Format int                `json:"format"`
	Rhymes any                `json:"rhymes"`
	Report []eval.ChainReport `json:"report,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if req.Format == 0 {
		req.Format = int(rhyme.FormatNeighbors)
	}

	poem, err := corpus.ParsePoem(req.Poem)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid poem: " + err.Error()})
		return
	}

	var opts []rhyme.TagOption
	if req.Transcribed {
		opts = append(opts, rhyme.WithTranscribedInput(true))
	}

	rhymes, err := s.model.Tag(ctx, poem, opts...)
	if err != nil {
		observe.Logger(ctx).Error("tagging failed", "err", err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	rendered, err := rhymes.Render(rhyme.OutputFormat(req.Format))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	resp := tagResponse{Format: req.Format, Rhymes: rendered}
	chains := rhymes.Chains()
	if req.Report {
		resp.Report = s.reporter.Chains(chains, rhymeWords(poem))
	}

	s.metrics.LinesTagged.Add(ctx, int64(rhymes.Lines()))
	s.metrics.ChainsDetected.Add(ctx, int64(len(chains)))
	s.metrics.TagDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("lang", s.model.Settings().Lang)))

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.model.Settings())
}

// rhymeWords extracts each line's rhyme word for the diagnostic report.
func rhymeWords(poem rhyme.Poem) []string {
	var words []string
	for _, st := range poem {
		for _, l := range st {
			w, _ := token.RhymeWord(l.Text)
			words = append(words, w)
		}
	}
	return words
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}
