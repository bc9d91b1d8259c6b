package server_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/verselabs/chime/internal/observe"
	"github.com/verselabs/chime/internal/server"
	"github.com/verselabs/chime/pkg/rhyme"
)

// modelDoc is a minimal persisted model; identical fingerprints rhyme with
// score 1 regardless of the tables, so tagging works without learned
// probabilities.
const modelDoc = `{
  "settings": {"lang": "", "window": 5, "syll_max": 2, "stress": true,
               "vowel_length": true, "same_words": true, "ngram": 1,
               "ngram_length": 3, "t_score_min": 3.078, "frequency_min": 3,
               "stanza_limit": false, "prob_ipa_min": 0.95,
               "prob_ngram_min": 0.95, "max_iter": 20, "length_penalty": 0,
               "fast_ipa": true, "radif": 2},
  "probs": {}
}`

func testServer(t *testing.T) *server.Server {
	t.Helper()

	model, err := rhyme.LoadFromReader(strings.NewReader(modelDoc), nil)
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	metrics, err := observe.NewMetrics(sdkmetric.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return server.New(model, metrics, nil)
}

func TestTagEndpoint(t *testing.T) {
	t.Parallel()

	h := testServer(t).Handler()

	body := `{
	  "poem": [
	    {"text": "the beat", "ipa": "ðə bˈiːt"},
	    {"text": "my feet", "ipa": "maɪ fˈiːt"},
	    {"text": "alone", "ipa": "əlˈəʊn"}
	  ],
	  "format": 3,
	  "transcribed": true
	}`
	req := httptest.NewRequest("POST", "/api/tag", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Format int   `json:"format"`
		Rhymes []int `json:"rhymes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if want := []int{1, 1, 0}; len(resp.Rhymes) != 3 || resp.Rhymes[0] != want[0] || resp.Rhymes[1] != want[1] || resp.Rhymes[2] != want[2] {
		t.Errorf("rhymes = %v, want %v", resp.Rhymes, want)
	}
}

func TestTagEndpoint_Report(t *testing.T) {
	t.Parallel()

	h := testServer(t).Handler()

	body := `{
	  "poem": [
	    {"text": "the beat", "ipa": "ðə bˈiːt"},
	    {"text": "my feet", "ipa": "maɪ fˈiːt"}
	  ],
	  "format": 2,
	  "transcribed": true,
	  "report": true
	}`
	req := httptest.NewRequest("POST", "/api/tag", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Report []struct {
			Words      []string `json:"words"`
			Suspicious bool     `json:"suspicious"`
		} `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Report) != 1 {
		t.Fatalf("report entries = %d, want 1", len(resp.Report))
	}
	if resp.Report[0].Suspicious {
		t.Errorf("beat/feet flagged suspicious: %+v", resp.Report[0])
	}
}

func TestTagEndpoint_BadBody(t *testing.T) {
	t.Parallel()

	h := testServer(t).Handler()

	req := httptest.NewRequest("POST", "/api/tag", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest("POST", "/api/tag", strings.NewReader(`{"poem": "nope"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestModelEndpoint(t *testing.T) {
	t.Parallel()

	h := testServer(t).Handler()

	req := httptest.NewRequest("GET", "/api/model", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var settings map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings["window"] != float64(5) {
		t.Errorf("window = %v, want 5", settings["window"])
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := testServer(t).Handler()

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}
