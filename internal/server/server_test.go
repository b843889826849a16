package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/lineup/pkg/history"
	"github.com/matzehuels/lineup/pkg/pipeline"
)

const chainBody = `{"acts":[
	{"name":"A","performers":["x","y"]},
	{"name":"B","performers":["y","z"]},
	{"name":"C","performers":["z"]}
]`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := history.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(Options{
		Runner:       pipeline.NewRunner(nil, nil, store, logger),
		Logger:       logger,
		Registry:     prometheus.NewRegistry(),
		MaxBodyBytes: 4096,
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestSchedule(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/schedule", chainBody+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp scheduleResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(resp.Result.Order, ","); got != "B,A,C" {
		t.Errorf("order = %s, want B,A,C", got)
	}
	if resp.Result.Metrics.InstantConflicts != 1 || resp.Result.Metrics.QuickChanges != 1 {
		t.Errorf("metrics = %+v", resp.Result.Metrics)
	}
	if resp.RunID == "" {
		t.Error("run_id should be set")
	}
	if resp.Summary != "Found 3 acts with 3 total performers" {
		t.Errorf("summary = %q", resp.Summary)
	}

	run := do(t, s, http.MethodGet, "/v1/runs/"+resp.RunID, "")
	if run.Code != http.StatusOK {
		t.Errorf("GET run status = %d", run.Code)
	}
	list := do(t, s, http.MethodGet, "/v1/runs?limit=5", "")
	if !strings.Contains(list.Body.String(), resp.RunID) {
		t.Errorf("run list = %s", list.Body)
	}
	if del := do(t, s, http.MethodDelete, "/v1/runs/"+resp.RunID, ""); del.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d", del.Code)
	}
	if gone := do(t, s, http.MethodGet, "/v1/runs/"+resp.RunID, ""); gone.Code != http.StatusNotFound {
		t.Errorf("GET deleted run status = %d", gone.Code)
	}
}

func TestScheduleText(t *testing.T) {
	s := newTestServer(t)
	body := chainBody + `, "policy":"minimize_risk", "overrides":[{"round":0,"act":"C"}]}`
	rec := do(t, s, http.MethodPost, "/v1/schedule?format=text", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.HasPrefix(rec.Body.String(), "1. C - 1 performers [locked]\n") {
		t.Errorf("body = %s", rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "Policy: minimize-risk") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestScheduleErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"not json", "/v1/schedule", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing acts", "/v1/schedule", `{"policy":"maximize-rest"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", "/v1/schedule", `{"acts":[],"tempo":3}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad policy", "/v1/schedule", chainBody + `,"policy":"loudest"}`, http.StatusBadRequest, "INVALID_POLICY"},
		{"unknown pin", "/v1/schedule", chainBody + `,"overrides":[{"round":0,"act":"Z"}]}`, http.StatusBadRequest, "INVALID_OVERRIDE"},
		{"pin out of range", "/v1/schedule", chainBody + `,"overrides":[{"round":3,"act":"A"}]}`, http.StatusBadRequest, "INVALID_OVERRIDE"},
		{"duplicate act", "/v1/schedule", `{"acts":[{"name":"A","performers":["x"]},{"name":"A","performers":["y"]}]}`, http.StatusBadRequest, "INVALID_ROSTER"},
		{"too large", "/v1/schedule", `{"acts":[{"name":"A","performers":["` + strings.Repeat("x", 5000) + `"]}]}`, http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
		{"bad render format", "/v1/render", chainBody + `,"format":"pdf"}`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			var e errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", e.Code, tt.code, e.Message)
			}
		})
	}
}

func TestEmptyRoster(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/schedule", `{"acts":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"instant_conflicts":0`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestRenderDOT(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/render", chainBody+`,"format":"dot"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %s", ct)
	}
	if !strings.Contains(rec.Body.String(), `label="1. B"`) {
		t.Errorf("body = %s", rec.Body)
	}

	plain := do(t, s, http.MethodPost, "/v1/render", chainBody+`,"format":"dot","plain":true}`)
	if strings.Contains(plain.Body.String(), `1. B`) {
		t.Errorf("plain render should not number acts: %s", plain.Body)
	}
}

func TestRunsLimit(t *testing.T) {
	s := newTestServer(t)
	for _, q := range []string{"0", "-1", "ten"} {
		if rec := do(t, s, http.MethodGet, "/v1/runs?limit="+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s status = %d", q, rec.Code)
		}
	}
	rec := do(t, s, http.MethodGet, "/v1/runs", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"runs":[]`) {
		t.Errorf("empty list = %d %s", rec.Code, rec.Body)
	}
	if rec := do(t, s, http.MethodGet, "/v1/runs/not-a-uuid", ""); rec.Code != http.StatusNotFound {
		t.Errorf("bad id status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/schedule", chainBody+`}`)
	rec := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `lineup_http_requests_total{method="POST",route="/v1/schedule",status="200"} 1`) {
		t.Errorf("metrics missing schedule request:\n%s", body)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/v1/schema", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"$id": "https://lineup.dev/schemas/roster.json"`) {
		t.Errorf("schema = %d %s", rec.Code, rec.Body)
	}
}
