package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lineup/pkg/buildinfo"
	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/history"
	rosterio "github.com/matzehuels/lineup/pkg/io"
	"github.com/matzehuels/lineup/pkg/pipeline"
	"github.com/matzehuels/lineup/pkg/report"
	"github.com/matzehuels/lineup/pkg/roster"
	"github.com/matzehuels/lineup/pkg/schedule"
)

// maxListLimit caps GET /v1/runs?limit.
const maxListLimit = 200

type scheduleResponse struct {
	RunID      string           `json:"run_id,omitempty"`
	RosterHash string           `json:"roster_hash"`
	Cached     bool             `json:"cached"`
	DurationMS float64          `json:"duration_ms"`
	Summary    string           `json:"summary"`
	Dropped    []string         `json:"dropped,omitempty"`
	Result     *schedule.Result `json:"result"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write([]byte(rosterio.SchemaSource()))
}

// handleSchedule answers POST /v1/schedule. With ?format=text or
// ?format=detail the report is returned as plain text instead of JSON.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r, s.maxBody)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ro, out, err := s.schedule(r.Context(), req, false)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, scheduleResponse{
			RunID:      out.RunID,
			RosterHash: out.RosterHash,
			Cached:     out.CacheHit,
			DurationMS: float64(out.Duration.Microseconds()) / 1000,
			Summary:    report.Summary(ro),
			Dropped:    ro.Dropped,
			Result:     out.Schedule,
		})
	default:
		data, err := pipeline.Render(r.Context(), out.Schedule, format)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(data)
	}
}

// handleRender answers POST /v1/render with the conflict diagram. Unless
// the request sets plain, the roster is scheduled first so the diagram
// shows positions and rest gaps.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r, s.maxBody)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ro, err := roster.Build(req.Acts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.GraphOptions{Format: req.Format, Detailed: req.Detailed}
	if !req.Plain {
		_, out, err := s.schedule(r.Context(), req, true)
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts.Result = out.Schedule
	}
	data, err := s.runner.Graph(r.Context(), ro, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(opts.Format))
	_, _ = w.Write(data)
}

func (s *Server) schedule(ctx context.Context, req *request, quiet bool) (*roster.Roster, *pipeline.Result, error) {
	ro, err := roster.Build(req.Acts)
	if err != nil {
		return nil, nil, err
	}
	policy := req.Policy
	if policy == "" {
		policy = s.policy
	}
	out, err := s.runner.Schedule(ctx, ro, pipeline.Options{
		Policy:    policy,
		Overrides: req.Overrides,
		Source:    req.Source,
		Refresh:   req.Refresh,
		NoHistory: quiet,
	})
	if err != nil {
		return nil, nil, err
	}
	return ro, out, nil
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, lerrors.New(lerrors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxListLimit)
	}
	recs, err := s.runner.History.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*history.Record{}
	}
	writeJSON(w, http.StatusOK, struct {
		Runs []*history.Record `json:"runs"`
	}{recs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.runner.History.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.History.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	}
	return "text/vnd.graphviz; charset=utf-8"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes it as JSON. Internal
// errors are logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := lerrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, string(lerrors.ErrCodeInvalidInput)
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound, string(lerrors.ErrCodeNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, string(lerrors.ErrCodeInternal)
	}
	code := lerrors.GetCode(err)
	switch {
	case code == lerrors.ErrCodeNotFound, code == lerrors.ErrCodeFileNotFound:
		return http.StatusNotFound, string(code)
	case code == lerrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity, string(code)
	case lerrors.IsInput(err), lerrors.IsConfiguration(err):
		return http.StatusBadRequest, string(code)
	}
	return http.StatusInternalServerError, string(lerrors.ErrCodeInternal)
}
