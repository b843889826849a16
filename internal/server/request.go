package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	rosterio "github.com/matzehuels/lineup/pkg/io"
	"github.com/matzehuels/lineup/pkg/roster"
	"github.com/matzehuels/lineup/pkg/schedule"
)

//go:embed request.schema.json
var requestSchema string

const (
	requestSchemaURL = "https://lineup.dev/schemas/request.json"
	rosterSchemaURL  = "https://lineup.dev/schemas/roster.json"
)

var (
	requestOnce     sync.Once
	compiledRequest *jsonschema.Schema
	requestErr      error
)

func compiledRequestSchema() (*jsonschema.Schema, error) {
	requestOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(rosterSchemaURL, strings.NewReader(rosterio.SchemaSource())); err != nil {
			requestErr = err
			return
		}
		if err := c.AddResource(requestSchemaURL, strings.NewReader(requestSchema)); err != nil {
			requestErr = err
			return
		}
		compiledRequest, requestErr = c.Compile(requestSchemaURL)
	})
	return compiledRequest, requestErr
}

// request is the body of POST /v1/schedule and POST /v1/render.
type request struct {
	Acts      []roster.Entry      `json:"acts"`
	Policy    string              `json:"policy,omitempty"`
	Overrides []schedule.Override `json:"overrides,omitempty"`
	Source    string              `json:"source,omitempty"`
	Refresh   bool                `json:"refresh,omitempty"`

	// Render only.
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
	Plain    bool   `json:"plain,omitempty"` // draw without scheduling
}

// decodeRequest reads, schema-checks and decodes the body of r.
func decodeRequest(w http.ResponseWriter, r *http.Request, limit int64) (*request, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "read body")
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "decode body")
	}
	s, err := compiledRequestSchema()
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInternal, err, "compile request schema")
	}
	if err := s.Validate(raw); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "request does not match schema")
	}
	var req request
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "decode body")
	}
	return &req, nil
}
