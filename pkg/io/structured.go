package io

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
)

//go:embed roster.schema.json
var rosterSchema string

const schemaURL = "https://lineup.dev/schemas/roster.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// document is the shared shape of JSON, YAML and TOML rosters.
type document struct {
	Acts []roster.Entry `json:"acts" yaml:"acts" toml:"acts"`
}

// Schema returns the compiled JSON schema for rosters.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, strings.NewReader(rosterSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// SchemaSource returns the raw roster schema document.
func SchemaSource() string { return rosterSchema }

// ValidateJSON checks a decoded JSON value (as produced by json.Unmarshal
// into an any) against the roster schema.
func ValidateJSON(v any) error {
	s, err := Schema()
	if err != nil {
		return lerrors.Wrap(lerrors.ErrCodeInternal, err, "compile roster schema")
	}
	if err := s.Validate(v); err != nil {
		return lerrors.Wrap(lerrors.ErrCodeInvalidRoster, err, "roster does not match schema")
	}
	return nil
}

// ReadJSON decodes a JSON roster after validating it against the schema.
func ReadJSON(r io.Reader) ([]roster.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "read")
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidRoster, err, "decode json")
	}
	if err := ValidateJSON(raw); err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidRoster, err, "decode json")
	}
	return doc.Acts, nil
}

// ReadYAML decodes a YAML roster. Unknown fields are rejected.
func ReadYAML(r io.Reader) ([]roster.Entry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidRoster, err, "decode yaml")
	}
	return doc.Acts, nil
}

// ReadTOML decodes a TOML roster of [[acts]] tables. Unknown keys are
// rejected.
func ReadTOML(r io.Reader) ([]roster.Entry, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidRoster, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, lerrors.New(lerrors.ErrCodeInvalidRoster, "unknown key %q", undecoded[0].String())
	}
	return doc.Acts, nil
}

// WriteJSON encodes entries as an indented JSON roster.
func WriteJSON(w io.Writer, entries []roster.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{Acts: nonNil(entries)})
}

// WriteYAML encodes entries as a YAML roster.
func WriteYAML(w io.Writer, entries []roster.Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Acts: nonNil(entries)}); err != nil {
		return err
	}
	return enc.Close()
}

// WriteTOML encodes entries as a TOML roster.
func WriteTOML(w io.Writer, entries []roster.Entry) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(document{Acts: nonNil(entries)}); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func nonNil(entries []roster.Entry) []roster.Entry {
	if entries == nil {
		return []roster.Entry{}
	}
	return entries
}
