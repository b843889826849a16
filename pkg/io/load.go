package io

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
)

// Format identifies a roster encoding.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatCSV, FormatXLSX, FormatJSON, FormatYAML, FormatTOML}

var extensions = map[string]Format{
	".txt":  FormatText,
	".text": FormatText,
	".csv":  FormatCSV,
	".xlsx": FormatXLSX,
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", lerrors.New(lerrors.ErrCodeInvalidFormat, "unsupported roster extension %q", ext)
}

// ParseFormat validates a format name given by a user.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", lerrors.New(lerrors.ErrCodeInvalidFormat, "unsupported roster format %q", s)
}

// Read decodes entries from r in the given format.
func Read(r io.Reader, format Format) ([]roster.Entry, error) {
	switch format {
	case FormatText:
		return ReadText(r)
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r, "")
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return nil, lerrors.New(lerrors.ErrCodeInvalidFormat, "unsupported roster format %q", format)
}

// Write encodes entries to w in the given format.
func Write(w io.Writer, entries []roster.Entry, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, entries)
	case FormatXLSX:
		return WriteXLSX(w, entries)
	case FormatJSON:
		return WriteJSON(w, entries)
	case FormatYAML:
		return WriteYAML(w, entries)
	case FormatTOML:
		return WriteTOML(w, entries)
	}
	return lerrors.New(lerrors.ErrCodeUnsupported, "cannot write rosters as %q", format)
}

// Decode reads entries from r and builds a roster.
func Decode(r io.Reader, format Format) (*roster.Roster, error) {
	entries, err := Read(r, format)
	if err != nil {
		return nil, err
	}
	return roster.Build(entries)
}

// Load reads the roster file at path, choosing the format by extension.
func Load(path string) (*roster.Roster, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return LoadAs(path, format)
}

// LoadAs reads the roster file at path in the given format.
func LoadAs(path string, format Format) (*roster.Roster, error) {
	if err := lerrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, lerrors.Wrap(lerrors.ErrCodeFileNotFound, err, "roster %s", path)
		}
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	r, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
