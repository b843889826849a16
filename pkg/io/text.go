package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
)

// ReadText decodes the line-oriented roster format:
//
//	ActName: performer1, performer2
//
// Whitespace around names is ignored. A non-blank line without a colon is
// an error naming the line.
func ReadText(r io.Reader) ([]roster.Entry, error) {
	var entries []roster.Entry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		name, cast, ok := strings.Cut(text, ":")
		if !ok {
			return nil, lerrors.New(lerrors.ErrCodeInvalidRoster, "line %d: missing ':' between act and performers", line)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, lerrors.New(lerrors.ErrCodeInvalidRoster, "line %d: empty act name", line)
		}
		entries = append(entries, roster.Entry{Name: name, Performers: strings.Split(cast, ",")})
	}
	if err := sc.Err(); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "read line %d", line+1)
	}
	return entries, nil
}

// WriteText encodes entries in the format read by ReadText. Act names
// containing ':' and performer names containing ',' cannot be encoded and
// are rejected before anything is written.
func WriteText(w io.Writer, entries []roster.Entry) error {
	for _, e := range entries {
		if strings.Contains(e.Name, ":") {
			return lerrors.New(lerrors.ErrCodeUnsupported, "act %q: text rosters cannot hold ':' in act names", e.Name)
		}
		for _, p := range e.Performers {
			if strings.Contains(p, ",") {
				return lerrors.New(lerrors.ErrCodeUnsupported, "act %q: text rosters cannot hold ',' in performer %q", e.Name, p)
			}
		}
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Name, strings.Join(e.Performers, ", ")); err != nil {
			return err
		}
	}
	return nil
}
