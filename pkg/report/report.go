// Package report formats finished running orders for people and programs.
//
// [WriteText] produces the numbered order sheet handed to stage managers,
// [WriteDetail] adds a round-by-round account of who got a quick change or
// went on twice in a row, and [WriteJSON] / [ReadJSON] persist a result so
// it can be rendered again later.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
	"github.com/matzehuels/lineup/pkg/schedule"
)

// Summary describes a roster in one line.
func Summary(r *roster.Roster) string {
	return fmt.Sprintf("Found %d acts with %d total performers", r.Len(), r.Performers.Len())
}

// Line formats one placement as "N. Act - K performers [locked]".
func Line(p schedule.Placement) string {
	lock := "unlocked"
	if p.Locked {
		lock = "locked"
	}
	return fmt.Sprintf("%d. %s - %d performers [%s]", p.Position+1, p.Act, len(p.Performers), lock)
}

// WriteText writes the numbered running order followed by the metrics.
func WriteText(w io.Writer, res *schedule.Result) error {
	var b strings.Builder
	for _, p := range res.Placements {
		b.WriteString(Line(p))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	writeMetrics(&b, res)
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDetail writes one block per round: the act, its cast, and the
// performers who had one act of rest (quick change) or none (conflict).
func WriteDetail(w io.Writer, res *schedule.Result) error {
	var b strings.Builder
	for _, r := range res.Rounds {
		fmt.Fprintf(&b, "%d. %s", r.Index+1, r.Act)
		switch {
		case r.Pinned:
			b.WriteString(" (pinned)")
		case r.Forced:
			b.WriteString(" (forced)")
		}
		fmt.Fprintf(&b, "  weight %s\n", r.Weight)
		fmt.Fprintf(&b, "   performers: %s\n", strings.Join(r.Performers, ", "))
		if len(r.Quick) > 0 {
			fmt.Fprintf(&b, "   quick change: %s\n", strings.Join(r.Quick, ", "))
		}
		if len(r.Instant) > 0 {
			fmt.Fprintf(&b, "   back to back: %s\n", strings.Join(r.Instant, ", "))
		}
	}
	b.WriteByte('\n')
	writeMetrics(&b, res)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeMetrics(b *strings.Builder, res *schedule.Result) {
	fmt.Fprintf(b, "Policy: %s\n", res.Policy)
	fmt.Fprintf(b, "Quick changes: %d\n", res.Metrics.QuickChanges)
	fmt.Fprintf(b, "Instant conflicts: %d\n", res.Metrics.InstantConflicts)
}

// WriteJSON encodes res as indented JSON.
func WriteJSON(w io.Writer, res *schedule.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a result written by WriteJSON and checks that its order
// and placements agree.
func ReadJSON(r io.Reader) (*schedule.Result, error) {
	var res schedule.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "decode result")
	}
	if len(res.Order) != len(res.Placements) {
		return nil, lerrors.New(lerrors.ErrCodeInvalidFormat, "result has %d acts in order but %d placements", len(res.Order), len(res.Placements))
	}
	for i, p := range res.Placements {
		if p.Position != i || p.Act != res.Order[i] {
			return nil, lerrors.New(lerrors.ErrCodeInvalidFormat, "placement %d (%s) does not match order", i+1, p.Act)
		}
	}
	return &res, nil
}

// Format names an output rendering of a result.
type Format string

const (
	FormatText   Format = "text"
	FormatDetail Format = "detail"
	FormatJSON   Format = "json"
)

// Write renders res in the given format.
func Write(w io.Writer, res *schedule.Result, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, res)
	case FormatDetail:
		return WriteDetail(w, res)
	case FormatJSON:
		return WriteJSON(w, res)
	}
	return lerrors.New(lerrors.ErrCodeInvalidFormat, "unknown report format %q (want text, detail or json)", format)
}
