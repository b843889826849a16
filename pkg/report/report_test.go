package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/roster"
	"github.com/matzehuels/lineup/pkg/schedule"
)

func chainResult(t *testing.T) (*roster.Roster, *schedule.Result) {
	t.Helper()
	r, err := roster.FromMap(map[string][]string{
		"A": {"x", "y"},
		"B": {"y", "z"},
		"C": {"z"},
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := schedule.Schedule(context.Background(), r, schedule.MaximizeRest, []schedule.Override{{Round: 2, Act: "C"}})
	if err != nil {
		t.Fatal(err)
	}
	return r, res
}

func TestWriteText(t *testing.T) {
	_, res := chainResult(t)
	var buf bytes.Buffer
	if err := WriteText(&buf, res); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	want := `1. B - 2 performers [unlocked]
2. A - 2 performers [unlocked]
3. C - 1 performers [locked]

Policy: maximize-rest
Quick changes: 1
Instant conflicts: 1
`
	if buf.String() != want {
		t.Errorf("WriteText() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteDetail(t *testing.T) {
	_, res := chainResult(t)
	var buf bytes.Buffer
	if err := WriteDetail(&buf, res); err != nil {
		t.Fatalf("WriteDetail() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"1. B  weight 4",
		"2. A (forced)  weight -inf",
		"back to back: y",
		"3. C (pinned)",
		"quick change: z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteDetail() missing %q:\n%s", want, out)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	_, res := chainResult(t)
	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if strings.Join(back.Order, ",") != "B,A,C" {
		t.Errorf("Order = %v", back.Order)
	}
	if back.Metrics != res.Metrics {
		t.Errorf("Metrics = %+v, want %+v", back.Metrics, res.Metrics)
	}
	if !back.Rounds[1].Weight.IsInf() {
		t.Errorf("Rounds[1].Weight = %v, want -inf", back.Rounds[1].Weight)
	}
}

func TestReadJSONRejectsInconsistentResult(t *testing.T) {
	in := `{"order":["A","B"],"placements":[{"position":0,"act":"B"},{"position":1,"act":"A"}]}`
	if _, err := ReadJSON(strings.NewReader(in)); !lerrors.Is(err, lerrors.ErrCodeInvalidFormat) {
		t.Errorf("ReadJSON() = %v, want INVALID_FORMAT", err)
	}
}

func TestSummary(t *testing.T) {
	r, _ := chainResult(t)
	if got := Summary(r); got != "Found 3 acts with 3 total performers" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	_, res := chainResult(t)
	if err := Write(&bytes.Buffer{}, res, "pdf"); !lerrors.Is(err, lerrors.ErrCodeInvalidFormat) {
		t.Errorf("Write(pdf) = %v", err)
	}
}
