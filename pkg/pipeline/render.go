package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/lineup/pkg/observability"
	"github.com/matzehuels/lineup/pkg/report"
	"github.com/matzehuels/lineup/pkg/schedule"
)

// Render formats a finished schedule as text, detail or JSON.
func Render(ctx context.Context, res *schedule.Result, format string) ([]byte, error) {
	start := time.Now()
	var buf bytes.Buffer
	err := report.Write(&buf, res, report.Format(format))
	observability.Schedule().OnRenderComplete(ctx, format, buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
