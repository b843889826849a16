package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	rosterio "github.com/matzehuels/lineup/pkg/io"
	"github.com/matzehuels/lineup/pkg/pipeline"
	"github.com/matzehuels/lineup/pkg/report"
	"github.com/matzehuels/lineup/pkg/roster"
)

// scheduleOpts holds the command-line flags for the schedule command.
type scheduleOpts struct {
	pinFlags
	policy      string // weight policy; config default when empty
	format      string // report format: text, detail, json
	output      string // write the report here instead of stdout
	inputFormat string // roster format; detected from the extension when empty
	noCache     bool
	noHistory   bool
	refresh     bool // recompute even on a cache hit
	stats       bool // print the per-performer table
}

func (c *CLI) scheduleCommand() *cobra.Command {
	opts := scheduleOpts{format: string(report.FormatText)}

	cmd := &cobra.Command{
		Use:   "schedule ROSTER",
		Short: "Compute a running order from a roster file",
		Long: `Compute a running order from a roster file.

The roster lists each act with its performers. Text, CSV, XLSX, JSON, YAML
and TOML rosters are read; the format is taken from the file extension unless
--input-format is given. Use "-" to read from stdin.

Positions given with --pin count from 1:

  lineup schedule show.yaml --pin 1=Opening --pin 12=Finale
  lineup schedule show.csv --first Opening --last Finale --format detail`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSchedule(cmd.Context(), cmd.OutOrStdout(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.policy, "policy", "p", "", "weight policy: maximize-rest or minimize-risk")
	cmd.Flags().StringArrayVar(&opts.pins, "pin", nil, "pin an act to a position (POSITION=ACT, repeatable)")
	cmd.Flags().StringVar(&opts.first, "first", "", "pin an act to open the show")
	cmd.Flags().StringVar(&opts.last, "last", "", "pin an act to close the show")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, detail, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "roster format: text, csv, xlsx, json, yaml, toml")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the schedule cache")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record this run")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print per-performer rest statistics")

	return cmd
}

func (c *CLI) runSchedule(ctx context.Context, w io.Writer, path string, opts *scheduleOpts) error {
	logger := loggerFromContext(ctx)

	ro, err := loadRoster(path, opts.inputFormat)
	if err != nil {
		return err
	}
	logger.Info(report.Summary(ro))
	for _, name := range ro.Dropped {
		printWarning("Dropped %q: no performers listed", name)
	}

	overrides, err := opts.overrides(ro.Len())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, runnerOpts{noCache: opts.noCache, noHistory: opts.noHistory})
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	out, err := runner.Schedule(ctx, ro, pipeline.Options{
		Policy:    c.policyOr(opts.policy),
		Overrides: overrides,
		Source:    path,
		Refresh:   opts.refresh,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scheduled %d acts", ro.Len()))

	data, err := pipeline.Render(ctx, out.Schedule, opts.format)
	if err != nil {
		return err
	}
	if err := writeOutput(w, opts.output, data); err != nil {
		return lerrors.Wrap(lerrors.ErrCodeInternal, err, "write %s", opts.output)
	}

	if opts.output != "" {
		printSuccess("Wrote running order")
		printFile(opts.output)
	}
	printStats(out.Schedule, out.CacheHit)
	if out.RunID != "" {
		printDetail("run %s", out.RunID)
	}
	if opts.stats {
		fmt.Fprintln(statusOut, performerTable(out.Schedule.Performers))
	}
	return nil
}

// policyOr returns flag, or the configured default policy when flag is empty.
func (c *CLI) policyOr(flag string) string {
	if flag != "" {
		return flag
	}
	return c.config().Policy
}

// loadRoster reads a roster from path, or from stdin when path is "-".
func loadRoster(path, format string) (*roster.Roster, error) {
	if path == "-" {
		f := rosterio.FormatText
		if format != "" {
			var err error
			if f, err = rosterio.ParseFormat(format); err != nil {
				return nil, err
			}
		}
		return rosterio.Decode(os.Stdin, f)
	}
	if format == "" {
		return rosterio.Load(path)
	}
	f, err := rosterio.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return rosterio.LoadAs(path, f)
}
