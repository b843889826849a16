package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/pipeline"
	"github.com/matzehuels/lineup/pkg/report"
	"github.com/matzehuels/lineup/pkg/schedule"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format string // text or detail
	output string
	stats  bool
}

// renderCommand prints a result saved with "schedule --format json" again,
// without recomputing it.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(report.FormatText)}

	cmd := &cobra.Command{
		Use:   "render RESULT.json",
		Short: "Print a saved running order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := readResult(args[0])
			if err != nil {
				return err
			}
			data, err := pipeline.Render(cmd.Context(), res, opts.format)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), opts.output, data); err != nil {
				return lerrors.Wrap(lerrors.ErrCodeInternal, err, "write %s", opts.output)
			}
			if opts.output != "" {
				printFile(opts.output)
			}
			if opts.stats {
				fmt.Fprintln(statusOut, performerTable(res.Performers))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, detail, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print per-performer rest statistics")

	return cmd
}

// readResult loads a JSON result file.
func readResult(path string) (*schedule.Result, error) {
	if err := lerrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, lerrors.Wrap(lerrors.ErrCodeFileNotFound, err, "result %s", path)
		}
		return nil, lerrors.Wrap(lerrors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return report.ReadJSON(f)
}
