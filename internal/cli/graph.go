package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	"github.com/matzehuels/lineup/pkg/conflict"
	"github.com/matzehuels/lineup/pkg/pipeline"
	"github.com/matzehuels/lineup/pkg/roster"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format      string // dot, svg or png; taken from -o when empty
	output      string
	result      string // saved result to annotate the graph with
	schedule    bool   // schedule the roster first and annotate with that
	policy      string
	detailed    bool // list performers on nodes and edges
	inputFormat string
	noCache     bool
}

func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph ROSTER",
		Short: "Draw the conflict graph of a roster",
		Long: `Draw the conflict graph of a roster: one node per act, one edge per pair of
acts that share performers.

DOT is written to stdout by default. SVG and PNG need Graphviz layout and are
written next to the roster unless -o is given. With --result or --schedule the
nodes are numbered by show position and edges show how many acts apart the
pair runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, png (default from -o, else dot)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&opts.result, "result", "", "annotate with a saved result (JSON)")
	cmd.Flags().BoolVar(&opts.schedule, "schedule", false, "schedule the roster and annotate with the result")
	cmd.Flags().StringVarP(&opts.policy, "policy", "p", "", "weight policy used with --schedule")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list shared performers on edges")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "roster format: text, csv, xlsx, json, yaml, toml")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache")
	cmd.MarkFlagsMutuallyExclusive("result", "schedule")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, w io.Writer, path string, opts *graphOpts) error {
	format := graphFormat(opts.format, opts.output)

	ro, err := loadRoster(path, opts.inputFormat)
	if err != nil {
		return err
	}

	g := conflict.Build(ro.Acts)
	printInfo("%d acts, %d conflicting pairs", g.Len(), g.EdgeCount())

	runner, err := c.newRunner(ctx, runnerOpts{noCache: opts.noCache, noHistory: true})
	if err != nil {
		return err
	}
	defer runner.Close()

	gopts := pipeline.GraphOptions{Format: format, Detailed: opts.detailed}
	switch {
	case opts.result != "":
		res, err := readResult(opts.result)
		if err != nil {
			return err
		}
		if err := matchesRoster(ro, res.Order); err != nil {
			return err
		}
		gopts.Result = res
	case opts.schedule:
		out, err := runner.Schedule(ctx, ro, pipeline.Options{Policy: c.policyOr(opts.policy), Source: path, NoHistory: true})
		if err != nil {
			return err
		}
		gopts.Result = out.Schedule
	}

	var data []byte
	if format == pipeline.FormatDOT {
		data, err = runner.Graph(ctx, ro, gopts)
	} else {
		spin := newSpinnerWithContext(ctx, "Laying out graph...")
		spin.Start()
		data, err = runner.Graph(ctx, ro, gopts)
		spin.Stop()
	}
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" && format != pipeline.FormatDOT {
		output = basePath("", path, "."+format)
	}
	if err := writeOutput(w, output, data); err != nil {
		return lerrors.Wrap(lerrors.ErrCodeInternal, err, "write %s", output)
	}
	if output != "" {
		printSuccess("Rendered %s graph (%d bytes)", strings.ToUpper(format), len(data))
		printFile(output)
	}
	return nil
}

// graphFormat resolves the output format from the flag or the output
// extension.
func graphFormat(flag, output string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(output), ".")); ext {
	case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatDOT:
		return ext
	case "gv":
		return pipeline.FormatDOT
	}
	return pipeline.FormatDOT
}

// matchesRoster checks that a saved order places exactly the roster's acts.
func matchesRoster(ro *roster.Roster, order []string) error {
	if len(order) != ro.Len() {
		return lerrors.New(lerrors.ErrCodeInvalidInput,
			"result has %d acts but roster has %d", len(order), ro.Len())
	}
	for _, name := range order {
		if _, ok := ro.Act(name); !ok {
			return lerrors.New(lerrors.ErrCodeInvalidInput, "result names act %q which is not in the roster", name)
		}
	}
	return nil
}
