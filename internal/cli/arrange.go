package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineup/pkg/pipeline"
	"github.com/matzehuels/lineup/pkg/schedule"
)

type arrangeOpts struct {
	pinFlags
	policy      string
	inputFormat string
	noHistory   bool
}

func (c *CLI) arrangeCommand() *cobra.Command {
	var opts arrangeOpts

	cmd := &cobra.Command{
		Use:   "arrange ROSTER",
		Short: "Reorder and lock acts interactively",
		Long: `Open the running order in an interactive editor.

Move acts with K/J (or shift+arrows); a moved act is locked in its new slot.
Space toggles a lock, r refills all unlocked slots with the scheduler and p
switches policy. Enter accepts the order, prints it and records the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runArrange(cmd.Context(), cmd.OutOrStdout(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.policy, "policy", "p", "", "weight policy: maximize-rest or minimize-risk")
	cmd.Flags().StringArrayVar(&opts.pins, "pin", nil, "start with an act locked at a position (POSITION=ACT)")
	cmd.Flags().StringVar(&opts.first, "first", "", "start with an act locked first")
	cmd.Flags().StringVar(&opts.last, "last", "", "start with an act locked last")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "roster format: text, csv, xlsx, json, yaml, toml")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record the accepted run")

	return cmd
}

func (c *CLI) runArrange(ctx context.Context, w io.Writer, path string, opts *arrangeOpts) error {
	ro, err := loadRoster(path, opts.inputFormat)
	if err != nil {
		return err
	}
	overrides, err := opts.overrides(ro.Len())
	if err != nil {
		return err
	}
	policy, err := schedule.ParsePolicy(c.policyOr(opts.policy))
	if err != nil {
		return err
	}

	model, err := NewArrangeModel(ctx, ro, policy, overrides)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	m, ok := final.(ArrangeModel)
	if !ok || !m.Accepted {
		printInfo("Arrangement discarded")
		return nil
	}

	runner, err := c.newRunner(ctx, runnerOpts{noHistory: opts.noHistory})
	if err != nil {
		return err
	}
	defer runner.Close()

	// Record the accepted order with its locks so it can be reproduced.
	out, err := runner.Schedule(ctx, ro, pipeline.Options{
		Policy:    string(m.Policy()),
		Overrides: m.Overrides(),
		Source:    path,
	})
	if err != nil {
		return err
	}
	data, err := pipeline.Render(ctx, out.Schedule, "text")
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if out.RunID != "" {
		printDetail("run %s", out.RunID)
	}
	if pins := pinArgs(m.Overrides()); pins != "" {
		printNextStep("Reproduce with", fmt.Sprintf("lineup schedule %s --policy %s %s", path, m.Policy(), pins))
	}
	return nil
}

// pinArgs formats overrides as --pin flags with 1-based positions.
func pinArgs(overrides []schedule.Override) string {
	args := make([]string, len(overrides))
	for i, o := range overrides {
		args[i] = fmt.Sprintf("--pin %q", fmt.Sprintf("%d=%s", o.Round+1, o.Act))
	}
	return strings.Join(args, " ")
}
