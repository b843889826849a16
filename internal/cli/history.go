package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineup/pkg/history"
	"github.com/matzehuels/lineup/pkg/pipeline"
)

// historyCommand creates the run history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyDeleteCommand())

	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	limit := history.DefaultListLimit

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(store history.Store) error {
				recs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					printInfo("No runs recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), runTable(recs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", limit, "maximum number of runs")

	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	format := "text"

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(store history.Store) error {
				return showRun(cmd.Context(), cmd.OutOrStdout(), store, args[0], format)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", format, "output format: text, detail, json")

	return cmd
}

func (c *CLI) historyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Forget a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(store history.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted run %s", args[0])
				return nil
			})
		},
	}
}

// withHistory opens the configured store for the duration of fn.
func (c *CLI) withHistory(ctx context.Context, fn func(history.Store) error) error {
	store, err := c.config().OpenHistory(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func showRun(ctx context.Context, w io.Writer, store history.Store, id, format string) error {
	rec, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	data, err := pipeline.Render(ctx, rec.Result, format)
	if err != nil {
		return err
	}
	if format != "json" {
		printKeyValue("Run", rec.ID)
		printKeyValue("Recorded", rec.CreatedAt.Local().Format("2006-01-02 15:04"))
		if rec.Source != "" {
			printKeyValue("Source", rec.Source)
		}
	}
	_, err = w.Write(data)
	return err
}

// runTable renders run records one per row.
func runTable(recs []*history.Record) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Source,
			string(r.Result.Policy),
			strconv.Itoa(r.Result.Len()),
			strconv.Itoa(r.Result.Metrics.QuickChanges),
			strconv.Itoa(r.Result.Metrics.InstantConflicts),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Recorded", "Source", "Policy", "Acts", "Quick", "Instant").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}
