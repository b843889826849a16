package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	lerrors "github.com/matzehuels/lineup/pkg/errors"
	rosterio "github.com/matzehuels/lineup/pkg/io"
)

// convertCommand rewrites a roster in another format, e.g. to turn a
// spreadsheet into a YAML file that can be kept under version control.
func (c *CLI) convertCommand() *cobra.Command {
	var to, output, inputFormat string

	cmd := &cobra.Command{
		Use:   "convert ROSTER",
		Short: "Convert a roster between formats",
		Long: `Convert a roster between formats.

The target format comes from --to or the extension of -o. Acts left without
performers are dropped, and duplicate performers within an act are merged.

  lineup convert cast.xlsx -o show.yaml
  lineup convert show.yaml --to json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ro, err := loadRoster(args[0], inputFormat)
			if err != nil {
				return err
			}

			format, err := targetFormat(to, output)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := rosterio.Write(&buf, ro.Entries(), format); err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes()); err != nil {
				return lerrors.Wrap(lerrors.ErrCodeInternal, err, "write %s", output)
			}
			if output != "" {
				printSuccess("Converted %d acts to %s", ro.Len(), format)
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", fmt.Sprintf("target format: %v", rosterio.Formats))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "source format (default from extension)")

	return cmd
}

func targetFormat(to, output string) (rosterio.Format, error) {
	if to != "" {
		return rosterio.ParseFormat(to)
	}
	if output != "" && output != "-" {
		return rosterio.DetectFormat(output)
	}
	return rosterio.FormatYAML, nil
}
