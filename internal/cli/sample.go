package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/source"
)

// sampleCommand creates the sample command that writes the built-in family.
func (c *CLI) sampleCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "sample [file]",
		Short: "Write the built-in sample family",
		Long: `Write the built-in sample family.

The format follows the file extension (.json, .yaml, .yml or .toml). Without
a file the records are printed to stdout in the format given by --format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeSample(cmd.OutOrStdout(), source.Format(format))
			}
			if err := source.WriteFile(args[0], family.Sample()); err != nil {
				return err
			}
			printSuccess("Wrote sample family")
			printFile(args[0])
			printNewline()
			printNextStep("Render", appName+" render "+args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(source.FormatYAML), "stdout format: json, yaml, toml")

	return cmd
}

func writeSample(w io.Writer, format source.Format) error {
	if err := source.Encode(w, family.Sample(), format); err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}
	return nil
}
