// =============================================================================
// EDI Order Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which is the main command for
// converting an order file to another format.
//
// COMMAND USAGE:
//   ediconv convert --input FILE --format FORMAT [flags]
//
// FLAGS:
//   --input, -i   : Input file (.txt, .json, .edi or .xlsx)
//   --format, -f  : Output format (txt, json, edi or xlsx)
//   --from, --to  : Keep only orders with from <= Order_Date <= to (YYYYMMDD)
//   --select      : Keep only the orders at these 1-based positions, e.g. 1,3
//   --on-missing  : EDI missing field policy (abort or skip)
//
// MODES:
//   Without --select the command runs in multiple mode and writes
//   output.{ext}. With --select it runs in single mode and writes
//   output_single.{ext}. --from/--to are only valid in multiple mode.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Disha-1203/EDI-parser/internal/converter"
	"github.com/Disha-1203/EDI-parser/internal/filter"
	"github.com/Disha-1203/EDI-parser/internal/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputPath    string
	outputFormat string
	dateFrom     string
	dateTo       string
	selectList   string
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an order file to another format",
	Long: `The convert command reads every order in the input file, applies the
requested selection, and writes the selected orders to the output directory.

The input format is taken from the file extension. The output file is only
created when the whole conversion succeeds.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		selection, err := buildSelection(selectList, dateFrom, dateTo)
		if err != nil {
			return err
		}
		return runConvert(cmd.OutOrStdout(), converter.Request{
			InputPath:    inputPath,
			OutputFormat: outputFormat,
			Selection:    selection,
		})
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the convert command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file (.txt, .json, .edi or .xlsx)")
	convertCmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Output format ("+strings.Join(converter.Formats, ", ")+")")
	convertCmd.Flags().StringVar(&dateFrom, "from", "", "Start date YYYYMMDD (inclusive, requires --to)")
	convertCmd.Flags().StringVar(&dateTo, "to", "", "End date YYYYMMDD (inclusive, requires --from)")
	convertCmd.Flags().StringVar(&selectList, "select", "", "Comma-separated 1-based order positions (single mode)")
	convertCmd.Flags().String("on-missing", "", "EDI missing field policy: abort or skip")

	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("format")

	bindFlag(convertCmd, "edi.missing_field_policy", "on-missing")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert performs one conversion and prints a summary to out. With
// --verbose the value-shape warnings are listed as well.
func runConvert(out io.Writer, req converter.Request) error {
	conv, err := converter.New(appConfig, converter.WithLogger(logger))
	if err != nil {
		return err
	}

	res, err := conv.Convert(req)
	if res != nil && res.Loaded {
		fmt.Fprintf(out, "Total orders found: %d\n", res.Stats.Read)
		if _, ok := req.Selection.(filter.DateRange); ok {
			fmt.Fprintf(out, "Total orders after filtering: %d\n", res.Stats.Selected)
		}
		for _, idx := range res.InvalidIndices {
			fmt.Fprintf(out, "Invalid index: %d\n", idx)
		}
	}
	if err != nil {
		return err
	}

	for _, skipped := range res.Skipped {
		fmt.Fprintf(out, "Skipped %s\n", skipped)
	}
	if verbose && len(res.Warnings) > 0 {
		fmt.Fprint(out, validation.FormatErrors(res.Warnings))
	}
	fmt.Fprintf(out, "Converted %d order(s) to %s (%d bytes)\n", res.Stats.Written, res.OutputFile, res.Stats.OutputBytes)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// buildSelection turns the selection flags into a filter.Selection.
//
// RULES:
//   - No flags: every order.
//   - --from and --to: date range. Giving only one of them is an error.
//   - --select: index list. It can not be combined with a date range.
func buildSelection(selectFlag, from, to string) (filter.Selection, error) {
	hasRange := from != "" || to != ""

	if selectFlag != "" {
		if hasRange {
			return nil, fmt.Errorf("--select can not be combined with --from/--to")
		}
		list, err := filter.ParseIndexList(selectFlag)
		if err != nil {
			return nil, err
		}
		return list, nil
	}

	if hasRange {
		if from == "" || to == "" {
			return nil, fmt.Errorf("--from and --to must be given together")
		}
		return filter.DateRange{Start: from, End: to}, nil
	}

	return filter.All{}, nil
}
