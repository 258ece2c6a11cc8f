// =============================================================================
// EDI Order Converter - List Command
// =============================================================================
//
// This file defines the 'list' command, which prints a numbered overview of
// the orders in a file. The numbers are the positions accepted by
// 'convert --select'.
//
// COMMAND USAGE:
//   ediconv list --input FILE
//
// OUTPUT:
//   1. PO Number: 4500012345, Order Date: 20240115
//   2. PO Number: 4500012346, Order Date: N/A
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Disha-1203/EDI-parser/internal/converter"
	"github.com/Disha-1203/EDI-parser/internal/order"
)

// listInput is the file to list.
var listInput string

// listCmd represents the 'list' command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the orders in a file with their positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := converter.New(appConfig, converter.WithLogger(logger))
		if err != nil {
			return err
		}

		orders, err := conv.Load(listInput)
		if err != nil {
			return err
		}
		logger.Debug("Loaded orders", zap.String("input", listInput), zap.Int("orders", len(orders)))

		return writeListing(cmd.OutOrStdout(), orders)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listInput, "input", "i", "", "Input file (.txt, .json, .edi or .xlsx)")
	listCmd.MarkFlagRequired("input")
}

// writeListing prints one numbered line per order.
func writeListing(w io.Writer, orders order.Collection) error {
	if _, err := fmt.Fprintf(w, "Total orders found: %d\n", len(orders)); err != nil {
		return err
	}
	for i, o := range orders {
		_, err := fmt.Fprintf(w, "%d. PO Number: %s, Order Date: %s\n",
			i+1,
			o.Value(order.FieldPONumber, "N/A"),
			o.Value(order.FieldOrderDate, "N/A"))
		if err != nil {
			return err
		}
	}
	return nil
}
