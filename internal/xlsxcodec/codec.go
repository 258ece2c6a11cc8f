// =============================================================================
// EDI Order Converter - XLSX Codec
// =============================================================================
//
// This module reads and writes orders as a spreadsheet, the format most
// trading partners hand over when they do not speak EDI.
//
// SHEET LAYOUT:
//
//   | Column A  | Column B   | Column C    | Column D | Column E   |
//   |-----------|------------|-------------|----------|------------|
//   | PO_Number | Order_Date | Item        | Quantity | Unit_Price |   <- header row
//   | 450001    | 20240115   | Blue Widget | 10       | 2.50       |   <- one order
//
//   - The first sheet is read; row 1 holds the field names.
//   - Every later row is one order. Empty cells are left out of the order,
//     and rows without any value are dropped.
//   - Columns with an empty header are ignored.
//
// When writing, the header row is the union of all field names in order of
// first appearance, and every value is stored as a text cell so that codes
// like "0012" or "2.50" keep their exact form.
//
// =============================================================================

package xlsxcodec

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Disha-1203/EDI-parser/internal/order"
)

// DefaultSheetName is the name of the sheet the writer creates.
const DefaultSheetName = "Orders"

// Codec reads and writes the XLSX format.
type Codec struct {
	sheetName string
}

// New creates an XLSX codec. An empty sheetName selects DefaultSheetName.
func New(sheetName string) *Codec {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &Codec{sheetName: sheetName}
}

// =============================================================================
// READER
// =============================================================================

// Read parses the first sheet of the workbook in r.
func (c *Codec) Read(r io.Reader) (order.Collection, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	orders := order.Collection{}
	if len(rows) == 0 {
		return orders, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	for _, row := range rows[1:] {
		o := order.New()
		for col, cell := range row {
			if col >= len(headers) || headers[col] == "" || cell == "" {
				continue
			}
			o.Set(headers[col], cell)
		}
		if o.Len() > 0 {
			orders = append(orders, o)
		}
	}

	return orders, nil
}

// =============================================================================
// WRITER
// =============================================================================

// Write stores orders in a single-sheet workbook.
func (c *Codec) Write(w io.Writer, orders order.Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), c.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := collectHeaders(orders)
	for col, h := range headers {
		if err := c.setCell(f, col, 1, h); err != nil {
			return err
		}
	}

	if len(headers) > 0 {
		if err := c.styleHeader(f, len(headers)); err != nil {
			return err
		}
	}

	for i, o := range orders {
		for col, h := range headers {
			value, ok := o.Get(h)
			if !ok {
				continue
			}
			if err := c.setCell(f, col, i+2, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// setCell stores value as text at the 0-based column and 1-based row.
func (c *Codec) setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return fmt.Errorf("invalid cell position: %w", err)
	}
	if err := f.SetCellStr(c.sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

// styleHeader makes the header row bold.
func (c *Codec) styleHeader(f *excelize.File, columns int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return fmt.Errorf("invalid cell position: %w", err)
	}
	if err := f.SetCellStyle(c.sheetName, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

// collectHeaders returns every field name in order of first appearance.
func collectHeaders(orders order.Collection) []string {
	seen := make(map[string]bool)
	var headers []string

	for _, o := range orders {
		for _, k := range o.Keys() {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	return headers
}
