// =============================================================================
// EDI Order Converter - Text Codec
// =============================================================================
//
// This module reads and writes the human-readable key:value block format:
//
//   PO_Number: 4500012345
//   Order_Date: 20240115
//   Item: Blue Widget
//
//   PO_Number: 4500012346
//   ...
//
// PARSING RULES:
//   - Blocks are separated by one or more blank lines. A blank line is any
//     line that contains only whitespace.
//   - Inside a block, a line containing ':' is split on the FIRST ':' into
//     key and value, both trimmed. "Key: a: b" yields the value "a: b".
//   - Lines without ':' are ignored.
//   - A block that produces no fields is dropped.
//
// There is no escaping: values containing newlines cannot be represented.
//
// =============================================================================

package txtcodec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Disha-1203/EDI-parser/internal/order"
)

// Codec reads and writes the text block format.
type Codec struct{}

// New creates a text codec.
func New() *Codec {
	return &Codec{}
}

// =============================================================================
// READER
// =============================================================================

// Read parses every block of r into an order, in file order.
func (c *Codec) Read(r io.Reader) (order.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read text input: %w", err)
	}

	orders := order.Collection{}
	var block []string

	flush := func() {
		if o := parseBlock(block); o != nil {
			orders = append(orders, o)
		}
		block = block[:0]
	}

	for _, line := range strings.Split(string(data), "\n") {
		if isBlank(line) {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	return orders, nil
}

// parseBlock converts the lines of one block to an order. It returns nil
// when the block holds no key:value line.
func parseBlock(lines []string) *order.Order {
	var o *order.Order

	for _, line := range lines {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if o == nil {
			o = order.New()
		}
		o.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return o
}

// isBlank checks if a line contains only whitespace.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// =============================================================================
// WRITER
// =============================================================================

// Write emits one "key: value" line per field, in record order, and a
// blank line after every record including the last.
func (c *Codec) Write(w io.Writer, orders order.Collection) error {
	bw := bufio.NewWriter(w)

	for _, o := range orders {
		for _, key := range o.Keys() {
			value, _ := o.Get(key)
			if _, err := fmt.Fprintf(bw, "%s: %s\n", key, value); err != nil {
				return fmt.Errorf("failed to write text output: %w", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write text output: %w", err)
		}
	}

	return bw.Flush()
}
