// Package jsoncodec reads and writes orders as a JSON array of flat objects.
//
// The heavy lifting (field order, value coercion) lives in order.Order's
// JSON methods; this package only handles the array framing.
package jsoncodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Disha-1203/EDI-parser/internal/order"
)

// DefaultIndent is the number of spaces used when pretty-printing.
const DefaultIndent = 2

// Codec reads and writes the JSON array format.
type Codec struct {
	indent string
}

// New creates a JSON codec that indents output by indent spaces.
// A non-positive indent falls back to DefaultIndent.
func New(indent int) *Codec {
	if indent <= 0 {
		indent = DefaultIndent
	}
	return &Codec{indent: strings.Repeat(" ", indent)}
}

// Read decodes an array of objects. Null elements and empty objects are
// dropped so that every returned order has at least one field.
func (c *Codec) Read(r io.Reader) (order.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON input: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("JSON input must be an array of objects")
	}

	var raw []*order.Order
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON input: %w", err)
	}

	orders := make(order.Collection, 0, len(raw))
	for _, o := range raw {
		if o == nil || o.Len() == 0 {
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Write encodes orders as an indented array. An empty collection is
// written as "[]".
func (c *Codec) Write(w io.Writer, orders order.Collection) error {
	if orders == nil {
		orders = order.Collection{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", c.indent)
	if err := enc.Encode(orders); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}
