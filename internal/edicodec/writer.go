// =============================================================================
// EDI Order Converter - EDI Writer
// =============================================================================
//
// The writer renders each order as one X12 850 interchange:
//
//   ISA ...                                   <- Envelope
//   GS ...                                    <- Envelope
//   ST*850*0001                               <- Envelope
//   BEG*00*NE*{PO_Number}*4783291*{Order_Date}
//   DTM*064*{Order_Date}
//   PO1*1*{Quantity}*EA*{Unit_Price}*PE*VN*{Item}
//   CTT*1*5
//   SE*12*0001                                <- Envelope
//   GE*1*1                                    <- Envelope
//   IEA*1*000000001                           <- Envelope
//                                             <- blank separator line
//
// MISSING FIELDS:
//   An order lacking any of PO_Number, Order_Date, Quantity, Unit_Price or
//   Item can not be rendered. The MissingFieldPolicy decides what happens:
//     - PolicyAbort (default): Write returns a *validation.FieldError and
//       writes nothing at all.
//     - PolicySkip: the order is left out, the skip handler is told, and
//       the remaining orders are written.
//   Empty elements are never emitted in place of a missing field. A value
//   holding a line break would start a new segment, so it is reported the
//   same way, as a *validation.FieldError wrapping validation.ErrInvalidValue.
//
// =============================================================================

package edicodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Disha-1203/EDI-parser/internal/order"
	"github.com/Disha-1203/EDI-parser/internal/validation"
)

// MissingFieldPolicy selects how the writer treats incomplete orders.
type MissingFieldPolicy string

const (
	// PolicyAbort fails the whole write on the first incomplete order.
	PolicyAbort MissingFieldPolicy = "abort"

	// PolicySkip leaves incomplete orders out and writes the rest.
	PolicySkip MissingFieldPolicy = "skip"
)

// ParseMissingFieldPolicy converts a configuration string to a policy.
// The empty string selects PolicyAbort.
func ParseMissingFieldPolicy(s string) (MissingFieldPolicy, error) {
	switch MissingFieldPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown missing field policy %q (want abort or skip)", s)
	}
}

// SkipHandler is told about every order PolicySkip leaves out.
type SkipHandler func(err *validation.FieldError)

// =============================================================================
// CODEC
// =============================================================================

// Codec reads and writes the EDI format.
type Codec struct {
	envelope Envelope
	policy   MissingFieldPolicy
	onSkip   SkipHandler
}

// Option configures a Codec.
type Option func(*Codec)

// WithEnvelope replaces the default envelope.
func WithEnvelope(e Envelope) Option {
	return func(c *Codec) {
		c.envelope = e
	}
}

// WithMissingFieldPolicy sets the policy for incomplete orders.
func WithMissingFieldPolicy(p MissingFieldPolicy) Option {
	return func(c *Codec) {
		c.policy = p
	}
}

// WithSkipHandler registers a callback for orders skipped under PolicySkip.
func WithSkipHandler(h SkipHandler) Option {
	return func(c *Codec) {
		c.onSkip = h
	}
}

// New creates an EDI codec with the default envelope and PolicyAbort.
func New(opts ...Option) *Codec {
	c := &Codec{
		envelope: DefaultEnvelope(),
		policy:   PolicyAbort,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.envelope.ControlNumbers == nil {
		c.envelope.ControlNumbers = Fixed(1)
	}
	return c
}

// =============================================================================
// WRITER
// =============================================================================

// Write renders every order as an interchange. Output is buffered so that an
// aborted write leaves w untouched.
func (c *Codec) Write(w io.Writer, orders order.Collection) error {
	required := validation.RequiredFieldsFor("edi")
	var buf bytes.Buffer

	for i, o := range orders {
		err := validation.CheckRequired(o, i+1, required)
		if err == nil {
			err = validation.CheckSingleLine(o, i+1, required)
		}
		if err != nil {
			var fieldErr *validation.FieldError
			if c.policy == PolicySkip && errors.As(err, &fieldErr) {
				if c.onSkip != nil {
					c.onSkip(fieldErr)
				}
				continue
			}
			return fmt.Errorf("failed to write EDI output: %w", err)
		}

		for _, seg := range c.render(o) {
			buf.WriteString(seg)
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write EDI output: %w", err)
	}
	return nil
}

// render builds the segments of one interchange. o must carry every
// required field, each on a single line.
func (c *Codec) render(o *order.Order) []string {
	e := c.envelope
	control := e.ControlNumbers.Next()

	get := func(f string) string {
		v, _ := o.Get(f)
		return v
	}

	segments := e.header(control)
	segments = append(segments,
		join("BEG", "00", "NE", get(order.FieldPONumber), e.ReleaseNumber, get(order.FieldOrderDate)),
		join("DTM", e.DateQualifier, get(order.FieldOrderDate)),
		join("PO1", "1", get(order.FieldQuantity), "EA", get(order.FieldUnitPrice), "PE", "VN", get(order.FieldItem)),
		join("CTT", "1", "5"),
	)
	return append(segments, e.trailer(control)...)
}
