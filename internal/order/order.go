// =============================================================================
// EDI Order Converter - Order Record
// =============================================================================
//
// This package contains the shared data model used by every codec, the
// filter and the conversion driver. Keeping it in its own package avoids
// import cycles between:
//   - txtcodec / jsoncodec / edicodec / xlsxcodec
//   - filter
//   - validation
//   - converter
//
// An Order is a flat mapping of field name to string value. The mapping keeps
// insertion order so that text and JSON output is stable and readable. No
// schema is enforced here; which fields a target format needs is decided by
// the validation package.
//
// =============================================================================

package order

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// =============================================================================
// CANONICAL FIELD NAMES
// =============================================================================

// These are the five fields round-tripped through the EDI format. They are
// conventions: any other field name may appear in TXT, JSON or XLSX input.
const (
	FieldPONumber  = "PO_Number"
	FieldOrderDate = "Order_Date"
	FieldItem      = "Item"
	FieldQuantity  = "Quantity"
	FieldUnitPrice = "Unit_Price"
)

// CanonicalFields lists the canonical fields in the order the EDI reader
// reports them.
var CanonicalFields = []string{
	FieldPONumber,
	FieldOrderDate,
	FieldItem,
	FieldQuantity,
	FieldUnitPrice,
}

// =============================================================================
// ORDER RECORD
// =============================================================================

// Order is one purchase order as an insertion-ordered field map.
//
// Readers build an Order with Set; once a reader has returned it, the rest
// of the pipeline only reads it. Code that needs a modified copy uses Clone.
type Order struct {
	keys   []string
	values map[string]string
}

// New creates an empty Order.
func New() *Order {
	return &Order{values: make(map[string]string)}
}

// FromPairs builds an Order from alternating key, value arguments.
// It panics on an odd number of arguments and is meant for fixtures.
func FromPairs(kv ...string) *Order {
	if len(kv)%2 != 0 {
		panic("order: FromPairs needs an even number of arguments")
	}
	o := New()
	for i := 0; i < len(kv); i += 2 {
		o.Set(kv[i], kv[i+1])
	}
	return o
}

// Set stores a field. Overwriting an existing field keeps its position.
func (o *Order) Set(field, value string) {
	if o.values == nil {
		o.values = make(map[string]string)
	}
	if _, exists := o.values[field]; !exists {
		o.keys = append(o.keys, field)
	}
	o.values[field] = value
}

// Get returns the value of a field and whether it is present.
func (o *Order) Get(field string) (string, bool) {
	if o == nil || o.values == nil {
		return "", false
	}
	v, ok := o.values[field]
	return v, ok
}

// Value returns the value of a field, or fallback when it is absent.
func (o *Order) Value(field, fallback string) string {
	if v, ok := o.Get(field); ok {
		return v
	}
	return fallback
}

// Keys returns the field names in insertion order.
func (o *Order) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of fields.
func (o *Order) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Clone returns an independent copy of the order.
func (o *Order) Clone() *Order {
	c := New()
	for _, k := range o.Keys() {
		c.Set(k, o.values[k])
	}
	return c
}

// Equal reports whether two orders hold the same fields and values.
// Field order is not compared.
func (o *Order) Equal(other *Order) bool {
	if o.Len() != other.Len() {
		return false
	}
	for _, k := range o.Keys() {
		v, ok := other.Get(k)
		if !ok || v != o.values[k] {
			return false
		}
	}
	return true
}

// Map returns the fields as a plain map.
func (o *Order) Map() map[string]string {
	m := make(map[string]string, o.Len())
	for _, k := range o.Keys() {
		m[k] = o.values[k]
	}
	return m
}

// =============================================================================
// JSON SUPPORT
// =============================================================================

// MarshalJSON writes the order as a flat object in field order.
func (o *Order) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, o.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat object, keeping the document's field order.
// Non-string values are coerced to strings:
//   - numbers keep their literal text
//   - booleans become "true" / "false"
//   - null becomes ""
//   - nested arrays and objects become their compact JSON text
func (o *Order) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("order must be a JSON object, got %s", describeToken(tok))
	}

	o.keys = nil
	o.values = make(map[string]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		value, err := coerce(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		o.Set(key, value)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// coerce converts a raw JSON value to the string the model stores.
func coerce(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n':
		return "", nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		// Numbers and booleans: the literal is already the string form.
		return string(trimmed), nil
	}
}

// writeJSONString writes s as a JSON string without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

func describeToken(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		return fmt.Sprintf("'%s'", t)
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// =============================================================================
// ORDER COLLECTION
// =============================================================================

// Collection is an ordered sequence of orders. A record has no identity
// beyond its position.
type Collection []*Order

// At returns the order at a 1-based position and whether it is in range.
func (c Collection) At(position int) (*Order, bool) {
	if position < 1 || position > len(c) {
		return nil, false
	}
	return c[position-1], true
}
