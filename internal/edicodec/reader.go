// =============================================================================
// EDI Order Converter - EDI Reader
// =============================================================================
//
// The reader is a tolerant, two-stage tokenizer:
//
//   1. SEGMENTS: the input is split on newlines. There is no segment
//      terminator character, so a '~' is ordinary element text. Carriage
//      returns are trimmed and blank segments skipped.
//   2. ELEMENTS: each segment is split on '*'. Element 0 is the tag.
//
// Segments are grouped into interchanges: every ISA segment starts a new
// one. Segments that appear before the first ISA form an interchange of
// their own, so a bare BEG/DTM/PO1 fragment still yields an order.
//
// FIELD EXTRACTION:
//   Each interchange is matched against the extraction table below. For each
//   field the first matching segment wins. A field whose segment is missing
//   or malformed is simply left out; the reader never fails on content. A
//   matching segment with an empty value element yields an empty field. An
//   interchange from which no field could be extracted is dropped.
//
//   | Field      | Segment | Condition                                    | Value            |
//   |------------|---------|----------------------------------------------|------------------|
//   | PO_Number  | BEG     | BEG01=00, BEG02=NE, BEG04 present            | BEG03            |
//   | Order_Date | DTM     | DTM01 numeric                                | digits of DTM02  |
//   | Quantity   | PO1     | PO101, PO102 numeric, PO103 present          | PO102            |
//   | Unit_Price | PO1     | quantity rule, PO103=EA, PO104 decimal, PO105| PO104            |
//   | Item       | PO1     | price rule, PO105 word, PO106=VN             | PO107 to the end |
//
// =============================================================================

package edicodec

import (
	"fmt"
	"io"
	"strings"

	"github.com/Disha-1203/EDI-parser/internal/order"
	"github.com/Disha-1203/EDI-parser/internal/validation"
)

// ElementSeparator splits a segment into elements.
const ElementSeparator = "*"

// =============================================================================
// TOKENIZER
// =============================================================================

// Segment is one tokenized segment: Elements[0] is the tag.
type Segment struct {
	Elements []string
}

// Tag returns the segment identifier.
func (s Segment) Tag() string {
	return s.Elements[0]
}

// Element returns the element at position i (1-based, as in X12 notation)
// and whether it exists.
func (s Segment) Element(i int) (string, bool) {
	if i < 1 || i >= len(s.Elements) {
		return "", false
	}
	return s.Elements[i], true
}

// Interchange is the ordered list of segments between two ISA headers.
type Interchange []Segment

// Tokenize splits raw EDI text into interchanges.
func Tokenize(content string) []Interchange {
	var (
		interchanges []Interchange
		current      Interchange
	)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		seg := Segment{Elements: strings.Split(strings.TrimLeft(line, " \t"), ElementSeparator)}
		if seg.Tag() == "ISA" && len(current) > 0 {
			interchanges = append(interchanges, current)
			current = nil
		}
		current = append(current, seg)
	}

	if len(current) > 0 {
		interchanges = append(interchanges, current)
	}
	return interchanges
}

// =============================================================================
// EXTRACTION TABLE
// =============================================================================

// extractor pulls one field out of a segment. ok is false when the segment
// does not match.
type extractor struct {
	field   string
	tag     string
	extract func(Segment) (string, bool)
}

// extractors is consulted in order for every segment of an interchange.
var extractors = []extractor{
	{field: order.FieldPONumber, tag: "BEG", extract: extractPONumber},
	{field: order.FieldOrderDate, tag: "DTM", extract: extractOrderDate},
	{field: order.FieldItem, tag: "PO1", extract: extractItem},
	{field: order.FieldQuantity, tag: "PO1", extract: extractQuantity},
	{field: order.FieldUnitPrice, tag: "PO1", extract: extractUnitPrice},
}

func extractPONumber(s Segment) (string, bool) {
	if !elementIs(s, 1, "00") || !elementIs(s, 2, "NE") {
		return "", false
	}
	if _, ok := s.Element(4); !ok {
		return "", false
	}
	return s.Element(3)
}

func extractOrderDate(s Segment) (string, bool) {
	if !numericElement(s, 1) {
		return "", false
	}
	raw, ok := s.Element(2)
	if !ok {
		return "", false
	}
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	return raw[:end], end > 0
}

func extractQuantity(s Segment) (string, bool) {
	if !numericElement(s, 1) || !numericElement(s, 2) {
		return "", false
	}
	if _, ok := s.Element(3); !ok {
		return "", false
	}
	return s.Element(2)
}

func extractUnitPrice(s Segment) (string, bool) {
	if _, ok := extractQuantity(s); !ok || !elementIs(s, 3, "EA") {
		return "", false
	}
	price, ok := s.Element(4)
	if !ok || !validation.IsDecimal(price) {
		return "", false
	}
	if _, ok := s.Element(5); !ok {
		return "", false
	}
	return price, true
}

func extractItem(s Segment) (string, bool) {
	if _, ok := extractUnitPrice(s); !ok || !elementIs(s, 6, "VN") {
		return "", false
	}
	if uom, _ := s.Element(5); !isWord(uom) {
		return "", false
	}
	if len(s.Elements) < 8 {
		return "", false
	}
	// The item description runs to the end of the segment, separators
	// included.
	return strings.Join(s.Elements[7:], ElementSeparator), true
}

func elementIs(s Segment, i int, want string) bool {
	v, ok := s.Element(i)
	return ok && v == want
}

func numericElement(s Segment, i int) bool {
	v, ok := s.Element(i)
	return ok && validation.IsDigits(v)
}

// isWord reports whether s is non-empty and made of letters, digits and '_'.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// Extract applies the extraction table to one interchange. The result may be
// empty.
func Extract(ic Interchange) *order.Order {
	found := make(map[string]string, len(extractors))

	for _, seg := range ic {
		for _, ex := range extractors {
			if _, done := found[ex.field]; done || seg.Tag() != ex.tag {
				continue
			}
			if v, ok := ex.extract(seg); ok {
				found[ex.field] = v
			}
		}
	}

	o := order.New()
	for _, field := range order.CanonicalFields {
		if v, ok := found[field]; ok {
			o.Set(field, v)
		}
	}
	return o
}

// =============================================================================
// READER
// =============================================================================

// Read extracts one order per interchange of r.
func (c *Codec) Read(r io.Reader) (order.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read EDI input: %w", err)
	}

	orders := order.Collection{}
	for _, ic := range Tokenize(string(data)) {
		if o := Extract(ic); o.Len() > 0 {
			orders = append(orders, o)
		}
	}
	return orders, nil
}
