// Package filter selects a subset of an order collection.
//
// A Selection is one of three variants, each a pure function over the
// collection:
//
//	All{}                          every order, unchanged
//	DateRange{Start: s, End: e}    s <= Order_Date <= e (string comparison)
//	IndexList{Indices: []int{...}} orders at the given 1-based positions
//
// No variant mutates or copies the orders it selects.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Disha-1203/EDI-parser/internal/order"
	"github.com/Disha-1203/EDI-parser/internal/validation"
)

// Result is the outcome of applying a Selection.
type Result struct {
	// Orders are the selected orders, in selection order.
	Orders order.Collection

	// Invalid lists the requested 1-based indices that were out of range,
	// in request order. Only IndexList fills it.
	Invalid []int
}

// Selection picks orders from a collection.
type Selection interface {
	Apply(orders order.Collection) (Result, error)
	String() string
}

// All selects every order.
type All struct{}

// Apply returns orders unchanged.
func (All) Apply(orders order.Collection) (Result, error) {
	return Result{Orders: orders}, nil
}

func (All) String() string { return "all" }

// DateRange selects orders whose Order_Date lies in [Start, End].
//
// Dates are compared as strings, which orders YYYYMMDD values correctly.
// No calendar validation is made.
type DateRange struct {
	Start string
	End   string
}

// Apply keeps the orders inside the range. An order without Order_Date is an
// error: it is not silently treated as outside the range.
func (d DateRange) Apply(orders order.Collection) (Result, error) {
	selected := order.Collection{}

	for i, o := range orders {
		date, ok := o.Get(order.FieldOrderDate)
		if !ok {
			return Result{}, fmt.Errorf("date filter: %w", &validation.FieldError{
				Index: i + 1,
				Field: order.FieldOrderDate,
			})
		}
		if d.Start <= date && date <= d.End {
			selected = append(selected, o)
		}
	}

	return Result{Orders: selected}, nil
}

func (d DateRange) String() string {
	return fmt.Sprintf("date range %s..%s", d.Start, d.End)
}

// IndexList selects orders by 1-based position.
type IndexList struct {
	Indices []int
}

// Apply maps each index to its order. Out-of-range indices are reported in
// Result.Invalid and skipped; they never fail the selection. Repeated
// indices select the order repeatedly.
func (l IndexList) Apply(orders order.Collection) (Result, error) {
	result := Result{Orders: order.Collection{}}

	for _, idx := range l.Indices {
		o, ok := orders.At(idx)
		if !ok {
			result.Invalid = append(result.Invalid, idx)
			continue
		}
		result.Orders = append(result.Orders, o)
	}

	return result, nil
}

func (l IndexList) String() string {
	parts := make([]string, len(l.Indices))
	for i, idx := range l.Indices {
		parts[i] = strconv.Itoa(idx)
	}
	return "indices " + strings.Join(parts, ",")
}

// ParseIndexList parses a comma-separated list such as "1, 3,4".
// Empty entries are ignored; anything else that is not an integer is an
// error.
func ParseIndexList(s string) (IndexList, error) {
	var list IndexList

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return IndexList{}, fmt.Errorf("invalid order index %q", part)
		}
		list.Indices = append(list.Indices, n)
	}

	if len(list.Indices) == 0 {
		return IndexList{}, fmt.Errorf("no order indices in %q", s)
	}
	return list, nil
}
