package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Disha-1203/EDI-parser/internal/order"
	"github.com/Disha-1203/EDI-parser/internal/validation"
)

func dated(dates ...string) order.Collection {
	c := order.Collection{}
	for _, d := range dates {
		c = append(c, order.FromPairs(order.FieldPONumber, "PO-"+d, order.FieldOrderDate, d))
	}
	return c
}

func TestAll(t *testing.T) {
	orders := dated("20240101", "20240102")
	res, err := All{}.Apply(orders)
	require.NoError(t, err)
	assert.Equal(t, orders, res.Orders)
	assert.Empty(t, res.Invalid)
}

func TestDateRangeIsInclusive(t *testing.T) {
	orders := dated("20240101", "20240115", "20240201")

	res, err := DateRange{Start: "20240101", End: "20240115"}.Apply(orders)
	require.NoError(t, err)
	require.Len(t, res.Orders, 2)
	assert.Same(t, orders[0], res.Orders[0])
	assert.Same(t, orders[1], res.Orders[1])
}

func TestDateRangeEmptySelection(t *testing.T) {
	res, err := DateRange{Start: "20250101", End: "20251231"}.Apply(dated("20240101"))
	require.NoError(t, err)
	assert.Empty(t, res.Orders)
}

func TestDateRangeMissingDateIsAnError(t *testing.T) {
	orders := dated("20240101")
	orders = append(orders, order.FromPairs(order.FieldPONumber, "no-date"))

	_, err := DateRange{Start: "20240101", End: "20241231"}.Apply(orders)
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrMissingField))

	var fieldErr *validation.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, 2, fieldErr.Index)
	assert.Equal(t, order.FieldOrderDate, fieldErr.Field)
}

func TestIndexList(t *testing.T) {
	orders := dated("20240101", "20240102", "20240103")

	res, err := IndexList{Indices: []int{1, 3}}.Apply(orders)
	require.NoError(t, err)
	require.Len(t, res.Orders, 2)
	assert.Same(t, orders[0], res.Orders[0])
	assert.Same(t, orders[2], res.Orders[1])
	assert.Empty(t, res.Invalid)
}

func TestIndexListReportsOutOfRange(t *testing.T) {
	orders := dated("20240101", "20240102", "20240103")

	res, err := IndexList{Indices: []int{5}}.Apply(orders)
	require.NoError(t, err)
	assert.Empty(t, res.Orders)
	assert.Equal(t, []int{5}, res.Invalid)

	res, err = IndexList{Indices: []int{0, 2, 4, 2}}.Apply(orders)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4}, res.Invalid)
	require.Len(t, res.Orders, 2)
	assert.Same(t, orders[1], res.Orders[0])
	assert.Same(t, orders[1], res.Orders[1])
}

func TestParseIndexList(t *testing.T) {
	list, err := ParseIndexList(" 1, 3,4 ,")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, list.Indices)
	assert.Equal(t, "indices 1,3,4", list.String())

	_, err = ParseIndexList("1,two")
	assert.Error(t, err)

	_, err = ParseIndexList(" , ")
	assert.Error(t, err)
}
