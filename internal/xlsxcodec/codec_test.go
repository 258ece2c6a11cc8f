package xlsxcodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Disha-1203/EDI-parser/internal/order"
)

func TestRoundTrip(t *testing.T) {
	orders := order.Collection{
		order.FromPairs(
			order.FieldPONumber, "0045",
			order.FieldOrderDate, "20240115",
			order.FieldItem, "Blue Widget",
			order.FieldQuantity, "10",
			order.FieldUnitPrice, "2.50",
		),
		order.FromPairs(order.FieldPONumber, "0046", "Notes", "rush"),
	}

	codec := New("")
	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, orders))

	back, err := codec.Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, back, 2)

	assert.True(t, orders[0].Equal(back[0]), "%v", back[0].Map())
	assert.True(t, orders[1].Equal(back[1]), "%v", back[1].Map())
	assert.Equal(t, order.CanonicalFields, back[0].Keys())
}

func TestWriteHeaderRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New("PO").Write(&buf, order.Collection{
		order.FromPairs("B", "1"),
		order.FromPairs("A", "2", "B", "3"),
	}))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "PO", f.GetSheetName(0))
	rows, err := f.GetRows("PO")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"B", "A"}, rows[0])
	assert.Equal(t, []string{"1"}, rows[1])
	assert.Equal(t, []string{"3", "2"}, rows[2])
}

func TestReadDropsEmptyRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"PO_Number", "", "Item"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"P1", "ignored", "Bolt"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"P2"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	orders, err := New("").Read(&buf)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, []string{"PO_Number", "Item"}, orders[0].Keys())
	assert.Equal(t, "P2", orders[1].Value(order.FieldPONumber, ""))
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := New("").Read(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
