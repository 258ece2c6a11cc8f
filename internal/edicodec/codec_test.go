package edicodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Disha-1203/EDI-parser/internal/order"
	"github.com/Disha-1203/EDI-parser/internal/validation"
)

const fixture = `ISA*00*          *00*          *ZZ*AMAZON         *12*9622309900     *      *    *U*00401*000000001*0*T*>
GS*PO*AMAZON*9622309900*20240424*1056**X*004010
ST*850*0001
BEG*00*NE*4500012345*4783291*20240115
DTM*064*20240115
PO1*1*10*EA*2.50*PE*VN*Blue Widget
CTT*1*5
SE*12*0001
GE*1*1
IEA*1*000000001

`

func fullOrder(po, date, item, qty, price string) *order.Order {
	return order.FromPairs(
		order.FieldPONumber, po,
		order.FieldOrderDate, date,
		order.FieldItem, item,
		order.FieldQuantity, qty,
		order.FieldUnitPrice, price,
	)
}

func TestWriteMatchesLegacyFixture(t *testing.T) {
	var buf bytes.Buffer
	err := New().Write(&buf, order.Collection{
		fullOrder("4500012345", "20240115", "Blue Widget", "10", "2.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, fixture, buf.String())
}

func TestWriteFixedControlNumbersRepeat(t *testing.T) {
	var buf bytes.Buffer
	err := New().Write(&buf, order.Collection{
		fullOrder("1", "20240101", "A", "1", "1.00"),
		fullOrder("2", "20240102", "B", "2", "2.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(buf.String(), "IEA*1*000000001\n"))
	assert.True(t, strings.HasSuffix(buf.String(), "IEA*1*000000001\n\n"))
}

func TestWriteSequenceControlNumbers(t *testing.T) {
	env := DefaultEnvelope()
	env.ControlNumbers = Sequence(41)
	env.SenderID = "ACME"

	var buf bytes.Buffer
	err := New(WithEnvelope(env)).Write(&buf, order.Collection{
		fullOrder("1", "20240101", "A", "1", "1.00"),
		fullOrder("2", "20240102", "B", "2", "2.00"),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "*ZZ*ACME           *")
	assert.Contains(t, out, "GS*PO*ACME*")
	assert.Contains(t, out, "*000000041*0*T*>\n")
	assert.Contains(t, out, "ST*850*0041\n")
	assert.Contains(t, out, "SE*12*0042\n")
	assert.Contains(t, out, "GE*1*42\n")
	assert.Contains(t, out, "IEA*1*000000042\n")
}

func TestWriteAbortsOnMissingField(t *testing.T) {
	incomplete := order.FromPairs(
		order.FieldPONumber, "2",
		order.FieldOrderDate, "20240102",
		order.FieldItem, "B",
		order.FieldQuantity, "2",
	)

	var buf bytes.Buffer
	err := New().Write(&buf, order.Collection{
		fullOrder("1", "20240101", "A", "1", "1.00"),
		incomplete,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrMissingField))

	var fieldErr *validation.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, 2, fieldErr.Index)
	assert.Equal(t, order.FieldUnitPrice, fieldErr.Field)

	assert.Zero(t, buf.Len(), "aborted write must not emit anything")
	assert.NotContains(t, buf.String(), "PO1*1**EA**PE*VN*")
}

func TestWriteSkipsMissingFieldWithSkipPolicy(t *testing.T) {
	var skipped []*validation.FieldError
	codec := New(
		WithMissingFieldPolicy(PolicySkip),
		WithSkipHandler(func(err *validation.FieldError) { skipped = append(skipped, err) }),
	)

	var buf bytes.Buffer
	err := codec.Write(&buf, order.Collection{
		order.FromPairs(order.FieldPONumber, "1"),
		fullOrder("2", "20240102", "B", "2", "2.00"),
	})
	require.NoError(t, err)

	require.Len(t, skipped, 1)
	assert.Equal(t, 1, skipped[0].Index)
	assert.Equal(t, order.FieldOrderDate, skipped[0].Field)
	assert.Equal(t, 1, strings.Count(buf.String(), "ISA*"))
	assert.Contains(t, buf.String(), "BEG*00*NE*2*4783291*20240102\n")
}

func TestParseMissingFieldPolicy(t *testing.T) {
	p, err := ParseMissingFieldPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, p)

	p, err = ParseMissingFieldPolicy(" SKIP ")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)

	_, err = ParseMissingFieldPolicy("ignore")
	assert.Error(t, err)
}

func TestReadFixture(t *testing.T) {
	orders, err := New().Read(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, order.CanonicalFields, o.Keys())
	assert.Equal(t, "4500012345", o.Value(order.FieldPONumber, ""))
	assert.Equal(t, "20240115", o.Value(order.FieldOrderDate, ""))
	assert.Equal(t, "Blue Widget", o.Value(order.FieldItem, ""))
	assert.Equal(t, "10", o.Value(order.FieldQuantity, ""))
	assert.Equal(t, "2.50", o.Value(order.FieldUnitPrice, ""))
}

func TestReadPartialInterchanges(t *testing.T) {
	input := strings.Join([]string{
		"ISA*00*junk",
		"BEG*00*NE*PO-9*1*20240301",
		"",
		"ISA*00*only a header",
		"GS*PO*X*Y",
		"",
		"ISA*00*x",
		"DTM*002*20240305extra",
		"PO1*1*7*CS*3.00*PE*VN*Crate",
	}, "\n")

	orders, err := New().Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, orders, 2, "interchange without recognisable fields is dropped")

	assert.Equal(t, []string{order.FieldPONumber}, orders[0].Keys())
	assert.Equal(t, "PO-9", orders[0].Value(order.FieldPONumber, ""))

	// PO103 is not EA, so only the quantity matches.
	assert.Equal(t, []string{order.FieldOrderDate, order.FieldQuantity}, orders[1].Keys())
	assert.Equal(t, "20240305", orders[1].Value(order.FieldOrderDate, ""))
	assert.Equal(t, "7", orders[1].Value(order.FieldQuantity, ""))
}

func TestReadKeepsTildeInsideSegments(t *testing.T) {
	input := "ISA*00*x\r\nBEG*00*NE*77~A*1*20240101\r\nDTM*064*20240101\r\nPO1*1*3*EA*1.5*PE*VN*Nut*M8~Zinc\r\nSE*12*0001\r\n"
	orders, err := New().Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, "77~A", o.Value(order.FieldPONumber, ""))
	assert.Equal(t, "Nut*M8~Zinc", o.Value(order.FieldItem, ""))
	assert.Equal(t, "1.5", o.Value(order.FieldUnitPrice, ""))
}

func TestRoundTripKeepsTilde(t *testing.T) {
	orders := order.Collection{fullOrder("PO1", "20240115", "Bolt~Size L", "10", "2.50")}

	var buf bytes.Buffer
	require.NoError(t, New().Write(&buf, orders))

	back, err := New().Read(&buf)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "Bolt~Size L", back[0].Value(order.FieldItem, ""))
	assert.True(t, orders[0].Equal(back[0]), "%v != %v", orders[0].Map(), back[0].Map())
}

func TestRoundTripKeepsEmptyValues(t *testing.T) {
	orders := order.Collection{fullOrder("", "20240115", "", "10", "2.50")}

	var buf bytes.Buffer
	require.NoError(t, New().Write(&buf, orders))
	written := buf.String()
	assert.Contains(t, written, "BEG*00*NE**4783291*20240115\n")
	assert.Contains(t, written, "PO1*1*10*EA*2.50*PE*VN*\n")

	back, err := New().Read(&buf)
	require.NoError(t, err)
	require.Len(t, back, 1)

	po, ok := back[0].Get(order.FieldPONumber)
	assert.True(t, ok)
	assert.Empty(t, po)
	item, ok := back[0].Get(order.FieldItem)
	assert.True(t, ok)
	assert.Empty(t, item)
	assert.Equal(t, order.CanonicalFields, back[0].Keys())

	var again bytes.Buffer
	require.NoError(t, New().Write(&again, back), "read-back order must be writable")
	assert.Equal(t, written, again.String())
}

func TestWriteAbortsOnLineBreakInValue(t *testing.T) {
	var buf bytes.Buffer
	err := New().Write(&buf, order.Collection{
		fullOrder("1", "20240101", "A", "1", "1.00"),
		fullOrder("2", "20240102", "Bolt\nISA*00*fake", "2", "2.00"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrInvalidValue))

	var fieldErr *validation.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, 2, fieldErr.Index)
	assert.Equal(t, order.FieldItem, fieldErr.Field)
	assert.Zero(t, buf.Len())
}

func TestWriteSkipsLineBreakInValueWithSkipPolicy(t *testing.T) {
	var skipped []*validation.FieldError
	codec := New(
		WithMissingFieldPolicy(PolicySkip),
		WithSkipHandler(func(err *validation.FieldError) { skipped = append(skipped, err) }),
	)

	var buf bytes.Buffer
	err := codec.Write(&buf, order.Collection{
		fullOrder("1\r\nIEA*1", "20240101", "A", "1", "1.00"),
		fullOrder("2", "20240102", "B", "2", "2.00"),
	})
	require.NoError(t, err)

	require.Len(t, skipped, 1)
	assert.Equal(t, 1, skipped[0].Index)
	assert.Equal(t, order.FieldPONumber, skipped[0].Field)
	assert.ErrorIs(t, skipped[0], validation.ErrInvalidValue)

	back, err := codec.Read(&buf)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "2", back[0].Value(order.FieldPONumber, ""))
}

func TestReadSegmentsBeforeFirstISA(t *testing.T) {
	input := "BEG*00*NE*LOOSE*1*20240101\n" + fixture
	orders, err := New().Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "LOOSE", orders[0].Value(order.FieldPONumber, ""))
	assert.Equal(t, "4500012345", orders[1].Value(order.FieldPONumber, ""))
}

func TestReadDoesNotSplitOnISAInsideValues(t *testing.T) {
	input := strings.Replace(fixture, "Blue Widget", "DISASTER KIT", 1)
	orders, err := New().Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "DISASTER KIT", orders[0].Value(order.FieldItem, ""))
}

func TestReadFirstMatchWins(t *testing.T) {
	input := "ISA*x\nDTM*064*20240101\nDTM*002*20991231\n"
	orders, err := New().Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "20240101", orders[0].Value(order.FieldOrderDate, ""))
}

func TestRoundTrip(t *testing.T) {
	orders := order.Collection{
		fullOrder("4500012345", "20240115", "Blue Widget", "10", "2.50"),
		fullOrder("PO-2", "20240201", "Hex Bolt M8 x 40", "250", "0.12"),
		fullOrder("X9", "20231231", "Pallet", "1", "100"),
	}

	codec := New(WithEnvelope(func() Envelope {
		e := DefaultEnvelope()
		e.ControlNumbers = Sequence(1)
		return e
	}()))

	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, orders))

	back, err := codec.Read(&buf)
	require.NoError(t, err)
	require.Len(t, back, len(orders))
	for i := range orders {
		assert.True(t, orders[i].Equal(back[i]), "order %d: %v != %v", i+1, orders[i].Map(), back[i].Map())
	}
}

func TestTokenize(t *testing.T) {
	ics := Tokenize("ISA*a\nST*850\nISA*b\n\n  \nIEA*1\n")
	require.Len(t, ics, 2)
	assert.Len(t, ics[0], 2)
	assert.Equal(t, "ST", ics[0][1].Tag())
	v, ok := ics[0][1].Element(1)
	assert.True(t, ok)
	assert.Equal(t, "850", v)
	_, ok = ics[0][1].Element(2)
	assert.False(t, ok)
	assert.Equal(t, "IEA", ics[1][1].Tag())
}
