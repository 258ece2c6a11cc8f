package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Disha-1203/EDI-parser/internal/config"
	"github.com/Disha-1203/EDI-parser/internal/order"
)

func TestApplyTransformation(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		action config.TransformationAction
		want   string
	}{
		{"prepend", "450001", config.TransformationAction{Type: "prepend_string", Value: "PO-"}, "PO-450001"},
		{"append", "10", config.TransformationAction{Type: "append_string", Value: "EA"}, "10EA"},
		{"trim", "  Bolt ", config.TransformationAction{Type: "trim"}, "Bolt"},
		{"trim left chars", "xxBolt", config.TransformationAction{Type: "trim_left", Value: "x"}, "Bolt"},
		{"uppercase", "bolt", config.TransformationAction{Type: "uppercase"}, "BOLT"},
		{"lowercase", "BOLT", config.TransformationAction{Type: "lowercase"}, "bolt"},
		{"replace", "Blue*Widget", config.TransformationAction{Type: "replace", Find: "*", Value: " "}, "Blue Widget"},
		{"regex", "AB-12-CD", config.TransformationAction{Type: "regex_replace", Find: `[A-Z]+`, Value: "X"}, "X-12-X"},
		{"pad", "45", config.TransformationAction{Type: "pad_zeros_to_length", Value: "6"}, "000045"},
		{"pad bad length", "45", config.TransformationAction{Type: "pad_zeros_to_length", Value: "six"}, "45"},
		{"remove zeros", "000", config.TransformationAction{Type: "remove_leading_zeros"}, "0"},
		{"format number", "2.5", config.TransformationAction{Type: "format_number", Value: "2"}, "2.50"},
		{"format date", "01/15/2024", config.TransformationAction{Type: "format_date", Value: "01/02/2006|20060102"}, "20240115"},
		{"lookup hit", "BLT", config.TransformationAction{Type: "lookup", LookupTable: map[string]string{"BLT": "Bolt"}}, "Bolt"},
		{"lookup miss", "NUT", config.TransformationAction{Type: "lookup", LookupTable: map[string]string{"BLT": "Bolt"}}, "NUT"},
		{"lookup default", "NUT", config.TransformationAction{Type: "lookup_with_default", Value: "Other"}, "Other"},
		{"empty default", " ", config.TransformationAction{Type: "if_empty_use_default", Value: "N/A"}, "N/A"},
		{"empty field", "", config.TransformationAction{Type: "if_empty_use_field", Value: "PO_Number"}, "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyTransformation(tt.value, tt.action, map[string]string{"PO_Number": "9"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ApplyTransformation("x", config.TransformationAction{Type: "reverse"}, nil)
	assert.Error(t, err)
}

func TestNewTransformerValidatesRules(t *testing.T) {
	_, err := NewTransformer([]config.TransformationRule{
		{Field: "Item", Actions: []config.TransformationAction{{Type: "regex_replace", Find: "("}}},
	})
	assert.Error(t, err)

	tr, err := NewTransformer(nil)
	require.NoError(t, err)
	assert.True(t, tr.Empty())
}

func TestTransformOrdersWorksOnCopies(t *testing.T) {
	tr, err := NewTransformer([]config.TransformationRule{
		{Field: "PO_Number", Actions: []config.TransformationAction{
			{Type: "pad_zeros_to_length", Value: "5"},
			{Type: "prepend_string", Value: "A"},
		}},
		{Field: "Notes", Actions: []config.TransformationAction{{Type: "uppercase"}}},
	})
	require.NoError(t, err)

	original := order.Collection{order.FromPairs(order.FieldPONumber, "12", order.FieldItem, "Bolt")}

	out, err := tr.TransformOrders(original)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "A00012", out[0].Value(order.FieldPONumber, ""))
	assert.Equal(t, "12", original[0].Value(order.FieldPONumber, ""))
	assert.Equal(t, []string{order.FieldPONumber, order.FieldItem}, out[0].Keys())
	_, hasNotes := out[0].Get("Notes")
	assert.False(t, hasNotes)
}
