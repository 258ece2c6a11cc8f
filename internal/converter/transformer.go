// =============================================================================
// EDI Order Converter - Transformation Engine
// =============================================================================
//
// This module rewrites field values of selected orders before they are
// written, so that partner-specific conventions (zero-padded PO numbers,
// upper-case item codes, date reformatting) do not require a code change.
//
// TRANSFORMATION TYPES:
//   - String manipulations (prepend, append, trim, case conversion, replace)
//   - Numeric formatting (padding, precision)
//   - Date conversions
//   - Lookup table replacements
//   - Defaults for empty values
//
// Rules are read from the "transformations" section of the configuration.
// Only fields an order already has are transformed; a rule never adds a
// field to an order.
//
// =============================================================================

package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Disha-1203/EDI-parser/internal/config"
	"github.com/Disha-1203/EDI-parser/internal/order"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer handles field value transformations.
type Transformer struct {
	rules map[string][]config.TransformationAction
}

// knownActions lists every supported action type.
var knownActions = map[string]bool{
	"prepend_string":       true,
	"append_string":        true,
	"trim":                 true,
	"trim_left":            true,
	"trim_right":           true,
	"uppercase":            true,
	"lowercase":            true,
	"replace":              true,
	"regex_replace":        true,
	"pad_zeros_to_length":  true,
	"remove_leading_zeros": true,
	"format_number":        true,
	"format_date":          true,
	"lookup":               true,
	"lookup_with_default":  true,
	"if_empty_use_default": true,
	"if_empty_use_field":   true,
}

// NewTransformer creates a new Transformer with the given rules.
// Rules for the same field are applied in the order they are listed.
//
// RETURNS:
//   - An error if a rule uses an unknown action or an invalid pattern.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{rules: make(map[string][]config.TransformationAction)}

	for _, rule := range rules {
		for _, action := range rule.Actions {
			if !knownActions[action.Type] {
				return nil, fmt.Errorf("field %s: unknown transformation type: %s", rule.Field, action.Type)
			}
			if action.Type == "regex_replace" {
				if _, err := regexp.Compile(action.Find); err != nil {
					return nil, fmt.Errorf("field %s: invalid regex pattern: %w", rule.Field, err)
				}
			}
		}
		t.rules[rule.Field] = append(t.rules[rule.Field], rule.Actions...)
	}

	return t, nil
}

// Empty reports whether the transformer has no rules.
func (t *Transformer) Empty() bool {
	return len(t.rules) == 0
}

// =============================================================================
// BATCH TRANSFORMATION
// =============================================================================

// TransformOrders applies all rules to copies of orders. The input orders
// are left untouched.
func (t *Transformer) TransformOrders(orders order.Collection) (order.Collection, error) {
	if t.Empty() {
		return orders, nil
	}

	out := make(order.Collection, len(orders))
	for i, o := range orders {
		transformed, err := t.TransformOrder(o)
		if err != nil {
			return nil, fmt.Errorf("error transforming order %d: %w", i+1, err)
		}
		out[i] = transformed
	}
	return out, nil
}

// TransformOrder returns a transformed copy of o.
func (t *Transformer) TransformOrder(o *order.Order) (*order.Order, error) {
	clone := o.Clone()
	original := o.Map()

	for _, field := range o.Keys() {
		actions, ok := t.rules[field]
		if !ok {
			continue
		}

		value, _ := clone.Get(field)
		for _, action := range actions {
			var err error
			value, err = ApplyTransformation(value, action, original)
			if err != nil {
				return nil, fmt.Errorf("error transforming field '%s': transformation '%s' failed: %w", field, action.Type, err)
			}
		}
		clone.Set(field, value)
	}

	return clone, nil
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// ApplyTransformation applies a single transformation action.
//
// PARAMETERS:
//   - value: The current value.
//   - action: The transformation action to apply.
//   - allFields: All fields of the order, before any transformation.
//
// RETURNS:
//   - The transformed value.
//   - An error if the transformation fails.
func ApplyTransformation(value string, action config.TransformationAction, allFields map[string]string) (string, error) {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "prepend_string":
		// EXAMPLE:
		//   Input: "450001"
		//   Action: prepend_string with value "PO-"
		//   Output: "PO-450001"
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "trim":
		return strings.TrimSpace(value), nil

	case "trim_left":
		if action.Value != "" {
			return strings.TrimLeft(value, action.Value), nil
		}
		return strings.TrimLeft(value, " \t\n\r"), nil

	case "trim_right":
		if action.Value != "" {
			return strings.TrimRight(value, action.Value), nil
		}
		return strings.TrimRight(value, " \t\n\r"), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "replace":
		// EXAMPLE:
		//   Input: "Blue*Widget"
		//   Action: replace with find "*" and value " "
		//   Output: "Blue Widget"
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		if action.Find == "" {
			return value, nil
		}
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return "", fmt.Errorf("invalid regex pattern: %w", err)
		}
		return re.ReplaceAllString(value, action.Value), nil

	// =========================================================================
	// NUMERIC FORMATTING
	// =========================================================================

	case "pad_zeros_to_length":
		// EXAMPLE:
		//   Input: "45"
		//   Action: pad_zeros_to_length with value "6"
		//   Output: "000045"
		targetLength, err := strconv.Atoi(action.Value)
		if err != nil || targetLength <= 0 {
			return value, nil
		}
		return PadLeft(value, targetLength, '0'), nil

	case "remove_leading_zeros":
		result := strings.TrimLeft(value, "0")
		if result == "" {
			return "0", nil
		}
		return result, nil

	case "format_number":
		// EXAMPLE:
		//   Input: "2.5"
		//   Action: format_number with value "2"
		//   Output: "2.50"
		decimalPlaces, err := strconv.Atoi(action.Value)
		if err != nil || decimalPlaces < 0 {
			return value, nil
		}
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value, nil
		}
		return strconv.FormatFloat(num, 'f', decimalPlaces, 64), nil

	// =========================================================================
	// DATE CONVERSIONS
	// =========================================================================

	case "format_date":
		// VALUE FORMAT: "input_format|output_format" (Go layouts)
		// EXAMPLE:
		//   Input: "01/15/2024"
		//   Action: format_date with value "01/02/2006|20060102"
		//   Output: "20240115"
		parts := strings.Split(action.Value, "|")
		if len(parts) != 2 {
			return value, nil
		}
		t, err := time.Parse(strings.TrimSpace(parts[0]), value)
		if err != nil {
			return value, nil
		}
		return t.Format(strings.TrimSpace(parts[1])), nil

	// =========================================================================
	// LOOKUP TABLE REPLACEMENTS
	// =========================================================================

	case "lookup":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return value, nil

	case "lookup_with_default":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return action.Value, nil

	// =========================================================================
	// DEFAULTS
	// =========================================================================

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	case "if_empty_use_field":
		if strings.TrimSpace(value) == "" {
			if otherValue, exists := allFields[action.Value]; exists {
				return otherValue, nil
			}
		}
		return value, nil

	default:
		return "", fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// PadLeft pads a string with a character on the left to reach the target length.
func PadLeft(s string, length int, padChar rune) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-len(s)) + s
}
