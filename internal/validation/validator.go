// =============================================================================
// EDI Order Converter - Validation
// =============================================================================
//
// This module decides which fields a target format requires and checks the
// shape of the canonical field values.
//
// VALIDATION LEVELS:
//   1. Required fields: a record that lacks a field the target format needs
//      is an error (FieldError). Only EDI has required fields. A value that
//      would break the line structure of the output is an error as well.
//   2. Value shape: a canonical field whose value would not survive an EDI
//      round trip (date not YYYYMMDD, non-integer quantity, non-decimal
//      price) is a warning. Warnings never stop a conversion.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Disha-1203/EDI-parser/internal/order"
)

var (
	// ErrMissingField is wrapped by a FieldError for an absent field.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidValue is wrapped by a FieldError for a value that can not
	// be written, such as one holding a line break.
	ErrInvalidValue = errors.New("invalid value in field")
)

// SeverityWarning is the severity of every value-shape finding.
const SeverityWarning = "warning"

// =============================================================================
// REQUIRED FIELDS
// =============================================================================

// requiredFields maps an output format name to the fields it cannot do
// without. Formats not listed accept any field set.
var requiredFields = map[string][]string{
	"edi": {
		order.FieldPONumber,
		order.FieldOrderDate,
		order.FieldQuantity,
		order.FieldUnitPrice,
		order.FieldItem,
	},
}

// RequiredFieldsFor returns the fields the named output format requires.
func RequiredFieldsFor(format string) []string {
	fields := requiredFields[strings.ToLower(strings.TrimSpace(format))]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// FieldError reports a record that can not be written because of one field.
type FieldError struct {
	// Index is the 1-based position of the record in its collection.
	Index int

	// Field is the offending field name.
	Field string

	// Err is the reason. nil means ErrMissingField.
	Err error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("order %d: %s %q", e.Index, e.Unwrap(), e.Field)
}

// Unwrap lets errors.Is match ErrMissingField or ErrInvalidValue.
func (e *FieldError) Unwrap() error {
	if e.Err == nil {
		return ErrMissingField
	}
	return e.Err
}

// CheckRequired returns a *FieldError for the first field in fields that o
// does not carry. index is the record's 1-based position.
func CheckRequired(o *order.Order, index int, fields []string) error {
	for _, f := range fields {
		if _, ok := o.Get(f); !ok {
			return &FieldError{Index: index, Field: f}
		}
	}
	return nil
}

// CheckSingleLine returns a *FieldError wrapping ErrInvalidValue for the first
// field in fields whose value holds a line break. Absent fields pass.
func CheckSingleLine(o *order.Order, index int, fields []string) error {
	for _, f := range fields {
		if v, ok := o.Get(f); ok && strings.ContainsAny(v, "\r\n") {
			return &FieldError{Index: index, Field: f, Err: ErrInvalidValue}
		}
	}
	return nil
}

// =============================================================================
// VALUE SHAPE VALIDATION
// =============================================================================

// ValidationError describes one value-shape finding.
type ValidationError struct {
	// Severity is SeverityWarning.
	Severity string

	// Index is the 1-based position of the record.
	Index int

	// Field is the field that failed validation.
	Field string

	// Value is the offending value.
	Value string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] order %d, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity), e.Index, e.Field, e.Message, e.Value)
}

// shapeRules maps canonical fields to their value check.
var shapeRules = []struct {
	field string
	check func(string) string
}{
	{order.FieldOrderDate, validateDate},
	{order.FieldQuantity, validateNumeric},
	{order.FieldUnitPrice, validateDecimal},
}

// Validate checks the canonical field values of every order and returns
// warnings for values that are present but malformed.
func Validate(orders order.Collection) []*ValidationError {
	var findings []*ValidationError

	for i, o := range orders {
		for _, rule := range shapeRules {
			value, ok := o.Get(rule.field)
			if !ok {
				continue
			}
			if msg := rule.check(value); msg != "" {
				findings = append(findings, &ValidationError{
					Severity: SeverityWarning,
					Index:    i + 1,
					Field:    rule.field,
					Value:    value,
					Message:  msg,
				})
			}
		}
	}

	return findings
}

// validateNumeric validates that a value is a non-negative integer made of
// digits only.
func validateNumeric(value string) string {
	if value == "" || !isDigits(value) {
		return fmt.Sprintf("Value '%s' is not a valid integer", value)
	}
	return ""
}

// validateDecimal validates that a value is digits with an optional
// fractional part, the form the EDI reader recognises.
func validateDecimal(value string) string {
	if !IsDecimal(value) {
		return fmt.Sprintf("Value '%s' is not a valid decimal number", value)
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return fmt.Sprintf("Value '%s' is not a valid decimal number", value)
	}
	return ""
}

// validateDate validates the 8-digit YYYYMMDD form. No calendar check is
// made: date filtering is a string comparison and only needs the shape.
func validateDate(value string) string {
	if len(value) != 8 || !isDigits(value) {
		return fmt.Sprintf("Value '%s' is not a YYYYMMDD date", value)
	}
	return ""
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	return s != "" && isDigits(s)
}

// IsDecimal reports whether s is digits, optionally followed by '.' and
// more digits.
func IsDecimal(s string) bool {
	whole, frac, hasDot := strings.Cut(s, ".")
	if !IsDigits(whole) {
		return false
	}
	return !hasDot || IsDigits(frac)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats findings for display or logging.
func FormatErrors(findings []*ValidationError) string {
	if len(findings) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Validation completed with %d finding(s):\n\n", len(findings))
	for i, f := range findings {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, f.Error())
	}
	return builder.String()
}
