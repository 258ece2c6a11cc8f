// =============================================================================
// EDI Order Converter - EDI Envelope Options
// =============================================================================
//
// Every interchange the writer emits is wrapped in ISA/GS/ST headers and
// SE/GE/IEA trailers. Apart from the four order fields, all of their values
// come from an Envelope. DefaultEnvelope reproduces the legacy fixture
// output byte for byte:
//
//   ISA*00*          *00*          *ZZ*AMAZON         *12*9622309900     *      *    *U*00401*000000001*0*T*>
//   GS*PO*AMAZON*9622309900*20240424*1056**X*004010
//   ST*850*0001
//   ...
//   SE*12*0001
//   GE*1*1
//   IEA*1*000000001
//
// CONTROL NUMBERS:
//   The legacy output repeats control number 1 in every interchange. Use
//   Sequence to give each interchange its own number instead.
//
// =============================================================================

package edicodec

import (
	"fmt"
	"strings"
)

// =============================================================================
// CONTROL NUMBERS
// =============================================================================

// ControlNumbers hands out the control number for each interchange.
type ControlNumbers interface {
	Next() int
}

type fixedControl int

func (f fixedControl) Next() int { return int(f) }

// Fixed returns a generator that always yields n.
func Fixed(n int) ControlNumbers {
	return fixedControl(n)
}

type sequenceControl struct {
	next int
}

func (s *sequenceControl) Next() int {
	n := s.next
	s.next++
	return n
}

// Sequence returns a generator that yields start, start+1, ...
func Sequence(start int) ControlNumbers {
	return &sequenceControl{next: start}
}

// =============================================================================
// ENVELOPE
// =============================================================================

// Envelope holds the non-order values of a written interchange.
type Envelope struct {
	// AuthorizationQualifier / SecurityQualifier are ISA01 and ISA03.
	AuthorizationQualifier string
	SecurityQualifier      string

	// SenderQualifier and SenderID are ISA05/ISA06. The ID is padded to 15
	// characters in ISA and used unpadded in GS02.
	SenderQualifier string
	SenderID        string

	// ReceiverQualifier and ReceiverID are ISA07/ISA08 and GS03.
	ReceiverQualifier string
	ReceiverID        string

	// InterchangeDate / InterchangeTime are ISA09/ISA10, padded to 6 and 4.
	// The legacy output leaves them blank.
	InterchangeDate string
	InterchangeTime string

	// StandardsID and Version are ISA11/ISA12.
	StandardsID string
	Version     string

	// UsageIndicator is ISA15 ("T" test, "P" production).
	UsageIndicator string

	// ComponentSeparator is ISA16.
	ComponentSeparator string

	// FunctionalID, GroupDate, GroupTime and GroupVersion fill GS.
	FunctionalID string
	GroupDate    string
	GroupTime    string
	GroupVersion string

	// TransactionSet is ST01.
	TransactionSet string

	// ReleaseNumber is BEG04.
	ReleaseNumber string

	// DateQualifier is DTM01.
	DateQualifier string

	// SegmentCount is SE01. The legacy output hardcodes 12.
	SegmentCount int

	// ControlNumbers supplies ISA13/IEA02, ST02/SE02 and GE02.
	ControlNumbers ControlNumbers
}

// DefaultEnvelope returns the envelope of the legacy fixture output.
func DefaultEnvelope() Envelope {
	return Envelope{
		AuthorizationQualifier: "00",
		SecurityQualifier:      "00",
		SenderQualifier:        "ZZ",
		SenderID:               "AMAZON",
		ReceiverQualifier:      "12",
		ReceiverID:             "9622309900",
		InterchangeDate:        "",
		InterchangeTime:        "",
		StandardsID:            "U",
		Version:                "00401",
		UsageIndicator:         "T",
		ComponentSeparator:     ">",
		FunctionalID:           "PO",
		GroupDate:              "20240424",
		GroupTime:              "1056",
		GroupVersion:           "004010",
		TransactionSet:         "850",
		ReleaseNumber:          "4783291",
		DateQualifier:          "064",
		SegmentCount:           12,
		ControlNumbers:         Fixed(1),
	}
}

// header renders the ISA, GS and ST segments for one interchange.
func (e Envelope) header(control int) []string {
	return []string{
		join("ISA",
			e.AuthorizationQualifier, pad("", 10),
			e.SecurityQualifier, pad("", 10),
			e.SenderQualifier, pad(e.SenderID, 15),
			e.ReceiverQualifier, pad(e.ReceiverID, 15),
			pad(e.InterchangeDate, 6), pad(e.InterchangeTime, 4),
			e.StandardsID, e.Version,
			fmt.Sprintf("%09d", control),
			"0", e.UsageIndicator, e.ComponentSeparator,
		),
		join("GS",
			e.FunctionalID, e.SenderID, e.ReceiverID,
			e.GroupDate, e.GroupTime,
			"", "X", e.GroupVersion,
		),
		join("ST", e.TransactionSet, fmt.Sprintf("%04d", control)),
	}
}

// trailer renders the SE, GE and IEA segments for one interchange.
func (e Envelope) trailer(control int) []string {
	return []string{
		join("SE", fmt.Sprintf("%d", e.SegmentCount), fmt.Sprintf("%04d", control)),
		join("GE", "1", fmt.Sprintf("%d", control)),
		join("IEA", "1", fmt.Sprintf("%09d", control)),
	}
}

// join builds a segment from its tag and elements.
func join(tag string, elements ...string) string {
	return tag + ElementSeparator + strings.Join(elements, ElementSeparator)
}

// pad right-pads s with spaces to width characters.
func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
