// Package unidata provides the Unicode property and segmentation data the
// layout core consumes: script lookup, line-break opportunities (UAX #14),
// word and grapheme boundaries (UAX #29), emoji presentation and bidi
// character classes.
//
// The default implementation wires the npillmayer/uax segmenters together
// with the class data from golang.org/x/text and go-text/typesetting.
package unidata

import (
	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// BreakOpportunity describes whether a line may break at a position.
type BreakOpportunity uint8

const (
	// BreakNone forbids a break.
	BreakNone BreakOpportunity = iota
	// BreakAllowed permits a soft break.
	BreakAllowed
	// BreakMandatory forces a break.
	BreakMandatory
)

// String returns the string representation of the opportunity.
func (b BreakOpportunity) String() string {
	switch b {
	case BreakNone:
		return "None"
	case BreakAllowed:
		return "Allowed"
	case BreakMandatory:
		return "Mandatory"
	default:
		return "Unknown"
	}
}

// Source supplies Unicode data to the layout core.
//
// Implementations must be safe for concurrent use; all lookups are
// idempotent.
type Source interface {
	// Script returns the Unicode script of the rune.
	Script(r rune) language.Script

	// LineBreaks returns break opportunities aligned to byte positions:
	// the slice has len(text)+1 entries and entry i is the opportunity
	// of breaking between text[:i] and text[i:]. Entries 0 and
	// len(text) are always BreakNone and BreakMandatory respectively.
	LineBreaks(text string) []BreakOpportunity

	// WordBoundaries returns the sorted byte offsets of UAX #29 word
	// boundaries, always including 0 and len(text).
	WordBoundaries(text string) []int

	// GraphemeBoundaries returns the sorted byte offsets of grapheme
	// cluster boundaries, always including 0 and len(text).
	GraphemeBoundaries(text string) []int

	// IsEmojiPresentation reports whether the rune defaults to emoji
	// presentation.
	IsEmojiPresentation(r rune) bool

	// BidiClass returns the UAX #9 character class of the rune.
	BidiClass(r rune) bidi.Class
}

// BidiClassOf returns the bidi class of r from the x/text tables.
// It is the lookup the default Source delegates to.
func BidiClassOf(r rune) bidi.Class {
	props, _ := bidi.LookupRune(r)
	return props.Class()
}
