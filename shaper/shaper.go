// Package shaper turns runs of same-script, same-font text into positioned
// glyphs. The layout core drives the Shaper interface; the default
// implementation is HarfBuzz shaping via go-text/typesetting.
package shaper

import (
	"github.com/go-text/typesetting/language"

	"github.com/gogpu/richtext/fonts"
)

// Input describes one itemized run to shape. Text carries the whole
// paragraph so the shaper can see context across run boundaries
// (Arabic joining, combining marks); only Text[RunStart:RunEnd] is shaped.
type Input struct {
	// Text is the full paragraph as runes.
	Text []rune

	// RunStart and RunEnd bound the run within Text.
	RunStart, RunEnd int

	// Face is the font instance to shape with.
	Face *fonts.Face

	// Size is the font size in pixels per em.
	Size float64

	// Script identifies the writing system of the run.
	Script language.Script

	// Level is the bidi embedding level; odd levels shape right-to-left.
	Level uint8

	// Language is a BCP 47 tag, or "" for unspecified.
	Language string

	// Features are OpenType feature settings for the run.
	Features []fonts.Feature

	// Variations are variable axis settings for the run.
	// Static fonts ignore them.
	Variations []fonts.Variation
}

// Glyph is one positioned glyph in shaped coordinates. Offsets follow the
// font convention: Y grows upward. The layout core flips Y once when it
// materializes glyphs.
type Glyph struct {
	// ID is the glyph id in the face, 0 for .notdef.
	ID uint32

	// XOffset and YOffset displace the glyph from the pen position.
	XOffset, YOffset float64

	// Advance moves the pen to the next glyph.
	Advance float64

	// Cluster is the rune index into Input.Text of the cluster this
	// glyph belongs to.
	Cluster int
}

// Output is the result of shaping one run. Glyphs are in logical order
// regardless of direction.
type Output struct {
	Glyphs []Glyph

	// Ascent, Descent and LineGap are the face's suggested line metrics
	// scaled to the input size. All are positive distances.
	Ascent, Descent, LineGap float64
}

// Shaper shapes itemized runs.
//
// Implementations must be safe for concurrent use.
type Shaper interface {
	Shape(Input) (Output, error)
}
