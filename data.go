package richtext

import (
	"github.com/go-text/typesetting/language"

	"github.com/gogpu/richtext/bidi"
	"github.com/gogpu/richtext/fonts"
)

// The layout stores runs, clusters, glyphs and lines in parallel slices
// and cross-references them by index only. Nothing holds a pointer back
// into the layout, so the whole structure can be copied or serialized
// trivially and line breaking can rewrite the line slices without
// touching shaped data.

// itemKind distinguishes text runs from inline boxes in the item list.
type itemKind uint8

const (
	itemKindRun itemKind = iota
	itemKindBox
)

// layoutItem is one entry of the logical item list produced by shaping.
type layoutItem struct {
	kind  itemKind
	index int
	level bidi.Level
}

// runData is one shaped run: contiguous clusters sharing font, size,
// script, bidi level and locale.
type runData struct {
	face   *fonts.Face
	size   float64
	script language.Script
	locale string
	level  bidi.Level

	styleIndex int

	textStart, textEnd       int
	clusterStart, clusterEnd int

	// Natural font metrics scaled to size, plus the style-resolved
	// line height for this run.
	ascent, descent, leading float64
	lineHeight               float64

	underlineOffset, underlineSize         float64
	strikethroughOffset, strikethroughSize float64

	advance float64
	missing bool
}

// clusterFlags records per-cluster properties set during shaping.
type clusterFlags uint16

const (
	clusterWhitespace clusterFlags = 1 << iota
	clusterNewline
	clusterEmoji
	clusterMissing
	clusterBreakAllowed // a line may break before this cluster
	clusterSpace        // U+0020 or U+00A0, for word spacing and justify
	clusterLigStart
	clusterLigCont
)

// clusterData is the smallest addressable text unit.
type clusterData struct {
	textStart, textEnd   int
	glyphStart, glyphEnd int
	advance              float64
	styleIndex           int
	runIndex             int
	flags                clusterFlags
}

func (c *clusterData) isWhitespace() bool { return c.flags&clusterWhitespace != 0 }
func (c *clusterData) isNewline() bool    { return c.flags&clusterNewline != 0 }
func (c *clusterData) isSpace() bool      { return c.flags&clusterSpace != 0 }

// Glyph is one positioned glyph. X and Y are offsets from the pen
// position on the baseline, Y increasing downward; Advance moves the pen.
type Glyph struct {
	ID      uint32
	X, Y    float64
	Advance float64
}

// BreakReason records why a line ended.
type BreakReason uint8

const (
	// BreakReasonNone marks a line that has not been committed.
	BreakReasonNone BreakReason = iota
	// BreakReasonExplicit is a mandatory break (newline).
	BreakReasonExplicit
	// BreakReasonSoft is a wrap at a break opportunity.
	BreakReasonSoft
	// BreakReasonEmergency is a wrap with no break opportunity in reach.
	BreakReasonEmergency
	// BreakReasonEndOfText ends the final line.
	BreakReasonEndOfText
)

// String returns the string representation of the reason.
func (b BreakReason) String() string {
	switch b {
	case BreakReasonNone:
		return "None"
	case BreakReasonExplicit:
		return "Explicit"
	case BreakReasonSoft:
		return "Soft"
	case BreakReasonEmergency:
		return "Emergency"
	case BreakReasonEndOfText:
		return "EndOfText"
	default:
		return "Unknown"
	}
}

// LineMetrics describes the geometry of one line.
type LineMetrics struct {
	// Ascent, Descent and Leading are the resolved line box metrics.
	Ascent, Descent, Leading float64

	// LineHeight is ascent + descent + leading after quantization.
	LineHeight float64

	// Baseline is the absolute Y of the baseline: line top + ascent.
	Baseline float64

	// Advance is the content width excluding trailing whitespace.
	Advance float64

	// TrailingWhitespace is the hung whitespace advance past the content.
	TrailingWhitespace float64

	// Offset is the alignment shift applied to the line's left edge.
	Offset float64

	// MinCoord and MaxCoord bound the line vertically.
	MinCoord, MaxCoord float64
}

// lineItemData is a run fragment or box placed on a committed line.
// Within a line, items are stored in visual order after reordering.
type lineItemData struct {
	kind  itemKind
	index int
	level bidi.Level

	advance                  float64
	clusterStart, clusterEnd int
	textStart, textEnd       int

	isWhitespace          bool
	hasTrailingWhitespace bool
}

// lineData is one committed line.
type lineData struct {
	textStart, textEnd int
	itemStart, itemEnd int
	metrics            LineMetrics
	breakReason        BreakReason
	maxAdvance         float64
	numSpaces          int
}
