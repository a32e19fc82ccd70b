package richtext

import (
	"github.com/gogpu/richtext/fonts"
)

// Brush is an opaque paint token. The core stores and returns brushes
// without interpreting them; renderers decide what they mean. Brush
// values must be comparable so identical styles can be coalesced.
type Brush = any

// LineHeightMode selects how a line-height value is interpreted.
type LineHeightMode uint8

const (
	// LineHeightMetrics scales the font's natural ascent+descent+gap.
	LineHeightMetrics LineHeightMode = iota
	// LineHeightAbsolute is the line box height in pixels.
	LineHeightAbsolute
	// LineHeightFontSize scales the font size.
	LineHeightFontSize
)

// String returns the string representation of the mode.
func (m LineHeightMode) String() string {
	switch m {
	case LineHeightMetrics:
		return "Metrics"
	case LineHeightAbsolute:
		return "Absolute"
	case LineHeightFontSize:
		return "FontSize"
	default:
		return "Unknown"
	}
}

// LineHeight is a line height in one of three interpretations.
type LineHeight struct {
	Mode  LineHeightMode
	Value float64
}

// WordBreak is the word breaking policy.
type WordBreak uint8

const (
	// WordBreakNormal breaks per UAX #14.
	WordBreakNormal WordBreak = iota
	// WordBreakBreakAll allows breaks between any pair of letters.
	WordBreakBreakAll
	// WordBreakKeepAll suppresses breaks between ideographs.
	WordBreakKeepAll
)

// String returns the string representation of the policy.
func (w WordBreak) String() string {
	switch w {
	case WordBreakNormal:
		return "Normal"
	case WordBreakBreakAll:
		return "BreakAll"
	case WordBreakKeepAll:
		return "KeepAll"
	default:
		return "Unknown"
	}
}

// OverflowWrap controls emergency breaking when no break opportunity fits.
type OverflowWrap uint8

const (
	// OverflowWrapNormal lets unbreakable content overflow.
	OverflowWrapNormal OverflowWrap = iota
	// OverflowWrapAnywhere allows an emergency break at any cluster.
	OverflowWrapAnywhere
	// OverflowWrapBreakWord breaks exactly like Anywhere; neither policy
	// affects CalculateContentWidths.
	OverflowWrapBreakWord
)

// String returns the string representation of the policy.
func (o OverflowWrap) String() string {
	switch o {
	case OverflowWrapNormal:
		return "Normal"
	case OverflowWrapAnywhere:
		return "Anywhere"
	case OverflowWrapBreakWord:
		return "BreakWord"
	default:
		return "Unknown"
	}
}

// TextWrap enables or disables soft wrapping.
type TextWrap uint8

const (
	// TextWrapWrap breaks lines at soft opportunities.
	TextWrapWrap TextWrap = iota
	// TextWrapNoWrap only breaks at explicit newlines.
	TextWrapNoWrap
)

// String returns the string representation of the mode.
func (t TextWrap) String() string {
	switch t {
	case TextWrapWrap:
		return "Wrap"
	case TextWrapNoWrap:
		return "NoWrap"
	default:
		return "Unknown"
	}
}

// Decoration describes an underline or strikethrough. Zero Size or Offset
// selects the font's own metric.
type Decoration struct {
	Enabled bool
	Size    float64
	Offset  float64
	Brush   Brush
}

// Style is a fully resolved style record: every property populated.
type Style struct {
	// FontStack is the ordered list of family names and generics tried
	// during font selection.
	FontStack []string

	// FontSize is the font size in pixels per em; always positive.
	FontSize float64

	FontWeight fonts.Weight
	FontWidth  fonts.Width
	FontStyle  fonts.Style

	// Variations are variable axis settings applied at shaping time.
	Variations []fonts.Variation

	// Features are OpenType feature settings applied at shaping time.
	Features []fonts.Feature

	// LetterSpacing is added to every cluster advance except the last
	// of a word; WordSpacing is added to U+0020 and U+00A0 advances.
	LetterSpacing float64
	WordSpacing   float64

	LineHeight LineHeight

	Underline     Decoration
	Strikethrough Decoration

	// Brush is the opaque paint for glyphs of this style.
	Brush Brush

	// Locale is a BCP 47 tag, or "" for unspecified.
	Locale string

	WordBreak    WordBreak
	OverflowWrap OverflowWrap
	TextWrap     TextWrap
}

// DefaultStyle returns the style every layout starts from: a sans-serif
// stack at 16px with normal weight and metrics-relative line height.
func DefaultStyle() Style {
	return Style{
		FontStack:  []string{fonts.GenericSansSerif},
		FontSize:   16,
		FontWeight: fonts.WeightNormal,
		FontWidth:  fonts.WidthNormal,
		FontStyle:  fonts.StyleNormal,
		LineHeight: LineHeight{Mode: LineHeightMetrics, Value: 1},
	}
}

// Equal reports whether two styles are identical on every property.
// Brushes are compared with ==.
func (s Style) Equal(o Style) bool {
	if s.FontSize != o.FontSize ||
		s.FontWeight != o.FontWeight ||
		s.FontWidth != o.FontWidth ||
		s.FontStyle != o.FontStyle ||
		s.LetterSpacing != o.LetterSpacing ||
		s.WordSpacing != o.WordSpacing ||
		s.LineHeight != o.LineHeight ||
		s.Underline != o.Underline ||
		s.Strikethrough != o.Strikethrough ||
		s.Brush != o.Brush ||
		s.Locale != o.Locale ||
		s.WordBreak != o.WordBreak ||
		s.OverflowWrap != o.OverflowWrap ||
		s.TextWrap != o.TextWrap {
		return false
	}
	if len(s.FontStack) != len(o.FontStack) ||
		len(s.Variations) != len(o.Variations) ||
		len(s.Features) != len(o.Features) {
		return false
	}
	for i := range s.FontStack {
		if s.FontStack[i] != o.FontStack[i] {
			return false
		}
	}
	for i := range s.Variations {
		if s.Variations[i] != o.Variations[i] {
			return false
		}
	}
	for i := range s.Features {
		if s.Features[i] != o.Features[i] {
			return false
		}
	}
	return true
}

// Property is a single style property value. Applying a property to a
// style overwrites just that property; builders apply spans in call order
// so the last writer wins per property.
type Property func(*Style)

// FontStack sets the family stack.
func FontStack(families ...string) Property {
	stack := append([]string(nil), families...)
	return func(s *Style) { s.FontStack = stack }
}

// FontSize sets the font size; non-positive values are ignored.
func FontSize(size float64) Property {
	return func(s *Style) {
		if size > 0 {
			s.FontSize = size
		}
	}
}

// FontWeight sets the weight, clamped to 1..1000.
func FontWeight(w fonts.Weight) Property {
	return func(s *Style) {
		if w < 1 {
			w = 1
		}
		if w > 1000 {
			w = 1000
		}
		s.FontWeight = w
	}
}

// FontWidth sets the width.
func FontWidth(w fonts.Width) Property {
	return func(s *Style) { s.FontWidth = w }
}

// FontStyle sets the slant style.
func FontStyle(st fonts.Style) Property {
	return func(s *Style) { s.FontStyle = st }
}

// Variations sets the variable axis settings.
func Variations(vars ...fonts.Variation) Property {
	vs := append([]fonts.Variation(nil), vars...)
	return func(s *Style) { s.Variations = vs }
}

// Features sets the OpenType feature settings.
func Features(features ...fonts.Feature) Property {
	fs := append([]fonts.Feature(nil), features...)
	return func(s *Style) { s.Features = fs }
}

// LetterSpacing sets the letter spacing.
func LetterSpacing(v float64) Property {
	return func(s *Style) { s.LetterSpacing = v }
}

// WordSpacing sets the word spacing.
func WordSpacing(v float64) Property {
	return func(s *Style) { s.WordSpacing = v }
}

// WithLineHeight sets the line height.
func WithLineHeight(lh LineHeight) Property {
	return func(s *Style) { s.LineHeight = lh }
}

// Underline sets the underline decoration.
func Underline(d Decoration) Property {
	return func(s *Style) { s.Underline = d }
}

// Strikethrough sets the strikethrough decoration.
func Strikethrough(d Decoration) Property {
	return func(s *Style) { s.Strikethrough = d }
}

// WithBrush sets the glyph brush.
func WithBrush(b Brush) Property {
	return func(s *Style) { s.Brush = b }
}

// Locale sets the BCP 47 locale tag.
func Locale(tag string) Property {
	return func(s *Style) { s.Locale = tag }
}

// WithWordBreak sets the word-break policy.
func WithWordBreak(w WordBreak) Property {
	return func(s *Style) { s.WordBreak = w }
}

// WithOverflowWrap sets the overflow-wrap policy.
func WithOverflowWrap(o OverflowWrap) Property {
	return func(s *Style) { s.OverflowWrap = o }
}

// WithTextWrap sets the text-wrap mode.
func WithTextWrap(t TextWrap) Property {
	return func(s *Style) { s.TextWrap = t }
}
