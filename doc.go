// Package richtext lays out styled Unicode text into positioned glyph
// clusters ready for rendering, hit-testing, selection and editing.
//
// The pipeline resolves overlapping style spans into disjoint style runs,
// analyzes bidirectional text (UAX #9), itemizes the text into runs uniform
// in script, direction and style, shapes each run through a Shaper, breaks
// the shaped text into lines with configurable wrapping policy, reorders
// each line for display, aligns it, and exposes cursors and selection
// geometry over the result.
//
// Font access, shaping and Unicode data are capabilities supplied through
// the fonts, shaper and unidata packages; the defaults wire
// go-text/typesetting's HarfBuzz port and the npillmayer/uax segmenters.
//
// A minimal use looks like:
//
//	ctx := richtext.NewContext(richtext.WithProvider(library))
//	b := ctx.NewBuilder("Hello, world!", richtext.DefaultStyle(), 1.0)
//	_ = b.Push(7, 12, richtext.FontSize(24))
//	layout, _ := b.Build()
//	layout.BreakLines(200, false)
//	_ = layout.Align(richtext.AlignStart, richtext.AlignmentOptions{})
//	for line := range layout.Lines() {
//		_ = line
//	}
package richtext
