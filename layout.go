package richtext

import (
	"iter"

	"github.com/gogpu/richtext/bidi"
	"github.com/gogpu/richtext/fonts"
	"github.com/gogpu/richtext/unidata"
)

// Layout is the laid-out form of one styled text: runs, clusters and
// glyphs produced by shaping plus the lines produced by BreakLines.
// A Layout is logically immutable to readers; BreakLines and Align
// replace the line data but never replace runs, clusters or glyphs.
// Justification adds to the advances of space clusters and their glyphs
// in place; the next BreakLines or Align removes it before it starts.
type Layout struct {
	text      string
	scale     float64
	baseLevel bidi.Level

	unicode        unidata.Source
	wordBoundaries []int

	styles      []Style
	styleRuns   []StyleRun
	inlineBoxes []InlineBox

	runs     []runData
	items    []layoutItem
	clusters []clusterData
	glyphs   []Glyph

	lines     []lineData
	lineItems []lineItemData

	quantize      bool
	maxAdvance    float64
	hasMaxAdvance bool
	alignment     Alignment
	alignOpts     AlignmentOptions
	alignWidth    float64
	justified     bool

	width, fullWidth, height float64
}

// Text returns the source text.
func (l *Layout) Text() string { return l.text }

// Scale returns the display scale the layout was built with.
func (l *Layout) Scale() float64 { return l.scale }

// IsRTL reports whether the paragraph base direction is right-to-left.
func (l *Layout) IsRTL() bool { return l.baseLevel.IsRTL() }

// Styles returns the resolved style table.
func (l *Layout) Styles() []Style { return l.styles }

// StyleRuns returns the disjoint resolved style runs covering the text.
func (l *Layout) StyleRuns() []StyleRun { return l.styleRuns }

// InlineBoxes returns the inline boxes in anchor order.
func (l *Layout) InlineBoxes() []InlineBox { return l.inlineBoxes }

// Width returns the widest line's content width (trailing whitespace
// excluded). Valid after BreakLines.
func (l *Layout) Width() float64 { return l.width }

// FullWidth returns the widest line width including hung trailing
// whitespace.
func (l *Layout) FullWidth() float64 { return l.fullWidth }

// Height returns the summed height of all lines.
func (l *Layout) Height() float64 { return l.height }

// LineCount returns the number of committed lines.
func (l *Layout) LineCount() int { return len(l.lines) }

// Line returns a view of the ith line.
func (l *Layout) Line(i int) Line { return Line{layout: l, index: i} }

// Lines iterates the committed lines in top-to-bottom order.
func (l *Layout) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for i := range l.lines {
			if !yield(Line{layout: l, index: i}) {
				return
			}
		}
	}
}

// CalculateContentWidths returns the minimum content width (widest
// unbreakable cluster sequence under the word-break policy) and the
// maximum content width (widest run between mandatory breaks). Line
// state is not touched.
func (l *Layout) CalculateContentWidths() (minWidth, maxWidth float64) {
	trailingWS := func(c *clusterData) float64 {
		if c != nil && c.isWhitespace() && !c.isNewline() {
			return c.advance
		}
		return 0
	}

	runningMax := 0.0
	var prev *clusterData
	for _, item := range l.items {
		switch item.kind {
		case itemKindRun:
			run := &l.runs[item.index]
			runningMin := 0.0
			for ci := run.clusterStart; ci < run.clusterEnd; ci++ {
				c := &l.clusters[ci]
				if c.flags&clusterBreakAllowed != 0 || c.isNewline() {
					minWidth = max(minWidth, runningMin-trailingWS(prev))
					runningMin = 0
					if c.isNewline() {
						maxWidth = max(maxWidth, runningMax)
						runningMax = 0
					}
				}
				runningMin += c.advance
				prev = c
			}
			minWidth = max(minWidth, runningMin-trailingWS(prev))
			runningMax += run.advance
		case itemKindBox:
			box := &l.inlineBoxes[item.index]
			w := box.Width * l.scale
			minWidth = max(minWidth, w)
			runningMax += w
			prev = nil
		}
		maxWidth = max(maxWidth, runningMax-trailingWS(prev))
	}
	return minWidth, maxWidth
}

// Line is a read-only view of one committed line.
type Line struct {
	layout *Layout
	index  int
}

// Metrics returns the line's metrics.
func (ln Line) Metrics() LineMetrics { return ln.layout.lines[ln.index].metrics }

// BreakReason returns why the line ended.
func (ln Line) BreakReason() BreakReason { return ln.layout.lines[ln.index].breakReason }

// TextRange returns the byte range of the line's source text.
func (ln Line) TextRange() (start, end int) {
	d := &ln.layout.lines[ln.index]
	return d.textStart, d.textEnd
}

// ItemCount returns the number of items (runs and boxes) on the line.
func (ln Line) ItemCount() int {
	d := &ln.layout.lines[ln.index]
	return d.itemEnd - d.itemStart
}

// Runs iterates the line's glyph runs in visual order. Inline boxes are
// skipped; see Items for both.
func (ln Line) Runs() iter.Seq[GlyphRun] {
	return func(yield func(GlyphRun) bool) {
		for item := range ln.Items() {
			if item.Kind == LineItemRun {
				if !yield(item.Run) {
					return
				}
			}
		}
	}
}

// LineItemKind tags entries of Line.Items.
type LineItemKind uint8

const (
	// LineItemRun is a glyph run.
	LineItemRun LineItemKind = iota
	// LineItemBox is an inline box.
	LineItemBox
)

// LineItem is one positioned entry of a line: a glyph run or a box.
type LineItem struct {
	Kind LineItemKind
	Run  GlyphRun
	Box  PositionedBox
}

// PositionedBox is an inline box placed on a line. X and Y locate its
// top-left corner.
type PositionedBox struct {
	Box  InlineBox
	X, Y float64
}

// Items iterates the line's runs and boxes in visual order with their
// positions resolved.
func (ln Line) Items() iter.Seq[LineItem] {
	return func(yield func(LineItem) bool) {
		l := ln.layout
		d := &l.lines[ln.index]
		x := d.metrics.Offset
		for ii := d.itemStart; ii < d.itemEnd; ii++ {
			li := &l.lineItems[ii]
			switch li.kind {
			case itemKindRun:
				run := GlyphRun{layout: l, line: ln.index, item: ii, x: x}
				if !yield(LineItem{Kind: LineItemRun, Run: run}) {
					return
				}
			case itemKindBox:
				box := l.inlineBoxes[li.index]
				drop := box.Height
				if box.Baseline > 0 {
					drop = box.Baseline
				}
				pb := PositionedBox{
					Box: box,
					X:   x,
					Y:   d.metrics.Baseline - drop*l.scale,
				}
				if !yield(LineItem{Kind: LineItemBox, Box: pb}) {
					return
				}
			}
			x += li.advance
		}
	}
}

// GlyphRun is a view of one run fragment on a line.
type GlyphRun struct {
	layout *Layout
	line   int
	item   int
	x      float64
}

// Face returns the run's font face; nil for missing-font runs.
func (r GlyphRun) Face() *fonts.Face { return r.run().face }

// Size returns the run's font size (display scale applied).
func (r GlyphRun) Size() float64 { return r.run().size }

// Level returns the run's bidi level.
func (r GlyphRun) Level() bidi.Level { return r.layout.lineItems[r.item].level }

// Style returns the run's resolved style.
func (r GlyphRun) Style() Style { return r.layout.styles[r.run().styleIndex] }

// Brush returns the run's brush.
func (r GlyphRun) Brush() Brush { return r.Style().Brush }

// Variations returns the run's variable axis settings.
func (r GlyphRun) Variations() []fonts.Variation { return r.Style().Variations }

// IsMissing reports whether the run renders as .notdef glyphs.
func (r GlyphRun) IsMissing() bool { return r.run().missing }

// Advance returns the fragment's total advance on this line.
func (r GlyphRun) Advance() float64 { return r.layout.lineItems[r.item].advance }

// Offset returns the fragment's starting X on the line.
func (r GlyphRun) Offset() float64 { return r.x }

// TextRange returns the byte range of the fragment.
func (r GlyphRun) TextRange() (start, end int) {
	li := &r.layout.lineItems[r.item]
	return li.textStart, li.textEnd
}

// Decorations returns the run's underline and strikethrough metrics
// scaled to the run size: offsets relative to the baseline (Y-down) and
// stroke sizes. Styles decide whether they are drawn.
func (r GlyphRun) Decorations() (underlineOffset, underlineSize, strikeOffset, strikeSize float64) {
	rd := r.run()
	return rd.underlineOffset, rd.underlineSize, rd.strikethroughOffset, rd.strikethroughSize
}

// ClusterRange returns the range of the line item's clusters within the
// layout cluster store.
func (r GlyphRun) ClusterRange() (start, end int) {
	li := &r.layout.lineItems[r.item]
	return li.clusterStart, li.clusterEnd
}

func (r GlyphRun) run() *runData {
	return &r.layout.runs[r.layout.lineItems[r.item].index]
}

// Glyphs iterates the fragment's glyphs with final positions: X absolute
// from the line's left edge, Y absolute with glyph offsets added to the
// baseline. Clusters of right-to-left runs are emitted in reverse logical
// order so glyph positions always increase visually.
func (r GlyphRun) Glyphs() iter.Seq[Glyph] {
	return func(yield func(Glyph) bool) {
		l := r.layout
		li := &l.lineItems[r.item]
		baseline := l.lines[r.line].metrics.Baseline

		pen := r.x
		emit := func(ci int) bool {
			c := &l.clusters[ci]
			gx := pen
			for gi := c.glyphStart; gi < c.glyphEnd; gi++ {
				g := l.glyphs[gi]
				out := Glyph{
					ID:      g.ID,
					X:       gx + g.X,
					Y:       baseline + g.Y,
					Advance: g.Advance,
				}
				if !yield(out) {
					return false
				}
				gx += g.Advance
			}
			pen += c.advance
			return true
		}

		if li.level.IsRTL() {
			for ci := li.clusterEnd - 1; ci >= li.clusterStart; ci-- {
				if !emit(ci) {
					return
				}
			}
		} else {
			for ci := li.clusterStart; ci < li.clusterEnd; ci++ {
				if !emit(ci) {
					return
				}
			}
		}
	}
}
