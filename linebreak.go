package richtext

import (
	"math"

	"github.com/gogpu/richtext/bidi"
)

// Greedy line breaking. The breaker walks the logical item list cluster
// by cluster, remembering the most recent soft and emergency break
// opportunities, and commits a line whenever the accumulated advance
// passes the limit or a mandatory break cluster arrives. Committed lines
// are reordered per UAX #9 L2 and measured; trailing whitespace is hung
// outside the content advance.

// NoMaxAdvance disables soft wrapping when passed to BreakLines.
const NoMaxAdvance = math.MaxFloat64

// BreakLines replaces the layout's lines, breaking at the given maximum
// advance. maxAdvance <= 0 or NoMaxAdvance disables soft wrapping, so
// only explicit breaks commit. quantize rounds each line's ascent and
// descent to integer pixels.
//
// Calling BreakLines again discards the previous lines entirely;
// alignment applied before has no effect on the new result.
func (l *Layout) BreakLines(maxAdvance float64, quantize bool) {
	l.unjustify()

	l.lines = l.lines[:0]
	l.lineItems = l.lineItems[:0]
	l.width, l.fullWidth, l.height = 0, 0, 0
	l.quantize = quantize
	l.alignment = AlignStart
	l.alignOpts = AlignmentOptions{}
	l.justified = false

	l.hasMaxAdvance = maxAdvance > 0 && maxAdvance != NoMaxAdvance
	l.maxAdvance = maxAdvance
	limit := maxAdvance
	if !l.hasMaxAdvance {
		limit = math.MaxFloat64
	}

	bk := breaker{layout: l, limit: limit}
	for bk.breakNext() {
	}
	bk.finish()
}

// lineState is the accumulating line of the breaker.
type lineState struct {
	x                        float64
	itemStart, itemEnd       int
	clusterStart, clusterEnd int
	numSpaces                int
}

// boundary snapshots the breaker at a break opportunity so it can revert.
type boundary struct {
	itemIdx    int
	clusterIdx int
	line       lineState
}

type breaker struct {
	layout *Layout
	limit  float64

	itemIdx    int
	clusterIdx int
	line       lineState

	prevBoundary      *boundary
	emergencyBoundary *boundary

	committedY float64
	done       bool
}

// breakNext commits the next line. It returns false when the text is
// exhausted.
func (bk *breaker) breakNext() bool {
	if bk.done {
		return false
	}
	l := bk.layout

	for bk.itemIdx < len(l.items) {
		item := &l.items[bk.itemIdx]
		switch item.kind {
		case itemKindBox:
			box := &l.inlineBoxes[item.index]
			width := box.Width * l.scale
			nextX := bk.line.x + width

			if nextX <= bk.limit {
				bk.itemIdx++
				bk.line.itemEnd = bk.itemIdx
				bk.line.x = nextX
				bk.markBoundary()
				continue
			}
			if bk.line.x == 0 {
				// The box can never fit; accept the overflow.
				bk.line.itemEnd = bk.itemIdx + 1
				bk.line.x = nextX
				if bk.commitLine(BreakReasonEmergency) {
					bk.itemIdx++
					bk.startNewLine()
					return true
				}
				bk.itemIdx++
				continue
			}
			if bk.commitLine(BreakReasonSoft) {
				bk.startNewLine()
				return true
			}
			bk.itemIdx++

		case itemKindRun:
			run := &l.runs[item.index]
			if bk.clusterIdx < run.clusterStart {
				bk.clusterIdx = run.clusterStart
			}

			for bk.clusterIdx < run.clusterEnd {
				c := &l.clusters[bk.clusterIdx]
				style := &l.styles[c.styleIndex]

				if c.isNewline() {
					bk.appendCluster(c)
					bk.clusterIdx++
					if bk.commitLine(BreakReasonExplicit) {
						bk.startNewLine()
						return true
					}
					continue
				}

				if c.flags&clusterBreakAllowed != 0 &&
					style.TextWrap != TextWrapNoWrap &&
					bk.line.x != 0 {
					bk.markBoundary()
				} else if style.OverflowWrap != OverflowWrapNormal &&
					style.TextWrap != TextWrapNoWrap &&
					c.flags&clusterLigCont == 0 &&
					bk.line.x != 0 {
					bk.markEmergency()
				}

				// Whitespace hangs: it never triggers the limit because
				// it only counts toward content width once something
				// follows it on the line.
				if c.isWhitespace() {
					bk.appendCluster(c)
					bk.clusterIdx++
					continue
				}

				nextX := bk.line.x + c.advance
				if nextX <= bk.limit {
					bk.appendCluster(c)
					bk.clusterIdx++
					continue
				}

				if prev := bk.prevBoundary; prev != nil {
					bk.prevBoundary = nil
					bk.line = prev.line
					if bk.commitLine(BreakReasonSoft) {
						bk.itemIdx = prev.itemIdx
						bk.clusterIdx = prev.clusterIdx
						bk.startNewLine()
						return true
					}
					continue
				}
				if prev := bk.emergencyBoundary; prev != nil {
					bk.emergencyBoundary = nil
					bk.line = prev.line
					if bk.commitLine(BreakReasonEmergency) {
						bk.itemIdx = prev.itemIdx
						bk.clusterIdx = prev.clusterIdx
						bk.startNewLine()
						return true
					}
					continue
				}

				// No opportunity on this line: overflow.
				bk.appendCluster(c)
				bk.clusterIdx++
			}
			bk.itemIdx++
		}
	}

	// Final line, possibly empty.
	if bk.line.itemEnd == 0 && len(l.items) > 0 {
		bk.line.itemEnd = bk.line.itemStart + 1
	}
	if bk.commitLine(BreakReasonEndOfText) {
		bk.startNewLine()
	}
	bk.done = true
	return false
}

func (bk *breaker) appendCluster(c *clusterData) {
	bk.line.itemEnd = bk.itemIdx + 1
	bk.line.clusterEnd = bk.clusterIdx + 1
	bk.line.x += c.advance
	if c.isSpace() {
		bk.line.numSpaces++
	}
}

func (bk *breaker) markBoundary() {
	bk.prevBoundary = &boundary{
		itemIdx:    bk.itemIdx,
		clusterIdx: bk.clusterIdx,
		line:       bk.line,
	}
}

func (bk *breaker) markEmergency() {
	bk.emergencyBoundary = &boundary{
		itemIdx:    bk.itemIdx,
		clusterIdx: bk.clusterIdx,
		line:       bk.line,
	}
}

func (bk *breaker) startNewLine() {
	bk.prevBoundary = nil
	bk.emergencyBoundary = nil
	last := len(bk.layout.lines) - 1
	bk.finishLine(last)
}

// commitLine writes the accumulated line to the layout. It returns false
// when the range contains nothing to commit.
func (bk *breaker) commitLine(reason BreakReason) bool {
	l := bk.layout

	state := &bk.line
	state.clusterEnd = min(state.clusterEnd, len(l.clusters))
	state.itemEnd = min(state.itemEnd, len(l.items))

	itemStart := len(l.lineItems)
	committedRun := false

	items := l.items[state.itemStart:state.itemEnd]
	firstRun, lastRun := -1, -1
	for i, item := range items {
		if item.kind == itemKindRun {
			if firstRun < 0 {
				firstRun = i
			}
			lastRun = i
		}
	}

	for i, item := range items {
		switch item.kind {
		case itemKindBox:
			box := &l.inlineBoxes[item.index]
			l.lineItems = append(l.lineItems, lineItemData{
				kind:    itemKindBox,
				index:   item.index,
				level:   item.level,
				advance: box.Width * l.scale,
			})
		case itemKindRun:
			run := &l.runs[item.index]
			clusterStart, clusterEnd := run.clusterStart, run.clusterEnd
			if i == firstRun {
				clusterStart = max(clusterStart, state.clusterStart)
			}
			if i == lastRun {
				clusterEnd = min(clusterEnd, state.clusterEnd)
			}
			if clusterStart >= clusterEnd {
				continue
			}
			committedRun = true
			l.lineItems = append(l.lineItems, lineItemData{
				kind:         itemKindRun,
				index:        item.index,
				level:        run.level,
				clusterStart: clusterStart,
				clusterEnd:   clusterEnd,
				textStart:    l.clusters[clusterStart].textStart,
				textEnd:      l.clusters[clusterEnd-1].textEnd,
			})
		}
	}
	itemEnd := len(l.lineItems)

	if itemStart == itemEnd && reason != BreakReasonEndOfText && reason != BreakReasonExplicit {
		return false
	}

	l.lines = append(l.lines, lineData{
		itemStart:   itemStart,
		itemEnd:     itemEnd,
		breakReason: reason,
		maxAdvance:  bk.limit,
		numSpaces:   state.numSpaces,
	})

	// Reset accumulation for the next line.
	state.numSpaces = 0
	if committedRun {
		state.clusterStart = state.clusterEnd
	}
	if len(items) > 0 && items[len(items)-1].kind == itemKindBox {
		state.itemStart = state.itemEnd
	} else {
		// A run may continue onto the next line with its remaining
		// clusters, so the next line starts on the same item.
		state.itemStart = max(state.itemEnd-1, 0)
	}
	state.itemEnd = state.itemStart
	state.x = 0
	return true
}

// finishLine measures and reorders one committed line.
func (bk *breaker) finishLine(lineIdx int) {
	l := bk.layout
	line := &l.lines[lineIdx]

	// Per-item advances, whitespace properties and text ranges.
	line.textStart, line.textEnd = len(l.text), 0
	for ii := line.itemStart; ii < line.itemEnd; ii++ {
		li := &l.lineItems[ii]
		if li.kind != itemKindRun {
			continue
		}
		li.advance = 0
		li.isWhitespace = true
		for ci := li.clusterStart; ci < li.clusterEnd; ci++ {
			c := &l.clusters[ci]
			li.advance += c.advance
			if !c.isWhitespace() {
				li.isWhitespace = false
			}
		}
		if li.clusterEnd > li.clusterStart {
			li.hasTrailingWhitespace = l.clusters[li.clusterEnd-1].isWhitespace()
		}
		line.textStart = min(line.textStart, li.textStart)
		line.textEnd = max(line.textEnd, li.textEnd)
	}
	if line.textStart > line.textEnd {
		line.textStart, line.textEnd = len(l.text), len(l.text)
	}

	// Trailing whitespace (logical end of the line) hangs outside the
	// content advance; spaces hung there do not justify.
	total := 0.0
	trailing := 0.0
	numSpaces := 0
	for ii := line.itemStart; ii < line.itemEnd; ii++ {
		li := &l.lineItems[ii]
		total += li.advance
		if li.kind == itemKindRun {
			for ci := li.clusterStart; ci < li.clusterEnd; ci++ {
				if l.clusters[ci].isSpace() {
					numSpaces++
				}
			}
		}
	}
	for ii := line.itemEnd - 1; ii >= line.itemStart; ii-- {
		li := &l.lineItems[ii]
		if li.kind != itemKindRun {
			break
		}
		stop := false
		for ci := li.clusterEnd - 1; ci >= li.clusterStart; ci-- {
			c := &l.clusters[ci]
			if !c.isWhitespace() {
				stop = true
				break
			}
			trailing += c.advance
			if c.isSpace() {
				numSpaces--
			}
		}
		if stop || !li.isWhitespace {
			break
		}
	}
	line.numSpaces = numSpaces

	// Vertical metrics ignore items that are pure trailing whitespace.
	var ascent, descent, lineHeight float64
	haveMetrics := false
	for ii := line.itemEnd - 1; ii >= line.itemStart; ii-- {
		li := &l.lineItems[ii]
		switch li.kind {
		case itemKindBox:
			box := &l.inlineBoxes[li.index]
			drop := box.Height
			if box.Baseline > 0 {
				drop = box.Baseline
			}
			ascent = max(ascent, drop*l.scale)
			descent = max(descent, (box.Height-drop)*l.scale)
			lineHeight = max(lineHeight, box.Height*l.scale)
			haveMetrics = true
		case itemKindRun:
			if !haveMetrics && li.isWhitespace && li.clusterEnd > li.clusterStart &&
				!l.clusters[li.clusterStart].isNewline() {
				continue
			}
			run := &l.runs[li.index]
			ascent = max(ascent, run.ascent)
			descent = max(descent, run.descent)
			lineHeight = max(lineHeight, run.lineHeight)
			haveMetrics = true
		}
	}
	if !haveMetrics && line.itemEnd > line.itemStart {
		li := &l.lineItems[line.itemStart]
		if li.kind == itemKindRun {
			run := &l.runs[li.index]
			ascent, descent, lineHeight = run.ascent, run.descent, run.lineHeight
		}
	}
	if !haveMetrics && line.itemEnd == line.itemStart && lineIdx > 0 {
		// Empty final line after a trailing newline: keep the height of
		// the previous line.
		prev := &l.lines[lineIdx-1].metrics
		ascent, descent, lineHeight = prev.Ascent, prev.Descent, prev.LineHeight
	}

	// Bidi reorder (L2) when the line mixes levels.
	bk.reorderLine(line)

	if l.quantize {
		ascent = math.Round(ascent)
		descent = math.Round(descent)
		lineHeight = math.Round(lineHeight)
	}
	boxHeight := max(lineHeight, ascent+descent)

	m := &line.metrics
	m.Ascent = ascent
	m.Descent = descent
	m.LineHeight = boxHeight
	m.Leading = boxHeight - ascent - descent
	m.Advance = total - trailing
	m.TrailingWhitespace = trailing
	m.Offset = 0

	top := bk.committedY
	if l.quantize {
		top = math.Round(top)
	}
	m.Baseline = top + ascent
	m.MinCoord = top
	m.MaxCoord = top + boxHeight

	bk.committedY += boxHeight
}

// reorderLine rewrites the line's items into visual order.
func (bk *breaker) reorderLine(line *lineData) {
	l := bk.layout
	itemCount := line.itemEnd - line.itemStart
	if itemCount < 2 {
		return
	}
	mixed := false
	for ii := line.itemStart; ii < line.itemEnd; ii++ {
		if l.lineItems[ii].level != 0 {
			mixed = true
			break
		}
	}
	if !mixed {
		return
	}

	levels := make([]bidi.Level, itemCount)
	for i := range levels {
		levels[i] = l.lineItems[line.itemStart+i].level
	}
	order := bidi.VisualOrder(levels)

	reordered := make([]lineItemData, itemCount)
	for visual, logical := range order {
		reordered[visual] = l.lineItems[line.itemStart+logical]
	}
	copy(l.lineItems[line.itemStart:line.itemEnd], reordered)
}

// finish computes the layout-wide aggregates.
func (bk *breaker) finish() {
	l := bk.layout
	for i := range l.lines {
		m := &l.lines[i].metrics
		l.width = max(l.width, m.Advance)
		l.fullWidth = max(l.fullWidth, m.Advance+m.TrailingWhitespace)
	}
	bkHeight := 0.0
	if n := len(l.lines); n > 0 {
		bkHeight = l.lines[n-1].metrics.MaxCoord
	}
	l.height = bkHeight
}
