package richtext

// Alignment positions line content within the alignment width.
type Alignment uint8

const (
	// AlignStart aligns to the start edge of the base direction.
	AlignStart Alignment = iota
	// AlignEnd aligns to the end edge of the base direction.
	AlignEnd
	// AlignLeft aligns to the left edge.
	AlignLeft
	// AlignRight aligns to the right edge.
	AlignRight
	// AlignCenter centers the content.
	AlignCenter
	// AlignJustify stretches spaces to fill the width.
	AlignJustify
)

// String returns the string representation of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignStart:
		return "Start"
	case AlignEnd:
		return "End"
	case AlignLeft:
		return "Left"
	case AlignRight:
		return "Right"
	case AlignCenter:
		return "Center"
	case AlignJustify:
		return "Justify"
	default:
		return "Unknown"
	}
}

// AlignmentOptions tune alignment behavior.
type AlignmentOptions struct {
	// Width is the alignment width. Zero uses the break width when one
	// was set, else the layout's own content width.
	Width float64

	// AlignWhenOverflowing applies end/center alignment even when the
	// content is wider than the width; when false, overflowing lines
	// fall back to start alignment.
	AlignWhenOverflowing bool
}

// Align positions every line according to the alignment. Align may be
// called repeatedly with different values; each call first undoes any
// previous justification, so aligning is idempotent.
//
// Calling Align before BreakLines returns ErrNotBroken and leaves the
// layout unchanged.
func (l *Layout) Align(alignment Alignment, opts AlignmentOptions) error {
	if len(l.lines) == 0 {
		return ErrNotBroken
	}

	l.unjustify()

	width := opts.Width
	if width <= 0 {
		if l.hasMaxAdvance {
			width = l.maxAdvance
		} else {
			width = l.width
		}
	}
	l.alignment = alignment
	l.alignOpts = opts
	l.alignWidth = width

	isRTL := l.baseLevel.IsRTL()

	for i := range l.lines {
		line := &l.lines[i]
		m := &line.metrics

		m.Offset = 0
		if isRTL {
			// RTL trailing whitespace sits visually on the left; hang
			// it by shifting the line left.
			m.Offset = -m.TrailingWhitespace
		}

		freeSpace := width - m.Advance
		if freeSpace <= 0 && !opts.AlignWhenOverflowing {
			if isRTL {
				m.Offset += freeSpace
			}
			continue
		}

		switch alignment {
		case AlignLeft:
		case AlignStart:
			if isRTL {
				m.Offset += freeSpace
			}
		case AlignEnd:
			if !isRTL {
				m.Offset += freeSpace
			}
		case AlignRight:
			m.Offset += freeSpace
		case AlignCenter:
			m.Offset += freeSpace / 2
		case AlignJustify:
			if freeSpace <= 0 {
				continue
			}
			last := line.breakReason == BreakReasonEndOfText ||
				line.breakReason == BreakReasonExplicit
			if last || line.numSpaces == 0 {
				if isRTL {
					m.Offset += freeSpace
				}
				continue
			}
			l.justifyLine(line, freeSpace/float64(line.numSpaces))
			l.justified = true
		}
	}
	return nil
}

// justifyLine stretches the line's non-trailing space clusters by
// adjust each. Cluster advances and their last glyph advances change;
// unjustify reverses the exact same distribution.
func (l *Layout) justifyLine(line *lineData, adjust float64) {
	applied := 0
	for ii := line.itemStart; ii < line.itemEnd; ii++ {
		li := &l.lineItems[ii]
		if li.kind != itemKindRun {
			continue
		}
		for ci := li.clusterStart; ci < li.clusterEnd; ci++ {
			if applied == line.numSpaces {
				return
			}
			c := &l.clusters[ci]
			if !c.isSpace() {
				continue
			}
			c.advance += adjust
			li.advance += adjust
			if c.glyphEnd > c.glyphStart {
				l.glyphs[c.glyphEnd-1].Advance += adjust
			}
			applied++
		}
	}
}

// unjustify removes a previous justification so cluster advances return
// to their shaped values before re-breaking or re-aligning.
func (l *Layout) unjustify() {
	if !l.justified {
		return
	}
	width := l.alignWidth
	for i := range l.lines {
		line := &l.lines[i]
		if line.breakReason == BreakReasonEndOfText ||
			line.breakReason == BreakReasonExplicit ||
			line.numSpaces == 0 {
			continue
		}
		freeSpace := width - line.metrics.Advance
		if freeSpace <= 0 {
			continue
		}
		l.justifyLine(line, -freeSpace/float64(line.numSpaces))
	}
	l.justified = false
}
