package richtext

// Selection is a pair of cursors over one layout. Anchor is where the
// selection started; Focus is the moving end.
type Selection struct {
	Anchor Cursor
	Focus  Cursor
}

// IsCollapsed reports whether the selection covers no text. Affinity is
// ignored.
func (s Selection) IsCollapsed() bool {
	return s.Anchor.ByteOffset == s.Focus.ByteOffset
}

// Range returns the selection's byte range in ascending order.
func (s Selection) Range() (start, end int) {
	if s.Anchor.ByteOffset <= s.Focus.ByteOffset {
		return s.Anchor.ByteOffset, s.Focus.ByteOffset
	}
	return s.Focus.ByteOffset, s.Anchor.ByteOffset
}

// ExtendTo moves the focus, keeping the anchor.
func (s Selection) ExtendTo(c Cursor) Selection {
	return Selection{Anchor: s.Anchor, Focus: c}
}

// SelectionRect is one rectangle of a selection's geometry.
type SelectionRect struct {
	Rect Rect

	// Line is the index of the line the rectangle lies on.
	Line int

	// IsWrapTrailing is set when the rectangle's trailing edge ends at a
	// soft line wrap with the selection continuing on the next line;
	// renderers typically extend the highlight to show the break.
	IsWrapTrailing bool
}

// SelectionGeometry returns one rectangle per covered line segment
// between the two cursors. Covered clusters that touch visually merge
// into a single rectangle, whatever their direction; where a logical range
// is visually discontiguous, as across a direction change, each visual
// segment gets its own rectangle.
func (l *Layout) SelectionGeometry(from, to Cursor) []SelectionRect {
	sel := Selection{Anchor: from, Focus: to}
	start, end := sel.Range()
	if start == end || len(l.lines) == 0 {
		return nil
	}

	var rects []SelectionRect
	for lineIdx := range l.lines {
		line := &l.lines[lineIdx]
		if line.textEnd <= start || line.textStart >= end {
			continue
		}
		m := line.metrics
		clusters := l.visualClusters(lineIdx)

		wraps := end > line.textEnd &&
			(line.breakReason == BreakReasonSoft || line.breakReason == BreakReasonEmergency)

		var cur *SelectionRect
		for _, vc := range clusters {
			c := &l.clusters[vc.cluster]
			covered := c.textStart < end && c.textEnd > start
			if !covered || c.advance == 0 && c.isNewline() {
				cur = nil
				continue
			}
			if cur != nil && cur.Rect.MaxX == vc.x {
				cur.Rect.MaxX = vc.x + vc.width
				continue
			}
			rects = append(rects, SelectionRect{
				Rect: Rect{MinX: vc.x, MinY: m.MinCoord, MaxX: vc.x + vc.width, MaxY: m.MaxCoord},
				Line: lineIdx,
			})
			cur = &rects[len(rects)-1]
		}

		if wraps && len(rects) > 0 {
			// Mark the segment at the line's visual trailing edge.
			last := &rects[len(rects)-1]
			if last.Line == lineIdx {
				last.IsWrapTrailing = true
			}
		}

		// A selection running through an explicit newline still covers
		// the break; give it a sliver at the trailing edge so the
		// selection is visible on empty segments.
		if end > line.textEnd && line.breakReason == BreakReasonExplicit {
			edge := m.Offset + m.Advance + m.TrailingWhitespace
			rects = append(rects, SelectionRect{
				Rect: Rect{MinX: edge, MinY: m.MinCoord, MaxX: edge + m.Ascent/2, MaxY: m.MaxCoord},
				Line: lineIdx,
			})
		}
	}
	return rects
}
