package richtext

// Affinity disambiguates a cursor sitting on a boundary that maps to two
// visual positions, such as the end of a wrapped line versus the start of
// the next, or a direction transition.
type Affinity uint8

const (
	// AffinityDownstream associates the cursor with the following text.
	AffinityDownstream Affinity = iota
	// AffinityUpstream associates the cursor with the preceding text.
	AffinityUpstream
)

// String returns the string representation of the affinity.
func (a Affinity) String() string {
	switch a {
	case AffinityDownstream:
		return "Downstream"
	case AffinityUpstream:
		return "Upstream"
	default:
		return "Unknown"
	}
}

// Cursor is a logical position in the layout's text plus the affinity
// that picks its visual interpretation. Cursors are small values tied to
// the Layout they were created from; rebuilding the layout invalidates
// them.
type Cursor struct {
	ByteOffset int
	Affinity   Affinity
}

// CursorAt returns a cursor at the given byte offset, snapped to the
// nearest cluster boundary at or before it and clamped to the text.
func (l *Layout) CursorAt(byteOffset int, affinity Affinity) Cursor {
	if byteOffset <= 0 {
		return Cursor{ByteOffset: 0, Affinity: affinity}
	}
	if byteOffset >= len(l.text) {
		return Cursor{ByteOffset: len(l.text), Affinity: affinity}
	}
	snapped := 0
	for i := range l.clusters {
		c := &l.clusters[i]
		if c.textStart <= byteOffset {
			snapped = c.textStart
			if byteOffset < c.textEnd {
				break
			}
			if byteOffset == c.textEnd {
				snapped = c.textEnd
				break
			}
		}
	}
	return Cursor{ByteOffset: snapped, Affinity: affinity}
}

// visualCluster is one cluster of a line in visual order with its
// resolved horizontal extent.
type visualCluster struct {
	cluster int
	x       float64
	width   float64
	rtl     bool
}

// visualClusters returns the line's clusters in visual order with
// positions. Inline boxes advance the pen but are not returned.
func (l *Layout) visualClusters(lineIdx int) []visualCluster {
	line := &l.lines[lineIdx]
	out := make([]visualCluster, 0, 8)
	x := line.metrics.Offset
	for ii := line.itemStart; ii < line.itemEnd; ii++ {
		li := &l.lineItems[ii]
		if li.kind == itemKindBox {
			x += li.advance
			continue
		}
		rtl := li.level.IsRTL()
		if rtl {
			for ci := li.clusterEnd - 1; ci >= li.clusterStart; ci-- {
				c := &l.clusters[ci]
				out = append(out, visualCluster{cluster: ci, x: x, width: c.advance, rtl: true})
				x += c.advance
			}
		} else {
			for ci := li.clusterStart; ci < li.clusterEnd; ci++ {
				c := &l.clusters[ci]
				out = append(out, visualCluster{cluster: ci, x: x, width: c.advance})
				x += c.advance
			}
		}
	}
	return out
}

// lineForPoint picks the line whose vertical extent contains y, clamping
// to the first and last lines.
func (l *Layout) lineForPoint(y float64) int {
	for i := range l.lines {
		if y < l.lines[i].metrics.MaxCoord {
			return i
		}
	}
	return len(l.lines) - 1
}

// lineForByte returns the index of the line containing the byte offset.
// At a boundary shared by two lines, upstream affinity picks the earlier
// line.
func (l *Layout) lineForByte(byteOffset int, affinity Affinity) int {
	last := len(l.lines) - 1
	for i := range l.lines {
		line := &l.lines[i]
		if byteOffset < line.textEnd {
			return i
		}
		if byteOffset == line.textEnd {
			if affinity == AffinityUpstream || i == last {
				return i
			}
			if l.lines[i+1].textStart == byteOffset {
				return i + 1
			}
			return i
		}
	}
	return last
}

// CursorFromPoint locates the cursor nearest the point. The line is
// chosen by y; within the line, the cluster under x decides the byte
// offset and which half of the cluster was hit decides the affinity.
func (l *Layout) CursorFromPoint(x, y float64) Cursor {
	if len(l.lines) == 0 {
		return Cursor{}
	}
	lineIdx := l.lineForPoint(y)
	clusters := l.visualClusters(lineIdx)
	if len(clusters) == 0 {
		line := &l.lines[lineIdx]
		return Cursor{ByteOffset: line.textStart, Affinity: AffinityDownstream}
	}

	first := clusters[0]
	if x < first.x {
		return l.leadingCursor(first)
	}
	for _, vc := range clusters {
		if x >= vc.x+vc.width {
			continue
		}
		if x-vc.x < vc.width/2 {
			return l.leadingCursor(vc)
		}
		return l.trailingCursor(vc)
	}
	// Past the end: trailing edge of the last visual cluster, skipping a
	// trailing newline so the caret stays on this line.
	lastVC := clusters[len(clusters)-1]
	if l.clusters[lastVC.cluster].isNewline() && len(clusters) > 1 {
		lastVC = clusters[len(clusters)-2]
	}
	return l.trailingCursor(lastVC)
}

// leadingCursor is the cursor at the visual left edge of the cluster.
func (l *Layout) leadingCursor(vc visualCluster) Cursor {
	c := &l.clusters[vc.cluster]
	if vc.rtl {
		return Cursor{ByteOffset: c.textEnd, Affinity: AffinityUpstream}
	}
	return Cursor{ByteOffset: c.textStart, Affinity: AffinityDownstream}
}

// trailingCursor is the cursor at the visual right edge of the cluster.
func (l *Layout) trailingCursor(vc visualCluster) Cursor {
	c := &l.clusters[vc.cluster]
	if vc.rtl {
		return Cursor{ByteOffset: c.textStart, Affinity: AffinityDownstream}
	}
	return Cursor{ByteOffset: c.textEnd, Affinity: AffinityUpstream}
}

// cursorEdge locates the cursor's visual position: the line, the index
// into the line's visual cluster sequence, and whether the cursor sits on
// the leading edge of that cluster (as opposed to the trailing edge of
// the previous one).
func (l *Layout) cursorEdge(c Cursor) (lineIdx, edge int, clusters []visualCluster) {
	lineIdx = l.lineForByte(c.ByteOffset, c.Affinity)
	clusters = l.visualClusters(lineIdx)

	for vi, vc := range clusters {
		cd := &l.clusters[vc.cluster]
		leading, trailing := cd.textStart, cd.textEnd
		if vc.rtl {
			leading, trailing = cd.textEnd, cd.textStart
		}
		if c.ByteOffset == leading && (c.Affinity == AffinityDownstream) != vc.rtl {
			return lineIdx, vi, clusters
		}
		if c.ByteOffset == trailing && (c.Affinity == AffinityUpstream) != vc.rtl {
			return lineIdx, vi + 1, clusters
		}
		if cd.textStart < c.ByteOffset && c.ByteOffset < cd.textEnd {
			return lineIdx, vi, clusters
		}
	}
	// Default to the line start.
	return lineIdx, 0, clusters
}

// CursorRect returns the rectangle of the cluster the cursor is inside,
// per its affinity, along with the line index. A cursor between clusters
// with upstream affinity reports the preceding cluster's rectangle.
func (l *Layout) CursorRect(c Cursor) (Rect, int) {
	if len(l.lines) == 0 {
		return Rect{}, 0
	}
	lineIdx, edge, clusters := l.cursorEdge(c)
	m := l.lines[lineIdx].metrics

	if len(clusters) == 0 {
		x := m.Offset
		return Rect{MinX: x, MinY: m.MinCoord, MaxX: x, MaxY: m.MaxCoord}, lineIdx
	}

	vi := edge
	if c.Affinity == AffinityUpstream && edge > 0 {
		vi = edge - 1
	}
	if vi >= len(clusters) {
		vi = len(clusters) - 1
	}
	vc := clusters[vi]
	return Rect{MinX: vc.x, MinY: m.MinCoord, MaxX: vc.x + vc.width, MaxY: m.MaxCoord}, lineIdx
}

// NextVisual moves the cursor one cluster rightward in display order,
// crossing to the next line past the line's last cluster.
func (l *Layout) NextVisual(c Cursor) Cursor {
	if len(l.lines) == 0 {
		return c
	}
	lineIdx, edge, clusters := l.cursorEdge(c)
	if edge < len(clusters) {
		next := clusters[edge]
		return l.trailingCursor(next)
	}
	if lineIdx+1 < len(l.lines) {
		below := l.visualClusters(lineIdx + 1)
		if len(below) > 0 {
			return l.trailingCursor(below[0])
		}
		return Cursor{ByteOffset: l.lines[lineIdx+1].textStart, Affinity: AffinityDownstream}
	}
	return c
}

// PrevVisual moves the cursor one cluster leftward in display order,
// crossing to the previous line before the line's first cluster.
func (l *Layout) PrevVisual(c Cursor) Cursor {
	if len(l.lines) == 0 {
		return c
	}
	lineIdx, edge, clusters := l.cursorEdge(c)
	if edge > 0 {
		prev := clusters[edge-1]
		return l.leadingCursor(prev)
	}
	if lineIdx > 0 {
		above := l.visualClusters(lineIdx - 1)
		if len(above) > 0 {
			return l.leadingCursor(above[len(above)-1])
		}
		return Cursor{ByteOffset: l.lines[lineIdx-1].textStart, Affinity: AffinityDownstream}
	}
	return c
}

// NextWord moves the cursor to the next UAX #29 word boundary.
func (l *Layout) NextWord(c Cursor) Cursor {
	for _, b := range l.wordBounds() {
		if b > c.ByteOffset {
			return Cursor{ByteOffset: b, Affinity: AffinityDownstream}
		}
	}
	return Cursor{ByteOffset: len(l.text), Affinity: AffinityUpstream}
}

// PrevWord moves the cursor to the previous UAX #29 word boundary.
func (l *Layout) PrevWord(c Cursor) Cursor {
	bounds := l.wordBounds()
	prev := 0
	for _, b := range bounds {
		if b >= c.ByteOffset {
			break
		}
		prev = b
	}
	return Cursor{ByteOffset: prev, Affinity: AffinityDownstream}
}

func (l *Layout) wordBounds() []int {
	return l.wordBoundaries
}
