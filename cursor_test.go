package richtext

import (
	"testing"
)

func TestCursorAtRoundTrip(t *testing.T) {
	layout := buildLayout(t, "hello world")
	layout.BreakLines(0, false)

	for b := 0; b <= len(layout.Text()); b++ {
		c := layout.CursorAt(b, AffinityDownstream)
		if c.ByteOffset != b {
			t.Errorf("CursorAt(%d) = %d (ASCII offsets are all boundaries)", b, c.ByteOffset)
		}
	}
}

func TestCursorAtSnapsAndClamps(t *testing.T) {
	layout := buildLayout(t, "héllo")
	layout.BreakLines(0, false)

	// Byte 2 is inside é; snap to the cluster start.
	if c := layout.CursorAt(2, AffinityDownstream); c.ByteOffset != 1 {
		t.Errorf("CursorAt(2) = %d, want 1", c.ByteOffset)
	}
	if c := layout.CursorAt(-5, AffinityDownstream); c.ByteOffset != 0 {
		t.Errorf("CursorAt(-5) = %d, want 0", c.ByteOffset)
	}
	if c := layout.CursorAt(99, AffinityUpstream); c.ByteOffset != len(layout.Text()) {
		t.Errorf("CursorAt(99) = %d, want len", c.ByteOffset)
	}
}

func TestCursorFromPointHalves(t *testing.T) {
	layout := buildLayout(t, "ab")
	layout.BreakLines(0, false)

	clusters := layout.visualClusters(0)
	if len(clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(clusters))
	}
	a := clusters[0]
	y := layout.Line(0).Metrics().Baseline

	// Left half of "a" puts the caret before it.
	c := layout.CursorFromPoint(a.x+a.width*0.25, y)
	if c.ByteOffset != 0 || c.Affinity != AffinityDownstream {
		t.Errorf("left half = %+v, want offset 0 downstream", c)
	}
	// Right half puts it after.
	c = layout.CursorFromPoint(a.x+a.width*0.75, y)
	if c.ByteOffset != 1 || c.Affinity != AffinityUpstream {
		t.Errorf("right half = %+v, want offset 1 upstream", c)
	}
	// Far past the end lands after the last cluster.
	c = layout.CursorFromPoint(1e6, y)
	if c.ByteOffset != 2 {
		t.Errorf("past end = %+v, want offset 2", c)
	}
	// Before the line start lands at the beginning.
	c = layout.CursorFromPoint(-1e6, y)
	if c.ByteOffset != 0 {
		t.Errorf("before start = %+v, want offset 0", c)
	}
}

func TestCursorRectRoundTrip(t *testing.T) {
	layout := buildLayout(t, "hello world wraps onto lines")
	layout.BreakLines(80, false)

	for i := range layout.clusters {
		c := &layout.clusters[i]
		if c.textStart == c.textEnd || c.isNewline() {
			continue
		}
		cur := Cursor{ByteOffset: c.textStart, Affinity: AffinityDownstream}
		rect, lineIdx := layout.CursorRect(cur)
		if rect.Width() <= 0 {
			continue // zero-width clusters have no hit area
		}
		mid := layout.CursorFromPoint((rect.MinX+rect.MaxX)/2, (rect.MinY+rect.MaxY)/2)
		cd := &layout.clusters[i]
		if mid.ByteOffset < cd.textStart || mid.ByteOffset > cd.textEnd {
			t.Errorf("round trip for cluster [%d,%d) on line %d landed at %d",
				cd.textStart, cd.textEnd, lineIdx, mid.ByteOffset)
		}
	}
}

func TestNextPrevVisual(t *testing.T) {
	layout := buildLayout(t, "abc")
	layout.BreakLines(0, false)

	c := layout.CursorAt(0, AffinityDownstream)
	steps := 0
	for steps < 10 {
		next := layout.NextVisual(c)
		if next == c {
			break
		}
		c = next
		steps++
	}
	if steps != 3 {
		t.Errorf("visual steps across \"abc\" = %d, want 3", steps)
	}
	if c.ByteOffset != 3 {
		t.Errorf("final offset = %d, want 3", c.ByteOffset)
	}

	back := 0
	for back < 10 {
		prev := layout.PrevVisual(c)
		if prev == c {
			break
		}
		c = prev
		back++
	}
	if back != 3 || c.ByteOffset != 0 {
		t.Errorf("stepped back %d to offset %d, want 3 steps to 0", back, c.ByteOffset)
	}
}

func TestVisualStepAcrossBidi(t *testing.T) {
	layout := buildLayout(t, "abc אבג def")
	layout.BreakLines(0, false)

	total := len(layout.visualClusters(0))
	c := layout.CursorAt(0, AffinityDownstream)
	steps := 0
	for steps < total+5 {
		next := layout.NextVisual(c)
		if next == c {
			break
		}
		c = next
		steps++
	}
	if steps != total {
		t.Errorf("visual steps = %d, want %d (one per cluster)", steps, total)
	}
}

func TestNextPrevWord(t *testing.T) {
	layout := buildLayout(t, "foo bar baz")
	layout.BreakLines(0, false)

	c := layout.CursorAt(0, AffinityDownstream)
	c = layout.NextWord(c)
	if c.ByteOffset != 3 {
		t.Errorf("NextWord from 0 = %d, want 3", c.ByteOffset)
	}
	c = layout.NextWord(c)
	if c.ByteOffset != 4 {
		t.Errorf("NextWord from 3 = %d, want 4", c.ByteOffset)
	}

	c = layout.CursorAt(6, AffinityDownstream)
	c = layout.PrevWord(c)
	if c.ByteOffset != 4 {
		t.Errorf("PrevWord from 6 = %d, want 4", c.ByteOffset)
	}
}

func TestSelectionCollapsed(t *testing.T) {
	s := Selection{
		Anchor: Cursor{ByteOffset: 3, Affinity: AffinityDownstream},
		Focus:  Cursor{ByteOffset: 3, Affinity: AffinityUpstream},
	}
	if !s.IsCollapsed() {
		t.Error("selection with equal offsets and differing affinity not collapsed")
	}
}

func TestSelectionGeometrySingleLine(t *testing.T) {
	layout := buildLayout(t, "hello")
	layout.BreakLines(0, false)

	rects := layout.SelectionGeometry(
		Cursor{ByteOffset: 1, Affinity: AffinityDownstream},
		Cursor{ByteOffset: 4, Affinity: AffinityDownstream},
	)
	if len(rects) != 1 {
		t.Fatalf("rects = %d, want 1", len(rects))
	}
	r := rects[0]
	if r.Line != 0 || r.IsWrapTrailing {
		t.Errorf("rect = %+v, want line 0 without wrap flag", r)
	}
	if r.Rect.Width() <= 0 || r.Rect.Height() <= 0 {
		t.Errorf("degenerate selection rect: %+v", r.Rect)
	}
}

func TestSelectionGeometryAcrossWrap(t *testing.T) {
	layout := buildLayout(t, "aaa bbb ccc ddd eee fff")
	layout.BreakLines(60, false)
	if layout.LineCount() < 2 {
		t.Skip("text did not wrap")
	}

	_, firstLineEnd := layout.Line(0).TextRange()
	rects := layout.SelectionGeometry(
		Cursor{ByteOffset: 0, Affinity: AffinityDownstream},
		Cursor{ByteOffset: firstLineEnd + 2, Affinity: AffinityDownstream},
	)
	if len(rects) < 2 {
		t.Fatalf("rects = %d, want >= 2 (selection spans lines)", len(rects))
	}
	sawWrap := false
	for _, r := range rects {
		if r.Line == 0 && r.IsWrapTrailing {
			sawWrap = true
		}
	}
	if !sawWrap {
		t.Error("no wrap-trailing rect on the first line")
	}
	// Rectangles come with ascending line indices.
	for i := 1; i < len(rects); i++ {
		if rects[i].Line < rects[i-1].Line {
			t.Error("selection rects not in line order")
		}
	}
}

func TestSelectionEmpty(t *testing.T) {
	layout := buildLayout(t, "hello")
	layout.BreakLines(0, false)
	c := Cursor{ByteOffset: 2, Affinity: AffinityDownstream}
	if rects := layout.SelectionGeometry(c, c); rects != nil {
		t.Errorf("collapsed selection geometry = %v, want nil", rects)
	}
}
