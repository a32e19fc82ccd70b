package richtext

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/richtext/fonts"
)

// testContext builds a context with a single-font library around Go
// Regular; Hebrew and emoji render as .notdef, which the layout must
// survive.
func testContext(t *testing.T) *Context {
	t.Helper()
	lib := fonts.NewLibrary()
	if _, err := lib.AddFont(goregular.TTF, "", fonts.DefaultAttributes()); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	return NewContext(WithProvider(lib))
}

func buildLayout(t *testing.T, text string) *Layout {
	t.Helper()
	b := testContext(t).NewBuilder(text, DefaultStyle(), 1)
	layout, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return layout
}

func TestPushRejectsOutOfBounds(t *testing.T) {
	b := testContext(t).NewBuilder("hello", DefaultStyle(), 1)
	err := b.Push(0, 99, FontSize(20))
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RangeError", err)
	}
	if re.End != 99 {
		t.Errorf("RangeError.End = %d, want 99", re.End)
	}
}

func TestPushRejectsNonBoundary(t *testing.T) {
	// "héllo": é spans bytes 1..3, so 2 is not a codepoint boundary.
	b := testContext(t).NewBuilder("héllo", DefaultStyle(), 1)
	err := b.Push(2, 4, FontSize(20))
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RangeError", err)
	}

	// A rejected call leaves the builder unchanged.
	layout, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(layout.StyleRuns()) != 1 {
		t.Errorf("rejected span still resolved: %v", layout.StyleRuns())
	}
}

func TestPushInlineBoxRejectsBadOffset(t *testing.T) {
	b := testContext(t).NewBuilder("héllo", DefaultStyle(), 1)
	if err := b.PushInlineBox(InlineBox{Index: 2, Width: 10, Height: 10}); err == nil {
		t.Fatal("non-boundary inline box accepted")
	}
	if err := b.PushInlineBox(InlineBox{Index: -1, Width: 10, Height: 10}); err == nil {
		t.Fatal("negative inline box offset accepted")
	}
}

func TestBuilderConsumed(t *testing.T) {
	b := testContext(t).NewBuilder("hello", DefaultStyle(), 1)
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}
	if err := b.Push(0, 5, FontSize(20)); !errors.Is(err, ErrBuilderConsumed) {
		t.Errorf("Push after Build = %v, want ErrBuilderConsumed", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrBuilderConsumed) {
		t.Errorf("second Build = %v, want ErrBuilderConsumed", err)
	}
}

func TestAlignBeforeBreakLines(t *testing.T) {
	layout := buildLayout(t, "hello")
	if err := layout.Align(AlignCenter, AlignmentOptions{}); !errors.Is(err, ErrNotBroken) {
		t.Fatalf("Align before BreakLines = %v, want ErrNotBroken", err)
	}
	if layout.LineCount() != 0 {
		t.Error("failed Align mutated the layout")
	}
}

func TestPushDefault(t *testing.T) {
	b := testContext(t).NewBuilder("hi", DefaultStyle(), 1)
	b.PushDefault(FontSize(20))
	layout, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := layout.Styles()[0].FontSize; got != 20 {
		t.Errorf("base font size = %v, want 20", got)
	}
}

func TestTreeBuilderMatchesRanged(t *testing.T) {
	ctx := testContext(t)

	tb := ctx.NewTreeBuilder(DefaultStyle(), 1)
	tb.WriteText("Hello ")
	tb.PushStyle(FontSize(24))
	tb.WriteText("big")
	tb.PopStyle()
	tb.WriteText(" world")
	fromTree, err := tb.Build()
	if err != nil {
		t.Fatalf("tree Build: %v", err)
	}

	rb := ctx.NewBuilder("Hello big world", DefaultStyle(), 1)
	if err := rb.Push(6, 9, FontSize(24)); err != nil {
		t.Fatal(err)
	}
	fromRanged, err := rb.Build()
	if err != nil {
		t.Fatalf("ranged Build: %v", err)
	}

	tr, rr := fromTree.StyleRuns(), fromRanged.StyleRuns()
	if len(tr) != len(rr) {
		t.Fatalf("tree runs %v != ranged runs %v", tr, rr)
	}
	for i := range tr {
		if tr[i].Start != rr[i].Start || tr[i].End != rr[i].End {
			t.Errorf("run %d: tree [%d,%d) vs ranged [%d,%d)",
				i, tr[i].Start, tr[i].End, rr[i].Start, rr[i].End)
		}
		ts := fromTree.Styles()[tr[i].Style]
		rs := fromRanged.Styles()[rr[i].Style]
		if !ts.Equal(rs) {
			t.Errorf("run %d styles differ", i)
		}
	}
}

func TestTreeBuilderUnbalanced(t *testing.T) {
	tb := testContext(t).NewTreeBuilder(DefaultStyle(), 1)
	tb.PushStyle(FontSize(20))
	tb.WriteText("x")
	if _, err := tb.Build(); !errors.Is(err, ErrUnbalancedStyle) {
		t.Errorf("unbalanced Build = %v, want ErrUnbalancedStyle", err)
	}
}
