package bidi

import (
	"testing"
)

// levelsFor resolves text and returns per-rune levels.
func levelsFor(t *testing.T, text string, dir Direction) (*Paragraph, []Level) {
	t.Helper()
	p := Resolve(text, dir)
	return p, p.Levels()
}

func TestPlainLTR(t *testing.T) {
	p, levels := levelsFor(t, "abc", DirectionNeutral)
	if p.BaseLevel() != 0 {
		t.Fatalf("base level = %d, want 0", p.BaseLevel())
	}
	for i, l := range levels {
		if l != 0 {
			t.Errorf("level[%d] = %d, want 0", i, l)
		}
	}
}

func TestPlainRTL(t *testing.T) {
	p, levels := levelsFor(t, "אבג", DirectionNeutral)
	if p.BaseLevel() != 1 {
		t.Fatalf("base level = %d, want 1", p.BaseLevel())
	}
	for i, l := range levels {
		if l != 1 {
			t.Errorf("level[%d] = %d, want 1", i, l)
		}
	}
}

func TestForcedDirection(t *testing.T) {
	p, levels := levelsFor(t, "abc", DirectionRTL)
	if p.BaseLevel() != 1 {
		t.Fatalf("base level = %d, want 1", p.BaseLevel())
	}
	// Latin inside an RTL paragraph runs at level 2.
	for i, l := range levels {
		if l != 2 {
			t.Errorf("level[%d] = %d, want 2", i, l)
		}
	}
}

func TestMixedDirections(t *testing.T) {
	// "abc אבג def": Hebrew at level 1, Latin and both spaces at 0.
	text := "abc אבג def"
	p, levels := levelsFor(t, text, DirectionNeutral)
	if p.BaseLevel() != 0 {
		t.Fatalf("base level = %d, want 0", p.BaseLevel())
	}

	runes := []rune(text)
	for i, r := range runes {
		want := Level(0)
		if r >= 0x0590 && r <= 0x05FF {
			want = 1
		}
		if levels[i] != want {
			t.Errorf("level[%d] (%q) = %d, want %d", i, r, levels[i], want)
		}
	}

	runs := p.LevelRuns()
	if len(runs) != 3 {
		t.Fatalf("level runs = %d, want 3 (%v)", len(runs), runs)
	}
	if !runs[1].Level.IsRTL() {
		t.Errorf("middle run level = %d, want odd", runs[1].Level)
	}
}

func TestNumbersInRTL(t *testing.T) {
	// European numbers inside RTL text resolve to level 2 (I2).
	text := "אבג 123"
	_, levels := levelsFor(t, text, DirectionNeutral)
	runes := []rune(text)
	for i, r := range runes {
		if r >= '0' && r <= '9' && levels[i] != 2 {
			t.Errorf("digit %q level = %d, want 2", r, levels[i])
		}
	}
}

func TestTrailingWhitespaceResetsToBase(t *testing.T) {
	// L1: trailing whitespace returns to the paragraph level.
	text := "abc אבג "
	_, levels := levelsFor(t, text, DirectionNeutral)
	if last := levels[len(levels)-1]; last != 0 {
		t.Errorf("trailing space level = %d, want 0", last)
	}
}

func TestBracketsFollowContext(t *testing.T) {
	// N0: a bracket pair inside RTL text with RTL content is RTL.
	text := "אב (אב) גד"
	_, levels := levelsFor(t, text, DirectionNeutral)
	runes := []rune(text)
	for i, r := range runes {
		if (r == '(' || r == ')') && !levels[i].IsRTL() {
			t.Errorf("bracket %q level = %d, want odd", r, levels[i])
		}
	}
}

func TestIsolateContent(t *testing.T) {
	// RLI..PDI isolates its content without affecting the outside.
	text := "a\u2067אב\u2069b"
	p, levels := levelsFor(t, text, DirectionNeutral)
	if p.BaseLevel() != 0 {
		t.Fatalf("base level = %d, want 0", p.BaseLevel())
	}
	runes := []rune(text)
	for i, r := range runes {
		switch r {
		case 'a', 'b':
			if levels[i] != 0 {
				t.Errorf("%q level = %d, want 0", r, levels[i])
			}
		case 'א', 'ב':
			if !levels[i].IsRTL() {
				t.Errorf("%q level = %d, want odd", r, levels[i])
			}
		}
	}
}

func TestOverrideForcesDirection(t *testing.T) {
	// RLO forces Latin to behave as R.
	text := "\u202Eabc\u202C"
	_, levels := levelsFor(t, text, DirectionLTR)
	runes := []rune(text)
	for i, r := range runes {
		if r >= 'a' && r <= 'z' && !levels[i].IsRTL() {
			t.Errorf("%q level = %d, want odd under RLO", r, levels[i])
		}
	}
}

func TestLevelAt(t *testing.T) {
	text := "aא"
	p := Resolve(text, DirectionNeutral)
	if l := p.LevelAt(0); l != 0 {
		t.Errorf("LevelAt(0) = %d, want 0", l)
	}
	if l := p.LevelAt(1); !l.IsRTL() {
		t.Errorf("LevelAt(1) = %d, want odd", l)
	}
}

func TestVisualOrder(t *testing.T) {
	tests := []struct {
		name   string
		levels []Level
		want   []int
	}{
		{"all ltr", []Level{0, 0, 0}, []int{0, 1, 2}},
		{"all rtl", []Level{1, 1, 1}, []int{2, 1, 0}},
		{"embedded rtl", []Level{0, 1, 0}, []int{0, 1, 2}},
		{"rtl with ltr inside", []Level{1, 2, 1}, []int{2, 1, 0}},
		{"separated rtl runs", []Level{1, 0, 1}, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisualOrder(tt.levels)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
