package fonts

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func testLibrary(t *testing.T) (*Library, *Face) {
	t.Helper()
	lib := NewLibrary()
	face, err := lib.AddFont(goregular.TTF, "", DefaultAttributes())
	if err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	return lib, face
}

func TestNewSourceEmpty(t *testing.T) {
	if _, err := NewSource(nil); err != ErrEmptyFontData {
		t.Errorf("NewSource(nil) err = %v, want ErrEmptyFontData", err)
	}
}

func TestSourceBasics(t *testing.T) {
	src, err := NewSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	if src.Name() == "" {
		t.Error("Name() is empty")
	}
	if src.NumGlyphs() == 0 {
		t.Error("NumGlyphs() = 0")
	}
	if !src.Covers('A') {
		t.Error("Covers('A') = false")
	}
	if src.Covers('א') {
		t.Error("Covers('א') = true for a Latin-only font")
	}
	if _, err := src.ShapingFont(); err != nil {
		t.Errorf("ShapingFont: %v", err)
	}
}

func TestSelectFamilyByName(t *testing.T) {
	lib, face := testLibrary(t)
	got := lib.SelectFamily([]string{face.Family()}, DefaultAttributes())
	if got == nil || got.Source() != face.Source() {
		t.Fatalf("SelectFamily(%q) did not return the registered face", face.Family())
	}
}

func TestSelectFamilyGeneric(t *testing.T) {
	lib, face := testLibrary(t)
	// The first registered font becomes the sans-serif generic.
	got := lib.SelectFamily([]string{GenericSansSerif}, DefaultAttributes())
	if got == nil || got.Source() != face.Source() {
		t.Fatal("sans-serif generic did not resolve to the first font")
	}
}

func TestSelectFamilyUnknown(t *testing.T) {
	lib, _ := testLibrary(t)
	if got := lib.SelectFamily([]string{"No Such Family"}, DefaultAttributes()); got != nil {
		t.Errorf("SelectFamily(unknown) = %v, want nil", got)
	}
}

func TestClosestWeight(t *testing.T) {
	lib := NewLibrary()
	regular, err := lib.AddFont(goregular.TTF, "Go", Attributes{Weight: WeightNormal, Width: WidthNormal})
	if err != nil {
		t.Fatal(err)
	}
	bold, err := lib.AddFont(gobold.TTF, "Go", Attributes{Weight: WeightBold, Width: WidthNormal})
	if err != nil {
		t.Fatal(err)
	}

	got := lib.SelectFamily([]string{"Go"}, Attributes{Weight: WeightBold, Width: WidthNormal})
	if got == nil || got.Source() != bold.Source() {
		t.Error("bold request did not select the bold face")
	}
	got = lib.SelectFamily([]string{"Go"}, Attributes{Weight: WeightLight, Width: WidthNormal})
	if got == nil || got.Source() != regular.Source() {
		t.Error("light request did not select the regular face")
	}
}

func TestFallbackChain(t *testing.T) {
	lib, face := testLibrary(t)
	chain := lib.FallbackChain(language.Latin, "")
	if len(chain) == 0 {
		t.Fatal("empty fallback chain")
	}
	if chain[0].Source() != face.Source() {
		t.Error("fallback chain does not include the registered face")
	}

	lib.AddFallback(language.Hebrew, face)
	chain = lib.FallbackChain(language.Hebrew, "")
	if len(chain) == 0 || chain[0].Source() != face.Source() {
		t.Error("explicit fallback is not first in chain")
	}
}

func TestMetrics(t *testing.T) {
	lib, face := testLibrary(t)
	m := lib.Metrics(face, 16, nil)
	if m.Ascent <= 0 {
		t.Errorf("Ascent = %v, want > 0", m.Ascent)
	}
	if m.Descent <= 0 {
		t.Errorf("Descent = %v, want > 0", m.Descent)
	}
	if m.Ascent+m.Descent > 32 {
		t.Errorf("ascent+descent = %v, implausible for size 16", m.Ascent+m.Descent)
	}
	if m.UnderlineSize <= 0 {
		t.Errorf("UnderlineSize = %v, want > 0", m.UnderlineSize)
	}
	if m.LineHeight() < m.Ascent+m.Descent {
		t.Errorf("LineHeight() = %v < ascent+descent", m.LineHeight())
	}

	// Metrics scale with size.
	m2 := lib.Metrics(face, 32, nil)
	if m2.Ascent <= m.Ascent {
		t.Errorf("ascent did not scale: %v -> %v", m.Ascent, m2.Ascent)
	}
}

func TestEmojiChain(t *testing.T) {
	lib, face := testLibrary(t)
	lib.AddEmojiFace(face)
	got := lib.SelectFamily([]string{GenericEmoji}, DefaultAttributes())
	if got == nil || got.Source() != face.Source() {
		t.Error("emoji generic did not resolve to the emoji face")
	}
}
