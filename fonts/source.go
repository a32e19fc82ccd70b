package fonts

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
)

// Source represents a loaded font file.
// One Source backs any number of Faces selected from it at different
// attributes; it is heavyweight and should be shared across the application.
//
// Source is safe for concurrent use.
// Source must not be copied after creation (enforced by copyCheck).
type Source struct {
	// addr is used for copy protection. It must point to the Source itself.
	addr *Source

	data []byte
	sfnt *sfnt.Font

	name string

	// mu protects the lazily parsed shaping font.
	mu    sync.Mutex
	shape *gtfont.Font
}

// NewSource creates a Source from font data (TTF or OTF).
// The data slice is copied internally and can be reused after this call.
func NewSource(data []byte) (*Source, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	parsed, err := sfnt.Parse(dataCopy)
	if err != nil {
		return nil, fmt.Errorf("fonts: failed to parse font: %w", err)
	}

	s := &Source{
		data: dataCopy,
		sfnt: parsed,
	}
	s.addr = s
	s.name = familyName(parsed)
	return s, nil
}

// NewSourceFromFile loads a Source from a font file path.
func NewSourceFromFile(path string) (*Source, error) {
	// #nosec G304 -- font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fonts: failed to read font file: %w", err)
	}
	return NewSource(data)
}

// Name returns the font family name, or "" if the font has none.
func (s *Source) Name() string {
	s.copyCheck()
	return s.name
}

// GlyphIndex returns the glyph id for a rune, or 0 (.notdef) when the
// charmap has no entry for it.
func (s *Source) GlyphIndex(r rune) uint16 {
	s.copyCheck()
	var buf sfnt.Buffer
	idx, err := s.sfnt.GlyphIndex(&buf, r)
	if err != nil {
		return 0
	}
	return uint16(idx)
}

// Covers reports whether the font has a glyph for the rune.
func (s *Source) Covers(r rune) bool {
	return s.GlyphIndex(r) != 0
}

// NumGlyphs returns the number of glyphs in the font.
func (s *Source) NumGlyphs() int {
	s.copyCheck()
	return s.sfnt.NumGlyphs()
}

// UnitsPerEm returns the units per em of the font.
func (s *Source) UnitsPerEm() int {
	s.copyCheck()
	return int(s.sfnt.UnitsPerEm())
}

// ShapingFont returns the go-text font used for shaping, parsing it on
// first use. The returned *font.Font is read-only and safe to share;
// shapers wrap it in a per-call font.Face.
func (s *Source) ShapingFont() (*gtfont.Font, error) {
	s.copyCheck()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shape != nil {
		return s.shape, nil
	}

	face, err := gtfont.ParseTTF(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("fonts: failed to parse font for shaping: %w", err)
	}
	s.shape = face.Font
	return s.shape, nil
}

// copyCheck panics if Source was copied by value.
func (s *Source) copyCheck() {
	if s.addr != s {
		panic("fonts: Source must not be copied by value")
	}
}

// familyName extracts the family name from the parsed font.
func familyName(f *sfnt.Font) string {
	var buf sfnt.Buffer
	if name, err := f.Name(&buf, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(&buf, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return ""
}
