package fonts

import (
	"fmt"
	"os"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
	"github.com/go-text/typesetting/language"
)

// SystemProvider discovers installed fonts through go-text's fontscan
// index. Matching honors the platform's substitution rules, so fallback
// chains reflect what the OS would pick.
//
// SystemProvider is safe for concurrent use; the underlying FontMap is
// guarded by a mutex because queries mutate its state.
type SystemProvider struct {
	mu      sync.Mutex
	fontMap *fontscan.FontMap
	sources map[fontscan.Location]*Source
}

// NewSystemProvider scans the system font directories, caching the index
// under cacheDir (the user cache dir is a good choice).
func NewSystemProvider(cacheDir string) (*SystemProvider, error) {
	fm := fontscan.NewFontMap(nil)
	if err := fm.UseSystemFonts(cacheDir); err != nil {
		return nil, fmt.Errorf("fonts: failed to load system fonts: %w", err)
	}
	return &SystemProvider{
		fontMap: fm,
		sources: make(map[fontscan.Location]*Source),
	}, nil
}

// SelectFamily implements Provider.
func (p *SystemProvider) SelectFamily(stack []string, attrs Attributes) *Face {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fontMap.SetQuery(fontscan.Query{
		Families: stack,
		Aspect:   attrs.aspect(),
	})
	// Resolving a letter forces the map to materialize its best match
	// for the query regardless of coverage-driven fallback.
	gtFace := p.fontMap.ResolveFace('a')
	if gtFace == nil {
		return nil
	}
	return p.faceFor(gtFace, attrs)
}

// Coverage implements Provider.
func (p *SystemProvider) Coverage(face *Face, r rune) bool {
	if face == nil {
		return false
	}
	return face.Covers(r)
}

// FallbackChain implements Provider. fontscan resolves per rune rather
// than per script, so the chain is built by resolving a representative
// rune of the script with an empty query; locale is not used.
func (p *SystemProvider) FallbackChain(script language.Script, locale string) []*Face {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fontMap.SetQuery(fontscan.Query{})
	rep := representativeRune(script)
	gtFace := p.fontMap.ResolveFace(rep)
	if gtFace == nil {
		return nil
	}
	_ = locale
	face := p.faceFor(gtFace, DefaultAttributes())
	if face == nil {
		return nil
	}
	return []*Face{face}
}

// Metrics implements Provider.
func (p *SystemProvider) Metrics(face *Face, size float64, coords []Variation) Metrics {
	if face == nil {
		return Metrics{}
	}
	return face.source.Metrics(size, coords)
}

// faceFor maps a resolved go-text face back to its file and wraps it as a
// Source, cached per location. Locking is held by the caller.
func (p *SystemProvider) faceFor(gtFace *gtfont.Face, attrs Attributes) *Face {
	loc := p.fontMap.FontLocation(gtFace.Font)
	if src, ok := p.sources[loc]; ok {
		return NewFace(src, "", attrs)
	}
	data, err := os.ReadFile(loc.File)
	if err != nil {
		return nil
	}
	src, err := NewSource(data)
	if err != nil {
		return nil
	}
	p.sources[loc] = src
	return NewFace(src, "", attrs)
}

// aspect converts Attributes to a fontscan query aspect.
func (a Attributes) aspect() gtfont.Aspect {
	as := gtfont.Aspect{
		Weight:  gtfont.Weight(a.Weight),
		Stretch: gtfont.Stretch(float32(a.Width) / 100),
	}
	switch a.Style {
	case StyleItalic, StyleOblique:
		as.Style = gtfont.StyleItalic
	default:
		as.Style = gtfont.StyleNormal
	}
	return as
}

// representativeRune returns a rune typical for the script, used to probe
// fontscan's coverage-based resolution.
func representativeRune(script language.Script) rune {
	switch script {
	case language.Arabic:
		return 0x0627
	case language.Hebrew:
		return 0x05D0
	case language.Han:
		return 0x4E2D
	case language.Hiragana:
		return 0x3042
	case language.Katakana:
		return 0x30A2
	case language.Hangul:
		return 0xAC00
	case language.Cyrillic:
		return 0x0410
	case language.Greek:
		return 0x0391
	case language.Devanagari:
		return 0x0905
	case language.Thai:
		return 0x0E01
	default:
		return 'a'
	}
}
