package fonts

import (
	"strings"
	"sync"

	"github.com/go-text/typesetting/language"
)

// Face is a concrete font instance selected by a Provider: a source plus
// the attributes it was matched under. Face values are cheap to copy.
type Face struct {
	source *Source
	family string
	attrs  Attributes
}

// NewFace wraps a source as a selectable face.
// If family is empty, the source's own family name is used.
func NewFace(source *Source, family string, attrs Attributes) *Face {
	if family == "" {
		family = source.Name()
	}
	return &Face{source: source, family: family, attrs: attrs}
}

// Source returns the backing font source.
func (f *Face) Source() *Source { return f.source }

// Family returns the family name the face was registered under.
func (f *Face) Family() string { return f.family }

// Attributes returns the face's design attributes.
func (f *Face) Attributes() Attributes { return f.attrs }

// Covers reports whether the face's charmap maps the rune.
func (f *Face) Covers(r rune) bool { return f.source.Covers(r) }

// Provider selects fonts for the layout core.
//
// Implementations may share internal caches across goroutines and must be
// safe for concurrent lookups; lookups are idempotent and may be issued in
// any order.
type Provider interface {
	// SelectFamily returns the best face for the first family in the
	// stack that the provider knows, or nil when none matches.
	// Generic names (sans-serif, monospace, ...) are resolved first.
	SelectFamily(stack []string, attrs Attributes) *Face

	// Coverage reports whether face maps the rune to a real glyph.
	Coverage(face *Face, r rune) bool

	// FallbackChain returns candidate faces for the script and locale,
	// most preferred first. An empty chain means text in this script can
	// only render as .notdef.
	FallbackChain(script language.Script, locale string) []*Face

	// Metrics returns the face's metrics at size with the given
	// variation coords applied.
	Metrics(face *Face, size float64, coords []Variation) Metrics
}

// Library is an explicit font registry. The application seeds it with font
// data and fallback preferences; no disk or platform lookup is performed.
//
// Library is safe for concurrent use after seeding. Registering fonts
// concurrently with lookups is also safe but rarely useful.
type Library struct {
	mu        sync.RWMutex
	families  map[string][]*Face
	order     []*Face
	fallbacks map[language.Script][]*Face
	generics  map[string]string
	emoji     []*Face
}

// NewLibrary creates an empty Library.
func NewLibrary() *Library {
	return &Library{
		families:  make(map[string][]*Face),
		fallbacks: make(map[language.Script][]*Face),
		generics:  make(map[string]string),
	}
}

// AddFont parses data and registers the font. If family is empty the
// name from the font's name table is used. The first font added also
// becomes the sans-serif generic unless one was set explicitly.
func (l *Library) AddFont(data []byte, family string, attrs Attributes) (*Face, error) {
	source, err := NewSource(data)
	if err != nil {
		return nil, err
	}
	if family == "" {
		family = source.Name()
	}
	if family == "" {
		return nil, ErrNoFamilyName
	}

	face := NewFace(source, family, attrs)
	key := foldName(family)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.families[key] = append(l.families[key], face)
	l.order = append(l.order, face)
	if _, ok := l.generics[GenericSansSerif]; !ok {
		l.generics[GenericSansSerif] = family
	}
	return face, nil
}

// SetGeneric maps a generic name (sans-serif, monospace, ...) to a
// registered family.
func (l *Library) SetGeneric(generic, family string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generics[foldName(generic)] = family
}

// AddFallback appends a face to the fallback chain for a script.
func (l *Library) AddFallback(script language.Script, face *Face) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fallbacks[script] = append(l.fallbacks[script], face)
}

// AddEmojiFace appends a face to the emoji chain consulted for clusters
// with emoji presentation.
func (l *Library) AddEmojiFace(face *Face) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.emoji = append(l.emoji, face)
}

// SelectFamily implements Provider.
func (l *Library) SelectFamily(stack []string, attrs Attributes) *Face {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, name := range stack {
		key := foldName(name)
		if mapped, ok := l.generics[key]; ok {
			if key == foldName(GenericEmoji) && len(l.emoji) > 0 {
				return l.emoji[0]
			}
			key = foldName(mapped)
		} else if key == foldName(GenericEmoji) && len(l.emoji) > 0 {
			return l.emoji[0]
		}
		faces := l.families[key]
		if len(faces) == 0 {
			continue
		}
		return closestFace(faces, attrs)
	}
	return nil
}

// Coverage implements Provider.
func (l *Library) Coverage(face *Face, r rune) bool {
	if face == nil {
		return false
	}
	return face.Covers(r)
}

// FallbackChain implements Provider. The chain is the script's explicit
// fallbacks followed by every registered face in registration order, so a
// single-font library still covers what it can.
func (l *Library) FallbackChain(script language.Script, locale string) []*Face {
	_ = locale

	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := make([]*Face, 0, len(l.fallbacks[script])+len(l.order))
	chain = append(chain, l.fallbacks[script]...)
	for _, face := range l.order {
		chain = append(chain, face)
	}
	return chain
}

// EmojiChain returns the faces registered for emoji presentation.
func (l *Library) EmojiChain() []*Face {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Face(nil), l.emoji...)
}

// Metrics implements Provider.
func (l *Library) Metrics(face *Face, size float64, coords []Variation) Metrics {
	if face == nil {
		return Metrics{}
	}
	return face.source.Metrics(size, coords)
}

// closestFace picks the registered face with the nearest attributes: a
// style mismatch outweighs any distance, and otherwise the weight
// distance plus four times the width distance decides.
func closestFace(faces []*Face, attrs Attributes) *Face {
	best := faces[0]
	bestScore := attrDistance(best.attrs, attrs)
	for _, f := range faces[1:] {
		if score := attrDistance(f.attrs, attrs); score < bestScore {
			best, bestScore = f, score
		}
	}
	return best
}

func attrDistance(have, want Attributes) float64 {
	score := 0.0
	if have.Style != want.Style {
		score += 1e6
	}
	score += abs(float64(have.Weight) - float64(want.Weight))
	score += abs(float64(have.Width)-float64(want.Width)) * 4
	return score
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
