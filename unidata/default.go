package unidata

import (
	"strings"
	"sync"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/uax"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax14"
	"github.com/npillmayer/uax/uax29"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/richtext/emoji"
)

// Default is the standard Source implementation. Line breaking runs the
// UAX #14 segmenter, word and grapheme boundaries the UAX #29 breakers,
// script lookup uses go-text's tables and bidi classes come from x/text.
//
// Default is safe for concurrent use; the stateful segmenters are guarded
// by a mutex.
type Default struct {
	mu        sync.Mutex
	lines     *segment.Segmenter
	words     *segment.Segmenter
	graphemes *segment.Segmenter
}

// NewDefault creates a Default with freshly initialized segmenters.
func NewDefault() *Default {
	uax14.SetupClasses()
	uax29.SetupUAX29Classes()
	grapheme.SetupGraphemeClasses()

	return &Default{
		lines:     segment.NewSegmenter(uax14.NewLineWrap()),
		words:     segment.NewSegmenter(uax29.NewWordBreaker(1)),
		graphemes: segment.NewSegmenter(grapheme.NewBreaker(1)),
	}
}

// Script implements Source.
func (d *Default) Script(r rune) language.Script {
	return language.LookupScript(r)
}

// LineBreaks implements Source.
func (d *Default) LineBreaks(text string) []BreakOpportunity {
	breaks := make([]BreakOpportunity, len(text)+1)
	if len(text) == 0 {
		return breaks
	}

	d.mu.Lock()
	d.lines.Init(strings.NewReader(text))
	pos := 0
	for d.lines.Next() {
		pos += len(d.lines.Bytes())
		p1, _ := d.lines.Penalties()
		if pos <= len(text) && p1 < uax.InfinitePenalty {
			breaks[pos] = BreakAllowed
		}
	}
	d.mu.Unlock()

	// Hard break characters force a mandatory break after themselves,
	// with \r\n breaking only after the pair.
	for i, r := range text {
		next := i + len(string(r))
		switch r {
		case '\n', '\u0085', '\u2028', '\u2029':
			if next <= len(text) {
				breaks[next] = BreakMandatory
			}
		case '\r':
			if next < len(text) && text[next] == '\n' {
				continue
			}
			if next <= len(text) {
				breaks[next] = BreakMandatory
			}
		}
	}

	breaks[0] = BreakNone
	breaks[len(text)] = BreakMandatory
	return breaks
}

// WordBoundaries implements Source.
func (d *Default) WordBoundaries(text string) []int {
	return d.boundaries(d.words, text)
}

// GraphemeBoundaries implements Source.
func (d *Default) GraphemeBoundaries(text string) []int {
	return d.boundaries(d.graphemes, text)
}

// IsEmojiPresentation implements Source.
func (d *Default) IsEmojiPresentation(r rune) bool {
	return emoji.IsEmojiPresentation(r)
}

// BidiClass implements Source.
func (d *Default) BidiClass(r rune) bidi.Class {
	return BidiClassOf(r)
}

// boundaries runs a segmenter over text and collects segment end offsets.
func (d *Default) boundaries(seg *segment.Segmenter, text string) []int {
	bounds := []int{0}
	if len(text) == 0 {
		return bounds
	}

	d.mu.Lock()
	seg.Init(strings.NewReader(text))
	pos := 0
	for seg.Next() {
		pos += len(seg.Bytes())
		if pos <= len(text) {
			bounds = append(bounds, pos)
		}
	}
	d.mu.Unlock()

	if bounds[len(bounds)-1] != len(text) {
		bounds = append(bounds, len(text))
	}
	return bounds
}
