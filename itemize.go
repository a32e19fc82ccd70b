package richtext

import (
	"github.com/go-text/typesetting/language"

	"github.com/gogpu/richtext/bidi"
	"github.com/gogpu/richtext/emoji"
	"github.com/gogpu/richtext/fonts"
)

// bidiAnalysis carries the per-rune bidi levels for the whole text.
// Levels are resolved paragraph by paragraph; the base level is the first
// paragraph's.
type bidiAnalysis struct {
	base    bidi.Level
	runes   []rune
	offsets []int // rune index -> byte offset, plus total length
	levels  []bidi.Level
}

func analyzeBidi(text string, dir bidi.Direction) *bidiAnalysis {
	runes := []rune(text)
	a := &bidiAnalysis{
		runes:   runes,
		offsets: make([]int, len(runes)+1),
		levels:  make([]bidi.Level, len(runes)),
	}
	off := 0
	for i, r := range runes {
		a.offsets[i] = off
		off += len(string(r))
	}
	a.offsets[len(runes)] = len(text)

	first := true
	start := 0
	flush := func(end int) {
		if end <= start {
			return
		}
		p := bidi.Resolve(string(runes[start:end]), dir)
		if first {
			a.base = p.BaseLevel()
			first = false
		}
		copy(a.levels[start:end], p.Levels())
		start = end
	}

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\n', '\u0085', '\u2028', '\u2029':
			flush(i + 1)
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				flush(i + 2)
				i++
			} else {
				flush(i + 1)
			}
		}
	}
	flush(len(runes))

	if first {
		a.base = bidi.Resolve("", dir).BaseLevel()
	}
	return a
}

// isLineTerminator reports runes that force an explicit line break.
func isLineTerminator(r rune) bool {
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// itemRun is one maximal run homogeneous in script, level, style and
// locale, with a font chosen for all of its clusters.
type itemRun struct {
	textStart, textEnd int
	script             language.Script
	level              bidi.Level
	styleIndex         int
	face               *fonts.Face
	emojiRun           bool
	newline            bool
	missing            bool
}

// itemize splits the text into itemRuns. Splits happen where script,
// level, style or locale change, at inline box anchors, around explicit
// line terminators, and where per-cluster font selection picks a
// different face.
func itemize(ctx *Context, layout *Layout, a *bidiAnalysis) []itemRun {
	n := len(a.runes)
	if n == 0 {
		return nil
	}

	scripts := resolveScripts(ctx, a.runes, a.levels)
	emojiRun := emojiPresentation(layout.text, n, a.offsets)

	// Inline box anchors force splits so boxes land between runs.
	boxAt := make(map[int]bool, len(layout.inlineBoxes))
	for _, box := range layout.inlineBoxes {
		boxAt[box.Index] = true
	}

	var runs []itemRun
	flush := func(start, end int) {
		if end <= start {
			return
		}
		startByte := a.offsets[start]
		runs = append(runs, itemRun{
			textStart:  startByte,
			textEnd:    a.offsets[end],
			script:     scripts[start],
			level:      a.levels[start],
			styleIndex: layout.styleRuns[styleRunAt(layout.styleRuns, startByte)].Style,
			emojiRun:   emojiRun[start],
			newline:    isLineTerminator(a.runes[start]),
		})
	}

	start := 0
	for i := 0; i < n; i++ {
		if isLineTerminator(a.runes[i]) {
			flush(start, i)
			end := i + 1
			if a.runes[i] == '\r' && i+1 < n && a.runes[i+1] == '\n' {
				end = i + 2
			}
			flush(i, end)
			start = end
			i = end - 1
			continue
		}
		if i == start {
			continue
		}
		byteOff := a.offsets[i]
		prevStyle := styleRunAt(layout.styleRuns, a.offsets[start])
		curStyle := styleRunAt(layout.styleRuns, byteOff)
		if scripts[i] != scripts[start] ||
			a.levels[i] != a.levels[start] ||
			curStyle != prevStyle ||
			emojiRun[i] != emojiRun[start] ||
			boxAt[byteOff] {
			flush(start, i)
			start = i
		}
	}
	flush(start, n)

	return selectFonts(ctx, layout, runs)
}

// resolveScripts assigns a concrete script to every rune. Common and
// Inherited characters take the script of the nearest concrete character
// at the same bidi level, preferring the preceding one, so punctuation
// and spaces stay in the run whose direction they share.
func resolveScripts(ctx *Context, runes []rune, levels []bidi.Level) []language.Script {
	scripts := make([]language.Script, len(runes))
	concrete := make([]bool, len(runes))
	for i, r := range runes {
		scripts[i] = ctx.unicode.Script(r)
		concrete[i] = scripts[i] != language.Common && scripts[i] != language.Inherited
	}

	for i := range scripts {
		if concrete[i] {
			continue
		}
		assigned := false
		for j := i - 1; j >= 0; j-- {
			if concrete[j] && levels[j] == levels[i] {
				scripts[i] = scripts[j]
				assigned = true
				break
			}
			if concrete[j] {
				break
			}
		}
		if !assigned {
			for j := i + 1; j < len(runes); j++ {
				if concrete[j] && levels[j] == levels[i] {
					scripts[i] = scripts[j]
					assigned = true
					break
				}
			}
		}
		if !assigned {
			// Fall back to any neighbor, then Latin.
			for j := i - 1; j >= 0; j-- {
				if concrete[j] {
					scripts[i] = scripts[j]
					assigned = true
					break
				}
			}
			if !assigned {
				for j := i + 1; j < len(runes); j++ {
					if concrete[j] {
						scripts[i] = scripts[j]
						assigned = true
						break
					}
				}
			}
		}
		if !assigned {
			scripts[i] = language.Latin
		}
	}
	return scripts
}

// emojiPresentation marks runes inside emoji-presentation spans.
func emojiPresentation(text string, n int, offsets []int) []bool {
	out := make([]bool, n)
	spans := emoji.Segment(text)
	si := 0
	for i := 0; i < n; i++ {
		byteOff := offsets[i]
		for si < len(spans) && spans[si].End <= byteOff {
			si++
		}
		if si < len(spans) && spans[si].Start <= byteOff && spans[si].Presentation == emoji.PresentationEmoji {
			out[i] = true
		}
	}
	return out
}

// selectFonts chooses a face per cluster and splits runs where the face
// changes. Clusters that no face covers keep the primary face (or the
// first fallback) and are flagged missing.
func selectFonts(ctx *Context, layout *Layout, runs []itemRun) []itemRun {
	var out []itemRun
	for _, run := range runs {
		if run.newline {
			out = append(out, run)
			continue
		}
		out = append(out, splitByFace(ctx, layout, run)...)
	}
	return out
}

func splitByFace(ctx *Context, layout *Layout, run itemRun) []itemRun {
	style := layout.styles[run.styleIndex]
	attrs := fonts.Attributes{
		Weight: style.FontWeight,
		Width:  style.FontWidth,
		Style:  style.FontStyle,
	}

	provider := ctx.provider
	if provider == nil {
		run.missing = true
		return []itemRun{run}
	}

	stack := style.FontStack
	if run.emojiRun {
		stack = append([]string{fonts.GenericEmoji}, stack...)
	}
	primary := provider.SelectFamily(stack, attrs)

	var fallback []*fonts.Face // computed lazily
	haveFallback := false

	text := layout.text[run.textStart:run.textEnd]
	bounds := ctx.unicode.GraphemeBoundaries(text)

	var pieces []itemRun
	var cur *itemRun
	for bi := 0; bi+1 < len(bounds); bi++ {
		cluster := []rune(text[bounds[bi]:bounds[bi+1]])

		face, missing := primary, false
		if primary == nil || !coversCluster(provider, primary, cluster) {
			if !haveFallback {
				fallback = provider.FallbackChain(run.script, style.Locale)
				haveFallback = true
			}
			face = nil
			for _, f := range fallback {
				if coversCluster(provider, f, cluster) {
					face = f
					break
				}
			}
			if face == nil {
				// Last resort: keep whatever face exists and emit
				// .notdef glyphs for the cluster.
				missing = true
				face = primary
				if face == nil && len(fallback) > 0 {
					face = fallback[0]
				}
			}
		}

		if cur != nil && cur.face == face {
			cur.textEnd = run.textStart + bounds[bi+1]
			cur.missing = cur.missing || missing
			continue
		}
		if cur != nil {
			pieces = append(pieces, *cur)
		}
		piece := run
		piece.textStart = run.textStart + bounds[bi]
		piece.textEnd = run.textStart + bounds[bi+1]
		piece.face = face
		piece.missing = missing
		cur = &piece
	}
	if cur != nil {
		pieces = append(pieces, *cur)
	}
	if len(pieces) == 0 {
		pieces = []itemRun{run}
	}
	return pieces
}

// coversCluster reports whether the face covers every codepoint of the
// cluster, ignoring joiners and variation selectors which many fonts do
// not map.
func coversCluster(provider fonts.Provider, face *fonts.Face, cluster []rune) bool {
	for _, r := range cluster {
		if emoji.IsZWJ(r) || emoji.IsVariationSelector(r) || r == '\u200C' {
			continue
		}
		if !provider.Coverage(face, r) {
			return false
		}
	}
	return true
}
