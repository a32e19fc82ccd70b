package richtext

import (
	"unicode"

	"github.com/gogpu/richtext/shaper"
	"github.com/gogpu/richtext/unidata"
)

// notdefAdvanceFactor sizes the synthesized .notdef cluster when no font
// or shaper output is available.
const notdefAdvanceFactor = 0.5

// shapeRuns drives the shaper over every itemized run and materializes
// runs, clusters and glyphs into the layout, interleaving inline boxes at
// their anchors.
func shapeRuns(ctx *Context, layout *Layout, a *bidiAnalysis, runs []itemRun) {
	breaks := ctx.unicode.LineBreaks(layout.text)

	byteToRune := make([]int, len(layout.text)+1)
	for i := range a.runes {
		for b := a.offsets[i]; b < a.offsets[i+1]; b++ {
			byteToRune[b] = i
		}
	}
	byteToRune[len(layout.text)] = len(a.runes)

	boxIdx := 0
	pushBoxes := func(upto int) {
		for boxIdx < len(layout.inlineBoxes) && layout.inlineBoxes[boxIdx].Index <= upto {
			level := layout.baseLevel
			if n := len(layout.runs); n > 0 {
				level = layout.runs[n-1].level
			}
			layout.items = append(layout.items, layoutItem{
				kind:  itemKindBox,
				index: boxIdx,
				level: level,
			})
			boxIdx++
		}
	}

	for _, run := range runs {
		pushBoxes(run.textStart)
		if run.newline {
			pushNewlineRun(layout, run)
			continue
		}
		pushTextRun(ctx, layout, a, run, breaks, byteToRune)
	}
	pushBoxes(len(layout.text))
}

// pushNewlineRun appends the zero-width cluster that stands for an
// explicit line terminator. It never reaches the shaper.
func pushNewlineRun(layout *Layout, run itemRun) {
	rd := runData{
		face:       run.face,
		script:     run.script,
		locale:     layout.styles[run.styleIndex].Locale,
		level:      run.level,
		styleIndex: run.styleIndex,
		textStart:  run.textStart,
		textEnd:    run.textEnd,
	}
	// Terminators carry the metrics of the preceding run so an empty
	// final line still has a height.
	if n := len(layout.runs); n > 0 {
		prev := layout.runs[n-1]
		rd.size = prev.size
		rd.ascent, rd.descent, rd.leading = prev.ascent, prev.descent, prev.leading
		rd.lineHeight = prev.lineHeight
	} else {
		style := layout.styles[run.styleIndex]
		rd.size = style.FontSize * layout.scale
		rd.ascent = rd.size * 0.8
		rd.descent = rd.size * 0.2
		applyLineHeight(style, layout.scale, &rd)
	}

	rd.clusterStart = len(layout.clusters)
	layout.clusters = append(layout.clusters, clusterData{
		textStart:  run.textStart,
		textEnd:    run.textEnd,
		glyphStart: len(layout.glyphs),
		glyphEnd:   len(layout.glyphs),
		styleIndex: run.styleIndex,
		runIndex:   len(layout.runs),
		flags:      clusterNewline | clusterWhitespace,
	})
	rd.clusterEnd = len(layout.clusters)

	layout.items = append(layout.items, layoutItem{
		kind:  itemKindRun,
		index: len(layout.runs),
		level: run.level,
	})
	layout.runs = append(layout.runs, rd)
}

// pushTextRun shapes one run and appends its records.
func pushTextRun(ctx *Context, layout *Layout, a *bidiAnalysis, run itemRun,
	breaks []unidata.BreakOpportunity, byteToRune []int) {

	style := layout.styles[run.styleIndex]
	size := style.FontSize * layout.scale

	var out shaper.Output
	shaped := false
	if run.face != nil && !run.missing {
		var err error
		out, err = ctx.shaper.Shape(shaper.Input{
			Text:       a.runes,
			RunStart:   byteToRune[run.textStart],
			RunEnd:     byteToRune[run.textEnd],
			Face:       run.face,
			Size:       size,
			Script:     run.script,
			Level:      uint8(run.level),
			Language:   style.Locale,
			Features:   style.Features,
			Variations: style.Variations,
		})
		shaped = err == nil && len(out.Glyphs) > 0
	}

	rd := runData{
		face:       run.face,
		size:       size,
		script:     run.script,
		locale:     style.Locale,
		level:      run.level,
		styleIndex: run.styleIndex,
		textStart:  run.textStart,
		textEnd:    run.textEnd,
		missing:    run.missing,
	}

	if shaped {
		rd.ascent, rd.descent, rd.leading = out.Ascent, out.Descent, out.LineGap
	} else if run.face != nil && ctx.provider != nil {
		m := ctx.provider.Metrics(run.face, size, style.Variations)
		rd.ascent, rd.descent, rd.leading = m.Ascent, m.Descent, m.Leading
	} else {
		rd.ascent, rd.descent = size*0.8, size*0.2
	}
	if run.face != nil && ctx.provider != nil {
		m := ctx.provider.Metrics(run.face, size, style.Variations)
		rd.underlineOffset, rd.underlineSize = -m.UnderlineOffset, m.UnderlineSize
		rd.strikethroughOffset, rd.strikethroughSize = -m.StrikethroughOffset, m.StrikethroughSize
	}
	applyLineHeight(style, layout.scale, &rd)

	rd.clusterStart = len(layout.clusters)
	runIndex := len(layout.runs)

	if shaped {
		appendShapedClusters(ctx, layout, a, run, out, runIndex)
	} else {
		appendNotdefClusters(ctx, layout, run, size, runIndex)
	}
	rd.clusterEnd = len(layout.clusters)

	applySpacing(layout, &rd, style)
	markBreaks(layout, &rd, style, breaks)

	for i := rd.clusterStart; i < rd.clusterEnd; i++ {
		rd.advance += layout.clusters[i].advance
	}

	layout.items = append(layout.items, layoutItem{
		kind:  itemKindRun,
		index: runIndex,
		level: run.level,
	})
	layout.runs = append(layout.runs, rd)
}

// appendShapedClusters groups the shaper's logical-order glyphs into
// clusters. Glyph Y offsets flip to the Y-down convention here, exactly
// once.
func appendShapedClusters(ctx *Context, layout *Layout, a *bidiAnalysis,
	run itemRun, out shaper.Output, runIndex int) {

	glyphs := out.Glyphs
	for gi := 0; gi < len(glyphs); {
		clusterRune := glyphs[gi].Cluster
		end := gi
		for end < len(glyphs) && glyphs[end].Cluster == clusterRune {
			end++
		}

		textStart := a.offsets[clusterRune]
		textEnd := run.textEnd
		if end < len(glyphs) {
			textEnd = a.offsets[glyphs[end].Cluster]
		}

		glyphStart := len(layout.glyphs)
		advance := 0.0
		for _, g := range glyphs[gi:end] {
			layout.glyphs = append(layout.glyphs, Glyph{
				ID:      g.ID,
				X:       g.XOffset,
				Y:       -g.YOffset,
				Advance: g.Advance,
			})
			advance += g.Advance
		}

		flags := clusterFlagsFor(layout.text[textStart:textEnd], run)
		if run.missing {
			flags |= clusterMissing
		}

		// A cluster spanning several graphemes is a ligature: keep the
		// glyphs on the first component and divide the advance so
		// cursors can land inside it.
		graphemes := ctx.unicode.GraphemeBoundaries(layout.text[textStart:textEnd])
		parts := len(graphemes) - 1
		if parts <= 1 {
			layout.clusters = append(layout.clusters, clusterData{
				textStart:  textStart,
				textEnd:    textEnd,
				glyphStart: glyphStart,
				glyphEnd:   len(layout.glyphs),
				advance:    advance,
				styleIndex: run.styleIndex,
				runIndex:   runIndex,
				flags:      flags,
			})
		} else {
			share := advance / float64(parts)
			for p := 0; p < parts; p++ {
				cd := clusterData{
					textStart:  textStart + graphemes[p],
					textEnd:    textStart + graphemes[p+1],
					advance:    share,
					styleIndex: run.styleIndex,
					runIndex:   runIndex,
					flags:      flags,
				}
				if p == 0 {
					cd.glyphStart, cd.glyphEnd = glyphStart, len(layout.glyphs)
					cd.flags |= clusterLigStart
				} else {
					cd.glyphStart, cd.glyphEnd = len(layout.glyphs), len(layout.glyphs)
					cd.flags |= clusterLigCont
				}
				layout.clusters = append(layout.clusters, cd)
			}
		}
		gi = end
	}
}

// appendNotdefClusters emits one .notdef cluster per grapheme for runs
// with no usable font or failed shaping. Layout always succeeds.
func appendNotdefClusters(ctx *Context, layout *Layout, run itemRun,
	size float64, runIndex int) {

	text := layout.text[run.textStart:run.textEnd]
	bounds := ctx.unicode.GraphemeBoundaries(text)
	advance := size * notdefAdvanceFactor

	for bi := 0; bi+1 < len(bounds); bi++ {
		textStart := run.textStart + bounds[bi]
		textEnd := run.textStart + bounds[bi+1]

		flags := clusterFlagsFor(layout.text[textStart:textEnd], run) | clusterMissing
		ga := advance
		if flags&clusterWhitespace != 0 {
			ga = advance / 2
		}

		glyphStart := len(layout.glyphs)
		layout.glyphs = append(layout.glyphs, Glyph{ID: 0, Advance: ga})
		layout.clusters = append(layout.clusters, clusterData{
			textStart:  textStart,
			textEnd:    textEnd,
			glyphStart: glyphStart,
			glyphEnd:   len(layout.glyphs),
			advance:    ga,
			styleIndex: run.styleIndex,
			runIndex:   runIndex,
			flags:      flags,
		})
	}
}

// clusterFlagsFor derives whitespace and emoji flags from cluster text.
func clusterFlagsFor(cluster string, run itemRun) clusterFlags {
	var flags clusterFlags
	if run.emojiRun {
		flags |= clusterEmoji
	}
	ws := len(cluster) > 0
	for _, r := range cluster {
		if !unicode.IsSpace(r) && r != '\u00A0' {
			ws = false
			break
		}
	}
	if ws {
		flags |= clusterWhitespace
	}
	runes := []rune(cluster)
	if len(runes) == 1 && (runes[0] == ' ' || runes[0] == '\u00A0') {
		flags |= clusterSpace
	}
	return flags
}

// applySpacing inflates cluster advances with letter and word spacing.
// Letter spacing skips the last cluster of each word; word spacing
// applies to U+0020/U+00A0 clusters.
func applySpacing(layout *Layout, rd *runData, style Style) {
	letter := style.LetterSpacing * layout.scale
	word := style.WordSpacing * layout.scale
	if letter == 0 && word == 0 {
		return
	}

	for i := rd.clusterStart; i < rd.clusterEnd; i++ {
		c := &layout.clusters[i]
		spacing := 0.0

		if letter != 0 {
			lastOfWord := i+1 >= rd.clusterEnd ||
				layout.clusters[i+1].isWhitespace()
			if !lastOfWord && !c.isWhitespace() {
				spacing += letter
			}
		}
		if word != 0 && c.isSpace() {
			spacing += word
		}
		if spacing == 0 {
			continue
		}
		c.advance += spacing
		if c.glyphEnd > c.glyphStart {
			layout.glyphs[c.glyphEnd-1].Advance += spacing
		}
	}
}

// markBreaks assigns the line-break opportunity bit per cluster, applying
// the style's word-break policy on top of the UAX #14 opportunities.
func markBreaks(layout *Layout, rd *runData, style Style, breaks []unidata.BreakOpportunity) {
	for i := rd.clusterStart; i < rd.clusterEnd; i++ {
		c := &layout.clusters[i]
		if c.flags&clusterLigCont != 0 {
			continue
		}

		allowed := false
		switch style.WordBreak {
		case WordBreakBreakAll:
			allowed = c.textStart > 0
		case WordBreakKeepAll:
			allowed = breaks[c.textStart] == unidata.BreakAllowed &&
				adjacentToSpace(layout.text, c.textStart)
		default:
			allowed = breaks[c.textStart] == unidata.BreakAllowed
		}
		if allowed {
			c.flags |= clusterBreakAllowed
		}
	}
}

// adjacentToSpace reports whether the byte position touches whitespace on
// either side; keep-all only breaks at such boundaries.
func adjacentToSpace(text string, pos int) bool {
	if pos <= 0 || pos >= len(text) {
		return true
	}
	before := rune(text[pos-1])
	after := rune(text[pos])
	return unicode.IsSpace(before) || unicode.IsSpace(after)
}

// applyLineHeight rescales the run's vertical metrics per its style's
// line-height mode. Absolute and font-size-relative values become the
// line box height and are distributed over ascent and descent in
// proportion to the font's own metrics; metrics-relative values scale
// ascent, descent and leading uniformly.
func applyLineHeight(style Style, scale float64, rd *runData) {
	switch style.LineHeight.Mode {
	case LineHeightAbsolute:
		distributeLineHeight(rd, style.LineHeight.Value*scale)
	case LineHeightFontSize:
		distributeLineHeight(rd, rd.size*style.LineHeight.Value)
	default:
		f := style.LineHeight.Value
		rd.ascent *= f
		rd.descent *= f
		rd.leading *= f
		rd.lineHeight = rd.ascent + rd.descent + rd.leading
	}
}

// distributeLineHeight makes height the run's line box height, splitting
// it into ascent and descent by the font's ascent/(ascent+descent) ratio.
func distributeLineHeight(rd *runData, height float64) {
	natural := rd.ascent + rd.descent
	if natural > 0 {
		rd.ascent = height * rd.ascent / natural
		rd.descent = height * rd.descent / natural
	} else {
		rd.ascent = height
		rd.descent = 0
	}
	rd.leading = 0
	rd.lineHeight = height
}
