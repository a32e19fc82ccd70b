// Package bidi implements the Unicode Bidirectional Algorithm (UAX #9)
// at the level paragraph layout needs: paragraph base level detection,
// per-codepoint embedding levels including explicit embeddings, overrides,
// isolates and bracket pairs, and the L2 visual reordering used per line.
//
// Character classes come from golang.org/x/text/unicode/bidi; the explicit
// formatting characters, which x/text folds into one Control class, are
// distinguished by codepoint.
package bidi

import (
	xbidi "golang.org/x/text/unicode/bidi"
)

// Level is a bidi embedding level, 0..125. Even levels are left-to-right,
// odd levels right-to-left.
type Level uint8

// maxDepth is the UAX #9 embedding depth limit.
const maxDepth = 125

// IsRTL reports whether the level denotes right-to-left text.
func (l Level) IsRTL() bool { return l&1 == 1 }

// Direction is a caller-supplied base direction for a paragraph.
type Direction int

const (
	// DirectionNeutral derives the base direction from the first strong
	// character (rules P2-P3).
	DirectionNeutral Direction = iota
	// DirectionLTR forces a left-to-right base.
	DirectionLTR
	// DirectionRTL forces a right-to-left base.
	DirectionRTL
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionNeutral:
		return "Neutral"
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	default:
		return "Unknown"
	}
}

// class is the working character class. It extends the x/text class set
// with the explicit formatting characters resolved by codepoint.
type class uint8

const (
	clL class = iota
	clR
	clAL
	clEN
	clES
	clET
	clAN
	clCS
	clNSM
	clBN
	clB
	clS
	clWS
	clON
	clLRE
	clRLE
	clLRO
	clRLO
	clPDF
	clLRI
	clRLI
	clFSI
	clPDI
)

// classOf maps a rune to its working class.
func classOf(r rune) class {
	switch r {
	case 0x202A:
		return clLRE
	case 0x202B:
		return clRLE
	case 0x202C:
		return clPDF
	case 0x202D:
		return clLRO
	case 0x202E:
		return clRLO
	case 0x2066:
		return clLRI
	case 0x2067:
		return clRLI
	case 0x2068:
		return clFSI
	case 0x2069:
		return clPDI
	}

	props, _ := xbidi.LookupRune(r)
	switch props.Class() {
	case xbidi.L:
		return clL
	case xbidi.R:
		return clR
	case xbidi.AL:
		return clAL
	case xbidi.EN:
		return clEN
	case xbidi.ES:
		return clES
	case xbidi.ET:
		return clET
	case xbidi.AN:
		return clAN
	case xbidi.CS:
		return clCS
	case xbidi.NSM:
		return clNSM
	case xbidi.BN, xbidi.Control:
		return clBN
	case xbidi.B:
		return clB
	case xbidi.S:
		return clS
	case xbidi.WS:
		return clWS
	default:
		return clON
	}
}

func (c class) isStrong() bool { return c == clL || c == clR || c == clAL }

func (c class) isIsolateInitiator() bool {
	return c == clLRI || c == clRLI || c == clFSI
}

func (c class) isExplicit() bool {
	switch c {
	case clLRE, clRLE, clLRO, clRLO, clPDF:
		return true
	}
	return false
}

// removedByX9 reports classes rule X9 removes from further analysis.
func (c class) removedByX9() bool {
	return c.isExplicit() || c == clBN
}

// Paragraph holds the resolved embedding levels for one paragraph of text.
type Paragraph struct {
	runes   []rune
	offsets []int // rune index -> byte offset, plus final total length
	levels  []Level
	base    Level
}

// BaseLevel returns the paragraph embedding level: 0 for LTR, 1 for RTL.
func (p *Paragraph) BaseLevel() Level { return p.base }

// Levels returns the per-rune embedding levels, aligned with []rune(text).
func (p *Paragraph) Levels() []Level { return p.levels }

// LevelAt returns the embedding level of the rune starting at the given
// byte offset. Offsets beyond the text return the base level.
func (p *Paragraph) LevelAt(byteOffset int) Level {
	for i := range p.runes {
		if p.offsets[i] <= byteOffset && byteOffset < p.offsets[i+1] {
			return p.levels[i]
		}
	}
	return p.base
}

// LevelRun is a maximal run of codepoints sharing one embedding level.
type LevelRun struct {
	// Start and End are byte offsets.
	Start, End int
	Level      Level
}

// LevelRuns returns the paragraph's level runs in logical order.
func (p *Paragraph) LevelRuns() []LevelRun {
	if len(p.runes) == 0 {
		return nil
	}
	runs := make([]LevelRun, 0, 4)
	start := 0
	level := p.levels[0]
	for i := 1; i < len(p.runes); i++ {
		if p.levels[i] == level {
			continue
		}
		runs = append(runs, LevelRun{Start: p.offsets[start], End: p.offsets[i], Level: level})
		start, level = i, p.levels[i]
	}
	runs = append(runs, LevelRun{Start: p.offsets[start], End: p.offsets[len(p.runes)], Level: level})
	return runs
}
