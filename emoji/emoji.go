// Package emoji classifies emoji codepoints and sequences for itemization.
//
// The layout core needs to know, per cluster, whether the text wants emoji
// presentation: such clusters are shaped with an emoji family prepended to
// the font stack. Classification follows UTS #51 default presentation plus
// the variation-selector overrides.
package emoji

// IsEmoji reports whether the rune participates in emoji rendering,
// either by default presentation or via variation selector.
func IsEmoji(r rune) bool {
	return isEmojiPresentation(r) || isEmojiComponent(r) || isTextPresentationEmoji(r)
}

// IsEmojiPresentation reports whether the rune defaults to emoji
// presentation (displays as emoji without a U+FE0F selector).
func IsEmojiPresentation(r rune) bool {
	return isEmojiPresentation(r)
}

// IsModifier reports whether the rune is a Fitzpatrick skin tone
// modifier (U+1F3FB..U+1F3FF).
func IsModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

// IsZWJ reports whether the rune is Zero-Width Joiner (U+200D),
// used to join emoji into composite sequences.
func IsZWJ(r rune) bool {
	return r == 0x200D
}

// IsRegionalIndicator reports whether the rune is a Regional Indicator.
// Two regional indicators form a flag emoji.
func IsRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

// IsVariationSelector reports whether the rune selects presentation:
// U+FE0E forces text, U+FE0F forces emoji.
func IsVariationSelector(r rune) bool {
	return r == 0xFE0E || r == 0xFE0F
}

// IsTextVariation reports the text variation selector (U+FE0E).
func IsTextVariation(r rune) bool {
	return r == 0xFE0E
}

// IsEmojiVariation reports the emoji variation selector (U+FE0F).
func IsEmojiVariation(r rune) bool {
	return r == 0xFE0F
}

// IsKeycapBase reports whether the rune can form a keycap emoji
// when followed by U+FE0F U+20E3.
func IsKeycapBase(r rune) bool {
	return (r >= '0' && r <= '9') || r == '#' || r == '*'
}

// IsTagCharacter reports emoji tag characters (U+E0020..U+E007E),
// used in subdivision flag sequences.
func IsTagCharacter(r rune) bool {
	return r >= 0xE0020 && r <= 0xE007E
}

// IsCancelTag reports the cancel tag character (U+E007F).
func IsCancelTag(r rune) bool {
	return r == 0xE007F
}

// Presentation is the rendering presentation requested by a span of text.
type Presentation uint8

const (
	// PresentationText renders with ordinary glyphs.
	PresentationText Presentation = iota
	// PresentationEmoji renders with color emoji glyphs.
	PresentationEmoji
)

// String returns the string representation of the presentation.
func (p Presentation) String() string {
	switch p {
	case PresentationText:
		return "Text"
	case PresentationEmoji:
		return "Emoji"
	default:
		return "Unknown"
	}
}

// Span is a maximal run of runes sharing one presentation.
type Span struct {
	// Start and End are byte offsets into the original string.
	Start, End int

	// Presentation for the whole span.
	Presentation Presentation
}

// Segment splits text into maximal presentation spans. ZWJ sequences,
// flag pairs, keycaps and tag sequences are never split across spans.
func Segment(text string) []Span {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	offsets := byteOffsets(text, runes)

	spans := make([]Span, 0, 2)
	i := 0
	for i < len(runes) {
		n := sequenceLen(runes[i:])
		if n > 0 {
			spans = appendSpan(spans, Span{
				Start:        offsets[i],
				End:          offsets[i+n],
				Presentation: PresentationEmoji,
			})
			i += n
			continue
		}
		spans = appendSpan(spans, Span{
			Start:        offsets[i],
			End:          offsets[i+1],
			Presentation: PresentationText,
		})
		i++
	}
	return spans
}

// sequenceLen returns the number of runes consumed by a complete emoji
// sequence starting at runes[0], or 0 if the text starts with a
// text-presentation character.
func sequenceLen(runes []rune) int {
	if len(runes) == 0 {
		return 0
	}
	r := runes[0]

	// Flag pair: two regional indicators.
	if IsRegionalIndicator(r) && len(runes) >= 2 && IsRegionalIndicator(runes[1]) {
		return 2
	}

	// Subdivision flag: black flag + tags + cancel.
	if r == 0x1F3F4 {
		if n := tagSequenceLen(runes); n > 0 {
			return n
		}
		return 1
	}

	// Keycap: base + [FE0F] + 20E3.
	if IsKeycapBase(r) {
		return keycapSequenceLen(runes)
	}

	if !isEmojiPresentation(r) && !isTextPresentationEmoji(r) {
		return 0
	}

	i := 1
	// Variation selector decides presentation for default-text emoji.
	if i < len(runes) && IsVariationSelector(runes[i]) {
		if IsTextVariation(runes[i]) {
			return 0
		}
		i++
	} else if !isEmojiPresentation(r) {
		// Default-text characters without FE0F stay text.
		return 0
	}

	if i < len(runes) && IsModifier(runes[i]) {
		i++
	}

	// ZWJ joins.
	for i+1 < len(runes) && IsZWJ(runes[i]) {
		n := joinedLen(runes[i+1:])
		if n == 0 {
			break
		}
		i += 1 + n
	}
	return i
}

// joinedLen parses the emoji element following a ZWJ.
func joinedLen(runes []rune) int {
	if len(runes) == 0 || !IsEmoji(runes[0]) {
		return 0
	}
	i := 1
	if i < len(runes) && IsVariationSelector(runes[i]) {
		if IsTextVariation(runes[i]) {
			return 0
		}
		i++
	}
	if i < len(runes) && IsModifier(runes[i]) {
		i++
	}
	return i
}

func tagSequenceLen(runes []rune) int {
	i := 1
	for i < len(runes) && IsTagCharacter(runes[i]) {
		i++
	}
	if i > 1 && i < len(runes) && IsCancelTag(runes[i]) {
		return i + 1
	}
	return 0
}

func keycapSequenceLen(runes []rune) int {
	i := 1
	if i < len(runes) && IsEmojiVariation(runes[i]) {
		i++
	}
	if i < len(runes) && runes[i] == 0x20E3 {
		return i + 1
	}
	return 0
}

func appendSpan(spans []Span, s Span) []Span {
	if n := len(spans); n > 0 && spans[n-1].Presentation == s.Presentation {
		spans[n-1].End = s.End
		return spans
	}
	return append(spans, s)
}

func byteOffsets(text string, runes []rune) []int {
	offsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		offsets[i] = off
		off += len(string(r))
	}
	offsets[len(runes)] = len(text)
	return offsets
}

// isEmojiComponent reports emoji component characters: modifiers,
// regional indicators, tags, ZWJ, variation selectors, keycap mark.
func isEmojiComponent(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF:
		return true
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	case r == 0x200D, r == 0xFE0E, r == 0xFE0F, r == 0x20E3:
		return true
	}
	return false
}

// isEmojiPresentation reports characters with Emoji_Presentation=Yes.
func isEmojiPresentation(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F: // Emoticons
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // Miscellaneous Symbols and Pictographs
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // Transport and Map Symbols
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // Supplemental Symbols and Pictographs
		return true
	case r >= 0x1FA00 && r <= 0x1FA6F: // Symbols and Pictographs Extended-A
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // Symbols and Pictographs Extended-B
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF: // Skin tone modifiers
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // Regional Indicators
		return true
	case r >= 0x1F000 && r <= 0x1F02F: // Mahjong tiles
		return true
	case r >= 0x1F0A0 && r <= 0x1F0FF: // Playing cards
		return true
	}
	return false
}

// isTextPresentationEmoji reports characters with Emoji=Yes but
// Emoji_Presentation=No; they render as emoji only with U+FE0F.
func isTextPresentationEmoji(r rune) bool {
	switch {
	case r >= 0x2702 && r <= 0x27B0: // Dingbats
		return true
	case r >= 0x2600 && r <= 0x26FF: // Miscellaneous Symbols
		return true
	case r == 0x2194 || r == 0x2195 || (r >= 0x2196 && r <= 0x2199):
		return true
	case r == 0x21A9 || r == 0x21AA:
		return true
	case r == 0x203C || r == 0x2049:
		return true
	case r == 0x2139 || r == 0x24C2:
		return true
	case r >= 0x23E9 && r <= 0x23F3:
		return true
	case r == 0x23F8 || r == 0x23F9 || r == 0x23FA:
		return true
	case r >= 0x2934 && r <= 0x2935:
		return true
	case r >= 0x2B05 && r <= 0x2B07:
		return true
	case r == 0x2B1B || r == 0x2B1C || r == 0x2B50 || r == 0x2B55:
		return true
	case r == 0x3030 || r == 0x303D || r == 0x3297 || r == 0x3299:
		return true
	case r == 0x00A9 || r == 0x00AE || r == 0x2122:
		return true
	}
	return false
}
