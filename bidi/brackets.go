package bidi

// Bracket pair handling for rule N0 (BD14-BD16).

// bracketPairs maps opening brackets to their closing partner, from the
// Unicode BidiBrackets table. Canonical-equivalent angle brackets are
// normalized below.
var bracketPairs = map[rune]rune{
	'(':      ')',
	'[':      ']',
	'{':      '}',
	0x0F3A:   0x0F3B, // Tibetan gug rtags
	0x0F3C:   0x0F3D,
	0x169B:   0x169C, // Ogham feather mark
	0x2045:   0x2046, // square bracket with quill
	0x207D:   0x207E, // superscript parens
	0x208D:   0x208E, // subscript parens
	0x2308:   0x2309, // ceiling
	0x230A:   0x230B, // floor
	0x2329:   0x232A, // angle brackets
	0x2768:   0x2769, // ornate parens
	0x276A:   0x276B,
	0x276C:   0x276D,
	0x276E:   0x276F,
	0x2770:   0x2771,
	0x2772:   0x2773,
	0x2774:   0x2775,
	0x27C5:   0x27C6, // s-shaped bag
	0x27E6:   0x27E7, // mathematical white square brackets
	0x27E8:   0x27E9,
	0x27EA:   0x27EB,
	0x27EC:   0x27ED,
	0x27EE:   0x27EF,
	0x2983:   0x2984, // white curly brackets
	0x2985:   0x2986,
	0x2987:   0x2988,
	0x2989:   0x298A,
	0x298B:   0x298C,
	0x298D:   0x2990,
	0x298F:   0x298E,
	0x2991:   0x2992,
	0x2993:   0x2994,
	0x2995:   0x2996,
	0x2997:   0x2998,
	0x29D8:   0x29D9, // wiggly fences
	0x29DA:   0x29DB,
	0x29FC:   0x29FD, // curved angle brackets
	0x2E22:   0x2E23, // half brackets
	0x2E24:   0x2E25,
	0x2E26:   0x2E27,
	0x2E28:   0x2E29,
	0x3008:   0x3009, // CJK angle brackets
	0x300A:   0x300B,
	0x300C:   0x300D, // corner brackets
	0x300E:   0x300F,
	0x3010:   0x3011, // black lenticular
	0x3014:   0x3015, // tortoise shell
	0x3016:   0x3017,
	0x3018:   0x3019,
	0x301A:   0x301B,
	0xFE59:   0xFE5A, // small parens
	0xFE5B:   0xFE5C,
	0xFE5D:   0xFE5E,
	0xFF08:   0xFF09, // fullwidth parens
	0xFF3B:   0xFF3D,
	0xFF5B:   0xFF5D,
	0xFF5F:   0xFF60,
}

// canonical maps canonically equivalent brackets onto one representative
// so U+2329 pairs with U+3009 and vice versa (BD16 note).
func canonical(r rune) rune {
	switch r {
	case 0x2329:
		return 0x3008
	case 0x232A:
		return 0x3009
	}
	return r
}

// resolveBrackets implements N0: locate bracket pairs inside the
// sequence and give them the direction of their content or context.
func resolveBrackets(runes []rune, classes []class, seq sequence) {
	type open struct {
		pos     int // position within seq.indices
		partner rune
	}
	var stack []open
	type pair struct{ open, close int }
	var pairs []pair

	for k, i := range seq.indices {
		if classes[i] != clON {
			continue
		}
		r := runes[i]
		if partner, ok := bracketPairs[r]; ok {
			if len(stack) < 63 {
				stack = append(stack, open{pos: k, partner: canonical(partner)})
			}
			continue
		}
		if len(stack) == 0 {
			continue
		}
		for s := len(stack) - 1; s >= 0; s-- {
			if stack[s].partner == canonical(r) {
				pairs = append(pairs, pair{open: stack[s].pos, close: k})
				stack = stack[:s]
				break
			}
		}
	}

	if len(pairs) == 0 {
		return
	}

	e := dirClass(seq.level)
	o := clL
	if e == clL {
		o = clR
	}

	strongDir := func(c class) class {
		switch c {
		case clL:
			return clL
		case clR, clEN, clAN:
			return clR
		}
		return clON
	}

	for _, pr := range pairs {
		// N0 b/c: direction of strong characters inside the pair.
		inner := clON
		for k := pr.open + 1; k < pr.close; k++ {
			d := strongDir(classes[seq.indices[k]])
			if d == e {
				inner = e
				break
			}
			if d == o {
				inner = o
			}
		}

		var set class
		switch inner {
		case e:
			set = e
		case o:
			// Opposite-direction content: use the established context.
			context := seq.sos
			for k := pr.open - 1; k >= 0; k-- {
				if d := strongDir(classes[seq.indices[k]]); d != clON {
					context = d
					break
				}
			}
			if context == o {
				set = o
			} else {
				set = e
			}
		default:
			continue // no strong content: leave as neutral for N1/N2
		}

		classes[seq.indices[pr.open]] = set
		classes[seq.indices[pr.close]] = set
	}
}
