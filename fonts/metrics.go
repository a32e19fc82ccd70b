package fonts

import (
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Metrics holds font-wide metrics scaled to a specific size.
// Ascent and Descent are positive distances, Ascent above the baseline
// and Descent below it; decoration offsets are signed (see below).
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the font.
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the font.
	Descent float64

	// Leading is the recommended extra space between line boxes.
	Leading float64

	// XHeight is the height of lowercase letters.
	XHeight float64

	// CapHeight is the height of uppercase letters.
	CapHeight float64

	// UnderlineOffset is the offset from the baseline to the top of the
	// underline stroke; negative values are below the baseline.
	UnderlineOffset float64

	// UnderlineSize is the thickness of the underline stroke.
	UnderlineSize float64

	// StrikethroughOffset is the offset from the baseline to the top of
	// the strikethrough stroke.
	StrikethroughOffset float64

	// StrikethroughSize is the thickness of the strikethrough stroke.
	StrikethroughSize float64
}

// LineHeight returns ascent + descent + leading.
func (m Metrics) LineHeight() float64 {
	return m.Ascent + m.Descent + m.Leading
}

// Metrics returns the source's metrics scaled to size (pixels per em).
// Variation coords are accepted for interface compatibility and are
// ignored.
func (s *Source) Metrics(size float64, coords []Variation) Metrics {
	s.copyCheck()
	_ = coords

	var buf sfnt.Buffer
	sm, err := s.sfnt.Metrics(&buf, fixed.Int26_6(size*64), xfont.HintingNone)
	if err != nil {
		return Metrics{}
	}

	ascent := fixedToFloat(sm.Ascent)
	descent := fixedToFloat(sm.Descent)
	height := fixedToFloat(sm.Height)

	m := Metrics{
		Ascent:    ascent,
		Descent:   descent,
		Leading:   height - ascent - descent,
		XHeight:   fixedToFloat(sm.XHeight),
		CapHeight: fixedToFloat(sm.CapHeight),
	}
	if m.Leading < 0 {
		m.Leading = 0
	}

	// sfnt does not expose post/OS2 decoration values; use the
	// conventional fractions most rasterizers fall back to.
	m.UnderlineSize = size / 14
	m.UnderlineOffset = -size / 10
	m.StrikethroughSize = size / 14
	m.StrikethroughOffset = m.XHeight / 2

	return m
}

// fixedToFloat converts fixed.Int26_6 to float64.
func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
