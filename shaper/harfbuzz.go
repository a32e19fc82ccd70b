package shaper

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/richtext/fonts"
)

// HarfbuzzShaper shapes text with go-text/typesetting's HarfBuzz port.
// It supports ligatures, kerning, contextual alternates, right-to-left
// text and complex scripts. Input.Variations is not applied: variable
// faces shape at their default instance.
//
// HarfbuzzShaper is safe for concurrent use. The underlying
// shaping.HarfbuzzShaper has internal buffers and is not, so instances
// are pooled; parsed shaping fonts are cached on the fonts.Source.
type HarfbuzzShaper struct {
	pool sync.Pool
}

// NewHarfbuzzShaper creates a pooled HarfBuzz shaper.
func NewHarfbuzzShaper() *HarfbuzzShaper {
	return &HarfbuzzShaper{
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// Shape implements Shaper.
func (s *HarfbuzzShaper) Shape(in Input) (Output, error) {
	if in.RunEnd <= in.RunStart || in.Face == nil {
		return Output{}, nil
	}

	shapeFont, err := in.Face.Source().ShapingFont()
	if err != nil {
		return Output{}, err
	}

	// font.Face is not safe for concurrent use; one per call is cheap.
	face := gtfont.NewFace(shapeFont)

	dir := di.DirectionLTR
	if in.Level&1 == 1 {
		dir = di.DirectionRTL
	}

	lang := language.NewLanguage(in.Language)
	if in.Language == "" {
		lang = language.NewLanguage("und")
	}

	input := shaping.Input{
		Text:         in.Text,
		RunStart:     in.RunStart,
		RunEnd:       in.RunEnd,
		Direction:    dir,
		Face:         face,
		Size:         floatToFixed(in.Size),
		Script:       in.Script,
		Language:     lang,
		FontFeatures: convertFeatures(in.Features),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	result := Output{
		Glyphs:  convertGlyphs(out.Glyphs, dir),
		Ascent:  fixedToFloat(out.LineBounds.Ascent),
		Descent: -fixedToFloat(out.LineBounds.Descent),
		LineGap: fixedToFloat(out.LineBounds.Gap),
	}
	if result.Descent < 0 {
		result.Descent = -result.Descent
	}
	return result, nil
}

// convertGlyphs converts go-text glyphs to the capability's glyph form.
// HarfBuzz emits RTL runs in visual order; the slice is reversed so the
// output is always logical.
func convertGlyphs(glyphs []shaping.Glyph, dir di.Direction) []Glyph {
	if len(glyphs) == 0 {
		return nil
	}
	result := make([]Glyph, len(glyphs))
	for i, g := range glyphs {
		out := Glyph{
			ID:      uint32(g.GlyphID),
			XOffset: fixedToFloat(g.XOffset),
			YOffset: fixedToFloat(g.YOffset),
			Advance: fixedToFloat(g.XAdvance),
			Cluster: g.ClusterIndex,
		}
		if dir == di.DirectionRTL {
			result[len(glyphs)-1-i] = out
		} else {
			result[i] = out
		}
	}
	return result
}

// convertFeatures maps feature settings to go-text tags, skipping
// malformed tags.
func convertFeatures(features []fonts.Feature) []shaping.FontFeature {
	if len(features) == 0 {
		return nil
	}
	out := make([]shaping.FontFeature, 0, len(features))
	for _, f := range features {
		if len(f.Tag) != 4 {
			continue
		}
		out = append(out, shaping.FontFeature{
			Tag:   ot.MustNewTag(f.Tag),
			Value: f.Value,
		})
	}
	return out
}

// floatToFixed converts a font size to 26.6 fixed point.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a 26.6 fixed point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
