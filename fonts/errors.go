package fonts

import "errors"

// Sentinel errors for the fonts package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("fonts: empty font data")

	// ErrNoFamilyName is returned when a font carries no usable family name
	// and none was supplied at registration.
	ErrNoFamilyName = errors.New("fonts: font has no family name")
)
