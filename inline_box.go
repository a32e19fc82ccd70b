package richtext

// InlineBox is an opaque rectangle flowed with the text: it participates
// in line breaking like an unbreakable cluster but is never shaped.
// The caller renders whatever it stands for (an image, a widget) at the
// position the layout assigns.
type InlineBox struct {
	// ID is a caller-chosen identifier returned with the positioned box.
	ID uint64

	// Index is the byte offset the box is anchored at.
	Index int

	// Width and Height are the box dimensions in pixels.
	Width, Height float64

	// Baseline is the distance from the top of the box to the point
	// aligned with the text baseline. Zero snaps the box bottom to the
	// baseline.
	Baseline float64
}
