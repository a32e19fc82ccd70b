package richtext

import (
	"errors"
	"fmt"
)

// Sentinel errors for the richtext package.
var (
	// ErrNotBroken is returned by Align when BreakLines has not been
	// called on the layout yet. The layout is left unchanged.
	ErrNotBroken = errors.New("richtext: layout has no lines; call BreakLines first")

	// ErrBuilderConsumed is returned when a builder is used after Build.
	ErrBuilderConsumed = errors.New("richtext: builder already consumed by Build")

	// ErrUnbalancedStyle is returned by TreeBuilder.Build when pushed
	// styles were not all popped.
	ErrUnbalancedStyle = errors.New("richtext: unbalanced style push/pop")
)

// RangeError reports a span or inline-box offset that is out of bounds or
// not on a codepoint boundary. The builder rejects the offending call and
// keeps its previous state.
type RangeError struct {
	// Start and End are the offending byte offsets. For single-offset
	// operations End equals Start.
	Start, End int

	// TextLen is the length of the text being styled.
	TextLen int

	// Reason describes the violation.
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("richtext: invalid range [%d,%d) over %d bytes: %s",
		e.Start, e.End, e.TextLen, e.Reason)
}
