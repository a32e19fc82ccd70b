package richtext

import (
	"unicode/utf8"

	"github.com/gogpu/richtext/bidi"
)

// Builder accumulates ranged style spans and inline boxes over a fixed
// text, then builds a Layout. A Builder is consumed by Build and must not
// be shared between goroutines.
//
// Range policy: spans and inline boxes with offsets that are out of
// bounds or not on codepoint boundaries are rejected with a *RangeError;
// the builder state is unchanged by a rejected call.
type Builder struct {
	ctx   *Context
	text  string
	scale float64
	base  Style
	dir   bidi.Direction

	spans []styleSpan
	boxes []InlineBox

	consumed bool
}

// BuilderOption configures a Builder at creation.
type BuilderOption func(*Builder)

// WithDirection forces the paragraph base direction instead of deriving
// it from the first strong character.
func WithDirection(d bidi.Direction) BuilderOption {
	return func(b *Builder) { b.dir = d }
}

// NewBuilder creates a builder for text with the given base style.
// scale is the display scale factor applied to all metrics; values <= 0
// are treated as 1.
func (c *Context) NewBuilder(text string, base Style, scale float64, opts ...BuilderOption) *Builder {
	if scale <= 0 {
		scale = 1
	}
	b := &Builder{
		ctx:   c,
		text:  text,
		scale: scale,
		base:  base,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PushDefault merges properties into the base style, affecting the whole
// text wherever no span overrides them.
func (b *Builder) PushDefault(props ...Property) {
	for _, p := range props {
		p(&b.base)
	}
}

// Push adds a style span over [start, end). Later spans win per property
// where they overlap earlier ones.
func (b *Builder) Push(start, end int, props ...Property) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	if err := b.checkRange(start, end); err != nil {
		return err
	}
	if len(props) == 0 || start == end {
		// A no-op span must not change resolution.
		return nil
	}
	b.spans = append(b.spans, styleSpan{start: start, end: end, props: props})
	return nil
}

// PushInlineBox anchors an inline box at a byte offset.
func (b *Builder) PushInlineBox(box InlineBox) error {
	if b.consumed {
		return ErrBuilderConsumed
	}
	if err := b.checkRange(box.Index, box.Index); err != nil {
		return err
	}
	b.boxes = append(b.boxes, box)
	return nil
}

// Build resolves styles, analyzes and shapes the text and returns the
// Layout. The builder is consumed.
func (b *Builder) Build() (*Layout, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	b.consumed = true

	styles, styleRuns := resolveSpans(b.base, b.spans, len(b.text))

	layout := &Layout{
		text:        b.text,
		scale:       b.scale,
		styles:      styles,
		styleRuns:   styleRuns,
		inlineBoxes: sortedBoxes(b.boxes),
		unicode:     b.ctx.unicode,
	}
	layout.wordBoundaries = b.ctx.unicode.WordBoundaries(b.text)

	analysis := analyzeBidi(b.text, b.dir)
	layout.baseLevel = analysis.base

	runs := itemize(b.ctx, layout, analysis)
	shapeRuns(b.ctx, layout, analysis, runs)

	return layout, nil
}

// checkRange validates that start and end are inside the text and on
// codepoint boundaries.
func (b *Builder) checkRange(start, end int) error {
	if start < 0 || end < start || end > len(b.text) {
		return &RangeError{Start: start, End: end, TextLen: len(b.text), Reason: "out of bounds"}
	}
	if !boundaryOK(b.text, start) || !boundaryOK(b.text, end) {
		return &RangeError{Start: start, End: end, TextLen: len(b.text), Reason: "not on a codepoint boundary"}
	}
	return nil
}

func boundaryOK(text string, offset int) bool {
	if offset == 0 || offset == len(text) {
		return true
	}
	return utf8.RuneStart(text[offset])
}

func sortedBoxes(boxes []InlineBox) []InlineBox {
	out := append([]InlineBox(nil), boxes...)
	// Boxes are usually pushed in order; a stable insertion pass keeps
	// equal offsets in push order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Index < out[j-1].Index; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// TreeBuilder builds text and styles together: pushed styles apply to all
// text written until the matching Pop. Resolution matches flattening the
// tree into ranged spans in push order.
type TreeBuilder struct {
	ctx   *Context
	scale float64
	base  Style
	dir   bidi.Direction

	text  []byte
	open  []treeSpan
	spans []styleSpan
	boxes []InlineBox

	consumed bool
}

type treeSpan struct {
	start int
	props []Property
}

// NewTreeBuilder creates an empty tree builder.
func (c *Context) NewTreeBuilder(base Style, scale float64, opts ...BuilderOption) *TreeBuilder {
	rb := c.NewBuilder("", base, scale, opts...)
	return &TreeBuilder{
		ctx:   c,
		scale: rb.scale,
		base:  rb.base,
		dir:   rb.dir,
	}
}

// PushStyle opens a style span covering all text written until PopStyle.
func (t *TreeBuilder) PushStyle(props ...Property) {
	t.open = append(t.open, treeSpan{start: len(t.text), props: props})
}

// PopStyle closes the most recently pushed style span.
func (t *TreeBuilder) PopStyle() {
	if len(t.open) == 0 {
		return
	}
	sp := t.open[len(t.open)-1]
	t.open = t.open[:len(t.open)-1]
	if sp.start < len(t.text) && len(sp.props) > 0 {
		t.spans = append(t.spans, styleSpan{start: sp.start, end: len(t.text), props: sp.props})
	}
}

// WriteText appends text under the currently open styles.
func (t *TreeBuilder) WriteText(s string) {
	t.text = append(t.text, s...)
}

// PushInlineBox anchors an inline box at the current position.
func (t *TreeBuilder) PushInlineBox(box InlineBox) {
	box.Index = len(t.text)
	t.boxes = append(t.boxes, box)
}

// Build flattens the tree into ranged spans and builds the Layout.
// Spans are applied in push order, so outer styles resolve before inner
// ones exactly as the ranged builder would.
func (t *TreeBuilder) Build() (*Layout, error) {
	if t.consumed {
		return nil, ErrBuilderConsumed
	}
	if len(t.open) > 0 {
		return nil, ErrUnbalancedStyle
	}
	t.consumed = true

	// Closed spans are recorded in pop order; re-sort into push order so
	// inner spans override outer ones.
	ordered := make([]styleSpan, len(t.spans))
	copy(ordered, t.spans)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && containedIn(ordered[j-1], ordered[j]); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	b := t.ctx.NewBuilder(string(t.text), t.base, t.scale)
	b.dir = t.dir
	b.spans = ordered
	b.boxes = t.boxes
	return b.Build()
}

// containedIn reports whether inner lies strictly inside outer, meaning
// inner was pushed later and must apply after outer.
func containedIn(inner, outer styleSpan) bool {
	return outer.start <= inner.start && inner.end <= outer.end &&
		(outer.start != inner.start || outer.end != inner.end)
}
