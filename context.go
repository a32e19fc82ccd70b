package richtext

import (
	"github.com/gogpu/richtext/fonts"
	"github.com/gogpu/richtext/shaper"
	"github.com/gogpu/richtext/unidata"
)

// Context owns the capability handles used to build layouts: the font
// provider, the shaper and the Unicode data source. Contexts are cheap
// and safe to share between goroutines; builders are not.
type Context struct {
	provider fonts.Provider
	shaper   shaper.Shaper
	unicode  unidata.Source
}

// Option configures a Context.
type Option func(*Context)

// WithProvider sets the font provider. Without one, every cluster falls
// back to .notdef and is flagged missing.
func WithProvider(p fonts.Provider) Option {
	return func(c *Context) { c.provider = p }
}

// WithShaper replaces the default HarfBuzz shaper.
func WithShaper(s shaper.Shaper) Option {
	return func(c *Context) { c.shaper = s }
}

// WithUnicodeData replaces the default Unicode data source.
func WithUnicodeData(u unidata.Source) Option {
	return func(c *Context) { c.unicode = u }
}

// NewContext creates a Context with the default HarfBuzz shaper and
// Unicode data source, then applies opts.
func NewContext(opts ...Option) *Context {
	c := &Context{
		shaper:  shaper.NewHarfbuzzShaper(),
		unicode: unidata.NewDefault(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the context's font provider, which may be nil.
func (c *Context) Provider() fonts.Provider { return c.provider }
