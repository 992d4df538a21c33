package command

import (
	"time"

	"github.com/google/uuid"
)

// Context carries the per-invocation state of a parse or suggestion run:
// the sender, the values stored by component parsers keyed by component
// name, the component currently being parsed, and the bookkeeping spans
// recorded for each parser invocation.
//
// A Context is single-owner: it belongs to one invocation's goroutine and
// is never shared between concurrent parses. Clone produces a detached
// copy for read-only fan-out.
type Context struct {
	id         string
	sender     Sender
	store      map[string]any
	current    *Component
	parsing    []*ParsingContext
	suggesting bool
}

// NewContext creates a context for one parse or suggestion invocation.
// Each context is stamped with a fresh invocation ID.
func NewContext(sender Sender) *Context {
	return &Context{
		id:     uuid.NewString(),
		sender: sender,
		store:  make(map[string]any),
	}
}

// ID returns the invocation ID.
func (c *Context) ID() string { return c.id }

// Sender returns the invoking sender, possibly nil.
func (c *Context) Sender() Sender { return c.sender }

// Store records a parsed value under the component name.
func (c *Context) Store(name string, value any) {
	c.store[name] = value
}

// Get returns the value stored under name.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.store[name]
	return v, ok
}

// Remove deletes the value stored under name.
func (c *Context) Remove(name string) {
	delete(c.store, name)
}

// Contains reports whether a value is stored under name.
func (c *Context) Contains(name string) bool {
	_, ok := c.store[name]
	return ok
}

// SetSuggesting marks the context as belonging to a suggestion
// invocation. Some parsers relax their failure behavior while
// suggestions are being computed.
func (c *Context) SetSuggesting(suggesting bool) {
	c.suggesting = suggesting
}

// Suggesting reports whether this is a suggestion invocation.
func (c *Context) Suggesting() bool { return c.suggesting }

// SetCurrentComponent records the component currently being parsed so
// contextual suggestion providers can inspect it.
func (c *Context) SetCurrentComponent(comp *Component) {
	c.current = comp
}

// CurrentComponent returns the component currently being parsed, or nil.
func (c *Context) CurrentComponent() *Component { return c.current }

// CreateParsingContext opens a parsing span for the given component and
// appends it to the invocation's history.
func (c *Context) CreateParsingContext(comp *Component) *ParsingContext {
	pc := &ParsingContext{component: comp}
	c.parsing = append(c.parsing, pc)
	return pc
}

// ParsingContexts returns the parsing spans recorded so far, in order.
func (c *Context) ParsingContexts() []*ParsingContext {
	out := make([]*ParsingContext, len(c.parsing))
	copy(out, c.parsing)
	return out
}

// Clone returns a detached copy sharing no mutable state. Used when
// suggestion providers are consulted concurrently.
func (c *Context) Clone() *Context {
	store := make(map[string]any, len(c.store))
	for k, v := range c.store {
		store[k] = v
	}
	return &Context{
		id:         c.id,
		sender:     c.sender,
		store:      store,
		current:    c.current,
		suggesting: c.suggesting,
	}
}

// ParsingContext records one parser invocation: the component, the time
// span, whether the parse succeeded, and the tokens it consumed.
type ParsingContext struct {
	component *Component
	start     time.Time
	end       time.Time
	success   bool
	consumed  []string
}

// Component returns the component this span belongs to.
func (p *ParsingContext) Component() *Component { return p.component }

// MarkStart stamps the span start.
func (p *ParsingContext) MarkStart() { p.start = time.Now() }

// MarkEnd stamps the span end.
func (p *ParsingContext) MarkEnd() { p.end = time.Now() }

// Duration returns the span length, or zero if the span is still open.
func (p *ParsingContext) Duration() time.Duration {
	if p.start.IsZero() || p.end.IsZero() {
		return 0
	}
	return p.end.Sub(p.start)
}

// SetSuccess records whether the parse produced a value.
func (p *ParsingContext) SetSuccess(success bool) { p.success = success }

// Success reports whether the parse produced a value.
func (p *ParsingContext) Success() bool { return p.success }

// SetConsumedInput records the tokens consumed by the parse.
func (p *ParsingContext) SetConsumedInput(tokens []string) { p.consumed = tokens }

// ConsumedInput returns the tokens consumed by the parse.
func (p *ParsingContext) ConsumedInput() []string { return p.consumed }
