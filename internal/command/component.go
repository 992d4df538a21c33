package command

import (
	"context"
	"fmt"

	"cmdtree/internal/input"
)

// Type classifies a component within a command path.
type Type int

const (
	// TypeLiteral matches a fixed set of alias strings.
	TypeLiteral Type = iota
	// TypeArgument parses a typed value from the input.
	TypeArgument
	// TypeFlag parses -x / --long style modifiers.
	TypeFlag
)

func (t Type) String() string {
	switch t {
	case TypeLiteral:
		return "literal"
	case TypeArgument:
		return "argument"
	case TypeFlag:
		return "flag"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// DefaultValue supplies a value for an elided optional component. It is
// either a constant, used directly without parsing, or a parsed default
// whose text is re-fed through the component's parser.
type DefaultValue struct {
	constant any
	text     string
	parsed   bool
}

// ConstantDefault returns a default that supplies value directly.
func ConstantDefault(value any) *DefaultValue {
	return &DefaultValue{constant: value}
}

// ParsedDefault returns a default whose text is appended to the input and
// run through the parser as if the sender had typed it.
func ParsedDefault(text string) *DefaultValue {
	return &DefaultValue{text: text, parsed: true}
}

// Constant returns the constant value and whether this is a constant
// default.
func (d *DefaultValue) Constant() (any, bool) {
	if d.parsed {
		return nil, false
	}
	return d.constant, true
}

// ParsedText returns the default text and whether this is a parsed
// default.
func (d *DefaultValue) ParsedText() (string, bool) {
	if !d.parsed {
		return "", false
	}
	return d.text, true
}

// Component is one segment of a command path: a literal keyword, a typed
// argument, or a flag group. Components are created through Literal,
// Argument and FlagComponent and are immutable after insertion into a
// tree, except for the owning command which the tree sets when the
// component becomes a command's terminal.
type Component struct {
	name         string
	typ          Type
	parser       Parser
	provider     SuggestionProvider
	required     bool
	defaultValue *DefaultValue
	description  string
	owning       *Command
}

// ComponentOption configures a component at construction time.
type ComponentOption func(*Component)

// Optional marks the component as elidable at the tail of a command.
func Optional() ComponentOption {
	return func(c *Component) { c.required = false }
}

// WithDefault attaches a default value. A component with a default is
// implicitly optional.
func WithDefault(d *DefaultValue) ComponentOption {
	return func(c *Component) {
		c.defaultValue = d
		c.required = false
	}
}

// WithSuggestions overrides the component's suggestion provider.
func WithSuggestions(p SuggestionProvider) ComponentOption {
	return func(c *Component) { c.provider = p }
}

// WithDescription attaches a human-readable description used by help
// surfaces.
func WithDescription(description string) ComponentOption {
	return func(c *Component) { c.description = description }
}

// Literal creates a literal component. The name is the canonical alias;
// additional aliases match the same node.
func Literal(name string, aliases ...string) *Component {
	parser := NewLiteralParser(name, aliases...)
	return &Component{
		name:     name,
		typ:      TypeLiteral,
		parser:   parser,
		provider: parser,
		required: true,
	}
}

// Argument creates a typed argument component. Arguments are required
// unless configured otherwise.
func Argument(name string, parser Parser, opts ...ComponentOption) *Component {
	c := &Component{
		name:     name,
		typ:      TypeArgument,
		parser:   parser,
		required: true,
	}
	if p, ok := parser.(SuggestionProvider); ok {
		c.provider = p
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FlagComponent creates the flag component of a command from a flag
// parser. Flag components are never required.
func FlagComponent(parser *FlagParser, opts ...ComponentOption) *Component {
	c := &Component{
		name:     "flags",
		typ:      TypeFlag,
		parser:   parser,
		provider: parser,
		required: false,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the stable identifier used to store parsed values.
func (c *Component) Name() string { return c.name }

// Type returns the component classification.
func (c *Component) Type() Type { return c.typ }

// Parser returns the component's parser capability.
func (c *Component) Parser() Parser { return c.parser }

// Required reports whether the component may not be elided.
func (c *Component) Required() bool { return c.required }

// DefaultValue returns the default, or nil if absent.
func (c *Component) DefaultValue() *DefaultValue { return c.defaultValue }

// HasDefaultValue reports whether a default is attached.
func (c *Component) HasDefaultValue() bool { return c.defaultValue != nil }

// Description returns the attached description, possibly empty.
func (c *Component) Description() string { return c.description }

// Aliases returns the literal aliases, the first being canonical. For
// non-literal components it returns only the component name.
func (c *Component) Aliases() []string {
	if lp, ok := c.parser.(*LiteralParser); ok {
		return lp.Aliases()
	}
	return []string{c.name}
}

// OwningCommand returns the command whose terminal this component is, or
// nil.
func (c *Component) OwningCommand() *Command { return c.owning }

// SetOwningCommand records the command terminating at this component.
func (c *Component) SetOwningCommand(cmd *Command) { c.owning = cmd }

// SuggestionProvider returns the provider used to complete this
// component, never nil.
func (c *Component) SuggestionProvider() SuggestionProvider {
	if c.provider == nil {
		return NoSuggestions
	}
	return c.provider
}

// Preprocess runs the parser's gating check, if it has one. Components
// whose parsers are not preprocessors always pass.
func (c *Component) Preprocess(ctx context.Context, cctx *Context, in *input.Input) ParseResult {
	if p, ok := c.parser.(Preprocessor); ok {
		return p.Preprocess(ctx, cctx, in)
	}
	return Success(true)
}

func (c *Component) String() string {
	return fmt.Sprintf("%s(%s)", c.typ, c.name)
}
