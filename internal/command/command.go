package command

import (
	"context"
	"strings"

	"cmdtree/internal/permission"
)

// Sender is whoever issued the command. The kind discriminates sender
// categories (console, player, service) so commands can restrict who may
// run them.
type Sender interface {
	// Name identifies the sender for permission checks and logs.
	Name() string
	// Kind is the sender category.
	Kind() string
}

// SimpleSender is a plain value implementation of Sender.
type SimpleSender struct {
	SenderName string
	SenderKind string
}

// Name returns the sender name.
func (s SimpleSender) Name() string { return s.SenderName }

// Kind returns the sender kind.
func (s SimpleSender) Kind() string { return s.SenderKind }

// Handler executes a fully parsed command with the populated context.
type Handler func(ctx context.Context, cctx *Context) error

// Command is the external value inserted into the dispatch tree: an
// ordered path of non-flag components, an optional flag component, a
// permission, an optional required sender kind, and a handler.
//
// The tree treats commands as opaque except for these fields.
type Command struct {
	components    []*Component
	flagComponent *Component
	perm          permission.Permission
	senderKind    string
	handler       Handler
}

// New creates a command over the given non-flag components.
func New(components ...*Component) *Command {
	return &Command{components: components}
}

// WithPermission sets the permission required to execute the command.
func (c *Command) WithPermission(p permission.Permission) *Command {
	c.perm = p
	return c
}

// WithSenderKind restricts the command to senders of the given kind.
func (c *Command) WithSenderKind(kind string) *Command {
	c.senderKind = kind
	return c
}

// WithFlags attaches a flag component parsed at the command's tail (or,
// under liberal flag parsing, after the last literal and after every
// component that follows it).
func (c *Command) WithFlags(flags *Component) *Command {
	c.flagComponent = flags
	return c
}

// Handles sets the handler invoked once the command is resolved.
func (c *Command) Handles(handler Handler) *Command {
	c.handler = handler
	return c
}

// Components returns the ordered non-flag components.
func (c *Command) Components() []*Component {
	out := make([]*Component, len(c.components))
	copy(out, c.components)
	return out
}

// FlagComponent returns the flag component, or nil.
func (c *Command) FlagComponent() *Component { return c.flagComponent }

// Permission returns the command permission; the zero permission allows
// everyone.
func (c *Command) Permission() permission.Permission { return c.perm }

// SenderKind returns the required sender kind, or "" when any sender may
// execute the command.
func (c *Command) SenderKind() string { return c.senderKind }

// AcceptsSender reports whether the sender's kind satisfies the command's
// sender requirement.
func (c *Command) AcceptsSender(sender Sender) bool {
	return c.senderKind == "" || sender == nil || sender.Kind() == c.senderKind
}

// Handler returns the command handler, or nil.
func (c *Command) Handler() Handler { return c.handler }

// Execute runs the handler. Commands without a handler execute as no-ops.
func (c *Command) Execute(ctx context.Context, cctx *Context) error {
	if c.handler == nil {
		return nil
	}
	return c.handler(ctx, cctx)
}

// Path renders the canonical component path, used in logs and duplicate
// chain errors.
func (c *Command) Path() string {
	parts := make([]string, 0, len(c.components))
	for _, comp := range c.components {
		parts = append(parts, comp.Name())
	}
	return strings.Join(parts, " ")
}

func (c *Command) String() string {
	return c.Path()
}
