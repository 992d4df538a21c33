package tree

import (
	"strings"
	"sync"

	"cmdtree/internal/command"
	"cmdtree/internal/logging"
	"cmdtree/internal/permission"
)

// Settings are the manager settings recognized by the tree core.
type Settings struct {
	// LiberalFlagParsing grafts the flag component after the last
	// literal and after every component that follows it, instead of only
	// at the command tail.
	LiberalFlagParsing bool

	// EnforceIntermediaryPermissions makes an intermediary executor's
	// permission override the aggregated child permissions instead of
	// joining them.
	EnforceIntermediaryPermissions bool
}

// SettingsProvider supplies the current settings. Providers may change
// their answer between insertions (never during one; the tree holds its
// write lock for the whole insert).
type SettingsProvider interface {
	TreeSettings() Settings
}

// StaticSettings is a fixed SettingsProvider.
type StaticSettings Settings

// TreeSettings returns the fixed settings.
func (s StaticSettings) TreeSettings() Settings { return Settings(s) }

// RegistrationHandler receives every command owning a leaf after each
// successful insertion. Implementations must be idempotent: commands are
// re-reported on every insert.
type RegistrationHandler interface {
	Register(cmd *command.Command)
}

// RegistrationHandlerFunc adapts a function to RegistrationHandler.
type RegistrationHandlerFunc func(cmd *command.Command)

// Register calls the wrapped function.
func (f RegistrationHandlerFunc) Register(cmd *command.Command) { f(cmd) }

// nopRegistration ignores registrations.
var nopRegistration RegistrationHandler = RegistrationHandlerFunc(func(*command.Command) {})

// Tree is the command dispatch tree. Insertions are serialized by an
// internal write lock; parse and suggest are lock-free read paths that
// must not run concurrently with an insertion.
type Tree struct {
	mu   sync.Mutex
	root *Node

	authority    permission.Authority
	registration RegistrationHandler
	formatter    SyntaxFormatter
	processor    command.SuggestionProcessor
	settings     SettingsProvider
}

// Option configures a Tree.
type Option func(*Tree)

// WithAuthority sets the permission authority. Defaults to allowing
// everything.
func WithAuthority(a permission.Authority) Option {
	return func(t *Tree) { t.authority = a }
}

// WithRegistrationHandler sets the handler notified of inserted commands.
func WithRegistrationHandler(h RegistrationHandler) Option {
	return func(t *Tree) { t.registration = h }
}

// WithSyntaxFormatter sets the formatter used in syntax error messages.
func WithSyntaxFormatter(f SyntaxFormatter) Option {
	return func(t *Tree) { t.formatter = f }
}

// WithSuggestionProcessor sets the processor applied to every raw
// suggestion.
func WithSuggestionProcessor(p command.SuggestionProcessor) Option {
	return func(t *Tree) { t.processor = p }
}

// WithSettings sets the settings provider.
func WithSettings(s SettingsProvider) Option {
	return func(t *Tree) { t.settings = s }
}

// New creates an empty dispatch tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		root:         NewNode(nil),
		authority:    permission.AllowAll,
		registration: nopRegistration,
		formatter:    StandardSyntaxFormatter{},
		settings:     StaticSettings{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.processor == nil {
		t.processor = command.FilteringProcessor()
	}
	return t
}

// Root returns the synthetic root node.
func (t *Tree) Root() *Node { return t.root }

// RootNodes returns a copy of the root's children.
func (t *Tree) RootNodes() []*Node {
	return t.root.Children()
}

// NamedNode returns the root literal node matching name, comparing
// aliases case-insensitively, or nil. Only this lookup is
// case-insensitive; literal matching during parsing is exact.
func (t *Tree) NamedNode(name string) *Node {
	for _, node := range t.root.children {
		comp := node.Component()
		if comp == nil || comp.Type() != command.TypeLiteral {
			continue
		}
		for _, alias := range comp.Aliases() {
			if strings.EqualFold(alias, name) {
				return node
			}
		}
	}
	return nil
}

// DeleteRecursively removes node and its whole subtree, invoking
// onCommand for every owning command encountered. When isRoot is true
// the node is detached from the tree root, otherwise from its parent.
func (t *Tree) DeleteRecursively(node *Node, isRoot bool, onCommand func(*command.Command)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deleteRecursively(node, isRoot, onCommand)
}

func (t *Tree) deleteRecursively(node *Node, isRoot bool, onCommand func(*command.Command)) {
	for _, child := range node.Children() {
		t.deleteRecursively(child, false, onCommand)
	}
	if comp := node.Component(); comp != nil {
		if owner := comp.OwningCommand(); owner != nil && onCommand != nil {
			onCommand(owner)
		}
	}
	if isRoot {
		t.root.RemoveChild(node)
	} else if node.parent != nil {
		node.parent.RemoveChild(node)
	}
	logging.Tree("deleted subtree rooted at %s", describeNode(node))
}

// leaves returns all leaf nodes below node that carry a component.
func (t *Tree) leaves(node *Node) []*Node {
	if node.IsLeaf() {
		if node.component != nil {
			return []*Node{node}
		}
		return nil
	}
	var out []*Node
	for _, child := range node.children {
		out = append(out, t.leaves(child)...)
	}
	return out
}

// chain returns the nodes from the root down to end, inclusive.
func chain(end *Node) []*Node {
	var reversed []*Node
	for tail := end; tail != nil; tail = tail.parent {
		reversed = append(reversed, tail)
	}
	out := make([]*Node, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		out = append(out, reversed[i])
	}
	return out
}

// chainComponents returns the components along the chain to end,
// skipping the synthetic root.
func chainComponents(end *Node) []*command.Component {
	nodes := chain(end)
	out := make([]*command.Component, 0, len(nodes))
	for _, node := range nodes {
		if node.component != nil {
			out = append(out, node.component)
		}
	}
	return out
}

func describeNode(node *Node) string {
	if node == nil || node.component == nil {
		return "<root>"
	}
	names := make([]string, 0, 4)
	for _, comp := range chainComponents(node) {
		names = append(names, comp.Name())
	}
	return strings.Join(names, " ")
}
