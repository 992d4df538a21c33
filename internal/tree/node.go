// Package tree implements the command dispatch tree: a prefix trie of
// command components with insertion-time ambiguity verification,
// permission aggregation, an input parser that resolves a token stream to
// a single command, and a suggester that completes partial inputs.
package tree

import (
	"sort"

	"cmdtree/internal/command"
)

// metaPermission is the node meta key caching the aggregated permission.
const metaPermission = "permission"

// Node is one node of the dispatch tree. The synthetic root carries no
// component; every other node wraps exactly one component. Children are
// kept ordered with literals before variable components, which the walker
// relies on when scanning siblings.
//
// A node is owned by its parent's children slice; the parent pointer is a
// non-owning back-reference used to build chains for error messages and
// permission updates, and to detach a node on rollback or deletion.
type Node struct {
	component *command.Component
	children  []*Node
	parent    *Node
	meta      map[string]any
}

// NewNode creates a detached node wrapping component. The synthetic root
// passes nil.
func NewNode(component *command.Component) *Node {
	return &Node{component: component, meta: make(map[string]any)}
}

// Component returns the wrapped component, nil for the synthetic root.
func (n *Node) Component() *command.Component { return n.component }

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the ordered children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Meta returns the value stored under key in the node's meta bag.
func (n *Node) Meta(key string) (any, bool) {
	v, ok := n.meta[key]
	return v, ok
}

// SetMeta stores a value in the node's meta bag.
func (n *Node) SetMeta(key string, value any) {
	n.meta[key] = value
}

// GetChild returns the existing child matching component, or nil.
// Literals match when any alias overlaps; other components match by name
// and type.
func (n *Node) GetChild(component *command.Component) *Node {
	for _, child := range n.children {
		other := child.component
		if other == nil || other.Type() != component.Type() {
			continue
		}
		if component.Type() == command.TypeLiteral {
			if aliasesOverlap(other.Aliases(), component.Aliases()) {
				return child
			}
			continue
		}
		if other.Name() == component.Name() {
			return child
		}
	}
	return nil
}

// AddChild creates a node for component, appends it and returns it.
func (n *Node) AddChild(component *command.Component) *Node {
	child := NewNode(component)
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// RemoveChild removes a child by identity.
func (n *Node) RemoveChild(child *Node) bool {
	for i, existing := range n.children {
		if existing == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return true
		}
	}
	return false
}

// SortChildren reorders children so literals precede variable components,
// keeping the relative order within each class.
func (n *Node) SortChildren() {
	sort.SliceStable(n.children, func(i, j int) bool {
		return n.children[i].isLiteral() && !n.children[j].isLiteral()
	})
}

func (n *Node) isLiteral() bool {
	return n.component != nil && n.component.Type() == command.TypeLiteral
}

func aliasesOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
