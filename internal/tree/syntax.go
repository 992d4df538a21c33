package tree

import (
	"strings"

	"cmdtree/internal/command"
)

// SyntaxFormatter renders a human-readable command path for syntax error
// messages: the components parsed so far followed by the unique
// continuation below the given node, if any.
type SyntaxFormatter interface {
	Format(parsed []*command.Component, node *Node) string
}

// StandardSyntaxFormatter renders literals bare, required arguments in
// angle brackets, optional arguments in square brackets and flag groups
// as their flag names.
type StandardSyntaxFormatter struct{}

// Format implements SyntaxFormatter.
func (StandardSyntaxFormatter) Format(parsed []*command.Component, node *Node) string {
	var parts []string
	for _, comp := range parsed {
		parts = append(parts, renderComponent(comp))
	}
	// Walk down the unique child chain to show the expected
	// continuation.
	current := node
	for current != nil {
		children := current.Children()
		if len(children) != 1 {
			break
		}
		child := children[0]
		if child.Component() == nil {
			break
		}
		parts = append(parts, renderComponent(child.Component()))
		current = child
	}
	return strings.Join(parts, " ")
}

func renderComponent(comp *command.Component) string {
	switch comp.Type() {
	case command.TypeLiteral:
		return comp.Aliases()[0]
	case command.TypeFlag:
		if fp, ok := comp.Parser().(*command.FlagParser); ok {
			names := make([]string, 0, len(fp.Flags()))
			for _, flag := range fp.Flags() {
				names = append(names, "--"+flag.Name())
			}
			return "[" + strings.Join(names, " ") + "]"
		}
		return "[flags]"
	default:
		if comp.Required() {
			return "<" + comp.Name() + ">"
		}
		return "[" + comp.Name() + "]"
	}
}
