package tree

import (
	"errors"

	"cmdtree/internal/command"
	"cmdtree/internal/logging"
)

// ErrEmptyCommand is returned when a command without components is
// inserted.
var ErrEmptyCommand = errors.New("command has no components")

// TopLevelVariableError reports a command whose first component is not a
// literal.
type TopLevelVariableError struct {
	Component *command.Component
}

func (e *TopLevelVariableError) Error() string {
	return "top level command component must be a literal, got " + e.Component.String()
}

// aliasAdd records an alias merged into an existing literal parser, so a
// failed insertion can remove it again.
type aliasAdd struct {
	parser *command.LiteralParser
	alias  string
}

// insertJournal records the mutations of one insertion. If verification
// fails the journal is unwound so the tree is left exactly as before;
// insertion is atomic at the public API level.
type insertJournal struct {
	created []*Node
	aliases []aliasAdd
	owner   *command.Component
}

func (j *insertJournal) rollback() {
	if j.owner != nil {
		j.owner.SetOwningCommand(nil)
	}
	for i := len(j.created) - 1; i >= 0; i-- {
		node := j.created[i]
		if node.parent != nil {
			node.parent.RemoveChild(node)
		}
	}
	for _, added := range j.aliases {
		added.parser.RemoveAlias(added.alias)
	}
}

// InsertCommand grafts the command's component path onto the tree, merges
// literal aliases into existing nodes, grafts the flag component at the
// positions dictated by the flag parsing setting, and verifies the tree
// invariants. On any failure the tree is rolled back to its prior state.
func (t *Tree) InsertCommand(cmd *command.Command) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	components := cmd.Components()
	if len(components) == 0 {
		return ErrEmptyCommand
	}

	journal := &insertJournal{}
	defer func() {
		if err != nil {
			journal.rollback()
		}
	}()

	flagComponent := cmd.FlagComponent()
	flagStart := t.flagStartIndex(components)

	node := t.root
	for i, comp := range components {
		child := node.GetChild(comp)
		if child == nil {
			child = node.AddChild(comp)
			journal.created = append(journal.created, child)
		} else if comp.Type() == command.TypeLiteral && child.Component() != nil {
			// The existing node answers to the merged alias set from
			// now on.
			existing := child.Component().Parser().(*command.LiteralParser)
			for _, alias := range comp.Aliases() {
				if existing.InsertAlias(alias) {
					journal.aliases = append(journal.aliases, aliasAdd{existing, alias})
				}
			}
		}
		node.SortChildren()
		node = child

		// Graft the flag component at every insertion point at or past
		// the flag start index; the walk continues below the flag node
		// so trailing components parse after the flags.
		if flagComponent != nil && i >= flagStart {
			flagChild := node.AddChild(flagComponent)
			journal.created = append(journal.created, flagChild)
			node = flagChild
		}
	}

	terminal := node.Component()
	if terminal != nil {
		if existing := terminal.OwningCommand(); existing != nil {
			return &DuplicateCommandError{Component: terminal, Existing: existing}
		}
		terminal.SetOwningCommand(cmd)
		journal.owner = terminal
	}

	if err := t.verifyAndRegister(); err != nil {
		return err
	}
	logging.Tree("inserted command %q", cmd.Path())
	return nil
}

// flagStartIndex returns the component index after which the flag
// component may be grafted: the last literal under liberal flag parsing,
// otherwise the final component.
func (t *Tree) flagStartIndex(components []*command.Component) int {
	if t.settings.TreeSettings().LiberalFlagParsing {
		for i := len(components) - 1; i >= 0; i-- {
			if components[i].Type() == command.TypeLiteral {
				return i
			}
		}
	}
	return len(components) - 1
}

// verifyAndRegister enforces the tree invariants, reports every leaf's
// command to the registration handler and recomputes the cached
// permissions. Checks run before any side effect so that a failure leaves
// nothing half-registered.
func (t *Tree) verifyAndRegister() error {
	for _, child := range t.root.children {
		comp := child.Component()
		if comp != nil && comp.Type() != command.TypeLiteral {
			return &TopLevelVariableError{Component: comp}
		}
	}

	if err := t.checkAmbiguity(t.root); err != nil {
		return err
	}

	leaves := t.leaves(t.root)
	for _, leaf := range leaves {
		if leaf.Component().OwningCommand() == nil {
			return &NoCommandInLeafError{Component: leaf.Component()}
		}
	}

	for _, leaf := range leaves {
		t.registration.Register(leaf.Component().OwningCommand())
	}
	for _, leaf := range leaves {
		t.updatePermission(leaf)
	}
	return nil
}

// checkAmbiguity verifies invariants 1 and 5: at most one variable child
// per node, and no two literal siblings sharing an alias.
func (t *Tree) checkAmbiguity(node *Node) error {
	if node.IsLeaf() {
		return nil
	}

	var variables []*Node
	var literals []*Node
	for _, child := range node.children {
		if child.Component() == nil {
			continue
		}
		if child.Component().Type() == command.TypeLiteral {
			literals = append(literals, child)
		} else {
			variables = append(variables, child)
		}
	}

	if len(variables) > 1 {
		return &AmbiguousNodeError{
			ParentComponent: node.Component(),
			Child:           variables[0].Component(),
			Siblings:        siblingComponents(node),
		}
	}

	seen := make(map[string]bool)
	for _, child := range literals {
		for _, alias := range child.Component().Aliases() {
			if seen[alias] {
				return &AmbiguousNodeError{
					ParentComponent: node.Component(),
					Child:           child.Component(),
					Siblings:        siblingComponents(node),
				}
			}
			seen[alias] = true
		}
	}

	for _, child := range node.children {
		if err := t.checkAmbiguity(child); err != nil {
			return err
		}
	}
	return nil
}

func siblingComponents(node *Node) []*command.Component {
	var out []*command.Component
	for _, child := range node.children {
		if child.Component() != nil {
			out = append(out, child.Component())
		}
	}
	return out
}
