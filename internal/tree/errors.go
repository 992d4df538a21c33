package tree

import (
	"fmt"
	"strings"

	"cmdtree/internal/command"
	"cmdtree/internal/permission"
)

// NoSuchCommandError reports that the root walker found no child matching
// the first token.
type NoSuchCommandError struct {
	Sender command.Sender
	Chain  []*command.Component
	Token  string
}

func (e *NoSuchCommandError) Error() string {
	return fmt.Sprintf("no such command: %q", e.Token)
}

// InvalidSyntaxError reports input that entered the tree but did not
// resolve to a command: leftover tokens at a leaf, a missing required
// argument, or children that all rejected the input.
type InvalidSyntaxError struct {
	Sender command.Sender
	Syntax string
	Parsed []*command.Component
}

func (e *InvalidSyntaxError) Error() string {
	return fmt.Sprintf("invalid command syntax, correct syntax is: %s", e.Syntax)
}

// NoPermissionError reports a permission check failing on the accepted
// path.
type NoPermissionError struct {
	Sender  command.Sender
	Missing permission.Permission
	Chain   []*command.Component
}

func (e *NoPermissionError) Error() string {
	return fmt.Sprintf("missing permission %s", e.Missing)
}

// InvalidSenderError reports an accepted command requiring a sender kind
// the caller is not.
type InvalidSenderError struct {
	Sender   command.Sender
	Expected string
	Command  *command.Command
}

func (e *InvalidSenderError) Error() string {
	got := "<none>"
	if e.Sender != nil {
		got = e.Sender.Kind()
	}
	return fmt.Sprintf("command requires sender of kind %q, got %q", e.Expected, got)
}

// ArgumentParseError wraps a component parser failure on a committed
// unambiguous branch. Unlike failures absorbed during sibling scanning,
// these surface to the caller.
type ArgumentParseError struct {
	Sender command.Sender
	Chain  []*command.Component
	Cause  error
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("invalid argument: %v", e.Cause)
}

func (e *ArgumentParseError) Unwrap() error { return e.Cause }

// AmbiguousNodeError reports an insertion that would create two variable
// siblings or two literals with overlapping aliases.
type AmbiguousNodeError struct {
	ParentComponent *command.Component
	Child           *command.Component
	Siblings        []*command.Component
}

func (e *AmbiguousNodeError) Error() string {
	names := make([]string, 0, len(e.Siblings))
	for _, sibling := range e.Siblings {
		names = append(names, sibling.Name())
	}
	return fmt.Sprintf("ambiguous node %q among siblings [%s]", e.Child.Name(), strings.Join(names, ", "))
}

// NoCommandInLeafError reports a leaf left without an owning command
// after insertion.
type NoCommandInLeafError struct {
	Component *command.Component
}

func (e *NoCommandInLeafError) Error() string {
	return fmt.Sprintf("leaf node %q has no owning command", e.Component.Name())
}

// DuplicateCommandError reports an insertion whose terminal node already
// owns a command.
type DuplicateCommandError struct {
	Component *command.Component
	Existing  *command.Command
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("duplicate command chain: node %q already owned by %q", e.Component.Name(), e.Existing.Path())
}
