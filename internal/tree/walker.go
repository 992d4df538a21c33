package tree

import (
	"context"
	"errors"

	"cmdtree/internal/command"
	"cmdtree/internal/input"
	"cmdtree/internal/logging"
	"cmdtree/internal/permission"
)

// errAmbiguityViolated signals tree corruption: more than one variable
// child survived insertion-time verification.
var errAmbiguityViolated = errors.New("ambiguity invariant violated: multiple variable children")

// Parse resolves the input against the tree, returning the single
// matching command or a typed failure. On success the context holds every
// parsed argument value keyed by component name.
func (t *Tree) Parse(ctx context.Context, cctx *command.Context, in *input.Input) (*command.Command, error) {
	if t.root.IsLeaf() && t.root.Component() == nil {
		return nil, &NoSuchCommandError{Sender: cctx.Sender(), Token: in.PeekString()}
	}

	var acc []*command.Component
	cmd, err := t.parseCommand(ctx, &acc, cctx, in, t.root)
	if err != nil {
		return nil, err
	}
	if cmd == nil {
		// A committed branch consumed the walk without producing a
		// command (preprocess denial, or an elided optional chain with
		// no executor). Surface as a syntax failure.
		return nil, &InvalidSyntaxError{
			Sender: cctx.Sender(),
			Syntax: t.formatter.Format(acc, t.root),
			Parsed: acc,
		}
	}
	if !cmd.AcceptsSender(cctx.Sender()) {
		return nil, &InvalidSenderError{Sender: cctx.Sender(), Expected: cmd.SenderKind(), Command: cmd}
	}
	logging.Parse("resolved %q to %q", in.Source(), cmd.Path())
	return cmd, nil
}

func (t *Tree) parseCommand(
	ctx context.Context,
	acc *[]*command.Component,
	cctx *command.Context,
	in *input.Input,
	node *Node,
) (*command.Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if missing := t.findMissingPermission(cctx.Sender(), node); missing != nil {
		return nil, &NoPermissionError{
			Sender:  cctx.Sender(),
			Missing: *missing,
			Chain:   chainComponents(node),
		}
	}

	if handled, cmd, err := t.attemptUnambiguousChild(ctx, acc, cctx, node, in); handled {
		return cmd, err
	}

	// Either the next token matches a literal child or no variable child
	// is present.
	if node.IsLeaf() {
		comp := node.Component()
		if comp == nil || comp.OwningCommand() == nil || !in.IsEmpty() {
			// Too many arguments for a unique path.
			return nil, &InvalidSyntaxError{
				Sender: cctx.Sender(),
				Syntax: t.formatter.Format(*acc, node),
				Parsed: copyComponents(*acc),
			}
		}
		return comp.OwningCommand(), nil
	}

	for _, child := range node.Children() {
		comp := child.Component()
		if comp == nil {
			continue
		}

		pc := cctx.CreateParsingContext(comp)
		before := in.Copy()
		pc.MarkStart()
		cctx.SetCurrentComponent(comp)

		result := comp.Parser().Parse(ctx, cctx, in)

		pc.MarkEnd()
		_, parsed := result.Parsed()
		pc.SetSuccess(parsed)
		pc.SetConsumedInput(consumedTokens(before, in))

		if parsed {
			*acc = append(*acc, comp)
			return t.parseCommand(ctx, acc, cctx, in, child)
		}
		// A plain failure means this branch did not match; rewind and
		// try the next sibling. Parse errors are not surfaced here.
		in.SetCursor(before.Cursor())
	}

	// No child matched.
	if node == t.root {
		return nil, &NoSuchCommandError{
			Sender: cctx.Sender(),
			Chain:  chainComponents(node),
			Token:  in.PeekString(),
		}
	}

	if comp := node.Component(); comp != nil && comp.OwningCommand() != nil && in.IsEmpty() {
		cmd := comp.OwningCommand()
		if missing := t.commandPermissionMissing(cctx.Sender(), cmd); missing != nil {
			return nil, &NoPermissionError{
				Sender:  cctx.Sender(),
				Missing: *missing,
				Chain:   chainComponents(node),
			}
		}
		return cmd, nil
	}

	return nil, &InvalidSyntaxError{
		Sender: cctx.Sender(),
		Syntax: t.formatter.Format(*acc, node),
		Parsed: copyComponents(*acc),
	}
}

// attemptUnambiguousChild handles the fast path for a node whose only
// viable continuation is its unique variable child. It reports handled =
// false when the next token belongs to a literal sibling or no variable
// child exists, sending the walker back to the ordinary sibling scan.
func (t *Tree) attemptUnambiguousChild(
	ctx context.Context,
	acc *[]*command.Component,
	cctx *command.Context,
	node *Node,
	in *input.Input,
) (bool, *command.Command, error) {
	children := node.Children()

	// A literal match always wins over the variable child.
	if !in.IsEmpty() && t.matchesLiteral(children, in.PeekString()) {
		return false, nil, nil
	}

	var variables []*Node
	for _, child := range children {
		if comp := child.Component(); comp != nil && comp.Type() != command.TypeLiteral {
			variables = append(variables, child)
		}
	}
	if len(variables) > 1 {
		return true, nil, errAmbiguityViolated
	}
	if len(variables) == 0 {
		return false, nil, nil
	}
	child := variables[0]
	comp := child.Component()

	if missing := t.findMissingPermission(cctx.Sender(), child); !in.IsEmpty() && missing != nil {
		return true, nil, &NoPermissionError{
			Sender:  cctx.Sender(),
			Missing: *missing,
			Chain:   chainComponents(child),
		}
	}

	var argumentValue any
	var haveValue bool

	// Flag components are skipped over here so that defaults further
	// down the chain are still handled.
	if in.IsEmpty() && comp.Type() != command.TypeFlag {
		switch {
		case comp.HasDefaultValue():
			if text, isParsed := comp.DefaultValue().ParsedText(); isParsed {
				// Re-feed the default through the walker as if the
				// sender had typed it.
				return t.attemptUnambiguousChild(ctx, acc, cctx, node, in.AppendString(text))
			}
			argumentValue, _ = comp.DefaultValue().Constant()
			haveValue = true

		case !comp.Required():
			if comp.OwningCommand() == nil {
				// The ambiguity invariants guarantee a single linear
				// chain below, so the first owning command found is
				// the only candidate. The found owner is cached on
				// the component, mirroring the original walker.
				descendant := child
				for !descendant.IsLeaf() {
					descendant = descendant.Children()[0]
					if c := descendant.Component(); c != nil && c.OwningCommand() != nil {
						comp.SetOwningCommand(c.OwningCommand())
						break
					}
				}
			}
			return true, comp.OwningCommand(), nil

		case child.IsLeaf():
			rootComp := node.Component()
			if rootComp == nil || rootComp.OwningCommand() == nil {
				// Required argument missing and nothing to fall back
				// to: render the owning command's full syntax.
				var ownerComponents []*command.Component
				if owner := comp.OwningCommand(); owner != nil {
					ownerComponents = owner.Components()
				}
				return true, nil, &InvalidSyntaxError{
					Sender: cctx.Sender(),
					Syntax: t.formatter.Format(ownerComponents, child),
					Parsed: copyComponents(*acc),
				}
			}
			return t.executeIntermediary(cctx, node, rootComp.OwningCommand())

		default:
			// Required, not a leaf: attempt the intermediary executor.
			rootComp := node.Component()
			if rootComp == nil || rootComp.OwningCommand() == nil {
				return true, nil, &InvalidSyntaxError{
					Sender: cctx.Sender(),
					Syntax: t.formatter.Format(*acc, node),
					Parsed: copyComponents(*acc),
				}
			}
			return t.executeIntermediary(cctx, node, rootComp.OwningCommand())
		}
	}

	var value any
	if haveValue {
		value = argumentValue
	} else {
		parsedValue, err := t.parseArgument(ctx, cctx, child, in)
		if err != nil {
			return true, nil, err
		}
		if parsedValue == nil {
			// Preprocessing denied the argument; no command resolves.
			return true, nil, nil
		}
		value = parsedValue
	}

	cctx.Store(comp.Name(), value)

	if child.IsLeaf() {
		if in.IsEmpty() {
			return true, comp.OwningCommand(), nil
		}
		return true, nil, &InvalidSyntaxError{
			Sender: cctx.Sender(),
			Syntax: t.formatter.Format(*acc, child),
			Parsed: copyComponents(*acc),
		}
	}

	*acc = append(*acc, comp)
	cmd, err := t.parseCommand(ctx, acc, cctx, in, child)
	return true, cmd, err
}

// executeIntermediary resolves to the intermediary executor's command if
// the sender is permitted.
func (t *Tree) executeIntermediary(cctx *command.Context, node *Node, cmd *command.Command) (bool, *command.Command, error) {
	if missing := t.commandPermissionMissing(cctx.Sender(), cmd); missing != nil {
		return true, nil, &NoPermissionError{
			Sender:  cctx.Sender(),
			Missing: *missing,
			Chain:   chainComponents(node),
		}
	}
	return true, cmd, nil
}

// parseArgument runs preprocessing and the component parser with parsing
// context bookkeeping. A preprocess denial yields (nil, nil); a parser
// failure on this committed branch surfaces as an ArgumentParseError with
// the cursor rewound.
func (t *Tree) parseArgument(ctx context.Context, cctx *command.Context, node *Node, in *input.Input) (any, error) {
	comp := node.Component()
	pc := cctx.CreateParsingContext(comp)
	pc.MarkStart()

	pre := comp.Preprocess(ctx, cctx, in)
	if !pre.Bool() {
		pc.MarkEnd()
		pc.SetSuccess(false)
		return nil, nil
	}

	cctx.SetCurrentComponent(comp)
	before := in.Copy()

	result := comp.Parser().Parse(ctx, cctx, in)

	pc.SetConsumedInput(consumedTokens(before, in))
	pc.MarkEnd()

	if value, ok := result.Parsed(); ok {
		pc.SetSuccess(true)
		return value, nil
	}

	pc.SetSuccess(false)
	in.SetCursor(before.Cursor())
	return nil, &ArgumentParseError{
		Sender: cctx.Sender(),
		Chain:  chainComponents(node),
		Cause:  result.Err(),
	}
}

func (t *Tree) matchesLiteral(children []*Node, token string) bool {
	for _, child := range children {
		comp := child.Component()
		if comp == nil || comp.Type() != command.TypeLiteral {
			continue
		}
		for _, alias := range comp.Aliases() {
			if alias == token {
				return true
			}
		}
	}
	return false
}

// commandPermissionMissing checks a command's own permission, returning
// the permission if the sender lacks it.
func (t *Tree) commandPermissionMissing(sender command.Sender, cmd *command.Command) *permission.Permission {
	p := cmd.Permission()
	if permission.Allows(t.authority, sender, p) {
		return nil
	}
	return &p
}

func consumedTokens(before, after *input.Input) []string {
	b := before.Tokens()
	a := after.Tokens()
	if len(a) >= len(b) {
		return nil
	}
	return b[:len(b)-len(a)]
}

func copyComponents(components []*command.Component) []*command.Component {
	out := make([]*command.Component, len(components))
	copy(out, components)
	return out
}
