package tree

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"cmdtree/internal/command"
	"cmdtree/internal/input"
	"cmdtree/internal/logging"
)

// Suggest computes completion candidates for a partial input. The result
// is an ordered, deduplicated set filtered so that every suggestion
// extends (and differs from) the token currently being typed.
func (t *Tree) Suggest(ctx context.Context, cctx *command.Context, in *input.Input) ([]command.Suggestion, error) {
	cctx.SetSuggesting(true)
	sctx := command.NewSuggestionContext(cctx, in, t.processor)
	if err := t.suggestAt(ctx, sctx, in, t.root); err != nil {
		return nil, err
	}
	suggestions := sctx.Suggestions()
	logging.Suggest("%d suggestions for %q", len(suggestions), in.Source())
	return suggestions, nil
}

func (t *Tree) suggestAt(ctx context.Context, sctx *command.SuggestionContext, in *input.Input, node *Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cctx := sctx.CommandContext()
	if t.findMissingPermission(cctx.Sender(), node) != nil {
		return nil
	}

	children := node.Children()
	var literals []*Node
	for _, child := range children {
		if comp := child.Component(); comp != nil && comp.Type() == command.TypeLiteral {
			literals = append(literals, child)
		}
	}

	// If a literal matches the next token exactly, descend: the useful
	// suggestions live deeper in the tree.
	if len(literals) > 0 && !in.IsBlank() {
		snapshot := in.Cursor()
		for _, child := range literals {
			comp := child.Component()
			cctx.SetCurrentComponent(comp)
			result := comp.Parser().Parse(ctx, cctx, in)
			if _, ok := result.Parsed(); !ok {
				in.SetCursor(snapshot)
				continue
			}
			if in.IsEmpty() {
				// Matched exactly with nothing after it; the current
				// level still owns the suggestions.
				break
			}
			return t.suggestAt(ctx, sctx, in, child)
		}
		in.SetCursor(snapshot)
	}

	// Literal suggestions apply only when completing the final token.
	if in.RemainingTokens() <= 1 {
		literalValue := in.PeekString()
		for _, child := range literals {
			t.addLiteralSuggestions(ctx, sctx, child, literalValue)
		}
	}

	for _, child := range children {
		comp := child.Component()
		if comp == nil || comp.Type() == command.TypeLiteral {
			continue
		}
		if err := t.addDynamicSuggestions(ctx, sctx, in, child); err != nil {
			return err
		}
	}
	return nil
}

// addLiteralSuggestions asks a literal child's provider for candidates
// matching the token being typed.
func (t *Tree) addLiteralSuggestions(ctx context.Context, sctx *command.SuggestionContext, node *Node, token string) {
	cctx := sctx.CommandContext()
	if t.findMissingPermission(cctx.Sender(), node) != nil {
		return
	}
	comp := node.Component()
	cctx.SetCurrentComponent(comp)
	for _, s := range comp.SuggestionProvider().Suggestions(ctx, cctx, token) {
		if s.Text == token || !strings.HasPrefix(s.Text, token) {
			continue
		}
		sctx.Add(s)
	}
}

// addDynamicSuggestions computes suggestions for a variable child:
// aggregates pre-consume their leading sub-components, flag parsers
// record which flag value is being typed, and multi-token parsers stash
// the tokens already supplied so contextual providers can see them.
func (t *Tree) addDynamicSuggestions(ctx context.Context, sctx *command.SuggestionContext, in *input.Input, child *Node) error {
	comp := child.Component()
	cctx := sctx.CommandContext()

	switch parser := comp.Parser().(type) {
	case *command.AggregateParser:
		t.popRequiredArguments(ctx, cctx, in, parser)
	case *command.FlagParser:
		// Record which flag value is being typed, if any, so flag
		// suggestion providers switch between names and values.
		if name, ok := parser.ParseCurrentFlag(cctx, in); ok {
			cctx.Store(command.FlagMetaKey, name)
		} else {
			cctx.Remove(command.FlagMetaKey)
		}
	default:
		if requested := command.RequestedArgumentCount(comp.Parser()); in.RemainingTokens() <= requested {
			// Stash the already-supplied tokens so the provider can
			// give contextual suggestions for the remaining ones.
			for i := 0; i < requested-1 && in.RemainingTokens() > 1; i++ {
				cctx.Store(fmt.Sprintf("%s_%d", comp.Name(), i), in.ReadString())
			}
		}
	}

	if in.IsEmpty() {
		return nil
	}
	if in.RemainingTokens() == 1 {
		return t.addNodeSuggestions(ctx, sctx, child, in.PeekString())
	}
	if _, isAggregate := comp.Parser().(*command.AggregateParser); isAggregate && child.IsLeaf() {
		return t.addNodeSuggestions(ctx, sctx, child, in.LastRemainingToken())
	}

	original := in.Copy()

	pre := comp.Preprocess(ctx, cctx, in)
	preOK := pre.Bool()

	if preOK {
		cctx.SetCurrentComponent(comp)
		beforeParse := in.Copy()
		result := comp.Parser().Parse(ctx, cctx, in)
		value, parsed := result.Parsed()
		if !parsed {
			in.SetCursor(beforeParse.Cursor())
		}

		if child.IsLeaf() {
			if !in.IsEmpty() {
				// More input follows a leaf; nothing to suggest here.
				return nil
			}
			// A greedy parser took all the input: rewind and suggest on
			// the full remaining text.
			in.SetCursor(original.Cursor())
			return t.addNodeSuggestions(ctx, sctx, child, in.RemainingInput())
		}

		if parsed && !in.IsEmpty() {
			// The token at this position parses and more input
			// follows: the sender is completing a deeper component.
			cctx.Store(comp.Name(), value)
			return t.suggestAt(ctx, sctx, in, child)
		}
		if !parsed && original.RemainingTokens() > 1 {
			// The current token does not match and more input follows;
			// no suggestions from this component apply.
			in.SetCursor(original.Cursor())
			return nil
		}
	}

	in.SetCursor(original.Cursor())
	if !preOK && in.RemainingTokens() > 1 {
		// The preprocessor rejected this argument while a later one is
		// being completed.
		return nil
	}
	return t.addNodeSuggestions(ctx, sctx, child, in.PeekString())
}

// popRequiredArguments consumes the tokens belonging to an aggregate's
// leading sub-components, leaving at least one token for the suggestion
// handoff, and stores each partial value under its sub-component name.
func (t *Tree) popRequiredArguments(ctx context.Context, cctx *command.Context, in *input.Input, parser *command.AggregateParser) {
	if in.RemainingTokens() > parser.RequestedArgumentCount() {
		return
	}
	components := parser.Components()
	for i := 0; i < len(components)-1 && in.RemainingTokens() > 1; i++ {
		comp := components[i]
		result := comp.Parser().Parse(ctx, cctx, in)
		if value, ok := result.Parsed(); ok {
			cctx.Store(comp.Name(), value)
		}
	}
}

// addNodeSuggestions collects the component's own suggestions and, for a
// consumed flag component, fans out to the children's providers as well:
// once the flag is complete the next argument is being suggested.
func (t *Tree) addNodeSuggestions(ctx context.Context, sctx *command.SuggestionContext, node *Node, text string) error {
	comp := node.Component()
	cctx := sctx.CommandContext()
	cctx.SetCurrentComponent(comp)
	sctx.AddAll(comp.SuggestionProvider().Suggestions(ctx, cctx, text))

	followFlag := comp.Type() == command.TypeFlag &&
		!node.IsLeaf() &&
		!strings.HasPrefix(text, "-") &&
		!cctx.Contains(command.FlagMetaKey)
	if !followFlag {
		return nil
	}

	// The providers are independent per child; collect into indexed
	// slots so the accumulated order stays deterministic.
	children := node.Children()
	results := make([][]command.Suggestion, len(children))
	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		childComp := child.Component()
		if childComp == nil {
			continue
		}
		clone := cctx.Clone()
		clone.SetCurrentComponent(childComp)
		g.Go(func() error {
			results[i] = childComp.SuggestionProvider().Suggestions(gctx, clone, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, suggestions := range results {
		sctx.AddAll(suggestions)
	}
	return nil
}
