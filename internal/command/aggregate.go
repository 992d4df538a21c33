package command

import (
	"context"

	"cmdtree/internal/input"
)

// AggregateMapper combines the parsed sub-component values into the
// aggregate's own value. A nil mapper yields the value map itself.
type AggregateMapper func(cctx *Context, values map[string]any) (any, error)

// AggregateParser consumes multiple tokens decomposed into an ordered
// list of sub-components, each with its own parser and name. The walker
// recognizes aggregates so it can pre-consume sub-component tokens when
// computing suggestions.
type AggregateParser struct {
	components []*Component
	mapper     AggregateMapper
}

// NewAggregateParser creates an aggregate over the given sub-components.
func NewAggregateParser(mapper AggregateMapper, components ...*Component) *AggregateParser {
	return &AggregateParser{components: components, mapper: mapper}
}

// Components returns the ordered sub-components.
func (p *AggregateParser) Components() []*Component {
	out := make([]*Component, len(p.components))
	copy(out, p.components)
	return out
}

// RequestedArgumentCount sums the token counts of the sub-components.
func (p *AggregateParser) RequestedArgumentCount() int {
	count := 0
	for _, sub := range p.components {
		count += RequestedArgumentCount(sub.Parser())
	}
	return count
}

// Parse runs each sub-parser in order, storing intermediate values under
// the sub-component names, then maps the collected values.
func (p *AggregateParser) Parse(ctx context.Context, cctx *Context, in *input.Input) ParseResult {
	values := make(map[string]any, len(p.components))
	for _, sub := range p.components {
		result := sub.Parser().Parse(ctx, cctx, in)
		value, ok := result.Parsed()
		if !ok {
			return Failure(result.Err())
		}
		cctx.Store(sub.Name(), value)
		values[sub.Name()] = value
	}
	if p.mapper == nil {
		return Success(values)
	}
	mapped, err := p.mapper(cctx, values)
	if err != nil {
		return Failure(err)
	}
	return Success(mapped)
}

// Suggestions delegates to the first sub-component whose value has not
// been stored yet; the walker pre-consumes earlier sub-components before
// asking. Falls back to the last sub-component.
func (p *AggregateParser) Suggestions(ctx context.Context, cctx *Context, prefix string) []Suggestion {
	for _, sub := range p.components {
		if !cctx.Contains(sub.Name()) {
			return sub.SuggestionProvider().Suggestions(ctx, cctx, prefix)
		}
	}
	last := p.components[len(p.components)-1]
	return last.SuggestionProvider().Suggestions(ctx, cctx, prefix)
}
