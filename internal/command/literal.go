package command

import (
	"context"
	"fmt"

	"cmdtree/internal/input"
)

// LiteralParser matches the next token against a fixed alias set. The
// first alias is canonical. Matching during parsing is case-sensitive;
// only the tree's named-node lookup compares case-insensitively.
type LiteralParser struct {
	aliases []string
}

// NewLiteralParser creates a literal parser answering to name and any
// additional aliases.
func NewLiteralParser(name string, aliases ...string) *LiteralParser {
	all := make([]string, 0, len(aliases)+1)
	all = append(all, name)
	for _, alias := range aliases {
		if alias != name {
			all = append(all, alias)
		}
	}
	return &LiteralParser{aliases: all}
}

// Name returns the canonical alias.
func (p *LiteralParser) Name() string { return p.aliases[0] }

// Aliases returns a copy of the alias set, canonical first.
func (p *LiteralParser) Aliases() []string {
	out := make([]string, len(p.aliases))
	copy(out, p.aliases)
	return out
}

// Accepts reports whether token equals any alias.
func (p *LiteralParser) Accepts(token string) bool {
	for _, alias := range p.aliases {
		if alias == token {
			return true
		}
	}
	return false
}

// InsertAlias merges an alias into the set. Reports whether the alias was
// newly added; the tree uses this to roll back failed insertions.
func (p *LiteralParser) InsertAlias(alias string) bool {
	if p.Accepts(alias) {
		return false
	}
	p.aliases = append(p.aliases, alias)
	return true
}

// RemoveAlias removes a non-canonical alias from the set.
func (p *LiteralParser) RemoveAlias(alias string) {
	for i, existing := range p.aliases {
		if i > 0 && existing == alias {
			p.aliases = append(p.aliases[:i], p.aliases[i+1:]...)
			return
		}
	}
}

// Parse consumes the next token if it equals one of the aliases.
func (p *LiteralParser) Parse(_ context.Context, _ *Context, in *input.Input) ParseResult {
	token := in.PeekString()
	if token == "" {
		return Failure(ErrNoInputProvided)
	}
	if !p.Accepts(token) {
		return Failure(fmt.Errorf("%w: %q is none of %v", ErrNoMatchingLiteral, token, p.aliases))
	}
	in.ReadString()
	return Success(token)
}

// Suggestions offers every alias; filtering against the typed prefix is
// applied by the suggestion pipeline.
func (p *LiteralParser) Suggestions(_ context.Context, _ *Context, _ string) []Suggestion {
	return SuggestionsOf(p.aliases...)
}
