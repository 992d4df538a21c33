// Package command defines the declarative command model consumed by the
// dispatch tree: components, commands, per-invocation contexts, parse
// results, and the parser and suggestion capabilities.
//
// A command is an ordered path of components. Each component carries a
// parser that turns a prefix of the input into a value, and optionally a
// suggestion provider that completes partial tokens. The tree treats
// parsers as opaque capabilities; the special aggregate and flag parsers
// are recognized through type assertions where the walker needs them.
package command

import (
	"context"

	"cmdtree/internal/input"
)

// ParseResult is the outcome of a single parser invocation: either a
// parsed value or a failure. The zero value is a failure with no cause.
type ParseResult struct {
	value any
	ok    bool
	err   error
}

// Success wraps a parsed value.
func Success(value any) ParseResult {
	return ParseResult{value: value, ok: true}
}

// Failure wraps a parse failure. A failure is not an error in itself:
// during sibling scanning the walker absorbs failures and rewinds, and
// only committed-branch failures surface to the caller.
func Failure(err error) ParseResult {
	return ParseResult{err: err}
}

// Parsed returns the parsed value and whether one is present.
func (r ParseResult) Parsed() (any, bool) {
	return r.value, r.ok
}

// Err returns the failure cause, or nil on success.
func (r ParseResult) Err() error {
	return r.err
}

// Bool interprets the result of a preprocess check: the check passes only
// if it succeeded with a true value.
func (r ParseResult) Bool() bool {
	if !r.ok {
		return false
	}
	b, isBool := r.value.(bool)
	return isBool && b
}

// Parser turns a prefix of the input into a value. On success the input
// cursor has advanced past the consumed tokens; on failure the parser
// either leaves the cursor unchanged or relies on the caller rewinding to
// a saved cursor. Parsers may block and must honor ctx cancellation.
type Parser interface {
	Parse(ctx context.Context, cctx *Context, in *input.Input) ParseResult
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(ctx context.Context, cctx *Context, in *input.Input) ParseResult

// Parse calls the wrapped function.
func (f ParserFunc) Parse(ctx context.Context, cctx *Context, in *input.Input) ParseResult {
	return f(ctx, cctx, in)
}

// Preprocessor is an optional parser capability: a cheap gating check run
// before the real parse. If it fails or yields false, parsing is skipped.
type Preprocessor interface {
	Preprocess(ctx context.Context, cctx *Context, in *input.Input) ParseResult
}

// MultiToken is an optional parser capability reporting how many
// whitespace-separated tokens the parser will consume. Parsers that do
// not implement it consume one token.
type MultiToken interface {
	RequestedArgumentCount() int
}

// RequestedArgumentCount returns the token count requested by the parser,
// defaulting to 1.
func RequestedArgumentCount(p Parser) int {
	if mt, ok := p.(MultiToken); ok {
		return mt.RequestedArgumentCount()
	}
	return 1
}
