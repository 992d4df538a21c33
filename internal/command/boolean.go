package command

import (
	"context"
	"strings"

	"cmdtree/internal/input"
)

// BooleanParser parses true/false tokens. In liberal mode it also
// accepts yes/no/on/off.
type BooleanParser struct {
	liberal bool
}

// NewBooleanParser accepts only "true" and "false".
func NewBooleanParser() *BooleanParser {
	return &BooleanParser{}
}

// NewLiberalBooleanParser also accepts yes/no/on/off.
func NewLiberalBooleanParser() *BooleanParser {
	return &BooleanParser{liberal: true}
}

// Parse consumes the next token as a boolean.
func (p *BooleanParser) Parse(_ context.Context, _ *Context, in *input.Input) ParseResult {
	token := in.PeekString()
	if token == "" {
		return Failure(ErrNoInputProvided)
	}
	switch strings.ToLower(token) {
	case "true":
		in.ReadString()
		return Success(true)
	case "false":
		in.ReadString()
		return Success(false)
	case "yes", "on":
		if p.liberal {
			in.ReadString()
			return Success(true)
		}
	case "no", "off":
		if p.liberal {
			in.ReadString()
			return Success(false)
		}
	}
	return Failure(&BooleanParseError{Input: token, Liberal: p.liberal})
}

// Suggestions offers the accepted boolean forms.
func (p *BooleanParser) Suggestions(_ context.Context, _ *Context, _ string) []Suggestion {
	if p.liberal {
		return SuggestionsOf("true", "false", "yes", "no", "on", "off")
	}
	return SuggestionsOf("true", "false")
}
