package command

import (
	"context"
	"strings"

	"cmdtree/internal/input"
)

// FlagMetaKey is the context key under which the suggester records the
// name of the flag whose value is currently being typed. Suggestion
// providers consult it to complete flag values instead of flag names.
const FlagMetaKey = "__current_flag__"

// Flag describes one modifier accepted by a flag component: a long name
// (--name), optional single-character aliases (-n), and an optional value
// component. Flags without a value component are presence flags storing
// true.
type Flag struct {
	name      string
	aliases   []string
	component *Component
}

// NewFlag creates a presence flag.
func NewFlag(name string, aliases ...string) *Flag {
	return &Flag{name: name, aliases: aliases}
}

// NewValueFlag creates a flag whose argument is parsed by the given
// component.
func NewValueFlag(name string, component *Component, aliases ...string) *Flag {
	return &Flag{name: name, aliases: aliases, component: component}
}

// Name returns the long flag name, without dashes.
func (f *Flag) Name() string { return f.name }

// Aliases returns the single-character aliases.
func (f *Flag) Aliases() []string {
	out := make([]string, len(f.aliases))
	copy(out, f.aliases)
	return out
}

// Component returns the value component, or nil for presence flags.
func (f *Flag) Component() *Component { return f.component }

// TakesValue reports whether the flag consumes an argument.
func (f *Flag) TakesValue() bool { return f.component != nil }

// FlagParser parses "-x value --long value" style modifiers. It consumes
// tokens while they look like flags and stops, successfully, at the first
// token that does not start with a dash so that components grafted below
// a flag node can continue parsing.
type FlagParser struct {
	flags []*Flag
}

// NewFlagParser creates a flag parser over the given flag set.
func NewFlagParser(flags ...*Flag) *FlagParser {
	return &FlagParser{flags: flags}
}

// Flags returns the registered flags.
func (p *FlagParser) Flags() []*Flag {
	out := make([]*Flag, len(p.flags))
	copy(out, p.flags)
	return out
}

// lookupLong resolves a long flag name.
func (p *FlagParser) lookupLong(name string) *Flag {
	for _, f := range p.flags {
		if f.name == name {
			return f
		}
	}
	return nil
}

// lookupAlias resolves a single-character alias.
func (p *FlagParser) lookupAlias(alias string) *Flag {
	for _, f := range p.flags {
		for _, a := range f.aliases {
			if a == alias {
				return f
			}
		}
	}
	return nil
}

// resolve maps a typed flag token (with dashes) to a flag.
func (p *FlagParser) resolve(token string) *Flag {
	if strings.HasPrefix(token, "--") {
		return p.lookupLong(strings.TrimPrefix(token, "--"))
	}
	if strings.HasPrefix(token, "-") {
		return p.lookupAlias(strings.TrimPrefix(token, "-"))
	}
	return nil
}

// Parse reads flag tokens until the input is exhausted or a non-flag
// token is reached. Parsed values land in the context under the flag
// name; presence flags store true.
//
// During suggestion invocations the parser is lenient: instead of
// failing on an unknown flag, a duplicate or a missing value it consumes
// the rest of the input and succeeds, so the suggester can rewind and
// complete the partial flag text.
func (p *FlagParser) Parse(ctx context.Context, cctx *Context, in *input.Input) ParseResult {
	parsed := make(map[string]bool)
	fail := func(err error) ParseResult {
		if cctx != nil && cctx.Suggesting() {
			in.ReadRemaining()
			return Success(len(parsed))
		}
		return Failure(err)
	}
	for !in.IsBlank() {
		token := in.PeekString()
		if !strings.HasPrefix(token, "-") {
			break
		}
		in.ReadString()

		var flags []*Flag
		if strings.HasPrefix(token, "--") {
			flag := p.lookupLong(strings.TrimPrefix(token, "--"))
			if flag == nil {
				return fail(&UnknownFlagError{Flag: token})
			}
			flags = []*Flag{flag}
		} else {
			// Grouped short flags (-ab) must all be presence flags; a
			// lone short flag may take a value.
			chars := strings.TrimPrefix(token, "-")
			for _, c := range chars {
				flag := p.lookupAlias(string(c))
				if flag == nil {
					return fail(&UnknownFlagError{Flag: token})
				}
				if flag.TakesValue() && len(chars) > 1 {
					return fail(&FlagArgumentError{Flag: flag.name})
				}
				flags = append(flags, flag)
			}
		}

		for _, flag := range flags {
			if parsed[flag.name] {
				return fail(&DuplicateFlagError{Flag: flag.name})
			}
			parsed[flag.name] = true

			if !flag.TakesValue() {
				storeFlag(cctx, flag.name, true)
				continue
			}
			if in.IsBlank() {
				return fail(&FlagArgumentError{Flag: flag.name})
			}
			result := flag.component.Parser().Parse(ctx, cctx, in)
			value, ok := result.Parsed()
			if !ok {
				return fail(&FlagArgumentError{Flag: flag.name, Cause: result.Err()})
			}
			storeFlag(cctx, flag.name, value)
		}
	}
	return Success(len(parsed))
}

// ParseCurrentFlag identifies the flag whose value is currently being
// typed, for suggestion purposes. It reports a flag only when the
// second-to-last remaining token names a value flag and the last token is
// its partial argument.
func (p *FlagParser) ParseCurrentFlag(_ *Context, in *input.Input) (string, bool) {
	tokens := in.Tokens()
	if len(tokens) < 2 {
		return "", false
	}
	last := tokens[len(tokens)-1]
	if strings.HasPrefix(last, "-") {
		return "", false
	}
	previous := tokens[len(tokens)-2]
	if !strings.HasPrefix(previous, "-") {
		return "", false
	}
	flag := p.resolve(previous)
	if flag == nil || !flag.TakesValue() {
		return "", false
	}
	return flag.name, true
}

// Suggestions offers flag names, or the active flag's value suggestions
// when the suggester has recorded one under FlagMetaKey. The value
// provider sees only the token being typed, not the whole flag text.
func (p *FlagParser) Suggestions(ctx context.Context, cctx *Context, prefix string) []Suggestion {
	if current, ok := cctx.Get(FlagMetaKey); ok {
		if name, isString := current.(string); isString {
			if flag := p.lookupLong(name); flag != nil && flag.TakesValue() {
				return flag.component.SuggestionProvider().Suggestions(ctx, cctx, lastToken(prefix))
			}
		}
	}
	var out []Suggestion
	for _, flag := range p.flags {
		out = append(out, SuggestionOf("--"+flag.name))
		for _, alias := range flag.aliases {
			out = append(out, SuggestionOf("-"+alias))
		}
	}
	return out
}

// lastToken extracts the token currently being typed from a raw text
// span; text ending in whitespace means a fresh token.
func lastToken(text string) string {
	if text == "" || strings.HasSuffix(text, " ") {
		return ""
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func flagKey(name string) string {
	return "__flag__" + name
}

func storeFlag(cctx *Context, name string, value any) {
	cctx.Store(flagKey(name), value)
}

// FlagValue returns the parsed value of a flag from the context.
func FlagValue(cctx *Context, name string) (any, bool) {
	return cctx.Get(flagKey(name))
}

// HasFlag reports whether a presence flag was supplied.
func HasFlag(cctx *Context, name string) bool {
	_, ok := cctx.Get(flagKey(name))
	return ok
}
