package command

import (
	"context"
	"strings"
	"unicode"

	"cmdtree/internal/input"
)

// Suggestion is one completion candidate offered to the sender.
type Suggestion struct {
	Text string
}

// SuggestionOf wraps a string as a suggestion.
func SuggestionOf(text string) Suggestion {
	return Suggestion{Text: text}
}

// SuggestionsOf wraps strings as suggestions, preserving order.
func SuggestionsOf(texts ...string) []Suggestion {
	out := make([]Suggestion, len(texts))
	for i, t := range texts {
		out[i] = Suggestion{Text: t}
	}
	return out
}

// SuggestionProvider produces completion candidates for a component given
// the invocation context and the partial token being typed.
type SuggestionProvider interface {
	Suggestions(ctx context.Context, cctx *Context, prefix string) []Suggestion
}

// SuggestionProviderFunc adapts a function to SuggestionProvider.
type SuggestionProviderFunc func(ctx context.Context, cctx *Context, prefix string) []Suggestion

// Suggestions calls the wrapped function.
func (f SuggestionProviderFunc) Suggestions(ctx context.Context, cctx *Context, prefix string) []Suggestion {
	return f(ctx, cctx, prefix)
}

// NoSuggestions is the provider that never suggests anything.
var NoSuggestions SuggestionProvider = SuggestionProviderFunc(
	func(context.Context, *Context, string) []Suggestion { return nil },
)

// StaticSuggestions returns a provider offering a fixed candidate set.
func StaticSuggestions(candidates ...string) SuggestionProvider {
	suggestions := SuggestionsOf(candidates...)
	return SuggestionProviderFunc(func(context.Context, *Context, string) []Suggestion {
		out := make([]Suggestion, len(suggestions))
		copy(out, suggestions)
		return out
	})
}

// SuggestionProcessor post-processes each raw suggestion before it enters
// the accumulated set. Returning false drops the suggestion.
type SuggestionProcessor interface {
	Process(sctx *SuggestionContext, s Suggestion) (Suggestion, bool)
}

// SuggestionProcessorFunc adapts a function to SuggestionProcessor.
type SuggestionProcessorFunc func(sctx *SuggestionContext, s Suggestion) (Suggestion, bool)

// Process calls the wrapped function.
func (f SuggestionProcessorFunc) Process(sctx *SuggestionContext, s Suggestion) (Suggestion, bool) {
	return f(sctx, s)
}

// FilteringProcessor keeps suggestions that extend the token currently
// being typed: the suggestion must start with the current text and must
// not equal it. When the input ends in whitespace a fresh token is being
// started and every candidate passes.
func FilteringProcessor() SuggestionProcessor {
	return SuggestionProcessorFunc(func(sctx *SuggestionContext, s Suggestion) (Suggestion, bool) {
		current := sctx.CurrentText()
		if !strings.HasPrefix(s.Text, current) || s.Text == current {
			return Suggestion{}, false
		}
		return s, true
	})
}

// PassthroughProcessor admits every suggestion unchanged.
func PassthroughProcessor() SuggestionProcessor {
	return SuggestionProcessorFunc(func(_ *SuggestionContext, s Suggestion) (Suggestion, bool) {
		return s, true
	})
}

// SuggestionContext accumulates suggestions for one invocation. The set
// is ordered by first insertion and deduplicated; each suggestion passes
// through the processor before admission.
type SuggestionContext struct {
	cctx      *Context
	original  *input.Input
	processor SuggestionProcessor
	ordered   []Suggestion
	seen      map[string]bool
}

// NewSuggestionContext creates a suggestion context over the original
// (unconsumed) input. The processor may be nil, in which case the
// filtering processor is used.
func NewSuggestionContext(cctx *Context, original *input.Input, processor SuggestionProcessor) *SuggestionContext {
	if processor == nil {
		processor = FilteringProcessor()
	}
	return &SuggestionContext{
		cctx:      cctx,
		original:  original.Copy(),
		processor: processor,
		seen:      make(map[string]bool),
	}
}

// CommandContext returns the invocation context.
func (s *SuggestionContext) CommandContext() *Context { return s.cctx }

// CurrentText returns the token currently being typed: the last remaining
// token of the original input, or "" when the input is blank or ends in
// whitespace (a fresh token is being started).
func (s *SuggestionContext) CurrentText() string {
	remaining := s.original.RemainingInput()
	if remaining == "" {
		return ""
	}
	if unicode.IsSpace(rune(remaining[len(remaining)-1])) {
		return ""
	}
	return s.original.LastRemainingToken()
}

// Add admits one suggestion through the processor into the ordered set.
func (s *SuggestionContext) Add(sug Suggestion) {
	processed, keep := s.processor.Process(s, sug)
	if !keep || s.seen[processed.Text] {
		return
	}
	s.seen[processed.Text] = true
	s.ordered = append(s.ordered, processed)
}

// AddAll admits suggestions in order.
func (s *SuggestionContext) AddAll(suggestions []Suggestion) {
	for _, sug := range suggestions {
		s.Add(sug)
	}
}

// Suggestions returns the accumulated ordered set.
func (s *SuggestionContext) Suggestions() []Suggestion {
	out := make([]Suggestion, len(s.ordered))
	copy(out, s.ordered)
	return out
}
