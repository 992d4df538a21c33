package tree

import (
	"context"

	"cmdtree/internal/command"
	"cmdtree/internal/input"
)

// ParseOutcome is the result delivered by ParseAsync.
type ParseOutcome struct {
	Command *command.Command
	Err     error
}

// SuggestOutcome is the result delivered by SuggestAsync.
type SuggestOutcome struct {
	Suggestions []command.Suggestion
	Err         error
}

// ParseAsync runs Parse on its own goroutine and delivers the outcome on
// the returned channel. The channel is buffered and closed after the
// single send, so abandoning it does not leak the goroutine. Cancel ctx
// to abort the walk at the next parser boundary.
func (t *Tree) ParseAsync(ctx context.Context, cctx *command.Context, in *input.Input) <-chan ParseOutcome {
	out := make(chan ParseOutcome, 1)
	go func() {
		defer close(out)
		cmd, err := t.Parse(ctx, cctx, in)
		out <- ParseOutcome{Command: cmd, Err: err}
	}()
	return out
}

// SuggestAsync runs Suggest on its own goroutine and delivers the outcome
// on the returned channel.
func (t *Tree) SuggestAsync(ctx context.Context, cctx *command.Context, in *input.Input) <-chan SuggestOutcome {
	out := make(chan SuggestOutcome, 1)
	go func() {
		defer close(out)
		suggestions, err := t.Suggest(ctx, cctx, in)
		out <- SuggestOutcome{Suggestions: suggestions, Err: err}
	}()
	return out
}
