package tree

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cmdtree/internal/command"
	"cmdtree/internal/input"
)

func TestParseAsyncDeliversOutcome(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr := New()
	cmd := command.New(command.Literal("ping"))
	mustInsert(t, tr, cmd)

	outcome := <-tr.ParseAsync(context.Background(), command.NewContext(consoleSender()), input.New("ping"))
	require.NoError(t, outcome.Err)
	assert.Same(t, cmd, outcome.Command)
}

func TestParseAsyncDeliversFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr := New()
	mustInsert(t, tr, command.New(command.Literal("ping")))

	outcome := <-tr.ParseAsync(context.Background(), command.NewContext(consoleSender()), input.New("pong"))
	var noSuch *NoSuchCommandError
	assert.ErrorAs(t, outcome.Err, &noSuch)
}

func TestSuggestAsyncDeliversOutcome(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr := New()
	mustInsert(t, tr, command.New(command.Literal("ping"), command.Literal("fast")))

	outcome := <-tr.SuggestAsync(context.Background(), command.NewContext(consoleSender()), input.New("ping "))
	require.NoError(t, outcome.Err)
	require.Len(t, outcome.Suggestions, 1)
	assert.Equal(t, "fast", outcome.Suggestions[0].Text)
}

func TestParseAsyncAbandonedChannelDoesNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr := New()
	mustInsert(t, tr, command.New(command.Literal("ping")))

	// The result channel is buffered: dropping it must not strand the
	// worker goroutine.
	_ = tr.ParseAsync(context.Background(), command.NewContext(consoleSender()), input.New("ping"))
	time.Sleep(20 * time.Millisecond)
}

func TestParseAsyncHonorsCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	block := make(chan struct{})
	slow := command.ParserFunc(func(ctx context.Context, _ *command.Context, in *input.Input) command.ParseResult {
		select {
		case <-ctx.Done():
			return command.Failure(ctx.Err())
		case <-block:
			return command.Success(in.ReadString())
		}
	})

	tr := New()
	mustInsert(t, tr, command.New(
		command.Literal("wait"),
		command.Argument("value", slow),
	))

	ctx, cancel := context.WithCancel(context.Background())
	outcomeCh := tr.ParseAsync(ctx, command.NewContext(consoleSender()), input.New("wait forever"))
	cancel()

	outcome := <-outcomeCh
	require.Error(t, outcome.Err)
	close(block)
}
