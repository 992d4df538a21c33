package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdtree/internal/input"
)

func coordinateParser() *AggregateParser {
	return NewAggregateParser(
		func(_ *Context, values map[string]any) (any, error) {
			return [2]int64{values["x"].(int64), values["y"].(int64)}, nil
		},
		Argument("x", NewIntegerParser()),
		Argument("y", NewIntegerParser()),
	)
}

func TestAggregateParse(t *testing.T) {
	cctx := testContext()
	in := input.New("3 -7")

	result := coordinateParser().Parse(context.Background(), cctx, in)
	value, ok := result.Parsed()
	require.True(t, ok)
	assert.Equal(t, [2]int64{3, -7}, value)

	x, _ := cctx.Get("x")
	y, _ := cctx.Get("y")
	assert.Equal(t, int64(3), x, "intermediate sub-parses are stored by name")
	assert.Equal(t, int64(-7), y)
	assert.True(t, in.IsEmpty())
}

func TestAggregateFailsOnSubComponent(t *testing.T) {
	result := coordinateParser().Parse(context.Background(), testContext(), input.New("3 east"))
	_, ok := result.Parsed()
	require.False(t, ok)
	var numErr *NumberParseError
	assert.ErrorAs(t, result.Err(), &numErr)
}

func TestAggregateRequestedArgumentCount(t *testing.T) {
	assert.Equal(t, 2, coordinateParser().RequestedArgumentCount())
}

func TestAggregateNilMapperReturnsValueMap(t *testing.T) {
	parser := NewAggregateParser(nil, Argument("n", NewIntegerParser()))
	result := parser.Parse(context.Background(), testContext(), input.New("4"))
	value, ok := result.Parsed()
	require.True(t, ok)
	assert.Equal(t, map[string]any{"n": int64(4)}, value)
}

func TestAggregateSuggestionsTrackProgress(t *testing.T) {
	parser := NewAggregateParser(
		nil,
		Argument("mode", NewStringParser(), WithSuggestions(StaticSuggestions("fast", "slow"))),
		Argument("level", NewIntegerRangeParser(1, 3)),
	)

	t.Run("first sub-component pending", func(t *testing.T) {
		texts := suggestionTexts(parser.Suggestions(context.Background(), testContext(), ""))
		assert.Equal(t, []string{"fast", "slow"}, texts)
	})

	t.Run("first sub-component stored", func(t *testing.T) {
		cctx := testContext()
		cctx.Store("mode", "fast")
		texts := suggestionTexts(parser.Suggestions(context.Background(), cctx, ""))
		assert.Equal(t, []string{"1", "2", "3"}, texts)
	})
}
