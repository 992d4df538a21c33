package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdtree/internal/input"
)

func testContext() *Context {
	return NewContext(SimpleSender{SenderName: "tester", SenderKind: "console"})
}

func TestLiteralParser(t *testing.T) {
	parser := NewLiteralParser("teleport", "tp")

	t.Run("canonical alias", func(t *testing.T) {
		in := input.New("teleport home")
		result := parser.Parse(context.Background(), testContext(), in)
		value, ok := result.Parsed()
		require.True(t, ok)
		assert.Equal(t, "teleport", value)
		assert.Equal(t, "home", in.PeekString())
	})

	t.Run("secondary alias", func(t *testing.T) {
		result := parser.Parse(context.Background(), testContext(), input.New("tp"))
		_, ok := result.Parsed()
		assert.True(t, ok)
	})

	t.Run("case sensitive", func(t *testing.T) {
		in := input.New("Teleport")
		result := parser.Parse(context.Background(), testContext(), in)
		_, ok := result.Parsed()
		assert.False(t, ok)
		assert.ErrorIs(t, result.Err(), ErrNoMatchingLiteral)
		assert.Equal(t, 0, in.Cursor(), "failed parse must not consume")
	})

	t.Run("empty input", func(t *testing.T) {
		result := parser.Parse(context.Background(), testContext(), input.New(""))
		assert.ErrorIs(t, result.Err(), ErrNoInputProvided)
	})
}

func TestLiteralParserInsertAlias(t *testing.T) {
	parser := NewLiteralParser("workspace")

	assert.True(t, parser.InsertAlias("ws"))
	assert.False(t, parser.InsertAlias("ws"), "duplicate insert reports false")
	assert.True(t, parser.Accepts("ws"))

	parser.RemoveAlias("ws")
	assert.False(t, parser.Accepts("ws"))
	assert.True(t, parser.Accepts("workspace"), "canonical alias survives removal")
}

func TestIntegerParser(t *testing.T) {
	parser := NewIntegerRangeParser(0, 10)

	t.Run("in range", func(t *testing.T) {
		in := input.New("5 rest")
		result := parser.Parse(context.Background(), testContext(), in)
		value, ok := result.Parsed()
		require.True(t, ok)
		assert.Equal(t, int64(5), value)
		assert.Equal(t, "rest", in.PeekString())
	})

	t.Run("out of range", func(t *testing.T) {
		result := parser.Parse(context.Background(), testContext(), input.New("11"))
		_, ok := result.Parsed()
		require.False(t, ok)
		var numErr *NumberParseError
		require.ErrorAs(t, result.Err(), &numErr)
		assert.True(t, numErr.OutOfRange)
	})

	t.Run("not a number", func(t *testing.T) {
		result := parser.Parse(context.Background(), testContext(), input.New("five"))
		var numErr *NumberParseError
		require.ErrorAs(t, result.Err(), &numErr)
		assert.False(t, numErr.OutOfRange)
	})

	t.Run("suggestions stay in range", func(t *testing.T) {
		suggestions := parser.Suggestions(context.Background(), testContext(), "")
		texts := suggestionTexts(suggestions)
		assert.Contains(t, texts, "0")
		assert.Contains(t, texts, "9")
		assert.NotContains(t, texts, "11")

		extended := suggestionTexts(parser.Suggestions(context.Background(), testContext(), "1"))
		assert.Equal(t, []string{"10"}, extended, "only 10 extends 1 within 0..10")
	})
}

func TestFloatParser(t *testing.T) {
	parser := NewFloatRangeParser(0.5, 2.5)

	result := parser.Parse(context.Background(), testContext(), input.New("1.25"))
	value, ok := result.Parsed()
	require.True(t, ok)
	assert.Equal(t, 1.25, value)

	result = parser.Parse(context.Background(), testContext(), input.New("3.5"))
	var numErr *NumberParseError
	require.ErrorAs(t, result.Err(), &numErr)
	assert.True(t, numErr.OutOfRange)
}

func TestBooleanParser(t *testing.T) {
	strict := NewBooleanParser()
	liberal := NewLiberalBooleanParser()

	tests := []struct {
		token   string
		strict  bool
		liberal bool
		want    bool
	}{
		{"true", true, true, true},
		{"FALSE", true, true, false},
		{"yes", false, true, true},
		{"off", false, true, false},
		{"maybe", false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			_, okStrict := strict.Parse(context.Background(), testContext(), input.New(tc.token)).Parsed()
			assert.Equal(t, tc.strict, okStrict)

			result := liberal.Parse(context.Background(), testContext(), input.New(tc.token))
			value, okLiberal := result.Parsed()
			assert.Equal(t, tc.liberal, okLiberal)
			if tc.liberal {
				assert.Equal(t, tc.want, value)
			}
		})
	}
}

func TestStringParser(t *testing.T) {
	t.Run("single token", func(t *testing.T) {
		in := input.New("hello world")
		result := NewStringParser().Parse(context.Background(), testContext(), in)
		value, ok := result.Parsed()
		require.True(t, ok)
		assert.Equal(t, "hello", value)
		assert.Equal(t, "world", in.PeekString())
	})

	t.Run("greedy consumes everything", func(t *testing.T) {
		in := input.New("hello there world")
		result := NewGreedyStringParser().Parse(context.Background(), testContext(), in)
		value, ok := result.Parsed()
		require.True(t, ok)
		assert.Equal(t, "hello there world", value)
		assert.True(t, in.IsEmpty())
	})

	t.Run("quoted span", func(t *testing.T) {
		in := input.New(`"hello world" rest`)
		result := NewQuotedStringParser().Parse(context.Background(), testContext(), in)
		value, ok := result.Parsed()
		require.True(t, ok)
		assert.Equal(t, "hello world", value)
		assert.Equal(t, "rest", in.PeekString())
	})

	t.Run("quoted falls back to single token", func(t *testing.T) {
		result := NewQuotedStringParser().Parse(context.Background(), testContext(), input.New("plain rest"))
		value, ok := result.Parsed()
		require.True(t, ok)
		assert.Equal(t, "plain", value)
	})

	t.Run("unmatched quote", func(t *testing.T) {
		result := NewQuotedStringParser().Parse(context.Background(), testContext(), input.New(`"never closed`))
		assert.ErrorIs(t, result.Err(), ErrUnmatchedQuote)
	})
}

func suggestionTexts(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Text
	}
	return out
}
