package tree

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdtree/internal/command"
	"cmdtree/internal/input"
	"cmdtree/internal/permission"
)

func suggestLine(t *testing.T, tr *Tree, line string) []string {
	t.Helper()
	cctx := command.NewContext(consoleSender())
	suggestions, err := tr.Suggest(context.Background(), cctx, input.New(line))
	require.NoError(t, err)
	texts := make([]string, len(suggestions))
	for i, s := range suggestions {
		texts[i] = s.Text
	}
	return texts
}

func TestSuggestSubcommands(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(command.Literal("foo"), command.Literal("bar")))
	mustInsert(t, tr, command.New(command.Literal("foo"), command.Literal("baz")))

	t.Run("fresh token after space", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"bar", "baz"}, suggestLine(t, tr, "foo "))
	})

	t.Run("shared prefix", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"bar", "baz"}, suggestLine(t, tr, "foo b"))
	})

	t.Run("exact token yields nothing", func(t *testing.T) {
		assert.Empty(t, suggestLine(t, tr, "foo bar"))
	})

	t.Run("root literals", func(t *testing.T) {
		assert.Equal(t, []string{"foo"}, suggestLine(t, tr, "f"))
	})
}

func TestSuggestDescendsThroughLiterals(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(
		command.Literal("region"),
		command.Literal("flag"),
		command.Literal("set"),
	))

	assert.Equal(t, []string{"set"}, suggestLine(t, tr, "region flag s"))
	assert.Equal(t, []string{"flag"}, suggestLine(t, tr, "region "))
}

func TestSuggestArgumentValues(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(
		command.Literal("gamemode"),
		command.Argument("mode", command.NewStringParser(),
			command.WithSuggestions(command.StaticSuggestions("survival", "creative", "spectator"))),
	))

	assert.ElementsMatch(t,
		[]string{"survival", "spectator"},
		suggestLine(t, tr, "gamemode s"))
	assert.ElementsMatch(t,
		[]string{"survival", "creative", "spectator"},
		suggestLine(t, tr, "gamemode "))
}

func TestSuggestNumericRange(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(
		command.Literal("foo"),
		command.Argument("n", command.NewIntegerRangeParser(0, 10)),
	))

	suggestions := suggestLine(t, tr, "foo 1")
	assert.Equal(t, []string{"10"}, suggestions, "only 10 extends \"1\" inside 0..10")
}

func TestSuggestMixedLiteralAndArgument(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(command.Literal("time"), command.Literal("day")))
	mustInsert(t, tr, command.New(command.Literal("time"), command.Literal("night")))
	mustInsert(t, tr, command.New(
		command.Literal("time"),
		command.Argument("ticks", command.NewIntegerRangeParser(0, 24000)),
	))

	suggestions := suggestLine(t, tr, "time ")
	assert.Contains(t, suggestions, "day")
	assert.Contains(t, suggestions, "night")
	assert.Contains(t, suggestions, "0", "numeric suggestions join literal ones")
}

func TestSuggestGreedyTail(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(
		command.Literal("say"),
		command.Argument("message", command.NewGreedyStringParser(),
			command.WithSuggestions(command.StaticSuggestions("world", "wide"))),
	))

	// The greedy parser consumes everything; the suggester rewinds and
	// offers the provider's candidates against the trailing token.
	assert.Equal(t, []string{"world"}, suggestLine(t, tr, "say hello wor"))
}

func TestSuggestFlagNames(t *testing.T) {
	tr := New()
	flags := command.NewFlagParser(
		command.NewFlag("verbose", "v"),
		command.NewValueFlag("count", command.Argument("count", command.NewIntegerRangeParser(1, 3))),
	)
	mustInsert(t, tr, command.New(command.Literal("build")).
		WithFlags(command.FlagComponent(flags)))

	assert.Equal(t, []string{"--verbose"}, suggestLine(t, tr, "build --v"))
	assert.ElementsMatch(t, []string{"--verbose", "-v", "--count"}, suggestLine(t, tr, "build -"))
}

func TestSuggestFlagValues(t *testing.T) {
	tr := New()
	flags := command.NewFlagParser(
		command.NewValueFlag("count", command.Argument("count", command.NewIntegerRangeParser(1, 3))),
	)
	mustInsert(t, tr, command.New(command.Literal("build")).
		WithFlags(command.FlagComponent(flags)))

	// "--count " means the count value is being typed; flag names no
	// longer apply.
	suggestions := suggestLine(t, tr, "build --count ")
	assert.Equal(t, []string{"1", "2", "3"}, suggestions)
}

func TestSuggestFollowsConsumedFlagToNextArgument(t *testing.T) {
	tr := New(WithSettings(StaticSettings{LiberalFlagParsing: true}))
	flags := command.NewFlagParser(command.NewFlag("force", "f"))
	mustInsert(t, tr, command.New(
		command.Literal("deploy"),
		command.Argument("target", command.NewStringParser(),
			command.WithSuggestions(command.StaticSuggestions("staging", "production"))),
	).WithFlags(command.FlagComponent(flags)))

	// The current token is not a flag and no flag value is pending, so
	// the flag node's children contribute their suggestions.
	assert.Equal(t, []string{"staging"}, suggestLine(t, tr, "deploy sta"))

	// After a consumed flag the next argument is suggested.
	assert.Equal(t, []string{"staging"}, suggestLine(t, tr, "deploy --force sta"))
}

func TestSuggestAggregatePreConsumesSubComponents(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(
		command.Literal("warp"),
		command.Argument("pos", command.NewAggregateParser(
			nil,
			command.Argument("x", command.NewIntegerParser()),
			command.Argument("y", command.NewIntegerRangeParser(40, 45)),
		)),
	))

	suggestions := suggestLine(t, tr, "warp 3 4")
	if diff := cmp.Diff([]string{"40", "41", "42", "43", "44", "45"}, suggestions); diff != "" {
		t.Errorf("aggregate suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestRespectsPermissions(t *testing.T) {
	tr := New(WithAuthority(grantSet{"cmd.kick": true}))
	mustInsert(t, tr, command.New(command.Literal("admin"), command.Literal("ban")).
		WithPermission(permission.Of("cmd.ban")))
	mustInsert(t, tr, command.New(command.Literal("admin"), command.Literal("kick")).
		WithPermission(permission.Of("cmd.kick")))

	assert.Equal(t, []string{"kick"}, suggestLine(t, tr, "admin "),
		"denied branches contribute no suggestions")
}

func TestSuggestNothingBeyondLeaf(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(command.Literal("version")))

	assert.Empty(t, suggestLine(t, tr, "version extra "))
}
