package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdtree/internal/command"
	"cmdtree/internal/input"
	"cmdtree/internal/permission"
)

// grantSet is a test authority backed by a set of permission names.
type grantSet map[string]bool

func (g grantSet) Has(_ any, permission string) bool {
	return g[permission]
}

func consoleSender() command.Sender {
	return command.SimpleSender{SenderName: "tester", SenderKind: "console"}
}

// parseLine runs a parse over a fresh context and returns the command,
// the context holding the parsed values, and the error.
func parseLine(t *testing.T, tr *Tree, line string) (*command.Command, *command.Context, error) {
	t.Helper()
	cctx := command.NewContext(consoleSender())
	cmd, err := tr.Parse(context.Background(), cctx, input.New(line))
	return cmd, cctx, err
}

func mustInsert(t *testing.T, tr *Tree, cmd *command.Command) {
	t.Helper()
	require.NoError(t, tr.InsertCommand(cmd))
}

func TestInsertMergesLiteralAliases(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(command.Literal("teleport", "tp"), command.Literal("home")))
	mustInsert(t, tr, command.New(command.Literal("teleport", "warp"), command.Literal("back")))

	node := tr.NamedNode("teleport")
	require.NotNil(t, node)
	assert.ElementsMatch(t, []string{"teleport", "tp", "warp"}, node.Component().Aliases())

	cmd, _, err := parseLine(t, tr, "warp home")
	require.NoError(t, err)
	assert.Equal(t, "teleport home", cmd.Path())
}

func TestInsertRejectsDuplicateChain(t *testing.T) {
	tr := New()
	first := command.New(command.Literal("status"))
	mustInsert(t, tr, first)

	err := tr.InsertCommand(command.New(command.Literal("status")))
	var dup *DuplicateCommandError
	require.ErrorAs(t, err, &dup)
	assert.Same(t, first, dup.Existing)
}

func TestInsertRejectsTopLevelVariable(t *testing.T) {
	tr := New()
	err := tr.InsertCommand(command.New(command.Argument("n", command.NewIntegerParser())))
	var topLevel *TopLevelVariableError
	assert.ErrorAs(t, err, &topLevel)
}

func TestInsertRejectsEmptyCommand(t *testing.T) {
	assert.ErrorIs(t, New().InsertCommand(command.New()), ErrEmptyCommand)
}

func TestInsertRejectsAmbiguousVariableSiblings(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(
		command.Literal("give"),
		command.Argument("amount", command.NewIntegerParser()),
	))

	err := tr.InsertCommand(command.New(
		command.Literal("give"),
		command.Argument("item", command.NewStringParser()),
	))
	var ambiguous *AmbiguousNodeError
	require.ErrorAs(t, err, &ambiguous)

	// The failed insertion must not leave any trace: the original
	// command still parses and the new one does not exist.
	cmd, cctx, parseErr := parseLine(t, tr, "give 5")
	require.NoError(t, parseErr)
	assert.Equal(t, "give amount", cmd.Path())
	amount, _ := cctx.Get("amount")
	assert.Equal(t, int64(5), amount)

	give := tr.NamedNode("give")
	require.NotNil(t, give)
	assert.Len(t, give.Children(), 1)
}

func TestInsertRejectsOverlappingLiteralAliases(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(command.Literal("region"), command.Literal("alpha"), command.Literal("list")))
	mustInsert(t, tr, command.New(command.Literal("region"), command.Literal("beta"), command.Literal("list")))

	// Merging "beta" into the "alpha" node would make two siblings
	// answer to the same alias.
	err := tr.InsertCommand(command.New(
		command.Literal("region"),
		command.Literal("alpha", "beta"),
		command.Literal("info"),
	))
	var ambiguous *AmbiguousNodeError
	require.ErrorAs(t, err, &ambiguous)

	region := tr.NamedNode("region")
	require.NotNil(t, region)
	assert.Len(t, region.Children(), 2, "failed insert leaves no sibling behind")
	for _, child := range region.Children() {
		assert.Len(t, child.Component().Aliases(), 1, "merged alias was rolled back")
	}

	cmd, _, parseErr := parseLine(t, tr, "region beta list")
	require.NoError(t, parseErr)
	assert.Equal(t, "region beta list", cmd.Path())
}

func TestInsertFailureRollsBackAliasMerge(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(command.Literal("cfg"), command.Literal("get")))

	// Merging "config" into the existing "cfg" literal succeeds
	// structurally but the duplicate terminal fails the insert.
	err := tr.InsertCommand(command.New(command.Literal("cfg", "config"), command.Literal("get")))
	var dup *DuplicateCommandError
	require.ErrorAs(t, err, &dup)

	node := tr.NamedNode("cfg")
	require.NotNil(t, node)
	assert.ElementsMatch(t, []string{"cfg"}, node.Component().Aliases())
}

func TestChildrenSortedLiteralsFirst(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(
		command.Literal("gamemode"),
		command.Argument("mode", command.NewIntegerRangeParser(0, 3)),
	))
	mustInsert(t, tr, command.New(command.Literal("gamemode"), command.Literal("creative")))
	mustInsert(t, tr, command.New(command.Literal("gamemode"), command.Literal("survival")))

	children := tr.NamedNode("gamemode").Children()
	require.Len(t, children, 3)
	assert.Equal(t, command.TypeLiteral, children[0].Component().Type())
	assert.Equal(t, command.TypeLiteral, children[1].Component().Type())
	assert.Equal(t, command.TypeArgument, children[2].Component().Type())
}

func TestNamedNodeIsCaseInsensitive(t *testing.T) {
	tr := New()
	mustInsert(t, tr, command.New(command.Literal("Help")))

	assert.NotNil(t, tr.NamedNode("help"))
	assert.NotNil(t, tr.NamedNode("HELP"))
	assert.Nil(t, tr.NamedNode("halp"))

	// Parsing stays case-sensitive.
	_, _, err := parseLine(t, tr, "help")
	var noSuch *NoSuchCommandError
	assert.ErrorAs(t, err, &noSuch)
}

func TestRegistrationHandlerSeesCommands(t *testing.T) {
	var registered []*command.Command
	tr := New(WithRegistrationHandler(RegistrationHandlerFunc(func(cmd *command.Command) {
		registered = append(registered, cmd)
	})))

	first := command.New(command.Literal("one"))
	mustInsert(t, tr, first)
	assert.Equal(t, []*command.Command{first}, registered)

	registered = nil
	second := command.New(command.Literal("two"))
	mustInsert(t, tr, second)
	assert.ElementsMatch(t, []*command.Command{first, second}, registered,
		"every insert re-reports all leaf commands")
}

func TestDeleteRecursively(t *testing.T) {
	tr := New()
	sub := command.New(command.Literal("plugin"), command.Literal("reload"))
	root := command.New(command.Literal("plugin"))
	mustInsert(t, tr, sub)
	mustInsert(t, tr, root)

	var removed []*command.Command
	node := tr.NamedNode("plugin")
	require.NotNil(t, node)
	tr.DeleteRecursively(node, true, func(cmd *command.Command) {
		removed = append(removed, cmd)
	})

	assert.ElementsMatch(t, []*command.Command{sub, root}, removed)
	assert.Empty(t, tr.RootNodes())

	_, _, err := parseLine(t, tr, "plugin reload")
	var noSuch *NoSuchCommandError
	assert.ErrorAs(t, err, &noSuch)
}

func TestPermissionAggregationOpensParentToAnyBranch(t *testing.T) {
	auth := grantSet{"cmd.kick": true}
	tr := New(WithAuthority(auth))

	mustInsert(t, tr, command.New(command.Literal("admin"), command.Literal("ban")).
		WithPermission(permission.Of("cmd.ban")))
	mustInsert(t, tr, command.New(command.Literal("admin"), command.Literal("kick")).
		WithPermission(permission.Of("cmd.kick")))

	cmd, _, err := parseLine(t, tr, "admin kick")
	require.NoError(t, err)
	assert.Equal(t, "admin kick", cmd.Path())

	_, _, err = parseLine(t, tr, "admin ban")
	var noPerm *NoPermissionError
	require.ErrorAs(t, err, &noPerm)
	assert.Equal(t, "cmd.ban", noPerm.Missing.Name())
}

func TestPermissionDeniedAtRootWhenNoBranchIsOpen(t *testing.T) {
	tr := New(WithAuthority(grantSet{}))
	mustInsert(t, tr, command.New(command.Literal("admin"), command.Literal("ban")).
		WithPermission(permission.Of("cmd.ban")))

	_, _, err := parseLine(t, tr, "admin ban")
	var noPerm *NoPermissionError
	assert.ErrorAs(t, err, &noPerm)
}

func TestEnforceIntermediaryPermissions(t *testing.T) {
	build := func(enforce bool) *Tree {
		tr := New(
			WithAuthority(grantSet{"cmd.sub": true}),
			WithSettings(StaticSettings{EnforceIntermediaryPermissions: enforce}),
		)
		mustInsert(t, tr, command.New(command.Literal("work")).
			WithPermission(permission.Of("cmd.work")))
		mustInsert(t, tr, command.New(command.Literal("work"), command.Literal("sub")).
			WithPermission(permission.Of("cmd.sub")))
		return tr
	}

	t.Run("joined by default", func(t *testing.T) {
		cmd, _, err := parseLine(t, build(false), "work sub")
		require.NoError(t, err)
		assert.Equal(t, "work sub", cmd.Path())
	})

	t.Run("intermediary overrides when enforced", func(t *testing.T) {
		_, _, err := parseLine(t, build(true), "work sub")
		var noPerm *NoPermissionError
		require.ErrorAs(t, err, &noPerm)
		assert.Equal(t, "cmd.work", noPerm.Missing.Name())
	})
}
