package main

import (
	"context"
	"fmt"
	"strings"

	"cmdtree/internal/command"
	"cmdtree/internal/permission"
	"cmdtree/internal/repl"
	"cmdtree/internal/tree"
)

// demoTree builds the command set hosted by the shell and the one-shot
// subcommands. It exercises literals with aliases, ranged integers,
// greedy strings, aggregates, flags, defaults, permissions and sender
// kinds.
func demoTree(settings tree.SettingsProvider) *tree.Tree {
	tr := tree.New(
		tree.WithSettings(settings),
		tree.WithAuthority(demoAuthority{}),
	)

	inserts := []*command.Command{
		command.New(
			command.Literal("echo"),
			command.Argument("message", command.NewGreedyStringParser()),
		).Handles(func(_ context.Context, cctx *command.Context) error {
			message, _ := cctx.Get("message")
			repl.Reply(cctx, "%v", message)
			return nil
		}),

		command.New(
			command.Literal("teleport", "tp"),
			command.Argument("pos", command.NewAggregateParser(
				func(_ *command.Context, values map[string]any) (any, error) {
					return [2]int64{values["x"].(int64), values["y"].(int64)}, nil
				},
				command.Argument("x", command.NewIntegerRangeParser(-30000, 30000)),
				command.Argument("y", command.NewIntegerRangeParser(-30000, 30000)),
			)),
		).Handles(func(_ context.Context, cctx *command.Context) error {
			pos, _ := cctx.Get("pos")
			repl.Reply(cctx, "teleported to %v", pos)
			return nil
		}),

		command.New(
			command.Literal("gamemode"),
			command.Argument("mode", command.NewStringParser(),
				command.WithSuggestions(command.StaticSuggestions("survival", "creative", "spectator")),
				command.WithDefault(command.ConstantDefault("survival"))),
		).Handles(func(_ context.Context, cctx *command.Context) error {
			mode, _ := cctx.Get("mode")
			repl.Reply(cctx, "gamemode set to %v", mode)
			return nil
		}),

		command.New(
			command.Literal("speed"),
			command.Argument("value", command.NewIntegerRangeParser(0, 10),
				command.WithDefault(command.ParsedDefault("5"))),
		).Handles(func(_ context.Context, cctx *command.Context) error {
			value, _ := cctx.Get("value")
			repl.Reply(cctx, "speed set to %v", value)
			return nil
		}),

		command.New(command.Literal("build")).
			WithFlags(command.FlagComponent(command.NewFlagParser(
				command.NewFlag("verbose", "v"),
				command.NewFlag("force", "f"),
				command.NewValueFlag("jobs",
					command.Argument("jobs", command.NewIntegerRangeParser(1, 64)), "j"),
			))).
			Handles(func(_ context.Context, cctx *command.Context) error {
				var notes []string
				if command.HasFlag(cctx, "verbose") {
					notes = append(notes, "verbose")
				}
				if command.HasFlag(cctx, "force") {
					notes = append(notes, "forced")
				}
				if jobs, ok := command.FlagValue(cctx, "jobs"); ok {
					notes = append(notes, fmt.Sprintf("%v jobs", jobs))
				}
				if len(notes) == 0 {
					repl.Reply(cctx, "build started")
				} else {
					repl.Reply(cctx, "build started (%s)", strings.Join(notes, ", "))
				}
				return nil
			}),

		command.New(command.Literal("admin"), command.Literal("kick"),
			command.Argument("player", command.NewStringParser())).
			WithPermission(permission.Of("admin.kick")).
			Handles(func(_ context.Context, cctx *command.Context) error {
				player, _ := cctx.Get("player")
				repl.Reply(cctx, "kicked %v", player)
				return nil
			}),

		command.New(command.Literal("admin"), command.Literal("ban"),
			command.Argument("player", command.NewStringParser())).
			WithPermission(permission.Of("admin.ban")).
			Handles(func(_ context.Context, cctx *command.Context) error {
				player, _ := cctx.Get("player")
				repl.Reply(cctx, "banned %v", player)
				return nil
			}),

		command.New(command.Literal("shutdown")).
			WithSenderKind("console").
			Handles(func(_ context.Context, cctx *command.Context) error {
				repl.Reply(cctx, "shutting down")
				return nil
			}),
	}

	for _, cmd := range inserts {
		if err := tr.InsertCommand(cmd); err != nil {
			panic(fmt.Sprintf("demo command %q failed to insert: %v", cmd.Path(), err))
		}
	}
	return tr
}

// demoAuthority grants every permission except admin.ban, so the
// permission failure paths are reachable from the shell.
type demoAuthority struct{}

func (demoAuthority) Has(_ any, permission string) bool {
	return permission != "admin.ban"
}
