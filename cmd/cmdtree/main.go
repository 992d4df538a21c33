// Command cmdtree hosts a demo command dispatch tree: an interactive
// shell with tab completion by default, plus one-shot parse, suggest and
// tree introspection subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cmdtree/internal/command"
	"cmdtree/internal/config"
	"cmdtree/internal/input"
	"cmdtree/internal/logging"
	"cmdtree/internal/repl"
	"cmdtree/internal/tree"
)

var (
	verbose    bool
	workspace  string
	senderKind string

	logger *zap.Logger

	provider *config.Provider
)

var rootCmd = &cobra.Command{
	Use:   "cmdtree",
	Short: "Command dispatch tree playground",
	Long: `cmdtree resolves tokenized input against a prefix trie of command
components and completes partial inputs context-sensitively.

Run without arguments to start the interactive shell.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
		}
		cfg, err := config.Load(workspace)
		if err != nil {
			return err
		}
		provider = config.NewProvider(cfg)

		return logging.Initialize(logging.Config{
			DebugMode:  cfg.Logging.DebugMode,
			Directory:  workspace + "/" + config.ConfigDirName,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Shutdown()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell()
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse \"<command line>\"",
	Short: "Resolve a command line and execute its handler",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		line := strings.Join(args, " ")
		tr := demoTree(settingsProvider())

		cctx := command.NewContext(sender())
		resolved, err := tr.Parse(context.Background(), cctx, input.New(line))
		if err != nil {
			return err
		}
		logger.Info("resolved command", zap.String("path", resolved.Path()))
		if err := resolved.Execute(context.Background(), cctx); err != nil {
			return err
		}
		if reply, ok := cctx.Get(repl.ReplyKey); ok {
			fmt.Println(reply)
		}
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest \"<partial command line>\"",
	Short: "Print completion candidates for a partial command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		line := strings.Join(args, " ")
		tr := demoTree(settingsProvider())

		cctx := command.NewContext(sender())
		suggestions, err := tr.Suggest(context.Background(), cctx, input.New(line))
		if err != nil {
			return err
		}
		for _, s := range suggestions {
			fmt.Println(s.Text)
		}
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the command trie",
	RunE: func(cmd *cobra.Command, args []string) error {
		tr := demoTree(settingsProvider())
		for _, node := range tr.RootNodes() {
			printNode(node, 0)
		}
		return nil
	},
}

func runShell() error {
	watcher, err := config.NewWatcher(workspace, func(cfg *config.Config) {
		provider.Swap(cfg)
		logger.Info("configuration reloaded")
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(context.Background()); err != nil {
		return err
	}
	defer watcher.Stop()

	model := repl.New(demoTree(settingsProvider()), sender(), provider.Current().Repl)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// settingsProvider adapts the live configuration to the tree's settings.
func settingsProvider() tree.SettingsProvider {
	return settingsAdapter{provider}
}

type settingsAdapter struct {
	provider *config.Provider
}

func (a settingsAdapter) TreeSettings() tree.Settings {
	cfg := a.provider.Current().Tree
	return tree.Settings{
		LiberalFlagParsing:             cfg.LiberalFlagParsing,
		EnforceIntermediaryPermissions: cfg.EnforceIntermediaryPermissions,
	}
}

func sender() command.Sender {
	return command.SimpleSender{SenderName: "operator", SenderKind: senderKind}
}

func printNode(node *tree.Node, depth int) {
	comp := node.Component()
	label := "<root>"
	if comp != nil {
		switch comp.Type() {
		case command.TypeLiteral:
			label = strings.Join(comp.Aliases(), "|")
		case command.TypeFlag:
			label = "[flags]"
		default:
			if comp.Required() {
				label = "<" + comp.Name() + ">"
			} else {
				label = "[" + comp.Name() + "]"
			}
		}
		if comp.OwningCommand() != nil {
			label += " *"
		}
	}
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), label)
	for _, child := range node.Children() {
		printNode(child, depth+1)
	}
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "workspace directory (defaults to the working directory)")
	rootCmd.PersistentFlags().StringVar(&senderKind, "sender-kind", "console", "sender kind used for dispatched commands")
	rootCmd.AddCommand(parseCmd, suggestCmd, treeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
