package commands

import (
	"log/slog"

	"github.com/leapstack-labs/pyshrink/internal/cli/config"
	"github.com/leapstack-labs/pyshrink/internal/cli/output"
	"github.com/leapstack-labs/pyshrink/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx, err := newCommandContext(cmd)
	if err != nil {
		return nil, err
	}
	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	cmdCtx.Engine = eng
	return cmdCtx, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only print tables.
func NewCommandContextWithoutEngine(cmd *cobra.Command) (*CommandContext, error) {
	return newCommandContext(cmd)
}

func newCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// getConfig returns the configuration loaded by the root command. Commands
// executed on their own load it from their flags.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	base, err := cfg.ToCore()
	if err != nil {
		return nil, err
	}
	engineCfg := cfg.EngineConfig()
	engineCfg.Logger = logger
	return engine.New(base, engineCfg)
}

// addShrinkFlags registers the flags shared by minify and watch. Their values
// are read through the configuration loader, not from the flag set.
func addShrinkFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("out", "", "Write shrunk modules to this directory, mirroring the input tree")
	f.Bool("in-place", false, "Overwrite each input file with its shrunk form")
	f.String("target-version", "", "Oldest Python version the output must run on (e.g. 3.8)")
	f.IntP("jobs", "j", 0, "Number of files processed at once (default: number of CPUs)")
	f.String("format", "", "Output format (auto|text|markdown|json)")
	f.Bool("remove-asserts", false, "Remove assert statements")
	f.String("type-hints", "", "Type hints to strip (none|all|all_but_class_vars)")
	f.Bool("no-fold", false, "Do not fold constant expressions")
	f.Bool("keep-imports", false, "Keep imports whose names are never used")
	f.Bool("this-machine", false, "Fold platform checks for the machine running pyshrink")
	f.Bool("name-eq-main", false, "Remove if __name__ == '__main__' blocks")
	f.Bool("require-match", false, "Fail a file when one of its replacements never applied")

	_ = cmd.RegisterFlagCompletionFunc("type-hints", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"none", "all", "all_but_class_vars"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagDirname("out")
}
