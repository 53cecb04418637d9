package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"personaos/config"
	chatinterface "personaos/interface/chat"
	"personaos/setup"
)

var (
	// Global flags
	verbose    bool
	configFile string

	// Root flags
	llmOverride string
	query       string
	logFile     string
	showConfig  bool
	setConfig   bool
	resetConfig bool
	resetEnv    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "personaos [--set-config KEY VALUE]",
	Short: "PersonaOS - a local voice-style assistant for the terminal",
	Long: `PersonaOS answers everyday requests from the terminal.

Each input is classified by a pattern-based intent pipeline, checked
against a safety policy and either handled by a built-in tool (time,
weather, web search, calculator, timers, system info) or passed to the
configured language model.

Run without arguments to start the interactive chat.`,
	Args: cobra.ArbitraryArgs,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd == rootCmd && resetEnv {
			if err := resetEnvFile(cmd.OutOrStdout()); err != nil {
				return err
			}
		}
		if err := config.LoadEnv(config.EnvFile); err != nil {
			return err
		}
		if cmd == rootCmd && isInteractive() && !configOnly() {
			if err := onboard(cmd); err != nil {
				return err
			}
		}

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if llmOverride != "" {
			cfg.Assistant.LLM = llmOverride
		}

		logger, err = newLogger(cfg.Assistant.LogLevel)
		return err
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", config.DefaultPath, "Path to the YAML config file")

	rootCmd.Flags().StringVar(&llmOverride, "llm", "", "LLM provider to use (ollama, openai, gemini)")
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "Answer a single query and exit")
	rootCmd.Flags().StringVar(&logFile, "log", "", "Append the conversation to this file")
	rootCmd.Flags().BoolVar(&showConfig, "config", false, "Print the current configuration")
	rootCmd.Flags().BoolVar(&setConfig, "set-config", false, "Set a config key: --set-config KEY VALUE")
	rootCmd.Flags().BoolVar(&resetConfig, "reset-config", false, "Reset the config file to defaults")
	rootCmd.Flags().BoolVar(&resetEnv, "reset-env", false, "Remove .env and rerun environment setup")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of exchanges to show")
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Only show exchanges containing this text")
	historyCmd.Flags().StringVar(&historyAction, "action", "", "Only show exchanges with this action (e.g. tool_executed)")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	switch {
	case setConfig:
		if len(args) != 2 {
			return fmt.Errorf("--set-config requires KEY and VALUE")
		}
		return setConfigValue(out, configFile, args[0], args[1])
	case len(args) > 0:
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	case resetConfig:
		return resetConfigFile(out, configFile)
	case showConfig:
		return printConfig(out, cfg)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := setup.Options{}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		opts.TranscriptLog = f
	}

	b, err := setup.Initialize(ctx, cfg, logger, opts)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer b.Cleanup()

	if query != "" {
		return answerQuery(ctx, out, b, query)
	}

	chatUI := chatinterface.NewInterface(cmd.InOrStdin(), out, isTerminal(os.Stdout))
	return runChat(ctx, chatUI, out, b)
}

func resetEnvFile(out io.Writer) error {
	removed, err := config.ResetEnv(config.EnvFile)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintln(out, "Environment reset.")
	}
	return nil
}

// onboard prompts for any .env values the template asks for
func onboard(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	complete, err := config.IsEnvComplete(config.EnvFile, config.EnvTemplateFile)
	if err != nil {
		return err
	}
	if complete {
		return nil
	}
	if err := config.RunEnvSetup(cmd.InOrStdin(), out, config.EnvFile, config.EnvTemplateFile); err != nil {
		return err
	}
	return config.LoadEnv(config.EnvFile)
}

// newLogger builds a production logger at the configured level. The
// default is Warn so log lines do not interleave with the chat.
func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl := zapcore.WarnLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func configOnly() bool {
	return query != "" || showConfig || setConfig || resetConfig
}

func isInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
