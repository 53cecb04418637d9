package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"personaos/agent/intent"
	"personaos/config"
	"personaos/core/registry"
	"personaos/core/types"
	chatinterface "personaos/interface/chat"
	"personaos/setup"
	"personaos/transcript"
	"personaos/ui"
)

var (
	historyLimit  int
	historySearch string
	historyAction string
)

// toolsCmd lists the tools the assistant can run
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := setup.InitializeRegistry(cfg, logger.Named("tools"))
		if client := setup.InitializeMCPClient(cmd.Context(), cfg, r, logger.Named("mcp")); client != nil {
			defer client.Close()
		}
		printTools(cmd.OutOrStdout(), r)
		return nil
	},
}

// historyCmd shows stored exchanges
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent exchanges from the transcript store",
	Long: `Shows exchanges recorded by earlier sessions, newest first.

Example:
  personaos history --search weather --limit 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Transcript.Enabled {
			return fmt.Errorf("transcript store is disabled (transcript.enabled: false)")
		}
		store, err := transcript.NewStore(cfg.TranscriptPath())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Search(cmd.Context(), transcript.Query{
			Text:   historySearch,
			Action: historyAction,
			Limit:  historyLimit,
		})
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), entries)
		return nil
	},
}

func printTools(w io.Writer, r *registry.Registry) {
	tools := r.Tools()
	metas := make([]types.ToolMetadata, 0, len(tools))
	for _, t := range tools {
		metas = append(metas, t.Metadata())
	}
	ui.PrintToolHelp(w, metas)
}

func printHistory(w io.Writer, entries []transcript.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No exchanges recorded yet.")
		return
	}
	for _, e := range entries {
		label := e.Action
		if e.Tool != "" {
			label += "/" + e.Tool
		}
		fmt.Fprintf(w, "[%s] (%s)\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), label)
		fmt.Fprintf(w, "  You: %s\n", e.UserInput)
		fmt.Fprintf(w, "  PersonaOS: %s\n", e.Response)
	}
}

// printConfig handles --config
func printConfig(w io.Writer, cfg *config.Config) error {
	lines, err := config.Flatten(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Current PersonaOS Config:")
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}

// setConfigValue handles --set-config. The file is edited without the
// environment overlay so env values are not written back.
func setConfigValue(w io.Writer, path, key, raw string) error {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	value, err := config.Set(cfg, key, raw)
	if err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Config key '%s' set to '%v'\n", key, value)
	return nil
}

// resetConfigFile handles --reset-config
func resetConfigFile(w io.Writer, path string) error {
	if _, err := config.Reset(path); err != nil {
		return err
	}
	fmt.Fprintln(w, "Config reset to default values.")
	return nil
}

// answerQuery handles --query: one exchange, printed plainly
func answerQuery(ctx context.Context, w io.Writer, b *setup.Bootstrap, input string) error {
	resp := b.Chat.HandleChat(ctx, input)
	_, err := fmt.Fprintf(w, "PersonaOS: %s\n", resp.Text)
	return err
}

type inputLine struct {
	text string
	ok   bool
	err  error
}

// runChat is the interactive loop. It ends on exit/quit, end of input or
// cancellation of ctx.
func runChat(ctx context.Context, chatUI *chatinterface.Interface, out io.Writer, b *setup.Bootstrap) error {
	b.Registry.StatusHandler = func(toolName string, phase string) {
		switch phase {
		case "executing":
			chatUI.ShowThinking(fmt.Sprintf("Executing: %s", toolName))
		case "completed", "error":
			chatUI.ClearStatus()
		}
	}

	chatUI.PrintWelcome(b.Gateway.Model())

	for {
		// ReadInput blocks, so read in the background to stay responsive
		// to interrupts
		lines := make(chan inputLine, 1)
		go func() {
			text, ok, err := chatUI.ReadInput()
			lines <- inputLine{text: text, ok: ok, err: err}
		}()

		var in inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nGraceful shutdown.")
			return nil
		case in = <-lines:
		}

		if in.err != nil {
			chatUI.DisplayError(in.err)
			return in.err
		}
		if !in.ok {
			return nil
		}

		switch strings.ToLower(in.text) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "help", "-help", "--help":
			printTools(out, b.Registry)
			continue
		}

		chatUI.ShowThinking("PersonaOS is thinking...")
		resp := b.Chat.HandleChat(ctx, in.text)
		chatUI.ClearStatus()

		chatUI.DisplayResponse(resp.Text, resp.Record.Action == intent.ActionLLMResponse)
		chatUI.PrintSeparator()
	}
}
