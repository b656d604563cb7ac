package cmd

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/klemjul/dobbychat/internal/app"
	"github.com/klemjul/dobbychat/internal/llm"
	"github.com/klemjul/dobbychat/internal/server"
	"github.com/klemjul/dobbychat/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func askCommand(app app.App) *cobra.Command {
	askCmd := &cobra.Command{
		Use:   "ask <persona> [message]",
		Short: "Ask a persona something from the command line.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args, app)
		},
	}

	askCmd.Flags().BoolP("interactive", "i", false, "Chat with the persona in the terminal.")

	return askCmd
}

func runAsk(cmd *cobra.Command, args []string, app app.App) error {
	interactive, err := cmd.Flags().GetBool("interactive")
	if err != nil {
		interactive = false
	}

	personaID := args[0]
	message := ""
	if len(args) == 2 {
		message = strings.TrimSpace(args[1])
	}
	if message == "" && !interactive {
		return fmt.Errorf("message must be specified, or use -i to open the chat")
	}

	r, err := newRelay(app)
	if err != nil {
		return err
	}
	defer r.logger.Sync() //nolint:errcheck

	if !interactive {
		reply, err := r.orchestrator.Handle(cmd.Context(), personaID, message)
		if err != nil {
			return fmt.Errorf("failed to generate response: %v", err)
		}
		formattedRes, err := app.Format().FormatMarkdown(reply)
		if err != nil {
			return fmt.Errorf("failed to format response: %v", err)
		}
		cmd.OutOrStdout().Write([]byte(formattedRes))
		return nil
	}

	p := r.personas.Lookup(personaID)
	responder := makeBotResponder(r.orchestrator, cmd.Context(), personaID, r.logger)

	TUIModel := app.TUI().InitialModel(ui.InitialModelOptions{
		Title:          fmt.Sprintf("Chat with %s", p.Name),
		PersonaName:    p.Name,
		GetBotResponse: responder,
	})
	if _, err := app.TUI().Run(TUIModel); err != nil {
		return fmt.Errorf("error running interactive mode: %v", err)
	}
	return nil
}

// makeBotResponder sends every message on its own, like the browser widget.
func makeBotResponder(chatter server.Chatter, ctx context.Context, personaID string, logger *zap.Logger) func(string) tea.Cmd {
	return func(message string) tea.Cmd {
		return func() tea.Msg {
			reply, err := chatter.Handle(ctx, personaID, message)
			if err != nil {
				logger.Error("chat failed", zap.String("persona", personaID), zap.Error(err))
				return llm.Message{
					Role:    llm.Assistant,
					Content: ui.CHAT_FAILURE_MESSAGE,
				}
			}

			return llm.Message{
				Role:    llm.Assistant,
				Content: reply,
			}
		}
	}
}
