package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/klemjul/dobbychat/internal/app"
	"github.com/klemjul/dobbychat/internal/config"
	"github.com/klemjul/dobbychat/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCommand(app app.App) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat widget and POST /api/chat/{personaId}.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app)
		},
	}

	serveCmd.Flags().String("addr", "",
		fmt.Sprintf("Address to listen on. (env: %s, default: %s)", config.GetEnvWithPrefix(config.ENV_ADDR), config.DEFAULT_ADDR))
	serveCmd.Flags().String("public-dir", "",
		fmt.Sprintf("Serve the widget from this directory instead of the embedded one. (env: %s)", config.GetEnvWithPrefix(config.ENV_PUBLIC_DIR)))

	bindFlag(config.ENV_ADDR, serveCmd.Flags().Lookup("addr"))
	bindFlag(config.ENV_PUBLIC_DIR, serveCmd.Flags().Lookup("public-dir"))

	return serveCmd
}

func runServe(cmd *cobra.Command, app app.App) error {
	r, err := newRelay(app)
	if err != nil {
		return err
	}
	defer r.logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(r.orchestrator, &r.cfg.Server, r.logger)
	r.logger.Info("starting chat relay",
		zap.String("provider", r.cfg.LLM.Provider),
		zap.String("model", r.cfg.LLM.Model),
		zap.Strings("personas", r.personas.IDs()))

	if err := app.Server().Serve(ctx, r.cfg.Server.Addr, srv.Handler(), r.logger); err != nil {
		return fmt.Errorf("chat relay stopped: %w", err)
	}
	return nil
}
