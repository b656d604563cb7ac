// Package server exposes the chat orchestrator over HTTP and serves the
// browser chat widget.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/klemjul/dobbychat/internal/config"
	"go.uber.org/zap"
)

const (
	MODEL_CALL_FAILED = "Something went wrong with the model call."
	SHUTDOWN_TIMEOUT  = 10 * time.Second
)

//go:embed public
var publicFS embed.FS

type Chatter interface {
	Handle(ctx context.Context, personaID string, message string) (string, error)
}

type Server struct {
	chatter Chatter
	static  http.Handler
	logger  *zap.Logger
}

// New serves static files from cfg.PublicDir, or from the embedded widget
// when it is empty.
func New(chatter Chatter, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	var static http.Handler
	if cfg.PublicDir != "" {
		static = http.FileServer(http.Dir(cfg.PublicDir))
	} else {
		sub, err := fs.Sub(publicFS, "public")
		if err != nil {
			panic(fmt.Sprintf("embedded public dir: %v", err))
		}
		static = http.FileServerFS(sub)
	}

	return &Server{chatter: chatter, static: static, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat/{personaId}", s.handleChat)
	mux.Handle("GET /", s.static)

	return s.withRequestLog(withCORS(mux))
}

// ListenAndServe blocks until ctx is cancelled, then drains in-flight
// requests before returning.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chat relay listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down chat relay")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
