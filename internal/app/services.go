package app

import (
	"context"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/klemjul/dobbychat/internal/format"
	"github.com/klemjul/dobbychat/internal/llm"
	"github.com/klemjul/dobbychat/internal/server"
	"github.com/klemjul/dobbychat/internal/ui"
	"go.uber.org/zap"
)

type TUIService interface {
	InitialModel(opts ui.InitialModelOptions) ui.ChatTUIModel
	Run(model ui.ChatTUIModel) (returnModel tea.Model, returnErr error)
}

type LLMService interface {
	NewClient(provider llm.LLMProvider, opts llm.LLMClientOptions) (llm.LLMClient, error)
}

type TextFormatService interface {
	FormatMarkdown(text string) (string, error)
}

type ServerService interface {
	Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error
}

type App interface {
	TUI() TUIService
	LLM() LLMService
	Format() TextFormatService
	Server() ServerService
}

type DefaultTUIService struct{}

type DefaultLLMService struct{}

type DefaultTextFormatService struct{}

type DefaultServerService struct{}

type DefaultApp struct {
	tui    TUIService
	llm    LLMService
	format TextFormatService
	server ServerService
}

func (a *DefaultApp) TUI() TUIService           { return a.tui }
func (a *DefaultApp) LLM() LLMService           { return a.llm }
func (a *DefaultApp) Format() TextFormatService { return a.format }
func (a *DefaultApp) Server() ServerService     { return a.server }

func (c *DefaultTUIService) InitialModel(opts ui.InitialModelOptions) ui.ChatTUIModel {
	return ui.InitialModel(opts)
}
func (c *DefaultTUIService) Run(model ui.ChatTUIModel) (returnModel tea.Model, returnErr error) {
	return tea.NewProgram(model).Run()
}

func (l *DefaultLLMService) NewClient(provider llm.LLMProvider, opts llm.LLMClientOptions) (llm.LLMClient, error) {
	return llm.NewClient(provider, opts)
}

func (l *DefaultTextFormatService) FormatMarkdown(text string) (string, error) {
	return format.FormatMarkdown(text)
}

func (s *DefaultServerService) Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	return server.ListenAndServe(ctx, addr, handler, logger)
}

func NewDefaultApp() App {
	return &DefaultApp{
		tui:    &DefaultTUIService{},
		llm:    &DefaultLLMService{},
		format: &DefaultTextFormatService{},
		server: &DefaultServerService{},
	}
}
