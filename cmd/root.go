package cmd

import (
	"fmt"
	"slices"

	"github.com/klemjul/dobbychat/internal/app"
	"github.com/klemjul/dobbychat/internal/chat"
	"github.com/klemjul/dobbychat/internal/config"
	"github.com/klemjul/dobbychat/internal/enrich"
	"github.com/klemjul/dobbychat/internal/llm"
	"github.com/klemjul/dobbychat/internal/logging"
	"github.com/klemjul/dobbychat/internal/persona"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func RootCommand(app app.App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dobbychat",
		Short: "Chat with opinionated personas backed by a hosted LLM.",
		Example: `
dobbychat serve --addr :3000   # Serve the chat widget and the chat API
dobbychat ask ANI "who won last night?"   # One reply from ANI
dobbychat ask ARI -i   # Chat with ARI in the terminal
dobbychat personas   # List the available personas
	`,
		SilenceUsage:      true,
		PersistentPreRunE: validate,
	}

	rootCmd.PersistentFlags().SortFlags = false

	rootCmd.PersistentFlags().String("provider", "",
		fmt.Sprintf("LLM provider to use. (env: %s, default: %s)", config.GetEnvWithPrefix(config.ENV_PROVIDER), config.DEFAULT_PROVIDER))
	rootCmd.PersistentFlags().String("model", "",
		fmt.Sprintf("LLM model to use, depends on the provider. (env: %s)", config.GetEnvWithPrefix(config.ENV_MODEL)))
	rootCmd.PersistentFlags().String("personas", "",
		fmt.Sprintf("YAML file with extra personas. (env: %s)", config.GetEnvWithPrefix(config.ENV_PERSONAS_FILE)))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		fmt.Sprintf("Enable debug logs. (env: %s)", config.GetEnvWithPrefix(config.ENV_VERBOSE)))

	bindFlag(config.ENV_PROVIDER, rootCmd.PersistentFlags().Lookup("provider"))
	bindFlag(config.ENV_MODEL, rootCmd.PersistentFlags().Lookup("model"))
	bindFlag(config.ENV_PERSONAS_FILE, rootCmd.PersistentFlags().Lookup("personas"))
	bindFlag(config.ENV_VERBOSE, rootCmd.PersistentFlags().Lookup("verbose"))

	config.Setup(viper.GetViper())

	rootCmd.AddCommand(serveCommand(app), askCommand(app), personasCommand())

	return rootCmd
}

func validate(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(config.DEFAULT_ENV_FILE); err != nil {
		return err
	}

	provider := viper.GetString(config.ENV_PROVIDER)
	if !slices.Contains(llm.LLMProviders, llm.LLMProvider(provider)) {
		return fmt.Errorf("invalid provider '%s'. Valid providers are: %v", provider, llm.LLMProviders)
	}

	model := viper.GetString(config.ENV_MODEL)
	if model == "" {
		return fmt.Errorf("model must be specified '%s'", model)
	}

	return nil
}

// relay holds everything a command needs to answer chat messages.
type relay struct {
	cfg          config.Config
	logger       *zap.Logger
	personas     *persona.Registry
	orchestrator *chat.Orchestrator
}

func newRelay(app app.App) (*relay, error) {
	cfg := config.Load(viper.GetViper())

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return nil, err
	}
	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	personas, err := loadPersonas(cfg.PersonasFile)
	if err != nil {
		return nil, err
	}

	client, err := app.LLM().NewClient(llm.LLMProvider(cfg.LLM.Provider), llm.LLMClientOptions{
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Endpoint: cfg.LLM.OllamaEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %v", err)
	}

	enrichers := []enrich.Enricher{
		enrich.NewFootball(&cfg.Football, logger),
		enrich.NewMarket(&cfg.Market, logger),
	}

	return &relay{
		cfg:          cfg,
		logger:       logger,
		personas:     personas,
		orchestrator: chat.NewOrchestrator(personas, client, enrichers, logger),
	}, nil
}

func loadPersonas(path string) (*persona.Registry, error) {
	personas := persona.DefaultRegistry()
	if path == "" {
		return personas, nil
	}
	if err := personas.LoadFile(path); err != nil {
		return nil, err
	}
	return personas, nil
}

func bindFlag(key string, flag *pflag.Flag) {
	_ = viper.BindPFlag(key, flag)
}
