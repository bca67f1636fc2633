package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leofalp/chatflow/internal/config"
	"github.com/leofalp/chatflow/pipeline"
	"github.com/leofalp/chatflow/providers/ai/openai"
	"github.com/leofalp/chatflow/providers/memory"
	"github.com/leofalp/chatflow/providers/memory/badgerstore"
	"github.com/leofalp/chatflow/providers/memory/inmemory"
	"github.com/leofalp/chatflow/providers/observability/slogobs"
	"github.com/leofalp/chatflow/providers/tool"
	"github.com/leofalp/chatflow/providers/tool/duckduckgo"
	"github.com/leofalp/chatflow/providers/tool/webfetch"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "chatflow",
	Short: "Streaming LLM conversation pipeline",
	Long: `chatflow is a conversation pipeline with streaming delivery.

Commands:
  chat      Interactive console conversation with tool support
  joke      Stream a generated joke for a topic to the console
  history   Inspect or rewind the checkpoints of a thread
  serve     Expose the pipeline over HTTP (plain stream and SSE)

Configuration is read from an optional YAML file (--config), a .env file
in the working directory, and environment variables (CHATFLOW_MODEL,
OPENAI_API_KEY, OPENAI_API_BASE_URL, CHATFLOW_ADDR, CHATFLOW_DATA_DIR).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// runtime bundles everything a command needs, built once per invocation.
type runtime struct {
	cfg          *config.Config
	pipeline     *pipeline.Pipeline
	checkpointer memory.Checkpointer
	observer     *slogobs.Observer
	cleanup      func()
}

func buildRuntime(extraOptions ...pipeline.Option) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := parseLogLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observer := slogobs.New(logger)

	provider := openai.NewOpenAIProvider()
	if cfg.APIKey != "" {
		provider.WithAPIKey(cfg.APIKey)
	}
	if cfg.BaseURL != "" {
		provider.WithBaseURL(cfg.BaseURL)
	}

	checkpointer, cleanup, err := buildCheckpointer(cfg)
	if err != nil {
		return nil, err
	}

	catalog := tool.NewCatalogWithTools(
		duckduckgo.NewSearchTool(),
		webfetch.NewWebFetchTool(),
	)

	options := append([]pipeline.Option{
		pipeline.WithTools(catalog),
		pipeline.WithCheckpointer(checkpointer),
	}, extraOptions...)

	p, err := pipeline.New(provider, cfg.Model, options...)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &runtime{
		cfg:          cfg,
		pipeline:     p,
		checkpointer: checkpointer,
		observer:     observer,
		cleanup:      cleanup,
	}, nil
}

func buildCheckpointer(cfg *config.Config) (memory.Checkpointer, func(), error) {
	if cfg.DataDir == "" {
		return inmemory.New(), func() {}, nil
	}
	store, err := badgerstore.New(badgerstore.Options{Dir: cfg.DataDir})
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func parseLogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func typingInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.TypingIntervalMS) * time.Millisecond
}
