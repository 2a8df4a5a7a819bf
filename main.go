// Command career-projector analyses CVs and recommends career pathways.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Kele901/career-projector/internal/agent"
	"github.com/Kele901/career-projector/internal/catalog"
	"github.com/Kele901/career-projector/internal/config"
	"github.com/Kele901/career-projector/internal/ingestion"
	"github.com/Kele901/career-projector/internal/llm"
	"github.com/Kele901/career-projector/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "career-projector",
	Short: "Career pathway recommendations from CVs",
	Long: "career-projector extracts work history and skills from CVs and ranks career pathways " +
		"by skill match, experience relevance, career progression and recency.",
	SilenceUsage: true,
}

var (
	configFile string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config.json (default: user config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, applies environment and flag overrides and validates the result
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = strings.ToLower(logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ApplyToEnv()
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	l := logger.New(&logger.Config{
		Level:  logger.Level(strings.ToUpper(cfg.LogLevel)),
		Format: logger.Format(cfg.LogFormat),
	})
	l.SetDefault()
	return l.Logger
}

// newAgent wires the agent from configuration. A Vertex AI client that cannot be
// created leaves enhancement off instead of failing the command.
func newAgent(ctx context.Context, cfg *config.Config, l *slog.Logger) (*agent.CareerAgent, error) {
	minScore := cfg.MinScore
	opts := agent.Options{
		UploadsDir:  cfg.UploadsDir,
		TopN:        cfg.TopN,
		MinScore:    &minScore,
		Concurrency: cfg.Concurrency,
		Gmail: ingestion.GmailOptions{
			CredentialsPath: cfg.GmailCredentialsPath,
			TokenPath:       cfg.GmailTokenPath,
			Logger:          l,
		},
		Logger: l,
	}

	if cfg.CatalogPath != "" {
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		opts.Catalog = c
	}

	if cfg.EnableAIEnhancement {
		client, err := llm.NewVertexAIClient(ctx, llm.VertexOptions{
			ProjectID: cfg.GoogleCloudProject,
			Location:  cfg.GoogleCloudLocation,
			Model:     cfg.GeminiModel,
		})
		if err != nil {
			l.Warn("AI enhancement disabled", "error", err)
		} else {
			opts.LLM = client
		}
	}

	return agent.NewCareerAgent(opts)
}

// setup is the common prelude of every subcommand
func setup(ctx context.Context) (*config.Config, *slog.Logger, *agent.CareerAgent, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	l := newLogger(cfg)
	a, err := newAgent(ctx, cfg, l)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, l, a, nil
}
