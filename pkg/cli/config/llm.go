package config

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/service/llm"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the text enhancement client
type LLM struct {
	provider string
	apiKey   string
	model    string
	project  string
	location string
}

func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Category:    "LLM",
			Usage:       "Text enhancement provider (" + strings.Join(llm.Providers, ", ") + ")",
			Value:       llm.ProviderGemini,
			Sources:     cli.EnvVars("MEMORYJAR_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.StringFlag{
			Name:        "llm-api-key",
			Category:    "LLM",
			Usage:       "API key for gemini, openai or claude",
			Sources:     cli.EnvVars("MEMORYJAR_LLM_API_KEY", "GEMINI_API_KEY", "API_KEY"),
			Destination: &l.apiKey,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Category:    "LLM",
			Usage:       "Model name, provider default when empty",
			Sources:     cli.EnvVars("MEMORYJAR_LLM_MODEL"),
			Destination: &l.model,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Category:    "LLM",
			Usage:       "Google Cloud project ID for the vertex provider",
			Sources:     cli.EnvVars("MEMORYJAR_GEMINI_PROJECT"),
			Destination: &l.project,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Category:    "LLM",
			Usage:       "Google Cloud location for the vertex provider",
			Value:       "us-central1",
			Sources:     cli.EnvVars("MEMORYJAR_GEMINI_LOCATION"),
			Destination: &l.location,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration
func (l *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("provider", l.provider),
		slog.String("model", l.model),
		slog.Bool("api_key_set", l.apiKey != ""),
		slog.String("project_id", l.project),
		slog.String("location", l.location),
	}
}

func (l *LLM) config() llm.Config {
	return llm.Config{
		Provider: l.provider,
		APIKey:   l.apiKey,
		Model:    l.model,
		Project:  l.project,
		Location: l.location,
	}
}

// Configure creates the text generator, guarded by a circuit breaker.
// Returns nil if no credentials are configured (enhancement is disabled).
func (l *LLM) Configure(ctx context.Context) (interfaces.TextGenerator, error) {
	gen, err := llm.New(ctx, l.config())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM client")
	}
	if gen == nil {
		logging.Default().Info("LLM credentials not configured, text enhancement disabled")
		return nil, nil
	}

	return llm.NewBreaker(l.provider, gen, llm.DefaultBreakerConfig()), nil
}
