package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
)

// DefaultGeminiModel is used for the API key backend when no model is set
const DefaultGeminiModel = "gemini-2.5-flash"

var (
	ErrEmptyResponse       = goerr.New("empty response from LLM")
	ErrUnsupportedProvider = goerr.New("unsupported LLM provider")
)

// Provider names accepted by New
const (
	ProviderGemini = "gemini"
	ProviderVertex = "vertex"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// Providers lists every supported provider name
var Providers = []string{ProviderGemini, ProviderVertex, ProviderOpenAI, ProviderClaude}

// Config selects and authenticates a provider
type Config struct {
	Provider string
	APIKey   string
	Model    string
	// Project and Location are used by the vertex provider
	Project  string
	Location string
}

// Enabled reports whether enough credentials are present to build a client
func (c Config) Enabled() bool {
	switch strings.ToLower(c.Provider) {
	case ProviderVertex:
		return c.Project != ""
	default:
		return c.APIKey != ""
	}
}

// New builds the generator for cfg. A config without credentials yields a
// nil generator and no error.
func New(ctx context.Context, cfg Config) (interfaces.TextGenerator, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case ProviderGemini, "":
		client, err := NewGenAI(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return client, nil

	case ProviderVertex:
		var opts []gemini.Option
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		client, err := gemini.New(ctx, cfg.Project, cfg.Location, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Vertex AI Gemini client", goerr.V("project", cfg.Project))
		}
		return NewGollem(client), nil

	case ProviderOpenAI:
		var opts []openai.Option
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		client, err := openai.New(ctx, cfg.APIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return NewGollem(client), nil

	case ProviderClaude:
		var opts []claude.Option
		if cfg.Model != "" {
			opts = append(opts, claude.WithModel(cfg.Model))
		}
		client, err := claude.New(ctx, cfg.APIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}
		return NewGollem(client), nil

	default:
		return nil, goerr.Wrap(ErrUnsupportedProvider, "cannot create LLM client", goerr.V("provider", cfg.Provider))
	}
}
