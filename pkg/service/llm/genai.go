package llm

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"google.golang.org/genai"
)

// GenAI calls the Gemini API with an API key
type GenAI struct {
	client *genai.Client
	model  string
}

var _ interfaces.TextGenerator = &GenAI{}

func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini API client")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GenAI{client: client, model: model}, nil
}

func (g *GenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content", goerr.V("model", g.model))
	}

	text := resp.Text()
	if text == "" {
		return "", goerr.Wrap(ErrEmptyResponse, "Gemini returned no text", goerr.V("model", g.model))
	}
	return text, nil
}
