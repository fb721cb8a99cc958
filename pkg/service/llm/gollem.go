package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
)

// Gollem generates text through a gollem LLM client. Each call opens a
// fresh session so no history carries over between prompts.
type Gollem struct {
	client gollem.LLMClient
}

var _ interfaces.TextGenerator = &Gollem{}

func NewGollem(client gollem.LLMClient) *Gollem {
	return &Gollem{client: client}
}

func (g *Gollem) Generate(ctx context.Context, prompt string) (string, error) {
	session, err := g.client.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.Wrap(ErrEmptyResponse, "LLM returned no text")
	}

	return strings.Join(resp.Texts, ""), nil
}
