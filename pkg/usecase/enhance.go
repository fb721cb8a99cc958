package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
)

const enhancePromptTemplate = `Rewrite the following memory to be more romantic, poetic, and evocative, but keep it authentic and short (under 50 words).

Original text: "%s"`

// EnhanceUseCase rewrites draft text through a generator. It never fails:
// any problem yields the original text.
type EnhanceUseCase struct {
	generator interfaces.TextGenerator
}

func NewEnhanceUseCase(generator interfaces.TextGenerator) *EnhanceUseCase {
	return &EnhanceUseCase{generator: generator}
}

// Available reports whether a generator is configured
func (uc *EnhanceUseCase) Available() bool {
	return uc.generator != nil
}

func (uc *EnhanceUseCase) Enhance(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if uc.generator == nil {
		return text
	}

	logger := logging.From(ctx)
	resp, err := uc.generator.Generate(ctx, buildEnhancePrompt(text))
	if err != nil {
		logger.Warn("text enhancement failed, keeping original", "error", err.Error())
		return text
	}

	resp = strings.TrimSpace(resp)
	if resp == "" {
		logger.Warn("text enhancement returned nothing, keeping original")
		return text
	}
	return resp
}

func buildEnhancePrompt(text string) string {
	return fmt.Sprintf(enhancePromptTemplate, text)
}
