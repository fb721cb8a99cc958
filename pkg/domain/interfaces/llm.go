package interfaces

import "context"

// TextGenerator produces text from a single prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
