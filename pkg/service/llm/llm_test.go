package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/memoryjar/pkg/service/llm"
	"github.com/sony/gobreaker/v2"
)

type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"a poetic memory"}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

type stubGenerator struct {
	fn    func(ctx context.Context, prompt string) (string, error)
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.fn(ctx, prompt)
}

func TestGollemGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the prompt and returns text", func(t *testing.T) {
		var got []gollem.Input
		client := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						got = input
						return &gollem.Response{Texts: []string{"rewritten"}}, nil
					},
				}, nil
			},
		}

		text, err := llm.NewGollem(client).Generate(ctx, "rewrite this")
		gt.NoError(t, err).Required()
		gt.Value(t, text).Equal("rewritten")
		gt.Array(t, got).Length(1).Required()
		gt.Value(t, got[0]).Equal(gollem.Input(gollem.Text("rewrite this")))
	})

	t.Run("empty response is an error", func(t *testing.T) {
		client := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return &gollem.Response{}, nil
					},
				}, nil
			},
		}

		_, err := llm.NewGollem(client).Generate(ctx, "x")
		gt.Bool(t, errors.Is(err, llm.ErrEmptyResponse)).True()
	})

	t.Run("session failure is an error", func(t *testing.T) {
		client := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return nil, goerr.New("quota exceeded")
			},
		}

		_, err := llm.NewGollem(client).Generate(ctx, "x")
		gt.Value(t, err).NotNil()
	})
}

func TestBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("opens after consecutive failures", func(t *testing.T) {
		next := &stubGenerator{fn: func(ctx context.Context, prompt string) (string, error) {
			return "", goerr.New("provider down")
		}}
		b := llm.NewBreaker("test", next, llm.BreakerConfig{
			FailureThreshold: 2,
			OpenTimeout:      time.Hour,
		})

		for i := 0; i < 2; i++ {
			_, err := b.Generate(ctx, "x")
			gt.Value(t, err).NotNil()
		}
		gt.Value(t, b.State()).Equal(gobreaker.StateOpen)

		_, err := b.Generate(ctx, "x")
		gt.Bool(t, errors.Is(err, gobreaker.ErrOpenState)).True()
		gt.Value(t, next.calls).Equal(2)
	})

	t.Run("passes through success", func(t *testing.T) {
		next := &stubGenerator{fn: func(ctx context.Context, prompt string) (string, error) {
			return "ok:" + prompt, nil
		}}
		b := llm.NewBreaker("test", next, llm.DefaultBreakerConfig())

		text, err := b.Generate(ctx, "hi")
		gt.NoError(t, err).Required()
		gt.Value(t, text).Equal("ok:hi")
		gt.Value(t, b.State()).Equal(gobreaker.StateClosed)
	})

	t.Run("call timeout cancels the context", func(t *testing.T) {
		next := &stubGenerator{fn: func(ctx context.Context, prompt string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}}
		b := llm.NewBreaker("test", next, llm.BreakerConfig{
			FailureThreshold: 5,
			OpenTimeout:      time.Minute,
			CallTimeout:      10 * time.Millisecond,
		})

		_, err := b.Generate(ctx, "x")
		gt.Bool(t, errors.Is(err, context.DeadlineExceeded)).True()
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("no credentials means no generator", func(t *testing.T) {
		for _, provider := range llm.Providers {
			gen, err := llm.New(ctx, llm.Config{Provider: provider})
			gt.NoError(t, err).Required()
			gt.Value(t, gen).Nil()
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := llm.New(ctx, llm.Config{Provider: "palm", APIKey: "k"})
		gt.Bool(t, errors.Is(err, llm.ErrUnsupportedProvider)).True()
	})

	t.Run("gemini API key client", func(t *testing.T) {
		gen, err := llm.New(ctx, llm.Config{Provider: llm.ProviderGemini, APIKey: "test-key"})
		gt.NoError(t, err).Required()
		_, ok := gen.(*llm.GenAI)
		gt.Bool(t, ok).True()
	})
}
