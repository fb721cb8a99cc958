package llm

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig controls when the circuit opens and for how long
type BreakerConfig struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	CallTimeout      time.Duration
}

// DefaultBreakerConfig trips after three consecutive failures and stays
// open for a minute
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		OpenTimeout:      time.Minute,
		CallTimeout:      30 * time.Second,
	}
}

// Breaker stops calling a failing provider until it has had time to recover
type Breaker struct {
	next        interfaces.TextGenerator
	cb          *gobreaker.CircuitBreaker[string]
	callTimeout time.Duration
}

var _ interfaces.TextGenerator = &Breaker{}

func NewBreaker(name string, next interfaces.TextGenerator, cfg BreakerConfig) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Default().Info("LLM circuit breaker state changed",
				"provider", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Breaker{
		next:        next,
		cb:          gobreaker.NewCircuitBreaker[string](settings),
		callTimeout: cfg.CallTimeout,
	}
}

func (b *Breaker) Generate(ctx context.Context, prompt string) (string, error) {
	if b.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.callTimeout)
		defer cancel()
	}

	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt)
	})
	if err != nil {
		return "", goerr.Wrap(err, "text generation failed", goerr.V("state", b.cb.State().String()))
	}
	return text, nil
}

// State reports the current circuit state
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
