package usecase

import (
	"time"

	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/repository/jar"
)

type UseCases struct {
	repo      *jar.Repository
	generator interfaces.TextGenerator
	gateOpts  []AccessGateOption
	now       func() time.Time
	intn      func(n int) int

	Reveal  *RevealUseCase
	Admin   *AdminUseCase
	Enhance *EnhanceUseCase
	Access  *AccessGate
}

type Option func(*UseCases)

// WithTextGenerator enables text enhancement. Without it Enhance returns its
// input unchanged.
func WithTextGenerator(gen interfaces.TextGenerator) Option {
	return func(uc *UseCases) {
		uc.generator = gen
	}
}

func WithAccessGate(opts ...AccessGateOption) Option {
	return func(uc *UseCases) {
		uc.gateOpts = append(uc.gateOpts, opts...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithRandom replaces the source used to pick among unseen memories. intn
// must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(uc *UseCases) {
		uc.intn = intn
	}
}

func New(repo *jar.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	var revealOpts []RevealOption
	if uc.now != nil {
		revealOpts = append(revealOpts, WithRevealClock(uc.now))
		uc.gateOpts = append([]AccessGateOption{WithGateClock(uc.now)}, uc.gateOpts...)
	}
	if uc.intn != nil {
		revealOpts = append(revealOpts, WithRevealRandom(uc.intn))
	}

	uc.Reveal = NewRevealUseCase(repo, revealOpts...)
	uc.Admin = NewAdminUseCase(repo)
	uc.Enhance = NewEnhanceUseCase(uc.generator)
	uc.Access = NewAccessGate(uc.gateOpts...)

	return uc
}

// Location returns the time zone calendar dates are interpreted in
func (uc *UseCases) Location() *time.Location {
	return uc.repo.Location()
}
