package usecase

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/repository/jar"
	"github.com/secmon-lab/memoryjar/pkg/utils/errutil"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
)

// RevealUseCase is the daily gate: at most one new memory per cooldown
// period.
type RevealUseCase struct {
	repo *jar.Repository
	now  func() time.Time
	intn func(n int) int

	// serializes reveals within the process
	mu sync.Mutex
}

type RevealOption func(*RevealUseCase)

func WithRevealClock(now func() time.Time) RevealOption {
	return func(uc *RevealUseCase) {
		uc.now = now
	}
}

func WithRevealRandom(intn func(n int) int) RevealOption {
	return func(uc *RevealUseCase) {
		uc.intn = intn
	}
}

func NewRevealUseCase(repo *jar.Repository, opts ...RevealOption) *RevealUseCase {
	uc := &RevealUseCase{
		repo: repo,
		now:  time.Now,
		intn: rand.IntN,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Status reports whether today's memory has been revealed and how long until
// the jar opens again. Expired locks are reported as unlocked and left in
// place.
func (uc *RevealUseCase) Status(ctx context.Context) (model.DailyStatus, error) {
	lock, err := uc.repo.LoadLock(ctx)
	if err != nil {
		return model.DailyStatus{}, err
	}
	return model.StatusAt(lock, uc.now()), nil
}

// Reveal returns today's memory. While the lock is active the same snapshot
// is returned. Otherwise one unseen memory is picked at random, marked seen
// and locked in. A nil memory means every memory has been seen.
//
// Failing to persist the seen flag or the lock does not fail the reveal.
func (uc *RevealUseCase) Reveal(ctx context.Context) (*model.Memory, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "reveal canceled")
	}

	now := uc.now()
	logger := logging.From(ctx)

	lock, err := uc.repo.LoadLock(ctx)
	if err != nil {
		return nil, err
	}
	if lock.IsActive(now) && lock.Memory != nil {
		return lock.Memory.Copy(), nil
	}

	memories, err := uc.repo.SeedIfEmpty(ctx)
	if err != nil {
		return nil, err
	}

	unseen := model.Unseen(memories)
	if len(unseen) == 0 {
		logger.Info("no unseen memories left", "total", len(memories))
		return nil, nil
	}

	chosen := unseen[uc.intn(len(unseen))]
	chosen.Seen = true

	if err := uc.repo.SaveAll(ctx, memories); err != nil {
		errutil.Handle(ctx, err, "failed to persist seen flag, memory may be revealed again")
	}
	if err := uc.repo.SaveLock(ctx, model.NewDailyLock(now, chosen)); err != nil {
		errutil.Handle(ctx, err, "failed to persist daily lock, jar stays open")
	}

	logger.Info("memory revealed", "id", chosen.ID, "remaining", len(unseen)-1)
	return chosen.Copy(), nil
}

// Bypass removes the daily lock so the next reveal picks a new memory
func (uc *RevealUseCase) Bypass(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.repo.DeleteLock(ctx); err != nil {
		return err
	}
	logging.From(ctx).Info("daily lock bypassed")
	return nil
}
