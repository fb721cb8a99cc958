package jar

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
)

// Store keys. Values are JSON.
const (
	MemoriesKey  = "jar_memories"
	DailyLockKey = "jar_daily_lock"
)

// Repository keeps the memory collection and the daily lock in a KVStore
type Repository struct {
	store interfaces.KVStore
	seed  interfaces.SeedSource
	loc   *time.Location
	now   func() time.Time
}

type Option func(*Repository)

// WithSeed sets the document imported when the collection is empty
func WithSeed(seed interfaces.SeedSource) Option {
	return func(r *Repository) {
		r.seed = seed
	}
}

// WithLocation sets the zone calendar dates are interpreted in
func WithLocation(loc *time.Location) Option {
	return func(r *Repository) {
		r.loc = loc
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

func New(store interfaces.KVStore, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		loc:   time.Local,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Location returns the zone calendar dates are interpreted in
func (r *Repository) Location() *time.Location {
	return r.loc
}

// LoadAll returns the stored collection. Missing or undecodable data is an
// empty collection; only a failed read is an error.
func (r *Repository) LoadAll(ctx context.Context) ([]*model.Memory, error) {
	raw, found, err := r.store.Get(ctx, MemoriesKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read memories", goerr.V(model.StoreKeyKey, MemoriesKey))
	}
	if !found || len(raw) == 0 {
		return []*model.Memory{}, nil
	}

	var decoded []*model.Memory
	if err := json.Unmarshal(raw, &decoded); err != nil {
		logging.From(ctx).Warn("stored memories are not decodable, treating as empty",
			"key", MemoriesKey,
			"error", err.Error(),
		)
		return []*model.Memory{}, nil
	}

	memories := make([]*model.Memory, 0, len(decoded))
	for _, m := range decoded {
		if m != nil {
			memories = append(memories, m)
		}
	}
	return memories, nil
}

// SaveAll overwrites the collection. A store out of space yields an error
// matching model.ErrStorageFull.
func (r *Repository) SaveAll(ctx context.Context, memories []*model.Memory) error {
	if memories == nil {
		memories = []*model.Memory{}
	}
	raw, err := json.Marshal(memories)
	if err != nil {
		return goerr.Wrap(err, "failed to encode memories")
	}
	if err := r.store.Set(ctx, MemoriesKey, raw); err != nil {
		return goerr.Wrap(err, "failed to save memories",
			goerr.V(model.StoreKeyKey, MemoriesKey),
			goerr.V("count", len(memories)),
		)
	}
	return nil
}

// Seed imports the seed document and writes it back. The write is best
// effort: the imported set is returned even when it cannot be persisted.
// Any problem with the document itself yields an empty set.
func (r *Repository) Seed(ctx context.Context) []*model.Memory {
	logger := logging.From(ctx)
	if r.seed == nil {
		return []*model.Memory{}
	}

	records, err := r.seed.Fetch(ctx)
	if err != nil {
		logger.Info("seed document not loaded", "source", r.seed.Name(), "error", err.Error())
		return []*model.Memory{}
	}
	if len(records) == 0 {
		return []*model.Memory{}
	}

	now := r.now()
	memories := make([]*model.Memory, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		memories = append(memories, rec.ToMemory(now, r.loc))
	}

	if err := r.SaveAll(ctx, memories); err != nil {
		logger.Warn("failed to persist seed memories, using them in memory only",
			"source", r.seed.Name(),
			"error", err.Error(),
		)
	}

	logger.Info("seed memories imported", "source", r.seed.Name(), "count", len(memories))
	return memories
}

// SeedIfEmpty returns the stored collection, importing the seed document
// first when nothing is stored.
func (r *Repository) SeedIfEmpty(ctx context.Context) ([]*model.Memory, error) {
	memories, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(memories) > 0 {
		return memories, nil
	}
	return r.Seed(ctx), nil
}

// Add appends a new memory authored by the admin. date is YYYY-MM-DD and may
// be empty for today.
func (r *Repository) Add(ctx context.Context, text, imageURL, date string) (*model.Memory, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(model.ErrValidation, "text is required")
	}

	dateAdded := r.now()
	if date = strings.TrimSpace(date); date != "" {
		noon, err := model.LocalNoon(date, r.loc)
		if err != nil {
			return nil, err
		}
		dateAdded = noon
	}

	memory := &model.Memory{
		ID:        model.NewMemoryID(),
		Text:      text,
		ImageURL:  model.NormalizeImageURL(imageURL),
		DateAdded: dateAdded.UnixMilli(),
	}

	memories, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	memories = append(memories, memory)

	if err := r.SaveAll(ctx, memories); err != nil {
		return nil, goerr.Wrap(err, "failed to add memory", goerr.V(model.MemoryIDKey, memory.ID))
	}
	return memory, nil
}

// LoadLock returns the daily lock record, or nil when there is none or it
// cannot be decoded.
func (r *Repository) LoadLock(ctx context.Context) (*model.DailyLock, error) {
	raw, found, err := r.store.Get(ctx, DailyLockKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read daily lock", goerr.V(model.StoreKeyKey, DailyLockKey))
	}
	if !found || len(raw) == 0 {
		return nil, nil
	}

	var lock model.DailyLock
	if err := json.Unmarshal(raw, &lock); err != nil {
		logging.From(ctx).Warn("stored daily lock is not decodable, ignoring it",
			"key", DailyLockKey,
			"error", err.Error(),
		)
		return nil, nil
	}
	return &lock, nil
}

func (r *Repository) SaveLock(ctx context.Context, lock *model.DailyLock) error {
	raw, err := json.Marshal(lock)
	if err != nil {
		return goerr.Wrap(err, "failed to encode daily lock")
	}
	if err := r.store.Set(ctx, DailyLockKey, raw); err != nil {
		return goerr.Wrap(err, "failed to save daily lock", goerr.V(model.StoreKeyKey, DailyLockKey))
	}
	return nil
}

func (r *Repository) DeleteLock(ctx context.Context) error {
	if err := r.store.Delete(ctx, DailyLockKey); err != nil {
		return goerr.Wrap(err, "failed to delete daily lock", goerr.V(model.StoreKeyKey, DailyLockKey))
	}
	return nil
}

// Reset wipes every key of the store, memories and lock included
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return goerr.Wrap(err, "failed to clear store")
	}
	return nil
}
