package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/repository/firestore"
	"github.com/secmon-lab/memoryjar/pkg/repository/memory"
	"github.com/secmon-lab/memoryjar/pkg/repository/redis"
	"github.com/secmon-lab/memoryjar/pkg/repository/sqlkv"
)

func runKVStoreTest(t *testing.T, newStore func(t *testing.T) interfaces.KVStore) {
	t.Helper()

	t.Run("Get returns not found for missing key", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		v, found, err := store.Get(ctx, "jar_memories")
		gt.NoError(t, err).Required()
		gt.Bool(t, found).False()
		gt.Array(t, v).Length(0)
	})

	t.Run("Set then Get returns the value", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		gt.NoError(t, store.Set(ctx, "jar_memories", []byte(`[{"id":"1"}]`))).Required()

		v, found, err := store.Get(ctx, "jar_memories")
		gt.NoError(t, err).Required()
		gt.Bool(t, found).True()
		gt.Value(t, string(v)).Equal(`[{"id":"1"}]`)
	})

	t.Run("Set overwrites the whole value", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		gt.NoError(t, store.Set(ctx, "jar_daily_lock", []byte("first-and-longer"))).Required()
		gt.NoError(t, store.Set(ctx, "jar_daily_lock", []byte("second"))).Required()

		v, found, err := store.Get(ctx, "jar_daily_lock")
		gt.NoError(t, err).Required()
		gt.Bool(t, found).True()
		gt.Value(t, string(v)).Equal("second")
	})

	t.Run("empty value is stored as found", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		gt.NoError(t, store.Set(ctx, "empty", []byte{})).Required()

		v, found, err := store.Get(ctx, "empty")
		gt.NoError(t, err).Required()
		gt.Bool(t, found).True()
		gt.Array(t, v).Length(0)
	})

	t.Run("Delete removes key and tolerates missing keys", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		gt.NoError(t, store.Set(ctx, "jar_daily_lock", []byte("{}"))).Required()
		gt.NoError(t, store.Delete(ctx, "jar_daily_lock")).Required()

		_, found, err := store.Get(ctx, "jar_daily_lock")
		gt.NoError(t, err).Required()
		gt.Bool(t, found).False()

		gt.NoError(t, store.Delete(ctx, "never-written"))
	})

	t.Run("Clear removes every key", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			gt.NoError(t, store.Set(ctx, fmt.Sprintf("key-%d", i), []byte("v"))).Required()
		}
		gt.NoError(t, store.Clear(ctx)).Required()

		for i := 0; i < 5; i++ {
			_, found, err := store.Get(ctx, fmt.Sprintf("key-%d", i))
			gt.NoError(t, err).Required()
			gt.Bool(t, found).False()
		}
	})

	t.Run("returned value is not aliased", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		value := []byte("abc")
		gt.NoError(t, store.Set(ctx, "k", value)).Required()
		value[0] = 'x'

		v, _, err := store.Get(ctx, "k")
		gt.NoError(t, err).Required()
		gt.Value(t, string(v)).Equal("abc")
	})
}

func TestMemoryKVStore(t *testing.T) {
	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		return memory.New()
	})
}

func TestMemoryKVStoreQuota(t *testing.T) {
	ctx := context.Background()
	store := memory.New(memory.WithQuota(32))

	gt.NoError(t, store.Set(ctx, "a", []byte("0123456789"))).Required()

	err := store.Set(ctx, "b", make([]byte, 64))
	gt.Value(t, err).NotNil()
	gt.Bool(t, errors.Is(err, model.ErrStorageFull)).True()

	// Overwriting a key only counts the new value
	gt.NoError(t, store.Set(ctx, "a", []byte("0123456789012345678901234")))

	_, found, err := store.Get(ctx, "b")
	gt.NoError(t, err).Required()
	gt.Bool(t, found).False()
}

func TestSQLiteKVStore(t *testing.T) {
	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		path := filepath.Join(t.TempDir(), "jar.db")
		store, err := sqlkv.Open(context.Background(), sqlkv.DialectSQLite, path)
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Close())
		})
		return store
	})
}

func TestPostgresKVStore(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		store, err := sqlkv.Open(context.Background(), sqlkv.DialectPostgres, dsn)
		gt.NoError(t, err).Required()
		gt.NoError(t, store.Clear(context.Background())).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Close())
		})
		return store
	})
}

func TestRedisKVStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		prefix := fmt.Sprintf("memoryjar-test-%d:", time.Now().UnixNano())
		store, err := redis.New(context.Background(), url, redis.WithKeyPrefix(prefix))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Clear(context.Background()))
			gt.NoError(t, store.Close())
		})
		return store
	})
}

func TestFirestoreKVStore(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	runKVStoreTest(t, func(t *testing.T) interfaces.KVStore {
		prefix := fmt.Sprintf("test_%d_", time.Now().UnixNano())
		store, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollectionPrefix(prefix))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, store.Clear(context.Background()))
			gt.NoError(t, store.Close())
		})
		return store
	})
}

func TestParseDialect(t *testing.T) {
	d, err := sqlkv.ParseDialect("sqlite")
	gt.NoError(t, err)
	gt.Value(t, d).Equal(sqlkv.DialectSQLite)

	_, err = sqlkv.ParseDialect("mysql")
	gt.Value(t, err).NotNil()
}
