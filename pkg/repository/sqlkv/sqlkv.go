package sqlkv

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressly/goose/v3"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

//go:embed migrations
var migrations embed.FS

// Dialect selects the SQL backend
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type dialectSpec struct {
	driver       string
	gooseDialect string
	get          string
	upsert       string
	remove       string
	clear        string
}

var dialects = map[Dialect]dialectSpec{
	DialectSQLite: {
		driver:       "sqlite",
		gooseDialect: "sqlite3",
		get:          `SELECT value FROM kv_entries WHERE key = ?`,
		upsert: `INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		remove: `DELETE FROM kv_entries WHERE key = ?`,
		clear:  `DELETE FROM kv_entries`,
	},
	DialectPostgres: {
		driver:       "pgx",
		gooseDialect: "postgres",
		get:          `SELECT value FROM kv_entries WHERE key = $1`,
		upsert: `INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		remove: `DELETE FROM kv_entries WHERE key = $1`,
		clear:  `DELETE FROM kv_entries`,
	},
}

// goose keeps its dialect and filesystem in package state
var gooseMu sync.Mutex

// Store keeps entries in a single kv_entries table
type Store struct {
	db      *sql.DB
	dialect Dialect
	spec    dialectSpec
}

var _ interfaces.KVStore = &Store{}

// ParseDialect validates a dialect name
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(s)
	if _, ok := dialects[d]; !ok {
		return "", goerr.New("unsupported SQL dialect", goerr.V("dialect", s))
	}
	return d, nil
}

// Open connects to dsn, verifies the connection and applies migrations.
// For SQLite dsn is a file path (or ":memory:").
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	spec, ok := dialects[dialect]
	if !ok {
		return nil, goerr.New("unsupported SQL dialect", goerr.V("dialect", dialect))
	}

	db, err := sql.Open(spec.driver, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("dialect", dialect))
	}

	if dialect == DialectSQLite {
		// SQLite allows a single writer; :memory: databases are per connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ping database", goerr.V("dialect", dialect))
	}

	s := &Store{db: db, dialect: dialect, spec: spec}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(s.spec.gooseDialect); err != nil {
		return goerr.Wrap(err, "failed to set migration dialect", goerr.V("dialect", s.dialect))
	}
	if err := goose.UpContext(ctx, s.db, "migrations/"+string(s.dialect)); err != nil {
		return goerr.Wrap(err, "failed to apply migrations", goerr.V("dialect", s.dialect))
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	if err := s.db.QueryRowContext(ctx, s.spec.get, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to get entry", goerr.V(model.StoreKeyKey, key))
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, s.spec.upsert, key, value, time.Now().UTC()); err != nil {
		if isCapacityError(err) {
			return goerr.Wrap(model.ErrStorageFull, "database rejected entry",
				goerr.V(model.StoreKeyKey, key),
				goerr.V("size", len(value)),
				goerr.V("cause", err.Error()),
			)
		}
		return goerr.Wrap(err, "failed to set entry", goerr.V(model.StoreKeyKey, key))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.spec.remove, key); err != nil {
		return goerr.Wrap(err, "failed to delete entry", goerr.V(model.StoreKeyKey, key))
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.spec.clear); err != nil {
		return goerr.Wrap(err, "failed to clear entries")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Postgres SQLSTATE codes for a full disk and oversized values
const (
	pgDiskFull             = "53100"
	pgProgramLimitExceeded = "54000"
	sqliteFullMessage      = "database or disk is full"
	sqliteTooBigMessage    = "string or blob too big"
)

func isCapacityError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDiskFull || pgErr.Code == pgProgramLimitExceeded
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, sqliteFullMessage) || strings.Contains(msg, sqliteTooBigMessage)
}
