package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/repository/firestore"
	"github.com/secmon-lab/memoryjar/pkg/repository/memory"
	"github.com/secmon-lab/memoryjar/pkg/repository/redis"
	"github.com/secmon-lab/memoryjar/pkg/repository/sqlkv"
	"github.com/secmon-lab/memoryjar/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository backends
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendRedis     = "redis"
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
)

// Repository holds CLI flags for the key-value store backend
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	redisURL         string
	sqlitePath       string
	postgresDSN      string
	memoryQuota      int64
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Category:    "Repository",
			Usage:       "Store backend (memory, firestore, redis, sqlite, postgres)",
			Value:       BackendSQLite,
			Sources:     cli.EnvVars("MEMORYJAR_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "Repository",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("MEMORYJAR_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "Repository",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("MEMORYJAR_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Category:    "Repository",
			Usage:       "Prefix for the Firestore collection name",
			Sources:     cli.EnvVars("MEMORYJAR_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "redis-url",
			Category:    "Repository",
			Usage:       "Redis URL, e.g. redis://localhost:6379/0 (required when using redis backend)",
			Sources:     cli.EnvVars("MEMORYJAR_REDIS_URL"),
			Destination: &r.redisURL,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Category:    "Repository",
			Usage:       "SQLite database file",
			Value:       "memoryjar.db",
			Sources:     cli.EnvVars("MEMORYJAR_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Category:    "Repository",
			Usage:       "PostgreSQL DSN (required when using postgres backend)",
			Sources:     cli.EnvVars("MEMORYJAR_POSTGRES_DSN"),
			Destination: &r.postgresDSN,
		},
		&cli.Int64Flag{
			Name:        "memory-quota",
			Category:    "Repository",
			Usage:       "Byte quota of the memory backend, 0 for unlimited",
			Sources:     cli.EnvVars("MEMORYJAR_MEMORY_QUOTA"),
			Destination: &r.memoryQuota,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

func (r *Repository) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("backend", r.backend)}
	switch r.backend {
	case BackendFirestore:
		attrs = append(attrs,
			slog.String("project_id", r.projectID),
			slog.String("database_id", r.databaseID),
		)
	case BackendSQLite:
		attrs = append(attrs, slog.String("path", r.sqlitePath))
	case BackendMemory:
		attrs = append(attrs, slog.Int64("quota", r.memoryQuota))
	}
	return attrs
}

// Configure opens the configured store. The caller is responsible for
// calling Close() on it.
func (r *Repository) Configure(ctx context.Context) (interfaces.KVStore, error) {
	logger := logging.Default()

	switch r.backend {
	case BackendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		store, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore store")
		}
		logger.Info("Using Firestore store", "project_id", r.projectID, "database_id", r.databaseID)
		return store, nil

	case BackendRedis:
		if r.redisURL == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "redis-url is required when using redis backend")
		}
		store, err := redis.New(ctx, r.redisURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis store")
		}
		logger.Info("Using Redis store")
		return store, nil

	case BackendSQLite:
		store, err := sqlkv.Open(ctx, sqlkv.DialectSQLite, r.sqlitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sqlite store")
		}
		logger.Info("Using SQLite store", "path", r.sqlitePath)
		return store, nil

	case BackendPostgres:
		if r.postgresDSN == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "postgres-dsn is required when using postgres backend")
		}
		store, err := sqlkv.Open(ctx, sqlkv.DialectPostgres, r.postgresDSN)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres store")
		}
		logger.Info("Using PostgreSQL store")
		return store, nil

	case BackendMemory:
		logger.Warn("Using in-memory store, data is lost on exit")
		var opts []memory.Option
		if r.memoryQuota > 0 {
			opts = append(opts, memory.WithQuota(int(r.memoryQuota)))
		}
		return memory.New(opts...), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown repository backend", goerr.V(BackendKey, r.backend))
	}
}
