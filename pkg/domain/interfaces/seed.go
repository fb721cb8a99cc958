package interfaces

import (
	"context"

	"github.com/secmon-lab/memoryjar/pkg/domain/model"
)

// SeedSource provides the seed document imported into an empty jar
type SeedSource interface {
	// Fetch returns the decoded records. An absent or malformed document is
	// reported as an error; the caller treats every error as "no seed".
	Fetch(ctx context.Context) ([]*model.SeedRecord, error)

	// Name identifies the source in logs
	Name() string
}
