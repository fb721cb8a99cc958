package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MemoryID identifies a Memory for the lifetime of the jar
type MemoryID string

// NewMemoryID generates a UUIDv7 MemoryID. The leading bits carry the
// creation timestamp and the rest is random.
func NewMemoryID() MemoryID {
	return MemoryID(uuid.Must(uuid.NewV7()).String())
}

// NewSeedMemoryID generates an ID for seed records that carry none
func NewSeedMemoryID() MemoryID {
	return MemoryID("seed-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:9])
}

// Memory is a single note, optionally with a photo, kept in the jar.
// The JSON field names are the persisted format.
type Memory struct {
	ID       MemoryID `json:"id"`
	Text     string   `json:"text"`
	ImageURL string   `json:"imageUrl"`
	// DateAdded is the nominal date of the memory in epoch milliseconds,
	// normally local noon of a calendar date.
	DateAdded int64 `json:"dateAdded"`
	Seen      bool  `json:"seen"`
}

// Date returns DateAdded as a time in loc
func (m *Memory) Date(loc *time.Location) time.Time {
	return time.UnixMilli(m.DateAdded).In(loc)
}

// Copy returns a deep copy of m
func (m *Memory) Copy() *Memory {
	if m == nil {
		return nil
	}
	copied := *m
	return &copied
}

// Unseen returns the memories not yet delivered by a reveal, in order
func Unseen(memories []*Memory) []*Memory {
	result := make([]*Memory, 0, len(memories))
	for _, m := range memories {
		if !m.Seen {
			result = append(result, m)
		}
	}
	return result
}
