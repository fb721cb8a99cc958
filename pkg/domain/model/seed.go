package model

import "time"

// SeedRecord is one entry of the seed document. Every field but Text is
// optional.
type SeedRecord struct {
	ID        MemoryID `json:"id,omitempty" yaml:"id,omitempty"`
	Text      string   `json:"text" yaml:"text"`
	ImageURL  string   `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Date      string   `json:"date,omitempty" yaml:"date,omitempty"`
	DateAdded int64    `json:"dateAdded,omitempty" yaml:"dateAdded,omitempty"`
	Seen      bool     `json:"seen,omitempty" yaml:"seen,omitempty"`
}

// ToMemory fills in the defaults for absent fields. A valid Date wins over
// DateAdded and is placed at local noon in loc; with neither, now is used.
func (r *SeedRecord) ToMemory(now time.Time, loc *time.Location) *Memory {
	m := &Memory{
		ID:        r.ID,
		Text:      r.Text,
		ImageURL:  r.ImageURL,
		DateAdded: r.DateAdded,
		Seen:      r.Seen,
	}

	if r.Date != "" {
		if noon, err := LocalNoon(r.Date, loc); err == nil {
			m.DateAdded = noon.UnixMilli()
		}
	}
	if m.DateAdded == 0 {
		m.DateAdded = now.UnixMilli()
	}
	if m.ID == "" {
		m.ID = NewSeedMemoryID()
	}
	return m
}
