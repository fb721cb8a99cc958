package config

import (
	"log/slog"

	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/service/seed"
	"github.com/urfave/cli/v3"
)

// Seed holds CLI flags for the seed document
type Seed struct {
	uri        string
	s3Endpoint string
	s3Region   string
	notionKey  string
}

func (s *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed",
			Category:    "Seed",
			Usage:       "Seed document imported into an empty jar (path, file://, http(s)://, gs://, s3://, notion://)",
			Value:       seed.DefaultURI,
			Sources:     cli.EnvVars("MEMORYJAR_SEED"),
			Destination: &s.uri,
		},
		&cli.StringFlag{
			Name:        "seed-s3-endpoint",
			Category:    "Seed",
			Usage:       "Endpoint of an S3 compatible server for s3:// seeds",
			Sources:     cli.EnvVars("MEMORYJAR_SEED_S3_ENDPOINT"),
			Destination: &s.s3Endpoint,
		},
		&cli.StringFlag{
			Name:        "seed-s3-region",
			Category:    "Seed",
			Usage:       "AWS region for s3:// seeds",
			Sources:     cli.EnvVars("MEMORYJAR_SEED_S3_REGION"),
			Destination: &s.s3Region,
		},
		&cli.StringFlag{
			Name:        "seed-notion-token",
			Category:    "Seed",
			Usage:       "Notion integration token for notion:// seeds",
			Sources:     cli.EnvVars("MEMORYJAR_NOTION_TOKEN"),
			Destination: &s.notionKey,
		},
	}
}

func (s *Seed) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("uri", s.uri),
	}
}

// Configure returns the seed source
func (s *Seed) Configure() (interfaces.SeedSource, error) {
	var opts []seed.Option
	if s.s3Endpoint != "" {
		opts = append(opts, seed.WithS3Endpoint(s.s3Endpoint))
	}
	if s.s3Region != "" {
		opts = append(opts, seed.WithS3Region(s.s3Region))
	}
	if s.notionKey != "" {
		opts = append(opts, seed.WithNotionToken(s.notionKey))
	}
	return seed.New(s.uri, opts...)
}
