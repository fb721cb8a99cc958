package seed

import (
	"context"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
)

// SetLoadDefaultAWSConfig swaps the AWS config loader and returns a restore
// func
func SetLoadDefaultAWSConfig(f func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error)) func() {
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = f
	return func() { loadDefaultAWSConfig = orig }
}

// NewNotionSourceForTest builds a notion source around a fake querier
func NewNotionSourceForTest(dbID string, query func(ctx context.Context, dbID string) iter.Seq2[*model.SeedRecord, error]) interfaces.SeedSource {
	return &notionSource{dbID: dbID, client: notionQueryFunc(query)}
}

type notionQueryFunc func(ctx context.Context, dbID string) iter.Seq2[*model.SeedRecord, error]

func (f notionQueryFunc) QueryRecords(ctx context.Context, dbID string) iter.Seq2[*model.SeedRecord, error] {
	return f(ctx, dbID)
}
