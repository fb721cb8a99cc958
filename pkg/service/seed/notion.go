package seed

import (
	"context"
	"iter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/service/notion"
)

type notionQuerier interface {
	QueryRecords(ctx context.Context, dbID string) iter.Seq2[*model.SeedRecord, error]
}

type notionSource struct {
	dbID   string
	client notionQuerier
}

func newNotionSource(dbID, token string) (*notionSource, error) {
	if dbID == "" {
		return nil, goerr.New("notion seed URI needs a database ID", goerr.V("uri", "notion://"))
	}
	client, err := notion.New(token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create notion seed source")
	}
	return &notionSource{dbID: dbID, client: client}, nil
}

func (s *notionSource) Name() string {
	return "notion://" + s.dbID
}

func (s *notionSource) Fetch(ctx context.Context) ([]*model.SeedRecord, error) {
	var records []*model.SeedRecord
	for rec, err := range s.client.QueryRecords(ctx, s.dbID) {
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read notion seed", goerr.V("db_id", s.dbID))
		}
		records = append(records, rec)
	}
	return records, nil
}
