package notion

import (
	"context"
	"iter"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
)

// Client reads memories kept as rows of a Notion database
type Client struct {
	api *notionapi.Client
}

// New creates a new Notion client with the provided API token
func New(token string) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}

	return &Client{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
		),
	}, nil
}

// QueryRecords yields one seed record per database row that has text
func (c *Client) QueryRecords(ctx context.Context, dbID string) iter.Seq2[*model.SeedRecord, error] {
	return func(yield func(*model.SeedRecord, error) bool) {
		var cursor notionapi.Cursor

		for {
			resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), &notionapi.DatabaseQueryRequest{
				StartCursor: cursor,
				PageSize:    100,
			})
			if err != nil {
				yield(nil, goerr.Wrap(err, "failed to query database", goerr.V("dbID", dbID)))
				return
			}

			for i := range resp.Results {
				rec := PageToRecord(&resp.Results[i])
				if rec == nil {
					continue
				}
				if !yield(rec, nil) {
					return
				}
			}

			if !resp.HasMore {
				break
			}
			cursor = resp.NextCursor
		}
	}
}
