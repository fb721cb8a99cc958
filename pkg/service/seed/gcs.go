package seed

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
)

type gcsSource struct {
	bucket string
	object string
}

func newGCSSource(bucket, object string) (*gcsSource, error) {
	if bucket == "" || object == "" {
		return nil, goerr.New("gs:// seed URI needs bucket and object", goerr.V("bucket", bucket), goerr.V("object", object))
	}
	return &gcsSource{bucket: bucket, object: object}, nil
}

func (s *gcsSource) Name() string { return "gs://" + s.bucket + "/" + s.object }

func (s *gcsSource) Fetch(ctx context.Context) ([]*model.SeedRecord, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}
	defer func() { _ = client.Close() }()

	r, err := client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open seed object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", s.object),
		)
	}
	defer func() { _ = r.Close() }()

	data, err := readLimited(r)
	if err != nil {
		return nil, err
	}
	return Decode(data, FormatOf(s.object))
}
