package seed_test

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/service/seed"
)

const jsonSeed = `[
  {"text": "first date", "date": "2024-05-20", "imageUrl": "https://imgur.com/abc"},
  {"id": "fixed", "text": "second", "seen": true},
  {"text": "third", "dateAdded": 1700000000000}
]`

const yamlSeed = `
- text: first date
  date: "2024-05-20"
- id: fixed
  text: second
  seen: true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(p, []byte(content), 0o600)).Required()
	return p
}

func TestDecode(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		records, err := seed.Decode([]byte(jsonSeed), seed.FormatJSON)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(3).Required()
		gt.Value(t, records[0].Date).Equal("2024-05-20")
		gt.Value(t, records[0].ImageURL).Equal("https://imgur.com/abc")
		gt.Bool(t, records[1].Seen).True()
		gt.Value(t, records[2].DateAdded).Equal(int64(1700000000000))
	})

	t.Run("YAML", func(t *testing.T) {
		records, err := seed.Decode([]byte(yamlSeed), seed.FormatYAML)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2).Required()
		gt.Value(t, string(records[1].ID)).Equal("fixed")
	})

	t.Run("empty array is not an error", func(t *testing.T) {
		records, err := seed.Decode([]byte(`[]`), seed.FormatJSON)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(0)
	})

	for name, doc := range map[string]string{
		"blank":     "  \n",
		"object":    `{"text":"x"}`,
		"truncated": `[{"text":`,
	} {
		t.Run(name+" is malformed", func(t *testing.T) {
			_, err := seed.Decode([]byte(doc), seed.FormatJSON)
			gt.Bool(t, errors.Is(err, seed.ErrMalformedDocument)).True()
		})
	}
}

func TestFormatOf(t *testing.T) {
	gt.Value(t, seed.FormatOf("seed.yaml")).Equal(seed.FormatYAML)
	gt.Value(t, seed.FormatOf("dir/Seed.YML")).Equal(seed.FormatYAML)
	gt.Value(t, seed.FormatOf("storage.json")).Equal(seed.FormatJSON)
	gt.Value(t, seed.FormatOf("noext")).Equal(seed.FormatJSON)
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()

	t.Run("bare path", func(t *testing.T) {
		src, err := seed.New(writeFile(t, "storage.json", jsonSeed))
		gt.NoError(t, err).Required()
		records, err := src.Fetch(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(3)
	})

	t.Run("file URI with YAML", func(t *testing.T) {
		src, err := seed.New("file://" + writeFile(t, "seed.yml", yamlSeed))
		gt.NoError(t, err).Required()
		records, err := src.Fetch(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2)
	})

	t.Run("missing file", func(t *testing.T) {
		src, err := seed.New(filepath.Join(t.TempDir(), "absent.json"))
		gt.NoError(t, err).Required()
		_, err = src.Fetch(ctx)
		gt.Value(t, err).NotNil()
	})
}

func TestHTTPSource(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/storage.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(jsonSeed))
		case "/seed":
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte(yamlSeed))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("JSON by extension", func(t *testing.T) {
		src, err := seed.New(srv.URL+"/storage.json", seed.WithHTTPClient(srv.Client()))
		gt.NoError(t, err).Required()
		records, err := src.Fetch(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(3)
	})

	t.Run("YAML by content type", func(t *testing.T) {
		src, err := seed.New(srv.URL+"/seed", seed.WithHTTPClient(srv.Client()))
		gt.NoError(t, err).Required()
		records, err := src.Fetch(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2)
	})

	t.Run("not found", func(t *testing.T) {
		src, err := seed.New(srv.URL+"/missing.json", seed.WithHTTPClient(srv.Client()))
		gt.NoError(t, err).Required()
		_, err = src.Fetch(ctx)
		gt.Value(t, err).NotNil()
	})
}

func TestS3Source(t *testing.T) {
	ctx := context.Background()
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		if r.URL.Path != "/jar-bucket/seeds/storage.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(jsonSeed))
	}))
	defer srv.Close()

	restore := seed.SetLoadDefaultAWSConfig(func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		optFns = append(optFns,
			config.WithRegion("us-east-1"),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("key", "secret", "")),
		)
		return config.LoadDefaultConfig(ctx, optFns...)
	})
	defer restore()

	src, err := seed.New("s3://jar-bucket/seeds/storage.json", seed.WithS3Endpoint(srv.URL))
	gt.NoError(t, err).Required()
	gt.Value(t, src.Name()).Equal("s3://jar-bucket/seeds/storage.json")

	records, err := src.Fetch(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, records).Length(3)
	gt.Value(t, requested).Equal("/jar-bucket/seeds/storage.json")
}

func TestNewRejects(t *testing.T) {
	for _, uri := range []string{
		"ftp://host/seed.json",
		"gs://bucket-only",
		"s3:///key-only",
		"notion://",
		"notion://db-without-token",
	} {
		t.Run(uri, func(t *testing.T) {
			_, err := seed.New(uri)
			gt.Value(t, err).NotNil()
		})
	}

	_, err := seed.New("ftp://host/seed.json")
	gt.Bool(t, errors.Is(err, seed.ErrUnsupportedScheme)).True()
}

func TestNewDefault(t *testing.T) {
	src, err := seed.New("")
	gt.NoError(t, err).Required()
	gt.Value(t, src.Name()).Equal(seed.DefaultURI)
}

func TestNotionSource(t *testing.T) {
	t.Run("collects records", func(t *testing.T) {
		src := seed.NewNotionSourceForTest("db1", func(ctx context.Context, dbID string) iter.Seq2[*model.SeedRecord, error] {
			return func(yield func(*model.SeedRecord, error) bool) {
				gt.Value(t, dbID).Equal("db1")
				if !yield(&model.SeedRecord{Text: "one"}, nil) {
					return
				}
				yield(&model.SeedRecord{Text: "two", Date: "2024-01-01"}, nil)
			}
		})
		gt.Value(t, src.Name()).Equal("notion://db1")

		records, err := src.Fetch(t.Context())
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2).Required()
		gt.Value(t, records[1].Date).Equal("2024-01-01")
	})

	t.Run("query error", func(t *testing.T) {
		src := seed.NewNotionSourceForTest("db1", func(ctx context.Context, dbID string) iter.Seq2[*model.SeedRecord, error] {
			return func(yield func(*model.SeedRecord, error) bool) {
				yield(nil, errors.New("rate limited"))
			}
		})
		_, err := src.Fetch(t.Context())
		gt.Value(t, err).NotNil()
	})

	t.Run("token builds a client", func(t *testing.T) {
		src, err := seed.New("notion://db1", seed.WithNotionToken("secret_x"))
		gt.NoError(t, err).Required()
		gt.Value(t, src.Name()).Equal("notion://db1")
	})
}
