package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// DefaultURI is the seed document looked up when none is configured
const DefaultURI = "storage.json"

// maxDocumentSize bounds the seed document read from any source
const maxDocumentSize = 16 << 20

var (
	ErrUnsupportedScheme = goerr.New("unsupported seed URI scheme")
	ErrMalformedDocument = goerr.New("malformed seed document")
)

// Format of a seed document
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks the format from the file extension of name
func FormatOf(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a seed document. The top level must be a list.
func Decode(data []byte, format Format) ([]*model.SeedRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, goerr.Wrap(ErrMalformedDocument, "seed document is empty")
	}

	var records []*model.SeedRecord
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, goerr.Wrap(ErrMalformedDocument, "failed to decode YAML seed", goerr.V("error", err.Error()))
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, goerr.Wrap(ErrMalformedDocument, "failed to decode JSON seed", goerr.V("error", err.Error()))
		}
	}
	return records, nil
}

type options struct {
	httpClient *http.Client
	s3Endpoint string
	s3Region   string
	notionKey  string
}

type Option func(*options)

func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithS3Endpoint points s3:// URIs at an S3 compatible server such as MinIO
func WithS3Endpoint(endpoint string) Option {
	return func(o *options) {
		o.s3Endpoint = endpoint
	}
}

func WithS3Region(region string) Option {
	return func(o *options) {
		o.s3Region = region
	}
}

// WithNotionToken sets the integration token used by notion:// URIs
func WithNotionToken(token string) Option {
	return func(o *options) {
		o.notionKey = token
	}
}

// New returns the source for uri. A bare path or file:// is read from disk,
// http(s):// is fetched, gs://bucket/object reads Cloud Storage and
// s3://bucket/key reads S3. notion://database-id reads the rows of a Notion
// database.
func New(uri string, opts ...Option) (interfaces.SeedSource, error) {
	o := &options{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}

	if uri == "" {
		uri = DefaultURI
	}
	if !strings.Contains(uri, "://") {
		return &fileSource{path: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse seed URI", goerr.V("uri", uri))
	}

	switch u.Scheme {
	case "file":
		p := u.Path
		if u.Host != "" {
			p = u.Host + p
		}
		return &fileSource{path: p}, nil
	case "http", "https":
		return &httpSource{url: uri, client: o.httpClient}, nil
	case "gs":
		return newGCSSource(u.Host, strings.TrimPrefix(u.Path, "/"))
	case "s3":
		return newS3Source(u.Host, strings.TrimPrefix(u.Path, "/"), o.s3Endpoint, o.s3Region)
	case "notion":
		return newNotionSource(u.Host, o.notionKey)
	default:
		return nil, goerr.Wrap(ErrUnsupportedScheme, "cannot load seed", goerr.V("scheme", u.Scheme))
	}
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed document")
	}
	if len(data) > maxDocumentSize {
		return nil, goerr.Wrap(ErrMalformedDocument, "seed document too large", goerr.V("limit", maxDocumentSize))
	}
	return data, nil
}

type fileSource struct {
	path string
}

func (s *fileSource) Name() string { return s.path }

func (s *fileSource) Fetch(ctx context.Context) ([]*model.SeedRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open seed file", goerr.V("path", s.path))
	}
	defer func() { _ = f.Close() }()

	data, err := readLimited(f)
	if err != nil {
		return nil, err
	}
	return Decode(data, FormatOf(s.path))
}

type httpSource struct {
	url    string
	client *http.Client
}

func (s *httpSource) Name() string { return s.url }

func (s *httpSource) Fetch(ctx context.Context) ([]*model.SeedRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build seed request", goerr.V("url", s.url))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch seed document", goerr.V("url", s.url))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.New("seed document not available",
			goerr.V("url", s.url),
			goerr.V("status", resp.StatusCode),
		)
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, err
	}

	format := FormatOf(req.URL.Path)
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "yaml") {
		format = FormatYAML
	}
	return Decode(data, format)
}
