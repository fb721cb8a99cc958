package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultCollection = "jar"

// entryDoc is the Firestore document holding one key. The document ID is
// the key itself.
type entryDoc struct {
	Value     []byte    `firestore:"Value"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

type Firestore struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.KVStore = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes the collection name, so several jars can
// share one database
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collection = prefix + defaultCollection
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:     client,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) entries() *firestore.CollectionRef {
	return f.client.Collection(f.collection)
}

func (f *Firestore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	doc, err := f.entries().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to get entry", goerr.V(model.StoreKeyKey, key))
	}

	var d entryDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, false, goerr.Wrap(err, "failed to unmarshal entry", goerr.V(model.StoreKeyKey, key))
	}

	if d.Value == nil {
		d.Value = []byte{}
	}
	return d.Value, true, nil
}

func (f *Firestore) Set(ctx context.Context, key string, value []byte) error {
	doc := &entryDoc{
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := f.entries().Doc(key).Set(ctx, doc); err != nil {
		if isCapacityError(err) {
			return goerr.Wrap(model.ErrStorageFull, "firestore rejected entry",
				goerr.V(model.StoreKeyKey, key),
				goerr.V("size", len(value)),
				goerr.V("cause", err.Error()),
			)
		}
		return goerr.Wrap(err, "failed to set entry", goerr.V(model.StoreKeyKey, key))
	}
	return nil
}

func (f *Firestore) Delete(ctx context.Context, key string) error {
	if _, err := f.entries().Doc(key).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return goerr.Wrap(err, "failed to delete entry", goerr.V(model.StoreKeyKey, key))
	}
	return nil
}

func (f *Firestore) Clear(ctx context.Context) error {
	iter := f.entries().Documents(ctx)
	defer iter.Stop()

	bw := f.client.BulkWriter(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to iterate entries")
		}

		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue entry deletion", goerr.V(model.StoreKeyKey, doc.Ref.ID))
		}
	}
	bw.End()

	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// isCapacityError detects quota exhaustion and documents over the 1 MiB
// size limit
func isCapacityError(err error) bool {
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return true
	case codes.InvalidArgument:
		msg := strings.ToLower(err.Error())
		return strings.Contains(msg, "exceeds the maximum") || strings.Contains(msg, "too large")
	default:
		return false
	}
}
