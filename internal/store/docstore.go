// internal/store/docstore.go
// Generic document operations against Cloud Firestore. Domain
// repositories address documents by (collection, id) and never touch
// the Firestore client directly.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Common errors
var (
	ErrNotFound = errors.New("document not found")
)

// DeleteField removes a field when used as an Update value
var DeleteField interface{} = firestore.Delete

// CancelFunc tears down a live subscription. It must be called exactly
// once; calling it releases the underlying snapshot listener.
type CancelFunc func()

// Update is a single field mutation. Path segments address nested map
// fields without dot-syntax restrictions on segment names.
type Update struct {
	Path  []string
	Value interface{}
}

// Filter is an equality/range constraint on a query
type Filter struct {
	Path  string
	Op    string // "==", "<", "<=", ">", ">="
	Value interface{}
}

// QueryOptions shape an ordered, filtered, paginated listing
type QueryOptions struct {
	Filters    []Filter
	OrderBy    string
	Desc       bool
	Limit      int
	StartAfter interface{} // opaque cursor from a previous page
}

// DocStore wraps a Firestore client with create/read/update/delete,
// query, and subscribe operations
type DocStore struct {
	client *firestore.Client
}

// NewDocStore creates a new document store adapter
func NewDocStore(client *firestore.Client) *DocStore {
	return &DocStore{client: client}
}

// Create adds a document with a server-generated id, stamping creation
// and update times, and returns the new id
func (s *DocStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	start := time.Now()

	doc := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		doc[k] = v
	}
	doc["createdAt"] = firestore.ServerTimestamp
	doc["updatedAt"] = firestore.ServerTimestamp

	ref, _, err := s.client.Collection(collection).Add(ctx, doc)
	observeDocOp("create", collection, start, err)
	if err != nil {
		return "", fmt.Errorf("failed to create document in %s: %w", collection, err)
	}

	return ref.ID, nil
}

// Set merges fields into the document with the given id, creating it if
// absent, and stamps the update time
func (s *DocStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	start := time.Now()

	doc := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		doc[k] = v
	}
	doc["updatedAt"] = firestore.ServerTimestamp

	_, err := s.client.Collection(collection).Doc(id).Set(ctx, doc, firestore.MergeAll)
	observeDocOp("set", collection, start, err)
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}

	return nil
}

// Get reads a document into out. Absence is reported as ok=false, not
// as an error.
func (s *DocStore) Get(ctx context.Context, collection, id string, out interface{}) (bool, error) {
	start := time.Now()

	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		observeDocOp("get", collection, start, nil)
		return false, nil
	}
	observeDocOp("get", collection, start, err)
	if err != nil {
		return false, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	if err := snap.DataTo(out); err != nil {
		return false, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}

	return true, nil
}

// Update applies a partial merge of the supplied fields plus a
// refreshed update timestamp. Fails with ErrNotFound if the document
// does not exist.
func (s *DocStore) Update(ctx context.Context, collection, id string, updates []Update) error {
	start := time.Now()

	fsUpdates := make([]firestore.Update, 0, len(updates)+1)
	for _, u := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{
			FieldPath: firestore.FieldPath(u.Path),
			Value:     u.Value,
		})
	}
	fsUpdates = append(fsUpdates, firestore.Update{
		FieldPath: firestore.FieldPath{"updatedAt"},
		Value:     firestore.ServerTimestamp,
	})

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, fsUpdates)
	observeDocOp("update", collection, start, err)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}

	return nil
}

// Delete removes a document. Absence is not an error.
func (s *DocStore) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()

	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	observeDocOp("delete", collection, start, err)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}

	return nil
}

// Query returns a page of documents plus an opaque continuation cursor.
// The cursor is nil when the listing is exhausted; pass it back via
// QueryOptions.StartAfter for the next page.
func (s *DocStore) Query(ctx context.Context, collection string, opts QueryOptions) ([]*firestore.DocumentSnapshot, interface{}, error) {
	start := time.Now()

	it := s.buildQuery(collection, opts).Documents(ctx)
	defer it.Stop()

	var docs []*firestore.DocumentSnapshot
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			observeDocOp("query", collection, start, err)
			return nil, nil, fmt.Errorf("failed to query %s: %w", collection, err)
		}
		docs = append(docs, snap)
	}
	observeDocOp("query", collection, start, nil)

	var cursor interface{}
	if opts.Limit > 0 && len(docs) == opts.Limit && opts.OrderBy != "" {
		last := docs[len(docs)-1]
		if v, err := last.DataAt(opts.OrderBy); err == nil {
			cursor = v
		}
	}

	return docs, cursor, nil
}

// SubscribeDocument registers a live callback invoked on every remote
// change to the document until the returned handle is cancelled. The
// callback receives exists=false when the document is deleted.
func (s *DocStore) SubscribeDocument(ctx context.Context, collection, id string, fn func(snap *firestore.DocumentSnapshot, exists bool)) CancelFunc {
	subCtx, cancel := context.WithCancel(ctx)
	it := s.client.Collection(collection).Doc(id).Snapshots(subCtx)

	go func() {
		for {
			snap, err := it.Next()
			if err != nil {
				return // cancelled or stream failure; no events after this
			}
			fn(snap, snap.Exists())
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			it.Stop()
		})
	}
}

// SubscribeCollection registers a live callback invoked with the full
// result set on every change to a filtered/ordered collection
func (s *DocStore) SubscribeCollection(ctx context.Context, collection string, opts QueryOptions, fn func(docs []*firestore.DocumentSnapshot)) CancelFunc {
	subCtx, cancel := context.WithCancel(ctx)
	it := s.buildQuery(collection, opts).Snapshots(subCtx)

	go func() {
		for {
			qs, err := it.Next()
			if err != nil {
				return
			}

			var docs []*firestore.DocumentSnapshot
			docIt := qs.Documents
			for {
				snap, err := docIt.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return
				}
				docs = append(docs, snap)
			}
			fn(docs)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			it.Stop()
		})
	}
}

func (s *DocStore) buildQuery(collection string, opts QueryOptions) firestore.Query {
	q := s.client.Collection(collection).Query
	for _, f := range opts.Filters {
		q = q.Where(f.Path, f.Op, f.Value)
	}
	if opts.OrderBy != "" {
		dir := firestore.Asc
		if opts.Desc {
			dir = firestore.Desc
		}
		q = q.OrderBy(opts.OrderBy, dir)
		if opts.StartAfter != nil {
			q = q.StartAfter(opts.StartAfter)
		}
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	return q
}
