// Package partition provides a partitioned key-value store: items addressed by
// (partition key, sort key) inside a named table, with ordered range queries
// within a partition and an optional secondary index key per item.
package partition

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no item exists for the requested key.
	ErrNotFound = errors.New("item not found")
	// ErrConditionFailed is returned by PutIfAbsent when the key already exists.
	ErrConditionFailed = errors.New("conditional write failed: item exists")
)

// Item is the unit of storage. Data is opaque to the store.
type Item struct {
	PartitionKey string
	SortKey      string
	// IndexKey is optional. Items sharing an IndexKey can be fetched with QueryIndex.
	IndexKey string
	Data     []byte
}

// QueryOptions shapes a partition query.
type QueryOptions struct {
	// ExclusiveStartSortKey resumes after (or before, when Descending) this key.
	ExclusiveStartSortKey string
	// Limit caps the number of items returned. Zero means no cap.
	Limit int
	// Descending orders results by sort key from highest to lowest.
	Descending bool
}

// Store is implemented by every backend. Sort keys compare bytewise.
// Secondary index reads may lag primary writes on some backends.
type Store interface {
	Put(ctx context.Context, table string, item Item) error
	PutIfAbsent(ctx context.Context, table string, item Item) error
	Get(ctx context.Context, table, partitionKey, sortKey string) (Item, error)
	Delete(ctx context.Context, table, partitionKey, sortKey string) error
	Query(ctx context.Context, table, partitionKey string, opts QueryOptions) ([]Item, error)
	QueryIndex(ctx context.Context, table, indexKey string) ([]Item, error)
}

func validateItem(item Item) error {
	if item.PartitionKey == "" || item.SortKey == "" {
		return errors.New("partition key and sort key are required")
	}
	return nil
}

// timeKeyLayout is fixed width so lexicographic order matches time order.
const timeKeyLayout = "20060102T150405.000000000Z"

// TimeKey builds a sort key for an entry written at ts. The random suffix
// keeps entries written in the same nanosecond distinct.
func TimeKey(ts time.Time) string {
	return ts.UTC().Format(timeKeyLayout) + "#" + uuid.NewString()
}
