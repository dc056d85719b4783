package partition

import (
	"context"
	"encoding/json"
	"fmt"
)

// KeyFunc derives the storage keys for a record.
type KeyFunc[T any] func(*T) (partitionKey, sortKey, indexKey string)

// Table is a typed view over a Store that encodes records as JSON.
type Table[T any] struct {
	store Store
	name  string
	keys  KeyFunc[T]
}

// NewTable binds a record type to a named table.
func NewTable[T any](store Store, name string, keys KeyFunc[T]) *Table[T] {
	return &Table[T]{store: store, name: name, keys: keys}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

func (t *Table[T]) encode(record *T) (Item, error) {
	if record == nil {
		return Item{}, fmt.Errorf("%s record is required", t.name)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return Item{}, fmt.Errorf("encode %s record: %w", t.name, err)
	}
	pk, sk, idx := t.keys(record)
	return Item{PartitionKey: pk, SortKey: sk, IndexKey: idx, Data: data}, nil
}

func (t *Table[T]) decode(item Item) (*T, error) {
	var record T
	if err := json.Unmarshal(item.Data, &record); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", t.name, err)
	}
	return &record, nil
}

func (t *Table[T]) decodeAll(items []Item) ([]*T, error) {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		record, err := t.decode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

// Put upserts the record.
func (t *Table[T]) Put(ctx context.Context, record *T) error {
	item, err := t.encode(record)
	if err != nil {
		return err
	}
	return t.store.Put(ctx, t.name, item)
}

// PutIfAbsent creates the record, returning ErrConditionFailed if its key exists.
func (t *Table[T]) PutIfAbsent(ctx context.Context, record *T) error {
	item, err := t.encode(record)
	if err != nil {
		return err
	}
	return t.store.PutIfAbsent(ctx, t.name, item)
}

// Get returns the record or ErrNotFound.
func (t *Table[T]) Get(ctx context.Context, partitionKey, sortKey string) (*T, error) {
	item, err := t.store.Get(ctx, t.name, partitionKey, sortKey)
	if err != nil {
		return nil, err
	}
	return t.decode(item)
}

// Delete removes the record if present.
func (t *Table[T]) Delete(ctx context.Context, partitionKey, sortKey string) error {
	return t.store.Delete(ctx, t.name, partitionKey, sortKey)
}

// Query returns records of a partition ordered by sort key.
func (t *Table[T]) Query(ctx context.Context, partitionKey string, opts QueryOptions) ([]*T, error) {
	items, err := t.store.Query(ctx, t.name, partitionKey, opts)
	if err != nil {
		return nil, err
	}
	return t.decodeAll(items)
}

// QueryIndex returns records sharing the index key.
func (t *Table[T]) QueryIndex(ctx context.Context, indexKey string) ([]*T, error) {
	items, err := t.store.QueryIndex(ctx, t.name, indexKey)
	if err != nil {
		return nil, err
	}
	return t.decodeAll(items)
}
