package partition

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// InMemoryStore keeps items in process memory. Used for tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]map[string]Item
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tables: make(map[string]map[string]map[string]Item)}
}

func (s *InMemoryStore) Put(_ context.Context, table string, item Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partition(table, item.PartitionKey)[item.SortKey] = cloneItem(item)
	return nil
}

func (s *InMemoryStore) PutIfAbsent(_ context.Context, table string, item Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.partition(table, item.PartitionKey)
	if _, exists := p[item.SortKey]; exists {
		return ErrConditionFailed
	}
	p[item.SortKey] = cloneItem(item)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, table, partitionKey, sortKey string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.tables[table][partitionKey][sortKey]
	if !ok {
		return Item{}, ErrNotFound
	}
	return cloneItem(item), nil
}

func (s *InMemoryStore) Delete(_ context.Context, table, partitionKey, sortKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables[table][partitionKey], sortKey)
	return nil
}

func (s *InMemoryStore) Query(_ context.Context, table, partitionKey string, opts QueryOptions) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.tables[table][partitionKey]
	keys := make([]string, 0, len(p))
	for sk := range p {
		keys = append(keys, sk)
	}
	slices.Sort(keys)
	if opts.Descending {
		slices.Reverse(keys)
	}

	out := make([]Item, 0, len(keys))
	for _, sk := range keys {
		if opts.ExclusiveStartSortKey != "" {
			if !opts.Descending && sk <= opts.ExclusiveStartSortKey {
				continue
			}
			if opts.Descending && sk >= opts.ExclusiveStartSortKey {
				continue
			}
		}
		out = append(out, cloneItem(p[sk]))
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) QueryIndex(_ context.Context, table, indexKey string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Item
	for _, p := range s.tables[table] {
		for _, item := range p {
			if indexKey != "" && item.IndexKey == indexKey {
				out = append(out, cloneItem(item))
			}
		}
	}
	sortItems(out)
	return out, nil
}

// partition returns the partition map, creating it if needed. Callers hold s.mu.
func (s *InMemoryStore) partition(table, partitionKey string) map[string]Item {
	t, ok := s.tables[table]
	if !ok {
		t = make(map[string]map[string]Item)
		s.tables[table] = t
	}
	p, ok := t[partitionKey]
	if !ok {
		p = make(map[string]Item)
		t[partitionKey] = p
	}
	return p
}

func cloneItem(item Item) Item {
	item.Data = slices.Clone(item.Data)
	return item
}

func sortItems(items []Item) {
	slices.SortFunc(items, func(a, b Item) int {
		if c := strings.Compare(a.PartitionKey, b.PartitionKey); c != 0 {
			return c
		}
		return strings.Compare(a.SortKey, b.SortKey)
	})
}

var _ Store = (*InMemoryStore)(nil)
