package partition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each partition as a hash of sort key to item plus a sorted
// set of sort keys (all scores zero) for lexicographic range queries. Index
// membership lives in a set per index key and is written after the primary
// record, so index reads can briefly miss a fresh item.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore constructs a Redis-backed store. prefix namespaces all keys.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "carpeta"
	}
	return &RedisStore{client: client, prefix: prefix}
}

type redisItem struct {
	IndexKey string `json:"i,omitempty"`
	Data     []byte `json:"d"`
}

func (s *RedisStore) hashKey(table, pk string) string {
	return fmt.Sprintf("%s:%s:h:%s", s.prefix, table, pk)
}

func (s *RedisStore) zsetKey(table, pk string) string {
	return fmt.Sprintf("%s:%s:z:%s", s.prefix, table, pk)
}

func (s *RedisStore) indexKey(table, idx string) string {
	return fmt.Sprintf("%s:%s:i:%s", s.prefix, table, idx)
}

// index set members join pk and sk with a NUL byte, which neither key may contain.
func indexMember(pk, sk string) string { return pk + "\x00" + sk }

func splitIndexMember(m string) (string, string, bool) {
	return strings.Cut(m, "\x00")
}

func (s *RedisStore) Put(ctx context.Context, table string, item Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	payload, err := json.Marshal(redisItem{IndexKey: item.IndexKey, Data: item.Data})
	if err != nil {
		return fmt.Errorf("encode %s item: %w", table, err)
	}

	previous, err := s.Get(ctx, table, item.PartitionKey, item.SortKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.hashKey(table, item.PartitionKey), item.SortKey, payload)
		pipe.ZAdd(ctx, s.zsetKey(table, item.PartitionKey), redis.Z{Member: item.SortKey})
		return nil
	})
	if err != nil {
		return fmt.Errorf("put %s item: %w", table, err)
	}
	return s.reindex(ctx, table, item, previous.IndexKey)
}

func (s *RedisStore) PutIfAbsent(ctx context.Context, table string, item Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	payload, err := json.Marshal(redisItem{IndexKey: item.IndexKey, Data: item.Data})
	if err != nil {
		return fmt.Errorf("encode %s item: %w", table, err)
	}

	created, err := s.client.HSetNX(ctx, s.hashKey(table, item.PartitionKey), item.SortKey, payload).Result()
	if err != nil {
		return fmt.Errorf("conditional put %s item: %w", table, err)
	}
	if !created {
		return ErrConditionFailed
	}
	if err := s.client.ZAdd(ctx, s.zsetKey(table, item.PartitionKey), redis.Z{Member: item.SortKey}).Err(); err != nil {
		return fmt.Errorf("conditional put %s item: %w", table, err)
	}
	return s.reindex(ctx, table, item, "")
}

func (s *RedisStore) reindex(ctx context.Context, table string, item Item, previousIndex string) error {
	if previousIndex == item.IndexKey {
		return nil
	}
	member := indexMember(item.PartitionKey, item.SortKey)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		if previousIndex != "" {
			pipe.SRem(ctx, s.indexKey(table, previousIndex), member)
		}
		if item.IndexKey != "" {
			pipe.SAdd(ctx, s.indexKey(table, item.IndexKey), member)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("index %s item: %w", table, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, table, partitionKey, sortKey string) (Item, error) {
	raw, err := s.client.HGet(ctx, s.hashKey(table, partitionKey), sortKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("get %s item: %w", table, err)
	}
	return decodeRedisItem(partitionKey, sortKey, raw)
}

func (s *RedisStore) Delete(ctx context.Context, table, partitionKey, sortKey string) error {
	previous, err := s.Get(ctx, table, partitionKey, sortKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.hashKey(table, partitionKey), sortKey)
		pipe.ZRem(ctx, s.zsetKey(table, partitionKey), sortKey)
		if previous.IndexKey != "" {
			pipe.SRem(ctx, s.indexKey(table, previous.IndexKey), indexMember(partitionKey, sortKey))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s item: %w", table, err)
	}
	return nil
}

func (s *RedisStore) Query(ctx context.Context, table, partitionKey string, opts QueryOptions) ([]Item, error) {
	rng := &redis.ZRangeBy{Min: "-", Max: "+", Count: int64(opts.Limit)}
	var keys []string
	var err error
	if opts.Descending {
		if opts.ExclusiveStartSortKey != "" {
			rng.Max = "(" + opts.ExclusiveStartSortKey
		}
		keys, err = s.client.ZRevRangeByLex(ctx, s.zsetKey(table, partitionKey), rng).Result()
	} else {
		if opts.ExclusiveStartSortKey != "" {
			rng.Min = "(" + opts.ExclusiveStartSortKey
		}
		keys, err = s.client.ZRangeByLex(ctx, s.zsetKey(table, partitionKey), rng).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("query %s partition: %w", table, err)
	}
	if len(keys) == 0 {
		return []Item{}, nil
	}

	values, err := s.client.HMGet(ctx, s.hashKey(table, partitionKey), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("query %s partition: %w", table, err)
	}

	out := make([]Item, 0, len(keys))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// sort key without a hash entry: concurrent delete
			continue
		}
		item, err := decodeRedisItem(partitionKey, keys[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *RedisStore) QueryIndex(ctx context.Context, table, indexKey string) ([]Item, error) {
	members, err := s.client.SMembers(ctx, s.indexKey(table, indexKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("query %s index: %w", table, err)
	}

	var out []Item
	for _, m := range members {
		pk, sk, ok := splitIndexMember(m)
		if !ok {
			continue
		}
		item, err := s.Get(ctx, table, pk, sk)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if item.IndexKey != indexKey {
			continue
		}
		out = append(out, item)
	}
	sortItems(out)
	return out, nil
}

func decodeRedisItem(pk, sk string, raw []byte) (Item, error) {
	var ri redisItem
	if err := json.Unmarshal(raw, &ri); err != nil {
		return Item{}, fmt.Errorf("decode item %s/%s: %w", pk, sk, err)
	}
	return Item{PartitionKey: pk, SortKey: sk, IndexKey: ri.IndexKey, Data: ri.Data}, nil
}

var _ Store = (*RedisStore)(nil)
