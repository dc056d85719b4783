package audit

import (
	"context"
	"fmt"
	"time"

	"carpeta/internal/partition"
)

const tableName = "audit_records"

type Store interface {
	Append(ctx context.Context, record *Record) error
	ListByCitizen(ctx context.Context, citizenID string) ([]*Record, error)
}

// SortKey builds the ordering key for a record written at ts.
func SortKey(ts time.Time) string {
	return partition.TimeKey(ts)
}

// PartitionStore keeps one partition per citizen.
type PartitionStore struct {
	table *partition.Table[Record]
}

func NewPartitionStore(store partition.Store) *PartitionStore {
	return &PartitionStore{
		table: partition.NewTable(store, tableName, func(r *Record) (string, string, string) {
			return r.CitizenID, r.SortKey, ""
		}),
	}
}

// NewInMemoryStore returns a trail backed by an in-memory partition store.
func NewInMemoryStore() *PartitionStore {
	return NewPartitionStore(partition.NewInMemoryStore())
}

func (s *PartitionStore) Append(ctx context.Context, record *Record) error {
	if record == nil || record.CitizenID == "" {
		return fmt.Errorf("audit record requires a citizen id")
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	record.Timestamp = record.Timestamp.UTC()
	if record.SortKey == "" {
		record.SortKey = SortKey(record.Timestamp)
	}
	if err := s.table.PutIfAbsent(ctx, record); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

// ListByCitizen returns the full trail, most recent first.
func (s *PartitionStore) ListByCitizen(ctx context.Context, citizenID string) ([]*Record, error) {
	records, err := s.table.Query(ctx, citizenID, partition.QueryOptions{Descending: true})
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	return records, nil
}

var _ Store = (*PartitionStore)(nil)
