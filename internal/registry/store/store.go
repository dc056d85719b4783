// Package store persists citizen registrations in the partitioned store,
// one item per citizen ID.
package store

import (
	"context"
	"errors"
	"fmt"

	"carpeta/internal/partition"
	"carpeta/internal/registry/models"
	dErrors "carpeta/pkg/domain-errors"
)

const tableName = "citizen_registrations"

// registrations share a single sort key: the citizen ID is the primary key.
const recordSortKey = "registration"

var (
	ErrNotFound      = dErrors.New(dErrors.CodeNotFound, "registration not found")
	ErrAlreadyExists = dErrors.New(dErrors.CodeConflict, "registration already exists")
)

// Store keeps registrations keyed by citizen ID. The operator ID is indexed.
type Store struct {
	table *partition.Table[models.Registration]
}

func New(backend partition.Store) *Store {
	return &Store{
		table: partition.NewTable(backend, tableName, func(r *models.Registration) (string, string, string) {
			return r.CitizenID, recordSortKey, r.OperatorID
		}),
	}
}

// NewInMemory returns a store over a fresh in-memory backend.
func NewInMemory() *Store {
	return New(partition.NewInMemoryStore())
}

// Create writes a new registration, failing with ErrAlreadyExists if any
// record exists for the citizen.
func (s *Store) Create(ctx context.Context, reg *models.Registration) error {
	err := s.table.PutIfAbsent(ctx, reg)
	if errors.Is(err, partition.ErrConditionFailed) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// Save overwrites the registration.
func (s *Store) Save(ctx context.Context, reg *models.Registration) error {
	if err := s.table.Put(ctx, reg); err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

// FindByCitizen returns the registration, active or not.
func (s *Store) FindByCitizen(ctx context.Context, citizenID string) (*models.Registration, error) {
	reg, err := s.table.Get(ctx, citizenID, recordSortKey)
	if errors.Is(err, partition.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return reg, nil
}

// FindActiveByOperator lists active registrations held by the operator.
func (s *Store) FindActiveByOperator(ctx context.Context, operatorID string) ([]*models.Registration, error) {
	regs, err := s.table.QueryIndex(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("find registrations by operator: %w", err)
	}
	active := regs[:0]
	for _, reg := range regs {
		if reg.Active {
			active = append(active, reg)
		}
	}
	return active, nil
}
