package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"carpeta/internal/registry/models"
)

type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
}

func (s *StoreSuite) registration(citizenID, operatorID string) *models.Registration {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Registration{
		CitizenID:  citizenID,
		FullName:   "Ana Gomez",
		OperatorID: operatorID,
		State:      models.StateRegistered,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *StoreSuite) TestCreateIsConditional() {
	s.Require().NoError(s.store.Create(s.ctx, s.registration("123", "OP1")))

	err := s.store.Create(s.ctx, s.registration("123", "OP2"))
	s.ErrorIs(err, ErrAlreadyExists)

	got, err := s.store.FindByCitizen(s.ctx, "123")
	s.Require().NoError(err)
	s.Equal("OP1", got.OperatorID)
}

func (s *StoreSuite) TestSaveOverwrites() {
	reg := s.registration("123", "OP1")
	s.Require().NoError(s.store.Create(s.ctx, reg))

	reg.AttachFolder("F1", time.Now())
	s.Require().NoError(s.store.Save(s.ctx, reg))

	got, err := s.store.FindByCitizen(s.ctx, "123")
	s.Require().NoError(err)
	s.Equal("F1", got.FolderID)
	s.Equal(models.StateRegisteredWithFolder, got.State)
}

func (s *StoreSuite) TestFindMissing() {
	_, err := s.store.FindByCitizen(s.ctx, "999")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestFindActiveByOperator() {
	s.Require().NoError(s.store.Create(s.ctx, s.registration("111", "OP1")))
	s.Require().NoError(s.store.Create(s.ctx, s.registration("222", "OP1")))
	s.Require().NoError(s.store.Create(s.ctx, s.registration("333", "OP2")))

	gone := s.registration("222", "OP1")
	gone.Deregister("moved", time.Now())
	s.Require().NoError(s.store.Save(s.ctx, gone))

	regs, err := s.store.FindActiveByOperator(s.ctx, "OP1")
	s.Require().NoError(err)
	s.Require().Len(regs, 1)
	s.Equal("111", regs[0].CitizenID)
}
