package gateway

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpeta/internal/blob"
	"carpeta/internal/folder/models"
	"carpeta/internal/folder/service"
	"carpeta/internal/folder/store"
	dErrors "carpeta/pkg/domain-errors"
	"carpeta/pkg/platform/circuit"
)

func TestLocalFolders(t *testing.T) {
	ctx := context.Background()
	policy := fastPolicy(DependencyFolder)
	folders := NewLocalFolders(service.New(store.NewInMemory(), blob.NewInMemoryStore("secret")), policy)
	req := FolderRequest{CitizenID: "1234567", FullName: "Ana Gomez", Operator: "SISTEMA_REGISTRO"}

	created := folders.CreateFolder(ctx, req)
	require.True(t, created.Success)
	assert.Equal(t, http.StatusCreated, created.StatusCode)
	assert.NotEmpty(t, created.FolderID)
	assert.Equal(t, "ana.gomez.1234567@carpetacolombia.co", created.Email)
	assert.Equal(t, "ACTIVE", created.State)

	t.Run("duplicate answers conflict", func(t *testing.T) {
		resp := folders.CreateFolder(ctx, req)
		assert.False(t, resp.Success)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("find by citizen returns the existing folder", func(t *testing.T) {
		resp := folders.FindByCitizen(ctx, "1234567")
		assert.True(t, resp.Success)
		assert.Equal(t, created.FolderID, resp.FolderID)
	})

	t.Run("unknown citizen answers not found", func(t *testing.T) {
		resp := folders.FindByCitizen(ctx, "7654321")
		assert.False(t, resp.Success)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid request answers bad request", func(t *testing.T) {
		resp := folders.CreateFolder(ctx, FolderRequest{CitizenID: "1234567"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("domain answers keep the breaker closed", func(t *testing.T) {
		assert.Equal(t, circuit.StateClosed, policy.Breaker().State())
	})
}

// brokenFolders fails every call the way an unreachable store would.
type brokenFolders struct {
	calls atomic.Int32
}

func (f *brokenFolders) CreateFolder(context.Context, service.CreateFolderCommand) (*models.Folder, error) {
	f.calls.Add(1)
	return nil, dErrors.New(dErrors.CodeStorage, "store unreachable")
}

func (f *brokenFolders) FindFolderByCitizen(context.Context, string) (*models.Folder, error) {
	f.calls.Add(1)
	return nil, dErrors.New(dErrors.CodeStorage, "store unreachable")
}

func TestLocalFoldersStorageFailureUsesPolicy(t *testing.T) {
	ctx := context.Background()
	broken := &brokenFolders{}
	policy := fastPolicy(DependencyFolder,
		circuit.WithWindowSize(2),
		circuit.WithMinCalls(2),
		circuit.WithCooldown(time.Hour),
	)
	folders := NewLocalFolders(broken, policy)
	req := FolderRequest{CitizenID: "1234567", FullName: "Ana Gomez", Operator: "SISTEMA_REGISTRO"}

	resp := folders.CreateFolder(ctx, req)
	assert.True(t, resp.IsFallback())
	assert.Equal(t, int32(3), broken.calls.Load())

	folders.FindByCitizen(ctx, "1234567")
	require.True(t, policy.Breaker().IsOpen())

	before := broken.calls.Load()
	resp = folders.CreateFolder(ctx, req)
	assert.True(t, resp.IsFallback())
	assert.Equal(t, before, broken.calls.Load())
}
