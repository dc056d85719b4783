// Package store persists folders, documents and access history in the
// partitioned store.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carpeta/internal/folder/models"
	"carpeta/internal/partition"
	dErrors "carpeta/pkg/domain-errors"
)

const (
	foldersTable   = "folders"
	documentsTable = "documents"
	accessTable    = "folder_access"

	folderSortKey = "folder"
)

var (
	ErrFolderNotFound   = dErrors.New(dErrors.CodeNotFound, "folder not found")
	ErrDocumentNotFound = dErrors.New(dErrors.CodeNotFound, "document not found")
	ErrFolderExists     = dErrors.New(dErrors.CodeConflict, "folder already exists")
)

// Store holds the three folder tables. Folders are indexed by owner citizen
// ID; documents are partitioned by folder and sorted by document ID.
type Store struct {
	folders   *partition.Table[models.Folder]
	documents *partition.Table[models.Document]
	access    *partition.Table[models.AccessRecord]
}

func New(backend partition.Store) *Store {
	return &Store{
		folders: partition.NewTable(backend, foldersTable, func(f *models.Folder) (string, string, string) {
			return f.ID, folderSortKey, f.OwnerCitizenID
		}),
		documents: partition.NewTable(backend, documentsTable, func(d *models.Document) (string, string, string) {
			return d.FolderID, d.ID, ""
		}),
		access: partition.NewTable(backend, accessTable, func(a *models.AccessRecord) (string, string, string) {
			return a.FolderID, a.ID, ""
		}),
	}
}

// NewInMemory returns a store over a fresh in-memory backend.
func NewInMemory() *Store {
	return New(partition.NewInMemoryStore())
}

func (s *Store) CreateFolder(ctx context.Context, folder *models.Folder) error {
	err := s.folders.PutIfAbsent(ctx, folder)
	if errors.Is(err, partition.ErrConditionFailed) {
		return ErrFolderExists
	}
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	return nil
}

func (s *Store) SaveFolder(ctx context.Context, folder *models.Folder) error {
	if err := s.folders.Put(ctx, folder); err != nil {
		return fmt.Errorf("save folder: %w", err)
	}
	return nil
}

func (s *Store) FindFolder(ctx context.Context, folderID string) (*models.Folder, error) {
	folder, err := s.folders.Get(ctx, folderID, folderSortKey)
	if errors.Is(err, partition.ErrNotFound) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find folder: %w", err)
	}
	return folder, nil
}

// FindFolderByCitizen reads the owner index, which may lag a fresh write on
// some backends.
func (s *Store) FindFolderByCitizen(ctx context.Context, citizenID string) (*models.Folder, error) {
	folders, err := s.folders.QueryIndex(ctx, citizenID)
	if err != nil {
		return nil, fmt.Errorf("find folder by citizen: %w", err)
	}
	if len(folders) == 0 {
		return nil, ErrFolderNotFound
	}
	return folders[0], nil
}

// SaveDocument upserts document metadata.
func (s *Store) SaveDocument(ctx context.Context, doc *models.Document) error {
	if err := s.documents.Put(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *Store) FindDocument(ctx context.Context, folderID, documentID string) (*models.Document, error) {
	doc, err := s.documents.Get(ctx, folderID, documentID)
	if errors.Is(err, partition.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns up to limit documents of the folder with IDs greater
// than afterID, in document ID order.
func (s *Store) ListDocuments(ctx context.Context, folderID, afterID string, limit int) ([]*models.Document, error) {
	docs, err := s.documents.Query(ctx, folderID, partition.QueryOptions{
		ExclusiveStartSortKey: afterID,
		Limit:                 limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// AppendAccess writes an access record, assigning its time-ordered ID.
func (s *Store) AppendAccess(ctx context.Context, record *models.AccessRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	record.Timestamp = record.Timestamp.UTC()
	if record.ID == "" {
		record.ID = partition.TimeKey(record.Timestamp)
	}
	if err := s.access.PutIfAbsent(ctx, record); err != nil {
		return fmt.Errorf("append access record: %w", err)
	}
	return nil
}

// ListAccess returns the folder's access history, most recent first.
// A non-positive limit returns everything.
func (s *Store) ListAccess(ctx context.Context, folderID string, limit int) ([]*models.AccessRecord, error) {
	records, err := s.access.Query(ctx, folderID, partition.QueryOptions{
		Limit:      max(limit, 0),
		Descending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list access records: %w", err)
	}
	return records, nil
}
