package service

import (
	"context"
	"strings"

	"carpeta/internal/folder/models"
	"carpeta/internal/folder/store"
	"carpeta/internal/platform/privacy"
	"carpeta/pkg/domain"
	dErrors "carpeta/pkg/domain-errors"
)

var ErrFolderExists = dErrors.New(dErrors.CodeConflict, "citizen already has a folder")

// CreateFolderCommand provisions a folder for a citizen.
type CreateFolderCommand struct {
	CitizenID string
	FullName  string
	Operator  string
}

func (c *CreateFolderCommand) normalize() error {
	c.CitizenID = strings.TrimSpace(c.CitizenID)
	c.FullName = strings.TrimSpace(c.FullName)
	c.Operator = strings.TrimSpace(c.Operator)
	if c.CitizenID == "" {
		return dErrors.New(dErrors.CodeValidation, "citizen ID is required")
	}
	if c.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full name is required")
	}
	return nil
}

// CreateFolder provisions the citizen's folder with its immutable email.
func (s *Service) CreateFolder(ctx context.Context, cmd CreateFolderCommand) (*models.Folder, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	s.owners.Lock(cmd.CitizenID)
	defer s.owners.Unlock(cmd.CitizenID)

	_, err := s.store.FindFolderByCitizen(ctx, cmd.CitizenID)
	switch {
	case err == nil:
		return nil, ErrFolderExists
	case !dErrors.HasCode(err, dErrors.CodeNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up folder")
	}

	now := s.now()
	folder := &models.Folder{
		ID:              domain.NewFolderID().String(),
		OwnerCitizenID:  cmd.CitizenID,
		OwnerName:       cmd.FullName,
		Email:           domain.FolderEmail(cmd.FullName, domain.CitizenID(cmd.CitizenID)),
		State:           models.FolderActive,
		CurrentOperator: cmd.Operator,
		CreatedAt:       now,
		ModifiedAt:      now,
	}
	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to create folder")
	}
	s.metrics.IncrementFolderCreated()
	s.logger.InfoContext(ctx, "folder created",
		"folder_id", folder.ID,
		"email", privacy.MaskFolderEmail(folder.Email),
		"operator", folder.CurrentOperator,
	)
	return folder, nil
}

func (s *Service) GetFolder(ctx context.Context, folderID string) (*models.Folder, error) {
	if folderID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "folder ID is required")
	}
	return s.requireFolder(ctx, folderID)
}

// FindFolderByCitizen looks the folder up through the owner index.
func (s *Service) FindFolderByCitizen(ctx context.Context, citizenID string) (*models.Folder, error) {
	citizenID = strings.TrimSpace(citizenID)
	if citizenID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "citizen ID is required")
	}
	folder, err := s.store.FindFolderByCitizen(ctx, citizenID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, store.ErrFolderNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up folder")
	}
	return folder, nil
}

// AccessHistory returns the folder's access records, most recent first.
func (s *Service) AccessHistory(ctx context.Context, folderID string, limit int) ([]*models.AccessRecord, error) {
	if _, err := s.requireFolder(ctx, folderID); err != nil {
		return nil, err
	}
	records, err := s.store.ListAccess(ctx, folderID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load access history")
	}
	return records, nil
}

func (s *Service) requireFolder(ctx context.Context, folderID string) (*models.Folder, error) {
	folder, err := s.store.FindFolder(ctx, folderID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, store.ErrFolderNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load folder")
	}
	return folder, nil
}

func (s *Service) requireDocument(ctx context.Context, folderID, documentID string) (*models.Document, error) {
	if folderID == "" || documentID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "folder ID and document ID are required")
	}
	doc, err := s.store.FindDocument(ctx, folderID, documentID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	return doc, nil
}
