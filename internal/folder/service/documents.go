package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"carpeta/internal/blob"
	"carpeta/internal/folder/models"
	"carpeta/pkg/domain"
	dErrors "carpeta/pkg/domain-errors"
	"carpeta/pkg/platform/validation"
)

var ErrNotDownloadable = dErrors.New(dErrors.CodeInvalidState, "document is not available for download")

// HashContent returns the lowercase hex SHA-256 of content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Upload hashes the content, stores the blob under the owner's namespace and
// records the document as TEMPORARY. A blob failure leaves no trace in the
// metadata. A metadata failure after the blob landed orphans the blob.
func (s *Service) Upload(ctx context.Context, folderID string, meta models.UploadMetadata, content []byte) (*models.Document, error) {
	meta.FileName = strings.TrimSpace(meta.FileName)
	meta.Title = strings.TrimSpace(meta.Title)
	if meta.FileName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "file name is required")
	}
	if meta.Title == "" {
		meta.Title = meta.FileName
	}

	folder, err := s.requireFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	hash := HashContent(content)
	now := s.now()
	doc := &models.Document{
		FolderID:     folder.ID,
		ID:           domain.NewDocumentID().String(),
		Title:        meta.Title,
		Type:         meta.Type,
		Context:      meta.Context,
		Description:  meta.Description,
		Format:       meta.ContentType,
		FileName:     meta.FileName,
		SizeBytes:    int64(len(content)),
		SHA256:       hash,
		Locator:      blob.Locator(folder.OwnerCitizenID, meta.FileName),
		State:        models.DocumentTemporary,
		Downloadable: true,
		ReceivedAt:   now,
		ModifiedAt:   now,
	}

	if err := s.blobs.Upload(ctx, doc.Locator, content, meta.ContentType); err != nil {
		s.metrics.ObserveUpload("failure", doc.SizeBytes)
		s.recordAccess(ctx, models.AccessRecord{
			FolderID: folder.ID,
			Kind:     models.AccessUpload,
			Actor:    meta.Actor,
			Outcome:  models.OutcomeFailure,
			Reason:   "blob upload failed",
		})
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to store document content")
	}

	if err := s.store.SaveDocument(ctx, doc); err != nil {
		s.metrics.ObserveUpload("failure", doc.SizeBytes)
		s.logger.ErrorContext(ctx, "document metadata not saved, blob orphaned",
			"error", err,
			"folder_id", folder.ID,
			"locator", doc.Locator,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to save document metadata")
	}

	if err := s.addUsage(ctx, folder.ID, doc.SizeBytes, now); err != nil {
		s.logger.ErrorContext(ctx, "folder usage not updated after upload",
			"error", err,
			"folder_id", folder.ID,
			"document_id", doc.ID,
			"size_bytes", doc.SizeBytes,
		)
	}

	s.metrics.ObserveUpload("success", doc.SizeBytes)
	s.recordAccess(ctx, models.AccessRecord{
		FolderID:   folder.ID,
		DocumentID: doc.ID,
		Kind:       models.AccessUpload,
		Actor:      meta.Actor,
		Outcome:    models.OutcomeSuccess,
		Reason:     "document uploaded",
	})
	s.publishUploaded(ctx, folder, doc)

	s.logger.InfoContext(ctx, "document uploaded",
		"folder_id", folder.ID,
		"document_id", doc.ID,
		"size_bytes", doc.SizeBytes,
	)
	return doc, nil
}

// addUsage re-reads the folder under its lock so concurrent uploads each
// contribute their size and later state changes are not overwritten.
func (s *Service) addUsage(ctx context.Context, folderID string, size int64, now time.Time) error {
	return s.folders.Do(folderID, func() error {
		fresh, err := s.store.FindFolder(ctx, folderID)
		if err != nil {
			return err
		}
		fresh.AddUsage(size, now)
		return s.store.SaveFolder(ctx, fresh)
	})
}

func (s *Service) publishUploaded(ctx context.Context, folder *models.Folder, doc *models.Document) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishDocumentUploaded(ctx, models.DocumentUploaded{
		DocumentID:     doc.ID,
		FolderID:       folder.ID,
		OwnerCitizenID: folder.OwnerCitizenID,
		Title:          doc.Title,
		Type:           doc.Type,
		FileName:       doc.FileName,
		Format:         doc.Format,
		SizeBytes:      doc.SizeBytes,
		SHA256:         doc.SHA256,
		UploadedAt:     doc.ReceivedAt,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish document uploaded event",
			"error", err,
			"document_id", doc.ID,
		)
	}
}

// Get returns the document's metadata and records a VIEW.
func (s *Service) Get(ctx context.Context, folderID, documentID, actor string) (*models.Document, error) {
	doc, err := s.requireDocument(ctx, folderID, documentID)
	if err != nil {
		return nil, err
	}
	s.recordAccess(ctx, models.AccessRecord{
		FolderID:   folderID,
		DocumentID: documentID,
		Kind:       models.AccessView,
		Actor:      actor,
		Outcome:    models.OutcomeSuccess,
	})
	return doc, nil
}

// ListPaginated returns one page of the folder's documents in document ID
// order. The cursor is the opaque value from the previous page.
func (s *Service) ListPaginated(ctx context.Context, folderID, cursor string, pageSize int) (*models.DocumentPage, error) {
	afterID, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireFolder(ctx, folderID); err != nil {
		return nil, err
	}
	pageSize = validation.NormalizePageSize(pageSize)

	docs, err := s.store.ListDocuments(ctx, folderID, afterID, pageSize+1)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}

	page := &models.DocumentPage{Items: docs}
	if len(docs) > pageSize {
		page.Items = docs[:pageSize]
		page.HasMore = true
		page.NextCursor = encodeCursor(page.Items[pageSize-1].ID)
	}
	s.metrics.ObservePage(len(page.Items))
	return page, nil
}

// GenerateDownloadURL presigns a time-limited GET for a downloadable document.
func (s *Service) GenerateDownloadURL(ctx context.Context, folderID, documentID, actor string) (string, error) {
	doc, err := s.requireDocument(ctx, folderID, documentID)
	if err != nil {
		return "", err
	}
	access := models.AccessRecord{
		FolderID:   folderID,
		DocumentID: documentID,
		Kind:       models.AccessDownload,
		Actor:      actor,
	}
	if !doc.Downloadable {
		s.metrics.IncrementDownloadURL("denied")
		access.Outcome = models.OutcomeDenied
		access.Reason = "document not downloadable"
		s.recordAccess(ctx, access)
		return "", ErrNotDownloadable
	}

	url, err := s.blobs.Presign(ctx, doc.Locator, s.presignTTL)
	if err != nil {
		s.metrics.IncrementDownloadURL("failure")
		access.Outcome = models.OutcomeFailure
		access.Reason = "presign failed"
		s.recordAccess(ctx, access)
		return "", dErrors.Wrap(err, dErrors.CodeStorage, "failed to generate download URL")
	}

	s.metrics.IncrementDownloadURL("success")
	access.Outcome = models.OutcomeSuccess
	access.Reason = "download URL generated"
	s.recordAccess(ctx, access)
	return url, nil
}

// UpdateState overwrites the document state. Any state may follow any other;
// repeating an update is harmless.
func (s *Service) UpdateState(ctx context.Context, folderID, documentID string, state models.DocumentState, reason string) (*models.Document, error) {
	if _, ok := models.ParseDocumentState(string(state)); !ok {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown document state %q", state))
	}
	doc, err := s.requireDocument(ctx, folderID, documentID)
	if err != nil {
		return nil, err
	}

	doc.State = state
	doc.ModifiedAt = s.now()
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to save document state")
	}

	s.metrics.IncrementStateChange(string(state))
	detail := "state set to " + string(state)
	if reason != "" {
		detail += ": " + reason
	}
	s.recordAccess(ctx, models.AccessRecord{
		FolderID:   folderID,
		DocumentID: documentID,
		Kind:       models.AccessStateChange,
		Outcome:    models.OutcomeSuccess,
		Reason:     detail,
	})
	return doc, nil
}

// StartAuthentication marks the document AUTHENTICATING. The result arrives
// later from the external authenticator.
func (s *Service) StartAuthentication(ctx context.Context, folderID, documentID, actor string) (*models.Document, error) {
	doc, err := s.requireDocument(ctx, folderID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.State == models.DocumentCertified {
		return nil, dErrors.New(dErrors.CodeInvalidState, "document is already certified")
	}

	doc.State = models.DocumentAuthenticating
	doc.ModifiedAt = s.now()
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to save document state")
	}
	s.recordAccess(ctx, models.AccessRecord{
		FolderID:   folderID,
		DocumentID: documentID,
		Kind:       models.AccessAuthStart,
		Actor:      actor,
		Outcome:    models.OutcomeSuccess,
	})
	return doc, nil
}
