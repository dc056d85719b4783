// Package events connects the document store to the message bus: uploads are
// announced on documents.uploaded and authentication verdicts are read from
// documents.authenticated.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"carpeta/internal/folder/models"
	"carpeta/internal/platform/kafka"
	"carpeta/internal/platform/kafka/consumer"
	dErrors "carpeta/pkg/domain-errors"
)

//go:generate mockgen -source=events.go -destination=mocks/mocks.go -package=mocks

// Event type header values.
const (
	EventDocumentUploaded      = "document_uploaded"
	EventDocumentAuthenticated = "document_authenticated"
)

// Producer sends an encoded event to a topic.
type Producer interface {
	ProduceJSON(ctx context.Context, topic, key, eventType string, v any) error
}

// StateUpdater applies an authentication verdict to a document.
type StateUpdater interface {
	UpdateState(ctx context.Context, folderID, documentID string, state models.DocumentState, reason string) (*models.Document, error)
}

// Publisher announces uploads. Records are keyed by folder so one folder's
// events stay ordered.
type Publisher struct {
	producer Producer
	topic    string
}

func NewPublisher(producer Producer) *Publisher {
	return &Publisher{producer: producer, topic: kafka.TopicDocumentsUploaded}
}

func (p *Publisher) PublishDocumentUploaded(ctx context.Context, event models.DocumentUploaded) error {
	return p.producer.ProduceJSON(ctx, p.topic, event.FolderID, EventDocumentUploaded, event)
}

// AuthResult is the verdict of the external authenticator.
type AuthResult struct {
	DocumentID      string    `json:"documentId"`
	FolderID        string    `json:"folderId"`
	StatusCode      int       `json:"statusCode"`
	Message         string    `json:"message"`
	AuthenticatedAt time.Time `json:"authenticatedAt"`
}

// State maps a 2xx verdict to CERTIFIED and anything else to REJECTED.
func (r AuthResult) State() models.DocumentState {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return models.DocumentCertified
	}
	return models.DocumentRejected
}

// AuthResultHandler consumes documents.authenticated. Malformed or orphaned
// results are dropped; storage failures are returned so the record is redelivered.
type AuthResultHandler struct {
	documents StateUpdater
	logger    *slog.Logger
}

func NewAuthResultHandler(documents StateUpdater, logger *slog.Logger) *AuthResultHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthResultHandler{documents: documents, logger: logger}
}

func (h *AuthResultHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var result AuthResult
	if err := json.Unmarshal(msg.Value, &result); err != nil {
		h.logger.WarnContext(ctx, "dropping malformed authentication result",
			"error", err,
			"topic", msg.Topic,
			"offset", msg.Offset,
		)
		return nil
	}
	result.DocumentID = strings.TrimSpace(result.DocumentID)
	result.FolderID = strings.TrimSpace(result.FolderID)
	if result.DocumentID == "" || result.FolderID == "" {
		h.logger.WarnContext(ctx, "dropping authentication result without identifiers",
			"offset", msg.Offset,
		)
		return nil
	}

	state := result.State()
	_, err := h.documents.UpdateState(ctx, result.FolderID, result.DocumentID, state, result.Message)
	switch {
	case err == nil:
		h.logger.InfoContext(ctx, "document authentication applied",
			"folder_id", result.FolderID,
			"document_id", result.DocumentID,
			"state", state,
		)
		return nil
	case dErrors.HasCode(err, dErrors.CodeNotFound), dErrors.HasCode(err, dErrors.CodeValidation):
		h.logger.WarnContext(ctx, "dropping authentication result for unknown document",
			"error", err,
			"folder_id", result.FolderID,
			"document_id", result.DocumentID,
		)
		return nil
	default:
		return fmt.Errorf("apply authentication result: %w", err)
	}
}

var _ consumer.Handler = (*AuthResultHandler)(nil)
