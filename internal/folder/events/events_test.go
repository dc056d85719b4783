package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"carpeta/internal/blob"
	"carpeta/internal/folder/events/mocks"
	"carpeta/internal/folder/models"
	"carpeta/internal/folder/service"
	"carpeta/internal/folder/store"
	"carpeta/internal/platform/kafka"
	"carpeta/internal/platform/kafka/consumer"
	dErrors "carpeta/pkg/domain-errors"
)

func TestPublisherKeysByFolder(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := mocks.NewMockProducer(ctrl)
	event := models.DocumentUploaded{DocumentID: "D1", FolderID: "F1", SizeBytes: 10}

	producer.EXPECT().
		ProduceJSON(gomock.Any(), kafka.TopicDocumentsUploaded, "F1", EventDocumentUploaded, event).
		Return(nil)

	require.NoError(t, NewPublisher(producer).PublishDocumentUploaded(context.Background(), event))
}

func TestAuthResultState(t *testing.T) {
	tests := []struct {
		status int
		want   models.DocumentState
	}{
		{status: 200, want: models.DocumentCertified},
		{status: 204, want: models.DocumentCertified},
		{status: 299, want: models.DocumentCertified},
		{status: 300, want: models.DocumentRejected},
		{status: 400, want: models.DocumentRejected},
		{status: 500, want: models.DocumentRejected},
		{status: 0, want: models.DocumentRejected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AuthResult{StatusCode: tt.status}.State(), "status %d", tt.status)
	}
}

type AuthResultHandlerSuite struct {
	suite.Suite
	ctx       context.Context
	documents *mocks.MockStateUpdater
	handler   *AuthResultHandler
}

func TestAuthResultHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthResultHandlerSuite))
}

func (s *AuthResultHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.documents = mocks.NewMockStateUpdater(gomock.NewController(s.T()))
	s.handler = NewAuthResultHandler(s.documents, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func (s *AuthResultHandlerSuite) message(v any) *consumer.Message {
	raw, err := json.Marshal(v)
	s.Require().NoError(err)
	return &consumer.Message{Topic: kafka.TopicDocumentsAuthenticated, Value: raw}
}

func (s *AuthResultHandlerSuite) TestApplyVerdict() {
	s.documents.EXPECT().
		UpdateState(gomock.Any(), "F1", "D1", models.DocumentCertified, "ok").
		Return(&models.Document{}, nil)
	s.documents.EXPECT().
		UpdateState(gomock.Any(), "F1", "D2", models.DocumentRejected, "signature invalid").
		Return(&models.Document{}, nil)

	s.NoError(s.handler.Handle(s.ctx, s.message(AuthResult{DocumentID: "D1", FolderID: "F1", StatusCode: 200, Message: "ok"})))
	s.NoError(s.handler.Handle(s.ctx, s.message(AuthResult{DocumentID: "D2", FolderID: "F1", StatusCode: 422, Message: "signature invalid"})))
}

func (s *AuthResultHandlerSuite) TestDropsUnusableMessages() {
	s.Run("malformed json", func() {
		s.NoError(s.handler.Handle(s.ctx, &consumer.Message{Value: []byte("{not json")}))
	})
	s.Run("missing identifiers", func() {
		s.NoError(s.handler.Handle(s.ctx, s.message(AuthResult{DocumentID: " ", StatusCode: 200})))
	})
	s.Run("unknown document", func() {
		s.documents.EXPECT().UpdateState(gomock.Any(), "F1", "D9", gomock.Any(), gomock.Any()).
			Return(nil, store.ErrDocumentNotFound)
		s.NoError(s.handler.Handle(s.ctx, s.message(AuthResult{DocumentID: "D9", FolderID: "F1", StatusCode: 200})))
	})
}

func (s *AuthResultHandlerSuite) TestStorageFailureIsRetried() {
	failure := dErrors.Wrap(errors.New("disk full"), dErrors.CodeStorage, "failed to save document state")
	s.documents.EXPECT().UpdateState(gomock.Any(), "F1", "D1", gomock.Any(), gomock.Any()).Return(nil, failure)

	err := s.handler.Handle(s.ctx, s.message(AuthResult{DocumentID: "D1", FolderID: "F1", StatusCode: 200}))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeStorage))
}

func TestAuthResultCertifiesUploadedDocument(t *testing.T) {
	ctx := context.Background()
	svc := service.New(store.NewInMemory(), blob.NewInMemoryStore("secret"))
	folder, err := svc.CreateFolder(ctx, service.CreateFolderCommand{CitizenID: "1234567", FullName: "Ana Gomez"})
	require.NoError(t, err)
	doc, err := svc.Upload(ctx, folder.ID, models.UploadMetadata{FileName: "diploma.pdf"}, []byte("content"))
	require.NoError(t, err)

	raw, err := json.Marshal(AuthResult{
		DocumentID:      doc.ID,
		FolderID:        folder.ID,
		StatusCode:      200,
		Message:         "authenticated",
		AuthenticatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, NewAuthResultHandler(svc, nil).Handle(ctx, &consumer.Message{Value: raw}))

	got, err := svc.Get(ctx, folder.ID, doc.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentCertified, got.State)
}
