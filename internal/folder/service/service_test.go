package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"carpeta/internal/blob"
	"carpeta/internal/folder/models"
	"carpeta/internal/folder/service/mocks"
	"carpeta/internal/folder/store"
	dErrors "carpeta/pkg/domain-errors"
)

type failingBlobs struct {
	blob.Store
}

func (failingBlobs) Upload(context.Context, string, []byte, string) error {
	return errors.New("bucket unreachable")
}

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	store     *store.Store
	blobs     *blob.InMemoryStore
	publisher *mocks.MockUploadPublisher
	now       time.Time
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.store = store.NewInMemory()
	s.now = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	s.blobs = blob.NewInMemoryStore("secret", blob.WithClock(func() time.Time { return s.now }))
	s.publisher = mocks.NewMockUploadPublisher(s.ctrl)
	s.publisher.EXPECT().PublishDocumentUploaded(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.service = New(s.store, s.blobs, WithPublisher(s.publisher), WithClock(s.clock))
}

func (s *ServiceSuite) clock() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *ServiceSuite) folder() *models.Folder {
	folder, err := s.service.CreateFolder(s.ctx, CreateFolderCommand{CitizenID: "123", FullName: "Ana Gomez", Operator: "OP1"})
	s.Require().NoError(err)
	return folder
}

func (s *ServiceSuite) upload(folderID, fileName string, content []byte) *models.Document {
	doc, err := s.service.Upload(s.ctx, folderID, models.UploadMetadata{
		Title:       "Cedula",
		Type:        "IDENTIFICACION",
		Context:     "PERSONAL",
		FileName:    fileName,
		ContentType: "application/pdf",
	}, content)
	s.Require().NoError(err)
	return doc
}

func (s *ServiceSuite) TestCreateFolder() {
	s.Run("generates id and email", func() {
		s.SetupTest()
		folder := s.folder()
		s.NotEmpty(folder.ID)
		s.Equal("ana.gomez.123@carpetacolombia.co", folder.Email)
		s.Equal(models.FolderActive, folder.State)
		s.Equal("OP1", folder.CurrentOperator)

		found, err := s.service.FindFolderByCitizen(s.ctx, "123")
		s.Require().NoError(err)
		s.Equal(folder.ID, found.ID)
	})

	s.Run("one folder per citizen", func() {
		s.SetupTest()
		s.folder()
		_, err := s.service.CreateFolder(s.ctx, CreateFolderCommand{CitizenID: "123", FullName: "Ana Gomez"})
		s.ErrorIs(err, ErrFolderExists)
	})

	s.Run("unknown folder", func() {
		s.SetupTest()
		_, err := s.service.GetFolder(s.ctx, "missing")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpload() {
	s.Run("stores content and metadata", func() {
		s.SetupTest()
		folder := s.folder()
		content := []byte("0123456789")

		doc := s.upload(folder.ID, "cedula.pdf", content)
		s.Equal(models.DocumentTemporary, doc.State)
		s.Equal(int64(10), doc.SizeBytes)
		s.True(doc.Downloadable)
		s.Equal(HashContent(content), doc.SHA256)
		s.Equal("123/cedula.pdf", doc.Locator)

		stored, _, ok := s.blobs.Content(doc.Locator)
		s.Require().True(ok)
		s.Equal(content, stored)

		updated, err := s.service.GetFolder(s.ctx, folder.ID)
		s.Require().NoError(err)
		s.Equal(int64(10), updated.UsedSpaceBytes)
		s.True(updated.ModifiedAt.After(folder.ModifiedAt))

		page, err := s.service.ListPaginated(s.ctx, folder.ID, "", 20)
		s.Require().NoError(err)
		s.Len(page.Items, 1)
		s.False(page.HasMore)
		s.Empty(page.NextCursor)

		history, err := s.service.AccessHistory(s.ctx, folder.ID, 0)
		s.Require().NoError(err)
		s.Require().Len(history, 1)
		s.Equal(models.AccessUpload, history[0].Kind)
		s.Equal(models.OutcomeSuccess, history[0].Outcome)
		s.Equal(doc.ID, history[0].DocumentID)
	})

	s.Run("announces the upload", func() {
		s.SetupTest()
		publisher := mocks.NewMockUploadPublisher(s.ctrl)
		svc := New(s.store, s.blobs, WithPublisher(publisher))
		folder := s.folder()

		publisher.EXPECT().PublishDocumentUploaded(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, event models.DocumentUploaded) error {
				s.Equal(folder.ID, event.FolderID)
				s.Equal("123", event.OwnerCitizenID)
				s.Equal(HashContent([]byte("abc")), event.SHA256)
				return errors.New("broker down")
			})

		_, err := svc.Upload(s.ctx, folder.ID, models.UploadMetadata{FileName: "a.txt"}, []byte("abc"))
		s.NoError(err)
	})

	s.Run("missing folder", func() {
		s.SetupTest()
		_, err := s.service.Upload(s.ctx, "missing", models.UploadMetadata{FileName: "a.txt"}, []byte("x"))
		s.ErrorIs(err, store.ErrFolderNotFound)
	})

	s.Run("blob failure leaves no metadata", func() {
		s.SetupTest()
		folder := s.folder()
		svc := New(s.store, failingBlobs{})

		_, err := svc.Upload(s.ctx, folder.ID, models.UploadMetadata{FileName: "a.txt"}, []byte("abc"))
		s.True(dErrors.HasCode(err, dErrors.CodeStorage))

		page, err := s.service.ListPaginated(s.ctx, folder.ID, "", 0)
		s.Require().NoError(err)
		s.Empty(page.Items)
		unchanged, err := s.service.GetFolder(s.ctx, folder.ID)
		s.Require().NoError(err)
		s.Zero(unchanged.UsedSpaceBytes)
	})

	s.Run("metadata failure is a storage error", func() {
		s.SetupTest()
		folders := mocks.NewMockFolderStore(s.ctrl)
		folders.EXPECT().FindFolder(gomock.Any(), "f-1").Return(&models.Folder{ID: "f-1", OwnerCitizenID: "123"}, nil)
		folders.EXPECT().SaveDocument(gomock.Any(), gomock.Any()).Return(errors.New("table unavailable"))
		svc := New(folders, s.blobs)

		_, err := svc.Upload(s.ctx, "f-1", models.UploadMetadata{FileName: "a.txt"}, []byte("abc"))
		s.True(dErrors.HasCode(err, dErrors.CodeStorage))

		_, _, orphaned := s.blobs.Content("123/a.txt")
		s.True(orphaned)
	})

	s.Run("file name is required", func() {
		s.SetupTest()
		folder := s.folder()
		_, err := s.service.Upload(s.ctx, folder.ID, models.UploadMetadata{FileName: " "}, []byte("x"))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestHashIsDeterministic() {
	s.Equal("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", HashContent([]byte("hello")))
	s.Equal(HashContent([]byte("same")), HashContent([]byte("same")))
	s.NotEqual(HashContent([]byte("a")), HashContent([]byte("b")))
}

func (s *ServiceSuite) TestListPaginatedVisitsEveryDocumentOnce() {
	folder := s.folder()
	want := map[string]bool{}
	for i := range 23 {
		doc := s.upload(folder.ID, fmt.Sprintf("doc-%02d.pdf", i), []byte{byte(i)})
		want[doc.ID] = true
	}

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := s.service.ListPaginated(s.ctx, folder.ID, cursor, 5)
		s.Require().NoError(err)
		pages++
		for _, doc := range page.Items {
			s.False(seen[doc.ID], "document %s listed twice", doc.ID)
			seen[doc.ID] = true
		}
		if !page.HasMore {
			s.Empty(page.NextCursor)
			break
		}
		s.Len(page.Items, 5)
		cursor = page.NextCursor
	}
	s.Equal(5, pages)
	s.Equal(want, seen)
}

func (s *ServiceSuite) TestListPaginatedPageSize() {
	folder := s.folder()
	for i := range 3 {
		s.upload(folder.ID, fmt.Sprintf("f%d.pdf", i), []byte("x"))
	}

	page, err := s.service.ListPaginated(s.ctx, folder.ID, "", -1)
	s.Require().NoError(err)
	s.Len(page.Items, 3)

	page, err = s.service.ListPaginated(s.ctx, folder.ID, "", 3)
	s.Require().NoError(err)
	s.Len(page.Items, 3)
	s.False(page.HasMore)

	page, err = s.service.ListPaginated(s.ctx, folder.ID, "", 2)
	s.Require().NoError(err)
	s.True(page.HasMore)
	s.Equal(encodeCursor(page.Items[1].ID), page.NextCursor)
}

func (s *ServiceSuite) TestListPaginatedRejectsMalformedCursor() {
	folder := s.folder()
	_, err := s.service.ListPaginated(s.ctx, folder.ID, "%%%not-base64", 20)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestGet() {
	folder := s.folder()
	doc := s.upload(folder.ID, "a.pdf", []byte("abc"))

	got, err := s.service.Get(s.ctx, folder.ID, doc.ID, "citizen")
	s.Require().NoError(err)
	s.Equal(doc.SHA256, got.SHA256)

	_, err = s.service.Get(s.ctx, folder.ID, "missing", "citizen")
	s.ErrorIs(err, store.ErrDocumentNotFound)

	history, err := s.service.AccessHistory(s.ctx, folder.ID, 1)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(models.AccessView, history[0].Kind)
	s.Equal("citizen", history[0].Actor)
}

func (s *ServiceSuite) TestGenerateDownloadURL() {
	s.Run("presigns for fifteen minutes", func() {
		s.SetupTest()
		folder := s.folder()
		doc := s.upload(folder.ID, "a.pdf", []byte("abc"))

		url, err := s.service.GenerateDownloadURL(s.ctx, folder.ID, doc.ID, "citizen")
		s.Require().NoError(err)
		locator, err := s.blobs.Verify(url)
		s.Require().NoError(err)
		s.Equal(doc.Locator, locator)

		s.now = s.now.Add(16 * time.Minute)
		_, err = s.blobs.Verify(url)
		s.ErrorIs(err, blob.ErrExpired)

		history, err := s.service.AccessHistory(s.ctx, folder.ID, 1)
		s.Require().NoError(err)
		s.Equal(models.AccessDownload, history[0].Kind)
		s.Equal(models.OutcomeSuccess, history[0].Outcome)
	})

	s.Run("not downloadable is an invalid state", func() {
		s.SetupTest()
		folder := s.folder()
		doc := s.upload(folder.ID, "a.pdf", []byte("abc"))
		doc.Downloadable = false
		s.Require().NoError(s.store.SaveDocument(s.ctx, doc))

		_, err := s.service.GenerateDownloadURL(s.ctx, folder.ID, doc.ID, "citizen")
		s.ErrorIs(err, ErrNotDownloadable)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

		history, err := s.service.AccessHistory(s.ctx, folder.ID, 1)
		s.Require().NoError(err)
		s.Equal(models.OutcomeDenied, history[0].Outcome)
	})

	s.Run("missing document", func() {
		s.SetupTest()
		folder := s.folder()
		_, err := s.service.GenerateDownloadURL(s.ctx, folder.ID, "missing", "citizen")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpdateState() {
	folder := s.folder()
	doc := s.upload(folder.ID, "a.pdf", []byte("abc"))

	for range 2 {
		updated, err := s.service.UpdateState(s.ctx, folder.ID, doc.ID, models.DocumentCertified, "verified")
		s.Require().NoError(err)
		s.Equal(models.DocumentCertified, updated.State)
	}

	updated, err := s.service.UpdateState(s.ctx, folder.ID, doc.ID, models.DocumentTemporary, "")
	s.Require().NoError(err)
	s.Equal(models.DocumentTemporary, updated.State)

	_, err = s.service.UpdateState(s.ctx, folder.ID, doc.ID, models.DocumentState("LOST"), "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	history, err := s.service.AccessHistory(s.ctx, folder.ID, 0)
	s.Require().NoError(err)
	s.Equal(models.AccessStateChange, history[0].Kind)
	s.Contains(history[1].Reason, "verified")
}

func (s *ServiceSuite) TestStartAuthentication() {
	folder := s.folder()
	doc := s.upload(folder.ID, "a.pdf", []byte("abc"))

	updated, err := s.service.StartAuthentication(s.ctx, folder.ID, doc.ID, "citizen")
	s.Require().NoError(err)
	s.Equal(models.DocumentAuthenticating, updated.State)

	history, err := s.service.AccessHistory(s.ctx, folder.ID, 1)
	s.Require().NoError(err)
	s.Equal(models.AccessAuthStart, history[0].Kind)

	_, err = s.service.UpdateState(s.ctx, folder.ID, doc.ID, models.DocumentCertified, "")
	s.Require().NoError(err)
	_, err = s.service.StartAuthentication(s.ctx, folder.ID, doc.ID, "citizen")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
}
