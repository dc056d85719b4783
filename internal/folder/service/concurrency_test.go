package service

import (
	"context"
	"fmt"
	"time"

	"carpeta/internal/blob"
	"carpeta/internal/folder/models"
	"carpeta/pkg/testutil"
)

// slowBlobs delays uploads like a remote bucket would.
type slowBlobs struct {
	blob.Store
	delay time.Duration
}

func (b slowBlobs) Upload(ctx context.Context, locator string, content []byte, contentType string) error {
	time.Sleep(b.delay)
	return b.Store.Upload(ctx, locator, content, contentType)
}

func (s *ServiceSuite) TestConcurrentCreateFolderHasSingleWinner() {
	svc := New(s.store, s.blobs)

	result := testutil.RunConcurrent(10, func(int) error {
		_, err := svc.CreateFolder(s.ctx, CreateFolderCommand{CitizenID: "123", FullName: "Ana Gomez", Operator: "OP1"})
		return err
	})

	s.Equal(int32(1), result.Successes)
	s.Equal(int32(9), result.Conflicts)
	s.Zero(result.Errors)
}

func (s *ServiceSuite) TestConcurrentUploadsToOneFolder() {
	folder := s.folder()
	svc := New(s.store, slowBlobs{Store: s.blobs, delay: 5 * time.Millisecond})

	result := testutil.RunConcurrent(20, func(idx int) error {
		_, err := svc.Upload(s.ctx, folder.ID, models.UploadMetadata{
			Title:       "Soporte",
			Type:        "IDENTIFICACION",
			Context:     "PERSONAL",
			FileName:    fmt.Sprintf("doc-%02d.pdf", idx),
			ContentType: "application/pdf",
		}, []byte(fmt.Sprintf("content%02d", idx)))
		return err
	})
	s.Equal(int32(20), result.Successes)

	page, err := svc.ListPaginated(s.ctx, folder.ID, "", 50)
	s.Require().NoError(err)
	s.Len(page.Items, 20)
	s.False(page.HasMore)

	stored, err := svc.GetFolder(s.ctx, folder.ID)
	s.Require().NoError(err)
	s.Equal(int64(20*len("content00")), stored.UsedSpaceBytes)
}
