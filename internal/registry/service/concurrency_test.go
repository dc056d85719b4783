package service

import (
	"net/http"

	"go.uber.org/mock/gomock"

	"carpeta/internal/registry/gateway"
	"carpeta/pkg/testutil"
)

func (s *ServiceSuite) TestConcurrentRegisterHasSingleWinner() {
	svc := New(s.store, s.registry, s.folders, s.trail)
	s.registry.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(gateway.Response{StatusCode: http.StatusCreated, Success: true}).AnyTimes()
	s.folders.EXPECT().CreateFolder(gomock.Any(), gomock.Any()).
		Return(s.folderCreated("folder-1")).AnyTimes()

	result := testutil.RunConcurrent(10, func(int) error {
		_, err := svc.Register(s.ctx, s.registerCommand())
		return err
	})

	s.Equal(int32(1), result.Successes)
	s.Equal(int32(9), result.Conflicts)
	s.Zero(result.Errors)

	reg, err := s.store.FindByCitizen(s.ctx, "123")
	s.Require().NoError(err)
	s.True(reg.Active)
	s.Equal("folder-1", reg.FolderID)
}
