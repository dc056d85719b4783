package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"carpeta/internal/audit"
	"carpeta/internal/registry/gateway"
	"carpeta/internal/registry/models"
	"carpeta/internal/registry/service/mocks"
	"carpeta/internal/registry/store"
	dErrors "carpeta/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	registry *mocks.MockRegistryGateway
	folders  *mocks.MockFolderGateway
	store    *store.Store
	trail    *audit.Publisher
	now      time.Time
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.registry = mocks.NewMockRegistryGateway(s.ctrl)
	s.folders = mocks.NewMockFolderGateway(s.ctrl)
	s.store = store.NewInMemory()
	s.now = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	s.trail = audit.NewPublisher(audit.NewInMemoryStore())
	s.service = New(s.store, s.registry, s.folders, s.trail, WithClock(s.clock))
}

func (s *ServiceSuite) clock() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *ServiceSuite) registerCommand() RegisterCommand {
	return RegisterCommand{
		CitizenID:    "123",
		FullName:     "Ana Gomez",
		Address:      "Calle 10 # 5-20",
		OperatorID:   "OP1",
		OperatorName: "Operador Uno",
	}
}

func (s *ServiceSuite) folderCreated(folderID string) gateway.FolderResponse {
	return gateway.FolderResponse{
		Response: gateway.Response{StatusCode: http.StatusCreated, Success: true, Message: "created"},
		FolderID: folderID,
	}
}

func (s *ServiceSuite) actions(citizenID string) []audit.Action {
	records, err := s.trail.List(s.ctx, citizenID)
	s.Require().NoError(err)
	out := make([]audit.Action, 0, len(records))
	for _, r := range records {
		out = append(out, r.Action)
	}
	return out
}

func (s *ServiceSuite) TestRegister() {
	s.Run("success provisions the folder and audits two steps", func() {
		s.SetupTest()
		s.registry.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req gateway.RegisterRequest) gateway.Response {
				s.Equal("123", req.CitizenID)
				s.Equal("ana.gomez.123@carpetacolombia.co", req.Email)
				return gateway.Response{StatusCode: http.StatusCreated, Success: true, Message: "ok"}
			})
		s.folders.EXPECT().CreateFolder(gomock.Any(), gateway.FolderRequest{
			CitizenID: "123",
			FullName:  "Ana Gomez",
			Operator:  "SISTEMA_REGISTRO",
		}).Return(s.folderCreated("F1"))

		reg, err := s.service.Register(s.ctx, s.registerCommand())
		s.Require().NoError(err)
		s.Equal(models.StateRegisteredWithFolder, reg.State)
		s.Equal("F1", reg.FolderID)
		s.True(reg.Active)

		stored, err := s.store.FindByCitizen(s.ctx, "123")
		s.Require().NoError(err)
		s.Equal("F1", stored.FolderID)

		records, err := s.trail.List(s.ctx, "123")
		s.Require().NoError(err)
		s.Require().Len(records, 2)
		s.Equal(audit.ActionFolderCreation, records[0].Action)
		s.Equal(audit.ActionRegistration, records[1].Action)
		s.True(records[0].Success)
		s.True(records[1].Success)
		s.Equal("OP1", records[1].OperatorID)
	})

	s.Run("second registration fails without network calls", func() {
		s.SetupTest()
		s.registry.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(gateway.Response{StatusCode: http.StatusCreated, Success: true}).Times(1)
		s.folders.EXPECT().CreateFolder(gomock.Any(), gomock.Any()).Return(s.folderCreated("F1")).Times(1)

		_, err := s.service.Register(s.ctx, s.registerCommand())
		s.Require().NoError(err)

		_, err = s.service.Register(s.ctx, s.registerCommand())
		s.ErrorIs(err, ErrAlreadyRegistered)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("registry already-registered status maps to conflict", func() {
		s.SetupTest()
		s.registry.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(gateway.Response{StatusCode: http.StatusNotImplemented, Message: "exists"})

		_, err := s.service.Register(s.ctx, s.registerCommand())
		s.ErrorIs(err, ErrAlreadyRegistered)

		_, err = s.store.FindByCitizen(s.ctx, "123")
		s.ErrorIs(err, store.ErrNotFound)
		s.Equal([]audit.Action{audit.ActionRegistrationError}, s.actions("123"))
	})

	s.Run("registry failure carries the downstream status and creates nothing", func() {
		s.SetupTest()
		s.registry.EXPECT().Register(gomock.Any(), gomock.Any()).Return(gateway.Unavailable())

		_, err := s.service.Register(s.ctx, s.registerCommand())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeExternalService))
		status, ok := dErrors.StatusOf(err)
		s.True(ok)
		s.Equal(http.StatusServiceUnavailable, status)

		_, err = s.store.FindByCitizen(s.ctx, "123")
		s.ErrorIs(err, store.ErrNotFound)
		s.Equal([]audit.Action{audit.ActionRegistrationError}, s.actions("123"))
	})

	s.Run("folder failure keeps the registration without folder", func() {
		s.SetupTest()
		s.registry.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(gateway.Response{StatusCode: http.StatusCreated, Success: true})
		s.folders.EXPECT().CreateFolder(gomock.Any(), gomock.Any()).
			Return(gateway.FolderResponse{Response: gateway.Unavailable()})

		_, err := s.service.Register(s.ctx, s.registerCommand())
		s.True(dErrors.HasCode(err, dErrors.CodeExternalService))

		stored, err := s.store.FindByCitizen(s.ctx, "123")
		s.Require().NoError(err)
		s.Equal(models.StateRegistered, stored.State)
		s.Empty(stored.FolderID)
		s.True(stored.Active)
		s.Equal([]audit.Action{audit.ActionRegistrationError, audit.ActionRegistration}, s.actions("123"))
	})

	s.Run("deactivated registration is replaced", func() {
		s.SetupTest()
		old := &models.Registration{CitizenID: "123", FullName: "Ana Gomez", OperatorID: "OP0", State: models.StateRegistered, Active: true}
		old.Deregister("left", s.now)
		s.Require().NoError(s.store.Create(s.ctx, old))

		s.registry.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(gateway.Response{StatusCode: http.StatusCreated, Success: true})
		s.folders.EXPECT().CreateFolder(gomock.Any(), gomock.Any()).Return(s.folderCreated("F2"))

		reg, err := s.service.Register(s.ctx, s.registerCommand())
		s.Require().NoError(err)
		s.Equal("OP1", reg.OperatorID)
		s.Equal("F2", reg.FolderID)
		s.Nil(reg.DeregisteredAt)
	})

	s.Run("missing name is rejected", func() {
		s.SetupTest()
		cmd := s.registerCommand()
		cmd.FullName = "  "
		_, err := s.service.Register(s.ctx, cmd)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestProvisionFolder() {
	seed := func() {
		s.Require().NoError(s.store.Create(s.ctx, &models.Registration{
			CitizenID: "123", FullName: "Ana Gomez", State: models.StateRegistered, Active: true,
		}))
	}

	s.Run("completes a registration left without folder", func() {
		s.SetupTest()
		seed()
		s.folders.EXPECT().CreateFolder(gomock.Any(), gomock.Any()).Return(s.folderCreated("F9"))

		reg, err := s.service.ProvisionFolder(s.ctx, "123")
		s.Require().NoError(err)
		s.Equal("F9", reg.FolderID)
		s.Equal(models.StateRegisteredWithFolder, reg.State)
	})

	s.Run("is a no-op when a folder exists", func() {
		s.SetupTest()
		seed()
		s.folders.EXPECT().CreateFolder(gomock.Any(), gomock.Any()).Return(s.folderCreated("F9")).Times(1)

		_, err := s.service.ProvisionFolder(s.ctx, "123")
		s.Require().NoError(err)
		reg, err := s.service.ProvisionFolder(s.ctx, "123")
		s.Require().NoError(err)
		s.Equal("F9", reg.FolderID)
	})

	s.Run("adopts a folder created by an earlier attempt", func() {
		s.SetupTest()
		seed()
		s.folders.EXPECT().CreateFolder(gomock.Any(), gomock.Any()).
			Return(gateway.FolderResponse{Response: gateway.Response{StatusCode: http.StatusConflict, Message: "exists"}})
		s.folders.EXPECT().FindByCitizen(gomock.Any(), "123").Return(gateway.FolderResponse{
			Response: gateway.Response{StatusCode: http.StatusOK, Success: true},
			FolderID: "F7",
		})

		reg, err := s.service.ProvisionFolder(s.ctx, "123")
		s.Require().NoError(err)
		s.Equal("F7", reg.FolderID)
	})

	s.Run("unknown citizen is not found", func() {
		s.SetupTest()
		_, err := s.service.ProvisionFolder(s.ctx, "999")
		s.ErrorIs(err, ErrNotRegistered)
	})
}

func (s *ServiceSuite) TestValidate() {
	s.Run("available", func() {
		s.SetupTest()
		s.registry.EXPECT().Validate(gomock.Any(), "123").
			Return(gateway.Response{StatusCode: http.StatusOK, Success: true})

		result, err := s.service.Validate(s.ctx, "123")
		s.Require().NoError(err)
		s.True(result.Available)
		s.Equal(http.StatusOK, result.ResponseCode)
		s.Equal([]audit.Action{audit.ActionValidation}, s.actions("123"))
	})

	s.Run("gateway failure degrades to unavailable", func() {
		s.SetupTest()
		s.registry.EXPECT().Validate(gomock.Any(), "123").Return(gateway.Unavailable())

		result, err := s.service.Validate(s.ctx, "123")
		s.Require().NoError(err)
		s.False(result.Available)
		s.Equal(http.StatusServiceUnavailable, result.ResponseCode)
	})

	s.Run("already registered skips the registry", func() {
		s.SetupTest()
		s.Require().NoError(s.store.Create(s.ctx, &models.Registration{CitizenID: "123", Active: true, State: models.StateRegistered}))

		result, err := s.service.Validate(s.ctx, "123")
		s.Require().NoError(err)
		s.False(result.Available)
		s.Equal(http.StatusNoContent, result.ResponseCode)
		s.Equal([]audit.Action{audit.ActionValidation}, s.actions("123"))
	})

	s.Run("store failure degrades to internal error", func() {
		s.SetupTest()
		failing := mocks.NewMockRegistrationStore(s.ctrl)
		failing.EXPECT().FindByCitizen(gomock.Any(), "123").Return(nil, errors.New("connection reset"))
		svc := New(failing, s.registry, s.folders, s.trail)

		result, err := svc.Validate(s.ctx, "123")
		s.Require().NoError(err)
		s.False(result.Available)
		s.Equal(http.StatusInternalServerError, result.ResponseCode)
		s.Equal([]audit.Action{audit.ActionValidationError}, s.actions("123"))
	})

	s.Run("empty citizen id is invalid input", func() {
		s.SetupTest()
		_, err := s.service.Validate(s.ctx, " ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestDeregister() {
	seed := func() {
		s.Require().NoError(s.store.Create(s.ctx, &models.Registration{
			CitizenID: "123", FullName: "Ana Gomez", OperatorID: "OP1", OperatorName: "Operador Uno",
			FolderID: "F1", State: models.StateRegisteredWithFolder, Active: true,
		}))
	}

	s.Run("success closes the registration", func() {
		s.SetupTest()
		seed()
		s.registry.EXPECT().Deregister(gomock.Any(), gateway.DeregisterRequest{
			CitizenID: "123", OperatorID: "OP1", OperatorName: "Operador Uno",
		}).Return(gateway.Response{StatusCode: http.StatusNoContent, Success: true})

		reg, err := s.service.Deregister(s.ctx, DeregisterCommand{CitizenID: "123", Reason: "transfer"})
		s.Require().NoError(err)
		s.Equal(models.StateDeregistered, reg.State)
		s.False(reg.Active)
		s.Equal("transfer", reg.DeregistrationReason)
		s.NotNil(reg.DeregisteredAt)

		_, err = s.service.Get(s.ctx, "123")
		s.ErrorIs(err, ErrNotRegistered)
		s.Equal([]audit.Action{audit.ActionDeregistration}, s.actions("123"))
	})

	s.Run("gateway failure leaves local state unchanged", func() {
		s.SetupTest()
		seed()
		s.registry.EXPECT().Deregister(gomock.Any(), gomock.Any()).
			Return(gateway.Response{StatusCode: http.StatusBadRequest, Message: "nope"})

		_, err := s.service.Deregister(s.ctx, DeregisterCommand{CitizenID: "123"})
		s.True(dErrors.HasCode(err, dErrors.CodeExternalService))

		reg, err := s.service.Get(s.ctx, "123")
		s.Require().NoError(err)
		s.Equal(models.StateRegisteredWithFolder, reg.State)
		s.True(reg.Active)
		s.Equal([]audit.Action{audit.ActionDeregisterError}, s.actions("123"))
	})

	s.Run("requires an active registration", func() {
		s.SetupTest()
		_, err := s.service.Deregister(s.ctx, DeregisterCommand{CitizenID: "123"})
		s.ErrorIs(err, ErrNotRegistered)
	})
}

func (s *ServiceSuite) TestAuditHistoryIsMostRecentFirst() {
	s.registry.EXPECT().Validate(gomock.Any(), "123").
		Return(gateway.Response{StatusCode: http.StatusOK, Success: true})
	s.registry.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(gateway.Response{StatusCode: http.StatusCreated, Success: true})
	s.folders.EXPECT().CreateFolder(gomock.Any(), gomock.Any()).Return(s.folderCreated("F1"))

	_, err := s.service.Validate(s.ctx, "123")
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, s.registerCommand())
	s.Require().NoError(err)

	records, err := s.service.AuditHistory(s.ctx, "123")
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal(audit.ActionFolderCreation, records[0].Action)
	s.Equal(audit.ActionRegistration, records[1].Action)
	s.Equal(audit.ActionValidation, records[2].Action)
}

func (s *ServiceSuite) TestListByOperator() {
	s.Require().NoError(s.store.Create(s.ctx, &models.Registration{CitizenID: "111", OperatorID: "OP1", Active: true}))
	s.Require().NoError(s.store.Create(s.ctx, &models.Registration{CitizenID: "222", OperatorID: "OP2", Active: true}))

	regs, err := s.service.ListByOperator(s.ctx, "OP1")
	s.Require().NoError(err)
	s.Require().Len(regs, 1)
	s.Equal("111", regs[0].CitizenID)
}
