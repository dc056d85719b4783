package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"carpeta/internal/audit"
	"carpeta/internal/blob"
	folderhandler "carpeta/internal/folder/handler"
	folderservice "carpeta/internal/folder/service"
	folderstore "carpeta/internal/folder/store"
	"carpeta/internal/platform/health"
	"carpeta/internal/registry/gateway"
	registryhandler "carpeta/internal/registry/handler"
	"carpeta/internal/registry/models"
	registryservice "carpeta/internal/registry/service"
	"carpeta/internal/registry/service/mocks"
	registrystore "carpeta/internal/registry/store"
	"carpeta/pkg/platform/circuit"
	"carpeta/pkg/platform/resilience"
)

const citizen = "1020304050"

type RouterSuite struct {
	suite.Suite
	registry *mocks.MockRegistryGateway
	blobs    *blob.InMemoryStore
	router   http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.registry = mocks.NewMockRegistryGateway(ctrl)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	s.blobs = blob.NewInMemoryStore("secret", blob.WithBaseURL("http://carpeta.local"+BlobPrefix))
	folders := folderservice.New(folderstore.NewInMemory(), s.blobs, folderservice.WithLogger(logger))
	registrations := registryservice.New(registrystore.NewInMemory(), s.registry,
		gateway.NewLocalFolders(folders, resilience.NewPolicy(circuit.New(gateway.DependencyFolder))),
		audit.NewPublisher(audit.NewInMemoryStore()),
		registryservice.WithLogger(logger),
	)

	s.router = NewRouter(Routes{
		Logger:         logger,
		RequestTimeout: time.Second,
		CORSOrigins:    []string{"https://operador.example.co"},
		Health:         health.New("test"),
		Registrations:  registryhandler.New(registrations, logger),
		Folders:        folderhandler.New(folders, logger),
		Blobs:          blob.DownloadHandler(s.blobs),
	})
}

func (s *RouterSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestOperationalEndpoints() {
	s.Run("liveness", func() {
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/health/live", "").Code)
	})

	s.Run("metrics", func() {
		rec := s.do(http.MethodGet, "/metrics", "")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "go_goroutines")
	})

	s.Run("request id is echoed", func() {
		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal("req-123", rec.Header().Get("X-Request-ID"))
	})

	s.Run("cors preflight for an allowed origin", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/citizens", nil)
		req.Header.Set("Origin", "https://operador.example.co")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal("https://operador.example.co", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	s.Run("unknown route", func() {
		s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/v1/unknown", "").Code)
	})
}

func (s *RouterSuite) TestRegistrationProvisionsLocalFolder() {
	s.registry.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(gateway.Response{StatusCode: http.StatusCreated, Success: true})

	rec := s.do(http.MethodPost, "/api/v1/citizens",
		`{"id":"`+citizen+`","name":"Ana Gomez","operatorId":"OP1","operatorName":"Operador Uno"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var reg models.Registration
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &reg))
	s.Equal(models.StateRegisteredWithFolder, reg.State)
	s.Require().NotEmpty(reg.FolderID)

	rec = s.do(http.MethodGet, "/api/v1/carpetas/cedula/"+citizen, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data folderhandler.FolderResponse `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))
	s.Equal(reg.FolderID, env.Data.FolderID)
	s.Equal(reg.Email, env.Data.Email)
}

func (s *RouterSuite) TestRegistryBodyLimit() {
	huge := `{"id":"` + citizen + `","name":"` + strings.Repeat("a", 128*1024) + `"}`
	rec := s.do(http.MethodPost, "/api/v1/citizens", huge)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestBlobDownload() {
	ctx := context.Background()
	s.Require().NoError(s.blobs.Upload(ctx, "folder-1/acta.pdf", []byte("%PDF-1.7"), "application/pdf"))
	link, err := s.blobs.Presign(ctx, "folder-1/acta.pdf", time.Minute)
	s.Require().NoError(err)

	path := strings.TrimPrefix(link, "http://carpeta.local")
	rec := s.do(http.MethodGet, path, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("%PDF-1.7", rec.Body.String())
}
