package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"carpeta/internal/folder/models"
	"carpeta/internal/folder/service"
	"carpeta/internal/platform/middleware"
	id "carpeta/pkg/domain"
	dErrors "carpeta/pkg/domain-errors"
	"carpeta/pkg/platform/httputil"
	"carpeta/pkg/platform/validation"
)

// ActorHeader optionally names the caller recorded in the access history.
const ActorHeader = "X-Actor"

// Service defines the folder operations exposed over HTTP.
type Service interface {
	CreateFolder(ctx context.Context, cmd service.CreateFolderCommand) (*models.Folder, error)
	GetFolder(ctx context.Context, folderID string) (*models.Folder, error)
	FindFolderByCitizen(ctx context.Context, citizenID string) (*models.Folder, error)
	Upload(ctx context.Context, folderID string, meta models.UploadMetadata, content []byte) (*models.Document, error)
	Get(ctx context.Context, folderID, documentID, actor string) (*models.Document, error)
	ListPaginated(ctx context.Context, folderID, cursor string, pageSize int) (*models.DocumentPage, error)
	GenerateDownloadURL(ctx context.Context, folderID, documentID, actor string) (string, error)
	StartAuthentication(ctx context.Context, folderID, documentID, actor string) (*models.Document, error)
	AccessHistory(ctx context.Context, folderID string, limit int) ([]*models.AccessRecord, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1/carpetas", func(r chi.Router) {
		r.Post("/", h.HandleCreateFolder)
		r.Get("/cedula/{cedula}", h.HandleFindByCitizen)
		r.Get("/{id}", h.HandleGetFolder)
		r.Get("/{id}/historial", h.HandleAccessHistory)
		r.Post("/{id}/documentos", h.HandleUpload)
		r.Get("/{id}/documentos", h.HandleList)
		r.Get("/{id}/documentos/{docId}", h.HandleGetDocument)
		r.Get("/{id}/documentos/{docId}/descargar", h.HandleDownloadURL)
		r.Post("/{id}/documentos/{docId}/autenticar", h.HandleStartAuthentication)
	})
}

// HandleCreateFolder provisions a folder. The reply envelope is what the
// registration saga's folder client decodes.
func (h *Handler) HandleCreateFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateFolderRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	folder, err := h.service.CreateFolder(ctx, req.toCommand())
	if err != nil {
		h.logger.WarnContext(ctx, "create folder failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, envelope("folder created", toFolderResponse(folder)))
}

func (h *Handler) HandleGetFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID, valid := folderParam(w, r)
	if !valid {
		return
	}

	folder, err := h.service.GetFolder(ctx, folderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, envelope("folder found", toFolderResponse(folder)))
}

func (h *Handler) HandleFindByCitizen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	citizenID, err := id.ParseCitizenID(chi.URLParam(r, "cedula"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	folder, err := h.service.FindFolderByCitizen(ctx, citizenID.String())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, envelope("folder found", toFolderResponse(folder)))
}

// HandleUpload accepts a multipart form with the file under "archivo" and
// the metadata as form fields.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	folderID, valid := folderParam(w, r)
	if !valid {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(validation.MaxUploadSize); err != nil {
		h.logger.WarnContext(ctx, "invalid multipart upload", "error", err, "request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	file, header, err := r.FormFile("archivo")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "file field \"archivo\" is required"))
		return
	}
	defer file.Close()

	req := &UploadRequest{
		Title:       r.FormValue("titulo"),
		Type:        r.FormValue("tipoDocumento"),
		Context:     r.FormValue("contextoDocumento"),
		Description: r.FormValue("descripcion"),
		FileName:    header.Filename,
	}
	if err := httputil.PrepareRequest(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, validation.MaxUploadSize+1))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read uploaded file"))
		return
	}
	if len(content) > validation.MaxUploadSize {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "file exceeds maximum upload size"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	doc, err := h.service.Upload(ctx, folderID, req.toMetadata(contentType, r.Header.Get(ActorHeader)), content)
	if err != nil {
		h.logger.ErrorContext(ctx, "upload failed", "error", err, "request_id", requestID, "folder_id", folderID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, envelope("document uploaded", doc))
}

// HandleList serves ?cursor=&pageSize= listings.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID, valid := folderParam(w, r)
	if !valid {
		return
	}

	pageSize := 0
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "pageSize must be an integer"))
			return
		}
		pageSize = n
	}

	page, err := h.service.ListPaginated(ctx, folderID, r.URL.Query().Get("cursor"), pageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, envelope("documents listed", page))
}

func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID, documentID, valid := documentParams(w, r)
	if !valid {
		return
	}

	doc, err := h.service.Get(ctx, folderID, documentID, r.Header.Get(ActorHeader))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, envelope("document found", doc))
}

func (h *Handler) HandleDownloadURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID, documentID, valid := documentParams(w, r)
	if !valid {
		return
	}

	url, err := h.service.GenerateDownloadURL(ctx, folderID, documentID, r.Header.Get(ActorHeader))
	if err != nil {
		if !errors.Is(err, service.ErrNotDownloadable) {
			h.logger.ErrorContext(ctx, "download URL failed", "error", err, "request_id", middleware.GetRequestID(ctx))
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, envelope("download URL generated", &DownloadURLResponse{
		DocumentID: documentID,
		URL:        url,
	}))
}

func (h *Handler) HandleStartAuthentication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID, documentID, valid := documentParams(w, r)
	if !valid {
		return
	}

	doc, err := h.service.StartAuthentication(ctx, folderID, documentID, r.Header.Get(ActorHeader))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, envelope("authentication started", doc))
}

// HandleAccessHistory serves the folder's access history, ?limit= optional.
func (h *Handler) HandleAccessHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	folderID, valid := folderParam(w, r)
	if !valid {
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 0
	}

	records, err := h.service.AccessHistory(ctx, folderID, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, envelope("access history", records))
}

func folderParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	folderID, err := id.ParseFolderID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return folderID.String(), true
}

func documentParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	folderID, valid := folderParam(w, r)
	if !valid {
		return "", "", false
	}
	documentID, err := id.ParseDocumentID(chi.URLParam(r, "docId"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", "", false
	}
	return folderID, documentID.String(), true
}
