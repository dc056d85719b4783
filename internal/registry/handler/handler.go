package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carpeta/internal/audit"
	"carpeta/internal/platform/middleware"
	"carpeta/internal/registry/models"
	"carpeta/internal/registry/service"
	id "carpeta/pkg/domain"
	dErrors "carpeta/pkg/domain-errors"
	"carpeta/pkg/platform/httputil"
)

// Service defines the registration operations exposed over HTTP.
type Service interface {
	Validate(ctx context.Context, citizenID string) (*models.ValidationResult, error)
	Register(ctx context.Context, cmd service.RegisterCommand) (*models.Registration, error)
	Deregister(ctx context.Context, cmd service.DeregisterCommand) (*models.Registration, error)
	ProvisionFolder(ctx context.Context, citizenID string) (*models.Registration, error)
	Get(ctx context.Context, citizenID string) (*models.Registration, error)
	ListByOperator(ctx context.Context, operatorID string) ([]*models.Registration, error)
	AuditHistory(ctx context.Context, citizenID string) ([]*audit.Record, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1/citizens", func(r chi.Router) {
		r.Post("/", h.HandleRegister)
		r.Delete("/", h.HandleDeregister)
		r.Get("/", h.HandleListByOperator)
		r.Get("/{id}", h.HandleGet)
		r.Get("/{id}/validate", h.HandleValidate)
		r.Get("/{id}/audit", h.HandleAuditHistory)
		r.Post("/{id}/folder", h.HandleProvisionFolder)
	})
}

// HandleValidate reports whether the citizen can register. Downstream
// failures come back as an unavailable result, not as an error status.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	citizenID, ok := h.citizenParam(w, r)
	if !ok {
		return
	}

	result, err := h.service.Validate(ctx, citizenID.String())
	if err != nil {
		h.logger.ErrorContext(ctx, "validate citizen failed", "error", err, "request_id", middleware.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleRegister runs the registration saga.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reg, err := h.service.Register(ctx, req.toCommand())
	if err != nil {
		h.logger.WarnContext(ctx, "register citizen failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, reg)
}

// HandleDeregister closes the citizen's registration.
func (h *Handler) HandleDeregister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DeregisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reg, err := h.service.Deregister(ctx, req.toCommand())
	if err != nil {
		h.logger.WarnContext(ctx, "deregister citizen failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	citizenID, ok := h.citizenParam(w, r)
	if !ok {
		return
	}

	reg, err := h.service.Get(ctx, citizenID.String())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reg)
}

// HandleListByOperator lists active registrations held by ?operatorId=.
func (h *Handler) HandleListByOperator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	operatorID := r.URL.Query().Get("operatorId")
	if operatorID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "operatorId query parameter is required"))
		return
	}

	regs, err := h.service.ListByOperator(ctx, operatorID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list registrations failed", "error", err, "request_id", middleware.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &RegistrationListResponse{
		Registrations: regs,
		Total:         len(regs),
	})
}

func (h *Handler) HandleAuditHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	citizenID, ok := h.citizenParam(w, r)
	if !ok {
		return
	}

	records, err := h.service.AuditHistory(ctx, citizenID.String())
	if err != nil {
		h.logger.ErrorContext(ctx, "load audit history failed", "error", err, "request_id", middleware.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toAuditResponse(citizenID, records))
}

// HandleProvisionFolder retries folder creation for a registration left
// without a folder.
func (h *Handler) HandleProvisionFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	citizenID, ok := h.citizenParam(w, r)
	if !ok {
		return
	}

	reg, err := h.service.ProvisionFolder(ctx, citizenID.String())
	if err != nil {
		h.logger.WarnContext(ctx, "provision folder failed", "error", err, "request_id", middleware.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) citizenParam(w http.ResponseWriter, r *http.Request) (id.CitizenID, bool) {
	citizenID, err := id.ParseCitizenID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return citizenID, true
}
