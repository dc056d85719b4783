package service

import (
	"context"
	"fmt"
	"net/http"

	"carpeta/internal/audit"
	"carpeta/internal/registry/gateway"
	"carpeta/internal/registry/models"
	"carpeta/pkg/domain"
	dErrors "carpeta/pkg/domain-errors"
)

const (
	msgAvailable         = "citizen available for registration"
	msgUnavailable       = "citizen not available for registration"
	msgAlreadyRegistered = "citizen already registered with this operator"
	msgInternalError     = "internal error"
)

// Validate reports whether the citizen can register. Gateway and store
// failures degrade to an unavailable result; only invalid input is an error.
func (s *Service) Validate(ctx context.Context, citizenID string) (result *models.ValidationResult, err error) {
	citizenID, err = requireCitizenID(citizenID)
	if err != nil {
		return nil, err
	}
	ctx, finish := s.startOperation(ctx, "validate", citizenID)
	defer func() { finish(err) }()

	existing, err := s.store.FindByCitizen(ctx, citizenID)
	switch {
	case err == nil && existing.Active:
		s.emit(ctx, audit.Record{
			CitizenID:       citizenID,
			Action:          audit.ActionValidation,
			ResponseCode:    http.StatusNoContent,
			ResponseMessage: msgAlreadyRegistered,
		})
		return &models.ValidationResult{
			CitizenID:    citizenID,
			Message:      msgAlreadyRegistered,
			ResponseCode: http.StatusNoContent,
		}, nil
	case err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound):
		s.logger.ErrorContext(ctx, "failed to load registration during validation",
			"error", err,
		)
		s.emit(ctx, audit.Record{
			CitizenID:       citizenID,
			Action:          audit.ActionValidationError,
			ResponseCode:    http.StatusInternalServerError,
			ResponseMessage: msgInternalError,
			Detail:          err.Error(),
		})
		return &models.ValidationResult{
			CitizenID:    citizenID,
			Message:      msgInternalError,
			ResponseCode: http.StatusInternalServerError,
		}, nil
	}

	resp := s.registry.Validate(ctx, citizenID)
	message := msgUnavailable
	if resp.Success {
		message = msgAvailable
	}
	s.emit(ctx, audit.Record{
		CitizenID:       citizenID,
		Action:          audit.ActionValidation,
		Success:         resp.Success,
		ResponseCode:    resp.StatusCode,
		ResponseMessage: resp.Message,
		Detail:          message,
	})
	return &models.ValidationResult{
		CitizenID:    citizenID,
		Available:    resp.Success,
		Message:      message,
		ResponseCode: resp.StatusCode,
	}, nil
}

// Register onboards the citizen with the external registry, records the
// registration locally and provisions the folder. A folder failure leaves the
// registration in REGISTERED so ProvisionFolder can finish it later.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (reg *models.Registration, err error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}
	if cmd.OperatorID == "" {
		cmd.OperatorID, cmd.OperatorName = s.cfg.SystemOperatorID, s.cfg.SystemOperatorName
	}
	if cmd.Email == "" {
		cmd.Email = domain.FolderEmail(cmd.FullName, domain.CitizenID(cmd.CitizenID))
	}
	ctx, finish := s.startOperation(ctx, "register", cmd.CitizenID)
	defer func() { finish(err) }()

	prior, err := s.store.FindByCitizen(ctx, cmd.CitizenID)
	switch {
	case err == nil && prior.Active:
		return nil, ErrAlreadyRegistered
	case err != nil && !dErrors.HasCode(err, dErrors.CodeNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}

	failure := audit.Record{
		CitizenID:    cmd.CitizenID,
		Action:       audit.ActionRegistrationError,
		OperatorID:   cmd.OperatorID,
		OperatorName: cmd.OperatorName,
	}

	resp := s.registry.Register(ctx, gateway.RegisterRequest{
		CitizenID:    cmd.CitizenID,
		FullName:     cmd.FullName,
		Address:      cmd.Address,
		Email:        cmd.Email,
		OperatorID:   cmd.OperatorID,
		OperatorName: cmd.OperatorName,
	})
	if !resp.Success {
		failure.ResponseCode = resp.StatusCode
		failure.ResponseMessage = resp.Message
		if resp.StatusCode == s.cfg.AlreadyRegisteredStatus {
			failure.Detail = "registry reports citizen already registered"
			s.emit(ctx, failure)
			return nil, ErrAlreadyRegistered
		}
		failure.Detail = "registry rejected registration"
		s.emit(ctx, failure)
		return nil, dErrors.NewExternal(gateway.DependencyRegistry, resp.StatusCode, fmt.Sprintf("citizen registry rejected registration: %s", resp.Message))
	}

	now := s.now()
	reg = &models.Registration{
		CitizenID:    cmd.CitizenID,
		FullName:     cmd.FullName,
		Address:      cmd.Address,
		Email:        cmd.Email,
		OperatorID:   cmd.OperatorID,
		OperatorName: cmd.OperatorName,
		State:        models.StateRegistered,
		Active:       true,
		RegisteredAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if prior == nil {
		err = s.store.Create(ctx, reg)
	} else {
		// A deactivated registration is replaced in place.
		reg.CreatedAt = prior.CreatedAt
		err = s.store.Save(ctx, reg)
	}
	if err != nil {
		failure.ResponseCode = resp.StatusCode
		failure.ResponseMessage = resp.Message
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			failure.Detail = "concurrent registration won the race"
			s.emit(ctx, failure)
			return nil, ErrAlreadyRegistered
		}
		s.logger.ErrorContext(ctx, "registered externally but failed to persist locally",
			"error", err,
		)
		failure.Detail = "failed to persist registration"
		s.emit(ctx, failure)
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to persist registration")
	}
	s.metrics.IncrementActive()

	s.emit(ctx, audit.Record{
		CitizenID:       cmd.CitizenID,
		Action:          audit.ActionRegistration,
		OperatorID:      cmd.OperatorID,
		OperatorName:    cmd.OperatorName,
		Success:         true,
		ResponseCode:    resp.StatusCode,
		ResponseMessage: resp.Message,
	})

	if err := s.provisionFolder(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// ProvisionFolder retries folder creation for a registration left without
// one. It is a no-op when a folder is already stamped.
func (s *Service) ProvisionFolder(ctx context.Context, citizenID string) (reg *models.Registration, err error) {
	citizenID, err = requireCitizenID(citizenID)
	if err != nil {
		return nil, err
	}
	ctx, finish := s.startOperation(ctx, "provision_folder", citizenID)
	defer func() { finish(err) }()

	reg, err = s.activeRegistration(ctx, citizenID)
	if err != nil {
		return nil, err
	}
	if reg.HasFolder() {
		return reg, nil
	}
	if err := s.provisionFolder(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *Service) provisionFolder(ctx context.Context, reg *models.Registration) error {
	resp := s.folders.CreateFolder(ctx, gateway.FolderRequest{
		CitizenID: reg.CitizenID,
		FullName:  reg.FullName,
		Operator:  s.cfg.SystemOperatorID,
	})
	if !resp.Success && resp.StatusCode == http.StatusConflict {
		// A folder from an earlier attempt exists; adopt it.
		if found := s.folders.FindByCitizen(ctx, reg.CitizenID); found.Success {
			resp = found
		}
	}

	failure := audit.Record{
		CitizenID:       reg.CitizenID,
		Action:          audit.ActionRegistrationError,
		ResponseCode:    resp.StatusCode,
		ResponseMessage: resp.Message,
	}
	if !resp.Success {
		s.metrics.IncrementFolderProvisioning("failure")
		s.logger.WarnContext(ctx, "folder provisioning failed",
			"status", resp.StatusCode,
			"message", resp.Message,
		)
		failure.Detail = "folder provisioning failed"
		s.emit(ctx, failure)
		return dErrors.NewExternal(gateway.DependencyFolder, resp.StatusCode, fmt.Sprintf("folder service failed: %s", resp.Message))
	}

	previous := *reg
	reg.AttachFolder(resp.FolderID, s.now())
	if err := s.store.Save(ctx, reg); err != nil {
		*reg = previous
		s.metrics.IncrementFolderProvisioning("failure")
		s.logger.ErrorContext(ctx, "folder created but registration not updated",
			"error", err,
			"folder_id", resp.FolderID,
		)
		failure.Detail = "failed to record folder " + resp.FolderID
		s.emit(ctx, failure)
		return dErrors.Wrap(err, dErrors.CodeStorage, "failed to record provisioned folder")
	}

	s.metrics.IncrementFolderProvisioning("success")
	s.emit(ctx, audit.Record{
		CitizenID:       reg.CitizenID,
		Action:          audit.ActionFolderCreation,
		Success:         true,
		ResponseCode:    resp.StatusCode,
		ResponseMessage: resp.Message,
		Detail:          "folder " + resp.FolderID,
	})
	return nil
}

// Deregister removes the citizen from the external registry and closes the
// local registration. A gateway failure leaves local state untouched.
func (s *Service) Deregister(ctx context.Context, cmd DeregisterCommand) (reg *models.Registration, err error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}
	ctx, finish := s.startOperation(ctx, "deregister", cmd.CitizenID)
	defer func() { finish(err) }()

	reg, err = s.activeRegistration(ctx, cmd.CitizenID)
	if err != nil {
		return nil, err
	}
	if cmd.OperatorID == "" {
		cmd.OperatorID, cmd.OperatorName = reg.OperatorID, reg.OperatorName
	}

	failure := audit.Record{
		CitizenID:    cmd.CitizenID,
		Action:       audit.ActionDeregisterError,
		OperatorID:   cmd.OperatorID,
		OperatorName: cmd.OperatorName,
	}

	resp := s.registry.Deregister(ctx, gateway.DeregisterRequest{
		CitizenID:    cmd.CitizenID,
		OperatorID:   cmd.OperatorID,
		OperatorName: cmd.OperatorName,
	})
	if !resp.Success {
		failure.ResponseCode = resp.StatusCode
		failure.ResponseMessage = resp.Message
		failure.Detail = "registry rejected deregistration"
		s.emit(ctx, failure)
		return nil, dErrors.NewExternal(gateway.DependencyRegistry, resp.StatusCode, fmt.Sprintf("citizen registry rejected deregistration: %s", resp.Message))
	}

	previous := *reg
	reg.Deregister(cmd.Reason, s.now())
	if err := s.store.Save(ctx, reg); err != nil {
		s.logger.ErrorContext(ctx, "deregistered externally but failed to persist locally",
			"error", err,
		)
		failure.ResponseCode = resp.StatusCode
		failure.ResponseMessage = resp.Message
		failure.Detail = "failed to persist deregistration"
		s.emit(ctx, failure)
		*reg = previous
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to persist deregistration")
	}
	s.metrics.DecrementActive()

	s.emit(ctx, audit.Record{
		CitizenID:       cmd.CitizenID,
		Action:          audit.ActionDeregistration,
		OperatorID:      cmd.OperatorID,
		OperatorName:    cmd.OperatorName,
		Success:         true,
		ResponseCode:    resp.StatusCode,
		ResponseMessage: resp.Message,
		Detail:          cmd.Reason,
	})
	return reg, nil
}

// Get returns the citizen's active registration.
func (s *Service) Get(ctx context.Context, citizenID string) (*models.Registration, error) {
	citizenID, err := requireCitizenID(citizenID)
	if err != nil {
		return nil, err
	}
	return s.activeRegistration(ctx, citizenID)
}

// ListByOperator returns the active registrations held by an operator.
func (s *Service) ListByOperator(ctx context.Context, operatorID string) ([]*models.Registration, error) {
	if operatorID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "operator ID is required")
	}
	regs, err := s.store.FindActiveByOperator(ctx, operatorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}
	return regs, nil
}

// AuditHistory returns the citizen's audit trail, most recent first.
func (s *Service) AuditHistory(ctx context.Context, citizenID string) ([]*audit.Record, error) {
	citizenID, err := requireCitizenID(citizenID)
	if err != nil {
		return nil, err
	}
	records, err := s.auditor.List(ctx, citizenID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit history")
	}
	return records, nil
}

func (s *Service) activeRegistration(ctx context.Context, citizenID string) (*models.Registration, error) {
	reg, err := s.store.FindByCitizen(ctx, citizenID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	if !reg.Active {
		return nil, ErrNotRegistered
	}
	return reg, nil
}

