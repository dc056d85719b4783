package handler

import (
	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"carpeta/internal/registry/service"
	dErrors "carpeta/pkg/domain-errors"
	"carpeta/pkg/platform/validation"
	strutil "carpeta/pkg/string"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service commands before processing.

type RegisterRequest struct {
	CitizenID    string `json:"id"`
	FullName     string `json:"name"`
	Address      string `json:"address"`
	Email        string `json:"email,omitempty"`
	OperatorID   string `json:"operatorId,omitempty"`
	OperatorName string `json:"operatorName,omitempty"`
}

func (r *RegisterRequest) Normalize() {
	if r == nil {
		return
	}
	strutil.TrimStrings(&r.CitizenID, &r.Address, &r.Email, &r.OperatorID, &r.OperatorName)
	r.FullName = strutil.CollapseSpaces(r.FullName)
}

func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Struct(r,
		ozzo.Field(&r.CitizenID, ozzo.Required, validation.CitizenID),
		ozzo.Field(&r.FullName, ozzo.Required, ozzo.Length(1, validation.MaxFullNameLength)),
		ozzo.Field(&r.Address, ozzo.Length(0, validation.MaxAddressLength)),
		ozzo.Field(&r.Email, validation.Email),
		ozzo.Field(&r.OperatorID, ozzo.Length(0, validation.MaxOperatorIDLength)),
		ozzo.Field(&r.OperatorName, ozzo.Length(0, validation.MaxFullNameLength)),
	)
}

func (r *RegisterRequest) toCommand() service.RegisterCommand {
	return service.RegisterCommand{
		CitizenID:    r.CitizenID,
		FullName:     r.FullName,
		Address:      r.Address,
		Email:        r.Email,
		OperatorID:   r.OperatorID,
		OperatorName: r.OperatorName,
	}
}

type DeregisterRequest struct {
	CitizenID    string `json:"id"`
	OperatorID   string `json:"operatorId,omitempty"`
	OperatorName string `json:"operatorName,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

func (r *DeregisterRequest) Normalize() {
	if r == nil {
		return
	}
	strutil.TrimStrings(&r.CitizenID, &r.OperatorID, &r.OperatorName, &r.Reason)
}

func (r *DeregisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Struct(r,
		ozzo.Field(&r.CitizenID, ozzo.Required, validation.CitizenID),
		ozzo.Field(&r.OperatorID, ozzo.Length(0, validation.MaxOperatorIDLength)),
		ozzo.Field(&r.OperatorName, ozzo.Length(0, validation.MaxFullNameLength)),
		ozzo.Field(&r.Reason, ozzo.Length(0, validation.MaxReasonLength)),
	)
}

func (r *DeregisterRequest) toCommand() service.DeregisterCommand {
	return service.DeregisterCommand{
		CitizenID:    r.CitizenID,
		OperatorID:   r.OperatorID,
		OperatorName: r.OperatorName,
		Reason:       r.Reason,
	}
}
