package handler

import (
	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"carpeta/internal/folder/models"
	"carpeta/internal/folder/service"
	dErrors "carpeta/pkg/domain-errors"
	"carpeta/pkg/platform/validation"
	strutil "carpeta/pkg/string"
)

// CreateFolderRequest uses the field names of the national folder API.
type CreateFolderRequest struct {
	CitizenID string `json:"cedula"`
	FullName  string `json:"nombreCompleto"`
	Operator  string `json:"operadorActual,omitempty"`
}

func (r *CreateFolderRequest) Normalize() {
	if r == nil {
		return
	}
	strutil.TrimStrings(&r.CitizenID, &r.Operator)
	r.FullName = strutil.CollapseSpaces(r.FullName)
}

func (r *CreateFolderRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Struct(r,
		ozzo.Field(&r.CitizenID, ozzo.Required, validation.CitizenID),
		ozzo.Field(&r.FullName, ozzo.Required, ozzo.Length(1, validation.MaxFullNameLength)),
		ozzo.Field(&r.Operator, ozzo.Length(0, validation.MaxOperatorIDLength)),
	)
}

func (r *CreateFolderRequest) toCommand() service.CreateFolderCommand {
	return service.CreateFolderCommand{
		CitizenID: r.CitizenID,
		FullName:  r.FullName,
		Operator:  r.Operator,
	}
}

// UploadRequest is built from the multipart form fields.
type UploadRequest struct {
	Title       string `json:"titulo"`
	Type        string `json:"tipoDocumento"`
	Context     string `json:"contextoDocumento"`
	Description string `json:"descripcion"`
	FileName    string `json:"fileName"`
}

func (r *UploadRequest) Normalize() {
	if r == nil {
		return
	}
	strutil.TrimStrings(&r.Title, &r.Type, &r.Context, &r.Description, &r.FileName)
}

func (r *UploadRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Struct(r,
		ozzo.Field(&r.Title, ozzo.Required, ozzo.Length(2, validation.MaxTitleLength)),
		ozzo.Field(&r.Type, ozzo.Required, ozzo.Length(2, validation.MaxDocTypeLength)),
		ozzo.Field(&r.Context, ozzo.Required, ozzo.Length(2, validation.MaxContextLength)),
		ozzo.Field(&r.Description, ozzo.Length(0, validation.MaxDescriptionLength)),
		ozzo.Field(&r.FileName, ozzo.Required, ozzo.Length(1, validation.MaxFileNameLength)),
	)
}

func (r *UploadRequest) toMetadata(contentType, actor string) models.UploadMetadata {
	return models.UploadMetadata{
		Title:       r.Title,
		Type:        r.Type,
		Context:     r.Context,
		Description: r.Description,
		FileName:    r.FileName,
		ContentType: contentType,
		Actor:       actor,
	}
}
