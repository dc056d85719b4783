package handler

import (
	"time"

	"carpeta/internal/folder/models"
)

// Envelope wraps every folder API reply.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func envelope(message string, data any) *Envelope {
	return &Envelope{Success: true, Message: message, Data: data}
}

// FolderResponse mirrors the national folder API field names.
type FolderResponse struct {
	FolderID        string `json:"carpetaId"`
	CitizenID       string `json:"cedula"`
	OwnerName       string `json:"nombreCompleto"`
	Email           string `json:"emailCarpeta"`
	State           string `json:"estadoCarpeta"`
	CurrentOperator string `json:"operadorActual,omitempty"`
	UsedSpaceBytes  int64  `json:"espacioUtilizadoBytes"`
	CreatedAt       string `json:"fechaCreacion"`
}

func toFolderResponse(f *models.Folder) *FolderResponse {
	return &FolderResponse{
		FolderID:        f.ID,
		CitizenID:       f.OwnerCitizenID,
		OwnerName:       f.OwnerName,
		Email:           f.Email,
		State:           string(f.State),
		CurrentOperator: f.CurrentOperator,
		UsedSpaceBytes:  f.UsedSpaceBytes,
		CreatedAt:       f.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type DownloadURLResponse struct {
	DocumentID string `json:"documentId"`
	URL        string `json:"url"`
}
