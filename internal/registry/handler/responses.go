package handler

import (
	"time"

	"carpeta/internal/audit"
	"carpeta/internal/registry/models"
	id "carpeta/pkg/domain"
)

type RegistrationListResponse struct {
	Registrations []*models.Registration `json:"registrations"`
	Total         int                    `json:"total"`
}

type AuditEntryResponse struct {
	Action          string    `json:"action"`
	OperatorID      string    `json:"operatorId"`
	OperatorName    string    `json:"operatorName,omitempty"`
	Success         bool      `json:"success"`
	ResponseCode    int       `json:"responseCode,omitempty"`
	ResponseMessage string    `json:"responseMessage,omitempty"`
	Detail          string    `json:"detail,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

type AuditHistoryResponse struct {
	CitizenID string               `json:"citizenId"`
	Entries   []AuditEntryResponse `json:"entries"`
}

func toAuditResponse(citizenID id.CitizenID, records []*audit.Record) *AuditHistoryResponse {
	entries := make([]AuditEntryResponse, 0, len(records))
	for _, r := range records {
		entries = append(entries, AuditEntryResponse{
			Action:          string(r.Action),
			OperatorID:      r.OperatorID,
			OperatorName:    r.OperatorName,
			Success:         r.Success,
			ResponseCode:    r.ResponseCode,
			ResponseMessage: r.ResponseMessage,
			Detail:          r.Detail,
			Timestamp:       r.Timestamp,
		})
	}
	return &AuditHistoryResponse{CitizenID: citizenID.String(), Entries: entries}
}
