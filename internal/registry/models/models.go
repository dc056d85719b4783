package models

import "time"

// State is the lifecycle state of a citizen registration.
type State string

const (
	StateUnregistered         State = "UNREGISTERED"
	StatePending              State = "PENDING"
	StateRegistered           State = "REGISTERED"
	StateRegisteredWithFolder State = "REGISTERED_WITH_FOLDER"
	StateDeregistered         State = "DEREGISTERED"
)

// Registration is the local record of a citizen onboarded with the external
// registry. It is keyed by citizen ID and never physically deleted.
type Registration struct {
	CitizenID            string     `json:"citizenId"`
	FullName             string     `json:"fullName"`
	Address              string     `json:"address"`
	Email                string     `json:"email"`
	OperatorID           string     `json:"operatorId"`
	OperatorName         string     `json:"operatorName"`
	FolderID             string     `json:"folderId,omitempty"`
	State                State      `json:"state"`
	Active               bool       `json:"active"`
	RegisteredAt         time.Time  `json:"registeredAt"`
	DeregisteredAt       *time.Time `json:"deregisteredAt,omitempty"`
	DeregistrationReason string     `json:"deregistrationReason,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// HasFolder reports whether a folder has been provisioned.
func (r *Registration) HasFolder() bool {
	return r.FolderID != ""
}

// AttachFolder stamps the provisioned folder.
func (r *Registration) AttachFolder(folderID string, now time.Time) {
	r.FolderID = folderID
	r.State = StateRegisteredWithFolder
	r.UpdatedAt = now
}

// Deregister moves the registration to its terminal state.
func (r *Registration) Deregister(reason string, now time.Time) {
	r.State = StateDeregistered
	r.Active = false
	r.DeregisteredAt = &now
	r.DeregistrationReason = reason
	r.UpdatedAt = now
}

// ValidationResult is the answer to "can this citizen register here?".
type ValidationResult struct {
	CitizenID    string `json:"citizenId"`
	Available    bool   `json:"available"`
	Message      string `json:"message"`
	ResponseCode int    `json:"responseCode"`
}
