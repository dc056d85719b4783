package models

import "time"

// FolderState is the lifecycle state of a citizen folder.
type FolderState string

const (
	FolderActive     FolderState = "ACTIVE"
	FolderSuspended  FolderState = "SUSPENDED"
	FolderInTransfer FolderState = "IN_TRANSFER"
)

// DocumentState tracks a document through authentication.
type DocumentState string

const (
	DocumentTemporary      DocumentState = "TEMPORARY"
	DocumentAuthenticating DocumentState = "AUTHENTICATING"
	DocumentCertified      DocumentState = "CERTIFIED"
	DocumentRejected       DocumentState = "REJECTED"
)

// ParseDocumentState accepts the four known states.
func ParseDocumentState(s string) (DocumentState, bool) {
	switch state := DocumentState(s); state {
	case DocumentTemporary, DocumentAuthenticating, DocumentCertified, DocumentRejected:
		return state, true
	}
	return "", false
}

// AccessKind classifies an access record.
type AccessKind string

const (
	AccessUpload      AccessKind = "UPLOAD"
	AccessView        AccessKind = "VIEW"
	AccessDownload    AccessKind = "DOWNLOAD"
	AccessAuthStart   AccessKind = "AUTH_START"
	AccessStateChange AccessKind = "STATE_CHANGE"
)

// AccessOutcome is the result recorded on an access record.
type AccessOutcome string

const (
	OutcomeSuccess AccessOutcome = "SUCCESS"
	OutcomeFailure AccessOutcome = "FAILURE"
	OutcomeDenied  AccessOutcome = "DENIED"
)

// Folder is a citizen's document folder. At most one exists per citizen.
type Folder struct {
	ID              string      `json:"folderId"`
	OwnerCitizenID  string      `json:"ownerCitizenId"`
	OwnerName       string      `json:"ownerName"`
	Email           string      `json:"email"`
	State           FolderState `json:"state"`
	CurrentOperator string      `json:"currentOperator"`
	UsedSpaceBytes  int64       `json:"usedSpaceBytes"`
	CreatedAt       time.Time   `json:"createdAt"`
	ModifiedAt      time.Time   `json:"modifiedAt"`
}

// AddUsage grows the used space after an upload.
func (f *Folder) AddUsage(bytes int64, now time.Time) {
	f.UsedSpaceBytes += bytes
	f.ModifiedAt = now
}

// Document is the metadata of a stored file. The bytes live in blob storage
// under Locator.
type Document struct {
	FolderID     string        `json:"folderId"`
	ID           string        `json:"documentId"`
	Title        string        `json:"title"`
	Type         string        `json:"type"`
	Context      string        `json:"context"`
	Description  string        `json:"description,omitempty"`
	Format       string        `json:"format"`
	FileName     string        `json:"fileName"`
	SizeBytes    int64         `json:"sizeBytes"`
	SHA256       string        `json:"sha256"`
	Locator      string        `json:"locator"`
	State        DocumentState `json:"state"`
	Downloadable bool          `json:"downloadable"`
	ReceivedAt   time.Time     `json:"receivedAt"`
	ModifiedAt   time.Time     `json:"modifiedAt"`
}

// AccessRecord is one entry of a folder's access history.
type AccessRecord struct {
	FolderID   string        `json:"folderId"`
	ID         string        `json:"accessId"`
	DocumentID string        `json:"documentId,omitempty"`
	Kind       AccessKind    `json:"kind"`
	Actor      string        `json:"actor"`
	Outcome    AccessOutcome `json:"outcome"`
	Reason     string        `json:"reason,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// UploadMetadata describes a document being uploaded.
type UploadMetadata struct {
	Title       string
	Type        string
	Context     string
	Description string
	FileName    string
	ContentType string
	Actor       string
}

// DocumentPage is one page of a cursor listing.
type DocumentPage struct {
	Items      []*Document `json:"items"`
	HasMore    bool        `json:"hasMore"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

// DocumentUploaded is announced on the bus after a successful upload.
type DocumentUploaded struct {
	DocumentID     string    `json:"documentId"`
	FolderID       string    `json:"folderId"`
	OwnerCitizenID string    `json:"ownerCitizenId"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	FileName       string    `json:"fileName"`
	Format         string    `json:"format"`
	SizeBytes      int64     `json:"sizeBytes"`
	SHA256         string    `json:"sha256"`
	UploadedAt     time.Time `json:"uploadedAt"`
}
