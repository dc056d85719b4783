package audit

import "time"

// Action classifies an audit record.
type Action string

const (
	ActionValidation        Action = "VALIDACION_CIUDADANO"
	ActionRegistration      Action = "REGISTRO_CIUDADANO"
	ActionDeregistration    Action = "DESREGISTRO_CIUDADANO"
	ActionFolderCreation    Action = "CREACION_CARPETA"
	ActionValidationError   Action = "ERROR_VALIDACION"
	ActionRegistrationError Action = "ERROR_REGISTRO"
	ActionDeregisterError   Action = "ERROR_DESREGISTRO"
)

// SystemActor is recorded when no operator initiated the action.
const SystemActor = "SYSTEM"

// Record is one append-only entry of a citizen's trail. Records are never
// updated after they are written.
type Record struct {
	CitizenID       string    `json:"citizenId"`
	SortKey         string    `json:"sortKey"`
	Action          Action    `json:"action"`
	OperatorID      string    `json:"operatorId"`
	OperatorName    string    `json:"operatorName,omitempty"`
	Success         bool      `json:"success"`
	ResponseCode    int       `json:"responseCode"`
	ResponseMessage string    `json:"responseMessage,omitempty"`
	Detail          string    `json:"detail,omitempty"`
	RequestID       string    `json:"requestId,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
