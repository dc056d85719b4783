// Package gateway holds the outbound clients of the registration saga: the
// external citizen registry and the folder provisioning service. Every call
// runs under a resilience.Policy, and a transport failure surfaces as a
// structured Response, never as an error.
package gateway

import (
	"context"
	"net/http"
	"slices"
)

// Dependency names used for per-dependency circuit breakers.
const (
	DependencyRegistry = "registry-api"
	DependencyFolder   = "folder-api"
)

// FallbackMessage is returned when a call is short-circuited or exhausted.
const FallbackMessage = "service temporarily unavailable"

// Response is the outcome of a registry call as reported by the downstream.
type Response struct {
	StatusCode int
	Success    bool
	Message    string
}

// Unavailable is the fallback response.
func Unavailable() Response {
	return Response{StatusCode: http.StatusServiceUnavailable, Message: FallbackMessage}
}

// IsFallback reports whether r was produced by the fallback path.
func (r Response) IsFallback() bool {
	return r.StatusCode == http.StatusServiceUnavailable && r.Message == FallbackMessage
}

// RegisterRequest is the payload of an external registration.
type RegisterRequest struct {
	CitizenID    string `json:"id"`
	FullName     string `json:"name"`
	Address      string `json:"address"`
	Email        string `json:"email"`
	OperatorID   string `json:"operatorId"`
	OperatorName string `json:"operatorName"`
}

// DeregisterRequest is the payload of an external deregistration.
type DeregisterRequest struct {
	CitizenID    string `json:"id"`
	OperatorID   string `json:"operatorId"`
	OperatorName string `json:"operatorName"`
}

// FolderRequest asks the provisioning service for a new folder.
type FolderRequest struct {
	CitizenID string `json:"cedula"`
	FullName  string `json:"nombreCompleto"`
	Operator  string `json:"operadorActual"`
}

// FolderResponse carries the provisioned folder when Success is set.
type FolderResponse struct {
	Response
	FolderID  string
	Email     string
	State     string
	CreatedAt string
}

// Registry is the port to the external citizen registry.
type Registry interface {
	Validate(ctx context.Context, citizenID string) Response
	Register(ctx context.Context, req RegisterRequest) Response
	Deregister(ctx context.Context, req DeregisterRequest) Response
}

// FolderProvisioner is the port to the folder service.
type FolderProvisioner interface {
	CreateFolder(ctx context.Context, req FolderRequest) FolderResponse
	// FindByCitizen returns the citizen's existing folder, if any.
	FindByCitizen(ctx context.Context, citizenID string) FolderResponse
}

type statusSet []int

func (s statusSet) has(code int) bool {
	return slices.Contains(s, code)
}

var (
	validateSuccess   = statusSet{http.StatusOK, http.StatusNoContent}
	registerSuccess   = statusSet{http.StatusCreated, http.StatusOK}
	deregisterSuccess = statusSet{http.StatusOK, http.StatusCreated, http.StatusNoContent}
)
