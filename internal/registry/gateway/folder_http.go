package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"carpeta/internal/registry/tracer"
	"carpeta/pkg/platform/resilience"
)

// folderEnvelope is the folder service reply shape.
type folderEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		FolderID  string `json:"carpetaId"`
		Email     string `json:"emailCarpeta"`
		State     string `json:"estadoCarpeta"`
		CreatedAt string `json:"fechaCreacion"`
	} `json:"data"`
}

// FolderClient talks to a remote folder service.
type FolderClient struct {
	*httpCaller
}

// NewFolderClient creates a client for the folder service at baseURL guarded by policy.
func NewFolderClient(baseURL string, policy *resilience.Policy, opts ...Option) *FolderClient {
	return &FolderClient{httpCaller: newHTTPCaller(baseURL, policy, opts...)}
}

func (c *FolderClient) CreateFolder(ctx context.Context, req FolderRequest) FolderResponse {
	ctx, finish := c.span(ctx, tracer.SpanCreateFolder, req.CitizenID)
	resp := c.exchange(ctx, http.MethodPost, "/api/v1/carpetas", req)
	finish(resp.Response)
	return resp
}

func (c *FolderClient) FindByCitizen(ctx context.Context, citizenID string) FolderResponse {
	ctx, finish := c.span(ctx, tracer.SpanFindFolder, citizenID)
	resp := c.exchange(ctx, http.MethodGet, "/api/v1/carpetas/cedula/"+url.PathEscape(citizenID), nil)
	finish(resp.Response)
	return resp
}

func (c *FolderClient) exchange(ctx context.Context, method, path string, body any) FolderResponse {
	return resilience.Execute(ctx, c.policy, func(ctx context.Context) (FolderResponse, error) {
		status, payload, err := c.do(ctx, method, path, body)
		if err != nil {
			return FolderResponse{}, err
		}
		return decodeFolder(status, payload), nil
	}, func(err error) FolderResponse {
		c.logger.WarnContext(ctx, "folder call failed, using fallback",
			"method", method,
			"path", path,
			"error", err,
		)
		return FolderResponse{Response: Unavailable()}
	})
}

// decodeFolder accepts any 2xx with a success envelope carrying a folder ID.
func decodeFolder(status int, payload []byte) FolderResponse {
	out := FolderResponse{Response: Response{StatusCode: status}}
	var env folderEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		out.Message = strings.TrimSpace(string(payload))
		return out
	}
	out.Message = env.Message
	if env.Data != nil {
		out.FolderID = env.Data.FolderID
		out.Email = env.Data.Email
		out.State = env.Data.State
		out.CreatedAt = env.Data.CreatedAt
	}
	out.Success = status >= 200 && status < 300 && env.Success && out.FolderID != ""
	return out
}

var _ FolderProvisioner = (*FolderClient)(nil)
