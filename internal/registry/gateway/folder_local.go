package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"carpeta/internal/folder/models"
	"carpeta/internal/folder/service"
	dErrors "carpeta/pkg/domain-errors"
	"carpeta/pkg/platform/resilience"
)

// FolderService is the in-process folder service.
type FolderService interface {
	CreateFolder(ctx context.Context, cmd service.CreateFolderCommand) (*models.Folder, error)
	FindFolderByCitizen(ctx context.Context, citizenID string) (*models.Folder, error)
}

// LocalFolders provisions folders in the same process, answering with the
// statuses the remote folder API would. Calls run under the same policy as
// the remote client: storage failures are retried and counted by the breaker,
// domain answers (conflict, not found, invalid input) are not.
type LocalFolders struct {
	folders FolderService
	policy  *resilience.Policy
	logger  *slog.Logger
}

func NewLocalFolders(folders FolderService, policy *resilience.Policy) *LocalFolders {
	return &LocalFolders{folders: folders, policy: policy, logger: slog.Default()}
}

func (l *LocalFolders) CreateFolder(ctx context.Context, req FolderRequest) FolderResponse {
	return l.guard(ctx, "create", func(ctx context.Context) (*models.Folder, int, error) {
		folder, err := l.folders.CreateFolder(ctx, service.CreateFolderCommand{
			CitizenID: req.CitizenID,
			FullName:  req.FullName,
			Operator:  req.Operator,
		})
		return folder, http.StatusCreated, err
	})
}

func (l *LocalFolders) FindByCitizen(ctx context.Context, citizenID string) FolderResponse {
	return l.guard(ctx, "find", func(ctx context.Context) (*models.Folder, int, error) {
		folder, err := l.folders.FindFolderByCitizen(ctx, citizenID)
		return folder, http.StatusOK, err
	})
}

func (l *LocalFolders) guard(ctx context.Context, op string, call func(context.Context) (*models.Folder, int, error)) FolderResponse {
	return resilience.Execute(ctx, l.policy, func(ctx context.Context) (FolderResponse, error) {
		folder, status, err := call(ctx)
		if err == nil {
			return folderSuccess(status, folder), nil
		}
		resp := folderFailure(err)
		if resp.StatusCode >= http.StatusInternalServerError {
			return FolderResponse{}, err
		}
		return resp, nil
	}, func(err error) FolderResponse {
		l.logger.WarnContext(ctx, "in-process folder call failed, using fallback",
			"operation", op,
			"error", err,
		)
		return FolderResponse{Response: Unavailable()}
	})
}

func folderSuccess(status int, folder *models.Folder) FolderResponse {
	return FolderResponse{
		Response:  Response{StatusCode: status, Success: true},
		FolderID:  folder.ID,
		Email:     folder.Email,
		State:     string(folder.State),
		CreatedAt: folder.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func folderFailure(err error) FolderResponse {
	status := http.StatusInternalServerError
	switch dErrors.CodeOf(err) {
	case dErrors.CodeConflict:
		status = http.StatusConflict
	case dErrors.CodeNotFound:
		status = http.StatusNotFound
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		status = http.StatusBadRequest
	}
	return FolderResponse{Response: Response{StatusCode: status, Message: err.Error()}}
}

var _ FolderProvisioner = (*LocalFolders)(nil)
