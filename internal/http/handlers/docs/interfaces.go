package docs

import (
	"context"
	"io"
	"time"

	"docflow/internal/models"
	lifecycleservice "docflow/internal/services/lifecycle"
)

const pkg = "docsHandler/"

type DocumentCreator interface {
	CreateDocument(ctx context.Context, owner *models.User, params lifecycleservice.CreateParams, content io.Reader) (*models.Document, error)
}

type DocumentUpdater interface {
	UpdateDocument(ctx context.Context, docID string, actor *models.User, params lifecycleservice.UpdateParams) error
}

type DocumentSharer interface {
	ShareWithUser(ctx context.Context, docID string, targetUserID string, actor *models.User, requestSignature bool) error
	ShareWithTeam(ctx context.Context, docID string, teamID string, actor *models.User, requestSignature bool) error
}

type DocumentDeleter interface {
	SoftDelete(ctx context.Context, docID string, actor *models.User) error
	HardDelete(ctx context.Context, docID string, actor *models.User) error
}

type DocumentSearcher interface {
	SearchAccessible(ctx context.Context, actor *models.User, term string) ([]*models.Document, error)
	DownloadURL(ctx context.Context, docID string, actor *models.User) (string, time.Duration, error)
}
