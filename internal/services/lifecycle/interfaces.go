package lifecycleservice

import (
	"context"
	"io"
	"time"

	"docflow/internal/models"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	UpdateMeta(ctx context.Context, id string, contentRef, docType, filename *string) (bool, error)
	SetDeleted(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	AppendShared(ctx context.Context, docID string, userID string) (bool, error)
	AppendSigner(ctx context.Context, docID string, signerID string) (bool, error)
	SearchAccessible(ctx context.Context, userID string, term string, limit int) ([]*models.Document, error)
	RevisionsByDocument(ctx context.Context, docID string) ([]models.Revision, error)
	SignatureRecords(ctx context.Context, docID string) ([]models.SignatureRecord, error)
}

type DocumentIndex interface {
	AddReference(ctx context.Context, userID string, docID string) error
	RemoveReference(ctx context.Context, userID string, docID string) error
	RemoveAllReferences(ctx context.Context, docID string) error
	UsersReferencing(ctx context.Context, docID string) ([]string, error)
}

type TeamDirectory interface {
	TeamByID(ctx context.Context, teamID string) (*models.Team, error)
}

type BlobStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	PresignGet(ctx context.Context, ref string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, ref string) error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}

type Notifier interface {
	Notify(ctx context.Context, userID string, eventType string, message string, data map[string]string)
}

type FailureCounter interface {
	DependencyFailure(component string)
}
