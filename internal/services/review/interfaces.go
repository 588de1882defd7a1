package reviewservice

import (
	"context"
	"io"
	"time"

	"docflow/internal/models"
)

type DocumentRepository interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	AppendRevision(ctx context.Context, rev *models.Revision) error
	RevisionByID(ctx context.Context, docID string, revID string) (*models.Revision, error)
	SubmitRevision(ctx context.Context, docID string, revID string, message string, at time.Time) (bool, error)
	ReviewRevision(ctx context.Context, docID string, revID string, reviewerID string, status string, comments string, at time.Time) (bool, error)
	PromoteRevision(ctx context.Context, docID string, revID string, contentRef string, at time.Time) error
	SubmittedRevisions(ctx context.Context, ownerID string, all bool) ([]*models.PendingReview, error)
}

type BlobStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

type Cache interface {
	Del(ctx context.Context, keys ...string) error
}

type Notifier interface {
	Notify(ctx context.Context, userID string, eventType string, message string, data map[string]string)
}
