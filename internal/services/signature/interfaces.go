package signatureservice

import (
	"context"
	"io"

	"docflow/internal/models"
)

type DocumentRepository interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	AppendShared(ctx context.Context, docID string, userID string) (bool, error)
	AppendSigner(ctx context.Context, docID string, signerID string) (bool, error)
	RecordSignature(ctx context.Context, docID string, signerID string) (string, error)
	AddSignatureRecord(ctx context.Context, rec models.SignatureRecord) error
	PendingSignatures(ctx context.Context, signerID string) ([]*models.Document, error)
}

type DocumentIndex interface {
	AddReference(ctx context.Context, userID string, docID string) error
}

type BlobStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
}

type Cache interface {
	Del(ctx context.Context, keys ...string) error
}

type Notifier interface {
	Notify(ctx context.Context, userID string, eventType string, message string, data map[string]string)
}

type FailureCounter interface {
	DependencyFailure(component string)
}
