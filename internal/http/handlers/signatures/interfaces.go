package signatures

import (
	"context"
	"io"

	"docflow/internal/models"
)

const pkg = "signaturesHandler/"

type SignatureRequester interface {
	RequestSignatures(ctx context.Context, docID string, requester *models.User, signerIDs []string) error
}

type Signer interface {
	Sign(ctx context.Context, docID string, signer *models.User, attachment io.Reader, size int64, mime string) (string, error)
}

type PendingProvider interface {
	PendingForSigner(ctx context.Context, signer *models.User) ([]*models.Document, error)
}
