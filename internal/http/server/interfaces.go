package server

import (
	"context"
	"io"
	"time"

	"docflow/internal/models"
	lifecycleservice "docflow/internal/services/lifecycle"
	reviewservice "docflow/internal/services/review"
)

type LifecycleService interface {
	CreateDocument(ctx context.Context, owner *models.User, params lifecycleservice.CreateParams, content io.Reader) (*models.Document, error)
	ShareWithUser(ctx context.Context, docID string, targetUserID string, actor *models.User, requestSignature bool) error
	ShareWithTeam(ctx context.Context, docID string, teamID string, actor *models.User, requestSignature bool) error
	UpdateDocument(ctx context.Context, docID string, actor *models.User, params lifecycleservice.UpdateParams) error
	SoftDelete(ctx context.Context, docID string, actor *models.User) error
	HardDelete(ctx context.Context, docID string, actor *models.User) error
	SearchAccessible(ctx context.Context, actor *models.User, term string) ([]*models.Document, error)
	DownloadURL(ctx context.Context, docID string, actor *models.User) (string, time.Duration, error)
}

type SignatureService interface {
	RequestSignatures(ctx context.Context, docID string, requester *models.User, signerIDs []string) error
	Sign(ctx context.Context, docID string, signer *models.User, attachment io.Reader, size int64, mime string) (string, error)
	PendingForSigner(ctx context.Context, signer *models.User) ([]*models.Document, error)
}

type ReviewService interface {
	SaveEdit(ctx context.Context, docID string, editor *models.User, params reviewservice.SaveEditParams) (*models.Revision, error)
	Submit(ctx context.Context, docID string, revID string, actor *models.User, message string) error
	Review(ctx context.Context, docID string, revID string, reviewer *models.User, action string, comments string) error
	ListPendingReviews(ctx context.Context, reviewer *models.User) ([]*models.PendingReview, error)
}

type NotificationService interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
}

type ActorResolver interface {
	ActorByToken(ctx context.Context, token string) (*models.User, error)
}
