package reviews

import (
	"context"

	"docflow/internal/models"
	reviewservice "docflow/internal/services/review"
)

const pkg = "reviewsHandler/"

type EditSaver interface {
	SaveEdit(ctx context.Context, docID string, editor *models.User, params reviewservice.SaveEditParams) (*models.Revision, error)
}

type RevisionSubmitter interface {
	Submit(ctx context.Context, docID string, revID string, actor *models.User, message string) error
}

type Reviewer interface {
	Review(ctx context.Context, docID string, revID string, reviewer *models.User, action string, comments string) error
}

type PendingProvider interface {
	ListPendingReviews(ctx context.Context, reviewer *models.User) ([]*models.PendingReview, error)
}
