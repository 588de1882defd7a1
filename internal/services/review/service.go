package reviewservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"docflow/internal/models"

	uuid "github.com/satori/go.uuid"
)

const pkg = "reviewService/"

type SaveEditParams struct {
	Content     io.Reader
	Size        int64
	Mime        string
	Annotations string
	Comments    string
}

// Service runs the per-revision review cycle: draft on save, submitted on
// submit, then a one-shot approve or reject. Approval promotes the revision's
// content to be the document's current content.
type Service struct {
	log      *slog.Logger
	docRepo  DocumentRepository
	blobs    BlobStorage
	cache    Cache
	notifier Notifier
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	blobs BlobStorage,
	cache Cache,
	notifier Notifier,
) *Service {
	return &Service{
		log:      log,
		docRepo:  docRepo,
		blobs:    blobs,
		cache:    cache,
		notifier: notifier,
	}
}

// SaveEdit appends a new draft revision. The document's current content is
// untouched until the revision is approved.
func (s *Service) SaveEdit(ctx context.Context, docID string, editor *models.User, params SaveEditParams) (*models.Revision, error) {
	op := pkg + "SaveEdit"

	log := s.log.With(slog.String("op", op))

	if params.Content == nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := s.liveDocumentByID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !doc.HasReadAccess(editor) {
		log.Warn("editor has no access to document",
			slog.String("doc_id", docID), slog.String("editor_id", editor.ID))
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	key := filepath.ToSlash(filepath.Join("revisions", docID, uuid.NewV4().String()+filepath.Ext(doc.Filename)))

	contentRef, err := s.blobs.Put(ctx, key, params.Content, params.Size, params.Mime)
	if err != nil {
		log.Error("failed to store revision content", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrDependencyFailed)
	}

	rev := &models.Revision{
		ID:          uuid.NewV4().String(),
		DocumentID:  docID,
		ContentRef:  contentRef,
		EditedBy:    editor.ID,
		Annotations: params.Annotations,
		Comments:    params.Comments,
		Status:      models.RevisionDraft,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.docRepo.AppendRevision(ctx, rev); err != nil {
		log.Error("failed to append revision", slog.String("error", err.Error()))
		if delErr := s.blobs.Delete(ctx, contentRef); delErr != nil {
			log.Error("failed to roll back revision content", slog.String("error", delErr.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("revision saved", slog.String("doc_id", docID),
		slog.String("revision_id", rev.ID), slog.String("editor_id", editor.ID))

	return rev, nil
}

// Submit moves a draft revision into review and notifies the document owner.
func (s *Service) Submit(ctx context.Context, docID string, revID string, actor *models.User, message string) error {
	op := pkg + "Submit"

	log := s.log.With(slog.String("op", op))

	doc, err := s.liveDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rev, err := s.revisionByID(ctx, docID, revID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rev.EditedBy != actor.ID && !actor.IsAdmin() {
		log.Warn("actor not permitted to submit revision",
			slog.String("revision_id", revID), slog.String("actor_id", actor.ID))
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	if rev.Status != models.RevisionDraft {
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}

	applied, err := s.docRepo.SubmitRevision(ctx, docID, revID, message, time.Now().UTC())
	if err != nil {
		log.Error("failed to submit revision", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}
	if !applied {
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}

	s.notifier.Notify(ctx, doc.OwnerID, models.NotifyRevisionSubmitted,
		fmt.Sprintf("a revision of %q was submitted for review", doc.Filename),
		map[string]string{"document_id": docID, "revision_id": revID})

	log.Debug("revision submitted", slog.String("doc_id", docID), slog.String("revision_id", revID))

	return nil
}

// Review approves or rejects a submitted revision. Approve additionally
// promotes the revision's content reference to be the document's current
// content; the revision write happens first and a failure there aborts the
// promotion. Both outcomes notify the editor.
func (s *Service) Review(ctx context.Context, docID string, revID string, reviewer *models.User, action string, comments string) error {
	op := pkg + "Review"

	log := s.log.With(slog.String("op", op))

	if action != models.ReviewApprove && action != models.ReviewReject {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	if action == models.ReviewReject && comments == "" {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := s.liveDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !doc.HasManageAccess(reviewer) {
		log.Warn("reviewer not permitted",
			slog.String("doc_id", docID), slog.String("reviewer_id", reviewer.ID))
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	rev, err := s.revisionByID(ctx, docID, revID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rev.Status != models.RevisionSubmitted {
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}

	newStatus := models.RevisionApproved
	if action == models.ReviewReject {
		newStatus = models.RevisionRejected
	}

	now := time.Now().UTC()

	applied, err := s.docRepo.ReviewRevision(ctx, docID, revID, reviewer.ID, newStatus, comments, now)
	if err != nil {
		log.Error("failed to record review", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}
	if !applied {
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}

	if action == models.ReviewApprove {
		if err := s.docRepo.PromoteRevision(ctx, docID, revID, rev.ContentRef, now); err != nil {
			log.Error("failed to promote revision content", slog.String("error", err.Error()))
			return fmt.Errorf("%s: %w", op, models.ErrInternal)
		}
	}

	if err := s.cache.Del(ctx, docID); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	s.notifier.Notify(ctx, rev.EditedBy, models.NotifyRevisionReviewed,
		fmt.Sprintf("your revision of %q was %s", doc.Filename, newStatus),
		map[string]string{"document_id": docID, "revision_id": revID, "outcome": newStatus})

	log.Debug("revision reviewed", slog.String("doc_id", docID),
		slog.String("revision_id", revID), slog.String("outcome", newStatus))

	return nil
}

// ListPendingReviews returns the submitted revisions awaiting the reviewer,
// across all live documents for an admin.
func (s *Service) ListPendingReviews(ctx context.Context, reviewer *models.User) ([]*models.PendingReview, error) {
	op := pkg + "ListPendingReviews"

	log := s.log.With(slog.String("op", op))

	pending, err := s.docRepo.SubmittedRevisions(ctx, reviewer.ID, reviewer.IsAdmin())
	if err != nil {
		log.Error("failed to list pending reviews", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return pending, nil
}

func (s *Service) liveDocumentByID(ctx context.Context, docID string) (*models.Document, error) {
	log := s.log.With(slog.String("op", pkg+"liveDocumentByID"))

	doc, err := s.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if doc.IsDeleted {
		return nil, models.ErrDocumentNotFound
	}

	return doc, nil
}

func (s *Service) revisionByID(ctx context.Context, docID string, revID string) (*models.Revision, error) {
	log := s.log.With(slog.String("op", pkg+"revisionByID"))

	rev, err := s.docRepo.RevisionByID(ctx, docID, revID)
	if err != nil {
		if errors.Is(err, models.ErrRevisionNotFound) {
			log.Warn("revision not found",
				slog.String("doc_id", docID), slog.String("revision_id", revID))
			return nil, models.ErrRevisionNotFound
		}
		log.Error("failed to get revision", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return rev, nil
}
