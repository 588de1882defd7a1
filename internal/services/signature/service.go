package signatureservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"docflow/internal/models"

	uuid "github.com/satori/go.uuid"
)

const pkg = "signatureService/"

// Service tracks the roster of required signers per document and records
// per-signer consent. The roster only ever grows; the signing status flips to
// completed exactly when the roster is fully satisfied.
type Service struct {
	log      *slog.Logger
	docRepo  DocumentRepository
	index    DocumentIndex
	blobs    BlobStorage
	cache    Cache
	notifier Notifier
	failures FailureCounter
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	index DocumentIndex,
	blobs BlobStorage,
	cache Cache,
	notifier Notifier,
	failures FailureCounter,
) *Service {
	return &Service{
		log:      log,
		docRepo:  docRepo,
		index:    index,
		blobs:    blobs,
		cache:    cache,
		notifier: notifier,
		failures: failures,
	}
}

// RequestSignatures unions signerIDs into the document's roster, grants each
// new signer read access and notifies them. Re-requesting a signer already on
// the roster is a no-op for that signer.
func (s *Service) RequestSignatures(ctx context.Context, docID string, requester *models.User, signerIDs []string) error {
	op := pkg + "RequestSignatures"

	log := s.log.With(slog.String("op", op))

	signerIDs = dedup(signerIDs)
	if len(signerIDs) == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := s.liveDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !doc.HasManageAccess(requester) {
		log.Warn("requester not permitted to request signatures",
			slog.String("doc_id", docID), slog.String("actor_id", requester.ID))
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	for _, signerID := range signerIDs {
		added, err := s.docRepo.AppendSigner(ctx, docID, signerID)
		if err != nil {
			log.Error("failed to add signer to roster",
				slog.String("signer_id", signerID), slog.String("error", err.Error()))
			return fmt.Errorf("%s: %w", op, models.ErrInternal)
		}
		if !added {
			continue
		}

		if _, err := s.docRepo.AppendShared(ctx, docID, signerID); err != nil {
			log.Error("failed to grant signer read access",
				slog.String("signer_id", signerID), slog.String("error", err.Error()))
			return fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		if err := s.index.AddReference(ctx, signerID, docID); err != nil {
			log.Error("failed to add signer index reference",
				slog.String("signer_id", signerID), slog.String("error", err.Error()))
			s.failures.DependencyFailure("user_index")
		}

		s.notifier.Notify(ctx, signerID, models.NotifySignatureRequest,
			fmt.Sprintf("your signature is requested on %q", doc.Filename),
			map[string]string{"document_id": docID})
	}

	if err := s.cache.Del(ctx, docID); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("signatures requested", slog.String("doc_id", docID),
		slog.Int("signers", len(signerIDs)))

	return nil
}

// Sign records one signer's consent. The signed-by append is a single guarded
// store update, so a duplicate attempt, concurrent or not, fails with a
// conflict while signatures from distinct signers never overwrite each other.
// The returned status is the roster state after this signature.
func (s *Service) Sign(ctx context.Context, docID string, signer *models.User, attachment io.Reader, size int64, mime string) (string, error) {
	op := pkg + "Sign"

	log := s.log.With(slog.String("op", op))

	doc, err := s.liveDocumentByID(ctx, docID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !slices.Contains(doc.SignersRequired, signer.ID) {
		log.Warn("signer not on roster",
			slog.String("doc_id", docID), slog.String("signer_id", signer.ID))
		return "", fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	if slices.Contains(doc.SignedBy, signer.ID) {
		return "", fmt.Errorf("%s: %w", op, models.ErrConflict)
	}

	var attachmentRef string

	if attachment != nil {
		key := filepath.ToSlash(filepath.Join("signatures", docID, uuid.NewV4().String()))

		attachmentRef, err = s.blobs.Put(ctx, key, attachment, size, mime)
		if err != nil {
			log.Error("failed to store signature image", slog.String("error", err.Error()))
			return "", fmt.Errorf("%s: %w", op, models.ErrDependencyFailed)
		}
	}

	status, err := s.docRepo.RecordSignature(ctx, docID, signer.ID)
	if err != nil {
		if errors.Is(err, models.ErrNoRows) {
			// The guard lost to a concurrent duplicate of the same signer.
			return "", fmt.Errorf("%s: %w", op, models.ErrConflict)
		}
		log.Error("failed to record signature", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if attachmentRef != "" {
		rec := models.SignatureRecord{
			DocumentID: docID,
			SignerID:   signer.ID,
			BlobRef:    attachmentRef,
			SignedAt:   time.Now().UTC(),
		}
		if err := s.docRepo.AddSignatureRecord(ctx, rec); err != nil {
			log.Error("failed to store signature record", slog.String("error", err.Error()))
			s.failures.DependencyFailure("signature_record")
		}
	}

	if err := s.cache.Del(ctx, docID); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	s.notifier.Notify(ctx, doc.OwnerID, models.NotifyDocumentSigned,
		fmt.Sprintf("%s signed %q", signer.Login, doc.Filename),
		map[string]string{"document_id": docID, "signer_id": signer.ID})

	// The guard proves this signer was absent before, so a completed status
	// here fires exactly once per roster completion.
	if status == models.SigningCompleted {
		s.notifier.Notify(ctx, doc.OwnerID, models.NotifySignaturesCollected,
			fmt.Sprintf("all signatures collected for %q", doc.Filename),
			map[string]string{"document_id": docID})
	}

	log.Debug("document signed", slog.String("doc_id", docID),
		slog.String("signer_id", signer.ID), slog.String("signing_status", status))

	return status, nil
}

// PendingForSigner lists the live documents still waiting on the signer.
func (s *Service) PendingForSigner(ctx context.Context, signer *models.User) ([]*models.Document, error) {
	op := pkg + "PendingForSigner"

	log := s.log.With(slog.String("op", op))

	docs, err := s.docRepo.PendingSignatures(ctx, signer.ID)
	if err != nil {
		log.Error("failed to list pending signatures", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return docs, nil
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

func dedup(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	return out
}
