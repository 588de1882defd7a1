package lifecycleservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"docflow/internal/models"

	uuid "github.com/satori/go.uuid"
)

const pkg = "lifecycleService/"

const searchLimit = 10

type CreateParams struct {
	Filename         string
	DocType          string
	Mime             string
	Size             int64
	RequireSignature bool
	Signers          []string
}

type UpdateParams struct {
	NewContent  io.Reader
	Size        int64
	Mime        string
	NewFilename string
	NewDocType  string
}

// Service owns the document state machine: upload, share, update, delete and
// search. The document record is the strictly consistent primary; per-user
// index entries, notifications and blob cleanup are best-effort fan-out.
type Service struct {
	log      *slog.Logger
	docRepo  DocumentRepository
	index    DocumentIndex
	teams    TeamDirectory
	blobs    BlobStorage
	cache    Cache
	notifier Notifier
	failures FailureCounter
	urlTTL   time.Duration
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	index DocumentIndex,
	teams TeamDirectory,
	blobs BlobStorage,
	cache Cache,
	notifier Notifier,
	failures FailureCounter,
	urlTTL time.Duration,
) *Service {
	return &Service{
		log:      log,
		docRepo:  docRepo,
		index:    index,
		teams:    teams,
		blobs:    blobs,
		cache:    cache,
		notifier: notifier,
		failures: failures,
		urlTTL:   urlTTL,
	}
}

func (s *Service) CreateDocument(ctx context.Context, owner *models.User, params CreateParams, content io.Reader) (*models.Document, error) {
	op := pkg + "CreateDocument"

	log := s.log.With(slog.String("op", op))

	if content == nil || params.Filename == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	key := filepath.ToSlash(filepath.Join("documents", uuid.NewV4().String()+filepath.Ext(params.Filename)))

	blobRef, err := s.blobs.Put(ctx, key, content, params.Size, params.Mime)
	if err != nil {
		log.Error("failed to store content", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrDependencyFailed)
	}

	now := time.Now().UTC()

	signingStatus := models.SigningNotRequired
	if params.RequireSignature {
		signingStatus = models.SigningPending
	}

	signers := dedup(params.Signers)

	doc := &models.Document{
		ID:                uuid.NewV4().String(),
		OwnerID:           owner.ID,
		Filename:          params.Filename,
		DocType:           params.DocType,
		ContentRef:        blobRef,
		SharedWith:        signers,
		RequiresSignature: params.RequireSignature,
		SignersRequired:   signers,
		SignedBy:          []string{},
		SigningStatus:     signingStatus,
		Status:            models.DocumentActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if !params.RequireSignature {
		doc.SignersRequired = []string{}
		doc.SharedWith = []string{}
	}

	if err := s.docRepo.CreateDocument(ctx, doc); err != nil {
		log.Error("failed to save document record", slog.String("error", err.Error()))
		if delErr := s.blobs.Delete(ctx, blobRef); delErr != nil {
			log.Error("failed to roll back stored content", slog.String("error", delErr.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := s.index.AddReference(ctx, owner.ID, doc.ID); err != nil {
		log.Error("failed to register owner index reference", slog.String("error", err.Error()))
		s.failures.DependencyFailure("user_index")
	}

	for _, signerID := range doc.SignersRequired {
		if err := s.index.AddReference(ctx, signerID, doc.ID); err != nil {
			log.Error("failed to register signer index reference",
				slog.String("signer_id", signerID), slog.String("error", err.Error()))
			s.failures.DependencyFailure("user_index")
			continue
		}
	}

	s.notifier.Notify(ctx, owner.ID, models.NotifyDocumentUpload,
		fmt.Sprintf("document %q uploaded", doc.Filename),
		map[string]string{"document_id": doc.ID})

	for _, signerID := range doc.SignersRequired {
		s.notifier.Notify(ctx, signerID, models.NotifySignatureRequest,
			fmt.Sprintf("your signature is requested on %q", doc.Filename),
			map[string]string{"document_id": doc.ID})
	}

	log.Debug("document created", slog.String("doc_id", doc.ID), slog.String("owner_id", owner.ID))

	return doc, nil
}

func (s *Service) ShareWithUser(ctx context.Context, docID string, targetUserID string, actor *models.User, requestSignature bool) error {
	op := pkg + "ShareWithUser"

	log := s.log.With(slog.String("op", op))

	if targetUserID == "" {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := s.liveDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !canShare(doc, actor, requestSignature) {
		log.Warn("actor not permitted to share",
			slog.String("doc_id", docID), slog.String("actor_id", actor.ID))
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	if err := s.shareMember(ctx, doc, targetUserID, requestSignature); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Del(ctx, doc.ID); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("document shared", slog.String("doc_id", docID),
		slog.String("target_id", targetUserID), slog.Bool("signature_requested", requestSignature))

	return nil
}

func (s *Service) ShareWithTeam(ctx context.Context, docID string, teamID string, actor *models.User, requestSignature bool) error {
	op := pkg + "ShareWithTeam"

	log := s.log.With(slog.String("op", op))

	doc, err := s.liveDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	team, err := s.teams.TeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, models.ErrTeamNotFound) {
			return fmt.Errorf("%s: %w", op, models.ErrTeamNotFound)
		}
		log.Error("failed to resolve team", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if team.IsDeleted {
		return fmt.Errorf("%s: %w", op, models.ErrTeamNotFound)
	}

	if len(team.Members) == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNoMembers)
	}

	if !canShare(doc, actor, requestSignature) {
		log.Warn("actor not permitted to share with team",
			slog.String("doc_id", docID), slog.String("actor_id", actor.ID))
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	// Best-effort fan-out: one member failing must not abort the rest.
	for _, memberID := range team.Members {
		if err := s.shareMember(ctx, doc, memberID, requestSignature); err != nil {
			log.Error("failed to share with team member",
				slog.String("doc_id", docID),
				slog.String("member_id", memberID),
				slog.String("error", err.Error()))
			s.failures.DependencyFailure("team_share")
		}
	}

	if err := s.cache.Del(ctx, doc.ID); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("document shared with team", slog.String("doc_id", docID),
		slog.String("team_id", teamID), slog.Int("members", len(team.Members)))

	return nil
}

func (s *Service) UpdateDocument(ctx context.Context, docID string, actor *models.User, params UpdateParams) error {
	op := pkg + "UpdateDocument"

	log := s.log.With(slog.String("op", op))

	if params.NewContent == nil && params.NewFilename == "" && params.NewDocType == "" {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	doc, err := s.liveDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !doc.HasManageAccess(actor) {
		log.Warn("actor not permitted to update",
			slog.String("doc_id", docID), slog.String("actor_id", actor.ID))
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	var contentRef *string

	if params.NewContent != nil {
		key := filepath.ToSlash(filepath.Join("documents", uuid.NewV4().String()+filepath.Ext(doc.Filename)))

		newRef, err := s.blobs.Put(ctx, key, params.NewContent, params.Size, params.Mime)
		if err != nil {
			log.Error("failed to store replacement content", slog.String("error", err.Error()))
			return fmt.Errorf("%s: %w", op, models.ErrDependencyFailed)
		}

		contentRef = &newRef
	}

	applied, err := s.docRepo.UpdateMeta(ctx, docID, contentRef, optional(params.NewDocType), optional(params.NewFilename))
	if err != nil || !applied {
		if contentRef != nil {
			if delErr := s.blobs.Delete(ctx, *contentRef); delErr != nil {
				log.Error("failed to roll back replacement content", slog.String("error", delErr.Error()))
			}
		}
		if err != nil {
			log.Error("failed to update document record", slog.String("error", err.Error()))
			return fmt.Errorf("%s: %w", op, models.ErrInternal)
		}
		return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}

	// The old blob goes away only after the record points at the new one.
	if contentRef != nil && doc.ContentRef != *contentRef {
		if err := s.blobs.Delete(ctx, doc.ContentRef); err != nil {
			log.Warn("failed to delete replaced content", slog.String("error", err.Error()))
			s.failures.DependencyFailure("blob_cleanup")
		}
	}

	if err := s.cache.Del(ctx, docID); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("document updated", slog.String("doc_id", docID), slog.String("actor_id", actor.ID))

	return nil
}

func (s *Service) SoftDelete(ctx context.Context, docID string, actor *models.User) error {
	op := pkg + "SoftDelete"

	log := s.log.With(slog.String("op", op))

	doc, err := s.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !doc.HasManageAccess(actor) {
		log.Warn("actor not permitted to delete",
			slog.String("doc_id", docID), slog.String("actor_id", actor.ID))
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	if doc.IsDeleted {
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}

	applied, err := s.docRepo.SetDeleted(ctx, docID)
	if err != nil {
		log.Error("failed to mark document deleted", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}
	if !applied {
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}

	s.pruneReferences(ctx, docID)

	if err := s.cache.Del(ctx, docID); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("document soft-deleted", slog.String("doc_id", docID), slog.String("actor_id", actor.ID))

	return nil
}

func (s *Service) HardDelete(ctx context.Context, docID string, actor *models.User) error {
	op := pkg + "HardDelete"

	log := s.log.With(slog.String("op", op))

	if !actor.IsAdmin() {
		log.Warn("hard delete requires admin", slog.String("actor_id", actor.ID))
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	doc, err := s.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	blobRefs := s.collectBlobRefs(ctx, doc)

	if err := s.docRepo.Delete(ctx, docID); err != nil {
		log.Error("failed to delete document record", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := s.index.RemoveAllReferences(ctx, docID); err != nil {
		log.Error("failed to prune index references", slog.String("error", err.Error()))
		s.failures.DependencyFailure("user_index")
	}

	for _, ref := range blobRefs {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			log.Warn("failed to delete content blob",
				slog.String("blob_ref", ref), slog.String("error", err.Error()))
			s.failures.DependencyFailure("blob_cleanup")
		}
	}

	if err := s.cache.Del(ctx, docID); err != nil {
		log.Warn("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("document hard-deleted", slog.String("doc_id", docID), slog.String("actor_id", actor.ID))

	return nil
}

func (s *Service) SearchAccessible(ctx context.Context, actor *models.User, term string) ([]*models.Document, error) {
	op := pkg + "SearchAccessible"

	log := s.log.With(slog.String("op", op))

	if term == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidParams)
	}

	docs, err := s.docRepo.SearchAccessible(ctx, actor.ID, term, searchLimit)
	if err != nil {
		log.Error("failed to search documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return docs, nil
}

func (s *Service) DownloadURL(ctx context.Context, docID string, actor *models.User) (string, time.Duration, error) {
	op := pkg + "DownloadURL"

	log := s.log.With(slog.String("op", op))

	doc, err := s.documentMetaByID(ctx, docID)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	if doc.IsDeleted {
		return "", 0, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}

	if !doc.HasReadAccess(actor) {
		log.Warn("actor not permitted to download",
			slog.String("doc_id", docID), slog.String("actor_id", actor.ID))
		return "", 0, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	url, err := s.blobs.PresignGet(ctx, doc.ContentRef, s.urlTTL)
	if err != nil {
		log.Error("failed to presign content url", slog.String("error", err.Error()))
		return "", 0, fmt.Errorf("%s: %w", op, models.ErrDependencyFailed)
	}

	return url, s.urlTTL, nil
}

// shareMember applies single-recipient share semantics: read grant on the
// record, roster membership if a signature was requested, an index reference
// and one notification.
func (s *Service) shareMember(ctx context.Context, doc *models.Document, userID string, requestSignature bool) error {
	log := s.log.With(slog.String("op", pkg+"shareMember"))

	if _, err := s.docRepo.AppendShared(ctx, doc.ID, userID); err != nil {
		return err
	}

	if requestSignature {
		if _, err := s.docRepo.AppendSigner(ctx, doc.ID, userID); err != nil {
			return err
		}
	}

	if err := s.index.AddReference(ctx, userID, doc.ID); err != nil {
		log.Error("failed to add index reference",
			slog.String("user_id", userID), slog.String("error", err.Error()))
		s.failures.DependencyFailure("user_index")
	}

	if requestSignature {
		s.notifier.Notify(ctx, userID, models.NotifySignatureRequest,
			fmt.Sprintf("your signature is requested on %q", doc.Filename),
			map[string]string{"document_id": doc.ID})
	} else {
		s.notifier.Notify(ctx, userID, models.NotifyDocumentShared,
			fmt.Sprintf("document %q was shared with you", doc.Filename),
			map[string]string{"document_id": doc.ID})
	}

	return nil
}

// pruneReferences removes the per-user index entries for a deleted document.
// Failures leave dangling references that readers already treat as deleted.
func (s *Service) pruneReferences(ctx context.Context, docID string) {
	log := s.log.With(slog.String("op", pkg+"pruneReferences"))

	userIDs, err := s.index.UsersReferencing(ctx, docID)
	if err != nil {
		log.Error("failed to list index references", slog.String("error", err.Error()))
		s.failures.DependencyFailure("user_index")
		return
	}

	for _, userID := range userIDs {
		if err := s.index.RemoveReference(ctx, userID, docID); err != nil {
			log.Error("failed to remove index reference",
				slog.String("user_id", userID), slog.String("error", err.Error()))
			s.failures.DependencyFailure("user_index")
		}
	}
}

func (s *Service) collectBlobRefs(ctx context.Context, doc *models.Document) []string {
	log := s.log.With(slog.String("op", pkg+"collectBlobRefs"))

	seen := map[string]bool{doc.ContentRef: true}
	refs := []string{doc.ContentRef}

	revs, err := s.docRepo.RevisionsByDocument(ctx, doc.ID)
	if err != nil {
		log.Warn("failed to list revisions for cleanup", slog.String("error", err.Error()))
	}
	for _, rev := range revs {
		if !seen[rev.ContentRef] {
			seen[rev.ContentRef] = true
			refs = append(refs, rev.ContentRef)
		}
	}

	recs, err := s.docRepo.SignatureRecords(ctx, doc.ID)
	if err != nil {
		log.Warn("failed to list signature records for cleanup", slog.String("error", err.Error()))
	}
	for _, rec := range recs {
		if !seen[rec.BlobRef] {
			seen[rec.BlobRef] = true
			refs = append(refs, rec.BlobRef)
		}
	}

	return refs
}

// liveDocumentByID loads a document and treats soft-deleted as absent.
func (s *Service) liveDocumentByID(ctx context.Context, docID string) (*models.Document, error) {
	doc, err := s.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if doc.IsDeleted {
		return nil, models.ErrDocumentNotFound
	}

	return doc, nil
}

func (s *Service) documentMetaByID(ctx context.Context, docID string) (*models.Document, error) {
	op := pkg + "documentMetaByID"

	log := s.log.With(slog.String("op", op))

	docJSON, err := s.cache.Get(ctx, docID)
	if err == nil && docJSON != "" {
		var doc models.Document
		if err := json.Unmarshal([]byte(docJSON), &doc); err == nil {
			return &doc, nil
		}
		log.Warn("failed to decode cached document", slog.String("doc_id", docID))
	}

	doc, err := s.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if raw, err := json.Marshal(doc); err == nil {
		if err := s.cache.Set(ctx, docID, string(raw)); err != nil {
			log.Warn("failed to cache document", slog.String("error", err.Error()))
		}
	}

	return doc, nil
}

// canShare encodes the share legality rule: requesting a signature is an
// owner-or-admin action, a plain share broadcast is admin only.
func canShare(doc *models.Document, actor *models.User, requestSignature bool) bool {
	if requestSignature {
		return doc.HasManageAccess(actor)
	}
	return actor.IsAdmin()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
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
