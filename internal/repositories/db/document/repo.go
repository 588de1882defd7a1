package documentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docflow/internal/entities"
	"docflow/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "documentRepo/"

const documentColumns = `
			d.id AS id,
			d.owner_id AS owner_id,
			d.filename AS filename,
			d.doc_type AS doc_type,
			d.content_ref AS content_ref,
			d.is_deleted AS is_deleted,
			d.shared_with AS shared_with,
			d.requires_signature AS requires_signature,
			d.signers_required AS signers_required,
			d.signed_by AS signed_by,
			d.signing_status AS signing_status,
			d.status AS status,
			d.approved_revision_id AS approved_revision_id,
			d.approved_at AS approved_at,
			d.created_at AS created_at,
			d.updated_at AS updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "CreateDocument"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, owner_id, filename, doc_type, content_ref, is_deleted, shared_with, requires_signature, signers_required, signed_by, signing_status, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		doc.ID, doc.OwnerID, doc.Filename, doc.DocType, doc.ContentRef, doc.IsDeleted,
		pqArray(doc.SharedWith), doc.RequiresSignature, pqArray(doc.SignersRequired), pqArray(doc.SignedBy),
		doc.SigningStatus, doc.Status, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT`+documentColumns+`
			FROM documents d
			WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docFromEntity(&rawDoc), nil
}

// UpdateMeta rewrites descriptive fields and, when contentRef is non-nil, the
// active content pointer. A soft-deleted document is never updated.
func (r *repository) UpdateMeta(ctx context.Context, id string, contentRef, docType, filename *string) (bool, error) {
	op := pkg + "UpdateMeta"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			content_ref = COALESCE($2, content_ref),
			doc_type = COALESCE($3, doc_type),
			filename = COALESCE($4, filename),
			updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`,
		id, contentRef, docType, filename)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return rowsAffected(res), nil
}

// SetDeleted flips the soft-delete flag. A second call reports not applied.
func (r *repository) SetDeleted(ctx context.Context, id string) (bool, error) {
	op := pkg + "SetDeleted"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`,
		id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return rowsAffected(res), nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AppendShared adds userID to shared_with unless already present. The append is
// a single guarded statement, so concurrent callers never lose each other's grant.
func (r *repository) AppendShared(ctx context.Context, docID string, userID string) (bool, error) {
	op := pkg + "AppendShared"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET shared_with = array_append(shared_with, $2), updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE AND NOT ($2 = ANY(shared_with))`,
		docID, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return rowsAffected(res), nil
}

// AppendSigner unions signerID into the roster and forces the signing state to
// pending. The roster never shrinks.
func (r *repository) AppendSigner(ctx context.Context, docID string, signerID string) (bool, error) {
	op := pkg + "AppendSigner"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			signers_required = array_append(signers_required, $2),
			requires_signature = TRUE,
			signing_status = '`+models.SigningPending+`',
			updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE AND NOT ($2 = ANY(signers_required))`,
		docID, signerID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return rowsAffected(res), nil
}

// RecordSignature appends signerID to signed_by and recomputes the signing
// status in the same statement. The guard rejects signers outside the roster,
// repeat signers and deleted documents, so of two concurrent calls by the same
// signer exactly one sees a row. The returned status comes from the updated
// row: "completed" means this call satisfied the roster.
func (r *repository) RecordSignature(ctx context.Context, docID string, signerID string) (string, error) {
	op := pkg + "RecordSignature"

	var status string

	err := r.db.GetContext(ctx, &status,
		`UPDATE documents SET
			signed_by = array_append(signed_by, $2),
			signing_status = CASE
				WHEN signers_required <@ array_append(signed_by, $2) THEN '`+models.SigningCompleted+`'
				ELSE '`+models.SigningPending+`'
			END,
			updated_at = now()
		WHERE id = $1
			AND is_deleted = FALSE
			AND $2 = ANY(signers_required)
			AND NOT ($2 = ANY(signed_by))
		RETURNING signing_status`,
		docID, signerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, models.ErrNoRows)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return status, nil
}

func (r *repository) AddSignatureRecord(ctx context.Context, rec models.SignatureRecord) error {
	op := pkg + "AddSignatureRecord"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO signatures (document_id, signer_id, blob_ref, signed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id, signer_id) DO NOTHING`,
		rec.DocumentID, rec.SignerID, rec.BlobRef, rec.SignedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) SignatureRecords(ctx context.Context, docID string) ([]models.SignatureRecord, error) {
	op := pkg + "SignatureRecords"

	rawRecs := make([]entities.SignatureRecord, 0)

	err := r.db.SelectContext(ctx, &rawRecs,
		`SELECT
			s.document_id AS document_id,
			s.signer_id AS signer_id,
			s.blob_ref AS blob_ref,
			s.signed_at AS signed_at
		FROM signatures s
		WHERE s.document_id = $1
		ORDER BY s.signed_at ASC`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	recs := make([]models.SignatureRecord, 0, len(rawRecs))

	for _, raw := range rawRecs {
		recs = append(recs, models.SignatureRecord{
			DocumentID: raw.DocumentID,
			SignerID:   raw.SignerID,
			BlobRef:    raw.BlobRef,
			SignedAt:   raw.SignedAt,
		})
	}

	return recs, nil
}

func (r *repository) SearchAccessible(ctx context.Context, userID string, term string, limit int) ([]*models.Document, error) {
	op := pkg + "SearchAccessible"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT`+documentColumns+`
		FROM documents d
		WHERE d.is_deleted = FALSE
			AND (d.owner_id = $1 OR $1 = ANY(d.shared_with))
			AND (d.filename ILIKE $2 OR d.doc_type ILIKE $2)
		ORDER BY d.created_at DESC
		LIMIT $3`,
		userID, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docsFromEntities(rawDocs), nil
}

// PendingSignatures returns live documents still waiting on signerID.
func (r *repository) PendingSignatures(ctx context.Context, signerID string) ([]*models.Document, error) {
	op := pkg + "PendingSignatures"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT`+documentColumns+`
		FROM documents d
		WHERE d.is_deleted = FALSE
			AND d.signing_status = '`+models.SigningPending+`'
			AND $1 = ANY(d.signers_required)
			AND NOT ($1 = ANY(d.signed_by))
		ORDER BY d.created_at DESC`,
		signerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docsFromEntities(rawDocs), nil
}

func (r *repository) AppendRevision(ctx context.Context, rev *models.Revision) error {
	op := pkg + "AppendRevision"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO revisions (id, document_id, content_ref, edited_by, annotations, comments, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rev.ID, rev.DocumentID, rev.ContentRef, rev.EditedBy,
		nullString(rev.Annotations), nullString(rev.Comments), rev.Status, rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) RevisionByID(ctx context.Context, docID string, revID string) (*models.Revision, error) {
	op := pkg + "RevisionByID"

	rawRev := entities.Revision{}

	err := r.db.GetContext(ctx, &rawRev,
		`SELECT
			r.id AS id,
			r.document_id AS document_id,
			r.content_ref AS content_ref,
			r.edited_by AS edited_by,
			r.annotations AS annotations,
			r.comments AS comments,
			r.status AS status,
			r.message AS message,
			r.submitted_at AS submitted_at,
			r.reviewed_by AS reviewed_by,
			r.reviewed_at AS reviewed_at,
			r.review_comments AS review_comments,
			r.created_at AS created_at
		FROM revisions r
		WHERE r.document_id = $1 AND r.id = $2`,
		docID, revID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrRevisionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return revisionFromEntity(&rawRev), nil
}

func (r *repository) RevisionsByDocument(ctx context.Context, docID string) ([]models.Revision, error) {
	op := pkg + "RevisionsByDocument"

	rawRevs := make([]entities.Revision, 0)

	err := r.db.SelectContext(ctx, &rawRevs,
		`SELECT
			r.id AS id,
			r.document_id AS document_id,
			r.content_ref AS content_ref,
			r.edited_by AS edited_by,
			r.annotations AS annotations,
			r.comments AS comments,
			r.status AS status,
			r.message AS message,
			r.submitted_at AS submitted_at,
			r.reviewed_by AS reviewed_by,
			r.reviewed_at AS reviewed_at,
			r.review_comments AS review_comments,
			r.created_at AS created_at
		FROM revisions r
		WHERE r.document_id = $1
		ORDER BY r.created_at ASC`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	revs := make([]models.Revision, 0, len(rawRevs))

	for i := range rawRevs {
		revs = append(revs, *revisionFromEntity(&rawRevs[i]))
	}

	return revs, nil
}

// SubmitRevision moves a draft to submitted. Zero rows means the revision is
// absent or no longer a draft.
func (r *repository) SubmitRevision(ctx context.Context, docID string, revID string, message string, at time.Time) (bool, error) {
	op := pkg + "SubmitRevision"

	res, err := r.db.ExecContext(ctx,
		`UPDATE revisions SET
			status = '`+models.RevisionSubmitted+`',
			message = $3,
			submitted_at = $4
		WHERE document_id = $1 AND id = $2 AND status = '`+models.RevisionDraft+`'`,
		docID, revID, nullString(message), at)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return rowsAffected(res), nil
}

// ReviewRevision stamps the review outcome on a submitted revision. The status
// guard makes approve and reject one-shot.
func (r *repository) ReviewRevision(ctx context.Context, docID string, revID string, reviewerID string, status string, comments string, at time.Time) (bool, error) {
	op := pkg + "ReviewRevision"

	res, err := r.db.ExecContext(ctx,
		`UPDATE revisions SET
			status = $3,
			reviewed_by = $4,
			reviewed_at = $5,
			review_comments = $6
		WHERE document_id = $1 AND id = $2 AND status = '`+models.RevisionSubmitted+`'`,
		docID, revID, status, reviewerID, at, nullString(comments))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return rowsAffected(res), nil
}

// PromoteRevision makes an approved revision's content the document's current
// content and records the approval pointer.
func (r *repository) PromoteRevision(ctx context.Context, docID string, revID string, contentRef string, at time.Time) error {
	op := pkg + "PromoteRevision"

	_, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			content_ref = $3,
			approved_revision_id = $2,
			approved_at = $4,
			status = '`+models.DocumentApproved+`',
			updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`,
		docID, revID, contentRef, at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SubmittedRevisions lists revisions waiting for review across the documents
// owned by ownerID, or across every live document when all is set.
func (r *repository) SubmittedRevisions(ctx context.Context, ownerID string, all bool) ([]*models.PendingReview, error) {
	op := pkg + "SubmittedRevisions"

	rawRevs := make([]entities.PendingRevision, 0)

	err := r.db.SelectContext(ctx, &rawRevs,
		`SELECT
			r.id AS id,
			r.document_id AS document_id,
			r.content_ref AS content_ref,
			r.edited_by AS edited_by,
			r.annotations AS annotations,
			r.comments AS comments,
			r.status AS status,
			r.message AS message,
			r.submitted_at AS submitted_at,
			r.reviewed_by AS reviewed_by,
			r.reviewed_at AS reviewed_at,
			r.review_comments AS review_comments,
			r.created_at AS created_at,
			d.filename AS doc_filename,
			d.doc_type AS doc_doc_type
		FROM revisions r
		INNER JOIN documents d ON d.id = r.document_id
		WHERE r.status = '`+models.RevisionSubmitted+`'
			AND d.is_deleted = FALSE
			AND ($2 OR d.owner_id = $1)
		ORDER BY r.submitted_at ASC`,
		ownerID, all)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pending := make([]*models.PendingReview, 0, len(rawRevs))

	for i := range rawRevs {
		pending = append(pending, &models.PendingReview{
			Revision: *revisionFromEntity(&rawRevs[i].Revision),
			DocID:    rawRevs[i].DocumentID,
			Filename: rawRevs[i].DocFilename,
			DocType:  rawRevs[i].DocDocType,
		})
	}

	return pending, nil
}
