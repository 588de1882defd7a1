package entities

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Document struct {
	ID                 string         `db:"id"`
	OwnerID            string         `db:"owner_id"`
	Filename           string         `db:"filename"`
	DocType            string         `db:"doc_type"`
	ContentRef         string         `db:"content_ref"`
	IsDeleted          bool           `db:"is_deleted"`
	SharedWith         pq.StringArray `db:"shared_with"`
	RequiresSignature  bool           `db:"requires_signature"`
	SignersRequired    pq.StringArray `db:"signers_required"`
	SignedBy           pq.StringArray `db:"signed_by"`
	SigningStatus      string         `db:"signing_status"`
	Status             string         `db:"status"`
	ApprovedRevisionID sql.NullString `db:"approved_revision_id"`
	ApprovedAt         sql.NullTime   `db:"approved_at"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

type SignatureRecord struct {
	DocumentID string    `db:"document_id"`
	SignerID   string    `db:"signer_id"`
	BlobRef    string    `db:"blob_ref"`
	SignedAt   time.Time `db:"signed_at"`
}
