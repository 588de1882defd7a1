package models

import (
	"slices"
	"time"
)

// Signing status of a document's roster.
const (
	SigningNotRequired = "not_required"
	SigningPending     = "pending"
	SigningCompleted   = "completed"
)

// Top-level document status.
const (
	DocumentActive   = "active"
	DocumentApproved = "approved"
)

type Document struct {
	ID                 string     `json:"id"`
	OwnerID            string     `json:"owner_id"`
	Filename           string     `json:"filename"`
	DocType            string     `json:"doc_type"`
	ContentRef         string     `json:"content_ref"`
	IsDeleted          bool       `json:"is_deleted"`
	SharedWith         []string   `json:"shared_with"`
	RequiresSignature  bool       `json:"requires_signature"`
	SignersRequired    []string   `json:"signers_required"`
	SignedBy           []string   `json:"signed_by"`
	SigningStatus      string     `json:"signing_status"`
	Status             string     `json:"status"`
	ApprovedRevisionID string     `json:"approved_revision_id,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// SignatureRecord is a captured, drawn signature attached to a sign event.
type SignatureRecord struct {
	DocumentID string    `json:"document_id"`
	SignerID   string    `json:"signer_id"`
	BlobRef    string    `json:"blob_ref"`
	SignedAt   time.Time `json:"signed_at"`
}

func (d *Document) HasReadAccess(u *User) bool {
	return u.IsAdmin() || d.OwnerID == u.ID || slices.Contains(d.SharedWith, u.ID)
}

func (d *Document) HasManageAccess(u *User) bool {
	return u.IsAdmin() || d.OwnerID == u.ID
}

// AllSigned reports whether every required signer has signed.
// An empty roster never counts as fully signed.
func (d *Document) AllSigned() bool {
	if len(d.SignersRequired) == 0 {
		return false
	}
	for _, s := range d.SignersRequired {
		if !slices.Contains(d.SignedBy, s) {
			return false
		}
	}
	return true
}
