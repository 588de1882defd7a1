package models

import "time"

// Revision review states.
const (
	RevisionDraft     = "draft"
	RevisionSubmitted = "submitted"
	RevisionApproved  = "approved"
	RevisionRejected  = "rejected"
)

// Review actions.
const (
	ReviewApprove = "approve"
	ReviewReject  = "reject"
)

type Revision struct {
	ID             string     `json:"id"`
	DocumentID     string     `json:"document_id"`
	ContentRef     string     `json:"content_ref"`
	EditedBy       string     `json:"edited_by"`
	Annotations    string     `json:"annotations,omitempty"`
	Comments       string     `json:"comments,omitempty"`
	Status         string     `json:"status"`
	Message        string     `json:"message,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	ReviewedBy     string     `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewComments string     `json:"review_comments,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PendingReview is a submitted revision annotated with its parent document.
type PendingReview struct {
	Revision Revision `json:"revision"`
	DocID    string   `json:"document_id"`
	Filename string   `json:"filename"`
	DocType  string   `json:"doc_type"`
}
