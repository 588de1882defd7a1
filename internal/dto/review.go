package dto

import "time"

type SaveEditMeta struct {
	Annotations string `json:"annotations,omitempty"`
	Comments    string `json:"comments,omitempty"`
	Mime        string `json:"mime"`
}

type SubmitRequest struct {
	Message string `json:"message,omitempty"`
}

type ReviewRequest struct {
	Action   string `json:"action"`
	Comments string `json:"comments,omitempty"`
}

type RevisionResponse struct {
	ID             string     `json:"id"`
	DocumentID     string     `json:"document_id"`
	EditedBy       string     `json:"edited_by"`
	Status         string     `json:"status"`
	Message        string     `json:"message,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	ReviewedBy     string     `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewComments string     `json:"review_comments,omitempty"`
	CreatedAt      time.Time  `json:"created"`
}

type PendingReviewResponse struct {
	Revision RevisionResponse `json:"revision"`
	DocID    string           `json:"document_id"`
	Filename string           `json:"filename"`
	DocType  string           `json:"doc_type"`
}
