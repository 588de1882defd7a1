package dto

import (
	"time"
)

type UploadMeta struct {
	Filename         string   `json:"filename"`
	DocType          string   `json:"doc_type"`
	Mime             string   `json:"mime"`
	RequireSignature bool     `json:"require_signature"`
	Signers          []string `json:"signers"`
}

type UpdateDocumentRequest struct {
	Filename string `json:"filename,omitempty"`
	DocType  string `json:"doc_type,omitempty"`
}

type ShareRequest struct {
	UserID           string `json:"user_id,omitempty"`
	TeamID           string `json:"team_id,omitempty"`
	RequestSignature bool   `json:"request_signature"`
}

type DocumentResponse struct {
	ID                 string     `json:"id"`
	OwnerID            string     `json:"owner_id"`
	Filename           string     `json:"filename"`
	DocType            string     `json:"doc_type"`
	SharedWith         []string   `json:"shared_with"`
	RequiresSignature  bool       `json:"requires_signature"`
	SignersRequired    []string   `json:"signers_required"`
	SignedBy           []string   `json:"signed_by"`
	SigningStatus      string     `json:"signing_status"`
	Status             string     `json:"status"`
	ApprovedRevisionID string     `json:"approved_revision_id,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	CreatedAt          time.Time  `json:"created"`
}

type DownloadURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
