package models

import "time"

// Notification event types emitted by the engine.
const (
	NotifyDocumentUpload      = "document_upload"
	NotifyDocumentShared      = "document_shared"
	NotifySignatureRequest    = "signature_request"
	NotifyDocumentSigned      = "document_signed"
	NotifySignaturesCollected = "signatures_collected"
	NotifyRevisionSubmitted   = "revision_submitted"
	NotifyRevisionReviewed    = "revision_reviewed"
)

type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
