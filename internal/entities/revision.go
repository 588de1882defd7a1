package entities

import (
	"database/sql"
	"time"
)

type Revision struct {
	ID             string         `db:"id"`
	DocumentID     string         `db:"document_id"`
	ContentRef     string         `db:"content_ref"`
	EditedBy       string         `db:"edited_by"`
	Annotations    sql.NullString `db:"annotations"`
	Comments       sql.NullString `db:"comments"`
	Status         string         `db:"status"`
	Message        sql.NullString `db:"message"`
	SubmittedAt    sql.NullTime   `db:"submitted_at"`
	ReviewedBy     sql.NullString `db:"reviewed_by"`
	ReviewedAt     sql.NullTime   `db:"reviewed_at"`
	ReviewComments sql.NullString `db:"review_comments"`
	CreatedAt      time.Time      `db:"created_at"`
}

// PendingRevision joins a submitted revision with its parent document columns.
type PendingRevision struct {
	Revision
	DocFilename string `db:"doc_filename"`
	DocDocType  string `db:"doc_doc_type"`
}
