package documentrepo

import (
	"database/sql"
	"time"

	"docflow/internal/entities"
	"docflow/internal/models"

	"github.com/lib/pq"
)

func pqArray(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

func rowsAffected(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func docFromEntity(raw *entities.Document) *models.Document {
	doc := &models.Document{
		ID:                raw.ID,
		OwnerID:           raw.OwnerID,
		Filename:          raw.Filename,
		DocType:           raw.DocType,
		ContentRef:        raw.ContentRef,
		IsDeleted:         raw.IsDeleted,
		SharedWith:        []string(raw.SharedWith),
		RequiresSignature: raw.RequiresSignature,
		SignersRequired:   []string(raw.SignersRequired),
		SignedBy:          []string(raw.SignedBy),
		SigningStatus:     raw.SigningStatus,
		Status:            raw.Status,
		CreatedAt:         raw.CreatedAt,
		UpdatedAt:         raw.UpdatedAt,
	}

	if raw.ApprovedRevisionID.Valid {
		doc.ApprovedRevisionID = raw.ApprovedRevisionID.String
	}
	if raw.ApprovedAt.Valid {
		at := raw.ApprovedAt.Time
		doc.ApprovedAt = &at
	}

	return doc
}

func docsFromEntities(rawDocs []entities.Document) []*models.Document {
	docs := make([]*models.Document, 0, len(rawDocs))

	for i := range rawDocs {
		docs = append(docs, docFromEntity(&rawDocs[i]))
	}

	return docs
}

func revisionFromEntity(raw *entities.Revision) *models.Revision {
	rev := &models.Revision{
		ID:         raw.ID,
		DocumentID: raw.DocumentID,
		ContentRef: raw.ContentRef,
		EditedBy:   raw.EditedBy,
		Status:     raw.Status,
		CreatedAt:  raw.CreatedAt,
	}

	rev.Annotations = stringOrEmpty(raw.Annotations)
	rev.Comments = stringOrEmpty(raw.Comments)
	rev.Message = stringOrEmpty(raw.Message)
	rev.ReviewedBy = stringOrEmpty(raw.ReviewedBy)
	rev.ReviewComments = stringOrEmpty(raw.ReviewComments)
	rev.SubmittedAt = timeOrNil(raw.SubmittedAt)
	rev.ReviewedAt = timeOrNil(raw.ReviewedAt)

	return rev
}

func stringOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func timeOrNil(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}
