package dto

import (
	"docflow/internal/models"
)

func FromDocument(doc *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:                 doc.ID,
		OwnerID:            doc.OwnerID,
		Filename:           doc.Filename,
		DocType:            doc.DocType,
		SharedWith:         doc.SharedWith,
		RequiresSignature:  doc.RequiresSignature,
		SignersRequired:    doc.SignersRequired,
		SignedBy:           doc.SignedBy,
		SigningStatus:      doc.SigningStatus,
		Status:             doc.Status,
		ApprovedRevisionID: doc.ApprovedRevisionID,
		ApprovedAt:         doc.ApprovedAt,
		CreatedAt:          doc.CreatedAt,
	}
}

func FromDocuments(docs []*models.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, FromDocument(doc))
	}
	return out
}

func FromRevision(rev *models.Revision) RevisionResponse {
	return RevisionResponse{
		ID:             rev.ID,
		DocumentID:     rev.DocumentID,
		EditedBy:       rev.EditedBy,
		Status:         rev.Status,
		Message:        rev.Message,
		SubmittedAt:    rev.SubmittedAt,
		ReviewedBy:     rev.ReviewedBy,
		ReviewedAt:     rev.ReviewedAt,
		ReviewComments: rev.ReviewComments,
		CreatedAt:      rev.CreatedAt,
	}
}

func FromPendingReviews(pending []*models.PendingReview) []PendingReviewResponse {
	out := make([]PendingReviewResponse, 0, len(pending))
	for _, p := range pending {
		out = append(out, PendingReviewResponse{
			Revision: FromRevision(&p.Revision),
			DocID:    p.DocID,
			Filename: p.Filename,
			DocType:  p.DocType,
		})
	}
	return out
}
