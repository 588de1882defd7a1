package userdocsrepo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "userDocsRepo/"

// repository maintains the per-user accessible-document index. The index is a
// denormalized convenience list kept best-effort alongside the document record;
// readers must tolerate dangling references.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) AddReference(ctx context.Context, userID string, docID string) error {
	op := pkg + "AddReference"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_documents (user_id, document_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, document_id) DO NOTHING`,
		userID, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) RemoveReference(ctx context.Context, userID string, docID string) error {
	op := pkg + "RemoveReference"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_documents WHERE user_id = $1 AND document_id = $2`,
		userID, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) RemoveAllReferences(ctx context.Context, docID string) error {
	op := pkg + "RemoveAllReferences"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_documents WHERE document_id = $1`,
		docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) ListReferences(ctx context.Context, userID string) ([]string, error) {
	op := pkg + "ListReferences"

	docIDs := make([]string, 0)

	err := r.db.SelectContext(ctx, &docIDs,
		`SELECT document_id FROM user_documents WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docIDs, nil
}

// UsersReferencing returns every user holding docID in their index, used by
// the delete fan-out.
func (r *repository) UsersReferencing(ctx context.Context, docID string) ([]string, error) {
	op := pkg + "UsersReferencing"

	userIDs := make([]string, 0)

	err := r.db.SelectContext(ctx, &userIDs,
		`SELECT user_id FROM user_documents WHERE document_id = $1`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return userIDs, nil
}
