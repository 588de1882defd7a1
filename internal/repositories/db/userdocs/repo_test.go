package userdocsrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, *repository) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	repo := NewRepository(sqlxDB)
	return sqlxDB, mock, repo
}

func TestAddReference_Idempotent(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO user_documents (user_id, document_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, document_id) DO NOTHING`)).
		WithArgs("u1", "doc1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AddReference(context.Background(), "u1", "doc1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveReference_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_documents WHERE user_id = $1 AND document_id = $2`)).
		WithArgs("u1", "doc1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RemoveReference(context.Background(), "u1", "doc1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveAllReferences_Error(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_documents WHERE document_id = $1`)).
		WithArgs("doc1").
		WillReturnError(errors.New("db failure"))

	err := repo.RemoveAllReferences(context.Background(), "doc1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RemoveAllReferences")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersReferencing_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM user_documents WHERE document_id = $1`)).
		WithArgs("doc1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2"))

	userIDs, err := repo.UsersReferencing(context.Background(), "doc1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, userIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
