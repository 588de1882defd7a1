package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                   TEXT        PRIMARY KEY,
  owner_id             TEXT        NOT NULL,
  filename             TEXT        NOT NULL,
  doc_type             TEXT        NOT NULL DEFAULT '',
  content_ref          TEXT        NOT NULL,
  is_deleted           BOOLEAN     NOT NULL DEFAULT FALSE,
  shared_with          TEXT[]      NOT NULL DEFAULT '{}',
  requires_signature   BOOLEAN     NOT NULL DEFAULT FALSE,
  signers_required     TEXT[]      NOT NULL DEFAULT '{}',
  signed_by            TEXT[]      NOT NULL DEFAULT '{}',
  signing_status       TEXT        NOT NULL DEFAULT 'not_required',
  status               TEXT        NOT NULL DEFAULT 'active',
  approved_revision_id TEXT,
  approved_at          TIMESTAMPTZ,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents (owner_id);`,
	},
	{
		Name: "create_table_revisions",
		SQL: `CREATE TABLE IF NOT EXISTS revisions (
  id              TEXT        PRIMARY KEY,
  document_id     TEXT        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  content_ref     TEXT        NOT NULL,
  edited_by       TEXT        NOT NULL,
  annotations     TEXT,
  comments        TEXT,
  status          TEXT        NOT NULL DEFAULT 'draft',
  message         TEXT,
  submitted_at    TIMESTAMPTZ,
  reviewed_by     TEXT,
  reviewed_at     TIMESTAMPTZ,
  review_comments TEXT,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_revisions_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_revisions_document ON revisions (document_id, created_at);`,
	},
	{
		Name: "create_table_signatures",
		SQL: `CREATE TABLE IF NOT EXISTS signatures (
  document_id TEXT        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  signer_id   TEXT        NOT NULL,
  blob_ref    TEXT        NOT NULL,
  signed_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (document_id, signer_id)
);`,
	},
	{
		Name: "create_table_user_documents",
		SQL: `CREATE TABLE IF NOT EXISTS user_documents (
  user_id     TEXT        NOT NULL,
  document_id TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (user_id, document_id)
);`,
	},
	{
		Name: "create_table_teams",
		SQL: `CREATE TABLE IF NOT EXISTS teams (
  id         TEXT    PRIMARY KEY,
  name       TEXT    NOT NULL,
  is_deleted BOOLEAN NOT NULL DEFAULT FALSE
);`,
	},
	{
		Name: "create_table_team_members",
		SQL: `CREATE TABLE IF NOT EXISTS team_members (
  team_id TEXT NOT NULL REFERENCES teams (id) ON DELETE CASCADE,
  user_id TEXT NOT NULL,
  PRIMARY KEY (team_id, user_id)
);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id         TEXT        PRIMARY KEY,
  user_id    TEXT        NOT NULL,
  type       TEXT        NOT NULL,
  message    TEXT        NOT NULL,
  data       JSONB,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_notifications_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC);`,
	},
}

// Migrate applies the schema steps in order. Every step is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	op := pkg + "Migrate"

	for _, step := range steps {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return fmt.Errorf("%s: step %s: %w", op, step.Name, err)
		}
	}

	return nil
}
