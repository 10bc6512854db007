package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// sqliteSchema mirrors db/migrations for the embedded driver, which is not
// managed by the migrate CLI.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS extraction_requests (
	id              TEXT PRIMARY KEY,
	idempotency_key TEXT NOT NULL UNIQUE,
	status          TEXT NOT NULL,
	document_text   TEXT NOT NULL,
	doc_type        TEXT,
	invoice_number  TEXT,
	invoice_date    TEXT,
	total_amount    REAL,
	currency        TEXT,
	error_code      TEXT,
	error_message   TEXT,
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_extraction_requests_status_created_at
	ON extraction_requests (status, created_at);
`

// EnsureSchema creates the sqlite schema if it does not exist. PostgreSQL
// deployments use cmd/migrate instead.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
