package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"extractd/internal/domain"
	"extractd/internal/port"
)

type requestRepo struct {
	db *sqlx.DB
}

// NewRequestRepo creates a SQL-backed RequestRepository.
func NewRequestRepo(db *sqlx.DB) port.RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) Create(ctx context.Context, req *domain.ExtractionRequest) error {
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `INSERT INTO extraction_requests (
		id, idempotency_key, status, document_text,
		doc_type, invoice_number, invoice_date, total_amount, currency,
		error_code, error_message, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9,
		$10, $11, $12, $13
	)`

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.IdempotencyKey, req.Status, req.DocumentText,
		req.DocType, req.InvoiceNumber, req.InvoiceDate, req.TotalAmount, req.Currency,
		req.ErrorCode, req.ErrorMessage, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("requestRepo.Create: %w", err)
	}
	return nil
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*domain.ExtractionRequest, error) {
	var req domain.ExtractionRequest
	err := r.db.GetContext(ctx, &req,
		"SELECT * FROM extraction_requests WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("requestRepo.GetByID: %w", err)
	}
	return &req, nil
}

func (r *requestRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.ExtractionRequest, error) {
	var req domain.ExtractionRequest
	err := r.db.GetContext(ctx, &req,
		"SELECT * FROM extraction_requests WHERE idempotency_key = $1", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("requestRepo.GetByIdempotencyKey: %w", err)
	}
	return &req, nil
}

func (r *requestRepo) ListPendingIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM extraction_requests WHERE status = $1 ORDER BY created_at`,
		domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("requestRepo.ListPendingIDs: %w", err)
	}
	return ids, nil
}

func (r *requestRepo) List(ctx context.Context, offset, limit int) ([]domain.ExtractionRequest, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM extraction_requests")
	if err != nil {
		return nil, 0, fmt.Errorf("requestRepo.List count: %w", err)
	}

	var reqs []domain.ExtractionRequest
	err = r.db.SelectContext(ctx, &reqs,
		`SELECT * FROM extraction_requests
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("requestRepo.List: %w", err)
	}
	return reqs, total, nil
}

// MarkCompleted commits a terminal COMPLETED state. The status guard keeps
// terminal states immutable: a row that already completed or failed is never
// overwritten.
func (r *requestRepo) MarkCompleted(ctx context.Context, id string, result *domain.ExtractionResult) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE extraction_requests SET
			status = $1, doc_type = $2, invoice_number = $3, invoice_date = $4,
			total_amount = $5, currency = $6, error_code = NULL, error_message = NULL,
			updated_at = $7
		 WHERE id = $8 AND status = $9`,
		domain.StatusCompleted, result.DocType, result.InvoiceNumber, result.InvoiceDate,
		result.TotalAmount, result.Currency, now,
		id, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("requestRepo.MarkCompleted: %w", err)
	}
	return checkPendingUpdate(ctx, r.db, res, id)
}

// MarkFailed commits a terminal FAILED state under the same status guard.
func (r *requestRepo) MarkFailed(ctx context.Context, id string, code, message string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE extraction_requests SET
			status = $1, doc_type = NULL, invoice_number = NULL, invoice_date = NULL,
			total_amount = NULL, currency = NULL, error_code = $2, error_message = $3,
			updated_at = $4
		 WHERE id = $5 AND status = $6`,
		domain.StatusFailed, code, message, now,
		id, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("requestRepo.MarkFailed: %w", err)
	}
	return checkPendingUpdate(ctx, r.db, res, id)
}

// checkPendingUpdate distinguishes a missing row from a row already in a
// terminal state when a guarded update touched nothing.
func checkPendingUpdate(ctx context.Context, db *sqlx.DB, res sql.Result, id string) error {
	rows, _ := res.RowsAffected()
	if rows > 0 {
		return nil
	}
	var n int
	if err := db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM extraction_requests WHERE id = $1", id); err != nil {
		return fmt.Errorf("requestRepo terminal write check: %w", err)
	}
	if n == 0 {
		return domain.ErrRequestNotFound
	}
	return domain.ErrRequestNotPending
}

// isUniqueViolation matches the duplicate-key error text of both drivers.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || // postgres
		strings.Contains(msg, "UNIQUE constraint failed") // sqlite
}
