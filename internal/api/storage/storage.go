package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/paelladev/gigboard-be/internal/api/domain"
	"github.com/paelladev/gigboard-be/internal/api/model"
	"github.com/paelladev/gigboard-be/shared/postgresql"
)

const jobColumns = `
	id, title, description, category, required_skills,
	payment_amount, status, completed_by, submission_url,
	submission_description, completed_at, created_at, updated_at
`

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

func (s *Storage) ListJobs(ctx context.Context) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC`

	var jobs []model.Job
	if err := s.db.SelectContext(ctx, &jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// ListJobsByStatus returns jobs filtered by stored status. Completed jobs
// carry the payout transaction hash via a left join so the listing can show
// where the money went.
func (s *Storage) ListJobsByStatus(ctx context.Context, status string) ([]model.JobWithPayout, error) {
	var query string
	if status == domain.JobStatusCompleted {
		query = `
			SELECT
				j.id, j.title, j.description, j.category, j.required_skills,
				j.payment_amount, j.status, j.completed_by, j.submission_url,
				j.submission_description, j.completed_at, j.created_at, j.updated_at,
				t.transaction_hash
			FROM jobs j
			LEFT JOIN transactions t ON t.job_id = j.id
			WHERE j.status = $1
			ORDER BY j.created_at DESC
		`
	} else {
		query = `
			SELECT ` + jobColumns + `, NULL AS transaction_hash
			FROM jobs
			WHERE status = $1
			ORDER BY created_at DESC
		`
	}

	var jobs []model.JobWithPayout
	if err := s.db.SelectContext(ctx, &jobs, query, status); err != nil {
		return nil, fmt.Errorf("failed to list jobs by status: %w", err)
	}

	return jobs, nil
}

func (s *Storage) GetJobByID(ctx context.Context, jobID int64) (*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var job model.Job
	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// CompletionRecord is the write set committed when a payout succeeds.
type CompletionRecord struct {
	Recipient             string
	SubmissionURL         string
	SubmissionDescription string
	CompletedAt           time.Time
	Transaction           *model.Transaction
}

// CommitCompletion marks the job completed and appends its payout
// transaction in one database transaction. The update is guarded by the
// stored status so exactly one caller wins a race; a guard miss rolls back
// and surfaces as ErrJobAlreadyCompleted.
func (s *Storage) CommitCompletion(ctx context.Context, jobID int64, rec *CompletionRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE jobs
		SET status = $1,
			completed_by = $2,
			submission_url = NULLIF($3, ''),
			submission_description = NULLIF($4, ''),
			completed_at = $5,
			updated_at = $5
		WHERE id = $6 AND status = $7
	`

	result, err := tx.ExecContext(
		ctx,
		updateQuery,
		domain.JobStatusCompleted,
		rec.Recipient,
		rec.SubmissionURL,
		rec.SubmissionDescription,
		rec.CompletedAt,
		jobID,
		domain.JobStatusActive,
	)
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrJobAlreadyCompleted
	}

	insertQuery := `
		INSERT INTO transactions (
			job_id, from_address, to_address, amount,
			transaction_hash, explorer_link, status, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
		RETURNING id
	`

	t := rec.Transaction
	err = tx.QueryRowContext(
		ctx,
		insertQuery,
		t.JobID,
		t.FromAddress,
		t.ToAddress,
		t.Amount,
		t.TransactionHash,
		t.ExplorerLink,
		t.Status,
		t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit completion: %w", err)
	}

	return nil
}

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (
			title, description, category, required_skills,
			payment_amount, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		job.Title,
		job.Description,
		job.Category,
		job.RequiredSkills,
		job.PaymentAmount,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	).Scan(&job.ID)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *Storage) ListTransactionsByJob(ctx context.Context, jobID int64) ([]model.Transaction, error) {
	query := `
		SELECT
			id, job_id, from_address, to_address, amount,
			transaction_hash, explorer_link, status, created_at
		FROM transactions
		WHERE job_id = $1
		ORDER BY created_at DESC
	`

	var txs []model.Transaction
	if err := s.db.SelectContext(ctx, &txs, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txs, nil
}
