package model

import (
	"database/sql"
	"time"
)

type Job struct {
	ID                    int64          `db:"id"`
	Title                 string         `db:"title"`
	Description           string         `db:"description"`
	Category              string         `db:"category"`
	RequiredSkills        string         `db:"required_skills"` // JSON array stored as text
	PaymentAmount         string         `db:"payment_amount"`  // USDC amount, decimal string
	Status                string         `db:"status"`
	CompletedBy           sql.NullString `db:"completed_by"`
	SubmissionURL         sql.NullString `db:"submission_url"`
	SubmissionDescription sql.NullString `db:"submission_description"`
	CompletedAt           sql.NullTime   `db:"completed_at"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

// JobWithPayout is a Job joined with the payout transaction hash, used by
// the completed-jobs listing.
type JobWithPayout struct {
	Job
	TransactionHash sql.NullString `db:"transaction_hash"`
}

type Transaction struct {
	ID              int64          `db:"id"`
	JobID           int64          `db:"job_id"`
	FromAddress     string         `db:"from_address"`
	ToAddress       string         `db:"to_address"`
	Amount          string         `db:"amount"` // copied from the job, decimal string
	TransactionHash string         `db:"transaction_hash"`
	ExplorerLink    sql.NullString `db:"explorer_link"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
}
