package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/paelladev/gigboard-be/internal/api/domain"
	"github.com/paelladev/gigboard-be/internal/api/model"
	"github.com/paelladev/gigboard-be/internal/api/storage"
	"github.com/paelladev/gigboard-be/internal/metrics"
	"github.com/paelladev/gigboard-be/internal/payment"
)

// JobStore is the subset of storage the completion flow needs.
type JobStore interface {
	GetJobByID(ctx context.Context, jobID int64) (*model.Job, error)
	CommitCompletion(ctx context.Context, jobID int64, rec *storage.CompletionRecord) error
}

// Gateway abstracts the payment provider client.
type Gateway interface {
	ResolveWallet(ctx context.Context, email string) (*payment.Wallet, error)
	Balance(ctx context.Context, email string) payment.TokenBalance
	Transfer(ctx context.Context, fromEmail, toAddress, amount string) (*payment.TransferResult, error)
}

// EventPublisher emits completion events after a successful commit.
type EventPublisher interface {
	PublishJobCompleted(ctx context.Context, event *JobCompletedEvent) error
}

// JobCompletedEvent is the message published after a payout commits.
type JobCompletedEvent struct {
	JobID           int64  `json:"job_id"`
	ToAddress       string `json:"to_address"`
	Amount          string `json:"amount"`
	TransactionHash string `json:"transaction_hash"`
	ExplorerLink    string `json:"explorer_link"`
	CompletedAt     string `json:"completed_at"`
}

// CompleteJobInput carries the caller's completion request.
type CompleteJobInput struct {
	JobID                 int64
	WalletAddress         string
	SubmissionURL         string
	SubmissionDescription string
}

// CompleteJobResult is returned to the caller on success.
type CompleteJobResult struct {
	TransactionHash string
	ExplorerLink    string
}

// CompletionService runs the job payout flow: validate the recipient
// address, load the job, resolve the operating wallet, transfer the payment
// amount and commit the result.
type CompletionService struct {
	store         JobStore
	gateway       Gateway
	events        EventPublisher
	operatorEmail string
	logger        *slog.Logger
}

// NewCompletionService creates a CompletionService. events may be nil when
// no broker is configured.
func NewCompletionService(store JobStore, gateway Gateway, events EventPublisher, operatorEmail string, logger *slog.Logger) *CompletionService {
	return &CompletionService{
		store:         store,
		gateway:       gateway,
		events:        events,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

// Complete pays out a job to the given recipient address. The payment amount
// is the job's stored decimal string, passed through unmodified.
//
// Known gap: if the transfer succeeds but the commit fails, funds have moved
// while the job stays active with no transaction record. There is no
// compensating transaction; the error is surfaced to the caller instead.
func (s *CompletionService) Complete(ctx context.Context, input *CompleteJobInput) (*CompleteJobResult, error) {
	if !payment.IsValidEVMAddress(input.WalletAddress) {
		metrics.CompletionsTotal.WithLabelValues("invalid_address").Inc()
		return nil, domain.ErrInvalidAddress
	}

	job, err := s.store.GetJobByID(ctx, input.JobID)
	if err != nil {
		metrics.CompletionsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}
	if job.Status != domain.JobStatusActive {
		metrics.CompletionsTotal.WithLabelValues("already_completed").Inc()
		return nil, domain.ErrJobAlreadyCompleted
	}

	operatorWallet, err := s.gateway.ResolveWallet(ctx, s.operatorEmail)
	if err != nil {
		metrics.CompletionsTotal.WithLabelValues("gateway_error").Inc()
		return nil, fmt.Errorf("failed to resolve operating wallet: %w", err)
	}

	transfer, err := s.gateway.Transfer(ctx, s.operatorEmail, input.WalletAddress, job.PaymentAmount)
	if err != nil {
		metrics.CompletionsTotal.WithLabelValues("transfer_failed").Inc()
		return nil, err
	}

	completedAt := time.Now().UTC()

	rec := &storage.CompletionRecord{
		Recipient:             input.WalletAddress,
		SubmissionURL:         input.SubmissionURL,
		SubmissionDescription: input.SubmissionDescription,
		CompletedAt:           completedAt,
		Transaction: &model.Transaction{
			JobID:           job.ID,
			FromAddress:     operatorWallet.Address,
			ToAddress:       input.WalletAddress,
			Amount:          job.PaymentAmount, // copied, never parsed
			TransactionHash: transfer.Hash,
			ExplorerLink:    sql.NullString{String: transfer.ExplorerLink, Valid: transfer.ExplorerLink != ""},
			Status:          domain.TransactionStatusCompleted,
			CreatedAt:       completedAt,
		},
	}

	if err := s.store.CommitCompletion(ctx, job.ID, rec); err != nil {
		metrics.CompletionsTotal.WithLabelValues("commit_failed").Inc()
		// Funds have already moved at this point. There is no compensating
		// transaction; surface the error and leave reconciliation manual.
		s.logger.Error("Transfer sent but completion commit failed",
			slog.Int64("job_id", job.ID),
			slog.String("tx_hash", transfer.Hash),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.publishCompleted(ctx, job, input.WalletAddress, transfer, completedAt)

	metrics.CompletionsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Job completed",
		slog.Int64("job_id", job.ID),
		slog.String("recipient", input.WalletAddress),
		slog.String("amount", job.PaymentAmount),
		slog.String("tx_hash", transfer.Hash),
	)

	return &CompleteJobResult{
		TransactionHash: transfer.Hash,
		ExplorerLink:    transfer.ExplorerLink,
	}, nil
}

// publishCompleted emits the completion event, best effort. A broker outage
// never fails a completed payout.
func (s *CompletionService) publishCompleted(ctx context.Context, job *model.Job, recipient string, transfer *payment.TransferResult, completedAt time.Time) {
	if s.events == nil {
		return
	}

	event := &JobCompletedEvent{
		JobID:           job.ID,
		ToAddress:       recipient,
		Amount:          job.PaymentAmount,
		TransactionHash: transfer.Hash,
		ExplorerLink:    transfer.ExplorerLink,
		CompletedAt:     completedAt.Format(time.RFC3339),
	}

	if err := s.events.PublishJobCompleted(ctx, event); err != nil {
		s.logger.Warn("Failed to publish completion event",
			slog.Int64("job_id", job.ID),
			slog.Any("error", err),
		)
	}
}
