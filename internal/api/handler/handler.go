package handler

import (
	"context"
	"log/slog"

	"github.com/paelladev/gigboard-be/internal/api/model"
	"github.com/paelladev/gigboard-be/internal/api/service"
	"github.com/paelladev/gigboard-be/shared/postgresql"
)

// JobReader is the read side of the job store used by handlers.
type JobReader interface {
	ListJobs(ctx context.Context) ([]model.Job, error)
	ListJobsByStatus(ctx context.Context, status string) ([]model.JobWithPayout, error)
	GetJobByID(ctx context.Context, jobID int64) (*model.Job, error)
	ListTransactionsByJob(ctx context.Context, jobID int64) ([]model.Transaction, error)
}

// Completer runs the job payout flow.
type Completer interface {
	Complete(ctx context.Context, input *service.CompleteJobInput) (*service.CompleteJobResult, error)
}

// WalletReader reads the operating wallet summary.
type WalletReader interface {
	Summary(ctx context.Context) (*service.WalletSummary, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger     *slog.Logger
	DBClient   *postgresql.Client
	Store      JobReader
	Completion Completer
	Wallet     WalletReader
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger     *slog.Logger
	store      JobReader
	completion Completer
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:     deps.Logger,
		store:      deps.Store,
		completion: deps.Completion,
	}
}

// WalletHandler handles operating-wallet HTTP requests
type WalletHandler struct {
	logger *slog.Logger
	wallet WalletReader
}

// NewWalletHandler creates a new WalletHandler instance
func NewWalletHandler(deps *Dependencies) *WalletHandler {
	return &WalletHandler{
		logger: deps.Logger,
		wallet: deps.Wallet,
	}
}
