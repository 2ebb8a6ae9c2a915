package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paelladev/gigboard-be/internal/api/domain"
	"github.com/paelladev/gigboard-be/internal/api/model"
	"github.com/paelladev/gigboard-be/internal/api/storage"
	"github.com/paelladev/gigboard-be/internal/payment"
)

const (
	operatorEmail = "ops@example.com"
	recipient     = "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0"
)

type fakeStore struct {
	job       *model.Job
	getErr    error
	commitErr error

	getCalls    int
	commitCalls int
	committed   *storage.CompletionRecord
}

func (s *fakeStore) GetJobByID(ctx context.Context, jobID int64) (*model.Job, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.job, nil
}

func (s *fakeStore) CommitCompletion(ctx context.Context, jobID int64, rec *storage.CompletionRecord) error {
	s.commitCalls++
	s.committed = rec
	return s.commitErr
}

type fakeGateway struct {
	wallet      *payment.Wallet
	resolveErr  error
	transfer    *payment.TransferResult
	transferErr error

	resolveCalls      int
	transferCalls     int
	transferredTo     string
	transferredAmount string
}

func (g *fakeGateway) ResolveWallet(ctx context.Context, email string) (*payment.Wallet, error) {
	g.resolveCalls++
	if g.resolveErr != nil {
		return nil, g.resolveErr
	}
	return g.wallet, nil
}

func (g *fakeGateway) Balance(ctx context.Context, email string) payment.TokenBalance {
	return payment.TokenBalance{Amount: "0", Symbol: "USDC", Decimals: 6}
}

func (g *fakeGateway) Transfer(ctx context.Context, fromEmail, toAddress, amount string) (*payment.TransferResult, error) {
	g.transferCalls++
	g.transferredTo = toAddress
	g.transferredAmount = amount
	if g.transferErr != nil {
		return nil, g.transferErr
	}
	return g.transfer, nil
}

type fakeEvents struct {
	err    error
	events []*JobCompletedEvent
}

func (e *fakeEvents) PublishJobCompleted(ctx context.Context, event *JobCompletedEvent) error {
	e.events = append(e.events, event)
	return e.err
}

func activeJob() *model.Job {
	return &model.Job{
		ID:            1,
		Title:         "Build a Modern E-commerce Landing Page",
		PaymentAmount: "150",
		Status:        domain.JobStatusActive,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func newService(store *fakeStore, gw *fakeGateway, events EventPublisher) *CompletionService {
	return NewCompletionService(store, gw, events, operatorEmail, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestComplete_InvalidAddressPerformsNoCalls(t *testing.T) {
	tests := []string{
		"",
		"invalid-address",
		"0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb",   // 39 hex digits
		"0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb00", // 41 hex digits
		"0x742d35Cc6634C0532925a3b844Bc9e7595f0bEzz",
	}

	for _, address := range tests {
		t.Run(address, func(t *testing.T) {
			store := &fakeStore{job: activeJob()}
			gw := &fakeGateway{}
			svc := newService(store, gw, nil)

			_, err := svc.Complete(context.Background(), &CompleteJobInput{
				JobID:         1,
				WalletAddress: address,
			})

			assert.ErrorIs(t, err, domain.ErrInvalidAddress)
			assert.Zero(t, store.getCalls)
			assert.Zero(t, store.commitCalls)
			assert.Zero(t, gw.resolveCalls)
			assert.Zero(t, gw.transferCalls)
		})
	}
}

func TestComplete_JobNotFound(t *testing.T) {
	store := &fakeStore{getErr: domain.ErrJobNotFound}
	gw := &fakeGateway{}
	svc := newService(store, gw, nil)

	_, err := svc.Complete(context.Background(), &CompleteJobInput{
		JobID:         42,
		WalletAddress: recipient,
	})

	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	assert.Zero(t, gw.transferCalls)
}

func TestComplete_AlreadyCompleted(t *testing.T) {
	job := activeJob()
	job.Status = domain.JobStatusCompleted
	store := &fakeStore{job: job}
	gw := &fakeGateway{}
	svc := newService(store, gw, nil)

	_, err := svc.Complete(context.Background(), &CompleteJobInput{
		JobID:         1,
		WalletAddress: recipient,
	})

	assert.ErrorIs(t, err, domain.ErrJobAlreadyCompleted)
	assert.Zero(t, gw.resolveCalls)
	assert.Zero(t, gw.transferCalls)
	assert.Zero(t, store.commitCalls)
}

func TestComplete_Success(t *testing.T) {
	store := &fakeStore{job: activeJob()}
	gw := &fakeGateway{
		wallet: &payment.Wallet{Address: "0x1111111111111111111111111111111111111111", Chain: "base-sepolia"},
		transfer: &payment.TransferResult{
			Hash:         "0xabc",
			ExplorerLink: "https://sepolia.basescan.org/tx/0xabc",
		},
	}
	events := &fakeEvents{}
	svc := newService(store, gw, events)

	result, err := svc.Complete(context.Background(), &CompleteJobInput{
		JobID:                 1,
		WalletAddress:         recipient,
		SubmissionURL:         "https://github.com/user/awesome-project",
		SubmissionDescription: "Completed the landing page",
	})

	require.NoError(t, err)
	assert.Equal(t, "0xabc", result.TransactionHash)
	assert.Equal(t, "https://sepolia.basescan.org/tx/0xabc", result.ExplorerLink)

	assert.Equal(t, recipient, gw.transferredTo)
	assert.Equal(t, "150", gw.transferredAmount)

	require.Equal(t, 1, store.commitCalls)
	rec := store.committed
	assert.Equal(t, recipient, rec.Recipient)
	assert.Equal(t, "https://github.com/user/awesome-project", rec.SubmissionURL)
	assert.Equal(t, "Completed the landing page", rec.SubmissionDescription)

	tx := rec.Transaction
	assert.Equal(t, int64(1), tx.JobID)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", tx.FromAddress)
	assert.Equal(t, recipient, tx.ToAddress)
	assert.Equal(t, "150", tx.Amount) // exactly the stored string
	assert.Equal(t, "0xabc", tx.TransactionHash)
	assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)

	require.Len(t, events.events, 1)
	assert.Equal(t, "0xabc", events.events[0].TransactionHash)
}

func TestComplete_AmountPassedThroughVerbatim(t *testing.T) {
	job := activeJob()
	job.PaymentAmount = "150.000000000000000001"
	store := &fakeStore{job: job}
	gw := &fakeGateway{
		wallet:   &payment.Wallet{Address: "0x1111111111111111111111111111111111111111"},
		transfer: &payment.TransferResult{Hash: "0xabc"},
	}
	svc := newService(store, gw, nil)

	_, err := svc.Complete(context.Background(), &CompleteJobInput{
		JobID:         1,
		WalletAddress: recipient,
	})

	require.NoError(t, err)
	assert.Equal(t, "150.000000000000000001", gw.transferredAmount)
	assert.Equal(t, "150.000000000000000001", store.committed.Transaction.Amount)
}

func TestComplete_ResolveWalletFailure(t *testing.T) {
	store := &fakeStore{job: activeJob()}
	gw := &fakeGateway{resolveErr: payment.ErrGatewayUnavailable}
	svc := newService(store, gw, nil)

	_, err := svc.Complete(context.Background(), &CompleteJobInput{
		JobID:         1,
		WalletAddress: recipient,
	})

	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
	assert.Zero(t, gw.transferCalls)
	assert.Zero(t, store.commitCalls)
}

func TestComplete_TransferRejectedLeavesJobUncommitted(t *testing.T) {
	store := &fakeStore{job: activeJob()}
	gw := &fakeGateway{
		wallet:      &payment.Wallet{Address: "0x1111111111111111111111111111111111111111"},
		transferErr: &payment.TransferError{Message: "insufficient funds"},
	}
	svc := newService(store, gw, nil)

	_, err := svc.Complete(context.Background(), &CompleteJobInput{
		JobID:         1,
		WalletAddress: recipient,
	})

	var transferErr *payment.TransferError
	require.True(t, errors.As(err, &transferErr))
	assert.Zero(t, store.commitCalls)
}

func TestComplete_CommitGuardLostRace(t *testing.T) {
	store := &fakeStore{job: activeJob(), commitErr: domain.ErrJobAlreadyCompleted}
	gw := &fakeGateway{
		wallet:   &payment.Wallet{Address: "0x1111111111111111111111111111111111111111"},
		transfer: &payment.TransferResult{Hash: "0xabc"},
	}
	svc := newService(store, gw, nil)

	_, err := svc.Complete(context.Background(), &CompleteJobInput{
		JobID:         1,
		WalletAddress: recipient,
	})

	assert.ErrorIs(t, err, domain.ErrJobAlreadyCompleted)
}

func TestComplete_EventPublishFailureDoesNotFailPayout(t *testing.T) {
	store := &fakeStore{job: activeJob()}
	gw := &fakeGateway{
		wallet:   &payment.Wallet{Address: "0x1111111111111111111111111111111111111111"},
		transfer: &payment.TransferResult{Hash: "0xabc"},
	}
	events := &fakeEvents{err: errors.New("broker down")}
	svc := newService(store, gw, events)

	result, err := svc.Complete(context.Background(), &CompleteJobInput{
		JobID:         1,
		WalletAddress: recipient,
	})

	require.NoError(t, err)
	assert.Equal(t, "0xabc", result.TransactionHash)
}

func TestWalletSummary(t *testing.T) {
	gw := &fakeGateway{
		wallet: &payment.Wallet{Address: "0x1111111111111111111111111111111111111111", Chain: "base-sepolia"},
	}
	svc := NewWalletService(gw, operatorEmail, slog.New(slog.NewTextHandler(io.Discard, nil)))

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", summary.Address)
	assert.Equal(t, "base-sepolia", summary.Chain)
	assert.Equal(t, "0", summary.Balance)
	assert.Equal(t, "USDC", summary.Symbol)
}

func TestWalletSummary_ResolveFailure(t *testing.T) {
	gw := &fakeGateway{resolveErr: payment.ErrGatewayUnavailable}
	svc := NewWalletService(gw, operatorEmail, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
}
