package service

import (
	"context"
	"fmt"
	"log/slog"
)

// WalletSummary describes the operating wallet for display.
type WalletSummary struct {
	Address string
	Chain   string
	Balance string
	Symbol  string
}

// WalletService exposes read-only views of the operating wallet.
type WalletService struct {
	gateway       Gateway
	operatorEmail string
	logger        *slog.Logger
}

func NewWalletService(gateway Gateway, operatorEmail string, logger *slog.Logger) *WalletService {
	return &WalletService{
		gateway:       gateway,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

// Summary resolves the operating wallet and its stablecoin balance. The
// balance read degrades to zero on gateway failure; only wallet resolution
// can fail.
func (s *WalletService) Summary(ctx context.Context) (*WalletSummary, error) {
	wallet, err := s.gateway.ResolveWallet(ctx, s.operatorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve operating wallet: %w", err)
	}

	balance := s.gateway.Balance(ctx, s.operatorEmail)

	return &WalletSummary{
		Address: wallet.Address,
		Chain:   wallet.Chain,
		Balance: balance.Amount,
		Symbol:  balance.Symbol,
	}, nil
}
