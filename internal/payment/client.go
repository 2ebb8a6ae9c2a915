package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paelladev/gigboard-be/internal/metrics"
)

const (
	stagingBaseURL    = "https://staging.crossmint.com/api/2025-06-09"
	productionBaseURL = "https://www.crossmint.com/api/2025-06-09"

	stagingKeyPrefix = "sk_staging_"
)

var (
	// ErrGatewayUnavailable is returned when the provider cannot be reached
	// or rejects the API credentials
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// TransferError is returned when the provider rejects the initial transfer
// submission. Polling failures never produce it.
type TransferError struct {
	Message string
}

func (e *TransferError) Error() string {
	return "transfer rejected: " + e.Message
}

// Config holds payment gateway client settings
type Config struct {
	APIKey          string
	BaseURL         string // derived from the API key prefix when empty
	Chain           string // e.g. base-sepolia
	Token           string // e.g. usdc
	ExplorerURL     string // block explorer tx URL prefix
	PollInterval    time.Duration
	PollMaxAttempts int
	RequestTimeout  time.Duration
}

// Wallet is a provider-resolved custodial wallet handle. It is never
// persisted; the provider is the source of truth.
type Wallet struct {
	Address   string
	Chain     string
	PublicKey string
}

// TokenBalance is a single token balance entry
type TokenBalance struct {
	Amount   string
	Symbol   string
	Decimals int
}

// TransferResult carries the outcome of a transfer submission. Hash may be
// the provisional operation identifier if the on-chain id never appeared
// within the poll budget.
type TransferResult struct {
	Hash         string
	ExplorerLink string
}

// Client is an HTTP client for the Crossmint wallet API
type Client struct {
	config  *Config
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a new payment gateway client. The staging or production
// base URL is selected by the API key prefix unless overridden in config.
func NewClient(config *Config, logger *slog.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		if strings.HasPrefix(config.APIKey, stagingKeyPrefix) {
			baseURL = stagingBaseURL
		} else {
			baseURL = productionBaseURL
		}
	}

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		config:  config,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// walletLocator builds the provider's owner-identity locator for EVM wallets.
func (c *Client) walletLocator(email string) string {
	return "email:" + email + ":evm"
}

// do performs a request against the provider and returns the status code and
// raw body. Transport failures and rejected credentials surface as
// ErrGatewayUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("X-API-KEY", c.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return resp.StatusCode, data, fmt.Errorf("%w: credentials rejected (status %d)", ErrGatewayUnavailable, resp.StatusCode)
	}

	return resp.StatusCode, data, nil
}

// providerMessage extracts the provider's error message from a response body.
func providerMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if msg := strings.TrimSpace(string(data)); msg != "" {
		return msg
	}
	return "unknown provider error"
}

type walletResponse struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// ResolveWallet fetches the wallet bound to the owner email on the target
// chain, creating it when the provider reports it missing.
func (c *Client) ResolveWallet(ctx context.Context, email string) (*Wallet, error) {
	locator := url.PathEscape(c.walletLocator(email))

	status, body, err := c.do(ctx, http.MethodGet, "/wallets/"+locator, nil)
	if err != nil {
		return nil, err
	}

	if status == http.StatusOK {
		var existing walletResponse
		if err := json.Unmarshal(body, &existing); err == nil && existing.Address != "" {
			return &Wallet{
				Address:   existing.Address,
				Chain:     c.config.Chain,
				PublicKey: existing.PublicKey,
			}, nil
		}
	} else if status != http.StatusNotFound {
		c.logger.Warn("Unexpected status checking existing wallet",
			slog.Int("status", status),
			slog.String("message", providerMessage(body)),
		)
	}

	createBody := map[string]any{
		"chainType": "evm",
		"type":      "smart",
		"config": map[string]any{
			"adminSigner": map[string]any{
				"type": "api-key",
			},
		},
		"owner": "email:" + email,
	}

	status, body, err = c.do(ctx, http.MethodPost, "/wallets", createBody)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("failed to create wallet: %s", providerMessage(body))
	}

	var created walletResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode wallet response: %w", err)
	}

	c.logger.Info("Created custodial wallet",
		slog.String("address", created.Address),
		slog.String("chain", c.config.Chain),
	)

	return &Wallet{
		Address:   created.Address,
		Chain:     c.config.Chain,
		PublicKey: created.PublicKey,
	}, nil
}

type balanceEntry struct {
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	Amount   string `json:"amount"`
}

// Balance returns the owner wallet's stablecoin balance. Any provider
// failure degrades to a zero balance instead of an error so read paths stay
// available.
func (c *Client) Balance(ctx context.Context, email string) TokenBalance {
	zero := TokenBalance{Amount: "0", Symbol: "USDC", Decimals: 6}

	locator := url.PathEscape(c.walletLocator(email))
	path := fmt.Sprintf("/wallets/%s/balances?tokens=%s,eth&chains=%s",
		locator, c.config.Token, c.config.Chain)

	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil || status != http.StatusOK {
		c.logger.Warn("Failed to get wallet balance, returning zero",
			slog.Int("status", status),
			slog.Any("error", err),
		)
		metrics.BalanceDegrades.Inc()
		return zero
	}

	var entries []balanceEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		c.logger.Warn("Failed to decode balance response, returning zero",
			slog.Any("error", err),
		)
		metrics.BalanceDegrades.Inc()
		return zero
	}

	for _, entry := range entries {
		if strings.EqualFold(entry.Symbol, "usdc") {
			return TokenBalance{
				Amount:   entry.Amount,
				Symbol:   entry.Symbol,
				Decimals: entry.Decimals,
			}
		}
	}

	return zero
}

type transferResponse struct {
	ID      string `json:"id"`
	OnChain struct {
		TxID              string `json:"txId"`
		UserOperationHash string `json:"userOperationHash"`
		ExplorerLink      string `json:"explorerLink"`
	} `json:"onChain"`
}

// Transfer submits a stablecoin transfer from the owner's wallet and polls
// the transfer-status endpoint until a finalized transaction id appears or
// the attempt budget is spent. Exhausting the budget is not an error: the
// provisional operation identifier is recorded instead.
func (c *Client) Transfer(ctx context.Context, fromEmail, toAddress, amount string) (*TransferResult, error) {
	locator := url.PathEscape(c.walletLocator(fromEmail))
	tokenLocator := c.config.Chain + ":" + c.config.Token
	path := fmt.Sprintf("/wallets/%s/tokens/%s/transfers", locator, tokenLocator)

	submitBody := map[string]any{
		"recipient": toAddress,
		"amount":    amount,
	}

	status, body, err := c.do(ctx, http.MethodPost, path, submitBody)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &TransferError{Message: providerMessage(body)}
	}

	var submitted transferResponse
	if err := json.Unmarshal(body, &submitted); err != nil {
		return nil, &TransferError{Message: "invalid transfer response: " + err.Error()}
	}

	c.logger.Info("Transfer submitted",
		slog.String("transfer_id", submitted.ID),
		slog.String("recipient", toAddress),
		slog.String("amount", amount),
	)

	// The transfer is already in flight from here on: polling may be cut
	// short by cancellation or the attempt budget, but the call still
	// returns a result so the payout gets recorded.
	txHash := submitted.OnChain.TxID
	attempts := 0

poll:
	for txHash == "" && attempts < c.config.PollMaxAttempts {
		select {
		case <-ctx.Done():
			break poll
		case <-time.After(c.config.PollInterval):
		}
		attempts++

		statusPath := fmt.Sprintf("/wallets/%s/transfers/%s", locator, submitted.ID)
		pollStatus, pollBody, pollErr := c.do(ctx, http.MethodGet, statusPath, nil)
		if pollErr != nil || pollStatus != http.StatusOK {
			// Transient poll failures are retried within the budget, never fatal.
			c.logger.Warn("Error polling transfer status",
				slog.Int("attempt", attempts),
				slog.Int("status", pollStatus),
				slog.Any("error", pollErr),
			)
			continue
		}

		var polled transferResponse
		if err := json.Unmarshal(pollBody, &polled); err != nil {
			c.logger.Warn("Failed to decode transfer status",
				slog.Int("attempt", attempts),
				slog.Any("error", err),
			)
			continue
		}

		txHash = polled.OnChain.TxID
		c.logger.Debug("Transfer status poll",
			slog.Int("attempt", attempts),
			slog.String("tx_hash", txHash),
		)
	}

	metrics.TransferPollAttempts.Observe(float64(attempts))

	if txHash == "" {
		c.logger.Warn("No finalized transaction id within poll budget, using provisional id",
			slog.Int("attempts", attempts),
		)
		txHash = submitted.OnChain.UserOperationHash
	}
	if txHash == "" {
		txHash = "pending"
	}

	explorerLink := submitted.OnChain.ExplorerLink
	if explorerLink == "" {
		explorerLink = c.config.ExplorerURL + txHash
	}

	return &TransferResult{
		Hash:         txHash,
		ExplorerLink: explorerLink,
	}, nil
}
