// Package events publishes job lifecycle messages to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/paelladev/gigboard-be/internal/api/service"
	"github.com/paelladev/gigboard-be/shared/rabbitmq"
)

// Publisher emits completion events through the shared RabbitMQ client.
type Publisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

func NewPublisher(client *rabbitmq.Client, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// PublishJobCompleted publishes a job.completed event. Callers treat
// failures as non-fatal; the payout has already committed.
func (p *Publisher) PublishJobCompleted(ctx context.Context, event *service.JobCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode completion event: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish completion event: %w", err)
	}

	p.logger.Debug("Published completion event",
		slog.Int64("job_id", event.JobID),
		slog.String("tx_hash", event.TransactionHash),
	)

	return nil
}
