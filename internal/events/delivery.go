package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/caramelohq/grooming-platform/pkg/logging"
)

// sqsAPI is the slice of the SQS client the handler uses.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// envelope is the wire shape of a delivered event.
type envelope struct {
	ID      string          `json:"id"`
	OrgID   string          `json:"org_id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SQSHandler publishes outbox entries onto an SQS queue.
type SQSHandler struct {
	client   sqsAPI
	queueURL string
}

// NewSQSHandler creates an SQS-backed delivery handler.
func NewSQSHandler(client *sqs.Client, queueURL string) *SQSHandler {
	if client == nil {
		panic("events: SQS client required")
	}
	if queueURL == "" {
		panic("events: SQS queue URL required")
	}
	return &SQSHandler{client: client, queueURL: queueURL}
}

// NewSQSHandlerWithAPI allows injecting a mock SQS client for testing.
func NewSQSHandlerWithAPI(client sqsAPI, queueURL string) *SQSHandler {
	return &SQSHandler{client: client, queueURL: queueURL}
}

func (h *SQSHandler) Handle(ctx context.Context, entry OutboxEntry) error {
	body, err := json.Marshal(envelope{
		ID:      entry.ID.String(),
		OrgID:   entry.OrgID,
		Type:    entry.Type,
		Payload: entry.Payload,
	})
	if err != nil {
		return fmt.Errorf("events: marshal envelope: %w", err)
	}
	_, err = h.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(h.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("events: send SQS message: %w", err)
	}
	return nil
}

// LogHandler is the delivery handler used when no queue is configured. It
// marks entries delivered after writing them to the log.
type LogHandler struct {
	logger *logging.Logger
}

func NewLogHandler(logger *logging.Logger) *LogHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogHandler{logger: logger}
}

func (h *LogHandler) Handle(_ context.Context, entry OutboxEntry) error {
	h.logger.Info("appointment event", "event_id", entry.ID, "type", entry.Type, "org_id", entry.OrgID)
	return nil
}
