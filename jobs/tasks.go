// Package jobs defines the background task types and the Asynq worker glue.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendReceipt is the task type for purchase receipt emails.
	TaskTypeSendReceipt = "mail:receipt"
	// TaskTypeCatalogStats is the task type for catalog aggregate refresh.
	TaskTypeCatalogStats = "catalog:refresh_stats"
)

// SendReceiptPayload describes a purchase receipt email.
type SendReceiptPayload struct {
	To           string `json:"to"`
	ContentTitle string `json:"content_title"`
	AmountCents  int64  `json:"amount_cents"`
}

// NewSendReceiptTask constructs an Asynq task for a receipt email.
func NewSendReceiptTask(payload SendReceiptPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendReceipt, data), nil
}

// HandleSendReceiptTask processes TaskTypeSendReceipt tasks.
func HandleSendReceiptTask(ctx context.Context, t *asynq.Task) error {
	var payload SendReceiptPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// TODO: wire the SMTP relay once the provider account is provisioned.
	fmt.Printf("[jobs] send receipt to %s for %q (%d cents)\n",
		payload.To, payload.ContentTitle, payload.AmountCents)
	return nil
}

// NewCatalogStatsTask constructs the periodic stats refresh task.
func NewCatalogStatsTask() *asynq.Task {
	return asynq.NewTask(TaskTypeCatalogStats, nil)
}
