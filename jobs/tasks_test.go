package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
)

func TestSendReceiptTaskRoundTrip(t *testing.T) {
	task, err := NewSendReceiptTask(SendReceiptPayload{
		To:           "murid@test.local",
		ContentTitle: "Kalkulus Lanjut",
		AmountCents:  25000,
	})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if task.Type() != TaskTypeSendReceipt {
		t.Fatalf("unexpected type %q", task.Type())
	}
	if err := HandleSendReceiptTask(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestSendReceiptTaskBadPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(TaskTypeSendReceipt, []byte("{corrupt"))
	err := HandleSendReceiptTask(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("corrupt payload must skip retries, got %v", err)
	}
}

func TestCatalogStatsTaskType(t *testing.T) {
	if NewCatalogStatsTask().Type() != TaskTypeCatalogStats {
		t.Fatal("unexpected task type")
	}
}
